//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals cancel the run context.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
