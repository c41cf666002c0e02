//go:build windows

package main

import "os"

// shutdownSignals cancel the run context.
// Note: SIGTERM is never delivered on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
