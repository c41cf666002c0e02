package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	flags, err := parseFlags(os.Args)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(ExitSuccess)
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		os.Exit(ExitUsage)
	}

	logger := newLogger(env.Stderr, flags.verbose, flags.quiet)

	// Configure GOMAXPROCS before worker counts are resolved.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug().Msgf(format, args...)
	}))

	ctx, stop := notifyContext(context.Background())
	err = run(ctx, flags, env, logger)
	stop()

	if err != nil {
		ev := logger.Error().Err(err)
		if hint := hintFor(err); hint != "" {
			ev = ev.Str("hint", hint)
		}
		ev.Msg("run failed")
		os.Exit(exitCodeFor(err))
	}
}
