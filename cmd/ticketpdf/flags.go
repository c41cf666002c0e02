package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// cliFlags holds every command-line flag. Layout and output flags override
// the config file only when set explicitly.
type cliFlags struct {
	config  string
	quiet   bool
	verbose bool
	resume  bool
	version bool

	total       int
	batchSize   int
	pageSize    int
	output      string
	engine      string
	compression string

	changed func(name string) bool
}

// parseFlags parses args (including the program name). Positional
// arguments are rejected.
func parseFlags(args []string) (*cliFlags, error) {
	fs := flag.NewFlagSet("ticketpdf", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show warnings and errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.BoolVar(&f.resume, "resume", false, "skip batches recorded in the output checkpoint")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.IntVarP(&f.total, "total", "n", 0, "number of tickets (ids 1..n)")
	fs.IntVar(&f.batchSize, "batch-size", 0, "tickets per archive")
	fs.IntVar(&f.pageSize, "page-size", 0, "tickets per page")
	fs.StringVarP(&f.output, "output", "o", "", "archive directory")
	fs.StringVar(&f.engine, "engine", "", "render engine: rod, chromedp")
	fs.StringVar(&f.compression, "compression", "", "archive compression: zstd, gzip, optimize, none")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ticketpdf [flags]\n\nGenerates numbered QR tickets as batched PDF archives.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if len(args) > 0 {
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}

	f.changed = fs.Changed
	return f, nil
}

// set reports whether name was given on the command line.
func (f *cliFlags) set(name string) bool {
	return f.changed != nil && f.changed(name)
}
