// Command sdui validates, lints, renders and serves server-driven form
// schemas.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
)

// errChecksFailed marks a run whose lint or validation found errors. The
// findings were already printed.
var errChecksFailed = errors.New("checks failed")

type command struct {
	summary string
	run     func(ctx context.Context, env *cliEnv, args []string) error
}

var commands = map[string]command{
	"lint":     {"report schema problems", runLint},
	"validate": {"validate a values document against a schema", runValidate},
	"render":   {"render a schema with the html or tui renderer", runRender},
	"prompt":   {"fill a schema interactively in the terminal", runPrompt},
	"serve":    {"serve a schema directory over HTTP", runServe},
	"import":   {"convert an OpenAPI component schema into a form schema", runImport},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], nil, os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errChecksFailed):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "sdui: %v\n", err)
		os.Exit(1)
	}
}

// run parses global flags, sets up logging and dispatches to a subcommand.
// environ replaces the process environment when non-nil.
func run(ctx context.Context, args []string, environ map[string]string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(environ)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("sdui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text or json)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "also write logs to this rotated file")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fs.Usage()
		return fmt.Errorf("unknown command %q", name)
	}

	logger, closeLog, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(stderr, "sdui: close log: %v\n", err)
		}
	}()

	env := &cliEnv{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}
	return cmd.run(ctx, env, fs.Args()[1:])
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "Usage: sdui [flags] <command> [command flags]\n\nCommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-9s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(out, "\nFlags:\n")
	fs.PrintDefaults()
	fmt.Fprintf(out, "\nDefaults are read from %s* environment variables.\n", envPrefix)
}
