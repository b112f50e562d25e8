// Package cli holds the kong grammars of the data, file and network tools
// and the runner that turns an argument list into an exit code.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"github.com/mcncl/scriptkit/internal/config"
	"github.com/mcncl/scriptkit/internal/errors"
	"github.com/mcncl/scriptkit/internal/fsys"
	"github.com/mcncl/scriptkit/internal/log"
	"github.com/mcncl/scriptkit/internal/models"
	"github.com/mcncl/scriptkit/internal/parser"
)

// Version is printed by --version.
const Version = "0.1.0"

// Globals are the flags every tool accepts.
type Globals struct {
	Version kong.VersionFlag `help:"Show version information." short:"v"`
	Config  string           `help:"Path to a scriptkit config file. Defaults to the nearest .scriptkit.yml." type:"path" placeholder:"PATH"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
}

// RunContext is bound into every command's Run method.
type RunContext struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
	Config *config.Config
	FS     *fsys.FS
	// Color enables ANSI colouring of JSON output.
	Color bool
}

func (rc *RunContext) println(s string) {
	_, _ = fmt.Fprintln(rc.Stdout, s)
}

func (rc *RunContext) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(rc.Stdout, format, args...)
}

// printJSON writes v indented by two spaces.
func (rc *RunContext) printJSON(v models.Value) error {
	out, err := parser.Stringify(v, true)
	if err != nil {
		return err
	}
	if rc.Color {
		out = string(pretty.Color([]byte(out), nil))
	}
	rc.println(out)
	return nil
}

// Option customises a runner, mainly for tests.
type Option func(*options)

type options struct {
	fs afero.Fs
}

// WithFs replaces the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// exitSignal carries kong's requested exit code out of Parse.
type exitSignal int

type tool struct {
	name        string
	description string
	grammar     interface{}
	globals     *Globals
	// prepare adjusts the RunContext after the grammar is parsed.
	prepare func(rc *RunContext)
	// binds are extra values offered to Run methods.
	binds []interface{}
	// runsBare tools have a root Run method, so no arguments is not a
	// request for help.
	runsBare bool
}

// run parses args against t's grammar and runs the selected command. It is
// the only place a tool decides its exit code.
func (t tool) run(ctx context.Context, args []string, stdout, stderr io.Writer, opts []Option) (code int) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(args) == 0 && !t.runsBare {
		args = []string{"--help"}
	} else if len(args) > 0 && args[0] == "help" {
		args = append(append([]string{}, args[1:]...), "--help")
	}

	k, err := kong.New(t.grammar,
		kong.Name(t.name),
		kong.Description(t.description),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitSignal(c)) }),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": fmt.Sprintf("%s version %s", t.name, Version)},
	)
	if err != nil {
		printError(stderr, fmt.Errorf("failed to build %s command line: %w", t.name, err))
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(exitSignal)
			if !ok {
				panic(r)
			}
			code = int(sig)
		}
	}()

	kctx, err := k.Parse(args)
	if err != nil {
		printError(stderr, classifyParseError(err))
		_, _ = fmt.Fprintf(stderr, "For help, run: %s --help\n", t.name)
		return 1
	}

	cfg, err := config.Load(t.globals.Config, t.globals.Debug)
	if err != nil {
		printError(stderr, err)
		return 1
	}
	logger := log.Must(stderr, cfg.Log.Level)
	defer func() { _ = logger.Sync() }()

	rc := &RunContext{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
		Config: cfg,
	}
	if o.fs != nil {
		rc.FS = fsys.New(o.fs, logger)
	} else {
		rc.FS = fsys.NewOS(logger)
	}
	if t.prepare != nil {
		t.prepare(rc)
	}

	logger.Debug("dispatching command", zap.String("tool", t.name), zap.String("command", kctx.Command()))
	if err := kctx.Run(append([]interface{}{rc}, t.binds...)...); err != nil {
		logger.Debug("command failed", zap.Error(err))
		printError(stderr, err)
		return 1
	}
	return 0
}

// classifyParseError maps kong's grammar errors onto the error taxonomy.
func classifyParseError(err error) error {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "expected"), strings.HasPrefix(msg, "missing"):
		return errors.NewMissingArgumentError(msg, errors.ErrMissingArgument)
	case strings.HasPrefix(msg, "unexpected argument"):
		return errors.NewNotFoundError(msg, errors.ErrUnknownCommand)
	default:
		return errors.NewInvalidInputError(msg, nil)
	}
}

// printError writes the one-line form of err, in red when w is a terminal.
func printError(w io.Writer, err error) {
	c := color.New(color.FgRed)
	if w != os.Stderr {
		c.DisableColor()
	}
	_, _ = c.Fprintln(w, errors.UserFriendlyError(err))
}
