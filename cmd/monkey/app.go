package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/golang/glog"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/agenthands/monkey/pkg/compiler/parser"
	"github.com/agenthands/monkey/pkg/config"
	"github.com/agenthands/monkey/pkg/engine"
)

const (
	exitParse = 1
	exitEval  = 2
)

// session is the state shared by the commands of one app run.
type session struct {
	cfg    *config.Config
	engine *engine.Engine
	diag   *color.Color
}

func newApp(stdout, stderr io.Writer) *cli.App {
	var flags monkeyFlags
	var pflags parseFlags
	s := &session{}

	return &cli.App{
		Name:      "monkey",
		Usage:     "Monkey interpreter.",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     (&flags).AsCliFlags(),
		// Exit codes are mapped in main so the app can run in-process.
		ExitErrHandler: func(c *cli.Context, err error) {
			if msg := err.Error(); msg != "" {
				fmt.Fprintln(c.App.ErrWriter, msg)
			}
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(flags.ConfigFilename)
			if err != nil {
				return cli.Exit(err.Error(), exitEval)
			}
			if c.IsSet("backend") {
				cfg.Eval.Backend = flags.Backend
				if flags.Backend == config.BackendVM && !c.IsSet("strict") {
					cfg.Eval.Strict = true
				}
			}
			if c.IsSet("strict") {
				cfg.Eval.Strict = flags.Strict
			}
			if c.IsSet("null") {
				cfg.Output.Null = flags.Null
			}
			if flags.NoColor {
				cfg.Output.Color = false
			}
			if c.IsSet("v") {
				cfg.Log.Verbosity = flags.Verbosity
			}
			if err := cfg.Validate(); err != nil {
				return cli.Exit(err.Error(), exitEval)
			}
			if err := configureLogging(cfg.Log.Verbosity); err != nil {
				return cli.Exit(err.Error(), exitEval)
			}

			s.cfg = cfg
			if s.engine, err = engine.New(cfg); err != nil {
				return cli.Exit(err.Error(), exitEval)
			}
			s.diag = color.New(color.FgRed)
			if !cfg.Output.Color {
				s.diag.DisableColor()
			}
			glog.V(1).Infof("monkey: config %+v", *cfg)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Evaluate a file and print the result.",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					src, err := readSource(c)
					if err != nil {
						return err
					}
					return s.run(c, src)
				},
			},
			{
				Name:      "eval",
				Usage:     "Evaluate source given on the command line.",
				ArgsUsage: "EXPR...",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return cli.Exit("eval: missing EXPR", exitEval)
					}
					return s.run(c, strings.Join(c.Args().Slice(), " "))
				},
			},
			{
				Name:      "parse",
				Usage:     "Print the parsed program in canonical form.",
				ArgsUsage: "FILE",
				Flags:     (&pflags).AsCliFlags(),
				Action: func(c *cli.Context) error {
					src, err := readSource(c)
					if err != nil {
						return err
					}
					return s.parse(c, src, pflags.Dump || s.cfg.Output.DumpAST)
				},
			},
			{
				Name:      "compile",
				Usage:     "Print the bytecode of a file.",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					src, err := readSource(c)
					if err != nil {
						return err
					}
					return s.compile(c, src)
				},
			},
			{
				Name:      "tokens",
				Usage:     "Print the token stream as a table.",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					src, err := readSource(c)
					if err != nil {
						return err
					}
					s.tokens(c.App.Writer, src)
					return nil
				},
			},
		},
	}
}

// configureLogging points glog at stderr with the given verbosity.
func configureLogging(verbosity int) error {
	if err := flag.Set("logtostderr", "true"); err != nil {
		return errors.Wrap(err, "configure logging")
	}
	if err := flag.Set("v", strconv.Itoa(verbosity)); err != nil {
		return errors.Wrap(err, "configure logging")
	}
	return nil
}

func readSource(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(fmt.Sprintf("%s: expected exactly one FILE argument", c.Command.Name), exitEval)
	}
	path := c.Args().First()
	b, err := os.ReadFile(path)
	if err != nil {
		return "", cli.Exit(errors.Wrapf(err, "read %s", path).Error(), exitEval)
	}
	return string(b), nil
}

func (s *session) printDiagnostics(w io.Writer, diags []parser.Diagnostic) {
	for i := range diags {
		s.diag.Fprintln(w, diags[i].Error())
	}
}

func (s *session) run(c *cli.Context, src string) error {
	res, err := s.engine.Run(src)
	if err != nil {
		if errors.Is(err, engine.ErrParse) {
			s.printDiagnostics(c.App.ErrWriter, res.Diagnostics)
			return cli.Exit("", exitParse)
		}
		glog.V(1).Infof("monkey: %v", err)
		s.diag.Fprintln(c.App.ErrWriter, err.Error())
		return cli.Exit("", exitEval)
	}
	fmt.Fprintln(c.App.Writer, res.Format(s.cfg.Output.Null))
	return nil
}

func (s *session) parse(c *cli.Context, src string, dump bool) error {
	program, err := s.engine.Parse(src)
	fmt.Fprintln(c.App.Writer, program.String())
	if dump {
		cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true, DisableCapacities: true}
		cfg.Fdump(c.App.Writer, program)
	}
	if err != nil {
		s.printDiagnostics(c.App.ErrWriter, diagnosticsOf(err))
		return cli.Exit("", exitParse)
	}
	return nil
}

// diagnosticsOf extracts the parser diagnostics aggregated in err.
func diagnosticsOf(err error) []parser.Diagnostic {
	var diags []parser.Diagnostic
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			var d *parser.Diagnostic
			if errors.As(e, &d) {
				diags = append(diags, *d)
			}
		}
	}
	return diags
}

func (s *session) compile(c *cli.Context, src string) error {
	bc, err := s.engine.Compile(src)
	if err != nil {
		if errors.Is(err, engine.ErrParse) {
			s.printDiagnostics(c.App.ErrWriter, diagnosticsOf(err))
			return cli.Exit("", exitParse)
		}
		return cli.Exit(err.Error(), exitEval)
	}
	fmt.Fprint(c.App.Writer, bc.String())
	return nil
}

func (s *session) tokens(w io.Writer, src string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Kind", "Literal", "Position"})
	for _, tok := range s.engine.Tokens(src) {
		table.Append([]string{
			tok.Kind.String(),
			strconv.Quote(tok.Literal),
			fmt.Sprintf("%d:%d", tok.Line, tok.Column),
		})
	}
	table.Render()
}
