package main

import (
	"github.com/urfave/cli/v2"
)

// monkeyFlags holds the global command line flags.
type monkeyFlags struct {
	ConfigFilename string
	Strict         bool
	Backend        string
	Null           string
	NoColor        bool
	Verbosity      int
}

func (flags *monkeyFlags) AsCliFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Destination: &flags.ConfigFilename,
			Name:        "config",
			Usage:       "YAML config file. Defaults are used when empty.",
		},
		&cli.BoolFlag{
			Destination: &flags.Strict,
			Name:        "strict",
			Usage:       "Stop at the first evaluation error instead of skipping the statement.",
		},
		&cli.StringFlag{
			Destination: &flags.Backend,
			Name:        "backend",
			Usage:       "Evaluation backend, tree or vm. The vm backend implies --strict.",
		},
		&cli.StringFlag{
			Destination: &flags.Null,
			Name:        "null",
			Usage:       "How to print the null value. Overrides output.null.",
		},
		&cli.BoolFlag{
			Destination: &flags.NoColor,
			Name:        "no-color",
			Usage:       "Do not colorize diagnostics.",
		},
		&cli.IntFlag{
			Destination: &flags.Verbosity,
			Name:        "v",
			Usage:       "glog verbosity, 0 to 5. Overrides log.verbosity.",
		},
	}
}

// parseFlags holds the flags of the parse command.
type parseFlags struct {
	Dump bool
}

func (flags *parseFlags) AsCliFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Destination: &flags.Dump,
			Name:        "dump",
			Usage:       "Also print a dump of the syntax tree.",
		},
	}
}
