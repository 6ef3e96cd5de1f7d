// Package config loads interpreter settings from YAML.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/monkey/pkg/core/value"
)

// MaxVerbosity is the highest accepted log.verbosity.
const MaxVerbosity = 5

// Evaluation backends.
const (
	BackendTree = "tree"
	BackendVM   = "vm"
)

// DefaultGas bounds the instructions one vm run may execute.
const DefaultGas = 1_000_000

// Config holds the settings shared by the engine and the CLI.
type Config struct {
	Eval   EvalConfig   `yaml:"eval"`
	VM     VMConfig     `yaml:"vm"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

type EvalConfig struct {
	Strict  bool   `yaml:"strict"`
	Backend string `yaml:"backend"`
}

type VMConfig struct {
	Gas int `yaml:"gas"`
}

type OutputConfig struct {
	Null    string `yaml:"null_text"`
	Color   bool   `yaml:"color"`
	DumpAST bool   `yaml:"dump_ast"`
}

type LogConfig struct {
	Verbosity int `yaml:"verbosity"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Eval: EvalConfig{Backend: BackendTree},
		VM:   VMConfig{Gas: DefaultGas},
		Output: OutputConfig{
			Null:  value.DefaultNull,
			Color: true,
		},
	}
}

// ValidationError lists every invalid setting.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads path on top of Default. An empty path returns the defaults;
// unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: open %s", path)
	}
	defer f.Close()

	if err := cfg.decode(f); err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML from r on top of Default.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return nil, errors.Wrap(err, "config: parse")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	var errs ValidationError
	switch c.Eval.Backend {
	case BackendTree:
	case BackendVM:
		// The bytecode backend has no lenient mode.
		if !c.Eval.Strict {
			errs.Issues = append(errs.Issues, "eval.backend vm requires eval.strict: true")
		}
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("eval.backend must be %q or %q, got %q", BackendTree, BackendVM, c.Eval.Backend))
	}
	if c.VM.Gas <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("vm.gas must be positive, got %d", c.VM.Gas))
	}
	if c.Output.Null == "" {
		errs.Issues = append(errs.Issues, "output.null_text must be a non-empty string")
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > MaxVerbosity {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.verbosity must be between 0 and %d, got %d", MaxVerbosity, c.Log.Verbosity))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}
