package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/monkey/pkg/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "monkey.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.False(t, cfg.Eval.Strict)
	assert.Equal(t, config.BackendTree, cfg.Eval.Backend)
	assert.Equal(t, config.DefaultGas, cfg.VM.Gas)
	assert.Equal(t, "nil", cfg.Output.Null)
	assert.True(t, cfg.Output.Color)
	assert.False(t, cfg.Output.DumpAST)
	assert.Equal(t, 0, cfg.Log.Verbosity)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
eval:
  strict: true
  backend: vm
vm:
  gas: 500
output:
  null_text: "null"
  dump_ast: true
log:
  verbosity: 2
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	want := config.Default()
	want.Eval.Strict = true
	want.Eval.Backend = config.BackendVM
	want.VM.Gas = 500
	want.Output.Null = "null"
	want.Output.DumpAST = true
	want.Log.Verbosity = 2
	assert.Equal(t, want, cfg)
}

func TestLoadNullText(t *testing.T) {
	cfg, err := config.Load(writeFile(t, "output:\n  null_text: none\n"))
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Output.Null)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := config.Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
	assert.Contains(t, err.Error(), "config: open")
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := config.Load(writeFile(t, "output:\n  colour: false\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		issues []string
	}{
		{
			name:   "empty null sentinel",
			body:   "output:\n  null_text: \"\"\n",
			issues: []string{"output.null_text must be a non-empty string"},
		},
		{
			name:   "verbosity too high",
			body:   "log:\n  verbosity: 9\n",
			issues: []string{"log.verbosity must be between 0 and 5, got 9"},
		},
		{
			name:   "unknown backend",
			body:   "eval:\n  backend: jit\n",
			issues: []string{`eval.backend must be "tree" or "vm", got "jit"`},
		},
		{
			name:   "vm backend needs strict",
			body:   "eval:\n  backend: vm\n",
			issues: []string{"eval.backend vm requires eval.strict: true"},
		},
		{
			name:   "gas",
			body:   "vm:\n  gas: 0\n",
			issues: []string{"vm.gas must be positive, got 0"},
		},
		{
			name: "both",
			body: "output:\n  null_text: \"\"\nlog:\n  verbosity: -1\n",
			issues: []string{
				"output.null_text must be a non-empty string",
				"log.verbosity must be between 0 and 5, got -1",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse(strings.NewReader(tt.body))
			require.Error(t, err)

			var verr *config.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.issues, verr.Issues)
			assert.True(t, strings.HasPrefix(err.Error(), "config validation failed:"))
		})
	}
}
