// Package engine ties the scanner, parser and evaluator together.
package engine

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/agenthands/monkey/pkg/compiler/ast"
	"github.com/agenthands/monkey/pkg/compiler/emitter"
	"github.com/agenthands/monkey/pkg/compiler/lexer"
	"github.com/agenthands/monkey/pkg/compiler/parser"
	"github.com/agenthands/monkey/pkg/config"
	"github.com/agenthands/monkey/pkg/core/value"
	"github.com/agenthands/monkey/pkg/eval"
	"github.com/agenthands/monkey/pkg/vm"
)

var (
	ErrParse = errors.New("engine: parse failed")
	ErrEval  = errors.New("engine: evaluation failed")
)

// Result is the outcome of Run.
type Result struct {
	Program     *ast.Program
	Value       value.Value
	Diagnostics []parser.Diagnostic
	// Skipped holds the errors swallowed by lenient evaluation.
	Skipped error
}

// Format renders the result value with null as the Null sentinel.
func (r *Result) Format(null string) string {
	return r.Value.Format(null)
}

// Engine runs source text. It is not safe for concurrent use.
type Engine struct {
	cfg *config.Config
}

// New creates an engine. A nil cfg means config.Default(); any other cfg
// must pass Validate.
func New(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "engine")
	}
	return &Engine{cfg: cfg}, nil
}

func (e *Engine) Config() *config.Config { return e.cfg }

// Tokens scans src up to and including the EOF token.
func (e *Engine) Tokens(src string) []lexer.Token {
	s := lexer.NewScanner(src)
	var toks []lexer.Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == lexer.KindEOF {
			return toks
		}
	}
}

// Parse returns the program together with the parser's aggregated
// diagnostics. The program is never nil.
func (e *Engine) Parse(src string) (*ast.Program, error) {
	program, _, err := e.parse(src)
	return program, err
}

func (e *Engine) parse(src string) (*ast.Program, []parser.Diagnostic, error) {
	p := parser.New(lexer.NewScanner(src))
	program := p.ParseProgram()
	glog.V(1).Infof("engine: parsed %d statements, %d diagnostics", len(program.Statements), len(p.Diagnostics()))
	return program, p.Diagnostics(), p.Err()
}

// Compile parses src and emits bytecode for it.
func (e *Engine) Compile(src string) (*vm.Bytecode, error) {
	program, _, err := e.parse(src)
	if err != nil {
		return nil, &stageError{stage: ErrParse, err: err}
	}
	bc, err := emitter.NewEmitter().Emit(program)
	if err != nil {
		return nil, errors.Wrap(err, "engine: compile")
	}
	return bc, nil
}

// Run parses and evaluates src with the configured backend. Parse
// diagnostics stop before evaluation and yield an error matching ErrParse;
// evaluation failures in strict mode yield an error matching ErrEval. The
// Result is returned in both cases.
func (e *Engine) Run(src string) (*Result, error) {
	program, diags, err := e.parse(src)
	res := &Result{Program: program, Diagnostics: diags}
	if err != nil {
		return res, &stageError{stage: ErrParse, err: err}
	}

	if e.cfg.Eval.Backend == config.BackendVM {
		v, err := e.runVM(program)
		res.Value = v
		if err != nil {
			return res, &stageError{stage: ErrEval, err: err}
		}
		return res, nil
	}

	ev := eval.New(eval.WithStrict(e.cfg.Eval.Strict))
	v, err := ev.EvalProgram(program)
	res.Value = v
	res.Skipped = ev.Skipped()
	if err != nil {
		return res, &stageError{stage: ErrEval, err: err}
	}
	if res.Skipped != nil {
		glog.V(1).Infof("engine: lenient evaluation skipped: %v", res.Skipped)
	}
	return res, nil
}

func (e *Engine) runVM(program *ast.Program) (value.Value, error) {
	bc, err := emitter.NewEmitter().Emit(program)
	if err != nil {
		return value.Null(), errors.Wrap(err, "engine: compile")
	}
	glog.V(2).Infof("engine: bytecode\n%s", bc)

	m := vm.GetMachine()
	defer vm.PutMachine(m)
	m.Load(bc)
	if err := m.Run(e.cfg.VM.Gas); err != nil {
		return value.Null(), err
	}
	return m.Result(), nil
}

// stageError marks which stage failed while keeping the cause reachable.
type stageError struct {
	stage error
	err   error
}

func (s *stageError) Error() string { return errors.Wrap(s.err, s.stage.Error()).Error() }

func (s *stageError) Is(target error) bool { return target == s.stage }

func (s *stageError) Unwrap() error { return s.err }

func (s *stageError) Cause() error { return s.err }
