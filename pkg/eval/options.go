package eval

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithStrict makes evaluation stop at the first error instead of skipping
// the failing statement.
func WithStrict(strict bool) Option {
	return func(e *Evaluator) {
		e.strict = strict
	}
}
