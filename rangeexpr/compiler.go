package rangeexpr

import "github.com/godental/diagnostics/cache"

// Compiler memoizes Parse results. Rule tables are immutable, so a
// given criterion string always compiles to the same expression; tables
// share many criteria ("Any", "<30", "1-2"), which makes even a small
// cache effective.
type Compiler struct {
	cache *cache.Cache[string, compiled]
}

type compiled struct {
	expr Expression
	err  error
}

// NewCompiler creates a compiler with a bounded parse cache.
func NewCompiler(capacity int) *Compiler {
	return &Compiler{cache: cache.New[string, compiled](capacity)}
}

// Compile parses input, reusing a previous result when available. The
// returned error is the original *ParseError for the string.
func (c *Compiler) Compile(input string) (Expression, error) {
	v := c.cache.GetOrCompute(input, func() compiled {
		expr, err := Parse(input)
		return compiled{expr: expr, err: err}
	})
	return v.expr, v.err
}

// Stats exposes the underlying cache counters.
func (c *Compiler) Stats() cache.Stats {
	return c.cache.Stats()
}
