// Package rangeexpr parses and evaluates the textual numeric-criterion
// grammar used by rule tables: "Any", "3", ">6", "≥30%", "<-12", "4-5",
// "-1 to -2", "5+". Evaluation is a pure boolean membership test.
//
// The hyphen is both the negative sign and the range separator, which
// makes strings like "-1-2" lexically ambiguous. The grammar resolves
// this by fiat: a range with a negative lower bound is only expressible
// with the "A to B" form, and anything else that mixes a leading sign
// with a second hyphen is rejected at parse time. Unrecognized strings
// fail closed: they never match.
package rangeexpr

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies the grammar form an expression was parsed from.
type Kind int

// Expression kinds.
const (
	// KindAny always matches.
	KindAny Kind = iota
	// KindExact matches a single numeric literal.
	KindExact
	// KindGreaterThan matches values strictly above the bound.
	KindGreaterThan
	// KindAtLeast matches values at or above the bound (">=", "≥", "N+").
	KindAtLeast
	// KindLessThan matches values strictly below the bound.
	KindLessThan
	// KindAtMost matches values at or below the bound ("<=", "≤").
	KindAtMost
	// KindBetween matches an inclusive range ("A-B", "A to B").
	KindBetween
)

// ParseError reports a criterion string outside the grammar.
type ParseError struct {
	// Input is the offending string as given.
	Input string
	// Reason describes what made it unparseable.
	Reason string
	// Ambiguous marks the negative-sign/range-separator collision case
	// ("-1-2"), which table curators must rewrite in "A to B" form.
	Ambiguous bool
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("range expression %q: %s", e.Input, e.Reason)
}

// Expression is a parsed numeric criterion. The zero value never
// matches anything; use Parse or MustParse to obtain a usable one.
type Expression struct {
	raw   string
	kind  Kind
	valid bool
	lo    decimal.Decimal // bound for single-bound kinds; lower bound for KindBetween
	hi    decimal.Decimal // upper bound for KindBetween only
}

// Parse parses a criterion string. Percent signs are cosmetic and
// stripped before numeric parsing; "Any" is case-insensitive.
func Parse(input string) (Expression, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Expression{raw: input}, &ParseError{Input: input, Reason: "empty criterion"}
	}
	if strings.EqualFold(s, "any") {
		return Expression{raw: input, kind: KindAny, valid: true}, nil
	}

	s = strings.ReplaceAll(s, "%", "")
	s = strings.TrimSpace(s)

	// Exact literal, including single negative literals like "-5".
	if n, err := decimal.NewFromString(s); err == nil {
		return Expression{raw: input, kind: KindExact, valid: true, lo: n}, nil
	}

	// Comparator prefixes. The two-rune forms go first.
	for _, p := range []struct {
		prefix string
		kind   Kind
	}{
		{">=", KindAtLeast},
		{"≥", KindAtLeast},
		{"<=", KindAtMost},
		{"≤", KindAtMost},
		{">", KindGreaterThan},
		{"<", KindLessThan},
	} {
		rest, ok := strings.CutPrefix(s, p.prefix)
		if !ok {
			continue
		}
		n, err := decimal.NewFromString(strings.TrimSpace(rest))
		if err != nil {
			return Expression{raw: input}, &ParseError{Input: input, Reason: fmt.Sprintf("bad threshold after %q", p.prefix)}
		}
		return Expression{raw: input, kind: p.kind, valid: true, lo: n}, nil
	}

	// "A to B": the only form that can carry a negative lower bound.
	if lhs, rhs, ok := strings.Cut(s, " to "); ok {
		a, errA := decimal.NewFromString(strings.TrimSpace(lhs))
		b, errB := decimal.NewFromString(strings.TrimSpace(rhs))
		if errA != nil || errB != nil {
			return Expression{raw: input}, &ParseError{Input: input, Reason: "bad bound in 'A to B' range"}
		}
		if a.GreaterThan(b) {
			a, b = b, a
		}
		return Expression{raw: input, kind: KindBetween, valid: true, lo: a, hi: b}, nil
	}

	// Trailing "+": open-ended floor, e.g. "-5+" or "30+".
	if body, ok := strings.CutSuffix(s, "+"); ok {
		n, err := decimal.NewFromString(strings.TrimSpace(body))
		if err != nil {
			return Expression{raw: input}, &ParseError{Input: input, Reason: "bad threshold before '+'"}
		}
		return Expression{raw: input, kind: KindAtLeast, valid: true, lo: n}, nil
	}

	// Hyphenated range "A-B". A leading hyphen cannot start a range; a
	// string that leads with one and still contains a separator is the
	// ambiguous case the grammar rejects.
	if strings.HasPrefix(s, "-") {
		return Expression{raw: input}, &ParseError{
			Input:     input,
			Reason:    "ambiguous negative range; use the 'A to B' form",
			Ambiguous: true,
		}
	}
	if lhs, rhs, ok := strings.Cut(s, "-"); ok {
		a, errA := decimal.NewFromString(strings.TrimSpace(lhs))
		b, errB := decimal.NewFromString(strings.TrimSpace(rhs))
		if errA != nil || errB != nil {
			return Expression{raw: input}, &ParseError{Input: input, Reason: "bad bound in 'A-B' range"}
		}
		if a.GreaterThan(b) {
			a, b = b, a
		}
		return Expression{raw: input, kind: KindBetween, valid: true, lo: a, hi: b}, nil
	}

	return Expression{raw: input}, &ParseError{Input: input, Reason: "unrecognized form"}
}

// MustParse is Parse that panics on error. For fixed strings in tests
// and builtins.
func MustParse(input string) Expression {
	e, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return e
}

// Kind returns the grammar form.
func (e Expression) Kind() Kind {
	return e.kind
}

// IsAny reports whether the expression always matches.
func (e Expression) IsAny() bool {
	return e.valid && e.kind == KindAny
}

// Valid reports whether the expression parsed successfully. An invalid
// expression fails closed: Matches is always false.
func (e Expression) Valid() bool {
	return e.valid
}

// String returns the original criterion text.
func (e Expression) String() string {
	return e.raw
}

// MatchesDecimal evaluates membership for an exact decimal value.
func (e Expression) MatchesDecimal(v decimal.Decimal) bool {
	if !e.valid {
		return false
	}
	switch e.kind {
	case KindAny:
		return true
	case KindExact:
		return v.Equal(e.lo)
	case KindGreaterThan:
		return v.GreaterThan(e.lo)
	case KindAtLeast:
		return v.GreaterThanOrEqual(e.lo)
	case KindLessThan:
		return v.LessThan(e.lo)
	case KindAtMost:
		return v.LessThanOrEqual(e.lo)
	case KindBetween:
		return v.GreaterThanOrEqual(e.lo) && v.LessThanOrEqual(e.hi)
	default:
		return false
	}
}

// Matches evaluates membership for a float value.
func (e Expression) Matches(v float64) bool {
	if !e.valid {
		return false
	}
	if e.kind == KindAny {
		return true
	}
	return e.MatchesDecimal(decimal.NewFromFloat(v))
}

// MatchesInt evaluates membership for an integer value.
func (e Expression) MatchesInt(n int) bool {
	if !e.valid {
		return false
	}
	if e.kind == KindAny {
		return true
	}
	return e.MatchesDecimal(decimal.NewFromInt(int64(n)))
}
