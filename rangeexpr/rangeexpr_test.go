package rangeexpr

import (
	"errors"
	"testing"
)

func TestParse_Kinds(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
	}{
		{"Any", KindAny},
		{"any", KindAny},
		{" ANY ", KindAny},
		{"3", KindExact},
		{"-5", KindExact},
		{"30%", KindExact},
		{">6", KindGreaterThan},
		{">=4", KindAtLeast},
		{"≥30%", KindAtLeast},
		{"5+", KindAtLeast},
		{"-5+", KindAtLeast},
		{"<30", KindLessThan},
		{"<-12", KindLessThan},
		{"<=6", KindAtMost},
		{"≤6", KindAtMost},
		{"4-5", KindBetween},
		{"1 to 3", KindBetween},
		{"-2 to -1", KindBetween},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if e.Kind() != tt.kind {
				t.Errorf("Parse(%q).Kind() = %v; want %v", tt.input, e.Kind(), tt.kind)
			}
			if !e.Valid() {
				t.Errorf("Parse(%q).Valid() = false; want true", tt.input)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"abc",
		">x",
		"1 to x",
		"4-x",
		"x-4",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			e, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) = nil error; want ParseError", input)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error type = %T; want *ParseError", input, err)
			}
			if e.Valid() {
				t.Errorf("Parse(%q).Valid() = true on error; want false", input)
			}
			// Invalid expressions never match.
			if e.MatchesInt(0) || e.Matches(1.0) {
				t.Errorf("invalid expression %q matched a value", input)
			}
		})
	}
}

func TestParse_AmbiguousNegativeRange(t *testing.T) {
	_, err := Parse("-1-2")
	if err == nil {
		t.Fatal("Parse(-1-2) = nil error; want ambiguous ParseError")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T; want *ParseError", err)
	}
	if !perr.Ambiguous {
		t.Error("ParseError.Ambiguous = false; want true")
	}

	// The same interval is expressible with the "A to B" form.
	e, err := Parse("-1 to 2")
	if err != nil {
		t.Fatalf("Parse(-1 to 2) error: %v", err)
	}
	for _, n := range []int{-1, 0, 2} {
		if !e.MatchesInt(n) {
			t.Errorf("(-1 to 2).MatchesInt(%d) = false; want true", n)
		}
	}
	if e.MatchesInt(-2) || e.MatchesInt(3) {
		t.Error("(-1 to 2) matched a value outside its bounds")
	}
}

func TestExpression_Matches(t *testing.T) {
	tests := []struct {
		expr  string
		value int
		want  bool
	}{
		{"Any", -100, true},
		{"Any", 0, true},
		{"3", 3, true},
		{"3", 4, false},
		{">6", 7, true},
		{">6", 6, false},
		{">=4", 4, true},
		{">=4", 3, false},
		{"<30", 29, true},
		{"<30", 30, false},
		{"<=6", 6, true},
		{"<=6", 7, false},
		{"4-5", 4, true},
		{"4-5", 5, true},
		{"4-5", 3, false},
		{"4-5", 6, false},
		{"5+", 5, true},
		{"5+", 4, false},
		{"-5+", -5, true},
		{"-5+", 10, true},
		{"-5+", -6, false},
		{"<-12", -13, true},
		{"<-12", -12, false},
		{"1 to 3", 2, true},
		{"1 to 3", 0, false},
	}

	for _, tt := range tests {
		e := MustParse(tt.expr)
		if got := e.MatchesInt(tt.value); got != tt.want {
			t.Errorf("%q.MatchesInt(%d) = %v; want %v", tt.expr, tt.value, got, tt.want)
		}
	}
}

func TestExpression_SwappedBounds(t *testing.T) {
	// Reversed bounds normalize to the same interval.
	for _, input := range []string{"5-4", "5 to 4"} {
		e := MustParse(input)
		if !e.MatchesInt(4) || !e.MatchesInt(5) {
			t.Errorf("%q did not normalize reversed bounds", input)
		}
		if e.MatchesInt(3) || e.MatchesInt(6) {
			t.Errorf("%q matched outside its bounds", input)
		}
	}
}

func TestExpression_FloatMatches(t *testing.T) {
	e := MustParse("<30")
	if !e.Matches(29.5) {
		t.Error("(<30).Matches(29.5) = false; want true")
	}
	if e.Matches(30.0) {
		t.Error("(<30).Matches(30.0) = true; want false")
	}

	pct := MustParse("≥30%")
	if !pct.Matches(30.0) {
		t.Error("(≥30%).Matches(30.0) = false; want true")
	}
	if pct.Matches(29.9) {
		t.Error("(≥30%).Matches(29.9) = true; want false")
	}
}

func TestExpression_ZeroValueFailsClosed(t *testing.T) {
	var e Expression
	if e.Valid() {
		t.Error("zero Expression.Valid() = true; want false")
	}
	if e.MatchesInt(0) || e.Matches(0) {
		t.Error("zero Expression matched a value")
	}
}

func TestExpression_String(t *testing.T) {
	e := MustParse(" ≥30% ")
	if e.String() != " ≥30% " {
		t.Errorf("String() = %q; want original input", e.String())
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse on bad input did not panic")
		}
	}()
	MustParse("not a range")
}
