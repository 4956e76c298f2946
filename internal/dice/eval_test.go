package dice

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, input string) *Expr {
	t.Helper()
	e, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q): unexpected error: %v", input, err)
	}
	return e
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		input string
		value int64
		trace string
	}{
		{"2+3*4", 14, "2 + 3 * 4"},
		{"(2+3)*4", 20, "(2 + 3) * 4"},
		{"2^3^2", 512, "2 ^ 3 ^ 2"},
		{"fact 5", 120, "fact 5"},
		{"-3 - -3", 0, "-3 - -3"},
		{"7/2", 3, "7 / 2"},
		{"-7/2", -3, "-7 / 2"},
		// Left-to-right chains of 3+ operands under a non-associative
		// operator: a-b-c must be (a-b)-c, and a/b/c must be (a/b)/c,
		// not the right fold a-(b-c) / a/(b/c) the AST's right-nested
		// shape would give if evaluated by recursing into the whole tail.
		{"10-3-2", 5, "10 - 3 - 2"},
		{"8/2/2", 2, "8 / 2 / 2"},
		{"20/4*2", 10, "20 / 4 * 2"},
		{"1-2-3-4", -8, "1 - 2 - 3 - 4"},
	}
	for _, tt := range tests {
		e := mustParse(t, tt.input)
		value, trace, rngCount, err := Eval(e, NewRng(1))
		if err != nil {
			t.Fatalf("Eval(%q): unexpected error: %v", tt.input, err)
		}
		if value != tt.value {
			t.Errorf("Eval(%q).value = %d, want %d", tt.input, value, tt.value)
		}
		if trace != tt.trace {
			t.Errorf("Eval(%q).trace = %q, want %q", tt.input, trace, tt.trace)
		}
		if rngCount != 0 {
			t.Errorf("Eval(%q).rngCount = %d, want 0", tt.input, rngCount)
		}
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	e := mustParse(t, "1/0")
	_, _, _, err := Eval(e, NewRng(1))
	if _, ok := err.(*DivisionByZeroError); !ok {
		t.Errorf("Eval(\"1/0\") error = %v, want *DivisionByZeroError", err)
	}
}

func TestEvalNegativeExponent(t *testing.T) {
	e := mustParse(t, "2^(-1)")
	_, _, _, err := Eval(e, NewRng(1))
	if _, ok := err.(*NegativeExponentError); !ok {
		t.Errorf("Eval(\"2^(-1)\") error = %v, want *NegativeExponentError", err)
	}
}

func TestEvalFactorialTooLarge(t *testing.T) {
	e := mustParse(t, "fact 51")
	_, _, _, err := Eval(e, NewRng(1))
	if _, ok := err.(*FactorialInputTooLargeError); !ok {
		t.Errorf("Eval(\"fact 51\") error = %v, want *FactorialInputTooLargeError", err)
	}
}

func TestEvalSimpleDiceRoll(t *testing.T) {
	e := mustParse(t, "3d6")
	value, trace, rngCount, err := Eval(e, &SequenceRng{Draws: []int64{2, 5, 6}})
	if err != nil {
		t.Fatalf("Eval: unexpected error: %v", err)
	}
	if value != 13 {
		t.Errorf("value = %d, want 13", value)
	}
	if rngCount != 3 {
		t.Errorf("rngCount = %d, want 3", rngCount)
	}
	want := "3d6 [2, 5, **6**]"
	if trace != want {
		t.Errorf("trace = %q, want %q", trace, want)
	}
}

func TestEvalKeepHighDropsLowRoll(t *testing.T) {
	e := mustParse(t, "4d6kh3")
	value, trace, _, err := Eval(e, &SequenceRng{Draws: []int64{1, 3, 4, 6}})
	if err != nil {
		t.Fatalf("Eval: unexpected error: %v", err)
	}
	if value != 13 {
		t.Errorf("value = %d, want 13", value)
	}
	// 1 is also the low bound of the condensed d6, so critical
	// highlighting nests inside the strike/underline wrapper (spec
	// §4.G.8: "critical highlighting applies inside the strike/underline
	// wrappers").
	if !strings.Contains(trace, "~~__**1**__~~") {
		t.Errorf("trace = %q, want it to contain the dropped-and-struck critical 1", trace)
	}
}

func TestEvalRerollOnce(t *testing.T) {
	// Initial rolls: 1, 5, 2, 4 (only the first is below the reroll
	// threshold); the reroll phase then draws one more value, 3, for
	// that die only.
	e := mustParse(t, "4d6ro<2")
	value, trace, rngCount, err := Eval(e, &SequenceRng{Draws: []int64{1, 5, 2, 4, 3}})
	if err != nil {
		t.Fatalf("Eval: unexpected error: %v", err)
	}
	if rngCount != 5 {
		t.Errorf("rngCount = %d, want 5", rngCount)
	}
	if value != 14 {
		t.Errorf("value = %d, want 14 (3+5+2+4)", value)
	}
	// The superseded 1 is also the low bound of the condensed d6, so it
	// is bolded inside its strike wrapper (spec §4.G.8).
	if !strings.Contains(trace, "~~**1**~~, 3") {
		t.Errorf("trace = %q, want it to contain the rerolled die's chain", trace)
	}
}

func TestEvalCustomDiceBothCriticalBounds(t *testing.T) {
	e := mustParse(t, "2d{1,2,3}")
	value, trace, _, err := Eval(e, &SequenceRng{Draws: []int64{3, 1}})
	if err != nil {
		t.Fatalf("Eval: unexpected error: %v", err)
	}
	if value != 4 {
		t.Errorf("value = %d, want 4", value)
	}
	if !strings.Contains(trace, "[**1**, **3**]") {
		t.Errorf("trace = %q, want both rolled faces bolded as critical", trace)
	}
}

func TestEvalDropLowestThree(t *testing.T) {
	e := mustParse(t, "10d6dl3")
	value, trace, _, err := Eval(e, &SequenceRng{Draws: []int64{6, 5, 4, 3, 2, 1, 6, 5, 4, 3}})
	if err != nil {
		t.Fatalf("Eval: unexpected error: %v", err)
	}
	var want int64
	for _, v := range []int64{1, 2, 3, 3, 4, 4, 5, 5, 6, 6} {
		want += v
	}
	want -= 1 + 2 + 3 // the three lowest are dropped
	if value != want {
		t.Errorf("value = %d, want %d", value, want)
	}
	// The lowest dropped die rolls a 1, the low bound of the condensed
	// d6, so it is bolded inside the strike/underline wrapper (spec
	// §4.G.8).
	if !strings.Contains(trace, "~~__**1**__~~") {
		t.Errorf("trace = %q, want the lowest dropped die struck, underlined, and critical", trace)
	}
}

func TestEvalDiceChainFold(t *testing.T) {
	// 2d6d4: roll 2d6 for a count, then that many d4s.
	e := mustParse(t, "2d6d4")
	value, _, rngCount, err := Eval(e, &SequenceRng{Draws: []int64{3, 4, 1, 2, 3, 4, 1, 2, 3}})
	if err != nil {
		t.Fatalf("Eval: unexpected error: %v", err)
	}
	// 2d6 draws 3,4 -> count 7; then seven d4 rolls: 1,2,3,4,1,2,3 (the
	// SequenceRng replays its draws in order)
	if rngCount != 9 {
		t.Errorf("rngCount = %d, want 9", rngCount)
	}
	if value != 16 {
		t.Errorf("value = %d, want 16 (sum of 1,2,3,4,1,2,3)", value)
	}
}

func TestEvalInvalidDieBound(t *testing.T) {
	e := mustParse(t, "1d0")
	_, _, _, err := Eval(e, NewRng(1))
	if _, ok := err.(*InvalidDieBoundError); !ok {
		t.Errorf("Eval(\"1d0\") error = %v, want *InvalidDieBoundError", err)
	}
}

func TestEvalRngBudgetExceeded(t *testing.T) {
	e := mustParse(t, "200d6")
	_, _, _, err := Eval(e, NewRng(1))
	if _, ok := err.(*RngBudgetExceededError); !ok {
		t.Errorf("Eval(\"200d6\") error = %v, want *RngBudgetExceededError", err)
	}
}

func TestEvalRerollUntilNeverSatisfiesExceedsBudget(t *testing.T) {
	// ro/rr compare against a limit that every draw satisfies: rr<7 on a
	// d6 always rerolls, so the budget trips before the chain could end.
	e := mustParse(t, "1d6rr<7")
	rng := &CountingRng{Inner: NewRng(1)}
	_, _, _, err := Eval(e, rng)
	if _, ok := err.(*RngBudgetExceededError); !ok {
		t.Errorf("Eval(\"1d6rr<7\") error = %v, want *RngBudgetExceededError", err)
	}
	if rng.Count > MaxRNG {
		t.Errorf("rng.Count = %d, must never exceed MaxRNG = %d", rng.Count, MaxRNG)
	}
}

func TestEvalDeterminismUnderSeed(t *testing.T) {
	e := mustParse(t, "8d10kh4")
	v1, t1, r1, err1 := Eval(e, NewRng(42))
	v2, t2, r2, err2 := Eval(e, NewRng(42))
	if err1 != nil || err2 != nil {
		t.Fatalf("Eval: unexpected errors: %v, %v", err1, err2)
	}
	if v1 != v2 || t1 != t2 || r1 != r2 {
		t.Errorf("same seed produced different results: (%d,%q,%d) vs (%d,%q,%d)", v1, t1, r1, v2, t2, r2)
	}
}

func TestEvalRngCountMatchesCountingProxy(t *testing.T) {
	e := mustParse(t, "5d6ro<3")
	rng := &CountingRng{Inner: NewRng(7)}
	_, _, rngCount, err := Eval(e, rng)
	if err != nil {
		t.Fatalf("Eval: unexpected error: %v", err)
	}
	if int64(rng.Count) != rngCount {
		t.Errorf("counting proxy saw %d draws, Eval reported rngCount = %d", rng.Count, rngCount)
	}
}
