package dice

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// The AST doubles as the grammar: every struct below carries a
// `parser` tag and is walked again, untouched by participle, at eval
// and pretty-print time. Chains (Expr, Term, Negation's single level,
// Expo) are modeled as a head plus an optional tail rather than nested
// binary variants, since flattening a right-nested chain into a
// head+tail is a safe canonicalization as long as left-to-right
// evaluation order survives — it does, since Tail.Right recurses into
// the same shape.

// PosInt captures a run of decimal digits as a bounds-checked int64:
// oversized literals must fail to parse, never wrap.
type PosInt int64

func (p *PosInt) Capture(values []string) error {
	n, err := parsePosInt(values[0])
	if err != nil {
		return err
	}
	*p = PosInt(n)
	return nil
}

// SignedInt is an optional leading '-' in front of a PosInt. Used only
// where a signed literal appears directly in the grammar (dice-op
// limits, custom-die faces) — general arithmetic negation goes through
// Negation instead.
type SignedInt struct {
	Sign *string `parser:"@'-'?"`
	N    PosInt  `parser:"@Int"`
}

func (s *SignedInt) Value() int64 {
	if s.Sign != nil {
		return -int64(s.N)
	}
	return int64(s.N)
}

// Expr is expr = term (ws "+" ws expr | ws "-" ws expr)?
type Expr struct {
	Left *Term     `parser:"@@"`
	Tail *ExprTail `parser:"@@?"`
}

type ExprTail struct {
	Op    string `parser:"@('+' | '-')"`
	Right *Expr  `parser:"@@"`
}

// Term is term = func (ws "*" ws term | ws "/" ws term)?
type Term struct {
	Left *Func     `parser:"@@"`
	Tail *TermTail `parser:"@@?"`
}

type TermTail struct {
	Op    string `parser:"@('*' | '/')"`
	Right *Term  `parser:"@@"`
}

// Func is func = (word ws1)? negation. The lexer's Func token already
// restricts "word" to the four registered names (see lexer.go); the
// parser never sees anything else under that label. The required "ws1"
// (at least one whitespace) between word and operand can't be enforced
// by the lexer itself, since Whitespace is elided from the token stream
// before the grammar ever sees it (parse.go's participle.Elide). Instead
// FuncName and Negation both carry participle's magic Pos/EndPos fields,
// populated with byte offsets into the original source regardless of
// elision, and validateFunc in parse.go compares them after a parse
// succeeds: if the operand starts exactly where the name ends, no
// whitespace (elided or otherwise) separated them, and the parse is
// rejected.
type Func struct {
	Name    *FuncName `parser:"@@?"`
	Operand *Negation `parser:"@@"`
}

type FuncName struct {
	Name   string `parser:"@Func"`
	EndPos lexer.Position
}

// Negation is negation = "-" ws expo | expo. Pos is populated with the
// source offset of the first token Negation consumes (the "-" if
// present, otherwise the first token of Expo), which doubles as "where
// Func's operand begins" for the whitespace-adjacency check above.
type Negation struct {
	Pos     lexer.Position
	Minus   *string `parser:"@'-'?"`
	Operand *Expo   `parser:"@@"`
}

// Expo is expo = base (ws "^" ws expo)?
type Expo struct {
	Base *Base     `parser:"@@"`
	Tail *ExpoTail `parser:"@@?"`
}

type ExpoTail struct {
	Right *Expo `parser:"'^' @@"`
}

// Base is base = dice | nbase. Dice is tried first; CustomDie/UniformDie
// both require a literal 'd' the NBase alternative doesn't have, so a
// failed Dice match backtracks cleanly to NBase (e.g. a bare "3").
type Base struct {
	Dice  *Dice  `parser:"  @@"`
	NBase *NBase `parser:"| @@"`
}

// NBase is nbase = ws "(" ws expr ws ")" | pos_integer
type NBase struct {
	Paren *Expr  `parser:"  '(' @@ ')'"`
	Value *PosInt `parser:"| @Int"`
}

// Dice is dice = nbase? die_tail+, folded left when more than one
// die_tail follows (2d6d4 becomes the outer die's count being the inner
// Dice expression — see the d.MoreTails loop in evalDice, eval.go).
// Participle's tag language only confirms '?' and '*' repetition in
// this corpus, so "one or more" is spelled out as a mandatory head plus
// a starred tail rather than a bare '+'.
type Dice struct {
	Count     *NBase     `parser:"@@?"`
	FirstTail *DieTail   `parser:"@@"`
	MoreTails []*DieTail `parser:"@@*"`
}

type DieTail struct {
	Die *Die        `parser:"@@"`
	Ops *DieOpChain `parser:"@@?"`
}

// Die is die = "d" ( nbase | "{" ws integer (ws "," ws integer)* ws "}" )
type Die struct {
	Uniform *UniformDie `parser:"  @@"`
	Custom  *CustomDie  `parser:"| @@"`
}

type UniformDie struct {
	Bound *NBase `parser:"'d' @@"`
}

type CustomDie struct {
	Values []*SignedInt `parser:"'d' '{' @@ (',' @@)* '}'"`
}

// DieOpChain is dieops = dieop dieops?, applied in written order.
type DieOpChain struct {
	Op   *DieOpOption `parser:"@@"`
	Next *DieOpChain  `parser:"@@?"`
}

// DieOpOption is dieop = reroll | keep-or-drop.
type DieOpOption struct {
	Reroll   *RerollOp   `parser:"  @@"`
	KeepDrop *KeepDropOp `parser:"| @@"`
}

// RerollOp is "ro" ord integer | "rr" ord integer.
type RerollOp struct {
	Kind  string     `parser:"@('ro' | 'rr')"`
	Cmp   string     `parser:"@('<' | '=' | '>')"`
	Limit *SignedInt `parser:"@@"`
}

func (r *RerollOp) once() bool { return r.Kind == "ro" }

// KeepDropOp is "k" lhw | "d" lhw.
type KeepDropOp struct {
	Kind string        `parser:"@('k' | 'd')"`
	Sel  *LowHighWhere `parser:"@@"`
}

func (k *KeepDropOp) keep() bool { return k.Kind == "k" }

// LowHighWhere is lhw = "h" integer | "l" integer | "w" ord integer.
type LowHighWhere struct {
	High  *HighSel  `parser:"  @@"`
	Low   *LowSel   `parser:"| @@"`
	Where *WhereSel `parser:"| @@"`
}

type HighSel struct {
	N *SignedInt `parser:"'h' @@"`
}

type LowSel struct {
	N *SignedInt `parser:"'l' @@"`
}

type WhereSel struct {
	Cmp string     `parser:"'w' @('<' | '=' | '>')"`
	N   *SignedInt `parser:"@@"`
}

// ordering is LT | EQ | GT, derived once from the matched comparison
// symbol rather than re-parsed from source text at every comparison.
type ordering int

const (
	orderingLT ordering = iota
	orderingEQ
	orderingGT
)

func orderingOf(sym string) (ordering, error) {
	switch sym {
	case "<":
		return orderingLT, nil
	case "=":
		return orderingEQ, nil
	case ">":
		return orderingGT, nil
	default:
		return 0, fmt.Errorf("dice: unrecognized ordering symbol %q", sym)
	}
}

func (o ordering) compare(a, b int64) bool {
	switch o {
	case orderingLT:
		return a < b
	case orderingEQ:
		return a == b
	case orderingGT:
		return a > b
	}
	return false
}

func (o ordering) String() string {
	switch o {
	case orderingLT:
		return "<"
	case orderingEQ:
		return "="
	case orderingGT:
		return ">"
	default:
		return "?"
	}
}
