package dice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Base tries Dice before NBase, and a Dice whose optional count is a
// parenthesized NBase only fails once the missing die tail is reached,
// many tokens in; the lookahead must cover that whole span so the
// parser can still fall back to the NBase alternative.
var exprParser = participle.MustBuild[Expr](
	participle.Lexer(diceLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(1<<20),
)

// Parse turns an expression string into an AST, or a ParseError
// naming the production that gave up and the position it gave up at.
// No partial AST is ever returned alongside an error.
func Parse(input string) (*Expr, error) {
	expr, err := exprParser.ParseString("", input)
	if err != nil {
		return nil, translateParseError(err)
	}
	if err := validateExpr(expr); err != nil {
		return nil, err
	}
	return expr, nil
}

// validateExpr walks a freshly-parsed tree checking constraints
// participle's grammar tags can't express on their own — currently just
// the "function name must be followed by whitespace" rule (spec §4.C),
// checked in validateFunc via the Pos/EndPos offsets ast.go's FuncName
// and Negation carry. This is the post-parse walk SPEC_FULL.md
// describes for this parser: a constraint that needs a second look at
// the built tree rather than a grammar production.
func validateExpr(e *Expr) error {
	if err := validateTerm(e.Left); err != nil {
		return err
	}
	if e.Tail != nil {
		return validateExpr(e.Tail.Right)
	}
	return nil
}

func validateTerm(t *Term) error {
	if err := validateFunc(t.Left); err != nil {
		return err
	}
	if t.Tail != nil {
		return validateTerm(t.Tail.Right)
	}
	return nil
}

func validateFunc(f *Func) error {
	if f.Name != nil && f.Name.EndPos.Offset == f.Operand.Pos.Offset {
		return &ParseError{
			Production: "func",
			Line:       f.Name.EndPos.Line,
			Column:     f.Name.EndPos.Column,
			Message:    fmt.Sprintf("function %q must be followed by whitespace before its operand", f.Name.Name),
		}
	}
	return validateNegation(f.Operand)
}

func validateNegation(n *Negation) error {
	return validateExpo(n.Operand)
}

func validateExpo(e *Expo) error {
	if err := validateBase(e.Base); err != nil {
		return err
	}
	if e.Tail != nil {
		return validateExpo(e.Tail.Right)
	}
	return nil
}

func validateBase(b *Base) error {
	if b.Dice != nil {
		return validateDice(b.Dice)
	}
	return validateNBase(b.NBase)
}

func validateNBase(n *NBase) error {
	if n.Paren != nil {
		return validateExpr(n.Paren)
	}
	return nil
}

func validateDice(d *Dice) error {
	if err := validateDieTail(d.FirstTail); err != nil {
		return err
	}
	for _, t := range d.MoreTails {
		if err := validateDieTail(t); err != nil {
			return err
		}
	}
	return nil
}

func validateDieTail(t *DieTail) error {
	if t.Die.Uniform != nil {
		return validateNBase(t.Die.Uniform.Bound)
	}
	return nil
}

func translateParseError(err error) *ParseError {
	production := "expr"
	msg := err.Error()
	if strings.Contains(msg, "overflows") {
		production = "pos_integer"
	}
	line, col := 1, 1
	if perr, ok := err.(participle.Error); ok {
		pos := perr.Position()
		line, col = pos.Line, pos.Column
	}
	return &ParseError{Production: production, Line: line, Column: col, Message: msg}
}

// parsePosInt converts a run of ASCII digits to a non-negative int64,
// failing rather than wrapping on overflow.
func parsePosInt(digits string) (int64, error) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, &parseOverflowError{digits: digits}
	}
	return n, nil
}

type parseOverflowError struct{ digits string }

func (e *parseOverflowError) Error() string {
	return e.digits + " overflows a 64-bit integer"
}
