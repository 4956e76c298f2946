package dice

import "fmt"

// ParseError represents a failure to parse a dice expression.
// It names the grammar production that could not be completed, the way
// the original parse attempt failed, and the position it gave up at.
type ParseError struct {
	Production string
	Line       int
	Column     int
	Message    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", e.Production, e.Line, e.Message, positionSuffix(e.Column))
}

func positionSuffix(col int) string {
	return fmt.Sprintf("(column %d)", col)
}

// RngBudgetExceededError represents an evaluation that would have drawn
// more random values than the global cap allows.
// This can happen from a single dice expression with a very large count,
// from a reroll-until chain that never satisfies its condition, or from
// the cumulative draws of several dice expressions combined arithmetically.
type RngBudgetExceededError struct {
	Limit    int64
	Observed int64
}

func (e *RngBudgetExceededError) Error() string {
	return fmt.Sprintf("dice: rng budget exceeded: limit %d, would reach %d", e.Limit, e.Observed)
}

// DivisionByZeroError represents an integer division whose divisor
// evaluated to zero.
type DivisionByZeroError struct{}

func (e *DivisionByZeroError) Error() string { return "dice: division by zero" }

// NegativeExponentError represents exponentiation with a negative
// exponent, which has no integer result.
type NegativeExponentError struct {
	Exponent int64
}

func (e *NegativeExponentError) Error() string {
	return fmt.Sprintf("dice: negative exponent %d", e.Exponent)
}

// InvalidDieBoundError represents a Die(b) whose bound evaluated below 1.
// The printed form of b is carried so a caller can report which
// sub-expression produced the bad bound.
type InvalidDieBoundError struct {
	BasePrinted string
	N           int64
}

func (e *InvalidDieBoundError) Error() string {
	return fmt.Sprintf("dice: die bound %q evaluated to %d, want >= 1", e.BasePrinted, e.N)
}

// NegativeDiceCountError represents a Dice.count that evaluated below
// zero.
type NegativeDiceCountError struct {
	N int64
}

func (e *NegativeDiceCountError) Error() string {
	return fmt.Sprintf("dice: dice count evaluated to %d, want >= 0", e.N)
}

// FactorialInputTooLargeError represents a fact() application whose
// input exceeds the registered factorial limit.
type FactorialInputTooLargeError struct {
	N     int64
	Limit int64
}

func (e *FactorialInputTooLargeError) Error() string {
	return fmt.Sprintf("dice: factorial input %d exceeds limit %d", e.N, e.Limit)
}

// UnknownFunctionError represents a Func node carrying a name outside
// the registered table. The parser's lexer already closes the
// vocabulary to the four registered names, so this is reachable only
// by constructing a Func node directly rather than through Parse.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("dice: unknown function %q", e.Name)
}

// EmptyResultSetError represents an internal postcondition violation: a
// Dice evaluation tried to render zero rolls. Unreachable when the dice
// count is >= 1; a count of 0 (e.g. "0d6") passes the evaluator's
// non-negative check and ends in this error.
type EmptyResultSetError struct{}

func (e *EmptyResultSetError) Error() string { return "dice: tried to show empty set of results" }
