package dice

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// The grammar's vocabulary is closed: four function names, two reroll
// keywords, five single-letter dice-op markers, digits, comparison
// symbols, and arithmetic/grouping punctuation. There are no user
// identifiers, so every rule below names exactly what it matches rather
// than falling back to a generic Ident/catch-all class.
//
// The Func rule deliberately has no word-boundary anchor: RE2 (which
// backs participle's simple lexer) has no lookahead, so a trailing `\b`
// can't tell "abs " from "absd6" — it can only reject the latter by
// refusing to match at all, which also breaks the former the moment
// Whitespace is elided from the stream before the grammar sees it. So
// Func matches greedily on the four literal words regardless of what
// follows, and ast.go's FuncName/Negation Pos fields let parse.go check
// afterward whether a real gap of source bytes actually separated the
// name from its operand.
var diceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Func", Pattern: `negate|fact|abs|id`},
	{Name: "RR", Pattern: `rr`},
	{Name: "RO", Pattern: `ro`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Letter", Pattern: `[dklwh]`},
	{Name: "Cmp", Pattern: `[<=>]`},
	{Name: "Punct", Pattern: `[-+*/^(){},]`},
})
