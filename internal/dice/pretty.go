package dice

import (
	"strconv"
	"strings"
)

// Pretty renders an Expr back to its canonical text: feeding the
// result back through Parse must reproduce an AST that prints
// identically (the round-trip law). One small function per node type,
// built with strings.Builder since nothing here needs io.Writer
// semantics.
func Pretty(e *Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

// prettyDiceNode renders just a Dice subtree, the piece of an Expr's
// canonical text that evalDice prefixes to its roll trace.
func prettyDiceNode(d *Dice) string {
	var b strings.Builder
	writeDice(&b, d)
	return b.String()
}

func writeExpr(b *strings.Builder, e *Expr) {
	writeTerm(b, e.Left)
	if e.Tail != nil {
		b.WriteString(" " + e.Tail.Op + " ")
		writeExpr(b, e.Tail.Right)
	}
}

func writeTerm(b *strings.Builder, t *Term) {
	writeFunc(b, t.Left)
	if t.Tail != nil {
		b.WriteString(" " + t.Tail.Op + " ")
		writeTerm(b, t.Tail.Right)
	}
}

func writeFunc(b *strings.Builder, f *Func) {
	name := "id"
	if f.Name != nil {
		name = f.Name.Name
	}
	if name == "id" {
		writeNegation(b, f.Operand)
		return
	}
	b.WriteString(name + " ")
	writeNegation(b, f.Operand)
}

func writeNegation(b *strings.Builder, n *Negation) {
	if n.Minus != nil {
		b.WriteString("-")
	}
	writeExpo(b, n.Operand)
}

func writeExpo(b *strings.Builder, e *Expo) {
	writeBase(b, e.Base)
	if e.Tail != nil {
		b.WriteString(" ^ ")
		writeExpo(b, e.Tail.Right)
	}
}

func writeBase(b *strings.Builder, base *Base) {
	if base.Dice != nil {
		writeDice(b, base.Dice)
		return
	}
	writeNBase(b, base.NBase)
}

func writeNBase(b *strings.Builder, n *NBase) {
	if n.Paren != nil {
		b.WriteString("(")
		writeExpr(b, n.Paren)
		b.WriteString(")")
		return
	}
	b.WriteString(strconv.FormatInt(int64(*n.Value), 10))
}

func writeDice(b *strings.Builder, d *Dice) {
	if d.Count != nil {
		writeNBase(b, d.Count)
	}
	writeDieTail(b, d.FirstTail)
	for _, t := range d.MoreTails {
		writeDieTail(b, t)
	}
}

func writeDieTail(b *strings.Builder, t *DieTail) {
	writeDie(b, t.Die)
	if t.Ops != nil {
		writeDieOpChain(b, t.Ops)
	}
}

func writeDie(b *strings.Builder, d *Die) {
	if d.Uniform != nil {
		b.WriteString("d")
		writeNBase(b, d.Uniform.Bound)
		return
	}
	b.WriteString("d{")
	for i, v := range d.Custom.Values {
		if i > 0 {
			b.WriteString(",")
		}
		writeSignedInt(b, v)
	}
	b.WriteString("}")
}

func writeSignedInt(b *strings.Builder, s *SignedInt) {
	b.WriteString(strconv.FormatInt(s.Value(), 10))
}

func writeDieOpChain(b *strings.Builder, c *DieOpChain) {
	writeDieOpOption(b, c.Op)
	if c.Next != nil {
		writeDieOpChain(b, c.Next)
	}
}

func writeDieOpOption(b *strings.Builder, o *DieOpOption) {
	if o.Reroll != nil {
		b.WriteString(o.Reroll.Kind)
		b.WriteString(o.Reroll.Cmp)
		writeSignedInt(b, o.Reroll.Limit)
		return
	}
	b.WriteString(o.KeepDrop.Kind)
	writeLowHighWhere(b, o.KeepDrop.Sel)
}

func writeLowHighWhere(b *strings.Builder, s *LowHighWhere) {
	switch {
	case s.High != nil:
		b.WriteString("h")
		writeSignedInt(b, s.High.N)
	case s.Low != nil:
		b.WriteString("l")
		writeSignedInt(b, s.Low.N)
	default:
		b.WriteString("w")
		b.WriteString(s.Where.Cmp)
		writeSignedInt(b, s.Where.N)
	}
}
