package dice

import (
	"sort"
	"strconv"
	"strings"
)

// MaxRNG is the process-wide cap on random draws per evaluation call,
// bounding the worst case wall time of an adversarial input.
const MaxRNG = 150

// evalState carries the running draw count across one Eval call, the
// "mutable budget that decrements per draw and fails fast" variant spec
// section 9 calls out as equivalent to threading rng_count explicitly —
// simpler here since nothing but the top-level call needs the total.
type evalState struct {
	rng   Rng
	draws int64
}

func (s *evalState) draw(lo, hi int64) (int64, error) {
	s.draws++
	if s.draws > MaxRNG {
		return 0, &RngBudgetExceededError{Limit: MaxRNG, Observed: s.draws}
	}
	return s.rng.UniformInclusive(lo, hi), nil
}

func (s *evalState) choose(vs []int64) (int64, error) {
	s.draws++
	if s.draws > MaxRNG {
		return 0, &RngBudgetExceededError{Limit: MaxRNG, Observed: s.draws}
	}
	return s.rng.ChooseOne(vs), nil
}

// Eval walks an Expr and returns its value, an annotated trace, and the
// number of random draws it performed, or the first error encountered
// in left-to-right order. No partial result accompanies an error.
func Eval(e *Expr, rng Rng) (int64, string, int64, error) {
	st := &evalState{rng: rng}
	val, trace, err := st.evalExpr(e)
	if err != nil {
		return 0, "", 0, err
	}
	return val, trace, st.draws, nil
}

// evalExpr folds a "+"/"-" chain left to right with a running
// accumulator. The AST represents a+b+c as a right-nested Add(a, Add(b,
// NoExpr(c))) (spec §9), so recursing into e.Tail.Right as a single
// combined value would compute a - (b - c) for "a-b-c" instead of the
// mandated (a-b)-c; each step here evaluates only the immediate next
// Term, never the reduced remainder of the chain.
func (s *evalState) evalExpr(e *Expr) (int64, string, error) {
	v, tr, err := s.evalTerm(e.Left)
	if err != nil {
		return 0, "", err
	}
	for tail := e.Tail; tail != nil; tail = tail.Right.Tail {
		rv, rtr, err := s.evalTerm(tail.Right.Left)
		if err != nil {
			return 0, "", err
		}
		if tail.Op == "+" {
			v = v + rv
		} else {
			v = v - rv
		}
		tr = tr + " " + tail.Op + " " + rtr
	}
	return v, tr, nil
}

// evalTerm folds a "*"/"/" chain left to right, for the same reason
// evalExpr does: a/b/c must be (a/b)/c, not a/(b/c).
func (s *evalState) evalTerm(t *Term) (int64, string, error) {
	v, tr, err := s.evalFunc(t.Left)
	if err != nil {
		return 0, "", err
	}
	for tail := t.Tail; tail != nil; tail = tail.Right.Tail {
		rv, rtr, err := s.evalFunc(tail.Right.Left)
		if err != nil {
			return 0, "", err
		}
		if tail.Op == "*" {
			v = v * rv
		} else {
			if rv == 0 {
				return 0, "", &DivisionByZeroError{}
			}
			v = v / rv
		}
		tr = tr + " " + tail.Op + " " + rtr
	}
	return v, tr, nil
}

func (s *evalState) evalFunc(f *Func) (int64, string, error) {
	name := "id"
	if f.Name != nil {
		name = f.Name.Name
	}
	v, tr, err := s.evalNegation(f.Operand)
	if err != nil {
		return 0, "", err
	}
	rv, err := applyFunction(name, v)
	if err != nil {
		return 0, "", err
	}
	if name == "id" {
		return rv, tr, nil
	}
	return rv, name + " " + tr, nil
}

func (s *evalState) evalNegation(n *Negation) (int64, string, error) {
	v, tr, err := s.evalExpo(n.Operand)
	if err != nil {
		return 0, "", err
	}
	if n.Minus == nil {
		return v, tr, nil
	}
	return -v, "-" + tr, nil
}

func (s *evalState) evalExpo(e *Expo) (int64, string, error) {
	v, tr, err := s.evalBase(e.Base)
	if err != nil {
		return 0, "", err
	}
	if e.Tail == nil {
		return v, tr, nil
	}
	rv, rtr, err := s.evalExpo(e.Tail.Right)
	if err != nil {
		return 0, "", err
	}
	if rv < 0 {
		return 0, "", &NegativeExponentError{Exponent: rv}
	}
	return ipow(v, rv), tr + " ^ " + rtr, nil
}

func ipow(base, exp int64) int64 {
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func (s *evalState) evalBase(b *Base) (int64, string, error) {
	if b.Dice != nil {
		return s.evalDice(b.Dice)
	}
	return s.evalNBase(b.NBase)
}

func (s *evalState) evalNBase(n *NBase) (int64, string, error) {
	if n.Paren != nil {
		v, tr, err := s.evalExpr(n.Paren)
		if err != nil {
			return 0, "", err
		}
		return v, "(" + tr + ")", nil
	}
	v := int64(*n.Value)
	return v, strconv.FormatInt(v, 10), nil
}

// condensedDie is a Die whose bound has been pre-evaluated once, so
// every roll of a Dice expression shares the same numeric range even
// if the original bound expression (a parenthesized sub-expression)
// was itself random.
type condensedDie struct {
	lo, hi int64
	custom []int64 // non-nil for CustomDie; lo/hi is still its min/max
}

func (s *evalState) condenseDie(d *Die) (condensedDie, error) {
	if d.Custom != nil {
		vs := make([]int64, len(d.Custom.Values))
		lo, hi := d.Custom.Values[0].Value(), d.Custom.Values[0].Value()
		for i, sv := range d.Custom.Values {
			v := sv.Value()
			vs[i] = v
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		return condensedDie{lo: lo, hi: hi, custom: vs}, nil
	}
	m, tr, err := s.evalNBase(d.Uniform.Bound)
	if err != nil {
		return condensedDie{}, err
	}
	if m < 1 {
		return condensedDie{}, &InvalidDieBoundError{BasePrinted: tr, N: m}
	}
	return condensedDie{lo: 1, hi: m}, nil
}

func (s *evalState) rollOnce(cd condensedDie) (int64, error) {
	if cd.custom != nil {
		return s.choose(cd.custom)
	}
	return s.draw(cd.lo, cd.hi)
}

// rollTriple is one die's reroll chain. history[0] is the current
// (most recent) value; later indices are superseded values, oldest
// last. kept reports whether the current value contributes to the sum.
type rollTriple struct {
	history []int64
	kept    bool
}

func (s *evalState) applyReroll(cd condensedDie, rolls []rollTriple, r *RerollOp) ([]rollTriple, error) {
	ord, err := orderingOf(r.Cmp)
	if err != nil {
		return nil, err
	}
	limit := r.Limit.Value()
	out := make([]rollTriple, len(rolls))
	for i, t := range rolls {
		if !t.kept {
			out[i] = t
			continue
		}
		for ord.compare(t.history[0], limit) {
			v, err := s.rollOnce(cd)
			if err != nil {
				return nil, err
			}
			t.history = append([]int64{v}, t.history...)
			if r.once() {
				break
			}
		}
		out[i] = t
	}
	return out, nil
}

func applyKeepDrop(rolls []rollTriple, kd *KeepDropOp) ([]rollTriple, error) {
	if kd.Sel.Where != nil {
		ord, err := orderingOf(kd.Sel.Where.Cmp)
		if err != nil {
			return nil, err
		}
		limit := kd.Sel.Where.N.Value()
		out := make([]rollTriple, len(rolls))
		for i, t := range rolls {
			matches := ord.compare(t.history[0], limit)
			if kd.keep() {
				t.kept = t.kept && matches
			} else {
				t.kept = t.kept && !matches
			}
			out[i] = t
		}
		return out, nil
	}
	return applyLowHigh(rolls, kd)
}

func applyLowHigh(rolls []rollTriple, kd *KeepDropOp) ([]rollTriple, error) {
	var n int64
	ascending := true
	if kd.Sel.High != nil {
		n = kd.Sel.High.N.Value()
		ascending = false
	} else {
		n = kd.Sel.Low.N.Value()
	}
	if n < 0 {
		n = 0
	}

	keptIdx := make([]int, 0, len(rolls))
	for i, t := range rolls {
		if t.kept {
			keptIdx = append(keptIdx, i)
		}
	}
	sort.SliceStable(keptIdx, func(a, b int) bool {
		va, vb := rolls[keptIdx[a]].history[0], rolls[keptIdx[b]].history[0]
		if ascending {
			return va < vb
		}
		return va > vb
	})
	if n > int64(len(keptIdx)) {
		n = int64(len(keptIdx))
	}
	selected := make(map[int]bool, n)
	for _, idx := range keptIdx[:n] {
		selected[idx] = true
	}

	out := make([]rollTriple, len(rolls))
	copy(out, rolls)
	for _, idx := range keptIdx {
		if kd.keep() {
			out[idx].kept = selected[idx]
		} else {
			out[idx].kept = !selected[idx]
		}
	}
	return out, nil
}

func (s *evalState) applyOps(cd condensedDie, rolls []rollTriple, ops *DieOpChain) ([]rollTriple, error) {
	for ops != nil {
		var err error
		if ops.Op.Reroll != nil {
			rolls, err = s.applyReroll(cd, rolls, ops.Op.Reroll)
		} else {
			rolls, err = applyKeepDrop(rolls, ops.Op.KeepDrop)
		}
		if err != nil {
			return nil, err
		}
		ops = ops.Next
	}
	return rolls, nil
}

// evalDiceLevel runs one fold level of a Dice expression: n rolls of
// die, then its ops chain in written order, then the display sort.
// Returns the kept sum, the final sorted triples (for trace rendering
// at the outermost level), and the die's condensed critical pair.
func (s *evalState) evalDiceLevel(n int64, die *Die, ops *DieOpChain) (int64, []rollTriple, condensedDie, error) {
	if n < 0 {
		return 0, nil, condensedDie{}, &NegativeDiceCountError{N: n}
	}
	if n >= MaxRNG {
		return 0, nil, condensedDie{}, &RngBudgetExceededError{Limit: MaxRNG, Observed: n}
	}
	cd, err := s.condenseDie(die)
	if err != nil {
		return 0, nil, condensedDie{}, err
	}
	rolls := make([]rollTriple, n)
	for i := int64(0); i < n; i++ {
		v, err := s.rollOnce(cd)
		if err != nil {
			return 0, nil, condensedDie{}, err
		}
		rolls[i] = rollTriple{history: []int64{v}, kept: true}
	}
	if ops != nil {
		rolls, err = s.applyOps(cd, rolls, ops)
		if err != nil {
			return 0, nil, condensedDie{}, err
		}
	}
	if len(rolls) == 0 {
		return 0, nil, condensedDie{}, &EmptyResultSetError{}
	}
	sort.SliceStable(rolls, func(i, j int) bool {
		hi, hj := rolls[i].history[0], rolls[j].history[0]
		if hi != hj {
			return hi < hj
		}
		return !rolls[i].kept && rolls[j].kept
	})
	var sum int64
	for _, t := range rolls {
		if t.kept {
			sum += t.history[0]
		}
	}
	return sum, rolls, cd, nil
}

func (s *evalState) evalDice(d *Dice) (int64, string, error) {
	n := int64(1)
	if d.Count != nil {
		v, _, err := s.evalNBase(d.Count)
		if err != nil {
			return 0, "", err
		}
		n = v
	}
	sum, rolls, cd, err := s.evalDiceLevel(n, d.FirstTail.Die, d.FirstTail.Ops)
	if err != nil {
		return 0, "", err
	}
	for _, tail := range d.MoreTails {
		sum, rolls, cd, err = s.evalDiceLevel(sum, tail.Die, tail.Ops)
		if err != nil {
			return 0, "", err
		}
	}
	trace := prettyDiceNode(d) + " [" + formatRolls(rolls, cd) + "]"
	return sum, trace, nil
}

func isCritical(v int64, cd condensedDie) bool {
	return v == cd.lo || v == cd.hi
}

func formatRolls(rolls []rollTriple, cd condensedDie) string {
	toks := make([]string, len(rolls))
	for i, t := range rolls {
		toks[i] = formatRollToken(t, cd)
	}
	return strings.Join(toks, ", ")
}

func formatRollToken(t rollTriple, cd condensedDie) string {
	n := len(t.history)
	parts := make([]string, 0, n)
	for idx := n - 1; idx >= 0; idx-- {
		v := t.history[idx]
		text := strconv.FormatInt(v, 10)
		if isCritical(v, cd) {
			text = "**" + text + "**"
		}
		switch {
		case idx != 0:
			text = "~~" + text + "~~"
		case !t.kept:
			text = "~~__" + text + "__~~"
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, ", ")
}
