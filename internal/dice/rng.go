package dice

import "math/rand"

// Rng is the randomness contract the evaluator draws through. Callers
// supply their own seeded instance to get reproducible evaluation.
type Rng interface {
	UniformInclusive(lo, hi int64) int64
	ChooseOne(vs []int64) int64
}

// mathRandRng is the default Rng, backed by math/rand rather than
// crypto/rand: nothing here needs cryptographic RNG quality.
type mathRandRng struct {
	r *rand.Rand
}

// NewRng returns the default Rng, seeded for reproducibility.
func NewRng(seed int64) Rng {
	return &mathRandRng{r: rand.New(rand.NewSource(seed))}
}

func (m *mathRandRng) UniformInclusive(lo, hi int64) int64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + m.r.Int63n(hi-lo+1)
}

func (m *mathRandRng) ChooseOne(vs []int64) int64 {
	return vs[m.r.Intn(len(vs))]
}

// CountingRng wraps another Rng and counts how many draws pass through
// it, so a test can check rng_count against the number of calls the
// evaluator actually made.
type CountingRng struct {
	Inner Rng
	Count int
}

func (c *CountingRng) UniformInclusive(lo, hi int64) int64 {
	c.Count++
	return c.Inner.UniformInclusive(lo, hi)
}

func (c *CountingRng) ChooseOne(vs []int64) int64 {
	c.Count++
	return c.Inner.ChooseOne(vs)
}

// SequenceRng replays a fixed list of draws in order, for deterministic
// tests. UniformInclusive returns the next scripted value outright,
// not an offset into [lo,hi]; callers script the values they expect
// the die to land on.
type SequenceRng struct {
	Draws []int64
	pos   int
}

func (s *SequenceRng) next() int64 {
	if s.pos >= len(s.Draws) {
		panic("dice: SequenceRng exhausted")
	}
	v := s.Draws[s.pos]
	s.pos++
	return v
}

func (s *SequenceRng) UniformInclusive(lo, hi int64) int64 { return s.next() }

func (s *SequenceRng) ChooseOne(vs []int64) int64 { return s.next() }
