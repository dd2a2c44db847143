package daily

import "unicode/utf16"

const twoPow32Inv = 2.3283064365386963e-10 // 2^-32

// Alea is Johannes Baagøe's floating-point PRNG, seeded the same way as the
// browser client's seedrandom.alea so a seed yields an identical sequence.
//
// Products are wrapped in explicit float64 conversions to stop the compiler
// fusing them into FMA instructions, which would change the low bits.
type Alea struct {
	s0, s1, s2 float64
	c          float64
}

// NewAlea seeds a generator from an arbitrary string.
func NewAlea(seed string) *Alea {
	m := newMash()
	a := &Alea{c: 1}
	a.s0 = m.mash(" ")
	a.s1 = m.mash(" ")
	a.s2 = m.mash(" ")

	a.s0 -= m.mash(seed)
	if a.s0 < 0 {
		a.s0++
	}
	a.s1 -= m.mash(seed)
	if a.s1 < 0 {
		a.s1++
	}
	a.s2 -= m.mash(seed)
	if a.s2 < 0 {
		a.s2++
	}
	return a
}

// Next returns the next value in [0, 1).
func (a *Alea) Next() float64 {
	t := float64(2091639*a.s0) + float64(a.c*twoPow32Inv)
	a.s0 = a.s1
	a.s1 = a.s2
	a.c = float64(int64(t))
	a.s2 = t - a.c
	return a.s2
}

type mash struct{ n float64 }

func newMash() *mash { return &mash{n: 0xefc8249d} }

// mash folds the UTF-16 code units of data into the running state.
func (m *mash) mash(data string) float64 {
	n := m.n
	for _, cu := range utf16.Encode([]rune(data)) {
		n += float64(cu)
		h := float64(0.02519603282416938 * n)
		n = float64(uint32(uint64(h)))
		h -= n
		h = float64(h * n)
		n = float64(uint32(uint64(h)))
		h -= n
		n += float64(h * 0x100000000)
	}
	m.n = n
	return float64(uint32(uint64(n))) * twoPow32Inv
}
