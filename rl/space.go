package rl

import (
	"fmt"
	"math"
	"math/rand"
)

// Space describes the set of vectors an environment accepts as actions
// or produces as observations.
type Space interface {
	// Dim is the number of components of a vector in the space
	Dim() int
	// Contains reports whether the vector lies inside the space
	Contains([]float64) bool
	// Sample draws a vector from the space
	Sample(*rand.Rand) []float64
}

// Box is a real vector space with per component lower and upper bounds.
// Bounds are inclusive, +Inf and -Inf are legal.
type Box struct {
	Low  []float64
	High []float64
}

// NewBox replicates scalar bounds over dim components
func NewBox(low, high float64, dim int) *Box {
	b := &Box{
		Low:  make([]float64, dim),
		High: make([]float64, dim),
	}
	for i := 0; i < dim; i++ {
		b.Low[i] = low
		b.High[i] = high
	}
	return b
}

// NewBoxSlice takes explicit per component bounds
func NewBoxSlice(low, high []float64) *Box {
	if len(low) != len(high) {
		panic("box bounds of different lengths")
	}
	return &Box{Low: low, High: high}
}

var _ Space = &Box{}

func (b *Box) Dim() int {
	return len(b.Low)
}

func (b *Box) Contains(v []float64) bool {
	if len(v) != len(b.Low) {
		return false
	}
	for i, x := range v {
		if x < b.Low[i] || x > b.High[i] {
			return false
		}
	}
	return true
}

func (b *Box) Sample(r *rand.Rand) []float64 {
	v := make([]float64, len(b.Low))
	for i := range v {
		lo, hi := b.Low[i], b.High[i]
		switch {
		case !math.IsInf(lo, 0) && !math.IsInf(hi, 0):
			v[i] = lo + r.Float64()*(hi-lo)
		case !math.IsInf(lo, 0):
			v[i] = lo + math.Abs(r.NormFloat64())
		case !math.IsInf(hi, 0):
			v[i] = hi - math.Abs(r.NormFloat64())
		default:
			v[i] = r.NormFloat64()
		}
	}
	return v
}

// Clip maps a vector onto the box component wise
func (b *Box) Clip(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Min(math.Max(x, b.Low[i]), b.High[i])
	}
	return out
}

func (b *Box) String() string {
	if len(b.Low) == 0 {
		return "Box(0)"
	}
	return fmt.Sprintf("Box(%d)[%g, %g]", len(b.Low), b.Low[0], b.High[0])
}

// Discrete is a choice among N alternatives, encoded as a one component
// vector holding an index in [0, N).
type Discrete struct {
	N int
}

func NewDiscrete(n int) *Discrete {
	return &Discrete{N: n}
}

var _ Space = &Discrete{}

func (d *Discrete) Dim() int {
	return 1
}

func (d *Discrete) Contains(v []float64) bool {
	if len(v) != 1 {
		return false
	}
	i := v[0]
	return i == math.Trunc(i) && i >= 0 && int(i) < d.N
}

func (d *Discrete) Sample(r *rand.Rand) []float64 {
	return []float64{float64(r.Intn(d.N))}
}

func (d *Discrete) String() string {
	return fmt.Sprintf("Discrete(%d)", d.N)
}

// ShapeError reports a vector whose length does not match the space.
type ShapeError struct {
	Expected int
	Got      int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape mismatch: expected %d components, got %d", e.Expected, e.Got)
}

// Validate checks an action against a space before it reaches the
// environment. Length mismatches are reported as a ShapeError,
// out of bounds components as a plain error.
func Validate(s Space, v []float64) error {
	if len(v) != s.Dim() {
		return &ShapeError{Expected: s.Dim(), Got: len(v)}
	}
	if !s.Contains(v) {
		return fmt.Errorf("action %v outside space %v", v, s)
	}
	return nil
}
