package rl

import (
	"math/rand"
	"time"
)

type Policy interface {
	// UpdateIteration is called once per episode with the full trace
	UpdateIteration(int, *Trace)
	// NextAction picks an action for the observation within the space
	NextAction(int, []float64, Space) ([]float64, bool)
	// Update is called after every step with the transition
	Update(int, []float64, []float64, float64, []float64, bool)
	Reset()
}

// Recorder is implemented by policies that can serialize their
// learned parameters.
type Recorder interface {
	Record(path string) error
}

type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy() *RandomPolicy {
	return &RandomPolicy{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *RandomPolicy) Reset() {

}

func (r *RandomPolicy) UpdateIteration(_ int, _ *Trace) {

}

func (r *RandomPolicy) NextAction(step int, obs []float64, space Space) ([]float64, bool) {
	return space.Sample(r.rand), true
}

func (r *RandomPolicy) Update(_ int, _ []float64, _ []float64, _ float64, _ []float64, _ bool) {}

// ConstantPolicy replicates a fixed value over the action dimension,
// the do nothing baseline when the value is zero.
type ConstantPolicy struct {
	value float64
}

var _ Policy = &ConstantPolicy{}

func NewConstantPolicy(value float64) *ConstantPolicy {
	return &ConstantPolicy{value: value}
}

func (c *ConstantPolicy) Reset() {

}

func (c *ConstantPolicy) UpdateIteration(_ int, _ *Trace) {

}

func (c *ConstantPolicy) NextAction(step int, obs []float64, space Space) ([]float64, bool) {
	action := make([]float64, space.Dim())
	for i := range action {
		action[i] = c.value
	}
	if b, ok := space.(*Box); ok {
		action = b.Clip(action)
	}
	return action, true
}

func (c *ConstantPolicy) Update(_ int, _ []float64, _ []float64, _ float64, _ []float64, _ bool) {}
