package rl

import "encoding/json"

// TraceStep is one transition of an episode.
type TraceStep struct {
	Obs     []float64 `json:"obs"`
	Action  []float64 `json:"action"`
	Reward  float64   `json:"reward"`
	NextObs []float64 `json:"next_obs"`
	Done    bool      `json:"done"`
}

// Trace of an episode as a sequence of transitions
type Trace struct {
	steps []TraceStep
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]TraceStep, 0),
	}
}

func (t *Trace) Append(obs, action []float64, reward float64, nextObs []float64, done bool) {
	t.steps = append(t.steps, TraceStep{
		Obs:     obs,
		Action:  action,
		Reward:  reward,
		NextObs: nextObs,
		Done:    done,
	})
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) Get(i int) (TraceStep, bool) {
	if i < 0 || i >= len(t.steps) {
		return TraceStep{}, false
	}
	return t.steps[i], true
}

func (t *Trace) Last() (TraceStep, bool) {
	if len(t.steps) < 1 {
		return TraceStep{}, false
	}
	return t.steps[len(t.steps)-1], true
}

func (t *Trace) Slice(from, to int) *Trace {
	sliced := NewTrace()
	for i := from; i < to && i < len(t.steps); i++ {
		sliced.steps = append(sliced.steps, t.steps[i])
	}
	return sliced
}

// Rewards returns the per step rewards in order
func (t *Trace) Rewards() []float64 {
	out := make([]float64, len(t.steps))
	for i, s := range t.steps {
		out[i] = s.Reward
	}
	return out
}

// TotalReward is the undiscounted episode return
func (t *Trace) TotalReward() float64 {
	total := float64(0)
	for _, s := range t.steps {
		total += s.Reward
	}
	return total
}

// Return is the discounted episode return from the first step
func (t *Trace) Return(gamma float64) float64 {
	total := float64(0)
	discount := float64(1)
	for _, s := range t.steps {
		total += discount * s.Reward
		discount *= gamma
	}
	return total
}

func (t *Trace) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.steps)
}

func (t *Trace) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.steps)
}
