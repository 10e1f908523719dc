package rl

// Environment is a sequential decision process with vector observations
// and vector actions.
type Environment interface {
	// Reset starts a new episode and returns the first observation
	Reset() ([]float64, error)
	// Step applies an action and advances the environment by one step
	Step([]float64) (StepResult, error)
	// ActionSpace describes the legal actions at the time of the call
	ActionSpace() Space
	// ObservationSpace describes the observations at the time of the call
	ObservationSpace() Space
}

// StepResult is the outcome of a single environment step. Done signals
// termination from inside the environment, the episode horizon is the
// caller's concern.
type StepResult struct {
	Obs    []float64          `json:"obs"`
	Reward float64            `json:"reward"`
	Done   bool               `json:"done"`
	Info   map[string]float64 `json:"info,omitempty"`
}
