package envs

import (
	"sort"

	"github.com/zhiyul9/traffic-rl/rl"
	"github.com/zhiyul9/traffic-rl/traffic"
)

// Adapter maps between a simulator and the vector interface of a
// learning algorithm. Spaces are recomputed on every call since entity
// churn can change their dimension between steps.
type Adapter interface {
	ActionSpace() rl.Space
	ObservationSpace() rl.Space
	// ApplyActions forwards commands for the controllable vehicles in
	// lookup order. The driver validates the shape beforehand, a
	// mismatching direct call surfaces as a simulator error.
	ApplyActions(actions []float64) error
	// State extracts the observation, fresh on every call
	State() []float64
	// Reward scores the last transition given the applied actions
	Reward(actions []float64) float64
}

// Env drives a simulator through an adapter as an rl.Environment.
// Operations assume a live simulator session.
type Env struct {
	sim     traffic.Simulator
	adapter Adapter
	params  Params
}

func NewEnv(sim traffic.Simulator, adapter Adapter, params Params) *Env {
	return &Env{
		sim:     sim,
		adapter: adapter,
		params:  params,
	}
}

var _ rl.Environment = &Env{}

// Adapter returns the adapter the driver wraps
func (e *Env) Adapter() Adapter {
	return e.adapter
}

// Reset restarts the simulation and runs the warmup ticks without
// commands before handing out the first observation
func (e *Env) Reset() ([]float64, error) {
	if err := e.sim.Reset(); err != nil {
		return nil, err
	}
	for i := 0; i < e.params.WarmupSteps; i++ {
		if err := e.sim.Advance(); err != nil {
			return nil, err
		}
	}
	return e.adapter.State(), nil
}

func (e *Env) Step(action []float64) (rl.StepResult, error) {
	if err := e.adapter.ApplyActions(action); err != nil {
		return rl.StepResult{}, err
	}
	if err := e.sim.Advance(); err != nil {
		return rl.StepResult{}, err
	}
	return rl.StepResult{
		Obs:    e.adapter.State(),
		Reward: e.adapter.Reward(action),
		Done:   e.sim.Crashed(),
		Info: map[string]float64{
			"time":       e.sim.Time(),
			"mean_speed": meanSpeed(e.sim),
		},
	}, nil
}

func (e *Env) ActionSpace() rl.Space {
	return e.adapter.ActionSpace()
}

func (e *Env) ObservationSpace() rl.Space {
	return e.adapter.ObservationSpace()
}

// lookupOrder is the ordering discipline shared by spaces, state
// extraction and action application
func lookupOrder(sim traffic.Simulator, sorted bool, ids []string) []string {
	if !sorted {
		return ids
	}
	out := make([]string, len(ids))
	copy(out, ids)
	sort.SliceStable(out, func(i, j int) bool {
		return sim.Position(out[i]) < sim.Position(out[j])
	})
	return out
}

// meanSpeed over all vehicles of the simulator, zero on an empty road
func meanSpeed(sim traffic.Simulator) float64 {
	ids := sim.IDs()
	if len(ids) == 0 {
		return 0
	}
	total := float64(0)
	for _, id := range ids {
		total += sim.Speed(id)
	}
	return total / float64(len(ids))
}
