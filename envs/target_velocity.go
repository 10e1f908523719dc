package envs

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/zhiyul9/traffic-rl/traffic"
)

// TargetVelocityEnv shares the accel adapter but rewards closeness of
// all speeds to a desired velocity, discounting large commands.
type TargetVelocityEnv struct {
	*AccelEnv
}

var _ Adapter = &TargetVelocityEnv{}

func NewTargetVelocityEnv(sim traffic.Simulator, params Params) (*TargetVelocityEnv, error) {
	if err := params.Validate("max_accel", "max_decel", "target_velocity"); err != nil {
		return nil, err
	}
	base, err := NewAccelEnv(sim, params)
	if err != nil {
		return nil, err
	}
	return &TargetVelocityEnv{AccelEnv: base}, nil
}

// Reward peaks at one when every vehicle drives the target velocity and
// falls with the euclidean distance from it, an empty road scores zero
func (e *TargetVelocityEnv) Reward(actions []float64) float64 {
	ids := e.sim.IDs()
	if len(ids) == 0 {
		return 0
	}
	target := make([]float64, len(ids))
	diff := make([]float64, len(ids))
	for i, id := range ids {
		target[i] = e.params.TargetVelocity
		diff[i] = e.sim.Speed(id) - e.params.TargetVelocity
	}
	reward := math.Max(0, 1-floats.Norm(diff, 2)/floats.Norm(target, 2))

	if len(actions) > 0 {
		penalty := float64(0)
		for _, a := range actions {
			penalty += math.Abs(a)
		}
		reward -= e.params.AccelPenalty * penalty / float64(len(actions))
	}
	return reward
}
