package envs

import (
	"math"

	"github.com/zhiyul9/traffic-rl/rl"
	"github.com/zhiyul9/traffic-rl/traffic"
)

// AccelEnv commands accelerations for the controlled vehicles and
// rewards high average speed.
type AccelEnv struct {
	sim    traffic.Simulator
	params Params
}

var _ Adapter = &AccelEnv{}

func NewAccelEnv(sim traffic.Simulator, params Params) (*AccelEnv, error) {
	if err := params.Validate("max_accel", "max_decel"); err != nil {
		return nil, err
	}
	return &AccelEnv{sim: sim, params: params}, nil
}

// ActionSpace is one bounded acceleration per controlled vehicle
func (e *AccelEnv) ActionSpace() rl.Space {
	n := len(e.sim.RLIDs())
	return rl.NewBox(-math.Abs(e.params.MaxDecel), math.Abs(e.params.MaxAccel), n)
}

// ObservationSpace is a position and a speed per vehicle, both non
// negative and unbounded above
func (e *AccelEnv) ObservationSpace() rl.Space {
	n := len(e.sim.IDs())
	return rl.NewBox(0, math.Inf(1), 2*n)
}

func (e *AccelEnv) ApplyActions(actions []float64) error {
	ids := lookupOrder(e.sim, e.params.SortVehicles, e.sim.RLIDs())
	return e.sim.SetAccel(ids, actions)
}

// State lists the positions of all vehicles in lookup order followed by
// their speeds in the same order
func (e *AccelEnv) State() []float64 {
	ids := lookupOrder(e.sim, e.params.SortVehicles, e.sim.IDs())
	obs := make([]float64, 0, 2*len(ids))
	for _, id := range ids {
		obs = append(obs, e.sim.Position(id))
	}
	for _, id := range ids {
		obs = append(obs, e.sim.Speed(id))
	}
	return obs
}

// Reward is the average speed over all vehicles, an empty road scores
// zero
func (e *AccelEnv) Reward(actions []float64) float64 {
	return meanSpeed(e.sim)
}
