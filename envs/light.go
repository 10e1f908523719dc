package envs

import (
	"math"

	"github.com/zhiyul9/traffic-rl/rl"
	"github.com/zhiyul9/traffic-rl/traffic"
)

// LightSimulator adds signal control to the simulator surface
type LightSimulator interface {
	traffic.Simulator
	Phase() (int, float64)
	MaySwitch() bool
	SwitchPhase() bool
	Approaches() []traffic.ApproachState
}

// action indices of the light adapter
const (
	LightHold   = 0
	LightSwitch = 1
)

// TrafficLightEnv controls a signalised intersection with hold or
// switch commands and rewards short queues.
type TrafficLightEnv struct {
	sim    LightSimulator
	params Params
}

var _ Adapter = &TrafficLightEnv{}

func NewTrafficLightEnv(sim LightSimulator, params Params) (*TrafficLightEnv, error) {
	return &TrafficLightEnv{sim: sim, params: params}, nil
}

func (e *TrafficLightEnv) ActionSpace() rl.Space {
	return rl.NewDiscrete(2)
}

// ObservationSpace covers count, halted and mean speed per approach
// plus the phase index and its elapsed time
func (e *TrafficLightEnv) ObservationSpace() rl.Space {
	n := len(e.sim.Approaches())
	return rl.NewBox(0, math.Inf(1), 3*n+2)
}

// ApplyActions honors a switch command, holds are free. A switch during
// yellow or before the minimum green is ignored by the light.
func (e *TrafficLightEnv) ApplyActions(actions []float64) error {
	if len(actions) == 1 && int(actions[0]) == LightSwitch {
		e.sim.SwitchPhase()
	}
	return nil
}

func (e *TrafficLightEnv) State() []float64 {
	approaches := e.sim.Approaches()
	obs := make([]float64, 0, 3*len(approaches)+2)
	for _, a := range approaches {
		obs = append(obs, float64(a.Count), float64(a.Halted), a.MeanSpeed)
	}
	phase, elapsed := e.sim.Phase()
	obs = append(obs, float64(phase), elapsed)
	return obs
}

// Reward is the negated number of halted vehicles over all approaches
func (e *TrafficLightEnv) Reward(actions []float64) float64 {
	total := 0
	for _, a := range e.sim.Approaches() {
		total += a.Halted
	}
	return -float64(total)
}
