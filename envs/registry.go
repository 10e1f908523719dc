package envs

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zhiyul9/traffic-rl/traffic"
)

var ErrUnknownEnv = errors.New("unknown environment")

// Builder constructs an adapter over a simulator
type Builder func(sim traffic.Simulator, params Params) (Adapter, error)

var builders = make(map[string]Builder)

// Register makes an adapter available under a name
func Register(name string, b Builder) {
	builders[name] = b
}

// Names lists the registered adapters
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named adapter and wraps it into a driver
func New(name string, sim traffic.Simulator, params Params) (*Env, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w %q, have: %s", ErrUnknownEnv, name, strings.Join(Names(), ", "))
	}
	adapter, err := b(sim, params)
	if err != nil {
		return nil, err
	}
	return NewEnv(sim, adapter, params), nil
}

func init() {
	Register("accel", func(sim traffic.Simulator, params Params) (Adapter, error) {
		return NewAccelEnv(sim, params)
	})
	Register("target-velocity", func(sim traffic.Simulator, params Params) (Adapter, error) {
		return NewTargetVelocityEnv(sim, params)
	})
	Register("traffic-light", func(sim traffic.Simulator, params Params) (Adapter, error) {
		ls, ok := sim.(LightSimulator)
		if !ok {
			return nil, fmt.Errorf("traffic-light environment needs a simulator with signal control")
		}
		return NewTrafficLightEnv(ls, params)
	})
}
