package envs

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultHorizon = 500
	DefaultSimStep = 0.1
)

// Params configures the environment adapters. Fields are read only for
// the lifetime of an episode.
type Params struct {
	// bounds of the commanded accelerations in m/s^2, magnitudes
	MaxAccel float64 `env:"TRAFFIC_MAX_ACCEL"`
	MaxDecel float64 `env:"TRAFFIC_MAX_DECEL"`
	// desired speed of the target velocity reward in m/s
	TargetVelocity float64 `env:"TRAFFIC_TARGET_VELOCITY"`
	// weight of the action magnitude penalty
	AccelPenalty float64 `env:"TRAFFIC_ACCEL_PENALTY" envDefault:"0.1"`
	// episode length, enforced by the driver and never by the adapter
	Horizon int `env:"TRAFFIC_HORIZON" envDefault:"500"`
	// ticks executed after reset before control starts
	WarmupSteps int `env:"TRAFFIC_WARMUP_STEPS" envDefault:"0"`
	// query vehicles sorted by position instead of insertion order
	SortVehicles bool `env:"TRAFFIC_SORT_VEHICLES"`
}

// DefaultParams carries the documented defaults without the required
// acceleration bounds
func DefaultParams() Params {
	return Params{
		AccelPenalty: 0.1,
		Horizon:      DefaultHorizon,
	}
}

// FromEnv loads parameter overrides from the process environment
func FromEnv() (Params, error) {
	return env.ParseAs[Params]()
}

// MissingParamError reports a required parameter that was not set
type MissingParamError struct {
	Key string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("environment parameter %q is required and was not set", e.Key)
}

// Validate checks that the named parameters are set, adapters call it
// at construction so a misconfiguration fails before the first episode
func (p Params) Validate(required ...string) error {
	for _, key := range required {
		switch key {
		case "max_accel":
			if p.MaxAccel == 0 {
				return &MissingParamError{Key: key}
			}
		case "max_decel":
			if p.MaxDecel == 0 {
				return &MissingParamError{Key: key}
			}
		case "target_velocity":
			if p.TargetVelocity == 0 {
				return &MissingParamError{Key: key}
			}
		default:
			return fmt.Errorf("unknown required parameter %q", key)
		}
	}
	return nil
}
