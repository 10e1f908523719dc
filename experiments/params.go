package experiments

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zhiyul9/traffic-rl/envs"
)

// paramFlags registers the adapter parameter flags on the command and
// returns a loader resolving them against the process environment.
// A flag set explicitly wins over its environment variable.
func paramFlags(cmd *cobra.Command) func() (envs.Params, error) {
	var maxAccel float64
	var maxDecel float64
	var targetVelocity float64
	var warmup int
	var sorted bool

	cmd.PersistentFlags().Float64Var(&maxAccel, "max-accel", 1, "Largest commanded acceleration in m/s^2")
	cmd.PersistentFlags().Float64Var(&maxDecel, "max-decel", 1, "Largest commanded deceleration in m/s^2")
	cmd.PersistentFlags().Float64Var(&targetVelocity, "target-velocity", 10, "Desired speed of the target velocity reward in m/s")
	cmd.PersistentFlags().IntVar(&warmup, "warmup", 0, "Simulation ticks to run after reset before control starts")
	cmd.PersistentFlags().BoolVar(&sorted, "sorted", false, "Order vehicles by position instead of insertion order")

	return func() (envs.Params, error) {
		params, err := envs.FromEnv()
		if err != nil {
			return params, err
		}
		flags := cmd.PersistentFlags()
		if flags.Changed("max-accel") || params.MaxAccel == 0 {
			params.MaxAccel = maxAccel
		}
		if flags.Changed("max-decel") || params.MaxDecel == 0 {
			params.MaxDecel = maxDecel
		}
		if flags.Changed("target-velocity") || params.TargetVelocity == 0 {
			params.TargetVelocity = targetVelocity
		}
		if flags.Changed("warmup") {
			params.WarmupSteps = warmup
		}
		if flags.Changed("sorted") {
			params.SortVehicles = sorted
		}
		params.Horizon = horizon
		return params, nil
	}
}

func envNameUsage() string {
	return fmt.Sprintf("Environment to control, one of: %s", strings.Join(envs.Names(), ", "))
}
