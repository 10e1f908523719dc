package experiments

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/zhiyul9/traffic-rl/envs"
	"github.com/zhiyul9/traffic-rl/rl"
	"github.com/zhiyul9/traffic-rl/traffic"
)

func RingExperiments(episodes, horizon int, saveFile string, runs int, envName string, length float64, humans, rls int, params envs.Params, seed int64, ctx context.Context) error {
	makeEnv := func(humans, rls int) (rl.Environment, error) {
		sim := traffic.NewSimulation(traffic.Ring(length, humans, rls), &traffic.Config{Seed: seed})
		return envs.New(envName, sim, params)
	}

	holdEnv, err := makeEnv(humans, rls)
	if err != nil {
		return err
	}
	randomEnv, err := makeEnv(humans, rls)
	if err != nil {
		return err
	}
	// all human traffic, the controller never receives a vehicle
	idmEnv, err := makeEnv(humans+rls, 0)
	if err != nil {
		return err
	}

	c := rl.NewComparison(&rl.ComparisonConfig{
		Runs:       runs,
		Episodes:   episodes,
		Horizon:    horizon,
		RecordPath: saveFile,
		Timeout:    0 * time.Second,
		// record flags
		RecordTraces: false,
		RecordPolicy: false,
	})
	c.AddAnalysis("Returns", rl.NewEpisodeReturnAnalyzer(), rl.ReturnPlotter(saveFile))
	c.AddAnalysis("MeanSpeed", envs.NewMeanSpeedAnalyzer(), envs.MeanSpeedPlotter(saveFile))

	c.AddExperiment(rl.NewExperiment("Hold", rl.NewConstantPolicy(0), holdEnv))
	c.AddExperiment(rl.NewExperiment("Random", rl.NewRandomPolicy(), randomEnv))
	c.AddExperiment(rl.NewExperiment("IDM", rl.NewConstantPolicy(0), idmEnv))

	c.Run(ctx)
	return nil
}

func RingCommand() *cobra.Command {
	var envName string
	var length float64
	var humans int
	var rls int
	var seed int64

	cmd := &cobra.Command{
		Use: "ring",
	}
	loadParams := paramFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		params, err := loadParams()
		if err != nil {
			return err
		}
		return RingExperiments(episodes, horizon, saveFile, runs, envName, length, humans, rls, params, seed, context.Background())
	}
	cmd.PersistentFlags().StringVar(&envName, "env", "accel", envNameUsage())
	cmd.PersistentFlags().Float64Var(&length, "length", 230, "Length of the ring road in meters")
	cmd.PersistentFlags().IntVar(&humans, "humans", 21, "Number of human driven vehicles")
	cmd.PersistentFlags().IntVar(&rls, "rls", 1, "Number of controlled vehicles")
	cmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed of the simulation")
	return cmd
}
