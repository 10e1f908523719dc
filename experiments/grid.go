package experiments

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/zhiyul9/traffic-rl/envs"
	"github.com/zhiyul9/traffic-rl/policies"
	"github.com/zhiyul9/traffic-rl/rl"
	"github.com/zhiyul9/traffic-rl/traffic"
)

func GridExperiments(episodes, horizon int, saveFile string, runs int, armLength, switchTime, minGreen, inflowProb float64, params envs.Params, seed int64, ctx context.Context) error {
	makeEnv := func() (rl.Environment, error) {
		light := traffic.NewTrafficLight(2, switchTime, minGreen)
		scenario := traffic.Intersection(armLength, light,
			&traffic.Inflow{Route: "ns", Kind: traffic.Human, Prob: inflowProb, Speed: 10},
			&traffic.Inflow{Route: "ew", Kind: traffic.Human, Prob: inflowProb, Speed: 10},
		)
		sim := traffic.NewSimulation(scenario, &traffic.Config{Seed: seed})
		return envs.New("traffic-light", sim, params)
	}

	randomEnv, err := makeEnv()
	if err != nil {
		return err
	}
	greedyEnv, err := makeEnv()
	if err != nil {
		return err
	}
	softmaxEnv, err := makeEnv()
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
		RecordPolicy: true,
	})
	c.AddAnalysis("Returns", rl.NewEpisodeReturnAnalyzer(), rl.ReturnPlotter(saveFile))

	// counts and phase are near integral already, a width of one keeps
	// the table small without collapsing distinct queue lengths
	abstractor := policies.GridAbstractor(1)

	c.AddExperiment(rl.NewExperiment("Random", rl.NewRandomPolicy(), randomEnv))
	c.AddExperiment(rl.NewExperiment("EpsilonGreedy", policies.NewEpsilonGreedy(0.1, 0.99, 0.05, abstractor), greedyEnv))
	c.AddExperiment(rl.NewExperiment("Softmax", policies.NewSoftmax(0.1, 0.99, 1, abstractor), softmaxEnv))

	c.Run(ctx)
	return nil
}

func GridCommand() *cobra.Command {
	var armLength float64
	var switchTime float64
	var minGreen float64
	var inflowProb float64
	var seed int64

	cmd := &cobra.Command{
		Use: "grid",
	}
	loadParams := paramFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		params, err := loadParams()
		if err != nil {
			return err
		}
		return GridExperiments(episodes, horizon, saveFile, runs, armLength, switchTime, minGreen, inflowProb, params, seed, context.Background())
	}
	cmd.PersistentFlags().Float64Var(&armLength, "arm-length", 100, "Length of each approach in meters")
	cmd.PersistentFlags().Float64Var(&switchTime, "switch-time", 3, "Yellow time between green phases in seconds")
	cmd.PersistentFlags().Float64Var(&minGreen, "min-green", 5, "Shortest green time before a switch is honored in seconds")
	cmd.PersistentFlags().Float64Var(&inflowProb, "inflow", 0.1, "Spawn probability per tick on each approach")
	cmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed of the simulation")
	return cmd
}
