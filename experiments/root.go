package experiments

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/zhiyul9/traffic-rl/envs"
)

var (
	episodes  int
	horizon   int
	saveFile  string
	runs      int
	redisAddr string
	envFile   string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use: "traffic-rl",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile == "" {
				return nil
			}
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("loading %s: %w", envFile, err)
			}
			return nil
		},
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 100, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", envs.DefaultHorizon, "Horizon of each episode")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().StringVar(&redisAddr, "redis", "", "Publish training progress to the redis instance at this address")
	rootCommand.PersistentFlags().StringVar(&envFile, "env-file", "", "Read environment parameter overrides from this file")
	// adding the subcommands here
	rootCommand.AddCommand(RingCommand())
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(GridCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(PlotCommand())
	return rootCommand
}
