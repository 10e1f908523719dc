package experiments

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zhiyul9/traffic-rl/remote"
	"github.com/zhiyul9/traffic-rl/traffic"
)

func Serve(addr, scenarioName string, length float64, humans, rls int, simStep float64, seed int64, ctx context.Context) error {
	var scenario *traffic.Scenario
	switch scenarioName {
	case "ring":
		scenario = traffic.Ring(length, humans, rls)
	case "intersection":
		light := traffic.NewTrafficLight(2, 3, 5)
		scenario = traffic.Intersection(length,
			light,
			&traffic.Inflow{Route: "ns", Kind: traffic.Human, Prob: 0.1, Speed: 10},
			&traffic.Inflow{Route: "ew", Kind: traffic.Human, Prob: 0.1, Speed: 10},
		)
	default:
		return fmt.Errorf("unknown scenario %q, have: ring, intersection", scenarioName)
	}

	sim := traffic.NewSimulation(scenario, &traffic.Config{Step: simStep, Seed: seed})
	server := remote.NewServer(ctx, addr, sim)
	server.Start()
	fmt.Printf("Serving %s scenario on %s\n", scenarioName, addr)

	<-ctx.Done()
	return nil
}

func ServeCommand() *cobra.Command {
	var addr string
	var scenarioName string
	var length float64
	var humans int
	var rls int
	var simStep float64
	var seed int64

	cmd := &cobra.Command{
		Use: "serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)

			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				<-sigCh
				cancel()
			}()

			return Serve(addr, scenarioName, length, humans, rls, simStep, seed, ctx)
		},
	}
	cmd.PersistentFlags().StringVar(&addr, "addr", "localhost:8080", "Address to serve the simulation on")
	cmd.PersistentFlags().StringVar(&scenarioName, "scenario", "ring", "Scenario to simulate, one of: ring, intersection")
	cmd.PersistentFlags().Float64Var(&length, "length", 230, "Ring length or approach length in meters")
	cmd.PersistentFlags().IntVar(&humans, "humans", 21, "Number of human driven vehicles on the ring")
	cmd.PersistentFlags().IntVar(&rls, "rls", 1, "Number of controlled vehicles on the ring")
	cmd.PersistentFlags().Float64Var(&simStep, "sim-step", 0.1, "Seconds per simulation tick")
	cmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed of the simulation")
	return cmd
}
