package experiments

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zhiyul9/traffic-rl/envs"
	"github.com/zhiyul9/traffic-rl/policies"
	"github.com/zhiyul9/traffic-rl/rl"
	"github.com/zhiyul9/traffic-rl/traffic"
	"github.com/zhiyul9/traffic-rl/trainer"
)

type trainOpts struct {
	iterations      int
	rollouts        int
	workers         int
	checkpointEvery int

	alpha float64
	gamma float64
	sigma float64

	envName string
	length  float64
	humans  int
	rls     int
	seed    int64
}

func Train(opts *trainOpts, horizon int, saveFile, redisAddr string, params envs.Params, ctx context.Context) error {
	gCfg := policies.DefaultGaussianConfig()
	gCfg.Alpha = opts.alpha
	gCfg.Gamma = opts.gamma
	gCfg.Sigma = opts.sigma
	policy := policies.NewGaussian(gCfg)

	// every worker rolls out on its own simulation, seeds are offset so
	// the rollouts differ but stay reproducible
	factory := func(worker int) (rl.Environment, error) {
		sim := traffic.NewSimulation(
			traffic.Ring(opts.length, opts.humans, opts.rls),
			&traffic.Config{Seed: opts.seed + int64(worker)},
		)
		return envs.New(opts.envName, sim, params)
	}

	t := trainer.New(&trainer.Config{
		Iterations:      opts.iterations,
		RolloutsPerIter: opts.rollouts,
		Horizon:         horizon,
		Workers:         opts.workers,
		CheckpointEvery: opts.checkpointEvery,
		ResultDir:       saveFile,
		RedisAddr:       redisAddr,
	}, policy, factory)
	return t.Run(ctx)
}

func TrainCommand() *cobra.Command {
	opts := &trainOpts{}

	cmd := &cobra.Command{
		Use: "train",
	}
	loadParams := paramFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		params, err := loadParams()
		if err != nil {
			return err
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt)

		doneCh := make(chan struct{})

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			select {
			case <-sigCh:
			case <-doneCh:
			}
			cancel()
		}()
		defer close(doneCh)

		return Train(opts, horizon, saveFile, redisAddr, params, ctx)
	}
	cmd.PersistentFlags().IntVarP(&opts.iterations, "iterations", "i", 100, "Number of training iterations")
	cmd.PersistentFlags().IntVar(&opts.rollouts, "rollouts", 0, "Episodes per iteration, defaults to the worker count")
	cmd.PersistentFlags().IntVarP(&opts.workers, "workers", "w", 1, "Number of parallel rollout workers")
	cmd.PersistentFlags().IntVar(&opts.checkpointEvery, "checkpoint-every", 10, "Iterations between policy checkpoints")
	cmd.PersistentFlags().Float64Var(&opts.alpha, "alpha", 0.001, "Learning rate of the policy gradient")
	cmd.PersistentFlags().Float64Var(&opts.gamma, "gamma", 0.999, "Discount factor of the episode return")
	cmd.PersistentFlags().Float64Var(&opts.sigma, "sigma", 0.5, "Exploration noise of the gaussian policy")
	cmd.PersistentFlags().StringVar(&opts.envName, "env", "accel", envNameUsage())
	cmd.PersistentFlags().Float64Var(&opts.length, "length", 230, "Length of the ring road in meters")
	cmd.PersistentFlags().IntVar(&opts.humans, "humans", 21, "Number of human driven vehicles")
	cmd.PersistentFlags().IntVar(&opts.rls, "rls", 1, "Number of controlled vehicles")
	cmd.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "Base seed of the worker simulations")
	return cmd
}
