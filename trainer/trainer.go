package trainer

import (
	"context"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/google/uuid"
	"github.com/logrusorgru/aurora"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/zhiyul9/traffic-rl/envs"
	"github.com/zhiyul9/traffic-rl/metrics"
	"github.com/zhiyul9/traffic-rl/rl"
)

type Config struct {
	Iterations      int
	RolloutsPerIter int
	Horizon         int
	Workers         int
	CheckpointEvery int
	ResultDir       string
	RunID           string
	RedisAddr       string
}

// EnvFactory builds an independent environment per worker
type EnvFactory func(worker int) (rl.Environment, error)

// Trainer runs rollout workers in parallel against a shared policy.
// The environments run concurrently, policy calls are serialised.
type Trainer struct {
	cfg     *Config
	policy  rl.Policy
	factory EnvFactory
}

func New(cfg *Config, policy rl.Policy, factory EnvFactory) *Trainer {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.RolloutsPerIter <= 0 {
		cfg.RolloutsPerIter = cfg.Workers
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	return &Trainer{
		cfg:     cfg,
		policy:  policy,
		factory: factory,
	}
}

// lockedPolicy serialises access to the shared policy between workers
type lockedPolicy struct {
	mu sync.Mutex
	p  rl.Policy
}

func (l *lockedPolicy) NextAction(step int, obs []float64, space rl.Space) ([]float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.NextAction(step, obs, space)
}

func (l *lockedPolicy) Update(step int, obs, action []float64, reward float64, nextObs []float64, done bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p.Update(step, obs, action, reward, nextObs, done)
}

func (l *lockedPolicy) UpdateIteration(episode int, trace *rl.Trace) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p.UpdateIteration(episode, trace)
}

func (l *lockedPolicy) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p.Reset()
}

type rolloutResult struct {
	worker int
	trace  *rl.Trace
	err    error
}

// ResultDir of the run, progress.csv and checkpoints end up here
func (t *Trainer) ResultDir() string {
	return path.Join(t.cfg.ResultDir, t.cfg.RunID)
}

// Run executes the training iterations. Every iteration rolls out
// RolloutsPerIter episodes across the workers, updates the policy per
// trace and appends a row to progress.csv.
func (t *Trainer) Run(ctx context.Context) error {
	resultDir := t.ResultDir()
	progress, err := metrics.NewProgressWriter(resultDir)
	if err != nil {
		return err
	}
	defer progress.Close()

	sink, err := metrics.NewRedisSink(t.cfg.RedisAddr, t.cfg.RunID)
	if err != nil {
		return err
	}
	defer sink.Close()

	workerEnvs := make([]rl.Environment, t.cfg.Workers)
	for i := range workerEnvs {
		env, err := t.factory(i)
		if err != nil {
			return fmt.Errorf("worker %d environment: %w", i, err)
		}
		workerEnvs[i] = env
	}

	shared := &lockedPolicy{p: t.policy}
	board := newStatusBoard(t.cfg.Workers)
	board.Start()
	defer board.Stop()

	fmt.Printf("run %s: %d iterations x %d rollouts on %d workers\n",
		t.cfg.RunID, t.cfg.Iterations, t.cfg.RolloutsPerIter, t.cfg.Workers)

	episodesTotal := 0
	bestMean := 0.0
	for iter := 0; iter < t.cfg.Iterations; iter++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		jobs := make(chan int, t.cfg.RolloutsPerIter)
		results := make(chan rolloutResult, t.cfg.RolloutsPerIter)
		var wg sync.WaitGroup
		for w := 0; w < t.cfg.Workers; w++ {
			wg.Add(1)
			go func(worker int) {
				defer wg.Done()
				agent := rl.NewAgent(&rl.AgentConfig{
					Episodes:    1,
					Horizon:     t.cfg.Horizon,
					Policy:      shared,
					Environment: workerEnvs[worker],
				})
				for job := range jobs {
					eCtx := rl.NewEpisodeContext(ctx, job, 0)
					agent.RunEpisode(eCtx)
					eCtx.Cancel()
					board.SetWorker(worker, fmt.Sprintf("worker %d: rollout %d, %d steps, return %.2f",
						worker, job+1, eCtx.Steps, eCtx.TotalReward))
					results <- rolloutResult{worker: worker, trace: eCtx.Trace, err: eCtx.Err}
				}
			}(w)
		}
		for r := 0; r < t.cfg.RolloutsPerIter; r++ {
			jobs <- r
		}
		close(jobs)
		wg.Wait()
		close(results)

		returns := make([]float64, 0, t.cfg.RolloutsPerIter)
		speeds := make([]float64, 0, t.cfg.RolloutsPerIter)
		failed := 0
		for res := range results {
			if res.err != nil {
				failed += 1
				continue
			}
			returns = append(returns, res.trace.TotalReward())
			speeds = append(speeds, envs.TraceMeanSpeed(res.trace))
		}
		episodesTotal += t.cfg.RolloutsPerIter
		if len(returns) == 0 {
			return fmt.Errorf("iteration %d: all %d rollouts failed", iter+1, t.cfg.RolloutsPerIter)
		}

		row := metrics.ProgressRow{
			Iteration:     iter + 1,
			EpisodesTotal: episodesTotal,
			RewardMean:    stat.Mean(returns, nil),
			RewardMin:     floats.Min(returns),
			RewardMax:     floats.Max(returns),
			MeanSpeed:     stat.Mean(speeds, nil),
		}
		if err := progress.Append(row); err != nil {
			return err
		}
		if err := sink.Publish(ctx, row); err != nil {
			fmt.Printf("\n%s\n", aurora.Yellow(fmt.Sprintf("redis publish failed: %v", err)))
			sink = nil
		}
		if row.RewardMean > bestMean || iter == 0 {
			bestMean = row.RewardMean
		}
		board.SetHeader(fmt.Sprintf("iter %*d/%d: reward mean %.2f min %.2f max %.2f, speed %.2f, failed %d",
			len(fmt.Sprint(t.cfg.Iterations)), iter+1, t.cfg.Iterations,
			row.RewardMean, row.RewardMin, row.RewardMax, row.MeanSpeed, failed))

		if t.cfg.CheckpointEvery > 0 && (iter+1)%t.cfg.CheckpointEvery == 0 {
			if err := t.checkpoint(resultDir, iter+1); err != nil {
				return err
			}
		}
	}

	if err := t.checkpoint(resultDir, t.cfg.Iterations); err != nil {
		return err
	}
	fmt.Printf("\n%s\n", aurora.Green(fmt.Sprintf("run %s done: %d episodes, best reward mean %.2f, results in %s",
		t.cfg.RunID, episodesTotal, bestMean, resultDir)))
	return nil
}

func (t *Trainer) checkpoint(resultDir string, iteration int) error {
	rec, ok := t.policy.(rl.Recorder)
	if !ok {
		return nil
	}
	dir := path.Join(resultDir, "checkpoints")
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}
	return rec.Record(path.Join(dir, fmt.Sprintf("iter_%d.json", iteration)))
}
