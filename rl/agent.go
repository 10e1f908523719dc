package rl

import (
	"context"
	"time"
)

// EpisodeContext carries the cancellation context of a single episode
// together with its outcome.
type EpisodeContext struct {
	Context context.Context
	Cancel  context.CancelFunc

	Episode     int
	Trace       *Trace
	Steps       int
	TotalReward float64
	RunDuration time.Duration
	TimedOut    bool
	Err         error
}

// NewEpisodeContext derives an episode context from the parent,
// a zero timeout means no deadline.
func NewEpisodeContext(parent context.Context, episode int, timeout time.Duration) *EpisodeContext {
	var ctx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	return &EpisodeContext{
		Context: ctx,
		Cancel:  cancel,
		Episode: episode,
		Trace:   NewTrace(),
	}
}

type AgentConfig struct {
	Episodes    int
	Horizon     int
	Policy      Policy
	Environment Environment
}

// RL Agent configured with the corresponding
// policy and environment
type Agent struct {
	config *AgentConfig
	// collects the traces of the run
	// Only populated if the Run function is invoked
	traces      []*Trace
	policy      Policy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		traces:      make([]*Trace, config.Episodes),
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// Run the agent for the specified number of episodes and horizon
func (a *Agent) Run(ctx context.Context) {
	for i := 0; i < a.config.Episodes; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}
		eCtx := NewEpisodeContext(ctx, i, 0)
		a.RunEpisode(eCtx)
		eCtx.Cancel()
		a.traces[i] = eCtx.Trace
	}
}

// Traces of the episodes executed by Run
func (a *Agent) Traces() []*Trace {
	return a.traces
}

// RunEpisode runs a single episode into the episode context. Actions
// are validated against the action space before they reach the
// environment, the horizon is enforced here and never inside the
// environment.
func (a *Agent) RunEpisode(eCtx *EpisodeContext) {
	start := time.Now()
	defer func() {
		eCtx.RunDuration = time.Since(start)
	}()

	obs, err := a.environment.Reset()
	if err != nil {
		eCtx.Err = err
		return
	}
	trace := NewTrace()
	eCtx.Trace = trace

	for i := 0; i < a.config.Horizon; i++ {
		select {
		case <-eCtx.Context.Done():
			eCtx.TimedOut = true
			return
		default:
		}
		// entity churn can change the action dimension between steps
		space := a.environment.ActionSpace()
		action, ok := a.policy.NextAction(i, obs, space)
		if !ok {
			break
		}
		if err := Validate(space, action); err != nil {
			eCtx.Err = err
			return
		}
		result, err := a.environment.Step(action)
		if err != nil {
			eCtx.Err = err
			return
		}
		a.policy.Update(i, obs, action, result.Reward, result.Obs, result.Done)
		trace.Append(obs, action, result.Reward, result.Obs, result.Done)
		obs = result.Obs
		if result.Done {
			break
		}
	}

	a.policy.UpdateIteration(eCtx.Episode, trace)
	eCtx.Steps = trace.Len()
	eCtx.TotalReward = trace.TotalReward()
}
