package rl

import (
	"context"
	"errors"
	"math"
	"testing"
)

// lineEnv walks a point along a line, one bounded step at a time
type lineEnv struct {
	pos    float64
	target float64
}

func (e *lineEnv) Reset() ([]float64, error) {
	e.pos = 0
	return []float64{0}, nil
}

func (e *lineEnv) Step(action []float64) (StepResult, error) {
	e.pos += action[0]
	return StepResult{
		Obs:    []float64{e.pos},
		Reward: action[0],
		Done:   e.pos >= e.target,
	}, nil
}

func (e *lineEnv) ActionSpace() Space {
	return NewBox(-1, 1, 1)
}

func (e *lineEnv) ObservationSpace() Space {
	return NewBox(math.Inf(-1), math.Inf(1), 1)
}

// brokenPolicy always emits an action of the wrong dimension
type brokenPolicy struct{}

func (b *brokenPolicy) UpdateIteration(_ int, _ *Trace) {}
func (b *brokenPolicy) NextAction(step int, obs []float64, space Space) ([]float64, bool) {
	return []float64{0, 0}, true
}
func (b *brokenPolicy) Update(_ int, _ []float64, _ []float64, _ float64, _ []float64, _ bool) {}
func (b *brokenPolicy) Reset()                                                                {}

func TestAgentEnforcesHorizon(t *testing.T) {
	agent := NewAgent(&AgentConfig{
		Episodes:    1,
		Horizon:     25,
		Policy:      NewConstantPolicy(0),
		Environment: &lineEnv{target: 1000},
	})
	eCtx := NewEpisodeContext(context.Background(), 0, 0)
	agent.RunEpisode(eCtx)
	eCtx.Cancel()

	if eCtx.Err != nil {
		t.Fatalf("Episode failed: %v", eCtx.Err)
	}
	// the environment never terminates on its own
	if eCtx.Steps != 25 {
		t.Errorf("Expected the horizon to cap the episode at 25 steps, got %d", eCtx.Steps)
	}
}

func TestAgentStopsOnDone(t *testing.T) {
	agent := NewAgent(&AgentConfig{
		Episodes:    1,
		Horizon:     100,
		Policy:      NewConstantPolicy(1),
		Environment: &lineEnv{target: 3},
	})
	eCtx := NewEpisodeContext(context.Background(), 0, 0)
	agent.RunEpisode(eCtx)
	eCtx.Cancel()

	if eCtx.Steps != 3 {
		t.Errorf("Expected the episode to end when the environment is done, got %d steps", eCtx.Steps)
	}
	if eCtx.TotalReward != 3 {
		t.Errorf("Expected total reward 3, got %f", eCtx.TotalReward)
	}
	last, ok := eCtx.Trace.Last()
	if !ok || !last.Done {
		t.Errorf("Expected the trace to record the terminal step")
	}
}

func TestAgentValidatesActions(t *testing.T) {
	agent := NewAgent(&AgentConfig{
		Episodes:    1,
		Horizon:     10,
		Policy:      &brokenPolicy{},
		Environment: &lineEnv{target: 10},
	})
	eCtx := NewEpisodeContext(context.Background(), 0, 0)
	agent.RunEpisode(eCtx)
	eCtx.Cancel()

	sErr := &ShapeError{}
	if !errors.As(eCtx.Err, &sErr) {
		t.Fatalf("Expected a shape error from the invalid action, got %v", eCtx.Err)
	}
	if eCtx.Trace.Len() != 0 {
		t.Errorf("Expected no recorded steps, got %d", eCtx.Trace.Len())
	}
}

func TestAgentRunCollectsTraces(t *testing.T) {
	agent := NewAgent(&AgentConfig{
		Episodes:    3,
		Horizon:     5,
		Policy:      NewConstantPolicy(1),
		Environment: &lineEnv{target: 1000},
	})
	agent.Run(context.Background())

	traces := agent.Traces()
	if len(traces) != 3 {
		t.Fatalf("Expected 3 traces, got %d", len(traces))
	}
	for i, trace := range traces {
		if trace == nil || trace.Len() != 5 {
			t.Errorf("Expected trace %d with 5 steps, got %v", i, trace)
		}
	}
}

func TestConstantPolicyClips(t *testing.T) {
	policy := NewConstantPolicy(5)
	action, ok := policy.NextAction(0, nil, NewBox(-1, 1, 2))
	if !ok {
		t.Fatalf("Expected an action")
	}
	if len(action) != 2 || action[0] != 1 || action[1] != 1 {
		t.Errorf("Expected the constant clipped to the bounds, got %v", action)
	}
}

func TestRandomPolicyStaysInSpace(t *testing.T) {
	policy := NewRandomPolicy()
	space := NewBox(-2, 2, 3)
	for i := 0; i < 50; i++ {
		action, ok := policy.NextAction(i, nil, space)
		if !ok || !space.Contains(action) {
			t.Fatalf("Expected random actions inside the space, got %v", action)
		}
	}
}
