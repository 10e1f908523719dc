package rl

import (
	"encoding/json"
	"testing"
)

func TestTraceAccumulates(t *testing.T) {
	trace := NewTrace()
	trace.Append([]float64{0}, []float64{1}, 1, []float64{1}, false)
	trace.Append([]float64{1}, []float64{0}, 2, []float64{2}, false)
	trace.Append([]float64{2}, []float64{0}, 3, []float64{3}, true)

	if trace.Len() != 3 {
		t.Fatalf("Expected 3 steps, got %d", trace.Len())
	}
	if total := trace.TotalReward(); total != 6 {
		t.Errorf("Expected total reward 6, got %f", total)
	}
	// 1 + 0.5*2 + 0.25*3
	if ret := trace.Return(0.5); ret != 2.75 {
		t.Errorf("Expected discounted return 2.75, got %f", ret)
	}

	step, ok := trace.Get(1)
	if !ok || step.Reward != 2 {
		t.Errorf("Expected the second step with reward 2, got %+v", step)
	}
	if _, ok := trace.Get(5); ok {
		t.Errorf("Expected no step past the end")
	}
	last, ok := trace.Last()
	if !ok || !last.Done {
		t.Errorf("Expected the last step to be terminal")
	}

	sliced := trace.Slice(1, 3)
	if sliced.Len() != 2 || sliced.TotalReward() != 5 {
		t.Errorf("Expected a 2 step slice with reward 5, got %d steps and %f", sliced.Len(), sliced.TotalReward())
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	trace := NewTrace()
	trace.Append([]float64{0.5, 1}, []float64{-1}, 0.25, []float64{1, 1.5}, true)

	data, err := json.Marshal(trace)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	restored := NewTrace()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if restored.Len() != 1 {
		t.Fatalf("Expected 1 step after the round trip, got %d", restored.Len())
	}
	step, _ := restored.Get(0)
	if step.Reward != 0.25 || !step.Done || len(step.Obs) != 2 {
		t.Errorf("Expected the step restored intact, got %+v", step)
	}
}
