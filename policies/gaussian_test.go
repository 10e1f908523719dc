package policies

import (
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/zhiyul9/traffic-rl/rl"
)

func TestGaussianFeatures(t *testing.T) {
	f := features([]float64{2, -4})
	if f[0] != 0.5 || f[1] != -1 {
		t.Errorf("Expected [0.5 -1], got %v", f)
	}

	// small observations are not blown up
	f = features([]float64{0.5})
	if f[0] != 0.5 {
		t.Errorf("Expected 0.5, got %f", f[0])
	}
}

func TestGaussianActsInBox(t *testing.T) {
	g := NewGaussian(DefaultGaussianConfig())
	box := rl.NewBox(-1, 1, 2)

	for i := 0; i < 20; i++ {
		action, ok := g.NextAction(0, []float64{10, 20, 1, 2}, box)
		if !ok {
			t.Fatalf("Expected an action")
		}
		if len(action) != 2 {
			t.Fatalf("Expected 2 components, got %d", len(action))
		}
		for _, a := range action {
			if a < -1 || a > 1 {
				t.Errorf("Expected clipped action, got %f", a)
			}
		}
	}
}

func TestGaussianNeedsBox(t *testing.T) {
	g := NewGaussian(DefaultGaussianConfig())
	if _, ok := g.NextAction(0, []float64{0}, rl.NewDiscrete(2)); ok {
		t.Errorf("Expected no action on a discrete space")
	}
}

func TestGaussianResizesOnChurn(t *testing.T) {
	g := NewGaussian(DefaultGaussianConfig())
	g.NextAction(0, []float64{1, 2, 3, 4}, rl.NewBox(-1, 1, 2))
	if len(g.weights) != 2 || len(g.weights[0]) != 4 {
		t.Fatalf("Expected 2x4 weights, got %dx%d", len(g.weights), len(g.weights[0]))
	}

	// a vehicle entered, both dimensions grow
	g.NextAction(0, []float64{1, 2, 3, 4, 5, 6}, rl.NewBox(-1, 1, 3))
	if len(g.weights) != 3 || len(g.weights[0]) != 6 {
		t.Errorf("Expected 3x6 weights, got %dx%d", len(g.weights), len(g.weights[0]))
	}
}

func TestGaussianFirstEpisodeSetsBaseline(t *testing.T) {
	cfg := GaussianConfig{Alpha: 0.1, Gamma: 1, Sigma: 0.5, BaselineBeta: 0.5}
	g := NewGaussian(cfg)
	g.ensure(1, 1)

	trace := rl.NewTrace()
	trace.Append([]float64{2}, []float64{1}, 1, []float64{2}, false)
	trace.Append([]float64{2}, []float64{1}, 2, []float64{2}, false)
	trace.Append([]float64{2}, []float64{1}, 3, []float64{2}, true)

	g.UpdateIteration(0, trace)

	if g.Baseline() != 6 {
		t.Errorf("Expected baseline 6, got %f", g.Baseline())
	}
	// zero advantage on the first episode, the parameters stay put
	if g.weights[0][0] != 0 || g.bias[0] != 0 {
		t.Errorf("Expected untouched parameters, got %v %v", g.weights, g.bias)
	}
}

func TestGaussianSecondEpisodeMoves(t *testing.T) {
	cfg := GaussianConfig{Alpha: 0.1, Gamma: 1, Sigma: 0.5, BaselineBeta: 0.5}
	g := NewGaussian(cfg)
	g.ensure(1, 1)

	first := rl.NewTrace()
	first.Append([]float64{2}, []float64{1}, 6, []float64{2}, true)
	g.UpdateIteration(0, first)

	second := rl.NewTrace()
	second.Append([]float64{2}, []float64{1}, 0, []float64{2}, true)
	g.UpdateIteration(1, second)

	// the second return fell below the baseline, the mean shifts away
	// from the taken action
	if g.weights[0][0] >= 0 {
		t.Errorf("Expected a negative weight, got %f", g.weights[0][0])
	}
	if g.bias[0] >= 0 {
		t.Errorf("Expected a negative bias, got %f", g.bias[0])
	}
}

func TestGaussianEmptyTrace(t *testing.T) {
	g := NewGaussian(DefaultGaussianConfig())
	g.UpdateIteration(0, rl.NewTrace())
	if g.Baseline() != 0 {
		t.Errorf("Expected untouched baseline, got %f", g.Baseline())
	}
}

func TestGaussianReset(t *testing.T) {
	g := NewGaussian(DefaultGaussianConfig())
	g.NextAction(0, []float64{1, 2}, rl.NewBox(-1, 1, 1))
	trace := rl.NewTrace()
	trace.Append([]float64{1, 2}, []float64{0.5}, 1, []float64{1, 2}, true)
	g.UpdateIteration(0, trace)

	g.Reset()
	if g.weights != nil || g.bias != nil || g.Baseline() != 0 || g.episodes != 0 {
		t.Errorf("Expected a blank policy after reset")
	}
}

func TestGaussianRecord(t *testing.T) {
	g := NewGaussian(DefaultGaussianConfig())
	g.ensure(2, 1)

	file := path.Join(t.TempDir(), "policy.json")
	if err := g.Record(file); err != nil {
		t.Fatalf("Expected no error, got %s", err)
	}

	bs, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("Expected file to exist, got %s", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(bs, &out); err != nil {
		t.Fatalf("Expected valid json, got %s", err)
	}
	if out["sigma"].(float64) != 0.5 {
		t.Errorf("Expected sigma 0.5, got %v", out["sigma"])
	}
}
