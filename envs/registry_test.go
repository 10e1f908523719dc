package envs

import (
	"errors"
	"testing"

	"github.com/zhiyul9/traffic-rl/traffic"
)

func TestRegistryNames(t *testing.T) {
	names := Names()
	want := []string{"accel", "target-velocity", "traffic-light"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d registered environments, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected %q at index %d, got %q", want[i], i, names[i])
		}
	}
}

func TestRegistryUnknownEnv(t *testing.T) {
	sim := traffic.NewSimulation(traffic.Ring(100, 1, 0), nil)
	_, err := New("does-not-exist", sim, testParams())
	if !errors.Is(err, ErrUnknownEnv) {
		t.Errorf("Expected the unknown environment error, got %v", err)
	}
}

// bareSim hides the signal control surface of the wrapped simulator
type bareSim struct {
	traffic.Simulator
}

func TestTrafficLightNeedsSignalControl(t *testing.T) {
	sim := traffic.NewSimulation(traffic.Ring(100, 1, 0), nil)
	if _, err := New("traffic-light", bareSim{sim}, DefaultParams()); err == nil {
		t.Errorf("Expected an error for a simulator without signal control")
	}
}
