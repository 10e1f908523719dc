package traffic

import (
	"math"
	"testing"
)

func TestRingScenario(t *testing.T) {
	sim := NewSimulation(Ring(100, 3, 1), nil)

	ids := sim.IDs()
	if len(ids) != 4 {
		t.Fatalf("Expected 4 vehicles on the ring, got %d", len(ids))
	}
	rls := sim.RLIDs()
	if len(rls) != 1 || rls[0] != "rl_0" {
		t.Errorf("Expected a single controlled vehicle rl_0, got %v", rls)
	}
	for i, id := range ids {
		want := float64(i) * 25
		if pos := sim.Position(id); pos != want {
			t.Errorf("Expected %s at position %f, got %f", id, want, pos)
		}
	}
}

func TestCommandedAccelerationApplied(t *testing.T) {
	sim := NewSimulation(Ring(100, 0, 1), nil)

	if err := sim.SetAccel([]string{"rl_0"}, []float64{2}); err != nil {
		t.Fatalf("SetAccel failed: %v", err)
	}
	sim.Advance()

	// dt is 0.1, the commanded value has to show up exactly
	if speed := sim.Speed("rl_0"); math.Abs(speed-0.2) > 1e-12 {
		t.Errorf("Expected speed 0.2 after one tick, got %f", speed)
	}
	if pos := sim.Position("rl_0"); math.Abs(pos-0.02) > 1e-12 {
		t.Errorf("Expected position 0.02 after one tick, got %f", pos)
	}

	// the command is consumed, the next tick falls back to car following
	sim.Advance()
	speed := sim.Speed("rl_0")
	if math.Abs(speed-0.4) < 1e-9 {
		t.Errorf("Expected the command not to repeat, got speed %f", speed)
	}
	if speed <= 0.2 {
		t.Errorf("Expected car following to keep accelerating, got speed %f", speed)
	}
}

func TestSetAccelErrors(t *testing.T) {
	sim := NewSimulation(Ring(100, 1, 1), nil)

	if err := sim.SetAccel([]string{"rl_0"}, []float64{1, 2}); err == nil {
		t.Errorf("Expected an error for mismatching lengths")
	}
	if err := sim.SetAccel([]string{"ghost"}, []float64{1}); err == nil {
		t.Errorf("Expected an error for an unknown vehicle")
	}
}

func TestSetSpeedClamps(t *testing.T) {
	sim := NewSimulation(Ring(100, 1, 0), nil)

	if err := sim.SetSpeed("ghost", 10); err == nil {
		t.Errorf("Expected an error for an unknown vehicle")
	}
	sim.SetSpeed("human_0", 100)
	if speed := sim.Speed("human_0"); speed != DefaultMaxSpeed {
		t.Errorf("Expected the speed clamped to %f, got %f", DefaultMaxSpeed, speed)
	}
	sim.SetSpeed("human_0", -5)
	if speed := sim.Speed("human_0"); speed != 0 {
		t.Errorf("Expected the speed clamped to zero, got %f", speed)
	}
}

func TestRingPositionsWrap(t *testing.T) {
	sim := NewSimulation(Ring(100, 1, 0), nil)
	sim.SetSpeed("human_0", 20)

	for i := 0; i < 100; i++ {
		sim.Advance()
		pos := sim.Position("human_0")
		if pos < 0 || pos >= 100 {
			t.Fatalf("Expected the position to stay within the ring, got %f at tick %d", pos, i)
		}
	}
}

func TestCollisionFreezesSimulation(t *testing.T) {
	scenario := &Scenario{
		Name: "collision",
		Routes: []*Route{
			{Name: "ring", Length: 100, Closed: true},
		},
		Initial: []*Vehicle{
			NewVehicle("leader", RL, "ring", 10),
			NewVehicle("follower", RL, "ring", 0),
		},
	}
	sim := NewSimulation(scenario, nil)

	for i := 0; i < 40 && !sim.Crashed(); i++ {
		if err := sim.SetAccel([]string{"follower", "leader"}, []float64{3, 0}); err != nil {
			t.Fatalf("SetAccel failed: %v", err)
		}
		sim.Advance()
	}
	if !sim.Crashed() {
		t.Fatalf("Expected the follower to rear end the stopped leader")
	}

	// a crashed simulation no longer moves
	timeBefore := sim.Time()
	speedBefore := sim.Speed("follower")
	sim.Advance()
	if sim.Time() != timeBefore {
		t.Errorf("Expected time to freeze after the collision")
	}
	if sim.Speed("follower") != speedBefore {
		t.Errorf("Expected speeds to freeze after the collision")
	}
}

func TestMeanSpeed(t *testing.T) {
	sim := NewSimulation(Ring(100, 2, 0), nil)
	sim.SetSpeed("human_0", 10)
	sim.SetSpeed("human_1", 20)
	if mean := sim.MeanSpeed(); mean != 15 {
		t.Errorf("Expected mean speed 15, got %f", mean)
	}

	empty := NewSimulation(Ring(100, 0, 0), nil)
	if mean := empty.MeanSpeed(); mean != 0 {
		t.Errorf("Expected zero mean speed on an empty road, got %f", mean)
	}
}

func TestInflowsAreDeterministic(t *testing.T) {
	build := func() *Simulation {
		light := NewTrafficLight(2, 3, 5)
		scenario := Intersection(100, light,
			&Inflow{Route: "ns", Kind: Human, Prob: 0.3, Speed: 10},
			&Inflow{Route: "ew", Kind: Human, Prob: 0.3, Speed: 10},
		)
		return NewSimulation(scenario, &Config{Seed: 7})
	}
	a := build()
	b := build()

	for i := 0; i < 80; i++ {
		a.Advance()
		b.Advance()
	}

	aIDs, bIDs := a.IDs(), b.IDs()
	if len(aIDs) == 0 {
		t.Fatalf("Expected the inflows to spawn vehicles")
	}
	if len(aIDs) != len(bIDs) {
		t.Fatalf("Expected identical spawns for the same seed, got %d vs %d", len(aIDs), len(bIDs))
	}
	for i := range aIDs {
		if aIDs[i] != bIDs[i] {
			t.Errorf("Expected vehicle %d to match, got %s vs %s", i, aIDs[i], bIDs[i])
		}
		if a.Position(aIDs[i]) != b.Position(bIDs[i]) {
			t.Errorf("Expected identical positions for %s", aIDs[i])
		}
	}

	// resetting restores the empty intersection
	a.Reset()
	if len(a.IDs()) != 0 || a.Time() != 0 || a.Crashed() {
		t.Errorf("Expected an empty intersection after reset")
	}
}

func TestOpenRouteDespawn(t *testing.T) {
	scenario := &Scenario{
		Name: "exit",
		Routes: []*Route{
			{Name: "out", Length: 20},
		},
		Initial: []*Vehicle{
			NewVehicle("v", Human, "out", 15),
		},
	}
	sim := NewSimulation(scenario, nil)
	sim.SetSpeed("v", 20)

	for i := 0; i < 40; i++ {
		sim.Advance()
	}
	if n := len(sim.IDs()); n != 0 {
		t.Errorf("Expected the vehicle to leave the route, got %d left", n)
	}
}

func TestRedLightHoldsTraffic(t *testing.T) {
	light := NewTrafficLight(2, 3, 5)
	scenario := Intersection(100, light)
	scenario.Initial = append(scenario.Initial, NewVehicle("car", Human, "ew", 50))
	sim := NewSimulation(scenario, nil)
	sim.SetSpeed("car", 10)

	// axis 0 starts green, the east west car has to stop at the line
	for i := 0; i < 300; i++ {
		sim.Advance()
		if pos := sim.Position("car"); pos >= 100 {
			t.Fatalf("Expected the car held at the stop line, got position %f", pos)
		}
	}
	if speed := sim.Speed("car"); speed > 0.5 {
		t.Errorf("Expected the car nearly halted at the red light, got speed %f", speed)
	}

	approaches := sim.Approaches()
	if len(approaches) != 2 {
		t.Fatalf("Expected two approaches, got %d", len(approaches))
	}
	if approaches[1].Route != "ew" || approaches[1].Count != 1 || approaches[1].Halted != 1 {
		t.Errorf("Expected one halted car on ew, got %+v", approaches[1])
	}

	// switching frees the east west axis after yellow
	if !sim.SwitchPhase() {
		t.Fatalf("Expected the switch to be honored after the minimum green")
	}
	for i := 0; i < 240; i++ {
		sim.Advance()
	}
	if n := len(sim.IDs()); n != 0 {
		t.Errorf("Expected the car to clear the intersection on green, got %d left", n)
	}
}
