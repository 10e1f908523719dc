package traffic

import "fmt"

// Route is a single one dimensional lane. Closed routes wrap positions
// modulo Length, open routes hold vehicles at the stop line on red and
// despawn them past the end.
type Route struct {
	Name   string
	Length float64
	Closed bool
	Axis   int // light axis controlling the stop line of an open route
}

// Inflow spawns vehicles at the head of an open route
type Inflow struct {
	Route string
	Kind  Kind
	Prob  float64 // spawn probability per tick
	Speed float64 // entry speed
}

// Scenario is the static description a simulation is built from
type Scenario struct {
	Name    string
	Routes  []*Route
	Initial []*Vehicle
	Light   *TrafficLight
	Inflows []*Inflow
}

// Ring builds a closed loop of the given length with humans+rls
// vehicles evenly spaced, the controlled ones spread through the order.
func Ring(length float64, humans, rls int) *Scenario {
	sc := &Scenario{
		Name: "ring",
		Routes: []*Route{
			{Name: "ring", Length: length, Closed: true},
		},
	}
	n := humans + rls
	if n == 0 {
		return sc
	}
	spacing := length / float64(n)
	rlEvery := n
	if rls > 0 {
		rlEvery = n / rls
	}
	humanIdx, rlIdx := 0, 0
	for i := 0; i < n; i++ {
		pos := float64(i) * spacing
		if rls > 0 && rlIdx < rls && i%rlEvery == 0 {
			sc.Initial = append(sc.Initial, NewVehicle(fmt.Sprintf("rl_%d", rlIdx), RL, "ring", pos))
			rlIdx += 1
		} else {
			sc.Initial = append(sc.Initial, NewVehicle(fmt.Sprintf("human_%d", humanIdx), Human, "ring", pos))
			humanIdx += 1
		}
	}
	return sc
}

// Intersection builds two open approaches crossing under a light,
// axis 0 for north south and axis 1 for east west.
func Intersection(armLength float64, light *TrafficLight, inflows ...*Inflow) *Scenario {
	return &Scenario{
		Name: "intersection",
		Routes: []*Route{
			{Name: "ns", Length: armLength, Axis: 0},
			{Name: "ew", Length: armLength, Axis: 1},
		},
		Light:   light,
		Inflows: inflows,
	}
}
