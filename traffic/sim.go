package traffic

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Simulator is the control surface environment adapters drive. The
// remote client implements the same interface over HTTP.
type Simulator interface {
	Reset() error
	// Advance runs a single tick
	Advance() error
	Time() float64
	Crashed() bool
	// IDs of all vehicles in insertion order
	IDs() []string
	// RLIDs of the externally controlled vehicles, same ordering
	RLIDs() []string
	Position(id string) float64
	Speed(id string) float64
	// SetAccel commands accelerations for the next tick, pairing ids
	// with values positionally
	SetAccel(ids []string, accel []float64) error
	// SetSpeed overrides a vehicle speed directly
	SetSpeed(id string, speed float64) error
}

type Config struct {
	Step float64 // seconds per tick
	Seed int64
	IDM  *IDM
}

// Simulation advances a scenario tick by tick. It is not safe for
// concurrent use, callers running it from multiple goroutines have to
// serialize access themselves.
type Simulation struct {
	cfg      *Config
	scenario *Scenario
	idm      *IDM

	routes   map[string]*Route
	vehicles map[string]*Vehicle
	order    []string

	light   *TrafficLight
	rand    *rand.Rand
	time    float64
	resets  int64
	spawned int
	crashed bool
}

var _ Simulator = &Simulation{}

func NewSimulation(scenario *Scenario, cfg *Config) *Simulation {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Step <= 0 {
		cfg.Step = 0.1
	}
	idm := cfg.IDM
	if idm == nil {
		idm = DefaultIDM()
	}
	s := &Simulation{
		cfg:      cfg,
		scenario: scenario,
		idm:      idm,
		routes:   make(map[string]*Route),
	}
	for _, r := range scenario.Routes {
		s.routes[r.Name] = r
	}
	if scenario.Light != nil {
		light := *scenario.Light
		s.light = &light
	}
	s.Reset()
	return s
}

// Reset restores the initial vehicles and reseeds the inflows, episodes
// differ but runs with the same seed reproduce exactly.
func (s *Simulation) Reset() error {
	s.vehicles = make(map[string]*Vehicle)
	s.order = make([]string, 0, len(s.scenario.Initial))
	for _, v := range s.scenario.Initial {
		c := v.clone()
		s.vehicles[c.ID] = c
		s.order = append(s.order, c.ID)
	}
	if s.light != nil {
		s.light.Reset()
	}
	s.resets += 1
	s.rand = rand.New(rand.NewSource(s.cfg.Seed + s.resets))
	s.time = 0
	s.spawned = 0
	s.crashed = false
	return nil
}

func (s *Simulation) Time() float64 {
	return s.time
}

func (s *Simulation) Crashed() bool {
	return s.crashed
}

func (s *Simulation) Step() float64 {
	return s.cfg.Step
}

func (s *Simulation) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Simulation) RLIDs() []string {
	out := make([]string, 0)
	for _, id := range s.order {
		if s.vehicles[id].Kind == RL {
			out = append(out, id)
		}
	}
	return out
}

// Position of a vehicle along its route, unknown ids read as zero
func (s *Simulation) Position(id string) float64 {
	if v, ok := s.vehicles[id]; ok {
		return v.Pos
	}
	return 0
}

func (s *Simulation) Speed(id string) float64 {
	if v, ok := s.vehicles[id]; ok {
		return v.Speed
	}
	return 0
}

func (s *Simulation) Vehicle(id string) (*Vehicle, bool) {
	v, ok := s.vehicles[id]
	return v, ok
}

func (s *Simulation) SetAccel(ids []string, accel []float64) error {
	if len(ids) != len(accel) {
		return fmt.Errorf("got %d ids and %d accelerations", len(ids), len(accel))
	}
	for i, id := range ids {
		v, ok := s.vehicles[id]
		if !ok {
			return fmt.Errorf("unknown vehicle %s", id)
		}
		v.Command(accel[i])
	}
	return nil
}

func (s *Simulation) SetSpeed(id string, speed float64) error {
	v, ok := s.vehicles[id]
	if !ok {
		return fmt.Errorf("unknown vehicle %s", id)
	}
	v.Speed = math.Min(math.Max(speed, 0), v.MaxSpeed)
	return nil
}

// MeanSpeed over all vehicles, zero when the road is empty
func (s *Simulation) MeanSpeed() float64 {
	if len(s.order) == 0 {
		return 0
	}
	total := float64(0)
	for _, id := range s.order {
		total += s.vehicles[id].Speed
	}
	return total / float64(len(s.order))
}

// Advance runs one tick: light clock, acceleration of every vehicle
// against the current snapshot, integration, despawns, collision check
// and inflows. After a collision the simulation freezes.
func (s *Simulation) Advance() error {
	if s.crashed {
		return nil
	}
	dt := s.cfg.Step
	if s.light != nil {
		s.light.Advance(dt)
	}

	accels := make(map[string]float64, len(s.vehicles))
	for _, r := range s.scenario.Routes {
		byPos := s.routeVehicles(r.Name)
		for i := range byPos {
			accels[byPos[i].ID] = s.vehicleAccel(r, byPos, i)
		}
	}

	for _, id := range s.order {
		v := s.vehicles[id]
		a := accels[id]
		v.Accel = a
		v.Speed = math.Min(math.Max(v.Speed+a*dt, 0), v.MaxSpeed)
		v.Pos += v.Speed * dt
		if r := s.routes[v.Route]; r.Closed && v.Pos >= r.Length {
			v.Pos = math.Mod(v.Pos, r.Length)
		}
	}

	for _, r := range s.scenario.Routes {
		if r.Closed {
			continue
		}
		for _, v := range s.routeVehicles(r.Name) {
			if v.Pos-v.Length > r.Length {
				s.remove(v.ID)
			}
		}
	}

	for _, r := range s.scenario.Routes {
		byPos := s.routeVehicles(r.Name)
		for i := range byPos {
			if _, gap, ok := s.leader(r, byPos, i); ok && gap < 0 {
				s.crashed = true
			}
		}
	}

	for _, in := range s.scenario.Inflows {
		if s.rand.Float64() < in.Prob && s.entryClear(in.Route) {
			id := fmt.Sprintf("%s_%s_%d", in.Kind, in.Route, s.spawned)
			v := NewVehicle(id, in.Kind, in.Route, 0)
			v.Speed = in.Speed
			s.vehicles[id] = v
			s.order = append(s.order, id)
			s.spawned += 1
		}
	}

	s.time += dt
	return nil
}

// vehicleAccel picks the acceleration for one vehicle. A commanded
// value wins, otherwise the car following model drives against the
// leader or the stop line, whichever constrains more.
func (s *Simulation) vehicleAccel(r *Route, byPos []*Vehicle, i int) float64 {
	v := byPos[i]
	if v.Kind == RL {
		if a, ok := v.takeCommand(); ok {
			return a
		}
	}
	leadSpeed, gap, hasLeader := s.leader(r, byPos, i)
	if !r.Closed && s.light != nil && !s.light.Green(r.Axis) {
		stopGap := r.Length - v.Pos
		if !hasLeader || stopGap < gap {
			leadSpeed, gap, hasLeader = 0, stopGap, true
		}
	}
	if !hasLeader {
		return s.idm.FreeAccel(v.Speed)
	}
	return s.idm.Accel(v.Speed, leadSpeed, gap)
}

// leader returns the speed of and gap to the vehicle ahead of byPos[i]
func (s *Simulation) leader(r *Route, byPos []*Vehicle, i int) (float64, float64, bool) {
	if r.Closed {
		if len(byPos) < 2 {
			return 0, 0, false
		}
		lead := byPos[(i+1)%len(byPos)]
		gap := math.Mod(lead.Pos-byPos[i].Pos+r.Length, r.Length) - lead.Length
		return lead.Speed, gap, true
	}
	if i == len(byPos)-1 {
		return 0, 0, false
	}
	lead := byPos[i+1]
	return lead.Speed, lead.Pos - byPos[i].Pos - lead.Length, true
}

// routeVehicles returns the vehicles of a route sorted by position
func (s *Simulation) routeVehicles(name string) []*Vehicle {
	out := make([]*Vehicle, 0)
	for _, id := range s.order {
		if v := s.vehicles[id]; v.Route == name {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Pos < out[j].Pos
	})
	return out
}

func (s *Simulation) entryClear(route string) bool {
	for _, id := range s.order {
		v := s.vehicles[id]
		if v.Route == route && v.Pos < v.Length+s.idm.S0 {
			return false
		}
	}
	return true
}

func (s *Simulation) remove(id string) {
	delete(s.vehicles, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Phase exposes the light state, a missing light reads as phase 0
func (s *Simulation) Phase() (int, float64) {
	if s.light == nil {
		return 0, 0
	}
	return s.light.Phase()
}

func (s *Simulation) MaySwitch() bool {
	return s.light != nil && s.light.MaySwitch()
}

// SwitchPhase commands the light, reporting whether it was honored
func (s *Simulation) SwitchPhase() bool {
	return s.light != nil && s.light.Switch()
}

// ApproachState summarises one route for light control observations
type ApproachState struct {
	Route     string  `json:"route"`
	Count     int     `json:"count"`
	Halted    int     `json:"halted"`
	MeanSpeed float64 `json:"mean_speed"`
}

// Approaches reports per route vehicle counts in scenario route order,
// halted meaning slower than 0.1 m/s
func (s *Simulation) Approaches() []ApproachState {
	out := make([]ApproachState, 0, len(s.scenario.Routes))
	for _, r := range s.scenario.Routes {
		st := ApproachState{Route: r.Name}
		total := float64(0)
		for _, v := range s.routeVehicles(r.Name) {
			st.Count += 1
			total += v.Speed
			if v.Speed < 0.1 {
				st.Halted += 1
			}
		}
		if st.Count > 0 {
			st.MeanSpeed = total / float64(st.Count)
		}
		out = append(out, st)
	}
	return out
}
