package traffic

// Kind separates externally controlled vehicles from simulated ones.
type Kind int

const (
	Human Kind = iota
	RL
)

func (k Kind) String() string {
	if k == RL {
		return "rl"
	}
	return "human"
}

const (
	DefaultLength   = 5.0
	DefaultMaxSpeed = 30.0
)

// Vehicle on a route. Pos is metres from the route start, Speed in m/s.
type Vehicle struct {
	ID       string
	Kind     Kind
	Route    string
	Pos      float64
	Speed    float64
	Length   float64
	MaxSpeed float64

	// acceleration commanded for the next tick, consumed on Advance
	cmdAccel float64
	hasCmd   bool

	// last applied acceleration, for inspection
	Accel float64
}

func NewVehicle(id string, kind Kind, route string, pos float64) *Vehicle {
	return &Vehicle{
		ID:       id,
		Kind:     kind,
		Route:    route,
		Pos:      pos,
		Length:   DefaultLength,
		MaxSpeed: DefaultMaxSpeed,
	}
}

// Command stores an acceleration to apply on the next tick
func (v *Vehicle) Command(accel float64) {
	v.cmdAccel = accel
	v.hasCmd = true
}

func (v *Vehicle) takeCommand() (float64, bool) {
	if !v.hasCmd {
		return 0, false
	}
	v.hasCmd = false
	return v.cmdAccel, true
}

func (v *Vehicle) clone() *Vehicle {
	c := *v
	c.hasCmd = false
	c.cmdAccel = 0
	return &c
}
