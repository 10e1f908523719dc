package traffic

// Light phases alternate between the green of each axis with a yellow
// interval of SwitchTime seconds in between. Phase 2*a is green for
// axis a, phase 2*a+1 its yellow.
type TrafficLight struct {
	Axes       int
	SwitchTime float64 // yellow duration in seconds
	MinGreen   float64 // minimum green before a commanded switch
	GreenTime  float64 // fixed cycle green duration, 0 means controlled

	phase   int
	elapsed float64
}

func NewTrafficLight(axes int, switchTime, minGreen float64) *TrafficLight {
	return &TrafficLight{
		Axes:       axes,
		SwitchTime: switchTime,
		MinGreen:   minGreen,
	}
}

// NewFixedTrafficLight cycles on its own with the given green duration
func NewFixedTrafficLight(axes int, switchTime, greenTime float64) *TrafficLight {
	return &TrafficLight{
		Axes:       axes,
		SwitchTime: switchTime,
		GreenTime:  greenTime,
	}
}

func (l *TrafficLight) Reset() {
	l.phase = 0
	l.elapsed = 0
}

// Phase returns the phase index and the seconds spent in it
func (l *TrafficLight) Phase() (int, float64) {
	return l.phase, l.elapsed
}

// Green reports whether the axis currently has green
func (l *TrafficLight) Green(axis int) bool {
	return l.phase == 2*axis
}

func (l *TrafficLight) inYellow() bool {
	return l.phase%2 == 1
}

// MaySwitch reports whether a switch command would be honored
func (l *TrafficLight) MaySwitch() bool {
	return !l.inYellow() && l.elapsed >= l.MinGreen
}

// Switch moves the current green to yellow. Ignored during yellow or
// before the minimum green has passed.
func (l *TrafficLight) Switch() bool {
	if !l.MaySwitch() {
		return false
	}
	l.phase += 1
	l.elapsed = 0
	return true
}

// Advance progresses the phase clock by dt seconds
func (l *TrafficLight) Advance(dt float64) {
	l.elapsed += dt
	if l.inYellow() {
		if l.elapsed >= l.SwitchTime {
			l.phase = (l.phase + 1) % (2 * l.Axes)
			l.elapsed = 0
		}
		return
	}
	if l.GreenTime > 0 && l.elapsed >= l.GreenTime {
		l.phase += 1
		l.elapsed = 0
	}
}
