package traffic

import "math"

// IDM is the intelligent driver model, the car following controller for
// simulated vehicles.
type IDM struct {
	A     float64 // maximum acceleration
	B     float64 // comfortable deceleration
	V0    float64 // desired speed
	Delta float64 // acceleration exponent
	S0    float64 // jam distance
	T     float64 // desired time headway
}

func DefaultIDM() *IDM {
	return &IDM{
		A:     1.0,
		B:     1.5,
		V0:    30.0,
		Delta: 4.0,
		S0:    2.0,
		T:     1.0,
	}
}

// FreeAccel is the acceleration on an open road
func (m *IDM) FreeAccel(v float64) float64 {
	return m.A * (1 - math.Pow(v/m.V0, m.Delta))
}

// Accel is the acceleration behind a leader driving at leadSpeed with
// the given bumper to bumper gap. A non positive gap yields a strong
// braking value, the collision itself is detected by the simulation.
func (m *IDM) Accel(v, leadSpeed, gap float64) float64 {
	if gap <= 0 {
		return -10 * m.B
	}
	sStar := m.S0 + math.Max(0, v*m.T+v*(v-leadSpeed)/(2*math.Sqrt(m.A*m.B)))
	return m.A * (1 - math.Pow(v/m.V0, m.Delta) - math.Pow(sStar/gap, 2))
}
