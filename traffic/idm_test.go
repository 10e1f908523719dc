package traffic

import (
	"math"
	"testing"
)

func TestIDMFreeAccel(t *testing.T) {
	m := DefaultIDM()

	if a := m.FreeAccel(0); a != m.A {
		t.Errorf("Expected full acceleration %f from standstill, got %f", m.A, a)
	}
	if a := m.FreeAccel(m.V0); a != 0 {
		t.Errorf("Expected zero acceleration at desired speed, got %f", a)
	}
	if a := m.FreeAccel(m.V0 + 5); a >= 0 {
		t.Errorf("Expected braking above desired speed, got %f", a)
	}
}

func TestIDMAccel(t *testing.T) {
	m := DefaultIDM()

	// a distant slow leader should barely matter
	far := m.Accel(10, 10, 1000)
	free := m.FreeAccel(10)
	if math.Abs(far-free) > 0.01 {
		t.Errorf("Expected near free acceleration with a distant leader, got %f vs %f", far, free)
	}

	// closing in on the leader has to brake harder
	near := m.Accel(10, 0, 10)
	if near >= far {
		t.Errorf("Expected stronger braking with a close leader, got %f vs %f", near, far)
	}

	if a := m.Accel(10, 0, 0); a != -10*m.B {
		t.Errorf("Expected the collision braking value for a closed gap, got %f", a)
	}
}
