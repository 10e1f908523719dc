package rl

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestBoxContains(t *testing.T) {
	box := NewBox(-1, 2, 3)

	if box.Dim() != 3 {
		t.Errorf("Expected dimension 3, got %d", box.Dim())
	}
	if !box.Contains([]float64{0, 0, 0}) {
		t.Errorf("Expected the origin inside the box")
	}
	// bounds are inclusive
	if !box.Contains([]float64{-1, 2, -1}) {
		t.Errorf("Expected the corners inside the box")
	}
	if box.Contains([]float64{0, 0, 2.1}) {
		t.Errorf("Expected a component above the bound outside the box")
	}
	if box.Contains([]float64{0, 0}) {
		t.Errorf("Expected a short vector outside the box")
	}
}

func TestBoxSample(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	bounded := NewBox(-3, 3, 4)
	for i := 0; i < 100; i++ {
		if v := bounded.Sample(r); !bounded.Contains(v) {
			t.Fatalf("Expected samples inside the box, got %v", v)
		}
	}

	half := NewBox(0, math.Inf(1), 2)
	for i := 0; i < 100; i++ {
		if v := half.Sample(r); !half.Contains(v) {
			t.Fatalf("Expected samples inside the half bounded box, got %v", v)
		}
	}
}

func TestBoxClip(t *testing.T) {
	box := NewBox(-1, 1, 2)
	clipped := box.Clip([]float64{-5, 5})
	if clipped[0] != -1 || clipped[1] != 1 {
		t.Errorf("Expected the vector clipped to the bounds, got %v", clipped)
	}
}

func TestDiscreteContains(t *testing.T) {
	d := NewDiscrete(3)

	if d.Dim() != 1 {
		t.Errorf("Expected dimension 1, got %d", d.Dim())
	}
	if !d.Contains([]float64{2}) {
		t.Errorf("Expected 2 inside Discrete(3)")
	}
	if d.Contains([]float64{3}) {
		t.Errorf("Expected 3 outside Discrete(3)")
	}
	if d.Contains([]float64{0.5}) {
		t.Errorf("Expected a fractional index outside the space")
	}
	if d.Contains([]float64{-1}) {
		t.Errorf("Expected a negative index outside the space")
	}
}

func TestValidate(t *testing.T) {
	box := NewBox(-1, 1, 2)

	if err := Validate(box, []float64{0, 0.5}); err != nil {
		t.Errorf("Expected a valid action to pass, got %v", err)
	}

	err := Validate(box, []float64{0})
	sErr := &ShapeError{}
	if !errors.As(err, &sErr) {
		t.Fatalf("Expected a shape error for a short action, got %v", err)
	}
	if sErr.Expected != 2 || sErr.Got != 1 {
		t.Errorf("Expected shape 2 vs 1 in the error, got %d vs %d", sErr.Expected, sErr.Got)
	}

	if err := Validate(box, []float64{0, 7}); err == nil {
		t.Errorf("Expected an out of bounds action to fail")
	} else if errors.As(err, &sErr) {
		t.Errorf("Expected a plain error for out of bounds, got a shape error")
	}
}
