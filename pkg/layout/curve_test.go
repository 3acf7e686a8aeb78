package layout

import "testing"

func TestCurvePath(t *testing.T) {
	got := CurvePath(10, 0, 30, 100)
	want := "M 10.00 0.00 C 10.00 50.00, 30.00 50.00, 30.00 100.00"
	if got != want {
		t.Errorf("CurvePath = %q, want %q", got, want)
	}
}

func TestCurvePathUpward(t *testing.T) {
	// Negative vertical span flips the control point offsets.
	got := CurvePath(0, 100, 0, 0)
	want := "M 0.00 100.00 C 0.00 50.00, 0.00 50.00, 0.00 0.00"
	if got != want {
		t.Errorf("CurvePath = %q, want %q", got, want)
	}
}
