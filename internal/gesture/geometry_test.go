package gesture

import (
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func TestDistance(t *testing.T) {
	a := detector.Point3D{X: 0, Y: 0}
	b := detector.Point3D{X: 3, Y: 4}
	if got := Distance(a, b); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
}

func TestDistance_IgnoresDepth(t *testing.T) {
	a := detector.Point3D{X: 0, Y: 0, Z: 0}
	b := detector.Point3D{X: 3, Y: 4, Z: 9}
	if got := Distance(a, b); got != 5 {
		t.Errorf("Distance = %v, want 5 with z ignored", got)
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c detector.Point3D
		want    float64
	}{
		{
			name: "right angle",
			a:    detector.Point3D{X: 1, Y: 0},
			b:    detector.Point3D{X: 0, Y: 0},
			c:    detector.Point3D{X: 0, Y: 1},
			want: 90,
		},
		{
			name: "straight line",
			a:    detector.Point3D{X: 0, Y: 0},
			b:    detector.Point3D{X: 1, Y: 0},
			c:    detector.Point3D{X: 2, Y: 0},
			want: 180,
		},
		{
			name: "equilateral corner",
			a:    detector.Point3D{X: 1, Y: 0},
			b:    detector.Point3D{X: 0, Y: 0},
			c:    detector.Point3D{X: 0.5, Y: math.Sqrt(3) / 2},
			want: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Angle(tt.a, tt.b, tt.c)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Angle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAngle_Degenerate(t *testing.T) {
	p := detector.Point3D{X: 0.4, Y: 0.6}
	q := detector.Point3D{X: 0.9, Y: 0.1}

	if got := Angle(p, p, p); got != 0 {
		t.Errorf("Angle(p,p,p) = %v, want 0", got)
	}
	if got := Angle(p, p, q); got != 0 {
		t.Errorf("Angle with a coincident vertex = %v, want 0", got)
	}
	if got := Angle(q, p, p); got != 0 {
		t.Errorf("Angle with a zero-length side = %v, want 0", got)
	}
}

func TestHandRotation(t *testing.T) {
	var h detector.HandLandmarks
	h.Points[detector.Wrist] = detector.Point3D{X: 0.5, Y: 0.9}
	h.Points[detector.MiddleMCP] = detector.Point3D{X: 0.5, Y: 0.5}
	h.Points[detector.IndexMCP] = detector.Point3D{X: 0.5, Y: 0.5}

	// fingers straight up: both headings are -90, normalized to 270
	if got := HandRotation(&h); math.Abs(got-270) > 1e-6 {
		t.Errorf("HandRotation = %v, want 270", got)
	}
}

func TestHandRotation_PositiveHeading(t *testing.T) {
	var h detector.HandLandmarks
	h.Points[detector.Wrist] = detector.Point3D{X: 0.2, Y: 0.5}
	h.Points[detector.MiddleMCP] = detector.Point3D{X: 0.6, Y: 0.9}
	h.Points[detector.IndexMCP] = detector.Point3D{X: 0.6, Y: 0.9}

	if got := HandRotation(&h); math.Abs(got-45) > 1e-6 {
		t.Errorf("HandRotation = %v, want 45", got)
	}
}
