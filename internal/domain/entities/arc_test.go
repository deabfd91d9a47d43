package entities

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestCircleFrom3Points_PointsOnCircle(t *testing.T) {
	cases := []struct {
		name       string
		p1, p2, p3 Vec2
	}{
		{"unit circle", Vec2{1, 0}, Vec2{0, 1}, Vec2{-1, 0}},
		{"offset", Vec2{3, 2}, Vec2{5, 4}, Vec2{3, 6}},
		{"tiny", Vec2{0.001, 0}, Vec2{0, 0.001}, Vec2{-0.001, 0}},
		{"negative quadrant", Vec2{-4, -1}, Vec2{-6, -3}, Vec2{-4, -5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def, ok := CircleFrom3Points(tc.p1, tc.p2, tc.p3)
			if !ok {
				t.Fatalf("fit failed for non-collinear points")
			}
			for _, p := range []Vec2{tc.p1, tc.p2, tc.p3} {
				if d := math.Abs(def.Center.Dist(p) - def.Radius); d > eps {
					t.Errorf("point %v is %g off the fitted circle", p, d)
				}
			}
		})
	}
}

func TestCircleFrom3Points_Collinear(t *testing.T) {
	cases := []struct {
		name       string
		p1, p2, p3 Vec2
	}{
		{"horizontal", Vec2{0, 0}, Vec2{1, 0}, Vec2{2, 0}},
		{"diagonal", Vec2{0, 0}, Vec2{1, 1}, Vec2{2, 2}},
		{"repeated point", Vec2{1, 1}, Vec2{1, 1}, Vec2{2, 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := CircleFrom3Points(tc.p1, tc.p2, tc.p3); ok {
				t.Error("expected fit failure for collinear points")
			}
		})
	}
}

func TestCircleFrom3Points_CCWSweepPositive(t *testing.T) {
	// (1,0) -> (0,1) -> (-1,0) turns left: counter-clockwise.
	def, ok := CircleFrom3Points(Vec2{1, 0}, Vec2{0, 1}, Vec2{-1, 0})
	if !ok {
		t.Fatal("fit failed")
	}
	if def.Sweep <= 0 || def.Sweep >= 2*math.Pi {
		t.Errorf("CCW sweep should be in (0, 2pi), got %g", def.Sweep)
	}
	if math.Abs(def.Sweep-math.Pi) > eps {
		t.Errorf("expected half-circle sweep pi, got %g", def.Sweep)
	}
	if math.Abs(def.Start) > eps {
		t.Errorf("expected start angle 0, got %g", def.Start)
	}
}

func TestCircleFrom3Points_CWSweepNegative(t *testing.T) {
	// Same points in the opposite order turn right: clockwise.
	def, ok := CircleFrom3Points(Vec2{-1, 0}, Vec2{0, 1}, Vec2{1, 0})
	if !ok {
		t.Fatal("fit failed")
	}
	if def.Sweep >= 0 || def.Sweep <= -2*math.Pi {
		t.Errorf("CW sweep should be in (-2pi, 0), got %g", def.Sweep)
	}
	if math.Abs(def.Sweep+math.Pi) > eps {
		t.Errorf("expected sweep -pi, got %g", def.Sweep)
	}
}

func TestCircleFrom3Points_PreviewEqualsCommit(t *testing.T) {
	// The same routine serves preview and commit; two invocations with the
	// same input must agree bit for bit.
	a, _ := CircleFrom3Points(Vec2{3, 2}, Vec2{5, 4}, Vec2{3, 6})
	b, _ := CircleFrom3Points(Vec2{3, 2}, Vec2{5, 4}, Vec2{3, 6})
	if a != b {
		t.Errorf("fit is not deterministic: %+v vs %+v", a, b)
	}
}
