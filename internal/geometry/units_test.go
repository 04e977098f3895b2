package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestPercentOfWidth_ScalesYByWidth(t *testing.T) {
	// Page is deliberately non-square so dividing y by the height would
	// produce a different value.
	p := Point{X: 306, Y: 396}
	got, err := PercentOfWidth(p, 612)
	if err != nil {
		t.Fatalf("PercentOfWidth failed: %v", err)
	}

	if math.Abs(got.X-50) > 1e-12 {
		t.Errorf("x_pct: got %v, want 50", got.X)
	}
	// 100*396/612, NOT 100*396/792.
	want := 100 * 396.0 / 612.0
	if math.Abs(got.Y-want) > 1e-12 {
		t.Errorf("y_pct: got %v, want %v (y must be scaled by page width)", got.Y, want)
	}
	if math.Abs(got.Y-50) < 1e-9 {
		t.Error("y_pct was scaled by page height, not page width")
	}
}

func TestPercentOfWidth_RoundTrip(t *testing.T) {
	points := []Point{
		{X: 115.2, Y: 90},
		{X: 0, Y: 0},
		{X: 611.999, Y: 791.5},
		{X: 1e-3, Y: 301.77},
	}

	for _, p := range points {
		pct, err := PercentOfWidth(p, 612)
		if err != nil {
			t.Fatalf("PercentOfWidth(%v) failed: %v", p, err)
		}
		back, err := FromPercentOfWidth(pct, 612)
		if err != nil {
			t.Fatalf("FromPercentOfWidth(%v) failed: %v", pct, err)
		}
		if !closeRel(back.X, p.X, 1e-9) || !closeRel(back.Y, p.Y, 1e-9) {
			t.Errorf("round trip of %v produced %v", p, back)
		}
	}
}

func TestPercentOfWidth_InvalidPageWidth(t *testing.T) {
	for _, width := range []float64{0, -612} {
		_, err := PercentOfWidth(Point{X: 1, Y: 1}, width)
		if err == nil {
			t.Fatalf("expected error for page width %v", width)
		}
		var domainErr *DomainError
		if !errors.As(err, &domainErr) {
			t.Errorf("expected *DomainError for width %v, got %T", width, err)
		}
	}
}

func TestUnitConversions(t *testing.T) {
	if got := PointsToInches(72); got != 1 {
		t.Errorf("PointsToInches(72): got %v, want 1", got)
	}
	if got := PointsToMM(72); math.Abs(got-25.4) > 1e-12 {
		t.Errorf("PointsToMM(72): got %v, want 25.4", got)
	}
	if got := InchesToPoints(4.06); math.Abs(got-292.32) > 1e-9 {
		t.Errorf("InchesToPoints(4.06): got %v, want 292.32", got)
	}
	if got := MMToPoints(PointsToMM(123.4)); math.Abs(got-123.4) > 1e-9 {
		t.Errorf("mm round trip: got %v, want 123.4", got)
	}
}

func TestPointDistance(t *testing.T) {
	d := Point{X: 0, Y: 0}.Distance(Point{X: 3, Y: 4})
	if math.Abs(d-5) > 1e-12 {
		t.Errorf("Distance: got %v, want 5", d)
	}
}

func closeRel(got, want, tol float64) bool {
	diff := math.Abs(got - want)
	if want == 0 {
		return diff <= tol
	}
	return diff <= tol*math.Abs(want)
}
