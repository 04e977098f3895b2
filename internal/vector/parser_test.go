package vector

import (
	"math"
	"testing"

	"github.com/isaacnfairplay/template-to-json/internal/geometry"
	"github.com/isaacnfairplay/template-to-json/internal/template"
)

func sharpRectPath(x, y, w, h float64) Path {
	r := geometry.Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
	return Path{Bounds: r, Segments: []Segment{RectSegment(r)}, Closed: true}
}

func linedRectPath(x, y, w, h float64) Path {
	tl := geometry.Point{X: x, Y: y}
	tr := geometry.Point{X: x + w, Y: y}
	br := geometry.Point{X: x + w, Y: y + h}
	bl := geometry.Point{X: x, Y: y + h}
	return Path{
		Bounds:   geometry.Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h},
		Segments: []Segment{Line(tl, tr), Line(tr, br), Line(br, bl), Line(bl, tl)},
		Closed:   true,
	}
}

func roundedRectPath(x, y, w, h, radius float64) Path {
	// Four inset straight runs plus four corner curves, the way PDF
	// writers emit rounded rectangles.
	segs := []Segment{
		Line(geometry.Point{X: x + radius, Y: y}, geometry.Point{X: x + w - radius, Y: y}),
		Curve(geometry.Point{X: x + w - radius, Y: y},
			geometry.Point{X: x + w, Y: y},
			geometry.Point{X: x + w, Y: y},
			geometry.Point{X: x + w, Y: y + radius}),
		Line(geometry.Point{X: x + w, Y: y + radius}, geometry.Point{X: x + w, Y: y + h - radius}),
		Curve(geometry.Point{X: x + w, Y: y + h - radius},
			geometry.Point{X: x + w, Y: y + h},
			geometry.Point{X: x + w, Y: y + h},
			geometry.Point{X: x + w - radius, Y: y + h}),
		Line(geometry.Point{X: x + w - radius, Y: y + h}, geometry.Point{X: x + radius, Y: y + h}),
		Curve(geometry.Point{X: x + radius, Y: y + h},
			geometry.Point{X: x, Y: y + h},
			geometry.Point{X: x, Y: y + h},
			geometry.Point{X: x, Y: y + h - radius}),
		Line(geometry.Point{X: x, Y: y + h - radius}, geometry.Point{X: x, Y: y + radius}),
		Curve(geometry.Point{X: x, Y: y + radius},
			geometry.Point{X: x, Y: y},
			geometry.Point{X: x, Y: y},
			geometry.Point{X: x + radius, Y: y}),
	}
	return Path{
		Bounds:   geometry.Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h},
		Segments: segs,
		Closed:   true,
	}
}

func circlePath(cx, cy, radius float64) Path {
	// Four quarter arcs with the standard Bézier circle constant.
	k := 0.5523 * radius
	e := geometry.Point{X: cx + radius, Y: cy}
	s := geometry.Point{X: cx, Y: cy + radius}
	w := geometry.Point{X: cx - radius, Y: cy}
	n := geometry.Point{X: cx, Y: cy - radius}
	segs := []Segment{
		Curve(e, geometry.Point{X: cx + radius, Y: cy + k}, geometry.Point{X: cx + k, Y: cy + radius}, s),
		Curve(s, geometry.Point{X: cx - k, Y: cy + radius}, geometry.Point{X: cx - radius, Y: cy + k}, w),
		Curve(w, geometry.Point{X: cx - radius, Y: cy - k}, geometry.Point{X: cx - k, Y: cy - radius}, n),
		Curve(n, geometry.Point{X: cx + k, Y: cy - radius}, geometry.Point{X: cx + radius, Y: cy - k}, e),
	}
	return Path{
		Bounds:   geometry.Rect{MinX: cx - radius, MinY: cy - radius, MaxX: cx + radius, MaxY: cy + radius},
		Segments: segs,
		Closed:   true,
	}
}

func TestParseShapes_SharpRectangle(t *testing.T) {
	obs := ParseShapes([]Path{sharpRectPath(100, 200, 144, 72)}, DefaultConfig())
	if len(obs) != 1 {
		t.Fatalf("observations: got %d, want 1", len(obs))
	}

	got := obs[0]
	if got.Kind != template.ShapeRectangle {
		t.Errorf("kind: got %q, want rectangle", got.Kind)
	}
	if got.Center.X != 172 || got.Center.Y != 236 {
		t.Errorf("center: got %v, want (172, 236)", got.Center)
	}
	if got.WidthPt != 144 || got.HeightPt != 72 {
		t.Errorf("size: got %gx%g, want 144x72", got.WidthPt, got.HeightPt)
	}
	if got.CornerRadiusPt == nil || *got.CornerRadiusPt != 0 {
		t.Errorf("corner radius: got %v, want explicit 0", got.CornerRadiusPt)
	}
}

func TestParseShapes_LinedRectangle(t *testing.T) {
	obs := ParseShapes([]Path{linedRectPath(36, 64, 72, 48)}, DefaultConfig())
	if len(obs) != 1 {
		t.Fatalf("observations: got %d, want 1", len(obs))
	}
	if obs[0].Kind != template.ShapeRectangle {
		t.Errorf("kind: got %q, want rectangle", obs[0].Kind)
	}
	if obs[0].CornerRadiusPt == nil || *obs[0].CornerRadiusPt != 0 {
		t.Errorf("corner radius: got %v, want explicit 0", obs[0].CornerRadiusPt)
	}
}

func TestParseShapes_RoundedRectangleRadius(t *testing.T) {
	obs := ParseShapes([]Path{roundedRectPath(50, 80, 144, 72, 9)}, DefaultConfig())
	if len(obs) != 1 {
		t.Fatalf("observations: got %d, want 1", len(obs))
	}

	got := obs[0]
	if got.Kind != template.ShapeRectangle {
		t.Fatalf("kind: got %q, want rectangle", got.Kind)
	}
	if got.CornerRadiusPt == nil {
		t.Fatal("corner radius: got nil, want estimate")
	}
	if math.Abs(*got.CornerRadiusPt-9) > 1e-9 {
		t.Errorf("corner radius: got %v, want 9", *got.CornerRadiusPt)
	}
}

func TestParseShapes_Circle(t *testing.T) {
	obs := ParseShapes([]Path{circlePath(300, 400, 45)}, DefaultConfig())
	if len(obs) != 1 {
		t.Fatalf("observations: got %d, want 1", len(obs))
	}

	got := obs[0]
	if got.Kind != template.ShapeCircle {
		t.Fatalf("kind: got %q, want circle", got.Kind)
	}
	if got.Center.X != 300 || got.Center.Y != 400 {
		t.Errorf("center: got %v, want (300, 400)", got.Center)
	}
	if math.Abs(got.WidthPt-90) > 1e-9 || math.Abs(got.HeightPt-90) > 1e-9 {
		t.Errorf("diameter: got %gx%g, want 90x90", got.WidthPt, got.HeightPt)
	}
}

func TestParseShapes_SkipsUnusablePaths(t *testing.T) {
	oblique := Path{
		Bounds: geometry.Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100},
		Segments: []Segment{
			Line(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 100}),
			Line(geometry.Point{X: 100, Y: 100}, geometry.Point{X: 0, Y: 100}),
			Line(geometry.Point{X: 0, Y: 100}, geometry.Point{X: 50, Y: 50}),
			Line(geometry.Point{X: 50, Y: 50}, geometry.Point{X: 0, Y: 0}),
		},
		Closed: true,
	}
	open := Path{
		Bounds: geometry.Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50},
		Segments: []Segment{
			Line(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 0}),
			Line(geometry.Point{X: 100, Y: 0}, geometry.Point{X: 100, Y: 50}),
		},
		Closed: false,
	}
	tiny := sharpRectPath(10, 10, 2, 2)
	ellipse := circlePath(200, 200, 40)
	ellipse.Bounds.MaxX += 20 // aspect no longer ~1

	obs := ParseShapes([]Path{oblique, open, tiny, ellipse}, DefaultConfig())
	if len(obs) != 0 {
		t.Fatalf("observations: got %d, want 0 (all paths unusable)", len(obs))
	}
}

func TestParseShapes_EmptyPageIsNotAnError(t *testing.T) {
	obs := ParseShapes(nil, DefaultConfig())
	if obs == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(obs) != 0 {
		t.Fatalf("observations: got %d, want 0", len(obs))
	}
}

func TestParseShapes_PreservesDrawOrder(t *testing.T) {
	paths := []Path{
		sharpRectPath(300, 50, 72, 48), // drawn first, further right
		sharpRectPath(50, 50, 72, 48),
	}
	obs := ParseShapes(paths, DefaultConfig())
	if len(obs) != 2 {
		t.Fatalf("observations: got %d, want 2", len(obs))
	}
	if obs[0].Center.X < obs[1].Center.X {
		t.Error("output was reordered; draw order must be preserved")
	}
}
