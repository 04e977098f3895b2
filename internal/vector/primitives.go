package vector

import "github.com/isaacnfairplay/template-to-json/internal/geometry"

// SegmentKind identifies one drawing primitive inside a path.
type SegmentKind int

const (
	// SegmentLine is a straight run. Points holds the start and end.
	SegmentLine SegmentKind = iota

	// SegmentCurve is a cubic Bézier. Points holds start, both control
	// points, and end, in that order.
	SegmentCurve

	// SegmentRect is a whole axis-aligned rectangle emitted as a single
	// primitive (the PDF "re" operator). Rect holds its bounds.
	SegmentRect
)

// Segment is a single drawing primitive.
type Segment struct {
	Kind   SegmentKind
	Points []geometry.Point
	Rect   geometry.Rect // valid when Kind == SegmentRect
}

// Line builds a straight segment.
func Line(from, to geometry.Point) Segment {
	return Segment{Kind: SegmentLine, Points: []geometry.Point{from, to}}
}

// Curve builds a cubic Bézier segment.
func Curve(from, c1, c2, to geometry.Point) Segment {
	return Segment{Kind: SegmentCurve, Points: []geometry.Point{from, c1, c2, to}}
}

// RectSegment builds a whole-rectangle segment.
func RectSegment(r geometry.Rect) Segment {
	return Segment{Kind: SegmentRect, Rect: r}
}

// Path is one stroked or filled path from a page, as reported by the
// document reader.
type Path struct {
	// Bounds is the reader-supplied bounding box of the path.
	Bounds geometry.Rect

	// Segments are the path's primitives in draw order.
	Segments []Segment

	// Closed reports whether the reader marked the path as closed.
	Closed bool
}

// onPathPoints returns the start/end points of every segment (control
// points excluded) plus rectangle corners.
func (p Path) onPathPoints() []geometry.Point {
	var pts []geometry.Point
	for _, seg := range p.Segments {
		switch seg.Kind {
		case SegmentLine:
			pts = append(pts, seg.Points...)
		case SegmentCurve:
			if len(seg.Points) == 4 {
				pts = append(pts, seg.Points[0], seg.Points[3])
			}
		case SegmentRect:
			pts = append(pts,
				geometry.Point{X: seg.Rect.MinX, Y: seg.Rect.MinY},
				geometry.Point{X: seg.Rect.MaxX, Y: seg.Rect.MinY},
				geometry.Point{X: seg.Rect.MinX, Y: seg.Rect.MaxY},
				geometry.Point{X: seg.Rect.MaxX, Y: seg.Rect.MaxY})
		}
	}
	return pts
}

// effectiveBounds returns the reader-supplied bounds, or a bounding box
// computed from the on-path points when the reader's box is degenerate.
func (p Path) effectiveBounds() geometry.Rect {
	if p.Bounds.Width() > 0 && p.Bounds.Height() > 0 {
		return p.Bounds
	}
	pts := p.onPathPoints()
	if len(pts) == 0 {
		return geometry.Rect{}
	}
	b := geometry.Rect{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, pt := range pts[1:] {
		if pt.X < b.MinX {
			b.MinX = pt.X
		}
		if pt.X > b.MaxX {
			b.MaxX = pt.X
		}
		if pt.Y < b.MinY {
			b.MinY = pt.Y
		}
		if pt.Y > b.MaxY {
			b.MaxY = pt.Y
		}
	}
	return b
}

// isClosed reports whether the path is explicitly closed or its endpoints
// coincide.
func (p Path) isClosed() bool {
	if p.Closed {
		return true
	}
	pts := p.onPathPoints()
	if len(pts) < 2 {
		return false
	}
	const eps = 1e-6
	return pts[0].Distance(pts[len(pts)-1]) < eps
}
