package vector

import (
	"math"
	"sort"

	"github.com/isaacnfairplay/template-to-json/internal/geometry"
	"github.com/isaacnfairplay/template-to-json/internal/template"
)

// Config holds the geometric tolerances used when classifying paths.
type Config struct {
	// AxisTolerancePt is the maximum off-axis drift for a segment to count
	// as an axis-aligned straight run.
	AxisTolerancePt float64

	// CircleRadiusTolerance is the allowed relative deviation of on-path
	// points from the fitted radius.
	CircleRadiusTolerance float64

	// CircleAspectTolerance is the allowed relative width/height mismatch
	// of a circle's bounding box.
	CircleAspectTolerance float64

	// MinSidePt rejects shapes smaller than this on either axis,
	// filtering hairline decorations.
	MinSidePt float64
}

// DefaultConfig returns the tolerances used by the extraction CLI.
func DefaultConfig() Config {
	return Config{
		AxisTolerancePt:       0.5,
		CircleRadiusTolerance: 0.05,
		CircleAspectTolerance: 0.05,
		MinSidePt:             4,
	}
}

// ParseShapes classifies a page's paths into candidate shape observations.
//
// Paths that are neither rectangles nor circles are skipped silently. An
// empty result means the page has no usable vector content; the caller
// decides whether to fall back to the raster pass.
func ParseShapes(paths []Path, cfg Config) []template.Observation {
	observations := make([]template.Observation, 0, len(paths))
	for _, path := range paths {
		if obs, ok := classifyPath(path, cfg); ok {
			observations = append(observations, obs)
		}
	}
	return observations
}

func classifyPath(path Path, cfg Config) (template.Observation, bool) {
	if len(path.Segments) == 0 {
		return template.Observation{}, false
	}

	bounds := path.effectiveBounds()
	width := bounds.Width()
	height := bounds.Height()
	if width < cfg.MinSidePt || height < cfg.MinSidePt {
		return template.Observation{}, false
	}

	// A lone "re" primitive is a sharp rectangle by definition.
	if len(path.Segments) == 1 && path.Segments[0].Kind == SegmentRect {
		zero := 0.0
		return template.Observation{
			Center:         bounds.Center(),
			Kind:           template.ShapeRectangle,
			WidthPt:        width,
			HeightPt:       height,
			CornerRadiusPt: &zero,
		}, true
	}

	if !path.isClosed() {
		return template.Observation{}, false
	}

	var lines, curves []Segment
	for _, seg := range path.Segments {
		switch seg.Kind {
		case SegmentLine:
			lines = append(lines, seg)
		case SegmentCurve:
			curves = append(curves, seg)
		default:
			// Mixed "re" plus other primitives: not a single shape.
			return template.Observation{}, false
		}
	}

	if len(curves) > 0 && len(lines) == 0 {
		return classifyCircle(path, bounds, curves, cfg)
	}
	if len(lines) >= 4 {
		return classifyRectangle(bounds, lines, curves, cfg)
	}
	return template.Observation{}, false
}

// classifyCircle accepts a curve-only closed path whose on-path points sit
// at a near-constant radius from the bounding box center.
func classifyCircle(path Path, bounds geometry.Rect, curves []Segment, cfg Config) (template.Observation, bool) {
	width := bounds.Width()
	height := bounds.Height()
	if math.Abs(width-height) > cfg.CircleAspectTolerance*math.Max(width, height) {
		return template.Observation{}, false
	}

	center := bounds.Center()
	radius := (width + height) / 4
	if radius <= 0 {
		return template.Observation{}, false
	}
	for _, pt := range path.onPathPoints() {
		if math.Abs(pt.Distance(center)-radius) > cfg.CircleRadiusTolerance*radius {
			return template.Observation{}, false
		}
	}

	diameter := radius * 2
	return template.Observation{
		Center:   center,
		Kind:     template.ShapeCircle,
		WidthPt:  diameter,
		HeightPt: diameter,
	}, true
}

// classifyRectangle accepts four approximately axis-aligned straight runs,
// one per side, with optional corner curves.
func classifyRectangle(bounds geometry.Rect, lines, curves []Segment, cfg Config) (template.Observation, bool) {
	var topRun, bottomRun, leftRun, rightRun bool

	// A straight run belongs to the side whose coordinate it hugs; runs
	// may stop short of the corners when the corners are rounded, so side
	// membership is judged against a quarter of the respective dimension.
	sideTolX := bounds.Width() / 4
	sideTolY := bounds.Height() / 4

	for _, seg := range lines {
		a, b := seg.Points[0], seg.Points[1]
		dx := math.Abs(b.X - a.X)
		dy := math.Abs(b.Y - a.Y)
		switch {
		case dy <= cfg.AxisTolerancePt && dx > dy: // horizontal run
			y := (a.Y + b.Y) / 2
			if y-bounds.MinY <= sideTolY {
				topRun = true
			} else if bounds.MaxY-y <= sideTolY {
				bottomRun = true
			}
		case dx <= cfg.AxisTolerancePt && dy > dx: // vertical run
			x := (a.X + b.X) / 2
			if x-bounds.MinX <= sideTolX {
				leftRun = true
			} else if bounds.MaxX-x <= sideTolX {
				rightRun = true
			}
		default:
			return template.Observation{}, false // oblique segment
		}
	}

	if !topRun || !bottomRun || !leftRun || !rightRun {
		return template.Observation{}, false
	}

	obs := template.Observation{
		Center:   bounds.Center(),
		Kind:     template.ShapeRectangle,
		WidthPt:  bounds.Width(),
		HeightPt: bounds.Height(),
	}

	if len(curves) == 0 {
		zero := 0.0
		obs.CornerRadiusPt = &zero
		return obs, true
	}

	if radius, ok := estimateCornerRadius(bounds, lines); ok {
		obs.CornerRadiusPt = &radius
	}
	return obs, true
}

// estimateCornerRadius infers the corner radius of a rounded rectangle from
// how far the straight runs stop short of the bounding box edges.
//
// The inset of each run endpoint from its nearest perpendicular edge is a
// radius candidate; the median of the horizontal and vertical candidate
// populations are averaged. Returns false when no endpoint yields a usable
// candidate or the estimate exceeds half the shorter side (degenerate
// geometry), in which case the radius is omitted rather than guessed.
func estimateCornerRadius(bounds geometry.Rect, lines []Segment) (float64, bool) {
	const eps = 1e-6
	limitX := bounds.Width()/2 + eps
	limitY := bounds.Height()/2 + eps

	var xCandidates, yCandidates []float64
	for _, seg := range lines {
		for _, pt := range seg.Points {
			if inset := pt.X - bounds.MinX; inset > eps && inset < limitX {
				xCandidates = append(xCandidates, inset)
			}
			if inset := bounds.MaxX - pt.X; inset > eps && inset < limitX {
				xCandidates = append(xCandidates, inset)
			}
			if inset := pt.Y - bounds.MinY; inset > eps && inset < limitY {
				yCandidates = append(yCandidates, inset)
			}
			if inset := bounds.MaxY - pt.Y; inset > eps && inset < limitY {
				yCandidates = append(yCandidates, inset)
			}
		}
	}

	var radius float64
	switch {
	case len(xCandidates) > 0 && len(yCandidates) > 0:
		radius = (median(xCandidates) + median(yCandidates)) / 2
	case len(xCandidates) > 0:
		radius = median(xCandidates)
	case len(yCandidates) > 0:
		radius = median(yCandidates)
	default:
		return 0, false
	}

	if radius > math.Min(bounds.Width(), bounds.Height())/2+eps {
		return 0, false
	}
	return radius, true
}

// median returns the middle value of a non-empty sequence. The input is not
// modified.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
