package template

import (
	"fmt"

	"github.com/isaacnfairplay/template-to-json/internal/geometry"
)

// ShapeKind identifies the label shape of an observation or template.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
)

// Observation is a single candidate shape detected on a page, before any
// grid regularization. Both the vector parser and the raster detector emit
// this format; the grid inference engine consumes it.
type Observation struct {
	// Center is the shape center in page coordinates (points).
	Center geometry.Point `json:"center"`

	// Kind is the detected shape kind.
	Kind ShapeKind `json:"kind"`

	// WidthPt is the shape width in points. For circles this is the
	// diameter.
	WidthPt float64 `json:"width_pt"`

	// HeightPt is the shape height in points. For circles this equals
	// WidthPt.
	HeightPt float64 `json:"height_pt"`

	// CornerRadiusPt is the estimated corner radius for rounded
	// rectangles, in points. Nil when the radius was not estimable.
	CornerRadiusPt *float64 `json:"corner_radius_pt,omitempty"`

	// FillColor is the hex color sampled at the shape center.
	// May be empty if sampling was disabled or failed.
	FillColor string `json:"fill_color,omitempty"`
}

// Validate checks the observation invariants: strictly positive size and a
// center inside the page bounds.
func (o Observation) Validate(pageWidthPt, pageHeightPt float64) error {
	if o.Kind != ShapeRectangle && o.Kind != ShapeCircle {
		return fmt.Errorf("observation: unknown shape kind %q", o.Kind)
	}
	if o.WidthPt <= 0 || o.HeightPt <= 0 {
		return fmt.Errorf("observation: size must be positive, got %gx%g pt", o.WidthPt, o.HeightPt)
	}
	if !o.Center.IsFinite() {
		return fmt.Errorf("observation: center is not finite")
	}
	if o.Center.X < 0 || o.Center.X > pageWidthPt || o.Center.Y < 0 || o.Center.Y > pageHeightPt {
		return fmt.Errorf("observation: center (%g, %g) outside page %gx%g pt",
			o.Center.X, o.Center.Y, pageWidthPt, pageHeightPt)
	}
	return nil
}
