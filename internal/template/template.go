package template

import (
	"fmt"
	"math"
	"sort"

	"github.com/isaacnfairplay/template-to-json/internal/geometry"
)

// CoordinateSpace selects the unit system for projected template output.
type CoordinateSpace string

const (
	SpacePercentWidth CoordinateSpace = "percent_width"
	SpacePoints       CoordinateSpace = "points"
	SpaceInches       CoordinateSpace = "inches"
	SpaceMM           CoordinateSpace = "mm"
)

// CoordinateSpaces lists every supported projection, in the order exporters
// present them.
var CoordinateSpaces = []CoordinateSpace{SpacePercentWidth, SpacePoints, SpaceInches, SpaceMM}

// Template is the canonical description of a label grid: page size, shape
// kind, row/column counts, spacing, anchors, and the full ordered list of
// centers. It is produced atomically by the grid inference engine or the
// circle lattice synthesizer and never mutated afterwards.
type Template struct {
	// PageWidthPt and PageHeightPt are the page dimensions in points.
	PageWidthPt  float64 `json:"page_width_pt"`
	PageHeightPt float64 `json:"page_height_pt"`

	// Kind is the label shape for every cell of the grid.
	Kind ShapeKind `json:"shape_kind"`

	// Rows and Cols are the grid dimensions. Cols is the widest row when
	// ColumnsPerRow is set.
	Rows int `json:"rows"`
	Cols int `json:"cols"`

	// DXPt is the median center-to-center column spacing; DYPt the median
	// row spacing (row pitch for hex lattices).
	DXPt float64 `json:"dx_pt"`
	DYPt float64 `json:"dy_pt"`

	// RowOffsetPt is the horizontal offset of odd rows. Zero except for
	// close-packed circle lattices, where it equals DXPt/2 and is stored
	// explicitly for disambiguation.
	RowOffsetPt float64 `json:"row_offset_pt"`

	// LabelWidthPt and LabelHeightPt describe one label. For circles both
	// equal the diameter.
	LabelWidthPt  float64 `json:"label_width_pt"`
	LabelHeightPt float64 `json:"label_height_pt"`

	// CornerRadiusPt is the median corner radius for rounded rectangular
	// labels. Nil when no observation carried an estimable radius.
	CornerRadiusPt *float64 `json:"corner_radius_pt,omitempty"`

	// AnchorTopLeft is the center of row 0, column 0; AnchorBottomLeft the
	// center of the last row's first column. Both are redundant with
	// Centers and always consistent with it.
	AnchorTopLeft    geometry.Point `json:"anchor_top_left_pt"`
	AnchorBottomLeft geometry.Point `json:"anchor_bottom_left_pt"`

	// Centers lists every label center in points, row-major.
	Centers []geometry.Point `json:"centers"`

	// ColumnsPerRow records per-row column counts when rows differ (close
	// packed lattices whose offset rows hold one fewer circle). Nil when
	// every row holds exactly Cols centers.
	ColumnsPerRow []int `json:"columns_per_row,omitempty"`

	// Meta carries provenance strings such as the extraction pass or the
	// synthesizer layout. Never interpreted by the engine.
	Meta map[string]string `json:"metadata,omitempty"`
}

// DiameterPt returns the label diameter for circular templates.
func (t *Template) DiameterPt() (float64, error) {
	if t.Kind != ShapeCircle {
		return 0, fmt.Errorf("template: diameter is only defined for circular labels, kind is %q", t.Kind)
	}
	return t.LabelWidthPt, nil
}

// CenterCount returns the total number of centers.
func (t *Template) CenterCount() int {
	return len(t.Centers)
}

// RowCounts returns the number of centers in each row.
func (t *Template) RowCounts() []int {
	if t.ColumnsPerRow != nil {
		out := make([]int, len(t.ColumnsPerRow))
		copy(out, t.ColumnsPerRow)
		return out
	}
	out := make([]int, t.Rows)
	for i := range out {
		out[i] = t.Cols
	}
	return out
}

// ProjectPoint converts a single point from the canonical points
// representation into the requested coordinate space.
func (t *Template) ProjectPoint(p geometry.Point, space CoordinateSpace) (geometry.Point, error) {
	switch space {
	case SpacePoints:
		return p, nil
	case SpacePercentWidth:
		return geometry.PercentOfWidth(p, t.PageWidthPt)
	case SpaceInches:
		return geometry.Point{X: geometry.PointsToInches(p.X), Y: geometry.PointsToInches(p.Y)}, nil
	case SpaceMM:
		return geometry.Point{X: geometry.PointsToMM(p.X), Y: geometry.PointsToMM(p.Y)}, nil
	default:
		return geometry.Point{}, fmt.Errorf("template: unknown coordinate space %q", space)
	}
}

// ProjectedCenters returns the centers converted into the requested
// coordinate space. The returned slice is a fresh copy; the canonical points
// representation is never modified.
func (t *Template) ProjectedCenters(space CoordinateSpace) ([]geometry.Point, error) {
	out := make([]geometry.Point, len(t.Centers))
	for i, p := range t.Centers {
		projected, err := t.ProjectPoint(p, space)
		if err != nil {
			return nil, err
		}
		out[i] = projected
	}
	return out, nil
}

// Validate checks the structural invariants of the template: positive page
// and grid dimensions, center count consistency, finite in-bounds
// coordinates, row-major ordering, and anchor consistency.
func (t *Template) Validate() error {
	if t.PageWidthPt <= 0 || t.PageHeightPt <= 0 {
		return fmt.Errorf("template: page dimensions must be positive, got %gx%g",
			t.PageWidthPt, t.PageHeightPt)
	}
	if t.Rows <= 0 || t.Cols <= 0 {
		return fmt.Errorf("template: rows and cols must be positive, got %dx%d", t.Rows, t.Cols)
	}
	if t.DXPt <= 0 || t.DYPt <= 0 {
		return fmt.Errorf("template: spacing must be positive, got dx=%g dy=%g", t.DXPt, t.DYPt)
	}
	if t.LabelWidthPt <= 0 || t.LabelHeightPt <= 0 {
		return fmt.Errorf("template: label dimensions must be positive, got %gx%g",
			t.LabelWidthPt, t.LabelHeightPt)
	}
	if t.Kind == ShapeCircle && math.Abs(t.LabelWidthPt-t.LabelHeightPt) > 1e-6 {
		return fmt.Errorf("template: circle labels require equal width and height, got %gx%g",
			t.LabelWidthPt, t.LabelHeightPt)
	}

	counts := t.RowCounts()
	if len(counts) != t.Rows {
		return fmt.Errorf("template: %d columns-per-row entries for %d rows", len(counts), t.Rows)
	}
	total := 0
	widest := 0
	for _, c := range counts {
		if c <= 0 {
			return fmt.Errorf("template: row with non-positive column count %d", c)
		}
		if c > widest {
			widest = c
		}
		total += c
	}
	if widest != t.Cols {
		return fmt.Errorf("template: cols is %d but the widest row holds %d centers", t.Cols, widest)
	}
	if total != len(t.Centers) {
		return fmt.Errorf("template: %d centers for %d grid cells", len(t.Centers), total)
	}

	// Bounds and ordering: rows strictly descend the page, columns grow
	// rightward within each row.
	const slack = 1.0 // pt of tolerance for extractor rounding
	index := 0
	prevRowMaxY := math.Inf(-1)
	for _, count := range counts {
		rowStart := index
		for col := 0; col < count; col++ {
			p := t.Centers[index]
			if !p.IsFinite() {
				return fmt.Errorf("template: center %d is not finite", index)
			}
			if p.X < -slack || p.X > t.PageWidthPt+slack || p.Y < -slack || p.Y > t.PageHeightPt+slack {
				return fmt.Errorf("template: center %d (%g, %g) outside page %gx%g pt",
					index, p.X, p.Y, t.PageWidthPt, t.PageHeightPt)
			}
			if col > 0 && p.X < t.Centers[index-1].X {
				return fmt.Errorf("template: centers %d and %d violate row-major x ordering",
					index-1, index)
			}
			if p.Y <= prevRowMaxY {
				return fmt.Errorf("template: center %d does not lie below the previous row", index)
			}
			index++
		}
		rowMaxY := t.Centers[rowStart].Y
		for i := rowStart; i < index; i++ {
			if t.Centers[i].Y > rowMaxY {
				rowMaxY = t.Centers[i].Y
			}
		}
		prevRowMaxY = rowMaxY
	}

	if t.AnchorTopLeft != t.Centers[0] {
		return fmt.Errorf("template: top-left anchor %v inconsistent with centers[0] %v",
			t.AnchorTopLeft, t.Centers[0])
	}
	lastRowFirst := len(t.Centers) - counts[len(counts)-1]
	if t.AnchorBottomLeft != t.Centers[lastRowFirst] {
		return fmt.Errorf("template: bottom-left anchor %v inconsistent with centers[%d] %v",
			t.AnchorBottomLeft, lastRowFirst, t.Centers[lastRowFirst])
	}
	return nil
}

// RowMajor returns a copy of points sorted row-major: by y first, then x.
func RowMajor(points []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
