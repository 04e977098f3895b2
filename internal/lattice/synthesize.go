package lattice

import (
	"fmt"
	"math"
	"strconv"

	"github.com/isaacnfairplay/template-to-json/internal/geometry"
	"github.com/isaacnfairplay/template-to-json/internal/template"
)

const epsilon = 1e-9

// Margins is the unprintable border of the page, in points.
type Margins struct {
	Top    float64 `json:"top_pt"`
	Right  float64 `json:"right_pt"`
	Bottom float64 `json:"bottom_pt"`
	Left   float64 `json:"left_pt"`
}

// Uniform returns margins with the same extent on all four sides.
func Uniform(pt float64) Margins {
	return Margins{Top: pt, Right: pt, Bottom: pt, Left: pt}
}

func (m Margins) validate() error {
	for _, side := range []struct {
		name  string
		value float64
	}{
		{"top margin", m.Top},
		{"right margin", m.Right},
		{"bottom margin", m.Bottom},
		{"left margin", m.Left},
	} {
		if side.value < 0 {
			return &geometry.DomainError{Quantity: side.name, Constraint: "must be non-negative", Value: side.value}
		}
	}
	return nil
}

// Params configures one synthesis run.
type Params struct {
	// Layout selects simple (square) or close (hexagonal) packing.
	Layout geometry.CircleLayout

	// PageWidthPt and PageHeightPt are the page dimensions in points.
	PageWidthPt  float64
	PageHeightPt float64

	// DiameterPt is the circle diameter in points.
	DiameterPt float64

	// Margins is the border kept free of circles.
	Margins Margins

	// GapPt is the extra center-to-center clearance beyond the diameter.
	GapPt float64

	// MaxCols and MaxRows cap the lattice when positive; zero means fill
	// the page.
	MaxCols int
	MaxRows int
}

// LayoutError reports a configuration whose printable area cannot hold a
// single circle, or a synthesized lattice that failed its own consistency
// checks.
type LayoutError struct {
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("lattice: %s", e.Reason)
}

// Synthesize generates a circular label template for the given layout.
//
// # Algorithm
//
// Rows start at top margin + radius and advance by the row pitch until the
// next row would cross the bottom margin. Within each row, columns start at
// left margin + radius (plus the half-pitch shift on odd close-packed rows)
// and as many circles are placed as fit before the right margin. MaxCols
// and MaxRows truncate the fill when set.
//
// The returned template carries the lattice pitch as DXPt/DYPt, the odd-row
// shift as RowOffsetPt, and per-row counts in ColumnsPerRow when the shift
// makes rows uneven.
func Synthesize(p Params) (*template.Template, error) {
	spacing, err := geometry.CircleLatticeSpacing(p.Layout, p.DiameterPt, p.GapPt)
	if err != nil {
		return nil, err
	}
	if p.PageWidthPt <= 0 {
		return nil, &geometry.DomainError{Quantity: "page width", Constraint: "must be positive", Value: p.PageWidthPt}
	}
	if p.PageHeightPt <= 0 {
		return nil, &geometry.DomainError{Quantity: "page height", Constraint: "must be positive", Value: p.PageHeightPt}
	}
	if err := p.Margins.validate(); err != nil {
		return nil, err
	}
	if p.MaxCols < 0 {
		return nil, &geometry.DomainError{Quantity: "max columns", Constraint: "must be non-negative", Value: float64(p.MaxCols)}
	}
	if p.MaxRows < 0 {
		return nil, &geometry.DomainError{Quantity: "max rows", Constraint: "must be non-negative", Value: float64(p.MaxRows)}
	}

	if usable := p.PageWidthPt - p.Margins.Left - p.Margins.Right; usable < p.DiameterPt-epsilon {
		return nil, &LayoutError{Reason: fmt.Sprintf(
			"horizontal margins leave %gpt for a %gpt diameter", usable, p.DiameterPt)}
	}
	if usable := p.PageHeightPt - p.Margins.Top - p.Margins.Bottom; usable < p.DiameterPt-epsilon {
		return nil, &LayoutError{Reason: fmt.Sprintf(
			"vertical margins leave %gpt for a %gpt diameter", usable, p.DiameterPt)}
	}

	radius := p.DiameterPt / 2
	startX := p.Margins.Left + radius
	startY := p.Margins.Top + radius
	maxX := p.PageWidthPt - p.Margins.Right - radius
	maxY := p.PageHeightPt - p.Margins.Bottom - radius

	var centers []geometry.Point
	var columnsPerRow []int

	attempted := 0
	for {
		y := startY + float64(attempted)*spacing.PitchY
		if y > maxY+epsilon {
			break
		}

		offset := 0.0
		if p.Layout == geometry.LayoutClose && attempted%2 == 1 {
			offset = spacing.RowOffset
		}
		xStart := startX + offset
		if xStart > maxX+epsilon {
			attempted++
			continue
		}

		columns := int(math.Floor((maxX-xStart+epsilon)/spacing.PitchX)) + 1
		if p.MaxCols > 0 && columns > p.MaxCols {
			columns = p.MaxCols
		}
		if columns <= 0 {
			attempted++
			continue
		}

		columnsPerRow = append(columnsPerRow, columns)
		for col := 0; col < columns; col++ {
			centers = append(centers, geometry.Point{X: xStart + float64(col)*spacing.PitchX, Y: y})
		}

		attempted++
		if p.MaxRows > 0 && len(columnsPerRow) >= p.MaxRows {
			break
		}
	}

	if len(centers) == 0 {
		return nil, &LayoutError{Reason: "no circle centers fit the configuration"}
	}

	cols := 0
	uniform := true
	for _, c := range columnsPerRow {
		if c > cols {
			cols = c
		}
	}
	for _, c := range columnsPerRow {
		if c != cols {
			uniform = false
			break
		}
	}
	var perRow []int
	if !uniform {
		perRow = columnsPerRow
	}

	lastRowFirst := len(centers) - columnsPerRow[len(columnsPerRow)-1]
	tmpl := &template.Template{
		PageWidthPt:      p.PageWidthPt,
		PageHeightPt:     p.PageHeightPt,
		Kind:             template.ShapeCircle,
		Rows:             len(columnsPerRow),
		Cols:             cols,
		DXPt:             spacing.PitchX,
		DYPt:             spacing.PitchY,
		RowOffsetPt:      spacing.RowOffset,
		LabelWidthPt:     p.DiameterPt,
		LabelHeightPt:    p.DiameterPt,
		AnchorTopLeft:    centers[0],
		AnchorBottomLeft: centers[lastRowFirst],
		Centers:          centers,
		ColumnsPerRow:    perRow,
		Meta: map[string]string{
			"layout": string(p.Layout),
			"gap_pt": strconv.FormatFloat(p.GapPt, 'g', -1, 64),
		},
	}

	if err := checkLattice(tmpl, p, spacing); err != nil {
		return nil, err
	}
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("lattice: inconsistent template: %w", err)
	}
	return tmpl, nil
}

// checkLattice verifies the non-overlap and in-bounds guarantees of a
// freshly synthesized lattice.
func checkLattice(tmpl *template.Template, p Params, spacing geometry.LatticeSpacing) error {
	radius := p.DiameterPt / 2
	minX := p.Margins.Left + radius - epsilon
	maxX := p.PageWidthPt - p.Margins.Right - radius + epsilon
	minY := p.Margins.Top + radius - epsilon
	maxY := p.PageHeightPt - p.Margins.Bottom - radius + epsilon
	for i, c := range tmpl.Centers {
		if c.X < minX || c.X > maxX || c.Y < minY || c.Y > maxY {
			return &LayoutError{Reason: fmt.Sprintf(
				"center %d (%g, %g) crosses the margin box", i, c.X, c.Y)}
		}
	}

	minPitch := spacing.PitchX - epsilon
	for i := 0; i < len(tmpl.Centers); i++ {
		for j := i + 1; j < len(tmpl.Centers); j++ {
			if tmpl.Centers[i].Distance(tmpl.Centers[j]) < minPitch {
				return &LayoutError{Reason: fmt.Sprintf(
					"centers %d and %d are %gpt apart, closer than the %gpt pitch",
					i, j, tmpl.Centers[i].Distance(tmpl.Centers[j]), spacing.PitchX)}
			}
		}
	}
	return nil
}
