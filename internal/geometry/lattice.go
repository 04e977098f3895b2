package geometry

import (
	"fmt"
	"math"
)

// CircleLayout selects the packing style for a circle lattice.
type CircleLayout string

const (
	// LayoutSimple places circles on a square lattice with identical
	// horizontal and vertical pitch.
	LayoutSimple CircleLayout = "simple"

	// LayoutClose places circles on a hexagonal close-packed lattice:
	// alternating rows are offset by half the column pitch and the row
	// pitch shrinks by sqrt(3)/2.
	LayoutClose CircleLayout = "close"
)

// LatticeSpacing describes the center-to-center spacing of a circle lattice.
type LatticeSpacing struct {
	// PitchX is the column pitch in points.
	PitchX float64 `json:"pitch_x_pt"`

	// PitchY is the row pitch in points.
	PitchY float64 `json:"pitch_y_pt"`

	// RowOffset is the horizontal offset applied to odd rows, in points.
	// Zero for the simple layout, PitchX/2 for the close layout.
	RowOffset float64 `json:"row_offset_pt"`
}

// CircleLatticeSpacing computes the lattice spacing for the given layout.
//
// Simple packing uses pitch = diameter + gap on both axes. Close (hex)
// packing keeps the column pitch but compresses the row pitch to
// (diameter + gap) * sqrt(3)/2, with odd rows offset by half a column pitch.
//
// Returns *DomainError for a non-positive diameter or negative gap, and a
// plain error for an unknown layout.
func CircleLatticeSpacing(layout CircleLayout, diameterPt, gapPt float64) (LatticeSpacing, error) {
	if err := requirePositive(diameterPt, "circle diameter"); err != nil {
		return LatticeSpacing{}, err
	}
	if err := requireNonNegative(gapPt, "circle gap"); err != nil {
		return LatticeSpacing{}, err
	}

	pitch := diameterPt + gapPt
	switch layout {
	case LayoutSimple:
		return LatticeSpacing{PitchX: pitch, PitchY: pitch}, nil
	case LayoutClose:
		return LatticeSpacing{
			PitchX:    pitch,
			PitchY:    pitch * math.Sqrt(3) / 2,
			RowOffset: pitch / 2,
		}, nil
	default:
		return LatticeSpacing{}, fmt.Errorf("geometry: unsupported circle layout %q (expected %q or %q)",
			layout, LayoutSimple, LayoutClose)
	}
}
