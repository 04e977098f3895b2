package geometry

import "fmt"

// Unit conversion constants.
const (
	PointsPerInch = 72.0
	MMPerInch     = 25.4
)

// DomainError reports an invalid numeric input such as a non-positive page
// width or a negative gap. It carries the offending quantity so callers can
// surface the violated constraint directly.
type DomainError struct {
	// Quantity names the invalid input (e.g. "page width").
	Quantity string

	// Constraint describes the requirement (e.g. "must be positive").
	Constraint string

	// Value is the value that violated the constraint.
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("geometry: %s %s, received %g", e.Quantity, e.Constraint, e.Value)
}

// requirePositive returns a DomainError unless v > 0.
func requirePositive(v float64, quantity string) error {
	if v <= 0 {
		return &DomainError{Quantity: quantity, Constraint: "must be positive", Value: v}
	}
	return nil
}

// requireNonNegative returns a DomainError unless v >= 0.
func requireNonNegative(v float64, quantity string) error {
	if v < 0 {
		return &DomainError{Quantity: quantity, Constraint: "must be non-negative", Value: v}
	}
	return nil
}

// PercentOfWidth projects a point from page points into percent-of-width
// space. Both axes are scaled by the page width; see the package
// documentation for why y is not scaled by the page height.
func PercentOfWidth(p Point, pageWidthPt float64) (Point, error) {
	if err := requirePositive(pageWidthPt, "page width"); err != nil {
		return Point{}, err
	}
	scale := 100.0 / pageWidthPt
	return Point{X: p.X * scale, Y: p.Y * scale}, nil
}

// FromPercentOfWidth inverts PercentOfWidth, mapping percent-of-width
// coordinates back into page points.
func FromPercentOfWidth(p Point, pageWidthPt float64) (Point, error) {
	if err := requirePositive(pageWidthPt, "page width"); err != nil {
		return Point{}, err
	}
	scale := pageWidthPt / 100.0
	return Point{X: p.X * scale, Y: p.Y * scale}, nil
}

// PointsToInches converts a scalar value from points to inches.
func PointsToInches(v float64) float64 {
	return v / PointsPerInch
}

// PointsToMM converts a scalar value from points to millimetres.
func PointsToMM(v float64) float64 {
	return v / PointsPerInch * MMPerInch
}

// InchesToPoints converts a scalar value from inches to points.
func InchesToPoints(v float64) float64 {
	return v * PointsPerInch
}

// MMToPoints converts a scalar value from millimetres to points.
func MMToPoints(v float64) float64 {
	return v * PointsPerInch / MMPerInch
}
