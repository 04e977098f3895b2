// Package geometry provides the pure coordinate and unit math shared by the
// extraction engine: point/percent-of-width/inch/millimetre conversions and
// the circle-lattice spacing formulas.
//
// # Coordinate System
//
// All page coordinates are expressed in PDF points (1/72 inch) with a
// top-left origin: X increases rightward, Y increases downward. This matches
// the pixel convention used by the raster detector, so no axis flipping
// happens anywhere in the engine.
//
// # Percent-of-Width Space
//
// The percent-of-width projection scales BOTH axes by the page width:
//
//	x_pct = 100 * x_pt / page_width_pt
//	y_pct = 100 * y_pt / page_width_pt
//
// Scaling y by the width rather than the height is a deliberate contract
// with downstream alignment tooling, which expects square percent units.
// It is asserted by regression tests and must not be "fixed".
//
// # Error Handling
//
// Invalid numeric inputs (non-positive page width, non-positive diameter,
// negative gap) are reported as *DomainError, which callers can match with
// errors.As.
package geometry
