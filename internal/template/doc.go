// Package template defines the data model shared by every stage of the
// extraction engine: the transient Observation values emitted by the vector
// and raster detectors, and the canonical Template produced by the grid
// inference engine and the circle lattice synthesizer.
//
// # Observations vs Templates
//
// An Observation is a single raw detection: one candidate rectangle or
// circle with its noisy center and size. A Template is the idealized,
// deterministic description of the whole grid: counts, median spacing,
// anchors, and a perfectly regular row-major list of centers. Consumers
// downstream of the engine depend only on Template.
//
// # Ordering
//
// Template centers are always in row-major order: ascending row index (top
// to bottom, increasing y) first, then ascending column index (left to
// right) within each row. Two templates built from the same inputs are
// bit-identical.
//
// # Immutability
//
// A Template is a value produced atomically by its constructor and is never
// mutated afterwards. Coordinate-space projections (percent-of-width,
// inches, millimetres) are pure read-time views; the canonical
// representation is always points.
package template
