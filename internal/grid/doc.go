// Package grid infers a canonical label-grid template from a set of noisy
// shape observations.
//
// The engine clusters observations into rows and columns, derives counts
// and spacing with robust statistics, and then regenerates a perfectly
// regular grid from the inferred parameters. The exported template is
// always that idealized grid, never the raw detections: downstream
// consumers' sub-point accuracy contract depends on the regeneration step,
// so it must not be skipped.
//
// # Robustness
//
// Every aggregate over observed values is a median, never a mean. One or
// two outlier detections (noise specks, partial occlusion) therefore cannot
// shift the spacing or size estimates. Rows that hold fewer columns than
// the majority are treated as partially occluded and reconciled by the
// regeneration step rather than dropped, keeping the rows*cols invariant;
// Config.RequireUniformRows switches to strict rejection instead. A fully
// undetected row is a different case: regeneration cannot restore it, so the
// doubled row gap fails the spacing gate rather than shifting every row
// below it.
//
// # Failure Modes
//
// Inference fails with *InferenceError when the observations cannot form a
// consistent grid: fewer than two rows or columns, mixed shape kinds, or
// spacing whose deviation from the median exceeds the configured tolerance.
// The error carries the observed value and the violated limit for
// diagnosis.
package grid
