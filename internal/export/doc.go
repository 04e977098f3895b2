// Package export serializes templates to JSON and CSV files.
//
// The JSON payload carries the full template description (page, grid, label,
// anchors, metadata) with centers projected into one selectable coordinate
// space; the anchors are always present in both points and percent-of-width
// form. CSV output is the flat center list with the coordinate space
// recorded per row. Parent directories of the target path are created on
// demand.
package export
