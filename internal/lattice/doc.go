// Package lattice synthesizes circular label templates on a square or
// hexagonal close-packed lattice.
//
// The synthesizer fills the printable area (page minus margins) with as many
// circles as fit, walking rows top to bottom and columns left to right.
// Simple packing uses pitch = diameter + gap on both axes; close packing
// keeps the column pitch, compresses the row pitch by sqrt(3)/2, and shifts
// odd rows right by half a column pitch. Shifted rows may hold one fewer
// circle, recorded in the template's ColumnsPerRow.
//
// Every synthesized template is checked before it is returned: no two
// centers may sit closer than diameter + gap, and every circle must lie
// fully inside the margin box. A configuration that cannot place a single
// circle fails with *LayoutError rather than returning an empty template.
package lattice
