// Package raster detects candidate label shapes in a rendered page image.
//
// The input is a pixel grid for one page at a caller-declared DPI; the
// output is the same observation format the vector parser emits, with all
// coordinates rescaled to points via scale = 72/dpi. Rendering itself (PDF
// rasterization, scanning) is an external collaborator.
//
// # Pipeline
//
//  1. Grayscale conversion.
//  2. Sobel gradient magnitude, thresholded adaptively (the larger of the
//     92nd percentile and mean+stddev of the magnitude distribution).
//  3. Morphological closing (dilate then erode) to bridge anti-aliasing
//     gaps in label outlines.
//  4. Connected-component labeling (8-connected) over the closed edge map;
//     each component's bounding box is a shape candidate.
//  5. Filtering by absolute size, aspect ratio, page-border extent, and a
//     median-relative size band that removes noise specks and artifacts.
//  6. Rectangle/circle classification by the fill ratio of the component's
//     row spans against its bounding box: a circle covers about pi/4 of
//     the box, a rectangle about all of it.
//
// Every stage is deterministic for identical pixel input and DPI; there are
// no randomized algorithm stages. An empty result means no components
// survived filtering, which is a terminal extraction failure for the page;
// there is no further fallback below the raster pass.
package raster
