// Package vector classifies a page's vector drawing primitives into
// candidate label shapes.
//
// The input model mirrors what PDF readers hand back for one page: a list
// of paths, each a sequence of straight segments, cubic curve segments, and
// whole-rectangle segments, plus the reader's bounding box for the path.
// The reader itself (PDF decoding, content stream interpretation) is an
// external collaborator; this package only reasons about the geometry it is
// given.
//
// # Classification
//
//   - A closed path whose straight segments form four approximately
//     axis-aligned runs is a rectangle. When curve segments round the
//     corners, the corner radius is estimated from the inset of the
//     straight runs relative to the bounding box; if the estimate is
//     degenerate the radius is omitted rather than guessed.
//   - A closed path made of curve segments whose on-path points lie at a
//     near-constant radius from the bounding box center is a circle.
//   - Everything else is skipped. Decorative marks are expected in real
//     documents, so an unclassifiable path is not an error.
//
// An empty result means the page carries no usable vector content, which is
// the documented trigger for the caller to fall back to the raster pass.
//
// Output order follows the document's native draw order. Downstream
// consumers never rely on it; the grid inference engine imposes the final
// clustered order.
package vector
