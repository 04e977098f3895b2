package raster

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/disintegration/imaging"

	"github.com/isaacnfairplay/template-to-json/internal/geometry"
)

// Page is a rendered page ready for shape detection: the decoded image, its
// grayscale projection, and the pixel-to-point scaling derived from the DPI
// it was rendered at.
type Page struct {
	// Image is the original decoded image, kept for color sampling.
	Image image.Image

	// Gray is the grayscale projection used by the detection pipeline.
	Gray *image.Gray

	// DPI is the resolution the page was rendered at.
	DPI int

	// Scale converts pixel distances to points (72/DPI).
	Scale float64

	// PageWidthPt and PageHeightPt are the page dimensions in points.
	PageWidthPt  float64
	PageHeightPt float64
}

// NewPage wraps an already-decoded image as a detection-ready page.
//
// Returns *geometry.DomainError when dpi is not positive, and a plain error
// for an empty image.
func NewPage(img image.Image, dpi int) (*Page, error) {
	if dpi <= 0 {
		return nil, &geometry.DomainError{Quantity: "dpi", Constraint: "must be positive", Value: float64(dpi)}
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("raster: input image is empty")
	}

	scale := 72.0 / float64(dpi)
	return &Page{
		Image:        img,
		Gray:         toGray(imaging.Grayscale(img)),
		DPI:          dpi,
		Scale:        scale,
		PageWidthPt:  float64(bounds.Dx()) * scale,
		PageHeightPt: float64(bounds.Dy()) * scale,
	}, nil
}

// LoadPage decodes a page image from disk (PNG, JPEG, or GIF) at the given
// DPI.
func LoadPage(path string, dpi int) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("raster: failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("raster: failed to decode image: %w", err)
	}
	return NewPage(img, dpi)
}

// toGray flattens the grayscale NRGBA produced by imaging.Grayscale into a
// single-channel image. All three color channels are equal after the
// conversion, so the red channel carries the luminance.
func toGray(src *image.NRGBA) *image.Gray {
	bounds := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			gray.Pix[y*gray.Stride+x] = src.Pix[y*src.Stride+x*4]
		}
	}
	return gray
}
