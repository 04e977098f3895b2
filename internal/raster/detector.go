package raster

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/isaacnfairplay/template-to-json/internal/geometry"
	"github.com/isaacnfairplay/template-to-json/internal/template"
)

// Config holds the tunables of the raster detection pipeline.
type Config struct {
	// ThresholdPercentile is the gradient-magnitude percentile used for
	// adaptive edge thresholding (0-100).
	ThresholdPercentile float64

	// ClosingRadius is the structuring-element radius for the
	// morphological closing that bridges anti-aliasing gaps.
	ClosingRadius float64

	// MinComponentPixels discards connected components smaller than this
	// many pixels.
	MinComponentPixels int

	// MinSidePt discards candidates smaller than this on either axis,
	// in points.
	MinSidePt float64

	// SizeBandLow and SizeBandHigh bound candidate sizes relative to the
	// median candidate size, removing noise specks and page artifacts.
	SizeBandLow  float64
	SizeBandHigh float64

	// MaxAspect discards candidates whose long side exceeds this multiple
	// of the short side.
	MaxAspect float64

	// BorderExtent discards components spanning more than this fraction
	// of the page on both axes (page-border artifacts).
	BorderExtent float64

	// CircleFillMax is the fill-ratio boundary between circles (~pi/4)
	// and rectangles (~1).
	CircleFillMax float64

	// CircleAspectTolerance is the relative width/height mismatch allowed
	// for a circle candidate.
	CircleAspectTolerance float64

	// SampleColors enables hex color sampling at each candidate center.
	SampleColors bool
}

// DefaultConfig returns the pipeline tunables used by the extraction CLI.
func DefaultConfig() Config {
	return Config{
		ThresholdPercentile:   92,
		ClosingRadius:         1,
		MinComponentPixels:    16,
		MinSidePt:             4,
		SizeBandLow:           0.6,
		SizeBandHigh:          1.4,
		MaxAspect:             8,
		BorderExtent:          0.95,
		CircleFillMax:         0.9,
		CircleAspectTolerance: 0.2,
		SampleColors:          true,
	}
}

// Detect runs the raster pipeline on a page and returns candidate shape
// observations in points.
//
// An empty result means no components survived filtering; per the
// extraction contract that is a terminal failure for the page, surfaced by
// the caller rather than here.
func Detect(page *Page, cfg Config) ([]template.Observation, error) {
	if page == nil || page.Gray == nil {
		return nil, fmt.Errorf("raster: nil page")
	}

	width := page.Gray.Bounds().Dx()
	height := page.Gray.Bounds().Dy()

	magnitude := gradientMagnitude(page.Gray, width, height)
	level := adaptiveLevel(magnitude, cfg.ThresholdPercentile)

	edges := segment.Threshold(magnitude, level)
	closed := effect.Erode(effect.Dilate(edges, cfg.ClosingRadius), cfg.ClosingRadius)

	mask := func(x, y int) bool {
		return closed.RGBAAt(closed.Bounds().Min.X+x, closed.Bounds().Min.Y+y).R > 127
	}
	components := findComponents(mask, width, height, cfg.MinComponentPixels)

	candidates := filterComponents(components, page, cfg)

	observations := make([]template.Observation, 0, len(candidates))
	for _, comp := range candidates {
		observations = append(observations, observe(comp, page, cfg))
	}
	return observations, nil
}

// gradientMagnitude computes the Sobel gradient magnitude of a grayscale
// image, normalized into an 8-bit image so the adaptive threshold and the
// binarization stage can share it.
func gradientMagnitude(gray *image.Gray, width, height int) *image.Gray {
	sobelX := [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY := [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	at := func(x, y int) float64 {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return float64(gray.Pix[y*gray.Stride+x])
	}

	raw := make([]float64, width*height)
	maxMag := 0.0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := at(x+kx, y+ky)
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			m := math.Sqrt(gx*gx + gy*gy)
			raw[y*width+x] = m
			if m > maxMag {
				maxMag = m
			}
		}
	}

	out := image.NewGray(image.Rect(0, 0, width, height))
	if maxMag == 0 {
		return out
	}
	for i, m := range raw {
		out.Pix[i] = uint8(math.Round(m / maxMag * 255))
	}
	return out
}

// adaptiveLevel picks the binarization level as the larger of the requested
// magnitude percentile and mean+stddev, never below 1 so that zero-gradient
// pixels can never pass.
func adaptiveLevel(magnitude *image.Gray, percentile float64) uint8 {
	var hist [256]int
	total := 0
	var sum float64
	for _, v := range magnitude.Pix {
		hist[v]++
		total++
		sum += float64(v)
	}
	if total == 0 {
		return 255
	}

	mean := sum / float64(total)
	var variance float64
	for v, count := range hist {
		d := float64(v) - mean
		variance += d * d * float64(count)
	}
	stddev := math.Sqrt(variance / float64(total))

	target := int(math.Ceil(percentile / 100 * float64(total)))
	cumulative := 0
	percentileLevel := 255
	for v := 0; v < 256; v++ {
		cumulative += hist[v]
		if cumulative >= target {
			percentileLevel = v
			break
		}
	}

	level := math.Max(float64(percentileLevel), mean+stddev)
	level = math.Max(level, 1)
	if level > 255 {
		level = 255
	}
	return uint8(level)
}

// filterComponents applies the absolute, aspect, border, and median-band
// size filters from the pipeline's stage 4.
func filterComponents(components []*component, page *Page, cfg Config) []*component {
	width := page.Gray.Bounds().Dx()
	height := page.Gray.Bounds().Dy()

	plausible := make([]*component, 0, len(components))
	for _, comp := range components {
		wPt := float64(comp.widthPx()) * page.Scale
		hPt := float64(comp.heightPx()) * page.Scale
		if wPt < cfg.MinSidePt || hPt < cfg.MinSidePt {
			continue
		}
		long, short := wPt, hPt
		if short > long {
			long, short = short, long
		}
		if long > cfg.MaxAspect*short {
			continue
		}
		if float64(comp.widthPx()) > cfg.BorderExtent*float64(width) &&
			float64(comp.heightPx()) > cfg.BorderExtent*float64(height) {
			continue
		}
		plausible = append(plausible, comp)
	}
	if len(plausible) == 0 {
		return plausible
	}

	widths := make([]float64, len(plausible))
	heights := make([]float64, len(plausible))
	for i, comp := range plausible {
		widths[i] = float64(comp.widthPx())
		heights[i] = float64(comp.heightPx())
	}
	medianW := medianOf(widths)
	medianH := medianOf(heights)

	banded := make([]*component, 0, len(plausible))
	for _, comp := range plausible {
		w := float64(comp.widthPx())
		h := float64(comp.heightPx())
		if w < medianW*cfg.SizeBandLow || w > medianW*cfg.SizeBandHigh {
			continue
		}
		if h < medianH*cfg.SizeBandLow || h > medianH*cfg.SizeBandHigh {
			continue
		}
		banded = append(banded, comp)
	}
	if len(banded) == 0 {
		// A uniform grid should never band-filter itself away; fall back
		// to the plausible set rather than dropping the page.
		return plausible
	}
	return banded
}

// observe converts a surviving component into a shape observation in
// points, classifying rectangle vs circle by fill ratio.
func observe(comp *component, page *Page, cfg Config) template.Observation {
	wPt := float64(comp.widthPx()) * page.Scale
	hPt := float64(comp.heightPx()) * page.Scale
	center := pointFromPixels(comp, page.Scale)

	obs := template.Observation{
		Center:   center,
		Kind:     template.ShapeRectangle,
		WidthPt:  wPt,
		HeightPt: hPt,
	}

	aspectOK := math.Abs(wPt-hPt) <= cfg.CircleAspectTolerance*math.Max(wPt, hPt)
	if aspectOK && comp.fillRatio() < cfg.CircleFillMax {
		diameter := (wPt + hPt) / 2
		obs.Kind = template.ShapeCircle
		obs.WidthPt = diameter
		obs.HeightPt = diameter
	}

	if cfg.SampleColors && page.Image != nil {
		cx := page.Image.Bounds().Min.X + (comp.minX+comp.maxX)/2
		cy := page.Image.Bounds().Min.Y + (comp.minY+comp.maxY)/2
		if c, ok := colorful.MakeColor(page.Image.At(cx, cy)); ok {
			obs.FillColor = c.Hex()
		}
	}
	return obs
}

func pointFromPixels(comp *component, scale float64) geometry.Point {
	return geometry.Point{
		X: float64(comp.minX+comp.maxX+1) / 2 * scale,
		Y: float64(comp.minY+comp.maxY+1) / 2 * scale,
	}
}

// medianOf returns the middle value of a non-empty sequence without
// modifying it.
func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
