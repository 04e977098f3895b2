package raster

import "image"

// span is the inclusive column range a component occupies on one row.
type span struct {
	minC, maxC int
}

// component is one connected region of the closed edge map.
type component struct {
	minX, minY, maxX, maxY int
	pixelCount             int

	// rowSpans maps row index to the leftmost/rightmost component pixel
	// on that row, used by the fill-ratio classifier.
	rowSpans map[int]span
}

func (c *component) widthPx() int  { return c.maxX - c.minX + 1 }
func (c *component) heightPx() int { return c.maxY - c.minY + 1 }

// fillRatio measures how much of the bounding box the component's row spans
// cover. The span on each row runs from the leftmost to the rightmost
// component pixel, so an outline counts the same as its filled shape: a
// rectangle covers ~1.0 of its box, a circle ~pi/4.
func (c *component) fillRatio() float64 {
	area := c.widthPx() * c.heightPx()
	if area == 0 {
		return 0
	}
	covered := 0
	for _, s := range c.rowSpans {
		covered += s.maxC - s.minC + 1
	}
	return float64(covered) / float64(area)
}

func (c *component) add(x, y int) {
	if x < c.minX {
		c.minX = x
	}
	if x > c.maxX {
		c.maxX = x
	}
	if y < c.minY {
		c.minY = y
	}
	if y > c.maxY {
		c.maxY = y
	}
	c.pixelCount++

	s, ok := c.rowSpans[y]
	if !ok {
		c.rowSpans[y] = span{minC: x, maxC: x}
		return
	}
	if x < s.minC {
		s.minC = x
	}
	if x > s.maxC {
		s.maxC = x
	}
	c.rowSpans[y] = s
}

// findComponents labels the connected components of a binary mask using an
// iterative stack-based flood fill with 8-connectivity. Components smaller
// than minPixels are discarded as noise. Discovery order is the scan order
// of the mask, so output is deterministic.
func findComponents(mask func(x, y int) bool, width, height, minPixels int) []*component {
	visited := make([]bool, width*height)
	var components []*component

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y*width+x] || !mask(x, y) {
				continue
			}

			comp := &component{
				minX: x, minY: y, maxX: x, maxY: y,
				rowSpans: make(map[int]span),
			}
			stack := []image.Point{{X: x, Y: y}}
			visited[y*width+x] = true

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				comp.add(p.X, p.Y)

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := p.X+dx, p.Y+dy
						if nx < 0 || nx >= width || ny < 0 || ny >= height {
							continue
						}
						if visited[ny*width+nx] || !mask(nx, ny) {
							continue
						}
						visited[ny*width+nx] = true
						stack = append(stack, image.Point{X: nx, Y: ny})
					}
				}
			}

			if comp.pixelCount >= minPixels {
				components = append(components, comp)
			}
		}
	}

	return components
}
