package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/isaacnfairplay/template-to-json/internal/geometry"
	"github.com/isaacnfairplay/template-to-json/internal/template"
)

// GridKind labels the grid family in exported payloads.
type GridKind string

const (
	GridRectangular  GridKind = "rectangular"
	GridCircleSimple GridKind = "circle_simple"
	GridCircleClose  GridKind = "circle_close"
)

// PagePayload is the page block of the JSON output.
type PagePayload struct {
	WidthPt  float64 `json:"width_pt"`
	HeightPt float64 `json:"height_pt"`
}

// GridPayload is the grid block of the JSON output.
type GridPayload struct {
	Kind          GridKind `json:"kind"`
	Rows          int      `json:"rows"`
	Columns       int      `json:"columns"`
	DeltaXPt      float64  `json:"delta_x_pt"`
	DeltaYPt      float64  `json:"delta_y_pt"`
	RowOffsetPt   float64  `json:"row_offset_pt,omitempty"`
	ColumnsPerRow []int    `json:"columns_per_row,omitempty"`
}

// LabelPayload is the label block of the JSON output.
type LabelPayload struct {
	Shape          template.ShapeKind `json:"shape"`
	WidthPt        float64            `json:"width_pt"`
	HeightPt       float64            `json:"height_pt"`
	CornerRadiusPt *float64           `json:"corner_radius_pt,omitempty"`
}

// AnchorPair holds the two representative anchors in one coordinate space.
type AnchorPair struct {
	TopLeft    geometry.Point `json:"top_left"`
	BottomLeft geometry.Point `json:"bottom_left"`
}

// AnchorsPayload carries the anchors in points and in percent-of-width
// space, independent of the coordinate space chosen for the centers.
type AnchorsPayload struct {
	Points       AnchorPair `json:"points"`
	PercentWidth AnchorPair `json:"percent_width"`
}

// Payload is the complete JSON document written for a template.
type Payload struct {
	Page                PagePayload              `json:"page"`
	Grid                GridPayload              `json:"grid"`
	Label               LabelPayload             `json:"label"`
	Anchors             AnchorsPayload           `json:"anchors"`
	Centers             []geometry.Point         `json:"centers"`
	CentersCoordSpace   template.CoordinateSpace `json:"centers_coord_space"`
	Metadata            map[string]string        `json:"metadata"`
	TopLeftPercentWidth geometry.Point           `json:"top_left_percent_width"`
}

// BuildPayload assembles the export payload with centers projected into the
// requested coordinate space.
func BuildPayload(tmpl *template.Template, space template.CoordinateSpace) (*Payload, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	centers, err := tmpl.ProjectedCenters(space)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	topLeftPct, err := geometry.PercentOfWidth(tmpl.AnchorTopLeft, tmpl.PageWidthPt)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	bottomLeftPct, err := geometry.PercentOfWidth(tmpl.AnchorBottomLeft, tmpl.PageWidthPt)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	meta := tmpl.Meta
	if meta == nil {
		meta = map[string]string{}
	}

	return &Payload{
		Page: PagePayload{WidthPt: tmpl.PageWidthPt, HeightPt: tmpl.PageHeightPt},
		Grid: GridPayload{
			Kind:          gridKind(tmpl),
			Rows:          tmpl.Rows,
			Columns:       tmpl.Cols,
			DeltaXPt:      tmpl.DXPt,
			DeltaYPt:      tmpl.DYPt,
			RowOffsetPt:   tmpl.RowOffsetPt,
			ColumnsPerRow: tmpl.ColumnsPerRow,
		},
		Label: LabelPayload{
			Shape:          tmpl.Kind,
			WidthPt:        tmpl.LabelWidthPt,
			HeightPt:       tmpl.LabelHeightPt,
			CornerRadiusPt: tmpl.CornerRadiusPt,
		},
		Anchors: AnchorsPayload{
			Points:       AnchorPair{TopLeft: tmpl.AnchorTopLeft, BottomLeft: tmpl.AnchorBottomLeft},
			PercentWidth: AnchorPair{TopLeft: topLeftPct, BottomLeft: bottomLeftPct},
		},
		Centers:             centers,
		CentersCoordSpace:   space,
		Metadata:            meta,
		TopLeftPercentWidth: topLeftPct,
	}, nil
}

// gridKind maps the template's shape and lattice parameters onto the
// exported grid family.
func gridKind(tmpl *template.Template) GridKind {
	if tmpl.Kind != template.ShapeCircle {
		return GridRectangular
	}
	if tmpl.Meta["layout"] == string(geometry.LayoutClose) || tmpl.RowOffsetPt > 0 {
		return GridCircleClose
	}
	return GridCircleSimple
}

// WriteJSON serializes the template to an indented JSON file, creating
// parent directories as needed.
func WriteJSON(tmpl *template.Template, path string, space template.CoordinateSpace) error {
	payload, err := BuildPayload(tmpl, space)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("export: encode json: %w", err)
	}
	data = append(data, '\n')
	return writeFile(path, data)
}

// WriteCSV writes the projected centers as CSV rows of x, y, and the
// coordinate space.
func WriteCSV(tmpl *template.Template, path string, space template.CoordinateSpace) error {
	if err := tmpl.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	centers, err := tmpl.ProjectedCenters(space)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y", "coord_space"}); err != nil {
		return fmt.Errorf("export: write csv: %w", err)
	}
	for _, c := range centers {
		record := []string{
			fmt.Sprintf("%.6f", c.X),
			fmt.Sprintf("%.6f", c.Y),
			string(space),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("export: write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export: write csv: %w", err)
	}
	return f.Close()
}

// WriteCenters writes a bare x,y center list, a lightweight form for
// debugging scripts that do not need the full template document.
func WriteCenters(centers []geometry.Point, path string) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y"}); err != nil {
		return fmt.Errorf("export: write csv: %w", err)
	}
	for _, c := range centers {
		if err := w.Write([]string{fmt.Sprintf("%.6f", c.X), fmt.Sprintf("%.6f", c.Y)}); err != nil {
			return fmt.Errorf("export: write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export: write csv: %w", err)
	}
	return f.Close()
}

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("export: create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("export: create file: %w", err)
	}
	return f, nil
}

func writeFile(path string, data []byte) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("export: write file: %w", err)
	}
	return f.Close()
}
