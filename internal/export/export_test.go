package export

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/isaacnfairplay/template-to-json/internal/geometry"
	"github.com/isaacnfairplay/template-to-json/internal/template"
)

// sheetTemplate builds a 2x2 rectangular template on a letter page.
func sheetTemplate() *template.Template {
	radius := 9.0
	return &template.Template{
		PageWidthPt:    612,
		PageHeightPt:   792,
		Kind:           template.ShapeRectangle,
		Rows:           2,
		Cols:           2,
		DXPt:           292.32,
		DYPt:           81,
		LabelWidthPt:   180,
		LabelHeightPt:  72,
		CornerRadiusPt: &radius,
		AnchorTopLeft:  geometry.Point{X: 115.2, Y: 90},
		AnchorBottomLeft: geometry.Point{
			X: 115.2, Y: 171,
		},
		Centers: []geometry.Point{
			{X: 115.2, Y: 90},
			{X: 407.52, Y: 90},
			{X: 115.2, Y: 171},
			{X: 407.52, Y: 171},
		},
		Meta: map[string]string{"source": "test"},
	}
}

func TestBuildPayload_PercentWidth(t *testing.T) {
	payload, err := BuildPayload(sheetTemplate(), template.SpacePercentWidth)
	if err != nil {
		t.Fatalf("BuildPayload failed: %v", err)
	}

	if payload.Grid.Kind != GridRectangular {
		t.Errorf("grid kind: got %q, want rectangular", payload.Grid.Kind)
	}
	if payload.Grid.Rows != 2 || payload.Grid.Columns != 2 {
		t.Errorf("grid: got %dx%d, want 2x2", payload.Grid.Rows, payload.Grid.Columns)
	}
	if payload.CentersCoordSpace != template.SpacePercentWidth {
		t.Errorf("coord space: got %q", payload.CentersCoordSpace)
	}

	// Both axes scale by page width: y percent uses 612, not 792.
	first := payload.Centers[0]
	if math.Abs(first.X-115.2/612*100) > 1e-9 || math.Abs(first.Y-90.0/612*100) > 1e-9 {
		t.Errorf("first center percent: got %v", first)
	}
	if payload.TopLeftPercentWidth != payload.Anchors.PercentWidth.TopLeft {
		t.Errorf("top_left_percent_width %v disagrees with anchors block %v",
			payload.TopLeftPercentWidth, payload.Anchors.PercentWidth.TopLeft)
	}
	if payload.Anchors.Points.TopLeft != (geometry.Point{X: 115.2, Y: 90}) {
		t.Errorf("points anchor: got %v", payload.Anchors.Points.TopLeft)
	}
	if payload.Label.CornerRadiusPt == nil || *payload.Label.CornerRadiusPt != 9 {
		t.Errorf("corner radius: got %v, want 9", payload.Label.CornerRadiusPt)
	}
}

func TestBuildPayload_CircleKinds(t *testing.T) {
	tmpl := &template.Template{
		PageWidthPt:      200,
		PageHeightPt:     200,
		Kind:             template.ShapeCircle,
		Rows:             2,
		Cols:             2,
		DXPt:             50,
		DYPt:             50,
		LabelWidthPt:     40,
		LabelHeightPt:    40,
		AnchorTopLeft:    geometry.Point{X: 50, Y: 50},
		AnchorBottomLeft: geometry.Point{X: 50, Y: 100},
		Centers: []geometry.Point{
			{X: 50, Y: 50}, {X: 100, Y: 50},
			{X: 50, Y: 100}, {X: 100, Y: 100},
		},
		Meta: map[string]string{"layout": "simple"},
	}

	payload, err := BuildPayload(tmpl, template.SpacePoints)
	if err != nil {
		t.Fatalf("BuildPayload failed: %v", err)
	}
	if payload.Grid.Kind != GridCircleSimple {
		t.Errorf("grid kind: got %q, want circle_simple", payload.Grid.Kind)
	}

	tmpl.Meta["layout"] = "close"
	tmpl.RowOffsetPt = 25
	payload, err = BuildPayload(tmpl, template.SpacePoints)
	if err != nil {
		t.Fatalf("BuildPayload failed: %v", err)
	}
	if payload.Grid.Kind != GridCircleClose {
		t.Errorf("grid kind: got %q, want circle_close", payload.Grid.Kind)
	}
	if payload.Grid.RowOffsetPt != 25 {
		t.Errorf("row offset: got %g, want 25", payload.Grid.RowOffsetPt)
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "template.json")

	if err := WriteJSON(sheetTemplate(), path, template.SpacePoints); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"page", "grid", "label", "anchors", "centers", "centers_coord_space", "metadata", "top_left_percent_width"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("payload missing %q", key)
		}
	}
	centers, ok := decoded["centers"].([]any)
	if !ok || len(centers) != 4 {
		t.Errorf("centers: got %v", decoded["centers"])
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "centers.csv")

	if err := WriteCSV(sheetTemplate(), path, template.SpaceMM); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("lines: got %d, want header plus 4 centers", len(lines))
	}
	if lines[0] != "x,y,coord_space" {
		t.Errorf("header: got %q", lines[0])
	}
	wantX := 115.2 / 72 * 25.4
	fields := strings.Split(lines[1], ",")
	if len(fields) != 3 || fields[2] != "mm" {
		t.Fatalf("first row: got %q", lines[1])
	}
	gotX, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		t.Fatalf("parse x: %v", err)
	}
	if math.Abs(gotX-wantX) > 1e-5 {
		t.Errorf("first x: got %g, want %g", gotX, wantX)
	}
}

func TestWriteCenters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bare.csv")

	centers := []geometry.Point{{X: 1.5, Y: 2.25}, {X: 3, Y: 4}}
	if err := WriteCenters(centers, path); err != nil {
		t.Fatalf("WriteCenters failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 || lines[0] != "x,y" {
		t.Fatalf("output: got %q", string(data))
	}
	if lines[1] != "1.500000,2.250000" {
		t.Errorf("first row: got %q", lines[1])
	}
}

func TestBuildPayload_InvalidTemplate(t *testing.T) {
	tmpl := sheetTemplate()
	tmpl.Centers = tmpl.Centers[:3]
	if _, err := BuildPayload(tmpl, template.SpacePoints); err == nil {
		t.Fatal("expected error for inconsistent template")
	}
}

func TestBuildPayload_UnknownSpace(t *testing.T) {
	if _, err := BuildPayload(sheetTemplate(), "furlongs"); err == nil {
		t.Fatal("expected error for unknown coordinate space")
	}
}
