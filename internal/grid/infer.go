package grid

import (
	"fmt"
	"math"
	"sort"

	"github.com/isaacnfairplay/template-to-json/internal/geometry"
	"github.com/isaacnfairplay/template-to-json/internal/template"
)

// Config holds the clustering and tolerance tunables of the inference
// engine.
type Config struct {
	// ClusterToleranceFactor scales the median label size into the
	// tolerance that separates intra-row (or intra-column) jitter from a
	// genuine row (column) transition.
	ClusterToleranceFactor float64

	// MinClusterTolerancePt is the floor for that tolerance, keeping tiny
	// labels from collapsing the clustering.
	MinClusterTolerancePt float64

	// SpacingTolerancePt is the maximum deviation of any pitch-normalized
	// spacing sample from the median spacing before the input is rejected
	// as non-grid.
	SpacingTolerancePt float64

	// RequireUniformRows rejects input whose rows disagree on column
	// count instead of reconciling them as partial occlusion.
	RequireUniformRows bool
}

// DefaultConfig returns the tolerances used by the extraction CLI.
func DefaultConfig() Config {
	return Config{
		ClusterToleranceFactor: 0.3,
		MinClusterTolerancePt:  0.75,
		SpacingTolerancePt:     1.5,
	}
}

// InferenceError reports observations that do not resolve to a consistent
// rectangular grid. Observed and Limit carry the value and threshold behind
// the rejection so callers can surface the specific violation.
type InferenceError struct {
	Reason   string
	Observed float64
	Limit    float64
}

func (e *InferenceError) Error() string {
	if e.Limit != 0 || e.Observed != 0 {
		return fmt.Sprintf("grid inference: %s (observed %g, limit %g)", e.Reason, e.Observed, e.Limit)
	}
	return fmt.Sprintf("grid inference: %s", e.Reason)
}

// cluster is a group of observation indices with a representative
// coordinate (the median of its members).
type cluster struct {
	members []int
	rep     float64
}

// Infer derives the canonical template from a non-empty, single-kind set of
// shape observations on one page.
//
// The returned template is the idealized regular grid regenerated from the
// inferred anchor and spacing, not the raw detections. Fails with
// *InferenceError when fewer than two rows or columns can be formed, when
// kinds are mixed, or when spacing variance exceeds the configured
// tolerance; fails with *geometry.DomainError for non-positive page
// dimensions.
func Infer(observations []template.Observation, pageWidthPt, pageHeightPt float64, cfg Config) (*template.Template, error) {
	if pageWidthPt <= 0 {
		return nil, &geometry.DomainError{Quantity: "page width", Constraint: "must be positive", Value: pageWidthPt}
	}
	if pageHeightPt <= 0 {
		return nil, &geometry.DomainError{Quantity: "page height", Constraint: "must be positive", Value: pageHeightPt}
	}
	if len(observations) == 0 {
		return nil, &InferenceError{Reason: "no observations"}
	}

	kind := observations[0].Kind
	for i, obs := range observations {
		if obs.Kind != kind {
			return nil, &InferenceError{Reason: fmt.Sprintf("mixed shape kinds (%q and %q)", kind, obs.Kind)}
		}
		if err := obs.Validate(pageWidthPt, pageHeightPt); err != nil {
			return nil, fmt.Errorf("grid inference: observation %d: %w", i, err)
		}
	}

	widths := make([]float64, len(observations))
	heights := make([]float64, len(observations))
	for i, obs := range observations {
		widths[i] = obs.WidthPt
		heights[i] = obs.HeightPt
	}
	medianW := median(widths)
	medianH := median(heights)

	rows := clusterRows(observations, medianH, cfg)
	if len(rows) < 2 {
		return nil, &InferenceError{Reason: "fewer than 2 rows", Observed: float64(len(rows)), Limit: 2}
	}

	columns := make([][]cluster, len(rows))
	counts := make([]int, len(rows))
	for i, row := range rows {
		columns[i] = clusterColumns(observations, row.members, medianW, cfg)
		counts[i] = len(columns[i])
	}

	cols := mode(counts)
	if cols < 2 {
		return nil, &InferenceError{Reason: "fewer than 2 columns", Observed: float64(cols), Limit: 2}
	}
	if cfg.RequireUniformRows {
		for i, count := range counts {
			if count != cols {
				return nil, &InferenceError{
					Reason:   fmt.Sprintf("row %d holds %d columns, expected %d", i, count, cols),
					Observed: float64(count),
					Limit:    float64(cols),
				}
			}
		}
	}

	// Spacing from medians of consecutive differences. Column samples
	// spanning an occluded cell sit near an integer multiple of the pitch
	// and are normalized by that multiple, since reconciliation restores
	// the missing cell. Row samples are gated on their raw deviation: a
	// doubled row gap means a whole row went undetected, and regeneration
	// cannot restore a row, so that input must be rejected.
	var dxSamples []float64
	for _, rowCols := range columns {
		for i := 1; i < len(rowCols); i++ {
			dxSamples = append(dxSamples, rowCols[i].rep-rowCols[i-1].rep)
		}
	}
	var dySamples []float64
	for i := 1; i < len(rows); i++ {
		dySamples = append(dySamples, rows[i].rep-rows[i-1].rep)
	}
	if len(dxSamples) == 0 {
		return nil, &InferenceError{Reason: "no row holds two resolvable columns"}
	}

	dx, dxDev := robustPitch(dxSamples)
	dy := median(dySamples)
	dyDev := maxAbsDeviation(dySamples, dy)
	if worst := math.Max(dxDev, dyDev); worst > cfg.SpacingTolerancePt {
		return nil, &InferenceError{
			Reason:   "spacing variance exceeds tolerance",
			Observed: worst,
			Limit:    cfg.SpacingTolerancePt,
		}
	}

	// Anchor: row 0's representative y, and the median across rows of the
	// first column's representative x (robust against a row whose first
	// column is occluded).
	firstXs := make([]float64, len(columns))
	for i, rowCols := range columns {
		firstXs[i] = rowCols[0].rep
	}
	anchor := geometry.Point{X: median(firstXs), Y: rows[0].rep}

	// Canonical centers: the idealized regular grid, never the raw
	// detections.
	centers := make([]geometry.Point, 0, len(rows)*cols)
	for r := 0; r < len(rows); r++ {
		for c := 0; c < cols; c++ {
			centers = append(centers, geometry.Point{
				X: anchor.X + float64(c)*dx,
				Y: anchor.Y + float64(r)*dy,
			})
		}
	}

	const slack = 1.0
	last := centers[len(centers)-1]
	if last.X > pageWidthPt+slack || last.Y > pageHeightPt+slack || anchor.X < -slack || anchor.Y < -slack {
		return nil, &InferenceError{Reason: "regenerated grid exceeds page bounds"}
	}

	tmpl := &template.Template{
		PageWidthPt:      pageWidthPt,
		PageHeightPt:     pageHeightPt,
		Kind:             kind,
		Rows:             len(rows),
		Cols:             cols,
		DXPt:             dx,
		DYPt:             dy,
		LabelWidthPt:     medianW,
		LabelHeightPt:    medianH,
		CornerRadiusPt:   medianCornerRadius(observations, kind),
		AnchorTopLeft:    centers[0],
		AnchorBottomLeft: centers[(len(rows)-1)*cols],
		Centers:          centers,
	}
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("grid inference: inconsistent template: %w", err)
	}
	return tmpl, nil
}

// clusterRows groups observations into rows by y coordinate.
//
// A provisional row pitch is estimated as the median of the sorted-y gaps
// that exceed the intra-row tolerance; observations are then greedily
// grouped while they stay within half that pitch of the running cluster
// mean. Row representatives are medians of their members' y.
func clusterRows(observations []template.Observation, medianH float64, cfg Config) []cluster {
	tol := math.Max(cfg.ClusterToleranceFactor*medianH, cfg.MinClusterTolerancePt)

	order := make([]int, len(observations))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return observations[order[i]].Center.Y < observations[order[j]].Center.Y
	})

	var transitions []float64
	for i := 1; i < len(order); i++ {
		gap := observations[order[i]].Center.Y - observations[order[i-1]].Center.Y
		if gap > tol {
			transitions = append(transitions, gap)
		}
	}
	clusterTol := tol
	if len(transitions) > 0 {
		clusterTol = math.Max(median(transitions)/2, cfg.MinClusterTolerancePt)
	}

	coord := func(i int) float64 { return observations[i].Center.Y }
	return greedyCluster(order, coord, clusterTol)
}

// clusterColumns groups one row's observations into columns by x.
func clusterColumns(observations []template.Observation, members []int, medianW float64, cfg Config) []cluster {
	tol := math.Max(cfg.ClusterToleranceFactor*medianW, cfg.MinClusterTolerancePt)

	order := make([]int, len(members))
	copy(order, members)
	sort.SliceStable(order, func(i, j int) bool {
		return observations[order[i]].Center.X < observations[order[j]].Center.X
	})

	coord := func(i int) float64 { return observations[i].Center.X }
	return greedyCluster(order, coord, tol)
}

// greedyCluster walks coordinate-sorted indices, starting a new cluster
// whenever the next value drifts beyond tol from the running cluster mean.
func greedyCluster(order []int, coord func(int) float64, tol float64) []cluster {
	var clusters []cluster
	var current []int
	var sum float64

	flush := func() {
		if len(current) == 0 {
			return
		}
		values := make([]float64, len(current))
		for i, idx := range current {
			values[i] = coord(idx)
		}
		clusters = append(clusters, cluster{members: current, rep: median(values)})
	}

	for _, idx := range order {
		v := coord(idx)
		if len(current) > 0 && math.Abs(v-sum/float64(len(current))) > tol {
			flush()
			current = nil
			sum = 0
		}
		current = append(current, idx)
		sum += v
	}
	flush()
	return clusters
}

// robustPitch returns the median unit pitch of a set of consecutive column
// gaps plus the worst pitch-normalized deviation. Samples close to an
// integer multiple of the provisional pitch are divided by that multiple,
// so gaps spanning occluded cells measure the same unit pitch. Only column
// gaps get this treatment; row gaps must stay un-normalized so a fully
// missing row is rejected rather than absorbed.
func robustPitch(samples []float64) (pitch, worstDeviation float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	provisional := median(samples)
	if provisional <= 0 {
		return provisional, maxAbsDeviation(samples, provisional)
	}

	normalized := make([]float64, len(samples))
	for i, s := range samples {
		k := math.Round(s / provisional)
		if k < 1 {
			k = 1
		}
		normalized[i] = s / k
	}
	pitch = median(normalized)
	return pitch, maxAbsDeviation(normalized, pitch)
}

// medianCornerRadius aggregates the observed corner radii, or returns nil
// when no rectangle carried an estimable radius.
func medianCornerRadius(observations []template.Observation, kind template.ShapeKind) *float64 {
	if kind != template.ShapeRectangle {
		return nil
	}
	var radii []float64
	for _, obs := range observations {
		if obs.CornerRadiusPt != nil {
			radii = append(radii, *obs.CornerRadiusPt)
		}
	}
	if len(radii) == 0 {
		return nil
	}
	r := median(radii)
	return &r
}
