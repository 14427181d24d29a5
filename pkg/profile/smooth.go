package profile

import (
	"math"
	"sort"

	"github.com/matzehuels/thalweg/pkg/network"
)

// RollingMean fills the ZMean column with a centered triangular-weighted
// moving average of the given column, computed independently per edge group.
// Rows without a complete window on both sides keep NaN. A non-positive
// window falls back to DefaultSmoothWindow; even widths are widened by one so
// the window stays centered.
func RollingMean(vertices []Vertex, window int, col Column) []Vertex {
	if window <= 0 {
		window = DefaultSmoothWindow
	}
	if window%2 == 0 {
		window++
	}
	half := window / 2

	weights := make([]float64, window)
	var wsum float64
	for i := range weights {
		w := float64(half + 1 - abs(i-half))
		weights[i] = w
		wsum += w
	}

	groups, order := group(vertices)
	var result []Vertex
	for _, edge := range order {
		vs := append([]Vertex(nil), groups[edge]...)
		for i := range vs {
			if i < half || i+half >= len(vs) {
				vs[i].ZMean = math.NaN()
				continue
			}
			sum := 0.0
			for k := -half; k <= half; k++ {
				sum += weights[k+half] * col(vs[i+k])
			}
			vs[i].ZMean = sum / wsum
		}
		result = append(result, vs...)
	}
	return result
}

// DiffRecord is one row of a series difference on a common distance axis.
type DiffRecord struct {
	Edge network.EdgeKey
	M    float64
	Diff float64
}

// diffRow is one merged sample during series alignment.
type diffRow struct {
	m      float64
	v1, v2 float64
}

// Difference aligns two derived series on a common edge-local distance axis
// and computes their pointwise difference (col1 - col2) per edge group. Rows
// from either series missing the other column have it filled by linear
// interpolation over distance; rows outside the overlap of both series are
// dropped.
func Difference(series1, series2 []Vertex, col1, col2 Column) []DiffRecord {
	combined := make(map[network.EdgeKey][]diffRow)
	var order []network.EdgeKey
	add := func(vs []Vertex, first bool) {
		for _, v := range vs {
			if _, seen := combined[v.Edge]; !seen {
				order = append(order, v.Edge)
			}
			r := diffRow{m: v.M, v1: math.NaN(), v2: math.NaN()}
			if first {
				r.v1 = col1(v)
			} else {
				r.v2 = col2(v)
			}
			combined[v.Edge] = append(combined[v.Edge], r)
		}
	}
	add(series1, true)
	add(series2, false)

	var result []DiffRecord
	for _, edge := range order {
		rows := combined[edge]
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].m < rows[j].m })
		fillByDistance(rows, func(r *diffRow) *float64 { return &r.v1 })
		fillByDistance(rows, func(r *diffRow) *float64 { return &r.v2 })
		for _, r := range rows {
			if math.IsNaN(r.v1) || math.IsNaN(r.v2) {
				continue
			}
			result = append(result, DiffRecord{Edge: edge, M: r.m, Diff: r.v1 - r.v2})
		}
	}
	return result
}

// fillByDistance linearly interpolates NaN runs of one column between the
// nearest known values, weighted by the m axis. Leading and trailing NaN runs
// are left unfilled so only the overlap of both series produces rows.
func fillByDistance(rows []diffRow, field func(*diffRow) *float64) {
	prev := -1
	for i := range rows {
		if math.IsNaN(*field(&rows[i])) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			mLo, mHi := rows[prev].m, rows[i].m
			vLo, vHi := *field(&rows[prev]), *field(&rows[i])
			for j := prev + 1; j < i; j++ {
				t := 0.5
				if mHi != mLo {
					t = (rows[j].m - mLo) / (mHi - mLo)
				}
				*field(&rows[j]) = vLo + t*(vHi-vLo)
			}
		}
		prev = i
	}
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
