package cli

import (
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/thalweg/pkg/errors"
	"github.com/matzehuels/thalweg/pkg/geom"
	"github.com/matzehuels/thalweg/pkg/network"
)

// Elevation travels in a "z" feature property because GeoJSON positions are
// planar here: a per-vertex array on LineStrings, a single number on Points.
// Missing elevation is NaN internally and null on the wire.

// readLines loads channel centerlines from a GeoJSON FeatureCollection.
// LineString features become edges-to-be; everything else is rejected.
func readLines(path string) ([]geom.Line, error) {
	fc, err := readFC(path)
	if err != nil {
		return nil, err
	}

	lines := make([]geom.Line, 0, len(fc.Features))
	for i, f := range fc.Features {
		ls, ok := f.Geometry.(orb.LineString)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidGeometry,
				"feature %d: expected LineString, got %s", i, f.Geometry.GeoJSONType())
		}
		z, err := zProperty(f, len(ls))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "feature %d", i)
		}
		lines = append(lines, geom.Line{Coords: ls, Z: z})
	}
	if len(lines) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no LineString features in %s", path)
	}
	return lines, nil
}

// readPoints loads observation points from a GeoJSON FeatureCollection.
// The feature ID comes from an "id" property when present, otherwise the
// feature index; elevation comes from a "z" property, NaN when absent.
func readPoints(path string) ([]network.NamedPoint, error) {
	fc, err := readFC(path)
	if err != nil {
		return nil, err
	}

	points := make([]network.NamedPoint, 0, len(fc.Features))
	for i, f := range fc.Features {
		p, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidGeometry,
				"feature %d: expected Point, got %s", i, f.Geometry.GeoJSONType())
		}
		np := network.NamedPoint{FID: fmt.Sprint(i), P: p, Z: math.NaN()}
		if id, ok := f.Properties["id"]; ok {
			switch t := id.(type) {
			case string:
				np.FID = t
			case float64:
				np.FID = fmt.Sprint(int(t))
			}
		}
		if z, ok := f.Properties["z"]; ok {
			if v, ok := toFloat(z); ok {
				np.Z = v
			}
		}
		points = append(points, np)
	}
	if len(points) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no Point features in %s", path)
	}
	return points, nil
}

func readFC(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", path)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing %s", path)
	}
	return fc, nil
}

// zProperty extracts the per-vertex "z" array from a LineString feature.
// A missing property yields all-NaN elevations; a wrong-length array is an error.
func zProperty(f *geojson.Feature, n int) ([]float64, error) {
	raw, ok := f.Properties["z"]
	if !ok {
		return nil, nil
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("property z: expected array, got %T", raw)
	}
	if len(arr) != n {
		return nil, fmt.Errorf("property z: %d values for %d vertices", len(arr), n)
	}
	z := make([]float64, n)
	for i, e := range arr {
		v, ok := toFloat(e)
		if !ok {
			v = math.NaN()
		}
		z[i] = v
	}
	return z, nil
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case nil:
		return math.NaN(), true
	default:
		return 0, false
	}
}

// marshalFC serializes a FeatureCollection. Non-finite float properties are
// replaced with null first, since encoding/json rejects NaN and Inf.
func marshalFC(fc *geojson.FeatureCollection) ([]byte, error) {
	for _, f := range fc.Features {
		for k, v := range f.Properties {
			f.Properties[k] = sanitizeValue(v)
		}
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding GeoJSON")
	}
	return data, nil
}

func sanitizeValue(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
	case []float64:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = sanitizeValue(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = sanitizeValue(e)
		}
	}
	return v
}

// writeFC writes a FeatureCollection to path, or to stdout when path is "-".
func writeFC(path string, fc *geojson.FeatureCollection) error {
	data, err := marshalFC(fc)
	if err != nil {
		return err
	}
	return writeOutput(path, data)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", path)
	}
	return nil
}

// recordFeature builds a Point feature for one row of a derived vertex or
// station table.
func recordFeature(rec network.VertexRecord) *geojson.Feature {
	f := geojson.NewFeature(rec.V.P)
	f.Properties["edge_from"] = rec.Edge.From
	f.Properties["edge_to"] = rec.Edge.To
	f.Properties["m"] = rec.M
	f.Properties["path_m"] = rec.PathM
	f.Properties["z"] = rec.V.Z
	return f
}

// lineFeature builds a LineString feature carrying its elevations.
func lineFeature(l geom.Line) *geojson.Feature {
	f := geojson.NewFeature(l.Coords)
	if l.HasZ() {
		f.Properties["z"] = append([]float64(nil), l.Z...)
	}
	return f
}
