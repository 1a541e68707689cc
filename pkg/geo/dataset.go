package geo

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/orbis/pkg/logging"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
)

var log = logging.Named("geo")

// ErrNoFeatures is returned when the input is not a feature collection.
var ErrNoFeatures = errors.New("geo: input is not a GeoJSON FeatureCollection")

// nameKeys are the property keys checked, in order, for a country name.
var nameKeys = []string{"name", "NAME", "ADMIN", "name_en"}

// LoadFile reads a GeoJSON FeatureCollection from disk.
func LoadFile(path string) ([]*Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geo: open dataset: %w", err)
	}
	defer f.Close()

	features, err := LoadFeatureCollection(f)
	if err != nil {
		return nil, fmt.Errorf("geo: load %s: %w", path, err)
	}
	return features, nil
}

// LoadFeatureCollection parses a GeoJSON FeatureCollection and returns its
// polygonal features in input order. Features with other geometry types are
// skipped. An empty collection is valid and yields no features.
func LoadFeatureCollection(r io.Reader) ([]*Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFeatures, err)
	}

	features := make([]*Feature, 0, len(fc.Features))
	for i, gf := range fc.Features {
		name := featureName(gf.Properties)
		f := NewFeature(name, gf.Geometry)
		if !f.IsPolygonal() {
			log.WithFields(logrus.Fields{
				"index": i,
				"name":  name,
				"type":  fmt.Sprintf("%T", gf.Geometry),
			}).Debug("skipping non-polygon feature")
			continue
		}
		features = append(features, f)
	}
	return features, nil
}

func featureName(props geojson.Properties) string {
	for _, k := range nameKeys {
		if v, ok := props[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
