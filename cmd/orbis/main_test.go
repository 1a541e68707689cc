package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/orbis/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataset = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Centralia"},
     "geometry": {"type": "Polygon", "coordinates": [[[-1,-1],[1,-1],[1,1],[-1,1],[-1,-1]]]}},
    {"type": "Feature", "properties": {"name": "Eastland"},
     "geometry": {"type": "Polygon", "coordinates": [[[10,-5],[12,-5],[12,5],[10,5],[10,-5]]]}}
  ]
}`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "countries.geojson")
	require.NoError(t, os.WriteFile(path, []byte(dataset), 0o644))
	cfg := config.Default()
	cfg.DataPath = path
	return cfg
}

// targetFor finds the seed-chosen target by revealing immediately.
func targetFor(t *testing.T, cfg config.Config, seed uint64) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, seed, strings.NewReader("reveal\n"), &out))
	for _, name := range []string{"Centralia", "Eastland"} {
		if strings.Contains(out.String(), "The country was "+name) {
			return name
		}
	}
	t.Fatalf("no target in output: %s", out.String())
	return ""
}

func TestRunPlaysRound(t *testing.T) {
	cfg := testConfig(t)
	target := targetFor(t, cfg, 7)
	other := "Centralia"
	if target == other {
		other = "Eastland"
	}

	var out bytes.Buffer
	in := strings.NewReader("Atlantis\n" + strings.ToLower(other) + "\nlist\n" + target + "\n")
	require.NoError(t, run(context.Background(), cfg, 7, in, &out))

	got := out.String()
	assert.Contains(t, got, `no country called "Atlantis"`)
	assert.Contains(t, got, other+": ")
	assert.Contains(t, got, " 1. "+other)
	assert.Contains(t, got, target+"! Found in 2 guesses.")
}

func TestRunMissingData(t *testing.T) {
	cfg := config.Default()
	cfg.DataPath = filepath.Join(t.TempDir(), "missing.geojson")
	err := run(context.Background(), cfg, 1, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "open dataset")
}
