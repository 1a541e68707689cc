package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/chazu/orbis/pkg/geo"
	"github.com/chazu/orbis/pkg/globe"
	"github.com/chazu/orbis/pkg/logging"
	"github.com/chazu/orbis/pkg/palette"
	"github.com/chazu/orbis/pkg/proximity"
	"github.com/chazu/orbis/pkg/sphere"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownCountry is returned for names not in the index.
	ErrUnknownCountry = errors.New("game: unknown country")
	// ErrEmptyIndex is returned when there is nothing to pick from.
	ErrEmptyIndex = errors.New("game: index has no countries")
)

// LandColor is the color of countries not yet guessed.
const LandColor = "#7A9A6B"

// CameraRadius is the distance from the globe center FlyTo places the camera.
const CameraRadius = 2.5

// MeshData is the JSON mesh payload sent to a renderer.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Country  string    `json:"country"`
	Color    string    `json:"color"`
}

// GuessResult is what a front end shows for one guess.
type GuessResult struct {
	Country    string  `json:"country"`
	DistanceKm float64 `json:"distanceKm"`
	Rounded    int     `json:"rounded"`
	Color      string  `json:"color"`
	Won        bool    `json:"won"`
	Repeat     bool    `json:"repeat"`
}

// View is a camera target for a country.
type View struct {
	Country  string     `json:"country"`
	Centroid geo.LatLon `json:"centroid"`
	Camera   [3]float64 `json:"camera"`
}

// App binds an index, a scorer and a palette for a front end.
type App struct {
	index   *globe.Index
	scorer  *proximity.Scorer
	palette palette.Palette
	log     logrus.FieldLogger
}

// NewApp returns an App over idx. A nil scorer gets the default one.
func NewApp(idx *globe.Index, scorer *proximity.Scorer, pal palette.Palette) *App {
	if scorer == nil {
		scorer = proximity.New()
	}
	return &App{
		index:   idx,
		scorer:  scorer,
		palette: pal,
		log:     logging.Named("game"),
	}
}

// Resolve maps a user-typed name to an indexed name, ignoring case and
// surrounding space.
func (a *App) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if _, ok := a.index.Lookup(name); ok {
		return name, nil
	}
	if found, ok := lo.Find(a.index.Names(), func(n string) bool { return strings.EqualFold(n, name) }); ok {
		return found, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCountry, name)
}

// Guess scores name against the session's target and returns the updated
// session. A repeated guess returns the earlier result and the session
// unchanged.
func (a *App) Guess(s Session, name string) (Session, GuessResult, error) {
	resolved, err := a.Resolve(name)
	if err != nil {
		return s, GuessResult{}, err
	}
	if g, ok := s.Find(resolved); ok {
		return s, a.result(g, s.Target, true), nil
	}

	guess, _ := a.index.Lookup(resolved)
	target, ok := a.index.Lookup(s.Target)
	if !ok {
		return s, GuessResult{}, fmt.Errorf("%w: target %q", ErrUnknownCountry, s.Target)
	}

	km := a.scorer.Distance(guess.Feature, target.Feature)
	g := Guess{Country: resolved, DistanceKm: km, Color: a.palette.Hex(km)}
	next := s.Apply(g)

	a.log.WithFields(logrus.Fields{
		"guess": resolved,
		"km":    math.Round(km),
	}).Debug("guess scored")
	return next, a.result(g, s.Target, false), nil
}

func (a *App) result(g Guess, target string, repeat bool) GuessResult {
	return GuessResult{
		Country:    g.Country,
		DistanceKm: g.DistanceKm,
		Rounded:    int(math.Round(g.DistanceKm)),
		Color:      g.Color,
		Won:        g.Country == target,
		Repeat:     repeat,
	}
}

// Meshes returns every country mesh, colored by the session's guesses.
// Countries not yet guessed use LandColor.
func (a *App) Meshes(s Session) []MeshData {
	colors := lo.SliceToMap(s.Guesses, func(g Guess) (string, string) { return g.Country, g.Color })
	out := []MeshData{}
	for _, rec := range a.index.Records() {
		color, ok := colors[rec.Name]
		if !ok {
			color = LandColor
		}
		for _, m := range a.index.Meshes(rec.Name) {
			out = append(out, MeshData{
				Vertices: m.Vertices,
				Normals:  m.Normals,
				Indices:  m.Indices,
				Country:  rec.Name,
				Color:    color,
			})
		}
	}
	return out
}

// FlyTo returns the camera placement looking down on the named country.
func (a *App) FlyTo(name string) (View, error) {
	resolved, err := a.Resolve(name)
	if err != nil {
		return View{}, err
	}
	rec, _ := a.index.Lookup(resolved)
	p := sphere.Project(rec.Centroid.Lon, rec.Centroid.Lat, CameraRadius)
	return View{
		Country:  rec.Name,
		Centroid: rec.Centroid,
		Camera:   [3]float64{p.X, p.Y, p.Z},
	}, nil
}

// PickTarget chooses a country uniformly from the index.
func (a *App) PickTarget(rng *rand.Rand) (string, error) {
	names := a.index.Names()
	if len(names) == 0 {
		return "", ErrEmptyIndex
	}
	return names[rng.IntN(len(names))], nil
}

// Neighbors returns the countries bordering or overlapping name, in index
// order.
func (a *App) Neighbors(name string) ([]string, error) {
	resolved, err := a.Resolve(name)
	if err != nil {
		return nil, err
	}
	rec, _ := a.index.Lookup(resolved)
	var out []string
	for _, c := range a.index.Candidates(rec.Feature) {
		if c.Name == rec.Name {
			continue
		}
		if a.scorer.Score(c.Feature, rec.Feature).Tier == proximity.TierAdjacent {
			out = append(out, c.Name)
		}
	}
	return out, nil
}
