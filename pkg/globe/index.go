// Package globe holds the loaded countries: their boundary features, their
// centroids and the meshes built for them.
package globe

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/chazu/orbis/pkg/geo"
	"github.com/chazu/orbis/pkg/kernel"
	"github.com/chazu/orbis/pkg/logging"
	"github.com/dhconnelly/rtreego"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrDuplicateName is reported for every feature whose name was already
	// taken by an earlier indexed feature.
	ErrDuplicateName = errors.New("globe: duplicate country name")
	// ErrUnnamed is reported for features without a name.
	ErrUnnamed = errors.New("globe: feature has no name")
	// ErrInvalidFeature is reported for features failing geo.Validate.
	ErrInvalidFeature = errors.New("globe: invalid feature")
)

// MeshHandle identifies a mesh owned by an Index.
type MeshHandle = uuid.UUID

// CountryRecord is one indexed country.
type CountryRecord struct {
	Name     string
	Centroid geo.LatLon
	Feature  *geo.Feature
	Meshes   []MeshHandle
}

// Rejection describes a feature that was left out of the index.
type Rejection struct {
	Name     string
	Position int // position in the input slice
	Err      error
}

// MeshBuilder turns a feature into meshes. *tessellate.Builder satisfies it.
type MeshBuilder interface {
	BuildFeature(f *geo.Feature) ([]*kernel.Mesh, error)
}

// Options configures Build.
type Options struct {
	Workers int
	Logger  logrus.FieldLogger
}

// Option mutates Options.
type Option func(*Options)

// WithWorkers bounds the number of features tessellated concurrently.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithLogger sets the build logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) { o.Logger = l }
}

// Index is an arena of country records with lookup by name, an owning mesh
// table and a bounding-box tree. It is safe for concurrent readers.
type Index struct {
	mu       sync.RWMutex
	records  []CountryRecord
	byName   map[string]int
	meshes   map[MeshHandle]*kernel.Mesh
	tree     *rtreego.Rtree
	rejected []Rejection
}

// entry is the rtree item for one record.
type entry struct {
	pos  int
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.rect }

func newIndex() *Index {
	return &Index{
		byName: make(map[string]int),
		meshes: make(map[MeshHandle]*kernel.Mesh),
		tree:   rtreego.NewTree(2, 4, 16),
	}
}

// Build tessellates every feature and assembles the index. Meshes are built
// in parallel but records keep input order. Features that produce no mesh or
// no centroid are skipped. Unnamed and invalid features are rejected before
// tessellation. A name belongs to the first feature that is actually indexed,
// and later features with that name are rejected. A cancelled context aborts
// the build.
func Build(ctx context.Context, features []*geo.Feature, b MeshBuilder, opts ...Option) (*Index, error) {
	o := Options{Workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	log := o.Logger
	if log == nil {
		log = logging.Named("globe")
	}

	idx := newIndex()

	accepted := make([]int, 0, len(features))
	for i, f := range features {
		switch {
		case f == nil:
			log.WithField("position", i).Debug("skipping nil feature")
			continue
		case f.Name == "":
			idx.reject(log, "", i, ErrUnnamed)
			continue
		}
		vr := geo.Validate(f)
		for _, w := range vr.Warnings {
			log.WithField("country", f.Name).Debug(w.Error())
		}
		if !vr.OK() {
			idx.reject(log, f.Name, i, fmt.Errorf("%w: %v", ErrInvalidFeature, vr.Errors[0]))
			continue
		}
		accepted = append(accepted, i)
	}

	built := make([][]*kernel.Mesh, len(features))
	buildErrs := make([]error, len(features))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for _, i := range accepted {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			built[i], buildErrs[i] = b.BuildFeature(features[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("globe: build: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("globe: build: %w", err)
	}

	for _, i := range accepted {
		f := features[i]
		if _, taken := idx.byName[f.Name]; taken {
			idx.reject(log, f.Name, i, ErrDuplicateName)
			continue
		}
		if err := buildErrs[i]; err != nil {
			idx.reject(log, f.Name, i, err)
			continue
		}
		if len(built[i]) == 0 {
			log.WithField("country", f.Name).Debug("excluding country with no mesh")
			continue
		}
		c, ok := geo.Centroid(f)
		if !ok {
			log.WithField("country", f.Name).Debug("excluding country with no centroid")
			continue
		}
		idx.add(log, f, c, built[i])
	}
	sort.SliceStable(idx.rejected, func(i, j int) bool {
		return idx.rejected[i].Position < idx.rejected[j].Position
	})

	log.WithFields(logrus.Fields{
		"countries": len(idx.records),
		"meshes":    len(idx.meshes),
		"rejected":  len(idx.rejected),
	}).Info("globe index built")
	return idx, nil
}

func (idx *Index) reject(log logrus.FieldLogger, name string, pos int, err error) {
	log.WithFields(logrus.Fields{
		"country":  name,
		"position": pos,
	}).WithError(err).Warn("rejecting feature")
	idx.rejected = append(idx.rejected, Rejection{Name: name, Position: pos, Err: err})
}

func (idx *Index) add(log logrus.FieldLogger, f *geo.Feature, c geo.LatLon, meshes []*kernel.Mesh) {
	rec := CountryRecord{Name: f.Name, Centroid: c, Feature: f}
	for _, m := range meshes {
		h := uuid.New()
		idx.meshes[h] = m
		rec.Meshes = append(rec.Meshes, h)
	}
	pos := len(idx.records)
	idx.records = append(idx.records, rec)
	idx.byName[f.Name] = pos

	rect, err := boundRect(f, 0)
	if err != nil {
		log.WithField("country", f.Name).WithError(err).Warn("country left out of spatial search")
		return
	}
	idx.tree.Insert(&entry{pos: pos, rect: rect})
}

// Lookup returns the record for name.
func (idx *Index) Lookup(name string) (CountryRecord, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	pos, ok := idx.byName[name]
	if !ok {
		return CountryRecord{}, false
	}
	return idx.records[pos], true
}

// Names returns the country names in lexical order.
func (idx *Index) Names() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	names := lo.Map(idx.records, func(r CountryRecord, _ int) string { return r.Name })
	sort.Strings(names)
	return names
}

// Len returns the number of indexed countries.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records)
}

// Records returns the records in input order.
func (idx *Index) Records() []CountryRecord {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]CountryRecord, len(idx.records))
	copy(out, idx.records)
	return out
}

// Rejected returns, in input order, the features left out because of a
// missing or repeated name, a geo.Validate failure (ErrInvalidFeature) or a
// tessellation error.
func (idx *Index) Rejected() []Rejection {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]Rejection, len(idx.rejected))
	copy(out, idx.rejected)
	return out
}

// Mesh returns the mesh for a handle.
func (idx *Index) Mesh(h MeshHandle) (*kernel.Mesh, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	m, ok := idx.meshes[h]
	return m, ok
}

// Meshes returns the meshes of the named country, or nil if it is unknown.
func (idx *Index) Meshes(name string) []*kernel.Mesh {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	pos, ok := idx.byName[name]
	if !ok {
		return nil
	}
	return lo.FilterMap(idx.records[pos].Meshes, func(h MeshHandle, _ int) (*kernel.Mesh, bool) {
		m, ok := idx.meshes[h]
		return m, ok
	})
}

// Candidates returns the records whose bounding boxes intersect f's, in
// input order. Boxes that only touch count as intersecting. It is a coarse
// prefilter for border searches.
func (idx *Index) Candidates(f *geo.Feature) []CountryRecord {
	rect, err := boundRect(f, candidatePad)
	if err != nil {
		return nil
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	hits := idx.tree.SearchIntersect(rect)
	positions := lo.Map(hits, func(s rtreego.Spatial, _ int) int { return s.(*entry).pos })
	sort.Ints(positions)
	return lo.Map(positions, func(pos int, _ int) CountryRecord { return idx.records[pos] })
}

// Close releases every mesh and empties the index. It is safe to call more
// than once.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for h := range idx.meshes {
		delete(idx.meshes, h)
	}
	idx.records = nil
	idx.byName = make(map[string]int)
	idx.tree = rtreego.NewTree(2, 4, 16)
	idx.rejected = nil
	return nil
}

const (
	// minSide keeps rtree rectangles non-degenerate for points and lines.
	minSide = 1e-9
	// candidatePad widens query boxes, in degrees; the rtree treats
	// rectangles that share only an edge as disjoint.
	candidatePad = 1e-6
)

func boundRect(f *geo.Feature, pad float64) (rtreego.Rect, error) {
	if !f.IsPolygonal() {
		return rtreego.Rect{}, fmt.Errorf("globe: %w", errNoBounds)
	}
	b := f.Bound().Pad(pad)
	w := max(b.Max.Lon()-b.Min.Lon(), minSide)
	h := max(b.Max.Lat()-b.Min.Lat(), minSide)
	return rtreego.NewRect(rtreego.Point{b.Min.Lon(), b.Min.Lat()}, []float64{w, h})
}

var errNoBounds = errors.New("feature has no polygonal bounds")
