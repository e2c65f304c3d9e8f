package geo

import (
	"context"
	"math"
	"sync"

	"courier-dispatch/internal/domain"
)

// metersPerDegree is the length of one degree of latitude.
const metersPerDegree = domain.EarthRadiusMeters * math.Pi / 180

type cell struct {
	lat int
	lon int
}

// GridIndex is an in-memory index that buckets points into fixed lat/lon cells.
// A query scans only the cells covering the radius bounding box.
type GridIndex struct {
	cellDeg float64

	mu    sync.RWMutex
	cells map[cell]map[int64]domain.Point
	pos   map[int64]domain.Point
}

// NewGridIndex returns an empty index with cells of cellDeg degrees.
func NewGridIndex(cellDeg float64) *GridIndex {
	if cellDeg <= 0 {
		cellDeg = 0.05
	}
	return &GridIndex{
		cellDeg: cellDeg,
		cells:   make(map[cell]map[int64]domain.Point),
		pos:     make(map[int64]domain.Point),
	}
}

func (g *GridIndex) cellOf(p domain.Point) cell {
	return cell{
		lat: int(math.Floor(p.Lat / g.cellDeg)),
		lon: int(math.Floor(p.Lon / g.cellDeg)),
	}
}

// Upsert places id at p, moving it if it was indexed elsewhere.
func (g *GridIndex) Upsert(_ context.Context, id int64, p domain.Point) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.removeLocked(id)
	c := g.cellOf(p)
	bucket, ok := g.cells[c]
	if !ok {
		bucket = make(map[int64]domain.Point)
		g.cells[c] = bucket
	}
	bucket[id] = p
	g.pos[id] = p
	return nil
}

// Remove drops id; unknown ids are ignored.
func (g *GridIndex) Remove(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeLocked(id)
	return nil
}

func (g *GridIndex) removeLocked(id int64) {
	old, ok := g.pos[id]
	if !ok {
		return
	}
	c := g.cellOf(old)
	if bucket := g.cells[c]; bucket != nil {
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(g.cells, c)
		}
	}
	delete(g.pos, id)
}

// Within returns every indexed point within radiusMeters of origin.
func (g *GridIndex) Within(_ context.Context, origin domain.Point, radiusMeters float64) ([]Candidate, error) {
	if radiusMeters < 0 {
		return nil, nil
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Candidate
	collect := func(bucket map[int64]domain.Point) {
		for id, p := range bucket {
			if d := origin.DistanceMeters(p); d <= radiusMeters {
				out = append(out, Candidate{ID: id, Point: p, DistanceMeters: d})
			}
		}
	}

	minLat, maxLat, minLon, maxLon, bounded := boundingBox(origin, radiusMeters)
	if bounded {
		lo := g.cellOf(domain.Point{Lat: minLat, Lon: minLon})
		hi := g.cellOf(domain.Point{Lat: maxLat, Lon: maxLon})
		span := (hi.lat - lo.lat + 1) * (hi.lon - lo.lon + 1)
		if span <= len(g.cells) {
			for la := lo.lat; la <= hi.lat; la++ {
				for ln := lo.lon; ln <= hi.lon; ln++ {
					collect(g.cells[cell{lat: la, lon: ln}])
				}
			}
			SortCandidates(out)
			return out, nil
		}
	}

	// The box covers more cells than are occupied, or wraps a pole or the antimeridian.
	for _, bucket := range g.cells {
		collect(bucket)
	}
	SortCandidates(out)
	return out, nil
}

// boundingBox returns the lat/lon box enclosing the radius circle.
// bounded is false when the box crosses a pole or the antimeridian.
func boundingBox(origin domain.Point, radiusMeters float64) (minLat, maxLat, minLon, maxLon float64, bounded bool) {
	dLat := radiusMeters / metersPerDegree
	minLat, maxLat = origin.Lat-dLat, origin.Lat+dLat
	if minLat < -90 || maxLat > 90 {
		return 0, 0, 0, 0, false
	}
	widest := math.Max(math.Abs(minLat), math.Abs(maxLat))
	cos := math.Cos(widest * math.Pi / 180)
	if cos <= 1e-9 {
		return 0, 0, 0, 0, false
	}
	dLon := radiusMeters / (metersPerDegree * cos)
	minLon, maxLon = origin.Lon-dLon, origin.Lon+dLon
	if minLon < -180 || maxLon > 180 {
		return 0, 0, 0, 0, false
	}
	return minLat, maxLat, minLon, maxLon, true
}

var _ Index = (*GridIndex)(nil)
