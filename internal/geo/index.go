// Package geo holds proximity indexes over entity positions.
package geo

import (
	"context"
	"sort"

	"courier-dispatch/internal/domain"
)

// Candidate is an indexed entity near a query origin.
type Candidate struct {
	ID             int64
	Point          domain.Point
	DistanceMeters float64
}

// Index stores positions by entity id and answers radius queries.
// Within returns candidates ordered by distance, ties broken by lower id.
type Index interface {
	Upsert(ctx context.Context, id int64, p domain.Point) error
	Remove(ctx context.Context, id int64) error
	Within(ctx context.Context, origin domain.Point, radiusMeters float64) ([]Candidate, error)
}

// SortCandidates orders candidates by (distance, id).
func SortCandidates(cs []Candidate) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].DistanceMeters != cs[j].DistanceMeters {
			return cs[i].DistanceMeters < cs[j].DistanceMeters
		}
		return cs[i].ID < cs[j].ID
	})
}
