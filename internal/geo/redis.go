package geo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"courier-dispatch/internal/domain"
)

// RedisIndex keeps positions in a Redis GEO sorted set.
type RedisIndex struct {
	client redis.Cmdable
	key    string
}

// NewRedisIndex returns an index stored under key.
func NewRedisIndex(client redis.Cmdable, key string) *RedisIndex {
	return &RedisIndex{client: client, key: key}
}

// Upsert adds or moves id.
func (r *RedisIndex) Upsert(ctx context.Context, id int64, p domain.Point) error {
	err := r.client.GeoAdd(ctx, r.key, &redis.GeoLocation{
		Name:      strconv.FormatInt(id, 10),
		Longitude: p.Lon,
		Latitude:  p.Lat,
	}).Err()
	if err != nil {
		return fmt.Errorf("geoadd %s: %w", r.key, err)
	}
	return nil
}

// Remove drops id from the set.
func (r *RedisIndex) Remove(ctx context.Context, id int64) error {
	if err := r.client.ZRem(ctx, r.key, strconv.FormatInt(id, 10)).Err(); err != nil {
		return fmt.Errorf("zrem %s: %w", r.key, err)
	}
	return nil
}

// Within runs GEORADIUS and re-ranks the hits with the service's haversine so that
// both index backends agree on ordering.
func (r *RedisIndex) Within(ctx context.Context, origin domain.Point, radiusMeters float64) ([]Candidate, error) {
	locs, err := r.client.GeoRadius(ctx, r.key, origin.Lon, origin.Lat, &redis.GeoRadiusQuery{
		Radius:    radiusMeters,
		Unit:      "m",
		WithCoord: true,
		WithDist:  true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("georadius %s: %w", r.key, err)
	}

	out := make([]Candidate, 0, len(locs))
	for _, loc := range locs {
		id, err := strconv.ParseInt(loc.Name, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("georadius %s: bad member %q: %w", r.key, loc.Name, err)
		}
		p := domain.Point{Lon: loc.Longitude, Lat: loc.Latitude}
		d := origin.DistanceMeters(p)
		if d > radiusMeters {
			continue
		}
		out = append(out, Candidate{ID: id, Point: p, DistanceMeters: d})
	}
	SortCandidates(out)
	return out, nil
}

var _ Index = (*RedisIndex)(nil)
