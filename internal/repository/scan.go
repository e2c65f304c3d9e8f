package repository

import (
	"github.com/jackc/pgx/v5"

	"courier-dispatch/internal/domain"
)

// nullPoint holds a pair of nullable coordinate columns.
type nullPoint struct {
	lon *float64
	lat *float64
}

func (n nullPoint) point() *domain.Point {
	if n.lon == nil || n.lat == nil {
		return nil
	}
	return &domain.Point{Lon: *n.lon, Lat: *n.lat}
}

func pointArgs(p *domain.Point) (lon, lat *float64) {
	if p == nil {
		return nil, nil
	}
	return &p.Lon, &p.Lat
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
