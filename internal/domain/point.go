package domain

import (
	"fmt"
	"math"

	"courier-dispatch/internal/apperr"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
const EarthRadiusMeters = 6371008.8

// Point is a WGS84 position.
type Point struct {
	Lon float64
	Lat float64
}

// NewPoint validates coordinate ranges and returns a Point.
func NewPoint(lon, lat float64) (Point, error) {
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Point{}, fmt.Errorf("%w: longitude %v out of range", apperr.ErrInvalid, lon)
	}
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Point{}, fmt.Errorf("%w: latitude %v out of range", apperr.ErrInvalid, lat)
	}
	return Point{Lon: lon, Lat: lat}, nil
}

// DistanceMeters returns the haversine distance between p and q.
func (p Point) DistanceMeters(q Point) float64 {
	lat1 := toRad(p.Lat)
	lat2 := toRad(q.Lat)
	dLat := lat2 - lat1
	dLon := toRad(q.Lon - p.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
