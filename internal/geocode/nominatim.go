// Package geocode resolves free-text delivery addresses to coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

const (
	// DefaultUserAgent identifies the service to Nominatim, which rejects anonymous clients.
	DefaultUserAgent = "DeliveryPro/1.0"

	regionSuffix  = "Alanya, Antalya, Turkey"
	regionViewbox = "31.5,36.3,32.5,36.8"
	districtSpan  = 0.02
	resultLimit   = 5
)

// Resolver turns an address into a point. A nil point with a nil error means no match.
type Resolver interface {
	Resolve(ctx context.Context, address, district string) (*domain.Point, error)
}

// StatusError is a non-2xx answer from the geocoding service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("geocoder responded %d %s", e.Code, http.StatusText(e.Code))
}

// Temporary reports whether repeating the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Nominatim queries an OpenStreetMap Nominatim search endpoint.
// Identical lookups in flight at the same time share one request.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    logx.Logger
	group     singleflight.Group
}

// NewNominatim creates a client for baseURL (for example https://nominatim.openstreetmap.org).
func NewNominatim(baseURL, userAgent string, timeout time.Duration, logger logx.Logger) *Nominatim {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		logger:    logger.With(logx.String("component", "geocoder")),
	}
}

// Resolve searches for address. With a district hint the search is boxed
// around the district and the result nearest its centre is chosen.
func (n *Nominatim) Resolve(ctx context.Context, address, district string) (*domain.Point, error) {
	key := Normalize(address) + "|" + Normalize(district)
	ch := n.group.DoChan(key, func() (any, error) {
		return n.lookup(context.WithoutCancel(ctx), address, district)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		p, _ := res.Val.(*domain.Point)
		if p == nil {
			return nil, nil
		}
		out := *p
		return &out, nil
	}
}

func (n *Nominatim) lookup(ctx context.Context, address, district string) (*domain.Point, error) {
	query := address + ", " + regionSuffix
	viewbox := regionViewbox
	d, hinted := LookupDistrict(district)
	if hinted {
		query = address + ", " + d.Name + ", " + regionSuffix
		viewbox = fmt.Sprintf("%.4f,%.4f,%.4f,%.4f",
			d.Center.Lon-districtSpan, d.Center.Lat-districtSpan,
			d.Center.Lon+districtSpan, d.Center.Lat+districtSpan)
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(resultLimit))
	q.Set("countrycodes", "tr")
	q.Set("addressdetails", "1")
	q.Set("viewbox", viewbox)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocoder request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode geocoder response: %w", err)
	}

	best, name, found := pick(places, d.Center, hinted)
	if !found {
		n.logger.Info("address not found", logx.String("query", query))
		return nil, nil
	}
	n.logger.Debug("address resolved",
		logx.String("query", query),
		logx.String("match", name),
		logx.Float64("lon", best.Lon),
		logx.Float64("lat", best.Lat),
	)
	return &best, nil
}

// pick returns the first usable place, or with a hint the one closest to center.
func pick(places []place, center domain.Point, hinted bool) (domain.Point, string, bool) {
	var (
		best     domain.Point
		bestName string
		bestDist float64
		found    bool
	)
	for _, pl := range places {
		lon, errLon := strconv.ParseFloat(pl.Lon, 64)
		lat, errLat := strconv.ParseFloat(pl.Lat, 64)
		if errLon != nil || errLat != nil {
			continue
		}
		p, err := domain.NewPoint(lon, lat)
		if err != nil {
			continue
		}
		if !hinted {
			return p, pl.DisplayName, true
		}
		if dist := center.DistanceMeters(p); !found || dist < bestDist {
			best, bestName, bestDist, found = p, pl.DisplayName, dist, true
		}
	}
	return best, bestName, found
}

// Disabled never resolves anything. It stands in when no geocoder is configured.
type Disabled struct{}

// Resolve always reports no match.
func (Disabled) Resolve(context.Context, string, string) (*domain.Point, error) {
	return nil, nil
}
