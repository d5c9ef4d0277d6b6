// Package geo resolves free-text location queries through a places API
// with a geocoding fallback. Total failure degrades to an empty result,
// never an error: "no results" is a normal answer here.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Place struct {
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	PlaceID     string      `json:"placeId"`
	Distance    float64     `json:"distance,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

type Service struct {
	placesURL  string
	placesKey  string
	geocodeURL string
	radius     int
	http       *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *zap.SugaredLogger
}

func NewService(placesURL, placesKey, geocodeURL string, radiusMeters int, log *zap.SugaredLogger) *Service {
	return &Service{
		placesURL:  placesURL,
		placesKey:  placesKey,
		geocodeURL: geocodeURL,
		radius:     radiusMeters,
		http:       &http.Client{Timeout: 8 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "geo",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
		log: log,
	}
}

// Search tries the places API first and the geocoding API second. Both
// failing yields an empty slice.
func (s *Service) Search(ctx context.Context, query string, lat, lng float64) []Place {
	if query == "" {
		return []Place{}
	}
	if results, err := s.searchPlaces(ctx, query, lat, lng); err == nil && len(results) > 0 {
		return results
	} else if err != nil {
		s.log.Warnw("places search failed, falling back to geocoding", "query", query, "err", err)
	}
	results, err := s.geocode(ctx, query, lat, lng)
	if err != nil {
		s.log.Warnw("geocoding fallback failed", "query", query, "err", err)
		return []Place{}
	}
	return results
}

func (s *Service) searchPlaces(ctx context.Context, query string, lat, lng float64) ([]Place, error) {
	q := url.Values{
		"query":  {query},
		"key":    {s.placesKey},
		"radius": {fmt.Sprint(s.radius)},
	}
	if lat != 0 || lng != 0 {
		q.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	}
	body, err := s.get(ctx, s.placesURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Results []struct {
			Name             string `json:"name"`
			FormattedAddress string `json:"formatted_address"`
			PlaceID          string `json:"place_id"`
			Geometry         struct {
				Location Coordinates `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	out := make([]Place, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		p := Place{
			Name:        r.Name,
			Address:     r.FormattedAddress,
			PlaceID:     r.PlaceID,
			Coordinates: r.Geometry.Location,
		}
		if lat != 0 || lng != 0 {
			p.Distance = haversine(lat, lng, p.Coordinates.Lat, p.Coordinates.Lng)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) geocode(ctx context.Context, query string, lat, lng float64) ([]Place, error) {
	q := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"10"},
	}
	body, err := s.get(ctx, s.geocodeURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	var parsed []struct {
		DisplayName string `json:"display_name"`
		PlaceID     any    `json:"place_id"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	out := make([]Place, 0, len(parsed))
	for _, r := range parsed {
		var c Coordinates
		fmt.Sscanf(r.Lat, "%f", &c.Lat)
		fmt.Sscanf(r.Lon, "%f", &c.Lng)
		p := Place{
			Name:        r.DisplayName,
			Address:     r.DisplayName,
			PlaceID:     fmt.Sprint(r.PlaceID),
			Coordinates: c,
		}
		if lat != 0 || lng != 0 {
			p.Distance = haversine(lat, lng, c.Lat, c.Lng)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) get(ctx context.Context, rawURL string) ([]byte, error) {
	out, err := s.breaker.Execute(func() (any, error) {
		var result []byte
		op := func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return backoff.Permanent(err)
			}
			resp, err := s.http.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return fmt.Errorf("geo status %d", resp.StatusCode)
			}
			if resp.StatusCode >= 400 {
				return backoff.Permanent(fmt.Errorf("geo status %d", resp.StatusCode))
			}
			result, err = io.ReadAll(resp.Body)
			return err
		}
		bo := backoff.NewExponentialBackOff()
		bo.MaxElapsedTime = 6 * time.Second
		if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

// haversine returns the great-circle distance in meters.
func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadius = 6371000.0
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
