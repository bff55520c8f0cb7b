// Package geocode labels report coordinates with human-readable places via
// the Google Maps API. The dependency is optional; a nil client degrades to
// un-labelled locations.
package geocode

import (
	"context"
	"fmt"
	"log"
	"time"

	"googlemaps.github.io/maps"
)

const callTimeout = 10 * time.Second

// Place is a reverse-geocoded label for a coordinate pair.
type Place struct {
	Label      string `json:"label"`
	Address    string `json:"address"`
	Confidence string `json:"confidence"`
}

// Client wraps the maps client. Construct with NewClient and inject it.
type Client struct {
	maps    *maps.Client
	timeout time.Duration
}

func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("maps api key is required")
	}
	mc, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}
	return &Client{maps: mc, timeout: callTimeout}, nil
}

// ReverseGeocode resolves a coordinate pair to a place. The call carries a
// bounded timeout so a slow Maps backend cannot stall report ingestion.
// Returns nil when the client is absent, the lookup fails or nothing matches;
// callers keep the location un-labelled in those cases.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) *Place {
	if c == nil || c.maps == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	results, err := c.maps.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lon},
	})
	if err != nil {
		log.Printf("Reverse geocode (%f, %f) failed: %v", lat, lon, err)
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	best := results[0]
	return &Place{
		Label:      placeLabel(best),
		Address:    best.FormattedAddress,
		Confidence: best.Geometry.LocationType,
	}
}

// placeLabel prefers a neighborhood or locality component over the full
// formatted address.
func placeLabel(r maps.GeocodingResult) string {
	preferred := []string{"neighborhood", "sublocality", "locality"}
	for _, want := range preferred {
		for _, component := range r.AddressComponents {
			for _, t := range component.Types {
				if t == want {
					return component.LongName
				}
			}
		}
	}
	return r.FormattedAddress
}
