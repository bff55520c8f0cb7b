package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"googlemaps.github.io/maps"
)

const geocodeResponse = `{
	"status": "OK",
	"results": [{
		"formatted_address": "Jumeirah Beach Rd, Dubai, United Arab Emirates",
		"address_components": [{
			"long_name": "Jumeirah",
			"short_name": "Jumeirah",
			"types": ["neighborhood", "political"]
		}],
		"geometry": {
			"location": {"lat": 25.2048, "lng": 55.2708},
			"location_type": "ROOFTOP"
		}
	}]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	mc, err := maps.NewClient(maps.WithAPIKey("test-key"), maps.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("maps.NewClient: %v", err)
	}
	return &Client{maps: mc, timeout: timeout}
}

func TestReverseGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geocodeResponse))
	}, callTimeout)

	place := c.ReverseGeocode(context.Background(), 25.2048, 55.2708)
	if place == nil {
		t.Fatal("expected a place")
	}
	if place.Label != "Jumeirah" {
		t.Fatalf("label = %q, want the neighborhood component", place.Label)
	}
	if place.Address != "Jumeirah Beach Rd, Dubai, United Arab Emirates" {
		t.Fatalf("unexpected address: %q", place.Address)
	}
	if place.Confidence != "ROOFTOP" {
		t.Fatalf("confidence = %q, want ROOFTOP", place.Confidence)
	}
}

func TestReverseGeocodeTimesOutInsteadOfHanging(t *testing.T) {
	release := make(chan struct{})

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	}, 50*time.Millisecond)
	// Cleanups run LIFO: close(release) must run before srv.Close, or Close
	// waits forever on the still-blocked handler.
	t.Cleanup(func() { close(release) })

	start := time.Now()
	place := c.ReverseGeocode(context.Background(), 25.2048, 55.2708)
	elapsed := time.Since(start)

	if place != nil {
		t.Fatalf("expected nil on timeout, got %+v", place)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("lookup did not respect its timeout, took %s", elapsed)
	}
}

func TestReverseGeocodeNilClient(t *testing.T) {
	var c *Client
	if place := c.ReverseGeocode(context.Background(), 25.2048, 55.2708); place != nil {
		t.Fatalf("nil client should degrade to nil, got %+v", place)
	}
}
