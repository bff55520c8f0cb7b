// Package reports ingests analyzed trash reports into the vector index,
// enriching them with an embedding and an optional reverse-geocoded label.
package reports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-ecosynk/embeddings"
	"go-ecosynk/geocode"
	"go-ecosynk/types"
	"go-ecosynk/vectorstore"
)

var (
	ErrNotFound     = errors.New("report not found")
	ErrInvalidInput = errors.New("invalid report input")
)

// Service stores reports. The geocoder is optional; nil means reports keep
// their bare coordinates.
type Service struct {
	store      vectorstore.Store
	embedder   embeddings.Provider
	geocoder   *geocode.Client
	collection string
	now        func() time.Time
}

func NewService(store vectorstore.Store, embedder embeddings.Provider, geocoder *geocode.Client, collection string) *Service {
	return &Service{
		store:      store,
		embedder:   embedder,
		geocoder:   geocoder,
		collection: collection,
		now:        time.Now,
	}
}

// Store embeds and persists a report. Embedding and reverse geocoding run
// concurrently; a geocode failure never blocks ingestion.
func (s *Service) Store(ctx context.Context, report *types.Report) (string, error) {
	if report == nil {
		return "", fmt.Errorf("%w: report is required", ErrInvalidInput)
	}
	if report.ReportID == "" {
		report.ReportID = uuid.NewString()
	}
	if report.Timestamp == "" {
		report.Timestamp = s.now().UTC().Format(time.RFC3339)
	}

	var (
		wg       sync.WaitGroup
		vector   []float32
		embedErr error
		place    *geocode.Place
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		vector, embedErr = s.embedder.Embed(ctx, embeddings.ReportText(*report))
	}()

	if s.geocoder != nil && report.Location.Valid() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			place = s.geocoder.ReverseGeocode(ctx, report.Location.Lat, report.Location.Lon)
		}()
	}
	wg.Wait()

	if embedErr != nil {
		return "", fmt.Errorf("embedding report %s: %w", report.ReportID, embedErr)
	}
	if place != nil {
		report.PlaceLabel = place.Label
	}

	payload, err := types.ToPayload(report)
	if err != nil {
		return "", fmt.Errorf("encoding report %s: %w", report.ReportID, err)
	}
	if _, err := s.store.Upsert(ctx, s.collection, report.ReportID, vector, payload); err != nil {
		return "", fmt.Errorf("storing report %s: %w", report.ReportID, err)
	}
	return report.ReportID, nil
}

// Get loads one report by id.
func (s *Service) Get(ctx context.Context, reportID string) (*types.Report, error) {
	if reportID == "" {
		return nil, fmt.Errorf("%w: report_id is required", ErrInvalidInput)
	}
	points, err := s.store.Retrieve(ctx, s.collection, []string{reportID})
	if err != nil {
		return nil, fmt.Errorf("loading report %s: %w", reportID, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, reportID)
	}
	var report types.Report
	if err := types.FromPayload(points[0].Payload, &report); err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", reportID, err)
	}
	return &report, nil
}
