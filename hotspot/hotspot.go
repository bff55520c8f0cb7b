// Package hotspot decides whether a report belongs to a recurring pollution
// cluster, and provides the progressively-relaxing semantic report search.
package hotspot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"go-ecosynk/embeddings"
	"go-ecosynk/geo"
	"go-ecosynk/types"
	"go-ecosynk/vectorstore"
)

var ErrInvalidInput = errors.New("invalid hotspot input")

const (
	// Similarity floor for "same kind of trash, same kind of place".
	detectThreshold = 0.6
	// Recency is filtered locally, so fetch beyond the severity knee.
	detectFetchLimit = 20

	severityHighCount = 10
	sampleSize        = 5

	minWindowDays = 1
	maxWindowDays = 365
	minReportsLow = 2
	minReportsCap = 20

	relaxedThreshold = 0.3
)

var recommendations = map[string]string{
	"low":    "Single cleanup should be sufficient.",
	"medium": "Consider launching a cleanup campaign.",
	"high":   "This is a recurring trash hotspot. Consider launching a cleanup campaign.",
}

// Detector runs hotspot checks against the report collection.
type Detector struct {
	store      vectorstore.Store
	embedder   embeddings.Provider
	collection string
	now        func() time.Time
}

func NewDetector(store vectorstore.Store, embedder embeddings.Provider, collection string) *Detector {
	return &Detector{store: store, embedder: embedder, collection: collection, now: time.Now}
}

// Detect classifies a report embedding against similar recent reports.
// Reports older than the window are dropped; reports whose stored timestamp
// cannot be parsed are counted anyway rather than silently discarded.
func (d *Detector) Detect(ctx context.Context, reportEmbedding []float32, timeWindowDays, minSimilarReports int) (*types.HotspotResult, error) {
	if timeWindowDays < minWindowDays || timeWindowDays > maxWindowDays {
		return nil, fmt.Errorf("%w: time_window_days must be in [%d, %d], got %d", ErrInvalidInput, minWindowDays, maxWindowDays, timeWindowDays)
	}
	if minSimilarReports < minReportsLow || minSimilarReports > minReportsCap {
		return nil, fmt.Errorf("%w: min_similar_reports must be in [%d, %d], got %d", ErrInvalidInput, minReportsLow, minReportsCap, minSimilarReports)
	}

	points, err := d.store.Search(ctx, vectorstore.SearchRequest{
		Collection:     d.collection,
		Vector:         reportEmbedding,
		Limit:          detectFetchLimit,
		ScoreThreshold: detectThreshold,
	})
	if err != nil {
		if errors.Is(err, vectorstore.ErrUnavailable) {
			log.Printf("Hotspot detection degraded, index unavailable: %v", err)
			return &types.HotspotResult{Severity: "low", Recommendation: recommendations["low"]}, nil
		}
		return nil, err
	}

	cutoff := d.now().AddDate(0, 0, -timeWindowDays)
	survivors := make([]types.SimilarReport, 0, len(points))
	for _, p := range points {
		var report types.Report
		if err := types.FromPayload(p.Payload, &report); err != nil {
			log.Printf("Skipping malformed report payload %s: %v", p.ID, err)
			continue
		}
		if ts, ok := parseTimestamp(report.Timestamp); ok && ts.Before(cutoff) {
			continue
		}
		survivors = append(survivors, types.SimilarReport{ID: p.ID, Score: p.Score, Report: report})
	}

	count := len(survivors)
	isHotspot := count >= minSimilarReports
	severity := "low"
	switch {
	case count > severityHighCount:
		severity = "high"
	case isHotspot:
		severity = "medium"
	}

	sample := survivors
	if isHotspot && len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	return &types.HotspotResult{
		IsHotspot:           isHotspot,
		SimilarReportsCount: count,
		Severity:            severity,
		Recommendation:      recommendations[severity],
		PastReports:         sample,
	}, nil
}

// DetectForText embeds a report description and runs Detect on it.
func (d *Detector) DetectForText(ctx context.Context, reportText string, timeWindowDays, minSimilarReports int) (*types.HotspotResult, error) {
	if reportText == "" {
		return nil, fmt.Errorf("%w: report text is required", ErrInvalidInput)
	}
	vector, err := d.embedder.Embed(ctx, reportText)
	if err != nil {
		return nil, fmt.Errorf("embedding report: %w", err)
	}
	return d.Detect(ctx, vector, timeWindowDays, minSimilarReports)
}

// SearchQuery is a semantic report search with optional geo and recency bounds.
type SearchQuery struct {
	Text           string
	Limit          int
	ScoreThreshold float64
	Location       *types.Location
	RadiusKm       float64
	TimeWindowDays int
}

// SearchResult carries the ranked reports plus the relaxations, in the order
// they were applied, that were needed to produce a non-empty result.
type SearchResult struct {
	Results       []types.SimilarReport `json:"results"`
	FallbackNotes []string              `json:"fallback_notes,omitempty"`
}

// Search runs the query as given and, only on an empty result, relaxes it in
// two fixed steps: lower the threshold to 0.3, then drop the location filter.
func (d *Detector) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	if q.Text == "" {
		return nil, fmt.Errorf("%w: query text is required", ErrInvalidInput)
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.RadiusKm <= 0 {
		q.RadiusKm = 5
	}

	vector, err := d.embedder.Embed(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	threshold := q.ScoreThreshold
	useGeo := q.Location.Valid()
	var notes []string

	for {
		results, err := d.runSearch(ctx, vector, q, threshold, useGeo)
		if err != nil {
			// Degradation is not emptiness: relaxing against a dead index
			// would only fabricate fallback notes.
			if errors.Is(err, vectorstore.ErrUnavailable) {
				log.Printf("Report search degraded, index unavailable: %v", err)
				return &SearchResult{Results: []types.SimilarReport{}, FallbackNotes: notes}, nil
			}
			return nil, err
		}
		if len(results) > 0 {
			return &SearchResult{Results: results, FallbackNotes: notes}, nil
		}
		switch {
		case threshold > relaxedThreshold:
			threshold = relaxedThreshold
			notes = append(notes, fmt.Sprintf("lowered similarity threshold to %.1f", relaxedThreshold))
		case useGeo:
			useGeo = false
			notes = append(notes, "removed location filter")
		default:
			return &SearchResult{Results: []types.SimilarReport{}, FallbackNotes: notes}, nil
		}
	}
}

func (d *Detector) runSearch(ctx context.Context, vector []float32, q SearchQuery, threshold float64, useGeo bool) ([]types.SimilarReport, error) {
	var filter *vectorstore.Filter
	if useGeo {
		filter = &vectorstore.Filter{Must: []vectorstore.Condition{
			vectorstore.WithinRadius("location", q.Location.Lat, q.Location.Lon, q.RadiusKm),
		}}
	}

	points, err := d.store.Search(ctx, vectorstore.SearchRequest{
		Collection:     d.collection,
		Vector:         vector,
		Limit:          q.Limit * 2,
		ScoreThreshold: threshold,
		Filter:         filter,
	})
	if err != nil {
		return nil, err
	}

	var cutoff time.Time
	if q.TimeWindowDays > 0 {
		cutoff = d.now().AddDate(0, 0, -q.TimeWindowDays)
	}

	out := make([]types.SimilarReport, 0, len(points))
	for _, p := range points {
		var report types.Report
		if err := types.FromPayload(p.Payload, &report); err != nil {
			log.Printf("Skipping malformed report payload %s: %v", p.ID, err)
			continue
		}
		if !cutoff.IsZero() {
			if ts, ok := parseTimestamp(report.Timestamp); ok && ts.Before(cutoff) {
				continue
			}
		}
		if useGeo && report.Location.Valid() {
			// Index geo filtering is advisory; the local check decides.
			if geo.DistanceKm(q.Location.Lat, q.Location.Lon, report.Location.Lat, report.Location.Lon) > q.RadiusKm {
				continue
			}
		}
		out = append(out, types.SimilarReport{ID: p.ID, Score: p.Score, Report: report})
		if len(out) == q.Limit {
			break
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// parseTimestamp accepts RFC3339 and the bare layout older reports used.
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
