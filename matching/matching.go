// Package matching finds volunteers for a cleanup task by vector similarity,
// narrowed by availability, experience and distance.
package matching

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-ecosynk/embeddings"
	"go-ecosynk/geo"
	"go-ecosynk/types"
	"go-ecosynk/vectorstore"
)

var ErrInvalidInput = errors.New("invalid matching input")

const (
	minRadiusKm = 0.1
	maxRadiusKm = 50.0
	maxLimit    = 50
)

// Options narrow the candidate pool before similarity ranking.
type Options struct {
	AvailableOnly bool
	// MinExperience is a level name; volunteers ranked below it are excluded.
	MinExperience string
}

// Engine matches volunteers to tasks against one collection.
type Engine struct {
	store      vectorstore.Store
	embedder   embeddings.Provider
	collection string
}

func NewEngine(store vectorstore.Store, embedder embeddings.Provider, collection string) *Engine {
	return &Engine{store: store, embedder: embedder, collection: collection}
}

// StoreProfile embeds and upserts a volunteer profile. The derived experience
// rank is stored alongside the level name so range filters work.
func (e *Engine) StoreProfile(ctx context.Context, profile *types.VolunteerProfile) (string, error) {
	if profile == nil || profile.UserID == "" {
		return "", fmt.Errorf("%w: profile needs a user_id", ErrInvalidInput)
	}
	profile.ExperienceRank = types.ExperienceRank(profile.ExperienceLevel)

	vector, err := e.embedder.Embed(ctx, embeddings.VolunteerText(*profile))
	if err != nil {
		return "", fmt.Errorf("embedding volunteer %s: %w", profile.UserID, err)
	}
	payload, err := types.ToPayload(profile)
	if err != nil {
		return "", fmt.Errorf("encoding volunteer %s: %w", profile.UserID, err)
	}
	return e.store.Upsert(ctx, e.collection, profile.UserID, vector, payload)
}

// FindVolunteers returns the best-matching volunteers for a task embedding,
// ordered by descending similarity. When the task has coordinates the index
// pre-filters by radius and the haversine distance is re-checked here; the
// local check decides. An unavailable index yields an empty result.
func (e *Engine) FindVolunteers(ctx context.Context, taskEmbedding []float32, loc *types.Location, radiusKm float64, limit int, minScore float64, opts *Options) ([]types.VolunteerMatch, error) {
	if limit < 1 || limit > maxLimit {
		return nil, fmt.Errorf("%w: limit must be in [1, %d], got %d", ErrInvalidInput, maxLimit, limit)
	}
	if minScore < 0 || minScore > 1 {
		return nil, fmt.Errorf("%w: min_score must be in [0, 1], got %g", ErrInvalidInput, minScore)
	}
	geoBound := loc.Valid()
	if geoBound && (radiusKm < minRadiusKm || radiusKm > maxRadiusKm) {
		return nil, fmt.Errorf("%w: radius_km must be in [%g, %g], got %g", ErrInvalidInput, minRadiusKm, maxRadiusKm, radiusKm)
	}

	filter := &vectorstore.Filter{}
	if opts != nil && opts.AvailableOnly {
		filter.Must = append(filter.Must, vectorstore.MatchBool("available", true))
	}
	if opts != nil && opts.MinExperience != "" {
		rank := types.ExperienceRank(opts.MinExperience)
		filter.Must = append(filter.Must, vectorstore.RangeGte("experience_rank", float64(rank)))
	}
	fetch := limit
	if geoBound {
		filter.Must = append(filter.Must, vectorstore.WithinRadius("location", loc.Lat, loc.Lon, radiusKm))
		// The index geo filter is advisory; overfetch so the local
		// distance check can discard without starving the result.
		fetch = limit * 2
	}
	if len(filter.Must) == 0 {
		filter = nil
	}

	points, err := e.store.Search(ctx, vectorstore.SearchRequest{
		Collection:     e.collection,
		Vector:         taskEmbedding,
		Limit:          fetch,
		ScoreThreshold: minScore,
		Filter:         filter,
	})
	if err != nil {
		if errors.Is(err, vectorstore.ErrUnavailable) {
			log.Printf("Volunteer search degraded, index unavailable: %v", err)
			return []types.VolunteerMatch{}, nil
		}
		return nil, err
	}

	matches := make([]types.VolunteerMatch, 0, len(points))
	for _, p := range points {
		var profile types.VolunteerProfile
		if err := types.FromPayload(p.Payload, &profile); err != nil {
			log.Printf("Skipping malformed volunteer payload %s: %v", p.ID, err)
			continue
		}
		match := types.VolunteerMatch{VolunteerProfile: profile, MatchScore: p.Score}
		if geoBound && profile.Location.Valid() {
			d := geo.DistanceKm(loc.Lat, loc.Lon, profile.Location.Lat, profile.Location.Lon)
			if d > radiusKm {
				continue
			}
			rounded := geo.RoundKm(d)
			match.DistanceKm = &rounded
		}
		matches = append(matches, match)
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

// MatchForTask embeds a free-text task description and finds volunteers for it.
func (e *Engine) MatchForTask(ctx context.Context, taskText string, loc *types.Location, radiusKm float64, limit int, minScore float64, opts *Options) ([]types.VolunteerMatch, error) {
	if taskText == "" {
		return nil, fmt.Errorf("%w: task description is required", ErrInvalidInput)
	}
	vector, err := e.embedder.Embed(ctx, taskText)
	if err != nil {
		return nil, fmt.Errorf("embedding task: %w", err)
	}
	return e.FindVolunteers(ctx, vector, loc, radiusKm, limit, minScore, opts)
}
