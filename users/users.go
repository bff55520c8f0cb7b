// Package users manages user profiles, the social graph and activity stats on
// top of the vector index.
package users

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-ecosynk/embeddings"
	"go-ecosynk/types"
	"go-ecosynk/vectorstore"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid user input")
)

const similarThreshold = 0.3

// Service persists user profiles in the users collection.
type Service struct {
	store      vectorstore.Store
	embedder   embeddings.Provider
	collection string
	now        func() time.Time
}

func NewService(store vectorstore.Store, embedder embeddings.Provider, collection string) *Service {
	return &Service{store: store, embedder: embedder, collection: collection, now: time.Now}
}

// Create embeds and stores a new profile.
func (s *Service) Create(ctx context.Context, profile *types.UserProfile) error {
	if profile == nil || profile.UserID == "" || profile.Name == "" {
		return fmt.Errorf("%w: user_id and name are required", ErrInvalidInput)
	}
	now := s.now().UTC().Format(time.RFC3339)
	profile.CreatedAt = now
	profile.UpdatedAt = now

	vector, err := s.embedder.Embed(ctx, embeddings.UserText(*profile))
	if err != nil {
		return fmt.Errorf("embedding user %s: %w", profile.UserID, err)
	}
	return s.save(ctx, profile, vector)
}

// Get loads one profile by id.
func (s *Service) Get(ctx context.Context, userID string) (*types.UserProfile, error) {
	profile, _, err := s.load(ctx, userID)
	return profile, err
}

// Updates carries the mutable profile fields. Nil pointers leave the stored
// value untouched.
type Updates struct {
	Name            *string   `json:"name,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	City            *string   `json:"city,omitempty"`
	Country         *string   `json:"country,omitempty"`
	ExperienceLevel *string   `json:"experience_level,omitempty"`
	Interests       *[]string `json:"interests,omitempty"`
	Skills          *[]string `json:"skills,omitempty"`
}

// Update applies the changes and re-embeds only when a field that feeds the
// embedding text actually changed.
func (s *Service) Update(ctx context.Context, userID string, updates Updates) (*types.UserProfile, error) {
	profile, vector, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	before := embeddings.UserText(*profile)
	if updates.Name != nil {
		profile.Name = *updates.Name
	}
	if updates.Bio != nil {
		profile.Bio = *updates.Bio
	}
	if updates.City != nil {
		profile.City = *updates.City
	}
	if updates.Country != nil {
		profile.Country = *updates.Country
	}
	if updates.ExperienceLevel != nil {
		profile.ExperienceLevel = *updates.ExperienceLevel
	}
	if updates.Interests != nil {
		profile.Interests = *updates.Interests
	}
	if updates.Skills != nil {
		profile.Skills = *updates.Skills
	}
	profile.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	if after := embeddings.UserText(*profile); after != before || len(vector) == 0 {
		vector, err = s.embedder.Embed(ctx, after)
		if err != nil {
			return nil, fmt.Errorf("re-embedding user %s: %w", userID, err)
		}
	}
	if err := s.save(ctx, profile, vector); err != nil {
		return nil, err
	}
	return profile, nil
}

// Follow records follower -> followee on both sides. Following yourself is
// rejected; a duplicate follow is a no-op.
func (s *Service) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return fmt.Errorf("%w: cannot follow yourself", ErrInvalidInput)
	}
	follower, followerVec, err := s.load(ctx, followerID)
	if err != nil {
		return err
	}
	followee, followeeVec, err := s.load(ctx, followeeID)
	if err != nil {
		return err
	}
	if contains(follower.Following, followeeID) {
		return nil
	}
	follower.Following = append(follower.Following, followeeID)
	followee.Followers = append(followee.Followers, followerID)
	if err := s.save(ctx, follower, followerVec); err != nil {
		return err
	}
	return s.save(ctx, followee, followeeVec)
}

// Unfollow removes the edge on both sides. Unfollowing someone not followed
// is a no-op.
func (s *Service) Unfollow(ctx context.Context, followerID, followeeID string) error {
	follower, followerVec, err := s.load(ctx, followerID)
	if err != nil {
		return err
	}
	followee, followeeVec, err := s.load(ctx, followeeID)
	if err != nil {
		return err
	}
	if !contains(follower.Following, followeeID) {
		return nil
	}
	follower.Following = remove(follower.Following, followeeID)
	followee.Followers = remove(followee.Followers, followerID)
	if err := s.save(ctx, follower, followerVec); err != nil {
		return err
	}
	return s.save(ctx, followee, followeeVec)
}

// AddStats increments activity counters. Negative increments are rejected.
func (s *Service) AddStats(ctx context.Context, userID string, delta types.UserStats, cleanups int) (*types.UserProfile, error) {
	if cleanups < 0 || delta.CampaignsJoined < 0 || delta.CampaignsCreated < 0 || delta.DonationsMade < 0 ||
		delta.IndividualReports < 0 || delta.TotalAreaCleanedSqm < 0 || delta.TotalCO2SavedKg < 0 {
		return nil, fmt.Errorf("%w: stat increments must be non-negative", ErrInvalidInput)
	}
	profile, vector, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.TotalCleanups += cleanups
	profile.Stats.CampaignsJoined += delta.CampaignsJoined
	profile.Stats.CampaignsCreated += delta.CampaignsCreated
	profile.Stats.DonationsMade += delta.DonationsMade
	profile.Stats.IndividualReports += delta.IndividualReports
	profile.Stats.TotalAreaCleanedSqm += delta.TotalAreaCleanedSqm
	profile.Stats.TotalCO2SavedKg += delta.TotalCO2SavedKg
	profile.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	if err := s.save(ctx, profile, vector); err != nil {
		return nil, err
	}
	return profile, nil
}

// SimilarUser is a user returned from similarity search with its score.
type SimilarUser struct {
	types.UserProfile
	Similarity float64 `json:"similarity"`
}

// SimilarUsers finds profiles semantically close to the given user, excluding
// the user themselves.
func (s *Service) SimilarUsers(ctx context.Context, userID string, limit int) ([]SimilarUser, error) {
	if limit < 1 {
		limit = 10
	}
	profile, vector, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		vector, err = s.embedder.Embed(ctx, embeddings.UserText(*profile))
		if err != nil {
			return nil, fmt.Errorf("embedding user %s: %w", userID, err)
		}
	}

	points, err := s.store.Search(ctx, vectorstore.SearchRequest{
		Collection:     s.collection,
		Vector:         vector,
		Limit:          limit + 1,
		ScoreThreshold: similarThreshold,
	})
	if err != nil {
		if errors.Is(err, vectorstore.ErrUnavailable) {
			log.Printf("Similar-user search degraded, index unavailable: %v", err)
			return []SimilarUser{}, nil
		}
		return nil, err
	}

	out := make([]SimilarUser, 0, len(points))
	for _, p := range points {
		var candidate types.UserProfile
		if err := types.FromPayload(p.Payload, &candidate); err != nil {
			log.Printf("Skipping malformed user payload %s: %v", p.ID, err)
			continue
		}
		if candidate.UserID == userID {
			continue
		}
		out = append(out, SimilarUser{UserProfile: candidate, Similarity: p.Score})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, userID string) (*types.UserProfile, []float32, error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	points, err := s.store.Retrieve(ctx, s.collection, []string{userID})
	if err != nil {
		return nil, nil, fmt.Errorf("loading user %s: %w", userID, err)
	}
	if len(points) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, userID)
	}
	var profile types.UserProfile
	if err := types.FromPayload(points[0].Payload, &profile); err != nil {
		return nil, nil, fmt.Errorf("decoding user %s: %w", userID, err)
	}
	return &profile, points[0].Vector, nil
}

func (s *Service) save(ctx context.Context, profile *types.UserProfile, vector []float32) error {
	payload, err := types.ToPayload(profile)
	if err != nil {
		return fmt.Errorf("encoding user %s: %w", profile.UserID, err)
	}
	if _, err := s.store.Upsert(ctx, s.collection, profile.UserID, vector, payload); err != nil {
		return fmt.Errorf("storing user %s: %w", profile.UserID, err)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
