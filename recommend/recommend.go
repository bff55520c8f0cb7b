// Package recommend ranks user-to-user recommendations by blending vector
// similarity with explicit attribute overlap.
package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"go-ecosynk/embeddings"
	"go-ecosynk/types"
	"go-ecosynk/vectorstore"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid recommendation input")
)

const (
	candidatePool      = 50
	candidateThreshold = 0.2
	maxLimit           = 50

	defaultCacheTTL = 10 * time.Minute
)

// Factor weights. They sum to 1.00.
const (
	weightSimilarity      = 0.30
	weightExperience      = 0.10
	weightInterests       = 0.15
	weightSkills          = 0.15
	weightMaterials       = 0.08
	weightSpecializations = 0.07
	weightLocation        = 0.10
	weightActivity        = 0.05
)

// Engine scores candidates from the users collection. The Redis cache is
// optional; a nil client disables caching.
type Engine struct {
	store      vectorstore.Store
	embedder   embeddings.Provider
	collection string
	cache      cacheStore
}

func NewEngine(store vectorstore.Store, embedder embeddings.Provider, collection string, cache *redis.Client) *Engine {
	e := &Engine{
		store:      store,
		embedder:   embedder,
		collection: collection,
	}
	if cache != nil {
		e.cache = &redisCache{client: cache, ttl: defaultCacheTTL}
	}
	return e
}

// Recommend returns up to limit users ranked for the requester, never
// including the requester or anyone they already follow. Results carry the
// full factor breakdown. Deterministic for identical index state.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) ([]types.RecommendedUser, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if limit < 1 || limit > maxLimit {
		return nil, fmt.Errorf("%w: limit must be in [1, %d], got %d", ErrInvalidInput, maxLimit, limit)
	}

	points, err := e.store.Retrieve(ctx, e.collection, []string{userID})
	if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", userID, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, userID)
	}

	var requester types.UserProfile
	if err := types.FromPayload(points[0].Payload, &requester); err != nil {
		return nil, fmt.Errorf("decoding user %s: %w", userID, err)
	}

	following := make(map[string]bool, len(requester.Following))
	for _, id := range requester.Following {
		following[id] = true
	}

	// Cached entries may predate a follow, so the exclusion set is always
	// re-applied to them.
	cacheKey := fmt.Sprintf("recommendations:%s:%d", userID, limit)
	if cached, ok := e.cacheGet(ctx, cacheKey); ok {
		return dropExcluded(cached, requester.UserID, following), nil
	}

	vector := points[0].Vector
	if len(vector) == 0 {
		vector, err = e.embedder.Embed(ctx, embeddings.UserText(requester))
		if err != nil {
			return nil, fmt.Errorf("embedding user %s: %w", userID, err)
		}
	}

	candidates, err := e.store.Search(ctx, vectorstore.SearchRequest{
		Collection:     e.collection,
		Vector:         vector,
		Limit:          candidatePool,
		ScoreThreshold: candidateThreshold,
	})
	if err != nil {
		if errors.Is(err, vectorstore.ErrUnavailable) {
			log.Printf("Recommendations degraded, index unavailable: %v", err)
			return []types.RecommendedUser{}, nil
		}
		return nil, err
	}

	ranked := make([]types.RecommendedUser, 0, len(candidates))
	for _, c := range candidates {
		var candidate types.UserProfile
		if err := types.FromPayload(c.Payload, &candidate); err != nil {
			log.Printf("Skipping malformed user payload %s: %v", c.ID, err)
			continue
		}
		if candidate.UserID == requester.UserID || following[candidate.UserID] {
			continue
		}
		factors := ScoreFactors(&requester, &candidate, c.Score)
		ranked = append(ranked, types.RecommendedUser{
			UserProfile:           candidate,
			RecommendationScore:   FinalScore(factors),
			RecommendationFactors: factors,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RecommendationScore > ranked[j].RecommendationScore
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	e.cacheSet(ctx, cacheKey, ranked)
	return ranked, nil
}

// ScoreFactors computes the eight clamped factors for a candidate against the
// requester. similarity is the raw cosine score from the index.
func ScoreFactors(requester, candidate types.MatchableProfile, similarity float64) types.RecommendationFactors {
	return types.RecommendationFactors{
		VectorSimilarity:        clamp(similarity*100, 0, 100),
		ExperienceCompatibility: experienceCompatibility(requester.Experience(), candidate.Experience()),
		CommonInterests:         overlapScore(requester.ProfileInterests(), candidate.ProfileInterests(), 5, 15),
		CommonSkills:            overlapScore(requester.ProfileSkills(), candidate.ProfileSkills(), 3, 15),
		CommonMaterials:         overlapScore(requester.ProfileMaterials(), candidate.ProfileMaterials(), 5, 10),
		CommonSpecializations:   overlapScore(requester.ProfileSpecializations(), candidate.ProfileSpecializations(), 5, 10),
		LocationMatch:           locationMatch(requester.ProfileCity(), candidate.ProfileCity()),
		ActivityLevel:           activityLevel(candidate),
	}
}

// FinalScore blends the factors with the fixed weights.
func FinalScore(f types.RecommendationFactors) float64 {
	return weightSimilarity*f.VectorSimilarity +
		weightExperience*f.ExperienceCompatibility +
		weightInterests*f.CommonInterests +
		weightSkills*f.CommonSkills +
		weightMaterials*f.CommonMaterials +
		weightSpecializations*f.CommonSpecializations +
		weightLocation*f.LocationMatch +
		weightActivity*f.ActivityLevel
}

func experienceCompatibility(a, b string) float64 {
	diff := math.Abs(float64(types.ExperienceRank(a) - types.ExperienceRank(b)))
	return math.Max(0, 15-4*diff)
}

func overlapScore(a, b []string, perItem, ceiling float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, item := range a {
		set[normalize(item)] = true
	}
	shared := 0
	seen := make(map[string]bool, len(b))
	for _, item := range b {
		key := normalize(item)
		if set[key] && !seen[key] {
			shared++
			seen[key] = true
		}
	}
	return math.Min(ceiling, float64(shared)*perItem)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func locationMatch(a, b string) float64 {
	if a != "" && normalize(a) == normalize(b) {
		return 15
	}
	return 0
}

func activityLevel(p types.MatchableProfile) float64 {
	joined, cleanups := p.Activity()
	return math.Min(10, float64(joined*2+cleanups)/5)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func dropExcluded(recs []types.RecommendedUser, selfID string, following map[string]bool) []types.RecommendedUser {
	out := make([]types.RecommendedUser, 0, len(recs))
	for _, r := range recs {
		if r.UserID == selfID || following[r.UserID] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// cacheStore is the small surface Recommend needs from its cache. The Redis
// client hides behind it so cache behavior is testable in-process.
type cacheStore interface {
	get(ctx context.Context, key string) ([]byte, bool)
	set(ctx context.Context, key string, val []byte)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (r *redisCache) get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Recommendation cache read failed: %v", err)
		}
		return nil, false
	}
	return raw, true
}

func (r *redisCache) set(ctx context.Context, key string, val []byte) {
	if err := r.client.Set(ctx, key, val, r.ttl).Err(); err != nil {
		log.Printf("Recommendation cache write failed: %v", err)
	}
}

func (e *Engine) cacheGet(ctx context.Context, key string) ([]types.RecommendedUser, bool) {
	if e.cache == nil {
		return nil, false
	}
	raw, ok := e.cache.get(ctx, key)
	if !ok {
		return nil, false
	}
	var out []types.RecommendedUser
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Printf("Dropping corrupt cache entry %s: %v", key, err)
		return nil, false
	}
	return out, true
}

func (e *Engine) cacheSet(ctx context.Context, key string, val []types.RecommendedUser) {
	if e.cache == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	e.cache.set(ctx, key, raw)
}
