package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"go-ecosynk/embeddings"
	"go-ecosynk/geo"
)

// Memory is an in-process Store with the same semantics as the Qdrant
// adapter: cosine similarity, conjunctive payload filters, id-ordered
// scrolling. It backs tests and local development.
type Memory struct {
	mu        sync.RWMutex
	dimension int
	data      map[string]map[string]Point
}

func NewMemory(collections Collections, dimension int) *Memory {
	data := make(map[string]map[string]Point, 4)
	for _, name := range collections.All() {
		data[name] = make(map[string]Point)
	}
	return &Memory{dimension: dimension, data: data}
}

func (m *Memory) EnsureCollections(ctx context.Context) error { return nil }

func (m *Memory) Upsert(ctx context.Context, collection, id string, vector []float32, payload map[string]any) (string, error) {
	if len(vector) != m.dimension {
		return "", fmt.Errorf("%w: got %d, collection expects %d", ErrInvalidDimension, len(vector), m.dimension)
	}
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	points, ok := m.data[collection]
	if !ok {
		points = make(map[string]Point)
		m.data[collection] = points
	}
	points[id] = Point{ID: id, Vector: vector, Payload: payload}
	return id, nil
}

func (m *Memory) Search(ctx context.Context, req SearchRequest) ([]Point, error) {
	if len(req.Vector) != m.dimension {
		return nil, fmt.Errorf("%w: got %d, collection expects %d", ErrInvalidDimension, len(req.Vector), m.dimension)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Point
	for _, p := range m.data[req.Collection] {
		if !matches(p.Payload, req.Filter) {
			continue
		}
		score := embeddings.Cosine(req.Vector, p.Vector)
		if score < req.ScoreThreshold {
			continue
		}
		out = append(out, Point{ID: p.ID, Score: score, Payload: p.Payload})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if req.Limit > 0 && len(out) > req.Limit {
		out = out[:req.Limit]
	}
	return out, nil
}

func (m *Memory) Scroll(ctx context.Context, collection string, limit int, offset string, filter *Filter) ([]Point, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.data[collection]))
	for id, p := range m.data[collection] {
		if matches(p.Payload, filter) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	start := 0
	if offset != "" {
		start = sort.SearchStrings(ids, offset)
	}

	var out []Point
	next := ""
	for i := start; i < len(ids); i++ {
		if limit > 0 && len(out) == limit {
			next = ids[i]
			break
		}
		p := m.data[collection][ids[i]]
		out = append(out, Point{ID: p.ID, Vector: p.Vector, Payload: p.Payload})
	}
	return out, next, nil
}

func (m *Memory) Retrieve(ctx context.Context, collection string, ids []string) ([]Point, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Point
	for _, id := range ids {
		if p, ok := m.data[collection][id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) Stats(ctx context.Context) (map[string]CollectionStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make(map[string]CollectionStats, len(m.data))
	for name, points := range m.data {
		stats[name] = CollectionStats{Count: uint64(len(points)), VectorSize: m.dimension}
	}
	return stats, nil
}

func matches(payload map[string]any, f *Filter) bool {
	if f == nil {
		return true
	}
	for _, c := range f.Must {
		if !matchesCondition(payload, c) {
			return false
		}
	}
	return true
}

func matchesCondition(payload map[string]any, c Condition) bool {
	v, ok := payload[c.Field]
	if !ok {
		return false
	}
	switch c.kind {
	case kindMatchBool:
		b, ok := v.(bool)
		return ok && b == c.boolVal
	case kindMatchKeyword:
		s, ok := v.(string)
		return ok && s == c.keyword
	case kindRangeGte:
		n, ok := v.(float64)
		return ok && n >= c.gte
	case kindGeoRadius:
		loc, ok := v.(map[string]any)
		if !ok {
			return false
		}
		lat, okLat := loc["lat"].(float64)
		lon, okLon := loc["lon"].(float64)
		if !okLat || !okLon {
			return false
		}
		return geo.DistanceKm(c.geo.Lat, c.geo.Lon, lat, lon) <= c.geo.RadiusKm
	default:
		return false
	}
}
