package vectorstore

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

const callTimeout = 15 * time.Second

// Qdrant is the production Store, backed by a Qdrant cluster over gRPC.
type Qdrant struct {
	client      *qdrant.Client
	collections Collections
	dimension   int
}

// NewQdrant connects to the cluster and returns the adapter. Connection
// problems surface on the first call, not here; gRPC dials lazily.
func NewQdrant(host string, port int, apiKey string, useTLS bool, collections Collections, dimension int) (*Qdrant, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("creating qdrant client: %w", err)
	}
	return &Qdrant{client: client, collections: collections, dimension: dimension}, nil
}

func (q *Qdrant) Close() {
	if q.client != nil {
		q.client.Close()
	}
}

// EnsureCollections creates any missing collection with cosine distance and
// the configured dimension, plus a geo payload index on the volunteers'
// location field. Index creation failure is logged, not fatal.
func (q *Qdrant) EnsureCollections(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	for _, name := range q.collections.All() {
		exists, err := q.client.CollectionExists(ctx, name)
		if err != nil {
			return fmt.Errorf("checking collection %s: %w", name, err)
		}
		if exists {
			continue
		}
		err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(q.dimension),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("creating collection %s: %w", name, err)
		}
		log.Printf("Created collection: %s", name)
	}

	_, err := q.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: q.collections.Volunteers,
		FieldName:      "location",
		FieldType:      qdrant.FieldType_FieldTypeGeo.Enum(),
	})
	if err != nil {
		log.Printf("Could not create geo index on %s: %v", q.collections.Volunteers, err)
	}
	return nil
}

func (q *Qdrant) Upsert(ctx context.Context, collection, id string, vector []float32, payload map[string]any) (string, error) {
	if len(vector) != q.dimension {
		return "", fmt.Errorf("%w: got %d, collection expects %d", ErrInvalidDimension, len(vector), q.dimension)
	}
	if id == "" {
		id = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	wait := true
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           &wait,
		Points: []*qdrant.PointStruct{{
			Id:      pointID(id),
			Vectors: qdrant.NewVectors(vector...),
			Payload: qdrant.NewValueMap(payload),
		}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: upsert into %s: %v", ErrUnavailable, collection, err)
	}
	return id, nil
}

func (q *Qdrant) Search(ctx context.Context, req SearchRequest) ([]Point, error) {
	if len(req.Vector) != q.dimension {
		return nil, fmt.Errorf("%w: got %d, collection expects %d", ErrInvalidDimension, len(req.Vector), q.dimension)
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	limit := uint64(req.Limit)
	threshold := float32(req.ScoreThreshold)
	results, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: req.Collection,
		Query:          qdrant.NewQuery(req.Vector...),
		Limit:          &limit,
		ScoreThreshold: &threshold,
		Filter:         toQdrantFilter(req.Filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search %s: %v", ErrUnavailable, req.Collection, err)
	}

	out := make([]Point, 0, len(results))
	for _, res := range results {
		out = append(out, Point{
			ID:      res.GetId().GetUuid(),
			Score:   float64(res.GetScore()),
			Payload: payloadToMap(res.GetPayload()),
		})
	}
	return out, nil
}

func (q *Qdrant) Scroll(ctx context.Context, collection string, limit int, offset string, filter *Filter) ([]Point, string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	lim := uint32(limit)
	req := &qdrant.ScrollPoints{
		CollectionName: collection,
		Limit:          &lim,
		Filter:         toQdrantFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	}
	if offset != "" {
		req.Offset = pointID(offset)
	}

	resp, err := q.client.GetPointsClient().Scroll(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: scroll %s: %v", ErrUnavailable, collection, err)
	}

	out := make([]Point, 0, len(resp.GetResult()))
	for _, res := range resp.GetResult() {
		out = append(out, Point{
			ID:      res.GetId().GetUuid(),
			Vector:  res.GetVectors().GetVector().GetData(),
			Payload: payloadToMap(res.GetPayload()),
		})
	}
	next := resp.GetNextPageOffset().GetUuid()
	return out, next, nil
}

func (q *Qdrant) Retrieve(ctx context.Context, collection string, ids []string) ([]Point, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		pointIDs = append(pointIDs, pointID(id))
	}
	results, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: collection,
		Ids:            pointIDs,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: retrieve from %s: %v", ErrUnavailable, collection, err)
	}

	out := make([]Point, 0, len(results))
	for _, res := range results {
		out = append(out, Point{
			ID:      res.GetId().GetUuid(),
			Vector:  res.GetVectors().GetVector().GetData(),
			Payload: payloadToMap(res.GetPayload()),
		})
	}
	return out, nil
}

func (q *Qdrant) Stats(ctx context.Context) (map[string]CollectionStats, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	stats := make(map[string]CollectionStats, 4)
	for _, name := range q.collections.All() {
		info, err := q.client.GetCollectionInfo(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%w: collection info %s: %v", ErrUnavailable, name, err)
		}
		stats[name] = CollectionStats{
			Count:      info.GetPointsCount(),
			VectorSize: q.dimension,
		}
	}
	return stats, nil
}

// pointID maps a business id onto a Qdrant point id. Qdrant only accepts
// UUIDs or integers, so non-UUID ids (campaign_xxx) get a deterministic UUID
// derived from the id; the business id itself lives in the payload.
func pointID(id string) *qdrant.PointId {
	if _, err := uuid.Parse(id); err == nil {
		return qdrant.NewID(id)
	}
	return qdrant.NewID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String())
}

func toQdrantFilter(f *Filter) *qdrant.Filter {
	if f == nil || len(f.Must) == 0 {
		return nil
	}
	must := make([]*qdrant.Condition, 0, len(f.Must))
	for _, c := range f.Must {
		switch c.kind {
		case kindMatchBool:
			must = append(must, qdrant.NewMatchBool(c.Field, c.boolVal))
		case kindMatchKeyword:
			must = append(must, qdrant.NewMatchKeyword(c.Field, c.keyword))
		case kindRangeGte:
			gte := c.gte
			must = append(must, qdrant.NewRange(c.Field, &qdrant.Range{Gte: &gte}))
		case kindGeoRadius:
			must = append(must, qdrant.NewGeoRadius(c.Field, c.geo.Lat, c.geo.Lon, float32(c.geo.RadiusKm*1000)))
		}
	}
	return &qdrant.Filter{Must: must}
}

func payloadToMap(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_IntegerValue:
		// JSON round-trips numbers as float64; stay consistent.
		return float64(kind.IntegerValue)
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_ListValue:
		values := kind.ListValue.GetValues()
		list := make([]any, 0, len(values))
		for _, item := range values {
			list = append(list, valueToAny(item))
		}
		return list
	case *qdrant.Value_StructValue:
		fields := kind.StructValue.GetFields()
		m := make(map[string]any, len(fields))
		for k, item := range fields {
			m[k] = valueToAny(item)
		}
		return m
	default:
		return nil
	}
}
