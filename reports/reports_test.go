package reports

import (
	"context"
	"errors"
	"testing"

	"go-ecosynk/types"
	"go-ecosynk/vectorstore"
)

const dim = 4

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v := make([]float32, dim)
	v[0] = 1
	return v, nil
}

func (stubEmbedder) Dimension() int { return dim }

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := vectorstore.NewMemory(vectorstore.Collections{
		Reports:    "trash_reports",
		Volunteers: "volunteer_profiles",
		Users:      "users",
		Campaigns:  "campaigns",
	}, dim)
	return NewService(store, stubEmbedder{}, nil, "trash_reports")
}

func TestStoreAndGet(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	id, err := s.Store(ctx, &types.Report{
		PrimaryMaterial:      "plastic",
		EstimatedVolume:      "large",
		CleanupPriorityScore: 7,
		Location:             &types.Location{Lat: 25.2048, Lon: 55.2708},
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated report id")
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PrimaryMaterial != "plastic" || got.CleanupPriorityScore != 7 {
		t.Fatalf("unexpected report: %+v", got)
	}
	if got.Timestamp == "" {
		t.Fatal("timestamp should default to now")
	}
}

func TestStoreKeepsExplicitIDAndTimestamp(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	id, err := s.Store(ctx, &types.Report{
		ReportID:        "r-explicit",
		PrimaryMaterial: "metal",
		Timestamp:       "2026-01-15T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if id != "r-explicit" {
		t.Fatalf("explicit id not kept: %s", id)
	}

	got, err := s.Get(ctx, "r-explicit")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Timestamp != "2026-01-15T10:00:00Z" {
		t.Fatalf("explicit timestamp not kept: %s", got.Timestamp)
	}
}

func TestGetUnknown(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Get(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
