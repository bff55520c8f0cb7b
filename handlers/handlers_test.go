package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"go-ecosynk/campaigns"
	"go-ecosynk/handlers"
	"go-ecosynk/hotspot"
	"go-ecosynk/matching"
	"go-ecosynk/recommend"
	"go-ecosynk/reports"
	"go-ecosynk/routes"
	"go-ecosynk/users"
	"go-ecosynk/vectorstore"
)

const dim = 4

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v := make([]float32, dim)
	for i, c := range text {
		v[i%dim] += float32(c%7) + 1
	}
	return v, nil
}

func (stubEmbedder) Dimension() int { return dim }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := vectorstore.NewMemory(vectorstore.Collections{
		Reports:    "trash_reports",
		Volunteers: "volunteer_profiles",
		Users:      "users",
		Campaigns:  "campaigns",
	}, dim)
	embedder := stubEmbedder{}

	h := &handlers.Handlers{
		Store:     store,
		Reports:   reports.NewService(store, embedder, nil, "trash_reports"),
		Users:     users.NewService(store, embedder, "users"),
		Matcher:   matching.NewEngine(store, embedder, "volunteer_profiles"),
		Detector:  hotspot.NewDetector(store, embedder, "trash_reports"),
		Recommend: recommend.NewEngine(store, embedder, "users", nil),
		Campaigns: campaigns.NewManager(store, embedder, "trash_reports", "campaigns"),
	}
	return routes.SetupRouter(h)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReportLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/ecosynk/reports", map[string]any{
		"primary_material":       "plastic",
		"estimated_volume":       "large",
		"cleanup_priority_score": 7,
		"location":               map[string]float64{"lat": 25.2048, "lon": 55.2708},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("store report: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		ReportID string `json:"report_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	w = doJSON(t, r, http.MethodGet, "/api/ecosynk/reports/"+created.ReportID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get report: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/ecosynk/reports/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing report should 404, got %d", w.Code)
	}
}

func TestMatchVolunteersEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/ecosynk/volunteers", map[string]any{
		"user_id":          "v1",
		"name":             "Aisha",
		"skills":           []string{"beach cleanup"},
		"experience_level": "advanced",
		"available":        true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("store volunteer: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/ecosynk/volunteers/match", map[string]any{
		"task_description": "beach cleanup with plastic waste",
		"limit":            5,
		"min_score":        0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("match volunteers: %d %s", w.Code, w.Body.String())
	}
	var matched struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &matched); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if matched.Count != 1 {
		t.Fatalf("expected 1 match, got %d", matched.Count)
	}

	// Out-of-range limit is rejected before any index call.
	w = doJSON(t, r, http.MethodPost, "/api/ecosynk/volunteers/match", map[string]any{
		"task_description": "anything",
		"limit":            100,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit should 400, got %d", w.Code)
	}
}

func TestHotspotEndpoint(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/ecosynk/reports", map[string]any{
			"report_id":        fmt.Sprintf("r%d", i),
			"primary_material": "plastic",
			"description":      "plastic bottles on the beach",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("store report %d: %d", i, w.Code)
		}
	}

	w := doJSON(t, r, http.MethodPost, "/api/ecosynk/hotspots/detect", map[string]any{
		"report_text": "Material type: plastic. Volume: medium. Items found: various items. Description: plastic bottles on the beach. Environmental risk: medium. Priority level: 5/10",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("detect: %d %s", w.Code, w.Body.String())
	}
	var result struct {
		IsHotspot bool   `json:"is_hotspot"`
		Severity  string `json:"severity"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !result.IsHotspot || result.Severity != "medium" {
		t.Fatalf("expected medium hotspot, got %+v", result)
	}
}

func TestUserAndRecommendationEndpoints(t *testing.T) {
	r := newTestRouter(t)

	for _, u := range []map[string]any{
		{"user_id": "me", "name": "Me", "interests": []string{"recycling"}},
		{"user_id": "other", "name": "Other", "interests": []string{"recycling"}},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/ecosynk/users", u)
		if w.Code != http.StatusCreated {
			t.Fatalf("create user: %d %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(t, r, http.MethodPost, "/api/ecosynk/users/me/follow", map[string]any{"target_id": "other"})
	if w.Code != http.StatusOK {
		t.Fatalf("follow: %d %s", w.Code, w.Body.String())
	}

	// The only other user is now followed, so nothing is left to recommend.
	w = doJSON(t, r, http.MethodGet, "/api/ecosynk/users/me/recommendations", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("recommendations: %d %s", w.Code, w.Body.String())
	}
	var recs struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if recs.Count != 0 {
		t.Fatalf("followed users must not be recommended, got %d", recs.Count)
	}

	w = doJSON(t, r, http.MethodGet, "/api/ecosynk/users/ghost/recommendations", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown user should 404, got %d", w.Code)
	}
}

func TestCampaignEndpoints(t *testing.T) {
	r := newTestRouter(t)

	for _, report := range []map[string]any{
		{"report_id": "r1", "primary_material": "plastic", "cleanup_priority_score": 7},
		{"report_id": "r2", "primary_material": "metal", "cleanup_priority_score": 9},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/ecosynk/reports", report)
		if w.Code != http.StatusCreated {
			t.Fatalf("store report: %d", w.Code)
		}
	}

	w := doJSON(t, r, http.MethodPost, "/api/ecosynk/campaigns", map[string]any{
		"report_ids":       []string{"r1", "r2"},
		"funding_goal_usd": 1000,
		"volunteer_goal":   10,
		"duration_days":    30,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create campaign: %d %s", w.Code, w.Body.String())
	}
	var campaign struct {
		CampaignID string `json:"campaign_id"`
		Hotspot    struct {
			AveragePriority float64 `json:"average_priority"`
		} `json:"hotspot"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &campaign); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if campaign.Hotspot.AveragePriority != 8.0 {
		t.Fatalf("average priority = %f, want 8.0", campaign.Hotspot.AveragePriority)
	}

	w = doJSON(t, r, http.MethodGet, "/api/ecosynk/campaigns/active", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("active campaigns: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/ecosynk/campaigns/"+campaign.CampaignID+"/progress", map[string]any{
		"add_funding_usd": 250,
		"add_volunteers":  2,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("progress: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/ecosynk/campaigns", map[string]any{
		"report_ids":       []string{"ghost"},
		"funding_goal_usd": 100,
		"volunteer_goal":   2,
		"duration_days":    7,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unresolved reports should 404, got %d", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/ecosynk/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: %d %s", w.Code, w.Body.String())
	}
	var stats struct {
		Collections map[string]struct {
			Count int `json:"count"`
		} `json:"collections"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(stats.Collections) != 4 {
		t.Fatalf("expected 4 collections, got %d", len(stats.Collections))
	}
}
