package config

import "testing"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("QDRANT_URL", "https://example-cluster.qdrant.io:6333")
	t.Setenv("QDRANT_API_KEY", "test-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Fatalf("model default = %s", cfg.EmbeddingModel)
	}
	if cfg.EmbeddingDimension != 384 {
		t.Fatalf("dimension default = %d", cfg.EmbeddingDimension)
	}
	if cfg.ReportsCollection != "trash_reports" || cfg.CampaignsCollection != "campaigns" {
		t.Fatalf("collection defaults wrong: %s / %s", cfg.ReportsCollection, cfg.CampaignsCollection)
	}
	if cfg.APIPort != "8080" {
		t.Fatalf("port default = %s", cfg.APIPort)
	}
	if cfg.DefaultRadiusKm != 5.0 {
		t.Fatalf("radius default = %f", cfg.DefaultRadiusKm)
	}
}

func TestValidateRejectsPlaceholders(t *testing.T) {
	cases := []struct{ url, key string }{
		{"", "real-key"},
		{"https://your-cluster.qdrant.io:6333", "real-key"},
		{"https://example.qdrant.io:6333", ""},
		{"https://example.qdrant.io:6333", "your_qdrant_api_key_here"},
	}
	for _, tc := range cases {
		t.Setenv("QDRANT_URL", tc.url)
		t.Setenv("QDRANT_API_KEY", tc.key)
		if _, err := Load(); err == nil {
			t.Fatalf("expected validation failure for url=%q key=%q", tc.url, tc.key)
		}
	}
}

func TestQdrantEndpoint(t *testing.T) {
	setRequired(t)

	cases := []struct {
		url    string
		host   string
		port   int
		useTLS bool
	}{
		{"https://example-cluster.qdrant.io:6333", "example-cluster.qdrant.io", 6334, true},
		{"https://example-cluster.qdrant.io", "example-cluster.qdrant.io", 6334, true},
		{"http://localhost:6334", "localhost", 6334, false},
	}
	for _, tc := range cases {
		cfg := &Config{QdrantURL: tc.url, QdrantAPIKey: "k", EmbeddingDimension: 384}
		host, port, useTLS, err := cfg.QdrantEndpoint()
		if err != nil {
			t.Fatalf("%s: %v", tc.url, err)
		}
		if host != tc.host || port != tc.port || useTLS != tc.useTLS {
			t.Fatalf("%s: got (%s, %d, %v), want (%s, %d, %v)", tc.url, host, port, useTLS, tc.host, tc.port, tc.useTLS)
		}
	}
}
