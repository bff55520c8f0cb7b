package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config holds all settings read from the environment. Constructed once in main
// and passed to whoever needs it, no package-level state.
type Config struct {
	// Qdrant cluster
	QdrantURL    string
	QdrantAPIKey string

	// OpenAI embeddings
	OpenAIAPIKey       string
	EmbeddingModel     string
	EmbeddingDimension int

	// Optional services
	RedisAddr  string
	MapsAPIKey string

	// Server
	APIPort string

	// Collection names
	ReportsCollection    string
	VolunteersCollection string
	UsersCollection      string
	CampaignsCollection  string

	// Search defaults
	DefaultSearchLimit int
	HotspotThreshold   int
	DefaultRadiusKm    float64
}

// Load reads configuration from environment variables. godotenv.Load should
// already have run in main.
func Load() (*Config, error) {
	cfg := &Config{
		QdrantURL:            os.Getenv("QDRANT_URL"),
		QdrantAPIKey:         os.Getenv("QDRANT_API_KEY"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:       getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimension:   getEnvInt("EMBEDDING_DIMENSION", 384),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		MapsAPIKey:           os.Getenv("MAPS_CREDENTIALS"),
		APIPort:              getEnv("API_PORT", "8080"),
		ReportsCollection:    getEnv("TRASH_REPORTS_COLLECTION", "trash_reports"),
		VolunteersCollection: getEnv("VOLUNTEER_PROFILES_COLLECTION", "volunteer_profiles"),
		UsersCollection:      getEnv("USERS_COLLECTION", "users"),
		CampaignsCollection:  getEnv("CAMPAIGNS_COLLECTION", "campaigns"),
		DefaultSearchLimit:   getEnvInt("DEFAULT_SEARCH_LIMIT", 10),
		HotspotThreshold:     getEnvInt("HOTSPOT_THRESHOLD", 3),
		DefaultRadiusKm:      getEnvFloat("DEFAULT_RADIUS_KM", 5.0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings a running server cannot do without.
func (c *Config) Validate() error {
	if c.QdrantURL == "" || strings.Contains(c.QdrantURL, "your-cluster") {
		return fmt.Errorf("QDRANT_URL not configured, set it in your .env file")
	}
	if c.QdrantAPIKey == "" || c.QdrantAPIKey == "your_qdrant_api_key_here" {
		return fmt.Errorf("QDRANT_API_KEY not configured, set it in your .env file")
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be positive, got %d", c.EmbeddingDimension)
	}
	return nil
}

// QdrantEndpoint splits QDRANT_URL into host, gRPC port and TLS flag.
// URLs look like https://your-cluster.qdrant.io:6333; the gRPC port is 6334.
func (c *Config) QdrantEndpoint() (host string, port int, useTLS bool, err error) {
	u, err := url.Parse(c.QdrantURL)
	if err != nil {
		return "", 0, false, fmt.Errorf("parsing QDRANT_URL: %w", err)
	}
	host = u.Hostname()
	if host == "" {
		// Bare host with no scheme
		host = c.QdrantURL
	}
	port = 6334
	if p := u.Port(); p != "" && p != "6333" {
		if parsed, perr := strconv.Atoi(p); perr == nil {
			port = parsed
		}
	}
	useTLS = u.Scheme != "http"
	return host, port, useTLS, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
