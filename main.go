package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"go-ecosynk/campaigns"
	"go-ecosynk/config"
	"go-ecosynk/cronjobs"
	"go-ecosynk/embeddings"
	"go-ecosynk/geocode"
	"go-ecosynk/handlers"
	"go-ecosynk/hotspot"
	"go-ecosynk/matching"
	"go-ecosynk/recommend"
	"go-ecosynk/reports"
	"go-ecosynk/routes"
	"go-ecosynk/users"
	"go-ecosynk/vectorstore"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.OpenAIAPIKey != "" {
		fmt.Println("OPENAI_API_KEY loaded")
	}

	// Init Qdrant
	host, port, useTLS, err := cfg.QdrantEndpoint()
	if err != nil {
		log.Fatalf("Failed to parse Qdrant endpoint: %v", err)
	}
	collections := vectorstore.Collections{
		Reports:    cfg.ReportsCollection,
		Volunteers: cfg.VolunteersCollection,
		Users:      cfg.UsersCollection,
		Campaigns:  cfg.CampaignsCollection,
	}
	store, err := vectorstore.NewQdrant(host, port, cfg.QdrantAPIKey, useTLS, collections, cfg.EmbeddingDimension)
	if err != nil {
		log.Fatalf("Failed to initialize Qdrant: %v", err)
	}
	defer store.Close()

	if err := store.EnsureCollections(context.Background()); err != nil {
		log.Printf("Could not ensure collections, searches may degrade: %v", err)
	}

	embedder := embeddings.NewOpenAI(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension)

	// Optional Redis cache for recommendations
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		fmt.Println("Redis cache enabled: ", cfg.RedisAddr)
	}

	// Optional reverse geocoding
	var geocoder *geocode.Client
	if cfg.MapsAPIKey != "" {
		geocoder, err = geocode.NewClient(cfg.MapsAPIKey)
		if err != nil {
			log.Printf("Maps client unavailable, reports stay un-labelled: %v", err)
		}
	}

	reportService := reports.NewService(store, embedder, geocoder, cfg.ReportsCollection)
	userService := users.NewService(store, embedder, cfg.UsersCollection)
	matcher := matching.NewEngine(store, embedder, cfg.VolunteersCollection)
	detector := hotspot.NewDetector(store, embedder, cfg.ReportsCollection)
	recommender := recommend.NewEngine(store, embedder, cfg.UsersCollection, cache)
	campaignManager := campaigns.NewManager(store, embedder, cfg.ReportsCollection, cfg.CampaignsCollection)

	// Initialize cron jobs
	cronjobs.InitCronJobs(campaignManager)

	h := &handlers.Handlers{
		Store:     store,
		Reports:   reportService,
		Users:     userService,
		Matcher:   matcher,
		Detector:  detector,
		Recommend: recommender,
		Campaigns: campaignManager,
	}

	r := routes.SetupRouter(h)
	if err := r.Run(":" + cfg.APIPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
