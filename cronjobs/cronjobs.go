package cronjobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"go-ecosynk/campaigns"
)

// InitCronJobs starts the background schedules. Returns the running cron so
// the caller can stop it on shutdown.
func InitCronJobs(manager *campaigns.Manager) *cron.Cron {
	log.Println("\nStarting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	// Campaign expiry: run every 10 minutes
	_, err := c.AddFunc("*/10 * * * *", func() {
		log.Println("\nCronJob: Campaign Expiry Running")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		n, err := manager.ExpireDue(ctx)
		if err != nil {
			log.Printf("Campaign expiry failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("Expired %d campaigns", n)
		}
	})
	if err != nil {
		log.Println("Error scheduling Campaign Expiry", err)
	}

	c.Start()
	return c
}
