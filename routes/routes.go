package routes

import (
	"github.com/gin-gonic/gin"

	"go-ecosynk/handlers"
)

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to EcoSynk!",
		})
	})

	// api routes
	api := r.Group("/api/ecosynk")
	{
		api.GET("/stats", h.GetStats)

		api.POST("/reports", h.StoreReport)
		api.GET("/reports/:id", h.GetReport)
		api.POST("/reports/search", h.SearchReports)
		api.POST("/hotspots/detect", h.DetectHotspot)

		api.POST("/volunteers", h.StoreVolunteer)
		api.POST("/volunteers/match", h.MatchVolunteers)

		api.POST("/users", h.CreateUser)
		api.GET("/users/:id", h.GetUser)
		api.PATCH("/users/:id", h.UpdateUser)
		api.POST("/users/:id/follow", h.FollowUser)
		api.POST("/users/:id/unfollow", h.UnfollowUser)
		api.POST("/users/:id/stats", h.AddUserStats)
		api.GET("/users/:id/similar", h.SimilarUsers)
		api.GET("/users/:id/recommendations", h.RecommendUsers)

		api.POST("/campaigns", h.CreateCampaign)
		api.GET("/campaigns", h.ListCampaigns)
		api.GET("/campaigns/active", h.ActiveCampaigns)
		api.GET("/campaigns/:id", h.GetCampaign)
		api.POST("/campaigns/:id/progress", h.UpdateCampaignProgress)
	}

	return r
}
