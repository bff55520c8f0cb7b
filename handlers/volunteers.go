package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-ecosynk/matching"
	"go-ecosynk/types"
)

// StoreVolunteer embeds and stores a volunteer profile.
func (h *Handlers) StoreVolunteer(c *gin.Context) {
	var profile types.VolunteerProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.Matcher.StoreProfile(c.Request.Context(), &profile)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user_id": id})
}

// MatchVolunteers finds volunteers for a task description.
func (h *Handlers) MatchVolunteers(c *gin.Context) {
	var request struct {
		TaskDescription string          `json:"task_description"`
		Location        *types.Location `json:"location,omitempty"`
		RadiusKm        float64         `json:"radius_km"`
		Limit           int             `json:"limit"`
		MinScore        float64         `json:"min_score"`
		AvailableOnly   bool            `json:"available_only"`
		MinExperience   string          `json:"min_experience,omitempty"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Limit == 0 {
		request.Limit = 10
	}
	if request.RadiusKm == 0 {
		request.RadiusKm = 5
	}

	matches, err := h.Matcher.MatchForTask(
		c.Request.Context(),
		request.TaskDescription,
		request.Location,
		request.RadiusKm,
		request.Limit,
		request.MinScore,
		&matching.Options{
			AvailableOnly: request.AvailableOnly,
			MinExperience: request.MinExperience,
		},
	)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"count":   len(matches),
	})
}
