package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-ecosynk/types"
	"go-ecosynk/users"
)

// CreateUser stores a new user profile.
func (h *Handlers) CreateUser(c *gin.Context) {
	var profile types.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Users.Create(c.Request.Context(), &profile); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// GetUser returns one user profile.
func (h *Handlers) GetUser(c *gin.Context) {
	profile, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateUser applies a partial profile update.
func (h *Handlers) UpdateUser(c *gin.Context) {
	var updates users.Updates
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.Users.Update(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// FollowUser records a follow edge.
func (h *Handlers) FollowUser(c *gin.Context) {
	var request struct {
		TargetID string `json:"target_id"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Users.Follow(c.Request.Context(), c.Param("id"), request.TargetID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "following"})
}

// UnfollowUser removes a follow edge.
func (h *Handlers) UnfollowUser(c *gin.Context) {
	var request struct {
		TargetID string `json:"target_id"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Users.Unfollow(c.Request.Context(), c.Param("id"), request.TargetID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "not following"})
}

// AddUserStats increments activity counters.
func (h *Handlers) AddUserStats(c *gin.Context) {
	var request struct {
		Cleanups int             `json:"cleanups"`
		Stats    types.UserStats `json:"stats"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.Users.AddStats(c.Request.Context(), c.Param("id"), request.Stats, request.Cleanups)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SimilarUsers returns users semantically close to the given one.
func (h *Handlers) SimilarUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	similar, err := h.Users.SimilarUsers(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": similar,
		"count": len(similar),
	})
}

// RecommendUsers returns the ranked, factor-annotated recommendation list.
func (h *Handlers) RecommendUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	recs, err := h.Recommend.Recommend(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"count":           len(recs),
	})
}
