package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-ecosynk/campaigns"
)

// CreateCampaign aggregates report ids into a new campaign.
func (h *Handlers) CreateCampaign(c *gin.Context) {
	var request campaigns.CreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := h.Campaigns.Create(c.Request.Context(), request)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

// ListCampaigns returns every campaign, newest first.
func (h *Handlers) ListCampaigns(c *gin.Context) {
	list, err := h.Campaigns.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"campaigns": list,
		"count":     len(list),
	})
}

// ActiveCampaigns returns campaigns that are active and not past their end
// date.
func (h *Handlers) ActiveCampaigns(c *gin.Context) {
	list, err := h.Campaigns.GetActive(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"campaigns": list,
		"count":     len(list),
	})
}

// GetCampaign returns one campaign.
func (h *Handlers) GetCampaign(c *gin.Context) {
	campaign, err := h.Campaigns.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// UpdateCampaignProgress adds funding and volunteers to a campaign.
func (h *Handlers) UpdateCampaignProgress(c *gin.Context) {
	var request struct {
		AddFundingUSD float64 `json:"add_funding_usd"`
		AddVolunteers int     `json:"add_volunteers"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := h.Campaigns.UpdateProgress(c.Request.Context(), c.Param("id"), request.AddFundingUSD, request.AddVolunteers)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}
