// Package handlers holds the gin handlers for the EcoSynk API. All service
// dependencies are injected so tests can run against in-memory fakes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-ecosynk/campaigns"
	"go-ecosynk/hotspot"
	"go-ecosynk/matching"
	"go-ecosynk/recommend"
	"go-ecosynk/reports"
	"go-ecosynk/users"
	"go-ecosynk/vectorstore"
)

// Handlers bundles the injected services behind the HTTP surface.
type Handlers struct {
	Store     vectorstore.Store
	Reports   *reports.Service
	Users     *users.Service
	Matcher   *matching.Engine
	Detector  *hotspot.Detector
	Recommend *recommend.Engine
	Campaigns *campaigns.Manager
}

// fail maps service errors onto HTTP statuses.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, reports.ErrInvalidInput),
		errors.Is(err, users.ErrInvalidInput),
		errors.Is(err, matching.ErrInvalidInput),
		errors.Is(err, hotspot.ErrInvalidInput),
		errors.Is(err, recommend.ErrInvalidInput),
		errors.Is(err, campaigns.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, reports.ErrNotFound),
		errors.Is(err, users.ErrNotFound),
		errors.Is(err, recommend.ErrNotFound),
		errors.Is(err, campaigns.ErrNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// GetStats returns per-collection point counts.
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.Store.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": stats})
}
