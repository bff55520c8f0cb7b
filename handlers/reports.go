package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-ecosynk/hotspot"
	"go-ecosynk/types"
)

// StoreReport ingests one analyzed report.
func (h *Handlers) StoreReport(c *gin.Context) {
	var report types.Report
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.Reports.Store(c.Request.Context(), &report)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report_id": id})
}

// GetReport returns one stored report.
func (h *Handlers) GetReport(c *gin.Context) {
	report, err := h.Reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// SearchReports runs the relaxing semantic report search.
func (h *Handlers) SearchReports(c *gin.Context) {
	var request struct {
		Query          string          `json:"query"`
		Limit          int             `json:"limit"`
		ScoreThreshold float64         `json:"score_threshold"`
		Location       *types.Location `json:"location,omitempty"`
		RadiusKm       float64         `json:"radius_km"`
		TimeWindowDays int             `json:"time_window_days"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Detector.Search(c.Request.Context(), hotspot.SearchQuery{
		Text:           request.Query,
		Limit:          request.Limit,
		ScoreThreshold: request.ScoreThreshold,
		Location:       request.Location,
		RadiusKm:       request.RadiusKm,
		TimeWindowDays: request.TimeWindowDays,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DetectHotspot classifies a report description against recent similar
// reports.
func (h *Handlers) DetectHotspot(c *gin.Context) {
	var request struct {
		ReportText        string `json:"report_text"`
		TimeWindowDays    int    `json:"time_window_days"`
		MinSimilarReports int    `json:"min_similar_reports"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.TimeWindowDays == 0 {
		request.TimeWindowDays = 30
	}
	if request.MinSimilarReports == 0 {
		request.MinSimilarReports = 3
	}

	result, err := h.Detector.DetectForText(c.Request.Context(), request.ReportText, request.TimeWindowDays, request.MinSimilarReports)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
