package types

// Campaign statuses.
const (
	CampaignActive  = "active"
	CampaignExpired = "expired"
)

// CampaignHotspot summarizes the reports a campaign was built from. Materials
// keep first-seen order, de-duplicated.
type CampaignHotspot struct {
	ReportCount     int      `json:"report_count"`
	ReportIDs       []string `json:"report_ids"`
	AveragePriority float64  `json:"average_priority"`
	Materials       []string `json:"materials"`
}

// CampaignGoals tracks funding and volunteer targets. Progress percentages are
// clamped to [0,100].
type CampaignGoals struct {
	TargetFundingUSD         float64 `json:"target_funding_usd"`
	CurrentFundingUSD        float64 `json:"current_funding_usd"`
	FundingProgressPercent   float64 `json:"funding_progress_percent"`
	VolunteerGoal            int     `json:"volunteer_goal"`
	CurrentVolunteers        int     `json:"current_volunteers"`
	VolunteerProgressPercent float64 `json:"volunteer_progress_percent"`
}

// CampaignTimeline. EndDate is always StartDate + DurationDays.
type CampaignTimeline struct {
	StartDate    string `json:"start_date"`
	DurationDays int    `json:"duration_days"`
	EndDate      string `json:"end_date"`
}

// ImpactEstimates are derived from fixed per-unit constants at creation time.
type ImpactEstimates struct {
	EstimatedWasteKg         float64 `json:"estimated_waste_kg"`
	EstimatedVolunteerHours  int     `json:"estimated_volunteer_hours"`
	EstimatedCO2ReductionKg  float64 `json:"estimated_co2_reduction_kg"`
}

// Campaign is a funded, time-boxed cleanup initiative aggregating reports.
type Campaign struct {
	CampaignID      string           `json:"campaign_id"`
	CampaignName    string           `json:"campaign_name"`
	Status          string           `json:"status"`
	CreatedAt       string           `json:"created_at"`
	Location        Location         `json:"location"`
	Hotspot         CampaignHotspot  `json:"hotspot"`
	Goals           CampaignGoals    `json:"goals"`
	Timeline        CampaignTimeline `json:"timeline"`
	ImpactEstimates ImpactEstimates  `json:"impact_estimates"`
}

// HotspotResult is the outcome of hotspot detection for a report.
type HotspotResult struct {
	IsHotspot           bool            `json:"is_hotspot"`
	SimilarReportsCount int             `json:"similar_reports_count"`
	Severity            string          `json:"severity"`
	Recommendation      string          `json:"recommendation"`
	PastReports         []SimilarReport `json:"past_reports"`
}
