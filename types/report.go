package types

// Report is an analyzed trash report. Immutable once stored, except for
// appended metadata such as the reverse-geocoded place label.
type Report struct {
	ReportID               string    `json:"report_id"`
	PrimaryMaterial        string    `json:"primary_material"`
	EstimatedVolume        string    `json:"estimated_volume"`
	SpecificItems          []string  `json:"specific_items,omitempty"`
	Description            string    `json:"description"`
	EnvironmentalRiskLevel string    `json:"environmental_risk_level"`
	CleanupPriorityScore   float64   `json:"cleanup_priority_score"`
	RecommendedEquipment   []string  `json:"recommended_equipment,omitempty"`
	Location               *Location `json:"location,omitempty"`
	PlaceLabel             string    `json:"place_label,omitempty"`
	UserID                 string    `json:"user_id,omitempty"`
	Timestamp              string    `json:"timestamp"`
}

// SimilarReport is a report returned from a similarity search, with its score.
type SimilarReport struct {
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	Report Report  `json:"data"`
}
