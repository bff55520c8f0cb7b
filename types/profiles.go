package types

import "strings"

// Experience levels, ordered weakest to strongest.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
	ExperienceExpert       = "expert"
)

var experienceRanks = map[string]int{
	ExperienceBeginner:     1,
	ExperienceIntermediate: 2,
	ExperienceAdvanced:     3,
	ExperienceExpert:       4,
}

// ExperienceRank maps a level name to its position in the ordering.
// Unknown or empty levels rank as beginner.
func ExperienceRank(level string) int {
	if r, ok := experienceRanks[strings.ToLower(strings.TrimSpace(level))]; ok {
		return r
	}
	return experienceRanks[ExperienceBeginner]
}

// VolunteerProfile describes a cleanup volunteer. Availability is mutable in
// place; the rest is append-only.
type VolunteerProfile struct {
	UserID             string    `json:"user_id"`
	Name               string    `json:"name"`
	Skills             []string  `json:"skills,omitempty"`
	ExperienceLevel    string    `json:"experience_level"`
	ExperienceRank     int       `json:"experience_rank,omitempty"`
	MaterialsExpertise []string  `json:"materials_expertise,omitempty"`
	Specializations    []string  `json:"specializations,omitempty"`
	EquipmentOwned     []string  `json:"equipment_owned,omitempty"`
	Location           *Location `json:"location,omitempty"`
	City               string    `json:"city,omitempty"`
	Available          bool      `json:"available"`
	PastCleanupCount   int       `json:"past_cleanup_count"`
	CreatedAt          string    `json:"created_at,omitempty"`
}

// UserStats tracks a user's activity counters.
type UserStats struct {
	CampaignsJoined     int     `json:"campaigns_joined"`
	CampaignsCreated    int     `json:"campaigns_created"`
	DonationsMade       int     `json:"donations_made"`
	TotalAreaCleanedSqm float64 `json:"total_area_cleaned_sqm"`
	TotalCO2SavedKg     float64 `json:"total_co2_saved_kg"`
	IndividualReports   int     `json:"individual_reports"`
}

// UserProfile is a platform user. Volunteer-flavored fields (materials
// expertise, specializations) are optional and present when the user also
// volunteers.
type UserProfile struct {
	UserID             string    `json:"user_id"`
	Name               string    `json:"name"`
	Bio                string    `json:"bio,omitempty"`
	City               string    `json:"city,omitempty"`
	Country            string    `json:"country,omitempty"`
	Location           *Location `json:"location,omitempty"`
	Interests          []string  `json:"interests,omitempty"`
	Skills             []string  `json:"skills,omitempty"`
	ExperienceLevel    string    `json:"experience_level,omitempty"`
	MaterialsExpertise []string  `json:"materials_expertise,omitempty"`
	Specializations    []string  `json:"specializations,omitempty"`
	Following          []string  `json:"following,omitempty"`
	Followers          []string  `json:"followers,omitempty"`
	TotalCleanups      int       `json:"total_cleanups"`
	Stats              UserStats `json:"stats"`
	CreatedAt          string    `json:"created_at,omitempty"`
	UpdatedAt          string    `json:"updated_at,omitempty"`
}

// MatchableProfile is the single typed surface the recommendation engine
// scores against. Both user and volunteer profiles implement it.
type MatchableProfile interface {
	ID() string
	ProfileInterests() []string
	ProfileSkills() []string
	ProfileMaterials() []string
	ProfileSpecializations() []string
	ProfileCity() string
	Experience() string
	Activity() (campaignsJoined, totalCleanups int)
}

func (u *UserProfile) ID() string                       { return u.UserID }
func (u *UserProfile) ProfileInterests() []string       { return u.Interests }
func (u *UserProfile) ProfileSkills() []string          { return u.Skills }
func (u *UserProfile) ProfileMaterials() []string       { return u.MaterialsExpertise }
func (u *UserProfile) ProfileSpecializations() []string { return u.Specializations }
func (u *UserProfile) ProfileCity() string              { return u.City }
func (u *UserProfile) Experience() string               { return u.ExperienceLevel }
func (u *UserProfile) Activity() (int, int)             { return u.Stats.CampaignsJoined, u.TotalCleanups }

func (v *VolunteerProfile) ID() string                       { return v.UserID }
func (v *VolunteerProfile) ProfileInterests() []string       { return nil }
func (v *VolunteerProfile) ProfileSkills() []string          { return v.Skills }
func (v *VolunteerProfile) ProfileMaterials() []string       { return v.MaterialsExpertise }
func (v *VolunteerProfile) ProfileSpecializations() []string { return v.Specializations }
func (v *VolunteerProfile) ProfileCity() string              { return v.City }
func (v *VolunteerProfile) Experience() string               { return v.ExperienceLevel }
func (v *VolunteerProfile) Activity() (int, int)             { return 0, v.PastCleanupCount }

// VolunteerMatch is a volunteer returned by the matching engine. DistanceKm is
// set only when both the task and the volunteer have coordinates.
type VolunteerMatch struct {
	VolunteerProfile
	MatchScore float64  `json:"match_score"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// RecommendationFactors is the per-factor score breakdown attached to every
// recommended user for explainability.
type RecommendationFactors struct {
	VectorSimilarity        float64 `json:"vector_similarity"`
	ExperienceCompatibility float64 `json:"experience_compatibility"`
	CommonInterests         float64 `json:"common_interests"`
	CommonSkills            float64 `json:"common_skills"`
	CommonMaterials         float64 `json:"common_materials"`
	CommonSpecializations   float64 `json:"common_specializations"`
	LocationMatch           float64 `json:"location_match"`
	ActivityLevel           float64 `json:"activity_level"`
}

// RecommendedUser is a ranked recommendation candidate.
type RecommendedUser struct {
	UserProfile
	RecommendationScore   float64               `json:"recommendation_score"`
	RecommendationFactors RecommendationFactors `json:"recommendation_factors"`
}
