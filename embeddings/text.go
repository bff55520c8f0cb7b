package embeddings

import (
	"fmt"
	"strings"

	"go-ecosynk/types"
)

// ReportText builds the text representation a trash report is embedded from.
// Combines material, volume, items, description and risk into one string so
// semantically similar reports land close together.
func ReportText(r types.Report) string {
	material := orDefault(r.PrimaryMaterial, "unknown")
	volume := orDefault(r.EstimatedVolume, "medium")
	risk := orDefault(r.EnvironmentalRiskLevel, "medium")
	priority := r.CleanupPriorityScore
	if priority == 0 {
		priority = 5
	}

	items := "various items"
	if len(r.SpecificItems) > 0 {
		items = strings.Join(r.SpecificItems, ", ")
	}

	parts := []string{
		fmt.Sprintf("Material type: %s", material),
		fmt.Sprintf("Volume: %s", volume),
		fmt.Sprintf("Items found: %s", items),
		fmt.Sprintf("Description: %s", r.Description),
		fmt.Sprintf("Environmental risk: %s", risk),
		fmt.Sprintf("Priority level: %v/10", priority),
	}
	if len(r.RecommendedEquipment) > 0 {
		parts = append(parts, fmt.Sprintf("Equipment needed: %s", strings.Join(r.RecommendedEquipment, ", ")))
	}
	return strings.Join(parts, ". ")
}

// VolunteerText builds the text a volunteer profile is embedded from.
func VolunteerText(p types.VolunteerProfile) string {
	skills := "general volunteer"
	if len(p.Skills) > 0 {
		skills = strings.Join(p.Skills, ", ")
	}
	materials := "all types"
	if len(p.MaterialsExpertise) > 0 {
		materials = strings.Join(p.MaterialsExpertise, ", ")
	}
	specs := "general cleanup"
	if len(p.Specializations) > 0 {
		specs = strings.Join(p.Specializations, ", ")
	}

	parts := []string{
		fmt.Sprintf("Skills: %s", skills),
		fmt.Sprintf("Experience level: %s", orDefault(p.ExperienceLevel, types.ExperienceBeginner)),
		fmt.Sprintf("Material expertise: %s", materials),
		fmt.Sprintf("Specializations: %s", specs),
	}
	if p.PastCleanupCount > 0 {
		parts = append(parts, fmt.Sprintf("Completed %d cleanups", p.PastCleanupCount))
	}
	if len(p.EquipmentOwned) > 0 {
		parts = append(parts, fmt.Sprintf("Has equipment: %s", strings.Join(p.EquipmentOwned, ", ")))
	}
	return strings.Join(parts, ". ")
}

// UserText builds the text a user profile is embedded from: name, bio and the
// union of interests, skills, materials expertise and specializations.
func UserText(u types.UserProfile) string {
	var traits []string
	traits = append(traits, u.Interests...)
	traits = append(traits, u.Skills...)
	traits = append(traits, u.MaterialsExpertise...)
	traits = append(traits, u.Specializations...)

	seen := make(map[string]bool, len(traits))
	uniq := traits[:0]
	for _, tr := range traits {
		key := strings.ToLower(strings.TrimSpace(tr))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, tr)
	}

	return strings.TrimSpace(fmt.Sprintf("%s %s %s", u.Name, u.Bio, strings.Join(uniq, " ")))
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
