package embeddings

import (
	"strings"
	"testing"

	"go-ecosynk/types"
)

func TestReportText(t *testing.T) {
	r := types.Report{
		PrimaryMaterial:        "plastic",
		EstimatedVolume:        "large",
		SpecificItems:          []string{"water bottles", "plastic bags"},
		Description:            "Large pile of plastic waste near riverbank",
		EnvironmentalRiskLevel: "high",
		CleanupPriorityScore:   8,
		RecommendedEquipment:   []string{"gloves", "trash bags"},
	}
	text := ReportText(r)

	for _, want := range []string{
		"Material type: plastic",
		"Volume: large",
		"water bottles, plastic bags",
		"Environmental risk: high",
		"Priority level: 8/10",
		"Equipment needed: gloves, trash bags",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("ReportText missing %q in %q", want, text)
		}
	}
}

func TestReportTextDefaults(t *testing.T) {
	text := ReportText(types.Report{})
	for _, want := range []string{"Material type: unknown", "Volume: medium", "various items", "Priority level: 5/10"} {
		if !strings.Contains(text, want) {
			t.Errorf("ReportText missing default %q in %q", want, text)
		}
	}
	if strings.Contains(text, "Equipment needed") {
		t.Error("equipment section should be absent when no equipment is listed")
	}
}

func TestVolunteerText(t *testing.T) {
	p := types.VolunteerProfile{
		Skills:             []string{"waste sorting", "heavy lifting"},
		ExperienceLevel:    "advanced",
		MaterialsExpertise: []string{"plastic", "metal"},
		Specializations:    []string{"river cleanup"},
		EquipmentOwned:     []string{"gloves", "truck"},
		PastCleanupCount:   25,
	}
	text := VolunteerText(p)
	for _, want := range []string{
		"Skills: waste sorting, heavy lifting",
		"Experience level: advanced",
		"Material expertise: plastic, metal",
		"Completed 25 cleanups",
		"Has equipment: gloves, truck",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("VolunteerText missing %q in %q", want, text)
		}
	}
}

func TestUserTextDeduplicatesTraits(t *testing.T) {
	u := types.UserProfile{
		Name:               "Aisha",
		Bio:                "beach lover",
		Interests:          []string{"recycling", "Beach Cleanup"},
		Skills:             []string{"recycling"},
		MaterialsExpertise: []string{"plastic"},
		Specializations:    []string{"beach cleanup"},
	}
	text := UserText(u)
	if got := strings.Count(strings.ToLower(text), "recycling"); got != 1 {
		t.Errorf("expected one occurrence of recycling, got %d in %q", got, text)
	}
	if got := strings.Count(strings.ToLower(text), "beach cleanup"); got != 1 {
		t.Errorf("expected one occurrence of beach cleanup, got %d in %q", got, text)
	}
}

func TestCosine(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{1, 0, 0}
	if got := Cosine(a, b); got < 0.9999 {
		t.Errorf("identical vectors should score 1, got %v", got)
	}
	c := []float32{0, 1, 0}
	if got := Cosine(a, c); got != 0 {
		t.Errorf("orthogonal vectors should score 0, got %v", got)
	}
	if got := Cosine(a, []float32{0, 0, 0}); got != 0 {
		t.Errorf("zero norm should score 0, got %v", got)
	}
	if got := Cosine(a, []float32{1, 0}); got != 0 {
		t.Errorf("mismatched lengths should score 0, got %v", got)
	}
}
