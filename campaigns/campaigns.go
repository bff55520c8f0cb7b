// Package campaigns aggregates matched reports into funded, time-boxed
// cleanup campaigns and tracks their lifecycle.
package campaigns

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-ecosynk/embeddings"
	"go-ecosynk/types"
	"go-ecosynk/vectorstore"
)

var (
	ErrNotFound     = errors.New("campaign not found")
	ErrInvalidInput = errors.New("invalid campaign input")
)

// Per-report impact constants.
const (
	wasteKgPerReport = 25.0
	co2KgPerWasteKg  = 0.5
	hoursPerSeat     = 4
)

const (
	scrollPageSize  = 100
	defaultPriority = 5.0
)

// Manager owns campaign creation and lifecycle against the campaign and
// report collections.
type Manager struct {
	store     vectorstore.Store
	embedder  embeddings.Provider
	reports   string
	campaigns string
	now       func() time.Time
}

func NewManager(store vectorstore.Store, embedder embeddings.Provider, reports, campaigns string) *Manager {
	return &Manager{
		store:     store,
		embedder:  embedder,
		reports:   reports,
		campaigns: campaigns,
		now:       time.Now,
	}
}

// CreateRequest describes a campaign to build from existing reports.
type CreateRequest struct {
	ReportIDs     []string        `json:"report_ids"`
	Name          string          `json:"campaign_name,omitempty"`
	Description   string          `json:"description,omitempty"`
	Location      *types.Location `json:"location,omitempty"`
	FundingGoal   float64         `json:"funding_goal_usd"`
	VolunteerGoal int             `json:"volunteer_goal"`
	DurationDays  int             `json:"duration_days"`
}

// Create resolves the report ids, aggregates them into a campaign and stores
// it. Fails NotFound when none of the ids resolve.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*types.Campaign, error) {
	if len(req.ReportIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one report id is required", ErrInvalidInput)
	}
	if req.FundingGoal <= 0 {
		return nil, fmt.Errorf("%w: funding_goal_usd must be positive", ErrInvalidInput)
	}
	if req.VolunteerGoal <= 0 {
		return nil, fmt.Errorf("%w: volunteer_goal must be positive", ErrInvalidInput)
	}
	if req.DurationDays <= 0 {
		return nil, fmt.Errorf("%w: duration_days must be positive", ErrInvalidInput)
	}

	resolved, err := m.resolveReports(ctx, req.ReportIDs)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		return nil, fmt.Errorf("%w: none of the report ids resolve", ErrNotFound)
	}

	var (
		prioritySum   float64
		priorityCount int
		materials     []string
		seen          = map[string]bool{}
		resolvedIDs   = make([]string, 0, len(resolved))
	)
	for _, r := range resolved {
		resolvedIDs = append(resolvedIDs, r.ReportID)
		if r.CleanupPriorityScore > 0 {
			prioritySum += r.CleanupPriorityScore
			priorityCount++
		}
		material := strings.TrimSpace(r.PrimaryMaterial)
		if material != "" && !seen[strings.ToLower(material)] {
			seen[strings.ToLower(material)] = true
			materials = append(materials, material)
		}
	}

	avgPriority := defaultPriority
	if priorityCount > 0 {
		avgPriority = prioritySum / float64(priorityCount)
	}

	name := req.Name
	if name == "" {
		name = autoName(materials)
	}

	now := m.now().UTC()
	start := now.Format(time.RFC3339)
	end := now.AddDate(0, 0, req.DurationDays).Format(time.RFC3339)
	var loc types.Location
	if req.Location != nil {
		loc = *req.Location
	}

	campaign := &types.Campaign{
		CampaignID:   "campaign_" + uuid.NewString()[:8],
		CampaignName: name,
		Status:       types.CampaignActive,
		CreatedAt:    start,
		Location:     loc,
		Hotspot: types.CampaignHotspot{
			ReportCount:     len(resolved),
			ReportIDs:       resolvedIDs,
			AveragePriority: avgPriority,
			Materials:       materials,
		},
		Goals: types.CampaignGoals{
			TargetFundingUSD: req.FundingGoal,
			VolunteerGoal:    req.VolunteerGoal,
		},
		Timeline: types.CampaignTimeline{
			StartDate:    start,
			DurationDays: req.DurationDays,
			EndDate:      end,
		},
		ImpactEstimates: types.ImpactEstimates{
			EstimatedWasteKg:        wasteKgPerReport * float64(len(resolved)),
			EstimatedVolunteerHours: hoursPerSeat * req.VolunteerGoal,
			EstimatedCO2ReductionKg: co2KgPerWasteKg * wasteKgPerReport * float64(len(resolved)),
		},
	}

	vector, err := m.embedder.Embed(ctx, fmt.Sprintf("%s %s priority:%.1f", name, req.Description, avgPriority))
	if err != nil {
		return nil, fmt.Errorf("embedding campaign: %w", err)
	}
	payload, err := types.ToPayload(campaign)
	if err != nil {
		return nil, fmt.Errorf("encoding campaign: %w", err)
	}
	if _, err := m.store.Upsert(ctx, m.campaigns, campaign.CampaignID, vector, payload); err != nil {
		return nil, fmt.Errorf("storing campaign: %w", err)
	}
	return campaign, nil
}

// resolveReports pages through the report collection to exhaustion, keeping
// reports whose payload report_id is in the requested set.
func (m *Manager) resolveReports(ctx context.Context, ids []string) ([]types.Report, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var resolved []types.Report
	offset := ""
	for {
		points, next, err := m.store.Scroll(ctx, m.reports, scrollPageSize, offset, nil)
		if err != nil {
			return nil, fmt.Errorf("scanning reports: %w", err)
		}
		for _, p := range points {
			var report types.Report
			if err := types.FromPayload(p.Payload, &report); err != nil {
				log.Printf("Skipping malformed report payload %s: %v", p.ID, err)
				continue
			}
			if wanted[report.ReportID] {
				resolved = append(resolved, report)
				delete(wanted, report.ReportID)
			}
		}
		if next == "" || len(wanted) == 0 {
			return resolved, nil
		}
		offset = next
	}
}

// Get fetches one campaign by its business id.
func (m *Manager) Get(ctx context.Context, campaignID string) (*types.Campaign, error) {
	points, err := m.store.Retrieve(ctx, m.campaigns, []string{campaignID})
	if err != nil {
		return nil, fmt.Errorf("loading campaign %s: %w", campaignID, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, campaignID)
	}
	var campaign types.Campaign
	if err := types.FromPayload(points[0].Payload, &campaign); err != nil {
		return nil, fmt.Errorf("decoding campaign %s: %w", campaignID, err)
	}
	return &campaign, nil
}

// List returns every stored campaign, newest first. Malformed records are
// skipped, never aborting the scan.
func (m *Manager) List(ctx context.Context) ([]types.Campaign, error) {
	campaigns, err := m.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	sortByCreatedDesc(campaigns)
	return campaigns, nil
}

// GetActive returns campaigns that are active and not yet past their end
// date, newest first.
func (m *Manager) GetActive(ctx context.Context) ([]types.Campaign, error) {
	all, err := m.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	now := m.now()
	active := make([]types.Campaign, 0, len(all))
	for _, c := range all {
		if c.Status != types.CampaignActive {
			continue
		}
		end, err := time.Parse(time.RFC3339, c.Timeline.EndDate)
		if err != nil {
			log.Printf("Skipping campaign %s with bad end date %q: %v", c.CampaignID, c.Timeline.EndDate, err)
			continue
		}
		if end.After(now) {
			active = append(active, c)
		}
	}
	sortByCreatedDesc(active)
	return active, nil
}

// UpdateProgress adds funding and volunteers to a campaign and recomputes the
// clamped progress percentages. Concurrent updates race last-write-wins.
func (m *Manager) UpdateProgress(ctx context.Context, campaignID string, addFundingUSD float64, addVolunteers int) (*types.Campaign, error) {
	if addFundingUSD < 0 || addVolunteers < 0 {
		return nil, fmt.Errorf("%w: progress increments must be non-negative", ErrInvalidInput)
	}

	points, err := m.store.Retrieve(ctx, m.campaigns, []string{campaignID})
	if err != nil {
		return nil, fmt.Errorf("loading campaign %s: %w", campaignID, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, campaignID)
	}
	var campaign types.Campaign
	if err := types.FromPayload(points[0].Payload, &campaign); err != nil {
		return nil, fmt.Errorf("decoding campaign %s: %w", campaignID, err)
	}

	campaign.Goals.CurrentFundingUSD += addFundingUSD
	campaign.Goals.CurrentVolunteers += addVolunteers
	campaign.Goals.FundingProgressPercent = progressPercent(campaign.Goals.CurrentFundingUSD, campaign.Goals.TargetFundingUSD)
	campaign.Goals.VolunteerProgressPercent = progressPercent(float64(campaign.Goals.CurrentVolunteers), float64(campaign.Goals.VolunteerGoal))

	payload, err := types.ToPayload(&campaign)
	if err != nil {
		return nil, fmt.Errorf("encoding campaign %s: %w", campaignID, err)
	}
	if _, err := m.store.Upsert(ctx, m.campaigns, campaign.CampaignID, points[0].Vector, payload); err != nil {
		return nil, fmt.Errorf("storing campaign %s: %w", campaignID, err)
	}
	return &campaign, nil
}

// ExpireDue flips past-end active campaigns to expired, reusing the scan's
// vectors so each expiry costs a single write. Returns how many were expired.
func (m *Manager) ExpireDue(ctx context.Context) (int, error) {
	points, err := m.scanPoints(ctx)
	if err != nil {
		return 0, err
	}
	now := m.now()
	expired := 0
	for _, p := range points {
		var c types.Campaign
		if err := types.FromPayload(p.Payload, &c); err != nil {
			log.Printf("Skipping malformed campaign payload %s: %v", p.ID, err)
			continue
		}
		if c.Status != types.CampaignActive {
			continue
		}
		end, err := time.Parse(time.RFC3339, c.Timeline.EndDate)
		if err != nil || end.After(now) {
			continue
		}
		c.Status = types.CampaignExpired
		payload, err := types.ToPayload(&c)
		if err != nil {
			log.Printf("Could not encode campaign %s for expiry: %v", c.CampaignID, err)
			continue
		}
		if _, err := m.store.Upsert(ctx, m.campaigns, c.CampaignID, p.Vector, payload); err != nil {
			log.Printf("Could not expire campaign %s: %v", c.CampaignID, err)
			continue
		}
		expired++
	}
	return expired, nil
}

func (m *Manager) scanPoints(ctx context.Context) ([]vectorstore.Point, error) {
	var out []vectorstore.Point
	offset := ""
	for {
		points, next, err := m.store.Scroll(ctx, m.campaigns, scrollPageSize, offset, nil)
		if err != nil {
			return nil, fmt.Errorf("scanning campaigns: %w", err)
		}
		out = append(out, points...)
		if next == "" {
			return out, nil
		}
		offset = next
	}
}

func (m *Manager) scanAll(ctx context.Context) ([]types.Campaign, error) {
	points, err := m.scanPoints(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.Campaign, 0, len(points))
	for _, p := range points {
		var campaign types.Campaign
		if err := types.FromPayload(p.Payload, &campaign); err != nil {
			log.Printf("Skipping malformed campaign payload %s: %v", p.ID, err)
			continue
		}
		out = append(out, campaign)
	}
	return out, nil
}

func sortByCreatedDesc(campaigns []types.Campaign) {
	sort.SliceStable(campaigns, func(i, j int) bool {
		return campaigns[i].CreatedAt > campaigns[j].CreatedAt
	})
}

func progressPercent(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(100, current/target*100)
}

// autoName derives a campaign name from the first two materials, e.g.
// "Plastic, Metal Cleanup Campaign".
func autoName(materials []string) string {
	if len(materials) == 0 {
		return "Community Cleanup Campaign"
	}
	lead := materials
	if len(lead) > 2 {
		lead = lead[:2]
	}
	titled := make([]string, len(lead))
	for i, m := range lead {
		titled[i] = titleCase(m)
	}
	return strings.Join(titled, ", ") + " Cleanup Campaign"
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
