package civic

import (
	"fmt"
	"time"

	"github.com/civictrust-api/internal/domain"
	"github.com/civictrust-api/internal/pkg/dprg"
)

// Vocabularies for synthesized issues. Index lookups are seed-driven, so a
// location always reports the same issues.
var (
	categories = []string{"Roads", "Lighting", "Parks", "Waste", "Water", "Transit", "Safety"}
	streets    = []string{
		"Main St", "Oak Ave", "Maple Dr", "Cedar Ln", "Elm St",
		"River Rd", "Hill Crest", "Park Blvd", "Lake View", "Church St",
	}
	descriptions = []string{
		"Large pothole causing traffic slowdowns",
		"Street light out for over a week",
		"Overflowing trash bins near the playground",
		"Broken bench needs replacement",
		"Graffiti on the underpass wall",
		"Blocked storm drain flooding the sidewalk",
		"Faded crosswalk markings at the intersection",
		"Fallen tree branch blocking the bike lane",
	}
	statuses = []string{"open", "in_review", "resolved"}
)

const (
	basePrice       = 1.0
	maxHistoryDays  = 365
	defaultHistDays = 30
)

// Service synthesizes plausible, reproducible demo data for the dashboards.
// Numeric outputs depend only on the inputs; only timestamps fold in the
// clock, so "recent activity" stays recent across days while the scores for
// a location never move.
type Service interface {
	Stats(lat, lng float64) domain.CivicStats
	Issues(lat, lng float64) []domain.CivicIssue
	PriceHistory(days int) []domain.PricePoint
}

type service struct {
	now func() time.Time
}

// NewService creates the feed service. now may be nil and defaults to time.Now.
func NewService(now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{now: now}
}

func (s *service) Stats(lat, lng float64) domain.CivicStats {
	seq := dprg.New(dprg.Seed(lat, lng))
	stats := domain.CivicStats{
		Latitude:          lat,
		Longitude:         lng,
		ActiveIssues:      seq.NextIntIn(3, 30),
		ResolvedIssues:    seq.NextIntIn(10, 120),
		EngagementScore:   seq.NextIntIn(40, 99),
		Participants:      seq.NextIntIn(150, 2500),
		TokensDistributed: seq.NextIntIn(1000, 50000),
	}
	// Timestamp intentionally tracks the clock; everything above is pure.
	stats.LastActivityAt = s.now().UTC().Add(-time.Duration(seq.NextIntIn(1, 72)) * time.Hour)
	return stats
}

func (s *service) Issues(lat, lng float64) []domain.CivicIssue {
	seq := dprg.New(dprg.Seed(lat, lng))
	now := s.now().UTC()

	count := seq.NextIntIn(3, 7)
	issues := make([]domain.CivicIssue, 0, count)
	for i := 0; i < count; i++ {
		category := seq.Pick(categories)
		street := seq.Pick(streets)
		issues = append(issues, domain.CivicIssue{
			ID:          fmt.Sprintf("issue-%04d-%d", int(dprg.Seed(lat, lng))%10000, i),
			Category:    category,
			Title:       category + " issue on " + street,
			Description: seq.Pick(descriptions),
			Street:      street,
			Upvotes:     seq.NextIntIn(0, 250),
			Status:      seq.Pick(statuses),
			ReportedAt:  now.AddDate(0, 0, -seq.NextIntIn(0, 30)),
		})
	}
	return issues
}

func (s *service) PriceHistory(days int) []domain.PricePoint {
	if days < 1 || days > maxHistoryDays {
		days = defaultHistDays
	}
	seq := dprg.New(dprg.SeedString("cvt-price"))
	today := s.now().UTC().Truncate(24 * time.Hour)

	// Values are indexed off the series start, not the calendar, so the
	// shape of the curve is stable; only the date labels move with time.
	points := make([]domain.PricePoint, 0, days)
	price := basePrice
	for i := 0; i < days; i++ {
		price += (seq.Next() - 0.5) * 0.08
		if price < 0.1 {
			price = 0.1
		}
		points = append(points, domain.PricePoint{
			Date:  today.AddDate(0, 0, i-days+1),
			Price: float64(int(price*10000)) / 10000,
		})
	}
	return points
}
