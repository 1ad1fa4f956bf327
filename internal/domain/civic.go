package domain

import "time"

// CivicStats is the synthesized engagement snapshot for one location.
// All numeric fields derive purely from the coordinate seed; only
// LastActivityAt folds in the wall clock.
type CivicStats struct {
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	ActiveIssues      int       `json:"active_issues"`
	ResolvedIssues    int       `json:"resolved_issues"`
	EngagementScore   int       `json:"engagement_score"`
	Participants      int       `json:"participants"`
	TokensDistributed int       `json:"tokens_distributed"`
	LastActivityAt    time.Time `json:"last_activity_at"`
}

// CivicIssue is one synthesized neighbourhood issue.
type CivicIssue struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Street      string    `json:"street"`
	Upvotes     int       `json:"upvotes"`
	Status      string    `json:"status"`
	ReportedAt  time.Time `json:"reported_at"`
}

// PricePoint is one entry of the synthesized token price history.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}
