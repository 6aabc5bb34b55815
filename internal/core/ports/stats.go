package ports

import "context"

// MonthlyRevenue is one month's aggregated revenue, keyed YYYY-MM.
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// RankedShare ranks a key (client or article) by revenue with its share of
// the caller-visible total.
type RankedShare struct {
	Key     string  `json:"key"`
	Label   string  `json:"label,omitempty"`
	Revenue float64 `json:"revenue"`
	Percent float64 `json:"percent"`
}

// DashboardStats is the aggregated view powering the dashboard.
type DashboardStats struct {
	TotalRevenue  float64          `json:"total_revenue"`
	MovementCount int              `json:"movement_count"`
	ClientCount   int              `json:"client_count"`
	Monthly       []MonthlyRevenue `json:"monthly"`
	TopClients    []RankedShare    `json:"top_clients"`
	TopArticles   []RankedShare    `json:"top_articles"`
}

// StatsService aggregates the movements visible to the caller's role scope.
type StatsService interface {
	Dashboard(ctx context.Context, callerRole, entityCode string) (*DashboardStats, error)
}
