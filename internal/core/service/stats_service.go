package service

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rcsnext/crm-api/internal/core/ports"
)

const topN = 5

// StatsService aggregates the movements visible to the caller's role
// scope into the dashboard view: totals, monthly revenue, and top
// clients/articles with their share of revenue.
type StatsService struct {
	movements ports.MovementRepository
	log       zerolog.Logger
}

func NewStatsService(movements ports.MovementRepository, log zerolog.Logger) *StatsService {
	return &StatsService{movements: movements, log: log}
}

func (s *StatsService) Dashboard(ctx context.Context, callerRole, entityCode string) (*ports.DashboardStats, error) {
	filter, err := scopeFilter(callerRole, entityCode)
	if err != nil {
		return nil, err
	}

	movements, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := &ports.DashboardStats{MovementCount: len(movements)}

	monthly := make(map[string]float64)
	byClient := make(map[string]float64)
	clientNames := make(map[string]string)
	byArticle := make(map[string]float64)
	articleLabels := make(map[string]string)

	for _, m := range movements {
		stats.TotalRevenue += m.Total
		monthly[m.Date.UTC().Format("2006-01")] += m.Total
		byClient[m.ClientCode] += m.Total
		clientNames[m.ClientCode] = m.ClientName

		articleKey := m.Brand + "|" + m.Description
		byArticle[articleKey] += m.Total
		articleLabels[articleKey] = m.Brand + " " + m.Description
	}

	stats.ClientCount = len(byClient)
	stats.Monthly = sortedMonthly(monthly)
	stats.TopClients = rankShares(byClient, clientNames, stats.TotalRevenue)
	stats.TopArticles = rankShares(byArticle, articleLabels, stats.TotalRevenue)

	return stats, nil
}

func sortedMonthly(monthly map[string]float64) []ports.MonthlyRevenue {
	out := make([]ports.MonthlyRevenue, 0, len(monthly))
	for month, revenue := range monthly {
		out = append(out, ports.MonthlyRevenue{Month: month, Revenue: round2(revenue)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// rankShares returns the topN keys by revenue with their percentage share
// of total. Ties break on key for deterministic output.
func rankShares(revenue map[string]float64, labels map[string]string, total float64) []ports.RankedShare {
	out := make([]ports.RankedShare, 0, len(revenue))
	for key, rev := range revenue {
		share := ports.RankedShare{Key: key, Label: labels[key], Revenue: round2(rev)}
		if total > 0 {
			share.Percent = round2(rev / total * 100)
		}
		out = append(out, share)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
