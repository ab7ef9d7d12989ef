package services

import (
	"context"
	"fmt"
	"time"

	"kharcha/internal/api"
	"kharcha/internal/cache"
	"kharcha/internal/core"
)

// SummaryService fetches server-derived monthly summaries and computes the
// percentage figures the API does not provide in presentation shape.
type SummaryService struct {
	client *api.Client
	cache  *cache.LRUCache[core.MonthlySummary]
}

func NewSummaryService(client *api.Client) *SummaryService {
	return &SummaryService{
		client: client,
		cache:  cache.NewLRUCache[core.MonthlySummary](24, time.Minute),
	}
}

// Monthly returns the summary for a period, or (nil, nil) when the server
// has no data for it (404). Every other failure is an error; callers must
// distinguish "no data" from "request failed". Absence is never cached.
func (s *SummaryService) Monthly(ctx context.Context, year, month int) (*core.MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}
	key := fmt.Sprintf("%04d-%02d", year, month)
	if cached, ok := s.cache.Get(key); ok {
		return &cached, nil
	}

	summary, err := s.client.MonthlySummary(ctx, year, month)
	if err != nil {
		if api.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch summary %s: %w", key, err)
	}
	s.cache.Set(key, summary)
	return &summary, nil
}

// BreakdownPercentages computes each category's share of total spending.
// A zero total guards the division: every share is 0, never NaN.
func BreakdownPercentages(breakdown map[string]core.Money, totalSpent core.Money) map[string]float64 {
	out := make(map[string]float64, len(breakdown))
	for name, amount := range breakdown {
		if totalSpent.Cents == 0 {
			out[name] = 0
			continue
		}
		out[name] = float64(amount.Abs().Cents) / float64(totalSpent.Abs().Cents) * 100
	}
	return out
}
