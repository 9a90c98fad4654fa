package dashboard

import (
	"context"
	"math"
	"sort"

	"github.com/jferrall/teachbridge/backend/internal/model/comm"
	"github.com/jferrall/teachbridge/backend/internal/store"
)

// Service computes dashboard statistics. Pure read side: every call
// recomputes from the store's current contents, nothing is cached.
type Service struct {
	store store.Store
}

// NewService returns an aggregator over st.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Stats aggregates the user's inquiries and responses: totals, sent count,
// mean generation latency, and the inquiry language distribution.
func (s *Service) Stats(ctx context.Context, userID string) (comm.DashboardStats, error) {
	inquiries, err := s.store.ListInquiriesByUser(ctx, userID)
	if err != nil {
		return comm.DashboardStats{}, err
	}
	responses, err := s.store.ListResponsesByUser(ctx, userID)
	if err != nil {
		return comm.DashboardStats{}, err
	}

	stats := comm.DashboardStats{
		TotalInquiries:       len(inquiries),
		LanguageDistribution: make([]comm.LanguageShare, 0),
	}

	var timedResponses, totalTime int64
	for _, response := range responses {
		if response.Status == comm.ResponseSent {
			stats.AutoResponses++
		}
		if response.ResponseTime > 0 {
			timedResponses++
			totalTime += response.ResponseTime
		}
	}
	if timedResponses > 0 {
		stats.AvgResponseTime = int64(math.Round(float64(totalTime) / float64(timedResponses)))
	}

	if len(inquiries) == 0 {
		return stats, nil
	}

	counts := make(map[string]int)
	for _, inquiry := range inquiries {
		counts[inquiry.Language]++
	}

	languages := make([]string, 0, len(counts))
	for language := range counts {
		languages = append(languages, language)
	}
	sort.Strings(languages)

	for _, language := range languages {
		count := counts[language]
		stats.LanguageDistribution = append(stats.LanguageDistribution, comm.LanguageShare{
			Language:   language,
			Count:      count,
			Percentage: int(math.Round(float64(count) / float64(len(inquiries)) * 100)),
		})
	}
	return stats, nil
}
