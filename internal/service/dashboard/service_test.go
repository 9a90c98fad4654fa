package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jferrall/teachbridge/backend/internal/model/comm"
	"github.com/jferrall/teachbridge/backend/internal/store"
)

func newFixture(t *testing.T) (*Service, *store.MemoryStore, comm.User) {
	t.Helper()
	st := store.NewMemoryStore()
	user, err := store.Seed(context.Background(), st)
	require.NoError(t, err)
	return NewService(st), st, user
}

func addInquiry(t *testing.T, st *store.MemoryStore, userID, language string) comm.Inquiry {
	t.Helper()
	inquiry, err := st.CreateInquiry(context.Background(), store.NewInquiry{
		Type:     comm.InquiryGeneralQuestion,
		Content:  "A question long enough to store.",
		Language: language,
		UserID:   userID,
	})
	require.NoError(t, err)
	return inquiry
}

func addResponse(t *testing.T, st *store.MemoryStore, inquiryID string, responseTime int64, sent bool) {
	t.Helper()
	ctx := context.Background()
	response, err := st.CreateResponse(ctx, store.NewResponse{
		InquiryID:    inquiryID,
		Content:      "Dear Parent, noted.",
		Language:     "en",
		ResponseTime: responseTime,
	})
	require.NoError(t, err)

	if sent {
		status := comm.ResponseSent
		now := time.Now().UTC()
		_, err = st.UpdateResponse(ctx, response.ID, store.ResponsePatch{Status: &status, SentAt: &now})
		require.NoError(t, err)
	}
}

func TestStatsEmptyStore(t *testing.T) {
	svc, _, user := newFixture(t)

	stats, err := svc.Stats(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Zero(t, stats.TotalInquiries)
	assert.Zero(t, stats.AutoResponses)
	assert.Zero(t, stats.AvgResponseTime)
	assert.NotNil(t, stats.LanguageDistribution)
	assert.Empty(t, stats.LanguageDistribution)
}

func TestStatsAggregates(t *testing.T) {
	svc, st, user := newFixture(t)

	en1 := addInquiry(t, st, user.ID, "en")
	en2 := addInquiry(t, st, user.ID, "en")
	es := addInquiry(t, st, user.ID, "es")

	addResponse(t, st, en1.ID, 1000, true)
	addResponse(t, st, en2.ID, 2000, false)
	addResponse(t, st, es.ID, 0, true) // untimed, excluded from the mean

	stats, err := svc.Stats(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalInquiries)
	assert.EqualValues(t, 2, stats.AutoResponses)
	assert.EqualValues(t, 1500, stats.AvgResponseTime)

	require.Len(t, stats.LanguageDistribution, 2)
	assert.Equal(t, "en", stats.LanguageDistribution[0].Language)
	assert.Equal(t, 2, stats.LanguageDistribution[0].Count)
	assert.Equal(t, 67, stats.LanguageDistribution[0].Percentage)
	assert.Equal(t, "es", stats.LanguageDistribution[1].Language)
	assert.Equal(t, 1, stats.LanguageDistribution[1].Count)
	assert.Equal(t, 33, stats.LanguageDistribution[1].Percentage)
}

func TestStatsIgnoresOtherUsers(t *testing.T) {
	svc, st, user := newFixture(t)

	other, err := st.CreateUser(context.Background(), store.NewUser{Username: "other.teacher", Password: "password"})
	require.NoError(t, err)

	addInquiry(t, st, user.ID, "en")
	foreign := addInquiry(t, st, other.ID, "fr")
	addResponse(t, st, foreign.ID, 5000, true)

	stats, err := svc.Stats(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalInquiries)
	assert.Zero(t, stats.AutoResponses)
	assert.Zero(t, stats.AvgResponseTime)
	require.Len(t, stats.LanguageDistribution, 1)
	assert.Equal(t, "en", stats.LanguageDistribution[0].Language)
}

func TestStatsReadsAreIdempotent(t *testing.T) {
	svc, st, user := newFixture(t)

	inquiry := addInquiry(t, st, user.ID, "de")
	addResponse(t, st, inquiry.ID, 800, true)

	first, err := svc.Stats(context.Background(), user.ID)
	require.NoError(t, err)
	second, err := svc.Stats(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
