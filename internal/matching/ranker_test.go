package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

var baseDay = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func newRanker(t *testing.T, cfg Config) *Ranker {
	t.Helper()
	r, err := NewRanker(cfg, LexicalBuilder{}, LexicalScorer{})
	require.NoError(t, err)
	return r
}

func lostPhone() *entity.Item {
	return &entity.Item{
		ID:          uuid.New(),
		OwnerID:     uuid.New(),
		Type:        valueobject.ItemTypeLost,
		Title:       "iPhone 13",
		Description: "Black iPhone 13 with cracked screen, lost in Central Park",
		Category:    "electronics",
		Color:       "black",
		Location:    "Central Park",
		Date:        baseDay,
		Status:      valueobject.ItemStatusOpen,
		CreatedAt:   baseDay,
	}
}

func foundPhone() *entity.Item {
	return &entity.Item{
		ID:          uuid.New(),
		OwnerID:     uuid.New(),
		Type:        valueobject.ItemTypeFound,
		Title:       "iPhone",
		Description: "Found iPhone with broken screen, black color, near park bench",
		Category:    "electronics",
		Color:       "black",
		Location:    "Central Park, near the bench",
		Date:        baseDay.AddDate(0, 0, 2),
		Status:      valueobject.ItemStatusOpen,
		CreatedAt:   baseDay.AddDate(0, 0, 2),
	}
}

func TestRanker_MatchesPhoneScenario(t *testing.T) {
	r := newRanker(t, DefaultConfig())
	lost, found := lostPhone(), foundPhone()

	got, err := r.Rank(context.Background(), found, []*entity.Item{lost})
	require.NoError(t, err)
	require.Len(t, got, 1)

	m := got[0]
	assert.Equal(t, lost.ID, m.Candidate.ID)
	assert.InDelta(t, 0.8365, m.Breakdown.Text, 0.001)
	assert.InDelta(t, 0.852, m.Score, 0.001)
	assert.GreaterOrEqual(t, m.Score, 0.7)
	assert.True(t, m.Breakdown.Metadata.CategoryMatch)
	assert.Equal(t, 1.0, m.Breakdown.Metadata.ColorScore)
	assert.Equal(t, 0.8, m.Breakdown.Metadata.LocationScore)

	lostID, foundID := m.Pair()
	assert.Equal(t, lost.ID, lostID)
	assert.Equal(t, found.ID, foundID)
}

func TestRanker_CategoryMismatchIsExcluded(t *testing.T) {
	r := newRanker(t, DefaultConfig())
	lost, found := lostPhone(), foundPhone()
	found.Category = "accessories"

	got, err := r.Rank(context.Background(), found, []*entity.Item{lost})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	b, err := r.Evaluate(context.Background(), lost, found)
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.Composite)
	assert.False(t, b.Metadata.CategoryMatch)
}

func TestRanker_DateOutsideWindowIsExcluded(t *testing.T) {
	r := newRanker(t, DefaultConfig())
	lost, found := lostPhone(), foundPhone()
	found.Date = baseDay.AddDate(0, 0, -3)

	got, err := r.Rank(context.Background(), lost, []*entity.Item{found})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRanker_EvaluateIsSymmetric(t *testing.T) {
	r := newRanker(t, DefaultConfig())
	lost, found := lostPhone(), foundPhone()

	ab, err := r.Evaluate(context.Background(), lost, found)
	require.NoError(t, err)
	ba, err := r.Evaluate(context.Background(), found, lost)
	require.NoError(t, err)

	assert.Equal(t, ab, ba)
}

func TestRanker_SkipsIneligibleCandidates(t *testing.T) {
	r := newRanker(t, DefaultConfig())
	target := foundPhone()

	sameOwner := lostPhone()
	sameOwner.OwnerID = target.OwnerID

	sameType := foundPhone()

	closed := lostPhone()
	closed.Status = valueobject.ItemStatusClosed

	self := *target
	self.Type = valueobject.ItemTypeLost

	got, err := r.Rank(context.Background(), target, []*entity.Item{sameOwner, sameType, closed, &self, nil})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRanker_OrdersByScoreThenRecency(t *testing.T) {
	r := newRanker(t, DefaultConfig())
	target := foundPhone()

	best := lostPhone()
	best.Location = "Central Park, near the bench"

	older := lostPhone()
	older.CreatedAt = baseDay.Add(-time.Hour)

	newer := lostPhone()
	newer.CreatedAt = baseDay.Add(time.Hour)

	got, err := r.Rank(context.Background(), target, []*entity.Item{older, best, newer})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, best.ID, got[0].Candidate.ID)
	assert.Equal(t, newer.ID, got[1].Candidate.ID)
	assert.Equal(t, older.ID, got[2].Candidate.ID)
	assert.Equal(t, got[1].Score, got[2].Score)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestRanker_RespectsMaxResults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxResults = 2
	r := newRanker(t, cfg)

	candidates := []*entity.Item{lostPhone(), lostPhone(), lostPhone(), lostPhone()}
	got, err := r.Rank(context.Background(), foundPhone(), candidates)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRanker_ThresholdFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 0.9
	r := newRanker(t, cfg)

	got, err := r.Rank(context.Background(), foundPhone(), []*entity.Item{lostPhone()})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRanker_RankIsIdempotent(t *testing.T) {
	r := newRanker(t, DefaultConfig())
	target := foundPhone()
	candidates := []*entity.Item{lostPhone(), lostPhone(), lostPhone()}

	first, err := r.Rank(context.Background(), target, candidates)
	require.NoError(t, err)
	second, err := r.Rank(context.Background(), target, candidates)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

type failingBuilder struct{}

func (failingBuilder) Build(context.Context, string) (Representation, error) {
	return Representation{}, errors.New("boom")
}

func (failingBuilder) BuildBatch(context.Context, []string) ([]Representation, error) {
	return nil, errors.New("boom")
}

func TestRanker_PropagatesBuilderError(t *testing.T) {
	r, err := NewRanker(DefaultConfig(), failingBuilder{}, LexicalScorer{})
	require.NoError(t, err)

	_, err = r.Rank(context.Background(), foundPhone(), []*entity.Item{lostPhone()})
	assert.Error(t, err)

	got, err := r.Rank(context.Background(), foundPhone(), nil)
	require.NoError(t, err, "без кандидатов билдер не вызывается")
	assert.Empty(t, got)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"порог больше 1", func(c *Config) { c.Threshold = 1.2 }},
		{"сумма весов", func(c *Config) { c.Weights.Text = 0.7 }},
		{"отрицательный вес", func(c *Config) { c.Weights = Weights{Text: 1.2, Color: -0.2} }},
		{"окно дат", func(c *Config) { c.DateWindowDays = 0 }},
		{"лимит", func(c *Config) { c.MaxResults = -1 }},
		{"частичная оценка", func(c *Config) { c.LocationContainsScore = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))

			_, err = NewRanker(cfg, LexicalBuilder{}, LexicalScorer{})
			assert.Error(t, err)
		})
	}
}
