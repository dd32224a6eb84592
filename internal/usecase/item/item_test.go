package item_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/lostfound-backend/internal/db"
	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/lostfound-backend/internal/matching"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
	"github.com/ignatzorin/lostfound-backend/internal/usecase/item"
	"github.com/ignatzorin/lostfound-backend/internal/usecase/match"
)

type stack struct {
	items   *persistence.ItemRepositoryAdapter
	matches *persistence.MatchRepositoryAdapter
	create  *item.CreateItemUseCase
}

func newStack(t *testing.T) *stack {
	t.Helper()
	conn := db.NewTestDB(t)
	items := persistence.NewItemRepositoryAdapter(conn)
	matches := persistence.NewMatchRepositoryAdapter(conn)

	ranker, err := matching.NewRanker(matching.DefaultConfig(), matching.LexicalBuilder{}, matching.LexicalScorer{})
	require.NoError(t, err)

	return &stack{
		items:   items,
		matches: matches,
		create:  item.NewCreateItemUseCase(items, match.NewMatcher(items, matches, ranker, nil)),
	}
}

func daysAgo(n int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -n)
}

func lostPhoneInput() entity.ItemInput {
	return entity.ItemInput{
		OwnerID:     uuid.New(),
		Type:        valueobject.ItemTypeLost,
		Title:       "iPhone 13",
		Description: "Black iPhone 13 with cracked screen, lost in Central Park",
		Category:    "electronics",
		Color:       "black",
		Location:    "Central Park",
		Date:        daysAgo(5),
	}
}

func foundPhoneInput() entity.ItemInput {
	return entity.ItemInput{
		OwnerID:     uuid.New(),
		Type:        valueobject.ItemTypeFound,
		Title:       "iPhone",
		Description: "Found iPhone with broken screen, black color, near park bench",
		Category:    "electronics",
		Color:       "black",
		Location:    "Central Park, near the bench",
		Date:        daysAgo(3),
	}
}

func TestCreateItem_FindsPotentialMatch(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	lost, err := s.create.Execute(ctx, lostPhoneInput())
	require.NoError(t, err)
	assert.Equal(t, 0, lost.PotentialMatches)

	found, err := s.create.Execute(ctx, foundPhoneInput())
	require.NoError(t, err)
	assert.Equal(t, 1, found.PotentialMatches)

	m, err := s.matches.FindByPair(ctx, lost.Item.ID, found.Item.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.SimilarityScore, 0.7)
	assert.Equal(t, valueobject.MatchStatusPending, m.Status)
}

func TestCreateItem_CategoryMismatchCreatesNoMatch(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	lost, err := s.create.Execute(ctx, lostPhoneInput())
	require.NoError(t, err)

	in := foundPhoneInput()
	in.Category = "accessories"
	found, err := s.create.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 0, found.PotentialMatches)

	_, err = s.matches.FindByPair(ctx, lost.Item.ID, found.Item.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateItem_ValidationErrorPersistsNothing(t *testing.T) {
	s := newStack(t)

	in := lostPhoneInput()
	in.Description = "  "
	_, err := s.create.Execute(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	items, total, err := s.items.List(context.Background(), repository.ItemFilter{Type: valueobject.ItemTypeLost})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, total)
}

func TestGetAndListItems(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	created, err := s.create.Execute(ctx, lostPhoneInput())
	require.NoError(t, err)
	_, err = s.create.Execute(ctx, foundPhoneInput())
	require.NoError(t, err)

	got, err := item.NewGetItemUseCase(s.items).Execute(ctx, created.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Item.Description, got.Description)

	_, err = item.NewGetItemUseCase(s.items).Execute(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrItemNotFound)

	page, err := item.NewListItemsUseCase(s.items).Execute(ctx, item.ListItemsInput{Type: valueobject.ItemTypeLost, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 100, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, created.Item.ID, page.Items[0].ID)
}

func TestSearchItems(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	phone, err := s.create.Execute(ctx, lostPhoneInput())
	require.NoError(t, err)
	wallet := lostPhoneInput()
	wallet.Title = "Wallet"
	wallet.Description = "Brown leather wallet with ID cards"
	wallet.Category = "accessories"
	wallet.Color = "brown"
	wallet.Location = "Airport terminal"
	walletItem, err := s.create.Execute(ctx, wallet)
	require.NoError(t, err)
	foundPhone, err := s.create.Execute(ctx, foundPhoneInput())
	require.NoError(t, err)

	uc := item.NewSearchItemsUseCase(s.items, matching.LexicalBuilder{}, matching.LexicalScorer{}, item.DefaultSearchConfig())

	hits, err := uc.Execute(ctx, item.SearchInput{Query: "black iphone", Color: "black"})
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	ids := make(map[uuid.UUID]bool)
	for i, h := range hits {
		ids[h.Item.ID] = true
		assert.GreaterOrEqual(t, h.Similarity, 0.3)
		if i > 0 {
			assert.GreaterOrEqual(t, hits[i-1].Similarity, h.Similarity)
		}
	}
	assert.True(t, ids[phone.Item.ID])
	assert.False(t, ids[walletItem.Item.ID])

	hits, err = uc.Execute(ctx, item.SearchInput{Query: "black iphone", Type: valueobject.ItemTypeLost})
	require.NoError(t, err)
	for _, h := range hits {
		assert.NotEqual(t, foundPhone.Item.ID, h.Item.ID)
	}

	_, err = uc.Execute(ctx, item.SearchInput{Query: " "})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(ctx, item.SearchInput{Query: "phone", Type: "stolen"})
	assert.True(t, apperror.IsValidation(err))
}

type failingMatches struct {
	*persistence.MatchRepositoryAdapter
}

func (failingMatches) Upsert(ctx context.Context, m *entity.Match) (bool, error) {
	return false, errors.New("matches unavailable")
}

func TestCreateItem_MatchingFailureKeepsItem(t *testing.T) {
	conn := db.NewTestDB(t)
	items := persistence.NewItemRepositoryAdapter(conn)
	matches := failingMatches{persistence.NewMatchRepositoryAdapter(conn)}
	ranker, err := matching.NewRanker(matching.DefaultConfig(), matching.LexicalBuilder{}, matching.LexicalScorer{})
	require.NoError(t, err)
	create := item.NewCreateItemUseCase(items, match.NewMatcher(items, matches, ranker, nil))
	ctx := context.Background()

	_, err = create.Execute(ctx, foundPhoneInput())
	require.NoError(t, err)

	res, err := create.Execute(ctx, lostPhoneInput())
	require.NoError(t, err, "сохранённая вещь возвращается без ошибки")
	require.NotNil(t, res.Item)
	assert.Equal(t, 0, res.PotentialMatches)

	stored, err := items.FindByID(ctx, res.Item.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Item.Title, stored.Title)

	all, _, err := items.List(ctx, repository.ItemFilter{Type: valueobject.ItemTypeLost})
	require.NoError(t, err)
	assert.Len(t, all, 1, "запрос не дублирует вещь")
}
