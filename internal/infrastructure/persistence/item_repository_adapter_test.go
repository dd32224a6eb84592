package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/lostfound-backend/internal/db"
	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

var testNow = time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC)

func newItem(t *testing.T, itemType valueobject.ItemType, category, imageURL string) *entity.Item {
	t.Helper()
	item, err := entity.NewItem(entity.ItemInput{
		OwnerID:     uuid.New(),
		Type:        itemType,
		Title:       "Wallet",
		Description: "Brown leather wallet",
		Category:    category,
		Color:       "brown",
		Location:    "Central Station",
		Date:        testNow.AddDate(0, 0, -1),
		ImageURL:    imageURL,
	}, testNow)
	require.NoError(t, err)
	return item
}

func TestItemRepository_CreateAndFind(t *testing.T) {
	repo := NewItemRepositoryAdapter(db.NewTestDB(t))
	ctx := context.Background()

	item := newItem(t, valueobject.ItemTypeLost, "wallets", "https://img.example/w.jpg")
	item.RewardAmount = 50
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, item.OwnerID, got.OwnerID)
	assert.Equal(t, valueobject.ItemTypeLost, got.Type)
	assert.Equal(t, "Brown leather wallet", got.Description)
	assert.Equal(t, 50.0, got.RewardAmount)
	assert.Equal(t, valueobject.ItemStatusOpen, got.Status)
	assert.True(t, item.Date.Equal(got.Date), "дата %v != %v", item.Date, got.Date)
	assert.True(t, item.CreatedAt.Equal(got.CreatedAt))
}

func TestItemRepository_FindByIDNotFound(t *testing.T) {
	repo := NewItemRepositoryAdapter(db.NewTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrItemNotFound)
}

func TestItemRepository_FindOpenByType(t *testing.T) {
	repo := NewItemRepositoryAdapter(db.NewTestDB(t))
	ctx := context.Background()

	wallet := newItem(t, valueobject.ItemTypeFound, "Wallets", "")
	keys := newItem(t, valueobject.ItemTypeFound, "keys", "")
	lost := newItem(t, valueobject.ItemTypeLost, "wallets", "")
	closed := newItem(t, valueobject.ItemTypeFound, "wallets", "")
	closed.Status = valueobject.ItemStatusClosed
	for _, it := range []*entity.Item{wallet, keys, lost, closed} {
		require.NoError(t, repo.Create(ctx, it))
	}

	got, err := repo.FindOpenByType(ctx, valueobject.ItemTypeFound, "wallets")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, wallet.ID, got[0].ID)

	all, err := repo.FindOpenByType(ctx, valueobject.ItemTypeFound, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestItemRepository_FindWithImages(t *testing.T) {
	repo := NewItemRepositoryAdapter(db.NewTestDB(t))
	ctx := context.Background()

	target := newItem(t, valueobject.ItemTypeFound, "wallets", "https://img.example/t.jpg")
	withImage := newItem(t, valueobject.ItemTypeFound, "wallets", "https://img.example/a.jpg")
	noImage := newItem(t, valueobject.ItemTypeFound, "wallets", "")
	otherCategory := newItem(t, valueobject.ItemTypeFound, "keys", "https://img.example/k.jpg")
	for _, it := range []*entity.Item{target, withImage, noImage, otherCategory} {
		require.NoError(t, repo.Create(ctx, it))
	}

	got, err := repo.FindWithImages(ctx, valueobject.ItemTypeFound, "wallets", target.ID, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, withImage.ID, got[0].ID)

	anyCategory, err := repo.FindWithImages(ctx, valueobject.ItemTypeFound, "", target.ID, 10)
	require.NoError(t, err)
	assert.Len(t, anyCategory, 2)

	limited, err := repo.FindWithImages(ctx, valueobject.ItemTypeFound, "", target.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestItemRepository_List(t *testing.T) {
	repo := NewItemRepositoryAdapter(db.NewTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		it := newItem(t, valueobject.ItemTypeLost, "wallets", "")
		it.CreatedAt = testNow.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, it))
	}
	require.NoError(t, repo.Create(ctx, newItem(t, valueobject.ItemTypeFound, "wallets", "")))

	items, total, err := repo.List(ctx, repository.ItemFilter{Type: valueobject.ItemTypeLost, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 2)
	assert.True(t, items[0].CreatedAt.After(items[1].CreatedAt))

	rest, _, err := repo.List(ctx, repository.ItemFilter{Type: valueobject.ItemTypeLost, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	_, all, err := repo.List(ctx, repository.ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, all)
}

func TestItemRepository_UpdateStatus(t *testing.T) {
	repo := NewItemRepositoryAdapter(db.NewTestDB(t))
	ctx := context.Background()

	item := newItem(t, valueobject.ItemTypeFound, "wallets", "")
	require.NoError(t, repo.Create(ctx, item))
	require.NoError(t, repo.UpdateStatus(ctx, item.ID, valueobject.ItemStatusMatched))

	open, err := repo.FindOpenByType(ctx, valueobject.ItemTypeFound, "")
	require.NoError(t, err)
	assert.Empty(t, open)

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ItemStatusMatched, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), valueobject.ItemStatusClosed), apperror.ErrItemNotFound)
}
