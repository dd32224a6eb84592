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
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

func newClaimRepo(t *testing.T) (*ClaimRepositoryAdapter, *entity.Claim) {
	t.Helper()
	conn := db.NewTestDB(t)
	target := newItem(t, valueobject.ItemTypeFound, "wallets", "https://img.example/t.jpg")
	require.NoError(t, NewItemRepositoryAdapter(conn).Create(context.Background(), target))

	claim := &entity.Claim{
		ID:                  uuid.New(),
		ClaimantID:          uuid.New(),
		TargetItemID:        target.ID,
		TargetType:          target.Type,
		ClaimantDescription: "brown wallet",
		QuestionText:        "pick one",
		Options: []entity.ClaimOption{
			{ID: "opt-a", ImageURL: "https://img.example/a.jpg", Label: "Option A"},
			{ID: "opt-b", ImageURL: target.ImageURL, Label: "Option B", IsCorrect: true},
		},
		CorrectOptionID: "opt-b",
		Status:          valueobject.ClaimStatusPending,
		CreatedAt:       testNow,
	}
	repo := NewClaimRepositoryAdapter(conn)
	require.NoError(t, repo.Create(context.Background(), claim))
	return repo, claim
}

func TestClaimRepository_RoundTrip(t *testing.T) {
	repo, claim := newClaimRepo(t)

	got, err := repo.FindByID(context.Background(), claim.ID)
	require.NoError(t, err)
	assert.Equal(t, claim.Options, got.Options)
	assert.Equal(t, "opt-b", got.CorrectOptionID)
	assert.Equal(t, valueobject.ClaimStatusPending, got.Status)
	assert.Nil(t, got.VerifiedAt)
	assert.NoError(t, got.Validate(4))
}

func TestClaimRepository_OptionsJSONHasNoAnswer(t *testing.T) {
	repo, claim := newClaimRepo(t)

	var raw string
	require.NoError(t, repo.db.Get(&raw, repo.db.Rebind(`SELECT options_json FROM claims WHERE id = ?`), claim.ID))
	assert.NotContains(t, raw, "correct")
	assert.Contains(t, raw, `"label":"Option A"`)
}

func TestClaimRepository_ConditionalUpdate(t *testing.T) {
	repo, claim := newClaimRepo(t)
	ctx := context.Background()
	at := testNow.Add(time.Minute)

	require.NoError(t, repo.UpdateStatus(ctx, claim.ID, valueobject.ClaimStatusPending, valueobject.ClaimStatusVerified, at))

	err := repo.UpdateStatus(ctx, claim.ID, valueobject.ClaimStatusPending, valueobject.ClaimStatusFailed, at.Add(time.Minute))
	assert.ErrorIs(t, err, apperror.ErrClaimNotPending)

	got, err := repo.FindByID(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ClaimStatusVerified, got.Status)
	require.NotNil(t, got.VerifiedAt)
	assert.True(t, at.Equal(*got.VerifiedAt))

	err = repo.UpdateStatus(ctx, uuid.New(), valueobject.ClaimStatusPending, valueobject.ClaimStatusFailed, at)
	assert.ErrorIs(t, err, apperror.ErrClaimNotFound)
}

func TestClaimRepository_FindByIDNotFound(t *testing.T) {
	repo, _ := newClaimRepo(t)
	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestClaimRepository_OnePendingPerClaimantAndItem(t *testing.T) {
	repo, claim := newClaimRepo(t)
	ctx := context.Background()

	pending, err := repo.HasPending(ctx, claim.ClaimantID, claim.TargetItemID)
	require.NoError(t, err)
	assert.True(t, pending)

	second := *claim
	second.ID = uuid.New()
	assert.ErrorIs(t, repo.Create(ctx, &second), apperror.ErrPendingClaimExists)

	// Другой заявитель на ту же вещь не блокируется.
	other := *claim
	other.ID = uuid.New()
	other.ClaimantID = uuid.New()
	require.NoError(t, repo.Create(ctx, &other))

	// После проверки можно начать новую попытку.
	require.NoError(t, repo.UpdateStatus(ctx, claim.ID, valueobject.ClaimStatusPending, valueobject.ClaimStatusFailed, testNow))
	pending, err = repo.HasPending(ctx, claim.ClaimantID, claim.TargetItemID)
	require.NoError(t, err)
	assert.False(t, pending)
	require.NoError(t, repo.Create(ctx, &second))
}

func TestClaimRepository_FindFirstByTarget(t *testing.T) {
	repo, claim := newClaimRepo(t)
	ctx := context.Background()

	later := *claim
	later.ID = uuid.New()
	later.ClaimantID = uuid.New()
	later.CreatedAt = claim.CreatedAt.Add(time.Hour)
	later.Options = []entity.ClaimOption{
		{ID: "opt-x", ImageURL: "https://img.example/x.jpg", Label: "Option A", IsCorrect: true},
		{ID: "opt-y", ImageURL: "https://img.example/y.jpg", Label: "Option B"},
	}
	later.CorrectOptionID = "opt-x"
	require.NoError(t, repo.Create(ctx, &later))

	got, err := repo.FindFirstByTarget(ctx, claim.TargetItemID)
	require.NoError(t, err)
	assert.Equal(t, claim.ID, got.ID)
	assert.Equal(t, []string{"https://img.example/a.jpg"}, got.DistractorURLs())

	_, err = repo.FindFirstByTarget(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrClaimNotFound)
}
