package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
)

type ClaimRepository interface {
	// Create возвращает apperror.ErrPendingClaimExists, если у заявителя уже есть
	// pending-заявка на ту же вещь.
	Create(ctx context.Context, claim *entity.Claim) error
	HasPending(ctx context.Context, claimantID, targetItemID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Claim, error)
	// FindFirstByTarget - самая ранняя заявка на вещь; её отвлекающие варианты
	// переиспользуются. Нет заявок - apperror.ErrClaimNotFound.
	FindFirstByTarget(ctx context.Context, targetItemID uuid.UUID) (*entity.Claim, error)
	// UpdateStatus меняет статус, только если текущий равен from.
	// Если заявку уже перевели, возвращает apperror.ErrClaimNotPending.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to valueobject.ClaimStatus, verifiedAt time.Time) error
}
