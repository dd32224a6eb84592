package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
)

type MatchRepository interface {
	// Upsert вставляет совпадение, если пары (lost, found) ещё нет, иначе обновляет
	// оценку у ожидающего. created=true только при вставке.
	Upsert(ctx context.Context, match *entity.Match) (created bool, err error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Match, error)
	FindByPair(ctx context.Context, lostItemID, foundItemID uuid.UUID) (*entity.Match, error)
	// FindByUser - совпадения, где пользователь владеет одной из вещей.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Match, error)
	// UpdateStatus меняет статус, только если текущий равен from. Иначе
	// возвращает apperror.ErrMatchNotPending.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to valueobject.MatchStatus) error
}
