package match

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

type UpdateMatchStatusUseCase struct {
	items   repository.ItemRepository
	matches repository.MatchRepository
}

func NewUpdateMatchStatusUseCase(items repository.ItemRepository, matches repository.MatchRepository) *UpdateMatchStatusUseCase {
	return &UpdateMatchStatusUseCase{items: items, matches: matches}
}

// Execute подтверждает или отклоняет ожидающее совпадение. Решает владелец
// любой из двух вещей; при подтверждении обе вещи становятся matched.
func (uc *UpdateMatchStatusUseCase) Execute(ctx context.Context, userID, matchID uuid.UUID, status valueobject.MatchStatus) (*entity.Match, error) {
	m, err := uc.matches.FindByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	lost, err := uc.items.FindByID(ctx, m.LostItemID)
	if err != nil {
		return nil, err
	}
	found, err := uc.items.FindByID(ctx, m.FoundItemID)
	if err != nil {
		return nil, err
	}
	if !lost.IsOwnedBy(userID) && !found.IsOwnedBy(userID) {
		return nil, apperror.ErrForbidden
	}

	from := m.Status
	switch status {
	case valueobject.MatchStatusConfirmed:
		err = m.Confirm()
	case valueobject.MatchStatusRejected:
		err = m.Reject()
	default:
		err = apperror.Validation("статус должен быть confirmed или rejected")
	}
	if err != nil {
		return nil, err
	}

	// Параллельное решение по тому же совпадению получит ErrMatchNotPending.
	if err := uc.matches.UpdateStatus(ctx, m.ID, from, m.Status); err != nil {
		return nil, err
	}
	if m.Status == valueobject.MatchStatusConfirmed {
		for _, id := range []uuid.UUID{lost.ID, found.ID} {
			if err := uc.items.UpdateStatus(ctx, id, valueobject.ItemStatusMatched); err != nil {
				return nil, err
			}
		}
	}

	logger.WithComponent("matching").WithField("match_id", m.ID).WithField("status", m.Status).Info("статус совпадения изменён")
	return m, nil
}
