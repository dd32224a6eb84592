package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

// Match связывает потерянную и найденную вещь. На пару (lost, found) - не больше одной записи.
type Match struct {
	ID              uuid.UUID
	LostItemID      uuid.UUID
	FoundItemID     uuid.UUID
	SimilarityScore float64
	Status          valueobject.MatchStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewMatch(lostItemID, foundItemID uuid.UUID, score float64, now time.Time) (*Match, error) {
	if lostItemID == uuid.Nil || foundItemID == uuid.Nil {
		return nil, apperror.Validation("совпадение должно ссылаться на обе вещи")
	}
	if score < 0 || score > 1 {
		return nil, apperror.Validation("оценка совпадения должна быть в диапазоне [0, 1]")
	}
	return &Match{
		ID:              uuid.New(),
		LostItemID:      lostItemID,
		FoundItemID:     foundItemID,
		SimilarityScore: score,
		Status:          valueobject.MatchStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (m *Match) Confirm() error {
	return m.transition(valueobject.MatchStatusConfirmed)
}

func (m *Match) Reject() error {
	return m.transition(valueobject.MatchStatusRejected)
}

func (m *Match) transition(to valueobject.MatchStatus) error {
	if !m.Status.CanTransitionTo(to) {
		return apperror.ErrMatchNotPending
	}
	m.Status = to
	m.UpdatedAt = time.Now()
	return nil
}

func (m *Match) IsPending() bool {
	return m.Status == valueobject.MatchStatusPending
}
