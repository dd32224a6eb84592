package challenge

import (
	"time"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

// Verdict - результат проверки выбора.
type Verdict string

const (
	VerdictCorrect   Verdict = "correct"
	VerdictIncorrect Verdict = "incorrect"
)

// Verify сверяет выбранный вариант и завершает заявку.
// Завершённую заявку и неизвестный вариант не трогает.
func Verify(claim *entity.Claim, selectedOptionID string, now time.Time) (Verdict, error) {
	if claim == nil {
		return "", apperror.ErrClaimNotFound
	}
	if !claim.IsPending() {
		return "", apperror.ErrClaimNotPending
	}
	if !claim.HasOption(selectedOptionID) {
		return "", apperror.ErrUnknownOption
	}

	correct := selectedOptionID == claim.CorrectOptionID
	if err := claim.Finalize(correct, now); err != nil {
		return "", err
	}
	if correct {
		return VerdictCorrect, nil
	}
	return VerdictIncorrect, nil
}
