package claim

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lostfound-backend/internal/challenge"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

type VerifyClaimUseCase struct {
	claims repository.ClaimRepository
	now    func() time.Time
}

func NewVerifyClaimUseCase(claims repository.ClaimRepository) *VerifyClaimUseCase {
	return &VerifyClaimUseCase{claims: claims, now: time.Now}
}

// Execute проверяет выбор заявителя. Одновременная вторая проверка той же
// заявки проигрывает на условном обновлении и получает ErrClaimNotPending.
func (uc *VerifyClaimUseCase) Execute(ctx context.Context, claimantID, claimID uuid.UUID, optionID string) (challenge.Verdict, error) {
	claim, err := uc.claims.FindByID(ctx, claimID)
	if err != nil {
		return "", err
	}
	if !claim.IsOwnedBy(claimantID) {
		return "", apperror.ErrForbidden
	}

	verdict, err := challenge.Verify(claim, optionID, uc.now().UTC())
	if err != nil {
		return "", err
	}
	if err := uc.claims.UpdateStatus(ctx, claim.ID, valueobject.ClaimStatusPending, claim.Status, *claim.VerifiedAt); err != nil {
		return "", err
	}

	logger.WithComponent("claims").WithFields(logrus.Fields{
		"claim_id": claim.ID,
		"verdict":  verdict,
	}).Info("заявка проверена")
	return verdict, nil
}
