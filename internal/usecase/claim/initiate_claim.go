package claim

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lostfound-backend/internal/challenge"
	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

// poolFactor - во сколько раз кандидатов берём больше, чем нужно отвлекающих вариантов.
const poolFactor = 4

type InitiateClaimInput struct {
	ClaimantID          uuid.UUID
	TargetType          valueobject.ItemType
	TargetItemID        uuid.UUID
	ClaimantDescription string
}

// InitiateClaimUseCase создаёт заявку на вещь с визуальной проверкой.
type InitiateClaimUseCase struct {
	items     repository.ItemRepository
	claims    repository.ClaimRepository
	generator *challenge.Generator
}

func NewInitiateClaimUseCase(items repository.ItemRepository, claims repository.ClaimRepository, generator *challenge.Generator) *InitiateClaimUseCase {
	return &InitiateClaimUseCase{items: items, claims: claims, generator: generator}
}

// Execute возвращает публичное представление заявки: правильный ответ в нём не раскрывается.
func (uc *InitiateClaimUseCase) Execute(ctx context.Context, input InitiateClaimInput) (*entity.ClaimView, error) {
	if !input.TargetType.IsValid() {
		return nil, apperror.Validation("тип вещи должен быть lost или found")
	}

	target, err := uc.items.FindByID(ctx, input.TargetItemID)
	if err != nil {
		return nil, err
	}
	if target.Type != input.TargetType {
		return nil, apperror.ErrItemNotFound
	}
	if target.IsOwnedBy(input.ClaimantID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нельзя подать заявку на собственную вещь")
	}
	if !target.IsOpen() {
		return nil, apperror.New(apperror.ErrCodeConflict, "вещь уже возвращена владельцу")
	}
	// Новая попытка только после ответа на предыдущую.
	pending, err := uc.claims.HasPending(ctx, input.ClaimantID, target.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperror.ErrPendingClaimExists
	}

	claim, err := uc.generate(ctx, input, target)
	if err != nil {
		return nil, err
	}
	if err := uc.claims.Create(ctx, claim); err != nil {
		return nil, err
	}

	logger.WithComponent("claims").WithFields(logrus.Fields{
		"claim_id": claim.ID,
		"item_id":  target.ID,
		"options":  len(claim.Options),
	}).Info("заявка создана")

	view := claim.Public()
	return &view, nil
}

// generate берёт отвлекающие варианты первой заявки на вещь, если она есть.
// Тогда все попытки по вещи видят один набор изображений.
func (uc *InitiateClaimUseCase) generate(ctx context.Context, input InitiateClaimInput, target *entity.Item) (*entity.Claim, error) {
	first, err := uc.claims.FindFirstByTarget(ctx, target.ID)
	switch {
	case err == nil:
		return uc.generator.Reuse(input.ClaimantID, target, input.ClaimantDescription, first.DistractorURLs())
	case !apperror.IsNotFound(err):
		return nil, err
	}

	pool, err := uc.distractorPool(ctx, target)
	if err != nil {
		return nil, err
	}
	return uc.generator.Generate(input.ClaimantID, target, input.ClaimantDescription, pool)
}

func (uc *InitiateClaimUseCase) distractorPool(ctx context.Context, target *entity.Item) ([]*entity.Item, error) {
	cfg := uc.generator.Config()
	limit := cfg.MaxDistractors * poolFactor

	pool, err := uc.items.FindWithImages(ctx, target.Type, target.Category, target.ID, limit)
	if err != nil {
		return nil, err
	}
	if !cfg.CategoryFallback || len(pool) >= cfg.MaxDistractors {
		return pool, nil
	}

	rest, err := uc.items.FindWithImages(ctx, target.Type, "", target.ID, limit)
	if err != nil {
		return nil, err
	}
	return append(pool, rest...), nil
}
