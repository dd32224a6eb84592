package item

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
)

type GetItemUseCase struct {
	items repository.ItemRepository
}

func NewGetItemUseCase(items repository.ItemRepository) *GetItemUseCase {
	return &GetItemUseCase{items: items}
}

func (uc *GetItemUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	return uc.items.FindByID(ctx, id)
}
