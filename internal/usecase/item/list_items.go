package item

import (
	"context"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListItemsInput - страница списка вещей одного типа.
type ListItemsInput struct {
	Type   valueobject.ItemType
	Limit  int
	Offset int
}

type ListItemsResult struct {
	Items  []*entity.Item
	Total  int
	Limit  int
	Offset int
}

type ListItemsUseCase struct {
	items repository.ItemRepository
}

func NewListItemsUseCase(items repository.ItemRepository) *ListItemsUseCase {
	return &ListItemsUseCase{items: items}
}

func (uc *ListItemsUseCase) Execute(ctx context.Context, input ListItemsInput) (*ListItemsResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)
	offset := max(input.Offset, 0)

	items, total, err := uc.items.List(ctx, repository.ItemFilter{Type: input.Type, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ListItemsResult{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}
