package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
)

type ItemFilter struct {
	Type   valueobject.ItemType
	Limit  int
	Offset int
}

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	// FindOpenByType возвращает открытые вещи типа itemType; пустая category - без фильтра.
	FindOpenByType(ctx context.Context, itemType valueobject.ItemType, category string) ([]*entity.Item, error)
	// FindWithImages отдаёт вещи с изображениями для отвлекающих вариантов;
	// пустая category - любая категория.
	FindWithImages(ctx context.Context, itemType valueobject.ItemType, category string, excludeID uuid.UUID, limit int) ([]*entity.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.ItemStatus) error
}
