package match

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
)

// UserMatch - совпадение вместе с обеими вещами.
type UserMatch struct {
	Match     *entity.Match
	LostItem  *entity.Item
	FoundItem *entity.Item
}

type ListUserMatchesUseCase struct {
	items   repository.ItemRepository
	matches repository.MatchRepository
}

func NewListUserMatchesUseCase(items repository.ItemRepository, matches repository.MatchRepository) *ListUserMatchesUseCase {
	return &ListUserMatchesUseCase{items: items, matches: matches}
}

// Execute возвращает совпадения, где пользователь владеет одной из вещей.
func (uc *ListUserMatchesUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]UserMatch, error) {
	matches, err := uc.matches.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cache := make(map[uuid.UUID]*entity.Item)
	load := func(id uuid.UUID) (*entity.Item, error) {
		if it, ok := cache[id]; ok {
			return it, nil
		}
		it, err := uc.items.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		cache[id] = it
		return it, nil
	}

	result := make([]UserMatch, 0, len(matches))
	for _, m := range matches {
		lost, err := load(m.LostItemID)
		if err != nil {
			return nil, err
		}
		found, err := load(m.FoundItemID)
		if err != nil {
			return nil, err
		}
		result = append(result, UserMatch{Match: m, LostItem: lost, FoundItem: found})
	}
	return result, nil
}
