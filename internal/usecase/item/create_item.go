package item

import (
	"context"
	"time"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/usecase/match"
)

// CreateItemResult - сохранённая вещь и число найденных для неё совпадений.
type CreateItemResult struct {
	Item             *entity.Item
	PotentialMatches int
}

// CreateItemUseCase регистрирует вещь и сразу ищет ей пару.
type CreateItemUseCase struct {
	items   repository.ItemRepository
	matcher *match.Matcher
	now     func() time.Time
}

func NewCreateItemUseCase(items repository.ItemRepository, matcher *match.Matcher) *CreateItemUseCase {
	return &CreateItemUseCase{items: items, matcher: matcher, now: time.Now}
}

func (uc *CreateItemUseCase) Execute(ctx context.Context, input entity.ItemInput) (*CreateItemResult, error) {
	item, err := entity.NewItem(input, uc.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := uc.items.Create(ctx, item); err != nil {
		return nil, err
	}

	log := logger.WithComponent("items").WithField("item_id", item.ID).WithField("type", item.Type)

	// Вещь уже сохранена: ошибка подбора не должна превращать запрос в 5xx,
	// иначе повтор клиента создаст дубликат. Пары доберёт rescan.
	outcome, err := uc.matcher.MatchItem(ctx, item)
	if err != nil {
		log.WithError(err).Warn("вещь зарегистрирована, подбор совпадений не удался")
		return &CreateItemResult{Item: item}, nil
	}

	log.Info("вещь зарегистрирована")
	return &CreateItemResult{Item: item, PotentialMatches: len(outcome.Ranked)}, nil
}
