package match

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/matching"
)

// Notifier сообщает владельцам о новом совпадении. Доставка не гарантируется.
type Notifier interface {
	NotifyMatch(ctx context.Context, lostOwnerID, foundOwnerID uuid.UUID, match *entity.Match)
}

// Outcome - итог сопоставления одной вещи.
type Outcome struct {
	Ranked  []matching.Ranked
	Created int
}

// Matcher ищет совпадения для вещи и сохраняет их. Повторный вызов
// для той же вещи не создаёт дублей.
type Matcher struct {
	items    repository.ItemRepository
	matches  repository.MatchRepository
	ranker   *matching.Ranker
	notifier Notifier
	now      func() time.Time
}

// NewMatcher создаёт Matcher. notifier может быть nil.
func NewMatcher(items repository.ItemRepository, matches repository.MatchRepository, ranker *matching.Ranker, notifier Notifier) *Matcher {
	return &Matcher{
		items:    items,
		matches:  matches,
		ranker:   ranker,
		notifier: notifier,
		now:      time.Now,
	}
}

func (m *Matcher) MatchItem(ctx context.Context, item *entity.Item) (*Outcome, error) {
	if !item.IsOpen() {
		return &Outcome{Ranked: []matching.Ranked{}}, nil
	}

	candidates, err := m.items.FindOpenByType(ctx, item.Type.Opposite(), item.Category)
	if err != nil {
		return nil, err
	}
	ranked, err := m.ranker.Rank(ctx, item, candidates)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Ranked: ranked}
	now := m.now()
	for _, r := range ranked {
		lostID, foundID := r.Pair()
		match, err := entity.NewMatch(lostID, foundID, r.Score, now)
		if err != nil {
			return nil, err
		}
		created, err := m.matches.Upsert(ctx, match)
		if err != nil {
			return nil, err
		}
		if !created {
			continue
		}
		outcome.Created++
		if m.notifier != nil {
			lostOwner, foundOwner := item.OwnerID, r.Candidate.OwnerID
			if item.IsFound() {
				lostOwner, foundOwner = foundOwner, lostOwner
			}
			m.notifier.NotifyMatch(ctx, lostOwner, foundOwner, match)
		}
	}

	logger.WithComponent("matching").WithFields(logrus.Fields{
		"item_id": item.ID,
		"matches": len(ranked),
		"created": outcome.Created,
	}).Info("сопоставление завершено")
	return outcome, nil
}
