package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
)

// ErrRescanIncomplete - часть вещей сопоставить не удалось; отчёт при этом полный.
var ErrRescanIncomplete = errors.New("rescan: сопоставлены не все вещи")

// RescanReport - итог пакетного пересканирования.
type RescanReport struct {
	Scanned    int
	Qualifying int
	Created    int
	Failed     int
}

// RescanUseCase заново сопоставляет все открытые потерянные вещи.
// Идемпотентен: существующие пары только обновляют оценку.
type RescanUseCase struct {
	items   repository.ItemRepository
	matcher *Matcher
}

func NewRescanUseCase(items repository.ItemRepository, matcher *Matcher) *RescanUseCase {
	return &RescanUseCase{items: items, matcher: matcher}
}

func (uc *RescanUseCase) Execute(ctx context.Context) (*RescanReport, error) {
	lost, err := uc.items.FindOpenByType(ctx, valueobject.ItemTypeLost, "")
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("rescan")
	report := &RescanReport{}
	for _, item := range lost {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Scanned++

		outcome, err := uc.matcher.MatchItem(ctx, item)
		if err != nil {
			report.Failed++
			log.WithError(err).WithField("item_id", item.ID).Warn("не удалось сопоставить вещь")
			continue
		}
		report.Qualifying += len(outcome.Ranked)
		report.Created += outcome.Created
	}

	log.WithFields(logrus.Fields{
		"scanned":    report.Scanned,
		"qualifying": report.Qualifying,
		"created":    report.Created,
		"failed":     report.Failed,
	}).Info("пересканирование завершено")
	if report.Failed > 0 {
		return report, fmt.Errorf("%w: ошибок %d из %d", ErrRescanIncomplete, report.Failed, report.Scanned)
	}
	return report, nil
}
