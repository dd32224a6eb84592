// Команда rescan заново сопоставляет все открытые потерянные вещи.
// Запускается по расписанию; при заданном REDIS_ADDRESS параллельные
// запуски отсекаются блокировкой. Код выхода 1, если сопоставлены не все вещи.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lostfound-backend/internal/app"
	"github.com/ignatzorin/lostfound-backend/internal/config"
	"github.com/ignatzorin/lostfound-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/usecase/match"
)

const (
	lockKey = "lostfound:rescan"
	// Пересканирование не дольше блокировки: иначе второй запуск может стартовать раньше.
	lockTTL = 15 * time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		log.Printf("rescan: %v", err)
		os.Exit(1)
	}
}

// run владеет всеми ресурсами: отложенные Close и Release срабатывают до выхода из процесса.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	app.InitLogger(cfg)

	dbConn, err := app.OpenDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("ошибка подключения к базе: %w", err)
	}
	defer dbConn.Close()

	rdb, err := app.OpenRedis(ctx, cfg)
	if err != nil {
		return fmt.Errorf("Redis недоступен: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, lockTTL)
	defer cancel()

	if rdb != nil {
		defer rdb.Close()

		lock, err := redislock.New(rdb).Obtain(ctx, lockKey, lockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			logger.Log.Warn("rescan: другой запуск ещё работает, выходим")
			return nil
		}
		if err != nil {
			return fmt.Errorf("не удалось взять блокировку: %w", err)
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				logger.Log.WithError(err).Warn("rescan: не удалось снять блокировку")
			}
		}()
	}

	engine, err := app.NewEngine(cfg, rdb)
	if err != nil {
		return err
	}

	items := persistence.NewItemRepositoryAdapter(dbConn)
	matches := persistence.NewMatchRepositoryAdapter(dbConn)
	uc := match.NewRescanUseCase(items, match.NewMatcher(items, matches, engine.Ranker, nil))

	started := time.Now()
	report, err := uc.Execute(ctx)
	if report != nil {
		logger.Log.WithFields(logrus.Fields{
			"scanned":    report.Scanned,
			"qualifying": report.Qualifying,
			"created":    report.Created,
			"failed":     report.Failed,
			"duration":   time.Since(started).String(),
		}).Info("rescan: готово")
	}
	if err != nil {
		return fmt.Errorf("пересканирование не завершено: %w", err)
	}
	return nil
}
