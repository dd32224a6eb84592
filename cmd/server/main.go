package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/lostfound-backend/internal/app"
	"github.com/ignatzorin/lostfound-backend/internal/auth"
	"github.com/ignatzorin/lostfound-backend/internal/challenge"
	"github.com/ignatzorin/lostfound-backend/internal/config"
	"github.com/ignatzorin/lostfound-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/lostfound-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/lostfound-backend/internal/http/router"
	"github.com/ignatzorin/lostfound-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/lostfound-backend/internal/interface/http/handler"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/storage"
	"github.com/ignatzorin/lostfound-backend/internal/usecase/claim"
	"github.com/ignatzorin/lostfound-backend/internal/usecase/item"
	"github.com/ignatzorin/lostfound-backend/internal/usecase/match"
	"github.com/ignatzorin/lostfound-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}
	app.InitLogger(cfg)

	// Подключение к базе и миграции.
	dbConn, err := app.OpenDatabase(ctx, cfg)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	// Redis нужен только для кэша эмбеддингов, без него работаем дальше.
	rdb, err := app.OpenRedis(ctx, cfg)
	if err != nil {
		logger.Log.WithError(err).Warn("main: Redis недоступен, кэш эмбеддингов отключён")
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	engine, err := app.NewEngine(cfg, rdb)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	generator, err := challenge.NewGenerator(cfg.Challenge(), nil)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	photoStorage, err := storage.NewPhotoStorage(cfg.UploadDir, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	// Репозитории.
	itemRepo := persistence.NewItemRepositoryAdapter(dbConn)
	matchRepo := persistence.NewMatchRepositoryAdapter(dbConn)
	claimRepo := persistence.NewClaimRepositoryAdapter(dbConn)

	// WebSocket hub: останавливается вместе с ctx.
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, "ws-hub", hub.Run)

	// Use cases.
	matcher := match.NewMatcher(itemRepo, matchRepo, engine.Ranker, hub)
	searchCfg := item.SearchConfig{Threshold: cfg.SearchThreshold, Limit: cfg.SearchLimit}

	itemHandler := handler.NewItemHandler(
		item.NewCreateItemUseCase(itemRepo, matcher),
		item.NewGetItemUseCase(itemRepo),
		item.NewListItemsUseCase(itemRepo),
		item.NewSearchItemsUseCase(itemRepo, engine.Builder, engine.Scorer, searchCfg),
	)
	matchHandler := handler.NewMatchHandler(
		match.NewListUserMatchesUseCase(itemRepo, matchRepo),
		match.NewUpdateMatchStatusUseCase(itemRepo, matchRepo),
	)
	claimHandler := handler.NewClaimHandler(
		claim.NewInitiateClaimUseCase(itemRepo, claimRepo, generator),
		claim.NewVerifyClaimUseCase(claimRepo),
	)

	// Роутер.
	router := httpRouter.SetupRouter(cfg, tokenManager, httpRouter.Handlers{
		Health:  httpHandlers.NewHealthHandler(dbConn, rdb),
		WS:      httpHandlers.NewWSHandler(hub, cfg.AllowedOrigins),
		Items:   itemHandler,
		Match:   matchHandler,
		Claims:  claimHandler,
		Uploads: handler.NewUploadHandler(photoStorage, cfg.PublicBaseURL),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	logger.Log.WithField("driver", cfg.DatabaseDriver).WithField("scorer", cfg.MatchScorer).Infof("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
