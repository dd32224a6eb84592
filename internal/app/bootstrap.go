// Package app собирает зависимости, общие для server и rescan.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/lostfound-backend/internal/cache"
	"github.com/ignatzorin/lostfound-backend/internal/config"
	"github.com/ignatzorin/lostfound-backend/internal/db"
	"github.com/ignatzorin/lostfound-backend/internal/infrastructure/ai"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/matching"
)

// InitLogger настраивает логгер: в development текстовый формат и debug.
func InitLogger(cfg *config.Config) {
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
		return
	}
	logger.Init(cfg.LogLevel)
}

// OpenDatabase подключается к базе и готовит схему.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		conn, err := db.NewSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, err
		}
		return conn, nil
	default:
		conn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if _, err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
			conn.Close()
			return nil, err
		}
		return conn, nil
	}
}

// OpenRedis возвращает nil, если REDIS_ADDRESS не задан.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddress == "" {
		return nil, nil
	}
	return cache.NewRedisClient(ctx, cfg.RedisAddress, cfg.RedisPassword)
}

// Engine - ранжировщик и стратегия текстового сравнения.
type Engine struct {
	Ranker  *matching.Ranker
	Builder matching.RepresentationBuilder
	Scorer  matching.SimilarityScorer
}

// NewEngine выбирает стратегию по MATCH_SCORER. rdb может быть nil:
// тогда эмбеддинги не кэшируются.
func NewEngine(cfg *config.Config, rdb *redis.Client) (*Engine, error) {
	var (
		embedder  matching.Embedder
		vectors   matching.VectorCache
		namespace string
	)
	if cfg.MatchScorer == matching.StrategyEmbedding {
		client := ai.NewEmbeddingClient(cfg.EmbeddingsBaseURL, cfg.EmbeddingsModel, cfg.EmbeddingsAPIKey)
		embedder, namespace = client, client.Model()
		if rdb != nil {
			vectors = cache.NewRedisVectorCache(rdb, cfg.EmbeddingsCacheTTL)
		}
	}

	builder, scorer, err := matching.NewStrategy(cfg.MatchScorer, embedder, vectors, namespace)
	if err != nil {
		return nil, fmt.Errorf("app: стратегия сопоставления: %w", err)
	}
	ranker, err := matching.NewRanker(cfg.Matching(), builder, scorer)
	if err != nil {
		return nil, fmt.Errorf("app: ранжировщик: %w", err)
	}
	return &Engine{Ranker: ranker, Builder: builder, Scorer: scorer}, nil
}
