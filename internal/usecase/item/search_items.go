package item

import (
	"context"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/repository"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/matching"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

// SearchInput - свободный запрос с необязательными уточнениями.
// Пустой Type ищет среди потерянных и найденных.
type SearchInput struct {
	Query    string
	Type     valueobject.ItemType
	Category string
	Color    string
	Location string
	Limit    int
}

type SearchHit struct {
	Item       *entity.Item
	Similarity float64
}

type SearchConfig struct {
	Threshold float64
	Limit     int
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{Threshold: 0.3, Limit: 20}
}

type SearchItemsUseCase struct {
	items   repository.ItemRepository
	builder matching.RepresentationBuilder
	scorer  matching.SimilarityScorer
	cfg     SearchConfig
}

func NewSearchItemsUseCase(items repository.ItemRepository, builder matching.RepresentationBuilder, scorer matching.SimilarityScorer, cfg SearchConfig) *SearchItemsUseCase {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultSearchConfig().Limit
	}
	return &SearchItemsUseCase{items: items, builder: builder, scorer: scorer, cfg: cfg}
}

func (uc *SearchItemsUseCase) Execute(ctx context.Context, input SearchInput) ([]SearchHit, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, apperror.Validation("параметр query обязателен")
	}
	types := []valueobject.ItemType{valueobject.ItemTypeLost, valueobject.ItemTypeFound}
	if input.Type != "" {
		if !input.Type.IsValid() {
			return nil, apperror.Validation("тип должен быть lost, found или пустым")
		}
		types = []valueobject.ItemType{input.Type}
	}

	var candidates []*entity.Item
	for _, t := range types {
		items, err := uc.items.FindOpenByType(ctx, t, "")
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, items...)
	}
	if len(candidates) == 0 {
		return []SearchHit{}, nil
	}

	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, queryText(input))
	for _, c := range candidates {
		texts = append(texts, itemText(c))
	}
	reps, err := uc.builder.BuildBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0)
	for i, c := range candidates {
		score := uc.scorer.Score(reps[0], reps[i+1])
		if score < uc.cfg.Threshold {
			continue
		}
		hits = append(hits, SearchHit{Item: c, Similarity: score})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Item.CreatedAt.After(hits[j].Item.CreatedAt)
	})

	limit := uc.cfg.Limit
	if input.Limit > 0 {
		limit = min(input.Limit, maxPageSize)
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}

	logger.WithComponent("search").WithFields(logrus.Fields{
		"candidates": len(candidates),
		"hits":       len(hits),
	}).Debug("поиск выполнен")
	return hits, nil
}

// queryText дополняет запрос уточнениями, чтобы они участвовали в сходстве.
func queryText(in SearchInput) string {
	parts := []string{in.Query}
	for _, p := range []string{in.Category, in.Color, in.Location} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func itemText(it *entity.Item) string {
	parts := []string{matching.ComposeItemText(it)}
	for _, p := range []string{it.Category, it.Color, it.Location} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
