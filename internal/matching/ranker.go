package matching

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
)

// Breakdown - из чего сложилась оценка кандидата.
type Breakdown struct {
	Text      float64
	Metadata  MetadataResult
	Composite float64
}

// Ranked - кандидат, прошедший порог.
type Ranked struct {
	Candidate *entity.Item
	Score     float64
	Breakdown Breakdown

	lostID  uuid.UUID
	foundID uuid.UUID
}

// Pair возвращает идентификаторы пары в порядке (потерянная, найденная).
func (r Ranked) Pair() (lostID, foundID uuid.UUID) {
	return r.lostID, r.foundID
}

// Ranker объединяет текстовое сходство и метаданные в составную оценку.
// Без состояния между вызовами, безопасен для конкурентного использования.
type Ranker struct {
	cfg      Config
	builder  RepresentationBuilder
	scorer   SimilarityScorer
	metadata *MetadataFilter
}

func NewRanker(cfg Config, builder RepresentationBuilder, scorer SimilarityScorer) (*Ranker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.clone()
	return &Ranker{
		cfg:      cfg,
		builder:  builder,
		scorer:   scorer,
		metadata: NewMetadataFilter(cfg),
	}, nil
}

// Config возвращает копию конфигурации.
func (r *Ranker) Config() Config {
	return r.cfg.clone()
}

// Composite складывает оценки по весам. Не прошедшие жёсткие фильтры пары получают 0.
func (r *Ranker) Composite(text float64, meta MetadataResult) float64 {
	if !meta.Passes() {
		return 0
	}
	w := r.cfg.Weights
	return clamp01(text*w.Text + meta.ColorScore*w.Color + meta.LocationScore*w.Location)
}

// Evaluate считает оценку одной пары без порога.
func (r *Ranker) Evaluate(ctx context.Context, a, b *entity.Item) (Breakdown, error) {
	lost, found := orient(a, b)
	meta := r.metadata.Evaluate(lost, found)
	if !meta.Passes() {
		return Breakdown{Metadata: meta}, nil
	}
	reps, err := r.builder.BuildBatch(ctx, []string{ComposeItemText(a), ComposeItemText(b)})
	if err != nil {
		return Breakdown{}, err
	}
	text := r.scorer.Score(reps[0], reps[1])
	return Breakdown{Text: text, Metadata: meta, Composite: r.Composite(text, meta)}, nil
}

// Rank оценивает кандидатов противоположного типа и возвращает прошедших порог:
// по убыванию оценки, при равенстве - сначала более новые.
// Отсутствие совпадений - пустой результат, не ошибка.
func (r *Ranker) Rank(ctx context.Context, target *entity.Item, candidates []*entity.Item) ([]Ranked, error) {
	type eligible struct {
		item *entity.Item
		meta MetadataResult
	}

	var pool []eligible
	for _, c := range candidates {
		if !r.comparable(target, c) {
			continue
		}
		lost, found := orient(target, c)
		meta := r.metadata.Evaluate(lost, found)
		if !meta.Passes() {
			continue
		}
		pool = append(pool, eligible{item: c, meta: meta})
	}
	if len(pool) == 0 {
		return []Ranked{}, nil
	}

	texts := make([]string, 0, len(pool)+1)
	texts = append(texts, ComposeItemText(target))
	for _, e := range pool {
		texts = append(texts, ComposeItemText(e.item))
	}
	reps, err := r.builder.BuildBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	ranked := make([]Ranked, 0, len(pool))
	for i, e := range pool {
		text := r.scorer.Score(reps[0], reps[i+1])
		composite := r.Composite(text, e.meta)
		if composite < r.cfg.Threshold {
			continue
		}
		lost, found := orient(target, e.item)
		ranked = append(ranked, Ranked{
			Candidate: e.item,
			Score:     composite,
			Breakdown: Breakdown{Text: text, Metadata: e.meta, Composite: composite},
			lostID:    lost.ID,
			foundID:   found.ID,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Candidate.CreatedAt.Equal(b.Candidate.CreatedAt) {
			return a.Candidate.CreatedAt.After(b.Candidate.CreatedAt)
		}
		return a.Candidate.ID.String() < b.Candidate.ID.String()
	})

	if r.cfg.MaxResults > 0 && len(ranked) > r.cfg.MaxResults {
		ranked = ranked[:r.cfg.MaxResults]
	}
	return ranked, nil
}

// comparable отсекает ту же вещь, вещи того же типа, закрытые и вещи того же владельца.
func (r *Ranker) comparable(target, c *entity.Item) bool {
	if c == nil || c.ID == target.ID || c.Type == target.Type {
		return false
	}
	if !c.IsOpen() {
		return false
	}
	return c.OwnerID != target.OwnerID
}

func orient(a, b *entity.Item) (lost, found *entity.Item) {
	if a.IsLost() {
		return a, b
	}
	return b, a
}
