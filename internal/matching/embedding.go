package matching

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"

	"github.com/ignatzorin/lostfound-backend/internal/logger"
)

// Embedder превращает тексты в векторы. Порядок ответа совпадает с порядком texts.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// VectorCache хранит векторы по ключу содержимого.
type VectorCache interface {
	Get(ctx context.Context, key string) ([]float64, bool, error)
	Set(ctx context.Context, key string, vector []float64) error
}

// CacheKey - ключ кэша: пространство имён модели плюс blake2b-256 нормализованного текста.
// Представление зависит только от текста, поэтому инвалидация не нужна.
func CacheKey(namespace, normalized string) string {
	sum := blake2b.Sum256([]byte(normalized))
	return namespace + ":" + hex.EncodeToString(sum[:])
}

// EmbeddingBuilder строит представления с вектором эмбеддинга.
type EmbeddingBuilder struct {
	embedder  Embedder
	cache     VectorCache
	namespace string
}

// NewEmbeddingBuilder создаёт билдер. cache может быть nil.
func NewEmbeddingBuilder(embedder Embedder, cache VectorCache, namespace string) *EmbeddingBuilder {
	if namespace == "" {
		namespace = "emb"
	}
	return &EmbeddingBuilder{embedder: embedder, cache: cache, namespace: namespace}
}

func (b *EmbeddingBuilder) Build(ctx context.Context, text string) (Representation, error) {
	reps, err := b.BuildBatch(ctx, []string{text})
	if err != nil {
		return Representation{}, err
	}
	return reps[0], nil
}

func (b *EmbeddingBuilder) BuildBatch(ctx context.Context, texts []string) ([]Representation, error) {
	reps := make([]Representation, len(texts))
	// Нормализованный текст -> индексы представлений без вектора.
	pending := make(map[string][]int)
	var order []string

	for i, t := range texts {
		reps[i] = newLexicalRepresentation(t)
		if reps[i].IsEmpty() {
			continue
		}
		norm := reps[i].text
		if _, seen := pending[norm]; !seen {
			if vec, ok := b.cached(ctx, norm); ok {
				reps[i].vector = vec
				continue
			}
			order = append(order, norm)
		}
		pending[norm] = append(pending[norm], i)
	}

	if len(order) == 0 {
		return reps, nil
	}

	vectors, err := b.embedder.Embed(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("matching: не удалось получить эмбеддинги: %w", err)
	}
	if len(vectors) != len(order) {
		return nil, fmt.Errorf("matching: ожидалось %d эмбеддингов, получено %d", len(order), len(vectors))
	}

	for j, norm := range order {
		vec := vectors[j]
		for _, idx := range pending[norm] {
			reps[idx].vector = vec
		}
		b.store(ctx, norm, vec)
	}
	return reps, nil
}

func (b *EmbeddingBuilder) cached(ctx context.Context, normalized string) ([]float64, bool) {
	if b.cache == nil {
		return nil, false
	}
	vec, ok, err := b.cache.Get(ctx, CacheKey(b.namespace, normalized))
	if err != nil {
		logger.WithComponent("matching").WithError(err).Warn("кэш эмбеддингов недоступен, считаем заново")
		return nil, false
	}
	return vec, ok
}

func (b *EmbeddingBuilder) store(ctx context.Context, normalized string, vec []float64) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Set(ctx, CacheKey(b.namespace, normalized), vec); err != nil {
		logger.WithComponent("matching").WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("не удалось сохранить эмбеддинг в кэш")
	}
}
