package matching

import (
	"fmt"
	"math"
	"strings"
)

// SimilarityScorer сравнивает два представления: результат в [0, 1], симметричен.
// Пустое представление даёт 0 с чем угодно, включая другое пустое;
// одинаковый нормализованный текст даёт ровно 1.
type SimilarityScorer interface {
	Score(a, b Representation) float64
}

const (
	cosineWeight  = 0.7
	jaccardWeight = 0.3
)

// LexicalScorer: 0.7 * косинус частот слов + 0.3 * Жаккар по множествам слов.
type LexicalScorer struct{}

func (LexicalScorer) Score(a, b Representation) float64 {
	if s, done := trivialScore(a, b); done {
		return s
	}
	if a.total == 0 || b.total == 0 {
		return 0
	}

	// Считаем в целых числах, чтобы порядок обхода map не влиял на результат.
	dot, normA, normB, shared := 0, 0, 0, 0
	for term, ca := range a.terms {
		normA += ca * ca
		if cb, ok := b.terms[term]; ok {
			dot += ca * cb
			shared++
		}
	}
	for _, cb := range b.terms {
		normB += cb * cb
	}

	cosine := float64(dot) / (math.Sqrt(float64(normA)) * math.Sqrt(float64(normB)))
	union := len(a.terms) + len(b.terms) - shared
	jaccard := float64(shared) / float64(union)

	return clamp01(cosineWeight*cosine + jaccardWeight*jaccard)
}

// CosineScorer - косинус векторов эмбеддингов, отрицательные значения дают 0.
type CosineScorer struct{}

func (CosineScorer) Score(a, b Representation) float64 {
	if s, done := trivialScore(a, b); done {
		return s
	}
	if len(a.vector) == 0 || len(a.vector) != len(b.vector) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a.vector {
		dot += a.vector[i] * b.vector[i]
		normA += a.vector[i] * a.vector[i]
		normB += b.vector[i] * b.vector[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return clamp01(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func trivialScore(a, b Representation) (float64, bool) {
	if a.IsEmpty() || b.IsEmpty() {
		return 0, true
	}
	if a.text == b.text {
		return 1, true
	}
	return 0, false
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

const (
	StrategyLexical   = "lexical"
	StrategyEmbedding = "embedding"
)

// NewStrategy возвращает согласованную пару билдер + оценщик по имени стратегии.
func NewStrategy(name string, embedder Embedder, cache VectorCache, namespace string) (RepresentationBuilder, SimilarityScorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyLexical:
		return LexicalBuilder{}, LexicalScorer{}, nil
	case StrategyEmbedding:
		if embedder == nil {
			return nil, nil, fmt.Errorf("matching: для стратегии %q нужен клиент эмбеддингов", StrategyEmbedding)
		}
		return NewEmbeddingBuilder(embedder, cache, namespace), CosineScorer{}, nil
	default:
		return nil, nil, fmt.Errorf("matching: неизвестная стратегия сравнения %q", name)
	}
}
