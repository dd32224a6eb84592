package matching

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
)

// Representation - сравнимое представление текста. Создаётся билдером и
// после этого не меняется; зависит только от текста.
type Representation struct {
	text   string
	terms  map[string]int
	total  int
	vector []float64
}

// Text возвращает нормализованный текст.
func (r Representation) Text() string {
	return r.text
}

// IsEmpty - текст пустой после нормализации.
func (r Representation) IsEmpty() bool {
	return r.text == ""
}

// TermCount - число значимых слов.
func (r Representation) TermCount() int {
	return r.total
}

// Vector возвращает копию вектора эмбеддинга (nil для лексической стратегии).
func (r Representation) Vector() []float64 {
	if r.vector == nil {
		return nil
	}
	return append([]float64(nil), r.vector...)
}

// RepresentationBuilder строит представления. BuildBatch получает сразу все
// тексты выборки, чтобы стратегия могла обработать их одним запросом.
type RepresentationBuilder interface {
	Build(ctx context.Context, text string) (Representation, error)
	BuildBatch(ctx context.Context, texts []string) ([]Representation, error)
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "but": {}, "for": {}, "with": {}, "was": {}, "are": {}, "were": {},
	"been": {}, "being": {}, "have": {}, "has": {}, "had": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "should": {}, "could": {}, "may": {}, "might": {}, "must": {},
	"can": {}, "she": {}, "they": {}, "you": {}, "him": {}, "her": {}, "them": {}, "his": {},
	"your": {}, "their": {}, "our": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"from": {}, "into": {}, "onto": {}, "some": {}, "very": {},
	// слова-наполнители объявлений
	"lost": {}, "found": {}, "near": {}, "color": {}, "colour": {}, "item": {},
}

var canonicalTerms = map[string]string{
	"cracked":    "broken",
	"shattered":  "broken",
	"damaged":    "broken",
	"smashed":    "broken",
	"cellphone":  "phone",
	"smartphone": "phone",
	"mobile":     "phone",
	"purse":      "wallet",
	"billfold":   "wallet",
	"notebook":   "laptop",
	"spectacles": "glasses",
	"eyeglasses": "glasses",
	"grey":       "gray",
}

// normalize: нижний регистр, всё кроме букв - пробел, пробелы схлопываются.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func terms(normalized string) (map[string]int, int) {
	counts := make(map[string]int)
	total := 0
	for _, word := range strings.Fields(normalized) {
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if canonical, ok := canonicalTerms[word]; ok {
			word = canonical
		}
		counts[word]++
		total++
	}
	return counts, total
}

func newLexicalRepresentation(text string) Representation {
	normalized := normalize(text)
	counts, total := terms(normalized)
	return Representation{text: normalized, terms: counts, total: total}
}

// LexicalBuilder строит представление из частот слов. Ошибок не возвращает.
type LexicalBuilder struct{}

func (LexicalBuilder) Build(_ context.Context, text string) (Representation, error) {
	return newLexicalRepresentation(text), nil
}

func (b LexicalBuilder) BuildBatch(ctx context.Context, texts []string) ([]Representation, error) {
	reps := make([]Representation, len(texts))
	for i, t := range texts {
		reps[i] = newLexicalRepresentation(t)
	}
	return reps, nil
}

// ComposeItemText собирает текст вещи для сравнения: название, описание, бренд.
// Категория, цвет и место оцениваются отдельно в MetadataFilter.
func ComposeItemText(item *entity.Item) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{item.Title, item.Description, item.Brand} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
