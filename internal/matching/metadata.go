package matching

import (
	"strings"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
)

// MetadataResult - поля сравнения метаданных пары (потерянная, найденная).
type MetadataResult struct {
	CategoryMatch bool
	ColorScore    float64
	LocationScore float64
	DateOK        bool
}

// Passes - жёсткие фильтры: категория и дата. Цвет и место сами не отсекают пару.
func (r MetadataResult) Passes() bool {
	return r.CategoryMatch && r.DateOK
}

// MetadataFilter оценивает категорию, цвет, место и дату.
type MetadataFilter struct {
	cfg         Config
	colorGroups map[string][]int
	scorer      SimilarityScorer
}

func NewMetadataFilter(cfg Config) *MetadataFilter {
	cfg = cfg.clone()
	groups := make(map[string][]int)
	for i, g := range cfg.ColorGroups {
		for _, c := range g {
			key := normalizeField(c)
			groups[key] = append(groups[key], i)
		}
	}
	return &MetadataFilter{
		cfg:         cfg,
		colorGroups: groups,
		scorer:      LexicalScorer{},
	}
}

func (f *MetadataFilter) Evaluate(lost, found *entity.Item) MetadataResult {
	return MetadataResult{
		CategoryMatch: f.CategoryMatch(lost.Category, found.Category),
		ColorScore:    f.ColorScore(lost.Color, found.Color),
		LocationScore: f.LocationScore(lost.Location, found.Location),
		DateOK:        f.DateOK(lost, found),
	}
}

func (f *MetadataFilter) CategoryMatch(a, b string) bool {
	return normalizeField(a) == normalizeField(b)
}

func (f *MetadataFilter) ColorScore(a, b string) float64 {
	a, b = normalizeField(a), normalizeField(b)
	if a == "" || b == "" {
		return f.cfg.MissingColorScore
	}
	if a == b {
		return 1
	}
	for _, ga := range f.colorGroups[a] {
		for _, gb := range f.colorGroups[b] {
			if ga == gb {
				return f.cfg.RelatedColorScore
			}
		}
	}
	return 0
}

func (f *MetadataFilter) LocationScore(a, b string) float64 {
	a, b = normalizeField(a), normalizeField(b)
	if a == "" || b == "" {
		return f.cfg.MissingLocationScore
	}
	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return f.cfg.LocationContainsScore
	}
	return f.scorer.Score(newLexicalRepresentation(a), newLexicalRepresentation(b))
}

// DateOK: найдено не раньше потери и не позже окна в днях.
func (f *MetadataFilter) DateOK(lost, found *entity.Item) bool {
	lostDay := entity.TruncateToDay(lost.Date)
	foundDay := entity.TruncateToDay(found.Date)
	if foundDay.Before(lostDay) {
		return false
	}
	gapDays := int(foundDay.Sub(lostDay).Hours() / 24)
	return gapDays <= f.cfg.DateWindowDays
}

func normalizeField(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
