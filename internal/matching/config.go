package matching

import (
	"math"

	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

// Weights - веса составной оценки, в сумме дают 1.
type Weights struct {
	Text     float64
	Color    float64
	Location float64
}

func (w Weights) sum() float64 {
	return w.Text + w.Color + w.Location
}

// Config - неизменяемые параметры сопоставления. Передаётся в Ranker и MetadataFilter
// при создании, глобального состояния нет.
type Config struct {
	Threshold             float64
	Weights               Weights
	DateWindowDays        int
	MaxResults            int
	MissingColorScore     float64
	RelatedColorScore     float64
	MissingLocationScore  float64
	LocationContainsScore float64
	ColorGroups           [][]string
}

// DefaultColorGroups - группы близких цветов.
func DefaultColorGroups() [][]string {
	return [][]string{
		{"red", "burgundy", "crimson", "scarlet", "maroon"},
		{"blue", "navy", "azure", "cyan"},
		{"green", "emerald", "lime", "olive"},
		{"yellow", "gold", "amber"},
		{"black", "dark", "charcoal"},
		{"white", "cream", "ivory"},
		{"gray", "grey", "silver"},
		{"brown", "tan", "beige", "khaki"},
		{"purple", "violet", "magenta"},
		{"orange", "coral", "peach"},
	}
}

func DefaultConfig() Config {
	return Config{
		Threshold: 0.7,
		Weights: Weights{
			Text:     0.6,
			Color:    0.15,
			Location: 0.25,
		},
		DateWindowDays:        90,
		MaxResults:            10,
		MissingColorScore:     0.5,
		RelatedColorScore:     0.5,
		MissingLocationScore:  0.5,
		LocationContainsScore: 0.8,
		ColorGroups:           DefaultColorGroups(),
	}
}

const weightsTolerance = 1e-6

func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return apperror.Validation("порог совпадения должен быть в диапазоне [0, 1]")
	}
	w := c.Weights
	if w.Text < 0 || w.Color < 0 || w.Location < 0 {
		return apperror.Validation("веса оценки не могут быть отрицательными")
	}
	if math.Abs(w.sum()-1) > weightsTolerance {
		return apperror.Validation("сумма весов оценки должна быть равна 1")
	}
	if c.DateWindowDays <= 0 {
		return apperror.Validation("окно дат должно быть положительным")
	}
	if c.MaxResults < 0 {
		return apperror.Validation("лимит совпадений не может быть отрицательным")
	}
	for _, s := range []float64{c.MissingColorScore, c.RelatedColorScore, c.MissingLocationScore, c.LocationContainsScore} {
		if s < 0 || s > 1 {
			return apperror.Validation("частичные оценки должны быть в диапазоне [0, 1]")
		}
	}
	return nil
}

// clone копирует срезы, чтобы внешние изменения не влияли на движок.
func (c Config) clone() Config {
	groups := make([][]string, len(c.ColorGroups))
	for i, g := range c.ColorGroups {
		groups[i] = append([]string(nil), g...)
	}
	c.ColorGroups = groups
	return c
}
