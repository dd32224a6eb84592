package matching

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
)

func dated(t valueobject.ItemType, date time.Time) *entity.Item {
	return &entity.Item{ID: uuid.New(), Type: t, Category: "bags", Date: date, Status: valueobject.ItemStatusOpen}
}

func TestMetadataFilter_CategoryMatch(t *testing.T) {
	f := NewMetadataFilter(DefaultConfig())

	assert.True(t, f.CategoryMatch("Electronics", " electronics "))
	assert.False(t, f.CategoryMatch("electronics", "accessories"))
	assert.False(t, f.CategoryMatch("", "accessories"))
}

func TestMetadataFilter_ColorScore(t *testing.T) {
	f := NewMetadataFilter(DefaultConfig())

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"одинаковый", "Black", "black", 1},
		{"одна группа", "navy", "blue", 0.5},
		{"grey и silver", "grey", "Silver", 0.5},
		{"разные", "red", "green", 0},
		{"нет цвета", "", "red", 0.5},
		{"нет обоих", "", "", 0.5},
		{"неизвестный цвет", "teal", "red", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ColorScore(tt.a, tt.b))
			assert.Equal(t, tt.want, f.ColorScore(tt.b, tt.a))
		})
	}
}

func TestMetadataFilter_ColorScoreConfigurable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissingColorScore = 0
	cfg.RelatedColorScore = 0.7
	f := NewMetadataFilter(cfg)

	assert.Equal(t, 0.0, f.ColorScore("", "red"))
	assert.Equal(t, 0.7, f.ColorScore("red", "crimson"))
}

func TestMetadataFilter_LocationScore(t *testing.T) {
	f := NewMetadataFilter(DefaultConfig())

	assert.Equal(t, 1.0, f.LocationScore("Central Park", "central  park"))
	assert.Equal(t, 0.8, f.LocationScore("Central Park", "Central Park, near the bench"))
	assert.Equal(t, 0.8, f.LocationScore("Central Park, near the bench", "Central Park"))
	assert.Equal(t, 0.5, f.LocationScore("", "Central Park"))
	assert.Equal(t, 0.0, f.LocationScore("Airport terminal", "Central Park"))

	partial := f.LocationScore("Main street station", "Station square")
	assert.Greater(t, partial, 0.0)
	assert.Less(t, partial, 0.8)
}

func TestMetadataFilter_DateOK(t *testing.T) {
	f := NewMetadataFilter(DefaultConfig())
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		found time.Time
		want  bool
	}{
		{"тот же день", day.Add(20 * time.Hour), true},
		{"через два дня", day.AddDate(0, 0, 2), true},
		{"граница окна", day.AddDate(0, 0, 90), true},
		{"за окном", day.AddDate(0, 0, 91), false},
		{"раньше потери", day.AddDate(0, 0, -1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lost := dated(valueobject.ItemTypeLost, day)
			found := dated(valueobject.ItemTypeFound, tt.found)
			assert.Equal(t, tt.want, f.DateOK(lost, found))
		})
	}
}

func TestMetadataResult_Passes(t *testing.T) {
	assert.True(t, MetadataResult{CategoryMatch: true, DateOK: true}.Passes())
	assert.False(t, MetadataResult{CategoryMatch: false, DateOK: true, ColorScore: 1, LocationScore: 1}.Passes())
	assert.False(t, MetadataResult{CategoryMatch: true, DateOK: false}.Passes())
}
