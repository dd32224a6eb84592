package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
	"github.com/ignatzorin/lostfound-backend/internal/validation"
)

// Item - заявка о потерянной или найденной вещи.
type Item struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Type         valueobject.ItemType
	Title        string
	Description  string
	Category     string
	Color        string
	Brand        string
	Location     string
	Date         time.Time
	ImageURL     string
	RewardAmount float64
	Condition    string
	Status       valueobject.ItemStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ItemInput struct {
	OwnerID      uuid.UUID
	Type         valueobject.ItemType
	Title        string
	Description  string
	Category     string
	Color        string
	Brand        string
	Location     string
	Date         time.Time
	ImageURL     string
	RewardAmount float64
	Condition    string
}

// NewItem проверяет поля и создаёт вещь. now задаёт «сегодня» для проверки даты.
func NewItem(input ItemInput, now time.Time) (*Item, error) {
	if !input.Type.IsValid() {
		return nil, apperror.Validation("тип вещи должен быть lost или found")
	}
	if input.OwnerID == uuid.Nil {
		return nil, apperror.Validation("владелец вещи обязателен")
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperror.Validation("описание обязательно")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, apperror.Validation("категория обязательна")
	}

	if err := validation.ValidateFields(
		validation.Field{Name: "название", Value: input.Title, Max: validation.MaxTitleLength},
		validation.Field{Name: "описание", Value: description, Max: validation.MaxDescriptionLength},
		validation.Field{Name: "категория", Value: category, Max: validation.MaxCategoryLength},
		validation.Field{Name: "цвет", Value: input.Color, Max: validation.MaxColorLength},
		validation.Field{Name: "бренд", Value: input.Brand, Max: validation.MaxBrandLength},
		validation.Field{Name: "место", Value: input.Location, Max: validation.MaxLocationLength},
		validation.Field{Name: "состояние", Value: input.Condition, Max: validation.MaxConditionLength},
	); err != nil {
		return nil, err
	}
	if err := validation.ValidateImageURL(input.ImageURL); err != nil {
		return nil, err
	}

	if input.Date.IsZero() {
		return nil, apperror.Validation("дата обязательна")
	}
	date := TruncateToDay(input.Date)
	if date.After(TruncateToDay(now)) {
		return nil, apperror.Validation("дата не может быть в будущем")
	}

	if input.Type == valueobject.ItemTypeFound && input.RewardAmount != 0 {
		return nil, apperror.Validation("вознаграждение указывается только для потерянных вещей")
	}
	reward, err := valueobject.NewReward(input.RewardAmount)
	if err != nil {
		return nil, err
	}
	condition := strings.TrimSpace(input.Condition)
	if input.Type == valueobject.ItemTypeLost && condition != "" {
		return nil, apperror.Validation("состояние указывается только для найденных вещей")
	}

	return &Item{
		ID:           uuid.New(),
		OwnerID:      input.OwnerID,
		Type:         input.Type,
		Title:        strings.TrimSpace(input.Title),
		Description:  description,
		Category:     category,
		Color:        strings.TrimSpace(input.Color),
		Brand:        strings.TrimSpace(input.Brand),
		Location:     strings.TrimSpace(input.Location),
		Date:         date,
		ImageURL:     strings.TrimSpace(input.ImageURL),
		RewardAmount: reward.Amount(),
		Condition:    condition,
		Status:       valueobject.ItemStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (i *Item) IsLost() bool {
	return i.Type == valueobject.ItemTypeLost
}

func (i *Item) IsFound() bool {
	return i.Type == valueobject.ItemTypeFound
}

func (i *Item) IsOpen() bool {
	return i.Status == valueobject.ItemStatusOpen
}

func (i *Item) IsOwnedBy(userID uuid.UUID) bool {
	return i.OwnerID == userID
}

func (i *Item) HasImage() bool {
	return strings.TrimSpace(i.ImageURL) != ""
}

// TruncateToDay приводит момент времени к календарной дате в UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
