package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/usecase/item"
)

// DateLayout - формат дат потери и находки.
const DateLayout = "2006-01-02"

type CreateLostItemRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description" binding:"required"`
	Category     string  `json:"category" binding:"required"`
	Color        string  `json:"color"`
	Brand        string  `json:"brand"`
	Location     string  `json:"location"`
	DateLost     string  `json:"date_lost" binding:"required"`
	ImageURL     string  `json:"image_url"`
	RewardAmount float64 `json:"reward_amount" binding:"gte=0"`
}

type CreateFoundItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Color       string `json:"color"`
	Brand       string `json:"brand"`
	Location    string `json:"location"`
	DateFound   string `json:"date_found" binding:"required"`
	ImageURL    string `json:"image_url"`
	Condition   string `json:"condition"`
}

func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

func (r CreateLostItemRequest) ToInput(ownerID uuid.UUID, date time.Time) entity.ItemInput {
	return entity.ItemInput{
		OwnerID:      ownerID,
		Type:         valueobject.ItemTypeLost,
		Title:        r.Title,
		Description:  r.Description,
		Category:     r.Category,
		Color:        r.Color,
		Brand:        r.Brand,
		Location:     r.Location,
		Date:         date,
		ImageURL:     r.ImageURL,
		RewardAmount: r.RewardAmount,
	}
}

func (r CreateFoundItemRequest) ToInput(ownerID uuid.UUID, date time.Time) entity.ItemInput {
	return entity.ItemInput{
		OwnerID:     ownerID,
		Type:        valueobject.ItemTypeFound,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Color:       r.Color,
		Brand:       r.Brand,
		Location:    r.Location,
		Date:        date,
		ImageURL:    r.ImageURL,
		Condition:   r.Condition,
	}
}

type ItemResponse struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Color        string    `json:"color,omitempty"`
	Brand        string    `json:"brand,omitempty"`
	Location     string    `json:"location,omitempty"`
	Date         string    `json:"date"`
	ImageURL     string    `json:"image_url,omitempty"`
	RewardAmount float64   `json:"reward_amount,omitempty"`
	Condition    string    `json:"condition,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToItemResponse(it *entity.Item) ItemResponse {
	return ItemResponse{
		ID:           it.ID,
		OwnerID:      it.OwnerID,
		Type:         string(it.Type),
		Title:        it.Title,
		Description:  it.Description,
		Category:     it.Category,
		Color:        it.Color,
		Brand:        it.Brand,
		Location:     it.Location,
		Date:         it.Date.Format(DateLayout),
		ImageURL:     it.ImageURL,
		RewardAmount: it.RewardAmount,
		Condition:    it.Condition,
		Status:       string(it.Status),
		CreatedAt:    it.CreatedAt,
	}
}

func ToItemResponses(items []*entity.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ToItemResponse(it))
	}
	return out
}

type CreateItemResponse struct {
	Item             ItemResponse `json:"item"`
	PotentialMatches int          `json:"potential_matches"`
}

type SearchHitResponse struct {
	ItemResponse
	Similarity float64 `json:"similarity"`
}

type SearchResponse struct {
	Results []SearchHitResponse `json:"results"`
	Total   int                 `json:"total"`
}

func ToSearchResponse(hits []item.SearchHit) SearchResponse {
	out := make([]SearchHitResponse, 0, len(hits))
	for _, h := range hits {
		out = append(out, SearchHitResponse{ItemResponse: ToItemResponse(h.Item), Similarity: h.Similarity})
	}
	return SearchResponse{Results: out, Total: len(out)}
}
