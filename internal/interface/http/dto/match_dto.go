package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/usecase/match"
)

type UpdateMatchStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed rejected"`
}

type MatchResponse struct {
	ID              uuid.UUID     `json:"id"`
	LostItemID      uuid.UUID     `json:"lost_item_id"`
	FoundItemID     uuid.UUID     `json:"found_item_id"`
	SimilarityScore float64       `json:"similarity_score"`
	Status          string        `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	LostItem        *ItemResponse `json:"lost_item,omitempty"`
	FoundItem       *ItemResponse `json:"found_item,omitempty"`
}

func ToMatchResponse(m *entity.Match) MatchResponse {
	return MatchResponse{
		ID:              m.ID,
		LostItemID:      m.LostItemID,
		FoundItemID:     m.FoundItemID,
		SimilarityScore: m.SimilarityScore,
		Status:          string(m.Status),
		CreatedAt:       m.CreatedAt,
	}
}

func ToUserMatchResponses(matches []match.UserMatch) []MatchResponse {
	out := make([]MatchResponse, 0, len(matches))
	for _, um := range matches {
		resp := ToMatchResponse(um.Match)
		lost, found := ToItemResponse(um.LostItem), ToItemResponse(um.FoundItem)
		resp.LostItem, resp.FoundItem = &lost, &found
		out = append(out, resp)
	}
	return out
}
