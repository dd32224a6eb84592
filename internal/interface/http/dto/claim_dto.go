package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/challenge"
	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
)

type InitiateClaimRequest struct {
	TargetType          string `json:"target_type" binding:"required,oneof=lost found"`
	TargetItemID        string `json:"target_item_id" binding:"required,uuid"`
	ClaimantDescription string `json:"claimant_description" binding:"required"`
}

type VerifyClaimRequest struct {
	ClaimID          string `json:"claim_id" binding:"required,uuid"`
	SelectedOptionID string `json:"selected_option_id" binding:"required"`
}

// ClaimOptionResponse - вариант без признака правильности.
type ClaimOptionResponse struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
	Label    string `json:"label"`
}

type ClaimResponse struct {
	ClaimID      uuid.UUID             `json:"claim_id"`
	TargetItemID uuid.UUID             `json:"target_item_id"`
	TargetType   string                `json:"target_type"`
	QuestionText string                `json:"question_text"`
	Options      []ClaimOptionResponse `json:"options"`
	Status       string                `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
}

// ToClaimResponse строится только из публичного представления заявки.
func ToClaimResponse(v *entity.ClaimView) ClaimResponse {
	options := make([]ClaimOptionResponse, 0, len(v.Options))
	for _, o := range v.Options {
		options = append(options, ClaimOptionResponse{ID: o.ID, ImageURL: o.ImageURL, Label: o.Label})
	}
	return ClaimResponse{
		ClaimID:      v.ID,
		TargetItemID: v.TargetItemID,
		TargetType:   string(v.TargetType),
		QuestionText: v.QuestionText,
		Options:      options,
		Status:       string(v.Status),
		CreatedAt:    v.CreatedAt,
	}
}

type VerifyClaimResponse struct {
	Result challenge.Verdict `json:"result"`
}
