package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/interface/http/dto"
	"github.com/ignatzorin/lostfound-backend/internal/interface/http/response"
	"github.com/ignatzorin/lostfound-backend/internal/usecase/claim"
)

type ClaimHandler struct {
	initiateClaimUC *claim.InitiateClaimUseCase
	verifyClaimUC   *claim.VerifyClaimUseCase
}

func NewClaimHandler(initiateClaimUC *claim.InitiateClaimUseCase, verifyClaimUC *claim.VerifyClaimUseCase) *ClaimHandler {
	return &ClaimHandler{
		initiateClaimUC: initiateClaimUC,
		verifyClaimUC:   verifyClaimUC,
	}
}

// Initiate обрабатывает POST /api/claims/initiate.
func (h *ClaimHandler) Initiate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.InitiateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	targetID, err := uuid.Parse(req.TargetItemID)
	if err != nil {
		response.BadRequest(c, "некорректный ID вещи")
		return
	}

	view, err := h.initiateClaimUC.Execute(c.Request.Context(), claim.InitiateClaimInput{
		ClaimantID:          userID,
		TargetType:          valueobject.ItemType(req.TargetType),
		TargetItemID:        targetID,
		ClaimantDescription: req.ClaimantDescription,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToClaimResponse(view))
}

// Verify обрабатывает POST /api/claims/verify.
func (h *ClaimHandler) Verify(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.VerifyClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	claimID, err := uuid.Parse(req.ClaimID)
	if err != nil {
		response.BadRequest(c, "некорректный ID заявки")
		return
	}

	verdict, err := h.verifyClaimUC.Execute(c.Request.Context(), userID, claimID, req.SelectedOptionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.VerifyClaimResponse{Result: verdict})
}
