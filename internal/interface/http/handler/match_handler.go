package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/interface/http/dto"
	"github.com/ignatzorin/lostfound-backend/internal/interface/http/response"
	"github.com/ignatzorin/lostfound-backend/internal/usecase/match"
)

type MatchHandler struct {
	listUserMatchesUC   *match.ListUserMatchesUseCase
	updateMatchStatusUC *match.UpdateMatchStatusUseCase
}

func NewMatchHandler(listUserMatchesUC *match.ListUserMatchesUseCase, updateMatchStatusUC *match.UpdateMatchStatusUseCase) *MatchHandler {
	return &MatchHandler{
		listUserMatchesUC:   listUserMatchesUC,
		updateMatchStatusUC: updateMatchStatusUC,
	}
}

func (h *MatchHandler) ListMyMatches(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	matches, err := h.listUserMatchesUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToUserMatchResponses(matches))
}

func (h *MatchHandler) UpdateStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID совпадения")
		return
	}

	var req dto.UpdateMatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "статус должен быть confirmed или rejected")
		return
	}

	m, err := h.updateMatchStatusUC.Execute(c.Request.Context(), userID, matchID, valueobject.MatchStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToMatchResponse(m))
}
