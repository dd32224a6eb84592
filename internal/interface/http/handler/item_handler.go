package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/domain/entity"
	"github.com/ignatzorin/lostfound-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lostfound-backend/internal/interface/http/dto"
	"github.com/ignatzorin/lostfound-backend/internal/interface/http/response"
	"github.com/ignatzorin/lostfound-backend/internal/usecase/item"
)

type ItemHandler struct {
	createItemUC  *item.CreateItemUseCase
	getItemUC     *item.GetItemUseCase
	listItemsUC   *item.ListItemsUseCase
	searchItemsUC *item.SearchItemsUseCase
}

func NewItemHandler(
	createItemUC *item.CreateItemUseCase,
	getItemUC *item.GetItemUseCase,
	listItemsUC *item.ListItemsUseCase,
	searchItemsUC *item.SearchItemsUseCase,
) *ItemHandler {
	return &ItemHandler{
		createItemUC:  createItemUC,
		getItemUC:     getItemUC,
		listItemsUC:   listItemsUC,
		searchItemsUC: searchItemsUC,
	}
}

func (h *ItemHandler) CreateLostItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.CreateLostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	date, err := dto.ParseDate(req.DateLost)
	if err != nil {
		response.BadRequest(c, "дата должна быть в формате YYYY-MM-DD")
		return
	}

	h.create(c, req.ToInput(userID, date))
}

func (h *ItemHandler) CreateFoundItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.CreateFoundItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}
	date, err := dto.ParseDate(req.DateFound)
	if err != nil {
		response.BadRequest(c, "дата должна быть в формате YYYY-MM-DD")
		return
	}

	h.create(c, req.ToInput(userID, date))
}

func (h *ItemHandler) create(c *gin.Context, input entity.ItemInput) {
	result, err := h.createItemUC.Execute(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.CreateItemResponse{
		Item:             dto.ToItemResponse(result.Item),
		PotentialMatches: result.PotentialMatches,
	})
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID вещи")
		return
	}

	it, err := h.getItemUC.Execute(c.Request.Context(), itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToItemResponse(it))
}

func (h *ItemHandler) ListLostItems(c *gin.Context) {
	h.list(c, valueobject.ItemTypeLost)
}

func (h *ItemHandler) ListFoundItems(c *gin.Context) {
	h.list(c, valueobject.ItemTypeFound)
}

func (h *ItemHandler) list(c *gin.Context, itemType valueobject.ItemType) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.listItemsUC.Execute(c.Request.Context(), item.ListItemsInput{
		Type:   itemType,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, dto.ToItemResponses(result.Items), result.Total, result.Limit, result.Offset)
}

// Search обрабатывает GET /api/search?query=&type=&category=&color=&location=&limit=
func (h *ItemHandler) Search(c *gin.Context) {
	itemType := valueobject.ItemType(c.Query("type"))
	if itemType == "both" {
		itemType = ""
	}

	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		response.Error(c, err)
		return
	}

	hits, err := h.searchItemsUC.Execute(c.Request.Context(), item.SearchInput{
		Query:    c.Query("query"),
		Type:     itemType,
		Category: c.Query("category"),
		Color:    c.Query("color"),
		Location: c.Query("location"),
		Limit:    limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToSearchResponse(hits))
}
