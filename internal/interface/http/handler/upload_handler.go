package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/lostfound-backend/internal/interface/http/dto"
	"github.com/ignatzorin/lostfound-backend/internal/interface/http/response"
	"github.com/ignatzorin/lostfound-backend/internal/storage"
)

// UploadsPrefix - путь, по которому раздаются загруженные фотографии.
const UploadsPrefix = "/uploads"

type UploadHandler struct {
	storage       *storage.PhotoStorage
	publicBaseURL string
}

func NewUploadHandler(storage *storage.PhotoStorage, publicBaseURL string) *UploadHandler {
	return &UploadHandler{storage: storage, publicBaseURL: publicBaseURL}
}

// UploadImage обрабатывает POST /api/uploads/images.
// Возвращает image_url, который затем передаётся при создании вещи.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "поле file обязательно")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "не удалось прочитать файл")
		return
	}
	defer src.Close()

	stored, err := h.storage.Save(c.Request.Context(), userID, src)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.UploadResponse{
		ImageURL:    storage.PublicURL(h.publicBaseURL, UploadsPrefix, stored.RelativePath),
		ContentType: stored.ContentType,
		Size:        stored.Size,
	})
}
