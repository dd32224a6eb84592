package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/http/middleware"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

var errNoUser = errors.New("userID не найден в контексте")

func getUserID(c *gin.Context) (uuid.UUID, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, errNoUser
	}
	return userID, nil
}

// queryInt читает неотрицательное целое из query. Отсутствие параметра даёт fallback.
func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperror.Validation("параметр " + key + " должен быть неотрицательным целым числом")
	}
	return v, nil
}
