package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/interface/http/response"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

// UUIDValidator отклоняет запрос, если параметр пути не UUID.
// Хэндлеры после него могут разбирать параметр без проверки.
func UUIDValidator(params ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range params {
			if _, err := uuid.Parse(c.Param(name)); err != nil {
				response.Abort(c, apperror.New(apperror.ErrCodeBadRequest, "параметр "+name+" должен быть валидным UUID"))
				return
			}
		}
		c.Next()
	}
}
