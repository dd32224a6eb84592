package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lostfound-backend/internal/interface/http/response"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
)

// ErrorHandler дописывает ответ, если хэндлер положил ошибку в c.Errors
// и ничего не отправил. Если ответ уже ушёл, ошибки только логируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		log := logger.WithComponent("http").WithFields(logrus.Fields{
			"path":   c.FullPath(),
			"method": c.Request.Method,
			"errors": c.Errors.String(),
		})
		if c.Writer.Written() {
			log.Warn("ошибки после отправки ответа")
			return
		}

		log.Debug("ошибка запроса")
		response.Error(c, c.Errors.Last().Err)
	}
}
