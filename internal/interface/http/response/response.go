package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/pkg/apperror"
)

// Response - общий конверт ответов API.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PaginatedResponse struct {
	Success    bool       `json:"success"`
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func Paginated(c *gin.Context, data any, total, limit, offset int) {
	c.JSON(http.StatusOK, PaginatedResponse{
		Success: true,
		Data:    data,
		Pagination: Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+limit < total,
		},
	})
}

// Error отдаёт AppError как есть. Ошибки хранилища и прочие внутренние
// ошибки логируются, клиенту уходит общее сообщение.
func Error(c *gin.Context, err error) {
	status, info := describe(c, err)
	c.JSON(status, Response{Success: false, Error: &info})
}

// Abort - то же, что Error, но прерывает цепочку middleware.
func Abort(c *gin.Context, err error) {
	status, info := describe(c, err)
	c.AbortWithStatusJSON(status, Response{Success: false, Error: &info})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, apperror.New(apperror.ErrCodeBadRequest, message))
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, apperror.New(apperror.ErrCodeUnauthorized, message))
}

func describe(c *gin.Context, err error) (int, ErrorInfo) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus < http.StatusInternalServerError {
		return appErr.HTTPStatus, ErrorInfo{Code: string(appErr.Code), Message: appErr.Message}
	}

	code := apperror.ErrCodeInternal
	if appErr != nil {
		code = appErr.Code
	}
	logger.WithComponent("http").WithError(err).WithField("path", c.Request.URL.Path).Error("внутренняя ошибка")
	return http.StatusInternalServerError, ErrorInfo{Code: string(code), Message: "внутренняя ошибка сервера"}
}
