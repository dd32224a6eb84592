package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/lostfound-backend/internal/auth"
	"github.com/ignatzorin/lostfound-backend/internal/config"
	"github.com/ignatzorin/lostfound-backend/internal/http/handlers"
	"github.com/ignatzorin/lostfound-backend/internal/http/middleware"
	"github.com/ignatzorin/lostfound-backend/internal/interface/http/handler"
)

// Handlers - все хэндлеры API.
type Handlers struct {
	Health  *handlers.HealthHandler
	WS      *handlers.WSHandler
	Items   *handler.ItemHandler
	Match   *handler.MatchHandler
	Claims  *handler.ClaimHandler
	Uploads *handler.UploadHandler
}

func SetupRouter(cfg *config.Config, tokens *auth.TokenManager, h Handlers) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	if h.Health != nil {
		r.GET("/health", h.Health.Health)
	}

	if h.Uploads != nil {
		// Фотографии вещей раздаются без листинга каталогов.
		r.StaticFS(handler.UploadsPrefix, gin.Dir(cfg.UploadDir, false))
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware("api", cfg.RateLimitLimit, cfg.RateLimitPeriod))

	// Просмотр и поиск доступны без авторизации.
	api.GET("/lost-items", h.Items.ListLostItems)
	api.GET("/found-items", h.Items.ListFoundItems)
	api.GET("/items/:id", middleware.UUIDValidator("id"), h.Items.GetItem)
	api.GET("/search", h.Items.Search)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		protected.POST("/lost-items", h.Items.CreateLostItem)
		protected.POST("/found-items", h.Items.CreateFoundItem)

		protected.GET("/matches", h.Match.ListMyMatches)
		protected.PATCH("/matches/:id", middleware.UUIDValidator("id"), h.Match.UpdateStatus)

		if h.Uploads != nil {
			protected.POST("/uploads/images", h.Uploads.UploadImage)
		}

		if h.WS != nil {
			protected.GET("/ws", h.WS.Handle)
		}
	}

	claims := protected.Group("/claims")
	claims.Use(middleware.RateLimitMiddleware("claims", cfg.ClaimRateLimit, cfg.RateLimitPeriod))
	{
		claims.POST("/initiate", h.Claims.Initiate)
		claims.POST("/verify", h.Claims.Verify)
	}

	return r
}
