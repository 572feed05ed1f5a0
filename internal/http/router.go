package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"opshub/internal/config"
	"opshub/internal/domain/models"
	h "opshub/internal/http/handlers"
	"opshub/internal/http/middleware"
	"opshub/internal/repositories"
)

// NewRouter wires the admin API. Every resource panel mounts through the
// same generic handler; only the repository binding and filter keys differ.
func NewRouter(cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(cfg.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warn().Err(err).Msg("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"error":   "route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		auth := api.Group("/auth")
		authHandler := h.AuthHandler{Users: repositories.UserRepository{}, Secret: cfg.JWTSecret}
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)

		admin := api.Group("/admin")
		admin.Use(middleware.Auth(cfg.JWTSecret), middleware.RequireRoles("owner", "admin", "editor"))

		h.Resource[models.ContentItem]{
			Name:       "content",
			Singular:   "item",
			Store:      repositories.ContentRepository{},
			FilterKeys: []string{"category", "status", "author"},
		}.Mount(admin)

		h.Resource[models.Prompt]{
			Name:       "prompts",
			Singular:   "prompt",
			Store:      repositories.PromptRepository{},
			FilterKeys: []string{"category", "active"},
		}.Mount(admin)

		h.Resource[models.Pattern]{
			Name:       "patterns",
			Singular:   "pattern",
			Store:      repositories.PatternRepository{},
			FilterKeys: []string{"category", "active"},
		}.Mount(admin)

		h.Resource[models.Workflow]{
			Name:       "workflows",
			Singular:   "workflow",
			Store:      repositories.WorkflowRepository{},
			FilterKeys: []string{"active"},
		}.Mount(admin)

		h.Resource[models.Setting]{
			Name:       "settings",
			Singular:   "setting",
			Store:      repositories.SettingRepository{},
			FilterKeys: []string{"active"},
		}.Mount(admin)

		h.Resource[models.NewsItem]{
			Name:       "news",
			Singular:   "item",
			Store:      repositories.NewsRepository{},
			FilterKeys: []string{"active"},
		}.Mount(admin)

		// user management is owner/admin only
		users := admin.Group("", middleware.RequireRoles("owner", "admin"))
		h.Resource[models.User]{
			Name:       "users",
			Singular:   "user",
			Store:      repositories.UserRepository{},
			FilterKeys: []string{"role", "active"},
		}.Mount(users)

		h.DLQHandler{Repo: repositories.DLQRepository{}}.Mount(admin)

		export := h.ExportHandler{Content: repositories.ContentRepository{}}
		admin.GET("/exports/content.pdf", export.ContentInventoryPDF)
	}

	return r
}
