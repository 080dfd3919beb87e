package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aicd-directory/pkg/services"
	"aicd-directory/pkg/storage"
)

// Server holds the dependencies shared by all request handlers.
type Server struct {
	store    storage.Store
	notifier *services.Notifier
	logger   *zap.Logger
}

func New(store storage.Store, notifier *services.Notifier, logger *zap.Logger) *Server {
	return &Server{store: store, notifier: notifier, logger: logger}
}

// Register attaches all routes to the engine. Mutating routes sit behind
// AuthRequired so unauthenticated requests are rejected before any store
// access.
func (s *Server) Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api")

	api.POST("/auth/login", s.Login)
	api.GET("/auth/check", s.Check)
	api.POST("/auth/logout", s.Logout)

	api.GET("/sections", s.ListSections)
	api.GET("/sections/:id", s.GetSection)
	api.GET("/sections/:id/categories/:categoryID", s.GetCategory)
	api.GET("/sections/:id/categories/:categoryID/items/:slug", s.GetItem)

	api.GET("/events", s.StreamEvents)

	authorized := api.Group("")
	authorized.Use(AuthRequired)
	{
		authorized.PUT("/sections", s.ReplaceSections)
		authorized.PUT("/sections/:id", s.UpdateSection)
		authorized.DELETE("/sections/:id", s.DeleteSection)
		authorized.PUT("/sections/:id/categories/:categoryID", s.UpdateCategory)
		authorized.DELETE("/sections/:id/categories/:categoryID", s.DeleteCategory)
		authorized.PUT("/sections/:id/categories/:categoryID/items/:slug", s.UpdateItem)
		authorized.DELETE("/sections/:id/categories/:categoryID/items/:slug", s.DeleteItem)
		authorized.POST("/upload", s.UploadLogo)
		authorized.POST("/refresh-cache", s.RefreshCache)
	}
}
