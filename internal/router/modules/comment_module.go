package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"blog-api/internal/container"
	handlers "blog-api/internal/interface/http"
	"blog-api/internal/interface/middleware"
	"blog-api/pkg/helpers"
)

// CommentModule wires comment routes. Listing is public, everything
// else needs an access token.

type CommentModule struct {
	Handler *handlers.CommentHandler
	JWT     *helpers.JWTManager
}

func NewCommentModule(h *handlers.CommentHandler, jwt *helpers.JWTManager) *CommentModule {
	return &CommentModule{Handler: h, JWT: jwt}
}

func (m *CommentModule) Register(rg *gin.RouterGroup) {
	rg.GET("/comments", m.Handler.List)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/comments/create", m.Handler.Create)
		auth.PUT("/comments/:id/update", m.Handler.Update)
		auth.PATCH("/comments/:id/update", m.Handler.Update)
		auth.DELETE("/comments/:id/delete", m.Handler.Delete)
	}
}
