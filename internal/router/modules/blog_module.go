package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"blog-api/internal/container"
	handlers "blog-api/internal/interface/http"
	"blog-api/internal/interface/middleware"
	"blog-api/pkg/helpers"
)

// BlogModule wires category and post routes.
// Reads are public; every mutation requires an access token.

type BlogModule struct {
	Categories *handlers.CategoryHandler
	Posts      *handlers.PostHandler
	JWT        *helpers.JWTManager
}

func NewBlogModule(categories *handlers.CategoryHandler, posts *handlers.PostHandler, jwt *helpers.JWTManager) *BlogModule {
	return &BlogModule{Categories: categories, Posts: posts, JWT: jwt}
}

func (m *BlogModule) Register(rg *gin.RouterGroup) {
	rg.GET("/categories", m.Categories.List)
	rg.GET("/categories/:id", m.Categories.Get)

	rg.GET("/posts", m.Posts.List)
	rg.GET("/posts/:slug", m.Posts.Detail)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/categories", m.Categories.Create)
		auth.PUT("/categories/:id", m.Categories.Update)
		auth.PATCH("/categories/:id", m.Categories.Update)
		auth.DELETE("/categories/:id", m.Categories.Delete)

		auth.GET("/posts/mine", m.Posts.Mine)
		auth.POST("/posts/create", m.Posts.Create)
		auth.PUT("/posts/:slug/update", m.Posts.Update)
		auth.PATCH("/posts/:slug/update", m.Posts.Update)
		auth.DELETE("/posts/:slug/delete", m.Posts.Delete)
		auth.POST("/posts/:slug/image", m.Posts.UploadImage)
	}
}
