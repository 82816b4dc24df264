package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"blog-api/internal/container"
	handlers "blog-api/internal/interface/http"
	"blog-api/internal/interface/middleware"
	"blog-api/pkg/helpers"
)

// AuthModule wires account and session routes.
// Public: POST /api/auth/register, /api/auth/login, /api/auth/token/refresh,
// GET /api/users/:id
// Protected: POST /api/auth/logout, GET/PUT/PATCH /api/auth/profile,
// POST /api/auth/profile/avatar

type AuthModule struct {
	Auth  *handlers.AuthHandler
	Users *handlers.UserHandler
	JWT   *helpers.JWTManager
}

func NewAuthModule(auth *handlers.AuthHandler, users *handlers.UserHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Auth: auth, Users: users, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP())

	grp := rg.Group("/auth")
	grp.POST("/register", registerLimiter, m.Auth.Register)
	grp.POST("/login", loginLimiter, m.Auth.Login)
	grp.POST("/token/refresh", refreshLimiter, m.Auth.Refresh)

	rg.GET("/users/:id", m.Users.Get)

	auth := grp.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/logout", m.Auth.Logout)
		auth.GET("/profile", m.Auth.GetProfile)
		auth.PUT("/profile", m.Auth.UpdateProfile)
		auth.PATCH("/profile", m.Auth.UpdateProfile)
		auth.POST("/profile/avatar", m.Auth.UploadAvatar)
	}
}
