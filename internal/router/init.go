package router

import (
	"blog-api/internal/application"
	"blog-api/internal/container"
	pginfra "blog-api/internal/infrastructure/postgres"
	handlers "blog-api/internal/interface/http"
	"blog-api/internal/router/modules"
)

// InitModules builds all feature modules from the container singletons
// and registers them with the router registry. Call once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	categories := pginfra.NewCategoryRepository(pool)
	posts := pginfra.NewPostRepository(pool)
	comments := pginfra.NewCommentRepository(pool)

	authSvc := &application.AuthService{
		Users:       users,
		JWT:         container.GetJWT(),
		GCS:         container.GetGCS(),
		GCSBucket:   cfg.GCSBucket,
		Logger:      logger,
		AppName:     cfg.AppName,
		MailEnabled: cfg.MailSendEnabled,
	}
	if ts := container.GetTokenStore(); ts != nil {
		authSvc.Tokens = ts
	}
	if pub := container.GetRabbitPub(); pub != nil {
		authSvc.Pub = pub
	}

	blogSvc := &application.BlogService{
		Posts:      posts,
		Categories: categories,
		Comments:   comments,
		Users:      users,
		GCS:        container.GetGCS(),
		GCSBucket:  cfg.GCSBucket,
		ES:         container.GetES(),
		ESIndex:    cfg.ESPostsIndex,
		Logger:     logger,
	}

	commentSvc := &application.CommentService{
		Comments: comments,
		Posts:    posts,
		Users:    users,
		Logger:   logger,
	}

	authHandler := handlers.NewAuthHandler(authSvc, logger)
	userHandler := handlers.NewUserHandler(authSvc, logger)
	categoryHandler := handlers.NewCategoryHandler(blogSvc, logger)
	postHandler := handlers.NewPostHandler(blogSvc, commentSvc, logger)
	commentHandler := handlers.NewCommentHandler(commentSvc, logger)

	jwt := container.GetJWT()
	r.Add(modules.NewAuthModule(authHandler, userHandler, jwt))
	r.Add(modules.NewBlogModule(categoryHandler, postHandler, jwt))
	r.Add(modules.NewCommentModule(commentHandler, jwt))
}
