package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *AuthHandler,
	articleHandler *ArticleHandler,
	subscriberHandler *SubscriberHandler,
	subscriberQueryHandler *SubscriberQueryHandler,
	migrationHandler *MigrationHandler,
	jwtSecret string,
) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	// Public
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/login", authHandler.Login)
	r.GET("/sites/:site/articles/:slug", articleHandler.GetArticle)
	r.POST("/sites/:site/articles/:slug/views", articleHandler.BumpViews)
	r.POST("/sites/:site/articles/:slug/likes", articleHandler.BumpLikes)
	r.POST("/subscribe", subscriberHandler.Subscribe)
	r.POST("/unsubscribe", subscriberHandler.Unsubscribe)
	r.POST("/resubscribe", subscriberHandler.Resubscribe)

	// Admin
	admin := r.Group("/admin")
	admin.Use(AuthMiddleware(jwtSecret), RequireRole("admin"))
	{
		admin.PUT("/sites/:site/articles/:id/widgets", articleHandler.PutWidgets)
		admin.GET("/sites/:site/subscribers", subscriberQueryHandler.ListSubscribers)
		admin.GET("/migrate", migrationHandler.RunArticleFieldMigration)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
