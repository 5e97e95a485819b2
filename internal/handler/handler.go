package handler

import (
	"net/http"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/BloggingApp/bloghub/internal/metrics"
	"github.com/BloggingApp/bloghub/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	logger        *zap.Logger
	services      *service.Service
	metrics       *metrics.Metrics
	clientOrigins []string
}

func New(logger *zap.Logger, services *service.Service, m *metrics.Metrics, clientOrigins []string) *Handler {
	return &Handler{
		logger:        logger,
		services:      services,
		metrics:       m,
		clientOrigins: clientOrigins,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(h.requestIDMiddleware)
	r.Use(h.accessLogMiddleware)
	r.Use(h.metricsMiddleware)

	corsConfig := cors.Config{
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", REQUEST_ID_HEADER},
		ExposeHeaders:    []string{REQUEST_ID_HEADER},
		AllowCredentials: true,
	}
	if len(h.clientOrigins) > 0 {
		corsConfig.AllowOrigins = h.clientOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewMessageResponse("ok"))
	})
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.authRegister)
			auth.POST("/login", h.authLogin)
		}

		articles := api.Group("/articles")
		{
			articles.POST("", h.authMiddleware, h.articlesCreate)
			articles.GET("", h.articlesGetAll)
			articles.GET("/my", h.authMiddleware, h.articlesGetMy)

			article := articles.Group("/:id")
			{
				article.GET("", h.articlesGetByID)
				article.PUT("", h.authMiddleware, h.articlesUpdate)
				article.DELETE("", h.authMiddleware, h.articlesDelete)
				article.POST("/like", h.authMiddleware, h.articlesLike)

				comments := article.Group("/comments")
				{
					comments.POST("", h.authMiddleware, h.commentsCreate)
					comments.POST("/:cid/reply", h.authMiddleware, h.commentsReply)
					comments.DELETE("/:cid", h.authMiddleware, h.commentsDelete)
					comments.DELETE("/:cid/replies/:rid", h.authMiddleware, h.commentsDeleteReply)
				}
			}
		}

		follow := api.Group("/follow", h.authMiddleware)
		{
			follow.POST("/:id", h.followToggle)
			follow.GET("/status/:id", h.followStatus)
		}

		users := api.Group("/users")
		{
			users.GET("/me", h.authMiddleware, h.usersGetMe)
			users.PUT("/me", h.authMiddleware, h.usersUpdateMe)
			users.GET("", h.authMiddleware, h.usersGetAll)
			users.GET("/:id", h.usersGetByID)
			users.PUT("/:id/role", h.authMiddleware, h.adminMiddleware, h.usersSetRole)
			users.DELETE("/:id", h.authMiddleware, h.adminMiddleware, h.usersDelete)
		}

		admin := api.Group("/admin", h.authMiddleware, h.adminMiddleware)
		{
			admin.GET("/comments", h.adminGetComments)
		}
	}

	return r
}
