package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpHandler "github.com/vallemarketing/valle360-social/interfaces/http"
	"github.com/vallemarketing/valle360-social/interfaces/middleware"
)

func InitiateRouter(
	oauthHandler httpHandler.IOAuthHandler,
	accountHandler httpHandler.IAccountHandler,
	publishHandler httpHandler.IPublishHandler,
	healthHandler httpHandler.IHealthHandler,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://app.valle360.com.br", "http://localhost:4200", "https://localhost:4200"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	auth := middleware.Auth(secretKey)

	router.GET("/healthz", healthHandler.Health)

	// The consent-URL endpoint needs the tenant, so it runs behind auth; the
	// callback is hit by the provider redirect and cannot carry a bearer token.
	router.GET("/auth/:platform", auth, oauthHandler.GetAuthURL)
	router.GET("/auth/:platform/callback", oauthHandler.Callback)

	api := router.Group("api")
	api.Use(auth)

	social := api.Group("/social")
	{
		social.GET("/accounts", accountHandler.List)
		social.POST("/accounts/:accountId/deactivate", accountHandler.Deactivate)

		social.POST("/publish", publishHandler.Publish)
		social.GET("/scheduled", publishHandler.ListScheduled)
		social.DELETE("/scheduled/:postId", publishHandler.CancelScheduled)
		social.POST("/scheduled/process", publishHandler.ProcessScheduled)
	}

	return router
}
