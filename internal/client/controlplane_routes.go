package client

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"

	"github.com/taskmirror/taskmirror/internal/client/handlers"
	"github.com/taskmirror/taskmirror/internal/client/middleware"
	"github.com/taskmirror/taskmirror/internal/history"
	"github.com/taskmirror/taskmirror/internal/mirror"
	"github.com/taskmirror/taskmirror/internal/version"
)

func SetupRoutes(mgr *mirror.Manager, journal *history.Journal, index mirror.Store, routeConfig *RouteConfig) http.Handler {
	r := gin.New()

	rateLimitStore := memory.NewStore()
	rateLimiter := limiter.New(rateLimitStore, limiter.Rate{
		Period: 1 * time.Second,
		Limit:  10,
	})

	statusH := handlers.NewStatusHandler(mgr, journal)
	syncH := handlers.NewSyncHandler(mgr)
	historyH := handlers.NewHistoryHandler(journal)
	indexH := handlers.NewIndexHandler(index)

	r.Use(middleware.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.Gzip())
	r.Use(mgin.NewMiddleware(rateLimiter))

	r.GET("/", IndexHandler)
	r.GET("/healthz", HealthHandler)

	v1 := r.Group("/v1")
	v1.Use(middleware.TokenAuth(routeConfig.Auth))
	{
		v1.GET("/status", statusH.Status)
		v1.GET("/history", historyH.Recent)
		v1.GET("/index", indexH.Get)

		v1Sync := v1.Group("/sync")
		{
			v1Sync.POST("/now", syncH.Now)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
		})
	})

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": "method not allowed",
		})
	})

	return r.Handler()
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

func IndexHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":     version.AppName,
		"version": version.Version,
		"detail":  version.Detailed(),
	})
}

func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
