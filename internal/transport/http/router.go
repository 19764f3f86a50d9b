package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"

	"eyewear-tracker-go/internal/platform/config"
	"eyewear-tracker-go/internal/platform/logging"
)

// NewRouter assembles the gin engine: recovery, request logging, CORS,
// the optional static web UI and the log store API.
func NewRouter(cfg *config.Config, logger *logging.Logger, logs *LogsHandler) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.Server.CORSOrigins
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	engine.Use(cors.New(corsCfg))

	if cfg.Web.Enabled {
		engine.Use(static.Serve("/", static.LocalFile(cfg.Web.StaticDir, false)))
	} else {
		engine.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"service": "eyewear-tracker",
				"endpoints": []string{
					"POST /api/logs",
					"GET /api/logs/:token",
					"GET /api/logs/:token/latest",
					"GET /api/logs/:token/monthly/:year/:month",
					"GET /api/logs/:token/summary",
					"DELETE /api/logs/:token/:date",
					"DELETE /api/logs",
				},
			})
		})
	}

	api := engine.Group("/api")
	logs.RegisterRoutes(api)

	return engine
}

func requestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.DebugTag("http", "%s %s -> %d (%v)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
