package router

import (
	"time"

	"hrv-go/internal/handlers"
	"hrv-go/internal/services"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}
func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

func Setup(log *zap.Logger, baselineSvc *services.BaselineService) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.Use(cors.Default())

	// Handlers and routes
	analysisHandler := handlers.NewAnalysisHandler(log, baselineSvc)
	resultsHandler := handlers.NewResultsHandler(log)
	baselineHandler := handlers.NewBaselineHandler(log, baselineSvc)

	// Analysis is CPU-heavy; keep a per-client cap on it.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 10,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	{
		api.POST("/sessions/analyze", limiter, analysisHandler.AnalyzeSession)
		api.GET("/sessions", resultsHandler.ListSessions)
		api.GET("/sessions/:id", resultsHandler.GetSession)
		api.GET("/baseline", baselineHandler.GetBaseline)
	}

	return router
}
