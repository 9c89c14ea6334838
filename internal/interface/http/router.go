package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ymori/visafaq/internal/domain/auth"
	"github.com/ymori/visafaq/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(nil),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	api := router.Group("/api/v1")
	{
		faqAPI := api.Group("/faq")
		{
			faqAPI.POST("/ask", handler.Ask)
			faqAPI.POST("/search", handler.Search)
			faqAPI.POST("/feedback", handler.Feedback)
			faqAPI.GET("/trending", handler.Trending)
		}

		api.POST("/admin/token", handler.IssueToken)

		admin := api.Group("/admin", authMiddleware(authSvc))
		{
			admin.GET("/entries", handler.ListEntries)
			admin.POST("/entries", handler.CreateEntry)
			admin.PUT("/entries/:index", handler.UpdateEntry)
			admin.DELETE("/entries/:index", handler.DeleteEntry)

			admin.GET("/pending", handler.ListPending)
			admin.POST("/pending/:id/approve", handler.ApprovePending)
			admin.POST("/pending/:id/reject", handler.RejectPending)
			admin.PUT("/pending/:id", handler.UpdatePending)
			admin.GET("/pending/:id/duplicates", handler.PendingDuplicates)

			admin.GET("/unsatisfied", handler.Unsatisfied)
			admin.POST("/generate", handler.Generate)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
