// Package server exposes the export pipeline and the rule store over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/pipeline"
	"bscpro/bank-export/internal/store"
)

// UserHeader carries the id of the authenticated user, set by the proxy in
// front of the service.
const UserHeader = "X-User-ID"

// Options configures the HTTP layer.
type Options struct {
	AllowedOrigins []string
	DefaultUser    string
	RequestTimeout time.Duration
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc *pipeline.Service, rules store.RuleRepository, opts Options, logger logging.Logger) *gin.Engine {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	logger = logger.WithField(logging.FieldComponent, "server")

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	if opts.RequestTimeout > 0 {
		r.Use(requestTimeout(opts.RequestTimeout))
	}
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	RegisterRoutes(r, NewHandler(svc, rules, opts.DefaultUser, logger))
	return r
}

// RegisterRoutes attaches the API routes to r.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")

	api.GET("/health", h.Health)
	api.GET("/formats", h.Formats)

	api.POST("/export/:format", h.Export)
	api.POST("/classify", h.Classify)
	api.POST("/summary", h.Summary)

	rules := api.Group("/rules")
	{
		rules.GET("", h.ListRules)
		rules.POST("", h.CreateRule)
		rules.POST("/seed", h.SeedRules)
		rules.PUT("/:id", h.UpdateRule)
		rules.DELETE("/:id", h.DeleteRule)
	}
}

// Run serves router on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, router http.Handler, logger logging.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", logging.Field{Key: "address", Value: addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// corsConfig allows any origin, without credentials, when no origin is
// configured or "*" is listed.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", UserHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", WarningsHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			origins = nil
			break
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request",
			logging.Field{Key: "method", Value: c.Request.Method},
			logging.Field{Key: "path", Value: c.FullPath()},
			logging.Field{Key: "status", Value: c.Writer.Status()},
			logging.Field{Key: "duration_ms", Value: time.Since(start).Milliseconds()})
	}
}

func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
