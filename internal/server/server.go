package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/config"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/requestid"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by every controller mounted on the router.
type RouteRegistrar interface {
	RegisterRoutes(router gin.IRouter)
}

func NewRouter(corsConfig config.CORSConfig, controllers ...RouteRegistrar) *gin.Engine {
	router := gin.Default()
	router.Use(requestid.Middleware())
	router.Use(cors.New(toCORS(corsConfig)))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	for _, controller := range controllers {
		controller.RegisterRoutes(router)
	}
	return router
}

// Run serves handler on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      0, // SSE needs no write timeout
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down", "timeout", shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func toCORS(c config.CORSConfig) cors.Config {
	cfg := cors.Config{
		AllowMethods:     c.AllowMethods,
		AllowHeaders:     c.AllowHeaders,
		ExposeHeaders:    c.ExposeHeaders,
		AllowCredentials: c.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	if len(c.AllowOrigins) == 0 || slices.Contains(c.AllowOrigins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = c.AllowOrigins
	return cfg
}
