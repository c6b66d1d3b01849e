// Package main runs the live classroom polling server: one global session,
// websocket event transport, graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/live-polling/backend/config"
	"github.com/live-polling/backend/internal/assistant"
	"github.com/live-polling/backend/internal/middleware"
	"github.com/live-polling/backend/internal/realtime"
	"github.com/live-polling/backend/internal/session"
	"github.com/live-polling/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	clock := clockwork.NewRealClock()
	coordinator := session.NewCoordinator(
		logger,
		clock,
		cfg.Poll.DurationSec,
		cfg.Assistant.MinReplyDelay,
		cfg.Assistant.MaxReplyDelay,
		assistant.Respond,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health: read-only session snapshot, no side effects.
	router.GET("/health", func(c *gin.Context) {
		st := coordinator.Status()
		var currentPoll interface{}
		if st.CurrentPoll != "" {
			currentPoll = st.CurrentPoll
		}
		response.OK(c, gin.H{
			"status":         "OK",
			"timestamp":      clock.Now().UTC().Format(time.RFC3339),
			"uptimeSeconds":  int(clock.Since(st.StartedAt).Seconds()),
			"activeStudents": st.ActiveStudents,
			"activeTeachers": st.ActiveTeachers,
			"currentPoll":    currentPoll,
		})
	})

	router.GET("/ws", realtime.ServeWs(coordinator, logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	coordinator.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
