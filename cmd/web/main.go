package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-directory/internal/client"
	"github.com/SAP-F-2025/school-directory/internal/config"
	"github.com/SAP-F-2025/school-directory/internal/utils"
	"github.com/SAP-F-2025/school-directory/internal/validator"
	"github.com/SAP-F-2025/school-directory/internal/web"
)

func main() {
	cfg, err := config.LoadWebConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	api := client.New(cfg.APIBaseURL, cfg.ClientTimeout, &http.Client{})

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := web.NewServer(api, validator.New(), logger, cfg.BannerTimeout).Routes(router); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting web UI", "port", cfg.Port, "api", cfg.APIBaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Web UI exited")
}
