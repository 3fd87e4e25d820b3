package main

import (
	"fmt"
	"log"

	"UD_missions_miniapp/internal/widget"
	"UD_missions_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel, "missions-widget")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	client := widget.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	router := gin.New()
	router.Use(gin.Recovery())
	widget.NewHost(client, clockwork.NewRealClock()).Register(router)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting widget host",
		zap.String("addr", addr),
		zap.String("backend", cfg.Backend.BaseURL))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start widget host", zap.Error(err))
	}
}
