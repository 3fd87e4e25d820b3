package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"UD_missions_miniapp/internal/api"
	"UD_missions_miniapp/internal/events"
	"UD_missions_miniapp/internal/notify"
	"UD_missions_miniapp/internal/repository"
	"UD_missions_miniapp/internal/service"
	"UD_missions_miniapp/pkg/auth"
	"UD_missions_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel, "missions-backend")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	var notifier service.ClaimNotifier
	if cfg.Notify.Enabled {
		n, err := notify.NewTelegramNotifier(cfg.TelegramAuth.TelegramBotToken)
		if err != nil {
			zapLogger.Fatal("Failed to initialize telegram notifier", zap.Error(err))
		}
		notifier = n
	}

	var publisher service.ClaimPublisher
	if cfg.NATS.URL != "" {
		p, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			zapLogger.Fatal("Failed to connect to nats", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	}

	userService := service.NewUserService(repo)
	missionService := service.NewMissionService(repo, cfg.Missions, clockwork.NewRealClock(), notifier, publisher)
	telegramAuth := auth.NewTelegramAuth(cfg.TelegramAuth.TelegramBotToken, cfg.TelegramAuth.DebugMode)
	if cfg.TelegramAuth.DebugMode {
		zapLogger.Warn("Telegram init data validation is disabled")
	}

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	a := router.Group("/api/v1")
	api.NewUserRoutes(a, userService, telegramAuth)
	api.NewMissionRoutes(a, missionService, telegramAuth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
