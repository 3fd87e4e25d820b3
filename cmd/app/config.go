package main

import (
	"fmt"
	"strings"

	"UD_missions_miniapp/internal/repository"
	"UD_missions_miniapp/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `mapstructure:"database"`
	Server   ServerConfig      `mapstructure:"server"`

	TelegramAuth TelegramAuthConfig     `mapstructure:"telegramAuth"`
	Missions     service.MissionRewards `mapstructure:"missions"`
	Notify       NotifyConfig           `mapstructure:"notify"`
	NATS         NATSConfig             `mapstructure:"nats"`

	LogLevel string `mapstructure:"logLevel"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type TelegramAuthConfig struct {
	TelegramBotToken string `mapstructure:"telegramBotToken"`
	DebugMode        bool   `mapstructure:"debugMode"`
}

type NotifyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// NATSConfig leaves claim events off when URL is empty.
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

func LoadConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	rewards := service.DefaultMissionRewards()
	viper.SetDefault("database.driver", "pgx")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("missions.hourlyReward", rewards.Hourly)
	viper.SetDefault("missions.dailyReward", rewards.Daily)
	viper.SetDefault("logLevel", "info")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
