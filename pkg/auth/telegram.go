package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"UD_missions_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

const (
	expTime = 24 * time.Hour

	// Scheme prefixes the init data in the Authorization header.
	Scheme = "Telegram "

	contextKey = "telegram_user"
)

var ErrNoUser = errors.New("telegram init data has no user")

type TelegramAuth struct {
	botToken  string
	debugMode bool
}

func NewTelegramAuth(botToken string, debugMode bool) *TelegramAuth {
	return &TelegramAuth{
		botToken:  botToken,
		debugMode: debugMode,
	}
}

func (t *TelegramAuth) TelegramAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization header is required"})
			return
		}

		if !strings.HasPrefix(authHeader, Scheme) {
			log.Info("invalid authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid authorization format"})
			return
		}

		initData := strings.TrimPrefix(authHeader, Scheme)
		if !t.debugMode {
			if err := initdata.Validate(initData, t.botToken, expTime); err != nil {
				log.Info("invalid telegram init data", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid telegram auth data"})
				return
			}
		}

		telegramUserData, err := ExtractTelegramData(initData)
		if err != nil {
			log.Info("failed to extract telegram data", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid telegram data"})
			return
		}

		c.Set(contextKey, telegramUserData)
		c.Next()
	}
}

func (t *TelegramAuth) GetBotToken() string {
	return t.botToken
}

type TelegramUserData struct {
	ID       int64
	Username string
	AuthDate time.Time
}

// UserFromContext returns the caller set by TelegramAuthMiddleware.
func UserFromContext(c *gin.Context) (*TelegramUserData, bool) {
	userData, exists := c.Get(contextKey)
	if !exists {
		return nil, false
	}

	user, ok := userData.(*TelegramUserData)
	return user, ok
}

// HeaderValue builds the Authorization header carrying raw init data.
func HeaderValue(initData string) string {
	return Scheme + initData
}

func ExtractTelegramData(initData string) (*TelegramUserData, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, err
	}

	authDateUnix, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, err
	}

	rawUser := values.Get("user")
	if rawUser == "" {
		return nil, ErrNoUser
	}

	var userData struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}

	if err := json.Unmarshal([]byte(rawUser), &userData); err != nil {
		return nil, err
	}
	if userData.ID == 0 {
		return nil, ErrNoUser
	}

	return &TelegramUserData{
		ID:       userData.ID,
		Username: userData.Username,
		AuthDate: time.Unix(authDateUnix, 0).UTC(),
	}, nil
}
