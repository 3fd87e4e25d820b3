package middleware

import (
	"errors"
	"net/http"

	"UD_missions_miniapp/internal/model"
	"UD_missions_miniapp/internal/service"
	"UD_missions_miniapp/pkg/auth"
	"UD_missions_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

const registeredUserKey = "registered_user"

type Authorization struct {
	userService service.UserServiceI
}

func NewAuthorization(userService service.UserServiceI) *Authorization {
	return &Authorization{
		userService: userService,
	}
}

// RegisteredOnly rejects Telegram callers that never registered and stores the
// registered user in the context.
func (a *Authorization) RegisteredOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		telegramUser, ok := auth.UserFromContext(c)
		if !ok {
			log.Error("telegram user data not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		user, err := a.userService.GetUserByTelegramID(c.Request.Context(), telegramUser.ID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				log.Info("unregistered user", zap.Int64("telegram_id", telegramUser.ID))
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "user not found"})
				return
			}
			log.Error("failed to get user data", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}

		c.Set(registeredUserKey, user)
		c.Next()
	}
}

func RegisteredUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(registeredUserKey)
	if !exists {
		return nil, false
	}

	user, ok := v.(*model.User)
	return user, ok
}
