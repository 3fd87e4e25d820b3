package api

import (
	"net/http"

	"UD_missions_miniapp/internal/middleware"
	"UD_missions_miniapp/internal/model"
	"UD_missions_miniapp/internal/service"
	"UD_missions_miniapp/pkg/auth"
	"UD_missions_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type userRoutes struct {
	us service.UserServiceI
	a  *auth.TelegramAuth
}

func NewUserRoutes(handler *gin.RouterGroup, us service.UserServiceI, a *auth.TelegramAuth) {
	r := &userRoutes{us: us, a: a}
	registered := middleware.NewAuthorization(us)

	h := handler.Group("/users")
	h.Use(a.TelegramAuthMiddleware())
	{
		h.POST("/", r.RegisterUser)
		h.GET("/me", registered.RegisteredOnly(), r.GetMe)
		h.GET("/leaderboard", r.GetLeaderboard)
	}
}

type RegisterUserRequest struct {
	Handle   string `json:"handle"`
	Referrer *int64 `json:"referrer"`
}

type RegisterUserResponse struct {
	TelegramID int64  `json:"telegram_id"`
	Handle     string `json:"handle"`
}

func (r *userRoutes) RegisterUser(c *gin.Context) {
	log := logger.Logger()

	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		abortWithMessage(c, http.StatusBadRequest, "invalid request")
		return
	}

	user, ok := auth.UserFromContext(c)
	if !ok {
		log.Error("telegram user data not found in context")
		abortWithMessage(c, http.StatusInternalServerError, "internal server error")
		return
	}

	if req.Referrer != nil && *req.Referrer == user.ID {
		abortWithMessage(c, http.StatusBadRequest, "cannot refer yourself")
		return
	}

	u := &model.User{
		TelegramID:       user.ID,
		Handle:           req.Handle,
		Username:         user.Username,
		ReferrerID:       req.Referrer,
		RegistrationDate: user.AuthDate,
		AuthDate:         user.AuthDate,
	}

	if err := r.us.RegisterUser(c.Request.Context(), u); err != nil {
		log.Error("failed to register user", zap.Error(err))
		abortWithMessage(c, http.StatusInternalServerError, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, RegisterUserResponse{
		TelegramID: u.TelegramID,
		Handle:     u.Handle,
	})
}

func (r *userRoutes) GetMe(c *gin.Context) {
	user, ok := middleware.RegisteredUser(c)
	if !ok {
		abortWithMessage(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"telegram_id":       user.TelegramID,
		"handle":            user.Handle,
		"username":          user.Username,
		"referrer_id":       user.ReferrerID,
		"referrals":         user.Referrals,
		"points":            user.Points,
		"registration_date": user.RegistrationDate,
		"auth_date":         user.AuthDate,
	})
}

func (r *userRoutes) GetLeaderboard(c *gin.Context) {
	log := logger.Logger()

	users, err := r.us.GetLeaderboard(c.Request.Context())
	if err != nil {
		log.Error("failed to get leaderboard", zap.Error(err))
		abortWithMessage(c, http.StatusInternalServerError, "failed to get leaderboard")
		return
	}

	response := make([]gin.H, 0, len(users))
	for _, user := range users {
		response = append(response, gin.H{
			"username":  user.Username,
			"points":    user.Points,
			"referrals": user.Referrals,
		})
	}

	c.JSON(http.StatusOK, response)
}
