package api

import (
	"errors"
	"net/http"
	"time"

	"UD_missions_miniapp/internal/model"
	"UD_missions_miniapp/internal/service"
	"UD_missions_miniapp/pkg/auth"
	"UD_missions_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type missionRoutes struct {
	ms service.MissionServiceI
	a  *auth.TelegramAuth
}

func NewMissionRoutes(handler *gin.RouterGroup, ms service.MissionServiceI, a *auth.TelegramAuth) {
	r := &missionRoutes{ms: ms, a: a}
	h := handler.Group("/missions")
	h.Use(a.TelegramAuthMiddleware())
	{
		h.GET("/status", r.GetStatus)
		h.POST("/claim/:kind", r.Claim)
		h.GET("/claims", r.GetClaims)
	}
}

type MissionStatusResponse struct {
	Points          int        `json:"points"`
	LastHourlyClaim *time.Time `json:"lastHourlyClaim"`
	LastDailyClaim  *time.Time `json:"lastDailyClaim"`
}

type MissionClaimResponse struct {
	ClaimID   string    `json:"claimId"`
	Kind      string    `json:"kind"`
	Points    int       `json:"points"`
	ClaimedAt time.Time `json:"claimedAt"`
}

func newMissionStatusResponse(status *model.MissionStatus) MissionStatusResponse {
	return MissionStatusResponse{
		Points:          status.Points,
		LastHourlyClaim: status.LastHourlyClaim,
		LastDailyClaim:  status.LastDailyClaim,
	}
}

func (r *missionRoutes) GetStatus(c *gin.Context) {
	log := logger.Logger()

	user, ok := auth.UserFromContext(c)
	if !ok {
		log.Error("telegram user data not found in context")
		abortWithMessage(c, http.StatusInternalServerError, "internal server error")
		return
	}

	status, err := r.ms.GetStatus(c.Request.Context(), user.ID)
	if err != nil {
		log.Error("failed to get mission status", zap.Error(err), zap.Int64("telegram_id", user.ID))
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithMessage(c, http.StatusNotFound, "user not found")
			return
		}
		abortWithMessage(c, http.StatusInternalServerError, "failed to get mission status")
		return
	}

	c.JSON(http.StatusOK, newMissionStatusResponse(status))
}

func (r *missionRoutes) Claim(c *gin.Context) {
	log := logger.Logger()

	user, ok := auth.UserFromContext(c)
	if !ok {
		log.Error("telegram user data not found in context")
		abortWithMessage(c, http.StatusInternalServerError, "internal server error")
		return
	}

	kind, ok := model.ParseMissionKind(c.Param("kind"))
	if !ok {
		log.Info("unknown mission kind", zap.String("kind", c.Param("kind")))
		abortWithMessage(c, http.StatusBadRequest, service.ErrUnknownMissionKind.Error())
		return
	}

	status, err := r.ms.Claim(c.Request.Context(), user.ID, kind)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClaimNotAvailable):
			log.Info("claim rejected", zap.Int64("telegram_id", user.ID), zap.String("kind", kind.String()))
			abortWithMessage(c, http.StatusConflict, service.ErrClaimNotAvailable.Error())
		case errors.Is(err, service.ErrUserNotFound):
			abortWithMessage(c, http.StatusNotFound, "user not found")
		default:
			log.Error("failed to claim mission", zap.Error(err), zap.Int64("telegram_id", user.ID))
			abortWithMessage(c, http.StatusInternalServerError, "failed to claim mission")
		}
		return
	}

	log.Info("mission claimed",
		zap.Int64("telegram_id", user.ID),
		zap.String("kind", kind.String()),
		zap.Int("points", status.Points))

	c.JSON(http.StatusOK, newMissionStatusResponse(status))
}

func (r *missionRoutes) GetClaims(c *gin.Context) {
	log := logger.Logger()

	user, ok := auth.UserFromContext(c)
	if !ok {
		log.Error("telegram user data not found in context")
		abortWithMessage(c, http.StatusInternalServerError, "internal server error")
		return
	}

	claims, err := r.ms.GetClaims(c.Request.Context(), user.ID)
	if err != nil {
		log.Error("failed to get mission claims", zap.Error(err))
		abortWithMessage(c, http.StatusInternalServerError, "failed to get mission claims")
		return
	}

	out := make([]MissionClaimResponse, len(claims))
	for i, claim := range claims {
		out[i] = MissionClaimResponse{
			ClaimID:   claim.ClaimID.String(),
			Kind:      claim.Kind.String(),
			Points:    claim.Points,
			ClaimedAt: claim.ClaimedAt,
		}
	}

	c.JSON(http.StatusOK, out)
}

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
