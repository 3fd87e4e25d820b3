package service

import (
	"context"
	"errors"

	"UD_missions_miniapp/internal/model"
)

var (
	ErrClaimNotAvailable  = errors.New("cooldown active")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnknownMissionKind = errors.New("unknown mission kind")
)

type Service struct {
	*UserService
	*MissionService
}

func NewService(userService *UserService, missionService *MissionService) *Service {
	return &Service{
		UserService:    userService,
		MissionService: missionService,
	}
}

type UserServiceI interface {
	RegisterUser(ctx context.Context, user *model.User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetLeaderboard(ctx context.Context) ([]*model.User, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetTopUsers(ctx context.Context, limit int) ([]*model.User, error)
}

type MissionServiceI interface {
	GetStatus(ctx context.Context, telegramID int64) (*model.MissionStatus, error)
	Claim(ctx context.Context, telegramID int64, kind model.MissionKind) (*model.MissionStatus, error)
	GetClaims(ctx context.Context, telegramID int64) ([]*model.MissionClaim, error)
}

type MissionRepository interface {
	GetMissionStatus(ctx context.Context, telegramID int64) (*model.MissionStatus, error)
	ClaimMission(ctx context.Context, claim *model.MissionClaim) (*model.MissionStatus, error)
	GetMissionClaims(ctx context.Context, telegramID int64, limit int) ([]*model.MissionClaim, error)
}

// ClaimNotifier tells the user about a claim after it is committed.
type ClaimNotifier interface {
	NotifyClaim(ctx context.Context, claim *model.MissionClaim, status *model.MissionStatus) error
}

// ClaimPublisher emits committed claims to other services.
type ClaimPublisher interface {
	PublishClaim(ctx context.Context, claim *model.MissionClaim) error
}
