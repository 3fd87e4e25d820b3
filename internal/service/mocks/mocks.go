package mocks

import (
	"context"

	"UD_missions_miniapp/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockMissionRepository struct {
	mock.Mock
}

func (m *MockMissionRepository) GetMissionStatus(ctx context.Context, telegramID int64) (*model.MissionStatus, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MissionStatus), args.Error(1)
}

func (m *MockMissionRepository) ClaimMission(ctx context.Context, claim *model.MissionClaim) (*model.MissionStatus, error) {
	args := m.Called(ctx, claim)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MissionStatus), args.Error(1)
}

func (m *MockMissionRepository) GetMissionClaims(ctx context.Context, telegramID int64, limit int) ([]*model.MissionClaim, error) {
	args := m.Called(ctx, telegramID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MissionClaim), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

type MockClaimNotifier struct {
	mock.Mock
}

func (m *MockClaimNotifier) NotifyClaim(ctx context.Context, claim *model.MissionClaim, status *model.MissionStatus) error {
	args := m.Called(ctx, claim, status)
	return args.Error(0)
}

type MockClaimPublisher struct {
	mock.Mock
}

func (m *MockClaimPublisher) PublishClaim(ctx context.Context, claim *model.MissionClaim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

type MockMissionService struct {
	mock.Mock
}

func (m *MockMissionService) GetStatus(ctx context.Context, telegramID int64) (*model.MissionStatus, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MissionStatus), args.Error(1)
}

func (m *MockMissionService) Claim(ctx context.Context, telegramID int64, kind model.MissionKind) (*model.MissionStatus, error) {
	args := m.Called(ctx, telegramID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MissionStatus), args.Error(1)
}

func (m *MockMissionService) GetClaims(ctx context.Context, telegramID int64) ([]*model.MissionClaim, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MissionClaim), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) RegisterUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetLeaderboard(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}
