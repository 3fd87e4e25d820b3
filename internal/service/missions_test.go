package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"UD_missions_miniapp/internal/model"
	"UD_missions_miniapp/internal/repository"
	"UD_missions_miniapp/internal/service/mocks"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	t := testNow.Add(-d)
	return &t
}

func TestMissionService_GetStatus(t *testing.T) {
	tests := []struct {
		name          string
		mockSetup     func(repo *mocks.MockMissionRepository)
		expectedError error
		expected      *model.MissionStatus
	}{
		{
			name: "User not found",
			mockSetup: func(repo *mocks.MockMissionRepository) {
				repo.On("GetMissionStatus", mock.Anything, int64(1)).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrUserNotFound,
		},
		{
			name: "Never claimed",
			mockSetup: func(repo *mocks.MockMissionRepository) {
				repo.On("GetMissionStatus", mock.Anything, int64(1)).
					Return(&model.MissionStatus{UserTelegramID: 1, Points: 5}, nil)
			},
			expected: &model.MissionStatus{UserTelegramID: 1, Points: 5},
		},
		{
			name: "Repository failure is wrapped",
			mockSetup: func(repo *mocks.MockMissionRepository) {
				repo.On("GetMissionStatus", mock.Anything, int64(1)).
					Return(nil, assert.AnError)
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockMissionRepository{}
			tt.mockSetup(repo)
			service := NewMissionService(repo, DefaultMissionRewards(), clockwork.NewFakeClockAt(testNow), nil, nil)

			status, err := service.GetStatus(context.Background(), 1)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, status)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, status)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestMissionService_Claim(t *testing.T) {
	tests := []struct {
		name          string
		telegramID    int64
		kind          model.MissionKind
		setupMocks    func(repo *mocks.MockMissionRepository, notifier *mocks.MockClaimNotifier, publisher *mocks.MockClaimPublisher)
		expectedError error
		checkStatus   func(t *testing.T, status *model.MissionStatus)
	}{
		{
			name:          "Unknown kind",
			telegramID:    100,
			kind:          "weekly",
			setupMocks:    func(*mocks.MockMissionRepository, *mocks.MockClaimNotifier, *mocks.MockClaimPublisher) {},
			expectedError: ErrUnknownMissionKind,
		},
		{
			name:       "First hourly claim",
			telegramID: 101,
			kind:       model.MissionHourly,
			setupMocks: func(repo *mocks.MockMissionRepository, notifier *mocks.MockClaimNotifier, publisher *mocks.MockClaimPublisher) {
				repo.On("GetMissionStatus", mock.Anything, int64(101)).
					Return(&model.MissionStatus{UserTelegramID: 101}, nil)

				updated := &model.MissionStatus{UserTelegramID: 101, Points: 100, LastHourlyClaim: &testNow}
				repo.On("ClaimMission", mock.Anything, mock.MatchedBy(func(c *model.MissionClaim) bool {
					return c.UserTelegramID == 101 &&
						c.Kind == model.MissionHourly &&
						c.Points == 100 &&
						c.ClaimedAt.Equal(testNow)
				})).Return(updated, nil)

				notifier.On("NotifyClaim", mock.Anything, mock.Anything, updated).Return(nil)
				publisher.On("PublishClaim", mock.Anything, mock.Anything).Return(nil)
			},
			checkStatus: func(t *testing.T, status *model.MissionStatus) {
				assert.Equal(t, 100, status.Points)
				assert.Equal(t, testNow, *status.LastHourlyClaim)
				assert.Nil(t, status.LastDailyClaim)
			},
		},
		{
			name:       "Daily claim exactly at cooldown end",
			telegramID: 102,
			kind:       model.MissionDaily,
			setupMocks: func(repo *mocks.MockMissionRepository, notifier *mocks.MockClaimNotifier, publisher *mocks.MockClaimPublisher) {
				repo.On("GetMissionStatus", mock.Anything, int64(102)).
					Return(&model.MissionStatus{UserTelegramID: 102, Points: 40, LastDailyClaim: ago(model.DailyCooldown)}, nil)

				repo.On("ClaimMission", mock.Anything, mock.MatchedBy(func(c *model.MissionClaim) bool {
					return c.Kind == model.MissionDaily && c.Points == 1000
				})).Return(&model.MissionStatus{UserTelegramID: 102, Points: 1040, LastDailyClaim: &testNow}, nil)

				notifier.On("NotifyClaim", mock.Anything, mock.Anything, mock.Anything).Return(nil)
				publisher.On("PublishClaim", mock.Anything, mock.Anything).Return(nil)
			},
			checkStatus: func(t *testing.T, status *model.MissionStatus) {
				assert.Equal(t, 1040, status.Points)
			},
		},
		{
			name:       "Hourly cooldown active",
			telegramID: 103,
			kind:       model.MissionHourly,
			setupMocks: func(repo *mocks.MockMissionRepository, _ *mocks.MockClaimNotifier, _ *mocks.MockClaimPublisher) {
				repo.On("GetMissionStatus", mock.Anything, int64(103)).
					Return(&model.MissionStatus{UserTelegramID: 103, LastHourlyClaim: ago(59 * time.Minute)}, nil)
			},
			expectedError: ErrClaimNotAvailable,
		},
		{
			name:       "Concurrent claim wins the row lock",
			telegramID: 104,
			kind:       model.MissionHourly,
			setupMocks: func(repo *mocks.MockMissionRepository, _ *mocks.MockClaimNotifier, _ *mocks.MockClaimPublisher) {
				repo.On("GetMissionStatus", mock.Anything, int64(104)).
					Return(&model.MissionStatus{UserTelegramID: 104}, nil)
				repo.On("ClaimMission", mock.Anything, mock.Anything).
					Return(nil, repository.ErrAlreadyClaimed)
			},
			expectedError: ErrClaimNotAvailable,
		},
		{
			name:       "User not registered",
			telegramID: 105,
			kind:       model.MissionDaily,
			setupMocks: func(repo *mocks.MockMissionRepository, _ *mocks.MockClaimNotifier, _ *mocks.MockClaimPublisher) {
				repo.On("GetMissionStatus", mock.Anything, int64(105)).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrUserNotFound,
		},
		{
			name:       "Side effect failures keep the claim",
			telegramID: 106,
			kind:       model.MissionHourly,
			setupMocks: func(repo *mocks.MockMissionRepository, notifier *mocks.MockClaimNotifier, publisher *mocks.MockClaimPublisher) {
				repo.On("GetMissionStatus", mock.Anything, int64(106)).
					Return(&model.MissionStatus{UserTelegramID: 106, LastHourlyClaim: ago(2 * time.Hour)}, nil)
				repo.On("ClaimMission", mock.Anything, mock.Anything).
					Return(&model.MissionStatus{UserTelegramID: 106, Points: 100, LastHourlyClaim: &testNow}, nil)

				notifier.On("NotifyClaim", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bot blocked"))
				publisher.On("PublishClaim", mock.Anything, mock.Anything).Return(errors.New("nats down"))
			},
			checkStatus: func(t *testing.T, status *model.MissionStatus) {
				assert.Equal(t, 100, status.Points)
			},
		},
		{
			name:       "Repository failure",
			telegramID: 107,
			kind:       model.MissionHourly,
			setupMocks: func(repo *mocks.MockMissionRepository, _ *mocks.MockClaimNotifier, _ *mocks.MockClaimPublisher) {
				repo.On("GetMissionStatus", mock.Anything, int64(107)).
					Return(&model.MissionStatus{UserTelegramID: 107}, nil)
				repo.On("ClaimMission", mock.Anything, mock.Anything).
					Return(nil, assert.AnError)
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockMissionRepository{}
			notifier := &mocks.MockClaimNotifier{}
			publisher := &mocks.MockClaimPublisher{}
			tt.setupMocks(repo, notifier, publisher)

			service := NewMissionService(repo, DefaultMissionRewards(), clockwork.NewFakeClockAt(testNow), notifier, publisher)

			status, err := service.Claim(context.Background(), tt.telegramID, tt.kind)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, status)
			} else {
				assert.NoError(t, err)
				tt.checkStatus(t, status)
			}

			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestMissionService_ClaimWithoutSideEffects(t *testing.T) {
	repo := &mocks.MockMissionRepository{}
	repo.On("GetMissionStatus", mock.Anything, int64(1)).
		Return(&model.MissionStatus{UserTelegramID: 1}, nil)
	repo.On("ClaimMission", mock.Anything, mock.Anything).
		Return(&model.MissionStatus{UserTelegramID: 1, Points: 7, LastDailyClaim: &testNow}, nil)

	rewards := MissionRewards{Hourly: 3, Daily: 7}
	service := NewMissionService(repo, rewards, clockwork.NewFakeClockAt(testNow), nil, nil)

	status, err := service.Claim(context.Background(), 1, model.MissionDaily)

	assert.NoError(t, err)
	assert.Equal(t, 7, status.Points)
	repo.AssertCalled(t, "ClaimMission", mock.Anything, mock.MatchedBy(func(c *model.MissionClaim) bool {
		return c.Points == 7
	}))
}

func TestMissionService_GetClaims(t *testing.T) {
	repo := &mocks.MockMissionRepository{}
	claims := []*model.MissionClaim{{UserTelegramID: 1, Kind: model.MissionHourly, Points: 100, ClaimedAt: testNow}}
	repo.On("GetMissionClaims", mock.Anything, int64(1), claimHistorySize).Return(claims, nil)

	service := NewMissionService(repo, DefaultMissionRewards(), clockwork.NewFakeClockAt(testNow), nil, nil)

	got, err := service.GetClaims(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, claims, got)
}
