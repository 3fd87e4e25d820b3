package service

import (
	"context"
	"errors"
	"fmt"

	"UD_missions_miniapp/internal/model"
	"UD_missions_miniapp/internal/repository"
	"UD_missions_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const claimHistorySize = 20

type MissionRewards struct {
	Hourly int `mapstructure:"hourlyReward"`
	Daily  int `mapstructure:"dailyReward"`
}

func DefaultMissionRewards() MissionRewards {
	return MissionRewards{
		Hourly: 100,
		Daily:  1000,
	}
}

func (r MissionRewards) For(kind model.MissionKind) int {
	if kind == model.MissionDaily {
		return r.Daily
	}
	return r.Hourly
}

type MissionService struct {
	repo      MissionRepository
	rewards   MissionRewards
	clock     clockwork.Clock
	notifier  ClaimNotifier
	publisher ClaimPublisher
}

// NewMissionService builds the service. notifier and publisher may be nil.
func NewMissionService(
	repo MissionRepository,
	rewards MissionRewards,
	clock clockwork.Clock,
	notifier ClaimNotifier,
	publisher ClaimPublisher,
) *MissionService {
	return &MissionService{
		repo:      repo,
		rewards:   rewards,
		clock:     clock,
		notifier:  notifier,
		publisher: publisher,
	}
}

func (s *MissionService) GetStatus(ctx context.Context, telegramID int64) (*model.MissionStatus, error) {
	status, err := s.repo.GetMissionStatus(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get mission status: %w", err)
	}

	return status, nil
}

func (s *MissionService) Claim(ctx context.Context, telegramID int64, kind model.MissionKind) (*model.MissionStatus, error) {
	if !kind.Valid() {
		return nil, ErrUnknownMissionKind
	}

	status, err := s.GetStatus(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	if !model.Claimable(now, status.LastClaim(kind), kind) {
		return nil, ErrClaimNotAvailable
	}

	claim := &model.MissionClaim{
		ClaimID:        uuid.New(),
		UserTelegramID: telegramID,
		Kind:           kind,
		Points:         s.rewards.For(kind),
		ClaimedAt:      now,
	}

	updated, err := s.repo.ClaimMission(ctx, claim)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyClaimed):
			return nil, ErrClaimNotAvailable
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to claim %s mission: %w", kind, err)
	}

	s.afterClaim(ctx, claim, updated)

	return updated, nil
}

// afterClaim runs the side effects of a committed claim. Their failures do not
// undo the claim.
func (s *MissionService) afterClaim(ctx context.Context, claim *model.MissionClaim, status *model.MissionStatus) {
	log := logger.Logger()

	if s.notifier != nil {
		if err := s.notifier.NotifyClaim(ctx, claim, status); err != nil {
			log.Warn("failed to notify claim",
				zap.Error(err),
				zap.Int64("telegram_id", claim.UserTelegramID),
				zap.String("kind", claim.Kind.String()))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishClaim(ctx, claim); err != nil {
			log.Warn("failed to publish claim",
				zap.Error(err),
				zap.String("claim_id", claim.ClaimID.String()))
		}
	}
}

func (s *MissionService) GetClaims(ctx context.Context, telegramID int64) ([]*model.MissionClaim, error) {
	claims, err := s.repo.GetMissionClaims(ctx, telegramID, claimHistorySize)
	if err != nil {
		return nil, fmt.Errorf("failed to get mission claims: %w", err)
	}
	return claims, nil
}
