package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"UD_missions_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Mission struct {
	UserTelegramID  int64      `db:"user_telegram_id"`
	LastHourlyClaim *time.Time `db:"last_hourly_claim"`
	LastDailyClaim  *time.Time `db:"last_daily_claim"`
	Points          int        `db:"points"`
}

type MissionClaim struct {
	ClaimID        uuid.UUID `db:"claim_id"`
	UserTelegramID int64     `db:"user_telegram_id"`
	Kind           string    `db:"kind"`
	Points         int       `db:"points"`
	ClaimedAt      time.Time `db:"claimed_at"`
}

func (m *Mission) toModel() *model.MissionStatus {
	return &model.MissionStatus{
		UserTelegramID:  m.UserTelegramID,
		Points:          m.Points,
		LastHourlyClaim: m.LastHourlyClaim,
		LastDailyClaim:  m.LastDailyClaim,
	}
}

func lastClaimColumn(kind model.MissionKind) (string, error) {
	switch kind {
	case model.MissionHourly:
		return "last_hourly_claim", nil
	case model.MissionDaily:
		return "last_daily_claim", nil
	}
	return "", fmt.Errorf("unknown mission kind %q", kind)
}

func missionStatusQuery() squirrel.SelectBuilder {
	return squirrel.
		Select("m.user_telegram_id", "m.last_hourly_claim", "m.last_daily_claim", "u.points").
		From("missions m").
		Join("users u ON u.telegram_id = m.user_telegram_id").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *Repository) GetMissionStatus(ctx context.Context, telegramID int64) (*model.MissionStatus, error) {
	return r.getMissionStatus(ctx, r.db, telegramID, false)
}

func (r *Repository) getMissionStatus(ctx context.Context, q sqlx.QueryerContext, telegramID int64, lock bool) (*model.MissionStatus, error) {
	builder := missionStatusQuery().Where(squirrel.Eq{"m.user_telegram_id": telegramID})
	if lock {
		builder = builder.Suffix("FOR UPDATE OF m")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var mission Mission
	err = sqlx.GetContext(ctx, q, &mission, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return mission.toModel(), nil
}

// ClaimMission locks the user's missions row, rejects the claim with
// ErrAlreadyClaimed while the cooldown runs, and otherwise records the claim
// and credits its points. It returns the status after the claim.
func (r *Repository) ClaimMission(ctx context.Context, claim *model.MissionClaim) (*model.MissionStatus, error) {
	column, err := lastClaimColumn(claim.Kind)
	if err != nil {
		return nil, err
	}

	var status *model.MissionStatus
	err = r.Transaction(ctx, func(tx *sqlx.Tx) error {
		current, err := r.getMissionStatus(ctx, tx, claim.UserTelegramID, true)
		if err != nil {
			return err
		}

		if !model.Claimable(claim.ClaimedAt, current.LastClaim(claim.Kind), claim.Kind) {
			return ErrAlreadyClaimed
		}

		updateQuery, updateArgs, err := squirrel.
			Update("missions").
			Set(column, claim.ClaimedAt).
			Where(squirrel.Eq{"user_telegram_id": claim.UserTelegramID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build missions update query: %w", err)
		}

		if _, err = tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
			return fmt.Errorf("failed to update missions: %w", err)
		}

		if err = r.addPointsWithTx(ctx, tx, claim.UserTelegramID, claim.Points); err != nil {
			return fmt.Errorf("failed to credit points: %w", err)
		}

		logQuery, logArgs, err := squirrel.
			Insert("mission_claims").
			SetMap(map[string]interface{}{
				"claim_id":         claim.ClaimID,
				"user_telegram_id": claim.UserTelegramID,
				"kind":             claim.Kind.String(),
				"points":           claim.Points,
				"claimed_at":       claim.ClaimedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build claim log insert query: %w", err)
		}

		if _, err = tx.ExecContext(ctx, logQuery, logArgs...); err != nil {
			return fmt.Errorf("failed to insert claim log: %w", err)
		}

		status, err = r.getMissionStatus(ctx, tx, claim.UserTelegramID, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	return status, nil
}

func (r *Repository) GetMissionClaims(ctx context.Context, telegramID int64, limit int) ([]*model.MissionClaim, error) {
	query, args, err := squirrel.
		Select("claim_id", "user_telegram_id", "kind", "points", "claimed_at").
		From("mission_claims").
		Where(squirrel.Eq{"user_telegram_id": telegramID}).
		OrderBy("claimed_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []MissionClaim
	if err = r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get mission claims: %w", err)
	}

	claims := make([]*model.MissionClaim, len(rows))
	for i, row := range rows {
		claims[i] = &model.MissionClaim{
			ClaimID:        row.ClaimID,
			UserTelegramID: row.UserTelegramID,
			Kind:           model.MissionKind(row.Kind),
			Points:         row.Points,
			ClaimedAt:      row.ClaimedAt,
		}
	}

	return claims, nil
}
