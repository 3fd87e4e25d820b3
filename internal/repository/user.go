package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"UD_missions_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const referrerShare = 0.1

var userColumns = []string{
	"telegram_id",
	"handle",
	"username",
	"referrer_id",
	"referrals",
	"points",
	"registration_date",
	"last_auth_date",
}

type User struct {
	TelegramID       int64     `db:"telegram_id"`
	Handle           string    `db:"handle"`
	Username         string    `db:"username"`
	ReferrerID       *int64    `db:"referrer_id"`
	Referrals        int       `db:"referrals"`
	Points           int       `db:"points"`
	RegistrationDate time.Time `db:"registration_date"`
	AuthDate         time.Time `db:"last_auth_date"`
}

func (u *User) toModel() *model.User {
	return &model.User{
		TelegramID:       u.TelegramID,
		Handle:           u.Handle,
		Username:         u.Username,
		ReferrerID:       u.ReferrerID,
		Referrals:        u.Referrals,
		Points:           u.Points,
		RegistrationDate: u.RegistrationDate,
		AuthDate:         u.AuthDate,
	}
}

// CreateUser inserts the user with an empty missions row and credits the referrer.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Insert("users").
			SetMap(map[string]interface{}{
				"telegram_id":       user.TelegramID,
				"handle":            user.Handle,
				"username":          user.Username,
				"referrer_id":       user.ReferrerID,
				"registration_date": user.RegistrationDate,
				"last_auth_date":    user.AuthDate,
				"points":            user.Points,
				"referrals":         user.Referrals,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build user insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}

		if user.ReferrerID != nil {
			updateQuery, updateArgs, err := squirrel.
				Update("users").
				Set("referrals", squirrel.Expr("referrals + 1")).
				Where(squirrel.Eq{"telegram_id": user.ReferrerID}).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build referrer update query: %w", err)
			}

			_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
			if err != nil {
				return fmt.Errorf("failed to update referrer: %w", err)
			}
		}

		missionQuery, missionArgs, err := squirrel.
			Insert("missions").
			Columns("user_telegram_id").
			Values(user.TelegramID).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build missions insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, missionQuery, missionArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert missions: %w", err)
		}

		return nil
	})
}

func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return r.getUser(ctx, r.db, telegramID)
}

func (r *Repository) getUser(ctx context.Context, q sqlx.QueryerContext, telegramID int64) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = sqlx.GetContext(ctx, q, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

// addPointsWithTx credits points to the user and a share to the referrer.
func (r *Repository) addPointsWithTx(ctx context.Context, tx *sqlx.Tx, telegramID int64, points int) error {
	user, err := r.getUser(ctx, tx, telegramID)
	if err != nil {
		return err
	}

	updateQuery, updateArgs, err := squirrel.
		Update("users").
		Set("points", squirrel.Expr("points + ?", points)).
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		return err
	}

	if user.ReferrerID != nil {
		referrerPoints := int(math.Ceil(float64(points) * referrerShare))

		updateReferrerQuery, referrerArgs, err := squirrel.
			Update("users").
			Set("points", squirrel.Expr("points + ?", referrerPoints)).
			Where(squirrel.Eq{"telegram_id": user.ReferrerID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, updateReferrerQuery, referrerArgs...)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	var users []User

	query, args, err := squirrel.
		Select("telegram_id", "username", "points", "referrals").
		From("users").
		OrderBy("points DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, err
	}

	userList := make([]*model.User, len(users))
	for i, user := range users {
		userList[i] = &model.User{
			TelegramID: user.TelegramID,
			Username:   user.Username,
			Points:     user.Points,
			Referrals:  user.Referrals,
		}
	}

	return userList, nil
}
