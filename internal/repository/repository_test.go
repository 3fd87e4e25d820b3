package repository

import (
	"testing"

	"UD_missions_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_GetDatabaseURL(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "app", Password: "secret", Name: "missions"}
	assert.Equal(t, "postgres://app:secret@db:5432/missions?sslmode=disable", cfg.GetDatabaseURL())

	cfg.SSLMode = "require"
	assert.Equal(t, "postgres://app:secret@db:5432/missions?sslmode=require", cfg.GetDatabaseURL())
}

func TestLastClaimColumn(t *testing.T) {
	column, err := lastClaimColumn(model.MissionHourly)
	require.NoError(t, err)
	assert.Equal(t, "last_hourly_claim", column)

	column, err = lastClaimColumn(model.MissionDaily)
	require.NoError(t, err)
	assert.Equal(t, "last_daily_claim", column)

	_, err = lastClaimColumn("weekly")
	assert.Error(t, err)
}

func TestMissionStatusQuery_LocksMissionRow(t *testing.T) {
	query, args, err := missionStatusQuery().
		Where(squirrel.Eq{"m.user_telegram_id": int64(42)}).
		Suffix("FOR UPDATE OF m").
		ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT m.user_telegram_id, m.last_hourly_claim, m.last_daily_claim, u.points FROM missions m "+
			"JOIN users u ON u.telegram_id = m.user_telegram_id WHERE m.user_telegram_id = $1 FOR UPDATE OF m",
		query)
	assert.Equal(t, []interface{}{int64(42)}, args)
}
