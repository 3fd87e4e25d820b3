package notify

import (
	"context"
	"testing"
	"time"

	"UD_missions_miniapp/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, s.err
}

func TestClaimMessage(t *testing.T) {
	claim := &model.MissionClaim{
		UserTelegramID: 42,
		Kind:           model.MissionHourly,
		Points:         100,
		ClaimedAt:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	msg := ClaimMessage(claim, &model.MissionStatus{Points: 350})

	assert.Equal(t, "You claimed 100 points from the hourly reward. Balance: 350. Next hourly claim at 2024-05-01 11:00 UTC.", msg)
}

func TestTelegramNotifier_NotifyClaim(t *testing.T) {
	sender := &fakeSender{}
	n := &TelegramNotifier{bot: sender}
	claim := &model.MissionClaim{UserTelegramID: 42, Kind: model.MissionDaily, Points: 1000}

	require.NoError(t, n.NotifyClaim(context.Background(), claim, &model.MissionStatus{Points: 1000}))
	require.Len(t, sender.sent, 1)

	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)

	sender.err = assert.AnError
	assert.ErrorIs(t, n.NotifyClaim(context.Background(), claim, &model.MissionStatus{}), assert.AnError)
}
