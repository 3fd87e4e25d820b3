package notify

import (
	"context"
	"fmt"

	"UD_missions_miniapp/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier messages the user from the mini app bot after a claim.
type TelegramNotifier struct {
	bot sender
}

func NewTelegramNotifier(botToken string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	return &TelegramNotifier{bot: bot}, nil
}

func (n *TelegramNotifier) NotifyClaim(_ context.Context, claim *model.MissionClaim, status *model.MissionStatus) error {
	msg := tgbotapi.NewMessage(claim.UserTelegramID, ClaimMessage(claim, status))

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send claim message: %w", err)
	}

	return nil
}

func ClaimMessage(claim *model.MissionClaim, status *model.MissionStatus) string {
	next := model.CooldownEnd(&claim.ClaimedAt, claim.Kind)

	return fmt.Sprintf("You claimed %d points from the %s reward. Balance: %d. Next %s claim at %s UTC.",
		claim.Points,
		claim.Kind,
		status.Points,
		claim.Kind,
		next.UTC().Format("2006-01-02 15:04"),
	)
}
