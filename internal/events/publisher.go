package events

import (
	"context"
	"fmt"
	"time"

	"UD_missions_miniapp/internal/model"
	"UD_missions_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
)

const (
	ClaimedSubject = "missions.claimed"

	maxReconnects = -1
	reconnectWait = 2 * time.Second
)

type ClaimedEvent struct {
	ClaimID        string    `json:"claim_id"`
	UserTelegramID int64     `json:"user_telegram_id"`
	Kind           string    `json:"kind"`
	Points         int       `json:"points"`
	ClaimedAt      time.Time `json:"claimed_at"`
}

func NewClaimedEvent(claim *model.MissionClaim) ClaimedEvent {
	return ClaimedEvent{
		ClaimID:        claim.ClaimID.String(),
		UserTelegramID: claim.UserTelegramID,
		Kind:           claim.Kind.String(),
		Points:         claim.Points,
		ClaimedAt:      claim.ClaimedAt.UTC(),
	}
}

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

type NATSPublisher struct {
	nc conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	log := logger.Named("events")

	opts := []nats.Option{
		nats.Name("missions-backend"),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSPublisher{nc: nc}, nil
}

func (p *NATSPublisher) PublishClaim(_ context.Context, claim *model.MissionClaim) error {
	data, err := json.Marshal(NewClaimedEvent(claim))
	if err != nil {
		return fmt.Errorf("marshal claimed event: %w", err)
	}

	if err := p.nc.Publish(ClaimedSubject, data); err != nil {
		return fmt.Errorf("publish %s: %w", ClaimedSubject, err)
	}

	return nil
}

func (p *NATSPublisher) Close() {
	p.nc.Close()
}
