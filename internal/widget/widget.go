package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"UD_missions_miniapp/internal/model"
	"UD_missions_miniapp/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrFetchStatusFailed = errors.New("failed to load mission status")
	ErrClaimFailed       = errors.New("failed to claim reward")
	ErrClaimInProgress   = errors.New("claim already in progress")
	ErrNotSignedIn       = errors.New("sign in to claim rewards")
)

// State is a snapshot of everything the widget renders from.
type State struct {
	SessionState SessionState
	SignedIn     bool
	Loaded       bool
	Loading      bool
	Status       model.MissionStatus
	Error        string
	Submitting   map[model.MissionKind]bool
}

// Widget owns the mission status of one session. Loads are applied in
// request order: a load that finishes after a newer load or a claim is
// dropped.
type Widget struct {
	client StatusClient

	mu       sync.Mutex
	session  Session
	identity string
	status   model.MissionStatus
	loaded   bool
	loading  bool
	errMsg   string
	busy     map[model.MissionKind]bool
	seq      uint64
}

func New(client StatusClient) *Widget {
	return &Widget{
		client:   client,
		session:  UndeterminedSession(),
		identity: identityKey(nil),
		busy:     make(map[model.MissionKind]bool),
	}
}

// SetSession records the observed identity and loads the status when the
// (determined, user) pair changed.
func (w *Widget) SetSession(ctx context.Context, s Session) error {
	if s == nil {
		s = UndeterminedSession()
	}

	key := identityKey(s)

	w.mu.Lock()
	w.session = s
	changed := key != w.identity
	w.identity = key
	w.mu.Unlock()

	if !changed {
		return nil
	}
	return w.Load(ctx)
}

// Mount sets the session and always loads, as a freshly shown widget does.
func (w *Widget) Mount(ctx context.Context, s Session) error {
	if s == nil {
		s = UndeterminedSession()
	}

	w.mu.Lock()
	w.session = s
	w.identity = identityKey(s)
	w.mu.Unlock()

	return w.Load(ctx)
}

// Load fetches the mission status for the current session. An undetermined
// session issues nothing; an anonymous one resets the status without a
// request.
func (w *Widget) Load(ctx context.Context) error {
	w.mu.Lock()
	session := w.session
	if session.State() == SessionUndetermined {
		w.mu.Unlock()
		return nil
	}

	w.seq++
	seq := w.seq

	user := session.User()
	if user == nil {
		w.resetLocked()
		w.errMsg = ""
		w.loaded = true
		w.loading = false
		w.mu.Unlock()
		return nil
	}

	w.loading = true
	w.mu.Unlock()

	status, err := w.client.FetchStatus(ctx, user)

	w.mu.Lock()
	defer w.mu.Unlock()

	if seq != w.seq {
		logger.Named("widget").Debug("dropping stale status load", zap.Int64("telegram_id", user.TelegramID))
		return nil
	}

	w.loading = false
	w.loaded = true

	if err != nil {
		w.resetLocked()
		w.errMsg = errorMessage(err, ErrFetchStatusFailed)
		logger.Named("widget").Error("failed to fetch mission status",
			zap.Error(err),
			zap.Int64("telegram_id", user.TelegramID))
		return fmt.Errorf("%w: %w", ErrFetchStatusFailed, err)
	}

	w.status = *status
	w.status.UserTelegramID = user.TelegramID
	w.errMsg = ""

	return nil
}

// Claim posts a claim for kind. The response replaces the whole status; on
// failure the status is left as it was. A response that arrives after the
// session changed is discarded.
func (w *Widget) Claim(ctx context.Context, kind model.MissionKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown mission kind %q", ErrClaimFailed, kind)
	}

	w.mu.Lock()
	user := w.session.User()
	if w.session.State() == SessionUndetermined || user == nil {
		w.errMsg = ErrNotSignedIn.Error()
		w.mu.Unlock()
		return ErrNotSignedIn
	}
	if w.busy[kind] {
		w.mu.Unlock()
		return ErrClaimInProgress
	}
	w.busy[kind] = true
	identity := w.identity
	w.mu.Unlock()

	status, err := w.client.Claim(ctx, user, kind)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy[kind] = false

	if identity != w.identity {
		logger.Named("widget").Debug("dropping claim result for a previous session",
			zap.String("kind", kind.String()),
			zap.Int64("telegram_id", user.TelegramID))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrClaimFailed, err)
		}
		return nil
	}

	if err != nil {
		w.errMsg = errorMessage(err, ErrClaimFailed)
		logger.Named("widget").Error("failed to claim reward",
			zap.Error(err),
			zap.String("kind", kind.String()),
			zap.Int64("telegram_id", user.TelegramID))
		return fmt.Errorf("%w: %w", ErrClaimFailed, err)
	}

	// invalidate loads started before the claim
	w.seq++
	w.loading = false
	w.loaded = true
	w.status = *status
	w.status.UserTelegramID = user.TelegramID
	w.errMsg = ""

	return nil
}

func (w *Widget) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	submitting := make(map[model.MissionKind]bool, len(w.busy))
	for kind, busy := range w.busy {
		if busy {
			submitting[kind] = true
		}
	}

	return State{
		SessionState: w.session.State(),
		SignedIn:     w.session.State() == SessionDetermined && w.session.User() != nil,
		Loaded:       w.loaded,
		Loading:      w.loading,
		Status:       w.status,
		Error:        w.errMsg,
		Submitting:   submitting,
	}
}

func (w *Widget) resetLocked() {
	w.status = model.MissionStatus{}
}

// errorMessage prefers the backend's message over the generic one.
func errorMessage(err error, fallback error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback.Error()
}
