package widget

import (
	"strconv"

	"UD_missions_miniapp/pkg/auth"
)

type SessionState int

const (
	// SessionUndetermined means the identity provider has not answered yet.
	SessionUndetermined SessionState = iota
	// SessionDetermined means User is final, nil for an anonymous visitor.
	SessionDetermined
)

type User struct {
	TelegramID int64
	Username   string
	// InitData is forwarded verbatim to the backend as the credential.
	InitData string
}

// Session is the identity the widget observes.
type Session interface {
	State() SessionState
	User() *User
}

type staticSession struct {
	state SessionState
	user  *User
}

func (s staticSession) State() SessionState { return s.state }
func (s staticSession) User() *User         { return s.user }

func UndeterminedSession() Session {
	return staticSession{state: SessionUndetermined}
}

func AnonymousSession() Session {
	return staticSession{state: SessionDetermined}
}

func UserSession(user *User) Session {
	return staticSession{state: SessionDetermined, user: user}
}

// SessionFromInitData resolves Telegram init data into a determined session.
// Missing or unreadable data yields an anonymous session.
func SessionFromInitData(initData string) Session {
	if initData == "" {
		return AnonymousSession()
	}

	data, err := auth.ExtractTelegramData(initData)
	if err != nil {
		return AnonymousSession()
	}

	return UserSession(&User{
		TelegramID: data.ID,
		Username:   data.Username,
		InitData:   initData,
	})
}

// identityKey changes whenever the widget has to reload.
func identityKey(s Session) string {
	if s == nil || s.State() == SessionUndetermined {
		return "undetermined"
	}
	if s.User() == nil {
		return "anonymous"
	}
	return "user:" + strconv.FormatInt(s.User().TelegramID, 10)
}
