package model

import "time"

type User struct {
	TelegramID       int64
	Handle           string
	Username         string
	ReferrerID       *int64
	Referrals        int
	Points           int
	RegistrationDate time.Time
	AuthDate         time.Time
}
