package model

import (
	"time"

	"github.com/google/uuid"
)

type MissionKind string

const (
	MissionHourly MissionKind = "hourly"
	MissionDaily  MissionKind = "daily"
)

const (
	HourlyCooldown = time.Hour
	DailyCooldown  = 7 * 24 * time.Hour
)

// MissionKinds lists the kinds in display order.
var MissionKinds = []MissionKind{MissionHourly, MissionDaily}

// neverClaimed is the cooldown end of a kind that was never claimed.
var neverClaimed = time.Unix(0, 0).UTC()

func ParseMissionKind(s string) (MissionKind, bool) {
	kind := MissionKind(s)
	return kind, kind.Valid()
}

func (k MissionKind) Valid() bool {
	return k == MissionHourly || k == MissionDaily
}

func (k MissionKind) Cooldown() time.Duration {
	if k == MissionDaily {
		return DailyCooldown
	}
	return HourlyCooldown
}

func (k MissionKind) String() string {
	return string(k)
}

type MissionStatus struct {
	UserTelegramID  int64
	Points          int
	LastHourlyClaim *time.Time
	LastDailyClaim  *time.Time
}

func (s *MissionStatus) LastClaim(kind MissionKind) *time.Time {
	switch kind {
	case MissionHourly:
		return s.LastHourlyClaim
	case MissionDaily:
		return s.LastDailyClaim
	}
	return nil
}

func (s *MissionStatus) SetLastClaim(kind MissionKind, at time.Time) {
	switch kind {
	case MissionHourly:
		s.LastHourlyClaim = &at
	case MissionDaily:
		s.LastDailyClaim = &at
	}
}

// CooldownEnd is the earliest instant the kind can be claimed again. A kind
// that was never claimed ends its cooldown at the Unix epoch.
func CooldownEnd(lastClaim *time.Time, kind MissionKind) time.Time {
	if lastClaim == nil {
		return neverClaimed
	}
	return lastClaim.Add(kind.Cooldown())
}

// Claimable reports whether now has reached the cooldown end.
func Claimable(now time.Time, lastClaim *time.Time, kind MissionKind) bool {
	return !now.Before(CooldownEnd(lastClaim, kind))
}

type MissionClaim struct {
	ClaimID        uuid.UUID
	UserTelegramID int64
	Kind           MissionKind
	Points         int
	ClaimedAt      time.Time
}
