package models

import "time"

type OffenseType string

const (
	OffenseBidCancellation    OffenseType = "bid_cancellation"
	OffensePaymentDefault     OffenseType = "payment_default"
	OffenseFraudulentActivity OffenseType = "fraudulent_activity"
)

// PenaltyTier names a sanction level, e.g. "warning" or "suspension_7_days"
type PenaltyTier string

const (
	TierWarning      PenaltyTier = "warning"
	TierPermanentBan PenaltyTier = "permanent_ban"
)

// PenaltyRecord is one recorded offense and the sanction it produced
type PenaltyRecord struct {
	PenaltyID    string      `json:"penalty_id"`
	UserID       string      `json:"user_id"`
	OffenseType  OffenseType `json:"offense_type"`
	OffenseCount int         `json:"offense_count"`
	Tier         PenaltyTier `json:"penalty_tier"`
	Restricts    bool        `json:"restricts"`
	CreatedAt    time.Time   `json:"created_at"`
	ExpiresAt    *time.Time  `json:"expires_at,omitempty"`
	IsActive     bool        `json:"is_active"`
}

// InEffectAt reports whether the record still applies at t. The expiry is checked
// directly so a record not yet deactivated by cleanup is still treated as expired.
func (p PenaltyRecord) InEffectAt(t time.Time) bool {
	return p.IsActive && (p.ExpiresAt == nil || t.Before(*p.ExpiresAt))
}

// UserStanding is the ban state of a user
type UserStanding struct {
	UserID      string      `json:"user_id"`
	IsBanned    bool        `json:"is_banned"`
	BanReason   PenaltyTier `json:"ban_reason,omitempty"`
	BannedUntil *time.Time  `json:"banned_until,omitempty"` // nil with IsBanned means permanent
	UpdatedAt   time.Time   `json:"updated_at"`
}

// RestrictedAt reports whether the user may not trade at t
func (s UserStanding) RestrictedAt(t time.Time) bool {
	return s.IsBanned && (s.BannedUntil == nil || t.Before(*s.BannedUntil))
}

// StandingReport is the trading status of a user as derived from their active penalty records
type StandingReport struct {
	UserID          string          `json:"user_id"`
	Restricted      bool            `json:"restricted"`
	Permanent       bool            `json:"permanent"`
	RestrictedUntil *time.Time      `json:"restricted_until,omitempty"`
	ActivePenalty   *PenaltyRecord  `json:"active_penalty,omitempty"`
	ActivePenalties []PenaltyRecord `json:"active_penalties"`
}
