package penalty

import (
	"context"
	"fmt"
	"time"

	"marketai/internal/clock"
	"marketai/internal/config"
	"marketai/internal/events"
	"marketai/internal/marketerrors"
	"marketai/internal/models"
	"marketai/internal/repository"
	"marketai/utils"
)

// PenaltyService records offenses, escalates sanctions and answers standing queries
type PenaltyService struct {
	repo   repository.PenaltyDB
	policy config.PenaltyPolicy
	clock  clock.Clock
	events events.Emitter
}

type Option func(*PenaltyService)

func WithClock(c clock.Clock) Option {
	return func(s *PenaltyService) { s.clock = c }
}

func WithEmitter(e events.Emitter) Option {
	return func(s *PenaltyService) { s.events = e }
}

// NewPenaltyService creates a new PenaltyService instance
func NewPenaltyService(repo repository.PenaltyDB, policy config.PenaltyPolicy, opts ...Option) *PenaltyService {
	s := &PenaltyService{
		repo:   repo,
		policy: policy,
		clock:  clock.NewSystem(),
		events: events.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordOffense stores an offense and the sanction its count within the policy window calls for.
// The count includes the new offense; counts beyond the escalation table use its last tier.
func (s *PenaltyService) RecordOffense(ctx context.Context, userID string, offense models.OffenseType) (models.PenaltyRecord, error) {
	if userID == "" {
		return models.PenaltyRecord{}, fmt.Errorf("service: %w - empty user ID", marketerrors.ErrInvalidInput)
	}
	ladder, ok := s.policy.Escalation[string(offense)]
	if !ok || len(ladder) == 0 {
		return models.PenaltyRecord{}, fmt.Errorf("service: %w - unknown offense type %q", marketerrors.ErrInvalidInput, offense)
	}

	var rec models.PenaltyRecord
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		// count, insert and standing update must see every earlier offense of this user
		if err := s.repo.LockUser(ctx, userID); err != nil {
			return fmt.Errorf("service: failed to lock user %s: %w", userID, err)
		}

		now := s.clock.Now()
		prior, err := s.repo.CountOffensesSince(ctx, userID, offense, now.AddDate(0, -s.policy.WindowMonths, 0))
		if err != nil {
			return fmt.Errorf("service: failed to count offenses of user %s: %w", userID, err)
		}

		count := prior + 1
		tierName := ladder[min(count, len(ladder))-1]
		tier := s.policy.Tiers[tierName]

		rec = models.PenaltyRecord{
			PenaltyID:    utils.GenerateID(),
			UserID:       userID,
			OffenseType:  offense,
			OffenseCount: count,
			Tier:         models.PenaltyTier(tierName),
			Restricts:    tier.Restricts,
			CreatedAt:    now,
			IsActive:     true,
		}
		if tier.Duration > 0 {
			expires := now.Add(tier.Duration)
			rec.ExpiresAt = &expires
		}

		if err := s.repo.CreatePenalty(ctx, rec); err != nil {
			return fmt.Errorf("service: failed to store penalty for user %s: %w", userID, err)
		}
		if rec.Restricts {
			return s.restrict(ctx, rec, now)
		}
		return nil
	})
	if err != nil {
		return models.PenaltyRecord{}, err
	}

	utils.Info("service: penalty applied", map[string]any{
		"user_id":       userID,
		"offense_type":  offense,
		"offense_count": rec.OffenseCount,
		"penalty_tier":  rec.Tier,
	})
	s.events.Emit(ctx, models.Event{
		Type:        models.EventPenaltyApplied,
		RecipientID: userID,
		AggregateID: userID,
		Data: map[string]any{
			"penalty_id":    rec.PenaltyID,
			"offense_type":  rec.OffenseType,
			"offense_count": rec.OffenseCount,
			"penalty_tier":  rec.Tier,
			"expires_at":    rec.ExpiresAt,
		},
	})
	return rec, nil
}

// restrict folds a restricting penalty into the stored standing. A permanent ban is never
// downgraded and a running suspension is only ever extended.
func (s *PenaltyService) restrict(ctx context.Context, rec models.PenaltyRecord, now time.Time) error {
	standing, err := s.repo.GetStanding(ctx, rec.UserID)
	if err != nil {
		return fmt.Errorf("service: failed to load standing of user %s: %w", rec.UserID, err)
	}

	switch {
	case standing.IsBanned && standing.BannedUntil == nil:
		return nil
	case rec.ExpiresAt == nil:
		standing.BannedUntil = nil
	case standing.RestrictedAt(now) && !standing.BannedUntil.Before(*rec.ExpiresAt):
		return nil
	default:
		until := *rec.ExpiresAt
		standing.BannedUntil = &until
	}

	standing.UserID = rec.UserID
	standing.IsBanned = true
	standing.BanReason = rec.Tier
	standing.UpdatedAt = now
	if err := s.repo.SaveStanding(ctx, standing); err != nil {
		return fmt.Errorf("service: failed to save standing of user %s: %w", rec.UserID, err)
	}
	return nil
}

// CheckStanding derives a user's standing from the penalty records still in effect and the stored ban
func (s *PenaltyService) CheckStanding(ctx context.Context, userID string) (models.StandingReport, error) {
	if userID == "" {
		return models.StandingReport{}, fmt.Errorf("service: %w - empty user ID", marketerrors.ErrInvalidInput)
	}

	records, err := s.repo.ListPenaltiesByUser(ctx, userID)
	if err != nil {
		return models.StandingReport{}, fmt.Errorf("service: failed to list penalties of user %s: %w", userID, err)
	}
	standing, err := s.repo.GetStanding(ctx, userID)
	if err != nil {
		return models.StandingReport{}, fmt.Errorf("service: failed to load standing of user %s: %w", userID, err)
	}

	now := s.clock.Now()
	report := models.StandingReport{UserID: userID, ActivePenalties: []models.PenaltyRecord{}}
	for _, rec := range records {
		if !rec.InEffectAt(now) {
			continue
		}
		report.ActivePenalties = append(report.ActivePenalties, rec)
		if !rec.Restricts {
			continue
		}
		report.Restricted = true
		if rec.ExpiresAt == nil {
			report.Permanent = true
		} else if report.RestrictedUntil == nil || rec.ExpiresAt.After(*report.RestrictedUntil) {
			until := *rec.ExpiresAt
			report.RestrictedUntil = &until
		}
	}

	if standing.RestrictedAt(now) {
		report.Restricted = true
		if standing.BannedUntil == nil {
			report.Permanent = true
		} else if report.RestrictedUntil == nil || standing.BannedUntil.After(*report.RestrictedUntil) {
			until := *standing.BannedUntil
			report.RestrictedUntil = &until
		}
	}
	if report.Permanent {
		report.RestrictedUntil = nil
	}

	// records are newest first
	if len(report.ActivePenalties) > 0 {
		latest := report.ActivePenalties[0]
		report.ActivePenalty = &latest
	}
	return report, nil
}

// IsRestricted reports whether the user is currently barred from bidding and trading
func (s *PenaltyService) IsRestricted(ctx context.Context, userID string) (bool, error) {
	report, err := s.CheckStanding(ctx, userID)
	if err != nil {
		return false, err
	}
	return report.Restricted, nil
}

// ListPenalties returns every penalty record of a user, newest first
func (s *PenaltyService) ListPenalties(ctx context.Context, userID string) ([]models.PenaltyRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", marketerrors.ErrInvalidInput)
	}
	records, err := s.repo.ListPenaltiesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list penalties of user %s: %w", userID, err)
	}
	return records, nil
}

// CleanupExpiredPenalties deactivates expired records and lifts expired bans. Running it again
// over the same data changes nothing.
func (s *PenaltyService) CleanupExpiredPenalties(ctx context.Context) (models.SweepResult, error) {
	now := s.clock.Now()

	var deactivated, lifted int
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if deactivated, err = s.repo.DeactivateExpiredPenalties(ctx, now); err != nil {
			return fmt.Errorf("service: failed to deactivate expired penalties: %w", err)
		}
		if lifted, err = s.repo.LiftExpiredBans(ctx, now); err != nil {
			return fmt.Errorf("service: failed to lift expired bans: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.SweepResult{}, err
	}

	if n := deactivated + lifted; n > 0 {
		utils.Info("service: expired penalties cleaned up", map[string]any{
			"deactivated": deactivated,
			"lifted_bans": lifted,
		})
	}
	return models.SweepResult{Processed: deactivated + lifted, Succeeded: deactivated + lifted}, nil
}
