package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"marketai/internal/marketerrors"
	"marketai/internal/models"
)

// penaltyLockSpace is the first key of the two-key advisory locks taken per user
const penaltyLockSpace = 2

// LockUser takes a transaction-scoped advisory lock on the user, held until commit or rollback.
// It must run inside WithTx.
func (s *Store) LockUser(ctx context.Context, userID string) error {
	tx := txFromContext(ctx)
	if tx == nil {
		return fmt.Errorf("lock user %s: %w - no transaction in context", userID, marketerrors.ErrDatabase)
	}
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, hashtext($2))`, penaltyLockSpace, userID); err != nil {
		return dbError("lock user "+userID, err)
	}
	return nil
}

func (s *Store) CountOffensesSince(ctx context.Context, userID string, offense models.OffenseType, since time.Time) (int, error) {
	var n int
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM penalty_records WHERE user_id = $1 AND offense_type = $2 AND created_at >= $3`,
		userID, string(offense), since).Scan(&n)
	if err != nil {
		return 0, dbError("count offenses of user "+userID, err)
	}
	return n, nil
}

func (s *Store) CreatePenalty(ctx context.Context, rec models.PenaltyRecord) error {
	const stmt = `
INSERT INTO penalty_records (penalty_id, user_id, offense_type, offense_count, penalty_tier, restricts,
	created_at, expires_at, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.q(ctx).ExecContext(ctx, stmt,
		rec.PenaltyID, rec.UserID, string(rec.OffenseType), rec.OffenseCount, string(rec.Tier), rec.Restricts,
		rec.CreatedAt, rec.ExpiresAt, rec.IsActive)
	if err != nil {
		return dbError("create penalty "+rec.PenaltyID, err)
	}
	return nil
}

func (s *Store) ListPenaltiesByUser(ctx context.Context, userID string) ([]models.PenaltyRecord, error) {
	const query = `
SELECT penalty_id, user_id, offense_type, offense_count, penalty_tier, restricts, created_at, expires_at, is_active
FROM penalty_records
WHERE user_id = $1
ORDER BY created_at DESC`

	op := "list penalties of user " + userID
	rows, err := s.q(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	out := make([]models.PenaltyRecord, 0)
	for rows.Next() {
		var (
			rec           models.PenaltyRecord
			offense, tier string
		)
		if err := rows.Scan(&rec.PenaltyID, &rec.UserID, &offense, &rec.OffenseCount, &tier, &rec.Restricts,
			&rec.CreatedAt, &rec.ExpiresAt, &rec.IsActive); err != nil {
			return nil, dbError(op, err)
		}
		rec.OffenseType = models.OffenseType(offense)
		rec.Tier = models.PenaltyTier(tier)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}
	return out, nil
}

func (s *Store) DeactivateExpiredPenalties(ctx context.Context, now time.Time) (int, error) {
	res, err := s.q(ctx).ExecContext(ctx,
		`UPDATE penalty_records SET is_active = FALSE WHERE is_active AND expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, dbError("deactivate expired penalties", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbError("deactivate expired penalties", err)
	}
	return int(n), nil
}

// GetStanding returns a user's standing; users without a row are in good standing
func (s *Store) GetStanding(ctx context.Context, userID string) (models.UserStanding, error) {
	var (
		st     models.UserStanding
		reason string
	)
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT user_id, is_banned, ban_reason, banned_until, updated_at FROM user_standings WHERE user_id = $1`, userID).
		Scan(&st.UserID, &st.IsBanned, &reason, &st.BannedUntil, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserStanding{UserID: userID}, nil
	}
	if err != nil {
		return models.UserStanding{}, dbError("get standing of user "+userID, err)
	}
	st.BanReason = models.PenaltyTier(reason)
	return st, nil
}

func (s *Store) SaveStanding(ctx context.Context, st models.UserStanding) error {
	const stmt = `
INSERT INTO user_standings (user_id, is_banned, ban_reason, banned_until, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET is_banned = EXCLUDED.is_banned, ban_reason = EXCLUDED.ban_reason,
	banned_until = EXCLUDED.banned_until, updated_at = EXCLUDED.updated_at`

	_, err := s.q(ctx).ExecContext(ctx, stmt, st.UserID, st.IsBanned, string(st.BanReason), st.BannedUntil, st.UpdatedAt)
	if err != nil {
		return dbError("save standing of user "+st.UserID, err)
	}
	return nil
}

// LiftExpiredBans clears suspensions whose expiry has passed. Permanent bans have no expiry and stay.
func (s *Store) LiftExpiredBans(ctx context.Context, now time.Time) (int, error) {
	res, err := s.q(ctx).ExecContext(ctx, `
UPDATE user_standings SET is_banned = FALSE, ban_reason = '', banned_until = NULL, updated_at = $1
WHERE is_banned AND banned_until IS NOT NULL AND banned_until <= $1`, now)
	if err != nil {
		return 0, dbError("lift expired bans", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbError("lift expired bans", err)
	}
	return int(n), nil
}
