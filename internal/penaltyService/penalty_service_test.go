package penalty

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"marketai/internal/clock"
	"marketai/internal/config"
	"marketai/internal/marketerrors"
	"marketai/internal/models"
	"marketai/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type recordedEvents struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recordedEvents) Emit(_ context.Context, e models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

type penaltyFixture struct {
	repo    *repository.MemoryRepo
	clock   *clock.Manual
	events  *recordedEvents
	service *PenaltyService
}

func newPenaltyFixture(t *testing.T) *penaltyFixture {
	t.Helper()
	f := &penaltyFixture{
		repo:   repository.NewMemoryRepo(),
		clock:  clock.NewManual(testNow),
		events: &recordedEvents{},
	}
	f.service = NewPenaltyService(f.repo, config.DefaultPolicy().Penalties, WithClock(f.clock), WithEmitter(f.events))
	return f
}

// record records offenses one hour apart and returns the last record
func (f *penaltyFixture) record(t *testing.T, userID string, offense models.OffenseType, times int) models.PenaltyRecord {
	t.Helper()
	var rec models.PenaltyRecord
	for i := 0; i < times; i++ {
		var err error
		rec, err = f.service.RecordOffense(context.Background(), userID, offense)
		require.NoError(t, err)
		f.clock.Advance(time.Hour)
	}
	return rec
}

func TestPenaltyService_Escalation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		offense      models.OffenseType
		times        int
		wantTier     models.PenaltyTier
		wantExpires  time.Duration // zero means no expiry
		wantRestrict bool
	}{
		{name: "FirstCancellationWarns", offense: models.OffenseBidCancellation, times: 1, wantTier: models.TierWarning},
		{name: "SecondCancellationSuspends7Days", offense: models.OffenseBidCancellation, times: 2, wantTier: "suspension_7_days", wantExpires: 7 * 24 * time.Hour, wantRestrict: true},
		{name: "ThirdCancellationSuspends30Days", offense: models.OffenseBidCancellation, times: 3, wantTier: "suspension_30_days", wantExpires: 30 * 24 * time.Hour, wantRestrict: true},
		{name: "FourthCancellationBans", offense: models.OffenseBidCancellation, times: 4, wantTier: models.TierPermanentBan, wantRestrict: true},
		{name: "BeyondTableKeepsLastTier", offense: models.OffenseBidCancellation, times: 6, wantTier: models.TierPermanentBan, wantRestrict: true},
		{name: "SecondPaymentDefaultSuspends14Days", offense: models.OffensePaymentDefault, times: 2, wantTier: "suspension_14_days", wantExpires: 14 * 24 * time.Hour, wantRestrict: true},
		{name: "ThirdPaymentDefaultBans", offense: models.OffensePaymentDefault, times: 3, wantTier: models.TierPermanentBan, wantRestrict: true},
		{name: "FraudBansImmediately", offense: models.OffenseFraudulentActivity, times: 1, wantTier: models.TierPermanentBan, wantRestrict: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newPenaltyFixture(t)

			createdAt := testNow.Add(time.Duration(tt.times-1) * time.Hour)
			rec := f.record(t, "user-1", tt.offense, tt.times)

			require.Equal(t, tt.times, rec.OffenseCount)
			require.Equal(t, tt.wantTier, rec.Tier)
			require.Equal(t, tt.wantRestrict, rec.Restricts)
			require.True(t, rec.IsActive)
			if tt.wantExpires == 0 {
				require.Nil(t, rec.ExpiresAt)
			} else {
				require.NotNil(t, rec.ExpiresAt)
				require.Equal(t, createdAt.Add(tt.wantExpires), *rec.ExpiresAt)
			}

			restricted, err := f.service.IsRestricted(context.Background(), "user-1")
			require.NoError(t, err)
			require.Equal(t, tt.wantRestrict, restricted)
			require.Len(t, f.events.events, tt.times)
			require.Equal(t, models.EventPenaltyApplied, f.events.events[0].Type)
		})
	}
}

func TestPenaltyService_RecordOffenseValidation(t *testing.T) {
	t.Parallel()
	f := newPenaltyFixture(t)

	_, err := f.service.RecordOffense(context.Background(), "user-1", "spamming")
	require.ErrorIs(t, err, marketerrors.ErrInvalidInput)

	_, err = f.service.RecordOffense(context.Background(), "", models.OffenseBidCancellation)
	require.ErrorIs(t, err, marketerrors.ErrInvalidInput)

	records, err := f.repo.ListPenaltiesByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestPenaltyService_WindowExpires(t *testing.T) {
	t.Parallel()
	f := newPenaltyFixture(t)
	ctx := context.Background()

	f.record(t, "user-1", models.OffenseBidCancellation, 1)
	f.clock.Set(testNow.AddDate(0, 7, 0))

	rec, err := f.service.RecordOffense(ctx, "user-1", models.OffenseBidCancellation)
	require.NoError(t, err)
	require.Equal(t, 1, rec.OffenseCount)
	require.Equal(t, models.TierWarning, rec.Tier)
}

func TestPenaltyService_CountsPerOffenseType(t *testing.T) {
	t.Parallel()
	f := newPenaltyFixture(t)

	f.record(t, "user-1", models.OffenseBidCancellation, 1)
	rec := f.record(t, "user-1", models.OffensePaymentDefault, 1)
	require.Equal(t, 1, rec.OffenseCount)

	other := f.record(t, "user-2", models.OffenseBidCancellation, 1)
	require.Equal(t, 1, other.OffenseCount)
}

func TestPenaltyService_StandingNeverDowngrades(t *testing.T) {
	t.Parallel()

	t.Run("PermanentBanStays", func(t *testing.T) {
		t.Parallel()
		f := newPenaltyFixture(t)
		f.record(t, "user-1", models.OffenseFraudulentActivity, 1)
		f.record(t, "user-1", models.OffensePaymentDefault, 2)

		standing, err := f.repo.GetStanding(context.Background(), "user-1")
		require.NoError(t, err)
		require.True(t, standing.IsBanned)
		require.Nil(t, standing.BannedUntil)
		require.Equal(t, models.TierPermanentBan, standing.BanReason)
	})

	t.Run("LongerSuspensionExtends", func(t *testing.T) {
		t.Parallel()
		f := newPenaltyFixture(t)
		f.record(t, "user-1", models.OffenseBidCancellation, 2)
		rec := f.record(t, "user-1", models.OffensePaymentDefault, 2)

		standing, err := f.repo.GetStanding(context.Background(), "user-1")
		require.NoError(t, err)
		require.Equal(t, *rec.ExpiresAt, *standing.BannedUntil)
		require.Equal(t, models.PenaltyTier("suspension_14_days"), standing.BanReason)
	})

	t.Run("ShorterSuspensionDoesNotShorten", func(t *testing.T) {
		t.Parallel()
		f := newPenaltyFixture(t)
		long := f.record(t, "user-1", models.OffenseBidCancellation, 3)
		f.record(t, "user-1", models.OffensePaymentDefault, 2)

		standing, err := f.repo.GetStanding(context.Background(), "user-1")
		require.NoError(t, err)
		require.Equal(t, *long.ExpiresAt, *standing.BannedUntil)
		require.Equal(t, models.PenaltyTier("suspension_30_days"), standing.BanReason)
	})
}

func TestPenaltyService_CheckStanding(t *testing.T) {
	t.Parallel()
	f := newPenaltyFixture(t)
	ctx := context.Background()

	report, err := f.service.CheckStanding(ctx, "user-1")
	require.NoError(t, err)
	require.False(t, report.Restricted)
	require.Nil(t, report.ActivePenalty)
	require.Empty(t, report.ActivePenalties)

	suspension := f.record(t, "user-1", models.OffenseBidCancellation, 2)
	report, err = f.service.CheckStanding(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, report.Restricted)
	require.False(t, report.Permanent)
	require.Equal(t, *suspension.ExpiresAt, *report.RestrictedUntil)
	require.Equal(t, suspension.PenaltyID, report.ActivePenalty.PenaltyID)
	require.Len(t, report.ActivePenalties, 2)

	// expired but not yet cleaned up
	f.clock.Set(suspension.ExpiresAt.Add(time.Minute))
	report, err = f.service.CheckStanding(ctx, "user-1")
	require.NoError(t, err)
	require.False(t, report.Restricted)
	require.Nil(t, report.RestrictedUntil)
	require.Len(t, report.ActivePenalties, 1)
	require.Equal(t, models.TierWarning, report.ActivePenalty.Tier)
}

func TestPenaltyService_CleanupExpiredPenalties(t *testing.T) {
	t.Parallel()
	f := newPenaltyFixture(t)
	ctx := context.Background()

	suspension := f.record(t, "user-1", models.OffenseBidCancellation, 2)
	f.record(t, "user-2", models.OffenseFraudulentActivity, 1)

	res, err := f.service.CleanupExpiredPenalties(ctx)
	require.NoError(t, err)
	require.Zero(t, res.Processed)

	f.clock.Set(suspension.ExpiresAt.Add(time.Second))
	res, err = f.service.CleanupExpiredPenalties(ctx)
	require.NoError(t, err)
	require.Equal(t, models.SweepResult{Processed: 2, Succeeded: 2}, res)

	standing, err := f.repo.GetStanding(ctx, "user-1")
	require.NoError(t, err)
	require.False(t, standing.IsBanned)

	banned, err := f.service.IsRestricted(ctx, "user-2")
	require.NoError(t, err)
	require.True(t, banned)

	res, err = f.service.CleanupExpiredPenalties(ctx)
	require.NoError(t, err)
	require.Zero(t, res.Processed)
}

func TestPenaltyService_ConcurrentOffenses(t *testing.T) {
	t.Parallel()
	f := newPenaltyFixture(t)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.RecordOffense(context.Background(), "user-1", models.OffenseBidCancellation)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	records, err := f.service.ListPenalties(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, records, 4)

	counts := map[int]bool{}
	for _, r := range records {
		counts[r.OffenseCount] = true
	}
	require.Equal(t, map[int]bool{1: true, 2: true, 3: true, 4: true}, counts)

	restricted, err := f.service.IsRestricted(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, restricted)
}

func TestPenaltyService_StoreErrors(t *testing.T) {
	t.Parallel()

	runTx := func(repo *repository.MockPenaltyDB) {
		repo.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
	}

	t.Run("CountFailureStoresNothing", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		repo := repository.NewMockPenaltyDB(ctrl)
		events := &recordedEvents{}
		svc := NewPenaltyService(repo, config.DefaultPolicy().Penalties, WithClock(clock.NewManual(testNow)), WithEmitter(events))

		runTx(repo)
		gomock.InOrder(
			repo.EXPECT().LockUser(gomock.Any(), "user-1").Return(nil),
			repo.EXPECT().CountOffensesSince(gomock.Any(), "user-1", models.OffenseBidCancellation, testNow.AddDate(0, -6, 0)).
				Return(0, marketerrors.ErrDatabase),
		)

		_, err := svc.RecordOffense(context.Background(), "user-1", models.OffenseBidCancellation)
		require.ErrorIs(t, err, marketerrors.ErrDatabase)
		require.Empty(t, events.events)
	})

	t.Run("LockFailureReadsNothing", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		repo := repository.NewMockPenaltyDB(ctrl)
		svc := NewPenaltyService(repo, config.DefaultPolicy().Penalties, WithClock(clock.NewManual(testNow)))

		runTx(repo)
		repo.EXPECT().LockUser(gomock.Any(), "user-1").Return(marketerrors.ErrDatabase)

		_, err := svc.RecordOffense(context.Background(), "user-1", models.OffensePaymentDefault)
		require.ErrorIs(t, err, marketerrors.ErrDatabase)
	})

	t.Run("WarningLeavesStandingAlone", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		repo := repository.NewMockPenaltyDB(ctrl)
		svc := NewPenaltyService(repo, config.DefaultPolicy().Penalties, WithClock(clock.NewManual(testNow)))

		runTx(repo)
		gomock.InOrder(
			repo.EXPECT().LockUser(gomock.Any(), "user-1").Return(nil),
			repo.EXPECT().CountOffensesSince(gomock.Any(), "user-1", models.OffenseBidCancellation, gomock.Any()).Return(0, nil),
			repo.EXPECT().CreatePenalty(gomock.Any(), gomock.Any()).Return(nil),
		)

		rec, err := svc.RecordOffense(context.Background(), "user-1", models.OffenseBidCancellation)
		require.NoError(t, err)
		require.Equal(t, models.TierWarning, rec.Tier)
	})

	t.Run("CleanupFailure", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		repo := repository.NewMockPenaltyDB(ctrl)
		svc := NewPenaltyService(repo, config.DefaultPolicy().Penalties, WithClock(clock.NewManual(testNow)))

		boom := errors.New("connection reset")
		runTx(repo)
		repo.EXPECT().DeactivateExpiredPenalties(gomock.Any(), testNow).Return(0, boom)

		_, err := svc.CleanupExpiredPenalties(context.Background())
		require.ErrorIs(t, err, boom)
	})
}
