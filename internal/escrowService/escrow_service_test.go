package escrow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"marketai/internal/clock"
	"marketai/internal/config"
	"marketai/internal/fees"
	"marketai/internal/marketerrors"
	"marketai/internal/metrics"
	"marketai/internal/models"
	"marketai/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

const (
	buyer  = "buyer-1"
	seller = "seller-1"
	admin  = "admin-1"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recordedEvents) Emit(_ context.Context, e models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordedEvents) ofType(typ models.EventType) []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type fakeOffenses struct {
	mu    sync.Mutex
	users []string
	err   error
}

func (f *fakeOffenses) RecordOffense(_ context.Context, userID string, offense models.OffenseType) (models.PenaltyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.PenaltyRecord{}, f.err
	}
	f.users = append(f.users, userID)
	return models.PenaltyRecord{UserID: userID, OffenseType: offense}, nil
}

func testCalculator(t *testing.T) *fees.Calculator {
	t.Helper()
	calc, err := fees.NewCalculator(config.DefaultPolicy().FeeBands)
	require.NoError(t, err)
	return calc
}

type escrowFixture struct {
	repo     *repository.MemoryRepo
	clock    *clock.Manual
	events   *recordedEvents
	offenses *fakeOffenses
	metrics  *metrics.Metrics
	service  *EscrowService
}

func newEscrowFixture(t *testing.T) *escrowFixture {
	t.Helper()
	repo := repository.NewMemoryRepo()
	return newEscrowFixtureOn(t, repo, repo)
}

// newEscrowFixtureOn builds the service on store while assertions read repo directly
func newEscrowFixtureOn(t *testing.T, repo *repository.MemoryRepo, store repository.EscrowDB) *escrowFixture {
	t.Helper()
	f := &escrowFixture{
		repo:     repo,
		clock:    clock.NewManual(testNow),
		events:   &recordedEvents{},
		offenses: &fakeOffenses{},
		metrics:  metrics.NewMetrics(),
	}
	f.service = NewEscrowService(store, testCalculator(t), config.DefaultPolicy().Escrow,
		WithClock(f.clock),
		WithEmitter(f.events),
		WithOffenseRecorder(f.offenses),
		WithMetrics(f.metrics),
	)
	return f
}

// flakyStore fails the next failUpdates status writes
type flakyStore struct {
	*repository.MemoryRepo
	failUpdates int
}

func (f *flakyStore) UpdateTransaction(ctx context.Context, tx models.EscrowTransaction) error {
	if f.failUpdates > 0 {
		f.failUpdates--
		return fmt.Errorf("update escrow %s: %w", tx.TransactionID, marketerrors.ErrDatabase)
	}
	return f.MemoryRepo.UpdateTransaction(ctx, tx)
}

func (f *escrowFixture) create(t *testing.T, orderID string) models.EscrowTransaction {
	t.Helper()
	tx, err := f.service.CreateTransaction(context.Background(), CreateTransactionInput{
		OrderID:   orderID,
		BuyerID:   buyer,
		SellerID:  seller,
		ProductID: "product-" + orderID,
		Amount:    100000,
	})
	require.NoError(t, err)
	return tx
}

// delivered walks a new transaction to delivered at the current clock time
func (f *escrowFixture) delivered(t *testing.T, orderID string) models.EscrowTransaction {
	t.Helper()
	ctx := context.Background()
	tx := f.create(t, orderID)
	_, err := f.service.ConfirmPayment(ctx, tx.TransactionID, buyer)
	require.NoError(t, err)
	_, err = f.service.MarkShipped(ctx, tx.TransactionID, seller, models.TrackingInfo{Carrier: "CJ", TrackingNumber: "123"})
	require.NoError(t, err)
	tx, err = f.service.MarkDelivered(ctx, tx.TransactionID, seller)
	require.NoError(t, err)
	return tx
}

func (f *escrowFixture) status(t *testing.T, id string) models.EscrowStatus {
	t.Helper()
	tx, err := f.repo.GetTransaction(context.Background(), id)
	require.NoError(t, err)
	return tx.Status
}

func TestEscrowService_CreateTransaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   CreateTransactionInput
		wantErr error
	}{
		{
			name:  "Success",
			input: CreateTransactionInput{OrderID: "o1", BuyerID: buyer, SellerID: seller, ProductID: "p1", Amount: 100000},
		},
		{
			name:    "MissingBuyer",
			input:   CreateTransactionInput{OrderID: "o1", SellerID: seller, ProductID: "p1", Amount: 100000},
			wantErr: marketerrors.ErrInvalidInput,
		},
		{
			name:    "BuyerIsSeller",
			input:   CreateTransactionInput{OrderID: "o1", BuyerID: seller, SellerID: seller, ProductID: "p1", Amount: 100000},
			wantErr: marketerrors.ErrInvalidInput,
		},
		{
			name:    "ZeroAmount",
			input:   CreateTransactionInput{OrderID: "o1", BuyerID: buyer, SellerID: seller, ProductID: "p1"},
			wantErr: marketerrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newEscrowFixture(t)

			tx, err := f.service.CreateTransaction(context.Background(), tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, models.EscrowPaymentPending, tx.Status)
			require.Equal(t, int64(7000), tx.Fee)
			require.Equal(t, int64(93000), tx.NetAmount)
			require.Equal(t, testNow.Add(24*time.Hour), tx.PaymentDueAt)
		})
	}
}

func TestEscrowService_DuplicateOrder(t *testing.T) {
	t.Parallel()
	f := newEscrowFixture(t)
	f.create(t, "o1")

	_, err := f.service.CreateTransaction(context.Background(), CreateTransactionInput{
		OrderID: "o1", BuyerID: "buyer-2", SellerID: seller, ProductID: "p1", Amount: 1000,
	})
	require.ErrorIs(t, err, marketerrors.ErrDuplicateData)
}

func TestEscrowService_AuctionOrderIDsAreReserved(t *testing.T) {
	t.Parallel()
	f := newEscrowFixture(t)
	ctx := context.Background()
	orderID := models.AuctionOrderID("auction-1")

	_, err := f.service.CreateTransaction(ctx, CreateTransactionInput{
		OrderID: orderID, BuyerID: "someone-else", SellerID: seller, ProductID: "auction-1", Amount: 1,
	})
	require.ErrorIs(t, err, marketerrors.ErrInvalidInput)

	_, err = f.service.OpenEscrow(ctx, "o1", buyer, seller, "auction-1", 20000)
	require.ErrorIs(t, err, marketerrors.ErrInvalidInput)

	tx, err := f.service.OpenEscrow(ctx, orderID, buyer, seller, "auction-1", 20000)
	require.NoError(t, err)
	require.Equal(t, buyer, tx.BuyerID)
	require.Equal(t, int64(20000), tx.Amount)
}

func TestEscrowService_OpenEscrowIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newEscrowFixture(t)
	ctx := context.Background()
	orderID := models.AuctionOrderID("auction-1")

	first, err := f.service.OpenEscrow(ctx, orderID, buyer, seller, "auction-1", 20000)
	require.NoError(t, err)

	again, err := f.service.OpenEscrow(ctx, orderID, buyer, seller, "auction-1", 20000)
	require.NoError(t, err)
	require.Equal(t, first.TransactionID, again.TransactionID)

	tests := []struct {
		name   string
		buyer  string
		amount int64
	}{
		{name: "other_buyer", buyer: "buyer-2", amount: 20000},
		{name: "other_amount", buyer: buyer, amount: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.OpenEscrow(ctx, orderID, tt.buyer, seller, "auction-1", tt.amount)
			require.ErrorIs(t, err, marketerrors.ErrDuplicateData)
		})
	}

	txs, err := f.repo.ListTransactionsByUser(ctx, seller)
	require.NoError(t, err)
	require.Len(t, txs, 1)
}

func TestEscrowService_HappyPath(t *testing.T) {
	t.Parallel()
	f := newEscrowFixture(t)
	ctx := context.Background()
	tx := f.create(t, "o1")

	paid, err := f.service.ConfirmPayment(ctx, tx.TransactionID, buyer)
	require.NoError(t, err)
	require.Equal(t, models.EscrowPaid, paid.Status)
	require.NotNil(t, paid.ShipByAt)
	require.Equal(t, testNow.Add(72*time.Hour), *paid.ShipByAt)

	shipped, err := f.service.MarkShipped(ctx, tx.TransactionID, seller, models.TrackingInfo{Carrier: "CJ", TrackingNumber: "123"})
	require.NoError(t, err)
	require.Equal(t, models.EscrowShipped, shipped.Status)

	f.clock.Advance(48 * time.Hour)
	delivered, err := f.service.MarkDelivered(ctx, tx.TransactionID, buyer)
	require.NoError(t, err)
	require.Equal(t, testNow.Add(48*time.Hour+168*time.Hour), *delivered.AutoConfirmAt)

	rating := 5
	done, err := f.service.ConfirmPurchase(ctx, tx.TransactionID, buyer, ConfirmPurchaseInput{Rating: &rating, Review: "great"})
	require.NoError(t, err)
	require.Equal(t, models.EscrowCompleted, done.Status)
	require.NotNil(t, done.ConfirmationType)
	require.Equal(t, models.ConfirmationManual, *done.ConfirmationType)
	require.NotNil(t, done.CompletedAt)

	require.Len(t, f.events.ofType(models.EventPaymentConfirmed), 1)
	require.Len(t, f.events.ofType(models.EventItemShipped), 1)
	require.Len(t, f.events.ofType(models.EventItemDelivered), 1)
	confirmed := f.events.ofType(models.EventPurchaseConfirmed)
	require.Len(t, confirmed, 1)
	require.Equal(t, seller, confirmed[0].RecipientID)
}

func TestEscrowService_IllegalTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		call    func(s *EscrowService, id string) error
		wantErr error
	}{
		{
			name: "ShipBeforePayment",
			call: func(s *EscrowService, id string) error {
				_, err := s.MarkShipped(context.Background(), id, seller, models.TrackingInfo{Carrier: "CJ", TrackingNumber: "1"})
				return err
			},
			wantErr: marketerrors.ErrInvalidStateTransition,
		},
		{
			name: "DeliverBeforePayment",
			call: func(s *EscrowService, id string) error {
				_, err := s.MarkDelivered(context.Background(), id, buyer)
				return err
			},
			wantErr: marketerrors.ErrInvalidStateTransition,
		},
		{
			name: "ConfirmBeforeDelivery",
			call: func(s *EscrowService, id string) error {
				_, err := s.ConfirmPurchase(context.Background(), id, buyer, ConfirmPurchaseInput{})
				return err
			},
			wantErr: marketerrors.ErrInvalidStateTransition,
		},
		{
			name: "DisputeBeforePayment",
			call: func(s *EscrowService, id string) error {
				_, err := s.OpenDispute(context.Background(), id, buyer, OpenDisputeInput{Reason: "late"})
				return err
			},
			wantErr: marketerrors.ErrInvalidStateTransition,
		},
		{
			name: "SellerConfirmsPayment",
			call: func(s *EscrowService, id string) error {
				_, err := s.ConfirmPayment(context.Background(), id, seller)
				return err
			},
			wantErr: marketerrors.ErrPermissionDenied,
		},
		{
			name: "StrangerConfirmsPayment",
			call: func(s *EscrowService, id string) error {
				_, err := s.ConfirmPayment(context.Background(), id, "stranger")
				return err
			},
			wantErr: marketerrors.ErrPermissionDenied,
		},
		{
			name: "UnknownTransaction",
			call: func(s *EscrowService, _ string) error {
				_, err := s.ConfirmPayment(context.Background(), "missing", buyer)
				return err
			},
			wantErr: marketerrors.ErrTransactionNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newEscrowFixture(t)
			tx := f.create(t, "o1")

			err := tt.call(f.service, tx.TransactionID)
			require.ErrorIs(t, err, tt.wantErr)
			require.Equal(t, models.EscrowPaymentPending, f.status(t, tx.TransactionID))
		})
	}
}

func TestEscrowService_MarkShippedRequiresTracking(t *testing.T) {
	t.Parallel()
	f := newEscrowFixture(t)
	tx := f.create(t, "o1")
	_, err := f.service.ConfirmPayment(context.Background(), tx.TransactionID, buyer)
	require.NoError(t, err)

	_, err = f.service.MarkShipped(context.Background(), tx.TransactionID, seller, models.TrackingInfo{Carrier: "CJ"})
	require.ErrorIs(t, err, marketerrors.ErrInvalidInput)
	require.Equal(t, models.EscrowPaid, f.status(t, tx.TransactionID))
}

func TestEscrowService_ConfirmPurchaseRating(t *testing.T) {
	t.Parallel()
	f := newEscrowFixture(t)
	tx := f.delivered(t, "o1")

	rating := 6
	_, err := f.service.ConfirmPurchase(context.Background(), tx.TransactionID, buyer, ConfirmPurchaseInput{Rating: &rating})
	require.ErrorIs(t, err, marketerrors.ErrInvalidInput)
	require.Equal(t, models.EscrowDelivered, f.status(t, tx.TransactionID))
}

func TestEscrowService_ConfirmPurchaseRetryAfterFailedWrite(t *testing.T) {
	t.Parallel()
	repo := repository.NewMemoryRepo()
	store := &flakyStore{MemoryRepo: repo}
	f := newEscrowFixtureOn(t, repo, store)
	ctx := context.Background()
	tx := f.delivered(t, "o1")

	store.failUpdates = 1
	_, err := f.service.ConfirmPurchase(ctx, tx.TransactionID, buyer, ConfirmPurchaseInput{Review: "first"})
	require.ErrorIs(t, err, marketerrors.ErrDatabase)
	require.Equal(t, models.EscrowDelivered, f.status(t, tx.TransactionID))

	done, err := f.service.ConfirmPurchase(ctx, tx.TransactionID, buyer, ConfirmPurchaseInput{Review: "second"})
	require.NoError(t, err)
	require.Equal(t, models.EscrowCompleted, done.Status)

	c, ok := repo.GetConfirmation(tx.TransactionID)
	require.True(t, ok)
	require.Equal(t, "second", c.Review)
}

func TestEscrowService_TransitionMetrics(t *testing.T) {
	t.Parallel()
	f := newEscrowFixture(t)
	ctx := context.Background()
	count := func(to models.EscrowStatus) float64 {
		return testutil.ToFloat64(f.metrics.EscrowTransitions.WithLabelValues(string(to)))
	}

	manual := f.delivered(t, "o1")
	_, err := f.service.ConfirmPurchase(ctx, manual.TransactionID, buyer, ConfirmPurchaseInput{})
	require.NoError(t, err)
	require.Equal(t, 1.0, count(models.EscrowConfirmed))
	require.Equal(t, 1.0, count(models.EscrowCompleted))

	f.delivered(t, "o2")
	f.clock.Advance(8 * 24 * time.Hour)
	_, err = f.service.AutoConfirmExpiredTransactions(ctx)
	require.NoError(t, err)
	require.Equal(t, 2.0, count(models.EscrowConfirmed))
	require.Equal(t, 2.0, count(models.EscrowCompleted))
	require.Equal(t, 2.0, count(models.EscrowDelivered))
}

func TestEscrowService_AutoConfirm(t *testing.T) {
	t.Parallel()
	f := newEscrowFixture(t)
	ctx := context.Background()
	tx := f.delivered(t, "o1")

	f.clock.Advance(6 * 24 * time.Hour)
	res, err := f.service.AutoConfirmExpiredTransactions(ctx)
	require.NoError(t, err)
	require.Equal(t, models.SweepResult{}, res)
	require.Equal(t, models.EscrowDelivered, f.status(t, tx.TransactionID))

	f.clock.Advance(2 * 24 * time.Hour)
	res, err = f.service.AutoConfirmExpiredTransactions(ctx)
	require.NoError(t, err)
	require.Equal(t, models.SweepResult{Processed: 1, Succeeded: 1}, res)

	got, err := f.repo.GetTransaction(ctx, tx.TransactionID)
	require.NoError(t, err)
	require.Equal(t, models.EscrowCompleted, got.Status)
	require.Equal(t, models.ConfirmationAuto, *got.ConfirmationType)
	require.Len(t, f.events.ofType(models.EventPurchaseConfirmed), 2)

	t.Run("SecondRunIsNoop", func(t *testing.T) {
		res, err := f.service.AutoConfirmExpiredTransactions(ctx)
		require.NoError(t, err)
		require.Equal(t, models.SweepResult{}, res)
		require.Len(t, f.events.ofType(models.EventPurchaseConfirmed), 2)
	})
}

func TestEscrowService_DisputeBlocksAutoConfirm(t *testing.T) {
	t.Parallel()
	f := newEscrowFixture(t)
	ctx := context.Background()
	tx := f.delivered(t, "o1")

	disputed, err := f.service.OpenDispute(ctx, tx.TransactionID, buyer, OpenDisputeInput{Reason: "broken", Evidence: []string{"photo.jpg"}})
	require.NoError(t, err)
	require.Equal(t, models.EscrowDisputed, disputed.Status)
	opened := f.events.ofType(models.EventDisputeOpened)
	require.Len(t, opened, 1)
	require.Equal(t, seller, opened[0].RecipientID)

	f.clock.Advance(30 * 24 * time.Hour)
	res, err := f.service.AutoConfirmExpiredTransactions(ctx)
	require.NoError(t, err)
	require.Zero(t, res.Processed)
	require.Equal(t, models.EscrowDisputed, f.status(t, tx.TransactionID))

	_, err = f.service.ConfirmPurchase(ctx, tx.TransactionID, buyer, ConfirmPurchaseInput{})
	require.ErrorIs(t, err, marketerrors.ErrInvalidStateTransition)
}

func TestEscrowService_ResolveDispute(t *testing.T) {
	t.Parallel()

	amount := func(v int64) *int64 { return &v }

	tests := []struct {
		name       string
		isAdmin    bool
		input      ResolveDisputeInput
		wantStatus models.EscrowStatus
		wantRefund int64
		wantErr    error
	}{
		{
			name:       "Refund",
			isAdmin:    true,
			input:      ResolveDisputeInput{Resolution: models.ResolutionRefund},
			wantStatus: models.EscrowRefunded,
			wantRefund: 100000,
		},
		{
			name:       "PartialRefund",
			isAdmin:    true,
			input:      ResolveDisputeInput{Resolution: models.ResolutionPartialRefund, Amount: amount(30000)},
			wantStatus: models.EscrowRefunded,
			wantRefund: 30000,
		},
		{
			name:       "Exchange",
			isAdmin:    true,
			input:      ResolveDisputeInput{Resolution: models.ResolutionExchange},
			wantStatus: models.EscrowCompleted,
		},
		{
			name:       "NoAction",
			isAdmin:    true,
			input:      ResolveDisputeInput{Resolution: models.ResolutionNoAction, Notes: "seller was right"},
			wantStatus: models.EscrowCompleted,
		},
		{
			name:    "PartialRefundOfFullAmount",
			isAdmin: true,
			input:   ResolveDisputeInput{Resolution: models.ResolutionPartialRefund, Amount: amount(100000)},
			wantErr: marketerrors.ErrInvalidInput,
		},
		{
			name:    "PartialRefundWithoutAmount",
			isAdmin: true,
			input:   ResolveDisputeInput{Resolution: models.ResolutionPartialRefund},
			wantErr: marketerrors.ErrInvalidInput,
		},
		{
			name:    "UnknownResolution",
			isAdmin: true,
			input:   ResolveDisputeInput{Resolution: "burn_it"},
			wantErr: marketerrors.ErrInvalidInput,
		},
		{
			name:    "NotAdmin",
			input:   ResolveDisputeInput{Resolution: models.ResolutionRefund},
			wantErr: marketerrors.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newEscrowFixture(t)
			ctx := context.Background()
			tx := f.delivered(t, "o1")
			_, err := f.service.OpenDispute(ctx, tx.TransactionID, seller, OpenDisputeInput{Reason: "buyer claims damage"})
			require.NoError(t, err)

			got, err := f.service.ResolveDispute(ctx, tx.TransactionID, admin, tt.isAdmin, tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, models.EscrowDisputed, f.status(t, tx.TransactionID))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, got.Status)
			require.Equal(t, tt.wantRefund, got.RefundAmount)
			require.Equal(t, tt.input.Resolution, *got.Dispute.Resolution)
			require.Equal(t, admin, got.Dispute.ResolvedBy)
			require.Len(t, f.events.ofType(models.EventDisputeResolved), 2)
			require.True(t, got.Status.IsTerminal())
		})
	}
}

func TestEscrowService_ResolveWithoutDispute(t *testing.T) {
	t.Parallel()
	f := newEscrowFixture(t)
	tx := f.delivered(t, "o1")

	_, err := f.service.ResolveDispute(context.Background(), tx.TransactionID, admin, true, ResolveDisputeInput{Resolution: models.ResolutionRefund})
	require.ErrorIs(t, err, marketerrors.ErrInvalidStateTransition)
	require.Equal(t, models.EscrowDelivered, f.status(t, tx.TransactionID))
}

func TestEscrowService_FlagOverdueShipments(t *testing.T) {
	t.Parallel()
	f := newEscrowFixture(t)
	ctx := context.Background()
	tx := f.create(t, "o1")
	_, err := f.service.ConfirmPayment(ctx, tx.TransactionID, buyer)
	require.NoError(t, err)

	f.clock.Advance(71 * time.Hour)
	res, err := f.service.FlagOverdueShipments(ctx)
	require.NoError(t, err)
	require.Zero(t, res.Processed)

	f.clock.Advance(2 * time.Hour)
	res, err = f.service.FlagOverdueShipments(ctx)
	require.NoError(t, err)
	require.Equal(t, models.SweepResult{Processed: 1, Succeeded: 1}, res)
	require.Len(t, f.events.ofType(models.EventShippingOverdue), 2)

	res, err = f.service.FlagOverdueShipments(ctx)
	require.NoError(t, err)
	require.Zero(t, res.Processed)
	require.Len(t, f.events.ofType(models.EventShippingOverdue), 2)
}

func TestEscrowService_FlagOverduePayments(t *testing.T) {
	t.Parallel()

	t.Run("RecordsOffenseOnce", func(t *testing.T) {
		t.Parallel()
		f := newEscrowFixture(t)
		ctx := context.Background()
		tx := f.create(t, "o1")
		paid := f.create(t, "o2")
		_, err := f.service.ConfirmPayment(ctx, paid.TransactionID, buyer)
		require.NoError(t, err)

		f.clock.Advance(25 * time.Hour)
		res, err := f.service.FlagOverduePayments(ctx)
		require.NoError(t, err)
		require.Equal(t, models.SweepResult{Processed: 1, Succeeded: 1}, res)
		require.Equal(t, []string{buyer}, f.offenses.users)

		got, err := f.repo.GetTransaction(ctx, tx.TransactionID)
		require.NoError(t, err)
		require.True(t, got.PaymentOverdueNotified)
		require.Equal(t, models.EscrowPaymentPending, got.Status)

		res, err = f.service.FlagOverduePayments(ctx)
		require.NoError(t, err)
		require.Zero(t, res.Processed)
		require.Len(t, f.offenses.users, 1)
		require.Len(t, f.events.ofType(models.EventPaymentOverdue), 2)
	})

	t.Run("FailureLeavesRecordForRetry", func(t *testing.T) {
		t.Parallel()
		f := newEscrowFixture(t)
		ctx := context.Background()
		tx := f.create(t, "o1")
		f.offenses.err = fmt.Errorf("record offense: %w", marketerrors.ErrDatabase)

		f.clock.Advance(25 * time.Hour)
		res, err := f.service.FlagOverduePayments(ctx)
		require.NoError(t, err)
		require.Equal(t, models.SweepResult{Processed: 1, Failed: 1}, res)

		got, err := f.repo.GetTransaction(ctx, tx.TransactionID)
		require.NoError(t, err)
		require.False(t, got.PaymentOverdueNotified)
		require.Empty(t, f.events.ofType(models.EventPaymentOverdue))
	})
}

func TestEscrowService_GetTransaction(t *testing.T) {
	t.Parallel()
	f := newEscrowFixture(t)
	ctx := context.Background()
	tx := f.create(t, "o1")

	for _, actor := range []string{buyer, seller} {
		got, err := f.service.GetTransaction(ctx, tx.TransactionID, actor, false)
		require.NoError(t, err)
		require.Equal(t, tx.TransactionID, got.TransactionID)
	}

	_, err := f.service.GetTransaction(ctx, tx.TransactionID, "stranger", false)
	require.ErrorIs(t, err, marketerrors.ErrPermissionDenied)

	_, err = f.service.GetTransaction(ctx, tx.TransactionID, admin, true)
	require.NoError(t, err)

	list, err := f.service.ListTransactionsForUser(ctx, seller)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestEscrowService_ConcurrentConfirmPayment(t *testing.T) {
	t.Parallel()
	f := newEscrowFixture(t)
	tx := f.create(t, "o1")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.ConfirmPayment(context.Background(), tx.TransactionID, buyer); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, accepted)
	require.Len(t, f.events.ofType(models.EventPaymentConfirmed), 1)
}

func TestEscrowService_StoreErrors(t *testing.T) {
	t.Parallel()

	t.Run("UpdateFailureIsWrapped", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		repo := repository.NewMockEscrowDB(ctrl)
		events := &recordedEvents{}
		svc := NewEscrowService(repo, testCalculator(t), config.DefaultPolicy().Escrow,
			WithClock(clock.NewManual(testNow)), WithEmitter(events))

		tx := models.EscrowTransaction{TransactionID: "tx1", BuyerID: buyer, SellerID: seller, Status: models.EscrowPaymentPending}
		repo.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
		repo.EXPECT().GetTransactionForUpdate(gomock.Any(), "tx1").Return(tx, nil)
		repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(marketerrors.ErrDatabase)

		_, err := svc.ConfirmPayment(context.Background(), "tx1", buyer)
		require.ErrorIs(t, err, marketerrors.ErrDatabase)
		require.Empty(t, events.events)
	})

	t.Run("ListFailureAbortsSweep", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		repo := repository.NewMockEscrowDB(ctrl)
		svc := NewEscrowService(repo, testCalculator(t), config.DefaultPolicy().Escrow)

		boom := errors.New("connection reset")
		repo.EXPECT().ListTransactionsByStatus(gomock.Any(), models.EscrowDelivered).Return(nil, boom)

		_, err := svc.AutoConfirmExpiredTransactions(context.Background())
		require.ErrorIs(t, err, boom)
	})

	t.Run("EmptyIDNeverReachesStore", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		repo := repository.NewMockEscrowDB(ctrl)
		svc := NewEscrowService(repo, testCalculator(t), config.DefaultPolicy().Escrow)

		_, err := svc.MarkDelivered(context.Background(), "", buyer)
		require.ErrorIs(t, err, marketerrors.ErrInvalidInput)
	})
}
