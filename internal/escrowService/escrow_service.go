package escrow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketai/internal/clock"
	"marketai/internal/config"
	"marketai/internal/events"
	"marketai/internal/fees"
	"marketai/internal/marketerrors"
	"marketai/internal/metrics"
	"marketai/internal/models"
	"marketai/internal/repository"
	"marketai/utils"
)

// OffenseRecorder records penalties for buyers who never pay
type OffenseRecorder interface {
	RecordOffense(ctx context.Context, userID string, offense models.OffenseType) (models.PenaltyRecord, error)
}

// EscrowService drives escrow transactions through the payment, shipping and
// confirmation states. Every transition is a locked read-check-write.
type EscrowService struct {
	repo     repository.EscrowDB
	fees     *fees.Calculator
	policy   config.EscrowPolicy
	clock    clock.Clock
	events   events.Emitter
	offenses OffenseRecorder
	metrics  *metrics.Metrics
}

type Option func(*EscrowService)

func WithClock(c clock.Clock) Option {
	return func(s *EscrowService) { s.clock = c }
}

func WithEmitter(e events.Emitter) Option {
	return func(s *EscrowService) { s.events = e }
}

func WithOffenseRecorder(r OffenseRecorder) Option {
	return func(s *EscrowService) { s.offenses = r }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *EscrowService) { s.metrics = m }
}

// NewEscrowService creates a new EscrowService instance
func NewEscrowService(repo repository.EscrowDB, calc *fees.Calculator, policy config.EscrowPolicy, opts ...Option) *EscrowService {
	s := &EscrowService{
		repo:   repo,
		fees:   calc,
		policy: policy,
		clock:  clock.NewSystem(),
		events: events.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTransactionInput describes a purchase entering escrow
type CreateTransactionInput struct {
	OrderID   string
	BuyerID   string
	SellerID  string
	ProductID string
	Amount    int64
}

// CreateTransaction opens an escrow transaction awaiting payment for a direct purchase.
// Order IDs reserved for auction settlement are rejected.
func (s *EscrowService) CreateTransaction(ctx context.Context, in CreateTransactionInput) (models.EscrowTransaction, error) {
	if models.IsAuctionOrderID(in.OrderID) {
		return models.EscrowTransaction{}, fmt.Errorf("service: %w - order ID prefix %q is reserved", marketerrors.ErrInvalidInput, models.AuctionOrderPrefix)
	}
	return s.create(ctx, in)
}

func (s *EscrowService) create(ctx context.Context, in CreateTransactionInput) (models.EscrowTransaction, error) {
	switch {
	case in.OrderID == "" || in.BuyerID == "" || in.SellerID == "" || in.ProductID == "":
		return models.EscrowTransaction{}, fmt.Errorf("service: %w - missing order, buyer, seller or product ID", marketerrors.ErrInvalidInput)
	case in.BuyerID == in.SellerID:
		return models.EscrowTransaction{}, fmt.Errorf("service: %w - buyer and seller must differ", marketerrors.ErrInvalidInput)
	case in.Amount <= 0:
		return models.EscrowTransaction{}, fmt.Errorf("service: %w - amount must be positive", marketerrors.ErrInvalidInput)
	}

	quote, err := s.fees.Calculate(in.Amount)
	if err != nil {
		return models.EscrowTransaction{}, fmt.Errorf("service: failed to calculate fee: %w", err)
	}

	now := s.clock.Now()
	tx := models.EscrowTransaction{
		TransactionID: utils.GenerateID(),
		OrderID:       in.OrderID,
		BuyerID:       in.BuyerID,
		SellerID:      in.SellerID,
		ProductID:     in.ProductID,
		Amount:        in.Amount,
		Fee:           quote.Fee,
		FeeRate:       quote.FeeRate,
		NetAmount:     quote.NetAmount,
		Status:        models.EscrowPaymentPending,
		PaymentDueAt:  now.Add(s.policy.PaymentDeadline),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return models.EscrowTransaction{}, fmt.Errorf("service: failed to create escrow for order %s: %w", in.OrderID, err)
	}
	s.metrics.ObserveTransition(string(models.EscrowPaymentPending))
	return tx, nil
}

// OpenEscrow opens the transaction for a won auction. When the order already exists it is
// returned if it records the same sale; any other holder of the order ID is an error.
func (s *EscrowService) OpenEscrow(ctx context.Context, orderID, buyerID, sellerID, productID string, amount int64) (models.EscrowTransaction, error) {
	if !models.IsAuctionOrderID(orderID) {
		return models.EscrowTransaction{}, fmt.Errorf("service: %w - %s is not an auction order ID", marketerrors.ErrInvalidInput, orderID)
	}

	existing, err := s.repo.GetTransactionByOrderID(ctx, orderID)
	switch {
	case err == nil:
		if !existing.SameSale(buyerID, sellerID, productID, amount) {
			return models.EscrowTransaction{}, fmt.Errorf("service: %w - order %s records a different sale", marketerrors.ErrDuplicateData, orderID)
		}
		utils.Info("service: escrow already opened for order", map[string]any{
			"order_id":       orderID,
			"transaction_id": existing.TransactionID,
		})
		return existing, nil
	case !errors.Is(err, marketerrors.ErrTransactionNotFound):
		return models.EscrowTransaction{}, fmt.Errorf("service: failed to look up order %s: %w", orderID, err)
	}

	return s.create(ctx, CreateTransactionInput{
		OrderID:   orderID,
		BuyerID:   buyerID,
		SellerID:  sellerID,
		ProductID: productID,
		Amount:    amount,
	})
}

type authorizeFunc func(tx models.EscrowTransaction) error
type mutateFunc func(tx *models.EscrowTransaction, now time.Time) error

// transition loads the transaction under lock, checks the actor and the state graph, applies
// mutate and persists the result. Nothing is written when any check fails.
func (s *EscrowService) transition(ctx context.Context, transactionID string, to models.EscrowStatus, authorize authorizeFunc, mutate mutateFunc) (models.EscrowTransaction, error) {
	if transactionID == "" {
		return models.EscrowTransaction{}, fmt.Errorf("service: %w - empty transaction ID", marketerrors.ErrInvalidInput)
	}

	var out models.EscrowTransaction
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		tx, err := s.repo.GetTransactionForUpdate(ctx, transactionID)
		if err != nil {
			return fmt.Errorf("service: failed to load escrow %s: %w", transactionID, err)
		}
		if err := authorize(tx); err != nil {
			return err
		}
		if !tx.Status.CanTransitionTo(to) {
			return fmt.Errorf("service: %w - cannot move escrow %s from %s to %s",
				marketerrors.ErrInvalidStateTransition, transactionID, tx.Status, to)
		}

		now := s.clock.Now()
		tx.Status = to
		tx.UpdatedAt = now
		if mutate != nil {
			if err := mutate(&tx, now); err != nil {
				return err
			}
		}

		if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
			return fmt.Errorf("service: failed to update escrow %s: %w", transactionID, err)
		}
		out = tx
		return nil
	})
	if err != nil {
		return models.EscrowTransaction{}, err
	}

	s.metrics.ObserveTransition(string(out.Status))
	return out, nil
}

func buyerOnly(actorID string) authorizeFunc {
	return func(tx models.EscrowTransaction) error {
		if actorID != tx.BuyerID {
			return fmt.Errorf("service: %w - only the buyer can do this", marketerrors.ErrPermissionDenied)
		}
		return nil
	}
}

func sellerOnly(actorID string) authorizeFunc {
	return func(tx models.EscrowTransaction) error {
		if actorID != tx.SellerID {
			return fmt.Errorf("service: %w - only the seller can do this", marketerrors.ErrPermissionDenied)
		}
		return nil
	}
}

func partiesOnly(actorID string) authorizeFunc {
	return func(tx models.EscrowTransaction) error {
		if !tx.IsParty(actorID) {
			return fmt.Errorf("service: %w - user %s is not a party to this transaction", marketerrors.ErrPermissionDenied, actorID)
		}
		return nil
	}
}

// ConfirmPayment moves a transaction from payment_pending to paid and starts the shipping SLA
func (s *EscrowService) ConfirmPayment(ctx context.Context, transactionID, actorID string) (models.EscrowTransaction, error) {
	tx, err := s.transition(ctx, transactionID, models.EscrowPaid, buyerOnly(actorID), func(tx *models.EscrowTransaction, now time.Time) error {
		shipBy := now.Add(s.policy.ShippingSLA)
		tx.PaidAt = &now
		tx.ShipByAt = &shipBy
		return nil
	})
	if err != nil {
		return models.EscrowTransaction{}, err
	}

	s.notify(ctx, models.EventPaymentConfirmed, tx, map[string]any{"ship_by_at": tx.ShipByAt}, tx.SellerID)
	return tx, nil
}

// MarkShipped records the shipment of a paid transaction
func (s *EscrowService) MarkShipped(ctx context.Context, transactionID, actorID string, tracking models.TrackingInfo) (models.EscrowTransaction, error) {
	if tracking.Carrier == "" || tracking.TrackingNumber == "" {
		return models.EscrowTransaction{}, fmt.Errorf("service: %w - carrier and tracking number are required", marketerrors.ErrInvalidInput)
	}

	tx, err := s.transition(ctx, transactionID, models.EscrowShipped, sellerOnly(actorID), func(tx *models.EscrowTransaction, now time.Time) error {
		tx.ShippedAt = &now
		tx.Tracking = &tracking
		return nil
	})
	if err != nil {
		return models.EscrowTransaction{}, err
	}

	s.notify(ctx, models.EventItemShipped, tx, map[string]any{
		"carrier":         tracking.Carrier,
		"tracking_number": tracking.TrackingNumber,
	}, tx.BuyerID)
	return tx, nil
}

// MarkDelivered records delivery and sets the auto-confirm deadline
func (s *EscrowService) MarkDelivered(ctx context.Context, transactionID, actorID string) (models.EscrowTransaction, error) {
	tx, err := s.transition(ctx, transactionID, models.EscrowDelivered, partiesOnly(actorID), func(tx *models.EscrowTransaction, now time.Time) error {
		autoConfirm := now.Add(s.policy.AutoConfirmWindow)
		tx.DeliveredAt = &now
		tx.AutoConfirmAt = &autoConfirm
		return nil
	})
	if err != nil {
		return models.EscrowTransaction{}, err
	}

	s.notify(ctx, models.EventItemDelivered, tx, map[string]any{"auto_confirm_at": tx.AutoConfirmAt}, tx.BuyerID)
	return tx, nil
}

// ConfirmPurchaseInput is the buyer's optional feedback
type ConfirmPurchaseInput struct {
	Rating *int
	Review string
}

// ConfirmPurchase is the buyer's manual confirmation: delivered -> confirmed -> completed
func (s *EscrowService) ConfirmPurchase(ctx context.Context, transactionID, actorID string, in ConfirmPurchaseInput) (models.EscrowTransaction, error) {
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return models.EscrowTransaction{}, fmt.Errorf("service: %w - rating must be between 1 and 5", marketerrors.ErrInvalidInput)
	}

	tx, err := s.transition(ctx, transactionID, models.EscrowConfirmed, buyerOnly(actorID), func(tx *models.EscrowTransaction, now time.Time) error {
		return s.complete(ctx, tx, now, models.ConfirmationManual, in)
	})
	if err != nil {
		return models.EscrowTransaction{}, err
	}
	// transition counted the final completed state
	s.metrics.ObserveTransition(string(models.EscrowConfirmed))

	s.notify(ctx, models.EventPurchaseConfirmed, tx, map[string]any{
		"confirmation_type": models.ConfirmationManual,
		"net_amount":        tx.NetAmount,
	}, tx.SellerID)
	return tx, nil
}

// complete records the confirmation and releases the funds (confirmed -> completed)
func (s *EscrowService) complete(ctx context.Context, tx *models.EscrowTransaction, now time.Time, kind models.ConfirmationType, in ConfirmPurchaseInput) error {
	if !tx.Status.CanTransitionTo(models.EscrowCompleted) {
		return fmt.Errorf("service: %w - cannot complete escrow %s from %s", marketerrors.ErrInvalidStateTransition, tx.TransactionID, tx.Status)
	}

	confirmation := models.PurchaseConfirmation{
		TransactionID:    tx.TransactionID,
		BuyerID:          tx.BuyerID,
		ConfirmationType: kind,
		Rating:           in.Rating,
		Review:           in.Review,
		ConfirmedAt:      now,
	}
	if err := s.repo.RecordConfirmation(ctx, confirmation); err != nil {
		return fmt.Errorf("service: failed to record confirmation for escrow %s: %w", tx.TransactionID, err)
	}

	tx.ConfirmedAt = &now
	tx.ConfirmationType = &kind
	tx.Status = models.EscrowCompleted
	tx.CompletedAt = &now
	return nil
}

// OpenDisputeInput describes a dispute raised by a party
type OpenDisputeInput struct {
	Reason   string
	Evidence []string
}

// OpenDispute moves a funded transaction into disputed, which stops auto-confirmation
func (s *EscrowService) OpenDispute(ctx context.Context, transactionID, actorID string, in OpenDisputeInput) (models.EscrowTransaction, error) {
	if in.Reason == "" {
		return models.EscrowTransaction{}, fmt.Errorf("service: %w - dispute reason is required", marketerrors.ErrInvalidInput)
	}

	tx, err := s.transition(ctx, transactionID, models.EscrowDisputed, partiesOnly(actorID), func(tx *models.EscrowTransaction, now time.Time) error {
		tx.Dispute = &models.Dispute{
			OpenedBy: actorID,
			Reason:   in.Reason,
			Evidence: append([]string(nil), in.Evidence...),
			OpenedAt: now,
		}
		return nil
	})
	if err != nil {
		return models.EscrowTransaction{}, err
	}

	counterparty := tx.SellerID
	if actorID == tx.SellerID {
		counterparty = tx.BuyerID
	}
	s.notify(ctx, models.EventDisputeOpened, tx, map[string]any{
		"opened_by": actorID,
		"reason":    in.Reason,
	}, counterparty)
	return tx, nil
}

// ResolveDisputeInput is an administrator's ruling on a dispute
type ResolveDisputeInput struct {
	Resolution models.ResolutionType
	Amount     *int64
	Notes      string
}

// ResolveDispute closes a dispute. Refunds end in refunded; exchange and no_action complete the sale.
func (s *EscrowService) ResolveDispute(ctx context.Context, transactionID, actorID string, isAdmin bool, in ResolveDisputeInput) (models.EscrowTransaction, error) {
	if !in.Resolution.Valid() {
		return models.EscrowTransaction{}, fmt.Errorf("service: %w - unknown resolution type %q", marketerrors.ErrInvalidInput, in.Resolution)
	}

	to := models.EscrowCompleted
	if in.Resolution == models.ResolutionRefund || in.Resolution == models.ResolutionPartialRefund {
		to = models.EscrowRefunded
	}

	authorize := func(models.EscrowTransaction) error {
		if !isAdmin {
			return fmt.Errorf("service: %w - only administrators can resolve disputes", marketerrors.ErrPermissionDenied)
		}
		return nil
	}

	tx, err := s.transition(ctx, transactionID, to, authorize, func(tx *models.EscrowTransaction, now time.Time) error {
		if tx.Dispute == nil {
			return fmt.Errorf("service: %w - escrow %s has no dispute", marketerrors.ErrInvalidStateTransition, tx.TransactionID)
		}

		var refund int64
		switch in.Resolution {
		case models.ResolutionRefund:
			refund = tx.Amount
		case models.ResolutionPartialRefund:
			if in.Amount == nil || *in.Amount <= 0 || *in.Amount >= tx.Amount {
				return fmt.Errorf("service: %w - partial refund must be between 0 and %d exclusive", marketerrors.ErrInvalidInput, tx.Amount)
			}
			refund = *in.Amount
		}

		resolution := in.Resolution
		tx.Dispute.Resolution = &resolution
		tx.Dispute.ResolutionNotes = in.Notes
		tx.Dispute.ResolvedBy = actorID
		tx.Dispute.ResolvedAt = &now
		if refund > 0 {
			tx.Dispute.ResolutionAmount = &refund
			tx.RefundAmount = refund
			tx.RefundedAt = &now
		} else {
			tx.CompletedAt = &now
		}
		return nil
	})
	if err != nil {
		return models.EscrowTransaction{}, err
	}

	s.notify(ctx, models.EventDisputeResolved, tx, map[string]any{
		"resolution":    in.Resolution,
		"refund_amount": tx.RefundAmount,
	}, tx.BuyerID, tx.SellerID)
	return tx, nil
}

// GetTransaction returns a transaction to one of its parties or an administrator
func (s *EscrowService) GetTransaction(ctx context.Context, transactionID, actorID string, isAdmin bool) (models.EscrowTransaction, error) {
	if transactionID == "" {
		return models.EscrowTransaction{}, fmt.Errorf("service: %w - empty transaction ID", marketerrors.ErrInvalidInput)
	}
	tx, err := s.repo.GetTransaction(ctx, transactionID)
	if err != nil {
		return models.EscrowTransaction{}, fmt.Errorf("service: failed to get escrow %s: %w", transactionID, err)
	}
	if !isAdmin && !tx.IsParty(actorID) {
		return models.EscrowTransaction{}, fmt.Errorf("service: %w - user %s is not a party to escrow %s", marketerrors.ErrPermissionDenied, actorID, transactionID)
	}
	return tx, nil
}

// ListTransactionsForUser returns the transactions where the user buys or sells
func (s *EscrowService) ListTransactionsForUser(ctx context.Context, userID string) ([]models.EscrowTransaction, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", marketerrors.ErrInvalidInput)
	}
	txs, err := s.repo.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list escrow for user %s: %w", userID, err)
	}
	return txs, nil
}

func (s *EscrowService) notify(ctx context.Context, typ models.EventType, tx models.EscrowTransaction, data map[string]any, recipients ...string) {
	if data == nil {
		data = map[string]any{}
	}
	data["order_id"] = tx.OrderID
	data["status"] = tx.Status
	for _, r := range recipients {
		s.events.Emit(ctx, models.Event{
			Type:        typ,
			RecipientID: r,
			AggregateID: tx.TransactionID,
			Data:        data,
		})
	}
}
