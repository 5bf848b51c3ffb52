package escrow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketai/internal/marketerrors"
	"marketai/internal/models"
	"marketai/utils"
)

// errSkip marks a record whose state changed between listing and locking
var errSkip = errors.New("record no longer eligible")

// AutoConfirmExpiredTransactions completes delivered transactions whose auto-confirm deadline
// passed without a dispute. Running it again over the same data changes nothing.
func (s *EscrowService) AutoConfirmExpiredTransactions(ctx context.Context) (models.SweepResult, error) {
	return s.sweep(ctx, "auto_confirm", models.EscrowDelivered,
		func(tx models.EscrowTransaction, now time.Time) bool { return tx.DueForAutoConfirm(now) },
		func(ctx context.Context, tx *models.EscrowTransaction, now time.Time) error {
			tx.Status = models.EscrowConfirmed
			tx.UpdatedAt = now
			return s.complete(ctx, tx, now, models.ConfirmationAuto, ConfirmPurchaseInput{})
		},
		func(ctx context.Context, tx models.EscrowTransaction) {
			s.metrics.ObserveTransition(string(models.EscrowConfirmed))
			s.metrics.ObserveTransition(string(models.EscrowCompleted))
			s.notify(ctx, models.EventPurchaseConfirmed, tx, map[string]any{
				"confirmation_type": models.ConfirmationAuto,
				"net_amount":        tx.NetAmount,
			}, tx.SellerID, tx.BuyerID)
		},
	)
}

// FlagOverdueShipments notifies sellers of paid transactions past the shipping SLA, once per transaction
func (s *EscrowService) FlagOverdueShipments(ctx context.Context) (models.SweepResult, error) {
	return s.sweep(ctx, "shipping_overdue", models.EscrowPaid,
		func(tx models.EscrowTransaction, now time.Time) bool {
			return !tx.ShippingOverdueNotified && tx.ShipByAt != nil && !now.Before(*tx.ShipByAt)
		},
		func(_ context.Context, tx *models.EscrowTransaction, now time.Time) error {
			tx.ShippingOverdueNotified = true
			tx.UpdatedAt = now
			return nil
		},
		func(ctx context.Context, tx models.EscrowTransaction) {
			s.notify(ctx, models.EventShippingOverdue, tx, map[string]any{"ship_by_at": tx.ShipByAt}, tx.SellerID, tx.BuyerID)
		},
	)
}

// FlagOverduePayments notifies buyers who missed the payment deadline and records a
// payment_default offense against them, once per transaction.
func (s *EscrowService) FlagOverduePayments(ctx context.Context) (models.SweepResult, error) {
	return s.sweep(ctx, "payment_overdue", models.EscrowPaymentPending,
		func(tx models.EscrowTransaction, now time.Time) bool {
			return !tx.PaymentOverdueNotified && !now.Before(tx.PaymentDueAt)
		},
		func(ctx context.Context, tx *models.EscrowTransaction, now time.Time) error {
			if s.offenses != nil {
				if _, err := s.offenses.RecordOffense(ctx, tx.BuyerID, models.OffensePaymentDefault); err != nil {
					return fmt.Errorf("service: failed to record payment default for user %s: %w", tx.BuyerID, err)
				}
			}
			tx.PaymentOverdueNotified = true
			tx.UpdatedAt = now
			return nil
		},
		func(ctx context.Context, tx models.EscrowTransaction) {
			s.notify(ctx, models.EventPaymentOverdue, tx, map[string]any{"payment_due_at": tx.PaymentDueAt}, tx.BuyerID, tx.SellerID)
		},
	)
}

// sweep applies fn to every transaction in status that due selects. Each record is re-checked
// under its row lock; a failing record is logged and the batch continues.
func (s *EscrowService) sweep(
	ctx context.Context,
	job string,
	status models.EscrowStatus,
	due func(models.EscrowTransaction, time.Time) bool,
	fn func(context.Context, *models.EscrowTransaction, time.Time) error,
	after func(context.Context, models.EscrowTransaction),
) (models.SweepResult, error) {
	var result models.SweepResult

	candidates, err := s.repo.ListTransactionsByStatus(ctx, status)
	if err != nil {
		return result, fmt.Errorf("service: failed to list %s escrow: %w", status, err)
	}

	now := s.clock.Now()
	for _, c := range candidates {
		if !due(c, now) {
			continue
		}
		result.Processed++

		var updated models.EscrowTransaction
		err := s.repo.WithTx(ctx, func(ctx context.Context) error {
			tx, err := s.repo.GetTransactionForUpdate(ctx, c.TransactionID)
			if err != nil {
				return fmt.Errorf("service: failed to load escrow %s: %w", c.TransactionID, err)
			}
			if tx.Status != status || !due(tx, now) {
				return errSkip
			}
			if err := fn(ctx, &tx, now); err != nil {
				return err
			}
			if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
				return fmt.Errorf("service: failed to update escrow %s: %w", tx.TransactionID, err)
			}
			updated = tx
			return nil
		})

		switch {
		case errors.Is(err, errSkip):
			result.Processed--
		case err != nil:
			result.Failed++
			utils.Error("service: escrow sweep failed for record", map[string]any{
				"job":            job,
				"transaction_id": c.TransactionID,
				"code":           marketerrors.Code(err),
				"error":          err.Error(),
			})
		default:
			result.Succeeded++
			after(ctx, updated)
		}
	}

	return result, nil
}
