package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketai/internal/marketerrors"
	"marketai/internal/models"
)

const escrowColumns = `transaction_id, order_id, buyer_id, seller_id, product_id, amount, fee, fee_rate,
	net_amount, status, tracking_carrier, tracking_number, refund_amount, payment_due_at, paid_at,
	ship_by_at, shipped_at, delivered_at, auto_confirm_at, confirmed_at, completed_at, refunded_at,
	confirmation_type, shipping_overdue_notified, payment_overdue_notified, dispute_opened_by,
	dispute_reason, dispute_evidence, dispute_opened_at, dispute_resolution, dispute_resolution_amount,
	dispute_resolution_notes, dispute_resolved_by, dispute_resolved_at, created_at, updated_at`

// disputeRow is the dispute variant flattened into nullable columns
type disputeRow struct {
	openedBy         sql.NullString
	reason           sql.NullString
	evidence         []byte
	openedAt         *time.Time
	resolution       sql.NullString
	resolutionAmount *int64
	resolutionNotes  sql.NullString
	resolvedBy       sql.NullString
	resolvedAt       *time.Time
}

func (d disputeRow) toModel() (*models.Dispute, error) {
	if !d.openedBy.Valid || d.openedAt == nil {
		return nil, nil
	}
	out := &models.Dispute{
		OpenedBy:         d.openedBy.String,
		Reason:           d.reason.String,
		OpenedAt:         *d.openedAt,
		ResolutionAmount: d.resolutionAmount,
		ResolutionNotes:  d.resolutionNotes.String,
		ResolvedBy:       d.resolvedBy.String,
		ResolvedAt:       d.resolvedAt,
	}
	if len(d.evidence) > 0 {
		if err := json.Unmarshal(d.evidence, &out.Evidence); err != nil {
			return nil, fmt.Errorf("decode dispute evidence: %w", err)
		}
	}
	if d.resolution.Valid {
		r := models.ResolutionType(d.resolution.String)
		out.Resolution = &r
	}
	return out, nil
}

func disputeArgs(d *models.Dispute) ([]any, error) {
	if d == nil {
		return []any{nil, nil, nil, nil, nil, nil, nil, nil, nil}, nil
	}
	evidence, err := json.Marshal(d.Evidence)
	if err != nil {
		return nil, fmt.Errorf("encode dispute evidence: %w", err)
	}
	var resolution sql.NullString
	if d.Resolution != nil {
		resolution = nullString(string(*d.Resolution))
	}
	return []any{
		d.OpenedBy, d.Reason, string(evidence), d.OpenedAt, resolution,
		d.ResolutionAmount, nullString(d.ResolutionNotes), nullString(d.ResolvedBy), d.ResolvedAt,
	}, nil
}

func escrowArgs(tx models.EscrowTransaction) ([]any, error) {
	var carrier, number sql.NullString
	if tx.Tracking != nil {
		carrier = nullString(tx.Tracking.Carrier)
		number = nullString(tx.Tracking.TrackingNumber)
	}
	var confirmation sql.NullString
	if tx.ConfirmationType != nil {
		confirmation = nullString(string(*tx.ConfirmationType))
	}
	dispute, err := disputeArgs(tx.Dispute)
	if err != nil {
		return nil, err
	}

	args := []any{
		tx.TransactionID, tx.OrderID, tx.BuyerID, tx.SellerID, tx.ProductID, tx.Amount, tx.Fee, tx.FeeRate,
		tx.NetAmount, string(tx.Status), carrier, number, tx.RefundAmount, tx.PaymentDueAt, tx.PaidAt,
		tx.ShipByAt, tx.ShippedAt, tx.DeliveredAt, tx.AutoConfirmAt, tx.ConfirmedAt, tx.CompletedAt, tx.RefundedAt,
		confirmation, tx.ShippingOverdueNotified, tx.PaymentOverdueNotified,
	}
	args = append(args, dispute...)
	return append(args, tx.CreatedAt, tx.UpdatedAt), nil
}

func scanEscrow(row scanner) (models.EscrowTransaction, error) {
	var (
		tx              models.EscrowTransaction
		status          string
		carrier, number sql.NullString
		confirmation    sql.NullString
		d               disputeRow
	)
	err := row.Scan(&tx.TransactionID, &tx.OrderID, &tx.BuyerID, &tx.SellerID, &tx.ProductID, &tx.Amount, &tx.Fee, &tx.FeeRate,
		&tx.NetAmount, &status, &carrier, &number, &tx.RefundAmount, &tx.PaymentDueAt, &tx.PaidAt,
		&tx.ShipByAt, &tx.ShippedAt, &tx.DeliveredAt, &tx.AutoConfirmAt, &tx.ConfirmedAt, &tx.CompletedAt, &tx.RefundedAt,
		&confirmation, &tx.ShippingOverdueNotified, &tx.PaymentOverdueNotified, &d.openedBy,
		&d.reason, &d.evidence, &d.openedAt, &d.resolution, &d.resolutionAmount,
		&d.resolutionNotes, &d.resolvedBy, &d.resolvedAt, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return models.EscrowTransaction{}, err
	}

	tx.Status = models.EscrowStatus(status)
	if carrier.Valid || number.Valid {
		tx.Tracking = &models.TrackingInfo{Carrier: carrier.String, TrackingNumber: number.String}
	}
	if confirmation.Valid {
		c := models.ConfirmationType(confirmation.String)
		tx.ConfirmationType = &c
	}
	if tx.Dispute, err = d.toModel(); err != nil {
		return models.EscrowTransaction{}, err
	}
	return tx, nil
}

// CreateTransaction inserts a transaction. A taken order or transaction ID is reported as
// DUPLICATE_DATA without raising a unique violation, so a surrounding transaction stays usable.
func (s *Store) CreateTransaction(ctx context.Context, tx models.EscrowTransaction) error {
	const stmt = `INSERT INTO escrow_transactions (` + escrowColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
	$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36)
ON CONFLICT DO NOTHING`

	op := "create escrow for order " + tx.OrderID
	args, err := escrowArgs(tx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	res, err := s.q(ctx).ExecContext(ctx, stmt, args...)
	if err != nil {
		return dbError(op, err)
	}
	return expectRow(op, res, marketerrors.ErrDuplicateData)
}

func (s *Store) GetTransactionByOrderID(ctx context.Context, orderID string) (models.EscrowTransaction, error) {
	tx, err := scanEscrow(s.q(ctx).QueryRowContext(ctx,
		`SELECT `+escrowColumns+` FROM escrow_transactions WHERE order_id = $1`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.EscrowTransaction{}, fmt.Errorf("get escrow for order %s: %w", orderID, marketerrors.ErrTransactionNotFound)
	}
	if err != nil {
		return models.EscrowTransaction{}, dbError("get escrow for order "+orderID, err)
	}
	return tx, nil
}

func (s *Store) GetTransaction(ctx context.Context, transactionID string) (models.EscrowTransaction, error) {
	return s.getTransaction(ctx, transactionID, `SELECT `+escrowColumns+` FROM escrow_transactions WHERE transaction_id = $1`)
}

func (s *Store) GetTransactionForUpdate(ctx context.Context, transactionID string) (models.EscrowTransaction, error) {
	return s.getTransaction(ctx, transactionID, `SELECT `+escrowColumns+` FROM escrow_transactions WHERE transaction_id = $1 FOR UPDATE`)
}

func (s *Store) getTransaction(ctx context.Context, transactionID, query string) (models.EscrowTransaction, error) {
	tx, err := scanEscrow(s.q(ctx).QueryRowContext(ctx, query, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.EscrowTransaction{}, fmt.Errorf("get escrow %s: %w", transactionID, marketerrors.ErrTransactionNotFound)
	}
	if err != nil {
		return models.EscrowTransaction{}, dbError("get escrow "+transactionID, err)
	}
	return tx, nil
}

// UpdateTransaction rewrites every mutable column; identity, parties and amounts never change
func (s *Store) UpdateTransaction(ctx context.Context, tx models.EscrowTransaction) error {
	const stmt = `
UPDATE escrow_transactions SET status = $2, tracking_carrier = $3, tracking_number = $4,
	refund_amount = $5, payment_due_at = $6, paid_at = $7, ship_by_at = $8, shipped_at = $9,
	delivered_at = $10, auto_confirm_at = $11, confirmed_at = $12, completed_at = $13, refunded_at = $14,
	confirmation_type = $15, shipping_overdue_notified = $16, payment_overdue_notified = $17,
	dispute_opened_by = $18, dispute_reason = $19, dispute_evidence = $20, dispute_opened_at = $21,
	dispute_resolution = $22, dispute_resolution_amount = $23, dispute_resolution_notes = $24,
	dispute_resolved_by = $25, dispute_resolved_at = $26, updated_at = $27
WHERE transaction_id = $1`

	args, err := escrowArgs(tx)
	if err != nil {
		return fmt.Errorf("update escrow %s: %w", tx.TransactionID, err)
	}
	// skip the immutable columns and created_at
	mutable := append([]any{args[0]}, args[9:34]...)
	mutable = append(mutable, args[35])

	res, err := s.q(ctx).ExecContext(ctx, stmt, mutable...)
	if err != nil {
		return dbError("update escrow "+tx.TransactionID, err)
	}
	return expectRow("update escrow "+tx.TransactionID, res, marketerrors.ErrTransactionNotFound)
}

func (s *Store) ListTransactionsByUser(ctx context.Context, userID string) ([]models.EscrowTransaction, error) {
	return s.listTransactions(ctx, "list escrow for user "+userID,
		`SELECT `+escrowColumns+` FROM escrow_transactions WHERE buyer_id = $1 OR seller_id = $1 ORDER BY created_at`, userID)
}

func (s *Store) ListTransactionsByStatus(ctx context.Context, status models.EscrowStatus) ([]models.EscrowTransaction, error) {
	return s.listTransactions(ctx, "list escrow in "+string(status),
		`SELECT `+escrowColumns+` FROM escrow_transactions WHERE status = $1 ORDER BY created_at`, string(status))
}

func (s *Store) listTransactions(ctx context.Context, op, query string, args ...any) ([]models.EscrowTransaction, error) {
	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	out := make([]models.EscrowTransaction, 0)
	for rows.Next() {
		tx, err := scanEscrow(rows)
		if err != nil {
			return nil, dbError(op, err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}
	return out, nil
}

func (s *Store) RecordConfirmation(ctx context.Context, c models.PurchaseConfirmation) error {
	const stmt = `
INSERT INTO purchase_confirmations (transaction_id, buyer_id, confirmation_type, rating, review, confirmed_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (transaction_id) DO UPDATE SET buyer_id = EXCLUDED.buyer_id,
	confirmation_type = EXCLUDED.confirmation_type, rating = EXCLUDED.rating,
	review = EXCLUDED.review, confirmed_at = EXCLUDED.confirmed_at`

	op := "record confirmation for " + c.TransactionID
	_, err := s.q(ctx).ExecContext(ctx, stmt,
		c.TransactionID, c.BuyerID, string(c.ConfirmationType), c.Rating, c.Review, c.ConfirmedAt)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w", op, marketerrors.ErrTransactionNotFound)
	}
	if err != nil {
		return dbError(op, err)
	}
	return nil
}
