package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"marketai/internal/marketerrors"
	model "marketai/internal/models"
)

type memTxKey struct{}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB, EscrowDB and PenaltyDB.
// Transactions are serialized by a single lock, which also serializes bid acceptance per auction.
type MemoryRepo struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	auctions       map[string]model.Auction
	bids           map[string][]model.Bid // key: auctionID -> value: bids in arrival order
	bidderAuctions map[string][]string    // key: bidderID -> value: auctionIDs the user has bid on
	watchers       map[string][]string    // key: auctionID -> value: watching userIDs

	escrow        map[string]model.EscrowTransaction
	escrowOrders  map[string]string // key: orderID -> value: transactionID
	confirmations map[string]model.PurchaseConfirmation

	penalties map[string][]model.PenaltyRecord // key: userID
	standings map[string]model.UserStanding
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions:       make(map[string]model.Auction),
		bids:           make(map[string][]model.Bid),
		bidderAuctions: make(map[string][]string),
		watchers:       make(map[string][]string),
		escrow:         make(map[string]model.EscrowTransaction),
		escrowOrders:   make(map[string]string),
		confirmations:  make(map[string]model.PurchaseConfirmation),
		penalties:      make(map[string][]model.PenaltyRecord),
		standings:      make(map[string]model.UserStanding),
	}
}

// WithTx serializes fn against every other transaction. Nested calls join the outer one.
func (r *MemoryRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(context.WithValue(ctx, memTxKey{}, struct{}{}))
}

// CreateAuction stores a new auction
func (r *MemoryRepo) CreateAuction(_ context.Context, auction model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.auctions[auction.AuctionID]; exists {
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, marketerrors.ErrDuplicateData)
	}
	r.auctions[auction.AuctionID] = auction
	return nil
}

// GetAuction returns an auction by ID
func (r *MemoryRepo) GetAuction(_ context.Context, auctionID string) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, marketerrors.ErrAuctionNotFound)
	}
	return auction, nil
}

// GetAuctionForUpdate returns an auction; inside WithTx the transaction lock already excludes writers
func (r *MemoryRepo) GetAuctionForUpdate(ctx context.Context, auctionID string) (model.Auction, error) {
	return r.GetAuction(ctx, auctionID)
}

// UpdateAuction replaces a stored auction
func (r *MemoryRepo) UpdateAuction(_ context.Context, auction model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[auction.AuctionID]; !ok {
		return fmt.Errorf("update auction %s: %w", auction.AuctionID, marketerrors.ErrAuctionNotFound)
	}
	r.auctions[auction.AuctionID] = auction
	return nil
}

// ListAuctionsByStatus returns auctions in a status ordered by end time
func (r *MemoryRepo) ListAuctionsByStatus(_ context.Context, status model.AuctionStatus) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Auction, 0)
	for _, a := range r.auctions {
		if a.Status == status {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	return out, nil
}

// RecordBid appends a bid to an auction's history
func (r *MemoryRepo) RecordBid(_ context.Context, bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[bid.AuctionID]; !ok {
		return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, marketerrors.ErrAuctionNotFound)
	}

	r.bids[bid.AuctionID] = append(r.bids[bid.AuctionID], bid)

	for _, id := range r.bidderAuctions[bid.BidderID] {
		if id == bid.AuctionID {
			return nil
		}
	}
	r.bidderAuctions[bid.BidderID] = append(r.bidderAuctions[bid.BidderID], bid.AuctionID)

	return nil
}

// ClearWinningBid unmarks the current winning bid of an auction, if any
func (r *MemoryRepo) ClearWinningBid(_ context.Context, auctionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bids := r.bids[auctionID]
	for i := range bids {
		bids[i].IsWinning = false
	}
	return nil
}

// GetBidsByAuction returns all bids for an auction
func (r *MemoryRepo) GetBidsByAuction(_ context.Context, auctionID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[auctionID]
	if !ok || len(bids) == 0 {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, marketerrors.ErrNoBids)
	}
	return append([]model.Bid(nil), bids...), nil
}

// GetWinningBid returns the bid currently marked as winning
func (r *MemoryRepo) GetWinningBid(_ context.Context, auctionID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bids[auctionID] {
		if b.IsWinning {
			return b, nil
		}
	}
	return model.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, marketerrors.ErrNoBids)
}

// CountBidsByBidder counts a user's bids on one auction
func (r *MemoryRepo) CountBidsByBidder(_ context.Context, auctionID, bidderID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, b := range r.bids[auctionID] {
		if b.BidderID == bidderID {
			n++
		}
	}
	return n, nil
}

// GetAuctionsByBidder returns all auctions a user has bid on
func (r *MemoryRepo) GetAuctionsByBidder(_ context.Context, bidderID string) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auctionIDs, ok := r.bidderAuctions[bidderID]
	if !ok || len(auctionIDs) == 0 {
		return nil, fmt.Errorf("get auctions for user %s: %w", bidderID, marketerrors.ErrUserNoBids)
	}

	auctions := make([]model.Auction, 0, len(auctionIDs))
	for _, id := range auctionIDs {
		if a, exists := r.auctions[id]; exists {
			auctions = append(auctions, a)
		}
	}
	return auctions, nil
}

// AddWatcher subscribes a user to an auction's bid activity
func (r *MemoryRepo) AddWatcher(_ context.Context, auctionID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[auctionID]; !ok {
		return fmt.Errorf("add watcher to auction %s: %w", auctionID, marketerrors.ErrAuctionNotFound)
	}
	for _, id := range r.watchers[auctionID] {
		if id == userID {
			return fmt.Errorf("add watcher %s to auction %s: %w", userID, auctionID, marketerrors.ErrDuplicateData)
		}
	}
	r.watchers[auctionID] = append(r.watchers[auctionID], userID)
	return nil
}

// GetWatchers returns the users watching an auction
func (r *MemoryRepo) GetWatchers(_ context.Context, auctionID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.watchers[auctionID]...), nil
}

// CreateTransaction stores a new escrow transaction; order IDs are unique
func (r *MemoryRepo) CreateTransaction(_ context.Context, tx model.EscrowTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.escrowOrders[tx.OrderID]; exists {
		return fmt.Errorf("create escrow for order %s: %w", tx.OrderID, marketerrors.ErrDuplicateData)
	}
	if _, exists := r.escrow[tx.TransactionID]; exists {
		return fmt.Errorf("create escrow %s: %w", tx.TransactionID, marketerrors.ErrDuplicateData)
	}
	r.escrow[tx.TransactionID] = cloneTransaction(tx)
	r.escrowOrders[tx.OrderID] = tx.TransactionID
	return nil
}

// GetTransaction returns an escrow transaction by ID
func (r *MemoryRepo) GetTransaction(_ context.Context, transactionID string) (model.EscrowTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.escrow[transactionID]
	if !ok {
		return model.EscrowTransaction{}, fmt.Errorf("get escrow %s: %w", transactionID, marketerrors.ErrTransactionNotFound)
	}
	return cloneTransaction(tx), nil
}

// GetTransactionByOrderID returns the escrow transaction of an order
func (r *MemoryRepo) GetTransactionByOrderID(_ context.Context, orderID string) (model.EscrowTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.escrowOrders[orderID]
	if !ok {
		return model.EscrowTransaction{}, fmt.Errorf("get escrow for order %s: %w", orderID, marketerrors.ErrTransactionNotFound)
	}
	return cloneTransaction(r.escrow[id]), nil
}

// GetTransactionForUpdate returns an escrow transaction for a read-modify-write inside WithTx
func (r *MemoryRepo) GetTransactionForUpdate(ctx context.Context, transactionID string) (model.EscrowTransaction, error) {
	return r.GetTransaction(ctx, transactionID)
}

// UpdateTransaction replaces a stored escrow transaction
func (r *MemoryRepo) UpdateTransaction(_ context.Context, tx model.EscrowTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.escrow[tx.TransactionID]; !ok {
		return fmt.Errorf("update escrow %s: %w", tx.TransactionID, marketerrors.ErrTransactionNotFound)
	}
	r.escrow[tx.TransactionID] = cloneTransaction(tx)
	return nil
}

// ListTransactionsByUser returns transactions where the user is buyer or seller
func (r *MemoryRepo) ListTransactionsByUser(_ context.Context, userID string) ([]model.EscrowTransaction, error) {
	return r.filterTransactions(func(tx model.EscrowTransaction) bool { return tx.IsParty(userID) }), nil
}

// ListTransactionsByStatus returns transactions in a status, oldest first
func (r *MemoryRepo) ListTransactionsByStatus(_ context.Context, status model.EscrowStatus) ([]model.EscrowTransaction, error) {
	return r.filterTransactions(func(tx model.EscrowTransaction) bool { return tx.Status == status }), nil
}

func (r *MemoryRepo) filterTransactions(keep func(model.EscrowTransaction) bool) []model.EscrowTransaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.EscrowTransaction, 0)
	for _, tx := range r.escrow {
		if keep(tx) {
			out = append(out, cloneTransaction(tx))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// RecordConfirmation stores the purchase confirmation of a transaction, replacing one left
// by an earlier attempt whose status write failed
func (r *MemoryRepo) RecordConfirmation(_ context.Context, c model.PurchaseConfirmation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.escrow[c.TransactionID]; !ok {
		return fmt.Errorf("record confirmation for %s: %w", c.TransactionID, marketerrors.ErrTransactionNotFound)
	}
	r.confirmations[c.TransactionID] = c
	return nil
}

// GetConfirmation returns the stored confirmation of a transaction
func (r *MemoryRepo) GetConfirmation(transactionID string) (model.PurchaseConfirmation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.confirmations[transactionID]
	return c, ok
}

// LockUser is a no-op: WithTx already serializes every transaction
func (r *MemoryRepo) LockUser(context.Context, string) error {
	return nil
}

// CountOffensesSince counts a user's offenses of one type created at or after since
func (r *MemoryRepo) CountOffensesSince(_ context.Context, userID string, offense model.OffenseType, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, p := range r.penalties[userID] {
		if p.OffenseType == offense && !p.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// CreatePenalty stores a penalty record
func (r *MemoryRepo) CreatePenalty(_ context.Context, rec model.PenaltyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.penalties[rec.UserID] {
		if p.PenaltyID == rec.PenaltyID {
			return fmt.Errorf("create penalty %s: %w", rec.PenaltyID, marketerrors.ErrDuplicateData)
		}
	}
	r.penalties[rec.UserID] = append(r.penalties[rec.UserID], rec)
	return nil
}

// ListPenaltiesByUser returns a user's penalty records, newest first
func (r *MemoryRepo) ListPenaltiesByUser(_ context.Context, userID string) ([]model.PenaltyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]model.PenaltyRecord(nil), r.penalties[userID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// DeactivateExpiredPenalties clears the active flag of records whose expiry has passed
func (r *MemoryRepo) DeactivateExpiredPenalties(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for userID, recs := range r.penalties {
		for i := range recs {
			if recs[i].IsActive && recs[i].ExpiresAt != nil && !now.Before(*recs[i].ExpiresAt) {
				recs[i].IsActive = false
				n++
			}
		}
		r.penalties[userID] = recs
	}
	return n, nil
}

// GetStanding returns a user's standing; unknown users are in good standing
func (r *MemoryRepo) GetStanding(_ context.Context, userID string) (model.UserStanding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.standings[userID]; ok {
		return s, nil
	}
	return model.UserStanding{UserID: userID}, nil
}

// SaveStanding upserts a user's standing
func (r *MemoryRepo) SaveStanding(_ context.Context, standing model.UserStanding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.standings[standing.UserID] = standing
	return nil
}

// LiftExpiredBans clears bans whose expiry has passed. Permanent bans are untouched.
func (r *MemoryRepo) LiftExpiredBans(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.standings {
		if s.IsBanned && s.BannedUntil != nil && !now.Before(*s.BannedUntil) {
			s.IsBanned = false
			s.BanReason = ""
			s.BannedUntil = nil
			s.UpdatedAt = now
			r.standings[id] = s
			n++
		}
	}
	return n, nil
}

// AddAuction adds an auction to the repository. This method is intended for tests and seeding.
func (r *MemoryRepo) AddAuction(auction model.Auction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auctions[auction.AuctionID] = auction
}

func cloneTransaction(tx model.EscrowTransaction) model.EscrowTransaction {
	out := tx
	if tx.Tracking != nil {
		t := *tx.Tracking
		out.Tracking = &t
	}
	if tx.Dispute != nil {
		d := *tx.Dispute
		d.Evidence = append([]string(nil), tx.Dispute.Evidence...)
		out.Dispute = &d
	}
	return out
}
