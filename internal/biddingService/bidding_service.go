package bidding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketai/internal/clock"
	"marketai/internal/events"
	"marketai/internal/fees"
	"marketai/internal/marketerrors"
	"marketai/internal/metrics"
	"marketai/internal/models"
	"marketai/internal/repository"
	"marketai/utils"
)

// StandingChecker reports whether a user is currently barred from trading
type StandingChecker interface {
	IsRestricted(ctx context.Context, userID string) (bool, error)
}

// EscrowOpener opens the escrow transaction that follows a won auction. Opening the same
// sale twice returns the existing transaction.
type EscrowOpener interface {
	OpenEscrow(ctx context.Context, orderID, buyerID, sellerID, productID string, amount int64) (models.EscrowTransaction, error)
}

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	repo           repository.AuctionDB
	increments     *fees.IncrementTable
	maxBidsPerUser int
	clock          clock.Clock
	events         events.Emitter
	standing       StandingChecker
	escrow         EscrowOpener
	metrics        *metrics.Metrics
}

type Option func(*BiddingService)

func WithClock(c clock.Clock) Option {
	return func(s *BiddingService) { s.clock = c }
}

func WithEmitter(e events.Emitter) Option {
	return func(s *BiddingService) { s.events = e }
}

func WithStandingChecker(c StandingChecker) Option {
	return func(s *BiddingService) { s.standing = c }
}

func WithEscrowOpener(o EscrowOpener) Option {
	return func(s *BiddingService) { s.escrow = o }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BiddingService) { s.metrics = m }
}

// WithMaxBidsPerUser caps the bids one user may place on one auction. Zero disables the cap.
func WithMaxBidsPerUser(n int) Option {
	return func(s *BiddingService) { s.maxBidsPerUser = n }
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, increments *fees.IncrementTable, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo:       repo,
		increments: increments,
		clock:      clock.NewSystem(),
		events:     events.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAuctionInput describes a new auction. A zero StartTime starts the auction now.
type CreateAuctionInput struct {
	Title         string
	Description   string
	SellerID      string
	StartingPrice int64
	BuyNowPrice   *int64
	ReservePrice  *int64
	StartTime     time.Time
	EndTime       time.Time
}

// CreateAuction validates and stores a new auction
func (s *BiddingService) CreateAuction(ctx context.Context, in CreateAuctionInput) (models.Auction, error) {
	now := s.clock.Now()
	if in.StartTime.IsZero() {
		in.StartTime = now
	}
	if err := validateAuction(in, now); err != nil {
		return models.Auction{}, err
	}

	status := models.AuctionStatusActive
	if in.StartTime.After(now) {
		status = models.AuctionStatusUpcoming
	}

	auction := models.Auction{
		AuctionID:     utils.GenerateID(),
		Title:         in.Title,
		Description:   in.Description,
		SellerID:      in.SellerID,
		StartingPrice: in.StartingPrice,
		CurrentPrice:  in.StartingPrice,
		BuyNowPrice:   in.BuyNowPrice,
		ReservePrice:  in.ReservePrice,
		StartTime:     in.StartTime.UTC(),
		EndTime:       in.EndTime.UTC(),
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.CreateAuction(ctx, auction); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to create auction for seller %s: %w", in.SellerID, err)
	}
	return auction, nil
}

func validateAuction(in CreateAuctionInput, now time.Time) error {
	switch {
	case in.Title == "":
		return fmt.Errorf("service: %w - missing title", marketerrors.ErrInvalidInput)
	case in.SellerID == "":
		return fmt.Errorf("service: %w - missing seller ID", marketerrors.ErrInvalidInput)
	case in.StartingPrice <= 0:
		return fmt.Errorf("service: %w - starting price must be positive", marketerrors.ErrInvalidInput)
	case !in.EndTime.After(in.StartTime):
		return fmt.Errorf("service: %w - end time must be after start time", marketerrors.ErrInvalidInput)
	case !in.EndTime.After(now):
		return fmt.Errorf("service: %w - end time is in the past", marketerrors.ErrInvalidInput)
	case in.BuyNowPrice != nil && *in.BuyNowPrice <= in.StartingPrice:
		return fmt.Errorf("service: %w - buy-now price must exceed the starting price", marketerrors.ErrInvalidInput)
	case in.ReservePrice != nil && *in.ReservePrice < in.StartingPrice:
		return fmt.Errorf("service: %w - reserve price below starting price", marketerrors.ErrInvalidInput)
	case in.ReservePrice != nil && in.BuyNowPrice != nil && *in.ReservePrice > *in.BuyNowPrice:
		return fmt.Errorf("service: %w - reserve price above buy-now price", marketerrors.ErrInvalidInput)
	}
	return nil
}

// PlaceBid validates and records a user's bid. Bids on one auction are serialized by the
// auction row lock, so of two racing bids at the same price exactly one is accepted.
func (s *BiddingService) PlaceBid(ctx context.Context, auctionID, bidderID string, amount int64) (models.Bid, error) {
	bid, err := s.placeBid(ctx, auctionID, bidderID, amount)
	if err != nil {
		s.metrics.ObserveBid(marketerrors.Code(err))
		return models.Bid{}, err
	}
	s.metrics.ObserveBid("accepted")
	return bid, nil
}

type bidOutcome struct {
	bid       models.Bid
	auction   models.Auction
	previous  *models.Bid
	watchers  []string
	boughtNow bool
}

func (s *BiddingService) placeBid(ctx context.Context, auctionID, bidderID string, amount int64) (models.Bid, error) {
	if auctionID == "" || bidderID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing auctionID or bidderID", marketerrors.ErrInvalidInput)
	}
	if amount <= 0 {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", marketerrors.ErrInvalidInput)
	}
	if err := s.checkStanding(ctx, bidderID); err != nil {
		return models.Bid{}, err
	}

	var out bidOutcome
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		now := s.clock.Now()
		auction, err := s.repo.GetAuctionForUpdate(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
		}

		if err := s.validateBid(ctx, auction, bidderID, amount, now); err != nil {
			return err
		}

		previous, err := s.repo.GetWinningBid(ctx, auctionID)
		switch {
		case err == nil:
			out.previous = &previous
		case !errors.Is(err, marketerrors.ErrNoBids):
			return fmt.Errorf("service: failed to check winning bid: %w", err)
		}

		bid := models.Bid{
			BidID:     utils.GenerateID(),
			AuctionID: auctionID,
			BidderID:  bidderID,
			Amount:    amount,
			IsWinning: true,
			CreatedAt: now,
		}
		if err := s.repo.ClearWinningBid(ctx, auctionID); err != nil {
			return fmt.Errorf("service: failed to unmark winning bid for auction %s: %w", auctionID, err)
		}
		if err := s.repo.RecordBid(ctx, bid); err != nil {
			return fmt.Errorf("service: failed to record bid for auction %s by user %s: %w", auctionID, bidderID, err)
		}

		auction.Status = models.AuctionStatusActive
		auction.CurrentPrice = amount
		auction.BidCount++
		auction.UpdatedAt = now
		if auction.BuyNowPrice != nil && amount >= *auction.BuyNowPrice {
			auction.Status = models.AuctionStatusEnded
			auction.EndTime = now
			auction.WinnerID = bidderID
			out.boughtNow = true
		}
		if err := s.repo.UpdateAuction(ctx, auction); err != nil {
			return fmt.Errorf("service: failed to update auction %s: %w", auctionID, err)
		}

		watchers, err := s.repo.GetWatchers(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("service: failed to load watchers of auction %s: %w", auctionID, err)
		}

		out.bid, out.auction, out.watchers = bid, auction, watchers
		return nil
	})
	if err != nil {
		return models.Bid{}, err
	}

	s.notifyBid(ctx, out)

	if out.boughtNow {
		if _, err := s.settle(ctx, auctionID); err != nil {
			// the bid stands; the close sweep retries settlement
			utils.Error("service: buy-now settlement failed", map[string]any{
				"auction_id": auctionID,
				"error":      err.Error(),
			})
		}
	}

	return out.bid, nil
}

// validateBid checks business rules for bidding against the locked auction row
func (s *BiddingService) validateBid(ctx context.Context, auction models.Auction, bidderID string, amount int64, now time.Time) error {
	if auction.SellerID == bidderID {
		return fmt.Errorf("service: %w - sellers cannot bid on their own auction", marketerrors.ErrPermissionDenied)
	}

	open := auction.IsOpenAt(now) ||
		(auction.Status == models.AuctionStatusUpcoming && !now.Before(auction.StartTime) && now.Before(auction.EndTime))
	if !open {
		return fmt.Errorf("service: %w - auction %s is %s", marketerrors.ErrAuctionEnded, auction.AuctionID, describeClosed(auction, now))
	}

	if amount <= auction.CurrentPrice {
		return fmt.Errorf("service: %w - current price is %d", marketerrors.ErrBidTooLow, auction.CurrentPrice)
	}

	buyNow := auction.BuyNowPrice != nil && amount >= *auction.BuyNowPrice
	if !buyNow && s.increments != nil {
		minIncrement := s.increments.MinimumIncrement(auction.CurrentPrice)
		if amount-auction.CurrentPrice < minIncrement {
			return fmt.Errorf("service: %w - bid must be at least %d", marketerrors.ErrBidTooLow, auction.CurrentPrice+minIncrement)
		}
	}

	if s.maxBidsPerUser > 0 {
		n, err := s.repo.CountBidsByBidder(ctx, auction.AuctionID, bidderID)
		if err != nil {
			return fmt.Errorf("service: failed to count bids: %w", err)
		}
		if n >= s.maxBidsPerUser {
			return fmt.Errorf("service: %w - at most %d bids per user on one auction", marketerrors.ErrInvalidInput, s.maxBidsPerUser)
		}
	}
	return nil
}

func describeClosed(a models.Auction, now time.Time) string {
	switch {
	case a.Status == models.AuctionStatusUpcoming:
		return "not started yet"
	case a.Status == models.AuctionStatusActive && !now.Before(a.EndTime):
		return "past its end time"
	default:
		return string(a.Status)
	}
}

func (s *BiddingService) checkStanding(ctx context.Context, userID string) error {
	if s.standing == nil {
		return nil
	}
	restricted, err := s.standing.IsRestricted(ctx, userID)
	if err != nil {
		return fmt.Errorf("service: failed to check standing of user %s: %w", userID, err)
	}
	if restricted {
		return fmt.Errorf("service: %w - user %s is suspended or banned", marketerrors.ErrPermissionDenied, userID)
	}
	return nil
}

func (s *BiddingService) notifyBid(ctx context.Context, out bidOutcome) {
	data := map[string]any{
		"bid_id":        out.bid.BidID,
		"amount":        out.bid.Amount,
		"current_price": out.auction.CurrentPrice,
		"bid_count":     out.auction.BidCount,
	}

	if out.previous != nil && out.previous.BidderID != out.bid.BidderID {
		s.events.Emit(ctx, models.Event{
			Type:        models.EventOutbid,
			RecipientID: out.previous.BidderID,
			AggregateID: out.auction.AuctionID,
			Data: map[string]any{
				"previous_amount": out.previous.Amount,
				"current_price":   out.auction.CurrentPrice,
			},
		})
	}

	for _, w := range out.watchers {
		if w == out.bid.BidderID {
			continue
		}
		s.events.Emit(ctx, models.Event{
			Type:        models.EventBidPlaced,
			RecipientID: w,
			AggregateID: out.auction.AuctionID,
			Data:        data,
		})
	}
}

// WatchAuction subscribes a user to bid activity on an auction
func (s *BiddingService) WatchAuction(ctx context.Context, auctionID, userID string) error {
	if auctionID == "" || userID == "" {
		return fmt.Errorf("service: %w - missing auctionID or userID", marketerrors.ErrInvalidInput)
	}
	if err := s.repo.AddWatcher(ctx, auctionID, userID); err != nil {
		return fmt.Errorf("service: failed to watch auction %s: %w", auctionID, err)
	}
	return nil
}

// CancelAuction withdraws an auction that has not received any bids. Only the seller may cancel.
func (s *BiddingService) CancelAuction(ctx context.Context, auctionID, sellerID string) (models.Auction, error) {
	var auction models.Auction
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetAuctionForUpdate(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
		}
		if a.SellerID != sellerID {
			return fmt.Errorf("service: %w - only the seller can cancel auction %s", marketerrors.ErrPermissionDenied, auctionID)
		}
		if a.Status != models.AuctionStatusUpcoming && a.Status != models.AuctionStatusActive {
			return fmt.Errorf("service: %w - auction %s is %s", marketerrors.ErrInvalidStateTransition, auctionID, a.Status)
		}
		if a.BidCount > 0 {
			return fmt.Errorf("service: %w - auction %s already has bids", marketerrors.ErrInvalidStateTransition, auctionID)
		}

		a.Status = models.AuctionStatusCancelled
		a.Settled = true
		a.UpdatedAt = s.clock.Now()
		if err := s.repo.UpdateAuction(ctx, a); err != nil {
			return fmt.Errorf("service: failed to cancel auction %s: %w", auctionID, err)
		}
		auction = a
		return nil
	})
	return auction, err
}

// EndAuction closes an active auction early. Allowed for the seller and for admins.
func (s *BiddingService) EndAuction(ctx context.Context, auctionID, actorID string, isAdmin bool) (models.Auction, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetAuctionForUpdate(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
		}
		if a.SellerID != actorID && !isAdmin {
			return fmt.Errorf("service: %w - not authorized to end auction %s", marketerrors.ErrPermissionDenied, auctionID)
		}
		if a.Status != models.AuctionStatusActive {
			return fmt.Errorf("service: %w - auction %s is %s", marketerrors.ErrInvalidStateTransition, auctionID, a.Status)
		}

		now := s.clock.Now()
		a.Status = models.AuctionStatusEnded
		if now.Before(a.EndTime) {
			a.EndTime = now
		}
		a.UpdatedAt = now
		if err := s.repo.UpdateAuction(ctx, a); err != nil {
			return fmt.Errorf("service: failed to end auction %s: %w", auctionID, err)
		}
		return nil
	})
	if err != nil {
		return models.Auction{}, err
	}

	if _, err := s.settle(ctx, auctionID); err != nil {
		return models.Auction{}, err
	}
	return s.GetAuction(ctx, auctionID)
}

// GetAuction returns one auction
func (s *BiddingService) GetAuction(ctx context.Context, auctionID string) (models.Auction, error) {
	if auctionID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - empty auction ID", marketerrors.ErrInvalidInput)
	}
	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListAuctions returns the auctions in one status
func (s *BiddingService) ListAuctions(ctx context.Context, status models.AuctionStatus) ([]models.Auction, error) {
	switch status {
	case models.AuctionStatusUpcoming, models.AuctionStatusActive, models.AuctionStatusEnded, models.AuctionStatusCancelled:
	default:
		return nil, fmt.Errorf("service: %w - unknown auction status %q", marketerrors.ErrInvalidInput, status)
	}
	auctions, err := s.repo.ListAuctionsByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list %s auctions: %w", status, err)
	}
	return auctions, nil
}

// GetBidsForAuction returns all bids for a specific auction
func (s *BiddingService) GetBidsForAuction(ctx context.Context, auctionID string) ([]models.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", marketerrors.ErrInvalidInput)
	}

	bids, err := s.repo.GetBidsByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}

	return bids, nil
}

// GetWinningBid returns the current winning bid for a specific auction
func (s *BiddingService) GetWinningBid(ctx context.Context, auctionID string) (models.Bid, error) {
	if auctionID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty auction ID", marketerrors.ErrInvalidInput)
	}

	winningBid, err := s.repo.GetWinningBid(ctx, auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for auction %s: %w", auctionID, err)
	}

	return winningBid, nil
}

// GetAuctionsByBidder returns all auctions a user has placed bids on
func (s *BiddingService) GetAuctionsByBidder(ctx context.Context, bidderID string) ([]models.Auction, error) {
	if bidderID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", marketerrors.ErrInvalidInput)
	}

	auctions, err := s.repo.GetAuctionsByBidder(ctx, bidderID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get auctions for user %s: %w", bidderID, err)
	}

	return auctions, nil
}
