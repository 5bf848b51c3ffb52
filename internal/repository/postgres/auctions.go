package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketai/internal/marketerrors"
	"marketai/internal/models"
)

const auctionColumns = `auction_id, title, description, seller_id, starting_price, current_price,
	buy_now_price, reserve_price, start_time, end_time, status, bid_count, winner_id, settled,
	created_at, updated_at`

func scanAuction(row scanner) (models.Auction, error) {
	var (
		a      models.Auction
		status string
	)
	err := row.Scan(&a.AuctionID, &a.Title, &a.Description, &a.SellerID, &a.StartingPrice, &a.CurrentPrice,
		&a.BuyNowPrice, &a.ReservePrice, &a.StartTime, &a.EndTime, &status, &a.BidCount, &a.WinnerID, &a.Settled,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return models.Auction{}, err
	}
	a.Status = models.AuctionStatus(status)
	return a, nil
}

func (s *Store) CreateAuction(ctx context.Context, a models.Auction) error {
	const stmt = `INSERT INTO auctions (` + auctionColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := s.q(ctx).ExecContext(ctx, stmt,
		a.AuctionID, a.Title, a.Description, a.SellerID, a.StartingPrice, a.CurrentPrice,
		a.BuyNowPrice, a.ReservePrice, a.StartTime, a.EndTime, string(a.Status), a.BidCount, a.WinnerID, a.Settled,
		a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return dbError("create auction "+a.AuctionID, err)
	}
	return nil
}

func (s *Store) GetAuction(ctx context.Context, auctionID string) (models.Auction, error) {
	return s.getAuction(ctx, auctionID, `SELECT `+auctionColumns+` FROM auctions WHERE auction_id = $1`)
}

func (s *Store) GetAuctionForUpdate(ctx context.Context, auctionID string) (models.Auction, error) {
	return s.getAuction(ctx, auctionID, `SELECT `+auctionColumns+` FROM auctions WHERE auction_id = $1 FOR UPDATE`)
}

func (s *Store) getAuction(ctx context.Context, auctionID, query string) (models.Auction, error) {
	a, err := scanAuction(s.q(ctx).QueryRowContext(ctx, query, auctionID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, marketerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return models.Auction{}, dbError("get auction "+auctionID, err)
	}
	return a, nil
}

func (s *Store) UpdateAuction(ctx context.Context, a models.Auction) error {
	const stmt = `
UPDATE auctions SET title = $2, description = $3, current_price = $4, buy_now_price = $5,
	reserve_price = $6, start_time = $7, end_time = $8, status = $9, bid_count = $10,
	winner_id = $11, settled = $12, updated_at = $13
WHERE auction_id = $1`

	res, err := s.q(ctx).ExecContext(ctx, stmt,
		a.AuctionID, a.Title, a.Description, a.CurrentPrice, a.BuyNowPrice,
		a.ReservePrice, a.StartTime, a.EndTime, string(a.Status), a.BidCount,
		a.WinnerID, a.Settled, a.UpdatedAt)
	if err != nil {
		return dbError("update auction "+a.AuctionID, err)
	}
	return expectRow("update auction "+a.AuctionID, res, marketerrors.ErrAuctionNotFound)
}

func (s *Store) ListAuctionsByStatus(ctx context.Context, status models.AuctionStatus) ([]models.Auction, error) {
	return s.listAuctions(ctx, "list auctions", `SELECT `+auctionColumns+` FROM auctions WHERE status = $1 ORDER BY end_time`, string(status))
}

func (s *Store) GetAuctionsByBidder(ctx context.Context, bidderID string) ([]models.Auction, error) {
	const query = `SELECT ` + auctionColumns + ` FROM auctions a
WHERE EXISTS (SELECT 1 FROM bids b WHERE b.auction_id = a.auction_id AND b.bidder_id = $1)
ORDER BY created_at`

	auctions, err := s.listAuctions(ctx, "get auctions for user "+bidderID, query, bidderID)
	if err != nil {
		return nil, err
	}
	if len(auctions) == 0 {
		return nil, fmt.Errorf("get auctions for user %s: %w", bidderID, marketerrors.ErrUserNoBids)
	}
	return auctions, nil
}

func (s *Store) listAuctions(ctx context.Context, op, query string, args ...any) ([]models.Auction, error) {
	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	out := make([]models.Auction, 0)
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, dbError(op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}
	return out, nil
}

func (s *Store) RecordBid(ctx context.Context, b models.Bid) error {
	const stmt = `
INSERT INTO bids (bid_id, auction_id, bidder_id, amount, is_winning, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.q(ctx).ExecContext(ctx, stmt, b.BidID, b.AuctionID, b.BidderID, b.Amount, b.IsWinning, b.CreatedAt)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("record bid for auction %s: %w", b.AuctionID, marketerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return dbError("record bid for auction "+b.AuctionID, err)
	}
	return nil
}

func (s *Store) ClearWinningBid(ctx context.Context, auctionID string) error {
	_, err := s.q(ctx).ExecContext(ctx, `UPDATE bids SET is_winning = FALSE WHERE auction_id = $1 AND is_winning`, auctionID)
	if err != nil {
		return dbError("clear winning bid of auction "+auctionID, err)
	}
	return nil
}

const bidColumns = `bid_id, auction_id, bidder_id, amount, is_winning, created_at`

func scanBid(row scanner) (models.Bid, error) {
	var b models.Bid
	err := row.Scan(&b.BidID, &b.AuctionID, &b.BidderID, &b.Amount, &b.IsWinning, &b.CreatedAt)
	return b, err
}

func (s *Store) GetBidsByAuction(ctx context.Context, auctionID string) ([]models.Bid, error) {
	op := "get bids for auction " + auctionID
	rows, err := s.q(ctx).QueryContext(ctx, `SELECT `+bidColumns+` FROM bids WHERE auction_id = $1 ORDER BY seq`, auctionID)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, dbError(op, err)
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}
	if len(bids) == 0 {
		return nil, fmt.Errorf("%s: %w", op, marketerrors.ErrNoBids)
	}
	return bids, nil
}

func (s *Store) GetWinningBid(ctx context.Context, auctionID string) (models.Bid, error) {
	b, err := scanBid(s.q(ctx).QueryRowContext(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE auction_id = $1 AND is_winning LIMIT 1`, auctionID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, marketerrors.ErrNoBids)
	}
	if err != nil {
		return models.Bid{}, dbError("get winning bid for auction "+auctionID, err)
	}
	return b, nil
}

func (s *Store) CountBidsByBidder(ctx context.Context, auctionID, bidderID string) (int, error) {
	var n int
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bids WHERE auction_id = $1 AND bidder_id = $2`, auctionID, bidderID).Scan(&n)
	if err != nil {
		return 0, dbError("count bids of user "+bidderID, err)
	}
	return n, nil
}

func (s *Store) AddWatcher(ctx context.Context, auctionID, userID string) error {
	_, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO auction_watchers (auction_id, user_id) VALUES ($1, $2)`, auctionID, userID)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("add watcher to auction %s: %w", auctionID, marketerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return dbError(fmt.Sprintf("add watcher %s to auction %s", userID, auctionID), err)
	}
	return nil
}

func (s *Store) GetWatchers(ctx context.Context, auctionID string) ([]string, error) {
	op := "get watchers of auction " + auctionID
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT user_id FROM auction_watchers WHERE auction_id = $1 ORDER BY created_at, user_id`, auctionID)
	if err != nil {
		return nil, dbError(op, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dbError(op, err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(op, err)
	}
	return out, nil
}
