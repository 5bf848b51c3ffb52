package repository

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

import (
	"context"
	"time"

	model "marketai/internal/models"
)

// Transactor runs fn as one atomic unit. Repository calls made with the ctx passed to
// fn join the unit; rows read "ForUpdate" stay locked until fn returns.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuctionDB defines the auction and bid storage interface
type AuctionDB interface {
	Transactor
	CreateAuction(ctx context.Context, auction model.Auction) error
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	GetAuctionForUpdate(ctx context.Context, auctionID string) (model.Auction, error)
	UpdateAuction(ctx context.Context, auction model.Auction) error
	ListAuctionsByStatus(ctx context.Context, status model.AuctionStatus) ([]model.Auction, error)
	RecordBid(ctx context.Context, bid model.Bid) error
	ClearWinningBid(ctx context.Context, auctionID string) error
	GetBidsByAuction(ctx context.Context, auctionID string) ([]model.Bid, error)
	GetWinningBid(ctx context.Context, auctionID string) (model.Bid, error)
	CountBidsByBidder(ctx context.Context, auctionID, bidderID string) (int, error)
	GetAuctionsByBidder(ctx context.Context, bidderID string) ([]model.Auction, error)
	AddWatcher(ctx context.Context, auctionID, userID string) error
	GetWatchers(ctx context.Context, auctionID string) ([]string, error)
}

// EscrowDB defines the escrow transaction storage interface
type EscrowDB interface {
	Transactor
	CreateTransaction(ctx context.Context, tx model.EscrowTransaction) error
	GetTransaction(ctx context.Context, transactionID string) (model.EscrowTransaction, error)
	GetTransactionForUpdate(ctx context.Context, transactionID string) (model.EscrowTransaction, error)
	GetTransactionByOrderID(ctx context.Context, orderID string) (model.EscrowTransaction, error)
	UpdateTransaction(ctx context.Context, tx model.EscrowTransaction) error
	ListTransactionsByUser(ctx context.Context, userID string) ([]model.EscrowTransaction, error)
	ListTransactionsByStatus(ctx context.Context, status model.EscrowStatus) ([]model.EscrowTransaction, error)
	// RecordConfirmation stores or replaces the confirmation of a transaction
	RecordConfirmation(ctx context.Context, c model.PurchaseConfirmation) error
}

// PenaltyDB defines the penalty record and user standing storage interface
type PenaltyDB interface {
	Transactor
	// LockUser serializes penalty writes for one user until the surrounding transaction ends
	LockUser(ctx context.Context, userID string) error
	CountOffensesSince(ctx context.Context, userID string, offense model.OffenseType, since time.Time) (int, error)
	CreatePenalty(ctx context.Context, rec model.PenaltyRecord) error
	ListPenaltiesByUser(ctx context.Context, userID string) ([]model.PenaltyRecord, error)
	DeactivateExpiredPenalties(ctx context.Context, now time.Time) (int, error)
	GetStanding(ctx context.Context, userID string) (model.UserStanding, error)
	SaveStanding(ctx context.Context, standing model.UserStanding) error
	LiftExpiredBans(ctx context.Context, now time.Time) (int, error)
}
