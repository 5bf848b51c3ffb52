package models

import "time"

// AuctionStatus is the lifecycle state of an auction
type AuctionStatus string

const (
	AuctionStatusUpcoming  AuctionStatus = "upcoming"
	AuctionStatusActive    AuctionStatus = "active"
	AuctionStatusEnded     AuctionStatus = "ended"
	AuctionStatusCancelled AuctionStatus = "cancelled"
)

// Auction represents an item offered for bidding. Prices are whole KRW.
type Auction struct {
	AuctionID     string        `json:"auction_id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	SellerID      string        `json:"seller_id"`
	StartingPrice int64         `json:"starting_price"`
	CurrentPrice  int64         `json:"current_price"`
	BuyNowPrice   *int64        `json:"buy_now_price,omitempty"`
	ReservePrice  *int64        `json:"-"` // hidden from bidders
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	Status        AuctionStatus `json:"status"`
	BidCount      int           `json:"bid_count"`
	WinnerID      string        `json:"winner_id,omitempty"`
	// Settled is set once the winner (or the lack of one) has been acted on after the auction ended.
	Settled   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOpenAt reports whether the auction accepts bids at t
func (a Auction) IsOpenAt(t time.Time) bool {
	return a.Status == AuctionStatusActive && t.Before(a.EndTime)
}

// ReserveMet reports whether the current price satisfies the reserve price, if any
func (a Auction) ReserveMet() bool {
	return a.ReservePrice == nil || a.CurrentPrice >= *a.ReservePrice
}

// Bid represents a user's bid on an auction. Bids are never cancelled once recorded.
type Bid struct {
	BidID     string    `json:"bid_id"`
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	IsWinning bool      `json:"is_winning"`
	CreatedAt time.Time `json:"created_at"`
}
