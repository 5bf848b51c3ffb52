package helpers

import (
	"time"

	"marketai/internal/models"
)

// Request/Response DTOs

type CreateAuctionRequest struct {
	Title         string     `json:"title" binding:"required,max=200"`
	Description   string     `json:"description" binding:"max=5000"`
	StartingPrice float64    `json:"starting_price" binding:"required,gt=0"`
	BuyNowPrice   *float64   `json:"buy_now_price" binding:"omitempty,gt=0"`
	ReservePrice  *float64   `json:"reserve_price" binding:"omitempty,gt=0"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       time.Time  `json:"end_time" binding:"required"`
}

type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// BidResponse is the outcome of a bid attempt. Rejections carry the taxonomy code and a reason.
type BidResponse struct {
	Accepted  bool   `json:"accepted"`
	BidID     string `json:"bid_id,omitempty"`
	AuctionID string `json:"auction_id"`
	BidderID  string `json:"bidder_id"`
	Amount    int64  `json:"amount"`
	IsWinning bool   `json:"is_winning,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Code      string `json:"code,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// NewBidResponse renders an accepted bid
func NewBidResponse(bid models.Bid) BidResponse {
	return BidResponse{
		Accepted:  true,
		BidID:     bid.BidID,
		AuctionID: bid.AuctionID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount,
		IsWinning: bid.IsWinning,
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type CreateTransactionRequest struct {
	OrderID   string  `json:"order_id" binding:"required"`
	SellerID  string  `json:"seller_id" binding:"required"`
	ProductID string  `json:"product_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

type ShipmentRequest struct {
	Carrier        string `json:"carrier" binding:"required"`
	TrackingNumber string `json:"tracking_number" binding:"required"`
}

type ConfirmPurchaseRequest struct {
	Rating *int   `json:"rating" binding:"omitempty,min=1,max=5"`
	Review string `json:"review" binding:"max=2000"`
}

type OpenDisputeRequest struct {
	Reason   string   `json:"reason" binding:"required"`
	Evidence []string `json:"evidence"`
}

type ResolveDisputeRequest struct {
	Resolution string   `json:"resolution" binding:"required,oneof=refund partial_refund exchange no_action"`
	Amount     *float64 `json:"amount" binding:"omitempty,gt=0"`
	Notes      string   `json:"notes"`
}

type RecordOffenseRequest struct {
	OffenseType string `json:"offense_type" binding:"required"`
}
