package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EscrowStatus is a state of the escrow state machine
type EscrowStatus string

const (
	EscrowPaymentPending EscrowStatus = "payment_pending"
	EscrowPaid           EscrowStatus = "paid"
	EscrowShipped        EscrowStatus = "shipped"
	EscrowDelivered      EscrowStatus = "delivered"
	EscrowConfirmed      EscrowStatus = "confirmed"
	EscrowCompleted      EscrowStatus = "completed"
	EscrowDisputed       EscrowStatus = "disputed"
	EscrowRefunded       EscrowStatus = "refunded"
)

// escrowTransitions is the legal state graph. Everything is forward-only except the
// branch into disputed, which is allowed from any funded state before completion.
var escrowTransitions = map[EscrowStatus][]EscrowStatus{
	EscrowPaymentPending: {EscrowPaid},
	EscrowPaid:           {EscrowShipped, EscrowDisputed},
	EscrowShipped:        {EscrowDelivered, EscrowDisputed},
	EscrowDelivered:      {EscrowConfirmed, EscrowDisputed},
	EscrowConfirmed:      {EscrowCompleted},
	EscrowDisputed:       {EscrowCompleted, EscrowRefunded},
}

// CanTransitionTo reports whether moving from s to next follows the state graph
func (s EscrowStatus) CanTransitionTo(next EscrowStatus) bool {
	for _, allowed := range escrowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s EscrowStatus) IsTerminal() bool {
	return len(escrowTransitions[s]) == 0
}

type ResolutionType string

const (
	ResolutionRefund        ResolutionType = "refund"
	ResolutionPartialRefund ResolutionType = "partial_refund"
	ResolutionExchange      ResolutionType = "exchange"
	ResolutionNoAction      ResolutionType = "no_action"
)

// Valid reports whether r is a known resolution type
func (r ResolutionType) Valid() bool {
	switch r {
	case ResolutionRefund, ResolutionPartialRefund, ResolutionExchange, ResolutionNoAction:
		return true
	}
	return false
}

type ConfirmationType string

const (
	ConfirmationManual ConfirmationType = "manual"
	ConfirmationAuto   ConfirmationType = "auto"
)

// TrackingInfo identifies a shipment
type TrackingInfo struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
}

// Dispute is the dispute sub-state carried by a transaction once a dispute has been opened.
type Dispute struct {
	OpenedBy         string          `json:"opened_by"`
	Reason           string          `json:"reason"`
	Evidence         []string        `json:"evidence"`
	OpenedAt         time.Time       `json:"opened_at"`
	Resolution       *ResolutionType `json:"resolution,omitempty"`
	ResolutionAmount *int64          `json:"resolution_amount,omitempty"`
	ResolutionNotes  string          `json:"resolution_notes,omitempty"`
	ResolvedBy       string          `json:"resolved_by,omitempty"`
	ResolvedAt       *time.Time      `json:"resolved_at,omitempty"`
}

// EscrowTransaction tracks a purchase from payment through delivery to settlement
type EscrowTransaction struct {
	TransactionID string          `json:"transaction_id"`
	OrderID       string          `json:"order_id"`
	BuyerID       string          `json:"buyer_id"`
	SellerID      string          `json:"seller_id"`
	ProductID     string          `json:"product_id"`
	Amount        int64           `json:"amount"`
	Fee           int64           `json:"fee"`
	FeeRate       decimal.Decimal `json:"fee_rate"`
	NetAmount     int64           `json:"net_amount"`
	Status        EscrowStatus    `json:"status"`
	Tracking      *TrackingInfo   `json:"tracking,omitempty"`
	Dispute       *Dispute        `json:"dispute,omitempty"`
	RefundAmount  int64           `json:"refund_amount,omitempty"`

	PaymentDueAt     time.Time         `json:"payment_due_at"`
	PaidAt           *time.Time        `json:"paid_at,omitempty"`
	ShipByAt         *time.Time        `json:"ship_by_at,omitempty"`
	ShippedAt        *time.Time        `json:"shipped_at,omitempty"`
	DeliveredAt      *time.Time        `json:"delivered_at,omitempty"`
	AutoConfirmAt    *time.Time        `json:"auto_confirm_at,omitempty"`
	ConfirmedAt      *time.Time        `json:"confirmed_at,omitempty"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	RefundedAt       *time.Time        `json:"refunded_at,omitempty"`
	ConfirmationType *ConfirmationType `json:"confirmation_type,omitempty"`

	ShippingOverdueNotified bool `json:"-"`
	PaymentOverdueNotified  bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsParty reports whether userID is the buyer or the seller
func (t EscrowTransaction) IsParty(userID string) bool {
	return userID != "" && (userID == t.BuyerID || userID == t.SellerID)
}

// AuctionOrderPrefix marks order IDs owned by auction settlement. Direct purchases may not use it.
const AuctionOrderPrefix = "auction:"

// AuctionOrderID is the escrow order ID of an auction's sale
func AuctionOrderID(auctionID string) string {
	return AuctionOrderPrefix + auctionID
}

// IsAuctionOrderID reports whether orderID is reserved for auction settlement
func IsAuctionOrderID(orderID string) bool {
	return strings.HasPrefix(orderID, AuctionOrderPrefix)
}

// SameSale reports whether t records the given sale
func (t EscrowTransaction) SameSale(buyerID, sellerID, productID string, amount int64) bool {
	return t.BuyerID == buyerID && t.SellerID == sellerID && t.ProductID == productID && t.Amount == amount
}

// DueForAutoConfirm reports whether the sweep may confirm the transaction at now
func (t EscrowTransaction) DueForAutoConfirm(now time.Time) bool {
	return t.Status == EscrowDelivered && t.Dispute == nil &&
		t.AutoConfirmAt != nil && !now.Before(*t.AutoConfirmAt)
}

// PurchaseConfirmation records how and when a buyer confirmed a purchase
type PurchaseConfirmation struct {
	TransactionID    string           `json:"transaction_id"`
	BuyerID          string           `json:"buyer_id"`
	ConfirmationType ConfirmationType `json:"confirmation_type"`
	Rating           *int             `json:"rating,omitempty"`
	Review           string           `json:"review,omitempty"`
	ConfirmedAt      time.Time        `json:"confirmed_at"`
}
