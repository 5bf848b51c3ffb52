package models

import "time"

type EventType string

const (
	EventBidPlaced         EventType = "bid_placed"
	EventOutbid            EventType = "outbid"
	EventAuctionWon        EventType = "auction_won"
	EventAuctionSold       EventType = "auction_sold"
	EventAuctionUnsold     EventType = "auction_unsold"
	EventPaymentConfirmed  EventType = "payment_confirmed"
	EventItemShipped       EventType = "item_shipped"
	EventItemDelivered     EventType = "item_delivered"
	EventPurchaseConfirmed EventType = "purchase_confirmed"
	EventDisputeOpened     EventType = "dispute_opened"
	EventDisputeResolved   EventType = "dispute_resolved"
	EventShippingOverdue   EventType = "shipping_overdue"
	EventPaymentOverdue    EventType = "payment_overdue"
	EventPenaltyApplied    EventType = "penalty_applied"
)

// Event is a notification for the external notification/chat service
type Event struct {
	EventID     string         `json:"event_id"`
	Type        EventType      `json:"type"`
	RecipientID string         `json:"recipient_id"`
	AggregateID string         `json:"aggregate_id"` // auction, transaction or user the event concerns
	Data        map[string]any `json:"data,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}
