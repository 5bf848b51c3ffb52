package handler

import (
	"context"
	"fmt"
	"net/http"

	escrow "marketai/internal/escrowService"
	"marketai/internal/fees"
	"marketai/internal/marketerrors"
	"marketai/internal/models"
	"marketai/services/helpers"
	"marketai/utils"

	"github.com/gin-gonic/gin"
)

type EscrowServiceInterface interface {
	CreateTransaction(ctx context.Context, in escrow.CreateTransactionInput) (models.EscrowTransaction, error)
	GetTransaction(ctx context.Context, transactionID, actorID string, isAdmin bool) (models.EscrowTransaction, error)
	ListTransactionsForUser(ctx context.Context, userID string) ([]models.EscrowTransaction, error)
	ConfirmPayment(ctx context.Context, transactionID, actorID string) (models.EscrowTransaction, error)
	MarkShipped(ctx context.Context, transactionID, actorID string, tracking models.TrackingInfo) (models.EscrowTransaction, error)
	MarkDelivered(ctx context.Context, transactionID, actorID string) (models.EscrowTransaction, error)
	ConfirmPurchase(ctx context.Context, transactionID, actorID string, in escrow.ConfirmPurchaseInput) (models.EscrowTransaction, error)
	OpenDispute(ctx context.Context, transactionID, actorID string, in escrow.OpenDisputeInput) (models.EscrowTransaction, error)
	ResolveDispute(ctx context.Context, transactionID, actorID string, isAdmin bool, in escrow.ResolveDisputeInput) (models.EscrowTransaction, error)
}

type EscrowHandler struct {
	service EscrowServiceInterface
}

func NewEscrowHandler(service EscrowServiceInterface) *EscrowHandler {
	return &EscrowHandler{service: service}
}

// CreateTransactionHandler handles POST /escrow for direct purchases. The caller is the buyer.
func (h *EscrowHandler) CreateTransactionHandler(c *gin.Context) {
	buyerID, _, ok := helpers.RequireActor(c, "CreateTransactionHandler")
	if !ok {
		return
	}

	var req helpers.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateTransactionHandler", err)
		return
	}

	amount, err := fees.ParseAmount(req.Amount)
	if err != nil {
		helpers.RespondError(c, "CreateTransactionHandler", "invalid amount", err, map[string]any{"order_id": req.OrderID})
		return
	}

	tx, err := h.service.CreateTransaction(c.Request.Context(), escrow.CreateTransactionInput{
		OrderID:   req.OrderID,
		BuyerID:   buyerID,
		SellerID:  req.SellerID,
		ProductID: req.ProductID,
		Amount:    amount,
	})
	if err != nil {
		helpers.RespondError(c, "CreateTransactionHandler", "failed to create escrow", err, map[string]any{
			"order_id": req.OrderID,
			"buyer_id": buyerID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, tx, "escrow created successfully")
	helpers.LogSuccess("CreateTransactionHandler", "escrow created successfully", map[string]any{
		"transaction_id": tx.TransactionID,
		"order_id":       tx.OrderID,
		"amount":         tx.Amount,
		"fee":            tx.Fee,
	})
}

// GetTransactionHandler handles GET /escrow/:transaction_id
func (h *EscrowHandler) GetTransactionHandler(c *gin.Context) {
	actorID, isAdmin, ok := helpers.RequireActor(c, "GetTransactionHandler")
	if !ok {
		return
	}
	transactionID := c.Param("transaction_id")

	tx, err := h.service.GetTransaction(c.Request.Context(), transactionID, actorID, isAdmin)
	if err != nil {
		helpers.RespondError(c, "GetTransactionHandler", "error retrieving escrow", err, map[string]any{"transaction_id": transactionID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, tx, "escrow retrieved successfully")
}

// ListUserTransactionsHandler handles GET /users/:user_id/escrow. Users see only their own.
func (h *EscrowHandler) ListUserTransactionsHandler(c *gin.Context) {
	actorID, isAdmin, ok := helpers.RequireActor(c, "ListUserTransactionsHandler")
	if !ok {
		return
	}
	userID := c.Param("user_id")
	if userID != actorID && !isAdmin {
		err := fmt.Errorf("user %s listing escrow of %s: %w", actorID, userID, marketerrors.ErrPermissionDenied)
		helpers.RespondError(c, "ListUserTransactionsHandler", "access denied", err, map[string]any{"user_id": userID})
		return
	}

	txs, err := h.service.ListTransactionsForUser(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondError(c, "ListUserTransactionsHandler", "error listing escrow", err, map[string]any{"user_id": userID})
		return
	}
	if txs == nil {
		txs = []models.EscrowTransaction{}
	}

	utils.JSONResponse(c, http.StatusOK, txs, "escrow retrieved successfully")
	helpers.LogSuccess("ListUserTransactionsHandler", "escrow retrieved successfully", map[string]any{
		"user_id": userID,
		"count":   len(txs),
	})
}

// ConfirmPaymentHandler handles POST /escrow/:transaction_id/payment
func (h *EscrowHandler) ConfirmPaymentHandler(c *gin.Context) {
	actorID, _, ok := helpers.RequireActor(c, "ConfirmPaymentHandler")
	if !ok {
		return
	}
	tx, err := h.service.ConfirmPayment(c.Request.Context(), c.Param("transaction_id"), actorID)
	h.respond(c, "ConfirmPaymentHandler", "payment confirmed successfully", tx, err)
}

// MarkShippedHandler handles POST /escrow/:transaction_id/shipment
func (h *EscrowHandler) MarkShippedHandler(c *gin.Context) {
	actorID, _, ok := helpers.RequireActor(c, "MarkShippedHandler")
	if !ok {
		return
	}

	var req helpers.ShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "MarkShippedHandler", err)
		return
	}

	tx, err := h.service.MarkShipped(c.Request.Context(), c.Param("transaction_id"), actorID, models.TrackingInfo{
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
	})
	h.respond(c, "MarkShippedHandler", "shipment recorded successfully", tx, err)
}

// MarkDeliveredHandler handles POST /escrow/:transaction_id/delivery
func (h *EscrowHandler) MarkDeliveredHandler(c *gin.Context) {
	actorID, _, ok := helpers.RequireActor(c, "MarkDeliveredHandler")
	if !ok {
		return
	}
	tx, err := h.service.MarkDelivered(c.Request.Context(), c.Param("transaction_id"), actorID)
	h.respond(c, "MarkDeliveredHandler", "delivery recorded successfully", tx, err)
}

// ConfirmPurchaseHandler handles POST /escrow/:transaction_id/confirmation. The body is optional.
func (h *EscrowHandler) ConfirmPurchaseHandler(c *gin.Context) {
	actorID, _, ok := helpers.RequireActor(c, "ConfirmPurchaseHandler")
	if !ok {
		return
	}

	var req helpers.ConfirmPurchaseRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			helpers.HandleBindError(c, "ConfirmPurchaseHandler", err)
			return
		}
	}

	tx, err := h.service.ConfirmPurchase(c.Request.Context(), c.Param("transaction_id"), actorID, escrow.ConfirmPurchaseInput{
		Rating: req.Rating,
		Review: req.Review,
	})
	h.respond(c, "ConfirmPurchaseHandler", "purchase confirmed successfully", tx, err)
}

// OpenDisputeHandler handles POST /escrow/:transaction_id/dispute
func (h *EscrowHandler) OpenDisputeHandler(c *gin.Context) {
	actorID, _, ok := helpers.RequireActor(c, "OpenDisputeHandler")
	if !ok {
		return
	}

	var req helpers.OpenDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "OpenDisputeHandler", err)
		return
	}

	tx, err := h.service.OpenDispute(c.Request.Context(), c.Param("transaction_id"), actorID, escrow.OpenDisputeInput{
		Reason:   req.Reason,
		Evidence: req.Evidence,
	})
	h.respond(c, "OpenDisputeHandler", "dispute opened successfully", tx, err)
}

// ResolveDisputeHandler handles POST /escrow/:transaction_id/resolution (admin only)
func (h *EscrowHandler) ResolveDisputeHandler(c *gin.Context) {
	adminID, ok := helpers.RequireAdmin(c, "ResolveDisputeHandler")
	if !ok {
		return
	}

	var req helpers.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ResolveDisputeHandler", err)
		return
	}

	in := escrow.ResolveDisputeInput{
		Resolution: models.ResolutionType(req.Resolution),
		Notes:      req.Notes,
	}
	if req.Amount != nil {
		amount, err := fees.ParseAmount(*req.Amount)
		if err != nil {
			helpers.RespondError(c, "ResolveDisputeHandler", "invalid refund amount", err, nil)
			return
		}
		in.Amount = &amount
	}

	tx, err := h.service.ResolveDispute(c.Request.Context(), c.Param("transaction_id"), adminID, true, in)
	h.respond(c, "ResolveDisputeHandler", "dispute resolved successfully", tx, err)
}

// respond finishes a state transition request
func (h *EscrowHandler) respond(c *gin.Context, handlerName, message string, tx models.EscrowTransaction, err error) {
	transactionID := c.Param("transaction_id")
	if err != nil {
		helpers.RespondError(c, handlerName, "transition failed", err, map[string]any{"transaction_id": transactionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, tx, message)
	helpers.LogSuccess(handlerName, message, map[string]any{
		"transaction_id": transactionID,
		"status":         tx.Status,
	})
}
