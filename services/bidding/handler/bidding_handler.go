package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	bidding "marketai/internal/biddingService"
	"marketai/internal/fees"
	"marketai/internal/marketerrors"
	"marketai/internal/models"
	"marketai/services/helpers"
	"marketai/utils"

	"github.com/gin-gonic/gin"
)

type BiddingServiceInterface interface {
	CreateAuction(ctx context.Context, in bidding.CreateAuctionInput) (models.Auction, error)
	ListAuctions(ctx context.Context, status models.AuctionStatus) ([]models.Auction, error)
	GetAuction(ctx context.Context, auctionID string) (models.Auction, error)
	PlaceBid(ctx context.Context, auctionID, bidderID string, amount int64) (models.Bid, error)
	GetBidsForAuction(ctx context.Context, auctionID string) ([]models.Bid, error)
	GetWinningBid(ctx context.Context, auctionID string) (models.Bid, error)
	WatchAuction(ctx context.Context, auctionID, userID string) error
	CancelAuction(ctx context.Context, auctionID, sellerID string) (models.Auction, error)
	EndAuction(ctx context.Context, auctionID, actorID string, isAdmin bool) (models.Auction, error)
	GetAuctionsByBidder(ctx context.Context, bidderID string) ([]models.Auction, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// CreateAuctionHandler handles POST /auctions. The caller becomes the seller.
func (h *BiddingHandler) CreateAuctionHandler(c *gin.Context) {
	sellerID, _, ok := helpers.RequireActor(c, "CreateAuctionHandler")
	if !ok {
		return
	}

	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	in, err := createAuctionInput(req, sellerID)
	if err != nil {
		helpers.RespondError(c, "CreateAuctionHandler", "invalid auction prices", err, map[string]any{"seller_id": sellerID})
		return
	}

	auction, err := h.service.CreateAuction(c.Request.Context(), in)
	if err != nil {
		helpers.RespondError(c, "CreateAuctionHandler", "failed to create auction", err, map[string]any{"seller_id": sellerID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, auction, "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.AuctionID,
		"seller_id":  sellerID,
		"status":     auction.Status,
	})
}

func createAuctionInput(req helpers.CreateAuctionRequest, sellerID string) (bidding.CreateAuctionInput, error) {
	starting, err := fees.ParseAmount(req.StartingPrice)
	if err != nil {
		return bidding.CreateAuctionInput{}, fmt.Errorf("starting_price: %w", err)
	}
	in := bidding.CreateAuctionInput{
		Title:         req.Title,
		Description:   req.Description,
		SellerID:      sellerID,
		StartingPrice: starting,
		EndTime:       req.EndTime,
	}
	if req.StartTime != nil {
		in.StartTime = *req.StartTime
	}
	if in.BuyNowPrice, err = optionalAmount(req.BuyNowPrice); err != nil {
		return bidding.CreateAuctionInput{}, fmt.Errorf("buy_now_price: %w", err)
	}
	if in.ReservePrice, err = optionalAmount(req.ReservePrice); err != nil {
		return bidding.CreateAuctionInput{}, fmt.Errorf("reserve_price: %w", err)
	}
	return in, nil
}

func optionalAmount(v *float64) (*int64, error) {
	if v == nil {
		return nil, nil
	}
	amount, err := fees.ParseAmount(*v)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}

// ListAuctionsHandler handles GET /auctions?status=active
func (h *BiddingHandler) ListAuctionsHandler(c *gin.Context) {
	status := models.AuctionStatus(c.DefaultQuery("status", string(models.AuctionStatusActive)))
	auctions, err := h.service.ListAuctions(c.Request.Context(), status)
	if err != nil {
		helpers.RespondError(c, "ListAuctionsHandler", "error listing auctions", err, map[string]any{"status": status})
		return
	}

	if auctions == nil {
		auctions = []models.Auction{}
	}

	utils.JSONResponse(c, http.StatusOK, auctions, "auctions retrieved successfully")
	helpers.LogSuccess("ListAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"status": status,
		"count":  len(auctions),
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *BiddingHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.service.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		helpers.RespondError(c, "GetAuctionHandler", "error retrieving auction", err, map[string]any{"auction_id": auctionID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, auction, "auction retrieved successfully")
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids. A rejected bid still answers with
// a bid result whose accepted flag is false.
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bidderID, _, ok := helpers.RequireActor(c, "PlaceBidHandler")
	if !ok {
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	amount, err := fees.ParseAmount(req.Amount)
	if err == nil {
		var bid models.Bid
		bid, err = h.service.PlaceBid(c.Request.Context(), auctionID, bidderID, amount)
		if err == nil {
			resp := helpers.NewBidResponse(bid)
			utils.JSONResponse(c, http.StatusCreated, resp, "bid recorded successfully")
			helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
				"bid_id":     bid.BidID,
				"auction_id": auctionID,
				"bidder_id":  bidderID,
				"amount":     bid.Amount,
			})
			return
		}
	}

	status, code, message := helpers.MapErrorToHTTP(err)
	rejected := helpers.BidResponse{
		Accepted:  false,
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		Code:      code,
		Reason:    err.Error(),
	}
	utils.JSONErrorWithData(c, status, code, fmt.Errorf("%s: %w", message, err), message, rejected)

	fields := map[string]any{
		"handler":    "PlaceBidHandler",
		"auction_id": auctionID,
		"bidder_id":  bidderID,
		"code":       code,
		"error":      err.Error(),
	}
	if status >= http.StatusInternalServerError {
		utils.Error("PlaceBidHandler: failed to record bid", fields)
		return
	}
	utils.Warn("PlaceBidHandler: bid rejected", fields)
}

// GetBidsByAuctionHandler handles GET /auctions/:auction_id/bids
func (h *BiddingHandler) GetBidsByAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bids, err := h.service.GetBidsForAuction(c.Request.Context(), auctionID)
	if err != nil && !errors.Is(err, marketerrors.ErrNoBids) {
		helpers.RespondError(c, "GetBidsByAuctionHandler", "error retrieving bids", err, map[string]any{"auction_id": auctionID})
		return
	}

	if bids == nil {
		bids = []models.Bid{}
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByAuctionHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(bids),
	})
}

// GetWinningBidHandler handles GET /auctions/:auction_id/winning
func (h *BiddingHandler) GetWinningBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bid, err := h.service.GetWinningBid(c.Request.Context(), auctionID)
	if err != nil {
		if errors.Is(err, marketerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, marketerrors.CodeNotFound, err, "no winning bid found")
			utils.Info("GetWinningBidHandler: no winning bid found", map[string]any{"auction_id": auctionID})
			return
		}
		helpers.RespondError(c, "GetWinningBidHandler", "winning bid error", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": auctionID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount,
	})
}

// WatchAuctionHandler handles POST /auctions/:auction_id/watchers
func (h *BiddingHandler) WatchAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	userID, _, ok := helpers.RequireActor(c, "WatchAuctionHandler")
	if !ok {
		return
	}

	if err := h.service.WatchAuction(c.Request.Context(), auctionID, userID); err != nil {
		helpers.RespondError(c, "WatchAuctionHandler", "failed to watch auction", err, map[string]any{
			"auction_id": auctionID,
			"user_id":    userID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"auction_id": auctionID, "user_id": userID}, "auction watched successfully")
	helpers.LogSuccess("WatchAuctionHandler", "auction watched successfully", map[string]any{
		"auction_id": auctionID,
		"user_id":    userID,
	})
}

// CancelAuctionHandler handles POST /auctions/:auction_id/cancel
func (h *BiddingHandler) CancelAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	sellerID, _, ok := helpers.RequireActor(c, "CancelAuctionHandler")
	if !ok {
		return
	}

	auction, err := h.service.CancelAuction(c.Request.Context(), auctionID, sellerID)
	if err != nil {
		helpers.RespondError(c, "CancelAuctionHandler", "failed to cancel auction", err, map[string]any{
			"auction_id": auctionID,
			"seller_id":  sellerID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, auction, "auction cancelled successfully")
	helpers.LogSuccess("CancelAuctionHandler", "auction cancelled successfully", map[string]any{"auction_id": auctionID})
}

// EndAuctionHandler handles POST /auctions/:auction_id/end
func (h *BiddingHandler) EndAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	actorID, isAdmin, ok := helpers.RequireActor(c, "EndAuctionHandler")
	if !ok {
		return
	}

	auction, err := h.service.EndAuction(c.Request.Context(), auctionID, actorID, isAdmin)
	if err != nil {
		helpers.RespondError(c, "EndAuctionHandler", "failed to end auction", err, map[string]any{
			"auction_id": auctionID,
			"actor_id":   actorID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, auction, "auction ended successfully")
	helpers.LogSuccess("EndAuctionHandler", "auction ended successfully", map[string]any{
		"auction_id": auctionID,
		"winner_id":  auction.WinnerID,
	})
}

// GetAuctionsByUserHandler handles GET /users/:user_id/auctions
func (h *BiddingHandler) GetAuctionsByUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	auctions, err := h.service.GetAuctionsByBidder(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, marketerrors.ErrUserNoBids) {
		helpers.RespondError(c, "GetAuctionsByUserHandler", "error retrieving auctions", err, map[string]any{"user_id": userID})
		return
	}

	if auctions == nil {
		auctions = []models.Auction{}
	}

	utils.JSONResponse(c, http.StatusOK, auctions, "auctions retrieved successfully")
	helpers.LogSuccess("GetAuctionsByUserHandler", "auctions retrieved successfully", map[string]any{
		"user_id":        userID,
		"auctions_count": len(auctions),
	})
}
