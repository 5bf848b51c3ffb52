package server

import (
	"context"
	"net/http"
	"time"

	"marketai/internal/marketerrors"
	"marketai/internal/metrics"
	biddinghandler "marketai/services/bidding/handler"
	escrowhandler "marketai/services/escrow/handler"
	feeshandler "marketai/services/fees/handler"
	penaltyhandler "marketai/services/penalty/handler"
	"marketai/utils"

	"github.com/gin-gonic/gin"
)

// Services are the dependencies served over HTTP
type Services struct {
	Bidding biddinghandler.BiddingServiceInterface
	Escrow  escrowhandler.EscrowServiceInterface
	Penalty penaltyhandler.PenaltyServiceInterface
	Fees    feeshandler.FeeCalculatorInterface
	Metrics *metrics.Metrics
	// Health reports whether the backing store is reachable; nil means always healthy
	Health func(ctx context.Context) error
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(svc Services) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	if svc.Metrics != nil {
		router.Use(MetricsMiddleware(svc.Metrics))
		router.GET("/metrics", gin.WrapH(svc.Metrics.Handler()))
	}
	router.GET("/health", healthHandler(svc.Health))

	biddingHandler := biddinghandler.NewBiddingHandler(svc.Bidding)
	escrowHandler := escrowhandler.NewEscrowHandler(svc.Escrow)
	penaltyHandler := penaltyhandler.NewPenaltyHandler(svc.Penalty)
	feesHandler := feeshandler.NewFeesHandler(svc.Fees)

	auctions := router.Group("/auctions")
	{
		auctions.POST("", biddingHandler.CreateAuctionHandler)
		auctions.GET("", biddingHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", biddingHandler.GetAuctionHandler)
		auctions.POST("/:auction_id/bids", biddingHandler.PlaceBidHandler)
		auctions.GET("/:auction_id/bids", biddingHandler.GetBidsByAuctionHandler)
		auctions.GET("/:auction_id/winning", biddingHandler.GetWinningBidHandler)
		auctions.POST("/:auction_id/watchers", biddingHandler.WatchAuctionHandler)
		auctions.POST("/:auction_id/cancel", biddingHandler.CancelAuctionHandler)
		auctions.POST("/:auction_id/end", biddingHandler.EndAuctionHandler)
	}

	escrow := router.Group("/escrow")
	{
		escrow.POST("", escrowHandler.CreateTransactionHandler)
		escrow.GET("/:transaction_id", escrowHandler.GetTransactionHandler)
		escrow.POST("/:transaction_id/payment", escrowHandler.ConfirmPaymentHandler)
		escrow.POST("/:transaction_id/shipment", escrowHandler.MarkShippedHandler)
		escrow.POST("/:transaction_id/delivery", escrowHandler.MarkDeliveredHandler)
		escrow.POST("/:transaction_id/confirmation", escrowHandler.ConfirmPurchaseHandler)
		escrow.POST("/:transaction_id/dispute", escrowHandler.OpenDisputeHandler)
		escrow.POST("/:transaction_id/resolution", escrowHandler.ResolveDisputeHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/auctions", biddingHandler.GetAuctionsByUserHandler)
		users.GET("/:user_id/escrow", escrowHandler.ListUserTransactionsHandler)
		users.POST("/:user_id/offenses", penaltyHandler.RecordOffenseHandler)
		users.GET("/:user_id/penalties", penaltyHandler.ListPenaltiesHandler)
		users.GET("/:user_id/standing", penaltyHandler.GetStandingHandler)
	}

	router.GET("/fees/quote", feesHandler.QuoteHandler)

	return router
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				utils.JSONError(c, http.StatusServiceUnavailable, marketerrors.Code(err), err, "store unavailable")
				utils.Error("health check failed", map[string]any{"error": err.Error()})
				return
			}
		}
		utils.JSONResponse(c, http.StatusOK, gin.H{"status": "ok"}, "healthy")
	}
}
