package bidding

import (
	"context"
	"errors"
	"fmt"

	"marketai/internal/marketerrors"
	"marketai/internal/models"
	"marketai/utils"
)

type settlement struct {
	auction models.Auction
	winner  *models.Bid
	escrow  *models.EscrowTransaction
}

// CloseExpiredAuctions starts upcoming auctions whose start time passed, ends active auctions
// whose end time passed, and settles every ended auction not settled yet. Safe to re-run.
func (s *BiddingService) CloseExpiredAuctions(ctx context.Context) (models.SweepResult, error) {
	var result models.SweepResult

	upcoming, err := s.repo.ListAuctionsByStatus(ctx, models.AuctionStatusUpcoming)
	if err != nil {
		return result, fmt.Errorf("service: failed to list upcoming auctions: %w", err)
	}
	now := s.clock.Now()
	for _, a := range upcoming {
		if now.Before(a.StartTime) {
			continue
		}
		result.Add(s.sweepOne(ctx, "activate", a.AuctionID, s.advance))
	}

	active, err := s.repo.ListAuctionsByStatus(ctx, models.AuctionStatusActive)
	if err != nil {
		return result, fmt.Errorf("service: failed to list active auctions: %w", err)
	}
	for _, a := range active {
		if now.Before(a.EndTime) {
			continue
		}
		result.Add(s.sweepOne(ctx, "end", a.AuctionID, s.advance))
	}

	ended, err := s.repo.ListAuctionsByStatus(ctx, models.AuctionStatusEnded)
	if err != nil {
		return result, fmt.Errorf("service: failed to list ended auctions: %w", err)
	}
	for _, a := range ended {
		if a.Settled {
			continue
		}
		result.Add(s.sweepOne(ctx, "settle", a.AuctionID, func(ctx context.Context, id string) error {
			_, err := s.settle(ctx, id)
			return err
		}))
	}

	return result, nil
}

func (s *BiddingService) sweepOne(ctx context.Context, step, auctionID string, fn func(context.Context, string) error) models.SweepResult {
	if err := fn(ctx, auctionID); err != nil {
		utils.Error("service: auction sweep failed for record", map[string]any{
			"step":       step,
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return models.SweepResult{Processed: 1, Failed: 1}
	}
	return models.SweepResult{Processed: 1, Succeeded: 1}
}

// advance moves an auction along upcoming -> active -> ended according to the clock
func (s *BiddingService) advance(ctx context.Context, auctionID string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetAuctionForUpdate(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
		}

		now := s.clock.Now()
		next := a.Status
		if next == models.AuctionStatusUpcoming && !now.Before(a.StartTime) {
			next = models.AuctionStatusActive
		}
		if next == models.AuctionStatusActive && !now.Before(a.EndTime) {
			next = models.AuctionStatusEnded
		}
		if next == a.Status {
			return nil
		}

		a.Status = next
		a.UpdatedAt = now
		if err := s.repo.UpdateAuction(ctx, a); err != nil {
			return fmt.Errorf("service: failed to move auction %s to %s: %w", auctionID, next, err)
		}
		return nil
	})
}

// settle acts on the outcome of an ended auction exactly once: it opens escrow for the
// winner when the reserve is met and notifies both parties.
func (s *BiddingService) settle(ctx context.Context, auctionID string) (bool, error) {
	var st *settlement
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetAuctionForUpdate(ctx, auctionID)
		if err != nil {
			return fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
		}
		if a.Status != models.AuctionStatusEnded || a.Settled {
			return nil
		}

		result := settlement{}
		winner, err := s.repo.GetWinningBid(ctx, auctionID)
		switch {
		case err == nil && a.ReserveMet():
			result.winner = &winner
			a.WinnerID = winner.BidderID
			tx, err := s.openEscrow(ctx, a, winner)
			if err != nil {
				return err
			}
			result.escrow = tx
		case err == nil:
			a.WinnerID = ""
		case errors.Is(err, marketerrors.ErrNoBids):
		default:
			return fmt.Errorf("service: failed to load winning bid of auction %s: %w", auctionID, err)
		}

		a.Settled = true
		a.UpdatedAt = s.clock.Now()
		if err := s.repo.UpdateAuction(ctx, a); err != nil {
			return fmt.Errorf("service: failed to settle auction %s: %w", auctionID, err)
		}
		result.auction = a
		st = &result
		return nil
	})
	if err != nil || st == nil {
		return false, err
	}

	s.notifySettlement(ctx, *st)
	return true, nil
}

func (s *BiddingService) openEscrow(ctx context.Context, a models.Auction, winner models.Bid) (*models.EscrowTransaction, error) {
	if s.escrow == nil {
		return nil, nil
	}
	tx, err := s.escrow.OpenEscrow(ctx, models.AuctionOrderID(a.AuctionID), winner.BidderID, a.SellerID, a.AuctionID, winner.Amount)
	if err != nil {
		return nil, fmt.Errorf("service: failed to open escrow for auction %s: %w", a.AuctionID, err)
	}
	return &tx, nil
}

func (s *BiddingService) notifySettlement(ctx context.Context, st settlement) {
	a := st.auction
	if st.winner == nil {
		s.events.Emit(ctx, models.Event{
			Type:        models.EventAuctionUnsold,
			RecipientID: a.SellerID,
			AggregateID: a.AuctionID,
			Data: map[string]any{
				"bid_count":     a.BidCount,
				"reserve_met":   a.BidCount > 0 && a.ReserveMet(),
				"current_price": a.CurrentPrice,
			},
		})
		return
	}

	data := map[string]any{
		"final_price": st.winner.Amount,
		"winner_id":   st.winner.BidderID,
	}
	if st.escrow != nil {
		data["transaction_id"] = st.escrow.TransactionID
		data["payment_due_at"] = st.escrow.PaymentDueAt
	}

	s.events.Emit(ctx, models.Event{
		Type:        models.EventAuctionWon,
		RecipientID: st.winner.BidderID,
		AggregateID: a.AuctionID,
		Data:        data,
	})
	s.events.Emit(ctx, models.Event{
		Type:        models.EventAuctionSold,
		RecipientID: a.SellerID,
		AggregateID: a.AuctionID,
		Data:        data,
	})
}
