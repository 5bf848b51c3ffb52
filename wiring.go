package main

import (
	"context"
	"errors"
	"fmt"

	bidding "marketai/internal/biddingService"
	"marketai/internal/clock"
	"marketai/internal/config"
	escrow "marketai/internal/escrowService"
	"marketai/internal/events"
	"marketai/internal/fees"
	"marketai/internal/metrics"
	penalty "marketai/internal/penaltyService"
	"marketai/internal/repository"
	"marketai/internal/repository/postgres"
	"marketai/internal/server"
	"marketai/internal/sweeper"
	"marketai/utils"

	"github.com/gin-gonic/gin"
)

// store is what every service needs from persistence. Both the in-memory repo and
// the PostgreSQL store satisfy it.
type store interface {
	repository.AuctionDB
	repository.EscrowDB
	repository.PenaltyDB
}

// app holds the wired process components
type app struct {
	cfg        config.Config
	policy     config.Policy
	store      store
	health     func(ctx context.Context) error
	calculator *fees.Calculator
	metrics    *metrics.Metrics
	dispatcher *events.Dispatcher
	publisher  events.Publisher
	bidding    *bidding.BiddingService
	escrow     *escrow.EscrowService
	penalty    *penalty.PenaltyService
	sweeper    *sweeper.Sweeper
	closers    []func() error
}

// newApp builds every component from cfg. Callers must call close.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{cfg: cfg, metrics: metrics.NewMetrics()}
	if err := a.init(ctx); err != nil {
		_ = a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) init(ctx context.Context) error {
	if err := utils.SetLevel(a.cfg.LogLevel); err != nil {
		return err
	}

	var err error
	if a.policy, err = config.LoadPolicy(a.cfg.PolicyFile); err != nil {
		return err
	}
	if a.calculator, err = fees.NewCalculator(a.policy.FeeBands); err != nil {
		return fmt.Errorf("fee bands: %w", err)
	}
	increments, err := fees.NewIncrementTable(a.policy.IncrementBands)
	if err != nil {
		return fmt.Errorf("increment bands: %w", err)
	}

	if err := a.openStore(ctx); err != nil {
		return err
	}
	if a.publisher, err = newPublisher(ctx, a.cfg); err != nil {
		return err
	}
	a.closers = append(a.closers, a.publisher.Close)

	clk := clock.NewSystem()
	a.dispatcher = events.NewDispatcher(a.publisher, a.cfg.EventBuffer, clk)

	a.penalty = penalty.NewPenaltyService(a.store, a.policy.Penalties,
		penalty.WithClock(clk),
		penalty.WithEmitter(a.dispatcher),
	)
	a.escrow = escrow.NewEscrowService(a.store, a.calculator, a.policy.Escrow,
		escrow.WithClock(clk),
		escrow.WithEmitter(a.dispatcher),
		escrow.WithOffenseRecorder(a.penalty),
		escrow.WithMetrics(a.metrics),
	)
	a.bidding = bidding.NewBiddingService(a.store, increments,
		bidding.WithClock(clk),
		bidding.WithEmitter(a.dispatcher),
		bidding.WithStandingChecker(a.penalty),
		bidding.WithEscrowOpener(a.escrow),
		bidding.WithMetrics(a.metrics),
		bidding.WithMaxBidsPerUser(a.policy.Bidding.MaxBidsPerUser),
	)

	a.sweeper = sweeper.New(a.metrics,
		sweeper.Job{Name: "close_auctions", Run: a.bidding.CloseExpiredAuctions},
		sweeper.Job{Name: "auto_confirm", Run: a.escrow.AutoConfirmExpiredTransactions},
		sweeper.Job{Name: "shipping_overdue", Run: a.escrow.FlagOverdueShipments},
		sweeper.Job{Name: "payment_overdue", Run: a.escrow.FlagOverduePayments},
		sweeper.Job{Name: "penalty_cleanup", Run: a.penalty.CleanupExpiredPenalties},
	)
	return nil
}

// openStore selects PostgreSQL when DATABASE_URL is set and the in-memory repo otherwise
func (a *app) openStore(ctx context.Context) error {
	if a.cfg.DatabaseURL == "" {
		utils.Warn("DATABASE_URL not set, using in-memory store; data is lost on exit", nil)
		a.store = repository.NewMemoryRepo()
		return nil
	}

	pg, err := postgres.Open(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, pg.Close)
	if err := pg.Migrate(ctx); err != nil {
		return err
	}
	a.store = pg
	a.health = pg.Ping
	return nil
}

func newPublisher(ctx context.Context, cfg config.Config) (events.Publisher, error) {
	switch cfg.EventSink {
	case config.SinkRedis:
		return events.NewRedisPublisher(ctx, cfg.RedisURL, cfg.RedisChannel)
	case config.SinkKafka:
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return events.LogPublisher{}, nil
	}
}

func (a *app) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	return server.SetupRouter(server.Services{
		Bidding: a.bidding,
		Escrow:  a.escrow,
		Penalty: a.penalty,
		Fees:    a.calculator,
		Metrics: a.metrics,
		Health:  a.health,
	})
}

// close releases resources in reverse order of acquisition
func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
