package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	bidding "marketai/internal/biddingService"
	"marketai/internal/clock"
	"marketai/internal/config"
	escrow "marketai/internal/escrowService"
	"marketai/internal/fees"
	"marketai/internal/metrics"
	"marketai/internal/models"
	penalty "marketai/internal/penaltyService"
	"marketai/internal/repository"
	"marketai/internal/server"
	"marketai/internal/sweeper"
	"marketai/services/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var startTime = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

// recordedEvents collects emitted notifications
type recordedEvents struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recordedEvents) Emit(_ context.Context, e models.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recordedEvents) countFor(typ models.EventType, recipient string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == typ && e.RecipientID == recipient {
			n++
		}
	}
	return n
}

// testEnv is the full service graph on the in-memory store behind the real router
type testEnv struct {
	router  *gin.Engine
	clock   *clock.Manual
	events  *recordedEvents
	sweeper *sweeper.Sweeper
	metrics *metrics.Metrics
}

// SetupTestEnv wires every service the way the serve command does, with a manual clock.
func SetupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	policy := config.DefaultPolicy()
	calc, err := fees.NewCalculator(policy.FeeBands)
	require.NoError(t, err)
	increments, err := fees.NewIncrementTable(policy.IncrementBands)
	require.NoError(t, err)

	env := &testEnv{
		clock:   clock.NewManual(startTime),
		events:  &recordedEvents{},
		metrics: metrics.NewMetrics(),
	}
	repo := repository.NewMemoryRepo()

	penaltySvc := penalty.NewPenaltyService(repo, policy.Penalties,
		penalty.WithClock(env.clock),
		penalty.WithEmitter(env.events),
	)
	escrowSvc := escrow.NewEscrowService(repo, calc, policy.Escrow,
		escrow.WithClock(env.clock),
		escrow.WithEmitter(env.events),
		escrow.WithOffenseRecorder(penaltySvc),
		escrow.WithMetrics(env.metrics),
	)
	biddingSvc := bidding.NewBiddingService(repo, increments,
		bidding.WithClock(env.clock),
		bidding.WithEmitter(env.events),
		bidding.WithStandingChecker(penaltySvc),
		bidding.WithEscrowOpener(escrowSvc),
		bidding.WithMetrics(env.metrics),
		bidding.WithMaxBidsPerUser(policy.Bidding.MaxBidsPerUser),
	)

	env.sweeper = sweeper.New(env.metrics,
		sweeper.Job{Name: "close_auctions", Run: biddingSvc.CloseExpiredAuctions},
		sweeper.Job{Name: "auto_confirm", Run: escrowSvc.AutoConfirmExpiredTransactions},
		sweeper.Job{Name: "shipping_overdue", Run: escrowSvc.FlagOverdueShipments},
		sweeper.Job{Name: "payment_overdue", Run: escrowSvc.FlagOverduePayments},
		sweeper.Job{Name: "penalty_cleanup", Run: penaltySvc.CleanupExpiredPenalties},
	)
	env.router = server.SetupRouter(server.Services{
		Bidding: biddingSvc,
		Escrow:  escrowSvc,
		Penalty: penaltySvc,
		Fees:    calc,
		Metrics: env.metrics,
	})
	return env
}

// ExecuteRequestAndParse executes an HTTP request as userID ("" for anonymous, "admin:<id>" for an
// administrator) and parses the response envelope.
func (e *testEnv) ExecuteRequestAndParse(t *testing.T, userID, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err, "failed to marshal body")
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if adminID, ok := strings.CutPrefix(userID, "admin:"); ok {
		req.Header.Set(helpers.HeaderUserID, adminID)
		req.Header.Set(helpers.HeaderUserRole, "admin")
	} else if userID != "" {
		req.Header.Set(helpers.HeaderUserID, userID)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "failed to unmarshal response")
	}
	return resp, w
}

// data returns the envelope's data object
func data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	d, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", resp)
	return d
}

// createAuction opens an auction by seller that runs for one hour
func (e *testEnv) createAuction(t *testing.T, seller string, req helpers.CreateAuctionRequest) string {
	t.Helper()
	if req.Title == "" {
		req.Title = "Vintage camera"
	}
	if req.StartingPrice == 0 {
		req.StartingPrice = 10000
	}
	if req.EndTime.IsZero() {
		req.EndTime = e.clock.Now().Add(time.Hour)
	}

	resp, w := e.ExecuteRequestAndParse(t, seller, "POST", "/auctions", req)
	require.Equal(t, 201, w.Code, resp)
	return data(t, resp)["auction_id"].(string)
}

// httptestGet returns the raw body of an anonymous GET
func httptestGet(t *testing.T, e *testEnv, url string) string {
	t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest("GET", url, nil))
	require.Equal(t, 200, w.Code)
	return w.Body.String()
}
