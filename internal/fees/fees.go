package fees

import (
	"fmt"
	"math"

	"marketai/internal/config"
	"marketai/internal/marketerrors"
	"marketai/internal/models"

	"github.com/shopspring/decimal"
)

// Band charges Rate on amounts in [Min, Max). Max nil means unbounded.
type Band struct {
	Min         int64
	Max         *int64
	Rate        decimal.Decimal
	Description string
}

func (b Band) contains(amount int64) bool {
	return amount >= b.Min && (b.Max == nil || amount < *b.Max)
}

// Calculator computes tiered commissions. It is immutable and safe for concurrent use.
type Calculator struct {
	bands []Band
}

// NewCalculator builds a calculator from policy fee bands
func NewCalculator(policyBands []config.FeeBand) (*Calculator, error) {
	bands := make([]Band, 0, len(policyBands))
	for i, pb := range policyBands {
		rate, err := decimal.NewFromString(pb.Rate)
		if err != nil {
			return nil, fmt.Errorf("fees: band %d rate %q: %w", i, pb.Rate, err)
		}
		bands = append(bands, Band{Min: pb.Min, Max: pb.Max, Rate: rate, Description: pb.Description})
	}
	if len(bands) == 0 || bands[0].Min != 0 || bands[len(bands)-1].Max != nil {
		return nil, fmt.Errorf("fees: %w - bands must cover [0, inf)", marketerrors.ErrInvalidInput)
	}
	for i := 1; i < len(bands); i++ {
		if bands[i-1].Max == nil || *bands[i-1].Max != bands[i].Min {
			return nil, fmt.Errorf("fees: %w - band %d is not contiguous with band %d", marketerrors.ErrInvalidInput, i, i-1)
		}
	}
	return &Calculator{bands: bands}, nil
}

// Calculate returns the fee for a sale amount: fee = floor(amount * rate), net = amount - fee
func (c *Calculator) Calculate(amount int64) (models.FeeQuote, error) {
	if amount < 0 {
		return models.FeeQuote{}, fmt.Errorf("fees: %w - negative amount %d", marketerrors.ErrInvalidInput, amount)
	}

	band, ok := c.bandFor(amount)
	if !ok {
		return models.FeeQuote{}, fmt.Errorf("fees: %w - no band for amount %d", marketerrors.ErrInvalidInput, amount)
	}

	fee := decimal.NewFromInt(amount).Mul(band.Rate).Floor().IntPart()

	return models.FeeQuote{
		Amount:      amount,
		Fee:         fee,
		FeeRate:     band.Rate,
		NetAmount:   amount - fee,
		Description: band.Description,
	}, nil
}

// Bands returns a copy of the configured bands
func (c *Calculator) Bands() []Band {
	return append([]Band(nil), c.bands...)
}

func (c *Calculator) bandFor(amount int64) (Band, bool) {
	for _, b := range c.bands {
		if b.contains(amount) {
			return b, true
		}
	}
	return Band{}, false
}

// ParseAmount converts an externally supplied number into whole currency units.
// NaN, infinities, negative and fractional values are rejected.
func ParseAmount(v float64) (int64, error) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0, fmt.Errorf("fees: %w - amount is not finite", marketerrors.ErrInvalidInput)
	case v < 0:
		return 0, fmt.Errorf("fees: %w - negative amount", marketerrors.ErrInvalidInput)
	case v != math.Trunc(v):
		return 0, fmt.Errorf("fees: %w - amount must be whole currency units", marketerrors.ErrInvalidInput)
	case v > math.MaxInt64/2:
		return 0, fmt.Errorf("fees: %w - amount too large", marketerrors.ErrInvalidInput)
	}
	return int64(v), nil
}
