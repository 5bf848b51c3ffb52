package fees

import (
	"fmt"

	"marketai/internal/config"
	"marketai/internal/marketerrors"
)

type incrementBand struct {
	min       int64
	max       *int64
	increment int64
}

// IncrementTable gives the minimum raise over a current price
type IncrementTable struct {
	bands []incrementBand
}

// NewIncrementTable builds the table from policy increment bands
func NewIncrementTable(policyBands []config.IncrementBand) (*IncrementTable, error) {
	if len(policyBands) == 0 {
		return nil, fmt.Errorf("fees: %w - empty increment table", marketerrors.ErrInvalidInput)
	}
	bands := make([]incrementBand, 0, len(policyBands))
	for _, pb := range policyBands {
		if pb.Increment <= 0 {
			return nil, fmt.Errorf("fees: %w - increment must be positive", marketerrors.ErrInvalidInput)
		}
		bands = append(bands, incrementBand{min: pb.Min, max: pb.Max, increment: pb.Increment})
	}
	return &IncrementTable{bands: bands}, nil
}

// MinimumIncrement returns the smallest accepted raise when the price stands at currentPrice
func (t *IncrementTable) MinimumIncrement(currentPrice int64) int64 {
	for _, b := range t.bands {
		if currentPrice >= b.min && (b.max == nil || currentPrice < *b.max) {
			return b.increment
		}
	}
	return t.bands[len(t.bands)-1].increment
}
