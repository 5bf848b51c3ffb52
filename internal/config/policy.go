package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default_policy.yaml
var defaultPolicy []byte

// Policy is the versioned set of marketplace business rules
type Policy struct {
	Version        string          `yaml:"version" validate:"required"`
	FeeBands       []FeeBand       `yaml:"fee_bands" validate:"required,min=1,dive"`
	IncrementBands []IncrementBand `yaml:"increment_bands" validate:"required,min=1,dive"`
	Bidding        BiddingPolicy   `yaml:"bidding"`
	Escrow         EscrowPolicy    `yaml:"escrow"`
	Penalties      PenaltyPolicy   `yaml:"penalties"`
}

// FeeBand applies Rate to amounts in [Min, Max). A nil Max means unbounded.
type FeeBand struct {
	Min         int64  `yaml:"min" validate:"gte=0"`
	Max         *int64 `yaml:"max"`
	Rate        string `yaml:"rate" validate:"required,numeric"`
	Description string `yaml:"description"`
}

// IncrementBand sets the minimum raise for current prices in [Min, Max)
type IncrementBand struct {
	Min       int64  `yaml:"min" validate:"gte=0"`
	Max       *int64 `yaml:"max"`
	Increment int64  `yaml:"increment" validate:"gt=0"`
}

type BiddingPolicy struct {
	MaxBidsPerUser int `yaml:"max_bids_per_user" validate:"gt=0"`
}

type EscrowPolicy struct {
	AutoConfirmWindow time.Duration `yaml:"auto_confirm_window" validate:"gt=0"`
	PaymentDeadline   time.Duration `yaml:"payment_deadline" validate:"gt=0"`
	ShippingSLA       time.Duration `yaml:"shipping_sla" validate:"gt=0"`
}

type PenaltyPolicy struct {
	WindowMonths int                   `yaml:"window_months" validate:"gt=0"`
	Tiers        map[string]TierPolicy `yaml:"tiers" validate:"required,min=1,dive"`
	Escalation   map[string][]string   `yaml:"escalation" validate:"required,min=1,dive,min=1"`
}

// TierPolicy describes a sanction. Duration zero with Restricts is a permanent ban;
// Duration zero without Restricts is a warning that never expires.
type TierPolicy struct {
	Duration  time.Duration `yaml:"duration" validate:"gte=0"`
	Restricts bool          `yaml:"restricts"`
}

// LoadPolicy reads the policy at path, or the embedded default when path is empty
func LoadPolicy(path string) (Policy, error) {
	data := defaultPolicy
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return Policy{}, fmt.Errorf("config: read policy %s: %w", path, err)
		}
	}
	return ParsePolicy(data)
}

// DefaultPolicy returns the embedded policy. It panics if the embedded file is invalid.
func DefaultPolicy() Policy {
	p, err := ParsePolicy(defaultPolicy)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePolicy decodes and validates a YAML policy document
func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("config: decode policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate checks field constraints and that band tables partition [0, inf)
func (p Policy) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return fmt.Errorf("config: invalid policy: %w", err)
	}

	feeRanges := make([]bandRange, len(p.FeeBands))
	prevRate := decimal.NewFromInt(1)
	for i, b := range p.FeeBands {
		rate, err := decimal.NewFromString(b.Rate)
		if err != nil {
			return fmt.Errorf("config: fee band %d: bad rate %q: %w", i, b.Rate, err)
		}
		if !rate.IsPositive() || rate.GreaterThan(prevRate) {
			return fmt.Errorf("config: fee band %d: rate %s must be in (0, %s]", i, rate, prevRate)
		}
		prevRate = rate
		feeRanges[i] = bandRange{min: b.Min, max: b.Max}
	}
	if err := checkPartition("fee_bands", feeRanges); err != nil {
		return err
	}

	incRanges := make([]bandRange, len(p.IncrementBands))
	for i, b := range p.IncrementBands {
		incRanges[i] = bandRange{min: b.Min, max: b.Max}
	}
	if err := checkPartition("increment_bands", incRanges); err != nil {
		return err
	}

	for offense, tiers := range p.Penalties.Escalation {
		for _, tier := range tiers {
			if _, ok := p.Penalties.Tiers[tier]; !ok {
				return fmt.Errorf("config: escalation for %s references unknown tier %q", offense, tier)
			}
		}
	}
	return nil
}

type bandRange struct {
	min int64
	max *int64
}

// checkPartition requires bands sorted, starting at 0, contiguous, and open-ended at the top
func checkPartition(name string, bands []bandRange) error {
	var next int64
	for i, b := range bands {
		if b.min != next {
			return fmt.Errorf("config: %s[%d] starts at %d, want %d", name, i, b.min, next)
		}
		last := i == len(bands)-1
		if b.max == nil {
			if !last {
				return fmt.Errorf("config: %s[%d] is unbounded but not last", name, i)
			}
			return nil
		}
		if *b.max <= b.min {
			return fmt.Errorf("config: %s[%d] is empty", name, i)
		}
		next = *b.max
	}
	return fmt.Errorf("config: %s must end with an unbounded band", name)
}
