package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Coin is an exact decimal amount tagged with its denomination.
type Coin struct {
	Denom  string          `json:"denom" yaml:"denom"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// NewCoin builds a Coin from an already parsed amount.
func NewCoin(denom string, amount decimal.Decimal) Coin {
	return Coin{Denom: denom, Amount: amount}
}

// ZeroCoin returns a zero amount of denom.
func ZeroCoin(denom string) Coin {
	return Coin{Denom: denom, Amount: decimal.Zero}
}

// ParseCoin parses an integer or decimal amount string as returned by the chain.
func ParseCoin(denom, amount string) (Coin, error) {
	if amount == "" {
		return ZeroCoin(denom), nil
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Coin{}, fmt.Errorf("failed to parse amount %q of %s: %w", amount, denom, err)
	}
	return Coin{Denom: denom, Amount: d}, nil
}

// Add returns c + o. Both coins must share a denomination.
func (c Coin) Add(o Coin) (Coin, error) {
	if err := c.checkDenom(o); err != nil {
		return Coin{}, err
	}
	return Coin{Denom: c.denomWith(o), Amount: c.Amount.Add(o.Amount)}, nil
}

// Sub returns c - o. Both coins must share a denomination.
func (c Coin) Sub(o Coin) (Coin, error) {
	if err := c.checkDenom(o); err != nil {
		return Coin{}, err
	}
	return Coin{Denom: c.denomWith(o), Amount: c.Amount.Sub(o.Amount)}, nil
}

// IsZero reports whether the amount is zero.
func (c Coin) IsZero() bool {
	return c.Amount.IsZero()
}

// Cmp compares the amounts of c and o.
func (c Coin) Cmp(o Coin) int {
	return c.Amount.Cmp(o.Amount)
}

func (c Coin) String() string {
	return c.Amount.String() + c.Denom
}

// a zero coin with no denom is treated as the identity so sums can start empty
func (c Coin) checkDenom(o Coin) error {
	if c.Denom == o.Denom || c.Denom == "" || o.Denom == "" {
		return nil
	}
	return fmt.Errorf("%w: %s vs %s", ErrDenomMismatch, c.Denom, o.Denom)
}

func (c Coin) denomWith(o Coin) string {
	if c.Denom != "" {
		return c.Denom
	}
	return o.Denom
}

// SumCoins adds up coins of a single denomination. An empty slice yields a zero coin of denom.
func SumCoins(denom string, coins ...Coin) (Coin, error) {
	total := ZeroCoin(denom)
	for _, c := range coins {
		next, err := total.Add(c)
		if err != nil {
			return Coin{}, err
		}
		total = next
	}
	return total, nil
}
