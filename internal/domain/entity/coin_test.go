package entity

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoin(t *testing.T) {
	c, err := ParseCoin("nanoekil", "1234500000")
	require.NoError(t, err)
	assert.Equal(t, "nanoekil", c.Denom)
	assert.True(t, c.Amount.Equal(decimal.NewFromInt(1234500000)))

	c, err = ParseCoin("nanoekil", "")
	require.NoError(t, err)
	assert.True(t, c.IsZero())

	c, err = ParseCoin("nanoekil", "12.345678901234567890")
	require.NoError(t, err)
	assert.Equal(t, "12.34567890123456789", c.Amount.String())

	_, err = ParseCoin("nanoekil", "abc")
	assert.Error(t, err)
}

func TestCoinArithmetic(t *testing.T) {
	a := NewCoin("nanoekil", decimal.NewFromInt(300))
	b := NewCoin("nanoekil", decimal.NewFromInt(120))

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "420nanoekil", sum.String())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "180nanoekil", diff.String())

	_, err = a.Add(NewCoin("uatom", decimal.NewFromInt(1)))
	assert.True(t, errors.Is(err, ErrDenomMismatch))
}

func TestCoinWithoutDenomIsIdentity(t *testing.T) {
	sum, err := Coin{Amount: decimal.Zero}.Add(NewCoin("nanoekil", decimal.NewFromInt(5)))
	require.NoError(t, err)
	assert.Equal(t, "nanoekil", sum.Denom)
	assert.Equal(t, "5nanoekil", sum.String())
}

func TestSumCoins(t *testing.T) {
	total, err := SumCoins("nanoekil")
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	assert.Equal(t, "nanoekil", total.Denom)

	total, err = SumCoins("nanoekil",
		NewCoin("nanoekil", decimal.NewFromInt(1)),
		NewCoin("nanoekil", decimal.NewFromInt(2)),
		NewCoin("nanoekil", decimal.RequireFromString("0.5")),
	)
	require.NoError(t, err)
	assert.Equal(t, "3.5nanoekil", total.String())

	_, err = SumCoins("nanoekil", NewCoin("uatom", decimal.NewFromInt(1)))
	assert.ErrorIs(t, err, ErrDenomMismatch)
}

func TestAvailableBalance(t *testing.T) {
	coin := func(n int64) Coin { return NewCoin("nanoekil", decimal.NewFromInt(n)) }

	available, err := AvailableBalance(coin(300), coin(120), coin(30))
	require.NoError(t, err)
	assert.Equal(t, "150nanoekil", available.String())

	available, err = AvailableBalance(coin(0), coin(0), coin(0))
	require.NoError(t, err)
	assert.True(t, available.IsZero())
}
