package domain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveBuyPrice_ChasesDownOnly(t *testing.T) {
	price, chased := EffectiveBuyPrice(9000, 8900)
	assert.Equal(t, 8900.0, price)
	assert.True(t, chased)

	price, chased = EffectiveBuyPrice(9000, 9100)
	assert.Equal(t, 9000.0, price)
	assert.False(t, chased)

	price, chased = EffectiveBuyPrice(9000, 9000)
	assert.Equal(t, 9000.0, price)
	assert.False(t, chased)
}

func TestEffectiveSellPrice_ChasesUpOnly(t *testing.T) {
	price, chased := EffectiveSellPrice(9000, 9100)
	assert.Equal(t, 9100.0, price)
	assert.True(t, chased)

	price, chased = EffectiveSellPrice(9000, 8900)
	assert.Equal(t, 9000.0, price)
	assert.False(t, chased)
}

func TestNextSellTarget_RateAboveFloor(t *testing.T) {
	// 8900 * 0.10 = 890 > 1.00
	assert.InDelta(t, 9790.0, NextSellTarget(8900, 0.10), 0.0001)
}

func TestNextSellTarget_FloorApplies(t *testing.T) {
	// 50 * 0.001 = 0.05 < 1.00 → step is 1.00
	assert.InDelta(t, 51.0, NextSellTarget(50, 0.001), 0.0001)
}

func TestNextBuyTarget(t *testing.T) {
	assert.InDelta(t, 8811.0, NextBuyTarget(9790, 0.10), 0.0001)
	assert.InDelta(t, 49.0, NextBuyTarget(50, 0.001), 0.0001)
}

func TestNextTargets_AlwaysAtLeastOneUnitApart(t *testing.T) {
	for _, p := range []float64{1, 10, 99.99, 500, 8900} {
		for _, r := range []float64{0, 0.0001, 0.01, 0.10} {
			assert.GreaterOrEqual(t, NextSellTarget(p, r), p+1.00)
			assert.LessOrEqual(t, NextBuyTarget(p, r), p-1.00)
		}
	}
}

func TestBuyOrderSize_Scenario(t *testing.T) {
	// balance 1000, allocation 50%, price 8900:
	// 500/8900 = 0.0561... → truncated "0.05" → decremented "0.04"
	assert.Equal(t, "0.04", BuyOrderSize(1000, 0.5, 8900))
}

func TestBuyOrderSize_ZeroFinalDigitNotDecremented(t *testing.T) {
	// 100/10 = 10.00 — final digit is already zero
	assert.Equal(t, "10.00", BuyOrderSize(100, 1.0, 10))
}

func TestBuyOrderSize_NeverExceedsUsableBalance(t *testing.T) {
	for _, tc := range []struct {
		balance, allocation, price float64
	}{
		{1000, 0.5, 8900},
		{1000, 1.0, 8900},
		{5, 0.1, 3.33},
		{123.45, 0.25, 7.77},
		{99999, 0.9, 210.55},
	} {
		got := BuyOrderSize(tc.balance, tc.allocation, tc.price)
		size, err := strconv.ParseFloat(got, 64)
		require.NoError(t, err)
		naive := tc.balance * tc.allocation / tc.price
		assert.LessOrEqual(t, size, naive, "size %s for %+v", got, tc)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "9790.00", FormatPrice(9790))
	assert.Equal(t, "8811.55", FormatPrice(8811.55))
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice(" 8900.00\n")
	require.NoError(t, err)
	assert.Equal(t, 8900.0, p)

	_, err = ParsePrice("")
	assert.Error(t, err)

	_, err = ParsePrice("not-a-price")
	assert.Error(t, err)
}
