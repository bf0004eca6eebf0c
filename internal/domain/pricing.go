package domain

import (
	"math"
	"strconv"
	"strings"
)

// minPriceStep is the smallest distance, in fiat units, between a completed
// trade's price and the next round's target. Without it a tiny adjustment
// rate could make the cycle churn for sub-unit profits.
const minPriceStep = 1.00

// EffectiveBuyPrice applies price-chasing to a buy: if the market has dropped
// below the target, adopt the market price. The target is never raised.
func EffectiveBuyPrice(target, market float64) (float64, bool) {
	if market < target {
		return market, true
	}
	return target, false
}

// EffectiveSellPrice mirrors EffectiveBuyPrice for a sell: adopt the market
// price only when it is above the target.
func EffectiveSellPrice(target, market float64) (float64, bool) {
	if market > target {
		return market, true
	}
	return target, false
}

// NextSellTarget computes the sell target after a buy completed at buyPrice,
// using the exchange-supplied adjustment rate.
func NextSellTarget(buyPrice, rate float64) float64 {
	step := buyPrice * rate
	if step < minPriceStep {
		step = minPriceStep
	}
	return buyPrice + step
}

// NextBuyTarget computes the buy target after a sell completed at sellPrice.
func NextBuyTarget(sellPrice, rate float64) float64 {
	step := sellPrice * rate
	if step < minPriceStep {
		step = minPriceStep
	}
	return sellPrice - step
}

// BuyOrderSize computes the coin amount for a buy order from the fiat
// balance, the operator's allocation fraction and the effective price.
// The raw quotient is truncated to two decimals and the final digit is then
// decremented if nonzero, so the posted size never exceeds the usable
// balance through display rounding.
func BuyOrderSize(balance, allocation, price float64) string {
	usable := balance * allocation
	truncated := math.Floor(usable / price * 100)
	size := strconv.FormatFloat(truncated/100, 'f', 2, 64)
	if c := size[len(size)-1]; c > '0' {
		size = size[:len(size)-1] + string(c-1)
	}
	return size
}

// FormatPrice renders a fiat price the way the work order file and the
// exchange expect it, with two decimal places.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// ParsePrice parses a decimal price or balance string.
func ParsePrice(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
