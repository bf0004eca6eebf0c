package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWorkOrder_Valid(t *testing.T) {
	order, err := ParseWorkOrder("BTC:BUY:USD:9000.00:NONE")
	require.NoError(t, err)
	assert.Equal(t, "BTC", order.Coin)
	assert.Equal(t, ActionBuy, order.Action)
	assert.Equal(t, "USD", order.Fiat)
	assert.Equal(t, "9000.00", order.Price)
	assert.Equal(t, NoOrderRef, order.OrderRef)
}

func TestParseWorkOrder_WithOrderRef(t *testing.T) {
	order, err := ParseWorkOrder("ETH:WFS:EUR:210.55:ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, ActionAwaitSell, order.Action)
	assert.Equal(t, "ab12cd34", order.OrderRef)
}

func TestParseWorkOrder_WrongFieldCount(t *testing.T) {
	for _, record := range []string{
		"",
		"BTC",
		"BTC:BUY:USD:9000.00",
		"BTC:BUY:USD:9000.00:NONE:junk",
	} {
		order, err := ParseWorkOrder(record)
		assert.ErrorIs(t, err, ErrMalformedOrder, "record %q", record)
		assert.Zero(t, order, "no partial order for %q", record)
	}
}

func TestWorkOrder_RecordRoundTrip(t *testing.T) {
	record := "BTC:WFB:USD:8900.00:ref-123"
	order, err := ParseWorkOrder(record)
	require.NoError(t, err)
	assert.Equal(t, record, order.Record())
}

func TestWorkOrder_Pair(t *testing.T) {
	order := WorkOrder{Coin: "BTC", Fiat: "USD"}
	assert.Equal(t, "BTC-USD", order.Pair())
}
