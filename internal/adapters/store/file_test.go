package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bigsaw04/mercury/internal/adapters/store"
	"github.com/bigsaw04/mercury/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "work.order")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFile_LoadSeedRecord(t *testing.T) {
	path := seedFile(t, "BTC:BUY:USD:9000.00:NONE\n")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	order, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrder{
		Coin:     "BTC",
		Action:   domain.ActionBuy,
		Fiat:     "USD",
		Price:    "9000.00",
		OrderRef: domain.NoOrderRef,
	}, order)
}

func TestFile_OpenMissingFile(t *testing.T) {
	_, err := store.Open(filepath.Join(t.TempDir(), "nope.order"))
	assert.Error(t, err)
}

func TestFile_LoadEmptyFile(t *testing.T) {
	path := seedFile(t, "")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Load()
	assert.ErrorIs(t, err, store.ErrCorrupt)
}

func TestFile_LoadWrongFieldCount(t *testing.T) {
	for _, record := range []string{
		"BTC:BUY:USD:9000.00",
		"BTC:BUY:USD:9000.00:NONE:extra",
		"garbage",
	} {
		path := seedFile(t, record+"\n")
		s, err := store.Open(path)
		require.NoError(t, err)

		_, err = s.Load()
		assert.ErrorIs(t, err, domain.ErrMalformedOrder, "record %q", record)
		s.Close()
	}
}

func TestFile_SaveLoadRoundTrip(t *testing.T) {
	path := seedFile(t, "BTC:BUY:USD:9000.00:NONE\n")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Load()
	require.NoError(t, err)

	next := domain.WorkOrder{
		Coin:     "BTC",
		Action:   domain.ActionAwaitBuy,
		Fiat:     "USD",
		Price:    "8900.00",
		OrderRef: "8c2f7a9e-4a31-4df2-bd5a-111111111111",
	}
	require.NoError(t, s.Save(next))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, next, got)
}

func TestFile_ShorterRewriteLeavesNoTrailingGarbage(t *testing.T) {
	path := seedFile(t, "BTC:BUY:USD:9000.00:NONE\n")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Load()
	require.NoError(t, err)

	long := domain.WorkOrder{
		Coin:     "BTC",
		Action:   domain.ActionAwaitBuy,
		Fiat:     "USD",
		Price:    "8900.00",
		OrderRef: "8c2f7a9e-4a31-4df2-bd5a-222222222222",
	}
	require.NoError(t, s.Save(long))

	short := domain.WorkOrder{
		Coin:     "BTC",
		Action:   domain.ActionSell,
		Fiat:     "USD",
		Price:    "9790.00",
		OrderRef: domain.NoOrderRef,
	}
	require.NoError(t, s.Save(short))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, short, got)

	// The file itself keeps the longer tail, overwritten with blanks.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Greater(t, len(raw), len(short.Record()))
}

func TestFile_PairMismatchAfterFirstLoad(t *testing.T) {
	path := seedFile(t, "BTC:BUY:USD:9000.00:NONE\n")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Load()
	require.NoError(t, err)

	// Simulate outside interference with the operator-owned file.
	require.NoError(t, os.WriteFile(path, []byte("ETH:BUY:USD:9000.00:NONE\n"), 0o644))

	_, err = s.Load()
	assert.ErrorIs(t, err, store.ErrUnexpectedState)
}
