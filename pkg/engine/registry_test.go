package engine

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/optisim/matchbook/pkg/model"
)

func newRegistry() *Registry {
	return NewRegistry(zap.NewNop().Sugar())
}

func limitOrder(id, symbol string, side model.Side, price string, qty int64) *model.Order {
	return &model.Order{
		ID:       id,
		Symbol:   symbol,
		Side:     side,
		Type:     model.LIMIT,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
	}
}

func TestBookLookupOrCreate(t *testing.T) {
	r := newRegistry()

	b1 := r.Book("OPTI")
	b2 := r.Book("OPTI")
	require.Same(t, b1, b2, "same symbol must map to the same book")

	other := r.Book("CLIP")
	require.NotSame(t, b1, other)
	require.Equal(t, []string{"CLIP", "OPTI"}, r.Symbols())
}

func TestSubmitRoutesAndTracks(t *testing.T) {
	r := newRegistry()

	trades, err := r.Submit(limitOrder("o-1", "OPTI", model.BUY, "1.05", 100))
	require.NoError(t, err)
	require.Empty(t, trades)
	require.Equal(t, 1, r.OrderCount())

	o, ok := r.Order("o-1")
	require.True(t, ok)
	require.Equal(t, "OPTI", o.Symbol)
	require.Equal(t, model.ACTIVE, o.Status)

	require.True(t, r.Cancel("o-1"))
	require.False(t, r.Cancel("o-1"))
	require.False(t, r.Cancel("no-such-order"))
}

func TestOrdersRemainQueryableAfterFill(t *testing.T) {
	r := newRegistry()

	_, err := r.Submit(limitOrder("s-1", "OPTI", model.SELL, "1.10", 100))
	require.NoError(t, err)
	trades, err := r.Submit(limitOrder("b-1", "OPTI", model.BUY, "1.10", 100))
	require.NoError(t, err)
	require.Len(t, trades, 1)

	s, ok := r.Order("s-1")
	require.True(t, ok)
	require.Equal(t, model.FILLED, s.Status)
	require.Equal(t, int64(100), s.Filled)

	require.Len(t, r.Trades("OPTI", 0), 1)
}

func TestBooksAreIndependent(t *testing.T) {
	r := newRegistry()

	_, err := r.Submit(limitOrder("opti-sell", "OPTI", model.SELL, "1.00", 100))
	require.NoError(t, err)

	// same crossing price on a different symbol must not match
	trades, err := r.Submit(limitOrder("clip-buy", "CLIP", model.BUY, "1.00", 100))
	require.NoError(t, err)
	require.Empty(t, trades)

	require.Len(t, r.Snapshot("OPTI", 0).Asks, 1)
	require.Len(t, r.Snapshot("CLIP", 0).Bids, 1)
}

func TestRejectionsSurfaceUnchanged(t *testing.T) {
	r := newRegistry()

	_, err := r.Submit(limitOrder("dup", "OPTI", model.BUY, "1.00", 10))
	require.NoError(t, err)
	_, err = r.Submit(limitOrder("dup", "OPTI", model.SELL, "1.10", 10))
	require.Error(t, err)
	var dupErr *model.DuplicateOrderError
	require.ErrorAs(t, err, &dupErr)

	_, err = r.Submit(limitOrder("bad", "OPTI", model.BUY, "1.00", 0))
	var invErr *model.InvalidOrderError
	require.ErrorAs(t, err, &invErr)

	// a malformed order must not create a book for a junk symbol
	_, err = r.Submit(limitOrder("nosym", "", model.BUY, "1.00", 1))
	require.ErrorAs(t, err, &invErr)
	require.Equal(t, []string{"OPTI"}, r.Symbols())
}

func TestParallelSubmitsAcrossSymbols(t *testing.T) {
	r := newRegistry()
	symbols := []string{"OPTI", "CLIP", "BTC", "ETH"}
	perSymbol := 200

	var wg sync.WaitGroup
	for _, sym := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			for i := 0; i < perSymbol; i++ {
				o := limitOrder(fmt.Sprintf("%s-%d", sym, i), sym, model.BUY, "1.00", 1)
				_, err := r.Submit(o)
				require.NoError(t, err)
			}
		}(sym)
	}
	wg.Wait()

	require.Equal(t, len(symbols)*perSymbol, r.OrderCount())
	for _, sym := range symbols {
		snap := r.Snapshot(sym, 0)
		require.Len(t, snap.Bids, 1)
		require.Equal(t, int64(perSymbol), snap.Bids[0].Quantity)
	}
}
