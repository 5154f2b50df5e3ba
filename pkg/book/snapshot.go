package book

import (
	"github.com/shopspring/decimal"
)

// Level is one aggregated rung of a snapshot: a price and the total
// remaining quantity resting at it.
type Level struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

// Snapshot is a consistent aggregated view of one book: bids descending,
// asks ascending (best price first on each side). Best prices are nil when
// the side is empty.
type Snapshot struct {
	Symbol  string           `json:"symbol"`
	Bids    []Level          `json:"bids"`
	Asks    []Level          `json:"asks"`
	BestBid *decimal.Decimal `json:"best_bid,omitempty"`
	BestAsk *decimal.Decimal `json:"best_ask,omitempty"`
}

// Snapshot returns the aggregated state of the book down to depth price
// levels per side. depth <= 0 means the full depth. It never mutates book
// state and reflects a single consistent instant.
func (b *OrderBook) Snapshot(depth int) Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{
		Symbol: b.symbol,
		Bids:   []Level{},
		Asks:   []Level{},
	}

	b.bids.Reverse(func(lvl *priceLevel) bool {
		snap.Bids = append(snap.Bids, Level{Price: lvl.price, Quantity: lvl.totalQty})
		return depth <= 0 || len(snap.Bids) < depth
	})
	b.asks.Scan(func(lvl *priceLevel) bool {
		snap.Asks = append(snap.Asks, Level{Price: lvl.price, Quantity: lvl.totalQty})
		return depth <= 0 || len(snap.Asks) < depth
	})

	if lvl, ok := b.bids.Max(); ok {
		p := lvl.price
		snap.BestBid = &p
	}
	if lvl, ok := b.asks.Min(); ok {
		p := lvl.price
		snap.BestAsk = &p
	}
	return snap
}
