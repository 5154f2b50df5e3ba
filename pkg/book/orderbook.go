package book

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	"github.com/optisim/matchbook/pkg/model"
)

// byPrice keeps price levels ascending inside each side's tree, so the best
// ask is the tree minimum and the best bid the tree maximum.
func byPrice(a, b *priceLevel) bool {
	return a.price.LessThan(b.price)
}

// OrderBook owns all resting orders for one instrument and executes
// price-time-priority matching against them.
//
// Every operation takes the book mutex for its full duration: the multi-step
// submit (register, match, rest) is atomic to any other caller, and snapshots
// observe a consistent instant. Separate OrderBook instances share nothing
// and may be used in parallel.
type OrderBook struct {
	symbol string

	mu      sync.RWMutex
	bids    *btree.BTreeG[*priceLevel]
	asks    *btree.BTreeG[*priceLevel]
	orders  map[string]*model.Order // every order ever accepted, kept for lookup
	resting map[string]*node        // ACTIVE orders only, for O(1) cancel
	trades  []model.Trade           // append-only
}

// New creates an empty book for one instrument.
func New(symbol string) *OrderBook {
	return &OrderBook{
		symbol:  symbol,
		bids:    btree.NewBTreeG(byPrice),
		asks:    btree.NewBTreeG(byPrice),
		orders:  make(map[string]*model.Order),
		resting: make(map[string]*node),
	}
}

// Symbol returns the instrument this book is keyed to.
func (b *OrderBook) Symbol() string {
	return b.symbol
}

// Submit validates the order, matches it against the opposite side and rests
// any unmatched LIMIT remainder at its price level. It returns the trades
// generated by this submission in execution order; an empty slice means the
// order now rests (LIMIT) or found no counterparty (MARKET).
//
// A MARKET order never enters the book: whatever cannot be matched
// immediately is voided and the order ends CANCELLED (or FILLED), so no
// degenerate marketable price can corrupt the book's price ordering.
func (b *OrderBook) Submit(o *model.Order) ([]model.Trade, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.orders[o.ID]; exists {
		return nil, &model.DuplicateOrderError{ID: o.ID}
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now()
	}
	o.Status = model.ACTIVE
	// Register before matching so the order is addressable the moment the
	// book accepts it.
	b.orders[o.ID] = o

	trades := b.match(o)

	switch {
	case o.Remaining() == 0:
		o.Status = model.FILLED
	case o.Type == model.MARKET:
		o.Status = model.CANCELLED
	default:
		b.rest(o)
	}
	return trades, nil
}

// Cancel voids the remaining quantity of an active order. It returns false,
// never an error, when the id is unknown or the order already terminal:
// cancel races against fills are expected and must stay quiet.
func (b *OrderBook) Cancel(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[id]
	if !ok || o.Terminal() {
		return false
	}
	o.Status = model.CANCELLED

	if n, queued := b.resting[id]; queued {
		lvl := n.level
		lvl.unlink(n)
		delete(b.resting, id)
		if lvl.empty() {
			b.side(o.Side).Delete(lvl)
		}
	}
	return true
}

// match runs the incoming order against the opposite side: best price level
// first, FIFO within a level, trade price always the maker's. Filled makers
// are unlinked immediately and emptied levels removed, so the book is never
// left in a crossable state.
func (b *OrderBook) match(taker *model.Order) []model.Trade {
	trades := []model.Trade{}
	opposite := b.asks
	if taker.Side == model.SELL {
		opposite = b.bids
	}

	for taker.Remaining() > 0 {
		best, ok := b.bestOpposite(opposite, taker.Side)
		if !ok || !crosses(taker, best.price) {
			break
		}

		for n := best.head; n != nil && taker.Remaining() > 0; n = best.head {
			maker := n.order
			qty := min(taker.Remaining(), maker.Remaining())

			taker.Filled += qty
			maker.Filled += qty
			best.totalQty -= qty

			t := model.Trade{
				Symbol:    b.symbol,
				Price:     best.price,
				Quantity:  qty,
				Timestamp: time.Now(),
			}
			if taker.Side == model.BUY {
				t.BuyOrderID = taker.ID
				t.SellOrderID = maker.ID
			} else {
				t.BuyOrderID = maker.ID
				t.SellOrderID = taker.ID
			}
			trades = append(trades, t)
			b.trades = append(b.trades, t)

			if maker.Remaining() == 0 {
				maker.Status = model.FILLED
				best.unlink(n)
				delete(b.resting, maker.ID)
			}
		}

		if best.empty() {
			opposite.Delete(best)
		}
	}
	return trades
}

// rest inserts the remainder at the tail of its price level's FIFO queue,
// creating the level if needed.
func (b *OrderBook) rest(o *model.Order) {
	side := b.side(o.Side)
	lvl, ok := side.Get(&priceLevel{price: o.Price})
	if !ok {
		lvl = newPriceLevel(o.Price)
		side.Set(lvl)
	}
	b.resting[o.ID] = lvl.enqueue(o)
}

func (b *OrderBook) side(s model.Side) *btree.BTreeG[*priceLevel] {
	if s == model.BUY {
		return b.bids
	}
	return b.asks
}

// bestOpposite returns the lowest ask for an incoming buy, the highest bid
// for an incoming sell.
func (b *OrderBook) bestOpposite(opposite *btree.BTreeG[*priceLevel], takerSide model.Side) (*priceLevel, bool) {
	if takerSide == model.BUY {
		return opposite.Min()
	}
	return opposite.Max()
}

// crosses is the crossing test: a buy matches while its limit is at or above
// the level price, a sell while its limit is at or below. MARKET orders
// always cross.
func crosses(taker *model.Order, levelPrice decimal.Decimal) bool {
	if taker.Type == model.MARKET {
		return true
	}
	if taker.Side == model.BUY {
		return taker.Price.GreaterThanOrEqual(levelPrice)
	}
	return taker.Price.LessThanOrEqual(levelPrice)
}

// BestBid returns the highest resting bid price, or false if the bid side is
// empty.
func (b *OrderBook) BestBid() (decimal.Decimal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if lvl, ok := b.bids.Max(); ok {
		return lvl.price, true
	}
	return decimal.Decimal{}, false
}

// BestAsk returns the lowest resting ask price, or false if the ask side is
// empty.
func (b *OrderBook) BestAsk() (decimal.Decimal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if lvl, ok := b.asks.Min(); ok {
		return lvl.price, true
	}
	return decimal.Decimal{}, false
}

// Order returns a copy of the order with the given id. Terminal orders stay
// queryable indefinitely even though they left the price-level structures.
func (b *OrderBook) Order(id string) (model.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.orders[id]
	if !ok {
		return model.Order{}, false
	}
	return *o, true
}

// Trades returns a copy of the book's trade log, oldest first. A positive
// limit keeps only the most recent trades.
func (b *OrderBook) Trades(limit int) []model.Trade {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start := 0
	if limit > 0 && len(b.trades) > limit {
		start = len(b.trades) - limit
	}
	out := make([]model.Trade, len(b.trades)-start)
	copy(out, b.trades[start:])
	return out
}
