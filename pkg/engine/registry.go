package engine

import (
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/optisim/matchbook/pkg/book"
	"github.com/optisim/matchbook/pkg/metrics"
	"github.com/optisim/matchbook/pkg/model"
	"github.com/optisim/matchbook/pkg/store"
)

// Registry owns one OrderBook per symbol and exposes lookup-or-create. The
// registry itself holds no matching logic: each book is self-contained, so
// operations on different symbols proceed in parallel with no shared state
// beyond the book map and the id directory.
type Registry struct {
	mu    sync.RWMutex
	books map[string]*book.OrderBook

	dir *store.Directory
	log *zap.SugaredLogger
}

func NewRegistry(log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Registry{
		books: make(map[string]*book.OrderBook),
		dir:   store.NewDirectory(),
		log:   log,
	}
}

// Book returns the order book for a symbol, creating it on first use.
func (r *Registry) Book(symbol string) *book.OrderBook {
	r.mu.RLock()
	b, ok := r.books[symbol]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok = r.books[symbol]; ok {
		return b
	}
	b = book.New(symbol)
	r.books[symbol] = b
	r.log.Infow("order book created", "symbol", symbol)
	return b
}

// Submit routes the order to its symbol's book and records the id -> symbol
// mapping so later cancels and lookups need only the order id.
func (r *Registry) Submit(o *model.Order) ([]model.Trade, error) {
	// Validate before touching the book map so a malformed order cannot
	// create a book for a junk symbol.
	if err := o.Validate(); err != nil {
		metrics.OrderRejected("invalid")
		return nil, err
	}

	trades, err := r.Book(o.Symbol).Submit(o)
	if err != nil {
		var dup *model.DuplicateOrderError
		reason := "invalid"
		if errors.As(err, &dup) {
			reason = "duplicate"
		}
		metrics.OrderRejected(reason)
		return nil, err
	}

	r.dir.Add(o.ID, o.Symbol)
	metrics.OrderSubmitted(o.Symbol, string(o.Side))
	metrics.TradesExecuted(o.Symbol, len(trades))
	r.log.Debugw("order submitted",
		"order_id", o.ID,
		"symbol", o.Symbol,
		"side", o.Side,
		"type", o.Type,
		"status", o.Status,
		"trades", len(trades),
	)
	return trades, nil
}

// Cancel voids the remaining quantity of an order, located by id alone.
// Unknown and already-terminal orders return false, never an error.
func (r *Registry) Cancel(orderID string) bool {
	sym, ok := r.dir.Symbol(orderID)
	if !ok {
		return false
	}
	cancelled := r.Book(sym).Cancel(orderID)
	if cancelled {
		metrics.OrderCancelled(sym)
		r.log.Debugw("order cancelled", "order_id", orderID, "symbol", sym)
	}
	return cancelled
}

// Order returns a copy of an order by id, whatever its state.
func (r *Registry) Order(orderID string) (model.Order, bool) {
	sym, ok := r.dir.Symbol(orderID)
	if !ok {
		return model.Order{}, false
	}
	return r.Book(sym).Order(orderID)
}

// Snapshot returns the aggregated book state for a symbol.
func (r *Registry) Snapshot(symbol string, depth int) book.Snapshot {
	return r.Book(symbol).Snapshot(depth)
}

// Trades returns the most recent trades for a symbol, oldest first.
func (r *Registry) Trades(symbol string, limit int) []model.Trade {
	return r.Book(symbol).Trades(limit)
}

// Symbols lists the symbols with a live book, sorted.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.books))
	for sym := range r.books {
		out = append(out, sym)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// OrderCount returns the number of orders ever accepted across all books.
func (r *Registry) OrderCount() int {
	return r.dir.Len()
}
