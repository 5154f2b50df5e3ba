package store

import (
	"sync"
)

// Directory provides thread-safe orderID -> symbol lookup so that cancel and
// GET /orders/{id} can be routed with the order id alone. Mappings are kept
// after fill/cancel: orders remain queryable for as long as the process
// lives, matching the books' own id indexes.
type Directory struct {
	mu      sync.RWMutex
	symbols map[string]string
}

func NewDirectory() *Directory {
	return &Directory{
		symbols: make(map[string]string),
	}
}

// Add records which symbol's book owns the order.
func (d *Directory) Add(orderID, symbol string) {
	d.mu.Lock()
	d.symbols[orderID] = symbol
	d.mu.Unlock()
}

// Symbol returns the owning symbol for an order id.
func (d *Directory) Symbol(orderID string) (string, bool) {
	d.mu.RLock()
	sym, ok := d.symbols[orderID]
	d.mu.RUnlock()
	return sym, ok
}

// Len returns the number of orders tracked.
func (d *Directory) Len() int {
	d.mu.RLock()
	n := len(d.symbols)
	d.mu.RUnlock()
	return n
}
