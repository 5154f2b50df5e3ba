package book

import (
	"github.com/shopspring/decimal"

	"github.com/optisim/matchbook/pkg/model"
)

// node links one resting order into its price level's FIFO queue.
type node struct {
	order *model.Order
	prev  *node
	next  *node
	level *priceLevel
}

// priceLevel is the FIFO queue of all resting orders sharing one exact price
// on one side of the book. totalQty is the aggregated remaining quantity of
// every queued order, maintained incrementally so snapshots never walk the
// queue.
type priceLevel struct {
	price    decimal.Decimal
	head     *node
	tail     *node
	totalQty int64
	count    int
}

func newPriceLevel(price decimal.Decimal) *priceLevel {
	return &priceLevel{price: price}
}

// enqueue appends the order at the tail of the queue (arrival order =
// priority order) and returns its node for O(1) removal later.
func (l *priceLevel) enqueue(o *model.Order) *node {
	n := &node{order: o, level: l}
	if l.head == nil {
		l.head = n
		l.tail = n
	} else {
		l.tail.next = n
		n.prev = l.tail
		l.tail = n
	}
	l.totalQty += o.Remaining()
	l.count++
	return n
}

// unlink removes n from wherever it sits without disturbing the FIFO order
// of the remaining entries. The order's current remaining quantity leaves
// the level total, so fills must be applied before unlinking a filled maker.
func (l *priceLevel) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev = nil
	n.next = nil
	l.totalQty -= n.order.Remaining()
	l.count--
}

func (l *priceLevel) empty() bool {
	return l.count == 0
}
