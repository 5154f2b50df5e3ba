package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string
type OrderType string
type OrderStatus string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"

	LIMIT  OrderType = "LIMIT"
	MARKET OrderType = "MARKET"

	ACTIVE    OrderStatus = "ACTIVE"
	FILLED    OrderStatus = "FILLED"
	CANCELLED OrderStatus = "CANCELLED"
)

// Order is a single instruction submitted to an order book.
// Quantity is the original quantity and never changes after creation;
// Filled only grows, so Remaining()+Filled == Quantity holds at all times
// by construction.
type Order struct {
	ID        string          `json:"order_id"`
	Symbol    string          `json:"symbol"`
	Side      Side            `json:"side"`
	Type      OrderType       `json:"type"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Filled    int64           `json:"filled_quantity"`
	Status    OrderStatus     `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
}

// Remaining returns the unfilled quantity.
func (o *Order) Remaining() int64 {
	return o.Quantity - o.Filled
}

// Terminal reports whether the order can never trade again.
func (o *Order) Terminal() bool {
	return o.Status == FILLED || o.Status == CANCELLED
}

// Validate checks basic syntactic correctness of the order.
// It does NOT perform business checks like available liquidity.
func (o *Order) Validate() error {
	if o == nil {
		return &InvalidOrderError{Reason: "order is nil"}
	}
	if o.Symbol == "" {
		return &InvalidOrderError{Reason: "symbol is required"}
	}
	if o.Side != BUY && o.Side != SELL {
		return &InvalidOrderError{Reason: "invalid side: must be BUY or SELL"}
	}
	if o.Type != LIMIT && o.Type != MARKET {
		return &InvalidOrderError{Reason: "invalid type: must be LIMIT or MARKET"}
	}
	if o.Quantity <= 0 {
		return &InvalidOrderError{Reason: "quantity must be > 0"}
	}
	if o.Filled < 0 || o.Filled > o.Quantity {
		return &InvalidOrderError{Reason: "filled quantity out of range"}
	}
	if o.Price.IsNegative() {
		return &InvalidOrderError{Reason: "price must not be negative"}
	}
	// MARKET orders carry no meaningful price; the matching core never reads it.
	return nil
}

// Trade is an immutable record of one match event. Price is always the
// resting (maker) order's price.
type Trade struct {
	BuyOrderID  string          `json:"buy_order_id"`
	SellOrderID string          `json:"sell_order_id"`
	Symbol      string          `json:"symbol"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	Timestamp   time.Time       `json:"timestamp"`
}
