package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/optisim/matchbook/pkg/engine"
	"github.com/optisim/matchbook/pkg/model"
)

var (
	registry *engine.Registry
	log      = zap.NewNop().Sugar()

	defaultDepth = 10
)

// Init wires the API package to the engine Registry.
// Call this once at server startup.
func Init(r *engine.Registry, l *zap.SugaredLogger, depth int) {
	registry = r
	if l != nil {
		log = l
	}
	if depth > 0 {
		defaultDepth = depth
	}
}

// orderRequest is the POST body. Prices travel as decimal strings so no
// float representation ever touches an order.
type orderRequest struct {
	Symbol   string          `json:"symbol"`
	Side     model.Side      `json:"side"`
	Type     model.OrderType `json:"type"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

// -------------------------------
// POST /api/v1/orders
// -------------------------------
func CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	if registry == nil {
		writeError(w, http.StatusInternalServerError, "registry not initialized")
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	o := &model.Order{
		ID:        uuid.NewString(),
		Symbol:    req.Symbol,
		Side:      req.Side,
		Type:      req.Type,
		Price:     req.Price,
		Quantity:  req.Quantity,
		Timestamp: time.Now(),
	}

	trades, err := registry.Submit(o)
	if err != nil {
		var dup *model.DuplicateOrderError
		if errors.As(err, &dup) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// 201 resting, 200 fully filled (or market done), 202 partial fill.
	status := http.StatusCreated
	switch {
	case o.Remaining() == 0:
		status = http.StatusOK
	case o.Filled > 0:
		status = http.StatusAccepted
	case o.Type == model.MARKET:
		status = http.StatusOK // nothing crossed, nothing rested
	}

	writeJSON(w, status, map[string]interface{}{
		"order_id":        o.ID,
		"symbol":          o.Symbol,
		"side":            o.Side,
		"type":            o.Type,
		"price":           o.Price,
		"quantity":        o.Quantity,
		"filled_quantity": o.Filled,
		"remaining":       o.Remaining(),
		"status":          o.Status,
		"trades_executed": trades,
	})
}

// -------------------------------
// GET/DELETE dispatcher
// -------------------------------
func OrderByIDHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		GetOrderHandler(w, r)
	case http.MethodDelete:
		CancelOrderHandler(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// -------------------------------
// GET /api/v1/orders/{id}
// -------------------------------
func GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r.URL.Path)

	o, ok := registry.Order(id)
	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order_id":        o.ID,
		"symbol":          o.Symbol,
		"side":            o.Side,
		"type":            o.Type,
		"price":           o.Price,
		"quantity":        o.Quantity,
		"filled_quantity": o.Filled,
		"remaining":       o.Remaining(),
		"status":          o.Status,
	})
}

// -------------------------------
// DELETE /api/v1/orders/{id}
// -------------------------------
// Cancellation mirrors the core's contract: unknown or already-terminal
// orders are not an error, just cancelled=false.
func CancelOrderHandler(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r.URL.Path)
	cancelled := registry.Cancel(id)
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}

// -------------------------------
// GET /api/v1/orderbook/{symbol}?depth=N
// -------------------------------
func GetOrderBookHandler(w http.ResponseWriter, r *http.Request) {
	if registry == nil {
		writeError(w, http.StatusInternalServerError, "registry not initialized")
		return
	}

	symbol := pathParam(r.URL.Path)
	depth := defaultDepth
	if ds := r.URL.Query().Get("depth"); ds != "" {
		if d, err := strconv.Atoi(ds); err == nil && d > 0 {
			depth = d
		}
	}

	writeJSON(w, http.StatusOK, registry.Snapshot(symbol, depth))
}

// -------------------------------
// GET /api/v1/trades/{symbol}?limit=N
// -------------------------------
func GetTradesHandler(w http.ResponseWriter, r *http.Request) {
	if registry == nil {
		writeError(w, http.StatusInternalServerError, "registry not initialized")
		return
	}

	symbol := pathParam(r.URL.Path)
	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if n, err := strconv.Atoi(ls); err == nil && n > 0 {
			limit = n
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"trades": registry.Trades(symbol, limit),
	})
}

// ----------------- helpers -----------------

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warnw("response encode failed", "err", err)
	}
}

func pathParam(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	return parts[len(parts)-1]
}
