package api

import (
	"net/http"
	"time"
)

var startTime = time.Now()

// HealthHandler returns basic health information.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":     "ok",
		"uptime_sec": int64(time.Since(startTime).Seconds()),
	}
	if registry != nil {
		resp["symbols"] = registry.Symbols()
		resp["orders_tracked"] = registry.OrderCount()
	}
	writeJSON(w, http.StatusOK, resp)
}
