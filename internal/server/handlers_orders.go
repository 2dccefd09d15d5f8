package server

import (
	"net/http"
	"strings"

	"squido/internal/app"
	"squido/internal/metrics"
	"squido/pkg/domain"
)

type createOrderRequest struct {
	app.OrderInput
	Items []domain.CartItem `json:"items"`
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request, _ domain.User) {
	switch r.Method {
	case http.MethodGet:
		page, pageSize := pageParams(r)
		result, err := s.app.ListOrders(page, pageSize)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	case http.MethodPost:
		// Back-office order entry, e.g. phone orders. Storefront orders go
		// through /api/checkout.
		var req createOrderRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		summary, err := s.app.CreateOrder(r.Context(), req.OrderInput, req.Items)
		if err != nil {
			metrics.OrdersFailedTotal.Inc()
			writeAppError(w, err)
			return
		}
		metrics.OrdersCreatedTotal.Inc()
		writeJSON(w, http.StatusCreated, summary)
	default:
		methodNotAllowed(w)
	}
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

// /api/orders/{id} and /api/orders/{id}/status
func (s *Server) handleOrderByID(w http.ResponseWriter, r *http.Request, _ domain.User) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		notFound(w)
		return
	}
	if len(parts) == 2 {
		if parts[1] != "status" {
			notFound(w)
			return
		}
		if r.Method != http.MethodPatch {
			methodNotAllowed(w)
			return
		}
		var req orderStatusRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		status, ok := parseOrderStatus(req.Status)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		if err := s.app.UpdateOrderStatus(r.Context(), id, status); err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
		return
	}

	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	summary, err := s.app.GetOrder(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func parseOrderStatus(status string) (domain.OrderStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case string(domain.OrderPending):
		return domain.OrderPending, true
	case string(domain.OrderCompleted):
		return domain.OrderCompleted, true
	case string(domain.OrderCancelled):
		return domain.OrderCancelled, true
	default:
		return "", false
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	stats, err := s.app.GetStats()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
