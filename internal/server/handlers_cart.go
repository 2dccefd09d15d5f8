package server

import (
	"net/http"
	"strings"

	"squido/internal/app"
	"squido/internal/metrics"
)

type cartItemRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionID(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		view, err := s.app.GetCart(session)
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	case http.MethodDelete:
		if err := s.app.ClearCart(session); err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCartItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	session, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req cartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.app.AddToCart(session, req.BookID, req.Quantity); err != nil {
		writeAppError(w, err)
		return
	}
	view, err := s.app.GetCart(session)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// /api/cart/items/{bookId}
func (s *Server) handleCartItemByID(w http.ResponseWriter, r *http.Request) {
	bookID := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	if bookID == "" || strings.Contains(bookID, "/") {
		notFound(w)
		return
	}
	session, ok := sessionID(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req cartItemRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := s.app.UpdateCartItem(session, bookID, req.Quantity); err != nil {
			writeAppError(w, err)
			return
		}
	case http.MethodDelete:
		if err := s.app.RemoveCartItem(session, bookID); err != nil {
			writeAppError(w, err)
			return
		}
	default:
		methodNotAllowed(w)
		return
	}
	view, err := s.app.GetCart(session)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	session, ok := sessionID(w, r)
	if !ok {
		return
	}
	var input app.OrderInput
	if !decodeJSON(w, r, &input) {
		return
	}
	summary, err := s.app.Checkout(r.Context(), session, input)
	if err != nil {
		metrics.OrdersFailedTotal.Inc()
		writeAppError(w, err)
		return
	}
	metrics.OrdersCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, summary)
}
