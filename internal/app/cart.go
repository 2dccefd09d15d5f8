package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"squido/internal/util"
	"squido/pkg/domain"
)

// CartLine is a cart item joined with the current book record, for display.
type CartLine struct {
	Book     domain.Book `json:"book"`
	Quantity int         `json:"quantity"`
	Subtotal float64     `json:"subtotal"`
}

// CartView is the priced cart shown to the session.
type CartView struct {
	SessionID string     `json:"sessionId"`
	Lines     []CartLine `json:"lines"`
	Total     float64    `json:"total"`
}

// GetCart prices the session's cart against the current catalog. Lines whose
// book has been deleted since they were added are dropped from the view.
func (a *App) GetCart(sessionID string) (CartView, error) {
	cart, _, err := a.carts.GetCart(sessionID)
	if err != nil {
		return CartView{}, fmt.Errorf("get cart: %w", err)
	}
	view := CartView{SessionID: sessionID, Lines: []CartLine{}}
	for _, line := range cart.Items {
		book, ok, err := a.store.GetBook(line.BookID)
		if err != nil {
			return CartView{}, fmt.Errorf("get book: %w", err)
		}
		if !ok || book.IsDeleted {
			continue
		}
		subtotal := book.Price * float64(line.Quantity)
		view.Lines = append(view.Lines, CartLine{Book: book, Quantity: line.Quantity, Subtotal: subtotal})
		view.Total += subtotal
	}
	return view, nil
}

// AddToCart adds a book to the session cart, merging quantities when the book
// is already present.
func (a *App) AddToCart(sessionID, bookID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	book, ok, err := a.store.GetBook(bookID)
	if err != nil {
		return fmt.Errorf("get book: %w", err)
	}
	if !ok || book.IsDeleted {
		return fmt.Errorf("book %s: %w", bookID, ErrNotFound)
	}
	cart, _, err := a.carts.GetCart(sessionID)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}
	cart.SessionID = sessionID
	merged := false
	for i := range cart.Items {
		if cart.Items[i].BookID == bookID {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, domain.CartItem{BookID: bookID, Quantity: quantity})
	}
	cart.UpdatedAt = time.Now().UTC()
	if err := a.carts.PutCart(cart); err != nil {
		return fmt.Errorf("put cart: %w", err)
	}
	return nil
}

// UpdateCartItem sets the quantity of a cart line. A quantity of zero removes
// the line.
func (a *App) UpdateCartItem(sessionID, bookID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	cart, ok, err := a.carts.GetCart(sessionID)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}
	if !ok {
		return fmt.Errorf("cart for session %s: %w", sessionID, ErrNotFound)
	}
	items := cart.Items[:0]
	found := false
	for _, line := range cart.Items {
		if line.BookID == bookID {
			found = true
			if quantity == 0 {
				continue
			}
			line.Quantity = quantity
		}
		items = append(items, line)
	}
	if !found {
		return fmt.Errorf("book %s in cart: %w", bookID, ErrNotFound)
	}
	cart.Items = items
	cart.UpdatedAt = time.Now().UTC()
	if err := a.carts.PutCart(cart); err != nil {
		return fmt.Errorf("put cart: %w", err)
	}
	return nil
}

// RemoveCartItem drops a book from the session cart.
func (a *App) RemoveCartItem(sessionID, bookID string) error {
	return a.UpdateCartItem(sessionID, bookID, 0)
}

// ClearCart discards the session's cart entirely.
func (a *App) ClearCart(sessionID string) error {
	if err := a.carts.DeleteCart(sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// Checkout turns the session's cart into an order and clears the cart on
// success.
func (a *App) Checkout(ctx context.Context, sessionID string, input OrderInput) (domain.OrderSummary, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.OrderSummary{}, ErrEmptyCart
	}
	cart, ok, err := a.carts.GetCart(sessionID)
	if err != nil {
		return domain.OrderSummary{}, fmt.Errorf("get cart: %w", err)
	}
	if !ok || len(cart.Items) == 0 {
		return domain.OrderSummary{}, ErrEmptyCart
	}
	summary, err := a.CreateOrder(ctx, input, cart.Items)
	if err != nil {
		return domain.OrderSummary{}, err
	}
	// The order is committed; a stale cart is only cosmetic.
	if err := a.carts.DeleteCart(sessionID); err != nil {
		util.LoggerFromContext(ctx).Warn("clear cart after checkout failed", "session_id", sessionID, "err", err)
	}
	return summary, nil
}
