package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"squido/internal/util"
	"squido/pkg/domain"
	"squido/pkg/store"
)

// OrderInput carries the checkout details for a new order.
type OrderInput struct {
	CustomerID    string                 `json:"customerId"`
	PaymentMethod domain.PaymentMethod   `json:"paymentMethod"`
	ShippingFee   float64                `json:"shippingFee"`
	Note          string                 `json:"note"`
	Shipping      domain.ShippingAddress `json:"shipping"`
}

// CreateOrder builds an order from the cart lines and persists it atomically
// with its items: either everything commits, including the stock adjustments,
// or nothing does.
func (a *App) CreateOrder(ctx context.Context, input OrderInput, cartItems []domain.CartItem) (domain.OrderSummary, error) {
	if len(cartItems) == 0 {
		return domain.OrderSummary{}, ErrEmptyCart
	}
	customer, err := a.GetUser(strings.TrimSpace(input.CustomerID))
	if err != nil {
		return domain.OrderSummary{}, err
	}

	orderID := uuid.NewString()
	items := make([]domain.OrderItem, 0, len(cartItems))
	for _, line := range cartItems {
		if line.Quantity <= 0 {
			return domain.OrderSummary{}, ErrInvalidQuantity
		}
		book, ok, err := a.store.GetBook(line.BookID)
		if err != nil {
			return domain.OrderSummary{}, fmt.Errorf("get book: %w", err)
		}
		if !ok || book.IsDeleted {
			return domain.OrderSummary{}, fmt.Errorf("book %s: %w", line.BookID, ErrNotFound)
		}
		item := domain.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   orderID,
			BookID:    book.ID,
			Title:     book.Title,
			UnitPrice: book.Price,
			Quantity:  line.Quantity,
		}
		author, ok, err := a.store.GetAuthor(book.AuthorID)
		if err != nil {
			return domain.OrderSummary{}, fmt.Errorf("get author: %w", err)
		}
		if ok {
			item.AuthorName = author.FullName
		}
		category, ok, err := a.store.GetCategory(book.CategoryID)
		if err != nil {
			return domain.OrderSummary{}, fmt.Errorf("get category: %w", err)
		}
		if ok {
			item.CategoryName = category.Name
		}
		items = append(items, item)
	}

	number, err := newOrderNumber()
	if err != nil {
		return domain.OrderSummary{}, fmt.Errorf("generate order number: %w", err)
	}
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.PaymentCOD
	}
	shipping := input.Shipping
	if shipping.Address == "" {
		shipping = domain.ShippingAddress{Address: customer.Address, City: customer.City, Phone: customer.Phone}
	}
	order := domain.Order{
		ID:            orderID,
		Number:        number,
		CustomerID:    customer.ID,
		Status:        domain.OrderPending,
		PaymentMethod: paymentMethod,
		ShippingFee:   input.ShippingFee,
		Note:          strings.TrimSpace(input.Note),
		Shipping:      shipping,
		Items:         items,
		OrderDate:     time.Now().UTC(),
	}
	if err := a.store.CreateOrder(order); err != nil {
		if errors.Is(err, store.ErrInsufficientStock) {
			return domain.OrderSummary{}, ErrInsufficientStock
		}
		return domain.OrderSummary{}, fmt.Errorf("create order: %w", err)
	}

	// Best-effort notification; the order is already committed.
	if err := a.events.PublishOrderCreated(ctx, order); err != nil {
		util.LoggerFromContext(ctx).Warn("publish order.created failed", "order_id", order.ID, "err", err)
	}
	return domain.OrderSummary{Order: order, Customer: customer}, nil
}

// GetOrder loads an order with its items and customer.
func (a *App) GetOrder(id string) (domain.OrderSummary, error) {
	order, ok, err := a.store.GetOrder(id)
	if err != nil {
		return domain.OrderSummary{}, fmt.Errorf("get order: %w", err)
	}
	if !ok {
		return domain.OrderSummary{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	customer, _, err := a.store.GetUserByID(order.CustomerID)
	if err != nil {
		return domain.OrderSummary{}, fmt.Errorf("get customer: %w", err)
	}
	return domain.OrderSummary{Order: order, Customer: customer}, nil
}

// ListOrders returns orders newest first, paginated.
func (a *App) ListOrders(page, pageSize int) (domain.PagedResult[domain.Order], error) {
	orders, err := a.store.ListOrders()
	if err != nil {
		return domain.PagedResult[domain.Order]{}, fmt.Errorf("list orders: %w", err)
	}
	return paginate(orders, page, pageSize), nil
}

// UpdateOrderStatus moves an order to a new status.
func (a *App) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	switch status {
	case domain.OrderPending, domain.OrderCompleted, domain.OrderCancelled:
	default:
		return fmt.Errorf("unknown order status %q: %w", status, ErrInvalidInput)
	}
	if err := a.store.UpdateOrderStatus(id, status); err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			return fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("update order status: %w", err)
	}
	if err := a.events.PublishOrderStatusChanged(ctx, id, status); err != nil {
		util.LoggerFromContext(ctx).Warn("publish order.status_changed failed", "order_id", id, "err", err)
	}
	return nil
}

// newOrderNumber builds a human-readable, collision-resistant order number:
// a second-resolution timestamp followed by six random digits.
func newOrderNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%06d", time.Now().UTC().Format("20060102150405"), n.Int64()+100000), nil
}
