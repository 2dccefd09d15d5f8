package app

import (
	"context"
	"errors"
	"testing"

	"squido/pkg/domain"
	"squido/pkg/store"
)

func TestCreateOrderAdjustsStockAndSnapshotsPrices(t *testing.T) {
	a := newTestApp(t)
	category, author := seedCatalog(t, a)
	book := seedBook(t, a, category, author, "The Sea, The Sea", 12.50, 10)
	customer := seedCustomer(t, a, "shopper@example.com")

	summary, err := a.CreateOrder(context.Background(), OrderInput{
		CustomerID:  customer.ID,
		ShippingFee: 2.00,
	}, []domain.CartItem{{BookID: book.ID, Quantity: 3}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if summary.Number == "" || summary.ID == "" {
		t.Fatal("order missing id or number")
	}
	if summary.Status != domain.OrderPending {
		t.Fatalf("status = %s, want pending", summary.Status)
	}
	if len(summary.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(summary.Items))
	}
	item := summary.Items[0]
	if item.UnitPrice != 12.50 || item.Quantity != 3 {
		t.Fatalf("item snapshot = %+v", item)
	}
	if item.AuthorName != author.FullName || item.CategoryName != category.Name {
		t.Fatalf("item names = %q/%q", item.AuthorName, item.CategoryName)
	}

	detail, err := a.GetBookDetail(book.ID)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if detail.Quantity != 7 {
		t.Fatalf("stock = %d, want 7", detail.Quantity)
	}
	if detail.BuyCount != 3 {
		t.Fatalf("buy count = %d, want 3", detail.BuyCount)
	}

	// Raising the price later must not rewrite the snapshot.
	if _, err := a.UpdateBook(book.ID, BookInput{
		Title: book.Title, Price: 99.99, Quantity: detail.Quantity,
		CategoryID: category.ID, AuthorID: author.ID,
	}); err != nil {
		t.Fatalf("update book: %v", err)
	}
	loaded, err := a.GetOrder(summary.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if loaded.Items[0].UnitPrice != 12.50 {
		t.Fatalf("snapshot price = %v, want 12.50", loaded.Items[0].UnitPrice)
	}
	if loaded.Customer.ID != customer.ID {
		t.Fatalf("order customer = %s, want %s", loaded.Customer.ID, customer.ID)
	}
}

func TestCreateOrderInsufficientStockLeavesNothingBehind(t *testing.T) {
	a := newTestApp(t)
	category, author := seedCatalog(t, a)
	plenty := seedBook(t, a, category, author, "In Stock", 5.00, 10)
	scarce := seedBook(t, a, category, author, "Nearly Gone", 5.00, 1)
	customer := seedCustomer(t, a, "shopper@example.com")

	_, err := a.CreateOrder(context.Background(), OrderInput{CustomerID: customer.ID}, []domain.CartItem{
		{BookID: plenty.ID, Quantity: 2},
		{BookID: scarce.ID, Quantity: 5},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}

	// The first line must not have been committed on its own.
	detail, err := a.GetBookDetail(plenty.ID)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if detail.Quantity != 10 || detail.BuyCount != 0 {
		t.Fatalf("stock = %d buyCount = %d, want untouched", detail.Quantity, detail.BuyCount)
	}
	orders, err := a.ListOrders(0, 0)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if orders.TotalCount != 0 {
		t.Fatalf("orders = %d, want 0", orders.TotalCount)
	}
}

func TestCreateOrderValidatesInput(t *testing.T) {
	a := newTestApp(t)
	category, author := seedCatalog(t, a)
	book := seedBook(t, a, category, author, "The Bell", 8.00, 5)
	customer := seedCustomer(t, a, "shopper@example.com")
	ctx := context.Background()

	if _, err := a.CreateOrder(ctx, OrderInput{CustomerID: customer.ID}, nil); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("empty cart: got %v, want ErrEmptyCart", err)
	}
	if _, err := a.CreateOrder(ctx, OrderInput{CustomerID: "missing"}, []domain.CartItem{{BookID: book.ID, Quantity: 1}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing customer: got %v, want ErrNotFound", err)
	}
	if _, err := a.CreateOrder(ctx, OrderInput{CustomerID: customer.ID}, []domain.CartItem{{BookID: book.ID, Quantity: 0}}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("zero quantity: got %v, want ErrInvalidQuantity", err)
	}
	if _, err := a.CreateOrder(ctx, OrderInput{CustomerID: customer.ID}, []domain.CartItem{{BookID: "missing", Quantity: 1}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing book: got %v, want ErrNotFound", err)
	}
}

// failingAuthorStore breaks author lookups to model a transient store fault.
type failingAuthorStore struct {
	*store.MemoryStore
}

func (s *failingAuthorStore) GetAuthor(string) (domain.Author, bool, error) {
	return domain.Author{}, false, errors.New("store unavailable")
}

func TestCreateOrderSurfacesSnapshotLookupFailures(t *testing.T) {
	mem := store.NewMemoryStore()
	a, err := New(Config{
		JWTSecret: "unit-test-signing-secret",
		Store:     &failingAuthorStore{MemoryStore: mem},
		Carts:     store.NewMemoryCartStore(),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	// Seed directly; the catalog services would trip over the broken lookups.
	category := domain.Category{Name: "Fiction"}
	if err := mem.SaveCategory(&category); err != nil {
		t.Fatalf("save category: %v", err)
	}
	author := domain.Author{ID: "a-1", FullName: "Iris Murdoch"}
	if err := mem.SaveAuthor(author); err != nil {
		t.Fatalf("save author: %v", err)
	}
	book := domain.Book{ID: "b-1", Title: "The Italian Girl", Price: 9.00, Quantity: 5, CategoryID: category.ID, AuthorID: author.ID}
	if err := mem.SaveBook(book); err != nil {
		t.Fatalf("save book: %v", err)
	}
	customer := domain.User{ID: "u-1", Email: "shopper@example.com", Role: domain.RoleCustomer}
	if err := mem.SaveUser(customer); err != nil {
		t.Fatalf("save user: %v", err)
	}

	_, err = a.CreateOrder(context.Background(), OrderInput{CustomerID: customer.ID},
		[]domain.CartItem{{BookID: book.ID, Quantity: 1}})
	if err == nil {
		t.Fatal("expected snapshot lookup failure to abort the order")
	}

	// Nothing may have been committed or decremented.
	orders, err := mem.ListOrders()
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("orders = %d, want 0", len(orders))
	}
	stored, _, err := mem.GetBook(book.ID)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if stored.Quantity != 5 || stored.BuyCount != 0 {
		t.Fatalf("stock = %d buyCount = %d, want untouched", stored.Quantity, stored.BuyCount)
	}
}

func TestCreateOrderDefaultsShippingFromCustomer(t *testing.T) {
	a := newTestApp(t)
	category, author := seedCatalog(t, a)
	book := seedBook(t, a, category, author, "A Severed Head", 7.00, 5)
	customer := seedCustomer(t, a, "shopper@example.com")

	summary, err := a.CreateOrder(context.Background(), OrderInput{CustomerID: customer.ID},
		[]domain.CartItem{{BookID: book.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if summary.Shipping.Address != customer.Address || summary.Shipping.City != customer.City {
		t.Fatalf("shipping = %+v, want customer address", summary.Shipping)
	}
	if summary.PaymentMethod != domain.PaymentCOD {
		t.Fatalf("payment method = %s, want cod", summary.PaymentMethod)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	a := newTestApp(t)
	category, author := seedCatalog(t, a)
	book := seedBook(t, a, category, author, "The Green Knight", 9.00, 5)
	customer := seedCustomer(t, a, "shopper@example.com")
	ctx := context.Background()

	summary, err := a.CreateOrder(ctx, OrderInput{CustomerID: customer.ID},
		[]domain.CartItem{{BookID: book.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := a.UpdateOrderStatus(ctx, summary.ID, domain.OrderCompleted); err != nil {
		t.Fatalf("update status: %v", err)
	}
	loaded, err := a.GetOrder(summary.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if loaded.Status != domain.OrderCompleted {
		t.Fatalf("status = %s, want completed", loaded.Status)
	}

	if err := a.UpdateOrderStatus(ctx, "missing", domain.OrderCancelled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing order: got %v, want ErrNotFound", err)
	}
	if err := a.UpdateOrderStatus(ctx, summary.ID, domain.OrderStatus("shipped")); err == nil {
		t.Fatal("unknown status accepted")
	}
}
