package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"squido/internal/app"
	"squido/pkg/auth"
	"squido/pkg/domain"
	"squido/pkg/store"
)

type testEnv struct {
	app    *app.App
	store  *store.MemoryStore
	server *httptest.Server
}

func newTestEnv(t *testing.T, overrides func(*Config)) *testEnv {
	t.Helper()
	mem := store.NewMemoryStore()
	a, err := app.New(app.Config{
		JWTSecret:      "server-test-signing-secret",
		AccessTokenTTL: 15 * time.Minute,
		Store:          mem,
		Carts:          store.NewMemoryCartStore(),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	redis := miniredis.RunT(t)
	cfg := Config{
		App:       a,
		RedisAddr: redis.Addr(),
	}
	if overrides != nil {
		overrides(&cfg)
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return &testEnv{app: a, store: mem, server: srv}
}

func (e *testEnv) seedAdmin(t *testing.T) string {
	t.Helper()
	hash, err := auth.HashPassword("adminpass1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        "admin@example.com",
		Username:     "admin",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.store.SaveUser(user); err != nil {
		t.Fatalf("save user: %v", err)
	}

	result, err := e.app.Login(user.Email, "adminpass1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return result.AccessToken
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any, headers map[string]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.request(t, http.MethodGet, "/healthz", "", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.request(t, http.MethodGet, "/metrics", "", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAdminEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.request(t, http.MethodGet, "/api/orders", "", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", resp.StatusCode)
	}
	resp = env.request(t, http.MethodGet, "/api/stats", "garbage-token", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", resp.StatusCode)
	}
}

func TestCatalogCRUDOverHTTP(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.seedAdmin(t)

	// Mutations need staff credentials.
	resp := env.request(t, http.MethodPost, "/api/categories", "", app.CategoryInput{Name: "Fiction"}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous create: status = %d, want 401", resp.StatusCode)
	}

	resp = env.request(t, http.MethodPost, "/api/categories", token, app.CategoryInput{Name: "Fiction"}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create category: status = %d, want 201", resp.StatusCode)
	}
	var category domain.Category
	decodeBody(t, resp, &category)

	resp = env.request(t, http.MethodPost, "/api/authors", token, app.AuthorInput{FullName: "Iris Murdoch"}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create author: status = %d, want 201", resp.StatusCode)
	}
	var author domain.Author
	decodeBody(t, resp, &author)

	resp = env.request(t, http.MethodPost, "/api/books", token, app.BookInput{
		Title:      "The Sea, The Sea",
		Price:      12.50,
		Quantity:   10,
		CategoryID: category.ID,
		AuthorID:   author.ID,
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create book: status = %d, want 201", resp.StatusCode)
	}
	var book domain.Book
	decodeBody(t, resp, &book)

	// Reads are public.
	resp = env.request(t, http.MethodGet, "/api/books?keyword=sea", "", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list books: status = %d, want 200", resp.StatusCode)
	}
	var page domain.PagedResult[domain.Book]
	decodeBody(t, resp, &page)
	if page.TotalCount != 1 {
		t.Fatalf("list books: total = %d, want 1", page.TotalCount)
	}

	resp = env.request(t, http.MethodGet, "/api/books/"+book.ID, "", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get book: status = %d, want 200", resp.StatusCode)
	}
	var detail domain.BookDetail
	decodeBody(t, resp, &detail)
	if detail.Author == nil || detail.Author.ID != author.ID {
		t.Fatalf("book detail author = %+v", detail.Author)
	}

	resp = env.request(t, http.MethodGet, "/api/books/missing", "", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing book: status = %d, want 404", resp.StatusCode)
	}
}

func TestCartAndCheckoutOverHTTP(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.seedAdmin(t)
	headers := map[string]string{"X-Session-Id": "sess-http-1"}

	// Seed catalog and customer through the service layer.
	book := seedCatalog(t, env.app)
	customer, err := env.app.Register(app.RegisterInput{Email: "shopper@example.com", Password: "customer1pass"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	resp := env.request(t, http.MethodGet, "/api/cart", "", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("no session header: status = %d, want 400", resp.StatusCode)
	}

	resp = env.request(t, http.MethodPost, "/api/cart/items", "", map[string]any{
		"bookId": book.ID, "quantity": 2,
	}, headers)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add to cart: status = %d, want 200", resp.StatusCode)
	}
	var view app.CartView
	decodeBody(t, resp, &view)
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 2 {
		t.Fatalf("cart = %+v", view.Lines)
	}

	resp = env.request(t, http.MethodPost, "/api/checkout", "", app.OrderInput{CustomerID: customer.ID}, headers)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: status = %d, want 201", resp.StatusCode)
	}
	var summary domain.OrderSummary
	decodeBody(t, resp, &summary)
	if len(summary.Items) != 1 || summary.Items[0].Quantity != 2 {
		t.Fatalf("order items = %+v", summary.Items)
	}

	resp = env.request(t, http.MethodGet, "/api/cart", "", nil, headers)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get cart: status = %d, want 200", resp.StatusCode)
	}
	decodeBody(t, resp, &view)
	if len(view.Lines) != 0 {
		t.Fatalf("cart after checkout = %+v", view.Lines)
	}

	// Second checkout on an empty cart is a client error.
	resp = env.request(t, http.MethodPost, "/api/checkout", "", app.OrderInput{CustomerID: customer.ID}, headers)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty checkout: status = %d, want 400", resp.StatusCode)
	}

	// Back office sees the order.
	resp = env.request(t, http.MethodGet, "/api/orders", token, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list orders: status = %d, want 200", resp.StatusCode)
	}
	var orders domain.PagedResult[domain.Order]
	decodeBody(t, resp, &orders)
	if orders.TotalCount != 1 {
		t.Fatalf("orders = %d, want 1", orders.TotalCount)
	}

	resp = env.request(t, http.MethodPatch, "/api/orders/"+summary.ID+"/status", token, map[string]string{"status": "completed"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status: status = %d, want 200", resp.StatusCode)
	}

	resp = env.request(t, http.MethodGet, "/api/stats", token, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: status = %d, want 200", resp.StatusCode)
	}
	var stats domain.StatsSummary
	decodeBody(t, resp, &stats)
	if stats.TotalRevenues != 25.00 {
		t.Fatalf("revenue = %v, want 25.00", stats.TotalRevenues)
	}
}

func TestLoginRateLimit(t *testing.T) {
	env := newTestEnv(t, func(cfg *Config) {
		cfg.LoginRateLimitPerMinute = 1
	})
	env.seedAdmin(t)

	body := map[string]string{"email": "admin@example.com", "password": "adminpass1"}
	resp := env.request(t, http.MethodPost, "/api/auth/login", "", body, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first login: status = %d, want 200", resp.StatusCode)
	}
	resp = env.request(t, http.MethodPost, "/api/auth/login", "", body, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second login: status = %d, want 429", resp.StatusCode)
	}
}

func TestServerRequiresRedisRateLimiter(t *testing.T) {
	a, err := app.New(app.Config{
		JWTSecret: "server-test-signing-secret",
		Store:     store.NewMemoryStore(),
		Carts:     store.NewMemoryCartStore(),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if _, err := New(Config{App: a}); err == nil {
		t.Fatal("expected redis-backed limiter initialization to fail without redis addr")
	}
}

func seedCatalog(t *testing.T, a *app.App) domain.Book {
	t.Helper()
	category, err := a.CreateCategory(app.CategoryInput{Name: "Fiction"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	author, err := a.CreateAuthor(app.AuthorInput{FullName: "Iris Murdoch"})
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	book, err := a.CreateBook(app.BookInput{
		Title:      "The Sea, The Sea",
		Price:      12.50,
		Quantity:   10,
		CategoryID: category.ID,
		AuthorID:   author.ID,
	})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}
	return book
}
