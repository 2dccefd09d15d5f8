package app

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"squido/pkg/auth"
	"squido/pkg/domain"
	"squido/pkg/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(Config{
		JWTSecret:      "unit-test-signing-secret",
		AccessTokenTTL: 15 * time.Minute,
		RefreshTTL:     time.Hour,
		Store:          store.NewMemoryStore(),
		Carts:          store.NewMemoryCartStore(),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a
}

func seedCatalog(t *testing.T, a *App) (domain.Category, domain.Author) {
	t.Helper()
	category, err := a.CreateCategory(CategoryInput{Name: "Fiction"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	author, err := a.CreateAuthor(AuthorInput{FullName: "Iris Murdoch"})
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	return category, author
}

func seedBook(t *testing.T, a *App, category domain.Category, author domain.Author, title string, price float64, quantity int) domain.Book {
	t.Helper()
	book, err := a.CreateBook(BookInput{
		Title:      title,
		Price:      price,
		Quantity:   quantity,
		CategoryID: category.ID,
		AuthorID:   author.ID,
	})
	if err != nil {
		t.Fatalf("create book %q: %v", title, err)
	}
	return book
}

func seedCustomer(t *testing.T, a *App, email string) domain.User {
	t.Helper()
	user, err := a.Register(RegisterInput{
		Email:    email,
		Password: "customer1pass",
		Address:  "12 Main St",
		City:     "Springfield",
		Phone:    "555-0100",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

// seedStaff inserts a back-office user directly; registration only creates
// customers.
func seedStaff(t *testing.T, a *App, email string, role domain.UserRole) domain.User {
	t.Helper()
	hash, err := auth.HashPassword("staffpass1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     "staffer",
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.SaveUser(user); err != nil {
		t.Fatalf("save user: %v", err)
	}
	return user
}
