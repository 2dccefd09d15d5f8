package store

import (
	"errors"

	"squido/pkg/domain"
)

// ErrInsufficientStock is returned by CreateOrder when a cart line asks for
// more copies than the book currently has.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrOrderNotFound is returned by UpdateOrderStatus for an unknown order id.
var ErrOrderNotFound = errors.New("order not found")

// Store defines persistence operations for the bookstore entities.
// List methods return soft-deleted rows too; callers apply visibility rules.
type Store interface {
	// users
	SaveUser(domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)
	ListUsers() ([]domain.User, error)

	// books
	SaveBook(domain.Book) error
	GetBook(id string) (domain.Book, bool, error)
	ListBooks() ([]domain.Book, error)

	// categories
	SaveCategory(*domain.Category) error
	GetCategory(id int) (domain.Category, bool, error)
	ListCategories() ([]domain.Category, error)

	// authors
	SaveAuthor(domain.Author) error
	GetAuthor(id string) (domain.Author, bool, error)
	ListAuthors() ([]domain.Author, error)

	// ratings
	SaveRating(domain.Rating) error
	ListRatingsByBook(bookID string) ([]domain.Rating, error)

	// orders
	// CreateOrder inserts the order and its items, decrements stock, and
	// increments buy counts, all in one transaction.
	CreateOrder(domain.Order) error
	GetOrder(id string) (domain.Order, bool, error)
	ListOrders() ([]domain.Order, error)
	UpdateOrderStatus(id string, status domain.OrderStatus) error

	// refresh tokens
	SaveRefreshToken(domain.RefreshToken) error
	GetRefreshToken(token string) (domain.RefreshToken, bool, error)
	DeleteRefreshToken(token string) error
}

// CartStore persists per-session cart records.
type CartStore interface {
	GetCart(sessionID string) (domain.Cart, bool, error)
	PutCart(domain.Cart) error
	DeleteCart(sessionID string) error
}
