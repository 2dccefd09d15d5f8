package domain

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleStaff    UserRole = "staff"
	RoleCustomer UserRole = "customer"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "cod"
	PaymentCard PaymentMethod = "card"
)

type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	BuyCount    int       `json:"buyCount"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CategoryID  int       `json:"categoryId"`
	AuthorID    string    `json:"authorId"`
	IsDeleted   bool      `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsDeleted   bool   `json:"-"`
}

type Author struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Bio       string `json:"bio,omitempty"`
	IsDeleted bool   `json:"-"`
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Gender       string    `json:"gender,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	IsDeleted    bool      `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ShippingAddress is captured on the order at checkout time.
type ShippingAddress struct {
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type Order struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	CustomerID    string          `json:"customerId"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	ShippingFee   float64         `json:"shippingFee"`
	Note          string          `json:"note,omitempty"`
	Shipping      ShippingAddress `json:"shipping"`
	Items         []OrderItem     `json:"items,omitempty"`
	OrderDate     time.Time       `json:"orderDate"`
}

// OrderItem snapshots the book title/author/category/price at purchase time so
// later catalog edits do not rewrite order history.
type OrderItem struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"orderId"`
	BookID       string  `json:"bookId"`
	Title        string  `json:"title"`
	AuthorName   string  `json:"authorName"`
	CategoryName string  `json:"categoryName"`
	UnitPrice    float64 `json:"unitPrice"`
	Quantity     int     `json:"quantity"`
}

type Rating struct {
	ID         string    `json:"id"`
	BookID     string    `json:"bookId"`
	CustomerID string    `json:"customerId"`
	Value      int       `json:"value"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type RefreshToken struct {
	Token   string    `json:"token"`
	UserID  string    `json:"userId"`
	Created time.Time `json:"created"`
	Expires time.Time `json:"expires"`
}

// Valid reports whether the token has not expired at now.
func (t RefreshToken) Valid(now time.Time) bool {
	return t.Expires.After(now)
}

// CartItem is one line of a session cart.
type CartItem struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

// Cart is the per-session cart record.
type Cart struct {
	SessionID string     `json:"sessionId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
