package store

import (
	"sync"

	"squido/pkg/domain"
)

// MemoryStore keeps everything in-process. It backs tests and local
// development without a database.
type MemoryStore struct {
	mu sync.RWMutex

	users     map[string]domain.User
	userOrder []string
	email     map[string]string // email -> user ID

	books     map[string]domain.Book
	bookOrder []string

	categories    map[int]domain.Category
	categoryOrder []int
	nextCategory  int

	authors     map[string]domain.Author
	authorOrder []string

	ratings map[string][]domain.Rating // book ID -> ratings

	orders     map[string]domain.Order
	orderOrder []string

	refresh map[string]domain.RefreshToken
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]domain.User),
		email:        make(map[string]string),
		books:        make(map[string]domain.Book),
		categories:   make(map[int]domain.Category),
		nextCategory: 1,
		authors:      make(map[string]domain.Author),
		ratings:      make(map[string][]domain.Rating),
		orders:       make(map[string]domain.Order),
		refresh:      make(map[string]domain.RefreshToken),
	}
}

// users

func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, exists := m.users[u.ID]; exists {
		if old.Email != u.Email {
			delete(m.email, old.Email)
		}
	} else {
		m.userOrder = append(m.userOrder, u.ID)
	}
	m.users[u.ID] = u
	m.email[u.Email] = u.ID
	return nil
}

func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.email[email]
	if !ok {
		return domain.User{}, false, nil
	}
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *MemoryStore) ListUsers() ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.User, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		if u, ok := m.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

// books

func (m *MemoryStore) SaveBook(b domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.books[b.ID]; !exists {
		m.bookOrder = append(m.bookOrder, b.ID)
	}
	m.books[b.ID] = b
	return nil
}

func (m *MemoryStore) GetBook(id string) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	return b, ok, nil
}

func (m *MemoryStore) ListBooks() ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Book, 0, len(m.bookOrder))
	for _, id := range m.bookOrder {
		if b, ok := m.books[id]; ok {
			res = append(res, b)
		}
	}
	return res, nil
}

// categories

func (m *MemoryStore) SaveCategory(c *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.nextCategory
		m.nextCategory++
	} else if c.ID >= m.nextCategory {
		m.nextCategory = c.ID + 1
	}
	if _, exists := m.categories[c.ID]; !exists {
		m.categoryOrder = append(m.categoryOrder, c.ID)
	}
	m.categories[c.ID] = *c
	return nil
}

func (m *MemoryStore) GetCategory(id int) (domain.Category, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[id]
	return c, ok, nil
}

func (m *MemoryStore) ListCategories() ([]domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Category, 0, len(m.categoryOrder))
	for _, id := range m.categoryOrder {
		if c, ok := m.categories[id]; ok {
			res = append(res, c)
		}
	}
	return res, nil
}

// authors

func (m *MemoryStore) SaveAuthor(a domain.Author) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.authors[a.ID]; !exists {
		m.authorOrder = append(m.authorOrder, a.ID)
	}
	m.authors[a.ID] = a
	return nil
}

func (m *MemoryStore) GetAuthor(id string) (domain.Author, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.authors[id]
	return a, ok, nil
}

func (m *MemoryStore) ListAuthors() ([]domain.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Author, 0, len(m.authorOrder))
	for _, id := range m.authorOrder {
		if a, ok := m.authors[id]; ok {
			res = append(res, a)
		}
	}
	return res, nil
}

// ratings

func (m *MemoryStore) SaveRating(r domain.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings[r.BookID] = append(m.ratings[r.BookID], r)
	return nil
}

func (m *MemoryStore) ListRatingsByBook(bookID string) ([]domain.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Rating, len(m.ratings[bookID]))
	copy(res, m.ratings[bookID])
	return res, nil
}

// orders

func (m *MemoryStore) CreateOrder(o domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Validate every line before mutating anything so a failure leaves no
	// partial state, mirroring the transactional SQL implementation.
	for _, item := range o.Items {
		b, ok := m.books[item.BookID]
		if !ok || b.Quantity < item.Quantity {
			return ErrInsufficientStock
		}
	}
	for _, item := range o.Items {
		b := m.books[item.BookID]
		b.Quantity -= item.Quantity
		b.BuyCount += item.Quantity
		m.books[item.BookID] = b
	}
	if _, exists := m.orders[o.ID]; !exists {
		m.orderOrder = append(m.orderOrder, o.ID)
	}
	m.orders[o.ID] = o
	return nil
}

func (m *MemoryStore) GetOrder(id string) (domain.Order, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	return o, ok, nil
}

func (m *MemoryStore) ListOrders() ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Order, 0, len(m.orderOrder))
	// Newest first, matching the SQL implementation.
	for i := len(m.orderOrder) - 1; i >= 0; i-- {
		if o, ok := m.orders[m.orderOrder[i]]; ok {
			res = append(res, o)
		}
	}
	return res, nil
}

func (m *MemoryStore) UpdateOrderStatus(id string, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

// refresh tokens

func (m *MemoryStore) SaveRefreshToken(t domain.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh[t.Token] = t
	return nil
}

func (m *MemoryStore) GetRefreshToken(token string) (domain.RefreshToken, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.refresh[token]
	return t, ok, nil
}

func (m *MemoryStore) DeleteRefreshToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.refresh, token)
	return nil
}
