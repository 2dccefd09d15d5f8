package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"squido/pkg/domain"
)

// GormStore implements Store using GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens a Postgres connection and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return NewGormStoreWithDB(db)
}

// NewGormStoreWithDB wraps an already-open gorm.DB and runs auto-migrations.
// Tests use this with an in-memory SQLite database.
func NewGormStoreWithDB(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&CategoryModel{},
		&AuthorModel{},
		&OrderModel{},
		&OrderItemModel{},
		&RatingModel{},
		&RefreshTokenModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// users

func (s *GormStore) SaveUser(u domain.User) error {
	m := userToModel(u)
	if err := s.db.Save(&m).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var m UserModel
	err := s.db.Where("email = ?", email).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("get user by email: %w", err)
	}
	return userFromModel(m), true, nil
}

func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var m UserModel
	err := s.db.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("get user: %w", err)
	}
	return userFromModel(m), true, nil
}

func (s *GormStore) ListUsers() ([]domain.User, error) {
	var models []UserModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, userFromModel(m))
	}
	return users, nil
}

// books

func (s *GormStore) SaveBook(b domain.Book) error {
	m := bookToModel(b)
	if err := s.db.Save(&m).Error; err != nil {
		return fmt.Errorf("save book: %w", err)
	}
	return nil
}

func (s *GormStore) GetBook(id string) (domain.Book, bool, error) {
	var m BookModel
	err := s.db.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Book{}, false, nil
	}
	if err != nil {
		return domain.Book{}, false, fmt.Errorf("get book: %w", err)
	}
	return bookFromModel(m), true, nil
}

func (s *GormStore) ListBooks() ([]domain.Book, error) {
	var models []BookModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	books := make([]domain.Book, 0, len(models))
	for _, m := range models {
		books = append(books, bookFromModel(m))
	}
	return books, nil
}

// categories

func (s *GormStore) SaveCategory(c *domain.Category) error {
	m := categoryToModel(*c)
	if err := s.db.Save(&m).Error; err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	c.ID = m.ID
	return nil
}

func (s *GormStore) GetCategory(id int) (domain.Category, bool, error) {
	var m CategoryModel
	err := s.db.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Category{}, false, nil
	}
	if err != nil {
		return domain.Category{}, false, fmt.Errorf("get category: %w", err)
	}
	return categoryFromModel(m), true, nil
}

func (s *GormStore) ListCategories() ([]domain.Category, error) {
	var models []CategoryModel
	if err := s.db.Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories := make([]domain.Category, 0, len(models))
	for _, m := range models {
		categories = append(categories, categoryFromModel(m))
	}
	return categories, nil
}

// authors

func (s *GormStore) SaveAuthor(a domain.Author) error {
	m := authorToModel(a)
	if err := s.db.Save(&m).Error; err != nil {
		return fmt.Errorf("save author: %w", err)
	}
	return nil
}

func (s *GormStore) GetAuthor(id string) (domain.Author, bool, error) {
	var m AuthorModel
	err := s.db.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Author{}, false, nil
	}
	if err != nil {
		return domain.Author{}, false, fmt.Errorf("get author: %w", err)
	}
	return authorFromModel(m), true, nil
}

func (s *GormStore) ListAuthors() ([]domain.Author, error) {
	var models []AuthorModel
	if err := s.db.Order("full_name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	authors := make([]domain.Author, 0, len(models))
	for _, m := range models {
		authors = append(authors, authorFromModel(m))
	}
	return authors, nil
}

// ratings

func (s *GormStore) SaveRating(r domain.Rating) error {
	m := ratingToModel(r)
	if err := s.db.Save(&m).Error; err != nil {
		return fmt.Errorf("save rating: %w", err)
	}
	return nil
}

func (s *GormStore) ListRatingsByBook(bookID string) ([]domain.Rating, error) {
	var models []RatingModel
	if err := s.db.Where("book_id = ?", bookID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	ratings := make([]domain.Rating, 0, len(models))
	for _, m := range models {
		ratings = append(ratings, ratingFromModel(m))
	}
	return ratings, nil
}

// orders

// CreateOrder inserts the order with its items and adjusts book stock and buy
// counts in the same transaction. The stock decrement is guarded so a cart
// line larger than current stock rolls the whole order back.
func (s *GormStore) CreateOrder(o domain.Order) error {
	m, err := orderToModel(o)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range o.Items {
			res := tx.Model(&BookModel{}).
				Where("id = ? AND quantity >= ?", item.BookID, item.Quantity).
				Updates(map[string]any{
					"quantity":  gorm.Expr("quantity - ?", item.Quantity),
					"buy_count": gorm.Expr("buy_count + ?", item.Quantity),
				})
			if res.Error != nil {
				return fmt.Errorf("adjust stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}
		if err := tx.Create(&m).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
}

func (s *GormStore) GetOrder(id string) (domain.Order, bool, error) {
	var m OrderModel
	err := s.db.Preload("Items").Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("get order: %w", err)
	}
	return orderFromModel(m), true, nil
}

func (s *GormStore) ListOrders() ([]domain.Order, error) {
	var models []OrderModel
	if err := s.db.Preload("Items").Order("order_date DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders := make([]domain.Order, 0, len(models))
	for _, m := range models {
		orders = append(orders, orderFromModel(m))
	}
	return orders, nil
}

func (s *GormStore) UpdateOrderStatus(id string, status domain.OrderStatus) error {
	res := s.db.Model(&OrderModel{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return fmt.Errorf("update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// refresh tokens

func (s *GormStore) SaveRefreshToken(t domain.RefreshToken) error {
	m := refreshTokenToModel(t)
	if err := s.db.Save(&m).Error; err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (s *GormStore) GetRefreshToken(token string) (domain.RefreshToken, bool, error) {
	var m RefreshTokenModel
	err := s.db.Where("token = ?", token).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RefreshToken{}, false, nil
	}
	if err != nil {
		return domain.RefreshToken{}, false, fmt.Errorf("get refresh token: %w", err)
	}
	return refreshTokenFromModel(m), true, nil
}

func (s *GormStore) DeleteRefreshToken(token string) error {
	if err := s.db.Where("token = ?", token).Delete(&RefreshTokenModel{}).Error; err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
