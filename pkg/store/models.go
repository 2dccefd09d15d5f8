package store

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"squido/pkg/domain"
)

// GORM models used for persistence. Mapping to domain types is explicit so
// every field correspondence stays auditable.

type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Username     string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;index"`
	Gender       string
	Address      string
	City         string
	Phone        string
	IsDeleted    bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time
}

type BookModel struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null;index"`
	Description string `gorm:"type:text"`
	Price       float64
	Quantity    int
	BuyCount    int `gorm:"not null;default:0"`
	ImageURL    string
	CategoryID  int       `gorm:"not null;index"`
	AuthorID    string    `gorm:"not null;index"`
	IsDeleted   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type CategoryModel struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"not null"`
	Description string
	IsDeleted   bool `gorm:"not null;default:false"`
}

type AuthorModel struct {
	ID        string `gorm:"primaryKey"`
	FullName  string `gorm:"not null;index"`
	Bio       string `gorm:"type:text"`
	IsDeleted bool   `gorm:"not null;default:false"`
}

type OrderModel struct {
	ID            string `gorm:"primaryKey"`
	Number        string `gorm:"uniqueIndex;not null"`
	CustomerID    string `gorm:"not null;index"`
	Status        string `gorm:"not null;index"`
	PaymentMethod string `gorm:"not null"`
	ShippingFee   float64
	Note          string
	Shipping      datatypes.JSON
	OrderDate     time.Time        `gorm:"not null;index"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID"`
}

type OrderItemModel struct {
	ID           string `gorm:"primaryKey"`
	OrderID      string `gorm:"not null;index"`
	BookID       string `gorm:"not null;index"`
	Title        string `gorm:"not null"`
	AuthorName   string
	CategoryName string
	UnitPrice    float64
	Quantity     int
}

type RatingModel struct {
	ID         string    `gorm:"primaryKey"`
	BookID     string    `gorm:"not null;index"`
	CustomerID string    `gorm:"not null;index"`
	Value      int       `gorm:"not null"`
	Comment    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null"`
}

type RefreshTokenModel struct {
	Token   string    `gorm:"primaryKey"`
	UserID  string    `gorm:"not null;index"`
	Created time.Time `gorm:"not null"`
	Expires time.Time `gorm:"not null"`
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Gender:       u.Gender,
		Address:      u.Address,
		City:         u.City,
		Phone:        u.Phone,
		IsDeleted:    u.IsDeleted,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		Gender:       m.Gender,
		Address:      m.Address,
		City:         m.City,
		Phone:        m.Phone,
		IsDeleted:    m.IsDeleted,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func bookToModel(b domain.Book) BookModel {
	return BookModel{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Price:       b.Price,
		Quantity:    b.Quantity,
		BuyCount:    b.BuyCount,
		ImageURL:    b.ImageURL,
		CategoryID:  b.CategoryID,
		AuthorID:    b.AuthorID,
		IsDeleted:   b.IsDeleted,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func bookFromModel(m BookModel) domain.Book {
	return domain.Book{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		Quantity:    m.Quantity,
		BuyCount:    m.BuyCount,
		ImageURL:    m.ImageURL,
		CategoryID:  m.CategoryID,
		AuthorID:    m.AuthorID,
		IsDeleted:   m.IsDeleted,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func categoryToModel(c domain.Category) CategoryModel {
	return CategoryModel{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsDeleted:   c.IsDeleted,
	}
}

func categoryFromModel(m CategoryModel) domain.Category {
	return domain.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		IsDeleted:   m.IsDeleted,
	}
}

func authorToModel(a domain.Author) AuthorModel {
	return AuthorModel{
		ID:        a.ID,
		FullName:  a.FullName,
		Bio:       a.Bio,
		IsDeleted: a.IsDeleted,
	}
}

func authorFromModel(m AuthorModel) domain.Author {
	return domain.Author{
		ID:        m.ID,
		FullName:  m.FullName,
		Bio:       m.Bio,
		IsDeleted: m.IsDeleted,
	}
}

func ratingToModel(r domain.Rating) RatingModel {
	return RatingModel{
		ID:         r.ID,
		BookID:     r.BookID,
		CustomerID: r.CustomerID,
		Value:      r.Value,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func ratingFromModel(m RatingModel) domain.Rating {
	return domain.Rating{
		ID:         m.ID,
		BookID:     m.BookID,
		CustomerID: m.CustomerID,
		Value:      m.Value,
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt,
	}
}

func orderToModel(o domain.Order) (OrderModel, error) {
	shipping, err := json.Marshal(o.Shipping)
	if err != nil {
		return OrderModel{}, err
	}
	items := make([]OrderItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemToModel(item))
	}
	return OrderModel{
		ID:            o.ID,
		Number:        o.Number,
		CustomerID:    o.CustomerID,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		ShippingFee:   o.ShippingFee,
		Note:          o.Note,
		Shipping:      datatypes.JSON(shipping),
		OrderDate:     o.OrderDate,
		Items:         items,
	}, nil
}

func orderFromModel(m OrderModel) domain.Order {
	var shipping domain.ShippingAddress
	if len(m.Shipping) > 0 {
		_ = json.Unmarshal(m.Shipping, &shipping)
	}
	items := make([]domain.OrderItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, orderItemFromModel(item))
	}
	return domain.Order{
		ID:            m.ID,
		Number:        m.Number,
		CustomerID:    m.CustomerID,
		Status:        domain.OrderStatus(m.Status),
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		ShippingFee:   m.ShippingFee,
		Note:          m.Note,
		Shipping:      shipping,
		OrderDate:     m.OrderDate,
		Items:         items,
	}
}

func orderItemToModel(i domain.OrderItem) OrderItemModel {
	return OrderItemModel{
		ID:           i.ID,
		OrderID:      i.OrderID,
		BookID:       i.BookID,
		Title:        i.Title,
		AuthorName:   i.AuthorName,
		CategoryName: i.CategoryName,
		UnitPrice:    i.UnitPrice,
		Quantity:     i.Quantity,
	}
}

func orderItemFromModel(m OrderItemModel) domain.OrderItem {
	return domain.OrderItem{
		ID:           m.ID,
		OrderID:      m.OrderID,
		BookID:       m.BookID,
		Title:        m.Title,
		AuthorName:   m.AuthorName,
		CategoryName: m.CategoryName,
		UnitPrice:    m.UnitPrice,
		Quantity:     m.Quantity,
	}
}

func refreshTokenToModel(t domain.RefreshToken) RefreshTokenModel {
	return RefreshTokenModel{
		Token:   t.Token,
		UserID:  t.UserID,
		Created: t.Created,
		Expires: t.Expires,
	}
}

func refreshTokenFromModel(m RefreshTokenModel) domain.RefreshToken {
	return domain.RefreshToken{
		Token:   m.Token,
		UserID:  m.UserID,
		Created: m.Created,
		Expires: m.Expires,
	}
}
