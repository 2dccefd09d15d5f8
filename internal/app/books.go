package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"squido/pkg/domain"
)

// ListBooks returns non-deleted books filtered by optional keyword over the
// title, then paginated. page <= 0 returns the full filtered list.
func (a *App) ListBooks(keyword string, page, pageSize int) (domain.PagedResult[domain.Book], error) {
	books, err := a.visibleBooks()
	if err != nil {
		return domain.PagedResult[domain.Book]{}, err
	}
	filtered := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if matchKeyword(b.Title, keyword) {
			filtered = append(filtered, b)
		}
	}
	return paginate(filtered, page, pageSize), nil
}

// BooksByCategoryIDs returns the union of non-deleted books whose category is
// in ids.
func (a *App) BooksByCategoryIDs(ids []int, page, pageSize int) (domain.PagedResult[domain.Book], error) {
	books, err := a.visibleBooks()
	if err != nil {
		return domain.PagedResult[domain.Book]{}, err
	}
	wanted := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	filtered := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if _, ok := wanted[b.CategoryID]; ok {
			filtered = append(filtered, b)
		}
	}
	return paginate(filtered, page, pageSize), nil
}

// GetBookDetail loads a book with its category, author, and ratings.
func (a *App) GetBookDetail(id string) (domain.BookDetail, error) {
	book, ok, err := a.store.GetBook(id)
	if err != nil {
		return domain.BookDetail{}, fmt.Errorf("get book: %w", err)
	}
	if !ok || book.IsDeleted {
		return domain.BookDetail{}, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	detail := domain.BookDetail{Book: book}
	if category, ok, err := a.store.GetCategory(book.CategoryID); err != nil {
		return domain.BookDetail{}, fmt.Errorf("get category: %w", err)
	} else if ok && !category.IsDeleted {
		detail.Category = &category
	}
	if author, ok, err := a.store.GetAuthor(book.AuthorID); err != nil {
		return domain.BookDetail{}, fmt.Errorf("get author: %w", err)
	} else if ok && !author.IsDeleted {
		detail.Author = &author
	}
	ratings, err := a.store.ListRatingsByBook(book.ID)
	if err != nil {
		return domain.BookDetail{}, fmt.Errorf("list ratings: %w", err)
	}
	detail.Ratings = ratings
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Value
		}
		detail.AverageRating = float64(sum) / float64(len(ratings))
	}
	return detail, nil
}

// BookInput carries the writable book fields.
type BookInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"imageUrl"`
	CategoryID  int     `json:"categoryId"`
	AuthorID    string  `json:"authorId"`
}

func (a *App) validateBookRefs(input BookInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrInvalidInput)
	}
	if input.Price < 0 {
		return fmt.Errorf("price must not be negative: %w", ErrInvalidInput)
	}
	category, ok, err := a.store.GetCategory(input.CategoryID)
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	if !ok || category.IsDeleted {
		return fmt.Errorf("category %d: %w", input.CategoryID, ErrNotFound)
	}
	author, ok, err := a.store.GetAuthor(input.AuthorID)
	if err != nil {
		return fmt.Errorf("get author: %w", err)
	}
	if !ok || author.IsDeleted {
		return fmt.Errorf("author %s: %w", input.AuthorID, ErrNotFound)
	}
	return nil
}

// CreateBook adds a book to the catalog.
func (a *App) CreateBook(input BookInput) (domain.Book, error) {
	if err := a.validateBookRefs(input); err != nil {
		return domain.Book{}, err
	}
	now := time.Now().UTC()
	book := domain.Book{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		ImageURL:    input.ImageURL,
		CategoryID:  input.CategoryID,
		AuthorID:    input.AuthorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.store.SaveBook(book); err != nil {
		return domain.Book{}, fmt.Errorf("save book: %w", err)
	}
	return book, nil
}

// UpdateBook merges incoming fields onto the stored book. Buy count and
// creation time are owned by the system, not the caller.
func (a *App) UpdateBook(id string, input BookInput) (domain.Book, error) {
	book, ok, err := a.store.GetBook(id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	if !ok || book.IsDeleted {
		return domain.Book{}, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	if err := a.validateBookRefs(input); err != nil {
		return domain.Book{}, err
	}
	book.Title = strings.TrimSpace(input.Title)
	book.Description = input.Description
	book.Price = input.Price
	book.Quantity = input.Quantity
	if input.ImageURL != "" {
		book.ImageURL = input.ImageURL
	}
	book.CategoryID = input.CategoryID
	book.AuthorID = input.AuthorID
	book.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveBook(book); err != nil {
		return domain.Book{}, fmt.Errorf("save book: %w", err)
	}
	return book, nil
}

// SetBookImage updates just the cover image URL.
func (a *App) SetBookImage(id, imageURL string) (domain.Book, error) {
	book, ok, err := a.store.GetBook(id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	if !ok || book.IsDeleted {
		return domain.Book{}, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	book.ImageURL = imageURL
	book.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveBook(book); err != nil {
		return domain.Book{}, fmt.Errorf("save book: %w", err)
	}
	return book, nil
}

// DeleteBook soft-deletes a book; the row stays for order history.
func (a *App) DeleteBook(id string) error {
	book, ok, err := a.store.GetBook(id)
	if err != nil {
		return fmt.Errorf("get book: %w", err)
	}
	if !ok || book.IsDeleted {
		return fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	book.IsDeleted = true
	book.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveBook(book); err != nil {
		return fmt.Errorf("save book: %w", err)
	}
	return nil
}

func (a *App) visibleBooks() ([]domain.Book, error) {
	books, err := a.store.ListBooks()
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	visible := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if !b.IsDeleted {
			visible = append(visible, b)
		}
	}
	return visible, nil
}
