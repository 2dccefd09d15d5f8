package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"squido/pkg/domain"
)

// ListRatings returns all ratings for a book, newest first.
func (a *App) ListRatings(bookID string) ([]domain.Rating, error) {
	if _, err := a.GetBookDetail(bookID); err != nil {
		return nil, err
	}
	ratings, err := a.store.ListRatingsByBook(bookID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

// RatingInput carries a new rating.
type RatingInput struct {
	CustomerID string `json:"customerId"`
	Value      int    `json:"value"`
	Comment    string `json:"comment"`
}

// CreateRating records a rating. Values outside [1,5] are rejected before
// anything is persisted.
func (a *App) CreateRating(bookID string, input RatingInput) (domain.Rating, error) {
	if input.Value < 1 || input.Value > 5 {
		return domain.Rating{}, ErrRatingOutOfRange
	}
	book, ok, err := a.store.GetBook(bookID)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("get book: %w", err)
	}
	if !ok || book.IsDeleted {
		return domain.Rating{}, fmt.Errorf("book %s: %w", bookID, ErrNotFound)
	}
	customerID := strings.TrimSpace(input.CustomerID)
	if customerID != "" {
		if _, err := a.GetUser(customerID); err != nil {
			return domain.Rating{}, err
		}
	}
	rating := domain.Rating{
		ID:         uuid.NewString(),
		BookID:     bookID,
		CustomerID: customerID,
		Value:      input.Value,
		Comment:    input.Comment,
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.store.SaveRating(rating); err != nil {
		return domain.Rating{}, fmt.Errorf("save rating: %w", err)
	}
	return rating, nil
}
