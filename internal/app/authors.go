package app

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"squido/pkg/domain"
)

// ListAuthors returns non-deleted authors filtered by optional keyword over
// the full name, then paginated.
func (a *App) ListAuthors(keyword string, page, pageSize int) (domain.PagedResult[domain.Author], error) {
	authors, err := a.store.ListAuthors()
	if err != nil {
		return domain.PagedResult[domain.Author]{}, fmt.Errorf("list authors: %w", err)
	}
	filtered := make([]domain.Author, 0, len(authors))
	for _, author := range authors {
		if !author.IsDeleted && matchKeyword(author.FullName, keyword) {
			filtered = append(filtered, author)
		}
	}
	return paginate(filtered, page, pageSize), nil
}

// GetAuthor loads one author.
func (a *App) GetAuthor(id string) (domain.Author, error) {
	author, ok, err := a.store.GetAuthor(id)
	if err != nil {
		return domain.Author{}, fmt.Errorf("get author: %w", err)
	}
	if !ok || author.IsDeleted {
		return domain.Author{}, fmt.Errorf("author %s: %w", id, ErrNotFound)
	}
	return author, nil
}

// AuthorInput carries the writable author fields.
type AuthorInput struct {
	FullName string `json:"fullName"`
	Bio      string `json:"bio"`
}

// CreateAuthor adds an author.
func (a *App) CreateAuthor(input AuthorInput) (domain.Author, error) {
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return domain.Author{}, fmt.Errorf("fullName is required: %w", ErrInvalidInput)
	}
	author := domain.Author{
		ID:       uuid.NewString(),
		FullName: fullName,
		Bio:      input.Bio,
	}
	if err := a.store.SaveAuthor(author); err != nil {
		return domain.Author{}, fmt.Errorf("save author: %w", err)
	}
	return author, nil
}

// UpdateAuthor merges incoming fields onto the stored author.
func (a *App) UpdateAuthor(id string, input AuthorInput) (domain.Author, error) {
	author, err := a.GetAuthor(id)
	if err != nil {
		return domain.Author{}, err
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return domain.Author{}, fmt.Errorf("fullName is required: %w", ErrInvalidInput)
	}
	author.FullName = fullName
	author.Bio = input.Bio
	if err := a.store.SaveAuthor(author); err != nil {
		return domain.Author{}, fmt.Errorf("save author: %w", err)
	}
	return author, nil
}

// DeleteAuthor soft-deletes an author; the row stays and is excluded from
// listings.
func (a *App) DeleteAuthor(id string) error {
	author, err := a.GetAuthor(id)
	if err != nil {
		return err
	}
	author.IsDeleted = true
	if err := a.store.SaveAuthor(author); err != nil {
		return fmt.Errorf("save author: %w", err)
	}
	return nil
}
