package app

import (
	"fmt"
	"strings"

	"squido/pkg/domain"
)

// ListCategories returns non-deleted categories filtered by optional keyword
// over the name, then paginated.
func (a *App) ListCategories(keyword string, page, pageSize int) (domain.PagedResult[domain.Category], error) {
	categories, err := a.store.ListCategories()
	if err != nil {
		return domain.PagedResult[domain.Category]{}, fmt.Errorf("list categories: %w", err)
	}
	filtered := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		if !c.IsDeleted && matchKeyword(c.Name, keyword) {
			filtered = append(filtered, c)
		}
	}
	return paginate(filtered, page, pageSize), nil
}

// GetCategory loads one category.
func (a *App) GetCategory(id int) (domain.Category, error) {
	category, ok, err := a.store.GetCategory(id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("get category: %w", err)
	}
	if !ok || category.IsDeleted {
		return domain.Category{}, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return category, nil
}

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCategory adds a category.
func (a *App) CreateCategory(input CategoryInput) (domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Category{}, fmt.Errorf("name is required: %w", ErrInvalidInput)
	}
	category := domain.Category{
		Name:        name,
		Description: input.Description,
	}
	if err := a.store.SaveCategory(&category); err != nil {
		return domain.Category{}, fmt.Errorf("save category: %w", err)
	}
	return category, nil
}

// UpdateCategory merges incoming fields onto the stored category.
func (a *App) UpdateCategory(id int, input CategoryInput) (domain.Category, error) {
	category, err := a.GetCategory(id)
	if err != nil {
		return domain.Category{}, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Category{}, fmt.Errorf("name is required: %w", ErrInvalidInput)
	}
	category.Name = name
	category.Description = input.Description
	if err := a.store.SaveCategory(&category); err != nil {
		return domain.Category{}, fmt.Errorf("save category: %w", err)
	}
	return category, nil
}

// DeleteCategory soft-deletes a category.
func (a *App) DeleteCategory(id int) error {
	category, err := a.GetCategory(id)
	if err != nil {
		return err
	}
	category.IsDeleted = true
	if err := a.store.SaveCategory(&category); err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}
