package app

import (
	"fmt"
	"strings"
	"time"

	"squido/pkg/domain"
)

// ListUsers returns non-deleted users filtered by optional keyword over the
// username, then paginated.
func (a *App) ListUsers(keyword string, page, pageSize int) (domain.PagedResult[domain.User], error) {
	users, err := a.store.ListUsers()
	if err != nil {
		return domain.PagedResult[domain.User]{}, fmt.Errorf("list users: %w", err)
	}
	filtered := make([]domain.User, 0, len(users))
	for _, u := range users {
		if !u.IsDeleted && matchKeyword(u.Username, keyword) {
			filtered = append(filtered, u)
		}
	}
	return paginate(filtered, page, pageSize), nil
}

// GetUser loads one user.
func (a *App) GetUser(id string) (domain.User, error) {
	user, ok, err := a.store.GetUserByID(id)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	if !ok || user.IsDeleted {
		return domain.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user, nil
}

// UserUpdateInput carries the user fields a caller may change. Role and
// gender are deliberately absent: they are not caller-writable here.
type UserUpdateInput struct {
	Username string `json:"username"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
}

// UpdateUser merges incoming fields onto the stored user.
func (a *App) UpdateUser(id string, input UserUpdateInput) (domain.User, error) {
	user, err := a.GetUser(id)
	if err != nil {
		return domain.User{}, err
	}
	if username := strings.TrimSpace(input.Username); username != "" {
		user.Username = username
	}
	user.Address = strings.TrimSpace(input.Address)
	user.City = strings.TrimSpace(input.City)
	user.Phone = strings.TrimSpace(input.Phone)
	user.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// DeleteUser is intentionally unsupported: customer accounts own order
// history and are never removed through this API.
func (a *App) DeleteUser(string) error {
	return fmt.Errorf("delete user: %w", ErrNotSupported)
}
