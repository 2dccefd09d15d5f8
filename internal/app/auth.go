package app

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"squido/pkg/auth"
	"squido/pkg/domain"
)

// LoginResult is returned on a successful back-office login.
type LoginResult struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         domain.User `json:"user"`
}

// Login authenticates a back-office user and issues a token pair.
// Only admin and staff roles may log in here; the storefront does not use
// this endpoint.
func (a *App) Login(email, password string) (LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return LoginResult{}, ErrEmailAndPasswordRequired
	}
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if user.IsDeleted {
		return LoginResult{}, ErrAccountDisabled
	}
	if user.Role != domain.RoleAdmin && user.Role != domain.RoleStaff {
		return LoginResult{}, ErrRoleNotAllowed
	}

	accessToken, err := a.tokens.Issue(user)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := a.newRefreshToken(user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Register creates a customer account.
func (a *App) Register(input RegisterInput) (domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return domain.User{}, ErrEmailAndPasswordRequired
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return domain.User{}, fmt.Errorf("%w: invalid email", ErrEmailAndPasswordRequired)
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return domain.User{}, err
	}
	exists, err := a.store.HasUserEmail(email)
	if err != nil {
		return domain.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.User{}, ErrEmailAlreadyExists
	}
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = email[:at]
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		Phone:        strings.TrimSpace(input.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// Refresh exchanges a valid refresh token for a new access token.
// Tokens are not rotated: the refresh token stays valid until its expiry.
func (a *App) Refresh(refreshToken string) (string, domain.User, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", domain.User{}, ErrRefreshTokenRequired
	}
	record, ok, err := a.store.GetRefreshToken(refreshToken)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("lookup refresh token: %w", err)
	}
	if !ok || !record.Valid(time.Now().UTC()) {
		return "", domain.User{}, ErrInvalidRefreshToken
	}
	user, ok, err := a.store.GetUserByID(record.UserID)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !ok || user.IsDeleted {
		return "", domain.User{}, ErrInvalidRefreshToken
	}
	accessToken, err := a.tokens.Issue(user)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, user, nil
}

// Logout revokes the refresh token.
func (a *App) Logout(refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return ErrRefreshTokenRequired
	}
	if err := a.store.DeleteRefreshToken(refreshToken); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// UserFromToken resolves a bearer access token to its user.
func (a *App) UserFromToken(token string) (domain.User, bool) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return domain.User{}, false
	}
	user, ok, err := a.store.GetUserByID(claims.UserID)
	if err != nil || !ok || user.IsDeleted {
		return domain.User{}, false
	}
	return user, true
}

func (a *App) newRefreshToken(userID string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	now := time.Now().UTC()
	record := domain.RefreshToken{
		Token:   token,
		UserID:  userID,
		Created: now,
		Expires: now.Add(a.refreshTTL),
	}
	if err := a.store.SaveRefreshToken(record); err != nil {
		return "", err
	}
	return token, nil
}
