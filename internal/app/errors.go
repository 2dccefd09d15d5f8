package app

import "errors"

var (
	// ErrInvalidCredentials is returned when the supplied credentials do not
	// match. The message is safe to show to end users and does not enable
	// account enumeration.
	ErrInvalidCredentials = errors.New("incorrect email address or password")

	// ErrAccountDisabled is returned when the account is soft-deleted.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrRoleNotAllowed rejects back-office login for non admin/staff roles.
	ErrRoleNotAllowed = errors.New("role not permitted for this login")

	ErrEmailAndPasswordRequired = errors.New("email and password required")
	ErrEmailAlreadyExists       = errors.New("email already exists")

	ErrRefreshTokenRequired = errors.New("refresh token required")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")

	ErrNotFound     = errors.New("not found")
	ErrNotSupported = errors.New("operation not supported")

	// ErrInvalidInput wraps field-level validation failures so the HTTP layer
	// can map them to a 400 without inspecting messages.
	ErrInvalidInput = errors.New("invalid input")

	ErrRatingOutOfRange = errors.New("rating value must be between 1 and 5")

	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
)
