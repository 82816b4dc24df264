package application

import "errors"

// Service-level errors. Handlers map these onto HTTP statuses:
// validation failures to 400, credential/token failures to 401, and
// missing or foreign resources to 404 (ownership failures deliberately
// answer 404 so resource existence is never disclosed to non-owners).
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("not found")

	ErrEmailTaken      = errors.New("email already registered")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrTitleTooShort   = errors.New("title must be at least 5 characters")
	ErrContentTooShort = errors.New("content must be at least 3 characters")
	ErrCategoryTaken   = errors.New("category name already exists")
	ErrParentNotFound  = errors.New("parent comment not found")
	ErrParentWrongPost = errors.New("parent comment belongs to a different post")
)

// IsValidation reports whether err should surface as a 400.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrUsernameTaken),
		errors.Is(err, ErrTitleTooShort),
		errors.Is(err, ErrContentTooShort),
		errors.Is(err, ErrCategoryTaken),
		errors.Is(err, ErrParentNotFound),
		errors.Is(err, ErrParentWrongPost):
		return true
	}
	return false
}
