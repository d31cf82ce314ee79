package domain

import "errors"

// Sentinel errors returned by usecases and repositories. The web layer maps
// them to flash messages, redirects or rendered error pages.
var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("entity not found")
	// ErrForbidden indicates that the caller does not own the resource.
	ErrForbidden = errors.New("action forbidden")
	// ErrInvalidInput indicates that the provided input data is invalid.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrDuplicateUser indicates a signup conflict on username or email.
	ErrDuplicateUser = errors.New("username or email already taken")
	// ErrInvalidCredentials is returned for both unknown usernames and wrong
	// passwords, so login failures do not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthenticated indicates a protected operation without a session.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
)
