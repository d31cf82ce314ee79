package domain

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account. PasswordHash holds the bcrypt hash;
// the plaintext password never reaches the entity.
type User struct {
	ID           primitive.ObjectID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser validates the signup fields and builds a User without credentials.
// The caller is responsible for hashing the password into PasswordHash.
func NewUser(username, email string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email address is required", ErrInvalidInput)
	}
	return &User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}, nil
}
