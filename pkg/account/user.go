package account

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("password must not be empty")

// User holds a username and the bcrypt hash of a password.
type User struct {
	username string
	hash     []byte
}

// NewUser creates a user, hashing password with the default bcrypt cost.
func NewUser(username, password string) (*User, error) {
	return NewUserWithCost(username, password, bcrypt.DefaultCost)
}

// NewUserWithCost creates a user, hashing password with the given bcrypt cost.
func NewUserWithCost(username, password string, cost int) (*User, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, errors.Wrap(err, "unable to hash password")
	}

	return &User{username: username, hash: hash}, nil
}

func (u *User) Username() string {
	return u.username
}

// Authenticate reports whether password matches the one the user was created with.
func (u *User) Authenticate(password string) bool {
	return bcrypt.CompareHashAndPassword(u.hash, []byte(password)) == nil
}
