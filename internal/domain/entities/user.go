package entities

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type User struct {
	Id         uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Username   string
	Email      string
	FullName   string
	Password   string
	IsVerified bool
}

func NewUser(username, email, fullName, password string) *User {
	return &User{
		Id:         uuid.New(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Password:   password,
		IsVerified: false,
	}
}

func (u *User) validate() error {
	if u.Username == "" {
		return NewValidationError("username", "must not be empty")
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.Password == "" {
		return NewValidationError("password", "must not be empty")
	}
	if u.CreatedAt.After(u.UpdatedAt) {
		return NewValidationError("created_at", "must be before updated_at")
	}
	return nil
}

func (u *User) HashPassword() error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) MarkAsVerified() {
	u.IsVerified = true
	u.UpdatedAt = time.Now()
}

func (u *User) UpdateProfile(username, email string) error {
	u.Username = username
	u.Email = email
	u.UpdatedAt = time.Now()
	return u.validate()
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ValidateEmail checks the address is syntactically valid.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "must not be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return NewValidationError("email", "must be a valid email address")
	}
	return nil
}

// ValidatePassword enforces the registration password policy.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return NewValidationError("password", "must be at least 8 characters")
	}
	return nil
}
