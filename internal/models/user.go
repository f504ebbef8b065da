// ABOUTME: User profile model and partial profile updates.
// ABOUTME: Derives the display name from the email's local part.
package models

import (
	"strings"
	"time"
)

// DateLayout is the format of a user's date of birth.
const DateLayout = "2006-01-02"

// User is a tracked person. Facts reference it by ID.
type User struct {
	ID             int64   `json:"user_id" yaml:"user_id"`
	Name           string  `json:"user_name" yaml:"user_name"`
	DOB            *string `json:"dob" yaml:"dob"`
	Gender         *string `json:"gender" yaml:"gender"`
	Race           *string `json:"race" yaml:"race"`
	Email          string  `json:"email" yaml:"email"`
	PhoneNumber    *string `json:"phone_number" yaml:"phone_number"`
	Activated      bool    `json:"activated" yaml:"activated"`
	HashedPassword string  `json:"-" yaml:"-"`
}

// NewUser creates an activated user for email. The ID and password hash
// are assigned by the caller.
func NewUser(email string) (*User, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	return &User{
		Name:      NameFromEmail(email),
		Email:     email,
		Activated: true,
	}, nil
}

// NameFromEmail returns the part of email before the first "@".
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// UserUpdate carries profile fields to change. Nil fields are left alone.
type UserUpdate struct {
	UserID      int64   `json:"user_id,omitempty"`
	Name        *string `json:"user_name,omitempty"`
	DOB         *string `json:"dob,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Race        *string `json:"race,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// Validate checks the fields that are set.
func (u *UserUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return &ValidationError{Field: "user_name", Message: "must not be empty"}
	}
	if u.Email != nil {
		if err := validateEmail(*u.Email); err != nil {
			return err
		}
	}
	if u.DOB != nil && *u.DOB != "" {
		if _, err := time.Parse(DateLayout, *u.DOB); err != nil {
			return &ValidationError{Field: "dob", Message: "expected YYYY-MM-DD"}
		}
	}
	return nil
}

// IsEmpty reports whether the update changes nothing.
func (u *UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.DOB == nil && u.Gender == nil &&
		u.Race == nil && u.Email == nil && u.PhoneNumber == nil
}

// Apply copies the set fields onto user. Empty optional strings clear
// the corresponding field.
func (u *UserUpdate) Apply(user *User) {
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.Email != nil {
		user.Email = strings.TrimSpace(*u.Email)
	}
	user.DOB = applyOptional(user.DOB, u.DOB)
	user.Gender = applyOptional(user.Gender, u.Gender)
	user.Race = applyOptional(user.Race, u.Race)
	user.PhoneNumber = applyOptional(user.PhoneNumber, u.PhoneNumber)
}

func applyOptional(current, next *string) *string {
	if next == nil {
		return current
	}
	if *next == "" {
		return nil
	}
	v := *next
	return &v
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Message: "must not be empty"}
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return &ValidationError{Field: "email", Message: "expected local@domain"}
	}
	return nil
}
