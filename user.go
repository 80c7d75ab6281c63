package finovate

import (
	"fmt"
	"strings"
)

// MinPasswordLength is the minimum length of a password chosen during recovery.
const MinPasswordLength = 4

// User is the owner of the ledger.
//
// Password is a local unlock code compared in clear text. It is not a security
// boundary and is persisted as is, under its historical field name.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"name" validate:"required"`
	Age            int    `json:"age" validate:"gt=0"`
	Address        string `json:"address" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Email          string `json:"email" validate:"required"`
	Occupation     string `json:"occupation" validate:"required"`
	Password       string `json:"passwordHash" validate:"required"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	IDDocument     string `json:"idDocument,omitempty"`
}

// Validate checks that every profile field is filled.
func (u User) Validate() error {
	return validateStruct("user", u)
}

// Unlock checks the password.
func (u User) Unlock(password string) error {
	if password != u.Password {
		return fmt.Errorf("%w: incorrect password", ErrIdentityMismatch)
	}
	return nil
}

// VerifyEmail checks that email is the registered one. It is the first step of a password recovery.
func (u User) VerifyEmail(email string) error {
	if !strings.EqualFold(strings.TrimSpace(email), strings.TrimSpace(u.Email)) {
		return fmt.Errorf("%w: email does not match the registered one", ErrIdentityMismatch)
	}
	return nil
}

// checkNewPassword applies the password rules shared by registration and recovery.
func checkNewPassword(password, confirm string, minLength int) error {
	if len(password) < minLength {
		return fmt.Errorf("%w: password must have at least %d characters", ErrValidation, minLength)
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	return nil
}

// WithPassword returns a copy of u with a new password, after a successful email verification.
func (u User) WithPassword(password, confirm string) (User, error) {
	if err := checkNewPassword(password, confirm, MinPasswordLength); err != nil {
		return u, err
	}
	u.Password = password
	return u, nil
}

// ProfileUpdate lists the profile fields to change. Nil fields are left untouched.
type ProfileUpdate struct {
	Name           *string
	Age            *int
	Address        *string
	Phone          *string
	Email          *string
	Occupation     *string
	ProfilePicture *string
	IDDocument     *string
}

// Apply returns a copy of u with the non nil fields of p.
func (p ProfileUpdate) Apply(u User) (User, error) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Name, p.Name)
	set(&u.Address, p.Address)
	set(&u.Phone, p.Phone)
	set(&u.Email, p.Email)
	set(&u.Occupation, p.Occupation)
	set(&u.ProfilePicture, p.ProfilePicture)
	set(&u.IDDocument, p.IDDocument)
	if p.Age != nil {
		u.Age = *p.Age
	}
	return u, u.Validate()
}
