package user

import (
	"context"
	"errors"

	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
)

const (
	Collection = "users"

	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// User is an account. PasswordHash is stored under the "password" key; the
// plaintext never reaches the store.
type User struct {
	Email        string
	PasswordHash string
	Name         *string
	Extra        document.Document
}

// DisplayName is the stored name, whatever its type, or nil.
func (u *User) DisplayName() any {
	if u.Name != nil {
		return *u.Name
	}
	if v, ok := u.Extra[FieldName]; ok {
		return v
	}
	return nil
}

func (u *User) Document() document.Document {
	doc := u.Extra.Clone()
	doc[FieldEmail] = u.Email
	doc[FieldPassword] = u.PasswordHash
	if u.Name != nil {
		doc[FieldName] = *u.Name
	}
	return doc
}

// FromDocument reads a stored user. Fields that do not have the expected
// type are kept in Extra.
func FromDocument(doc document.Document) *User {
	u := &User{Extra: doc.Clone()}
	if s, ok := doc[FieldEmail].(string); ok {
		u.Email = s
		delete(u.Extra, FieldEmail)
	}
	if s, ok := doc[FieldPassword].(string); ok {
		u.PasswordHash = s
		delete(u.Extra, FieldPassword)
	}
	if s, ok := doc[FieldName].(string); ok {
		u.Name = &s
		delete(u.Extra, FieldName)
	}
	return u
}

// UpdateResult separates "nobody matched" from "matched but nothing changed".
type UpdateResult struct {
	Matched  bool
	Modified bool
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	// UpdateFields merges fields into the user's document.
	UpdateFields(ctx context.Context, email string, fields document.Document) (UpdateResult, error)
}
