package persistence

import (
	"context"

	"github.com/pkg/errors"

	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/internal/domain/user"
)

type documentUserRepo struct {
	store DocumentStore
}

func NewUserRepo(store DocumentStore) user.Repository {
	return &documentUserRepo{store: store}
}

func byEmail(email string) document.Document {
	return document.Document{user.FieldEmail: email}
}

func (r *documentUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	doc, err := r.store.FindOne(ctx, user.Collection, byEmail(email))
	if err != nil {
		if errors.Is(err, ErrNoDocument) {
			return nil, user.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "error when query user")
	}
	return user.FromDocument(doc), nil
}

func (r *documentUserRepo) Create(ctx context.Context, u *user.User) error {
	if err := r.store.InsertOne(ctx, user.Collection, u.Document()); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return user.ErrEmailTaken
		}
		return errors.Wrap(err, "error when insert user")
	}
	return nil
}

func (r *documentUserRepo) UpdateFields(ctx context.Context, email string, fields document.Document) (user.UpdateResult, error) {
	res, err := r.store.UpdateOne(ctx, user.Collection, byEmail(email), fields.Without(user.FieldEmail))
	if err != nil {
		return user.UpdateResult{}, errors.Wrap(err, "error when update user")
	}
	return user.UpdateResult{Matched: res.Matched > 0, Modified: res.Modified > 0}, nil
}
