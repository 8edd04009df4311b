// Package catalog serves the list and add operations shared by courses,
// playlists and teacher profiles.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/virtual-study-partner/internal/domain/catalog"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/pkg/apperror"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

var tracer = otel.Tracer("catalog_usecase")

type UseCase[T catalog.Entry] struct {
	repo   catalog.Repository[T]
	kind   catalog.Kind[T]
	logger logger.Logger
}

func NewUseCase[T catalog.Entry](repo catalog.Repository[T], kind catalog.Kind[T], log logger.Logger) *UseCase[T] {
	return &UseCase[T]{repo: repo, kind: kind, logger: log}
}

func (uc *UseCase[T]) Kind() catalog.Kind[T] {
	return uc.kind
}

// Add validates doc against the collection's required fields and inserts it
// as sent.
func (uc *UseCase[T]) Add(ctx context.Context, doc document.Document) error {
	ctx, span := tracer.Start(ctx, "Add")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.collection", uc.kind.Collection))

	item, err := uc.kind.New(doc)
	if err != nil {
		if errors.Is(err, catalog.ErrMissingFields) {
			return apperror.NewValidation(uc.kind.MissingMessage, fmt.Sprintf("%s requires %s", uc.kind.Collection, strings.Join(uc.kind.Required, ", ")))
		}
		return apperror.NewValidation(uc.kind.MissingMessage, err.Error())
	}

	if err := uc.repo.Save(ctx, item); err != nil {
		span.RecordError(err)
		return apperror.NewStore("Error adding "+strings.ToLower(uc.kind.Noun), "insert "+uc.kind.Collection, err)
	}
	uc.logger.Info("Catalog entry added", zap.String("collection", uc.kind.Collection))
	return nil
}

// List returns every stored entry in store order, as documents.
func (uc *UseCase[T]) List(ctx context.Context) ([]document.Document, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.collection", uc.kind.Collection))

	items, err := uc.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewStore("Error fetching "+uc.kind.Collection, "list "+uc.kind.Collection, err)
	}

	docs := make([]document.Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, item.Document())
	}
	return docs, nil
}
