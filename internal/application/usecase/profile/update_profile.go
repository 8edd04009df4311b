package profile

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/virtual-study-partner/internal/application/service"
	"github.com/khoahotran/virtual-study-partner/internal/application/usecase"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/internal/domain/user"
	"github.com/khoahotran/virtual-study-partner/pkg/apperror"
	"github.com/khoahotran/virtual-study-partner/pkg/auth"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

type UpdateProfileUseCase struct {
	userRepo user.Repository
	hasher   service.PasswordHasher
	events   service.EventPublisher
	logger   logger.Logger
}

func NewUpdateProfileUseCase(repo user.Repository, hasher service.PasswordHasher, events service.EventPublisher, log logger.Logger) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{
		userRepo: repo,
		hasher:   hasher,
		events:   events,
		logger:   log,
	}
}

// UpdateProfileInput carries the email that selects the user and every
// other field to merge into the stored document.
type UpdateProfileInput struct {
	Document document.Document
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) error {
	ctx, span := tracer.Start(ctx, "UpdateProfile")
	defer span.End()

	email, ok := input.Document.String(user.FieldEmail)
	if !ok {
		return apperror.NewValidation("Email is required", "email missing")
	}
	span.SetAttributes(attribute.String("user.email", email))

	fields := input.Document.Without(user.FieldEmail)
	if len(fields) == 0 {
		return apperror.NewNoChange("update set is empty")
	}

	if _, has := fields[user.FieldPassword]; has {
		secret, ok := fields.String(user.FieldPassword)
		if !ok {
			return apperror.NewValidation("Password must be a non-empty string", "password has wrong type")
		}
		digest, err := uc.hasher.Hash(secret)
		if err != nil {
			if errors.Is(err, auth.ErrSecretTooLong) {
				return apperror.NewValidation("Password must be at most 72 bytes", err.Error())
			}
			span.RecordError(err)
			return apperror.NewAppError(apperror.ErrStore, "Error updating profile", "hash password", err)
		}
		fields[user.FieldPassword] = digest
	}

	res, err := uc.userRepo.UpdateFields(ctx, email, fields)
	if err != nil {
		span.RecordError(err)
		return apperror.NewStore("Error updating profile", "update user", err)
	}
	switch {
	case !res.Matched:
		return apperror.NewUserNotFound(email)
	case !res.Modified:
		return apperror.NewNoChange("stored document already holds these values")
	}

	changed := fields.Keys()
	uc.logger.Info("Profile updated", zap.String("email", email), zap.Strings("fields", changed))
	usecase.PublishAsync(uc.logger, string(service.UserEventProfileUpdated), func(ctx context.Context) error {
		return uc.events.PublishUserEvent(ctx, service.UserEvent{
			EventType:  service.UserEventProfileUpdated,
			Email:      email,
			Fields:     changed,
			OccurredAt: time.Now().UTC(),
		})
	})
	return nil
}
