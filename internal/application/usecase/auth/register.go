package auth

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/virtual-study-partner/internal/application/service"
	"github.com/khoahotran/virtual-study-partner/internal/application/usecase"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/internal/domain/user"
	"github.com/khoahotran/virtual-study-partner/pkg/apperror"
	"github.com/khoahotran/virtual-study-partner/pkg/auth"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

const msgCredentialsRequired = "Email and password are required"

var tracer = otel.Tracer("auth_usecase")

type RegisterUseCase struct {
	userRepo user.Repository
	hasher   service.PasswordHasher
	events   service.EventPublisher
	logger   logger.Logger
}

func NewRegisterUseCase(repo user.Repository, hasher service.PasswordHasher, events service.EventPublisher, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo: repo,
		hasher:   hasher,
		events:   events,
		logger:   log,
	}
}

// RegisterInput is the raw registration body; fields beyond email and
// password are stored as sent.
type RegisterInput struct {
	Document document.Document
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) error {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	email, okEmail := input.Document.String(user.FieldEmail)
	password, okPassword := input.Document.String(user.FieldPassword)
	if !okEmail || !okPassword {
		return apperror.NewValidation(msgCredentialsRequired, "email or password missing")
	}

	_, err := uc.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return apperror.NewDuplicateUser(email)
	case !errors.Is(err, user.ErrUserNotFound):
		span.RecordError(err)
		return apperror.NewStore("Error registering user", "lookup existing user", err)
	}

	digest, err := uc.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrSecretTooLong) {
			return apperror.NewValidation("Password must be at most 72 bytes", err.Error())
		}
		span.RecordError(err)
		return apperror.NewAppError(apperror.ErrStore, "Error registering user", "hash password", err)
	}

	u := user.FromDocument(input.Document)
	u.PasswordHash = digest

	if err := uc.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return apperror.NewDuplicateUser(email)
		}
		span.RecordError(err)
		return apperror.NewStore("Error registering user", "insert user", err)
	}

	uc.logger.Info("User registered", zap.String("email", email))
	usecase.PublishAsync(uc.logger, string(service.UserEventRegistered), func(ctx context.Context) error {
		return uc.events.PublishUserEvent(ctx, service.UserEvent{
			EventType:  service.UserEventRegistered,
			Email:      email,
			OccurredAt: time.Now().UTC(),
		})
	})
	return nil
}
