package auth

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/virtual-study-partner/internal/application/service"
	"github.com/khoahotran/virtual-study-partner/internal/application/usecase"
	"github.com/khoahotran/virtual-study-partner/internal/domain/user"
	"github.com/khoahotran/virtual-study-partner/pkg/apperror"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

type LoginUseCase struct {
	userRepo user.Repository
	hasher   service.PasswordHasher
	events   service.EventPublisher
	logger   logger.Logger
}

func NewLoginUseCase(repo user.Repository, hasher service.PasswordHasher, events service.EventPublisher, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		hasher:   hasher,
		events:   events,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput is the public projection of the user. Name is whatever was
// stored, nil when absent.
type LoginOutput struct {
	Email string
	Name  any
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	if input.Email == "" || input.Password == "" {
		return nil, apperror.NewValidation(msgCredentialsRequired, "email or password missing")
	}

	u, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			// same answer as a wrong password
			return nil, apperror.NewInvalidCredentials("user not found")
		}
		span.RecordError(err)
		return nil, apperror.NewStore("Error logging in", "lookup user", err)
	}

	if !uc.hasher.Verify(input.Password, u.PasswordHash) {
		err := apperror.NewInvalidCredentials("incorrect password")
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("user.email", u.Email))
	usecase.PublishAsync(uc.logger, string(service.UserEventLoggedIn), func(ctx context.Context) error {
		return uc.events.PublishUserEvent(ctx, service.UserEvent{
			EventType:  service.UserEventLoggedIn,
			Email:      u.Email,
			OccurredAt: time.Now().UTC(),
		})
	})

	return &LoginOutput{Email: u.Email, Name: u.DisplayName()}, nil
}
