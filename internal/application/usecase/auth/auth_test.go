package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/khoahotran/virtual-study-partner/adapters/persistence"
	"github.com/khoahotran/virtual-study-partner/internal/application/service"
	"github.com/khoahotran/virtual-study-partner/internal/application/usecase/usecasetest"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/internal/domain/user"
	"github.com/khoahotran/virtual-study-partner/pkg/apperror"
	"github.com/khoahotran/virtual-study-partner/pkg/auth"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

type brokenUserRepo struct{}

func (brokenUserRepo) FindByEmail(context.Context, string) (*user.User, error) {
	return nil, errors.New("connection reset")
}

func (brokenUserRepo) Create(context.Context, *user.User) error {
	return errors.New("connection reset")
}

func (brokenUserRepo) UpdateFields(context.Context, string, document.Document) (user.UpdateResult, error) {
	return user.UpdateResult{}, errors.New("connection reset")
}

type AuthUseCaseSuite struct {
	suite.Suite
	store    *persistence.MemoryStore
	repo     user.Repository
	events   *usecasetest.RecordingPublisher
	register *RegisterUseCase
	login    *LoginUseCase
}

func (s *AuthUseCaseSuite) SetupTest() {
	s.store = persistence.NewMemoryStore()
	s.Require().NoError(persistence.EnsureIndexes(context.Background(), s.store))
	s.repo = persistence.NewUserRepo(s.store)
	s.events = &usecasetest.RecordingPublisher{}
	hasher := auth.NewHasher(bcrypt.MinCost)
	log := logger.NewNop()
	s.register = NewRegisterUseCase(s.repo, hasher, s.events, log)
	s.login = NewLoginUseCase(s.repo, hasher, s.events, log)
}

func TestAuthUseCaseSuite(t *testing.T) {
	suite.Run(t, new(AuthUseCaseSuite))
}

func (s *AuthUseCaseSuite) registerAlice() {
	err := s.register.Execute(context.Background(), RegisterInput{Document: document.Document{
		"email":    "alice@example.com",
		"password": "pw1",
		"name":     "Alice",
	}})
	s.Require().NoError(err)
}

func (s *AuthUseCaseSuite) Test_Register_StoresDigestNotPlaintext() {
	s.registerAlice()

	stored, err := s.store.FindOne(context.Background(), user.Collection, document.Document{"email": "alice@example.com"})
	s.Require().NoError(err)
	digest, ok := stored["password"].(string)
	s.Require().True(ok)
	s.NotEqual("pw1", digest)
	s.True(strings.HasPrefix(digest, "$2"))
	s.NoError(bcrypt.CompareHashAndPassword([]byte(digest), []byte("pw1")))
	s.Equal("Alice", stored["name"])
}

func (s *AuthUseCaseSuite) Test_Register_KeepsExtraFields() {
	err := s.register.Execute(context.Background(), RegisterInput{Document: document.Document{
		"email":    "bob@example.com",
		"password": "pw",
		"grade":    float64(11),
	}})
	s.Require().NoError(err)

	stored, err := s.store.FindOne(context.Background(), user.Collection, document.Document{"email": "bob@example.com"})
	s.Require().NoError(err)
	s.Equal(float64(11), stored["grade"])
	_, hasName := stored["name"]
	s.False(hasName)
}

func (s *AuthUseCaseSuite) Test_Register_MissingFields() {
	cases := []document.Document{
		{},
		{"email": "a@x.io"},
		{"password": "pw"},
		{"email": "", "password": "pw"},
		{"email": 42, "password": "pw"},
	}
	for _, doc := range cases {
		err := s.register.Execute(context.Background(), RegisterInput{Document: doc})
		s.Require().Error(err)
		s.ErrorIs(err, apperror.ErrValidation)
		var appErr *apperror.AppError
		s.Require().ErrorAs(err, &appErr)
		s.Equal("Email and password are required", appErr.Message)
	}
	s.Equal(0, s.store.Len(user.Collection))
}

func (s *AuthUseCaseSuite) Test_Register_Duplicate() {
	s.registerAlice()

	err := s.register.Execute(context.Background(), RegisterInput{Document: document.Document{
		"email":    "alice@example.com",
		"password": "other",
	}})
	s.ErrorIs(err, apperror.ErrDuplicateUser)
	s.Equal(1, s.store.Len(user.Collection))
}

func (s *AuthUseCaseSuite) Test_Register_PasswordTooLong() {
	err := s.register.Execute(context.Background(), RegisterInput{Document: document.Document{
		"email":    "long@example.com",
		"password": strings.Repeat("x", 73),
	}})
	s.ErrorIs(err, apperror.ErrValidation)
	s.Equal(0, s.store.Len(user.Collection))
}

func (s *AuthUseCaseSuite) Test_Register_PublishesEvent() {
	s.registerAlice()

	assert.Eventually(s.T(), func() bool {
		return len(s.events.UserEvents()) == 1
	}, time.Second, 10*time.Millisecond)
	evt := s.events.UserEvents()[0]
	s.Equal(service.UserEventRegistered, evt.EventType)
	s.Equal("alice@example.com", evt.Email)
}

func (s *AuthUseCaseSuite) Test_Login_Success() {
	s.registerAlice()

	out, err := s.login.Execute(context.Background(), LoginInput{Email: "alice@example.com", Password: "pw1"})
	s.Require().NoError(err)
	s.Equal("alice@example.com", out.Email)
	s.Equal("Alice", out.Name)
}

func (s *AuthUseCaseSuite) Test_Login_NameAbsent() {
	err := s.register.Execute(context.Background(), RegisterInput{Document: document.Document{
		"email": "noname@example.com", "password": "pw",
	}})
	s.Require().NoError(err)

	out, err := s.login.Execute(context.Background(), LoginInput{Email: "noname@example.com", Password: "pw"})
	s.Require().NoError(err)
	s.Nil(out.Name)
}

func (s *AuthUseCaseSuite) Test_Login_MissingFields() {
	_, err := s.login.Execute(context.Background(), LoginInput{Email: "alice@example.com"})
	s.ErrorIs(err, apperror.ErrValidation)

	_, err = s.login.Execute(context.Background(), LoginInput{Password: "pw"})
	s.ErrorIs(err, apperror.ErrValidation)
}

func (s *AuthUseCaseSuite) Test_Login_UnknownAndWrongPasswordLookAlike() {
	s.registerAlice()

	_, wrong := s.login.Execute(context.Background(), LoginInput{Email: "alice@example.com", Password: "nope"})
	_, unknown := s.login.Execute(context.Background(), LoginInput{Email: "ghost@example.com", Password: "pw1"})

	var a, b *apperror.AppError
	s.Require().ErrorAs(wrong, &a)
	s.Require().ErrorAs(unknown, &b)
	s.Equal(a.ToJSON(), b.ToJSON())
	s.ErrorIs(wrong, apperror.ErrInvalidCredentials)
}

func TestRegister_StoreFailure(t *testing.T) {
	uc := NewRegisterUseCase(brokenUserRepo{}, auth.NewHasher(bcrypt.MinCost), &usecasetest.RecordingPublisher{}, logger.NewNop())

	err := uc.Execute(context.Background(), RegisterInput{Document: document.Document{"email": "a@x.io", "password": "pw"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrStore)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Error registering user", appErr.Message)
}

func TestLogin_StoreFailure(t *testing.T) {
	uc := NewLoginUseCase(brokenUserRepo{}, auth.NewHasher(bcrypt.MinCost), &usecasetest.RecordingPublisher{}, logger.NewNop())

	_, err := uc.Execute(context.Background(), LoginInput{Email: "a@x.io", Password: "pw"})
	assert.ErrorIs(t, err, apperror.ErrStore)
}

func TestLogin_PublishFailureDoesNotFailLogin(t *testing.T) {
	store := persistence.NewMemoryStore()
	repo := persistence.NewUserRepo(store)
	events := &usecasetest.RecordingPublisher{Err: errors.New("broker down")}
	hasher := auth.NewHasher(bcrypt.MinCost)

	reg := NewRegisterUseCase(repo, hasher, events, logger.NewNop())
	require.NoError(t, reg.Execute(context.Background(), RegisterInput{Document: document.Document{"email": "a@x.io", "password": "pw"}}))

	_, err := NewLoginUseCase(repo, hasher, events, logger.NewNop()).Execute(context.Background(), LoginInput{Email: "a@x.io", Password: "pw"})
	assert.NoError(t, err)
}
