package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/virtual-study-partner/internal/application/usecase/auth"
	"github.com/khoahotran/virtual-study-partner/internal/domain/user"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

type AuthHandler struct {
	registerUseCase *auth.RegisterUseCase
	loginUseCase    *auth.LoginUseCase
	logger          logger.Logger
}

func NewAuthHandler(registerUC *auth.RegisterUseCase, loginUC *auth.LoginUseCase, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		registerUseCase: registerUC,
		loginUseCase:    loginUC,
		logger:          log,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	doc, err := bindDocument(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.registerUseCase.Execute(c.Request.Context(), auth.RegisterInput{Document: doc}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "User registered successfully"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	doc, err := bindDocument(c)
	if err != nil {
		c.Error(err)
		return
	}

	email, _ := doc.String(user.FieldEmail)
	password, _ := doc.String(user.FieldPassword)
	output, err := h.loginUseCase.Execute(c.Request.Context(), auth.LoginInput{
		Email:    email,
		Password: password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    UserDTO{Email: output.Email, Name: output.Name},
	})
}
