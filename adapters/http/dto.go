package http

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/pkg/apperror"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type UserDTO struct {
	Email string `json:"email"`
	Name  any    `json:"name"`
}

type LoginResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// bindDocument decodes the body as a JSON object. An empty or null body is
// an empty document, so required-field checks report what is missing.
func bindDocument(c *gin.Context) (document.Document, error) {
	var doc document.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return document.Document{}, nil
		}
		return nil, apperror.NewValidation("Invalid JSON body", err.Error())
	}
	if doc == nil {
		doc = document.Document{}
	}
	return doc, nil
}
