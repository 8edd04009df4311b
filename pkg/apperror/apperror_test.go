package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("Email is required", "email missing"), http.StatusBadRequest},
		{"duplicate", NewDuplicateUser("a@b.c"), http.StatusBadRequest},
		{"no change", NewNoChange("nothing"), http.StatusBadRequest},
		{"not found", NewUserNotFound("a@b.c"), http.StatusBadRequest},
		{"credentials", NewInvalidCredentials("bad password"), http.StatusUnauthorized},
		{"store", NewStore("Error adding course", "insert", errors.New("boom")), http.StatusInternalServerError},
		{"unavailable", NewUnavailable("ping", nil), http.StatusServiceUnavailable},
		{"wrapped", fmt.Errorf("outer: %w", NewValidation("x", "y")), http.StatusBadRequest},
		{"plain", errors.New("unknown"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTTPStatus(tc.err))
		})
	}
}

func TestAppError_ToJSONHidesCause(t *testing.T) {
	err := NewStore("Error fetching courses", "find courses", errors.New("connection refused 10.0.0.3:27017"))

	body := err.ToJSON()
	assert.Equal(t, gin.H{"error": "store_error", "message": "Error fetching courses"}, body)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAppError_Unwrap(t *testing.T) {
	err := NewInvalidCredentials("user missing")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	assert.False(t, errors.Is(err, ErrValidation))
}
