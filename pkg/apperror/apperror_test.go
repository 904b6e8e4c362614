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
		{"not found", NewNotFound("There is no profile for this User", "user x"), http.StatusBadRequest},
		{"validation", NewValidation([]FieldError{{Msg: "Status is Required"}}), http.StatusBadRequest},
		{"invalid input", NewInvalidInput("bad json", nil), http.StatusBadRequest},
		{"conflict", NewConflict("User already exists", "email"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("Token is not valid", nil), http.StatusUnauthorized},
		{"upstream", NewUpstream("github 404", nil), http.StatusNotFound},
		{"internal", NewInternal("db down", errors.New("boom")), http.StatusInternalServerError},
		{"plain", errors.New("unknown"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("get profile: %w", NewNotFound("x", "y")), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTTPStatus(tc.err))
		})
	}
}

func TestToJSON(t *testing.T) {
	fields := []FieldError{{Msg: "Status is Required", Param: "status", Location: "body"}}
	assert.Equal(t, gin.H{"errors": fields}, NewValidation(fields).ToJSON())
	assert.Equal(t, gin.H{"msg": "No token, authorization denied"}, NewUnauthorized("No token, authorization denied", nil).ToJSON())
	assert.Equal(t,
		gin.H{"errors": []FieldError{{Msg: "There is no profile for this User"}}},
		NewNotFound("There is no profile for this User", "").ToJSON(),
	)
}

func TestAppErrorUnwrapsToBase(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal("failed to save profile", cause)

	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Cause())
	assert.Contains(t, err.Error(), "connection reset")
}
