package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFound("article %s not found", "x")))
	assert.Equal(t, http.StatusGone, StatusOf(Expired("OTP expired")))
	assert.Equal(t, http.StatusTooManyRequests, StatusOf(TooManyRequests("too many attempts")))
	assert.Equal(t, http.StatusConflict, StatusOf(fmt.Errorf("wrapped: %w", Conflict("dup"))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("plain")))
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("ctx: %w", Forbidden("Maximum limit reached"))
	assert.True(t, Is(err, http.StatusForbidden))
	assert.False(t, Is(err, http.StatusBadRequest))
	assert.False(t, Is(nil, http.StatusBadRequest))
}

func TestValidationCarriesDetails(t *testing.T) {
	err := Validation([]string{"title is required"})
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "validation failed", err.Error())
	assert.Equal(t, []string{"title is required"}, err.Details)
}
