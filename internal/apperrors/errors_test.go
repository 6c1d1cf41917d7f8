package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsSurviveWrapping(t *testing.T) {
	err := Conflict("invite code %s already redeemed", "AB12CD")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "AB12CD")

	// The kind survives additional layers of wrapping.
	wrapped := fmt.Errorf("failed to join couple: %w", err)
	assert.ErrorIs(t, wrapped, ErrConflict)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
}

func TestFromContext(t *testing.T) {
	assert.ErrorIs(t, FromContext(context.DeadlineExceeded), ErrTimeout)
	assert.ErrorIs(t, FromContext(context.Canceled), ErrUnavailable)

	plain := errors.New("boom")
	assert.Equal(t, plain, FromContext(plain))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"conflict", Conflict("taken"), http.StatusConflict},
		{"timeout", Timeout("too slow"), http.StatusGatewayTimeout},
		{"unavailable", Unavailable("db down"), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("outer: %w", Validation("bad")), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}
