package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *Error
		code int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("busy"), http.StatusConflict},
		{InvalidReference("product 9"), http.StatusUnprocessableEntity},
		{Internal("boom", errors.New("x")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.HTTPStatus(), string(tc.err.Kind))
	}
}

func TestFromClassifiesStoreErrors(t *testing.T) {
	assert.Nil(t, From(nil))
	assert.Equal(t, KindNotFound, From(gorm.ErrRecordNotFound).Kind)
	assert.Equal(t, KindConflict, From(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)).Kind)
	assert.Equal(t, KindInvalidReference, From(gorm.ErrForeignKeyViolated).Kind)
	assert.Equal(t, KindInternal, From(errors.New("disk full")).Kind)

	orig := Conflict("table 5 already has an active ronda")
	assert.Same(t, orig, From(fmt.Errorf("wrapped: %w", orig)))
}

func TestWrapAndIs(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, "failed to load table")
	assert.Equal(t, "failed to load table", err.Message)
	assert.ErrorIs(t, err, cause)

	assert.True(t, Is(err, KindInternal))
	assert.False(t, Is(err, KindConflict))
	assert.False(t, Is(cause, KindInternal))
}
