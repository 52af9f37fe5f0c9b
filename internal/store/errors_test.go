package store

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_WrappedSentinels(t *testing.T) {
	err := fmt.Errorf("%w: book_groups.slug", ErrAlreadyExists)

	assert.True(t, errors.Is(err, ErrAlreadyExists))
	assert.False(t, errors.Is(err, ErrReferenced))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestError_Message(t *testing.T) {
	cause := errors.New("FOREIGN KEY constraint failed")
	err := &Error{Code: http.StatusConflict, Message: "image is in use", Err: cause}

	assert.Equal(t, "image is in use: FOREIGN KEY constraint failed", err.Error())
	assert.Equal(t, http.StatusConflict, err.HTTPCode())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusNotFound, ErrNotFound.HTTPCode())
}
