package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCloneKeepsCodeAndMatchesTemplate(t *testing.T) {
	err := Clone(ErrAlreadyArchived, "This rescue request already exists in history")
	require.Equal(t, "ALREADY_ARCHIVED", err.Code)
	require.Equal(t, http.StatusConflict, err.Status)
	require.True(t, errors.Is(err, ErrAlreadyArchived))
	require.False(t, errors.Is(err, ErrNotFound))
}

func TestAsWrapsCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := As(ErrWriteFailed, cause, "")
	require.Equal(t, ErrWriteFailed.Message, err.Message)
	require.ErrorIs(t, err, cause)
	require.True(t, HasCode(fmt.Errorf("outer: %w", err), ErrWriteFailed.Code))
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	err := FromError(fmt.Errorf("boom"))
	require.Equal(t, ErrInternal.Code, err.Code)
	require.Equal(t, http.StatusInternalServerError, err.Status)
	require.Nil(t, FromError(nil))
}
