package errors_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/edgard/transbot/internal/errors"
)

func TestCode(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("boom")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, apperrors.CodeUnknown},
		{"plain", cause, apperrors.CodeUnknown},
		{"config", apperrors.NewConfigError("bad config", cause), apperrors.CodeConfig},
		{"decode", apperrors.NewDecodeError("bad body", cause), apperrors.CodeDecode},
		{"translation", apperrors.NewTranslationError("libretranslate", "request failed", cause), apperrors.CodeTranslation},
		{"registration", apperrors.NewRegistrationError("set webhook", cause), apperrors.CodeRegistration},
		{"wrapped", fmt.Errorf("outer: %w", apperrors.NewDecodeError("bad body", cause)), apperrors.CodeDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, apperrors.Code(tt.err))
		})
	}
}

func TestTranslationErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := apperrors.NewTranslationError("mymemory", "request failed", context.DeadlineExceeded)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "mymemory: request failed: context deadline exceeded", err.Error())

	assert.Equal(t, "mymemory", apperrors.Backend(err))
	assert.Equal(t, "mymemory", apperrors.Backend(fmt.Errorf("language detection failed: %w", err)))
	assert.Empty(t, apperrors.Backend(apperrors.NewDecodeError("bad body", nil)))
	assert.Empty(t, apperrors.Backend(nil))
}

func TestErrorWithoutCause(t *testing.T) {
	t.Parallel()

	err := apperrors.NewConfigError("telegram token is required", nil)
	assert.Equal(t, "telegram token is required", err.Error())
	assert.NoError(t, apperrors.NewConfigError("x", nil).(*apperrors.ConfigError).Unwrap())
}
