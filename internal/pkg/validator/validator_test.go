package validator

import (
	stderrors "errors"
	"testing"

	"github.com/poi-mashup/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Show  string `validate:"required,oneof=all current query"`
	Field string `validate:"omitempty,min=1"`
}

func TestValidate(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		assert.NoError(t, Validate(&sample{Show: "all"}))
	})

	t.Run("invalid show mode", func(t *testing.T) {
		err := Validate(&sample{Show: "everything"})
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrInvalidRequest))

		var appErr *errors.AppError
		require.True(t, stderrors.As(err, &appErr))
		assert.Equal(t, "oneof", appErr.Details["Show"])
		assert.Empty(t, errors.ErrInvalidRequest.Details, "sentinel must stay untouched")
	})
}
