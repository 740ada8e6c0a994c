package order_test

import (
	"testing"

	"geoshop/internal/core/domain/model/order"
	"geoshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationToken(t *testing.T) {
	t.Run("should generate distinct opaque tokens", func(t *testing.T) {
		first, err := order.NewValidationToken()
		require.NoError(t, err)

		second, err := order.NewValidationToken()
		require.NoError(t, err)

		assert.Len(t, first.Value(), 64)
		assert.NotEqual(t, first.Value(), second.Value())
		assert.False(t, first.IsConsumed())
	})

	t.Run("should match only its own value", func(t *testing.T) {
		token, err := order.NewValidationToken()
		require.NoError(t, err)

		assert.True(t, token.Matches(token.Value()))
		assert.False(t, token.Matches("somebody-else"))
		assert.False(t, token.Matches(""))
	})

	t.Run("consumed token never matches again", func(t *testing.T) {
		token, err := order.NewValidationToken()
		require.NoError(t, err)

		require.NoError(t, token.Consume())

		assert.True(t, token.IsConsumed())
		assert.False(t, token.Matches(token.Value()))

		err = token.Consume()
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("restore from persistence", func(t *testing.T) {
		token, err := order.RestoreValidationToken("abc123", true)

		require.NoError(t, err)
		assert.True(t, token.IsConsumed())

		_, err = order.RestoreValidationToken("", false)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
