package order_test

import (
	"fmt"
	"testing"

	"geoshop/internal/core/domain/model/order"
	"geoshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate valid statuses", func(t *testing.T) {
		validStatuses := []order.Status{
			order.Draft,
			order.Pending,
			order.QuoteDone,
			order.Ready,
			order.InExtract,
			order.PartiallyDelivered,
			order.Processed,
			order.Archived,
			order.Rejected,
		}

		for _, status := range validStatuses {
			t.Run(fmt.Sprintf("should validate %s status", status.String()), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown status", func(t *testing.T) {
		err := order.Unknown.Validate()

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject out-of-range status", func(t *testing.T) {
		err := order.Status(42).Validate()

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Draft", order.Draft.String())
	assert.Equal(t, "QuoteDone", order.QuoteDone.String())
	assert.Equal(t, "PartiallyDelivered", order.PartiallyDelivered.String())
	assert.Equal(t, "Unknown", order.Status(42).String())
}

func TestStatus_Transitions(t *testing.T) {
	t.Run("only draft orders are editable", func(t *testing.T) {
		require.NoError(t, order.Draft.ValidateEditable())

		for _, status := range []order.Status{order.Pending, order.Ready, order.Processed} {
			err := status.ValidateEditable()
			require.ErrorIs(t, err, errs.ErrForbiddenAction, status.String())
		}
	})

	t.Run("quote_done only from pending", func(t *testing.T) {
		next, err := order.Pending.QuoteDone()

		require.NoError(t, err)
		assert.Equal(t, order.QuoteDone, next)

		_, err = order.Draft.QuoteDone()
		require.ErrorIs(t, err, errs.ErrConflict)

		_, err = order.Ready.QuoteDone()
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("start extract only from ready", func(t *testing.T) {
		next, err := order.Ready.StartExtract()

		require.NoError(t, err)
		assert.Equal(t, order.InExtract, next)

		_, err = order.Pending.StartExtract()
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("reject from any non-terminal status", func(t *testing.T) {
		for _, status := range []order.Status{
			order.Draft, order.Pending, order.QuoteDone,
			order.Ready, order.InExtract, order.PartiallyDelivered,
		} {
			next, err := status.Reject()
			require.NoError(t, err, status.String())
			assert.Equal(t, order.Rejected, next)
		}
	})

	t.Run("reject fails on terminal statuses", func(t *testing.T) {
		for _, status := range []order.Status{order.Processed, order.Archived, order.Rejected} {
			_, err := status.Reject()
			require.ErrorIs(t, err, errs.ErrForbiddenAction, status.String())
		}
	})

	t.Run("archive only from processed", func(t *testing.T) {
		next, err := order.Processed.Archive()

		require.NoError(t, err)
		assert.Equal(t, order.Archived, next)

		_, err = order.Ready.Archive()
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestItemStatus_Validate(t *testing.T) {
	t.Run("should validate valid statuses", func(t *testing.T) {
		validStatuses := []order.ItemStatus{
			order.ItemDraft,
			order.ItemPending,
			order.ItemValidationPending,
			order.ItemInExtract,
			order.ItemProcessed,
			order.ItemRejected,
		}

		for _, status := range validStatuses {
			t.Run(fmt.Sprintf("should validate %s status", status.String()), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown status", func(t *testing.T) {
		err := order.ItemUnknown.Validate()

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestItemStatus_Transitions(t *testing.T) {
	t.Run("confirm without validation goes to pending", func(t *testing.T) {
		next, err := order.ItemDraft.Confirm(false)

		require.NoError(t, err)
		assert.Equal(t, order.ItemPending, next)
	})

	t.Run("confirm with validation goes to validation pending", func(t *testing.T) {
		next, err := order.ItemDraft.Confirm(true)

		require.NoError(t, err)
		assert.Equal(t, order.ItemValidationPending, next)
	})

	t.Run("confirm fails on non-draft items", func(t *testing.T) {
		_, err := order.ItemPending.Confirm(false)

		require.ErrorIs(t, err, errs.ErrForbiddenAction)
	})

	t.Run("approve only from validation pending", func(t *testing.T) {
		next, err := order.ItemValidationPending.Approve()

		require.NoError(t, err)
		assert.Equal(t, order.ItemPending, next)

		_, err = order.ItemPending.Approve()
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("extraction path", func(t *testing.T) {
		inExtract, err := order.ItemPending.StartExtract()
		require.NoError(t, err)
		assert.Equal(t, order.ItemInExtract, inExtract)

		processed, err := inExtract.Process()
		require.NoError(t, err)
		assert.Equal(t, order.ItemProcessed, processed)
		assert.True(t, processed.IsTerminal())
	})

	t.Run("validation pending items cannot be extracted", func(t *testing.T) {
		_, err := order.ItemValidationPending.StartExtract()

		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("terminal items cannot be rejected again", func(t *testing.T) {
		_, err := order.ItemProcessed.Reject()
		require.ErrorIs(t, err, errs.ErrForbiddenAction)

		_, err = order.ItemRejected.Reject()
		require.ErrorIs(t, err, errs.ErrForbiddenAction)
	})
}

func TestType_Validate(t *testing.T) {
	t.Run("should validate valid types", func(t *testing.T) {
		for _, orderType := range []order.Type{order.TypePrivate, order.TypePublic, order.TypeSubscribed} {
			require.NoError(t, orderType.Validate())
		}
	})

	t.Run("should reject unknown type", func(t *testing.T) {
		require.ErrorIs(t, order.TypeUnknown.Validate(), errs.ErrValueIsInvalid)
	})

	t.Run("only subscribed type is subscribed", func(t *testing.T) {
		assert.True(t, order.TypeSubscribed.IsSubscribed())
		assert.False(t, order.TypePrivate.IsSubscribed())
	})
}
