package commands_test

import (
	"testing"

	"geoshop/internal/core/application/usecases/commands"
	"geoshop/internal/core/domain/model/order"
	"geoshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewValidateOrderItemCommand_EmptyToken(t *testing.T) {
	_, err := commands.NewValidateOrderItemCommand("", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestValidateOrderItemCommandHandler_Handle_Approve(t *testing.T) {
	ctx := t.Context()
	aggregate, token := newValidationPendingOrder(t)

	cmd, err := commands.NewValidateOrderItemCommand(token, true)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("OrderRepository").Return(repo)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		repo.On("GetByItemToken", ctx, token).Return(aggregate, nil).Once(),
		repo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewValidateOrderItemCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	item := aggregate.Items()[0]
	assert.Equal(t, order.ItemPending, item.Status())
	// the approval was the last blocker, so the order advances
	assert.Equal(t, order.Ready, aggregate.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestValidateOrderItemCommandHandler_Handle_Refuse(t *testing.T) {
	ctx := t.Context()
	aggregate, token := newValidationPendingOrder(t)

	cmd, err := commands.NewValidateOrderItemCommand(token, false)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("OrderRepository").Return(repo)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetByItemToken", ctx, token).Return(aggregate, nil).Once()
	repo.On("Update", ctx, aggregate).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewValidateOrderItemCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.ItemRejected, aggregate.Items()[0].Status())
}

func TestValidateOrderItemCommandHandler_Handle_TokenIsSingleUse(t *testing.T) {
	ctx := t.Context()
	aggregate, token := newValidationPendingOrder(t)
	_, err := aggregate.ValidateItem(token, true) // first submission wins
	require.NoError(t, err)

	cmd, err := commands.NewValidateOrderItemCommand(token, true)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("OrderRepository").Return(repo)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetByItemToken", ctx, token).Return(aggregate, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewValidateOrderItemCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestValidateOrderItemCommandHandler_Handle_UnknownToken(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewValidateOrderItemCommand("deadbeef", true)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("OrderRepository").Return(repo)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetByItemToken", ctx, "deadbeef").
		Return(nil, errs.NewObjectNotFoundError("validation token", "deadbeef")).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewValidateOrderItemCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}
