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

func TestRejectOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := newReadyOrder(t)

	cmd, err := commands.NewRejectOrderCommand(aggregate.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("OrderRepository").Return(repo)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		repo.On("GetForUpdate", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRejectOrderCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Rejected, aggregate.Status())
	for _, item := range aggregate.Items() {
		assert.Equal(t, order.ItemRejected, item.Status())
	}
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRejectOrderCommandHandler_Handle_TerminalOrder(t *testing.T) {
	ctx := t.Context()
	aggregate := newReadyOrder(t)
	require.NoError(t, aggregate.StartExtract())
	completed, err := aggregate.RecordExtractResult(aggregate.Items()[0].ID(), "results/cadastre.zip")
	require.NoError(t, err)
	require.True(t, completed)
	require.Equal(t, order.Processed, aggregate.Status())

	cmd, err := commands.NewRejectOrderCommand(aggregate.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("OrderRepository").Return(repo)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, aggregate.ID()).Return(aggregate, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRejectOrderCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrForbiddenAction)
	assert.Equal(t, order.Processed, aggregate.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
