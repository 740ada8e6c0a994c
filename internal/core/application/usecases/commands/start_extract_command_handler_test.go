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

func TestStartExtractCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := newReadyOrder(t)

	cmd, err := commands.NewStartExtractCommand(aggregate.ID())
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

	h := commands.NewStartExtractCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.InExtract, aggregate.Status())
	for _, item := range aggregate.Items() {
		assert.Equal(t, order.ItemInExtract, item.Status())
	}
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestStartExtractCommandHandler_Handle_OrderNotReady(t *testing.T) {
	ctx := t.Context()
	aggregate := newDraftOrder(t, newTestItem(t, "cadastre", "geopackage"))

	cmd, err := commands.NewStartExtractCommand(aggregate.ID())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("OrderRepository").Return(repo)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, aggregate.ID()).Return(aggregate, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartExtractCommandHandler(factory)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, order.Draft, aggregate.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
