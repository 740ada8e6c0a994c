package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"geoshop/internal/core/application/usecases/commands"
	"geoshop/internal/core/domain/model/contact"
	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/order"
	"geoshop/internal/core/domain/model/product"
	"geoshop/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testWKT = "POLYGON ((2600000 1200000, 2600100 1200000, 2600100 1200100, 2600000 1200100, 2600000 1200000))"

func perimeter(t *testing.T) kernel.Geometry {
	t.Helper()
	g, err := kernel.NewGeometryFromWKT(testWKT, kernel.DefaultSRID)
	require.NoError(t, err)
	return g
}

func chf(t *testing.T, amount float64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoneyFromFloat(amount, kernel.DefaultCurrency)
	require.NoError(t, err)
	return m
}

func chfPtr(t *testing.T, amount float64) *kernel.Money {
	t.Helper()
	m := chf(t, amount)
	return &m
}

func newTestItem(t *testing.T, label, format string) *order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), label, kernel.NewUUID(), format)
	require.NoError(t, err)
	return item
}

func newDraftOrder(t *testing.T, items ...*order.Item) *order.Order {
	t.Helper()
	aggregate, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), order.TypePrivate,
		"Cadastral extract", "", perimeter(t))
	require.NoError(t, err)
	if len(items) > 0 {
		require.NoError(t, aggregate.SetItems(items))
	}
	return aggregate
}

// calculatedDirectives builds a confirm directive per item with a fixed
// calculated price.
func calculatedDirectives(t *testing.T, aggregate *order.Order, needsValidation bool) map[string]order.ConfirmDirective {
	t.Helper()
	price, err := product.NewCalculatedPrice(chf(t, 100), chf(t, 20))
	require.NoError(t, err)

	directives := make(map[string]order.ConfirmDirective, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		directives[item.ID().String()] = order.ConfirmDirective{
			NeedsValidation: needsValidation,
			Price:           price,
		}
	}
	return directives
}

func newReadyOrder(t *testing.T) *order.Order {
	t.Helper()
	aggregate := newDraftOrder(t, newTestItem(t, "cadastre", "geopackage"))
	err := aggregate.Confirm(time.Now(), kernel.EmptyGeometry(kernel.DefaultSRID),
		calculatedDirectives(t, aggregate, false))
	require.NoError(t, err)
	require.Equal(t, order.Ready, aggregate.Status())
	return aggregate
}

// newValidationPendingOrder returns a pending order whose single item awaits a
// validation token, together with the token value.
func newValidationPendingOrder(t *testing.T) (*order.Order, string) {
	t.Helper()
	aggregate := newDraftOrder(t, newTestItem(t, "protected-sites", "geopackage"))
	err := aggregate.Confirm(time.Now(), kernel.EmptyGeometry(kernel.DefaultSRID),
		calculatedDirectives(t, aggregate, true))
	require.NoError(t, err)
	require.Equal(t, order.Pending, aggregate.Status())

	pending := aggregate.ItemsPendingValidation()
	require.Len(t, pending, 1)
	return aggregate, pending[0].Token().Value()
}

func publishedProduct(t *testing.T, label string, pricingType product.PricingType, formats ...string) *product.Product {
	t.Helper()
	var unitPrice, maxPrice *kernel.Money
	switch pricingType {
	case product.PricingSingle, product.PricingByArea:
		unitPrice = chfPtr(t, 400)
	case product.PricingByNumberObjects:
		unitPrice = chfPtr(t, 2)
		maxPrice = chfPtr(t, 500)
	}

	pricing, err := product.NewPricing(kernel.NewUUID(), label+" tariff", pricingType,
		unitPrice, nil, nil, maxPrice)
	require.NoError(t, err)

	metadata, err := product.NewMetadata(kernel.NewUUID(), label+".meta", product.Public, nil)
	require.NoError(t, err)

	prod, err := product.NewProduct(kernel.NewUUID(), label, product.Published, pricing,
		metadata, 0, nil, false, kernel.NewUUID(), formats)
	require.NoError(t, err)
	return prod
}

func approvalProduct(t *testing.T, label string, approver kernel.UUID, formats ...string) *product.Product {
	t.Helper()
	pricing, err := product.NewPricing(kernel.NewUUID(), label+" tariff", product.PricingFree,
		nil, nil, nil, nil)
	require.NoError(t, err)

	metadata, err := product.NewMetadata(kernel.NewUUID(), label+".meta", product.ApprovalNeeded,
		[]kernel.UUID{approver})
	require.NoError(t, err)

	prod, err := product.NewProduct(kernel.NewUUID(), label, product.Published, pricing,
		metadata, 0, nil, false, kernel.NewUUID(), formats)
	require.NoError(t, err)
	return prod
}

func newTestContact(t *testing.T, id kernel.UUID, email string, subscribed bool) *contact.Contact {
	t.Helper()
	c, err := contact.RestoreContact(id, "Jane", "Doe", email, subscribed, "fr", nil)
	require.NoError(t, err)
	return c
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Remove(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByItemID(ctx context.Context, itemID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByItemToken(ctx context.Context, token string) (*order.Order, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByDownloadGUID(ctx context.Context, guid kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetProcessedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetByLabel(ctx context.Context, label string) (*product.Product, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetOwnerships(ctx context.Context, productID kernel.UUID) ([]*product.Ownership, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Ownership), args.Error(1)
}

type MockContactRepository struct{ mock.Mock }

func (m *MockContactRepository) Add(ctx context.Context, c *contact.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) Get(ctx context.Context, id kernel.UUID) (*contact.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Contact), args.Error(1)
}

func (m *MockContactRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*contact.Contact, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*contact.Contact), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Send(
	ctx context.Context,
	templateKey, locale string,
	recipients []string,
	data map[string]any,
) error {
	args := m.Called(ctx, templateKey, locale, recipients, data)
	return args.Error(0)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

func (m *MockUoW) ContactRepository() ports.ContactRepository {
	args := m.Called()
	return args.Get(0).(ports.ContactRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}
