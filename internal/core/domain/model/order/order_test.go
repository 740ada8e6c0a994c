package order_test

import (
	"testing"
	"time"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/order"
	"geoshop/internal/core/domain/model/product"
	"geoshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const perimeterWKT = "POLYGON ((2545000 1203000, 2550000 1203000, 2550000 1208000, 2545000 1208000, 2545000 1203000))"

func perimeter(t *testing.T) kernel.Geometry {
	t.Helper()
	g, err := kernel.NewGeometryFromWKT(perimeterWKT, kernel.DefaultSRID)
	require.NoError(t, err)
	return g
}

func chf(t *testing.T, v float64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoneyFromFloat(v, kernel.DefaultCurrency)
	require.NoError(t, err)
	return m
}

func newItem(t *testing.T, label, format string) *order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), label, kernel.NewUUID(), format)
	require.NoError(t, err)
	return item
}

func newDraftOrder(t *testing.T, items ...*order.Item) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), order.TypePrivate,
		"Cadastral extract for building permit", "", perimeter(t))
	require.NoError(t, err)
	if len(items) > 0 {
		require.NoError(t, o.SetItems(items))
	}
	return o
}

func calculated(t *testing.T, price, baseFee float64) product.PriceResult {
	t.Helper()
	result, err := product.NewCalculatedPrice(chf(t, price), chf(t, baseFee))
	require.NoError(t, err)
	return result
}

func directivesFor(o *order.Order, directive order.ConfirmDirective) map[string]order.ConfirmDirective {
	directives := make(map[string]order.ConfirmDirective, len(o.Items()))
	for _, item := range o.Items() {
		directives[item.ID().String()] = directive
	}
	return directives
}

func confirmAll(t *testing.T, o *order.Order, directive order.ConfirmDirective) {
	t.Helper()
	require.NoError(t, o.Confirm(time.Now(), kernel.EmptyGeometry(kernel.DefaultSRID), directivesFor(o, directive)))
}

func TestNewOrder(t *testing.T) {
	t.Run("should create draft order", func(t *testing.T) {
		o := newDraftOrder(t)

		assert.NoError(t, o.Validate())
		assert.Equal(t, order.Draft, o.Status())
		assert.Nil(t, o.DownloadGUID())
		assert.Nil(t, o.DateOrdered())
	})

	t.Run("should reject empty title", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), order.TypePrivate,
			"", "", perimeter(t))

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject unconstructed geometry", func(t *testing.T) {
		var g kernel.Geometry
		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), order.TypePrivate,
			"Some title", "", g)

		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var o order.Order

		require.Error(t, o.Validate())
	})
}

func TestOrder_SetItems(t *testing.T) {
	t.Run("draft orders are freely mutable", func(t *testing.T) {
		o := newDraftOrder(t, newItem(t, "npa", "GeoTIFF"))

		err := o.SetItems([]*order.Item{newItem(t, "cadastre", "Shapefile")})

		require.NoError(t, err)
		require.Len(t, o.Items(), 1)
		assert.Equal(t, "cadastre", o.Items()[0].ProductLabel())
	})

	t.Run("confirmed orders are immutable to the client", func(t *testing.T) {
		o := newDraftOrder(t, newItem(t, "npa", "GeoTIFF"))
		confirmAll(t, o, order.ConfirmDirective{Price: calculated(t, 10, 0)})

		err := o.SetItems([]*order.Item{newItem(t, "cadastre", "Shapefile")})

		require.ErrorIs(t, err, errs.ErrForbiddenAction)
		require.Len(t, o.Items(), 1)
		assert.Equal(t, "npa", o.Items()[0].ProductLabel())
	})
}

func TestOrder_EnsureDeletable(t *testing.T) {
	t.Run("draft can be deleted", func(t *testing.T) {
		o := newDraftOrder(t, newItem(t, "cadastre", "DXF"))

		assert.NoError(t, o.EnsureDeletable())
	})

	t.Run("confirmed order cannot be deleted", func(t *testing.T) {
		o := newDraftOrder(t, newItem(t, "cadastre", "DXF"))
		confirmAll(t, o, order.ConfirmDirective{Price: calculated(t, 10, 0)})

		err := o.EnsureDeletable()

		require.ErrorIs(t, err, errs.ErrForbiddenAction)
	})
}

func TestOrder_Confirm(t *testing.T) {
	t.Run("should fail without items", func(t *testing.T) {
		o := newDraftOrder(t)

		err := o.Confirm(time.Now(), kernel.EmptyGeometry(kernel.DefaultSRID), nil)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.Draft, o.Status())
	})

	t.Run("should fail when a data format is missing", func(t *testing.T) {
		o := newDraftOrder(t, newItem(t, "npa", "GeoTIFF"), newItem(t, "cadastre", ""))

		err := o.Confirm(time.Now(), kernel.EmptyGeometry(kernel.DefaultSRID),
			directivesFor(o, order.ConfirmDirective{Price: calculated(t, 10, 0)}))

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "cadastre")
		assert.Equal(t, order.Draft, o.Status())
	})

	t.Run("should succeed once formats are selected", func(t *testing.T) {
		missing := newItem(t, "cadastre", "")
		o := newDraftOrder(t, missing)
		require.NoError(t, missing.SelectFormat("Shapefile"))

		now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
		err := o.Confirm(now, kernel.EmptyGeometry(kernel.DefaultSRID),
			directivesFor(o, order.ConfirmDirective{Price: calculated(t, 10, 0)}))

		require.NoError(t, err)
		require.NotNil(t, o.DownloadGUID())
		require.NotNil(t, o.DateOrdered())
		assert.Equal(t, now, *o.DateOrdered())
		require.NotNil(t, missing.DownloadGUID())
	})

	t.Run("all prices calculated and no validation goes straight to ready", func(t *testing.T) {
		o := newDraftOrder(t, newItem(t, "npa", "GeoTIFF"))

		confirmAll(t, o, order.ConfirmDirective{Price: calculated(t, 10, 0)})

		assert.Equal(t, order.Ready, o.Status())
		assert.Equal(t, order.ItemPending, o.Items()[0].Status())
	})

	t.Run("pending price keeps the order pending", func(t *testing.T) {
		o := newDraftOrder(t, newItem(t, "manual", "GeoTIFF"))

		confirmAll(t, o, order.ConfirmDirective{Price: product.NewPendingPrice()})

		assert.Equal(t, order.Pending, o.Status())
		assert.True(t, o.HasPendingPrices())
		assert.Nil(t, o.Items()[0].Price())
	})

	t.Run("approval-needed item gets a token and blocks the order", func(t *testing.T) {
		o := newDraftOrder(t, newItem(t, "sensitive", "GeoTIFF"))

		confirmAll(t, o, order.ConfirmDirective{NeedsValidation: true, Price: calculated(t, 10, 0)})

		assert.Equal(t, order.Pending, o.Status())
		pending := o.ItemsPendingValidation()
		require.Len(t, pending, 1)
		require.NotNil(t, pending[0].Token())
		assert.False(t, pending[0].Token().IsConsumed())
	})

	t.Run("double confirm fails and leaves the state unchanged", func(t *testing.T) {
		o := newDraftOrder(t, newItem(t, "npa", "GeoTIFF"))
		confirmAll(t, o, order.ConfirmDirective{Price: calculated(t, 10, 0)})
		guid := o.DownloadGUID()

		err := o.Confirm(time.Now(), kernel.EmptyGeometry(kernel.DefaultSRID),
			directivesFor(o, order.ConfirmDirective{Price: calculated(t, 10, 0)}))

		require.ErrorIs(t, err, errs.ErrForbiddenAction)
		assert.Equal(t, order.Ready, o.Status())
		assert.Same(t, guid, o.DownloadGUID())
	})
}

func TestOrder_QuoteRoundTrip(t *testing.T) {
	t.Run("quote_done before set price is a retryable conflict", func(t *testing.T) {
		o := newDraftOrder(t, newItem(t, "manual", "GeoTIFF"))
		confirmAll(t, o, order.ConfirmDirective{Price: product.NewPendingPrice()})

		err := o.QuoteDone()

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("set price then quote_done then client accepts", func(t *testing.T) {
		item := newItem(t, "manual", "GeoTIFF")
		o := newDraftOrder(t, item)
		confirmAll(t, o, order.ConfirmDirective{Price: product.NewPendingPrice()})

		require.NoError(t, o.SetItemPrice(item.ID(), chf(t, 400), chf(t, 150)))
		require.NoError(t, o.QuoteDone())
		assert.Equal(t, order.QuoteDone, o.Status())

		fee, err := o.ProcessingFee()
		require.NoError(t, err)
		assert.Equal(t, "150.00 CHF", fee.String())

		total, err := o.TotalWithoutVAT()
		require.NoError(t, err)
		assert.Equal(t, "550.00 CHF", total.String())

		// the second confirm is the client accepting the quote
		require.NoError(t, o.Confirm(time.Now(), kernel.EmptyGeometry(kernel.DefaultSRID), nil))
		assert.Equal(t, order.Ready, o.Status())
	})

	t.Run("processing fee is the largest base fee across items", func(t *testing.T) {
		first := newItem(t, "npa", "GeoTIFF")
		second := newItem(t, "cadastre", "Shapefile")
		o := newDraftOrder(t, first, second)
		confirmAll(t, o, order.ConfirmDirective{Price: product.NewPendingPrice()})

		require.NoError(t, o.SetItemPrice(first.ID(), chf(t, 100), chf(t, 50)))
		require.NoError(t, o.SetItemPrice(second.ID(), chf(t, 200), chf(t, 150)))

		fee, err := o.ProcessingFee()
		require.NoError(t, err)
		assert.Equal(t, "150.00 CHF", fee.String())

		total, err := o.TotalWithoutVAT()
		require.NoError(t, err)
		assert.Equal(t, "450.00 CHF", total.String())
	})
}

func TestOrder_ValidateItem(t *testing.T) {
	confirmSensitive := func(t *testing.T) (*order.Order, *order.Item) {
		t.Helper()
		item := newItem(t, "sensitive", "GeoTIFF")
		o := newDraftOrder(t, item)
		confirmAll(t, o, order.ConfirmDirective{NeedsValidation: true, Price: calculated(t, 10, 0)})
		return o, item
	}

	t.Run("approval moves the item to pending exactly once", func(t *testing.T) {
		o, item := confirmSensitive(t)
		token := item.Token().Value()

		validated, err := o.ValidateItem(token, true)

		require.NoError(t, err)
		assert.Equal(t, order.ItemPending, validated.Status())
		assert.Equal(t, order.Ready, o.Status())

		// the token is single-use: a replay changes nothing
		_, err = o.ValidateItem(token, true)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, order.ItemPending, item.Status())
		assert.Equal(t, order.Ready, o.Status())
	})

	t.Run("refusing the only item rejects the whole order", func(t *testing.T) {
		o, item := confirmSensitive(t)

		validated, err := o.ValidateItem(item.Token().Value(), false)

		require.NoError(t, err)
		assert.Equal(t, order.ItemRejected, validated.Status())
		assert.Equal(t, order.Rejected, o.Status())

		// nothing is left to extract, so the order never enters the queue
		require.ErrorIs(t, o.StartExtract(), errs.ErrConflict)
	})

	t.Run("refusing one of two items keeps the rest extractable", func(t *testing.T) {
		sensitive := newItem(t, "sensitive", "GeoTIFF")
		open := newItem(t, "open data", "DXF")
		o := newDraftOrder(t, sensitive, open)
		directives := map[string]order.ConfirmDirective{
			sensitive.ID().String(): {NeedsValidation: true, Price: calculated(t, 10, 0)},
			open.ID().String():      {Price: calculated(t, 10, 0)},
		}
		require.NoError(t, o.Confirm(time.Now(), kernel.EmptyGeometry(kernel.DefaultSRID), directives))

		_, err := o.ValidateItem(sensitive.Token().Value(), false)

		require.NoError(t, err)
		assert.Equal(t, order.Ready, o.Status())
	})

	t.Run("unknown token is not found", func(t *testing.T) {
		o, item := confirmSensitive(t)

		_, err := o.ValidateItem("deadbeef", true)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, order.ItemValidationPending, item.Status())
	})

	t.Run("approval does not unblock a pending quote", func(t *testing.T) {
		item := newItem(t, "sensitive", "GeoTIFF")
		o := newDraftOrder(t, item)
		confirmAll(t, o, order.ConfirmDirective{NeedsValidation: true, Price: product.NewPendingPrice()})

		_, err := o.ValidateItem(item.Token().Value(), true)

		require.NoError(t, err)
		assert.Equal(t, order.Pending, o.Status())
	})
}

func TestOrder_Extraction(t *testing.T) {
	confirmReady := func(t *testing.T, items ...*order.Item) *order.Order {
		t.Helper()
		o := newDraftOrder(t, items...)
		confirmAll(t, o, order.ConfirmDirective{Price: calculated(t, 10, 0)})
		require.NoError(t, o.StartExtract())
		return o
	}

	t.Run("start extract marks order and items", func(t *testing.T) {
		item := newItem(t, "npa", "GeoTIFF")
		o := confirmReady(t, item)

		assert.Equal(t, order.InExtract, o.Status())
		assert.Equal(t, order.ItemInExtract, item.Status())
	})

	t.Run("start extract fails unless the order is ready", func(t *testing.T) {
		o := newDraftOrder(t, newItem(t, "npa", "GeoTIFF"))

		require.ErrorIs(t, o.StartExtract(), errs.ErrConflict)
	})

	t.Run("all items succeeded processes the order", func(t *testing.T) {
		first := newItem(t, "npa", "GeoTIFF")
		second := newItem(t, "cadastre", "Shapefile")
		o := confirmReady(t, first, second)

		completed, err := o.RecordExtractResult(first.ID(), "results/npa.zip")
		require.NoError(t, err)
		assert.False(t, completed)
		assert.Equal(t, order.InExtract, o.Status())

		completed, err = o.RecordExtractResult(second.ID(), "results/cadastre.zip")
		require.NoError(t, err)
		assert.True(t, completed)
		assert.Equal(t, order.Processed, o.Status())
		assert.Equal(t, "results/npa.zip", first.ExtractFileRef())
	})

	t.Run("mixed outcome is partially delivered", func(t *testing.T) {
		first := newItem(t, "npa", "GeoTIFF")
		second := newItem(t, "cadastre", "Shapefile")
		o := confirmReady(t, first, second)

		_, err := o.RecordExtractResult(first.ID(), "results/npa.zip")
		require.NoError(t, err)

		completed, err := o.RecordExtractFailure(second.ID(), "layer unavailable")
		require.NoError(t, err)
		assert.True(t, completed)
		assert.Equal(t, order.PartiallyDelivered, o.Status())
		assert.Equal(t, "layer unavailable", second.FailureReason())
	})

	t.Run("nothing succeeded rejects the order", func(t *testing.T) {
		item := newItem(t, "npa", "GeoTIFF")
		o := confirmReady(t, item)

		completed, err := o.RecordExtractFailure(item.ID(), "layer unavailable")
		require.NoError(t, err)
		assert.True(t, completed)
		assert.Equal(t, order.Rejected, o.Status())
	})

	t.Run("replayed callback is a no-op", func(t *testing.T) {
		item := newItem(t, "npa", "GeoTIFF")
		o := confirmReady(t, item)

		_, err := o.RecordExtractResult(item.ID(), "results/npa.zip")
		require.NoError(t, err)

		completed, err := o.RecordExtractResult(item.ID(), "results/npa.zip")
		require.NoError(t, err)
		assert.False(t, completed)
		assert.Equal(t, order.Processed, o.Status())
	})

	t.Run("result for an unknown item is not found", func(t *testing.T) {
		o := confirmReady(t, newItem(t, "npa", "GeoTIFF"))

		_, err := o.RecordExtractResult(kernel.NewUUID(), "results/other.zip")

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestOrder_RejectAndArchive(t *testing.T) {
	t.Run("reject cascades to open items", func(t *testing.T) {
		item := newItem(t, "npa", "GeoTIFF")
		o := newDraftOrder(t, item)
		confirmAll(t, o, order.ConfirmDirective{Price: product.NewPendingPrice()})

		require.NoError(t, o.Reject())

		assert.Equal(t, order.Rejected, o.Status())
		assert.Equal(t, order.ItemRejected, item.Status())
	})

	t.Run("reject fails on terminal orders", func(t *testing.T) {
		item := newItem(t, "npa", "GeoTIFF")
		o := newDraftOrder(t, item)
		confirmAll(t, o, order.ConfirmDirective{Price: calculated(t, 10, 0)})
		require.NoError(t, o.StartExtract())
		_, err := o.RecordExtractResult(item.ID(), "results/npa.zip")
		require.NoError(t, err)

		require.ErrorIs(t, o.Reject(), errs.ErrForbiddenAction)
	})

	t.Run("archive only processed orders", func(t *testing.T) {
		item := newItem(t, "npa", "GeoTIFF")
		o := newDraftOrder(t, item)
		confirmAll(t, o, order.ConfirmDirective{Price: calculated(t, 10, 0)})

		require.ErrorIs(t, o.Archive(), errs.ErrConflict)

		require.NoError(t, o.StartExtract())
		_, err := o.RecordExtractResult(item.ID(), "results/npa.zip")
		require.NoError(t, err)

		require.NoError(t, o.Archive())
		assert.Equal(t, order.Archived, o.Status())
	})
}
