package services_test

import (
	"testing"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/product"
	"geoshop/internal/core/domain/services"
	"geoshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perimeter of a real oversized order, area 97 442 812.5 m² in EPSG:2056
const oversizedWKT = "POLYGON ((2545488 1203070, 2557441 1202601, 2557089 1210921, 2545605 1211390, 2545488 1203070))"

const oversizedArea = 97442812.5

func geometry(t *testing.T, wkt string) kernel.Geometry {
	t.Helper()
	g, err := kernel.NewGeometryFromWKT(wkt, kernel.DefaultSRID)
	require.NoError(t, err)
	return g
}

func cappedProduct(t *testing.T, maxOrderArea float64) *product.Product {
	t.Helper()

	pricing, err := product.NewPricing(kernel.NewUUID(), "gratis", product.PricingFree,
		nil, nil, nil, nil)
	require.NoError(t, err)

	metadata, err := product.NewMetadata(kernel.NewUUID(), "ch.test.dataset", product.Public, nil)
	require.NoError(t, err)

	prod, err := product.NewProduct(kernel.NewUUID(), "Orthophoto", product.Published,
		pricing, metadata, maxOrderArea, nil, false, kernel.NewUUID(), []string{"GeoTIFF"})
	require.NoError(t, err)
	return prod
}

func ownershipFor(t *testing.T, prod *product.Product, group, coverageWKT string) *product.Ownership {
	t.Helper()
	o, err := product.NewOwnership(kernel.NewUUID(), group, prod.ID(), geometry(t, coverageWKT))
	require.NoError(t, err)
	return o
}

func TestAreaValidator_ValidateOrderArea(t *testing.T) {
	validator := services.NewAreaValidator()

	t.Run("oversized order fails with expected and actual areas", func(t *testing.T) {
		prod := cappedProduct(t, 34558655.8)

		report, err := validator.ValidateOrderArea(geometry(t, oversizedWKT), prod, nil, nil)

		require.ErrorIs(t, err, errs.ErrAreaTooLarge)
		var areaErr *errs.AreaTooLargeError
		require.ErrorAs(t, err, &areaErr)
		assert.InDelta(t, 34558655.8, areaErr.Expected, 1e-3)
		assert.InDelta(t, oversizedArea, areaErr.Actual, 1e-3)
		assert.InDelta(t, oversizedArea, report.Actual, 1e-3)
	})

	t.Run("cap of zero means unlimited", func(t *testing.T) {
		prod := cappedProduct(t, 0)

		report, err := validator.ValidateOrderArea(geometry(t, oversizedWKT), prod, nil, nil)

		require.NoError(t, err)
		assert.InDelta(t, oversizedArea, report.Actual, 1e-3)
	})

	t.Run("order exactly at the cap passes", func(t *testing.T) {
		prod := cappedProduct(t, oversizedArea)

		_, err := validator.ValidateOrderArea(geometry(t, oversizedWKT), prod, nil, nil)

		require.NoError(t, err)
	})

	t.Run("fully owned coverage passes regardless of the cap", func(t *testing.T) {
		prod := cappedProduct(t, 1000)
		coverage := ownershipFor(t, prod, "canton-de-vaud",
			"POLYGON ((2540000 1200000, 2560000 1200000, 2560000 1215000, 2540000 1215000, 2540000 1200000))")

		report, err := validator.ValidateOrderArea(geometry(t, oversizedWKT), prod,
			[]string{"canton-de-vaud"}, []*product.Ownership{coverage})

		require.NoError(t, err)
		assert.True(t, report.Excluded.IsEmpty())
		assert.Zero(t, report.Actual)
	})

	t.Run("partial coverage only counts the excluded remainder", func(t *testing.T) {
		prod := cappedProduct(t, 6000)
		order := geometry(t, "POLYGON ((0 0, 100 0, 100 100, 0 100, 0 0))")
		coverage := ownershipFor(t, prod, "commune",
			"POLYGON ((0 0, 50 0, 50 100, 0 100, 0 0))")

		report, err := validator.ValidateOrderArea(order, prod,
			[]string{"commune"}, []*product.Ownership{coverage})

		require.NoError(t, err)
		assert.InDelta(t, 5000.0, report.Actual, 1e-6)
	})

	t.Run("coverage of a foreign group grants no exemption", func(t *testing.T) {
		prod := cappedProduct(t, 6000)
		order := geometry(t, "POLYGON ((0 0, 100 0, 100 100, 0 100, 0 0))")
		coverage := ownershipFor(t, prod, "another-commune",
			"POLYGON ((0 0, 50 0, 50 100, 0 100, 0 0))")

		report, err := validator.ValidateOrderArea(order, prod,
			[]string{"commune"}, []*product.Ownership{coverage})

		require.ErrorIs(t, err, errs.ErrAreaTooLarge)
		assert.InDelta(t, 10000.0, report.Actual, 1e-6)
	})

	t.Run("multiple coverages are unioned before subtraction", func(t *testing.T) {
		prod := cappedProduct(t, 0)
		order := geometry(t, "POLYGON ((0 0, 100 0, 100 100, 0 100, 0 0))")
		left := ownershipFor(t, prod, "commune",
			"POLYGON ((0 0, 60 0, 60 100, 0 100, 0 0))")
		right := ownershipFor(t, prod, "commune",
			"POLYGON ((40 0, 100 0, 100 100, 40 100, 40 0))")

		report, err := validator.ValidateOrderArea(order, prod,
			[]string{"commune"}, []*product.Ownership{left, right})

		require.NoError(t, err)
		assert.True(t, report.Excluded.IsEmpty())
	})

	t.Run("unconstructed geometry is a geometry error, not an area error", func(t *testing.T) {
		var g kernel.Geometry

		_, err := services.NewAreaValidator().ValidateOrderArea(g, cappedProduct(t, 10), nil, nil)

		require.ErrorIs(t, err, errs.ErrGeometryIsInvalid)
		require.NotErrorIs(t, err, errs.ErrAreaTooLarge)
	})
}
