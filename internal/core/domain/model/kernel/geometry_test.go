package kernel_test

import (
	"testing"

	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const squareWKT = "POLYGON((0 0, 100 0, 100 100, 0 100, 0 0))"

func TestNewGeometryFromWKT(t *testing.T) {
	t.Run("should parse a simple polygon", func(t *testing.T) {
		g, err := kernel.NewGeometryFromWKT(squareWKT, kernel.DefaultSRID)

		require.NoError(t, err)
		assert.NoError(t, g.Validate())
		assert.Equal(t, kernel.DefaultSRID, g.SRID())
		assert.InDelta(t, 10000.0, g.Area(), 1e-9)
		assert.False(t, g.IsEmpty())
	})

	t.Run("should reject malformed WKT", func(t *testing.T) {
		_, err := kernel.NewGeometryFromWKT("POLYGON((0 0, 1 1))", kernel.DefaultSRID)

		require.ErrorIs(t, err, errs.ErrGeometryIsInvalid)
	})

	t.Run("should reject self-intersecting polygon", func(t *testing.T) {
		bowtie := "POLYGON((0 0, 10 10, 10 0, 0 10, 0 0))"

		_, err := kernel.NewGeometryFromWKT(bowtie, kernel.DefaultSRID)
		require.ErrorIs(t, err, errs.ErrGeometryIsInvalid)
	})

	t.Run("should reject non-areal geometry", func(t *testing.T) {
		_, err := kernel.NewGeometryFromWKT("POINT(1 2)", kernel.DefaultSRID)

		require.ErrorIs(t, err, errs.ErrGeometryIsInvalid)
	})

	t.Run("should reject empty polygon", func(t *testing.T) {
		_, err := kernel.NewGeometryFromWKT("POLYGON EMPTY", kernel.DefaultSRID)

		require.ErrorIs(t, err, errs.ErrGeometryIsInvalid)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var g kernel.Geometry

		require.Error(t, g.Validate())
	})
}

func TestGeometrySetOperations(t *testing.T) {
	square, err := kernel.NewGeometryFromWKT(squareWKT, kernel.DefaultSRID)
	require.NoError(t, err)

	t.Run("difference with covering geometry is empty", func(t *testing.T) {
		cover, coverErr := kernel.NewGeometryFromWKT(
			"POLYGON((-10 -10, 110 -10, 110 110, -10 110, -10 -10))", kernel.DefaultSRID)
		require.NoError(t, coverErr)

		excluded, diffErr := square.Difference(cover)
		require.NoError(t, diffErr)
		assert.True(t, excluded.IsEmpty())
		assert.InDelta(t, 0.0, excluded.Area(), 1e-9)
	})

	t.Run("difference with partial overlap keeps the rest", func(t *testing.T) {
		half, halfErr := kernel.NewGeometryFromWKT(
			"POLYGON((0 0, 50 0, 50 100, 0 100, 0 0))", kernel.DefaultSRID)
		require.NoError(t, halfErr)

		excluded, diffErr := square.Difference(half)
		require.NoError(t, diffErr)
		assert.InDelta(t, 5000.0, excluded.Area(), 1e-6)
	})

	t.Run("intersection and union areas", func(t *testing.T) {
		other, otherErr := kernel.NewGeometryFromWKT(
			"POLYGON((50 0, 150 0, 150 100, 50 100, 50 0))", kernel.DefaultSRID)
		require.NoError(t, otherErr)

		shared, opErr := square.Intersection(other)
		require.NoError(t, opErr)
		assert.InDelta(t, 5000.0, shared.Area(), 1e-6)

		combined, opErr := square.Union(other)
		require.NoError(t, opErr)
		assert.InDelta(t, 15000.0, combined.Area(), 1e-6)
	})

	t.Run("mixed SRIDs are rejected", func(t *testing.T) {
		other, otherErr := kernel.NewGeometryFromWKT(squareWKT, 4326)
		require.NoError(t, otherErr)

		_, opErr := square.Intersection(other)
		require.Error(t, opErr)
	})

	t.Run("round trip through WKT", func(t *testing.T) {
		restored, restoreErr := kernel.RestoreGeometry(square.AsText(), square.SRID())

		require.NoError(t, restoreErr)
		assert.InDelta(t, square.Area(), restored.Area(), 1e-9)
	})

	t.Run("empty geometry restores", func(t *testing.T) {
		empty := kernel.EmptyGeometry(kernel.DefaultSRID)

		restored, restoreErr := kernel.RestoreGeometry(empty.AsText(), empty.SRID())
		require.NoError(t, restoreErr)
		assert.True(t, restored.IsEmpty())
	})
}
