package usecase

import (
	"testing"
	"time"

	"catalog_service/internal/cache"
	"catalog_service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarUseCase_UpdateIsVisibleInCachedList(t *testing.T) {
	f := newFixture(t)

	created, err := f.cars.Create(f.ctx, &domain.Car{Brand: "Toyota", Model: "Corolla", Year: 2020, Price: price("15000.00")}, nil)
	require.NoError(t, err)

	list, err := f.cars.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, f.cached(t, cache.CarList()))

	_, err = f.cars.Update(f.ctx, created.ID, nil, func(c *domain.Car) error {
		c.Price = price("16000.00")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, f.cached(t, cache.CarList()))

	list, err = f.cars.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Price.Equal(decimal.NewFromInt(16000)), "got %s", list[0].Price)
}

func TestCarUseCase_CreateInvalidatesList(t *testing.T) {
	f := newFixture(t)

	list, err := f.cars.List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.cars.Create(f.ctx, &domain.Car{Brand: "Honda", Model: "Civic", Year: 2019, Price: price("12000")}, nil)
	require.NoError(t, err)

	list, err = f.cars.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCarUseCase_DeleteDropsCachedDetail(t *testing.T) {
	f := newFixture(t)
	created, err := f.cars.Create(f.ctx, &domain.Car{Brand: "Kia", Model: "Rio", Year: 2018, Price: price("9000")}, nil)
	require.NoError(t, err)

	_, err = f.cars.Get(f.ctx, created.ID)
	require.NoError(t, err)
	require.True(t, f.cached(t, cache.CarDetail(created.ID)))

	require.NoError(t, f.cars.Delete(f.ctx, created.ID, nil))
	assert.False(t, f.cached(t, cache.CarDetail(created.ID)))

	_, err = f.cars.Get(f.ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, f.cached(t, cache.CarDetail(created.ID)), "a miss must not be cached")
}

func TestCarUseCase_DeleteUnknown(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.cars.Delete(f.ctx, 42, nil), domain.ErrNotFound)
}

func TestCarUseCase_UpdateAfterWindowIsDenied(t *testing.T) {
	f := newFixture(t)
	created, err := f.cars.Create(f.ctx, &domain.Car{Brand: "Ford", Model: "Focus", Year: 2017, Price: price("8000")}, nil)
	require.NoError(t, err)

	f.clock.Advance(4*time.Hour + time.Minute)
	_, err = f.cars.Update(f.ctx, created.ID, nil, func(c *domain.Car) error {
		c.Price = price("1")
		return nil
	})
	require.ErrorIs(t, err, domain.ErrPermissionDenied)

	stored, err := f.store.GetCarByID(f.ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Price.Equal(decimal.NewFromInt(8000)))

	// Deleting is still allowed.
	assert.NoError(t, f.cars.Delete(f.ctx, created.ID, nil))
}

func TestCarUseCase_CreateStampsOwnerAndUpdateKeepsIt(t *testing.T) {
	f := newFixture(t, withOwnership())
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	created, err := f.cars.Create(f.ctx, &domain.Car{Brand: "BMW", Model: "X5", Year: 2022, Price: price("50000")}, alice)
	require.NoError(t, err)
	require.NotNil(t, created.OwnerID)
	assert.Equal(t, alice.ID, *created.OwnerID)

	_, err = f.cars.Update(f.ctx, created.ID, bob, func(c *domain.Car) error { return nil })
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	updated, err := f.cars.Update(f.ctx, created.ID, alice, func(c *domain.Car) error {
		c.Year = 2023
		c.OwnerID = &bob.ID
		c.ID = 99
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 2023, updated.Year)
	assert.Equal(t, alice.ID, *updated.OwnerID)
}

func TestCarUseCase_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.cars.Create(f.ctx, &domain.Car{}, nil)
	fields := fieldsOf(t, err)
	for _, name := range []string{"brand", "model", "year", "price"} {
		assert.Equal(t, []string{"This field is required."}, fields[name], name)
	}

	_, err = f.cars.Create(f.ctx, &domain.Car{Brand: "A", Model: "B", Year: -1, Price: price("1.005")}, nil)
	fields = fieldsOf(t, err)
	assert.Contains(t, fields, "year")
	assert.Contains(t, fields, "price")
	assert.NotContains(t, fields, "brand")

	_, err = f.cars.Create(f.ctx, &domain.Car{Brand: "A", Model: "B", Year: 2000, Price: price("-5")}, nil)
	assert.Contains(t, fieldsOf(t, err), "price")

	list, err := f.store.ListCars(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCarUseCase_UpdateValidatesMergedRecord(t *testing.T) {
	f := newFixture(t)
	created, err := f.cars.Create(f.ctx, &domain.Car{Brand: "Lada", Model: "Niva", Year: 1990, Price: price("3000")}, nil)
	require.NoError(t, err)

	_, err = f.cars.Update(f.ctx, created.ID, nil, func(c *domain.Car) error {
		c.Brand = ""
		return nil
	})
	assert.Contains(t, fieldsOf(t, err), "brand")
}
