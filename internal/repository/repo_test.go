package repository

import (
	"context"
	"database/sql"
	"io"
	"regexp"
	"testing"
	"time"

	"catalog_service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *logrus.Logger) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return db, mock, logger
}

var carCols = []string{"id", "brand", "model", "year", "price", "owner_id", "created_at"}

func TestCarRepository_CreateScansReturnedRow(t *testing.T) {
	db, mock, logger := newMock(t)
	repo := NewPostgresCarRepository(db, logger)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("15000.00")
	owner := int64(3)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cars (brand, model, year, price, owner_id)")).
		WithArgs("Toyota", "Corolla", 2020, sqlmock.AnyArg(), owner).
		WillReturnRows(sqlmock.NewRows(carCols).AddRow(1, "Toyota", "Corolla", 2020, "15000.00", owner, created))

	car, err := repo.CreateCar(context.Background(), &domain.Car{
		Brand: "Toyota", Model: "Corolla", Year: 2020, Price: domain.NewPrice(price), OwnerID: &owner,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), car.ID)
	assert.True(t, car.Price.Equal(price))
	require.NotNil(t, car.OwnerID)
	assert.Equal(t, owner, *car.OwnerID)
	assert.Equal(t, created, car.CreatedAt)
}

func TestCarRepository_GetMissingIsNotFound(t *testing.T) {
	db, mock, logger := newMock(t)
	repo := NewPostgresCarRepository(db, logger)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cars WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetCarByID(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCarRepository_DeleteNothingIsNotFound(t *testing.T) {
	db, mock, logger := newMock(t)
	repo := NewPostgresCarRepository(db, logger)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cars WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.DeleteCar(context.Background(), 9), domain.ErrNotFound)
}

func TestCarRepository_ListNullOwner(t *testing.T) {
	db, mock, logger := newMock(t)
	repo := NewPostgresCarRepository(db, logger)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cars ORDER BY id ASC")).
		WillReturnRows(sqlmock.NewRows(carCols).
			AddRow(1, "Kia", "Rio", 2018, "9000.00", nil, created).
			AddRow(2, "BMW", "X5", 2022, "50000.00", 4, created))

	cars, err := repo.ListCars(context.Background())
	require.NoError(t, err)
	require.Len(t, cars, 2)
	assert.Nil(t, cars[0].OwnerID)
	assert.Equal(t, int64(4), *cars[1].OwnerID)
}

func TestCategoryRepository_WriteErrors(t *testing.T) {
	tests := []struct {
		name  string
		code  pq.ErrorCode
		check func(t *testing.T, err error)
	}{
		{"duplicate slug", pqUniqueViolation, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, domain.ErrConflict)
		}},
		{"missing parent", pqForeignKeyViolation, func(t *testing.T, err error) {
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "parent")
		}},
		{"other failure", "57014", func(t *testing.T, err error) {
			var pqErr *pq.Error
			assert.ErrorAs(t, err, &pqErr)
			assert.NotErrorIs(t, err, domain.ErrConflict)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, logger := newMock(t)
			repo := NewPostgresCategoryRepository(db, logger)
			parent := int64(5)

			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories")).
				WillReturnError(&pq.Error{Code: tt.code})

			_, err := repo.CreateCategory(context.Background(), &domain.Category{Name: "Phones", Slug: "phones", ParentID: &parent})
			tt.check(t, err)
		})
	}
}

func TestCategoryRepository_SubtreeOfMissingIsNotFound(t *testing.T) {
	db, mock, logger := newMock(t)
	repo := NewPostgresCategoryRepository(db, logger)

	mock.ExpectQuery(regexp.QuoteMeta("WITH RECURSIVE subtree")).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "parent_id"}))

	_, err := repo.ListSubtree(context.Background(), 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPqCode(t *testing.T) {
	assert.Equal(t, "23505", pqCode(&pq.Error{Code: pqUniqueViolation}))
	assert.Equal(t, "", pqCode(sql.ErrNoRows))
}
