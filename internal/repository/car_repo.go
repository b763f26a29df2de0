package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type postgresCarRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCarRepository(db *sql.DB, logger *logrus.Logger) domain.CarRepository {
	return &postgresCarRepository{
		db:  db,
		log: logger,
	}
}

const carColumns = `id, brand, model, year, price, owner_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner) (*domain.Car, error) {
	car := &domain.Car{}
	var price decimal.Decimal
	var ownerID sql.NullInt64
	if err := row.Scan(&car.ID, &car.Brand, &car.Model, &car.Year, &price, &ownerID, &car.CreatedAt); err != nil {
		return nil, err
	}
	car.Price = domain.NewPrice(price)
	if ownerID.Valid {
		car.OwnerID = &ownerID.Int64
	}
	return car, nil
}

func (r *postgresCarRepository) CreateCar(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	query := `
        INSERT INTO cars (brand, model, year, price, owner_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + carColumns
	created, err := scanCar(r.db.QueryRowContext(ctx, query, car.Brand, car.Model, car.Year, car.Price, car.OwnerID))
	if err != nil {
		if pqCode(err) == pqCheckViolation {
			r.log.Warnf("Repository: Check constraint violation for car '%s %s': %v", car.Brand, car.Model, err)
			return nil, domain.NewValidationError("year", "Ensure this value is greater than or equal to 0.")
		}
		r.log.Errorf("Repository: Failed to create car '%s %s': %v", car.Brand, car.Model, err)
		return nil, fmt.Errorf("could not create car: %w", err)
	}
	r.log.Infof("Repository: Car created successfully with ID: %d", created.ID)
	return created, nil
}

func (r *postgresCarRepository) GetCarByID(ctx context.Context, id int64) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	car, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Car with ID %d not found", id)
			return nil, fmt.Errorf("car with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get car by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get car by id: %w", err)
	}
	return car, nil
}

func (r *postgresCarRepository) UpdateCar(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	query := `
        UPDATE cars SET brand = $1, model = $2, year = $3, price = $4
        WHERE id = $5
        RETURNING ` + carColumns
	updated, err := scanCar(r.db.QueryRowContext(ctx, query, car.Brand, car.Model, car.Year, car.Price, car.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Car with ID %d not found for update", car.ID)
			return nil, fmt.Errorf("car with id %d %w", car.ID, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to update car ID %d: %v", car.ID, err)
		return nil, fmt.Errorf("could not update car: %w", err)
	}
	r.log.Infof("Repository: Car updated successfully with ID: %d", car.ID)
	return updated, nil
}

func (r *postgresCarRepository) DeleteCar(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete car ID %d: %v", id, err)
		return fmt.Errorf("could not delete car: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after deleting car ID %d: %v", id, err)
		return fmt.Errorf("could not confirm car deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent car ID %d", id)
		return fmt.Errorf("car with id %d %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Repository: Car deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresCarRepository) ListCars(ctx context.Context) ([]domain.Car, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+carColumns+` FROM cars ORDER BY id ASC`)
	if err != nil {
		r.log.Errorf("Repository: Failed to list cars: %v", err)
		return nil, fmt.Errorf("could not list cars: %w", err)
	}
	defer rows.Close()

	cars := []domain.Car{}
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan car row: %v", err)
			return nil, fmt.Errorf("error scanning car data: %w", err)
		}
		cars = append(cars, *car)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during cars list iteration: %v", err)
		return nil, fmt.Errorf("error iterating cars: %w", err)
	}
	r.log.Infof("Repository: Retrieved %d cars", len(cars))
	return cars, nil
}
