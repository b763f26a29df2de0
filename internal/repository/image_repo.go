package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresImageRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresImageRepository(db *sql.DB, logger *logrus.Logger) domain.ImageRepository {
	return &postgresImageRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresImageRepository) CreateImage(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	query := `INSERT INTO images (product_id, image) VALUES ($1, $2) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, image.ProductID, image.Image).Scan(&image.ID)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			r.log.Warnf("Repository: Attempted to create image for non-existent product ID: %d", image.ProductID)
			return nil, domain.NewValidationError("product", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", image.ProductID))
		}
		r.log.Errorf("Repository: Failed to create image for product %d: %v", image.ProductID, err)
		return nil, fmt.Errorf("could not create image: %w", err)
	}
	r.log.Infof("Repository: Image created successfully with ID: %d for product %d", image.ID, image.ProductID)
	return image, nil
}

func (r *postgresImageRepository) GetImageByID(ctx context.Context, id int64) (*domain.Image, error) {
	image := &domain.Image{}
	err := r.db.QueryRowContext(ctx, `SELECT id, product_id, image FROM images WHERE id = $1`, id).
		Scan(&image.ID, &image.ProductID, &image.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Image with ID %d not found", id)
			return nil, fmt.Errorf("image with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get image by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get image by id: %w", err)
	}
	return image, nil
}

func (r *postgresImageRepository) UpdateImage(ctx context.Context, image *domain.Image) (*domain.Image, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE images SET product_id = $1, image = $2 WHERE id = $3`,
		image.ProductID, image.Image, image.ID)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return nil, domain.NewValidationError("product", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", image.ProductID))
		}
		r.log.Errorf("Repository: Failed to update image ID %d: %v", image.ID, err)
		return nil, fmt.Errorf("could not update image: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not confirm image update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Image with ID %d not found for update", image.ID)
		return nil, fmt.Errorf("image with id %d %w", image.ID, domain.ErrNotFound)
	}
	r.log.Infof("Repository: Image updated successfully with ID: %d", image.ID)
	return image, nil
}

func (r *postgresImageRepository) DeleteImage(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete image ID %d: %v", id, err)
		return fmt.Errorf("could not delete image: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm image deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent image ID %d", id)
		return fmt.Errorf("image with id %d %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Repository: Image deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresImageRepository) ListImages(ctx context.Context) ([]domain.Image, error) {
	return r.list(ctx, `SELECT id, product_id, image FROM images ORDER BY id ASC`)
}

func (r *postgresImageRepository) ListImagesByProduct(ctx context.Context, productID int64) ([]domain.Image, error) {
	return r.list(ctx, `SELECT id, product_id, image FROM images WHERE product_id = $1 ORDER BY id ASC`, productID)
}

func (r *postgresImageRepository) list(ctx context.Context, query string, args ...any) ([]domain.Image, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list images: %v", err)
		return nil, fmt.Errorf("could not list images: %w", err)
	}
	defer rows.Close()

	images := []domain.Image{}
	for rows.Next() {
		var image domain.Image
		if err := rows.Scan(&image.ID, &image.ProductID, &image.Image); err != nil {
			r.log.Errorf("Repository: Failed to scan image row: %v", err)
			return nil, fmt.Errorf("error scanning image data: %w", err)
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}
	return images, nil
}
