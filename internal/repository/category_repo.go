package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresCategoryRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCategoryRepository(db *sql.DB, logger *logrus.Logger) domain.CategoryRepository {
	return &postgresCategoryRepository{
		db:  db,
		log: logger,
	}
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	category := &domain.Category{}
	var parentID sql.NullInt64
	if err := row.Scan(&category.ID, &category.Name, &category.Slug, &parentID); err != nil {
		return nil, err
	}
	if parentID.Valid {
		category.ParentID = &parentID.Int64
	}
	return category, nil
}

func (r *postgresCategoryRepository) writeError(category *domain.Category, op string, err error) error {
	switch pqCode(err) {
	case pqUniqueViolation:
		r.log.Warnf("Repository: Attempted to %s category with duplicate slug: %s", op, category.Slug)
		return fmt.Errorf("category with slug '%s' %w", category.Slug, domain.ErrConflict)
	case pqForeignKeyViolation:
		r.log.Warnf("Repository: Attempted to %s category with non-existent parent: %v", op, category.ParentID)
		return domain.NewValidationError("parent", "Invalid pk - object does not exist.")
	}
	r.log.Errorf("Repository: Failed to %s category '%s': %v", op, category.Slug, err)
	return fmt.Errorf("could not %s category: %w", op, err)
}

func (r *postgresCategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `INSERT INTO categories (name, slug, parent_id) VALUES ($1, $2, $3) RETURNING id, name, slug, parent_id`
	created, err := scanCategory(r.db.QueryRowContext(ctx, query, category.Name, category.Slug, category.ParentID))
	if err != nil {
		return nil, r.writeError(category, "create", err)
	}
	r.log.Infof("Repository: Category created successfully with ID: %d, Slug: %s", created.ID, created.Slug)
	return created, nil
}

func (r *postgresCategoryRepository) GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `SELECT id, name, slug, parent_id FROM categories WHERE id = $1`
	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Category with ID %d not found", id)
			return nil, fmt.Errorf("category with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get category by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get category by id: %w", err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `SELECT id, name, slug, parent_id FROM categories WHERE slug = $1`
	category, err := scanCategory(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Category with slug %s not found", slug)
			return nil, fmt.Errorf("category with slug '%s' %w", slug, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get category by slug %s: %v", slug, err)
		return nil, fmt.Errorf("could not get category by slug: %w", err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `UPDATE categories SET name = $1, slug = $2, parent_id = $3 WHERE id = $4 RETURNING id, name, slug, parent_id`
	updated, err := scanCategory(r.db.QueryRowContext(ctx, query, category.Name, category.Slug, category.ParentID, category.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Category with ID %d not found for update", category.ID)
			return nil, fmt.Errorf("category with id %d %w", category.ID, domain.ErrNotFound)
		}
		return nil, r.writeError(category, "update", err)
	}
	r.log.Infof("Repository: Category updated successfully with ID: %d", category.ID)
	return updated, nil
}

func (r *postgresCategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete category ID %d: %v", id, err)
		return fmt.Errorf("could not delete category: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after deleting category ID %d: %v", id, err)
		return fmt.Errorf("could not confirm category deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent category ID %d", id)
		return fmt.Errorf("category with id %d %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Repository: Category deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug, parent_id FROM categories ORDER BY id ASC`)
	if err != nil {
		r.log.Errorf("Repository: Failed to list categories: %v", err)
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	return r.collect(rows)
}

func (r *postgresCategoryRepository) ListSubtree(ctx context.Context, id int64) ([]domain.Category, error) {
	query := `
        WITH RECURSIVE subtree AS (
            SELECT id, name, slug, parent_id FROM categories WHERE id = $1
            UNION
            SELECT c.id, c.name, c.slug, c.parent_id
            FROM categories c
            JOIN subtree s ON c.parent_id = s.id
        )
        SELECT id, name, slug, parent_id FROM subtree ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to list subtree of category %d: %v", id, err)
		return nil, fmt.Errorf("could not list category subtree: %w", err)
	}
	categories, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("category with id %d %w", id, domain.ErrNotFound)
	}
	return categories, nil
}

func (r *postgresCategoryRepository) collect(rows *sql.Rows) ([]domain.Category, error) {
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan category row: %v", err)
			return nil, fmt.Errorf("error scanning category data: %w", err)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during categories iteration: %v", err)
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}
