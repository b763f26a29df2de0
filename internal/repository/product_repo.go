package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

const productSelect = `
        SELECT p.id, p.name, p.slug, p.category_id, p.price, p.description, p.owner_id, p.created_at,
               c.id, c.name, c.slug, c.parent_id
        FROM products p
        JOIN categories c ON c.id = p.category_id`

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{Category: &domain.Category{}}
	var price decimal.Decimal
	var ownerID, parentID sql.NullInt64
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.CategoryID,
		&price,
		&product.Description,
		&ownerID,
		&product.CreatedAt,
		&product.Category.ID,
		&product.Category.Name,
		&product.Category.Slug,
		&parentID,
	)
	if err != nil {
		return nil, err
	}
	product.Price = domain.NewPrice(price)
	if ownerID.Valid {
		product.OwnerID = &ownerID.Int64
	}
	if parentID.Valid {
		product.Category.ParentID = &parentID.Int64
	}
	product.Images = []domain.Image{}
	return product, nil
}

func (r *postgresProductRepository) writeError(product *domain.Product, op string, err error) error {
	switch pqCode(err) {
	case pqUniqueViolation:
		r.log.Warnf("Repository: Attempted to %s product with duplicate slug: %s", op, product.Slug)
		return fmt.Errorf("product with slug '%s' %w", product.Slug, domain.ErrConflict)
	case pqForeignKeyViolation:
		r.log.Warnf("Repository: Attempted to %s product with non-existent category ID: %d", op, product.CategoryID)
		return domain.NewValidationError("category_id", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", product.CategoryID))
	}
	r.log.Errorf("Repository: Failed to %s product '%s': %v", op, product.Slug, err)
	return fmt.Errorf("could not %s product: %w", op, err)
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, slug, category_id, price, description, owner_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		product.Name, product.Slug, product.CategoryID, product.Price, product.Description, product.OwnerID,
	).Scan(&id)
	if err != nil {
		return nil, r.writeError(product, "create", err)
	}
	r.log.Infof("Repository: Product created successfully with ID: %d, Slug: %s", id, product.Slug)
	return r.GetProductByID(ctx, id)
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with ID %d not found", id)
			return nil, fmt.Errorf("product with id %d %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}
	products := []domain.Product{*product}
	if err := r.attachImages(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        UPDATE products SET name = $1, slug = $2, category_id = $3, price = $4, description = $5
        WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query,
		product.Name, product.Slug, product.CategoryID, product.Price, product.Description, product.ID,
	)
	if err != nil {
		return nil, r.writeError(product, "update", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after update for product ID %d: %v", product.ID, err)
		return nil, fmt.Errorf("could not confirm product update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Product with ID %d not found for update (0 rows affected)", product.ID)
		return nil, fmt.Errorf("product with id %d %w", product.ID, domain.ErrNotFound)
	}
	r.log.Infof("Repository: Product updated successfully with ID: %d", product.ID)
	return r.GetProductByID(ctx, product.ID)
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete product ID %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after deleting product ID %d: %v", id, err)
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent product ID %d", id)
		return fmt.Errorf("product with id %d %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Repository: Product deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, productSelect+` ORDER BY p.id ASC`)
}

func (r *postgresProductRepository) ListProductsByCategorySlug(ctx context.Context, slug string) ([]domain.Product, error) {
	return r.list(ctx, productSelect+` WHERE c.slug = $1 ORDER BY p.id ASC`, slug)
}

func (r *postgresProductRepository) ListProductsByCategories(ctx context.Context, categoryIDs []int64) ([]domain.Product, error) {
	if len(categoryIDs) == 0 {
		return []domain.Product{}, nil
	}
	return r.list(ctx, productSelect+` WHERE p.category_id = ANY($1) ORDER BY p.id ASC`, pq.Array(categoryIDs))
}

func (r *postgresProductRepository) list(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, *product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during products list iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	if err := r.attachImages(ctx, products); err != nil {
		return nil, err
	}
	r.log.Infof("Repository: Retrieved %d products", len(products))
	return products, nil
}

// attachImages loads the images of all given products with a single query.
func (r *postgresProductRepository) attachImages(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, len(products))
	index := make(map[int64]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, image FROM images WHERE product_id = ANY($1) ORDER BY id ASC`, pq.Array(ids))
	if err != nil {
		r.log.Errorf("Repository: Failed to load images for %d products: %v", len(ids), err)
		return fmt.Errorf("could not load product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.ProductID, &img.Image); err != nil {
			return fmt.Errorf("error scanning image data: %w", err)
		}
		i := index[img.ProductID]
		products[i].Images = append(products[i].Images, img)
	}
	return rows.Err()
}
