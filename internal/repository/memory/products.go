package memory

import (
	"context"
	"fmt"

	"catalog_service/internal/domain"
)

// checkProduct must be called with the lock held.
func (s *Store) checkProduct(product *domain.Product) error {
	for id, existing := range s.products {
		if id != product.ID && existing.Slug == product.Slug {
			return fmt.Errorf("product with slug '%s' %w", product.Slug, domain.ErrConflict)
		}
	}
	if _, ok := s.categories[product.CategoryID]; !ok {
		return domain.NewValidationError("category_id", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", product.CategoryID))
	}
	return nil
}

// hydrate returns a copy of the stored row with Category and Images filled in.
func (s *Store) hydrate(row domain.Product) domain.Product {
	row = detachProduct(row)
	category := detachCategory(s.categories[row.CategoryID])
	row.Category = &category
	row.CategorySlug = ""
	row.Images = []domain.Image{}
	for _, id := range sortedKeys(s.images) {
		if img := s.images[id]; img.ProductID == row.ID {
			row.Images = append(row.Images, img)
		}
	}
	return row
}

func (s *Store) CreateProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := detachProduct(*product)
	row.ID = 0
	if err := s.checkProduct(&row); err != nil {
		return nil, err
	}
	row.ID = s.next("products")
	row.CreatedAt = s.now()
	row.Category, row.Images, row.CategorySlug = nil, nil, ""
	s.products[row.ID] = row

	created := s.hydrate(row)
	return &created, nil
}

func (s *Store) GetProductByID(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product with id %d %w", id, domain.ErrNotFound)
	}
	product := s.hydrate(row)
	return &product, nil
}

func (s *Store) UpdateProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.products[product.ID]
	if !ok {
		return nil, fmt.Errorf("product with id %d %w", product.ID, domain.ErrNotFound)
	}
	if err := s.checkProduct(product); err != nil {
		return nil, err
	}
	row.Name = product.Name
	row.Slug = product.Slug
	row.CategoryID = product.CategoryID
	row.Price = copyOf(product.Price)
	row.Description = product.Description
	s.products[row.ID] = row

	updated := s.hydrate(row)
	return &updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("product with id %d %w", id, domain.ErrNotFound)
	}
	s.deleteProduct(id)
	return nil
}

// deleteProduct cascades to images; the lock must be held.
func (s *Store) deleteProduct(id int64) {
	for imgID, img := range s.images {
		if img.ProductID == id {
			delete(s.images, imgID)
		}
	}
	delete(s.products, id)
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	return s.filterProducts(func(domain.Product) bool { return true }), nil
}

func (s *Store) ListProductsByCategorySlug(_ context.Context, slug string) ([]domain.Product, error) {
	return s.filterProducts(func(p domain.Product) bool {
		return s.categories[p.CategoryID].Slug == slug
	}), nil
}

func (s *Store) ListProductsByCategories(_ context.Context, categoryIDs []int64) ([]domain.Product, error) {
	wanted := make(map[int64]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = true
	}
	return s.filterProducts(func(p domain.Product) bool { return wanted[p.CategoryID] }), nil
}

func (s *Store) filterProducts(keep func(domain.Product) bool) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := []domain.Product{}
	for _, id := range sortedKeys(s.products) {
		if row := s.products[id]; keep(row) {
			products = append(products, s.hydrate(row))
		}
	}
	return products
}
