package memory

import (
	"context"
	"fmt"

	"catalog_service/internal/domain"
)

func (s *Store) CreateImage(_ context.Context, image *domain.Image) (*domain.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[image.ProductID]; !ok {
		return nil, domain.NewValidationError("product", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", image.ProductID))
	}
	created := *image
	created.ID = s.next("images")
	created.URL = ""
	s.images[created.ID] = created
	return &created, nil
}

func (s *Store) GetImageByID(_ context.Context, id int64) (*domain.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	image, ok := s.images[id]
	if !ok {
		return nil, fmt.Errorf("image with id %d %w", id, domain.ErrNotFound)
	}
	return &image, nil
}

func (s *Store) UpdateImage(_ context.Context, image *domain.Image) (*domain.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.images[image.ID]; !ok {
		return nil, fmt.Errorf("image with id %d %w", image.ID, domain.ErrNotFound)
	}
	if _, ok := s.products[image.ProductID]; !ok {
		return nil, domain.NewValidationError("product", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", image.ProductID))
	}
	updated := *image
	updated.URL = ""
	s.images[image.ID] = updated
	return &updated, nil
}

func (s *Store) DeleteImage(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.images[id]; !ok {
		return fmt.Errorf("image with id %d %w", id, domain.ErrNotFound)
	}
	delete(s.images, id)
	return nil
}

func (s *Store) ListImages(_ context.Context) ([]domain.Image, error) {
	return s.filterImages(func(domain.Image) bool { return true }), nil
}

func (s *Store) ListImagesByProduct(_ context.Context, productID int64) ([]domain.Image, error) {
	return s.filterImages(func(img domain.Image) bool { return img.ProductID == productID }), nil
}

func (s *Store) filterImages(keep func(domain.Image) bool) []domain.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()

	images := []domain.Image{}
	for _, id := range sortedKeys(s.images) {
		if img := s.images[id]; keep(img) {
			images = append(images, img)
		}
	}
	return images
}
