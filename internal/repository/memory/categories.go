package memory

import (
	"context"
	"fmt"

	"catalog_service/internal/domain"
)

// checkCategory must be called with the lock held.
func (s *Store) checkCategory(category *domain.Category) error {
	for id, existing := range s.categories {
		if id != category.ID && existing.Slug == category.Slug {
			return fmt.Errorf("category with slug '%s' %w", category.Slug, domain.ErrConflict)
		}
	}
	if category.ParentID != nil {
		if _, ok := s.categories[*category.ParentID]; !ok {
			return domain.NewValidationError("parent", "Invalid pk - object does not exist.")
		}
	}
	return nil
}

func (s *Store) CreateCategory(_ context.Context, category *domain.Category) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := detachCategory(*category)
	created.ID = 0
	if err := s.checkCategory(&created); err != nil {
		return nil, err
	}
	created.ID = s.next("categories")
	s.categories[created.ID] = created
	created = detachCategory(created)
	return &created, nil
}

func (s *Store) GetCategoryByID(_ context.Context, id int64) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category with id %d %w", id, domain.ErrNotFound)
	}
	category = detachCategory(category)
	return &category, nil
}

func (s *Store) GetCategoryBySlug(_ context.Context, slug string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, category := range s.categories {
		if category.Slug == slug {
			category = detachCategory(category)
			return &category, nil
		}
	}
	return nil, fmt.Errorf("category with slug '%s' %w", slug, domain.ErrNotFound)
}

func (s *Store) UpdateCategory(_ context.Context, category *domain.Category) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[category.ID]; !ok {
		return nil, fmt.Errorf("category with id %d %w", category.ID, domain.ErrNotFound)
	}
	if err := s.checkCategory(category); err != nil {
		return nil, err
	}
	s.categories[category.ID] = detachCategory(*category)
	updated := detachCategory(*category)
	return &updated, nil
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return fmt.Errorf("category with id %d %w", id, domain.ErrNotFound)
	}
	for _, c := range s.subtree(id) {
		for pid, p := range s.products {
			if p.CategoryID == c.ID {
				s.deleteProduct(pid)
			}
		}
		delete(s.categories, c.ID)
	}
	return nil
}

func (s *Store) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]domain.Category, 0, len(s.categories))
	for _, id := range sortedKeys(s.categories) {
		categories = append(categories, detachCategory(s.categories[id]))
	}
	return categories, nil
}

func (s *Store) ListSubtree(_ context.Context, id int64) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.categories[id]; !ok {
		return nil, fmt.Errorf("category with id %d %w", id, domain.ErrNotFound)
	}
	return s.subtree(id), nil
}

// subtree walks parent links breadth first; visited guards against cycles.
func (s *Store) subtree(root int64) []domain.Category {
	visited := map[int64]bool{root: true}
	queue := []int64{root}
	var out []domain.Category
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		out = append(out, detachCategory(s.categories[id]))
		for _, childID := range sortedKeys(s.categories) {
			child := s.categories[childID]
			if child.ParentID != nil && *child.ParentID == id && !visited[childID] {
				visited[childID] = true
				queue = append(queue, childID)
			}
		}
	}
	return out
}
