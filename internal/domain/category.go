package domain

import "context"

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *Category) (*Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	UpdateCategory(ctx context.Context, category *Category) (*Category, error)
	// DeleteCategory removes the category together with its descendants and
	// every product filed under any of them.
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]Category, error)
	// ListSubtree returns the category and all of its descendants.
	ListSubtree(ctx context.Context, id int64) ([]Category, error)
}
