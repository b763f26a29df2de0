package domain

import "context"

// ProductRepository returns products with Category and Images populated.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	UpdateProduct(ctx context.Context, product *Product) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context) ([]Product, error)
	ListProductsByCategorySlug(ctx context.Context, slug string) ([]Product, error)
	ListProductsByCategories(ctx context.Context, categoryIDs []int64) ([]Product, error)
}

type ImageRepository interface {
	CreateImage(ctx context.Context, image *Image) (*Image, error)
	GetImageByID(ctx context.Context, id int64) (*Image, error)
	UpdateImage(ctx context.Context, image *Image) (*Image, error)
	DeleteImage(ctx context.Context, id int64) error
	ListImages(ctx context.Context) ([]Image, error)
	ListImagesByProduct(ctx context.Context, productID int64) ([]Image, error)
}
