package usecase

import (
	"context"
	"errors"
	"fmt"

	"catalog_service/internal/cache"
	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type ProductService interface {
	Service[domain.Product]
	// ListByCategorySlug returns the products filed directly under the
	// category with the given slug; an unknown slug yields an empty list.
	ListByCategorySlug(ctx context.Context, slug string) ([]domain.Product, error)
}

type productUseCase struct {
	productRepo      domain.ProductRepository
	categoryRepo     domain.CategoryRepository
	files            FileStore
	aside            *cache.Aside
	policy           UpdatePolicy
	invalidateFilter bool
	log              *logrus.Logger
}

func NewProductUseCase(productRepo domain.ProductRepository, categoryRepo domain.CategoryRepository, files FileStore,
	aside *cache.Aside, policy UpdatePolicy, invalidateFiltered bool, logger *logrus.Logger) ProductService {
	return &productUseCase{
		productRepo:      productRepo,
		categoryRepo:     categoryRepo,
		files:            files,
		aside:            aside,
		policy:           policy,
		invalidateFilter: invalidateFiltered,
		log:              logger,
	}
}

func (uc *productUseCase) decorate(p *domain.Product) {
	for i := range p.Images {
		p.Images[i].URL = uc.files.URL(p.Images[i].Image)
	}
}

func (uc *productUseCase) decorateAll(products []domain.Product) []domain.Product {
	for i := range products {
		uc.decorate(&products[i])
	}
	return products
}

func (uc *productUseCase) List(ctx context.Context) ([]domain.Product, error) {
	return cache.Fetch(ctx, uc.aside, cache.ProductList(), func(ctx context.Context) ([]domain.Product, error) {
		products, err := uc.productRepo.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		return uc.decorateAll(products), nil
	})
}

func (uc *productUseCase) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return cache.Fetch(ctx, uc.aside, cache.ProductDetail(id), func(ctx context.Context) (*domain.Product, error) {
		product, err := uc.productRepo.GetProductByID(ctx, id)
		if err != nil {
			return nil, err
		}
		uc.decorate(product)
		return product, nil
	})
}

func (uc *productUseCase) ListByCategorySlug(ctx context.Context, slug string) ([]domain.Product, error) {
	return cache.Fetch(ctx, uc.aside, cache.ProductsBySlug(slug), func(ctx context.Context) ([]domain.Product, error) {
		products, err := uc.productRepo.ListProductsByCategorySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return uc.decorateAll(products), nil
	})
}

// resolveCategory fills CategoryID from CategorySlug when one was sent.
func (uc *productUseCase) resolveCategory(ctx context.Context, p *domain.Product, verr *domain.ValidationError) error {
	slug := p.CategorySlug
	p.CategorySlug = ""
	if slug != "" {
		category, err := uc.categoryRepo.GetCategoryBySlug(ctx, slug)
		if errors.Is(err, domain.ErrNotFound) {
			verr.Add("category_slug", fmt.Sprintf("Object with slug=%s does not exist.", slug))
			return nil
		}
		if err != nil {
			return err
		}
		p.CategoryID = category.ID
		return nil
	}
	if p.CategoryID == 0 {
		verr.Add("category_id", "This field is required.")
	}
	return nil
}

func (uc *productUseCase) Create(ctx context.Context, in *domain.Product, actor *domain.User) (*domain.Product, error) {
	in.ID = 0
	in.OwnerID = ownerOf(actor)
	in.Images = nil
	verr := validateStruct(in)
	if err := uc.resolveCategory(ctx, in, verr); err != nil {
		return nil, err
	}
	if err := errOrNil(verr); err != nil {
		uc.log.Warnf("Use Case: Rejected product create: %v", err)
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to create product '%s'", in.Slug)
	created, err := uc.productRepo.CreateProduct(ctx, in)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to create product '%s': %v", in.Slug, err)
		return nil, err
	}
	uc.decorate(created)

	keys := []cache.Key{cache.ProductList()}
	if uc.invalidateFilter && created.Category != nil {
		keys = append(keys, cache.ProductsBySlug(created.Category.Slug))
	}
	if err := uc.aside.Invalidate(ctx, keys...); err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Product created successfully with ID %d", created.ID)
	return created, nil
}

func (uc *productUseCase) Update(ctx context.Context, id int64, actor *domain.User, apply func(*domain.Product) error) (*domain.Product, error) {
	current, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Product ID %d not found for update: %v", id, err)
		return nil, err
	}
	if err := uc.policy.CheckUpdate(current.CreatedAt, current.OwnerID, actor); err != nil {
		uc.log.Warnf("Use Case: Update of product ID %d denied: %v", id, err)
		return nil, err
	}

	work := *current
	work.Price, work.OwnerID = clone(current.Price), clone(current.OwnerID)
	// The nested category is read-only; category_id or category_slug move a product.
	work.Category, work.Images = nil, nil
	if err := apply(&work); err != nil {
		return nil, err
	}
	work.ID, work.CreatedAt, work.OwnerID = current.ID, current.CreatedAt, current.OwnerID
	work.Category, work.Images = nil, current.Images
	verr := validateStruct(&work)
	if err := uc.resolveCategory(ctx, &work, verr); err != nil {
		return nil, err
	}
	if err := errOrNil(verr); err != nil {
		uc.log.Warnf("Use Case: Rejected update of product ID %d: %v", id, err)
		return nil, err
	}

	updated, err := uc.productRepo.UpdateProduct(ctx, &work)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to update product ID %d: %v", id, err)
		return nil, err
	}
	uc.decorate(updated)

	keys := []cache.Key{cache.ProductDetail(id), cache.ProductList()}
	if uc.invalidateFilter {
		if current.Category != nil {
			keys = append(keys, cache.ProductsBySlug(current.Category.Slug))
		}
		if updated.Category != nil {
			keys = append(keys, cache.ProductsBySlug(updated.Category.Slug))
		}
	}
	if err := uc.aside.Invalidate(ctx, keys...); err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Product updated successfully for ID %d", id)
	return updated, nil
}

func (uc *productUseCase) Delete(ctx context.Context, id int64, _ *domain.User) error {
	uc.log.Infof("Use Case: Attempting to delete product ID %d", id)
	current, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Product ID %d not found for delete: %v", id, err)
		return err
	}
	if err := uc.productRepo.DeleteProduct(ctx, id); err != nil {
		uc.log.Errorf("Use Case: Repository failed to delete product ID %d: %v", id, err)
		return err
	}

	keys := []cache.Key{cache.ProductDetail(id), cache.ProductList(), cache.ProductImages(id), cache.ImageList()}
	for _, img := range current.Images {
		keys = append(keys, cache.ImageDetail(img.ID))
		if err := uc.files.Remove(img.Image); err != nil {
			uc.log.Warnf("Use Case: Could not remove image file %s: %v", img.Image, err)
		}
	}
	if uc.invalidateFilter && current.Category != nil {
		keys = append(keys, cache.ProductsBySlug(current.Category.Slug))
	}
	if err := uc.aside.Invalidate(ctx, keys...); err != nil {
		return err
	}
	uc.log.Infof("Use Case: Product deleted successfully for ID %d", id)
	return nil
}
