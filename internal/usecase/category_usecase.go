package usecase

import (
	"context"

	"catalog_service/internal/cache"
	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type categoryUseCase struct {
	categoryRepo     domain.CategoryRepository
	productRepo      domain.ProductRepository
	files            FileStore
	aside            *cache.Aside
	invalidateFilter bool
	log              *logrus.Logger
}

// NewCategoryUseCase builds the category service. With invalidateFiltered set,
// category writes also purge products_by_slug entries for every slug touched.
func NewCategoryUseCase(categoryRepo domain.CategoryRepository, productRepo domain.ProductRepository, files FileStore,
	aside *cache.Aside, invalidateFiltered bool, logger *logrus.Logger) Service[domain.Category] {
	return &categoryUseCase{
		categoryRepo:     categoryRepo,
		productRepo:      productRepo,
		files:            files,
		aside:            aside,
		invalidateFilter: invalidateFiltered,
		log:              logger,
	}
}

func (uc *categoryUseCase) List(ctx context.Context) ([]domain.Category, error) {
	return cache.Fetch(ctx, uc.aside, cache.CategoryList(), uc.categoryRepo.ListCategories)
}

func (uc *categoryUseCase) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return cache.Fetch(ctx, uc.aside, cache.CategoryDetail(id), func(ctx context.Context) (*domain.Category, error) {
		return uc.categoryRepo.GetCategoryByID(ctx, id)
	})
}

func (uc *categoryUseCase) Create(ctx context.Context, in *domain.Category, _ *domain.User) (*domain.Category, error) {
	in.ID = 0
	if err := errOrNil(validateStruct(in)); err != nil {
		uc.log.Warnf("Use Case: Rejected category create: %v", err)
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to create category '%s'", in.Slug)
	created, err := uc.categoryRepo.CreateCategory(ctx, in)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to create category '%s': %v", in.Slug, err)
		return nil, err
	}
	if err := uc.aside.Invalidate(ctx, cache.CategoryList()); err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Category created successfully with ID %d", created.ID)
	return created, nil
}

func (uc *categoryUseCase) Update(ctx context.Context, id int64, _ *domain.User, apply func(*domain.Category) error) (*domain.Category, error) {
	current, err := uc.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Category ID %d not found for update: %v", id, err)
		return nil, err
	}

	work := *current
	work.ParentID = clone(current.ParentID)
	if err := apply(&work); err != nil {
		return nil, err
	}
	work.ID = current.ID
	verr := validateStruct(&work)
	if work.ParentID != nil && *work.ParentID == id {
		verr.Add("parent", "A category cannot be its own parent.")
	}
	if err := errOrNil(verr); err != nil {
		uc.log.Warnf("Use Case: Rejected update of category ID %d: %v", id, err)
		return nil, err
	}

	products, err := uc.productRepo.ListProductsByCategories(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	updated, err := uc.categoryRepo.UpdateCategory(ctx, &work)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to update category ID %d: %v", id, err)
		return nil, err
	}

	keys := []cache.Key{cache.CategoryDetail(id), cache.CategoryList(), cache.ProductList()}
	for _, p := range products {
		keys = append(keys, cache.ProductDetail(p.ID))
	}
	if uc.invalidateFilter {
		keys = append(keys, cache.ProductsBySlug(current.Slug), cache.ProductsBySlug(updated.Slug))
	}
	if err := uc.aside.Invalidate(ctx, keys...); err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Category updated successfully for ID %d", id)
	return updated, nil
}

// Delete removes the category, its descendants and every product under them,
// then drops the stored image files of those products.
func (uc *categoryUseCase) Delete(ctx context.Context, id int64, _ *domain.User) error {
	uc.log.Infof("Use Case: Attempting to delete category ID %d", id)
	subtree, err := uc.categoryRepo.ListSubtree(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Category ID %d not found for delete: %v", id, err)
		return err
	}
	ids := make([]int64, 0, len(subtree))
	for _, c := range subtree {
		ids = append(ids, c.ID)
	}
	products, err := uc.productRepo.ListProductsByCategories(ctx, ids)
	if err != nil {
		return err
	}

	if err := uc.categoryRepo.DeleteCategory(ctx, id); err != nil {
		uc.log.Errorf("Use Case: Repository failed to delete category ID %d: %v", id, err)
		return err
	}

	keys := []cache.Key{cache.CategoryList(), cache.ProductList()}
	for _, c := range subtree {
		keys = append(keys, cache.CategoryDetail(c.ID))
		if uc.invalidateFilter {
			keys = append(keys, cache.ProductsBySlug(c.Slug))
		}
	}
	hasImages := false
	for _, p := range products {
		keys = append(keys, cache.ProductDetail(p.ID), cache.ProductImages(p.ID))
		for _, img := range p.Images {
			hasImages = true
			keys = append(keys, cache.ImageDetail(img.ID))
			if err := uc.files.Remove(img.Image); err != nil {
				uc.log.Warnf("Use Case: Could not remove image file %s: %v", img.Image, err)
			}
		}
	}
	if hasImages {
		keys = append(keys, cache.ImageList())
	}
	if err := uc.aside.Invalidate(ctx, keys...); err != nil {
		return err
	}

	uc.log.Infof("Use Case: Category ID %d deleted with %d descendants and %d products", id, len(subtree)-1, len(products))
	return nil
}
