package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"catalog_service/internal/cache"
	"catalog_service/internal/domain"
	"catalog_service/internal/storage"

	"github.com/sirupsen/logrus"
)

// Upload is an image file sent by a client.
type Upload struct {
	Filename string
	Body     io.Reader
}

type ImageService interface {
	List(ctx context.Context) ([]domain.Image, error)
	ListByProduct(ctx context.Context, productID int64) ([]domain.Image, error)
	Get(ctx context.Context, id int64) (*domain.Image, error)
	Create(ctx context.Context, productID int64, file *Upload, actor *domain.User) (*domain.Image, error)
	// Update moves the image to productID when it is non-nil and replaces the
	// stored file when file is non-nil.
	Update(ctx context.Context, id int64, productID *int64, file *Upload, actor *domain.User) (*domain.Image, error)
	Delete(ctx context.Context, id int64, actor *domain.User) error
}

type imageUseCase struct {
	imageRepo   domain.ImageRepository
	productRepo domain.ProductRepository
	files       FileStore
	aside       *cache.Aside
	log         *logrus.Logger
}

func NewImageUseCase(imageRepo domain.ImageRepository, productRepo domain.ProductRepository, files FileStore,
	aside *cache.Aside, logger *logrus.Logger) ImageService {
	return &imageUseCase{
		imageRepo:   imageRepo,
		productRepo: productRepo,
		files:       files,
		aside:       aside,
		log:         logger,
	}
}

func (uc *imageUseCase) decorate(images []domain.Image) []domain.Image {
	for i := range images {
		images[i].URL = uc.files.URL(images[i].Image)
	}
	return images
}

func (uc *imageUseCase) List(ctx context.Context) ([]domain.Image, error) {
	return cache.Fetch(ctx, uc.aside, cache.ImageList(), func(ctx context.Context) ([]domain.Image, error) {
		images, err := uc.imageRepo.ListImages(ctx)
		if err != nil {
			return nil, err
		}
		return uc.decorate(images), nil
	})
}

func (uc *imageUseCase) ListByProduct(ctx context.Context, productID int64) ([]domain.Image, error) {
	return cache.Fetch(ctx, uc.aside, cache.ProductImages(productID), func(ctx context.Context) ([]domain.Image, error) {
		if _, err := uc.productRepo.GetProductByID(ctx, productID); err != nil {
			return nil, err
		}
		images, err := uc.imageRepo.ListImagesByProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		return uc.decorate(images), nil
	})
}

func (uc *imageUseCase) Get(ctx context.Context, id int64) (*domain.Image, error) {
	return cache.Fetch(ctx, uc.aside, cache.ImageDetail(id), func(ctx context.Context) (*domain.Image, error) {
		image, err := uc.imageRepo.GetImageByID(ctx, id)
		if err != nil {
			return nil, err
		}
		image.URL = uc.files.URL(image.Image)
		return image, nil
	})
}

// checkProduct records a field error when productID does not name a product.
func (uc *imageUseCase) checkProduct(ctx context.Context, productID int64, verr *domain.ValidationError) error {
	if productID == 0 {
		verr.Add("product", "This field is required.")
		return nil
	}
	_, err := uc.productRepo.GetProductByID(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		verr.Add("product", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", productID))
		return nil
	}
	return err
}

func (uc *imageUseCase) save(file *Upload) (string, error) {
	name, err := uc.files.Save(file.Filename, file.Body)
	if errors.Is(err, storage.ErrUnsupportedType) {
		return "", domain.NewValidationError("image",
			"Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	return name, err
}

func (uc *imageUseCase) Create(ctx context.Context, productID int64, file *Upload, _ *domain.User) (*domain.Image, error) {
	verr := &domain.ValidationError{}
	if err := uc.checkProduct(ctx, productID, verr); err != nil {
		return nil, err
	}
	if file == nil {
		verr.Add("image", "No file was submitted.")
	}
	if err := errOrNil(verr); err != nil {
		uc.log.Warnf("Use Case: Rejected image upload: %v", err)
		return nil, err
	}

	name, err := uc.save(file)
	if err != nil {
		uc.log.Warnf("Use Case: Could not store uploaded image for product %d: %v", productID, err)
		return nil, err
	}
	created, err := uc.imageRepo.CreateImage(ctx, &domain.Image{ProductID: productID, Image: name})
	if err != nil {
		_ = uc.files.Remove(name)
		return nil, err
	}
	created.URL = uc.files.URL(created.Image)

	if err := uc.aside.Invalidate(ctx, imageKeys(created.ID, productID)...); err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Image created successfully with ID %d for product %d", created.ID, productID)
	return created, nil
}

func (uc *imageUseCase) Update(ctx context.Context, id int64, productID *int64, file *Upload, _ *domain.User) (*domain.Image, error) {
	current, err := uc.imageRepo.GetImageByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Image ID %d not found for update: %v", id, err)
		return nil, err
	}

	work := *current
	if productID != nil {
		verr := &domain.ValidationError{}
		if err := uc.checkProduct(ctx, *productID, verr); err != nil {
			return nil, err
		}
		if err := errOrNil(verr); err != nil {
			return nil, err
		}
		work.ProductID = *productID
	}
	if file != nil {
		name, err := uc.save(file)
		if err != nil {
			return nil, err
		}
		work.Image = name
	}

	updated, err := uc.imageRepo.UpdateImage(ctx, &work)
	if err != nil {
		if work.Image != current.Image {
			_ = uc.files.Remove(work.Image)
		}
		return nil, err
	}
	if work.Image != current.Image {
		if err := uc.files.Remove(current.Image); err != nil {
			uc.log.Warnf("Use Case: Could not remove replaced image file %s: %v", current.Image, err)
		}
	}
	updated.URL = uc.files.URL(updated.Image)

	keys := imageKeys(id, current.ProductID)
	if updated.ProductID != current.ProductID {
		keys = append(keys, imageKeys(id, updated.ProductID)...)
	}
	if err := uc.aside.Invalidate(ctx, keys...); err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Image updated successfully for ID %d", id)
	return updated, nil
}

func (uc *imageUseCase) Delete(ctx context.Context, id int64, _ *domain.User) error {
	current, err := uc.imageRepo.GetImageByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Image ID %d not found for delete: %v", id, err)
		return err
	}
	if err := uc.imageRepo.DeleteImage(ctx, id); err != nil {
		return err
	}
	if err := uc.files.Remove(current.Image); err != nil {
		uc.log.Warnf("Use Case: Could not remove image file %s: %v", current.Image, err)
	}
	if err := uc.aside.Invalidate(ctx, imageKeys(id, current.ProductID)...); err != nil {
		return err
	}
	uc.log.Infof("Use Case: Image deleted successfully for ID %d", id)
	return nil
}

func imageKeys(imageID, productID int64) []cache.Key {
	return []cache.Key{
		cache.ImageDetail(imageID),
		cache.ImageList(),
		cache.ProductImages(productID),
		cache.ProductDetail(productID),
		cache.ProductList(),
	}
}
