package usecase

import (
	"context"

	"catalog_service/internal/cache"
	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type carUseCase struct {
	carRepo domain.CarRepository
	aside   *cache.Aside
	policy  UpdatePolicy
	log     *logrus.Logger
}

func NewCarUseCase(repo domain.CarRepository, aside *cache.Aside, policy UpdatePolicy, logger *logrus.Logger) Service[domain.Car] {
	return &carUseCase{
		carRepo: repo,
		aside:   aside,
		policy:  policy,
		log:     logger,
	}
}

func (uc *carUseCase) List(ctx context.Context) ([]domain.Car, error) {
	return cache.Fetch(ctx, uc.aside, cache.CarList(), uc.carRepo.ListCars)
}

func (uc *carUseCase) Get(ctx context.Context, id int64) (*domain.Car, error) {
	return cache.Fetch(ctx, uc.aside, cache.CarDetail(id), func(ctx context.Context) (*domain.Car, error) {
		return uc.carRepo.GetCarByID(ctx, id)
	})
}

func (uc *carUseCase) Create(ctx context.Context, in *domain.Car, actor *domain.User) (*domain.Car, error) {
	in.ID = 0
	in.OwnerID = ownerOf(actor)
	if err := errOrNil(validateStruct(in)); err != nil {
		uc.log.Warnf("Use Case: Rejected car create: %v", err)
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to create car '%s %s'", in.Brand, in.Model)
	created, err := uc.carRepo.CreateCar(ctx, in)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create car: %v", err)
		return nil, err
	}
	if err := uc.aside.Invalidate(ctx, cache.CarList()); err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Car created successfully with ID %d", created.ID)
	return created, nil
}

func (uc *carUseCase) Update(ctx context.Context, id int64, actor *domain.User, apply func(*domain.Car) error) (*domain.Car, error) {
	current, err := uc.carRepo.GetCarByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Car ID %d not found for update: %v", id, err)
		return nil, err
	}
	if err := uc.policy.CheckUpdate(current.CreatedAt, current.OwnerID, actor); err != nil {
		uc.log.Warnf("Use Case: Update of car ID %d denied: %v", id, err)
		return nil, err
	}

	work := *current
	work.Price, work.OwnerID = clone(current.Price), clone(current.OwnerID)
	if err := apply(&work); err != nil {
		return nil, err
	}
	work.ID, work.CreatedAt, work.OwnerID = current.ID, current.CreatedAt, current.OwnerID
	if err := errOrNil(validateStruct(&work)); err != nil {
		uc.log.Warnf("Use Case: Rejected update of car ID %d: %v", id, err)
		return nil, err
	}

	updated, err := uc.carRepo.UpdateCar(ctx, &work)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update car ID %d: %v", id, err)
		return nil, err
	}
	if err := uc.aside.Invalidate(ctx, cache.CarDetail(id), cache.CarList()); err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Car updated successfully for ID %d", id)
	return updated, nil
}

func (uc *carUseCase) Delete(ctx context.Context, id int64, _ *domain.User) error {
	uc.log.Infof("Use Case: Attempting to delete car ID %d", id)
	if err := uc.carRepo.DeleteCar(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete car ID %d: %v", id, err)
		return err
	}
	if err := uc.aside.Invalidate(ctx, cache.CarDetail(id), cache.CarList()); err != nil {
		return err
	}
	uc.log.Infof("Use Case: Car deleted successfully for ID %d", id)
	return nil
}
