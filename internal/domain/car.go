package domain

import "context"

type CarRepository interface {
	CreateCar(ctx context.Context, car *Car) (*Car, error)
	GetCarByID(ctx context.Context, id int64) (*Car, error)
	UpdateCar(ctx context.Context, car *Car) (*Car, error)
	DeleteCar(ctx context.Context, id int64) error
	ListCars(ctx context.Context) ([]Car, error)
}
