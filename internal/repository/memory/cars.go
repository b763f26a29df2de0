package memory

import (
	"context"
	"fmt"

	"catalog_service/internal/domain"
)

func (s *Store) CreateCar(_ context.Context, car *domain.Car) (*domain.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := detachCar(*car)
	created.ID = s.next("cars")
	created.CreatedAt = s.now()
	s.cars[created.ID] = created
	created = detachCar(created)
	return &created, nil
}

func (s *Store) GetCarByID(_ context.Context, id int64) (*domain.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	car, ok := s.cars[id]
	if !ok {
		return nil, fmt.Errorf("car with id %d %w", id, domain.ErrNotFound)
	}
	car = detachCar(car)
	return &car, nil
}

func (s *Store) UpdateCar(_ context.Context, car *domain.Car) (*domain.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.cars[car.ID]
	if !ok {
		return nil, fmt.Errorf("car with id %d %w", car.ID, domain.ErrNotFound)
	}
	current.Brand = car.Brand
	current.Model = car.Model
	current.Year = car.Year
	current.Price = copyOf(car.Price)
	s.cars[car.ID] = current
	current = detachCar(current)
	return &current, nil
}

func (s *Store) DeleteCar(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cars[id]; !ok {
		return fmt.Errorf("car with id %d %w", id, domain.ErrNotFound)
	}
	delete(s.cars, id)
	return nil
}

func (s *Store) ListCars(_ context.Context) ([]domain.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cars := make([]domain.Car, 0, len(s.cars))
	for _, id := range sortedKeys(s.cars) {
		cars = append(cars, detachCar(s.cars[id]))
	}
	return cars, nil
}
