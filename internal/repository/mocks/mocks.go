package mocks

import (
	"context"

	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/detailer"
	"github.com/rpggio/recontrack/internal/domain/vehicle"
	"github.com/stretchr/testify/mock"
)

// VehicleRepository is a mock for vehicle.Repository.
type VehicleRepository struct {
	mock.Mock
}

func (m *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *VehicleRepository) Get(ctx context.Context, stockNumber string) (*vehicle.Vehicle, error) {
	args := m.Called(ctx, stockNumber)
	if v, ok := args.Get(0).(*vehicle.Vehicle); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *VehicleRepository) Delete(ctx context.Context, stockNumber string) error {
	args := m.Called(ctx, stockNumber)
	return args.Error(0)
}

func (m *VehicleRepository) List(ctx context.Context, opts vehicle.ListOptions) ([]vehicle.Vehicle, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]vehicle.Vehicle); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// DetailerRepository is a mock for detailer.Repository.
type DetailerRepository struct {
	mock.Mock
}

func (m *DetailerRepository) Create(ctx context.Context, d *detailer.Detailer) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *DetailerRepository) Get(ctx context.Context, id string) (*detailer.Detailer, error) {
	args := m.Called(ctx, id)
	if d, ok := args.Get(0).(*detailer.Detailer); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DetailerRepository) Update(ctx context.Context, d *detailer.Detailer) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *DetailerRepository) List(ctx context.Context, activeOnly bool) ([]detailer.Detailer, error) {
	args := m.Called(ctx, activeOnly)
	if list, ok := args.Get(0).([]detailer.Detailer); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SearchRepository is a mock for vehicle.SearchRepository.
type SearchRepository struct {
	mock.Mock
}

func (m *SearchRepository) Search(ctx context.Context, query string, opts vehicle.SearchOptions) ([]vehicle.SearchResult, error) {
	args := m.Called(ctx, query, opts)
	if list, ok := args.Get(0).([]vehicle.SearchResult); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
