package persistence

import (
	"context"

	"github.com/shiptrack/backend/internal/domain/shared"
	"github.com/shiptrack/backend/internal/domain/tracking"
	"github.com/shiptrack/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDeviceRepository implements tracking.DeviceRepository using GORM
type GormDeviceRepository struct {
	gormStore
}

// NewGormDeviceRepository creates a new GormDeviceRepository
func NewGormDeviceRepository(db *gorm.DB, opts ...RepositoryOption) *GormDeviceRepository {
	return &GormDeviceRepository{gormStore: newGormStore(db, EntityDevice, opts)}
}

// FindByID finds a device by its ID together with its package
func (r *GormDeviceRepository) FindByID(ctx context.Context, id uint) (*tracking.Device, error) {
	model, err := findByID[models.DeviceModel](ctx, r.gormStore, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns devices ordered and limited by opts
func (r *GormDeviceRepository) FindAll(ctx context.Context, opts shared.ListOptions) ([]tracking.Device, error) {
	rows, err := findAll[models.DeviceModel](ctx, r.gormStore, opts)
	if err != nil {
		return nil, err
	}
	out := make([]tracking.Device, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Create inserts device and assigns its ID and timestamps
func (r *GormDeviceRepository) Create(ctx context.Context, device *tracking.Device) error {
	model := models.DeviceModelFromDomain(device)
	if err := insert(ctx, r.gormStore, model); err != nil {
		return err
	}
	device.BaseEntity = model.BaseModel.ToDomain()
	return nil
}

// Count returns the number of stored devices
func (r *GormDeviceRepository) Count(ctx context.Context) (int64, error) {
	return count[models.DeviceModel](ctx, r.gormStore)
}

var _ tracking.DeviceRepository = (*GormDeviceRepository)(nil)
