package persistence

import (
	"context"

	"github.com/shiptrack/backend/internal/domain/shared"
	"github.com/shiptrack/backend/internal/domain/tracking"
	"github.com/shiptrack/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormShipmentRepository implements tracking.ShipmentRepository using GORM
type GormShipmentRepository struct {
	gormStore
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB, opts ...RepositoryOption) *GormShipmentRepository {
	return &GormShipmentRepository{gormStore: newGormStore(db, EntityShipment, opts)}
}

// FindByID finds a shipment by its ID together with its customer
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uint) (*tracking.Shipment, error) {
	model, err := findByID[models.ShipmentModel](ctx, r.gormStore, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns shipments ordered and limited by opts
func (r *GormShipmentRepository) FindAll(ctx context.Context, opts shared.ListOptions) ([]tracking.Shipment, error) {
	rows, err := findAll[models.ShipmentModel](ctx, r.gormStore, opts)
	if err != nil {
		return nil, err
	}
	out := make([]tracking.Shipment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Create inserts shipment and assigns its ID and timestamps
func (r *GormShipmentRepository) Create(ctx context.Context, shipment *tracking.Shipment) error {
	model := models.ShipmentModelFromDomain(shipment)
	if err := insert(ctx, r.gormStore, model); err != nil {
		return err
	}
	shipment.BaseEntity = model.BaseModel.ToDomain()
	return nil
}

// Count returns the number of stored shipments
func (r *GormShipmentRepository) Count(ctx context.Context) (int64, error) {
	return count[models.ShipmentModel](ctx, r.gormStore)
}

var _ tracking.ShipmentRepository = (*GormShipmentRepository)(nil)
