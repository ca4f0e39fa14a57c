package persistence

import (
	"context"

	"github.com/shiptrack/backend/internal/domain/shared"
	"github.com/shiptrack/backend/internal/domain/tracking"
	"github.com/shiptrack/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements tracking.CustomerRepository using GORM
type GormCustomerRepository struct {
	gormStore
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB, opts ...RepositoryOption) *GormCustomerRepository {
	return &GormCustomerRepository{gormStore: newGormStore(db, EntityCustomer, opts)}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uint) (*tracking.Customer, error) {
	model, err := findByID[models.CustomerModel](ctx, r.gormStore, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns customers ordered and limited by opts
func (r *GormCustomerRepository) FindAll(ctx context.Context, opts shared.ListOptions) ([]tracking.Customer, error) {
	rows, err := findAll[models.CustomerModel](ctx, r.gormStore, opts)
	if err != nil {
		return nil, err
	}
	out := make([]tracking.Customer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Create inserts customer and assigns its ID and timestamps
func (r *GormCustomerRepository) Create(ctx context.Context, customer *tracking.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	if err := insert(ctx, r.gormStore, model); err != nil {
		return err
	}
	customer.BaseEntity = model.BaseModel.ToDomain()
	return nil
}

// Count returns the number of stored customers
func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	return count[models.CustomerModel](ctx, r.gormStore)
}

var _ tracking.CustomerRepository = (*GormCustomerRepository)(nil)
