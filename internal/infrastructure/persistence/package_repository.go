package persistence

import (
	"context"

	"github.com/shiptrack/backend/internal/domain/shared"
	"github.com/shiptrack/backend/internal/domain/tracking"
	"github.com/shiptrack/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPackageRepository implements tracking.PackageRepository using GORM
type GormPackageRepository struct {
	gormStore
}

// NewGormPackageRepository creates a new GormPackageRepository
func NewGormPackageRepository(db *gorm.DB, opts ...RepositoryOption) *GormPackageRepository {
	return &GormPackageRepository{gormStore: newGormStore(db, EntityPackage, opts)}
}

// FindByID finds a package by its ID together with its customer and shipment
func (r *GormPackageRepository) FindByID(ctx context.Context, id uint) (*tracking.Package, error) {
	model, err := findByID[models.PackageModel](ctx, r.gormStore, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns packages ordered and limited by opts
func (r *GormPackageRepository) FindAll(ctx context.Context, opts shared.ListOptions) ([]tracking.Package, error) {
	rows, err := findAll[models.PackageModel](ctx, r.gormStore, opts)
	if err != nil {
		return nil, err
	}
	out := make([]tracking.Package, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Create inserts pkg and assigns its ID and timestamps
func (r *GormPackageRepository) Create(ctx context.Context, pkg *tracking.Package) error {
	model := models.PackageModelFromDomain(pkg)
	if err := insert(ctx, r.gormStore, model); err != nil {
		return err
	}
	pkg.BaseEntity = model.BaseModel.ToDomain()
	return nil
}

// Count returns the number of stored packages
func (r *GormPackageRepository) Count(ctx context.Context) (int64, error) {
	return count[models.PackageModel](ctx, r.gormStore)
}

var _ tracking.PackageRepository = (*GormPackageRepository)(nil)
