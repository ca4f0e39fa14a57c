package persistence

import (
	"context"
	"time"

	"github.com/shiptrack/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RepositoryOption configures a GORM repository
type RepositoryOption func(*gormStore)

// WithQueryTimeout bounds every call made by the repository
func WithQueryTimeout(d time.Duration) RepositoryOption {
	return func(s *gormStore) {
		s.timeout = d
	}
}

// gormStore holds what every tracking repository shares
type gormStore struct {
	db      *gorm.DB
	entity  string
	timeout time.Duration
}

func newGormStore(db *gorm.DB, entity string, opts []RepositoryOption) gormStore {
	s := gormStore{db: db, entity: entity}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// session returns a DB handle bound to ctx and the repository timeout
func (s gormStore) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		return s.db.WithContext(ctx), cancel
	}
	return s.db.WithContext(ctx), func() {}
}

// findByID loads one row with the entity's declared associations
func findByID[M any](ctx context.Context, s gormStore, id uint) (*M, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	query, err := includeDeclared(db, s.entity)
	if err != nil {
		return nil, err
	}
	var model M
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &model, nil
}

// findAll loads rows ordered and limited by opts, with associations
func findAll[M any](ctx context.Context, s gormStore, opts shared.ListOptions) ([]M, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	query, err := includeDeclared(db, s.entity)
	if err != nil {
		return nil, err
	}
	var rows []M
	if err := applyListOptions(query, mustEntity(s.entity), opts).Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return rows, nil
}

// insert writes exactly one row; associations are never upserted
func insert[M any](ctx context.Context, s gormStore, model *M) error {
	db, cancel := s.session(ctx)
	defer cancel()

	return translateError(db.Omit(clause.Associations).Create(model).Error)
}

func count[M any](ctx context.Context, s gormStore) (int64, error) {
	db, cancel := s.session(ctx)
	defer cancel()

	var n int64
	var model M
	if err := db.Model(&model).Count(&n).Error; err != nil {
		return 0, translateError(err)
	}
	return n, nil
}
