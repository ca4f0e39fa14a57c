package shared

import "context"

// Repository is the base interface for all repositories
type Repository[T any] interface {
	FindByID(ctx context.Context, id uint) (*T, error)
	FindAll(ctx context.Context, opts ListOptions) ([]T, error)
	Create(ctx context.Context, entity *T) error
	Count(ctx context.Context) (int64, error)
}

// ListOptions carries the raw list arguments of a collection query.
// Zero values mean "no limit" and "default ordering".
type ListOptions struct {
	Limit     int
	SortField string
	SortOrder string
}

// IsZero reports whether no list argument was supplied
func (o ListOptions) IsZero() bool {
	return o.Limit <= 0 && o.SortField == "" && o.SortOrder == ""
}
