package vehicle

import (
	"context"

	"github.com/rpggio/recontrack/internal/domain/activity"
	"github.com/rpggio/recontrack/internal/domain/detailer"
)

// Repository provides persistence for vehicles and their workflow.
type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	Get(ctx context.Context, stockNumber string) (*Vehicle, error)
	Update(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, stockNumber string) error
	List(ctx context.Context, opts ListOptions) ([]Vehicle, error)
}

// ActivityRepository records timeline entries.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.Entry) error
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// DetailerRepository resolves detailer assignments.
type DetailerRepository interface {
	Get(ctx context.Context, id string) (*detailer.Detailer, error)
}

// SearchRepository performs full-text search.
type SearchRepository interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}
