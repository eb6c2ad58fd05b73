package detailer

import "context"

// Repository provides persistence for detailers.
type Repository interface {
	Create(ctx context.Context, d *Detailer) error
	Get(ctx context.Context, id string) (*Detailer, error)
	Update(ctx context.Context, d *Detailer) error
	List(ctx context.Context, activeOnly bool) ([]Detailer, error)
}
