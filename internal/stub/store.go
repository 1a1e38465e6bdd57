package stub

import (
	"context"

	"realtyref/pkg/domain"
)

// RecordStore persists stub records. Create and Replace return
// sentinel.ErrConflict when the mobile number is taken within the
// collection; lookups return sentinel.ErrNotFound.
type RecordStore interface {
	Create(ctx context.Context, r *Record) error
	Get(ctx context.Context, c domain.Collection, id string) (*Record, error)
	FindByMobile(ctx context.Context, c domain.Collection, mobile string) (*Record, error)
	List(ctx context.Context, c domain.Collection, f ListFilter) ([]*Record, error)
	Replace(ctx context.Context, r *Record) error
	Delete(ctx context.Context, c domain.Collection, id string) error
}
