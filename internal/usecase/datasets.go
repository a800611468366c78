package usecase

import (
	"context"
	"flightfare-core/internal/domain/entity"
	"flightfare-core/internal/domain/repository"
	"fmt"
	"strings"
)

// Datasets manages the one-hot reference collections.
type Datasets struct {
	references repository.ReferenceStore
}

func NewDatasets(refs repository.ReferenceStore) *Datasets {
	return &Datasets{references: refs}
}

func (d *Datasets) Keys(ctx context.Context, kind entity.ReferenceKind) ([]string, error) {
	keys, err := d.references.ListKeys(ctx, kind)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 && kind == entity.KindSource {
		return nil, fmt.Errorf("%w: no sources found", entity.ErrResourceNotFound)
	}
	return keys, nil
}

// Add bulk-inserts vectors. All vectors of one batch must share a width and
// be one-hot or all-zero (the dropped first category).
func (d *Datasets) Add(ctx context.Context, kind entity.ReferenceKind, vectors []entity.ReferenceVector) error {
	if len(vectors) == 0 {
		return fmt.Errorf("%w: at least one %s is required", entity.ErrInvalidRequest, kind)
	}
	width := len(vectors[0].Array)
	for _, v := range vectors {
		if strings.TrimSpace(v.Key) == "" {
			return fmt.Errorf("%w: %s key is required", entity.ErrInvalidRequest, kind)
		}
		if len(v.Array) == 0 || len(v.Array) != width {
			return fmt.Errorf("%w: %s %q has width %d, batch width is %d", entity.ErrInvalidRequest, kind, v.Key, len(v.Array), width)
		}
		if !isOneHot(v.Array) {
			return fmt.Errorf("%w: %s %q is not one-hot encoded", entity.ErrInvalidRequest, kind, v.Key)
		}
	}
	return d.references.InsertMany(ctx, kind, vectors)
}

func isOneHot(arr []float64) bool {
	ones := 0
	for _, v := range arr {
		switch v {
		case 0:
		case 1:
			ones++
		default:
			return false
		}
	}
	return ones <= 1
}
