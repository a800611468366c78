package usecase

import (
	"context"
	"flightfare-core/internal/domain/entity"
	"flightfare-core/internal/domain/repository"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ModelHandle owns the process-wide model. The model is loaded lazily on the
// first Get (or eagerly through Load), shared read-only by every request, and
// swapped atomically on Reload.
type ModelHandle struct {
	store repository.ModelStore

	mu       sync.RWMutex
	model    repository.Model
	loadedAt time.Time
	closed   bool
}

func NewModelHandle(store repository.ModelStore) *ModelHandle {
	return &ModelHandle{store: store}
}

// Load is the startup hook. It is a no-op when a model is already held.
func (h *ModelHandle) Load(ctx context.Context) error {
	_, err := h.Get(ctx)
	return err
}

// Get returns the shared model, loading it on first use. A failed load is not
// remembered, so the next call tries again.
func (h *ModelHandle) Get(ctx context.Context) (repository.Model, error) {
	h.mu.RLock()
	m, closed := h.model, h.closed
	h.mu.RUnlock()
	if closed {
		return nil, fmt.Errorf("%w: model handle closed", entity.ErrModelUnavailable)
	}
	if m != nil {
		return m, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, fmt.Errorf("%w: model handle closed", entity.ErrModelUnavailable)
	}
	if h.model != nil {
		return h.model, nil
	}
	m, err := h.load(ctx)
	if err != nil {
		return nil, err
	}
	h.model = m
	h.loadedAt = time.Now()
	return m, nil
}

// Reload reads the artifact again and swaps it in. Requests already holding
// the previous model finish with it.
func (h *ModelHandle) Reload(ctx context.Context) (repository.ModelSchema, error) {
	m, err := h.load(ctx)
	if err != nil {
		return repository.ModelSchema{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return repository.ModelSchema{}, fmt.Errorf("%w: model handle closed", entity.ErrModelUnavailable)
	}
	h.model = m
	h.loadedAt = time.Now()
	slog.InfoContext(ctx, "price model reloaded", "schema_version", m.Schema().Version)
	return m.Schema(), nil
}

// LoadedAt reports when the current model was installed; zero if none is held.
func (h *ModelHandle) LoadedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loadedAt
}

// Close is the shutdown hook.
func (h *ModelHandle) Close(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.model = nil
	h.closed = true
	return nil
}

func (h *ModelHandle) load(ctx context.Context) (repository.Model, error) {
	m, err := h.store.LoadModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrModelUnavailable, err)
	}
	return m, nil
}
