package job

import (
	"fmt"
	"sync"
)

// Factory rebuilds a runnable job from its persisted record.
type Factory func(rec Record) (Job, error)

// Registry maps job types to the factories that rebuild them.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register sets the factory for jobType, replacing any previous one.
func (r *Registry) Register(jobType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[jobType] = factory
}

// Rehydrate rebuilds the job stored in rec.
func (r *Registry) Rehydrate(rec Record) (Job, error) {
	r.mu.RLock()
	factory, ok := r.factories[rec.Type]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJobType, rec.Type)
	}

	j, err := factory(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild %s job %s: %w", rec.Type, rec.ID, err)
	}
	return j, nil
}
