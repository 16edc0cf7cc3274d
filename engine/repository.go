package engine

import (
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ErrRunNotFound is returned when a run id has no stored result.
var ErrRunNotFound = errors.New("engine: run not found")

// Repository stores completed pricing runs by id.
type Repository interface {
	Store(run *RunResult) error
	Get(id string) (*RunResult, error)
}

// memoryRepository keeps runs in an expiring in-memory cache. Suitable
// for a single process; a service deployment would back this with a
// database.
type memoryRepository struct {
	cache *gocache.Cache
}

// NewMemoryRepository creates an in-memory run store. Runs expire after
// ttl; ttl <= 0 keeps them forever.
func NewMemoryRepository(ttl time.Duration) Repository {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &memoryRepository{cache: gocache.New(ttl, 10*time.Minute)}
}

func (r *memoryRepository) Store(run *RunResult) error {
	r.cache.SetDefault(run.ID, run)
	return nil
}

func (r *memoryRepository) Get(id string) (*RunResult, error) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, ErrRunNotFound
	}
	return v.(*RunResult), nil
}
