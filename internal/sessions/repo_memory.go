package sessions

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	byHash map[string]Session
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byHash: make(map[string]Session)}
}

func (r *MemoryRepo) Create(ctx context.Context, s Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.byHash[s.TokenHash] = s
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepo) GetByTokenHash(ctx context.Context, tokenHash string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byHash[tokenHash]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.byHash, tokenHash)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for hash, s := range r.byHash {
		if s.Expired(now) {
			delete(r.byHash, hash)
			removed++
		}
	}
	return removed, nil
}
