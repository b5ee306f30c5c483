package loans

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"branchdesk/internal/shared/constants"
	"branchdesk/internal/shared/i18n"
	"branchdesk/pkg/cache"
)

var ErrSessionNotFound = errors.New("loan session not found")

// Snapshot is what survives a session being dropped from memory. File
// payloads are not included, only their metadata.
type Snapshot struct {
	ID          string        `json:"id"`
	Language    i18n.Language `json:"language"`
	Step        Step          `json:"step"`
	Application Application   `json:"application"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, id string) (*Snapshot, error)
	Delete(ctx context.Context, id string) error
	// Touch extends the expiry of a saved session
	Touch(ctx context.Context, id string) error
}

type memoryEntry struct {
	snap      Snapshot
	expiresAt time.Time
}

// MemoryStore keeps snapshots in process with the same expiry rule as the
// Redis store
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = constants.TTL_LOAN_SESSION
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[snap.ID] = memoryEntry{snap: snap, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, id)
		return nil, ErrSessionNotFound
	}
	snap := entry.snap
	return &snap, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) Touch(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok || !m.now().Before(entry.expiresAt) {
		delete(m.entries, id)
		return ErrSessionNotFound
	}
	entry.expiresAt = m.now().Add(m.ttl)
	m.entries[id] = entry
	return nil
}

// RedisStore keeps snapshots in Redis so a session survives a restart or
// moves between instances
type RedisStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewRedisStore(cacheService cache.Service, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = constants.TTL_LOAN_SESSION
	}
	return &RedisStore{cache: cacheService, ttl: ttl}
}

func (r *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	if err := r.cache.Set(ctx, constants.BuildLoanSessionKey(snap.ID), snap, r.ttl); err != nil {
		return fmt.Errorf("save loan session %s: %w", snap.ID, err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	var snap Snapshot
	if err := r.cache.Get(ctx, constants.BuildLoanSessionKey(id), &snap); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load loan session %s: %w", id, err)
	}
	snap.Application.normalize()
	return &snap, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, constants.BuildLoanSessionKey(id)); err != nil {
		return fmt.Errorf("delete loan session %s: %w", id, err)
	}
	return nil
}

func (r *RedisStore) Touch(ctx context.Context, id string) error {
	if err := r.cache.Touch(ctx, constants.BuildLoanSessionKey(id), r.ttl); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("touch loan session %s: %w", id, err)
	}
	return nil
}
