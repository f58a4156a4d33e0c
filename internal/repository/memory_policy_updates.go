package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"roomfindr-data/internal/domain"
)

// MemoryPolicyUpdatesRepo supports the change log when DB is disabled.
type MemoryPolicyUpdatesRepo struct {
	mu      sync.RWMutex
	updates map[string]domain.PolicyUpdate // updateID -> update
}

func NewMemoryPolicyUpdatesRepo() *MemoryPolicyUpdatesRepo {
	return &MemoryPolicyUpdatesRepo{
		updates: map[string]domain.PolicyUpdate{},
	}
}

var _ PolicyUpdatesRepository = (*MemoryPolicyUpdatesRepo)(nil)

func (r *MemoryPolicyUpdatesRepo) CreateUpdate(_ context.Context, u *domain.PolicyUpdate) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.UpdateID == "" {
		u.UpdateID = uuid.NewString()
	}
	stored := *u
	stored.UpdatedAt = time.Now()
	stored.NotificationSent = false
	r.updates[stored.UpdateID] = stored
	return stored.UpdateID, nil
}

func (r *MemoryPolicyUpdatesRepo) MarkNotified(_ context.Context, updateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.updates[updateID]
	if !ok {
		return fmt.Errorf("policy update %s: %w", updateID, domain.ErrNotFound)
	}
	u.NotificationSent = true
	r.updates[updateID] = u
	return nil
}

func (r *MemoryPolicyUpdatesRepo) ListForProperty(_ context.Context, propertyID string) ([]*domain.PolicyUpdate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.PolicyUpdate
	for _, u := range r.updates {
		if u.PropertyID != propertyID {
			continue
		}
		copied := u
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}
