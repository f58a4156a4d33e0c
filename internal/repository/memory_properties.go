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

// MemoryPropertiesRepo supports property lookups when DB is disabled.
type MemoryPropertiesRepo struct {
	mu         sync.RWMutex
	properties map[string]domain.Property // propertyID -> property
}

func NewMemoryPropertiesRepo() *MemoryPropertiesRepo {
	return &MemoryPropertiesRepo{
		properties: map[string]domain.Property{},
	}
}

var _ PropertiesRepository = (*MemoryPropertiesRepo)(nil)

func (r *MemoryPropertiesRepo) GetProperty(_ context.Context, propertyID string) (*domain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.properties[propertyID]
	if !ok {
		return nil, fmt.Errorf("property %s: %w", propertyID, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *MemoryPropertiesRepo) CreateProperty(_ context.Context, p *domain.Property) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.PropertyID == "" {
		p.PropertyID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = "listed"
	}
	stored := *p
	stored.CreatedAt = time.Now()
	r.properties[stored.PropertyID] = stored
	return stored.PropertyID, nil
}

func (r *MemoryPropertiesRepo) ListByLandlord(_ context.Context, landlordID string) ([]*domain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Property
	for _, p := range r.properties {
		if p.LandlordID != landlordID {
			continue
		}
		copied := p
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
