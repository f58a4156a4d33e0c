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

// MemoryPropertyPoliciesRepo supports bindings when DB is disabled.
// Needs the templates repo to resolve the join in ListForProperty, same as
// the SQL JOIN in the Postgres implementation.
type MemoryPropertyPoliciesRepo struct {
	mu        sync.RWMutex
	bindings  map[string]domain.PropertyPolicy // bindingID -> binding
	templates PolicyTemplatesRepository
}

func NewMemoryPropertyPoliciesRepo(templates PolicyTemplatesRepository) *MemoryPropertyPoliciesRepo {
	return &MemoryPropertyPoliciesRepo{
		bindings:  map[string]domain.PropertyPolicy{},
		templates: templates,
	}
}

var _ PropertyPoliciesRepository = (*MemoryPropertyPoliciesRepo)(nil)

func copyBinding(b domain.PropertyPolicy) domain.PropertyPolicy {
	if b.CustomValue != nil {
		v := *b.CustomValue
		b.CustomValue = &v
	}
	return b
}

func (r *MemoryPropertyPoliciesRepo) GetBinding(_ context.Context, bindingID string) (*domain.PropertyPolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[bindingID]
	if !ok {
		return nil, fmt.Errorf("binding %s: %w", bindingID, domain.ErrNotFound)
	}
	copied := copyBinding(b)
	return &copied, nil
}

func (r *MemoryPropertyPoliciesRepo) ListForProperty(ctx context.Context, propertyID string, activeOnly bool) ([]*domain.PropertyPolicyWithTemplate, error) {
	r.mu.RLock()
	var matched []domain.PropertyPolicy
	for _, b := range r.bindings {
		if b.PropertyID != propertyID {
			continue
		}
		if activeOnly && !b.IsActive {
			continue
		}
		matched = append(matched, copyBinding(b))
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	var result []*domain.PropertyPolicyWithTemplate
	for _, b := range matched {
		t, err := r.templates.GetTemplate(ctx, b.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve template for binding %s: %w", b.BindingID, err)
		}
		result = append(result, &domain.PropertyPolicyWithTemplate{Binding: b, Template: *t})
	}
	return result, nil
}

func (r *MemoryPropertyPoliciesRepo) CreateBinding(_ context.Context, b *domain.PropertyPolicy) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.IsActive {
		for _, existing := range r.bindings {
			if existing.PropertyID == b.PropertyID && existing.TemplateID == b.TemplateID && existing.IsActive {
				return "", fmt.Errorf("active binding for template %s already exists: %w", b.TemplateID, domain.ErrConflict)
			}
		}
	}

	if b.BindingID == "" {
		b.BindingID = uuid.NewString()
	}
	now := time.Now()
	stored := copyBinding(*b)
	stored.Version = 1
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.bindings[stored.BindingID] = stored
	return stored.BindingID, nil
}

func (r *MemoryPropertyPoliciesRepo) UpdateBinding(_ context.Context, bindingID string, patch BindingPatch, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bindings[bindingID]
	if !ok {
		return fmt.Errorf("binding %s: %w", bindingID, domain.ErrNotFound)
	}
	if patch.CustomValue == nil && patch.IsActive == nil {
		return nil
	}
	if b.Version != expectedVersion {
		return fmt.Errorf("binding %s version mismatch: %w", bindingID, domain.ErrConflict)
	}
	if patch.CustomValue != nil {
		if *patch.CustomValue == "" {
			b.CustomValue = nil
		} else {
			v := *patch.CustomValue
			b.CustomValue = &v
		}
	}
	if patch.IsActive != nil {
		if *patch.IsActive && !b.IsActive {
			for _, existing := range r.bindings {
				if existing.BindingID != bindingID && existing.PropertyID == b.PropertyID &&
					existing.TemplateID == b.TemplateID && existing.IsActive {
					return fmt.Errorf("active binding already exists: %w", domain.ErrConflict)
				}
			}
		}
		b.IsActive = *patch.IsActive
	}
	b.Version++
	b.UpdatedAt = time.Now()
	r.bindings[bindingID] = b
	return nil
}

func (r *MemoryPropertyPoliciesRepo) DeleteBinding(_ context.Context, bindingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bindings[bindingID]; !ok {
		return fmt.Errorf("binding %s: %w", bindingID, domain.ErrNotFound)
	}
	delete(r.bindings, bindingID)
	return nil
}

func (r *MemoryPropertyPoliciesRepo) CountActiveForTemplate(_ context.Context, templateID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, b := range r.bindings {
		if b.TemplateID == templateID && b.IsActive {
			count++
		}
	}
	return count, nil
}
