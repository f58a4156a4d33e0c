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

// MemoryPolicyTemplatesRepo supports the catalog when DB is disabled.
type MemoryPolicyTemplatesRepo struct {
	mu        sync.RWMutex
	templates map[string]domain.PolicyTemplate // templateID -> template
}

func NewMemoryPolicyTemplatesRepo() *MemoryPolicyTemplatesRepo {
	return &MemoryPolicyTemplatesRepo{
		templates: map[string]domain.PolicyTemplate{},
	}
}

var _ PolicyTemplatesRepository = (*MemoryPolicyTemplatesRepo)(nil)

func (r *MemoryPolicyTemplatesRepo) GetTemplate(_ context.Context, templateID string) (*domain.PolicyTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("template %s: %w", templateID, domain.ErrNotFound)
	}
	return &t, nil
}

func (r *MemoryPolicyTemplatesRepo) ListTemplates(_ context.Context, filter TemplateFilters) ([]*domain.PolicyTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*domain.PolicyTemplate
	for _, t := range r.templates {
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		if filter.OwnerLandlordID != "" {
			if !t.IsSystemTemplate && t.OwnerLandlordID != filter.OwnerLandlordID {
				continue
			}
		} else if !t.IsSystemTemplate {
			continue
		}
		copied := t
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Category != all[j].Category {
			return all[i].Category < all[j].Category
		}
		return all[i].Title < all[j].Title
	})
	return all, nil
}

func (r *MemoryPolicyTemplatesRepo) CreateTemplate(_ context.Context, t *domain.PolicyTemplate) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.TemplateID == "" {
		t.TemplateID = uuid.NewString()
	}
	now := time.Now()
	stored := *t
	stored.Version = 1
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.templates[stored.TemplateID] = stored
	return stored.TemplateID, nil
}

func (r *MemoryPolicyTemplatesRepo) UpdateTemplate(_ context.Context, templateID string, patch TemplatePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.templates[templateID]
	if !ok {
		return fmt.Errorf("template %s: %w", templateID, domain.ErrNotFound)
	}
	if patch.Title == nil && patch.Description == nil && patch.Category == nil && patch.DefaultValue == nil {
		return nil
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.DefaultValue != nil {
		t.DefaultValue = *patch.DefaultValue
	}
	t.Version++
	t.UpdatedAt = time.Now()
	r.templates[templateID] = t
	return nil
}

func (r *MemoryPolicyTemplatesRepo) DeleteTemplate(_ context.Context, templateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.templates[templateID]; !ok {
		return fmt.Errorf("template %s: %w", templateID, domain.ErrNotFound)
	}
	delete(r.templates, templateID)
	return nil
}
