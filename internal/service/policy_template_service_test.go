package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roomfindr-data/internal/domain"
	"roomfindr-data/internal/repository"
)

func newTemplateFixture(t *testing.T) (PolicyTemplateService, *repository.MemoryPolicyTemplatesRepo, *repository.MemoryPropertyPoliciesRepo) {
	t.Helper()
	templates := repository.NewMemoryPolicyTemplatesRepo()
	bindings := repository.NewMemoryPropertyPoliciesRepo(templates)
	svc := NewPolicyTemplateService(templates, bindings, zap.NewNop())
	return svc, templates, bindings
}

func seedSystemTemplate(t *testing.T, templates *repository.MemoryPolicyTemplatesRepo, title, category, defaultValue string) string {
	t.Helper()
	id, err := templates.CreateTemplate(context.Background(), &domain.PolicyTemplate{
		Title:            title,
		Category:         category,
		DefaultValue:     defaultValue,
		IsSystemTemplate: true,
	})
	require.NoError(t, err)
	return id
}

func TestCreateTemplateRequiresLandlord(t *testing.T) {
	svc, _, _ := newTemplateFixture(t)

	_, err := svc.CreateTemplate(context.Background(), CreateTemplateRequest{
		Actor:        domain.Actor{UserID: "u1", Role: domain.RoleTenant},
		Title:        "Quiet hours",
		Category:     domain.CategoryCustom,
		DefaultValue: "after 22:00",
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestCreateTemplateValidation(t *testing.T) {
	svc, _, _ := newTemplateFixture(t)
	landlord := domain.Actor{UserID: "landlord-1", Role: domain.RoleLandlord}

	_, err := svc.CreateTemplate(context.Background(), CreateTemplateRequest{
		Actor: landlord, Category: domain.CategoryCustom, DefaultValue: "x",
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateTemplate(context.Background(), CreateTemplateRequest{
		Actor: landlord, Title: "Quiet hours", Category: "nonsense", DefaultValue: "x",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateTemplateOwnedByCreator(t *testing.T) {
	svc, templates, _ := newTemplateFixture(t)
	landlord := domain.Actor{UserID: "landlord-1", Role: domain.RoleLandlord}

	resp, err := svc.CreateTemplate(context.Background(), CreateTemplateRequest{
		Actor:        landlord,
		Title:        "Quiet hours",
		Category:     domain.CategoryCustom,
		DefaultValue: "after 22:00",
	})
	require.NoError(t, err)

	created, err := templates.GetTemplate(context.Background(), resp.TemplateID)
	require.NoError(t, err)
	require.False(t, created.IsSystemTemplate)
	require.Equal(t, "landlord-1", created.OwnerLandlordID)
	require.Equal(t, 1, created.Version)
}

func TestSystemTemplatesAreReadOnly(t *testing.T) {
	svc, templates, _ := newTemplateFixture(t)
	sysID := seedSystemTemplate(t, templates, "Pets", domain.CategoryPets, "not allowed")
	landlord := domain.Actor{UserID: "landlord-1", Role: domain.RoleLandlord}

	title := "Pets (edited)"
	err := svc.UpdateTemplate(context.Background(), UpdateTemplateRequest{
		Actor: landlord, TemplateID: sysID, Title: &title,
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)

	err = svc.DeleteTemplate(context.Background(), DeleteTemplateRequest{
		Actor: landlord, TemplateID: sysID,
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestUpdateTemplateOwnerOnlyAndVersionBump(t *testing.T) {
	svc, templates, _ := newTemplateFixture(t)
	owner := domain.Actor{UserID: "landlord-1", Role: domain.RoleLandlord}
	other := domain.Actor{UserID: "landlord-2", Role: domain.RoleLandlord}

	resp, err := svc.CreateTemplate(context.Background(), CreateTemplateRequest{
		Actor: owner, Title: "Quiet hours", Category: domain.CategoryCustom, DefaultValue: "after 22:00",
	})
	require.NoError(t, err)

	newValue := "after 23:00"
	err = svc.UpdateTemplate(context.Background(), UpdateTemplateRequest{
		Actor: other, TemplateID: resp.TemplateID, DefaultValue: &newValue,
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)

	err = svc.UpdateTemplate(context.Background(), UpdateTemplateRequest{
		Actor: owner, TemplateID: resp.TemplateID, DefaultValue: &newValue,
	})
	require.NoError(t, err)

	updated, err := templates.GetTemplate(context.Background(), resp.TemplateID)
	require.NoError(t, err)
	require.Equal(t, "after 23:00", updated.DefaultValue)
	require.Equal(t, 2, updated.Version)
}

func TestDeleteTemplateBlockedByActiveBindings(t *testing.T) {
	svc, templates, bindings := newTemplateFixture(t)
	owner := domain.Actor{UserID: "landlord-1", Role: domain.RoleLandlord}

	resp, err := svc.CreateTemplate(context.Background(), CreateTemplateRequest{
		Actor: owner, Title: "Quiet hours", Category: domain.CategoryCustom, DefaultValue: "after 22:00",
	})
	require.NoError(t, err)

	templateID := resp.TemplateID
	bindingID, err := bindings.CreateBinding(context.Background(), &domain.PropertyPolicy{
		PropertyID: "prop-1", TemplateID: templateID, IsActive: true,
	})
	require.NoError(t, err)

	err = svc.DeleteTemplate(context.Background(), DeleteTemplateRequest{Actor: owner, TemplateID: templateID})
	require.ErrorIs(t, err, domain.ErrInvalidState)

	require.NoError(t, bindings.DeleteBinding(context.Background(), bindingID))

	err = svc.DeleteTemplate(context.Background(), DeleteTemplateRequest{Actor: owner, TemplateID: templateID})
	require.NoError(t, err)

	_, err = templates.GetTemplate(context.Background(), templateID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTemplatesVisibility(t *testing.T) {
	svc, templates, _ := newTemplateFixture(t)
	seedSystemTemplate(t, templates, "Pets", domain.CategoryPets, "not allowed")

	owner := domain.Actor{UserID: "landlord-1", Role: domain.RoleLandlord}
	_, err := svc.CreateTemplate(context.Background(), CreateTemplateRequest{
		Actor: owner, Title: "Quiet hours", Category: domain.CategoryCustom, DefaultValue: "after 22:00",
	})
	require.NoError(t, err)

	// Anonymous view: system set only.
	resp, err := svc.ListTemplates(context.Background(), ListTemplatesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.True(t, resp.Items[0].IsSystemTemplate)

	// Owner view: private templates union the system set.
	resp, err = svc.ListTemplates(context.Background(), ListTemplatesRequest{LandlordID: "landlord-1"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)

	// Another landlord never sees landlord-1's private templates.
	resp, err = svc.ListTemplates(context.Background(), ListTemplatesRequest{LandlordID: "landlord-2"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
}
