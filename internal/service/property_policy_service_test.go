package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roomfindr-data/internal/domain"
	"roomfindr-data/internal/notify"
	"roomfindr-data/internal/repository"
)

type policyFixture struct {
	svc          PropertyPolicyService
	templates    *repository.MemoryPolicyTemplatesRepo
	bindings     *repository.MemoryPropertyPoliciesRepo
	properties   *repository.MemoryPropertiesRepo
	reservations *repository.MemoryReservationsRepo
	updates      *repository.MemoryPolicyUpdatesRepo

	owner    domain.Actor
	property string
	template string
}

// newPolicyFixture one landlord owning one property, one system template
// ("pets", default "not allowed"). Changes fan out through a nop notifier.
func newPolicyFixture(t *testing.T) *policyFixture {
	t.Helper()
	logger := zap.NewNop()

	f := &policyFixture{
		templates:    repository.NewMemoryPolicyTemplatesRepo(),
		properties:   repository.NewMemoryPropertiesRepo(),
		reservations: repository.NewMemoryReservationsRepo(),
		updates:      repository.NewMemoryPolicyUpdatesRepo(),
		owner:        domain.Actor{UserID: "landlord-1", Role: domain.RoleLandlord},
	}
	f.bindings = repository.NewMemoryPropertyPoliciesRepo(f.templates)

	changes := NewPolicyChangeService(f.updates, f.reservations, notify.NopNotifier{}, logger)
	f.svc = NewPropertyPolicyService(f.bindings, f.templates, f.properties, changes, logger)

	var err error
	f.property, err = f.properties.CreateProperty(context.Background(), &domain.Property{
		LandlordID: f.owner.UserID, Title: "Sunny flat",
	})
	require.NoError(t, err)

	f.template, err = f.templates.CreateTemplate(context.Background(), &domain.PolicyTemplate{
		Title: "Pets", Category: domain.CategoryPets, DefaultValue: "not allowed", IsSystemTemplate: true,
	})
	require.NoError(t, err)
	return f
}

func (f *policyFixture) changeCount(t *testing.T) int {
	t.Helper()
	items, err := f.updates.ListForProperty(context.Background(), f.property)
	require.NoError(t, err)
	return len(items)
}

func TestBindRequiresPropertyOwner(t *testing.T) {
	f := newPolicyFixture(t)
	other := domain.Actor{UserID: "landlord-2", Role: domain.RoleLandlord}

	_, err := f.svc.Bind(context.Background(), BindRequest{
		Actor: other, PropertyID: f.property, TemplateID: f.template, IsActive: true,
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestBindUnknownTemplate(t *testing.T) {
	f := newPolicyFixture(t)

	_, err := f.svc.Bind(context.Background(), BindRequest{
		Actor: f.owner, PropertyID: f.property, TemplateID: "missing", IsActive: true,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBindRejectsDuplicateActiveBinding(t *testing.T) {
	f := newPolicyFixture(t)

	_, err := f.svc.Bind(context.Background(), BindRequest{
		Actor: f.owner, PropertyID: f.property, TemplateID: f.template, IsActive: true,
	})
	require.NoError(t, err)

	_, err = f.svc.Bind(context.Background(), BindRequest{
		Actor: f.owner, PropertyID: f.property, TemplateID: f.template, IsActive: true,
	})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestRebindRecordsEffectiveValueDiff(t *testing.T) {
	f := newPolicyFixture(t)

	// No override: the effective value before the change is the template default.
	resp, err := f.svc.Bind(context.Background(), BindRequest{
		Actor: f.owner, PropertyID: f.property, TemplateID: f.template, IsActive: true,
	})
	require.NoError(t, err)

	override := "small dogs allowed"
	err = f.svc.Rebind(context.Background(), RebindRequest{
		Actor: f.owner, BindingID: resp.BindingID, CustomValue: &override,
	})
	require.NoError(t, err)

	items, err := f.updates.ListForProperty(context.Background(), f.property)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "not allowed", items[0].OldValue)
	require.Equal(t, "small dogs allowed", items[0].NewValue)
	require.Equal(t, f.owner.UserID, items[0].UpdatedBy)
}

func TestRebindSameValueRecordsNothing(t *testing.T) {
	f := newPolicyFixture(t)

	resp, err := f.svc.Bind(context.Background(), BindRequest{
		Actor: f.owner, PropertyID: f.property, TemplateID: f.template,
		CustomValue: "small dogs allowed", IsActive: true,
	})
	require.NoError(t, err)

	same := "small dogs allowed"
	err = f.svc.Rebind(context.Background(), RebindRequest{
		Actor: f.owner, BindingID: resp.BindingID, CustomValue: &same,
	})
	require.NoError(t, err)
	require.Equal(t, 0, f.changeCount(t))
}

func TestRebindClearingOverrideFallsBackToDefault(t *testing.T) {
	f := newPolicyFixture(t)

	resp, err := f.svc.Bind(context.Background(), BindRequest{
		Actor: f.owner, PropertyID: f.property, TemplateID: f.template,
		CustomValue: "small dogs allowed", IsActive: true,
	})
	require.NoError(t, err)

	empty := ""
	err = f.svc.Rebind(context.Background(), RebindRequest{
		Actor: f.owner, BindingID: resp.BindingID, CustomValue: &empty,
	})
	require.NoError(t, err)

	items, err := f.updates.ListForProperty(context.Background(), f.property)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "small dogs allowed", items[0].OldValue)
	require.Equal(t, "not allowed", items[0].NewValue)

	binding, err := f.bindings.GetBinding(context.Background(), resp.BindingID)
	require.NoError(t, err)
	require.Nil(t, binding.CustomValue)
}

func TestRebindOwnershipIsTransitive(t *testing.T) {
	f := newPolicyFixture(t)
	other := domain.Actor{UserID: "landlord-2", Role: domain.RoleLandlord}

	resp, err := f.svc.Bind(context.Background(), BindRequest{
		Actor: f.owner, PropertyID: f.property, TemplateID: f.template, IsActive: true,
	})
	require.NoError(t, err)

	v := "anything"
	err = f.svc.Rebind(context.Background(), RebindRequest{
		Actor: other, BindingID: resp.BindingID, CustomValue: &v,
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
	require.Equal(t, 0, f.changeCount(t))
}

func TestUnbindRemovesBinding(t *testing.T) {
	f := newPolicyFixture(t)

	resp, err := f.svc.Bind(context.Background(), BindRequest{
		Actor: f.owner, PropertyID: f.property, TemplateID: f.template, IsActive: true,
	})
	require.NoError(t, err)

	err = f.svc.Unbind(context.Background(), UnbindRequest{Actor: f.owner, BindingID: resp.BindingID})
	require.NoError(t, err)

	_, err = f.bindings.GetBinding(context.Background(), resp.BindingID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListForPropertyResolvesOverrides(t *testing.T) {
	f := newPolicyFixture(t)

	_, err := f.svc.Bind(context.Background(), BindRequest{
		Actor: f.owner, PropertyID: f.property, TemplateID: f.template,
		CustomValue: "cats only", IsActive: true,
	})
	require.NoError(t, err)

	resp, err := f.svc.ListForProperty(context.Background(), ListPropertyPoliciesRequest{PropertyID: f.property})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.Equal(t, "cats only", resp.Items[0].Value)
	require.True(t, resp.Items[0].HasOverride)
	require.Equal(t, "Pets", resp.Items[0].Title)
}

func TestListForPropertySkipsInactiveBindings(t *testing.T) {
	f := newPolicyFixture(t)

	_, err := f.svc.Bind(context.Background(), BindRequest{
		Actor: f.owner, PropertyID: f.property, TemplateID: f.template, IsActive: false,
	})
	require.NoError(t, err)

	resp, err := f.svc.ListForProperty(context.Background(), ListPropertyPoliciesRequest{PropertyID: f.property})
	require.NoError(t, err)
	require.Empty(t, resp.Items)
}
