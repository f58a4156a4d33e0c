package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roomfindr-data/internal/domain"
	"roomfindr-data/internal/repository"
)

type agreementFixture struct {
	*policyFixture
	svc        RentalAgreementService
	agreements *repository.MemoryRentalAgreementsRepo
	tenant     domain.Actor
}

func newAgreementFixture(t *testing.T) *agreementFixture {
	t.Helper()
	base := newPolicyFixture(t)
	agreements := repository.NewMemoryRentalAgreementsRepo()
	return &agreementFixture{
		policyFixture: base,
		agreements:    agreements,
		svc:           NewRentalAgreementService(agreements, base.reservations, base.properties, base.bindings, zap.NewNop()),
		tenant:        domain.Actor{UserID: "tenant-1", Role: domain.RoleTenant},
	}
}

func (f *agreementFixture) reserve(t *testing.T) string {
	t.Helper()
	id, err := f.reservations.CreateReservation(context.Background(), &domain.Reservation{
		PropertyID: f.property,
		TenantID:   f.tenant.UserID,
		Status:     domain.ReservationPending,
		StartDate:  time.Now().AddDate(0, 1, 0),
		EndDate:    time.Now().AddDate(0, 7, 0),
	})
	require.NoError(t, err)
	return id
}

func TestBuildSnapshotsActivePolicies(t *testing.T) {
	f := newAgreementFixture(t)

	_, err := f.policyFixture.svc.Bind(context.Background(), BindRequest{
		Actor: f.owner, PropertyID: f.property, TemplateID: f.template,
		CustomValue: "cats only", IsActive: true,
	})
	require.NoError(t, err)

	reservationID := f.reserve(t)
	resp, err := f.svc.Build(context.Background(), BuildAgreementRequest{ReservationID: reservationID})
	require.NoError(t, err)

	a := resp.Agreement
	require.NotNil(t, a)
	require.Equal(t, reservationID, a.ReservationID)
	require.Equal(t, f.property, a.PropertyID)
	require.Equal(t, f.tenant.UserID, a.TenantID)
	require.Equal(t, f.owner.UserID, a.LandlordID)
	require.False(t, a.TermsAccepted)
	require.Nil(t, a.AcceptedAt)

	require.Len(t, a.Policies, 1)
	p := a.Policies[0]
	require.Equal(t, f.template, p.TemplateID)
	require.Equal(t, "cats only", p.Value)
	require.Equal(t, 1, p.TemplateVersion)
	require.True(t, p.IsRequired) // system template
}

func TestBuildIsIdempotent(t *testing.T) {
	f := newAgreementFixture(t)
	reservationID := f.reserve(t)

	first, err := f.svc.Build(context.Background(), BuildAgreementRequest{ReservationID: reservationID})
	require.NoError(t, err)

	second, err := f.svc.Build(context.Background(), BuildAgreementRequest{ReservationID: reservationID})
	require.NoError(t, err)
	require.Equal(t, first.Agreement.AgreementID, second.Agreement.AgreementID)
	require.Equal(t, first.Agreement.CreatedAt, second.Agreement.CreatedAt)
}

func TestBuildWithNoActiveBindingsYieldsEmptySnapshot(t *testing.T) {
	f := newAgreementFixture(t)
	reservationID := f.reserve(t)

	resp, err := f.svc.Build(context.Background(), BuildAgreementRequest{ReservationID: reservationID})
	require.NoError(t, err)
	require.NotNil(t, resp.Agreement.Policies)
	require.Empty(t, resp.Agreement.Policies)
}

func TestBuildUnknownReservation(t *testing.T) {
	f := newAgreementFixture(t)

	_, err := f.svc.Build(context.Background(), BuildAgreementRequest{ReservationID: "missing"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSnapshotIsImmuneToLaterEdits(t *testing.T) {
	f := newAgreementFixture(t)

	bindResp, err := f.policyFixture.svc.Bind(context.Background(), BindRequest{
		Actor: f.owner, PropertyID: f.property, TemplateID: f.template, IsActive: true,
	})
	require.NoError(t, err)

	reservationID := f.reserve(t)
	built, err := f.svc.Build(context.Background(), BuildAgreementRequest{ReservationID: reservationID})
	require.NoError(t, err)
	require.Equal(t, "not allowed", built.Agreement.Policies[0].Value)

	// Landlord tightens the policy after the reservation was made.
	override := "no pets whatsoever"
	err = f.policyFixture.svc.Rebind(context.Background(), RebindRequest{
		Actor: f.owner, BindingID: bindResp.BindingID, CustomValue: &override,
	})
	require.NoError(t, err)

	reread, err := f.svc.GetForReservation(context.Background(), GetAgreementRequest{ReservationID: reservationID})
	require.NoError(t, err)
	require.Equal(t, "not allowed", reread.Agreement.Policies[0].Value)
}

func TestAcceptByNamedTenantOnly(t *testing.T) {
	f := newAgreementFixture(t)
	reservationID := f.reserve(t)

	built, err := f.svc.Build(context.Background(), BuildAgreementRequest{ReservationID: reservationID})
	require.NoError(t, err)
	agreementID := built.Agreement.AgreementID

	stranger := domain.Actor{UserID: "tenant-2", Role: domain.RoleTenant}
	_, err = f.svc.Accept(context.Background(), AcceptAgreementRequest{Actor: stranger, AgreementID: agreementID})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)

	accepted, err := f.svc.Accept(context.Background(), AcceptAgreementRequest{Actor: f.tenant, AgreementID: agreementID})
	require.NoError(t, err)
	require.True(t, accepted.Agreement.TermsAccepted)
	require.NotNil(t, accepted.Agreement.AcceptedAt)
	require.NotNil(t, accepted.Agreement.AcceptedBy)
	require.Equal(t, f.tenant.UserID, *accepted.Agreement.AcceptedBy)
}

func TestAcceptIsIdempotent(t *testing.T) {
	f := newAgreementFixture(t)
	reservationID := f.reserve(t)

	built, err := f.svc.Build(context.Background(), BuildAgreementRequest{ReservationID: reservationID})
	require.NoError(t, err)
	agreementID := built.Agreement.AgreementID

	first, err := f.svc.Accept(context.Background(), AcceptAgreementRequest{Actor: f.tenant, AgreementID: agreementID})
	require.NoError(t, err)

	second, err := f.svc.Accept(context.Background(), AcceptAgreementRequest{Actor: f.tenant, AgreementID: agreementID})
	require.NoError(t, err)
	require.Equal(t, first.Agreement.AcceptedAt, second.Agreement.AcceptedAt)
}

func TestAcceptUnknownAgreement(t *testing.T) {
	f := newAgreementFixture(t)

	_, err := f.svc.Accept(context.Background(), AcceptAgreementRequest{Actor: f.tenant, AgreementID: "missing"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetForReservationAbsentIsNotAnError(t *testing.T) {
	f := newAgreementFixture(t)
	reservationID := f.reserve(t)

	resp, err := f.svc.GetForReservation(context.Background(), GetAgreementRequest{ReservationID: reservationID})
	require.NoError(t, err)
	require.Nil(t, resp.Agreement)
}

// Exercised separately from the fixture: a lost check-then-insert race
// surfaces as ErrConflict from the repo and must resolve to the winner's row.
func TestBuildLosesInsertRaceGracefully(t *testing.T) {
	f := newAgreementFixture(t)
	reservationID := f.reserve(t)

	// Simulate the other builder winning between the fast-path read and the insert.
	winner := &domain.RentalAgreement{
		ReservationID: reservationID,
		PropertyID:    f.property,
		TenantID:      f.tenant.UserID,
		LandlordID:    f.owner.UserID,
		Policies:      []domain.AgreementPolicy{},
	}
	racer := &racingAgreementsRepo{MemoryRentalAgreementsRepo: f.agreements, winner: winner}
	svc := NewRentalAgreementService(racer, f.reservations, f.properties, f.bindings, zap.NewNop())

	resp, err := svc.Build(context.Background(), BuildAgreementRequest{ReservationID: reservationID})
	require.NoError(t, err)
	require.Equal(t, winner.AgreementID, resp.Agreement.AgreementID)
}

// racingAgreementsRepo inserts the winner's row the first time the reader
// reports "not found", so the service's own insert hits the unique conflict.
type racingAgreementsRepo struct {
	*repository.MemoryRentalAgreementsRepo
	winner *domain.RentalAgreement
	raced  bool
}

func (r *racingAgreementsRepo) CreateAgreement(ctx context.Context, a *domain.RentalAgreement) (string, error) {
	if !r.raced {
		r.raced = true
		if _, err := r.MemoryRentalAgreementsRepo.CreateAgreement(ctx, r.winner); err != nil {
			return "", err
		}
	}
	return r.MemoryRentalAgreementsRepo.CreateAgreement(ctx, a)
}

var _ repository.RentalAgreementsRepository = (*racingAgreementsRepo)(nil)
