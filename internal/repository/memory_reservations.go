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

// MemoryReservationsRepo supports reservations when DB is disabled.
type MemoryReservationsRepo struct {
	mu           sync.RWMutex
	reservations map[string]domain.Reservation // reservationID -> reservation
}

func NewMemoryReservationsRepo() *MemoryReservationsRepo {
	return &MemoryReservationsRepo{
		reservations: map[string]domain.Reservation{},
	}
}

var _ ReservationsRepository = (*MemoryReservationsRepo)(nil)

func (r *MemoryReservationsRepo) GetReservation(_ context.Context, reservationID string) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.reservations[reservationID]
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, domain.ErrNotFound)
	}
	return &res, nil
}

func (r *MemoryReservationsRepo) CreateReservation(_ context.Context, res *domain.Reservation) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res.ReservationID == "" {
		res.ReservationID = uuid.NewString()
	}
	if res.Status == "" {
		res.Status = domain.ReservationPending
	}
	stored := *res
	stored.CreatedAt = time.Now()
	r.reservations[stored.ReservationID] = stored
	return stored.ReservationID, nil
}

func (r *MemoryReservationsRepo) ListForProperty(_ context.Context, propertyID string, statuses []string) ([]*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statusSet := map[string]bool{}
	for _, s := range statuses {
		statusSet[s] = true
	}

	var result []*domain.Reservation
	for _, res := range r.reservations {
		if res.PropertyID != propertyID {
			continue
		}
		if len(statusSet) > 0 && !statusSet[res.Status] {
			continue
		}
		copied := res
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
