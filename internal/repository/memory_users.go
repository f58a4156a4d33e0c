package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"roomfindr-data/internal/domain"
)

// MemoryUsersRepo supports login/actor resolution when DB is disabled.
type MemoryUsersRepo struct {
	mu     sync.RWMutex
	users  map[string]domain.User // userID -> user
	byHash map[string]string      // accountHash -> userID
}

func NewMemoryUsersRepo() *MemoryUsersRepo {
	return &MemoryUsersRepo{
		users:  map[string]domain.User{},
		byHash: map[string]string{},
	}
}

var _ UsersRepository = (*MemoryUsersRepo)(nil)

func (r *MemoryUsersRepo) GetUser(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return &u, nil
}

func (r *MemoryUsersRepo) GetByAccountHash(_ context.Context, accountHash string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byHash[accountHash]
	if !ok {
		return nil, fmt.Errorf("account: %w", domain.ErrNotFound)
	}
	u := r.users[id]
	return &u, nil
}

func (r *MemoryUsersRepo) CreateUser(_ context.Context, u *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	if u.Status == "" {
		u.Status = "active"
	}
	stored := *u
	stored.CreatedAt = time.Now()
	r.users[stored.UserID] = stored
	r.byHash[stored.AccountHash] = stored.UserID
	return stored.UserID, nil
}
