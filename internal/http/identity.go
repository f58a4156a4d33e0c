package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"roomfindr-data/internal/domain"
	"roomfindr-data/internal/store"
)

// Hashing matches the RoomFindr web client's crypto.ts:
// - accountHash = sha256(lower(account))
// - accountPasswordHash = sha256(lower(account) + ":" + password)
func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func normalizeAccount(account string) string {
	return strings.TrimSpace(strings.ToLower(account))
}

func HashAccount(account string) string {
	return sha256Hex(normalizeAccount(account))
}

func HashAccountPassword(account, password string) string {
	return sha256Hex(normalizeAccount(account) + ":" + password)
}

const sessionTTL = 24 * time.Hour

type session struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// IdentityContext resolves the acting principal for a request from its
// bearer token. Sessions live in the KV store (Redis in prod, memory in
// dev/tests) so any instance can resolve any token.
type IdentityContext struct {
	sessions store.KV
}

func NewIdentityContext(sessions store.KV) *IdentityContext {
	return &IdentityContext{sessions: sessions}
}

// IssueToken creates a session for the user and returns the opaque token.
func (ic *IdentityContext) IssueToken(ctx context.Context, u *domain.User) (string, error) {
	token := uuid.NewString()
	payload, err := json.Marshal(session{UserID: u.UserID, Role: u.Role})
	if err != nil {
		return "", err
	}
	if err := ic.sessions.Set(ctx, "session:"+token, string(payload), sessionTTL); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Revoke drops the session (logout).
func (ic *IdentityContext) Revoke(ctx context.Context, token string) error {
	return ic.sessions.Delete(ctx, "session:"+token)
}

// CurrentActor resolves "Authorization: Bearer <token>" to an actor.
// domain.ErrNotAuthenticated on a missing, malformed or expired token.
func (ic *IdentityContext) CurrentActor(r *http.Request) (domain.Actor, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return domain.Actor{}, domain.ErrNotAuthenticated
	}
	token := strings.TrimPrefix(header, "Bearer ")

	payload, err := ic.sessions.Get(r.Context(), "session:"+token)
	if err != nil {
		if err == store.ErrMiss {
			return domain.Actor{}, domain.ErrNotAuthenticated
		}
		return domain.Actor{}, fmt.Errorf("failed to load session: %w", err)
	}

	var s session
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return domain.Actor{}, domain.ErrNotAuthenticated
	}
	return domain.Actor{UserID: s.UserID, Role: s.Role}, nil
}
