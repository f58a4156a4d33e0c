package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"roomfindr-data/internal/domain"
	"roomfindr-data/internal/repository"
)

// AuthHandler login/logout endpoints.
type AuthHandler struct {
	users    repository.UsersRepository
	identity *IdentityContext
	logger   *zap.Logger
}

func NewAuthHandler(users repository.UsersRepository, identity *IdentityContext, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, identity: identity, logger: logger}
}

type loginPayload struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

type loginResult struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// Login POST /auth/api/v1/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if payload.Account == "" || payload.Password == "" {
		writeJSON(w, http.StatusBadRequest, Fail("account and password are required"))
		return
	}

	user, err := h.users.GetByAccountHash(r.Context(), HashAccount(payload.Account))
	if err != nil {
		// Same response for unknown account and wrong password.
		writeJSON(w, http.StatusUnauthorized, Fail("invalid credentials"))
		return
	}
	if user.PasswordHash != HashAccountPassword(payload.Account, payload.Password) {
		writeJSON(w, http.StatusUnauthorized, Fail("invalid credentials"))
		return
	}
	if user.Status != "active" {
		writeJSON(w, http.StatusForbidden, Fail("account is suspended"))
		return
	}

	token, err := h.identity.IssueToken(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to issue session token", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(loginResult{
		Token:    token,
		UserID:   user.UserID,
		Nickname: user.Nickname,
		Role:     user.Role,
	}))
}

// Logout POST /auth/api/v1/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		_ = h.identity.Revoke(r.Context(), strings.TrimPrefix(header, "Bearer "))
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// requireActor resolves the current actor or writes the 401 envelope.
func requireActor(w http.ResponseWriter, r *http.Request, identity *IdentityContext) (domain.Actor, bool) {
	actor, err := identity.CurrentActor(r)
	if err != nil {
		writeServiceError(w, err)
		return domain.Actor{}, false
	}
	return actor, true
}
