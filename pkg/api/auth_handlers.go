package api

import (
	"errors"
	"net/http"

	"github.com/recouvro/recouvro/pkg/apperrors"
	"github.com/recouvro/recouvro/pkg/auth"
	"github.com/recouvro/recouvro/pkg/httputil"
	"github.com/recouvro/recouvro/pkg/observability"
)

// AuthHandlers handles registration and login.
type AuthHandlers struct {
	users   *auth.Store
	issuer  auth.TokenIssuer
	metrics *observability.Metrics
}

// NewAuthHandlers creates the auth handlers.
func NewAuthHandlers(users *auth.Store, issuer auth.TokenIssuer, metrics *observability.Metrics) *AuthHandlers {
	return &AuthHandlers{users: users, issuer: issuer, metrics: metrics}
}

type credentialsRequest struct {
	Username string    `json:"username"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role,omitempty"`
}

// authResponse is returned by both register and login. The token is the only
// credential the client ever holds; the password hash never leaves the store.
type authResponse struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Role     auth.Role `json:"role"`
	Token    string    `json:"token"`
}

// register handles POST /api/auth/register. Duplicate usernames (any case)
// are rejected; the role defaults to public and is settable only here.
func (h *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, err := h.users.Create(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		// The historical surface reports duplicate usernames as a 400.
		if errors.Is(err, apperrors.ErrConflict) {
			httputil.WriteErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		httputil.WriteError(w, err)
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, authResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	})
}

// login handles POST /api/auth/login. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.loginFailed(w)
			return
		}
		httputil.WriteError(w, err)
		return
	}

	if !h.users.CheckPassword(user, req.Password) {
		h.loginFailed(w)
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.countAuth("success")
	httputil.WriteSuccess(w, authResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	})
}

func (h *AuthHandlers) loginFailed(w http.ResponseWriter) {
	h.countAuth("failure")
	httputil.WriteErrorMessage(w, http.StatusUnauthorized, "invalid username or password")
}

func (h *AuthHandlers) countAuth(outcome string) {
	if h.metrics != nil {
		h.metrics.AuthAttemptsTotal.WithLabelValues(outcome).Inc()
	}
}
