package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/deskhive/apiserver/types"
)

type contextKey string

const contextPrincipalKey contextKey = "principal"

// Principal is the authenticated identity attached to a request after
// token verification.
type Principal struct {
	UserID int
	Role   types.Role
}

func contextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, contextPrincipalKey, principal)
}

func principalFromContext(ctx context.Context) (Principal, error) {
	principal, ok := ctx.Value(contextPrincipalKey).(Principal)
	if !ok || principal.UserID < 1 {
		return Principal{}, errors.New("missing principal")
	}
	return principal, nil
}

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// Health is the liveness probe.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
