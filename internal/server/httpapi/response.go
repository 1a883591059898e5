package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ppetrovs/authd/internal/server/users"
)

const (
	statusOK   = "OK"
	statusFail = "FAIL"
)

// envelope is the uniform response body. Data is omitted when empty, so
// failures come back as just {status, message}.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}

func respondOK(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, envelope{Status: statusOK, Message: message, Data: data})
}

func respondFail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, envelope{Status: statusFail, Message: message})
}

// userPayload is the public view of an account. Password hash and refresh
// token have no place here.
type userPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserPayload(u *users.User) *userPayload {
	if u == nil {
		return nil
	}
	return &userPayload{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
