package adminapi

import (
	"encoding/json"
	"net/http"

	"warden/pkg/channels"
	"warden/pkg/problems"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem maps a service error to an RFC 7807 response.
func writeProblem(w http.ResponseWriter, err error) {
	code := channels.ErrorCode(err)
	status := statusFor(code)
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   problems.Type(string(code)),
		"title":  string(code),
		"status": status,
		"detail": err.Error(),
	})
}

func statusFor(code channels.Code) int {
	switch code {
	case channels.EInvalid:
		return http.StatusBadRequest
	case channels.ENotFound:
		return http.StatusNotFound
	case channels.EConflict:
		return http.StatusConflict
	case channels.EGatewayUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
