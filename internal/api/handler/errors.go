package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kiranshivaraju/shopdash/internal/api/response"
	"github.com/kiranshivaraju/shopdash/internal/shopapi"
)

// writeBackendError maps shop backend failures to the error envelope.
func writeBackendError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shopapi.ErrBackendTimeout):
		response.Error(w, http.StatusGatewayTimeout, "BACKEND_TIMEOUT",
			"The shop backend took too long to respond", nil)
	case errors.Is(err, shopapi.ErrBackendUnreachable):
		response.Error(w, http.StatusBadGateway, "BACKEND_UNAVAILABLE",
			"The shop backend is not reachable", nil)
	case errors.Is(err, shopapi.ErrBackendStatus):
		response.Error(w, http.StatusBadGateway, "BACKEND_ERROR",
			"The shop backend returned an error", nil)
	case errors.Is(err, shopapi.ErrInvalidPayload):
		response.Error(w, http.StatusBadGateway, "INVALID_BACKEND_PAYLOAD",
			"The shop backend returned data that could not be read", nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}

// decodeBody decodes a JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return false
	}
	return true
}
