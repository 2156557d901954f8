package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"parana-shopper/internal/apperror"
	"parana-shopper/internal/logger"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var errBadBody = apperror.New(apperror.ErrInvalidInput, "malformed request body")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch apperror.Kind(err) {
	case apperror.ErrNotFound:
		return http.StatusNotFound
	case apperror.ErrInvalidInput:
		return http.StatusBadRequest
	case apperror.ErrEmptyState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.FromCtx(ctx).Error("request failed", zap.String("layer", "rest"), zap.Error(err))
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}
