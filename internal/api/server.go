package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/notify"
	"github.com/vytor/talentscout/internal/services"
	"github.com/vytor/talentscout/internal/session"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

type Server struct {
	Auth        *session.Authenticator
	Sessions    *session.Manager
	Coordinator services.ProfileCoordinator
	Handlers    services.ProfileHandlers
	Evaluations services.EvaluationService
	Experts     services.ExpertDirectoryService
	Inbox       *notify.Inbox
	// Ready reports whether the gateway backend is reachable. Nil means
	// always ready.
	Ready func(ctx context.Context) error
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON reads exactly one JSON object into dst, rejecting unknown
// fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return fmt.Errorf("request body is empty")
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		default:
			return fmt.Errorf("invalid request body: %w", err)
		}
	}
	if dec.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}
