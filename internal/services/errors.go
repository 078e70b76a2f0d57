package services

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/vytor/talentscout/internal/errors"
	"github.com/vytor/talentscout/internal/repository"
)

// gatewayFailure converts a repository error into the AppError shown to the
// caller. Gateway messages are passed through unchanged.
func gatewayFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(op, err)
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.NewCanceledError(op, err)
	}
	var gwErr *repository.GatewayError
	if errors.As(err, &gwErr) {
		return apperrors.NewGatewayError(gatewayStatus(gwErr.Code), gwErr.Message, err)
	}
	return apperrors.NewInternalError(err)
}

func gatewayStatus(code string) int {
	switch code {
	case repository.CodeNotFound:
		return http.StatusNotFound
	case repository.CodeUniqueViolation:
		return http.StatusConflict
	case repository.CodePermissionDenied:
		return http.StatusForbidden
	case repository.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
