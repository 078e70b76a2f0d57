package postgres

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vytor/talentscout/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// gatewayError passes Postgres SQLSTATE codes through verbatim.
func gatewayError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &repository.GatewayError{Code: pgErr.Code, Message: pgErr.Message, Err: err}
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || errors.Is(err, pgx.ErrTxClosed) {
		return &repository.GatewayError{Code: repository.CodeUnavailable, Message: err.Error(), Err: err}
	}
	return &repository.GatewayError{Message: err.Error(), Err: err}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
