package sqlite

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
	"github.com/vytor/talentscout/internal/repository"
)

// Helper functions shared across repository implementations

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// gatewayError translates driver errors into the Postgres codes every
// gateway reports. Context errors pass through untouched.
func gatewayError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var gwErr *repository.GatewayError
	if errors.As(err, &gwErr) {
		return err
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return &repository.GatewayError{Message: err.Error(), Err: err}
	}

	code := ""
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		code = repository.CodeUniqueViolation
	case sqlite3.ErrConstraintForeignKey:
		code = repository.CodeForeignKey
	case sqlite3.ErrConstraintNotNull:
		code = repository.CodeNotNull
	case sqlite3.ErrConstraintCheck:
		code = repository.CodeCheckViolation
	default:
		switch sqliteErr.Code {
		case sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrReadonly:
			code = repository.CodePermissionDenied
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
			code = repository.CodeUnavailable
		}
	}
	return &repository.GatewayError{Code: code, Message: sqliteErr.Error(), Err: err}
}

// List columns are stored as JSON arrays.
func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// decodeLists decodes raw JSON columns into the matching destinations.
func decodeLists(pairs map[*[]string]string) error {
	for dst, raw := range pairs {
		list, err := decodeList(raw)
		if err != nil {
			return err
		}
		*dst = list
	}
	return nil
}

func encodeLists(lists ...[]string) ([]string, error) {
	out := make([]string, len(lists))
	for i, l := range lists {
		enc, err := encodeList(l)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}
