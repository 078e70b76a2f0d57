package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/vytor/talentscout/internal/errors"
)

func errNotFound(r *http.Request) error {
	return errors.NewNotFoundError("route", r.Method+" "+r.URL.Path)
}

func errMethodNotAllowed(r *http.Request) error {
	return &errors.AppError{
		Code:    "METHOD_NOT_ALLOWED",
		Message: fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path),
		Status:  http.StatusMethodNotAllowed,
	}
}

// formText is a form field as entered. JSON numbers are accepted and kept
// as their literal text so numeric parsing happens in one place. A JSON null
// leaves the field nil, the same as omitting it.
type formText string

func (t *formText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = formText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("must be a string or number")
	}
	*t = formText(n.String())
	return nil
}

func (t *formText) text() string {
	if t == nil {
		return ""
	}
	return string(*t)
}

// requireFields fails on the first field that was absent from the body.
func requireFields(fields ...namedField) error {
	var missing []string
	for _, f := range fields {
		if f.value == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &errors.AppError{
			Code:    errors.ErrCodeValidation,
			Message: "missing required field(s): " + strings.Join(missing, ", "),
			Status:  http.StatusBadRequest,
			Field:   missing[0],
		}
	}
	return nil
}

type namedField struct {
	name  string
	value *formText
}
