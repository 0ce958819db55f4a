package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ranihwanifactory/mya/internal/db"
)

const maxBodyBytes = 1 << 20

func DecodeJSON(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

// ValidationDetails maps each failing field, by its JSON name, to the rule it
// broke, e.g. "required" or "max=120". Slice elements keep their index, as in
// "selected_features[1]".
func ValidationDetails(errs validator.ValidationErrors) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		rule := err.Tag()
		if p := err.Param(); p != "" {
			rule += "=" + p
		}
		details[err.Field()] = rule
	}
	return details
}

// StoreFailure maps a store error to the response status and message shown
// to the client. Permission problems get their own message so an operator
// knows to check the database access rules rather than retry.
func StoreFailure(err error) (int, string) {
	if errors.Is(err, db.ErrPermissionDenied) {
		return http.StatusForbidden, "permission denied: check the database access rules for this service"
	}
	return http.StatusServiceUnavailable, "storage unavailable, please retry"
}
