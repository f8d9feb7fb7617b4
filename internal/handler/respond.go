package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mintreplica/mintlite/internal/apperr"
	"github.com/mintreplica/mintlite/internal/ctxkeys"
	"github.com/mintreplica/mintlite/internal/middleware"
	"github.com/mintreplica/mintlite/internal/service"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("request body is empty: %w", apperr.ErrInvalidArgument)
	}
	if err != nil {
		return fmt.Errorf("invalid request body: %s: %w", err.Error(), apperr.ErrInvalidArgument)
	}
	return nil
}

// writeServiceError maps error kinds to status codes. Anything unexpected is logged and
// reported as a 500 without details.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrPreconditionFailed):
		middleware.WriteError(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, service.ErrExportDisabled):
		middleware.WriteError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error(msg,
			"error", err,
			"user_id", ctxkeys.UserID(r.Context()),
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		middleware.WriteError(w, http.StatusInternalServerError, msg)
	}
}

// Date accepts "2006-01-02" or RFC 3339 in request bodies.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD or RFC 3339", s)
	}

	d.Time = t.UTC()
	return nil
}
