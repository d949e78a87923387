package api

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/profinfo/pkg/profinfo"
)

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{Message: msg, Type: errType},
	})
}

// writeLoadError maps a decoding failure to a response. Corrupt dumps are
// reported as unprocessable rather than as server faults.
func writeLoadError(c *echo.Context, name string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return writeNotFound(c, fmt.Sprintf("profile %q not found", name))
	case errors.Is(err, profinfo.ErrTruncated), errors.Is(err, profinfo.ErrUnknownPacket):
		return writeError(c, http.StatusUnprocessableEntity, "invalid_profile_error", err.Error())
	}
	return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var v T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, errors.New("request body is empty")
		}
		return v, fmt.Errorf("invalid JSON body: %w", err)
	}
	return v, nil
}
