// Package handlers contains the HTTP handlers and the resource middleware
// stages for the budget and expense routes.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// decodeJSON decodes a request body into dst. An empty body is not an
// error: the zero payload flows into validation, which reports every
// missing field instead of a bare bad-request.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
