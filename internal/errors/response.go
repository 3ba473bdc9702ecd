package errors

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jrsteele09/go-warehouse-console/models"
)

const maxErrorBody = 64 << 10

// FromResponse reads the backend's error payload into an APIError of the
// given kind. A nil kind is derived from the status code.
func FromResponse(resp *http.Response, kind error) *APIError {
	if kind == nil {
		kind = KindForStatus(resp.StatusCode)
	}
	var payload models.ErrorResponse
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(body, &payload)

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    payload.Text(),
		Kind:       kind,
	}
}
