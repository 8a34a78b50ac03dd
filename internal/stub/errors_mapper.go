package stub

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-risk-console/internal/validators"
)

var errorStatusMap = map[error]int{
	ErrInvalidCredentials:  http.StatusUnauthorized,
	ErrUnknownUser:         http.StatusUnauthorized,
	ErrUnknownResource:     http.StatusNotFound,
	ErrResourceNotEditable: http.StatusUnprocessableEntity,
	ErrBadPatch:            http.StatusBadRequest,
	ErrBadActionBody:       http.StatusBadRequest,
	ErrUnknownAction:       http.StatusUnprocessableEntity,
	ErrSessionNotFound:     http.StatusUnprocessableEntity,
	ErrCurrentSession:      http.StatusUnprocessableEntity,
}

func statusFromError(err error) int {
	// validation failures of a patched document are field-scoped
	var fieldErr *validators.FieldError
	if errors.As(err, &fieldErr) {
		return http.StatusUnprocessableEntity
	}

	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
