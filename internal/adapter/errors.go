package adapter

import "errors"

// Transport error sentinels mapped from HTTP status codes by mapHTTPError.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("resource not found")
	ErrConflict            = errors.New("conflict")
	ErrUnprocessable       = errors.New("unprocessable document")
	ErrInternalServerError = errors.New("internal server error")
	ErrUnavailable         = errors.New("server unavailable")
)
