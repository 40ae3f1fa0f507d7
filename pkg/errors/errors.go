package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTermNotFound      = errors.New("term not found")
	ErrInvalidTerm       = errors.New("invalid term")
	ErrPageExists        = errors.New("page already indexed")
	ErrPageNotFound      = errors.New("page not found")
	ErrSiteNotFound      = errors.New("site not found")
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrNotADirectory     = errors.New("not a directory")
	ErrNotAPage          = errors.New("not a page")
	ErrNoHomePage        = errors.New("site has no home page")
	ErrInvalidURL        = errors.New("invalid url")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInternal          = errors.New("internal error")
	ErrTimeout           = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrTermNotFound),
		errors.Is(err, ErrPageNotFound),
		errors.Is(err, ErrSiteNotFound),
		errors.Is(err, ErrDirectoryNotFound),
		errors.Is(err, ErrNoHomePage):
		return http.StatusNotFound
	case errors.Is(err, ErrPageExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidTerm),
		errors.Is(err, ErrInvalidURL),
		errors.Is(err, ErrNotADirectory),
		errors.Is(err, ErrNotAPage):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
