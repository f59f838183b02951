// Package apperr is the error taxonomy shared by repositories, services and
// controllers. Controllers translate an *Error into the JSON envelope via
// helper.FromError; everything below the handler layer returns these.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Kind int

const (
	Unauthenticated Kind = iota // 401 — no/invalid credential
	Forbidden                   // 403 — policy denied
	NotFound                    // 404 — id does not resolve (in tenant)
	Validation                  // 400 — missing/malformed input
	Conflict                    // 409 — uniqueness/referential safety
	Internal                    // 500 — store/cache unreachable, unexpected
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string // per-field validation details, optional
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func WithFields(kind Kind, message string, fields map[string]string) *Error {
	return &Error{Kind: kind, Message: message, Fields: fields}
}

// HTTPStatus maps a kind to its response code.
func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthenticated:
		return fiber.StatusUnauthorized
	case Forbidden:
		return fiber.StatusForbidden
	case NotFound:
		return fiber.StatusNotFound
	case Validation:
		return fiber.StatusBadRequest
	case Conflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// FromGorm classifies a store error. Requires gorm.Config{TranslateError:true}
// so driver-level unique violations surface as gorm.ErrDuplicatedKey; the
// constraint closes the check-then-insert race, this just names it.
// Returns a plain nil for a nil input so it is safe as a tail call.
func FromGorm(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return New(NotFound, notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return New(Conflict, "Duplicate value violates a uniqueness constraint")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return New(Conflict, "Operation violates a referential constraint")
	}
	return New(Internal, "Internal server error")
}

// As unwraps err into *Error, defaulting to Internal for unknown errors.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(Internal, "Internal server error")
}
