package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes surfaced to clients. Validation and blank-signature errors are
// resolved locally; submission and transport errors come back from the store.
const (
	CodeValidation     = "validation_error"
	CodeBlankSignature = "blank_signature"
	CodeSubmission     = "submission_error"
	CodeTransport      = "transport_error"
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeInvalidState   = "invalid_state"
)

type Error struct {
	Status int
	Code   string
	Err    error

	// Fields carries per-field messages for validation rejections.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation wraps a field-name to message mapping. An empty mapping never
// becomes an error; callers check before constructing.
func Validation(fields map[string]string) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Code:   CodeValidation,
		Err:    errors.New("le formulaire contient des erreurs"),
		Fields: fields,
	}
}

func BlankSignature() *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Code:   CodeBlankSignature,
		Err:    errors.New("veuillez signer pour approuver le contrat"),
	}
}

func NotFound(what string) *Error {
	return &Error{
		Status: http.StatusNotFound,
		Code:   CodeNotFound,
		Err:    fmt.Errorf("%s introuvable", what),
	}
}

// Submission marks a store-side rejection: the lifecycle state must not
// advance and the draft stays editable.
func Submission(err error) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: CodeSubmission, Err: err}
}

// Transport marks a connectivity failure, surfaced distinctly from a
// validation rejection so the user retries instead of correcting input.
func Transport(err error) *Error {
	return &Error{Status: http.StatusBadGateway, Code: CodeTransport, Err: err}
}

func Conflict(err error) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeConflict, Err: err}
}

func InvalidState(err error) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeInvalidState, Err: err}
}

// AsError returns the *Error inside err, or wraps err as a transport error
// when it carries no API shape of its own.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Transport(err)
}
