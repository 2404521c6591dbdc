package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT" // malformed input, bad pagination
	CodeBadRequest      Code = "BAD_REQUEST"      // business rule violation
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func Invalid(msg string) *APIError    { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func BadRequest(msg string) *APIError { return &APIError{Code: CodeBadRequest, Message: msg} }
func NotFound(msg string) *APIError   { return &APIError{Code: CodeNotFound, Message: msg} }
func Conflict(msg string) *APIError   { return &APIError{Code: CodeConflict, Message: msg} }
func Internal(msg string) *APIError   { return &APIError{Code: CodeInternal, Message: msg} }

// CodeOf extracts the error code, CodeInternal for anything untagged.
func CodeOf(err error) Code {
	var api *APIError
	if errors.As(err, &api) {
		return api.Code
	}
	return CodeInternal
}

func ToHTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidArgument, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ---------- response body ----------

type ErrorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func Body(code Code, msg string) ErrorDTO {
	var e ErrorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func BodyFromErr(err error) ErrorDTO {
	var api *APIError
	if errors.As(err, &api) {
		return Body(api.Code, api.Message)
	}
	return Body(CodeInternal, err.Error())
}
