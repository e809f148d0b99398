package handlers

import (
	"fmt"
	"net/http"
)

// Handler returns a Result instead of writing the response itself; main
// encodes it and logs failures by code.
type Handler func(http.ResponseWriter, *http.Request) Result

type Result struct {
	Error error
	Code  int
	Body  any
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func Ok(body any) Result {
	return Result{Code: http.StatusOK, Body: body}
}

func Accepted(body any) Result {
	return Result{Code: http.StatusAccepted, Body: body}
}

func BadRequest(message string) Result {
	return clientError(http.StatusBadRequest, message)
}

func Unauthorized(message string) Result {
	return clientError(http.StatusUnauthorized, message)
}

// InternalError hides err from the caller. The message prefixes err in logs.
func InternalError(err error, message string) Result {
	return Result{
		Error: fmt.Errorf("%s: %w", message, err),
		Code:  http.StatusInternalServerError,
	}
}

// BadGateway reports an upstream reddit failure. Unlike InternalError the
// message is shown to the caller, since it is what the feed view displays.
func BadGateway(err error, message string) Result {
	res := clientError(http.StatusBadGateway, message)
	res.Error = err
	return res
}

func clientError(code int, message string) Result {
	return Result{Code: code, Body: ErrorResponse{message}}
}
