package errorx

import "fmt"

type Error struct {
	Code    Code
	Message string
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) Error() string {
	return e.Message
}

// HTTPStatus returns the status code written to the client for this error.
func (e Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}
