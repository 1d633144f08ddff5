package apkcfghttp

import (
	"errors"
	"net/http"

	"github.com/frantjc/apkcfg"
)

func newHTTPStatusCodeError(err error, httpStatusCode int) error {
	if err == nil {
		return nil
	}

	if 600 <= httpStatusCode || httpStatusCode < 100 {
		httpStatusCode = http.StatusInternalServerError
	}

	return &httpStatusCodeError{
		err:            err,
		httpStatusCode: httpStatusCode,
	}
}

type httpStatusCodeError struct {
	err            error
	httpStatusCode int
}

func (e *httpStatusCodeError) Error() string {
	if e.err == nil {
		return ""
	}

	return e.err.Error()
}

func (e *httpStatusCodeError) Unwrap() error {
	return e.err
}

// httpStatusCode returns the status code that err was wrapped with, if any.
// Otherwise, configuration errors are the client's fault and everything
// else is the server's.
func httpStatusCode(err error) int {
	hscerr := &httpStatusCodeError{}
	if errors.As(err, &hscerr) {
		return hscerr.httpStatusCode
	}

	if apkcfg.IsConfigError(err) {
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}
