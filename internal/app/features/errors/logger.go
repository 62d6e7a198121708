// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs handler errors with request context and renders a
// user-facing error page, so handlers don't repeat the same
// log-then-render boilerplate everywhere.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger backed by the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

func (e *ErrorLogger) log(r *http.Request, level string, logMsg string, err error) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if level == "error" {
		e.logger.Error(logMsg, fields...)
	} else {
		e.logger.Warn(logMsg, fields...)
	}
}

// LogServerError logs err at error level and renders a 500 error page with
// the given user-facing message and back link.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log(r, "error", logMsg, err)
	renderErrorPage(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs err at warn level and renders a 400 error page with
// the given user-facing message and back link.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log(r, "warn", logMsg, err)
	renderErrorPage(w, r, http.StatusBadRequest, "Invalid request", userMsg, backURL)
}

// HTMXLogServerError logs err at error level and writes a plain-text 500
// fragment suitable for an hx-target swap.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log(r, "error", logMsg, err)
	http.Error(w, userMsg, http.StatusInternalServerError)
}

// HTMXLogBadRequest logs err at warn level and writes a plain-text 400
// fragment suitable for an hx-target swap.
func (e *ErrorLogger) HTMXLogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log(r, "warn", logMsg, err)
	http.Error(w, userMsg, http.StatusBadRequest)
}
