package middleware

import (
	"fmt"
	"go-blog-app/internal/logger"
	"net/http"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error      error
	Message    string
	Code       int
	Violations interface{}
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// Error is a middleware that converts handler errors into JSON error responses.
func Error(log logger.Logger) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					writeError(w, r, http.StatusInternalServerError, "Internal Server Error", nil)
				}
			}()

			appErr := next(w, r)
			if appErr == nil {
				return
			}
			if appErr.Code >= http.StatusInternalServerError {
				log.Error(appErr.Error, appErr.Message)
			} else {
				log.Debug(fmt.Sprintf("%s: %v", appErr.Message, appErr.Error))
			}
			writeError(w, r, appErr.Code, appErr.Message, appErr.Violations)
		})
	}
}
