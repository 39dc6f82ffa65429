// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

// Recovery is the last line of error handling: any panic escaping a handler
// becomes a 500 {"message": "<panic value>"} and the stack is logged.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			msg := fmt.Sprint(rec)
			if err, ok := rec.(error); ok {
				msg = err.Error()
			}
			logger.WithCtx(r.Context()).Error("panic recovered",
				"error", msg,
				"stack", string(debug.Stack()),
				"method", r.Method,
				"path", r.URL.Path,
			)
			response.Message(w, http.StatusInternalServerError, msg)
		}()
		next.ServeHTTP(w, r)
	})
}
