package middleware

import (
	"net/http"
	"runtime/debug"

	"schedule-engine/pkg/response"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// RecoveryMiddleware восстанавливает сервер после паники в обработчике и
// логирует полный stack trace. Клиент получает общий ответ 500 - деталь
// паники наружу не уходит.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("request_id", chiMiddleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Str("stack_trace", string(debug.Stack())).
					Msg("Handler panic recovered")

				response.InternalError(w, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
