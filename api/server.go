/*
server.go - HTTP router and middleware configuration

Connects URLs to handlers. Middleware: panic recovery, per-request IDs,
structured request logging (zerolog) and CORS for the frontend.
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/colmados", func(r chi.Router) {
			r.Get("/", h.ListColmados)
			r.Post("/", h.CreateColmado)
			r.Get("/{id}", h.GetColmado)
			r.Get("/{id}/cycle", h.GetCycle)
			r.Get("/{id}/ventas", h.ListVentas)
			r.Post("/{id}/ventas", h.SubmitVenta)
			r.Get("/{id}/balances", h.ListBalances)
			r.Post("/{id}/balances", h.SubmitBalance)
		})

		r.Post("/seed", h.LoadSeed)
	})

	return r
}

// requestLogger logs one line per request with method, path, status and
// duration.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
