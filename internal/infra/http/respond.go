package http

import (
	"encoding/json"
	"net/http"

	"github.com/Spok95/shelf-timer/internal/domain/users"
	"github.com/Spok95/shelf-timer/internal/infra/metrics"
)

type userHandler func(w http.ResponseWriter, r *http.Request, u users.User)

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

// route: Basic-авторизация по таблице пользователей + счётчик запросов.
func (a *API) route(mux *http.ServeMux, pattern, name string, h userHandler) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		defer func() { metrics.ObserveHTTP(name, rec.code) }()

		login, password, ok := r.BasicAuth()
		if !ok {
			unauthorized(rec)
			return
		}
		u, err := a.users.Authenticate(login, password)
		if err != nil {
			a.log.Warn("api auth failed", "user", login)
			unauthorized(rec)
			return
		}
		h(rec, r, u)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="shelftimer"`)
	writeError(w, http.StatusUnauthorized, "unauthorized")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
