package common

import (
	"errors"
	"log"
	"net/http"

	"github.com/matst80/slask-filters/pkg/common/jsoncompat"
)

// HttpError carries the status code a handler wants to answer with.
type HttpError struct {
	Status int
	Err    error
}

func (e *HttpError) Error() string {
	return e.Err.Error()
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func NewHttpError(status int, err error) *HttpError {
	return &HttpError{Status: status, Err: err}
}

// JsonHandler resolves the session and writes the returned value as JSON.
func JsonHandler(fn func(w http.ResponseWriter, r *http.Request, sessionId string, isNew bool) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		sessionId, isNew := HandleSessionCookie(w, r)

		data, err := fn(w, r, sessionId, isNew)
		if err != nil {
			status := http.StatusInternalServerError
			var httpErr *HttpError
			if errors.As(err, &httpErr) {
				status = httpErr.Status
			}
			log.Printf("Error handling request %s %s: %v", r.Method, r.URL.Path, err)
			WriteJson(w, status, map[string]string{"error": err.Error()})
			return
		}
		WriteJson(w, http.StatusOK, data)
	}
}

func WriteJson(w http.ResponseWriter, status int, data any) {
	b, err := jsoncompat.Marshal(data)
	if err != nil {
		log.Printf("Failed to encode response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
