package common

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const sessionCookie = "fsid"

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionId,
		Domain:   strings.TrimPrefix(r.Host, "."),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		MaxAge:   7200,
		Path:     "/",
	})
}

// HandleSessionCookie returns the session id of the request, a new session
// is started when the cookie is missing or malformed.
func HandleSessionCookie(w http.ResponseWriter, r *http.Request) (sessionId string, isNew bool) {
	c, err := r.Cookie(sessionCookie)
	if err == nil {
		if id, parseErr := uuid.Parse(c.Value); parseErr == nil {
			return id.String(), false
		}
	}
	sessionId = uuid.New().String()
	setSessionCookie(w, r, sessionId)
	return sessionId, true
}
