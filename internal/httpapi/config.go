package httpapi

import (
	"net/http"

	"github.com/go-chi/cors"
)

const defaultMaxBodyBytes int64 = 1 << 20

// maxBodyBytes caps JSON and form bodies. Sentences are short; the cap only
// guards against abuse.
var maxBodyBytes = defaultMaxBodyBytes

// SetMaxBodyBytes sets the body cap. Non-positive values restore the default.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
		return
	}
	maxBodyBytes = n
}

// CORS is opt-in; when disabled NewMux adds no CORS middleware.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures cross-origin access to the JSON API.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

// corsOptions always admits and exposes the session header so browser
// clients on another origin can keep their session.
func corsOptions() cors.Options {
	headers := append([]string(nil), corsAllowedHeaders...)
	headers = append(headers, sessionHeader)
	return cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   corsAllowedMethods,
		AllowedHeaders:   headers,
		ExposedHeaders:   []string{sessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

const sessionCookie = "sentiview_session"

var secureCookies bool

// SetSecureCookies marks the session cookie Secure. Enable behind TLS.
func SetSecureCookies(on bool) { secureCookies = on }

func newSessionCookie(sid string) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
