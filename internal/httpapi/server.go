package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentiview/pkg/types"
)

// sessionHeader lets API clients without a cookie jar pin a session.
const sessionHeader = "X-Session-ID"

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(AccessLog)
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(corsOptions()))
	}

	// HTML playground
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		c := sessionFor(w, r, svc)
		renderPage(w, c.Snapshot())
	})
	r.Post("/input", func(w http.ResponseWriter, r *http.Request) {
		text, ok := formText(w, r)
		if !ok {
			return
		}
		sessionFor(w, r, svc).SetInput(text)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	r.Post("/submit", func(w http.ResponseWriter, r *http.Request) {
		text, ok := formText(w, r)
		if !ok {
			return
		}
		c := sessionFor(w, r, svc)
		c.SetInput(text)
		ctx, cancel := requestContext(r)
		defer cancel()
		c.Submit(ctx)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	r.Post("/dismiss", func(w http.ResponseWriter, r *http.Request) {
		sessionFor(w, r, svc).DismissError()
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
			c := sessionFor(w, r, svc)
			writeJSON(w, http.StatusOK, c.Snapshot().State())
		})
		r.Put("/input", func(w http.ResponseWriter, r *http.Request) {
			var req types.InputRequest
			if !decodeJSON(w, r, &req, true) {
				return
			}
			c := sessionFor(w, r, svc)
			c.SetInput(req.Text)
			writeJSON(w, http.StatusOK, c.Snapshot().State())
		})
		r.Post("/submit", func(w http.ResponseWriter, r *http.Request) {
			var req types.SubmitRequest
			if !decodeJSON(w, r, &req, false) {
				return
			}
			c := sessionFor(w, r, svc)
			if req.Text != nil {
				c.SetInput(*req.Text)
			}
			if wait := r.URL.Query().Get("wait"); wait == "true" || wait == "1" {
				ctx, cancel := requestContext(r)
				defer cancel()
				c.Submit(ctx)
				writeJSON(w, http.StatusOK, c.Snapshot().State())
				return
			}
			// Background requests outlive the HTTP request but not the server.
			if _, started := c.SubmitAsync(backgroundContext()); started {
				writeJSON(w, http.StatusAccepted, c.Snapshot().State())
				return
			}
			writeJSON(w, http.StatusOK, c.Snapshot().State())
		})
		r.Post("/dismiss", func(w http.ResponseWriter, r *http.Request) {
			c := sessionFor(w, r, svc)
			c.DismissError()
			writeJSON(w, http.StatusOK, c.Snapshot().State())
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no classifier endpoint"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// sessionFor resolves the caller's session from the header or cookie and
// sets the cookie when a new session was issued.
func sessionFor(w http.ResponseWriter, r *http.Request, svc Service) Controller {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		if ck, err := r.Cookie(sessionCookie); err == nil {
			id = ck.Value
		}
	}
	sid, c, created := svc.Session(id)
	if created {
		http.SetCookie(w, newSessionCookie(sid))
	}
	w.Header().Set(sessionHeader, sid)
	return c
}

func formText(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid form body")
		return "", false
	}
	return r.PostForm.Get("text"), true
}

// decodeJSON decodes the request body into v. When required is false an
// empty body is accepted and leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, required bool) bool {
	if !required && r.ContentLength == 0 {
		return true
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if !required && errors.Is(err, io.EOF) {
			return true
		}
		// If exceeded size, MaxBytesReader may cause an error; still return 400 to avoid size leak details
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
