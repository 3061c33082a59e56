package handlers

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"bharatparcel/apperrors"
	"bharatparcel/logger"
	"bharatparcel/models"
	"bharatparcel/service"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userKey      contextKey = "user"
)

// RequestIDHeader carries the request id back to the client.
const RequestIDHeader = "X-Request-ID"

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// UserFromContext returns the caller put there by Authenticator.Require.
func UserFromContext(ctx context.Context) (models.RequestingUser, bool) {
	u, ok := ctx.Value(userKey).(models.RequestingUser)
	return u, ok
}

func WithUser(ctx context.Context, u models.RequestingUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (rw *statusRecorder) WriteHeader(status int) {
	if !rw.written {
		rw.status = status
		rw.written = true
		rw.ResponseWriter.WriteHeader(status)
	}
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// RequestLogging tags each request with an id and logs its start and outcome.
func RequestLogging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID))
			w.Header().Set(RequestIDHeader, requestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			log.Info("HTTP request started",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			next.ServeHTTP(rec, r)

			log.Info("HTTP request completed",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// RecoverWrapper turns a panic anywhere below it into a logged 500.
func RecoverWrapper(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Panic recovered",
						"request_id", RequestID(r.Context()),
						"error", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					_ = writeJSON(w, http.StatusInternalServerError, ApiResponse{
						Success: false,
						Message: "Internal server error",
						Code:    apperrors.CodeInternal,
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Authenticator guards routes with a bearer token.
type Authenticator struct {
	responder
	auth service.AuthService
}

func NewAuthenticator(auth service.AuthService, log *logger.Logger) *Authenticator {
	return &Authenticator{responder: responder{log: log}, auth: auth}
}

// Require rejects requests without a valid token and passes the caller on in the context.
func (a *Authenticator) Require(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			a.fail(w, r, apperrors.Unauthorized("Authorization token required"))
			return
		}

		user, err := a.auth.ParseToken(strings.TrimSpace(token))
		if err != nil {
			a.fail(w, r, err)
			return
		}
		next(w, r.WithContext(WithUser(r.Context(), user)), ps)
	}
}

// caller returns the authenticated user; routes behind Require always have one.
func caller(r *http.Request) models.RequestingUser {
	u, _ := UserFromContext(r.Context())
	return u
}
