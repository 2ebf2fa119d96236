package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/gym-admin/internal/ratelimit"
	"alcyxob/gym-admin/internal/service"
)

// Constants for context keys
const (
	RequestIDKey            = "requestID"
	ContextOperatorIDKey    = "operatorID"
	ContextClientSessionKey = "clientSession"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Logger logs each request with method, path, status, latency and request id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// Recovery converts panics into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Msg("panic recovered")
				abortWithError(c, http.StatusInternalServerError, internalErrorDetail)
			}
		}()
		c.Next()
	}
}

// ErrorHandler logs errors attached with c.Error and answers 500 without
// exposing them.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Err(err.Err).
			Msg("unhandled error")

		if !c.Writer.Written() {
			abortWithError(c, http.StatusInternalServerError, internalErrorDetail)
		}
	}
}

// CORS allows browser clients from any origin; the client cookie is not
// sent cross-site.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// AuthMiddleware requires an operator bearer token.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		operatorID, err := authService.Authenticate(parts[1])
		if err != nil {
			if errors.Is(err, service.ErrAccessDenied) {
				abortWithError(c, http.StatusForbidden, "operator token required")
			} else {
				abortWithError(c, http.StatusUnauthorized, "invalid or expired token")
			}
			return
		}

		c.Set(ContextOperatorIDKey, operatorID)
		c.Next()
	}
}

// ClientSessionMiddleware requires the member session cookie set by client login.
func ClientSessionMiddleware(clientService service.ClientService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			abortWithError(c, http.StatusUnauthorized, "client session required")
			return
		}
		session, err := clientService.Session(token)
		if err != nil {
			if errors.Is(err, service.ErrAccessDenied) {
				abortWithError(c, http.StatusForbidden, "client session required")
			} else {
				abortWithError(c, http.StatusUnauthorized, "invalid or expired session")
			}
			return
		}
		c.Set(ContextClientSessionKey, session)
		c.Next()
	}
}

// LoginThrottle limits login attempts per client IP. When the limiter's
// store is unreachable requests are let through.
func LoginThrottle(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			log.Warn().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("Login limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			secs := int(retryAfter.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			abortWithError(c, http.StatusTooManyRequests, "too many login attempts, try again later")
			return
		}
		c.Next()
	}
}

func operatorIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := c.Get(ContextOperatorIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	oid, ok := id.(primitive.ObjectID)
	return oid, ok
}

func clientSessionFromContext(c *gin.Context) *service.ClientSession {
	raw, ok := c.Get(ContextClientSessionKey)
	if !ok {
		return nil
	}
	session, _ := raw.(*service.ClientSession)
	return session
}

// objectIDParam parses the named path parameter, answering 400 when malformed.
// A malformed id can never match a record, so callers may treat it as not found.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
