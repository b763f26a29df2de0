package delivery

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	actorKey = "actor"
	tokenKey = "token"
)

// Authenticate resolves an "Authorization: Token <key>" (or Bearer) header to
// a user. Requests without the header continue anonymously; a header that
// does not resolve is rejected.
func Authenticate(auth usecase.AuthService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 {
			log.Warnf("Middleware: Invalid Authorization header format: %s", authHeader)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Detail: "Invalid token header."})
			return
		}
		scheme := strings.ToLower(parts[0])
		if scheme != "token" && scheme != "bearer" {
			log.Warnf("Middleware: Unsupported authorization scheme %q", parts[0])
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Detail: "Invalid token header."})
			return
		}

		rawToken := parts[1]
		user, err := auth.Authenticate(c.Request.Context(), rawToken)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				log.Warnf("Middleware: Rejected token %s...: %v", rawToken[:min(8, len(rawToken))], err)
			}
			respondError(c, log, "authenticate", err)
			return
		}

		c.Set(actorKey, user)
		c.Set(tokenKey, rawToken)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actorFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Detail: "Authentication credentials were not provided."})
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) *domain.User {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"remote_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		})
		if reqID := c.GetHeader("X-Request-ID"); reqID != "" {
			entry = entry.WithField("request_id", reqID)
		}
		entry.Info("Incoming request")

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		completedEntry := entry.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
		})
		if user := actorFrom(c); user != nil {
			completedEntry = completedEntry.WithField("user_id", user.ID)
		}

		switch {
		case len(c.Errors) > 0:
			completedEntry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
		case statusCode >= 500:
			completedEntry.Error("Request completed with server error")
		case statusCode >= 400:
			completedEntry.Warn("Request completed with client error")
		default:
			completedEntry.Info("Request completed successfully")
		}
	}
}
