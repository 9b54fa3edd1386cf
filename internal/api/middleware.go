package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"wellness-tracker/internal/ledger"
	"wellness-tracker/internal/metrics"
)

const (
	ctxUserID  = "userID"
	ctxSession = "session"
)

// AuthMiddleware validates the HS256 bearer token, resolves the user from the
// sub claim and attaches a logged-in session to the request.
func (s *Server) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sub claim missing"})
			return
		}

		user, err := s.users.UpsertFromSubject(c.Request.Context(), subject)
		if err != nil {
			log.Printf("resolve user %q: %v", subject, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not resolve user"})
			return
		}

		// Logout is served without logging the user back in.
		if c.Request.Method == http.MethodDelete && c.FullPath() == "/api/session" {
			c.Set(ctxUserID, user.ID)
			c.Next()
			return
		}

		sess, err := s.sessions.Ensure(c.Request.Context(), user)
		if err != nil {
			log.Printf("start session user=%d: %v", user.ID, err)
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "could not load session"})
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxSession, sess)
		c.Next()
	}
}

// MetricsMiddleware records request counts and latency per route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

func sessionFrom(c *gin.Context) *ledger.Session {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil
	}
	sess, _ := v.(*ledger.Session)
	return sess
}
