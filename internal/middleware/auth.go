package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/userprofile/backend/internal/service"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "user_id"

var (
	ErrMissingAuthHeader   = errors.New("authorization header is missing")
	ErrMalformedAuthHeader = errors.New("malformed authorization header")
)

// Client-facing messages of the 401 responses.
const (
	MsgMissingAuthHeader   = "Authorization header is missing"
	MsgMalformedAuthHeader = "Invalid Authorization header format. Expected 'Bearer <token>'"
	MsgTokenExpired        = "Token has expired."
	MsgInvalidToken        = "Invalid token."
)

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>"
// header value.
func ExtractBearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingAuthHeader
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedAuthHeader
	}
	return parts[1], nil
}

// AuthMiddleware creates a middleware that validates JWT tokens and stores
// the caller's id under ContextUserID.
func AuthMiddleware(verifier service.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			msg := MsgMalformedAuthHeader
			if errors.Is(err, ErrMissingAuthHeader) {
				msg = MsgMissingAuthHeader
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		claims, err := verifier.Decode(token)
		if err != nil {
			msg := MsgInvalidToken
			if errors.Is(err, service.ErrTokenExpired) {
				msg = MsgTokenExpired
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}
