package middleware

import (
	"context"
	"net/http"
	"strings"

	"reddrop/model"

	"firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// TokenVerifier is the slice of the Firebase Auth client the gate needs.
// *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// RoleLookup resolves a caller's stored role. Implementations return an
// error when no user record exists, which the gates treat as forbidden.
type RoleLookup interface {
	RoleByEmail(ctx context.Context, email string) (string, error)
}

// AccessTokenMiddleware verifies the bearer token against Firebase and
// stores the verified email in the context under "email". One verification
// attempt per request, no retry.
func AccessTokenMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			log.Debug().Err(err).Msg("token verification failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		email, _ := token.Claims["email"].(string)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		c.Set("email", email)
		c.Next()
	}
}

// AdminMiddleware allows only callers whose stored role is admin. It must
// run after AccessTokenMiddleware.
func AdminMiddleware(roles RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := roles.RoleByEmail(c.Request.Context(), c.GetString("email"))
		if err != nil || role != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}
		c.Next()
	}
}

// StaffMiddleware allows admins and volunteers. Callers without a user
// record are rejected.
func StaffMiddleware(roles RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := roles.RoleByEmail(c.Request.Context(), c.GetString("email"))
		if err != nil || role == model.RoleDonor {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}
		c.Next()
	}
}
