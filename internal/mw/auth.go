package mw

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SubjectKey is the gin context key holding the authenticated token subject.
const SubjectKey = "auth.subject"

var errNoToken = errors.New("no session token")

// Authenticator verifies HS256 session tokens issued by the identity provider.
type Authenticator struct {
	secret     []byte
	cookieName string
}

// NewAuthenticator creates an Authenticator. Tokens are read from the Authorization header
// first, then from cookieName.
func NewAuthenticator(secret, cookieName string) *Authenticator {
	return &Authenticator{secret: []byte(secret), cookieName: cookieName}
}

func (a *Authenticator) token(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if a.cookieName != "" {
		if v, err := c.Cookie(a.cookieName); err == nil {
			return v
		}
	}
	return ""
}

// Verify parses raw and returns its subject.
func (a *Authenticator) Verify(raw string) (string, error) {
	if raw == "" {
		return "", errNoToken
	}
	if len(a.secret) == 0 {
		return "", errors.New("auth secret is not configured")
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// RequireAuth aborts with 401 unless the request carries a valid session token.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := a.Verify(a.token(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(SubjectKey, sub)
		c.Next()
	}
}
