// Package jwt authenticates requests with HS256 bearer tokens.
package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	claimsKey = "claims"
	// CookieName carries the token for browser requests (admin action links).
	CookieName = "auth_token"
)

// ErrMissingToken is returned when neither header nor cookie carries a token.
var ErrMissingToken = errors.New("missing authentication token")

// Claims are the token claims. Capabilities lists the permission names the
// subject holds (for example "edit_posts").
type Claims struct {
	Sub          string   `json:"sub"`
	Capabilities []string `json:"caps,omitempty"`
	jwt.RegisteredClaims
}

// Middleware rejects requests without a valid token with 401 and stores the
// claims for GetClaims. The token is read from "Authorization: Bearer" and,
// failing that, from the auth_token cookie.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := tokenFromRequest(c)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		claims, err := Parse(secret, raw)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" || token == "" {
			return "", errors.New("invalid authorization header format")
		}
		return token, nil
	}
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", ErrMissingToken
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    "rest_not_logged_in",
		"message": message,
		"data":    gin.H{"status": http.StatusUnauthorized},
	})
}

// Parse validates raw with secret and returns its claims.
func Parse(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.Sub == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// Issue signs a token for subject holding capabilities, valid for ttl.
func Issue(secret, subject string, capabilities []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:          subject,
		Capabilities: capabilities,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// GetClaims returns the claims stored by Middleware.
func GetClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
