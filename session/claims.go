package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the toolkit shows about a stored token. The signature is
// not verified; only the API can do that.
type Claims struct {
	Subject   string
	Role      string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ParseClaims decodes a bearer token's claims without verifying it.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("decoding token: %w", err)
	}

	var c Claims
	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if c.Subject == "" {
		for _, key := range []string{"id", "_id", "userId"} {
			if s, ok := mc[key].(string); ok && s != "" {
				c.Subject = s
				break
			}
		}
	}
	c.Role, _ = mc["role"].(string)
	c.Email, _ = mc["email"].(string)
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	return c, nil
}

// Expired reports whether the token carries an expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}
