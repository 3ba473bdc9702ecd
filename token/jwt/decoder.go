package jwt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-warehouse-console/internal/errors"
	"github.com/jrsteele09/go-warehouse-console/models"
)

// Claims are the advisory claims embedded in an access credential.
// They drive what the console shows; the backend remains the authority
// on what the credential may actually do.
type Claims struct {
	Subject string      // "sub", the user's email
	Role    models.Role // "role"
	Expiry  time.Time   // "exp"
}

// Expired reports whether the credential's exp is at or before now
func (c Claims) Expired(now time.Time) bool {
	return !now.Before(c.Expiry)
}

// Decode extracts the claims from the middle segment of a three segment
// JWT. The header and signature are not inspected. Any structural problem
// yields an error matching errors.ErrMalformedCredential.
func Decode(rawToken string) (Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return Claims{}, errors.Wrapf(errors.ErrMalformedCredential, "empty token")
	}

	parts := strings.Split(rawToken, ".")
	if len(parts) != 3 {
		return Claims{}, errors.Wrapf(errors.ErrMalformedCredential, "token has %d segments", len(parts))
	}

	payload, err := jwtlib.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: decode claims segment: %w", errors.ErrMalformedCredential, err)
	}

	var claims jwtlib.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: error extracting claims: %w", errors.ErrMalformedCredential, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Claims{}, errors.Wrapf(errors.ErrMalformedCredential, "token missing sub claim")
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return Claims{}, errors.Wrapf(errors.ErrMalformedCredential, "token missing role claim")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, errors.Wrapf(errors.ErrMalformedCredential, "token missing exp claim")
	}

	return Claims{
		Subject: sub,
		Role:    models.Role(role),
		Expiry:  exp.Time,
	}, nil
}
