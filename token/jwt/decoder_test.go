package jwt_test

import (
	"encoding/base64"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-warehouse-console/internal/errors"
	"github.com/jrsteele09/go-warehouse-console/models"
	"github.com/jrsteele09/go-warehouse-console/token/jwt"
	"github.com/stretchr/testify/require"
)

const testHeader = `{"alg":"HS256","typ":"JWT"}`

func signed(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return raw
}

func segment(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestDecodeValidToken(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	raw := signed(t, jwtlib.MapClaims{
		"sub":  "a@b.com",
		"role": "ADMIN",
		"exp":  exp.Unix(),
		"iat":  time.Now().Unix(),
	})

	claims, err := jwt.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", claims.Subject)
	require.Equal(t, models.RoleAdmin, claims.Role)
	require.True(t, exp.Equal(claims.Expiry))
	require.False(t, claims.Expired(time.Now()))
	require.True(t, claims.Expired(exp))
}

func TestDecodeIgnoresSignature(t *testing.T) {
	payload := segment(`{"sub":"staff@b.com","role":"STAFF","exp":1700000000}`)
	claims, err := jwt.Decode(segment(testHeader) + "." + payload + ".not-a-real-signature")
	require.NoError(t, err)
	require.Equal(t, models.RoleStaff, claims.Role)
	require.Equal(t, int64(1700000000), claims.Expiry.Unix())
}

func TestDecodeIgnoresHeader(t *testing.T) {
	payload := segment(`{"sub":"a@b.com","role":"WAREHOUSE_MANAGER","exp":4102444800}`)

	for name, header := range map[string]string{
		"no alg":          segment(`{"typ":"JWT"}`),
		"unknown alg":     segment(`{"alg":"XS999"}`),
		"header not json": segment("garbage"),
	} {
		t.Run(name, func(t *testing.T) {
			claims, err := jwt.Decode(header + "." + payload + ".sig")
			require.NoError(t, err)
			require.Equal(t, "a@b.com", claims.Subject)
			require.Equal(t, models.RoleManager, claims.Role)
			require.Equal(t, int64(4102444800), claims.Expiry.Unix())
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	header := segment(testHeader)

	tests := map[string]string{
		"empty":              "",
		"single segment":     "abc",
		"two segments":       header + "." + segment(`{"sub":"a","role":"ADMIN","exp":1}`),
		"four segments":      header + "." + segment(`{"sub":"a","role":"ADMIN","exp":1}`) + ".sig.extra",
		"payload not base64": header + ".***.sig",
		"payload not json":   header + "." + segment("not json") + ".sig",
		"missing sub":        header + "." + segment(`{"role":"ADMIN","exp":1}`) + ".sig",
		"empty sub":          header + "." + segment(`{"sub":"","role":"ADMIN","exp":1}`) + ".sig",
		"missing role":       header + "." + segment(`{"sub":"a@b.com","exp":1}`) + ".sig",
		"role not string":    header + "." + segment(`{"sub":"a@b.com","role":7,"exp":1}`) + ".sig",
		"missing exp":        header + "." + segment(`{"sub":"a@b.com","role":"ADMIN"}`) + ".sig",
		"exp not numeric":    header + "." + segment(`{"sub":"a@b.com","role":"ADMIN","exp":"soon"}`) + ".sig",
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := jwt.Decode(raw)
			require.Error(t, err)
			require.ErrorIs(t, err, errors.ErrMalformedCredential)
		})
	}
}
