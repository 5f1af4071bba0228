package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueParse(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 8, 9, 10, 0, 0, 0, time.UTC)
	m, err := NewManager(Config{Secret: "secret", TTL: time.Hour})
	require.NoError(t, err)
	m.now = func() time.Time { return now }

	tok, err := m.Issue("Ann", "ann@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok.AccessToken)
	require.NotEmpty(t, tok.Claims.ID)

	claims, err := m.Parse(tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "ann@x.com", claims.Email)
	require.Equal(t, "Ann", claims.Name)
	require.Equal(t, tok.Claims.ID, claims.ID)

	other, err := m.Issue("Ann", "ann@x.com")
	require.NoError(t, err)
	require.NotEqual(t, tok.Claims.ID, other.Claims.ID)

	m.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = m.Parse(tok.AccessToken)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestManager_ParseRejectsForeignKey(t *testing.T) {
	t.Parallel()
	issuer, err := NewManager(Config{Secret: "one", TTL: time.Hour})
	require.NoError(t, err)
	tok, err := issuer.Issue("Ann", "ann@x.com")
	require.NoError(t, err)

	other, err := NewManager(Config{Secret: "two", TTL: time.Hour})
	require.NoError(t, err)
	_, err = other.Parse(tok.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_EmptySecret(t *testing.T) {
	t.Parallel()
	_, err := NewManager(Config{TTL: time.Hour})
	require.ErrorIs(t, err, ErrEmptySecret)

	now := time.Now()
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: "admin@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte(""))
	require.NoError(t, err)

	var m Manager
	_, err = m.Parse(forged)
	require.ErrorIs(t, err, ErrEmptySecret)
	_, err = m.Issue("Ann", "ann@x.com")
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestAuthContext(t *testing.T) {
	t.Parallel()
	_, err := GetClaims(context.Background())
	require.ErrorIs(t, err, ErrNoClaims)

	ctx := SetAuthContext(context.Background(), &Claims{Email: "ann@x.com"})
	claims, err := GetClaims(ctx)
	require.NoError(t, err)
	require.Equal(t, "ann@x.com", claims.Email)
}
