package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const TokenType = "Bearer"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrNoClaims     = errors.New("no auth claims in context")
	ErrEmptySecret  = errors.New("jwt secret is empty")
)

type Config struct {
	Secret string        `envconfig:"JWT_SECRET" required:"true" json:"-"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Token is an issued access token together with the claims it carries.
type Token struct {
	AccessToken string
	Claims      Claims
}

type Manager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, ErrEmptySecret
	}
	return &Manager{
		key: []byte(cfg.Secret),
		ttl: cfg.TTL,
		now: time.Now,
	}, nil
}

// Issue signs an HS256 token for the user. Every token gets its own jti so it
// can be revoked on logout without affecting other sessions.
func (m *Manager) Issue(name, email string) (Token, error) {
	if len(m.key) == 0 {
		return Token{}, ErrEmptySecret
	}
	now := m.now()
	claims := Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return Token{}, errors.Wrap(err, "sign token")
	}
	return Token{AccessToken: signed, Claims: claims}, nil
}

func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	if len(m.key) == 0 {
		return nil, ErrEmptySecret
	}
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.key, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !m.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}
	if claims.ID == "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type contextKey int

const claimsKey contextKey = iota + 1

func SetAuthContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func GetClaims(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}
