package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated is the only error Verify returns; callers never learn why a
// token was rejected.
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is the minimal user identity carried in a session token.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// JWTManager handles generation and validation of JWT tokens
type JWTManager struct {
	AccessSecret []byte
	AccessTTL    time.Duration

	now func() time.Time
}

func NewJWTManager(accessSecret string, accessTTL time.Duration) *JWTManager {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &JWTManager{
		AccessSecret: []byte(accessSecret),
		AccessTTL:    accessTTL,
		now:          time.Now,
	}
}

// WithClock returns a copy of the manager that reads time from now.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	cp := *m
	cp.now = now
	return &cp
}

type Claims struct {
	UserID    string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	jwt.RegisteredClaims
}

// Issue signs an HS256 access token for id expiring AccessTTL from now.
func (m *JWTManager) Issue(id Identity) (string, time.Time, error) {
	now := m.clock()
	exp := now.Add(m.AccessTTL)
	claims := &Claims{
		UserID:    id.ID,
		Name:      id.Name,
		AvatarURL: id.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.AccessSecret)
	return s, exp, err
}

// Verify checks signature, algorithm and expiry. Every failure maps to
// ErrUnauthenticated.
func (m *JWTManager) Verify(tokenStr string) (*Identity, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.AccessSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock),
	)
	if err != nil || !tkn.Valid || claims.UserID == "" {
		return nil, ErrUnauthenticated
	}
	return &Identity{ID: claims.UserID, Name: claims.Name, AvatarURL: claims.AvatarURL}, nil
}

func (m *JWTManager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}
