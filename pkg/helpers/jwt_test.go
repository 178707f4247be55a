package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIdentity = Identity{ID: "u-1", Name: "Ada", AvatarURL: "https://www.gravatar.com/avatar/x"}

func TestJWTIssueVerify(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	tok, exp, err := m.Issue(testIdentity)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	got, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, *got)
}

func TestJWTExpired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := NewJWTManager("secret", time.Hour).WithClock(func() time.Time { return past })

	tok, _, err := issuer.Issue(testIdentity)
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestJWTValidUntilExpiry(t *testing.T) {
	start := time.Now()
	m := NewJWTManager("secret", time.Hour).WithClock(func() time.Time { return start })
	tok, _, err := m.Issue(testIdentity)
	require.NoError(t, err)

	justBefore := m.WithClock(func() time.Time { return start.Add(59 * time.Minute) })
	_, err = justBefore.Verify(tok)
	assert.NoError(t, err)

	after := m.WithClock(func() time.Time { return start.Add(61 * time.Minute) })
	_, err = after.Verify(tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestJWTWrongSecret(t *testing.T) {
	tok, _, err := NewJWTManager("secret", time.Hour).Issue(testIdentity)
	require.NoError(t, err)

	_, err = NewJWTManager("other", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestJWTMalformed(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrUnauthenticated, tok)
	}
}

func TestJWTRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Hour).Verify(none)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestJWTRequiresExpiry(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "u-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
