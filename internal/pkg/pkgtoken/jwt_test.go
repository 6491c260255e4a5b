package pkgtoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT(t *testing.T, now time.Time) *JWT {
	t.Helper()
	j, err := NewJWT([]byte("test-secret"), "gotask", time.Hour)
	require.NoError(t, err)
	j.now = func() time.Time { return now }
	return j
}

func TestIssueAndVerify(t *testing.T) {
	now := time.Now()
	j := newTestJWT(t, now)

	token, exp, err := j.Issue("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	sub, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestVerifyExpired(t *testing.T) {
	now := time.Now()
	j := newTestJWT(t, now)

	token, _, err := j.Issue("user-1")
	require.NoError(t, err)

	j.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = j.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecretOrIssuer(t *testing.T) {
	now := time.Now()
	j := newTestJWT(t, now)
	token, _, err := j.Issue("user-1")
	require.NoError(t, err)

	other, err := NewJWT([]byte("other-secret"), "gotask", time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := NewJWT([]byte("test-secret"), "someone-else", time.Hour)
	require.NoError(t, err)
	_, err = foreign.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	j := newTestJWT(t, time.Now())

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "gotask",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = j.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	j := newTestJWT(t, time.Now())
	_, err := j.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTRequiresSecret(t *testing.T) {
	_, err := NewJWT(nil, "gotask", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
