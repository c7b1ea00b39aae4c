package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	opts := DefaultOptions([]byte("test-secret"))

	token, expireAt, err := Generate(opts, "u1")
	require.NoError(t, err)
	assert.True(t, expireAt.After(time.Now()))

	claims, err := Verify(opts, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID())
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _, err := Generate(DefaultOptions([]byte("right")), "u1")
	require.NoError(t, err)

	_, err = Verify(DefaultOptions([]byte("wrong")), token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	// TTL <= 0 falls back to the default, so use the shortest positive one.
	opts := Options{Secret: []byte("s"), Alg: "HS256", TTL: time.Millisecond}
	token, _, err := Generate(opts, "u1")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond) // exp has second resolution

	_, err = Verify(opts, token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := Verify(DefaultOptions([]byte("s")), "not.a.token")
	assert.Error(t, err)
}

func TestSigningMethodSelection(t *testing.T) {
	for _, alg := range []string{"", "HS256", "hs384", "HS512"} {
		_, err := signingMethod(alg)
		assert.NoError(t, err, alg)
	}
	_, err := signingMethod("RS256")
	assert.Error(t, err)
}
