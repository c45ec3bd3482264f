package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("super-secret", time.Hour)
	tok, err := m.Generate(42)
	require.NoError(t, err)

	id, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("secret", -time.Second)
	tok, err := m.Generate(1)
	require.NoError(t, err)

	_, err = m.Parse(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenManager("right", time.Hour).Generate(1)
	require.NoError(t, err)

	_, err = NewTokenManager("wrong", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager("k", time.Hour).Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_MissingUserID(t *testing.T) {
	t.Parallel()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenManager("k", time.Hour).Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	for _, plain := range []string{"hunter22", "correct horse battery staple", strings.Repeat("x", 60)} {
		hash, err := HashPassword(plain)
		require.NoError(t, err)
		assert.NotEqual(t, plain, hash)
		assert.True(t, CheckPassword(hash, plain))
		assert.False(t, CheckPassword(hash, plain+"!"))
	}
}
