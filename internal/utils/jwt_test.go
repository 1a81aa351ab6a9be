package utils_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aberkani/logistics-tracker/internal/utils"
)

func TestNewAccessToken_ClaimsRoundTrip(t *testing.T) {
	at, err := utils.NewAccessToken("topsecret", 42, "DISPATCHER", 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)

	tok, err := jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("topsecret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "DISPATCHER", claims["role"])
	assert.InDelta(t, time.Now().Add(15*time.Minute).Unix(), claims["exp"].(float64), 5)
}

func TestNewAccessToken_WrongSecretRejected(t *testing.T) {
	at, err := utils.NewAccessToken("correct", 1, "ADMIN", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	})
	assert.Error(t, err)
}

func TestNewRefreshToken_UniqueAndExpiring(t *testing.T) {
	a, err := utils.NewRefreshToken(30)
	require.NoError(t, err)
	b, err := utils.NewRefreshToken(30)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), a.Exp, time.Minute)
}

func TestHashRefreshRaw_Deterministic(t *testing.T) {
	h1 := utils.HashRefreshRaw("some-raw-token")
	h2 := utils.HashRefreshRaw("some-raw-token")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, h1, utils.HashRefreshRaw("another-token"))
}

func TestPasswordHashVerify(t *testing.T) {
	hash, err := utils.HashPassword("hunter2", 4)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(hash, "hunter2"))
	assert.False(t, utils.VerifyPassword(hash, "hunter3"))
}
