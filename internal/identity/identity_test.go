package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorValid(t *testing.T) {
	assert.True(t, Actor{UserName: "Alice", DeviceID: "d1"}.Valid())
	assert.False(t, Actor{UserName: "Alice"}.Valid())
	assert.False(t, Actor{DeviceID: "d1"}.Valid())
	assert.False(t, Actor{}.Valid())
}

func TestActorSame(t *testing.T) {
	a := Actor{UserName: "Alice", DeviceID: "d1"}
	assert.True(t, a.Same("Alice", "d1"))
	assert.False(t, a.Same("Alice", "d2"), "same name on another device is someone else")
	assert.False(t, a.Same("Bob", "d1"))
}

func TestAdminTokenRoundTrip(t *testing.T) {
	tok, err := MintAdminToken("secret", time.Hour)
	require.NoError(t, err)
	assert.NoError(t, VerifyAdminToken("secret", tok))
}

func TestAdminTokenWrongSecret(t *testing.T) {
	tok, err := MintAdminToken("secret", time.Hour)
	require.NoError(t, err)
	assert.Error(t, VerifyAdminToken("other", tok))
}

func TestAdminTokenExpired(t *testing.T) {
	tok, err := MintAdminToken("secret", -time.Minute)
	require.NoError(t, err)
	assert.Error(t, VerifyAdminToken("secret", tok))
}

func TestAdminTokenGarbage(t *testing.T) {
	assert.Error(t, VerifyAdminToken("secret", "not-a-token"))
	assert.Error(t, VerifyAdminToken("secret", ""))
}
