package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	require.NotNil(t, key)

	addr := Address(key)
	assert.NotEqual(t, "0x0000000000000000000000000000000000000000", addr.Hex())
}

func TestGenerateDevKeyDeterministic(t *testing.T) {
	k1, err := GenerateDevKey("seed", "user1")
	require.NoError(t, err)
	k2, err := GenerateDevKey("seed", "user1")
	require.NoError(t, err)

	assert.Equal(t, KeyToHex(k1), KeyToHex(k2))

	k3, err := GenerateDevKey("seed", "user2")
	require.NoError(t, err)
	assert.NotEqual(t, KeyToHex(k1), KeyToHex(k3))

	k4, err := GenerateDevKey("other-seed", "user1")
	require.NoError(t, err)
	assert.NotEqual(t, KeyToHex(k1), KeyToHex(k4))
}

func TestGenerateDevKeyEmptyUserID(t *testing.T) {
	_, err := GenerateDevKey("seed", "")
	assert.Error(t, err)
}

func TestLowercaseAddress(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	addr := LowercaseAddress(key)
	assert.True(t, strings.HasPrefix(addr, "0x"))
	assert.Equal(t, strings.ToLower(addr), addr)
	assert.Len(t, addr, 42)
}

func TestKeyHexRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	hexKey := KeyToHex(key)
	decoded, err := KeyFromHex(hexKey)
	require.NoError(t, err)
	assert.Equal(t, Address(key), Address(decoded))

	// 0x prefix is tolerated
	decoded, err = KeyFromHex("0x" + hexKey)
	require.NoError(t, err)
	assert.Equal(t, Address(key), Address(decoded))
}

func TestKeyFromHexInvalid(t *testing.T) {
	_, err := KeyFromHex("not-hex")
	assert.Error(t, err)
}
