package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("admin@123456")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "admin@123456", hash)

	assert.True(t, Verify("admin@123456", hash))
	assert.False(t, Verify("wrong-password", hash))
	assert.False(t, Verify("admin@123456", "not-a-bcrypt-hash"))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("admin@123456")
	require.NoError(t, err)
	second, err := Hash("admin@123456")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashToken(t *testing.T) {
	hash := HashToken("some-refresh-token")
	assert.Len(t, hash, 64, "sha256 hex digest")
	assert.Equal(t, hash, HashToken("some-refresh-token"), "deterministic for lookups")
	assert.NotEqual(t, hash, HashToken("another-token"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("12345678"))
	assert.False(t, ValidatePassword("1234567"))
	assert.False(t, ValidatePassword(""))
}
