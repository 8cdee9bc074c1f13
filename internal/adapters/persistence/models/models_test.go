package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHisTokenExpiry(t *testing.T) {
	live := &HisToken{ExpireTime: time.Now().Add(2 * time.Hour)}
	assert.False(t, live.IsExpired())
	assert.InDelta(t, 120, live.MinutesUntilExpire(), 1)

	dead := &HisToken{ExpireTime: time.Now().Add(-time.Minute)}
	assert.True(t, dead.IsExpired())
	assert.Equal(t, 0, dead.MinutesUntilExpire(), "never negative")
}

func TestRefreshTokenState(t *testing.T) {
	token := &RefreshToken{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, token.IsExpired())
	assert.False(t, token.IsRevoked())

	now := time.Now()
	token.RevokedAt = &now
	assert.True(t, token.IsRevoked())

	token.ExpiresAt = time.Now().Add(-time.Second)
	assert.True(t, token.IsExpired())
}

func TestUserResponseHidesSecrets(t *testing.T) {
	user := &User{
		ID:          "u1",
		Username:    "admin",
		Email:       "admin@labis.local",
		Password:    "bcrypt-hash",
		FullName:    "System Administrator",
		Role:        "ADMIN",
		IsActive:    true,
		HisUsername: "bs.nguyen",
		HisPassword: "his-secret",
	}

	resp := user.ToResponse()
	assert.Equal(t, "admin", resp.Username)
	assert.Equal(t, "bs.nguyen", resp.HisUsername)
	// The response DTO simply has no password fields; this is what keeps
	// credentials out of every API payload
}
