package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardShowsCheckingUntilInitialized(t *testing.T) {
	decision := Decide("/provinces", SessionSnapshot{IsInitialized: false})
	assert.True(t, decision.Checking)
	assert.False(t, decision.Allow)
	assert.Empty(t, decision.RedirectTo)

	decision = Decide("/provinces", SessionSnapshot{IsInitialized: true, IsLoading: true, IsAuthenticated: true})
	assert.True(t, decision.Checking, "loading shows the placeholder even with a session")
}

func TestGuardRedirectsAnonymousFromProtectedPaths(t *testing.T) {
	session := SessionSnapshot{IsInitialized: true}

	for _, path := range []string{"/dashboard", "/provinces", "/users", "/his-tokens"} {
		decision := Decide(path, session)
		assert.Equal(t, LoginPath, decision.RedirectTo, "path %s", path)
		assert.False(t, decision.Allow)
	}
}

func TestGuardAllowsAnonymousOnPublicPaths(t *testing.T) {
	session := SessionSnapshot{IsInitialized: true}

	for _, path := range []string{"/", "/auth/login", "/auth/register"} {
		decision := Decide(path, session)
		assert.True(t, decision.Allow, "path %s", path)
		assert.Empty(t, decision.RedirectTo)
	}
}

func TestGuardRedirectsAuthenticatedFromRoot(t *testing.T) {
	session := SessionSnapshot{IsInitialized: true, IsAuthenticated: true}

	decision := Decide("/", session)
	assert.Equal(t, HomePath, decision.RedirectTo)
	assert.False(t, decision.Allow)
}

func TestGuardRendersAuthPagesForAuthenticatedUsers(t *testing.T) {
	session := SessionSnapshot{IsInitialized: true, IsAuthenticated: true}

	for _, path := range []string{"/auth/login", "/auth/register"} {
		decision := Decide(path, session)
		assert.True(t, decision.Allow, "path %s", path)
		assert.Empty(t, decision.RedirectTo, "path %s", path)
	}
}

func TestGuardAllowsAuthenticatedOnProtectedPaths(t *testing.T) {
	session := SessionSnapshot{IsInitialized: true, IsAuthenticated: true}

	decision := Decide("/provinces", session)
	assert.True(t, decision.Allow)
	assert.Empty(t, decision.RedirectTo)
	assert.False(t, decision.Checking)
}

func TestGuardIsPure(t *testing.T) {
	session := SessionSnapshot{IsInitialized: true}

	first := Decide("/dashboard", session)
	second := Decide("/dashboard", session)
	assert.Equal(t, first, second)
	assert.False(t, session.IsAuthenticated, "the snapshot is untouched")
}
