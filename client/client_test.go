package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessagePriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "nested error message wins",
			body: `{"message":"outer","error":{"message":"inner detail"}}`,
			want: "inner detail",
		},
		{
			name: "message beats error string",
			body: `{"message":"outer","error":"plain"}`,
			want: "outer",
		},
		{
			name: "error string when no message",
			body: `{"error":"plain"}`,
			want: "plain",
		},
		{
			name: "http fallback on empty body",
			body: ``,
			want: "HTTP 500",
		},
		{
			name: "http fallback on non-json",
			body: `<html>gateway timeout</html>`,
			want: "HTTP 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage([]byte(tt.body), 500))
		})
	}
}

func TestDoUnwrapsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"id":"p1","provinceCode":"01","provinceName":"Hà Nội"}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	province, err := c.GetProvince(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "01", province.ProvinceCode)
	assert.Equal(t, "Hà Nội", province.ProvinceName)
}

func TestDoReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"Province not found"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.GetProvince(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "Province not found")
}

func TestFilterSerializationSkipsUnsetFields(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"success":true,"data":{"items":[],"total":0,"limit":10,"offset":0}}`))
	}))
	defer server.Close()

	c := New(server.URL)

	_, err := c.ListWards(context.Background(), WardFilter{})
	require.NoError(t, err)
	assert.Empty(t, gotQuery, "empty filter must produce no query parameters")

	active := true
	_, err = c.ListWards(context.Background(), WardFilter{
		ListFilter: ListFilter{Search: "Ba Đình", IsActive: &active, Limit: 20},
		ProvinceID: "p1",
	})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "search=")
	assert.Contains(t, gotQuery, "isActive=true")
	assert.Contains(t, gotQuery, "limit=20")
	assert.Contains(t, gotQuery, "provinceId=p1")
	assert.NotContains(t, gotQuery, "offset=", "zero offset is not serialized")
}

func TestLoginInstallsTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin", body["usernameOrEmail"])

		_, _ = w.Write([]byte(`{"success":true,"data":{"user":{"id":"u1","username":"admin","role":"ADMIN","isActive":true},"accessToken":"access-1","refreshToken":"refresh-1","expiresIn":900}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	result, err := c.Login(context.Background(), "admin", "admin@123456")
	require.NoError(t, err)
	assert.Equal(t, "admin", result.User.Username)
	assert.Equal(t, "access-1", c.AccessToken())
	assert.Equal(t, "refresh-1", c.currentRefreshToken())
}

func TestLogoutClearsTokensEvenWhenServerFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"boom"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetTokens("access-1", "refresh-1")

	err := c.Logout(context.Background())
	assert.Error(t, err)
	assert.Empty(t, c.AccessToken(), "tokens are cleared regardless of the server outcome")
	assert.Empty(t, c.currentRefreshToken())
}

func TestUnauthorizedTriggersRefreshAndRetry(t *testing.T) {
	var profileCalls, refreshCalls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/profile":
			profileCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer access-2" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"success":false,"error":"Access token expired"}`))
				return
			}
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"u1","username":"admin","role":"ADMIN","isActive":true}}`))
		case "/auth/refresh":
			refreshCalls.Add(1)
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			require.Equal(t, "refresh-1", body["refreshToken"])
			_, _ = w.Write([]byte(`{"success":true,"data":{"user":{"id":"u1","username":"admin"},"accessToken":"access-2","refreshToken":"refresh-2","expiresIn":900}}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetTokens("stale-access", "refresh-1")

	var rotatedAccess, rotatedRefresh string
	c.OnTokensRotated(func(access, refresh string) {
		rotatedAccess, rotatedRefresh = access, refresh
	})

	user, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	assert.EqualValues(t, 2, profileCalls.Load(), "one failed attempt plus one retry")
	assert.EqualValues(t, 1, refreshCalls.Load())
	assert.Equal(t, "access-2", c.AccessToken())
	assert.Equal(t, "refresh-2", c.currentRefreshToken())
	assert.Equal(t, "access-2", rotatedAccess)
	assert.Equal(t, "refresh-2", rotatedRefresh)
}

func TestRefreshFailureSurfacesOriginalError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"Access token expired"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetTokens("stale", "dead-refresh")

	_, err := c.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.EqualError(t, err, "Access token expired")
}

func TestBaseURLFallsBackToEnv(t *testing.T) {
	t.Setenv("LABIS_API_URL", "http://example.internal/api/v1")
	c := New("")
	assert.Equal(t, "http://example.internal/api/v1", c.baseURL)
}
