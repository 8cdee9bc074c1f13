package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"labis-admin/internal/adapters/persistence/models"
	"labis-admin/internal/config"
	"labis-admin/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hisConfig(baseURL string) config.HISConfig {
	return config.HISConfig{
		BaseURL:         baseURL,
		ApplicationCode: "LABIS",
		Secret:          "his-secret",
		TimeoutSecs:     5,
		ExpireSoonMins:  10,
	}
}

func TestHISLoginDecodesEnvelope(t *testing.T) {
	session := HISSession{
		TokenCode:     "tok-1",
		RenewCode:     "renew-1",
		UserLoginName: "bs.nguyen",
		UserName:      "BS. Nguyễn Văn A",
		LoginTime:     time.Now(),
		ExpireTime:    time.Now().Add(8 * time.Hour),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/token", r.URL.Path)

		var body hisLoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bs.nguyen", body.Username)
		assert.Equal(t, "LABIS", body.ApplicationCode)
		assert.Equal(t, "his-secret", body.Secret)

		raw, _ := json.Marshal(map[string]interface{}{"success": true, "data": session})
		_, _ = w.Write(raw)
	}))
	defer server.Close()

	svc := NewHISService(hisConfig(server.URL))
	got, err := svc.Login(context.Background(), "bs.nguyen", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got.TokenCode)
	assert.Equal(t, "bs.nguyen", got.UserLoginName)
	assert.Equal(t, "LABIS", got.ApplicationCode, "application code filled from config when absent")
}

func TestHISLoginDecodesBareRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Older HIS deployments answer without the wrapper
		raw, _ := json.Marshal(HISSession{TokenCode: "tok-2", UserLoginName: "bs.nguyen"})
		_, _ = w.Write(raw)
	}))
	defer server.Close()

	svc := NewHISService(hisConfig(server.URL))
	got, err := svc.Login(context.Background(), "bs.nguyen", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", got.TokenCode)
}

func TestHISLoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"bad credentials"}`))
	}))
	defer server.Close()

	svc := NewHISService(hisConfig(server.URL))
	_, err := svc.Login(context.Background(), "bs.nguyen", "wrong")
	assert.ErrorIs(t, err, domain.ErrHisLoginFailed)
}

func TestHISLoginEmptyTokenIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	defer server.Close()

	svc := NewHISService(hisConfig(server.URL))
	_, err := svc.Login(context.Background(), "bs.nguyen", "pw")
	assert.ErrorIs(t, err, domain.ErrHisLoginFailed)
}

func TestHISUnreachable(t *testing.T) {
	svc := NewHISService(hisConfig("http://127.0.0.1:1"))
	_, err := svc.Login(context.Background(), "bs.nguyen", "pw")
	assert.ErrorIs(t, err, domain.ErrHisUnavailable)
}

func TestHISRenew(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/renew-token", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "renew-1", body["renewCode"])

		raw, _ := json.Marshal(map[string]interface{}{"success": true, "data": HISSession{TokenCode: "tok-fresh", RenewCode: "renew-fresh"}})
		_, _ = w.Write(raw)
	}))
	defer server.Close()

	svc := NewHISService(hisConfig(server.URL))
	got, err := svc.Renew(context.Background(), "renew-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-fresh", got.TokenCode)
}

func TestHISCallAPIAttachesToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/patients/lookup", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "tok-1", r.Header.Get("X-Token-Code"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"patientCode":"BN001"}`))
	}))
	defer server.Close()

	svc := NewHISService(hisConfig(server.URL))
	result, err := svc.CallAPI(context.Background(), "tok-1", &HISAPIRequest{
		Endpoint: "/patients/lookup",
		Method:   "post",
		Data:     map[string]interface{}{"code": "BN001"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.JSONEq(t, `{"patientCode":"BN001"}`, string(result.Body))
}

func TestHISCallAPIDefaultsToGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	svc := NewHISService(hisConfig(server.URL))
	_, err := svc.CallAPI(context.Background(), "tok-1", &HISAPIRequest{Endpoint: "ping"})
	require.NoError(t, err)
}

func TestHisTokenStatusMath(t *testing.T) {
	cfg := &config.Config{HIS: hisConfig("")}
	svc := NewHisTokenService(nil, nil, nil, cfg)

	t.Run("healthy token", func(t *testing.T) {
		status := svc.statusOf(tokenExpiringIn(4 * time.Hour))
		assert.True(t, status.IsValid)
		assert.False(t, status.IsExpired)
		assert.False(t, status.IsExpiringSoon)
		assert.Greater(t, status.MinutesUntilExpire, 200)
	})

	t.Run("expiring soon", func(t *testing.T) {
		status := svc.statusOf(tokenExpiringIn(5 * time.Minute))
		assert.True(t, status.IsValid)
		assert.True(t, status.IsExpiringSoon)
	})

	t.Run("expired", func(t *testing.T) {
		status := svc.statusOf(tokenExpiringIn(-time.Minute))
		assert.False(t, status.IsValid)
		assert.True(t, status.IsExpired)
		assert.False(t, status.IsExpiringSoon, "an expired token is not also expiring soon")
		assert.Equal(t, 0, status.MinutesUntilExpire, "minutes never go negative")
	})
}

func tokenExpiringIn(d time.Duration) *models.HisToken {
	return &models.HisToken{
		UserLoginName: "bs.nguyen",
		TokenCode:     "tok-1",
		LoginTime:     time.Now().Add(-time.Hour),
		ExpireTime:    time.Now().Add(d),
	}
}
