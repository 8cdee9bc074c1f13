package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"labis-admin/internal/adapters/persistence/models"
	"labis-admin/internal/config"
	"labis-admin/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeHISGateway scripts the HIS side of the token flows
type fakeHISGateway struct {
	loginSession *HISSession
	loginErr     error
	renewSession *HISSession
	renewErr     error
	logoutErr    error
	callResult   *HISAPIResult

	loginCalls  int
	renewCalls  int
	logoutCalls int
	callCalls   int
}

func (g *fakeHISGateway) Login(_ context.Context, _, _ string) (*HISSession, error) {
	g.loginCalls++
	return g.loginSession, g.loginErr
}

func (g *fakeHISGateway) Renew(_ context.Context, _ string) (*HISSession, error) {
	g.renewCalls++
	return g.renewSession, g.renewErr
}

func (g *fakeHISGateway) Logout(_ context.Context, _ string) error {
	g.logoutCalls++
	return g.logoutErr
}

func (g *fakeHISGateway) CallAPI(_ context.Context, _ string, _ *HISAPIRequest) (*HISAPIResult, error) {
	g.callCalls++
	return g.callResult, nil
}

// fakeHisTokenRepo keeps tokens in memory, one per login name
type fakeHisTokenRepo struct {
	tokens map[string]*models.HisToken
}

func newFakeHisTokenRepo() *fakeHisTokenRepo {
	return &fakeHisTokenRepo{tokens: map[string]*models.HisToken{}}
}

func (r *fakeHisTokenRepo) Save(_ context.Context, token *models.HisToken) error {
	r.tokens[token.UserLoginName] = token
	return nil
}

func (r *fakeHisTokenRepo) GetByLoginName(_ context.Context, loginName string) (*models.HisToken, error) {
	if t, ok := r.tokens[loginName]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeHisTokenRepo) GetByTokenCode(_ context.Context, tokenCode string) (*models.HisToken, error) {
	for _, t := range r.tokens {
		if t.TokenCode == tokenCode {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeHisTokenRepo) DeleteByLoginName(_ context.Context, loginName string) error {
	delete(r.tokens, loginName)
	return nil
}

func (r *fakeHisTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	var removed int64
	for name, t := range r.tokens {
		if t.IsExpired() {
			delete(r.tokens, name)
			removed++
		}
	}
	return removed, nil
}

func hisTokenTestService(gateway HISGateway, repo *fakeHisTokenRepo) *HisTokenService {
	cfg := &config.Config{HIS: config.HISConfig{ApplicationCode: "LABIS", ExpireSoonMins: 10}}
	return NewHisTokenService(gateway, repo, nil, cfg)
}

func liveSession(login string) *HISSession {
	return &HISSession{
		TokenCode:     "tok-1",
		RenewCode:     "renew-1",
		UserLoginName: login,
		LoginTime:     time.Now(),
		ExpireTime:    time.Now().Add(8 * time.Hour),
	}
}

func TestLoginForRequiresStoredCredentials(t *testing.T) {
	svc := hisTokenTestService(&fakeHISGateway{}, newFakeHisTokenRepo())

	_, err := svc.LoginFor(context.Background(), &models.User{Username: "admin"})
	assert.ErrorIs(t, err, domain.ErrHisCredentialsUnset)
}

func TestLoginForStoresSession(t *testing.T) {
	gateway := &fakeHISGateway{loginSession: liveSession("bs.nguyen")}
	repo := newFakeHisTokenRepo()
	svc := hisTokenTestService(gateway, repo)

	user := &models.User{Username: "admin", HisUsername: "bs.nguyen", HisPassword: "pw"}
	resp, err := svc.LoginFor(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.TokenCode)

	stored, err := repo.GetByLoginName(context.Background(), "bs.nguyen")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", stored.TokenCode)
}

func TestRenewWithoutRenewCode(t *testing.T) {
	repo := newFakeHisTokenRepo()
	repo.tokens["bs.nguyen"] = &models.HisToken{
		UserLoginName: "bs.nguyen",
		TokenCode:     "tok-1",
		ExpireTime:    time.Now().Add(time.Hour),
	}
	svc := hisTokenTestService(&fakeHISGateway{}, repo)

	_, err := svc.Renew(context.Background(), "bs.nguyen")
	assert.ErrorIs(t, err, domain.ErrHisNoRenewCode)
}

func TestRenewKeepsLoginName(t *testing.T) {
	repo := newFakeHisTokenRepo()
	repo.tokens["bs.nguyen"] = &models.HisToken{
		UserLoginName: "bs.nguyen",
		TokenCode:     "tok-old",
		RenewCode:     "renew-1",
		ExpireTime:    time.Now().Add(time.Hour),
	}
	// The renew answer often omits the login name
	gateway := &fakeHISGateway{renewSession: &HISSession{
		TokenCode:  "tok-new",
		RenewCode:  "renew-2",
		ExpireTime: time.Now().Add(8 * time.Hour),
	}}
	svc := hisTokenTestService(gateway, repo)

	resp, err := svc.Renew(context.Background(), "bs.nguyen")
	require.NoError(t, err)
	assert.Equal(t, "tok-new", resp.TokenCode)
	assert.Equal(t, "bs.nguyen", resp.UserLoginName)

	stored, err := repo.GetByLoginName(context.Background(), "bs.nguyen")
	require.NoError(t, err)
	assert.Equal(t, "tok-new", stored.TokenCode)
}

func TestCallAPIRenewsExpiredToken(t *testing.T) {
	repo := newFakeHisTokenRepo()
	repo.tokens["bs.nguyen"] = &models.HisToken{
		UserLoginName: "bs.nguyen",
		TokenCode:     "tok-dead",
		RenewCode:     "renew-1",
		ExpireTime:    time.Now().Add(-time.Minute),
	}
	gateway := &fakeHISGateway{
		renewSession: &HISSession{TokenCode: "tok-new", ExpireTime: time.Now().Add(8 * time.Hour)},
		callResult:   &HISAPIResult{Status: 200},
	}
	svc := hisTokenTestService(gateway, repo)

	result, err := svc.CallAPI(context.Background(), "bs.nguyen", &HISAPIRequest{Endpoint: "ping"})
	require.NoError(t, err)
	assert.Equal(t, 200, result.Status)
	assert.Equal(t, 1, gateway.renewCalls, "the dead token was renewed first")
	assert.Equal(t, 1, gateway.callCalls)
}

func TestCallAPIExpiredWithoutRenewCode(t *testing.T) {
	repo := newFakeHisTokenRepo()
	repo.tokens["bs.nguyen"] = &models.HisToken{
		UserLoginName: "bs.nguyen",
		TokenCode:     "tok-dead",
		ExpireTime:    time.Now().Add(-time.Minute),
	}
	svc := hisTokenTestService(&fakeHISGateway{}, repo)

	_, err := svc.CallAPI(context.Background(), "bs.nguyen", &HISAPIRequest{Endpoint: "ping"})
	assert.ErrorIs(t, err, domain.ErrHisTokenExpired)
}

func TestValidateExpiredToken(t *testing.T) {
	repo := newFakeHisTokenRepo()
	repo.tokens["bs.nguyen"] = &models.HisToken{
		UserLoginName: "bs.nguyen",
		TokenCode:     "tok-1",
		ExpireTime:    time.Now().Add(-time.Minute),
	}
	svc := hisTokenTestService(&fakeHISGateway{}, repo)

	_, status, err := svc.Validate(context.Background(), "tok-1")
	assert.ErrorIs(t, err, domain.ErrHisTokenExpired)
	require.NotNil(t, status, "the status record accompanies the error")
	assert.True(t, status.IsExpired)
}

func TestLogoutClearsLocallyDespiteRemoteFailure(t *testing.T) {
	repo := newFakeHisTokenRepo()
	repo.tokens["bs.nguyen"] = &models.HisToken{
		UserLoginName: "bs.nguyen",
		TokenCode:     "tok-1",
		ExpireTime:    time.Now().Add(time.Hour),
	}
	gateway := &fakeHISGateway{logoutErr: errors.New("his down")}
	svc := hisTokenTestService(gateway, repo)

	require.NoError(t, svc.Logout(context.Background(), "bs.nguyen"))
	assert.Equal(t, 1, gateway.logoutCalls)

	_, err := repo.GetByLoginName(context.Background(), "bs.nguyen")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLogoutUnknownLoginNameIsNoop(t *testing.T) {
	svc := hisTokenTestService(&fakeHISGateway{}, newFakeHisTokenRepo())
	assert.NoError(t, svc.Logout(context.Background(), "ghost"))
}

func TestCleanupExpired(t *testing.T) {
	repo := newFakeHisTokenRepo()
	repo.tokens["dead"] = &models.HisToken{UserLoginName: "dead", ExpireTime: time.Now().Add(-time.Hour)}
	repo.tokens["live"] = &models.HisToken{UserLoginName: "live", ExpireTime: time.Now().Add(time.Hour)}
	svc := hisTokenTestService(&fakeHISGateway{}, repo)

	removed, err := svc.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
	assert.Len(t, repo.tokens, 1)
}
