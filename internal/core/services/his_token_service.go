package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"labis-admin/internal/adapters/persistence/models"
	"labis-admin/internal/adapters/persistence/repositories"
	"labis-admin/internal/config"
	"labis-admin/internal/core/domain"

	"gorm.io/gorm"
)

// HisTokenStatus is the polled expiry bookkeeping for a stored HIS token
type HisTokenStatus struct {
	IsValid            bool      `json:"isValid"`
	IsExpired          bool      `json:"isExpired"`
	IsExpiringSoon     bool      `json:"isExpiringSoon"`
	MinutesUntilExpire int       `json:"minutesUntilExpire"`
	UserLoginName      string    `json:"userLoginName"`
	UserName           string    `json:"userName"`
	LoginTime          time.Time `json:"loginTime"`
	ExpireTime         time.Time `json:"expireTime"`
}

// HisTokenResponse is the stored token record as served to the console
type HisTokenResponse struct {
	TokenCode          string    `json:"tokenCode"`
	RenewCode          string    `json:"renewCode,omitempty"`
	UserLoginName      string    `json:"userLoginName"`
	UserName           string    `json:"userName"`
	UserEmail          string    `json:"userEmail"`
	UserMobile         string    `json:"userMobile"`
	UserGCode          string    `json:"userGCode"`
	ApplicationCode    string    `json:"applicationCode"`
	LoginTime          time.Time `json:"loginTime"`
	ExpireTime         time.Time `json:"expireTime"`
	MinutesUntilExpire int       `json:"minutesUntilExpire"`
	Roles              []HISRole `json:"roles,omitempty"`
}

// HisTokenService owns the lifecycle of stored HIS sessions: login,
// renewal, status bookkeeping and cleanup. All HIS traffic goes through
// the HISGateway; all persistence through the token repository.
type HisTokenService struct {
	gateway   HISGateway
	tokenRepo repositories.HisTokenRepository
	userRepo  repositories.UserRepository
	cfg       *config.Config
}

// NewHisTokenService creates a new HIS token service
func NewHisTokenService(
	gateway HISGateway,
	tokenRepo repositories.HisTokenRepository,
	userRepo repositories.UserRepository,
	cfg *config.Config,
) *HisTokenService {
	return &HisTokenService{
		gateway:   gateway,
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		cfg:       cfg,
	}
}

// LoginFor opens an HIS session with the user's stored HIS credentials
func (s *HisTokenService) LoginFor(ctx context.Context, user *models.User) (*HisTokenResponse, error) {
	if user.HisUsername == "" || user.HisPassword == "" {
		return nil, domain.ErrHisCredentialsUnset
	}
	return s.loginAndStore(ctx, user.HisUsername, user.HisPassword)
}

// DirectLogin opens an HIS session with explicit credentials. Used by the
// HIS-first login flow; the caller maps the session to a local user.
func (s *HisTokenService) DirectLogin(ctx context.Context, username, password string) (*HisTokenResponse, error) {
	return s.loginAndStore(ctx, username, password)
}

// RefreshFor re-logs into the HIS with the user's stored credentials,
// replacing whatever token was held
func (s *HisTokenService) RefreshFor(ctx context.Context, user *models.User) (*HisTokenResponse, error) {
	return s.LoginFor(ctx, user)
}

// Get returns the stored token record for a login name
func (s *HisTokenService) Get(ctx context.Context, loginName string) (*HisTokenResponse, error) {
	token, err := s.find(ctx, loginName)
	if err != nil {
		return nil, err
	}
	return s.toResponse(token), nil
}

// Status computes the expiry bookkeeping for a stored token
func (s *HisTokenService) Status(ctx context.Context, loginName string) (*HisTokenStatus, error) {
	token, err := s.find(ctx, loginName)
	if err != nil {
		return nil, err
	}
	return s.statusOf(token), nil
}

// Renew exchanges the stored renew code for a fresh token
func (s *HisTokenService) Renew(ctx context.Context, loginName string) (*HisTokenResponse, error) {
	token, err := s.find(ctx, loginName)
	if err != nil {
		return nil, err
	}
	if token.RenewCode == "" {
		return nil, domain.ErrHisNoRenewCode
	}

	session, err := s.gateway.Renew(ctx, token.RenewCode)
	if err != nil {
		return nil, err
	}
	// A renewed session keeps the original login name
	if session.UserLoginName == "" {
		session.UserLoginName = token.UserLoginName
	}

	stored, err := s.store(ctx, session)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ HIS token renewed for %s (expires %s)", stored.UserLoginName, stored.ExpireTime.Format(time.RFC3339))
	return s.toResponse(stored), nil
}

// Validate checks a raw token code against the store
func (s *HisTokenService) Validate(ctx context.Context, tokenCode string) (*models.HisToken, *HisTokenStatus, error) {
	token, err := s.tokenRepo.GetByTokenCode(ctx, tokenCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrHisTokenNotFound
		}
		return nil, nil, err
	}

	status := s.statusOf(token)
	if status.IsExpired {
		return token, status, domain.ErrHisTokenExpired
	}
	return token, status, nil
}

// CallAPI proxies a request to the HIS using the stored token for the
// login name. An expired token is renewed first when a renew code exists.
func (s *HisTokenService) CallAPI(ctx context.Context, loginName string, req *HISAPIRequest) (*HISAPIResult, error) {
	token, err := s.find(ctx, loginName)
	if err != nil {
		return nil, err
	}

	if token.IsExpired() {
		if token.RenewCode == "" {
			return nil, domain.ErrHisTokenExpired
		}
		if _, err := s.Renew(ctx, loginName); err != nil {
			return nil, err
		}
		token, err = s.find(ctx, loginName)
		if err != nil {
			return nil, err
		}
	}

	return s.gateway.CallAPI(ctx, token.TokenCode, req)
}

// Logout removes the stored token. The remote HIS logout is best effort;
// the local removal always happens.
func (s *HisTokenService) Logout(ctx context.Context, loginName string) error {
	token, err := s.find(ctx, loginName)
	if err != nil {
		if errors.Is(err, domain.ErrHisTokenNotFound) {
			return nil
		}
		return err
	}

	if err := s.gateway.Logout(ctx, token.TokenCode); err != nil {
		log.Printf("⚠️ HIS remote logout failed for %s: %v", loginName, err)
	}

	if err := s.tokenRepo.DeleteByLoginName(ctx, loginName); err != nil {
		return err
	}

	log.Printf("✅ HIS session cleared for %s", loginName)
	return nil
}

// CleanupExpired deletes all expired stored tokens
func (s *HisTokenService) CleanupExpired(ctx context.Context) (int64, error) {
	removed, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Printf("🗑️ Removed %d expired HIS tokens", removed)
	}
	return removed, nil
}

// loginAndStore performs an HIS login and persists the session
func (s *HisTokenService) loginAndStore(ctx context.Context, username, password string) (*HisTokenResponse, error) {
	session, err := s.gateway.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if session.UserLoginName == "" {
		session.UserLoginName = username
	}

	stored, err := s.store(ctx, session)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ HIS session opened for %s (expires %s)", stored.UserLoginName, stored.ExpireTime.Format(time.RFC3339))
	return s.toResponse(stored), nil
}

// store persists an HIS session, replacing any previous row for the login name
func (s *HisTokenService) store(ctx context.Context, session *HISSession) (*models.HisToken, error) {
	rolesJSON := ""
	if len(session.Roles) > 0 {
		raw, err := json.Marshal(session.Roles)
		if err != nil {
			return nil, err
		}
		rolesJSON = string(raw)
	}

	token := &models.HisToken{
		UserLoginName:   session.UserLoginName,
		TokenCode:       session.TokenCode,
		RenewCode:       session.RenewCode,
		UserName:        session.UserName,
		UserEmail:       session.UserEmail,
		UserMobile:      session.UserMobile,
		UserGCode:       session.UserGCode,
		ApplicationCode: session.ApplicationCode,
		LoginTime:       session.LoginTime,
		ExpireTime:      session.ExpireTime,
		RolesJSON:       rolesJSON,
	}

	if err := s.tokenRepo.Save(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// find loads the stored token for a login name
func (s *HisTokenService) find(ctx context.Context, loginName string) (*models.HisToken, error) {
	token, err := s.tokenRepo.GetByLoginName(ctx, loginName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrHisTokenNotFound
		}
		return nil, err
	}
	return token, nil
}

// statusOf computes the status record for a stored token
func (s *HisTokenService) statusOf(token *models.HisToken) *HisTokenStatus {
	expired := token.IsExpired()
	mins := token.MinutesUntilExpire()

	return &HisTokenStatus{
		IsValid:            !expired,
		IsExpired:          expired,
		IsExpiringSoon:     !expired && mins < s.cfg.HIS.ExpireSoonMins,
		MinutesUntilExpire: mins,
		UserLoginName:      token.UserLoginName,
		UserName:           token.UserName,
		LoginTime:          token.LoginTime,
		ExpireTime:         token.ExpireTime,
	}
}

// toResponse maps a stored token to its response DTO
func (s *HisTokenService) toResponse(token *models.HisToken) *HisTokenResponse {
	var roles []HISRole
	if token.RolesJSON != "" {
		// Roles were marshalled by us; a decode failure means a corrupt
		// row and is treated as "no roles"
		_ = json.Unmarshal([]byte(token.RolesJSON), &roles)
	}

	return &HisTokenResponse{
		TokenCode:          token.TokenCode,
		RenewCode:          token.RenewCode,
		UserLoginName:      token.UserLoginName,
		UserName:           token.UserName,
		UserEmail:          token.UserEmail,
		UserMobile:         token.UserMobile,
		UserGCode:          token.UserGCode,
		ApplicationCode:    token.ApplicationCode,
		LoginTime:          token.LoginTime,
		ExpireTime:         token.ExpireTime,
		MinutesUntilExpire: token.MinutesUntilExpire(),
		Roles:              roles,
	}
}
