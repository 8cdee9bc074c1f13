package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"labis-admin/internal/config"
	"labis-admin/internal/core/domain"
)

// HISRole is one role entry as returned by the HIS
type HISRole struct {
	RoleCode string `json:"roleCode"`
	RoleName string `json:"roleName"`
}

// HISSession is the token record returned by the HIS on login/renew
type HISSession struct {
	TokenCode       string    `json:"tokenCode"`
	RenewCode       string    `json:"renewCode,omitempty"`
	UserLoginName   string    `json:"userLoginName"`
	UserName        string    `json:"userName"`
	UserEmail       string    `json:"userEmail"`
	UserMobile      string    `json:"userMobile"`
	UserGCode       string    `json:"userGCode"`
	ApplicationCode string    `json:"applicationCode"`
	LoginTime       time.Time `json:"loginTime"`
	ExpireTime      time.Time `json:"expireTime"`
	Roles           []HISRole `json:"roles,omitempty"`
}

// HISAPIRequest is a proxied call to an arbitrary HIS endpoint
type HISAPIRequest struct {
	Endpoint string                 `json:"endpoint"`
	Method   string                 `json:"method,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// HISAPIResult carries the raw HIS response of a proxied call
type HISAPIResult struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// HISService talks HTTP to the hospital information system.
// It holds no state beyond configuration; token persistence is the
// HisTokenService's job.
type HISService struct {
	cfg    config.HISConfig
	client *http.Client
}

// NewHISService creates a new HIS service
func NewHISService(cfg config.HISConfig) *HISService {
	return &HISService{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
		},
	}
}

// hisLoginRequest is the body sent to the HIS token endpoint
type hisLoginRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ApplicationCode string `json:"applicationCode"`
	Secret          string `json:"secret,omitempty"`
}

// hisEnvelope mirrors the HIS response wrapper
type hisEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Login opens an HIS session with user credentials
func (s *HISService) Login(ctx context.Context, username, password string) (*HISSession, error) {
	body := hisLoginRequest{
		Username:        username,
		Password:        password,
		ApplicationCode: s.cfg.ApplicationCode,
		Secret:          s.cfg.Secret,
	}

	var session HISSession
	if err := s.post(ctx, "/auth/token", body, &session); err != nil {
		return nil, err
	}
	if session.TokenCode == "" {
		return nil, domain.ErrHisLoginFailed
	}
	if session.ApplicationCode == "" {
		session.ApplicationCode = s.cfg.ApplicationCode
	}
	return &session, nil
}

// Renew exchanges a renew code for a fresh HIS session
func (s *HISService) Renew(ctx context.Context, renewCode string) (*HISSession, error) {
	body := map[string]string{
		"renewCode":       renewCode,
		"applicationCode": s.cfg.ApplicationCode,
	}

	var session HISSession
	if err := s.post(ctx, "/auth/renew-token", body, &session); err != nil {
		return nil, err
	}
	if session.TokenCode == "" {
		return nil, domain.ErrHisLoginFailed
	}
	return &session, nil
}

// Logout invalidates an HIS session. Best effort: the local record is
// removed by the caller regardless of the outcome here.
func (s *HISService) Logout(ctx context.Context, tokenCode string) error {
	return s.post(ctx, "/auth/logout", map[string]string{"tokenCode": tokenCode}, nil)
}

// CallAPI proxies an arbitrary request to the HIS with the token attached
func (s *HISService) CallAPI(ctx context.Context, tokenCode string, apiReq *HISAPIRequest) (*HISAPIResult, error) {
	method := strings.ToUpper(apiReq.Method)
	if method == "" {
		method = http.MethodGet
	}

	var reqBody io.Reader
	if apiReq.Data != nil {
		payload, err := json.Marshal(apiReq.Data)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(payload)
	}

	url := s.cfg.BaseURL + "/" + strings.TrimPrefix(apiReq.Endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Token-Code", tokenCode)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHisUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &HISAPIResult{
		Status: resp.StatusCode,
		Body:   json.RawMessage(respBody),
	}, nil
}

// post sends a JSON POST to an HIS auth endpoint and decodes the data
// payload into out (when out is non-nil)
func (s *HISService) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrHisUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HIS responded %d: %s", domain.ErrHisLoginFailed, resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}

	// The HIS wraps payloads in {success, message, data}; older endpoints
	// return the record bare. Try the envelope first.
	var envelope hisEnvelope
	if err := json.Unmarshal(respBody, &envelope); err == nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, out)
	}
	return json.Unmarshal(respBody, out)
}
