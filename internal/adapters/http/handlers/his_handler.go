package handlers

import (
	"errors"

	"labis-admin/internal/adapters/persistence/models"
	"labis-admin/internal/core/domain"
	"labis-admin/internal/core/services"
	"labis-admin/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HisHandler handles HIS (hospital information system) integration
// endpoints. Authenticated routes act on the HIS session tied to the
// current user's stored HIS username; the direct-login routes implement
// the HIS-first login flow.
type HisHandler struct {
	hisTokenService *services.HisTokenService
	authService     *services.AuthService
}

// NewHisHandler creates a new HIS handler
func NewHisHandler(hisTokenService *services.HisTokenService, authService *services.AuthService) *HisHandler {
	return &HisHandler{
		hisTokenService: hisTokenService,
		authService:     authService,
	}
}

// DirectLoginRequest is the HIS-first login request
type DirectLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ValidateTokenRequest carries a raw HIS token code
type ValidateTokenRequest struct {
	TokenCode string `json:"tokenCode"`
}

// DirectLoginResponse pairs the local auth session with the HIS session
type DirectLoginResponse struct {
	Auth     *services.AuthResponse     `json:"auth"`
	HisToken *services.HisTokenResponse `json:"hisToken"`
}

// Login godoc
// @Summary Open HIS session
// @Description Log into the HIS with the current user's stored HIS credentials
// @Tags his
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=services.HisTokenResponse}
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /his-integration/login [post]
func (h *HisHandler) Login(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	token, err := h.hisTokenService.LoginFor(c.Context(), user)
	if err != nil {
		return h.hisError(c, err, "HIS login failed")
	}

	return response.Success(c, "HIS login successful", token)
}

// Token godoc
// @Summary Stored HIS token
// @Description Return the stored HIS session for the current user
// @Tags his
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=services.HisTokenResponse}
// @Failure 404 {object} response.Response
// @Router /his-integration/token [get]
func (h *HisHandler) Token(c *fiber.Ctx) error {
	loginName, err := h.currentLoginName(c)
	if err != nil {
		return h.hisError(c, err, "Failed to get HIS token")
	}

	token, err := h.hisTokenService.Get(c.Context(), loginName)
	if err != nil {
		return h.hisError(c, err, "Failed to get HIS token")
	}

	return response.Success(c, "HIS token retrieved successfully", token)
}

// TokenStatus godoc
// @Summary HIS token status
// @Description Expiry bookkeeping for the current user's stored HIS session. The console polls this every minute.
// @Tags his
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=services.HisTokenStatus}
// @Failure 404 {object} response.Response
// @Router /his-integration/token-status [get]
func (h *HisHandler) TokenStatus(c *fiber.Ctx) error {
	loginName, err := h.currentLoginName(c)
	if err != nil {
		return h.hisError(c, err, "Failed to get HIS token status")
	}

	status, err := h.hisTokenService.Status(c.Context(), loginName)
	if err != nil {
		return h.hisError(c, err, "Failed to get HIS token status")
	}

	return response.Success(c, "HIS token status retrieved successfully", status)
}

// RenewToken godoc
// @Summary Renew HIS token
// @Description Exchange the stored renew code for a fresh HIS token
// @Tags his
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=services.HisTokenResponse}
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /his-integration/renew-token [post]
func (h *HisHandler) RenewToken(c *fiber.Ctx) error {
	loginName, err := h.currentLoginName(c)
	if err != nil {
		return h.hisError(c, err, "HIS token renewal failed")
	}

	token, err := h.hisTokenService.Renew(c.Context(), loginName)
	if err != nil {
		return h.hisError(c, err, "HIS token renewal failed")
	}

	return response.Success(c, "HIS token renewed successfully", token)
}

// RefreshToken godoc
// @Summary Refresh HIS session
// @Description Open a brand new HIS session with the stored credentials, replacing the held token
// @Tags his
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=services.HisTokenResponse}
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /his-integration/refresh-token [post]
func (h *HisHandler) RefreshToken(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	token, err := h.hisTokenService.RefreshFor(c.Context(), user)
	if err != nil {
		return h.hisError(c, err, "HIS session refresh failed")
	}

	return response.Success(c, "HIS session refreshed successfully", token)
}

// CallAPI godoc
// @Summary Proxy HIS API call
// @Description Forward a request to the HIS using the stored token. An expired token is renewed first when possible.
// @Tags his
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.HISAPIRequest true "HIS request"
// @Success 200 {object} response.Response{data=services.HISAPIResult}
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /his-integration/call-api [post]
func (h *HisHandler) CallAPI(c *fiber.Ctx) error {
	var req services.HISAPIRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Endpoint == "" {
		return response.BadRequest(c, "Endpoint is required")
	}

	loginName, err := h.currentLoginName(c)
	if err != nil {
		return h.hisError(c, err, "HIS call failed")
	}

	result, err := h.hisTokenService.CallAPI(c.Context(), loginName, &req)
	if err != nil {
		return h.hisError(c, err, "HIS call failed")
	}

	return response.Success(c, "HIS call successful", result)
}

// UserInfo godoc
// @Summary HIS user info
// @Description Return the stored HIS session for a specific HIS login name
// @Tags his
// @Produce json
// @Security BearerAuth
// @Param username path string true "HIS login name"
// @Success 200 {object} response.Response{data=services.HisTokenResponse}
// @Failure 404 {object} response.Response
// @Router /his-integration/user-info/{username} [get]
func (h *HisHandler) UserInfo(c *fiber.Ctx) error {
	token, err := h.hisTokenService.Get(c.Context(), c.Params("username"))
	if err != nil {
		return h.hisError(c, err, "Failed to get HIS user info")
	}

	return response.Success(c, "HIS user info retrieved successfully", token)
}

// Logout godoc
// @Summary Close HIS session
// @Description Log a HIS login name out. The remote logout is best effort; the stored token is always removed.
// @Tags his
// @Produce json
// @Security BearerAuth
// @Param username path string true "HIS login name"
// @Success 200 {object} response.Response
// @Router /his-integration/logout/{username} [post]
func (h *HisHandler) Logout(c *fiber.Ctx) error {
	if err := h.hisTokenService.Logout(c.Context(), c.Params("username")); err != nil {
		return response.InternalServerError(c, "HIS logout failed")
	}

	return response.Success(c, "HIS logout successful", nil)
}

// CleanupExpiredTokens godoc
// @Summary Cleanup expired HIS tokens
// @Description Delete every expired stored HIS token. Also runs hourly in the background.
// @Tags his
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /his-integration/cleanup-expired-tokens [post]
func (h *HisHandler) CleanupExpiredTokens(c *fiber.Ctx) error {
	removed, err := h.hisTokenService.CleanupExpired(c.Context())
	if err != nil {
		return response.InternalServerError(c, "HIS token cleanup failed")
	}

	return response.Success(c, "Expired HIS tokens removed", fiber.Map{"removed": removed})
}

// DirectLogin godoc
// @Summary HIS-first login
// @Description Authenticate against the HIS with explicit credentials, then open a local session for the user mapped to that HIS username
// @Tags his
// @Accept json
// @Produce json
// @Param request body DirectLoginRequest true "HIS credentials"
// @Success 200 {object} response.Response{data=DirectLoginResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /his-direct-login/login [post]
func (h *HisHandler) DirectLogin(c *fiber.Ctx) error {
	var req DirectLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return response.BadRequest(c, "Username and password are required")
	}

	// 1. Authenticate against the HIS
	hisToken, err := h.hisTokenService.DirectLogin(c.Context(), req.Username, req.Password)
	if err != nil {
		return h.hisError(c, err, "HIS login failed")
	}

	// 2. Map the HIS session to a local account
	user, err := h.authService.UserByHisUsername(c.Context(), req.Username)
	if err != nil {
		return response.Unauthorized(c, "No local account is linked to this HIS username")
	}
	if !user.IsActive {
		return response.Forbidden(c, "Account is inactive")
	}

	// 3. Open the local session
	auth, err := h.authService.IssueTokensFor(c.Context(), user)
	if err != nil {
		return response.InternalServerError(c, "HIS login failed")
	}

	return response.Success(c, "HIS login successful", &DirectLoginResponse{
		Auth:     auth,
		HisToken: hisToken,
	})
}

// ValidateToken godoc
// @Summary Validate HIS token code
// @Description Check a raw HIS token code against the store and return its status
// @Tags his
// @Accept json
// @Produce json
// @Param request body ValidateTokenRequest true "Token code"
// @Success 200 {object} response.Response{data=services.HisTokenStatus}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /his-direct-login/validate-token [post]
func (h *HisHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.TokenCode == "" {
		return response.BadRequest(c, "Token code is required")
	}

	_, status, err := h.hisTokenService.Validate(c.Context(), req.TokenCode)
	if err != nil {
		if errors.Is(err, domain.ErrHisTokenExpired) {
			return response.ErrorWithData(c, fiber.StatusUnauthorized, "HIS token expired", status)
		}
		return h.hisError(c, err, "HIS token validation failed")
	}

	return response.Success(c, "HIS token is valid", status)
}

// currentUser loads the authenticated user
func (h *HisHandler) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return h.authService.GetUserByID(c.Context(), userID)
}

// currentLoginName resolves the HIS login name of the authenticated user
func (h *HisHandler) currentLoginName(c *fiber.Ctx) (string, error) {
	user, err := h.currentUser(c)
	if err != nil {
		return "", err
	}
	if user.HisUsername == "" {
		return "", domain.ErrHisCredentialsUnset
	}
	return user.HisUsername, nil
}

// hisError maps HIS domain errors to HTTP responses
func (h *HisHandler) hisError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrHisCredentialsUnset):
		return response.BadRequest(c, "No HIS credentials are configured for this account")
	case errors.Is(err, domain.ErrHisTokenNotFound):
		return response.NotFound(c, "No HIS session found")
	case errors.Is(err, domain.ErrHisTokenExpired):
		return response.Unauthorized(c, "HIS token expired")
	case errors.Is(err, domain.ErrHisNoRenewCode):
		return response.BadRequest(c, "Stored HIS session has no renew code")
	case errors.Is(err, domain.ErrHisLoginFailed):
		return response.Unauthorized(c, "HIS rejected the credentials")
	case errors.Is(err, domain.ErrHisUnavailable):
		return response.BadGateway(c, "HIS is unreachable")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return response.Unauthorized(c, "Unauthorized")
	default:
		return response.InternalServerError(c, fallback)
	}
}
