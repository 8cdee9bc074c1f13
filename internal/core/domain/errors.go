package domain

import "errors"

// HIS errors
var (
	ErrHisUnavailable      = errors.New("HIS is unavailable")
	ErrHisLoginFailed      = errors.New("HIS login failed")
	ErrHisTokenNotFound    = errors.New("no HIS token stored for user")
	ErrHisTokenExpired     = errors.New("HIS token expired")
	ErrHisNoRenewCode      = errors.New("stored HIS token has no renew code")
	ErrHisCredentialsUnset = errors.New("user has no HIS credentials configured")
)
