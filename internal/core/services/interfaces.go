package services

import "context"

// HISGateway is the outbound interface to the hospital information system.
// HISService implements it against the real HIS; tests substitute a fake.
type HISGateway interface {
	Login(ctx context.Context, username, password string) (*HISSession, error)
	Renew(ctx context.Context, renewCode string) (*HISSession, error)
	Logout(ctx context.Context, tokenCode string) error
	CallAPI(ctx context.Context, tokenCode string, req *HISAPIRequest) (*HISAPIResult, error)
}
