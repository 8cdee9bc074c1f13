package repositories

import (
	"context"
	"time"

	"labis-admin/internal/adapters/persistence/models"
)

// UserFilter narrows user listings
type UserFilter struct {
	Search       string
	Role         string
	IsActive     *bool
	ProvinceID   string
	WardID       string
	DepartmentID string
	Limit        int
	Offset       int
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*models.User, error)
	GetByHisUsername(ctx context.Context, hisUsername string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f UserFilter) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// HisTokenRepository defines HIS token repository interface.
// One token row per HIS login name; saving replaces any previous row.
type HisTokenRepository interface {
	Save(ctx context.Context, token *models.HisToken) error
	GetByLoginName(ctx context.Context, loginName string) (*models.HisToken, error)
	GetByTokenCode(ctx context.Context, tokenCode string) (*models.HisToken, error)
	DeleteByLoginName(ctx context.Context, loginName string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
