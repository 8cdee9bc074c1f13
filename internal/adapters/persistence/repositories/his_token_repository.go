package repositories

import (
	"context"
	"time"

	"labis-admin/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// hisTokenRepository implements HisTokenRepository interface
type hisTokenRepository struct {
	db *gorm.DB
}

// NewHisTokenRepository creates a new HIS token repository
func NewHisTokenRepository(db *gorm.DB) HisTokenRepository {
	return &hisTokenRepository{db: db}
}

// Save inserts or replaces the token row for the login name
func (r *hisTokenRepository) Save(ctx context.Context, token *models.HisToken) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_login_name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"token_code", "renew_code", "user_name", "user_email",
				"user_mobile", "user_g_code", "application_code",
				"login_time", "expire_time", "roles_json", "updated_at",
			}),
		}).
		Create(token).Error
}

// GetByLoginName gets the stored token for a login name
func (r *hisTokenRepository) GetByLoginName(ctx context.Context, loginName string) (*models.HisToken, error) {
	var token models.HisToken
	err := r.db.WithContext(ctx).Where("user_login_name = ?", loginName).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetByTokenCode gets the stored token matching a token code
func (r *hisTokenRepository) GetByTokenCode(ctx context.Context, tokenCode string) (*models.HisToken, error) {
	var token models.HisToken
	err := r.db.WithContext(ctx).Where("token_code = ?", tokenCode).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteByLoginName deletes the stored token for a login name
func (r *hisTokenRepository) DeleteByLoginName(ctx context.Context, loginName string) error {
	return r.db.WithContext(ctx).
		Where("user_login_name = ?", loginName).
		Delete(&models.HisToken{}).Error
}

// DeleteExpired deletes all expired HIS tokens (cleanup job)
func (r *hisTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expire_time < ?", time.Now()).
		Delete(&models.HisToken{})
	return result.RowsAffected, result.Error
}
