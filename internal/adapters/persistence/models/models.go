package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents the users table. Users may optionally carry HIS
// credentials so the backend can open an HIS session on their behalf.
type User struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Username    string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email       string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	FullName    string         `gorm:"size:100;not null" json:"fullName"`
	PhoneNumber string         `gorm:"size:20" json:"phoneNumber,omitempty"`
	DateOfBirth *time.Time     `gorm:"type:date" json:"dateOfBirth,omitempty"`
	Address     string         `gorm:"size:255" json:"address,omitempty"`
	Role        string         `gorm:"size:20;default:'USER'" json:"role"`
	IsActive    bool           `gorm:"default:true" json:"isActive"`
	LastLoginAt *time.Time     `json:"lastLoginAt,omitempty"`
	HisUsername string         `gorm:"size:50" json:"hisUsername,omitempty"`
	HisPassword string         `gorm:"size:255" json:"-"`
	ProvinceID  *string        `gorm:"size:36;index" json:"provinceId,omitempty"`
	WardID      *string        `gorm:"size:36;index" json:"wardId,omitempty"`
	DepartmentID *string       `gorm:"size:36;index" json:"departmentId,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Province   *Province   `gorm:"foreignKey:ProvinceID" json:"province,omitempty"`
	Ward       *Ward       `gorm:"foreignKey:WardID" json:"ward,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// UserResponse DTO (never exposes password or HIS password)
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"fullName"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	HisUsername string     `json:"hisUsername,omitempty"`
	ProvinceID  *string    `json:"provinceId,omitempty"`
	WardID      *string    `json:"wardId,omitempty"`
	DepartmentID *string   `json:"departmentId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		HisUsername: u.HisUsername,
		ProvinceID:  u.ProvinceID,
		WardID:      u.WardID,
		DepartmentID: u.DepartmentID,
		CreatedAt:   u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"size:36;index;not null" json:"userId"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	RevokedAt *time.Time `gorm:"index" json:"revokedAt"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// HIS Token Table
// ============================================================

// HisToken stores the external HIS session held for a user login name.
// One row per login name; a re-login replaces the row.
type HisToken struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserLoginName   string    `gorm:"uniqueIndex;size:50;not null" json:"userLoginName"`
	TokenCode       string    `gorm:"size:255;not null" json:"tokenCode"`
	RenewCode       string    `gorm:"size:255" json:"renewCode,omitempty"`
	UserName        string    `gorm:"size:100" json:"userName"`
	UserEmail       string    `gorm:"size:100" json:"userEmail"`
	UserMobile      string    `gorm:"size:20" json:"userMobile"`
	UserGCode       string    `gorm:"size:50" json:"userGCode"`
	ApplicationCode string    `gorm:"size:50" json:"applicationCode"`
	LoginTime       time.Time `gorm:"not null" json:"loginTime"`
	ExpireTime      time.Time `gorm:"not null;index" json:"expireTime"`
	// Roles as returned by the HIS, stored verbatim
	RolesJSON string    `gorm:"type:text" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (HisToken) TableName() string {
	return "his_tokens"
}

func (t *HisToken) IsExpired() bool {
	return time.Now().After(t.ExpireTime)
}

// MinutesUntilExpire returns whole minutes until expiry, never negative
func (t *HisToken) MinutesUntilExpire() int {
	mins := int(time.Until(t.ExpireTime).Minutes())
	if mins < 0 {
		return 0
	}
	return mins
}
