package services

import (
	"context"
	"errors"
	"log"
	"time"

	"labis-admin/internal/adapters/persistence/models"
	"labis-admin/internal/adapters/persistence/repositories"
	"labis-admin/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents user creation input
type CreateUserInput struct {
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	FullName     string     `json:"fullName"`
	PhoneNumber  string     `json:"phoneNumber"`
	DateOfBirth  *time.Time `json:"dateOfBirth"`
	Address      string     `json:"address"`
	Role         string     `json:"role"`
	IsActive     *bool      `json:"isActive"`
	HisUsername  string     `json:"hisUsername"`
	HisPassword  string     `json:"hisPassword"`
	ProvinceID   *string    `json:"provinceId"`
	WardID       *string    `json:"wardId"`
	DepartmentID *string    `json:"departmentId"`
}

// UpdateUserInput represents user update input. Empty fields are left
// untouched; a new password, when present, is re-hashed.
type UpdateUserInput struct {
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	FullName     string     `json:"fullName"`
	PhoneNumber  string     `json:"phoneNumber"`
	DateOfBirth  *time.Time `json:"dateOfBirth"`
	Address      string     `json:"address"`
	Role         string     `json:"role"`
	IsActive     *bool      `json:"isActive"`
	HisUsername  string     `json:"hisUsername"`
	HisPassword  string     `json:"hisPassword"`
	ProvinceID   *string    `json:"provinceId"`
	WardID       *string    `json:"wardId"`
	DepartmentID *string    `json:"departmentId"`
}

// List lists users matching the filter
func (s *UserService) List(ctx context.Context, f repositories.UserFilter) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, f)
}

// Get gets a user by ID
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, input *CreateUserInput) (*models.User, error) {
	// 1. Check if username already exists
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	// 2. Check if email already exists
	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	// 3. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = "USER"
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		Password:     hashedPassword,
		FullName:     input.FullName,
		PhoneNumber:  input.PhoneNumber,
		DateOfBirth:  input.DateOfBirth,
		Address:      input.Address,
		Role:         role,
		IsActive:     isActive,
		HisUsername:  input.HisUsername,
		HisPassword:  input.HisPassword,
		ProvinceID:   input.ProvinceID,
		WardID:       input.WardID,
		DepartmentID: input.DepartmentID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User created: %s", user.Username)
	return user, nil
}

// Update updates an existing user
func (s *UserService) Update(ctx context.Context, id string, input *UpdateUserInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != "" && input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUserAlreadyExists
		}
		user.Email = input.Email
	}
	if input.Password != "" {
		hashed, err := password.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}
	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = input.PhoneNumber
	}
	if input.DateOfBirth != nil {
		user.DateOfBirth = input.DateOfBirth
	}
	if input.Address != "" {
		user.Address = input.Address
	}
	if input.Role != "" {
		user.Role = input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.HisUsername != "" {
		user.HisUsername = input.HisUsername
	}
	if input.HisPassword != "" {
		user.HisPassword = input.HisPassword
	}
	if input.ProvinceID != nil {
		user.ProvinceID = input.ProvinceID
	}
	if input.WardID != nil {
		user.WardID = input.WardID
	}
	if input.DepartmentID != nil {
		user.DepartmentID = input.DepartmentID
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User updated: %s", user.Username)
	return user, nil
}

// Delete soft deletes a user
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ User deleted: %s", id)
	return nil
}
