package services

import (
	"context"
	"errors"
	"log"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/adapters/persistence/repositories"
	"spsc-alumni/internal/core/domain"
	"spsc-alumni/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles operator account management (admin only)
type UserService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// CreateUserInput represents create user input
type CreateUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"max=100"`
	Role     string `json:"role" validate:"required,oneof=admin staff"`
}

// Create creates a new operator account
func (s *UserService) Create(ctx context.Context, input *CreateUserInput) (*models.User, error) {
	if !domain.ValidRole(input.Role) {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashedPassword,
		FullName: input.FullName,
		Role:     input.Role,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User created: %s (role: %s)", user.Username, user.Role)
	return user, nil
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List lists users with pagination
func (s *UserService) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, offset, limit)
}

// UpdateUserInput represents update user input
type UpdateUserInput struct {
	Email    string `json:"email" validate:"omitempty,email"`
	FullName string `json:"full_name" validate:"max=100"`
}

// Update updates profile fields of a user
func (s *UserService) Update(ctx context.Context, id uint, input *UpdateUserInput) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != "" && input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrUserAlreadyExists
		}
		user.Email = input.Email
	}
	if input.FullName != "" {
		user.FullName = input.FullName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangeRole changes a user's role
func (s *UserService) ChangeRole(ctx context.Context, id uint, role string) (*models.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("🏷️ User %s role changed to %s", user.Username, role)
	return user, nil
}

// SetActive activates or deactivates an account. Deactivation also revokes
// every refresh token, so the account cannot mint new access tokens.
func (s *UserService) SetActive(ctx context.Context, id uint, active bool) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if !active {
		if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, id); err != nil {
			log.Printf("⚠️ Failed to revoke tokens for user %d: %v", id, err)
		}
	}

	return user, nil
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword changes the caller's own password and revokes all sessions
func (s *UserService) ChangePassword(ctx context.Context, id uint, input *ChangePasswordInput) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !password.Verify(input.CurrentPassword, user.Password) {
		return domain.ErrInvalidCredentials
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	return s.refreshTokenRepo.RevokeAllByUserID(ctx, id)
}

// Delete soft-deletes an account and revokes its sessions
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
