package service

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/repository"
	"github.com/critiquehub/critique/pkg/logger"
)

var ErrInvalidRole = errors.New("invalid role")

// UserUpdate carries a partial user update; nil fields are left untouched.
type UserUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// UserService backs the admin user-management surface and the self-service
// profile endpoint. Authorization happens at the route level: only admins
// reach the management methods.
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) List(search string, page, pageSize int) ([]models.User, int64, error) {
	return s.userRepo.List(search, page, pageSize)
}

// Create adds a user on behalf of an admin, who may assign any role.
func (s *UserService) Create(username, email string, role models.Role) (*models.User, error) {
	if err := validateSignupInput(username, email); err != nil {
		return nil, err
	}
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	existing, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Role:     role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Log.Info("User created by admin",
		zap.String("user_id", user.ID.String()),
		zap.String("username", username),
		zap.String("role", string(role)),
	)
	return user, nil
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update applies an admin edit to the named user, including role changes.
func (s *UserService) Update(username string, update UserUpdate) (*models.User, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	if update.Role != nil {
		role := models.Role(*update.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}

	if err := s.applyProfileFields(user, update); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Log.Info("User updated by admin",
		zap.String("username", username),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

// UpdateProfile applies a self-service edit. Any role field in the payload
// is ignored: self-service can never escalate privilege.
func (s *UserService) UpdateProfile(userID uuid.UUID, update UserUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	update.Role = nil

	if err := s.applyProfileFields(user, update); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByID(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Delete removes a user and, through the cascade constraints, every review
// and comment they authored.
func (s *UserService) Delete(username string) error {
	user, err := s.GetByUsername(username)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return err
	}

	logger.Log.Info("User deleted by admin",
		zap.String("username", username),
	)
	return nil
}

func (s *UserService) applyProfileFields(user *models.User, update UserUpdate) error {
	if update.Email != nil && *update.Email != user.Email {
		if !emailRegex.MatchString(*update.Email) {
			return ErrInvalidEmail
		}
		existing, err := s.userRepo.GetByEmail(*update.Email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != user.ID {
			return ErrEmailTaken
		}
		user.Email = *update.Email
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	return nil
}
