package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/critiquehub/critique/internal/mailer"
	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/repository"
	"github.com/critiquehub/critique/internal/utils"
	"github.com/critiquehub/critique/pkg/logger"
)

var (
	ErrReservedUsername = errors.New("username 'me' is reserved")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrUsernameTaken    = errors.New("username already registered with a different email")
	ErrEmailTaken       = errors.New("email already registered with a different username")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidCode      = errors.New("invalid confirmation code")
	ErrCodeExpired      = errors.New("confirmation code expired")
	ErrMailDelivery     = errors.New("failed to send confirmation email")

	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
)

// AuthService runs the passwordless signup flow: signup mails a one-time
// confirmation code, token exchanges it for a signed access token.
type AuthService struct {
	userRepo  *repository.UserRepository
	codeRepo  *repository.CodeRepository
	mailer    mailer.Mailer
	jwtSecret string
	jwtExpiry time.Duration
	codeTTL   time.Duration
}

func NewAuthService(
	userRepo *repository.UserRepository,
	codeRepo *repository.CodeRepository,
	m mailer.Mailer,
	jwtSecret string,
	jwtExpiry time.Duration,
	codeTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		codeRepo:  codeRepo,
		mailer:    m,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		codeTTL:   codeTTL,
	}
}

// Signup registers a user (or re-requests a code for an existing one) and
// mails a fresh confirmation code. Calling it again for the same
// (username, email) pair overwrites the previous code and resends.
func (s *AuthService) Signup(username, email string) error {
	logger.Log.Debug("Processing signup",
		zap.String("username", username),
		zap.String("email", email),
	)

	if err := validateSignupInput(username, email); err != nil {
		logger.Log.Warn("Signup validation failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to look up username",
			zap.String("username", username),
			zap.Error(err),
		)
		return err
	}

	switch {
	case user != nil && user.Email != email:
		logger.Log.Warn("Username taken by another email",
			zap.String("username", username),
		)
		return ErrUsernameTaken

	case user == nil:
		existing, err := s.userRepo.GetByEmail(email)
		if err != nil {
			return err
		}
		if existing != nil {
			logger.Log.Warn("Email taken by another username",
				zap.String("email", email),
			)
			return ErrEmailTaken
		}

		user = &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		}
		if err := s.userRepo.Create(user); err != nil {
			logger.Log.Error("Failed to create user",
				zap.String("username", username),
				zap.Error(err),
			)
			return err
		}
	}

	return s.issueCode(user)
}

// issueCode generates a fresh code, stores only its hash, and mails the
// plaintext. A delivery failure fails the whole signup; the user row stays so
// a retry takes the resend path.
func (s *AuthService) issueCode(user *models.User) error {
	code := uuid.NewString()
	expiresAt := time.Now().Add(s.codeTTL)

	codeHash, err := utils.HashCode(code)
	if err != nil {
		return err
	}

	if err := s.codeRepo.Replace(&models.Code{
		UserID:    user.ID,
		CodeHash:  codeHash,
		ExpiresAt: expiresAt,
	}); err != nil {
		logger.Log.Error("Failed to store confirmation code",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return err
	}

	if err := s.mailer.SendConfirmationCode(user.Email, code, expiresAt); err != nil {
		logger.Log.Error("Confirmation mail delivery failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	logger.Log.Info("Confirmation code issued",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Time("expires_at", expiresAt),
	)
	return nil
}

// Token exchanges a confirmation code for an access token. A successful
// exchange consumes the code.
func (s *AuthService) Token(username, code string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", err
	}
	if user == nil {
		logger.Log.Warn("Token exchange for unknown username",
			zap.String("username", username),
		)
		return "", ErrUserNotFound
	}

	stored, err := s.codeRepo.GetByUserID(user.ID)
	if err != nil {
		return "", err
	}
	if stored == nil {
		logger.Log.Warn("Token exchange without a live code",
			zap.String("user_id", user.ID.String()),
		)
		return "", ErrInvalidCode
	}

	if time.Now().After(stored.ExpiresAt) {
		logger.Log.Warn("Token exchange with expired code",
			zap.String("user_id", user.ID.String()),
			zap.Time("expired_at", stored.ExpiresAt),
		)
		return "", ErrCodeExpired
	}

	match, err := utils.VerifyCode(code, stored.CodeHash)
	if err != nil {
		return "", err
	}
	if !match {
		logger.Log.Warn("Token exchange with mismatched code",
			zap.String("user_id", user.ID.String()),
		)
		return "", ErrInvalidCode
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Log.Error("Failed to generate access token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return "", err
	}

	// the code is consumed only once a token is actually in hand
	if err := s.codeRepo.DeleteByUserID(user.ID); err != nil {
		return "", err
	}

	logger.Log.Info("Access token issued",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)
	return token, nil
}

func validateSignupInput(username, email string) error {
	if strings.EqualFold(username, "me") {
		return ErrReservedUsername
	}
	if username == "" || len(username) > 150 || !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}
