package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bharatparcel/apperrors"
	"bharatparcel/logger"
	"bharatparcel/models"
	"bharatparcel/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type AuthService interface {
	Signup(ctx context.Context, creator models.RequestingUser, user *models.AppUser) (*models.AppUser, error)
	EnsureAdmin(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (string, *models.AppUser, error)
	ParseToken(token string) (models.RequestingUser, error)
}

type authService struct {
	users     repository.UserRepository
	validator *Validator
	secret    []byte
	ttl       time.Duration
	log       *logger.Logger
	now       func() time.Time
}

func NewAuthService(users repository.UserRepository, v *Validator, secret string, ttl time.Duration, log *logger.Logger) AuthService {
	return &authService{
		users:     users,
		validator: v,
		secret:    []byte(secret),
		ttl:       ttl,
		log:       log,
		now:       time.Now,
	}
}

// Signup creates a staff account. Only an admin creator may grant the admin
// role; anonymous self-signup always yields a supervisor.
func (s *authService) Signup(ctx context.Context, creator models.RequestingUser, user *models.AppUser) (*models.AppUser, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if creator.Role != models.RoleAdmin {
		if user.Role == models.RoleAdmin {
			s.log.Warn("Admin signup rejected", "email", user.Email, "creator", creator.ID)
			return nil, apperrors.Forbidden("Only an admin can create admin users")
		}
		if user.Role == "" {
			user.Role = models.RoleSupervisor
		}
	}
	return s.create(ctx, user)
}

// EnsureAdmin creates the bootstrap admin unless an account with that email exists.
func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !isNotFound(err) {
		return fmt.Errorf("failed to look up admin %s: %w", email, err)
	}
	_, err := s.create(ctx, &models.AppUser{Name: name, Email: email, Role: models.RoleAdmin, Password: password})
	return err
}

func (s *authService) create(ctx context.Context, user *models.AppUser) (*models.AppUser, error) {
	if err := s.validator.Validate(user); err != nil {
		s.log.Warn("Signup validation failed", "email", user.Email, "error", err)
		return nil, validationFailed("Name, email, and role are required", err)
	}
	if len(user.Password) < minPasswordLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}
	user.Password = string(hash)

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Email already registered")
		}
		return nil, storeFailure(s.log, "Failed to create user", err, "email", user.Email)
	}

	user.Password = ""
	s.log.Info("User signed up successfully", "id", user.ID, "role", user.Role)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.AppUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, apperrors.InvalidInput("Email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return "", nil, apperrors.Unauthorized("Invalid email or password")
		}
		return "", nil, storeFailure(s.log, "Failed to look up user", err, "email", email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Warn("Login rejected", "email", email)
		return "", nil, apperrors.Unauthorized("Invalid email or password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     s.now().Add(s.ttl).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, apperrors.Internal("Failed to create token", err)
	}

	user.Password = ""
	s.log.Info("User logged in", "id", user.ID, "role", user.Role)
	return signed, user, nil
}

// ParseToken verifies an HS256 token and returns the caller it was issued to.
func (s *authService) ParseToken(tokenString string) (models.RequestingUser, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return models.RequestingUser{}, apperrors.Unauthorized("Invalid or expired token")
	}

	id, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if id == "" || (role != models.RoleAdmin && role != models.RoleSupervisor) {
		return models.RequestingUser{}, apperrors.Unauthorized("Invalid token claims")
	}
	return models.RequestingUser{ID: id, Role: role}, nil
}
