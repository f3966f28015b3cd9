package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nourhb/video-chat/internal/store"
)

var (
	// ErrInvalidCredentials is returned when email/password don't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNurseExists is returned when registering with an email already in use.
	ErrNurseExists = errors.New("nurse already exists")
	// ErrInvalidEmail is returned when the email doesn't meet constraints.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidPassword is returned when the password doesn't meet constraints.
	ErrInvalidPassword = errors.New("invalid password")
)

// Service provides staff authentication operations.
type Service struct {
	store     store.NurseStore
	jwtConfig *JWTConfig
}

// NewService creates a new authentication service.
func NewService(nurseStore store.NurseStore, jwtConfig *JWTConfig) *Service {
	return &Service{
		store:     nurseStore,
		jwtConfig: jwtConfig,
	}
}

// Register creates a nurse account with hashed password and returns a JWT token.
func (s *Service) Register(ctx context.Context, fullName, email, speciality, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(email) < 3 || !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}
	if len(password) < 6 {
		return "", ErrInvalidPassword
	}

	// Check if the account already exists
	existing, err := s.store.GetNurseByEmail(ctx, email)
	if err == nil && existing != nil {
		return "", ErrNurseExists
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	nurse, err := s.store.CreateNurse(ctx, &store.Nurse{
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		Speciality:   speciality,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		return "", fmt.Errorf("create nurse: %w", err)
	}

	token, err := GenerateToken(s.jwtConfig, nurse.ID, nurse.FullName)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}

// Login validates credentials and returns a JWT token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	nurse, err := s.store.GetNurseByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if errPwd := ComparePassword(nurse.PasswordHash, password); errPwd != nil {
		return "", ErrInvalidCredentials
	}

	token, err := GenerateToken(s.jwtConfig, nurse.ID, nurse.FullName)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}
