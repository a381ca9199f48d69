package userapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"postflow/internal/auth"
	userEntity "postflow/internal/core/user"
	userPort "postflow/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// UserService registers staff accounts and issues their tokens.
type UserService struct {
	UserRepository userPort.UserRepository
	Tokens         *auth.TokenManager
	Logger         *zap.Logger
}

func NewUserService(repo userPort.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepository: repo,
		Tokens:         tokens,
		Logger:         logger,
	}
}

// LoginUser checks the password hash and returns a signed token.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*userPort.LoginResponse, error) {
	user, err := s.UserRepository.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, userEntity.ErrNotFound) {
			s.Logger.Error("error finding user", zap.Error(err))
		}
		return nil, userEntity.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.Logger.Info("invalid password", zap.String("user", user.ID.String()))
		return nil, userEntity.ErrInvalidCredentials
	}

	token, expiresAt, err := s.Tokens.Issue(user.ID, user.Name)
	if err != nil {
		s.Logger.Error("error generating JWT", zap.Error(err))
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	return &userPort.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

// RegisterUser creates a staff account with a bcrypt password hash.
func (s *UserService) RegisterUser(ctx context.Context, name, email, password string) (*userPort.UserDTO, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: name and a valid email are required", userEntity.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", userEntity.ErrValidation, minPasswordLength)
	}

	existing, err := s.UserRepository.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, userEntity.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, userEntity.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &userEntity.User{
		ID:       uuid.Must(uuid.NewV4()),
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
	}

	u, err := s.UserRepository.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("user registered", zap.String("user", u.ID.String()))
	return &userPort.UserDTO{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
