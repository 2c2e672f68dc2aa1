package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/NeuralTrust/MetaGuard/pkg/domain"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/user"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/auth/google"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/auth/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrMissingCredentials = errors.New("email and password are required")
)

// dummyHash keeps Login timing similar for unknown emails.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoO5tyvGzGrNn0x9LQ9Qzr7yQz8B5bC8cW")

type GoogleLogin struct {
	jwt.TokenPair
	NewUser bool `json:"new_user"`
}

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=auth_service_mock.go --case=underscore
type Service interface {
	Signup(ctx context.Context, email, password, name string) (*jwt.TokenPair, error)
	Login(ctx context.Context, email, password string) (*jwt.TokenPair, error)
	// Refresh exchanges a refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Google(ctx context.Context, idToken string) (*GoogleLogin, error)
	Me(ctx context.Context, userID uuid.UUID) (*user.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type Config struct {
	BcryptCost int
}

type service struct {
	logger   *logrus.Logger
	users    user.Repository
	tokens   jwt.Manager
	verifier google.Verifier
	cost     int
}

func NewService(
	logger *logrus.Logger,
	users user.Repository,
	tokens jwt.Manager,
	verifier google.Verifier,
	cfg Config,
) Service {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &service{
		logger:   logger,
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		cost:     cost,
	}
}

func (s *service) Signup(ctx context.Context, email, password, name string) (*jwt.TokenPair, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u := &user.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		if !errors.Is(err, user.ErrUserAlreadyExists) {
			s.logger.WithError(err).Error("failed to create user")
		}
		return nil, err
	}
	return s.tokens.CreateTokenPair(u.ID, u.Email)
}

func (s *service) Login(ctx context.Context, email, password string) (*jwt.TokenPair, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFoundError(err) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		// Accounts created through Google sign in have no password.
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.tokens.CreateTokenPair(u.ID, u.Email)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.DecodeToken(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", jwt.ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return "", jwt.ErrInvalidToken
		}
		return "", err
	}
	return s.tokens.CreateToken(u.ID, u.Email, jwt.TokenTypeAccess)
}

func (s *service) Google(ctx context.Context, idToken string) (*GoogleLogin, error) {
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	newUser := false
	u, err := s.users.GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		if u.GoogleSubject == nil && identity.Subject != "" {
			if err := s.users.LinkGoogle(ctx, u.ID, identity.Subject); err != nil {
				s.logger.WithError(err).Warn("failed to link google account")
			}
		}
	case domain.IsNotFoundError(err):
		subject := identity.Subject
		u = &user.User{Email: identity.Email, Name: identity.Name}
		if subject != "" {
			u.GoogleSubject = &subject
		}
		if err := s.users.Create(ctx, u); err != nil {
			if !errors.Is(err, user.ErrUserAlreadyExists) {
				s.logger.WithError(err).Error("failed to create google user")
				return nil, err
			}
			// Lost a race against a concurrent first sign in.
			if u, err = s.users.GetByEmail(ctx, identity.Email); err != nil {
				return nil, err
			}
		} else {
			newUser = true
		}
	default:
		return nil, err
	}

	pair, err := s.tokens.CreateTokenPair(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &GoogleLogin{TokenPair: *pair, NewUser: newUser}, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if !domain.IsNotFoundError(err) {
			s.logger.WithError(err).Error("failed to delete user")
		}
		return err
	}
	return nil
}
