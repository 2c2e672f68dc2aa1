package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("expired token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Claims struct {
	UserID    string    `json:"user_id"`
	UserEmail string    `json:"user_email,omitempty"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

//go:generate mockery --name=Manager --dir=. --output=mocks/ --filename=jwt_manager_mock.go --case=underscore
type (
	Manager interface {
		CreateTokenPair(userID uuid.UUID, email string) (*TokenPair, error)
		CreateToken(userID uuid.UUID, email string, tokenType TokenType) (string, error)
		// DecodeToken validates the signature, expiry and type of tokenString.
		DecodeToken(tokenString string, want TokenType) (*Claims, error)
	}
	manager struct {
		config Config
		now    func() time.Time
	}
)

func NewJwtManager(config Config) Manager {
	if config.AccessTTL <= 0 {
		config.AccessTTL = time.Hour
	}
	if config.RefreshTTL <= 0 {
		config.RefreshTTL = 7 * 24 * time.Hour
	}
	return &manager{
		config: config,
		now:    time.Now,
	}
}

func (m *manager) CreateTokenPair(userID uuid.UUID, email string) (*TokenPair, error) {
	access, err := m.CreateToken(userID, email, TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := m.CreateToken(userID, email, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (m *manager) CreateToken(userID uuid.UUID, email string, tokenType TokenType) (string, error) {
	ttl := m.config.AccessTTL
	if tokenType == TokenTypeRefresh {
		ttl = m.config.RefreshTTL
	}
	now := m.now()
	claims := &Claims{
		UserID:    userID.String(),
		UserEmail: email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(m.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (m *manager) DecodeToken(tokenString string, want TokenType) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	}
	if m.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(m.config.Secret), nil
		},
		opts...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != want {
		return nil, ErrWrongTokenType
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
