package service

import (
	"fmt"
	"time"

	"payulot/config"
	"payulot/internal/core/domain"
	"payulot/internal/core/ports"
	"payulot/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTTokenService issues and validates HS256 session tokens carrying the
// caller's identity and role claims.
type JWTTokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewJWTTokenService(cfg config.JWTConfig) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(cfg.Secret),
		expiry: cfg.Expiry,
		issuer: cfg.Issuer,
	}
}

var _ ports.TokenService = (*JWTTokenService)(nil)

func (s *JWTTokenService) Generate(actor domain.Actor) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	claims := jwt.MapClaims{
		"sub":   actor.ID.String(),
		"email": actor.Email,
		"role":  string(actor.Role),
		"type":  string(actor.Type),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
		"iss":   s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *JWTTokenService) Validate(tokenString string) (*domain.Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.ErrInvalidToken()
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.ErrInvalidToken()
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, apperror.ErrInvalidToken()
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	userType, _ := claims["type"].(string)

	return &domain.Actor{
		ID:    id,
		Email: email,
		Role:  domain.Role(role),
		Type:  domain.UserType(userType),
	}, nil
}
