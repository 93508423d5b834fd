package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	apperr "github.com/CazadorHJT/MCAT-Prep-App/internal/pkg/errors"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/ctxutil"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

// AuthService verifies Supabase-issued access tokens.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type AuthConfig struct {
	JWTSecret string
	// Audience is checked when set; Supabase signs user sessions for "authenticated".
	Audience string
}

type authService struct {
	log    *logger.Logger
	secret []byte
	parser *jwt.Parser
}

func NewAuthService(cfg AuthConfig, baseLog *logger.Logger) (AuthService, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("jwt secret: %w", apperr.ErrInvalidArgument)
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if aud := strings.TrimSpace(cfg.Audience); aud != "" {
		opts = append(opts, jwt.WithAudience(aud))
	}
	return &authService{
		log:    baseLog.With("service", "AuthService"),
		secret: []byte(cfg.JWTSecret),
		parser: jwt.NewParser(opts...),
	}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, fmt.Errorf("missing token: %w", apperr.ErrUnauthorized)
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := as.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return as.secret, nil
	})
	if err != nil {
		as.log.Debug("token rejected", "error", err)
		return ctx, fmt.Errorf("parse token: %v: %w", err, apperr.ErrUnauthorized)
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return ctx, fmt.Errorf("token has no subject: %w", apperr.ErrUnauthorized)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: claims.Subject}), nil
}
