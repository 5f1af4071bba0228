package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vagnerhf/library/library/internal/errs"
	"github.com/vagnerhf/library/library/internal/model"
	"github.com/vagnerhf/library/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func (s *Service) Register(ctx context.Context, req model.UserCreateRequest) (model.User, auth.Token, error) {
	user, err := s.CreateUser(ctx, req)
	if err != nil {
		return model.User{}, auth.Token{}, err
	}
	token, err := s.tokens.Issue(user.Name, user.Email)
	if err != nil {
		return model.User{}, auth.Token{}, err
	}
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (auth.Token, error) {
	user, err := s.repo.GetUser(ctx, req.Email)
	if errors.Is(err, errs.ErrNotFound) {
		return auth.Token{}, errs.ErrInvalidCredentials
	}
	if err != nil {
		return auth.Token{}, err
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return auth.Token{}, errs.ErrInvalidCredentials
	}
	return s.tokens.Issue(user.Name, user.Email)
}

// Logout revokes the token the claims were parsed from until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.repo.RevokeToken(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *Service) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, errors.Wrap(errs.ErrUnauthorized, err.Error())
	}
	revoked, err := s.repo.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errors.Wrap(errs.ErrUnauthorized, "token revoked")
	}
	return claims, nil
}
