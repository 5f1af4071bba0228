package service

import (
	"context"

	"github.com/vagnerhf/library/library/internal/model"
)

func (s *Service) ListUsers(ctx context.Context, paging model.Paging) ([]model.User, error) {
	return s.repo.ListUsers(ctx, paging)
}

func (s *Service) GetUser(ctx context.Context, email string) (model.User, error) {
	return s.repo.GetUser(ctx, email)
}

func (s *Service) CreateUser(ctx context.Context, req model.UserCreateRequest) (model.User, error) {
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}
	return s.repo.CreateUser(ctx, model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
	})
}

func (s *Service) UpdateUser(ctx context.Context, email string, req model.UserUpdateRequest) (model.User, error) {
	changes := model.UserChanges{Name: req.Name}
	if req.Password != nil {
		hash, err := s.hashPassword(*req.Password)
		if err != nil {
			return model.User{}, err
		}
		changes.Password = &hash
	}
	return s.repo.UpdateUser(ctx, email, changes)
}

func (s *Service) DeleteUser(ctx context.Context, email string) error {
	return s.repo.DeleteUser(ctx, email)
}

// EnsureAdmin seeds the administrator account, resetting its name and password
// when it already exists.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.repo.UpsertUser(ctx, model.User{
		Name:     name,
		Email:    email,
		Password: hash,
	})
	return err
}
