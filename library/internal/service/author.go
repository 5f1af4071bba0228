package service

import (
	"context"

	"github.com/vagnerhf/library/library/internal/model"
)

func (s *Service) ListAuthors(ctx context.Context, paging model.Paging) ([]model.Author, error) {
	return s.repo.ListAuthors(ctx, paging)
}

func (s *Service) GetAuthor(ctx context.Context, key string) (model.Author, error) {
	return s.repo.GetAuthor(ctx, key)
}

func (s *Service) CreateAuthor(ctx context.Context, req model.AuthorCreateRequest) (model.Author, error) {
	birthDate, err := parseDate("birth_date", req.BirthDate)
	if err != nil {
		return model.Author{}, err
	}
	return s.repo.CreateAuthor(ctx, model.NewAuthor(req.Name, birthDate))
}

func (s *Service) UpdateAuthor(ctx context.Context, key string, req model.AuthorUpdateRequest) (model.Author, error) {
	changes := model.AuthorChanges{Name: req.Name}
	if req.BirthDate != nil {
		birthDate, err := parseDate("birth_date", *req.BirthDate)
		if err != nil {
			return model.Author{}, err
		}
		changes.BirthDate = &birthDate
	}
	return s.repo.UpdateAuthor(ctx, key, changes)
}

func (s *Service) DeleteAuthor(ctx context.Context, key string) error {
	return s.repo.DeleteAuthor(ctx, key)
}
