package service

import (
	"context"

	"github.com/vagnerhf/library/library/internal/model"
)

func (s *Service) ListBooks(ctx context.Context, paging model.Paging) ([]model.BookWithAuthors, error) {
	return s.repo.ListBooks(ctx, paging)
}

func (s *Service) GetBook(ctx context.Context, key string) (model.BookWithAuthors, error) {
	return s.repo.GetBook(ctx, key)
}

// CreateBook stores the book with the authors resolved from AuthorKeys.
// Keys that match no author are ignored.
func (s *Service) CreateBook(ctx context.Context, req model.BookCreateRequest) (model.BookWithAuthors, error) {
	var year int
	if req.PublicationYear != nil {
		year = *req.PublicationYear
	}
	keys := req.AuthorKeys
	if keys == nil {
		keys = []string{}
	}
	return s.repo.CreateBook(ctx, model.NewBook(req.Title, year), keys)
}

func (s *Service) UpdateBook(ctx context.Context, key string, req model.BookUpdateRequest) (model.BookWithAuthors, error) {
	changes := model.BookChanges{
		Title:           req.Title,
		PublicationYear: req.PublicationYear,
	}
	return s.repo.UpdateBook(ctx, key, changes, req.AuthorKeys)
}

// ReplaceAuthors swaps the whole author set of the book. An empty list clears it.
func (s *Service) ReplaceAuthors(ctx context.Context, key string, authorKeys []string) (model.BookWithAuthors, error) {
	if authorKeys == nil {
		authorKeys = []string{}
	}
	return s.repo.ReplaceAuthors(ctx, key, authorKeys)
}

func (s *Service) DeleteBook(ctx context.Context, key string) error {
	return s.repo.DeleteBook(ctx, key)
}
