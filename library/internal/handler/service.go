package handler

import (
	"context"

	"github.com/vagnerhf/library/library/internal/model"
	"github.com/vagnerhf/library/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	ListAuthors(ctx context.Context, paging model.Paging) ([]model.Author, error)
	GetAuthor(ctx context.Context, key string) (model.Author, error)
	CreateAuthor(ctx context.Context, req model.AuthorCreateRequest) (model.Author, error)
	UpdateAuthor(ctx context.Context, key string, req model.AuthorUpdateRequest) (model.Author, error)
	DeleteAuthor(ctx context.Context, key string) error

	ListBooks(ctx context.Context, paging model.Paging) ([]model.BookWithAuthors, error)
	GetBook(ctx context.Context, key string) (model.BookWithAuthors, error)
	CreateBook(ctx context.Context, req model.BookCreateRequest) (model.BookWithAuthors, error)
	UpdateBook(ctx context.Context, key string, req model.BookUpdateRequest) (model.BookWithAuthors, error)
	ReplaceAuthors(ctx context.Context, key string, authorKeys []string) (model.BookWithAuthors, error)
	DeleteBook(ctx context.Context, key string) error

	ListLoans(ctx context.Context, paging model.Paging) ([]model.LoanDetails, error)
	GetLoan(ctx context.Context, key string) (model.LoanDetails, error)
	CreateLoan(ctx context.Context, req model.LoanCreateRequest) (model.LoanDetails, error)
	UpdateLoan(ctx context.Context, key string, req model.LoanUpdateRequest) (model.LoanDetails, error)
	DeleteLoan(ctx context.Context, key string) error

	ListUsers(ctx context.Context, paging model.Paging) ([]model.User, error)
	GetUser(ctx context.Context, email string) (model.User, error)
	CreateUser(ctx context.Context, req model.UserCreateRequest) (model.User, error)
	UpdateUser(ctx context.Context, email string, req model.UserUpdateRequest) (model.User, error)
	DeleteUser(ctx context.Context, email string) error

	Register(ctx context.Context, req model.UserCreateRequest) (model.User, auth.Token, error)
	Login(ctx context.Context, req model.LoginRequest) (auth.Token, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}
