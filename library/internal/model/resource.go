package model

import "time"

const timestampLayout = time.DateTime

// Data is the envelope every successful response body is wrapped in.
type Data[T any] struct {
	Data T `json:"data"`
}

func NewData[T any](v T) Data[T] {
	return Data[T]{Data: v}
}

type AuthorResource struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type BookResource struct {
	Key             string           `json:"key"`
	Title           string           `json:"title"`
	PublicationYear int              `json:"publication_year"`
	Authors         []AuthorResource `json:"authors"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

type LoanResource struct {
	Key        string       `json:"key"`
	Book       BookResource `json:"book"`
	User       string       `json:"user"`
	LoanDate   string       `json:"loan_date"`
	ReturnDate *string      `json:"return_date"`
	CreatedAt  string       `json:"created_at"`
	UpdatedAt  string       `json:"updated_at"`
}

type UserResource struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type AuthResource struct {
	User      *UserResource `json:"user,omitempty"`
	Token     string        `json:"token"`
	TokenType string        `json:"token_type"`
	ExpiresAt string        `json:"expires_at"`
}

func NewAuthorResource(a Author) AuthorResource {
	return AuthorResource{
		Key:       a.Key,
		Name:      a.Name,
		BirthDate: a.BirthDate.Format(time.DateOnly),
		CreatedAt: a.CreatedAt.Format(timestampLayout),
		UpdatedAt: a.UpdatedAt.Format(timestampLayout),
	}
}

func NewAuthorResources(authors []Author) []AuthorResource {
	out := make([]AuthorResource, 0, len(authors))
	for _, a := range authors {
		out = append(out, NewAuthorResource(a))
	}
	return out
}

// NewBookResource never fails on an unresolved author set: authors is rendered as [].
func NewBookResource(b BookWithAuthors) BookResource {
	return BookResource{
		Key:             b.Key,
		Title:           b.Title,
		PublicationYear: b.PublicationYear,
		Authors:         NewAuthorResources(b.Authors),
		CreatedAt:       b.CreatedAt.Format(timestampLayout),
		UpdatedAt:       b.UpdatedAt.Format(timestampLayout),
	}
}

func NewBookResources(books []BookWithAuthors) []BookResource {
	out := make([]BookResource, 0, len(books))
	for _, b := range books {
		out = append(out, NewBookResource(b))
	}
	return out
}

// NewLoanResource renders the borrower by name only.
func NewLoanResource(l LoanDetails) LoanResource {
	return LoanResource{
		Key:        l.Key,
		Book:       NewBookResource(l.Book),
		User:       l.User.Name,
		LoanDate:   l.LoanDate.Format(time.DateOnly),
		ReturnDate: formatDate(l.ReturnDate),
		CreatedAt:  l.CreatedAt.Format(timestampLayout),
		UpdatedAt:  l.UpdatedAt.Format(timestampLayout),
	}
}

func NewLoanResources(loans []LoanDetails) []LoanResource {
	out := make([]LoanResource, 0, len(loans))
	for _, l := range loans {
		out = append(out, NewLoanResource(l))
	}
	return out
}

func NewUserResource(u User) UserResource {
	return UserResource{
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(timestampLayout),
		UpdatedAt: u.UpdatedAt.Format(timestampLayout),
	}
}

func NewUserResources(users []User) []UserResource {
	out := make([]UserResource, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResource(u))
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
