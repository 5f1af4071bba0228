package model

import "encoding/json"

type AuthorCreateRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
}

type AuthorUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=255"`
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

type BookCreateRequest struct {
	Title           string   `json:"title" validate:"required,max=255"`
	PublicationYear *int     `json:"publication_year" validate:"required"`
	AuthorKeys      []string `json:"author_keys"`
}

// BookUpdateRequest replaces the author set only when author_keys is present:
// a missing or null author_keys decodes to a nil slice, [] to an empty one.
type BookUpdateRequest struct {
	Title           *string  `json:"title" validate:"omitempty,min=1,max=255"`
	PublicationYear *int     `json:"publication_year"`
	AuthorKeys      []string `json:"author_keys"`
}

type BookAuthorsRequest struct {
	AuthorKeys []string `json:"author_keys"`
}

type LoanCreateRequest struct {
	BookKey   string `json:"book_key" validate:"required"`
	UserEmail string `json:"user_email" validate:"required"`
	LoanDate  string `json:"loan_date" validate:"required,datetime=2006-01-02"`
}

type LoanUpdateRequest struct {
	ReturnDate *string `json:"return_date" validate:"omitempty,datetime=2006-01-02"`
	// ReturnDateNull is set when return_date is present but null.
	ReturnDateNull bool `json:"-"`
}

func (r *LoanUpdateRequest) UnmarshalJSON(data []byte) error {
	type plain LoanUpdateRequest
	var (
		p   plain
		raw map[string]json.RawMessage
	)
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = LoanUpdateRequest(p)
	if v, ok := raw["return_date"]; ok && string(v) == "null" {
		r.ReturnDateNull = true
	}
	return nil
}

type UserCreateRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

type UserUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
