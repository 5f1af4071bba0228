package model

import (
	"time"

	"github.com/google/uuid"
)

type Author struct {
	ID        int       `db:"id"`
	Key       string    `db:"key"`
	Name      string    `db:"name"`
	BirthDate time.Time `db:"birth_date"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Book struct {
	ID              int       `db:"id"`
	Key             string    `db:"key"`
	Title           string    `db:"title"`
	PublicationYear int       `db:"publication_year"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// BookWithAuthors is a book with its author set already resolved.
type BookWithAuthors struct {
	Book
	Authors []Author
}

type User struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Loan struct {
	ID         int        `db:"id"`
	Key        string     `db:"key"`
	BookID     int        `db:"book_id"`
	UserID     int        `db:"user_id"`
	LoanDate   time.Time  `db:"loan_date"`
	ReturnDate *time.Time `db:"return_date"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// IsOpen reports whether the book has not been returned yet.
func (l Loan) IsOpen() bool {
	return l.ReturnDate == nil
}

// LoanDetails is a loan with the book (and its authors) and the borrower resolved.
type LoanDetails struct {
	Loan
	Book BookWithAuthors
	User User
}

// AuthorChanges holds the columns written by a partial update. Nil fields keep
// the stored value.
type AuthorChanges struct {
	Name      *string
	BirthDate *time.Time
}

type BookChanges struct {
	Title           *string
	PublicationYear *int
}

type UserChanges struct {
	Name *string
	// Password is already hashed.
	Password *string
}

type Paging struct {
	Page int
	Size int
}

// Limit reports whether both page and size were requested.
func (p Paging) Limit() bool {
	return p.Page > 0 && p.Size > 0
}

func newKey() string {
	return uuid.NewString()
}

func NewAuthor(name string, birthDate time.Time) Author {
	return Author{
		Key:       newKey(),
		Name:      name,
		BirthDate: birthDate,
	}
}

func NewBook(title string, publicationYear int) Book {
	return Book{
		Key:             newKey(),
		Title:           title,
		PublicationYear: publicationYear,
	}
}

func NewLoan(bookID, userID int, loanDate time.Time) Loan {
	return Loan{
		Key:      newKey(),
		BookID:   bookID,
		UserID:   userID,
		LoanDate: loanDate,
	}
}
