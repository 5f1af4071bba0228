package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/vagnerhf/library/library/internal/errs"
	"github.com/vagnerhf/library/library/internal/model"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	ListAuthors(ctx context.Context, paging model.Paging) ([]model.Author, error)
	GetAuthor(ctx context.Context, key string) (model.Author, error)
	CreateAuthor(ctx context.Context, author model.Author) (model.Author, error)
	UpdateAuthor(ctx context.Context, key string, changes model.AuthorChanges) (model.Author, error)
	DeleteAuthor(ctx context.Context, key string) error

	ListBooks(ctx context.Context, paging model.Paging) ([]model.BookWithAuthors, error)
	GetBook(ctx context.Context, key string) (model.BookWithAuthors, error)
	CreateBook(ctx context.Context, book model.Book, authorKeys []string) (model.BookWithAuthors, error)
	UpdateBook(ctx context.Context, key string, changes model.BookChanges, authorKeys []string) (model.BookWithAuthors, error)
	ReplaceAuthors(ctx context.Context, bookKey string, authorKeys []string) (model.BookWithAuthors, error)
	DeleteBook(ctx context.Context, key string) error

	ListLoans(ctx context.Context, paging model.Paging) ([]model.LoanDetails, error)
	GetLoan(ctx context.Context, key string) (model.LoanDetails, error)
	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	UpdateLoanReturnDate(ctx context.Context, key string, returnDate time.Time) (model.Loan, error)
	DeleteLoan(ctx context.Context, key string) error

	ListUsers(ctx context.Context, paging model.Paging) ([]model.User, error)
	GetUser(ctx context.Context, email string) (model.User, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	UpdateUser(ctx context.Context, email string, changes model.UserChanges) (model.User, error)
	UpsertUser(ctx context.Context, user model.User) (model.User, error)
	DeleteUser(ctx context.Context, email string) error

	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// DB is the part of *pgxpool.Pool the repository uses.
type DB interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

type repository struct {
	db  DB
	log *zap.Logger
}

func NewRepository(db DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

var _ Repository = (*repository)(nil)

const (
	authorsTableName       = `authors`
	booksTableName         = `books`
	authorBookTableName    = `author_book`
	loansTableName         = `loans`
	usersTableName         = `users`
	revokedTokensTableName = `revoked_tokens`

	usersEmailConstraint = `users_email_key`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// inTx commits when fn succeeds and rolls back otherwise.
func (r *repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			r.log.Warn("rollback", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit(ctx)
}

func paginate(q sq.SelectBuilder, paging model.Paging) sq.SelectBuilder {
	if paging.Limit() {
		q = q.Limit(uint64(paging.Size)).Offset(uint64((paging.Page - 1) * paging.Size))
	}
	return q
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			if pgErr.ConstraintName == usersEmailConstraint {
				return errs.NewValidationError().Add("email", "has already been taken")
			}
			return errors.Wrap(errs.ErrConflict, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return errors.Wrap(errs.ErrConflict, pgErr.ConstraintName)
		}
	}
	return err
}

func affected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
