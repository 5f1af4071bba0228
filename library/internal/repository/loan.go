package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/vagnerhf/library/library/internal/model"
	"go.uber.org/zap"
)

var loanColumns = []string{"id", "key", "book_id", "user_id", "loan_date", "return_date", "created_at", "updated_at"}

func loanDetailsSelect() sq.SelectBuilder {
	return qb.Select(
		"l.id", "l.key", "l.book_id", "l.user_id", "l.loan_date", "l.return_date", "l.created_at", "l.updated_at",
		"b.id", "b.key", "b.title", "b.publication_year", "b.created_at", "b.updated_at",
		"u.id", "u.name", "u.email", "u.created_at", "u.updated_at",
	).
		From(loansTableName + " l").
		Join(booksTableName + " b on b.id = l.book_id").
		Join(usersTableName + " u on u.id = l.user_id")
}

func scanLoanDetails(row pgx.CollectableRow) (model.LoanDetails, error) {
	var (
		d model.LoanDetails
		b = &d.Book.Book
		u = &d.User
	)
	err := row.Scan(
		&d.ID, &d.Key, &d.BookID, &d.UserID, &d.LoanDate, &d.ReturnDate, &d.CreatedAt, &d.UpdatedAt,
		&b.ID, &b.Key, &b.Title, &b.PublicationYear, &b.CreatedAt, &b.UpdatedAt,
		&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt,
	)
	return d, err
}

func (r *repository) ListLoans(ctx context.Context, paging model.Paging) ([]model.LoanDetails, error) {
	query, args, err := paginate(loanDetailsSelect().OrderBy("l.id"), paging).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "ListLoans ToSql")
	}
	r.log.Debug("ListLoans", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	loans, err := pgx.CollectRows(rows, scanLoanDetails)
	if err != nil {
		return nil, err
	}
	return r.loanAuthors(ctx, loans)
}

func (r *repository) GetLoan(ctx context.Context, key string) (model.LoanDetails, error) {
	query, args, err := loanDetailsSelect().Where(sq.Eq{"l.key": key}).ToSql()
	if err != nil {
		return model.LoanDetails{}, errors.Wrap(err, "GetLoan ToSql")
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.LoanDetails{}, err
	}
	loan, err := pgx.CollectOneRow(rows, scanLoanDetails)
	if err != nil {
		return model.LoanDetails{}, mapErr(err)
	}
	loans, err := r.loanAuthors(ctx, []model.LoanDetails{loan})
	if err != nil {
		return model.LoanDetails{}, err
	}
	return loans[0], nil
}

func (r *repository) loanAuthors(ctx context.Context, loans []model.LoanDetails) ([]model.LoanDetails, error) {
	seen := make(map[int]struct{}, len(loans))
	ids := make([]int, 0, len(loans))
	for _, l := range loans {
		if _, ok := seen[l.BookID]; !ok {
			seen[l.BookID] = struct{}{}
			ids = append(ids, l.BookID)
		}
	}
	byBook, err := authorsByBook(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range loans {
		loans[i].Book.Authors = byBook[loans[i].BookID]
	}
	return loans, nil
}

func (r *repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query, args, err := qb.Insert(loansTableName).
		Columns("key", "book_id", "user_id", "loan_date", "return_date").
		Values(loan.Key, loan.BookID, loan.UserID, loan.LoanDate, loan.ReturnDate).
		Suffix("returning " + strings.Join(loanColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Loan{}, errors.Wrap(err, "CreateLoan ToSql")
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Loan{}, mapErr(err)
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Loan])
	return created, mapErr(err)
}

func (r *repository) UpdateLoanReturnDate(ctx context.Context, key string, returnDate time.Time) (model.Loan, error) {
	query, args, err := qb.Update(loansTableName).
		Set("return_date", returnDate).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"key": key}).
		Suffix("returning " + strings.Join(loanColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Loan{}, errors.Wrap(err, "UpdateLoanReturnDate ToSql")
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Loan{}, mapErr(err)
	}
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Loan])
	return updated, mapErr(err)
}

func (r *repository) DeleteLoan(ctx context.Context, key string) error {
	query, args, err := qb.Delete(loansTableName).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "DeleteLoan ToSql")
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}
