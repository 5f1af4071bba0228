package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vagnerhf/library/library/internal/errs"
	"github.com/vagnerhf/library/library/internal/model"
	"go.uber.org/zap"
)

func (s *Service) ListLoans(ctx context.Context, paging model.Paging) ([]model.LoanDetails, error) {
	return s.repo.ListLoans(ctx, paging)
}

func (s *Service) GetLoan(ctx context.Context, key string) (model.LoanDetails, error) {
	return s.repo.GetLoan(ctx, key)
}

// CreateLoan resolves the book and the borrower, stores the loan and queues the
// "loan created" mail. A failed publish is logged and does not fail the loan.
func (s *Service) CreateLoan(ctx context.Context, req model.LoanCreateRequest) (model.LoanDetails, error) {
	verr := errs.NewValidationError()

	loanDate, err := parseDate("loan_date", req.LoanDate)
	if err != nil {
		verr.Add("loan_date", "must be a valid date (YYYY-MM-DD)")
	}
	book, err := s.repo.GetBook(ctx, req.BookKey)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		verr.Add("book_key", "selected book_key is invalid")
	case err != nil:
		return model.LoanDetails{}, errors.Wrap(err, "CreateLoan GetBook")
	}
	user, err := s.repo.GetUser(ctx, req.UserEmail)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		verr.Add("user_email", "selected user_email is invalid")
	case err != nil:
		return model.LoanDetails{}, errors.Wrap(err, "CreateLoan GetUser")
	}
	if verr.HasErrors() {
		return model.LoanDetails{}, verr
	}

	loan, err := s.repo.CreateLoan(ctx, model.NewLoan(book.ID, user.ID, loanDate))
	if err != nil {
		return model.LoanDetails{}, err
	}
	user.Password = ""
	details := model.LoanDetails{Loan: loan, Book: book, User: user}

	if err = s.publisher.PublishLoanCreated(ctx, model.NewLoanCreated(details)); err != nil {
		s.log.Warn("publish loan created",
			zap.String("loan", loan.Key), zap.Error(err))
	}
	return details, nil
}

// UpdateLoan only ever touches return_date. A return_date sent as null is
// rejected rather than ignored.
func (s *Service) UpdateLoan(ctx context.Context, key string, req model.LoanUpdateRequest) (model.LoanDetails, error) {
	if req.ReturnDateNull {
		return model.LoanDetails{}, errs.NewValidationError().Add("return_date", "is required")
	}
	if req.ReturnDate != nil {
		returnDate, err := parseDate("return_date", *req.ReturnDate)
		if err != nil {
			return model.LoanDetails{}, err
		}
		if _, err = s.repo.UpdateLoanReturnDate(ctx, key, returnDate); err != nil {
			return model.LoanDetails{}, err
		}
	}
	return s.repo.GetLoan(ctx, key)
}

func (s *Service) DeleteLoan(ctx context.Context, key string) error {
	return s.repo.DeleteLoan(ctx, key)
}
