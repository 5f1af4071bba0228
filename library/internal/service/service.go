package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vagnerhf/library/library/internal/errs"
	"github.com/vagnerhf/library/library/internal/model"
	libraryRepo "github.com/vagnerhf/library/library/internal/repository"
	"github.com/vagnerhf/library/pkg/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

// Publisher hands the notification off to the async mailer. It must not wait for delivery.
type Publisher interface {
	PublishLoanCreated(ctx context.Context, msg model.LoanCreated) error
}

type Service struct {
	log       *zap.Logger
	repo      libraryRepo.Repository
	publisher Publisher
	tokens    *auth.Manager
	hashCost  int
}

func NewService(repo libraryRepo.Repository, publisher Publisher, tokens *auth.Manager, log *zap.Logger) *Service {
	return &Service{
		log:       log.Named("service"),
		repo:      repo,
		publisher: publisher,
		tokens:    tokens,
		hashCost:  bcrypt.DefaultCost,
	}
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, errs.NewValidationError().Add(field, "must be a valid date (YYYY-MM-DD)")
	}
	return t, nil
}
