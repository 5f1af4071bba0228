package model

import "time"

// LoanCreated is the message published to the mail queue after a loan is stored.
type LoanCreated struct {
	LoanKey       string  `json:"loan_key"`
	Recipient     string  `json:"recipient"`
	RecipientName string  `json:"recipient_name"`
	BookTitle     string  `json:"book_title"`
	LoanDate      string  `json:"loan_date"`
	ReturnDate    *string `json:"return_date"`
}

func NewLoanCreated(l LoanDetails) LoanCreated {
	return LoanCreated{
		LoanKey:       l.Key,
		Recipient:     l.User.Email,
		RecipientName: l.User.Name,
		BookTitle:     l.Book.Title,
		LoanDate:      l.LoanDate.Format(time.DateOnly),
		ReturnDate:    formatDate(l.ReturnDate),
	}
}
