package mail

import (
	"context"
	"strings"
	"text/template"
	"time"

	"github.com/pkg/errors"
	"github.com/vagnerhf/library/library/internal/model"
	"github.com/vagnerhf/library/pkg/circuit_breaker"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Config struct {
	Host     string        `envconfig:"MAIL_HOST" default:"localhost"`
	Port     int           `envconfig:"MAIL_PORT" default:"1025"`
	Username string        `envconfig:"MAIL_USERNAME"`
	Password string        `envconfig:"MAIL_PASSWORD" json:"-"`
	From     string        `envconfig:"MAIL_FROM" default:"library@example.com"`
	Timeout  time.Duration `envconfig:"MAIL_TIMEOUT" default:"15s"`
	AppURL   string        `envconfig:"APP_URL" default:"http://localhost:8080"`
}

const loanCreatedSubject = "Loan created"

var loanCreatedTmpl = template.Must(template.New("loan_created").Parse(`Hello {{.Name}}!

Your loan of the book '{{.BookTitle}}' was created successfully.

Book: {{.BookTitle}}
Loan date: {{.LoanDate}}
Return date: {{.ReturnDate}}

View loan: {{.URL}}

Thank you for using our library!
`))

type loanCreatedView struct {
	Name       string
	BookTitle  string
	LoanDate   string
	ReturnDate string
	URL        string
}

type sendFunc func(ctx context.Context, m *gomail.Msg) error

type Sender struct {
	cfg  Config
	cb   circuit_breaker.CircuitBreaker
	send sendFunc
	log  *zap.Logger
}

func NewSender(cfg Config, cb circuit_breaker.CircuitBreaker, log *zap.Logger) *Sender {
	s := &Sender{
		cfg: cfg,
		cb:  cb,
		log: log.Named("mail"),
	}
	s.send = s.dialAndSend
	return s
}

// SendLoanCreated delivers the "loan created" mail to the borrower. ctx bounds
// the whole SMTP exchange.
func (s *Sender) SendLoanCreated(ctx context.Context, msg model.LoanCreated) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := s.newLoanCreated(msg)
	if err != nil {
		return err
	}
	err = s.cb.Call(func() error {
		return s.send(ctx, m)
	})
	if err != nil {
		return errors.Wrapf(err, "send mail to %s", msg.Recipient)
	}
	s.log.Info("loan created mail sent", zap.String("loan", msg.LoanKey))
	return nil
}

func (s *Sender) newLoanCreated(msg model.LoanCreated) (*gomail.Msg, error) {
	view := loanCreatedView{
		Name:       msg.RecipientName,
		BookTitle:  msg.BookTitle,
		LoanDate:   msg.LoanDate,
		ReturnDate: "N/A",
		URL:        strings.TrimRight(s.cfg.AppURL, "/") + "/loans/" + msg.LoanKey,
	}
	if msg.ReturnDate != nil {
		view.ReturnDate = *msg.ReturnDate
	}

	m := gomail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, errors.Wrap(err, "mail from")
	}
	if err := m.To(msg.Recipient); err != nil {
		return nil, errors.Wrap(err, "mail to")
	}
	m.Subject(loanCreatedSubject)
	if err := m.SetBodyTextTemplate(loanCreatedTmpl, view); err != nil {
		return nil, errors.Wrap(err, "render loan created")
	}
	return m, nil
}

func (s *Sender) dialAndSend(ctx context.Context, m *gomail.Msg) error {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(s.cfg.Timeout))
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return errors.Wrap(err, "mail client")
	}
	return client.DialAndSendWithContext(ctx, m)
}
