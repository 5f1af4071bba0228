package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/vagnerhf/library/library/internal/errs"
	"github.com/vagnerhf/library/library/internal/handler"
	"github.com/vagnerhf/library/library/internal/model"
	"github.com/vagnerhf/library/pkg/auth"
	"github.com/vagnerhf/library/pkg/validate"
	"go.uber.org/zap"

	service_mocks "github.com/vagnerhf/library/library/internal/handler/mocks"
)

var (
	stamp   = time.Date(2024, 8, 9, 10, 0, 0, 0, time.UTC)
	herbert = model.Author{
		ID:        3,
		Key:       "a1",
		Name:      "Frank Herbert",
		BirthDate: time.Date(1920, 10, 8, 0, 0, 0, 0, time.UTC),
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
	dune = model.BookWithAuthors{
		Book: model.Book{
			ID:              7,
			Key:             "b1",
			Title:           "Dune",
			PublicationYear: 1965,
			CreatedAt:       stamp,
			UpdatedAt:       stamp,
		},
		Authors: []model.Author{herbert},
	}
	paul = model.User{ID: 9, Name: "Paul", Email: "u@x.com", Password: "hash", CreatedAt: stamp, UpdatedAt: stamp}
)

const (
	herbertJSON = `{"key":"a1","name":"Frank Herbert","birth_date":"1920-10-08","created_at":"2024-08-09 10:00:00","updated_at":"2024-08-09 10:00:00"}`
	duneJSON    = `{"key":"b1","title":"Dune","publication_year":1965,"authors":[` + herbertJSON + `],"created_at":"2024-08-09 10:00:00","updated_at":"2024-08-09 10:00:00"}`
)

type route struct {
	method, path string
	h            func(h *handler.Handler) echo.HandlerFunc
}

type response struct {
	expectedCode int
	expectedBody string
}

type mockBehavior func(r *service_mocks.MockLibraryService)

type testCase struct {
	name         string
	route        route
	target       string
	body         string
	mockBehavior mockBehavior
	response     response
}

func run(t *testing.T, tests []testCase) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.Add(tt.route.method, tt.route.path, tt.route.h(h))

			r := httptest.NewRequest(tt.route.method, tt.target, strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Books(t *testing.T) {
	t.Parallel()

	year := 1965
	create := route{http.MethodPost, "/books", func(h *handler.Handler) echo.HandlerFunc { return h.CreateBook }}
	get := route{http.MethodGet, "/books/:key", func(h *handler.Handler) echo.HandlerFunc { return h.GetBook }}
	update := route{http.MethodPut, "/books/:key", func(h *handler.Handler) echo.HandlerFunc { return h.UpdateBook }}
	replace := route{http.MethodPut, "/books/:key/authors", func(h *handler.Handler) echo.HandlerFunc { return h.ReplaceAuthors }}
	del := route{http.MethodDelete, "/books/:key", func(h *handler.Handler) echo.HandlerFunc { return h.DeleteBook }}
	list := route{http.MethodGet, "/books", func(h *handler.Handler) echo.HandlerFunc { return h.ListBooks }}

	run(t, []testCase{
		{
			name:   "create ok",
			route:  create,
			target: "/books",
			body:   `{"title":"Dune","publication_year":1965,"author_keys":["a1"]}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateBook(gomock.Any(), model.BookCreateRequest{Title: "Dune", PublicationYear: &year, AuthorKeys: []string{"a1"}}).
					Return(dune, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"data":` + duneJSON + `}`,
			},
		},
		{
			name:         "create missing fields",
			route:        create,
			target:       "/books",
			body:         `{}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"The given data was invalid.","errors":{"publication_year":"is required","title":"is required"}}`,
			},
		},
		{
			name:         "create malformed json",
			route:        create,
			target:       "/books",
			body:         `{"title":`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"malformed request body"}`,
			},
		},
		{
			name:   "create without authors renders empty list",
			route:  create,
			target: "/books",
			body:   `{"title":"Dune","publication_year":1965}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateBook(gomock.Any(), model.BookCreateRequest{Title: "Dune", PublicationYear: &year}).
					Return(model.BookWithAuthors{Book: dune.Book}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"data":{"key":"b1","title":"Dune","publication_year":1965,"authors":[],"created_at":"2024-08-09 10:00:00","updated_at":"2024-08-09 10:00:00"}}`,
			},
		},
		{
			name:   "get not found",
			route:  get,
			target: "/books/missing",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().GetBook(gomock.Any(), "missing").Return(model.BookWithAuthors{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:   "update without author_keys keeps authors",
			route:  update,
			target: "/books/b1",
			body:   `{"title":"Dune"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().UpdateBook(gomock.Any(), "b1", gomock.Any()).
					DoAndReturn(func(_ any, _ string, req model.BookUpdateRequest) (model.BookWithAuthors, error) {
						if req.AuthorKeys != nil {
							return model.BookWithAuthors{}, errors.New("author_keys must be nil")
						}
						return dune, nil
					})
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"data":` + duneJSON + `}`,
			},
		},
		{
			name:   "replace authors with empty list",
			route:  replace,
			target: "/books/b1/authors",
			body:   `{"author_keys":[]}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ReplaceAuthors(gomock.Any(), "b1", []string{}).Return(model.BookWithAuthors{Book: dune.Book}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"data":{"key":"b1","title":"Dune","publication_year":1965,"authors":[],"created_at":"2024-08-09 10:00:00","updated_at":"2024-08-09 10:00:00"}}`,
			},
		},
		{
			name:   "delete",
			route:  del,
			target: "/books/b1",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().DeleteBook(gomock.Any(), "b1").Return(nil)
			},
			response: response{expectedCode: http.StatusNoContent},
		},
		{
			name:   "delete with loans",
			route:  del,
			target: "/books/b1",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().DeleteBook(gomock.Any(), "b1").Return(errors.Wrap(errs.ErrConflict, "loans_book_id_fkey"))
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"loans_book_id_fkey: conflict"}`,
			},
		},
		{
			name:   "list paged",
			route:  list,
			target: "/books?page=2&size=5",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ListBooks(gomock.Any(), model.Paging{Page: 2, Size: 5}).Return(nil, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"data":[]}`,
			},
		},
		{
			name:         "list bad page",
			route:        list,
			target:       "/books?page=x",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"page is invalid"}`,
			},
		},
		{
			name:         "list page too large",
			route:        list,
			target:       "/books?page=9223372036854775807&size=5",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"page is invalid"}`,
			},
		},
		{
			name:         "list size too large",
			route:        list,
			target:       "/books?page=1&size=1000",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"size is invalid"}`,
			},
		},
		{
			name:   "list internal",
			route:  list,
			target: "/books",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ListBooks(gomock.Any(), model.Paging{}).Return(nil, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	})
}

func TestHandler_Authors(t *testing.T) {
	t.Parallel()

	create := route{http.MethodPost, "/authors", func(h *handler.Handler) echo.HandlerFunc { return h.CreateAuthor }}
	update := route{http.MethodPut, "/authors/:key", func(h *handler.Handler) echo.HandlerFunc { return h.UpdateAuthor }}
	del := route{http.MethodDelete, "/authors/:key", func(h *handler.Handler) echo.HandlerFunc { return h.DeleteAuthor }}

	name := "F. Herbert"
	run(t, []testCase{
		{
			name:   "create ok",
			route:  create,
			target: "/authors",
			body:   `{"name":"Frank Herbert","birth_date":"1920-10-08"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateAuthor(gomock.Any(), model.AuthorCreateRequest{Name: "Frank Herbert", BirthDate: "1920-10-08"}).
					Return(herbert, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"data":` + herbertJSON + `}`,
			},
		},
		{
			name:         "create bad date",
			route:        create,
			target:       "/authors",
			body:         `{"name":"Frank Herbert","birth_date":"08/10/1920"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"The given data was invalid.","errors":{"birth_date":"must be a valid date (2006-01-02)"}}`,
			},
		},
		{
			name:   "partial update",
			route:  update,
			target: "/authors/a1",
			body:   `{"name":"F. Herbert"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				updated := herbert
				updated.Name = name
				r.EXPECT().
					UpdateAuthor(gomock.Any(), "a1", model.AuthorUpdateRequest{Name: &name}).
					Return(updated, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"data":{"key":"a1","name":"F. Herbert","birth_date":"1920-10-08","created_at":"2024-08-09 10:00:00","updated_at":"2024-08-09 10:00:00"}}`,
			},
		},
		{
			name:   "delete missing",
			route:  del,
			target: "/authors/nope",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().DeleteAuthor(gomock.Any(), "nope").Return(errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
	})
}

func TestHandler_Loans(t *testing.T) {
	t.Parallel()

	create := route{http.MethodPost, "/loans", func(h *handler.Handler) echo.HandlerFunc { return h.CreateLoan }}
	update := route{http.MethodPut, "/loans/:key", func(h *handler.Handler) echo.HandlerFunc { return h.UpdateLoan }}

	loan := model.LoanDetails{
		Loan: model.Loan{
			ID:        1,
			Key:       "l1",
			BookID:    dune.ID,
			UserID:    paul.ID,
			LoanDate:  time.Date(2024, 8, 9, 0, 0, 0, 0, time.UTC),
			CreatedAt: stamp,
			UpdatedAt: stamp,
		},
		Book: dune,
		User: paul,
	}
	returned := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	closed := loan
	closed.ReturnDate = &returned
	returnDate := "2024-09-01"

	run(t, []testCase{
		{
			name:   "create ok",
			route:  create,
			target: "/loans",
			body:   `{"book_key":"b1","user_email":"u@x.com","loan_date":"2024-08-09"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateLoan(gomock.Any(), model.LoanCreateRequest{BookKey: "b1", UserEmail: "u@x.com", LoanDate: "2024-08-09"}).
					Return(loan, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"data":{"key":"l1","book":` + duneJSON + `,"user":"Paul","loan_date":"2024-08-09","return_date":null,"created_at":"2024-08-09 10:00:00","updated_at":"2024-08-09 10:00:00"}}`,
			},
		},
		{
			name:   "create unknown references",
			route:  create,
			target: "/loans",
			body:   `{"book_key":"nope","user_email":"who@x.com","loan_date":"2024-08-09"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().CreateLoan(gomock.Any(), gomock.Any()).
					Return(model.LoanDetails{}, errs.NewValidationError().
						Add("book_key", "selected book_key is invalid").
						Add("user_email", "selected user_email is invalid"))
			},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"The given data was invalid.","errors":{"book_key":"selected book_key is invalid","user_email":"selected user_email is invalid"}}`,
			},
		},
		{
			name:         "create missing loan date",
			route:        create,
			target:       "/loans",
			body:         `{"book_key":"b1","user_email":"u@x.com"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"The given data was invalid.","errors":{"loan_date":"is required"}}`,
			},
		},
		{
			name:   "return the book",
			route:  update,
			target: "/loans/l1",
			body:   `{"return_date":"2024-09-01"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					UpdateLoan(gomock.Any(), "l1", model.LoanUpdateRequest{ReturnDate: &returnDate}).
					Return(closed, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"data":{"key":"l1","book":` + duneJSON + `,"user":"Paul","loan_date":"2024-08-09","return_date":"2024-09-01","created_at":"2024-08-09 10:00:00","updated_at":"2024-08-09 10:00:00"}}`,
			},
		},
		{
			name:   "null return date",
			route:  update,
			target: "/loans/l1",
			body:   `{"return_date":null}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					UpdateLoan(gomock.Any(), "l1", model.LoanUpdateRequest{ReturnDateNull: true}).
					Return(model.LoanDetails{}, errs.NewValidationError().Add("return_date", "is required"))
			},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"The given data was invalid.","errors":{"return_date":"is required"}}`,
			},
		},
	})
}

func TestHandler_Users(t *testing.T) {
	t.Parallel()

	create := route{http.MethodPost, "/users", func(h *handler.Handler) echo.HandlerFunc { return h.CreateUser }}
	get := route{http.MethodGet, "/users/:email", func(h *handler.Handler) echo.HandlerFunc { return h.GetUser }}

	run(t, []testCase{
		{
			name:   "create hides password",
			route:  create,
			target: "/users",
			body:   `{"name":"Paul","email":"u@x.com","password":"secret-pass"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					CreateUser(gomock.Any(), model.UserCreateRequest{Name: "Paul", Email: "u@x.com", Password: "secret-pass"}).
					Return(paul, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"data":{"name":"Paul","email":"u@x.com","created_at":"2024-08-09 10:00:00","updated_at":"2024-08-09 10:00:00"}}`,
			},
		},
		{
			name:   "create taken email",
			route:  create,
			target: "/users",
			body:   `{"name":"Paul","email":"u@x.com","password":"secret-pass"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
					Return(model.User{}, errs.NewValidationError().Add("email", "has already been taken"))
			},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"The given data was invalid.","errors":{"email":"has already been taken"}}`,
			},
		},
		{
			name:         "create invalid",
			route:        create,
			target:       "/users",
			body:         `{"name":"Paul","email":"not-an-email","password":"short"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"The given data was invalid.","errors":{"email":"must be a valid email address","password":"must be at least 8 characters"}}`,
			},
		},
		{
			name:   "get by email",
			route:  get,
			target: "/users/u@x.com",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().GetUser(gomock.Any(), "u@x.com").Return(paul, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"data":{"name":"Paul","email":"u@x.com","created_at":"2024-08-09 10:00:00","updated_at":"2024-08-09 10:00:00"}}`,
			},
		},
	})
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()

	login := route{http.MethodPost, "/login", func(h *handler.Handler) echo.HandlerFunc { return h.Login }}
	token := auth.Token{AccessToken: "jwt"}
	token.Claims.ExpiresAt = jwt.NewNumericDate(stamp.Add(time.Hour))

	run(t, []testCase{
		{
			name:   "ok",
			route:  login,
			target: "/login",
			body:   `{"email":"u@x.com","password":"secret-pass"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Login(gomock.Any(), model.LoginRequest{Email: "u@x.com", Password: "secret-pass"}).Return(token, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"data":{"token":"jwt","token_type":"Bearer","expires_at":"2024-08-09T11:00:00Z"}}`,
			},
		},
		{
			name:   "bad credentials",
			route:  login,
			target: "/login",
			body:   `{"email":"u@x.com","password":"wrong"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Login(gomock.Any(), gomock.Any()).Return(auth.Token{}, errs.ErrInvalidCredentials)
			},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"invalid credentials"}`,
			},
		},
	})
}

func TestHandler_Router(t *testing.T) {
	t.Parallel()

	claims := &auth.Claims{Name: "Paul", Email: "u@x.com"}
	tests := []struct {
		name          string
		method        string
		target        string
		authorization string
		mockBehavior  mockBehavior
		response      response
	}{
		{
			name:         "health",
			method:       http.MethodGet,
			target:       "/manage/health",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response:     response{expectedCode: http.StatusOK, expectedBody: "OK"},
		},
		{
			name:         "no token",
			method:       http.MethodGet,
			target:       "/api/v1/books",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response:     response{expectedCode: http.StatusUnauthorized, expectedBody: `{"message":"No Authorization Header"}`},
		},
		{
			name:          "not bearer",
			method:        http.MethodGet,
			target:        "/api/v1/books",
			authorization: "Basic Zm9vOmJhcg==",
			mockBehavior:  func(r *service_mocks.MockLibraryService) {},
			response:      response{expectedCode: http.StatusUnauthorized, expectedBody: `{"message":"Invalid Authorization Header"}`},
		},
		{
			name:          "revoked token",
			method:        http.MethodGet,
			target:        "/api/v1/books",
			authorization: "Bearer revoked",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Authenticate(gomock.Any(), "revoked").Return(nil, errors.Wrap(errs.ErrUnauthorized, "token revoked"))
			},
			response: response{expectedCode: http.StatusUnauthorized, expectedBody: `{"message":"unauthenticated"}`},
		},
		{
			name:          "me",
			method:        http.MethodGet,
			target:        "/api/v1/me",
			authorization: "Bearer good",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Authenticate(gomock.Any(), "good").Return(claims, nil)
				r.EXPECT().GetUser(gomock.Any(), "u@x.com").Return(paul, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"data":{"name":"Paul","email":"u@x.com","created_at":"2024-08-09 10:00:00","updated_at":"2024-08-09 10:00:00"}}`,
			},
		},
		{
			name:          "logout",
			method:        http.MethodPost,
			target:        "/api/v1/logout",
			authorization: "Bearer good",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Authenticate(gomock.Any(), "good").Return(claims, nil)
				r.EXPECT().Logout(gomock.Any(), claims).Return(nil)
			},
			response: response{expectedCode: http.StatusNoContent},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			e := handler.New(svc, zap.NewNop()).NewRouter()

			r := httptest.NewRequest(tt.method, tt.target, http.NoBody)
			if tt.authorization != "" {
				r.Header.Set("Authorization", tt.authorization)
			}
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
