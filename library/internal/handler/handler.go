package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	_ "github.com/vagnerhf/library/library/docs"
	"github.com/vagnerhf/library/library/internal/errs"
	"github.com/vagnerhf/library/library/internal/model"
	md "github.com/vagnerhf/library/pkg/middleware"
	"github.com/vagnerhf/library/pkg/validate"
	"go.uber.org/zap"
)

const invalidDataMessage = "The given data was invalid."

type Handler struct {
	librarySvc LibraryService
	log        *zap.Logger
}

func New(librarySvc LibraryService, log *zap.Logger) *Handler {
	return &Handler{
		librarySvc: librarySvc,
		log:        log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)

	secured := api.Group("", h.Authenticate)
	secured.POST("/logout", h.Logout)
	secured.GET("/me", h.Me)

	secured.GET("/authors", h.ListAuthors)
	secured.POST("/authors", h.CreateAuthor)
	secured.GET("/authors/:key", h.GetAuthor)
	secured.PUT("/authors/:key", h.UpdateAuthor)
	secured.DELETE("/authors/:key", h.DeleteAuthor)

	secured.GET("/books", h.ListBooks)
	secured.POST("/books", h.CreateBook)
	secured.GET("/books/:key", h.GetBook)
	secured.PUT("/books/:key", h.UpdateBook)
	secured.PUT("/books/:key/authors", h.ReplaceAuthors)
	secured.DELETE("/books/:key", h.DeleteBook)

	secured.GET("/loans", h.ListLoans)
	secured.POST("/loans", h.CreateLoan)
	secured.GET("/loans/:key", h.GetLoan)
	secured.PUT("/loans/:key", h.UpdateLoan)
	secured.DELETE("/loans/:key", h.DeleteLoan)

	secured.GET("/users", h.ListUsers)
	secured.POST("/users", h.CreateUser)
	secured.GET("/users/:email", h.GetUser)
	secured.PUT("/users/:email", h.UpdateUser)
	secured.DELETE("/users/:email", h.DeleteUser)

	return e
}

// Health godoc
// @Summary liveness probe
// @Tags manage
// @Success 200 {string} string "OK"
// @Router /manage/health [get]
func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// bind decodes the body into req and runs the struct validation.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := c.Validate(req); err != nil {
		return toHTTPError(err)
	}
	return nil
}

const (
	maxPage     = 100_000
	maxPageSize = 100
)

func paging(c echo.Context) (model.Paging, error) {
	var (
		p   model.Paging
		err error
	)
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if p.Page, err = strconv.Atoi(pageParam); err != nil || p.Page < 0 || p.Page > maxPage {
			return p, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if p.Size, err = strconv.Atoi(sizeParam); err != nil || p.Size < 0 || p.Size > maxPageSize {
			return p, echo.NewHTTPError(http.StatusBadRequest, "size is invalid")
		}
	}
	return p, nil
}

func toHTTPError(err error) error {
	var (
		verr   *errs.ValidationError
		fields validate.Errors
	)
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, errs.ValidationErrorResponse{
			Message: invalidDataMessage,
			Errors:  verr.Fields,
		})
	case errors.As(err, &fields):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, errs.ValidationErrorResponse{
			Message: invalidDataMessage,
			Errors:  fields,
		})
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, errs.ErrNotFound.Error())
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, errs.ErrInvalidCredentials.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, errs.ErrUnauthorized.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
