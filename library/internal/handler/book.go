package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vagnerhf/library/library/internal/model"
)

// ListBooks godoc
// @Summary list books with their authors
// @Tags books
// @Security BearerAuth
// @Param page query int false "page, starting at 1"
// @Param size query int false "page size"
// @Success 200 {object} model.Data[[]model.BookResource]
// @Router /api/v1/books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	p, err := paging(c)
	if err != nil {
		return err
	}
	books, err := h.librarySvc.ListBooks(c.Request().Context(), p)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewBookResources(books)))
}

func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.librarySvc.GetBook(c.Request().Context(), c.Param("key"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewBookResource(book)))
}

// CreateBook godoc
// @Summary create book
// @Description unknown author keys are ignored
// @Tags books
// @Security BearerAuth
// @Param request body model.BookCreateRequest true "book"
// @Success 201 {object} model.Data[model.BookResource]
// @Failure 422 {object} errs.ValidationErrorResponse
// @Router /api/v1/books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.BookCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	book, err := h.librarySvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, model.NewData(model.NewBookResource(book)))
}

// UpdateBook replaces the author set only when author_keys is sent.
func (h *Handler) UpdateBook(c echo.Context) error {
	var req model.BookUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	book, err := h.librarySvc.UpdateBook(c.Request().Context(), c.Param("key"), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewBookResource(book)))
}

func (h *Handler) ReplaceAuthors(c echo.Context) error {
	var req model.BookAuthorsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	book, err := h.librarySvc.ReplaceAuthors(c.Request().Context(), c.Param("key"), req.AuthorKeys)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewBookResource(book)))
}

func (h *Handler) DeleteBook(c echo.Context) error {
	if err := h.librarySvc.DeleteBook(c.Request().Context(), c.Param("key")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
