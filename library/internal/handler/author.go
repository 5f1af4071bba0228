package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vagnerhf/library/library/internal/model"
)

// ListAuthors godoc
// @Summary list authors
// @Tags authors
// @Security BearerAuth
// @Param page query int false "page, starting at 1"
// @Param size query int false "page size"
// @Success 200 {object} model.Data[[]model.AuthorResource]
// @Router /api/v1/authors [get]
func (h *Handler) ListAuthors(c echo.Context) error {
	p, err := paging(c)
	if err != nil {
		return err
	}
	authors, err := h.librarySvc.ListAuthors(c.Request().Context(), p)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewAuthorResources(authors)))
}

func (h *Handler) GetAuthor(c echo.Context) error {
	author, err := h.librarySvc.GetAuthor(c.Request().Context(), c.Param("key"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewAuthorResource(author)))
}

// CreateAuthor godoc
// @Summary create author
// @Tags authors
// @Security BearerAuth
// @Param request body model.AuthorCreateRequest true "author"
// @Success 201 {object} model.Data[model.AuthorResource]
// @Failure 422 {object} errs.ValidationErrorResponse
// @Router /api/v1/authors [post]
func (h *Handler) CreateAuthor(c echo.Context) error {
	var req model.AuthorCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	author, err := h.librarySvc.CreateAuthor(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, model.NewData(model.NewAuthorResource(author)))
}

func (h *Handler) UpdateAuthor(c echo.Context) error {
	var req model.AuthorUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	author, err := h.librarySvc.UpdateAuthor(c.Request().Context(), c.Param("key"), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewAuthorResource(author)))
}

func (h *Handler) DeleteAuthor(c echo.Context) error {
	if err := h.librarySvc.DeleteAuthor(c.Request().Context(), c.Param("key")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
