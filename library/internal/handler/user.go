package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vagnerhf/library/library/internal/model"
)

func (h *Handler) ListUsers(c echo.Context) error {
	p, err := paging(c)
	if err != nil {
		return err
	}
	users, err := h.librarySvc.ListUsers(c.Request().Context(), p)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewUserResources(users)))
}

func (h *Handler) GetUser(c echo.Context) error {
	user, err := h.librarySvc.GetUser(c.Request().Context(), c.Param("email"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewUserResource(user)))
}

func (h *Handler) CreateUser(c echo.Context) error {
	var req model.UserCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.librarySvc.CreateUser(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, model.NewData(model.NewUserResource(user)))
}

func (h *Handler) UpdateUser(c echo.Context) error {
	var req model.UserUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.librarySvc.UpdateUser(c.Request().Context(), c.Param("email"), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewUserResource(user)))
}

func (h *Handler) DeleteUser(c echo.Context) error {
	if err := h.librarySvc.DeleteUser(c.Request().Context(), c.Param("email")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
