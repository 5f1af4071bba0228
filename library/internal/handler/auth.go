package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vagnerhf/library/library/internal/model"
	"github.com/vagnerhf/library/pkg/auth"
)

func newAuthResource(user *model.User, token auth.Token) model.AuthResource {
	res := model.AuthResource{
		Token:     token.AccessToken,
		TokenType: auth.TokenType,
		ExpiresAt: token.Claims.ExpiresAt.Time.UTC().Format(time.RFC3339),
	}
	if user != nil {
		ur := model.NewUserResource(*user)
		res.User = &ur
	}
	return res
}

// Register godoc
// @Summary sign up and get a token
// @Tags auth
// @Param request body model.UserCreateRequest true "user"
// @Success 201 {object} model.Data[model.AuthResource]
// @Failure 422 {object} errs.ValidationErrorResponse
// @Router /api/v1/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.UserCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, token, err := h.librarySvc.Register(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, model.NewData(newAuthResource(&user, token)))
}

// Login godoc
// @Summary exchange credentials for a token
// @Tags auth
// @Param request body model.LoginRequest true "credentials"
// @Success 200 {object} model.Data[model.AuthResource]
// @Failure 401 {object} echo.HTTPError
// @Router /api/v1/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	token, err := h.librarySvc.Login(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(newAuthResource(nil, token)))
}

func (h *Handler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	claims, err := auth.GetClaims(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if err = h.librarySvc.Logout(ctx, claims); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	claims, err := auth.GetClaims(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	user, err := h.librarySvc.GetUser(ctx, claims.Email)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewUserResource(user)))
}
