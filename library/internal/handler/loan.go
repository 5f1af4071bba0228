package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vagnerhf/library/library/internal/model"
)

func (h *Handler) ListLoans(c echo.Context) error {
	p, err := paging(c)
	if err != nil {
		return err
	}
	loans, err := h.librarySvc.ListLoans(c.Request().Context(), p)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewLoanResources(loans)))
}

func (h *Handler) GetLoan(c echo.Context) error {
	loan, err := h.librarySvc.GetLoan(c.Request().Context(), c.Param("key"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewLoanResource(loan)))
}

// CreateLoan godoc
// @Summary lend a book
// @Description the borrower gets a "loan created" mail asynchronously
// @Tags loans
// @Security BearerAuth
// @Param request body model.LoanCreateRequest true "loan"
// @Success 201 {object} model.Data[model.LoanResource]
// @Failure 422 {object} errs.ValidationErrorResponse
// @Router /api/v1/loans [post]
func (h *Handler) CreateLoan(c echo.Context) error {
	var req model.LoanCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	loan, err := h.librarySvc.CreateLoan(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, model.NewData(model.NewLoanResource(loan)))
}

func (h *Handler) UpdateLoan(c echo.Context) error {
	var req model.LoanUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	loan, err := h.librarySvc.UpdateLoan(c.Request().Context(), c.Param("key"), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, model.NewData(model.NewLoanResource(loan)))
}

func (h *Handler) DeleteLoan(c echo.Context) error {
	if err := h.librarySvc.DeleteLoan(c.Request().Context(), c.Param("key")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
