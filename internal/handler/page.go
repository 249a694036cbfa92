package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/validation"
	"github.com/dafibh/planner/planner-web/internal/view"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	themeCookie   = "theme"
	confirmYes    = "yes"
	notFoundTitle = "Não encontrado"
	notFoundText  = "Registro não encontrado."
)

// Navigation sections
const (
	sectionSimulations = "simulations"
	sectionAllocations = "allocations"
	sectionInsurances  = "insurances"
	sectionMovements   = "movements"
	sectionProjection  = "projection"
)

type listView struct {
	Items   interface{}
	Failure string
}

type formView struct {
	Action  string
	Editing bool
	Input   interface{}
	Errors  validation.Errors
	Picker  simulationPicker
	Failure string
}

// simulationPicker is the simulation dropdown of child entity forms
type simulationPicker struct {
	Simulations []domain.Simulation
	Selected    int64
	Error       string
}

type confirmView struct {
	Message string
	Action  string
	Failure string
}

type errorView struct {
	Message string
	Back    string
}

func themeOf(c echo.Context) string {
	if cookie, err := c.Cookie(themeCookie); err == nil && cookie.Value == view.ThemeLight {
		return view.ThemeLight
	}
	return view.ThemeDark
}

func render(c echo.Context, status int, name, title, section string, data interface{}) error {
	return c.Render(status, name, view.Page{
		Title:  title,
		Active: section,
		Theme:  themeOf(c),
		Data:   data,
	})
}

// parseID reads the :id path parameter. Only positive ids are valid.
func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func renderNotFound(c echo.Context, section, back string) error {
	return render(c, http.StatusNotFound, "error", notFoundTitle, section, errorView{Message: notFoundText, Back: back})
}

// renderLoadError renders the not found page for missing records and the
// inline message otherwise
func renderLoadError(c echo.Context, err error, section, message, back string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return renderNotFound(c, section, back)
	}
	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Failed to load page data")
	return render(c, http.StatusBadGateway, "error", "Erro", section, errorView{Message: message, Back: back})
}

// formErrors turns binding failures into field messages and adds the schema
// errors of the fields that did bind
func formErrors(c echo.Context, input interface{}, bindErrs []error) validation.Errors {
	verrs := make(validation.Errors)
	for _, err := range bindErrs {
		var bindErr *echo.BindingError
		if errors.As(err, &bindErr) {
			verrs.Add(bindErr.Field, validation.MessageFor(input, bindErr.Field))
		}
	}
	if len(verrs) == 0 {
		return verrs
	}

	if err := c.Validate(input); err != nil {
		if schemaErrs, ok := validation.AsErrors(err); ok {
			for field, message := range schemaErrs {
				verrs.Add(field, message)
			}
		}
	}
	return verrs
}

func redirect(c echo.Context, location string) error {
	return c.Redirect(http.StatusSeeOther, location)
}
