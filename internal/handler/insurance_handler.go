package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/service"
	"github.com/dafibh/planner/planner-web/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const insuranceDeleteMessage = "Tem certeza que deseja excluir este seguro?"

// InsuranceHandler handles insurance pages
type InsuranceHandler struct {
	insuranceService  *service.InsuranceService
	simulationService *service.SimulationService
}

// NewInsuranceHandler creates a new InsuranceHandler
func NewInsuranceHandler(insuranceService *service.InsuranceService, simulationService *service.SimulationService) *InsuranceHandler {
	return &InsuranceHandler{
		insuranceService:  insuranceService,
		simulationService: simulationService,
	}
}

// List handles GET /insurances
func (h *InsuranceHandler) List(c echo.Context) error {
	insurances, err := h.insuranceService.GetInsurances(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get insurances")
		return render(c, http.StatusBadGateway, "insurances/list", "Seguros", sectionInsurances, listView{Failure: "Erro ao carregar seguros."})
	}
	return render(c, http.StatusOK, "insurances/list", "Seguros", sectionInsurances, listView{Items: insurances})
}

// Show handles GET /insurances/:id
func (h *InsuranceHandler) Show(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionInsurances, "/insurances")
	}

	insurance, err := h.insuranceService.GetInsurance(c.Request().Context(), id)
	if err != nil {
		return renderLoadError(c, err, sectionInsurances, "Erro ao carregar seguro.", "/insurances")
	}
	return render(c, http.StatusOK, "insurances/detail", "Seguro: "+insurance.Name, sectionInsurances, insurance)
}

// New handles GET /insurances/new
func (h *InsuranceHandler) New(c echo.Context) error {
	return h.renderForm(c, http.StatusOK, 0, h.insuranceService.NewForm(), nil, "")
}

// Create handles POST /insurances
func (h *InsuranceHandler) Create(c echo.Context) error {
	var input domain.InsuranceInput
	if verrs := formErrors(c, &input, bindInsuranceForm(c, &input)); len(verrs) > 0 {
		return h.renderForm(c, http.StatusUnprocessableEntity, 0, input, verrs, "")
	}

	insurance, err := h.insuranceService.CreateInsurance(c.Request().Context(), &input)
	if err != nil {
		return h.renderSaveError(c, 0, input, err)
	}

	log.Info().Int64("insurance_id", insurance.ID).Int64("simulation_id", input.SimulationID).Msg("Insurance created")
	return redirect(c, "/insurances")
}

// Edit handles GET /insurances/:id/edit
func (h *InsuranceHandler) Edit(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionInsurances, "/insurances")
	}

	input, err := h.insuranceService.EditForm(c.Request().Context(), id)
	if err != nil {
		return renderLoadError(c, err, sectionInsurances, "Erro ao carregar seguro.", "/insurances")
	}
	return h.renderForm(c, http.StatusOK, id, input, nil, "")
}

// Update handles POST /insurances/:id/edit
func (h *InsuranceHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionInsurances, "/insurances")
	}

	var input domain.InsuranceInput
	if verrs := formErrors(c, &input, bindInsuranceForm(c, &input)); len(verrs) > 0 {
		return h.renderForm(c, http.StatusUnprocessableEntity, id, input, verrs, "")
	}

	if _, err := h.insuranceService.UpdateInsurance(c.Request().Context(), id, &input); err != nil {
		return h.renderSaveError(c, id, input, err)
	}

	log.Info().Int64("insurance_id", id).Msg("Insurance updated")
	return redirect(c, "/insurances")
}

// ConfirmDelete handles GET /insurances/:id/delete
func (h *InsuranceHandler) ConfirmDelete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionInsurances, "/insurances")
	}
	return render(c, http.StatusOK, "confirm_delete", "Excluir seguro", sectionInsurances, confirmView{
		Message: insuranceDeleteMessage,
		Action:  fmt.Sprintf("/insurances/%d/delete", id),
	})
}

// Delete handles POST /insurances/:id/delete. Nothing is deleted unless confirm=yes.
func (h *InsuranceHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionInsurances, "/insurances")
	}
	if c.FormValue("confirm") != confirmYes {
		return redirect(c, "/insurances")
	}

	if err := h.insuranceService.DeleteInsurance(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return renderNotFound(c, sectionInsurances, "/insurances")
		}
		log.Error().Err(err).Int64("insurance_id", id).Msg("Failed to delete insurance")
		return render(c, http.StatusBadGateway, "confirm_delete", "Excluir seguro", sectionInsurances, confirmView{
			Message: insuranceDeleteMessage,
			Action:  fmt.Sprintf("/insurances/%d/delete", id),
			Failure: "Erro ao excluir seguro.",
		})
	}

	log.Info().Int64("insurance_id", id).Msg("Insurance deleted")
	return redirect(c, "/insurances")
}

func (h *InsuranceHandler) renderForm(c echo.Context, status int, id int64, input domain.InsuranceInput, verrs validation.Errors, failure string) error {
	data := formView{
		Action:  "/insurances",
		Editing: id > 0,
		Input:   input,
		Errors:  verrs,
		Picker:  loadPicker(c, h.simulationService, input.SimulationID, verrs),
		Failure: failure,
	}
	title := "Novo Seguro"
	if data.Editing {
		data.Action = fmt.Sprintf("/insurances/%d/edit", id)
		title = "Editar Seguro"
	}
	return render(c, status, "insurances/form", title, sectionInsurances, data)
}

func (h *InsuranceHandler) renderSaveError(c echo.Context, id int64, input domain.InsuranceInput, err error) error {
	if verrs, ok := validation.AsErrors(err); ok {
		return h.renderForm(c, http.StatusUnprocessableEntity, id, input, verrs, "")
	}
	if errors.Is(err, domain.ErrNotFound) {
		return renderNotFound(c, sectionInsurances, "/insurances")
	}
	log.Error().Err(err).Int64("insurance_id", id).Msg("Failed to save insurance")
	return h.renderForm(c, http.StatusBadGateway, id, input, nil, "Erro ao salvar seguro.")
}

func bindInsuranceForm(c echo.Context, input *domain.InsuranceInput) []error {
	return echo.FormFieldBinder(c).FailFast(false).
		String("name", &input.Name).
		BindUnmarshaler("startDate", &input.StartDate).
		Int("duration", &input.Duration).
		BindUnmarshaler("premium", &input.Premium).
		BindUnmarshaler("insuredValue", &input.InsuredValue).
		Int64("simulationId", &input.SimulationID).
		BindErrors()
}
