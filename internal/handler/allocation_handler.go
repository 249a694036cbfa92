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

const allocationDeleteMessage = "Tem certeza que deseja excluir esta alocação?"

// AllocationHandler handles allocation pages
type AllocationHandler struct {
	allocationService *service.AllocationService
	simulationService *service.SimulationService
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(allocationService *service.AllocationService, simulationService *service.SimulationService) *AllocationHandler {
	return &AllocationHandler{
		allocationService: allocationService,
		simulationService: simulationService,
	}
}

// List handles GET /allocations
func (h *AllocationHandler) List(c echo.Context) error {
	allocations, err := h.allocationService.GetAllocations(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get allocations")
		return render(c, http.StatusBadGateway, "allocations/list", "Alocações", sectionAllocations, listView{Failure: "Erro ao carregar alocações."})
	}
	return render(c, http.StatusOK, "allocations/list", "Alocações", sectionAllocations, listView{Items: allocations})
}

// Show handles GET /allocations/:id
func (h *AllocationHandler) Show(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionAllocations, "/allocations")
	}

	allocation, err := h.allocationService.GetAllocation(c.Request().Context(), id)
	if err != nil {
		return renderLoadError(c, err, sectionAllocations, "Erro ao carregar alocação.", "/allocations")
	}
	return render(c, http.StatusOK, "allocations/detail", "Alocação: "+allocation.Name, sectionAllocations, allocation)
}

// New handles GET /allocations/new
func (h *AllocationHandler) New(c echo.Context) error {
	return h.renderForm(c, http.StatusOK, 0, h.allocationService.NewForm(), nil, "")
}

// Create handles POST /allocations
func (h *AllocationHandler) Create(c echo.Context) error {
	var input domain.AllocationInput
	if verrs := formErrors(c, &input, bindAllocationForm(c, &input)); len(verrs) > 0 {
		return h.renderForm(c, http.StatusUnprocessableEntity, 0, input, verrs, "")
	}

	allocation, err := h.allocationService.CreateAllocation(c.Request().Context(), &input)
	if err != nil {
		return h.renderSaveError(c, 0, input, err)
	}

	log.Info().Int64("allocation_id", allocation.ID).Int64("simulation_id", input.SimulationID).Msg("Allocation created")
	return redirect(c, "/allocations")
}

// Edit handles GET /allocations/:id/edit
func (h *AllocationHandler) Edit(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionAllocations, "/allocations")
	}

	input, err := h.allocationService.EditForm(c.Request().Context(), id)
	if err != nil {
		return renderLoadError(c, err, sectionAllocations, "Erro ao carregar alocação.", "/allocations")
	}
	return h.renderForm(c, http.StatusOK, id, input, nil, "")
}

// Update handles POST /allocations/:id/edit
func (h *AllocationHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionAllocations, "/allocations")
	}

	var input domain.AllocationInput
	if verrs := formErrors(c, &input, bindAllocationForm(c, &input)); len(verrs) > 0 {
		return h.renderForm(c, http.StatusUnprocessableEntity, id, input, verrs, "")
	}

	if _, err := h.allocationService.UpdateAllocation(c.Request().Context(), id, &input); err != nil {
		return h.renderSaveError(c, id, input, err)
	}

	log.Info().Int64("allocation_id", id).Msg("Allocation updated")
	return redirect(c, "/allocations")
}

// ConfirmDelete handles GET /allocations/:id/delete
func (h *AllocationHandler) ConfirmDelete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionAllocations, "/allocations")
	}
	return render(c, http.StatusOK, "confirm_delete", "Excluir alocação", sectionAllocations, confirmView{
		Message: allocationDeleteMessage,
		Action:  fmt.Sprintf("/allocations/%d/delete", id),
	})
}

// Delete handles POST /allocations/:id/delete. Nothing is deleted unless confirm=yes.
func (h *AllocationHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionAllocations, "/allocations")
	}
	if c.FormValue("confirm") != confirmYes {
		return redirect(c, "/allocations")
	}

	if err := h.allocationService.DeleteAllocation(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return renderNotFound(c, sectionAllocations, "/allocations")
		}
		log.Error().Err(err).Int64("allocation_id", id).Msg("Failed to delete allocation")
		return render(c, http.StatusBadGateway, "confirm_delete", "Excluir alocação", sectionAllocations, confirmView{
			Message: allocationDeleteMessage,
			Action:  fmt.Sprintf("/allocations/%d/delete", id),
			Failure: "Erro ao excluir alocação.",
		})
	}

	log.Info().Int64("allocation_id", id).Msg("Allocation deleted")
	return redirect(c, "/allocations")
}

func (h *AllocationHandler) renderForm(c echo.Context, status int, id int64, input domain.AllocationInput, verrs validation.Errors, failure string) error {
	data := formView{
		Action:  "/allocations",
		Editing: id > 0,
		Input:   input,
		Errors:  verrs,
		Picker:  loadPicker(c, h.simulationService, input.SimulationID, verrs),
		Failure: failure,
	}
	title := "Nova Alocação"
	if data.Editing {
		data.Action = fmt.Sprintf("/allocations/%d/edit", id)
		title = "Editar Alocação"
	}
	return render(c, status, "allocations/form", title, sectionAllocations, data)
}

func (h *AllocationHandler) renderSaveError(c echo.Context, id int64, input domain.AllocationInput, err error) error {
	if verrs, ok := validation.AsErrors(err); ok {
		return h.renderForm(c, http.StatusUnprocessableEntity, id, input, verrs, "")
	}
	if errors.Is(err, domain.ErrNotFound) {
		return renderNotFound(c, sectionAllocations, "/allocations")
	}
	log.Error().Err(err).Int64("allocation_id", id).Msg("Failed to save allocation")
	return h.renderForm(c, http.StatusBadGateway, id, input, nil, "Erro ao salvar alocação.")
}

// bindAllocationForm reads the allocation form. The financing terms are only
// read when the financing checkbox is ticked, so hidden values never reach the API.
func bindAllocationForm(c echo.Context, input *domain.AllocationInput) []error {
	var allocationType string
	var hasFinancing bool
	errs := echo.FormFieldBinder(c).FailFast(false).
		String("name", &input.Name).
		String("type", &allocationType).
		BindUnmarshaler("value", &input.Value).
		BindUnmarshaler("date", &input.Date).
		Bool("hasFinancing", &hasFinancing).
		Int64("simulationId", &input.SimulationID).
		BindErrors()
	input.Type = domain.AllocationType(allocationType)

	if !hasFinancing {
		input.Financing = nil
		return errs
	}

	terms := &domain.FinancingTerms{}
	errs = append(errs, echo.FormFieldBinder(c).FailFast(false).
		BindUnmarshaler("startDate", &terms.StartDate).
		Int("installments", &terms.Installments).
		BindUnmarshaler("interestRate", &terms.InterestRate).
		BindUnmarshaler("downPayment", &terms.DownPayment).
		BindErrors()...)
	input.Financing = terms
	return errs
}
