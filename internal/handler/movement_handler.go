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

const movementDeleteMessage = "Tem certeza que deseja excluir esta movimentação?"

// MovementHandler handles movement pages
type MovementHandler struct {
	movementService   *service.MovementService
	simulationService *service.SimulationService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(movementService *service.MovementService, simulationService *service.SimulationService) *MovementHandler {
	return &MovementHandler{
		movementService:   movementService,
		simulationService: simulationService,
	}
}

// List handles GET /movements
func (h *MovementHandler) List(c echo.Context) error {
	movements, err := h.movementService.GetMovements(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get movements")
		return render(c, http.StatusBadGateway, "movements/list", "Movimentações", sectionMovements, listView{Failure: "Erro ao carregar movimentações."})
	}
	return render(c, http.StatusOK, "movements/list", "Movimentações", sectionMovements, listView{Items: movements})
}

// Show handles GET /movements/:id
func (h *MovementHandler) Show(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionMovements, "/movements")
	}

	movement, err := h.movementService.GetMovement(c.Request().Context(), id)
	if err != nil {
		return renderLoadError(c, err, sectionMovements, "Erro ao carregar movimentação.", "/movements")
	}
	return render(c, http.StatusOK, "movements/detail", fmt.Sprintf("Movimentação #%d", movement.ID), sectionMovements, movement)
}

// New handles GET /movements/new
func (h *MovementHandler) New(c echo.Context) error {
	return h.renderForm(c, http.StatusOK, 0, h.movementService.NewForm(), nil, "")
}

// Create handles POST /movements
func (h *MovementHandler) Create(c echo.Context) error {
	var input domain.MovementInput
	if verrs := formErrors(c, &input, bindMovementForm(c, &input)); len(verrs) > 0 {
		return h.renderForm(c, http.StatusUnprocessableEntity, 0, input, verrs, "")
	}

	movement, err := h.movementService.CreateMovement(c.Request().Context(), &input)
	if err != nil {
		return h.renderSaveError(c, 0, input, err)
	}

	log.Info().Int64("movement_id", movement.ID).Int64("simulation_id", input.SimulationID).Msg("Movement created")
	return redirect(c, "/movements")
}

// Edit handles GET /movements/:id/edit
func (h *MovementHandler) Edit(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionMovements, "/movements")
	}

	input, err := h.movementService.EditForm(c.Request().Context(), id)
	if err != nil {
		return renderLoadError(c, err, sectionMovements, "Erro ao carregar movimentação.", "/movements")
	}
	return h.renderForm(c, http.StatusOK, id, input, nil, "")
}

// Update handles POST /movements/:id/edit
func (h *MovementHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionMovements, "/movements")
	}

	var input domain.MovementInput
	if verrs := formErrors(c, &input, bindMovementForm(c, &input)); len(verrs) > 0 {
		return h.renderForm(c, http.StatusUnprocessableEntity, id, input, verrs, "")
	}

	if _, err := h.movementService.UpdateMovement(c.Request().Context(), id, &input); err != nil {
		return h.renderSaveError(c, id, input, err)
	}

	log.Info().Int64("movement_id", id).Msg("Movement updated")
	return redirect(c, "/movements")
}

// ConfirmDelete handles GET /movements/:id/delete
func (h *MovementHandler) ConfirmDelete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionMovements, "/movements")
	}
	return render(c, http.StatusOK, "confirm_delete", "Excluir movimentação", sectionMovements, confirmView{
		Message: movementDeleteMessage,
		Action:  fmt.Sprintf("/movements/%d/delete", id),
	})
}

// Delete handles POST /movements/:id/delete. Nothing is deleted unless confirm=yes.
func (h *MovementHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionMovements, "/movements")
	}
	if c.FormValue("confirm") != confirmYes {
		return redirect(c, "/movements")
	}

	if err := h.movementService.DeleteMovement(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return renderNotFound(c, sectionMovements, "/movements")
		}
		log.Error().Err(err).Int64("movement_id", id).Msg("Failed to delete movement")
		return render(c, http.StatusBadGateway, "confirm_delete", "Excluir movimentação", sectionMovements, confirmView{
			Message: movementDeleteMessage,
			Action:  fmt.Sprintf("/movements/%d/delete", id),
			Failure: "Erro ao excluir movimentação.",
		})
	}

	log.Info().Int64("movement_id", id).Msg("Movement deleted")
	return redirect(c, "/movements")
}

func (h *MovementHandler) renderForm(c echo.Context, status int, id int64, input domain.MovementInput, verrs validation.Errors, failure string) error {
	data := formView{
		Action:  "/movements",
		Editing: id > 0,
		Input:   input,
		Errors:  verrs,
		Picker:  loadPicker(c, h.simulationService, input.SimulationID, verrs),
		Failure: failure,
	}
	title := "Nova Movimentação"
	if data.Editing {
		data.Action = fmt.Sprintf("/movements/%d/edit", id)
		title = "Editar Movimentação"
	}
	return render(c, status, "movements/form", title, sectionMovements, data)
}

func (h *MovementHandler) renderSaveError(c echo.Context, id int64, input domain.MovementInput, err error) error {
	if verrs, ok := validation.AsErrors(err); ok {
		return h.renderForm(c, http.StatusUnprocessableEntity, id, input, verrs, "")
	}
	if errors.Is(err, domain.ErrNotFound) {
		return renderNotFound(c, sectionMovements, "/movements")
	}
	log.Error().Err(err).Int64("movement_id", id).Msg("Failed to save movement")
	return h.renderForm(c, http.StatusBadGateway, id, input, nil, "Erro ao salvar movimentação.")
}

// bindMovementForm reads the movement form. A blank end date means the
// movement has no end.
func bindMovementForm(c echo.Context, input *domain.MovementInput) []error {
	var movementType, frequency string
	var endDate domain.Date
	errs := echo.FormFieldBinder(c).FailFast(false).
		String("type", &movementType).
		BindUnmarshaler("value", &input.Value).
		String("frequency", &frequency).
		BindUnmarshaler("startDate", &input.StartDate).
		BindUnmarshaler("endDate", &endDate).
		Int64("simulationId", &input.SimulationID).
		BindErrors()
	input.Type = domain.MovementType(movementType)
	input.Frequency = domain.MovementFrequency(frequency)
	if !endDate.IsZero() {
		input.EndDate = &endDate
	}
	return errs
}
