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

const (
	versionsTab = "versoes"

	simulationDeleteMessage = "Tem certeza que deseja excluir esta simulação? Todas as suas dependências (alocações, seguros, etc) também serão excluídas."
)

// SimulationHandler handles simulation pages
type SimulationHandler struct {
	simulationService *service.SimulationService
}

// NewSimulationHandler creates a new SimulationHandler
func NewSimulationHandler(simulationService *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{
		simulationService: simulationService,
	}
}

type simulationDetailView struct {
	Simulation      *domain.Simulation
	Tab             string
	Versions        []domain.SimulationVersion
	VersionsFailure string
	VersionForm     domain.VersionInput
	VersionErrors   validation.Errors
	VersionFailure  string
}

// List handles GET /simulations
func (h *SimulationHandler) List(c echo.Context) error {
	simulations, err := h.simulationService.GetSimulations(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get simulations")
		return render(c, http.StatusBadGateway, "simulations/list", "Simulações", sectionSimulations, listView{Failure: "Erro ao carregar simulações."})
	}
	return render(c, http.StatusOK, "simulations/list", "Simulações", sectionSimulations, listView{Items: simulations})
}

// Show handles GET /simulations/:id. The versions tab is selected with ?tab=versoes.
func (h *SimulationHandler) Show(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionSimulations, "/simulations")
	}

	ctx := c.Request().Context()
	simulation, err := h.simulationService.GetSimulation(ctx, id)
	if err != nil {
		return renderLoadError(c, err, sectionSimulations, "Erro ao carregar simulação.", "/simulations")
	}

	data := simulationDetailView{
		Simulation:  simulation,
		Tab:         c.QueryParam("tab"),
		VersionForm: h.simulationService.NewVersionForm(),
	}
	if data.Tab == versionsTab {
		h.loadVersions(c, &data)
	}
	return render(c, http.StatusOK, "simulations/detail", "Simulação: "+simulation.Name, sectionSimulations, data)
}

func (h *SimulationHandler) loadVersions(c echo.Context, data *simulationDetailView) {
	versions, err := h.simulationService.GetVersions(c.Request().Context(), data.Simulation.ID)
	if err != nil {
		log.Error().Err(err).Int64("simulation_id", data.Simulation.ID).Msg("Failed to get simulation versions")
		data.VersionsFailure = "Erro ao carregar versões."
		return
	}
	data.Versions = versions
}

// New handles GET /simulations/new
func (h *SimulationHandler) New(c echo.Context) error {
	return h.renderForm(c, http.StatusOK, 0, h.simulationService.NewForm(), nil, "")
}

// Create handles POST /simulations
func (h *SimulationHandler) Create(c echo.Context) error {
	var input domain.SimulationInput
	if verrs := formErrors(c, &input, bindSimulationForm(c, &input)); len(verrs) > 0 {
		return h.renderForm(c, http.StatusUnprocessableEntity, 0, input, verrs, "")
	}

	simulation, err := h.simulationService.CreateSimulation(c.Request().Context(), &input)
	if err != nil {
		return h.renderSaveError(c, 0, input, err)
	}

	log.Info().Int64("simulation_id", simulation.ID).Str("name", simulation.Name).Msg("Simulation created")
	return redirect(c, "/simulations")
}

// Edit handles GET /simulations/:id/edit
func (h *SimulationHandler) Edit(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionSimulations, "/simulations")
	}

	input, err := h.simulationService.EditForm(c.Request().Context(), id)
	if err != nil {
		return renderLoadError(c, err, sectionSimulations, "Erro ao carregar simulação.", "/simulations")
	}
	return h.renderForm(c, http.StatusOK, id, input, nil, "")
}

// Update handles POST /simulations/:id/edit
func (h *SimulationHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionSimulations, "/simulations")
	}

	var input domain.SimulationInput
	if verrs := formErrors(c, &input, bindSimulationForm(c, &input)); len(verrs) > 0 {
		return h.renderForm(c, http.StatusUnprocessableEntity, id, input, verrs, "")
	}

	if _, err := h.simulationService.UpdateSimulation(c.Request().Context(), id, &input); err != nil {
		return h.renderSaveError(c, id, input, err)
	}

	log.Info().Int64("simulation_id", id).Msg("Simulation updated")
	return redirect(c, "/simulations")
}

// ConfirmDelete handles GET /simulations/:id/delete
func (h *SimulationHandler) ConfirmDelete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionSimulations, "/simulations")
	}
	return render(c, http.StatusOK, "confirm_delete", "Excluir simulação", sectionSimulations, confirmView{
		Message: simulationDeleteMessage,
		Action:  fmt.Sprintf("/simulations/%d/delete", id),
	})
}

// Delete handles POST /simulations/:id/delete. Nothing is deleted unless confirm=yes.
func (h *SimulationHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionSimulations, "/simulations")
	}
	if c.FormValue("confirm") != confirmYes {
		return redirect(c, "/simulations")
	}

	if err := h.simulationService.DeleteSimulation(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return renderNotFound(c, sectionSimulations, "/simulations")
		}
		log.Error().Err(err).Int64("simulation_id", id).Msg("Failed to delete simulation")
		return render(c, http.StatusBadGateway, "confirm_delete", "Excluir simulação", sectionSimulations, confirmView{
			Message: simulationDeleteMessage,
			Action:  fmt.Sprintf("/simulations/%d/delete", id),
			Failure: "Erro ao excluir simulação.",
		})
	}

	log.Info().Int64("simulation_id", id).Msg("Simulation deleted")
	return redirect(c, "/simulations")
}

// CreateVersion handles POST /simulations/:id/versions
func (h *SimulationHandler) CreateVersion(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return renderNotFound(c, sectionSimulations, "/simulations")
	}

	ctx := c.Request().Context()
	var input domain.VersionInput
	bindErrs := echo.FormFieldBinder(c).FailFast(false).
		String("name", &input.Name).
		BindUnmarshaler("rate", &input.Rate).
		BindErrors()

	verrs := formErrors(c, &input, bindErrs)
	var saveErr error
	if len(verrs) == 0 {
		var version *domain.SimulationVersion
		version, saveErr = h.simulationService.CreateVersion(ctx, id, &input)
		if saveErr == nil {
			log.Info().Int64("simulation_id", id).Int64("version_id", version.ID).Int("version", version.Version).Msg("Simulation version created")
			return redirect(c, fmt.Sprintf("/simulations/%d?tab=%s", id, versionsTab))
		}
		if schemaErrs, ok := validation.AsErrors(saveErr); ok {
			verrs = schemaErrs
		}
	}

	simulation, err := h.simulationService.GetSimulation(ctx, id)
	if err != nil {
		return renderLoadError(c, err, sectionSimulations, "Erro ao carregar simulação.", "/simulations")
	}

	data := simulationDetailView{
		Simulation:    simulation,
		Tab:           versionsTab,
		VersionForm:   input,
		VersionErrors: verrs,
	}
	h.loadVersions(c, &data)

	status := http.StatusUnprocessableEntity
	if len(verrs) == 0 {
		log.Error().Err(saveErr).Int64("simulation_id", id).Msg("Failed to create simulation version")
		status = http.StatusBadGateway
		data.VersionFailure = "Erro ao criar versão."
	}
	return render(c, status, "simulations/detail", "Simulação: "+simulation.Name, sectionSimulations, data)
}

func (h *SimulationHandler) renderForm(c echo.Context, status int, id int64, input domain.SimulationInput, verrs validation.Errors, failure string) error {
	data := formView{
		Action:  "/simulations",
		Editing: id > 0,
		Input:   input,
		Errors:  verrs,
		Failure: failure,
	}
	title := "Nova Simulação"
	if data.Editing {
		data.Action = fmt.Sprintf("/simulations/%d/edit", id)
		title = "Editar Simulação"
	}
	return render(c, status, "simulations/form", title, sectionSimulations, data)
}

func (h *SimulationHandler) renderSaveError(c echo.Context, id int64, input domain.SimulationInput, err error) error {
	if verrs, ok := validation.AsErrors(err); ok {
		return h.renderForm(c, http.StatusUnprocessableEntity, id, input, verrs, "")
	}
	if errors.Is(err, domain.ErrNotFound) {
		return renderNotFound(c, sectionSimulations, "/simulations")
	}
	log.Error().Err(err).Int64("simulation_id", id).Msg("Failed to save simulation")
	return h.renderForm(c, http.StatusBadGateway, id, input, nil, "Erro ao salvar simulação.")
}

func bindSimulationForm(c echo.Context, input *domain.SimulationInput) []error {
	var status string
	errs := echo.FormFieldBinder(c).FailFast(false).
		String("name", &input.Name).
		BindUnmarshaler("startDate", &input.StartDate).
		BindUnmarshaler("rate", &input.Rate).
		String("status", &status).
		BindErrors()
	input.Status = domain.SimulationStatus(status)
	return errs
}
