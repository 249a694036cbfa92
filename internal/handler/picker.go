package handler

import (
	"github.com/dafibh/planner/planner-web/internal/service"
	"github.com/dafibh/planner/planner-web/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const simulationIDField = "simulationId"

// loadPicker fills the simulation dropdown. When the list cannot be loaded the
// form still renders with the current id as the only option.
func loadPicker(c echo.Context, simulationService *service.SimulationService, selected int64, verrs validation.Errors) simulationPicker {
	picker := simulationPicker{
		Selected: selected,
		Error:    verrs.Get(simulationIDField),
	}

	simulations, err := simulationService.GetSimulations(c.Request().Context())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load simulations for picker")
		return picker
	}
	picker.Simulations = simulations
	return picker
}
