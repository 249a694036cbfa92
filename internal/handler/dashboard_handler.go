package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/planner/planner-web/internal/chart"
	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	projectionTitle = "Projeção"
	loadFailure     = "Erro ao carregar os dados."
)

// DashboardHandler handles the projection dashboard
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

type projectionView struct {
	Options        []domain.Simulation
	OptionsFailure string
	Selected       int64
	Dashboard      *domain.Dashboard
	Failure        string
	Bars           chart.BarChart
	Lines          chart.LineChart
	Timeline       chart.ScatterChart
}

// Projection handles GET /projection?simulation=ID
func (h *DashboardHandler) Projection(c echo.Context) error {
	ctx := c.Request().Context()
	data := projectionView{
		Bars:     chart.AgeSnapshotBars(nil),
		Lines:    chart.ProjectionLines(nil),
		Timeline: chart.TimelineScatter(nil),
	}

	options, err := h.dashboardService.Options(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get simulations for picker")
		data.OptionsFailure = "Erro ao carregar simulações."
		return render(c, http.StatusBadGateway, "projection", projectionTitle, sectionProjection, data)
	}
	data.Options = options
	data.Selected = service.Resolve(options, c.QueryParam("simulation"))
	if data.Selected == 0 {
		return render(c, http.StatusOK, "projection", projectionTitle, sectionProjection, data)
	}

	dashboard, err := h.dashboardService.Load(ctx, data.Selected)
	if err != nil {
		log.Error().Err(err).Int64("simulation_id", data.Selected).Msg("Failed to load dashboard")
		data.Failure = loadFailure
		return render(c, http.StatusBadGateway, "projection", projectionTitle, sectionProjection, data)
	}

	data.Dashboard = dashboard
	data.Bars = chart.AgeSnapshotBars(dashboard.AgeSnapshots)
	data.Lines = chart.ProjectionLines(dashboard.Series)
	data.Timeline = chart.TimelineScatter(dashboard.Timeline)
	return render(c, http.StatusOK, "projection", projectionTitle, sectionProjection, data)
}

// GetDashboard handles GET /api/dashboard/:id
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return NewNotFoundError(c, "Simulation not found")
	}

	dashboard, err := h.dashboardService.Load(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NewNotFoundError(c, "Simulation not found")
		}
		log.Error().Err(err).Int64("simulation_id", id).Msg("Failed to load dashboard")
		return NewUpstreamError(c, "Failed to load dashboard")
	}

	return c.JSON(http.StatusOK, dashboard)
}
