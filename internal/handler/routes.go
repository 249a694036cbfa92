package handler

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups every page and API handler
type Handlers struct {
	Home       *HomeHandler
	Simulation *SimulationHandler
	Allocation *AllocationHandler
	Insurance  *InsuranceHandler
	Movement   *MovementHandler
	Dashboard  *DashboardHandler
	WebSocket  *WebSocketHandler
}

// RegisterRoutes sets up all page and API routes
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/", h.Home.Home)
	e.POST("/theme", h.Home.ToggleTheme)

	// Projection dashboard
	e.GET("/projection", h.Dashboard.Projection)
	e.GET("/api/dashboard/:id", h.Dashboard.GetDashboard)

	// Live invalidation events
	e.GET("/ws", h.WebSocket.HandleWS)

	// Simulation routes
	simulations := e.Group("/simulations")
	simulations.GET("", h.Simulation.List)
	simulations.POST("", h.Simulation.Create)
	simulations.GET("/new", h.Simulation.New)
	simulations.GET("/:id", h.Simulation.Show)
	simulations.GET("/:id/edit", h.Simulation.Edit)
	simulations.POST("/:id/edit", h.Simulation.Update)
	simulations.GET("/:id/delete", h.Simulation.ConfirmDelete)
	simulations.POST("/:id/delete", h.Simulation.Delete)
	simulations.POST("/:id/versions", h.Simulation.CreateVersion)

	// Allocation routes
	allocations := e.Group("/allocations")
	allocations.GET("", h.Allocation.List)
	allocations.POST("", h.Allocation.Create)
	allocations.GET("/new", h.Allocation.New)
	allocations.GET("/:id", h.Allocation.Show)
	allocations.GET("/:id/edit", h.Allocation.Edit)
	allocations.POST("/:id/edit", h.Allocation.Update)
	allocations.GET("/:id/delete", h.Allocation.ConfirmDelete)
	allocations.POST("/:id/delete", h.Allocation.Delete)

	// Insurance routes
	insurances := e.Group("/insurances")
	insurances.GET("", h.Insurance.List)
	insurances.POST("", h.Insurance.Create)
	insurances.GET("/new", h.Insurance.New)
	insurances.GET("/:id", h.Insurance.Show)
	insurances.GET("/:id/edit", h.Insurance.Edit)
	insurances.POST("/:id/edit", h.Insurance.Update)
	insurances.GET("/:id/delete", h.Insurance.ConfirmDelete)
	insurances.POST("/:id/delete", h.Insurance.Delete)

	// Movement routes
	movements := e.Group("/movements")
	movements.GET("", h.Movement.List)
	movements.POST("", h.Movement.Create)
	movements.GET("/new", h.Movement.New)
	movements.GET("/:id", h.Movement.Show)
	movements.GET("/:id/edit", h.Movement.Edit)
	movements.POST("/:id/edit", h.Movement.Update)
	movements.GET("/:id/delete", h.Movement.ConfirmDelete)
	movements.POST("/:id/delete", h.Movement.Delete)
}
