package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/service"
	"github.com/dafibh/planner/planner-web/internal/testutil"
	"github.com/dafibh/planner/planner-web/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pickerService() *service.SimulationService {
	repo := testutil.NewMockSimulationRepository()
	repo.AddSimulation(&domain.Simulation{ID: 1, Name: "Plano Base", Status: domain.SimulationStatusAlive})
	return newSimulationService(repo)
}

func allocationForm() url.Values {
	return url.Values{
		"name":         {"Apartamento"},
		"type":         {"IMOBILIZADA"},
		"value":        {"500.000,00"},
		"date":         {"2025-06-01"},
		"simulationId": {"1"},
	}
}

func TestAllocationHandler_CreateWithoutFinancing(t *testing.T) {
	e := newTestEcho(t)
	repo := testutil.NewMockAllocationRepository()
	h := NewAllocationHandler(service.NewAllocationService(repo, validation.New()), pickerService())

	form := allocationForm()
	// stale values from a hidden financing section
	form.Set("installments", "120")
	form.Set("interestRate", "0.01")
	c, rec := postForm(e, "/allocations", form)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/allocations", rec.Header().Get("Location"))
	require.NotNil(t, repo.LastInput)
	assert.Nil(t, repo.LastInput.Financing)
	assert.Equal(t, "500000", repo.LastInput.Value.String())
	assert.False(t, repo.Allocations[1].HasFinancing)
}

func TestAllocationHandler_CreateWithFinancing(t *testing.T) {
	e := newTestEcho(t)
	repo := testutil.NewMockAllocationRepository()
	h := NewAllocationHandler(service.NewAllocationService(repo, validation.New()), pickerService())

	form := allocationForm()
	form.Set("hasFinancing", "true")
	form.Set("startDate", "2025-07-01")
	form.Set("installments", "120")
	form.Set("interestRate", "0,01")
	form.Set("downPayment", "100000")
	c, rec := postForm(e, "/allocations", form)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, repo.LastInput)
	require.NotNil(t, repo.LastInput.Financing)
	assert.Equal(t, 120, repo.LastInput.Financing.Installments)
	assert.Equal(t, "0.01", repo.LastInput.Financing.InterestRate.String())
	assert.True(t, repo.Allocations[1].HasFinancing)
}

func TestAllocationHandler_CreateInvalid(t *testing.T) {
	e := newTestEcho(t)
	repo := testutil.NewMockAllocationRepository()
	h := NewAllocationHandler(service.NewAllocationService(repo, validation.New()), pickerService())

	form := allocationForm()
	form.Set("name", "ab")
	form.Set("value", "0")
	c, rec := postForm(e, "/allocations", form)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Nome deve ter no mínimo 3 caracteres")
	assert.Contains(t, body, "Valor deve ser um número positivo")
	// the picker is still offered
	assert.Contains(t, body, "Plano Base")
	assert.Nil(t, repo.LastInput)
}

func TestAllocationHandler_ListUpstreamFailure(t *testing.T) {
	e := newTestEcho(t)
	repo := testutil.NewMockAllocationRepository()
	repo.ListFn = func(ctx context.Context) ([]domain.Allocation, error) {
		return nil, domain.ErrUpstream
	}
	h := NewAllocationHandler(service.NewAllocationService(repo, validation.New()), pickerService())

	c, rec := getRequest(e, "/allocations")
	require.NoError(t, h.List(c))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Erro ao carregar alocações.")
}

func TestAllocationHandler_Delete(t *testing.T) {
	e := newTestEcho(t)
	repo := testutil.NewMockAllocationRepository()
	repo.Allocations[7] = &domain.Allocation{ID: 7, Name: "Carro", Type: domain.AllocationType("IMOBILIZADA"), Value: domain.NewAmount(80000), SimulationID: 1}
	h := NewAllocationHandler(service.NewAllocationService(repo, validation.New()), pickerService())

	c, rec := postForm(e, "/allocations/7/delete", url.Values{"confirm": {"no"}})
	require.NoError(t, h.Delete(withID(c, "7")))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, repo.Deleted)

	c, rec = postForm(e, "/allocations/7/delete", url.Values{"confirm": {"yes"}})
	require.NoError(t, h.Delete(withID(c, "7")))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []int64{7}, repo.Deleted)

	c, rec = getRequest(e, "/allocations")
	require.NoError(t, h.List(c))
	assert.NotContains(t, rec.Body.String(), `href="/allocations/7"`)
}

func TestAllocationHandler_EditSeedsForm(t *testing.T) {
	e := newTestEcho(t)
	repo := testutil.NewMockAllocationRepository()
	repo.Allocations[7] = &domain.Allocation{
		ID: 7, Name: "Carro", Type: domain.AllocationType("IMOBILIZADA"), Value: domain.NewAmount(80000),
		Date: domain.NewDate(2025, time.February, 10), SimulationID: 1,
	}
	h := NewAllocationHandler(service.NewAllocationService(repo, validation.New()), pickerService())

	c, rec := getRequest(e, "/allocations/7/edit")
	require.NoError(t, h.Edit(withID(c, "7")))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="Carro"`)
	assert.Contains(t, body, `value="2025-02-10"`)
	assert.Contains(t, body, `action="/allocations/7/edit"`)
}

func TestInsuranceHandler_ShowNotFound(t *testing.T) {
	e := newTestEcho(t)
	repo := testutil.NewMockInsuranceRepository()
	h := NewInsuranceHandler(service.NewInsuranceService(repo, validation.New()), pickerService())

	c, rec := getRequest(e, "/insurances/9")
	require.NoError(t, h.Show(withID(c, "9")))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Registro não encontrado.")
}

func TestInsuranceHandler_CreateBindingError(t *testing.T) {
	e := newTestEcho(t)
	repo := testutil.NewMockInsuranceRepository()
	h := NewInsuranceHandler(service.NewInsuranceService(repo, validation.New()), pickerService())

	c, rec := postForm(e, "/insurances", url.Values{
		"name":         {"Seguro de vida"},
		"startDate":    {"2025-01-01"},
		"duration":     {"abc"},
		"premium":      {"150"},
		"insuredValue": {"300000"},
		"simulationId": {"1"},
	})
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Duração deve ser um número inteiro positivo")
	assert.Nil(t, repo.LastInput)
}

func TestInsuranceHandler_Create(t *testing.T) {
	e := newTestEcho(t)
	repo := testutil.NewMockInsuranceRepository()
	h := NewInsuranceHandler(service.NewInsuranceService(repo, validation.New()), pickerService())

	c, rec := postForm(e, "/insurances", url.Values{
		"name":         {"Seguro de vida"},
		"startDate":    {"2025-01-01"},
		"duration":     {"24"},
		"premium":      {"150"},
		"insuredValue": {"300000"},
		"simulationId": {"1"},
	})
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/insurances", rec.Header().Get("Location"))
	require.NotNil(t, repo.LastInput)
	assert.Equal(t, 24, repo.LastInput.Duration)
}

func TestMovementHandler_CreateOptionalEndDate(t *testing.T) {
	e := newTestEcho(t)
	repo := testutil.NewMockMovementRepository()
	h := NewMovementHandler(service.NewMovementService(repo, validation.New()), pickerService())

	form := url.Values{
		"type":         {"ENTRADA"},
		"value":        {"5000"},
		"frequency":    {"MENSAL"},
		"startDate":    {"2025-01-01"},
		"endDate":      {""},
		"simulationId": {"1"},
	}
	c, rec := postForm(e, "/movements", form)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, repo.LastInput)
	assert.Nil(t, repo.LastInput.EndDate)

	form.Set("endDate", "2030-12-31")
	c, rec = postForm(e, "/movements", form)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, repo.LastInput.EndDate)
	assert.Equal(t, "2030-12-31", repo.LastInput.EndDate.String())
}

func TestMovementHandler_CreateInvalidType(t *testing.T) {
	e := newTestEcho(t)
	repo := testutil.NewMockMovementRepository()
	h := NewMovementHandler(service.NewMovementService(repo, validation.New()), pickerService())

	c, rec := postForm(e, "/movements", url.Values{
		"type":         {"OUTRO"},
		"value":        {"5000"},
		"frequency":    {"MENSAL"},
		"startDate":    {"2025-01-01"},
		"simulationId": {"0"},
	})
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Tipo inválido")
	assert.Contains(t, body, "ID da simulação é obrigatório")
	assert.Nil(t, repo.LastInput)
}
