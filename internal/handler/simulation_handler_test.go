package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimulationHandler() (*SimulationHandler, *testutil.MockSimulationRepository) {
	repo := testutil.NewMockSimulationRepository()
	repo.AddSimulation(&domain.Simulation{
		ID:        1,
		Name:      "Plano Base",
		StartDate: domain.NewDate(2025, time.January, 1),
		Rate:      domain.MustAmount("0.04"),
		Status:    domain.SimulationStatusAlive,
		Allocations: []domain.Allocation{
			{ID: 3, Name: "Apartamento", Type: domain.AllocationType("IMOBILIZADA"), Value: domain.NewAmount(500000), SimulationID: 1},
		},
	})
	return NewSimulationHandler(newSimulationService(repo)), repo
}

func TestSimulationHandler_List(t *testing.T) {
	e := newTestEcho(t)
	h, _ := newSimulationHandler()

	c, rec := getRequest(e, "/simulations")
	require.NoError(t, h.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Plano Base")
	assert.Contains(t, rec.Body.String(), `href="/simulations/1/delete"`)
}

func TestSimulationHandler_ListUpstreamFailure(t *testing.T) {
	e := newTestEcho(t)
	h, repo := newSimulationHandler()
	repo.ListFn = func(ctx context.Context) ([]domain.Simulation, error) {
		return nil, domain.ErrUpstream
	}

	c, rec := getRequest(e, "/simulations")
	require.NoError(t, h.List(c))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Erro ao carregar simulações.")
}

func TestSimulationHandler_Show(t *testing.T) {
	e := newTestEcho(t)
	h, _ := newSimulationHandler()

	c, rec := getRequest(e, "/simulations/1")
	require.NoError(t, h.Show(withID(c, "1")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Apartamento")
}

func TestSimulationHandler_ShowNotFound(t *testing.T) {
	e := newTestEcho(t)
	h, _ := newSimulationHandler()

	for _, id := range []string{"42", "abc", "-1"} {
		c, rec := getRequest(e, "/simulations/"+id)
		require.NoError(t, h.Show(withID(c, id)))

		assert.Equal(t, http.StatusNotFound, rec.Code, id)
		assert.Contains(t, rec.Body.String(), "Registro não encontrado.", id)
	}
}

func TestSimulationHandler_VersionsTab(t *testing.T) {
	e := newTestEcho(t)
	h, repo := newSimulationHandler()

	c, rec := getRequest(e, "/simulations/1?tab=versoes")
	require.NoError(t, h.Show(withID(c, "1")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nenhuma versão encontrada ainda.")
	assert.Equal(t, 1, repo.CallCount("GetVersions"))
}

func TestSimulationHandler_Create(t *testing.T) {
	e := newTestEcho(t)
	h, repo := newSimulationHandler()

	c, rec := postForm(e, "/simulations", url.Values{
		"name":      {"Aposentadoria"},
		"startDate": {"2025-03-01"},
		"rate":      {"0,05"},
		"status":    {"VIVO"},
	})
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/simulations", rec.Header().Get("Location"))

	created, ok := repo.Simulations[2]
	require.True(t, ok)
	assert.Equal(t, "Aposentadoria", created.Name)
	assert.Equal(t, "0.05", created.Rate.String())
}

func TestSimulationHandler_CreateInvalid(t *testing.T) {
	e := newTestEcho(t)
	h, repo := newSimulationHandler()

	c, rec := postForm(e, "/simulations", url.Values{
		"name":      {"ab"},
		"startDate": {"2025-03-01"},
		"rate":      {"abc"},
		"status":    {"VIVO"},
	})
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Nome deve ter no mínimo 3 caracteres")
	assert.Contains(t, body, "Taxa deve ser um número válido")
	assert.Equal(t, 0, repo.CallCount("Create"))
}

func TestSimulationHandler_DeleteRequiresConfirmation(t *testing.T) {
	e := newTestEcho(t)
	h, repo := newSimulationHandler()

	c, rec := getRequest(e, "/simulations/1/delete")
	require.NoError(t, h.ConfirmDelete(withID(c, "1")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/simulations/1/delete"`)

	c, rec = postForm(e, "/simulations/1/delete", url.Values{"confirm": {"no"}})
	require.NoError(t, h.Delete(withID(c, "1")))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, repo.CallCount("Delete"))

	c, rec = postForm(e, "/simulations/1/delete", url.Values{"confirm": {"yes"}})
	require.NoError(t, h.Delete(withID(c, "1")))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, repo.CallCount("Delete"))
	assert.NotContains(t, repo.Simulations, int64(1))
}

func TestSimulationHandler_CreateVersion(t *testing.T) {
	e := newTestEcho(t)
	h, repo := newSimulationHandler()

	c, rec := postForm(e, "/simulations/1/versions", url.Values{"name": {"Revisão"}, "rate": {"0.04"}})
	require.NoError(t, h.CreateVersion(withID(c, "1")))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/simulations/1?tab=versoes", rec.Header().Get("Location"))
	assert.Len(t, repo.Versions[1], 1)
}

func TestSimulationHandler_CreateVersionInvalid(t *testing.T) {
	e := newTestEcho(t)
	h, repo := newSimulationHandler()

	c, rec := postForm(e, "/simulations/1/versions", url.Values{"name": {""}, "rate": {"0.04"}})
	require.NoError(t, h.CreateVersion(withID(c, "1")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nome é obrigatório")
	assert.Equal(t, 0, repo.CallCount("CreateVersion"))
}
