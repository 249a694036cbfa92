package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/dafibh/planner/planner-web/internal/domain"
	"github.com/dafibh/planner/planner-web/internal/websocket"
)

// MockSimulationRepository is a mock implementation of domain.SimulationRepository.
// It is safe for the concurrent reads the dashboard performs.
type MockSimulationRepository struct {
	mu sync.Mutex

	Simulations map[int64]*domain.Simulation
	Projections map[int64][]domain.ProjectionPoint
	Timelines   map[int64][]domain.TimelineEvent
	Versions    map[int64][]domain.SimulationVersion
	NextID      int64
	Calls       []string

	ListFn          func(ctx context.Context) ([]domain.Simulation, error)
	GetByIDFn       func(ctx context.Context, id int64) (*domain.Simulation, error)
	CreateFn        func(ctx context.Context, input *domain.SimulationInput) (*domain.Simulation, error)
	UpdateFn        func(ctx context.Context, id int64, input *domain.SimulationInput) (*domain.Simulation, error)
	DeleteFn        func(ctx context.Context, id int64) error
	GetProjectionFn func(ctx context.Context, id int64) ([]domain.ProjectionPoint, error)
	GetTimelineFn   func(ctx context.Context, id int64) ([]domain.TimelineEvent, error)
}

// NewMockSimulationRepository creates a new MockSimulationRepository
func NewMockSimulationRepository() *MockSimulationRepository {
	return &MockSimulationRepository{
		Simulations: make(map[int64]*domain.Simulation),
		Projections: make(map[int64][]domain.ProjectionPoint),
		Timelines:   make(map[int64][]domain.TimelineEvent),
		Versions:    make(map[int64][]domain.SimulationVersion),
		NextID:      1,
	}
}

// AddSimulation stores a simulation and moves NextID past it
func (m *MockSimulationRepository) AddSimulation(s *domain.Simulation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Simulations[s.ID] = s
	if s.ID >= m.NextID {
		m.NextID = s.ID + 1
	}
}

func (m *MockSimulationRepository) record(call string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	m.mu.Unlock()
}

// CallCount returns how many times call was made
func (m *MockSimulationRepository) CallCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *MockSimulationRepository) List(ctx context.Context) ([]domain.Simulation, error) {
	m.record("List")
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	simulations := make([]domain.Simulation, 0, len(m.Simulations))
	for _, s := range m.Simulations {
		simulations = append(simulations, *s)
	}
	sort.Slice(simulations, func(i, j int) bool { return simulations[i].ID < simulations[j].ID })
	return simulations, nil
}

func (m *MockSimulationRepository) GetByID(ctx context.Context, id int64) (*domain.Simulation, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Simulations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *MockSimulationRepository) Create(ctx context.Context, input *domain.SimulationInput) (*domain.Simulation, error) {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, input)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &domain.Simulation{
		ID:        m.NextID,
		Name:      input.Name,
		StartDate: input.StartDate,
		Rate:      input.Rate,
		Status:    input.Status,
	}
	m.NextID++
	m.Simulations[s.ID] = s
	return s, nil
}

func (m *MockSimulationRepository) Update(ctx context.Context, id int64, input *domain.SimulationInput) (*domain.Simulation, error) {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, input)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Simulations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.Name = input.Name
	s.StartDate = input.StartDate
	s.Rate = input.Rate
	s.Status = input.Status
	return s, nil
}

func (m *MockSimulationRepository) Delete(ctx context.Context, id int64) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Simulations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Simulations, id)
	return nil
}

func (m *MockSimulationRepository) GetProjection(ctx context.Context, id int64) ([]domain.ProjectionPoint, error) {
	m.record("GetProjection")
	if m.GetProjectionFn != nil {
		return m.GetProjectionFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Projections[id], nil
}

func (m *MockSimulationRepository) GetTimeline(ctx context.Context, id int64) ([]domain.TimelineEvent, error) {
	m.record("GetTimeline")
	if m.GetTimelineFn != nil {
		return m.GetTimelineFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Timelines[id], nil
}

func (m *MockSimulationRepository) GetVersions(ctx context.Context, id int64) ([]domain.SimulationVersion, error) {
	m.record("GetVersions")
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Versions[id], nil
}

func (m *MockSimulationRepository) CreateVersion(ctx context.Context, id int64, input *domain.VersionInput) (*domain.SimulationVersion, error) {
	m.record("CreateVersion")
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Simulations[id]; !ok {
		return nil, domain.ErrNotFound
	}
	version := domain.SimulationVersion{
		ID:           int64(len(m.Versions[id]) + 100),
		SimulationID: id,
		Version:      len(m.Versions[id]) + 1,
	}
	m.Versions[id] = append([]domain.SimulationVersion{version}, m.Versions[id]...)
	return &version, nil
}

// MockAllocationRepository is a mock implementation of domain.AllocationRepository
type MockAllocationRepository struct {
	Allocations map[int64]*domain.Allocation
	NextID      int64
	LastInput   *domain.AllocationInput
	Deleted     []int64

	CreateFn func(ctx context.Context, input *domain.AllocationInput) (*domain.Allocation, error)
	ListFn   func(ctx context.Context) ([]domain.Allocation, error)
}

// NewMockAllocationRepository creates a new MockAllocationRepository
func NewMockAllocationRepository() *MockAllocationRepository {
	return &MockAllocationRepository{
		Allocations: make(map[int64]*domain.Allocation),
		NextID:      1,
	}
}

func (m *MockAllocationRepository) List(ctx context.Context) ([]domain.Allocation, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	allocations := make([]domain.Allocation, 0, len(m.Allocations))
	for _, a := range m.Allocations {
		allocations = append(allocations, *a)
	}
	sort.Slice(allocations, func(i, j int) bool { return allocations[i].ID < allocations[j].ID })
	return allocations, nil
}

func (m *MockAllocationRepository) GetByID(ctx context.Context, id int64) (*domain.Allocation, error) {
	a, ok := m.Allocations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *MockAllocationRepository) Create(ctx context.Context, input *domain.AllocationInput) (*domain.Allocation, error) {
	m.LastInput = input
	if m.CreateFn != nil {
		return m.CreateFn(ctx, input)
	}
	a := allocationFromInput(m.NextID, input)
	m.NextID++
	m.Allocations[a.ID] = a
	return a, nil
}

func (m *MockAllocationRepository) Update(ctx context.Context, id int64, input *domain.AllocationInput) (*domain.Allocation, error) {
	m.LastInput = input
	if _, ok := m.Allocations[id]; !ok {
		return nil, domain.ErrNotFound
	}
	a := allocationFromInput(id, input)
	m.Allocations[id] = a
	return a, nil
}

func (m *MockAllocationRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Allocations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Allocations, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

func allocationFromInput(id int64, input *domain.AllocationInput) *domain.Allocation {
	a := &domain.Allocation{
		ID:           id,
		Name:         input.Name,
		Type:         input.Type,
		Value:        input.Value,
		Date:         input.Date,
		SimulationID: input.SimulationID,
	}
	if input.Financing != nil {
		a.HasFinancing = true
		a.StartDate = input.Financing.StartDate
		a.Installments = input.Financing.Installments
		a.InterestRate = input.Financing.InterestRate
		a.DownPayment = input.Financing.DownPayment
	}
	return a
}

// MockInsuranceRepository is a mock implementation of domain.InsuranceRepository
type MockInsuranceRepository struct {
	Insurances map[int64]*domain.Insurance
	NextID     int64
	LastInput  *domain.InsuranceInput
	Deleted    []int64
}

// NewMockInsuranceRepository creates a new MockInsuranceRepository
func NewMockInsuranceRepository() *MockInsuranceRepository {
	return &MockInsuranceRepository{
		Insurances: make(map[int64]*domain.Insurance),
		NextID:     1,
	}
}

func (m *MockInsuranceRepository) List(ctx context.Context) ([]domain.Insurance, error) {
	insurances := make([]domain.Insurance, 0, len(m.Insurances))
	for _, i := range m.Insurances {
		insurances = append(insurances, *i)
	}
	sort.Slice(insurances, func(a, b int) bool { return insurances[a].ID < insurances[b].ID })
	return insurances, nil
}

func (m *MockInsuranceRepository) GetByID(ctx context.Context, id int64) (*domain.Insurance, error) {
	i, ok := m.Insurances[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *i
	return &copied, nil
}

func (m *MockInsuranceRepository) Create(ctx context.Context, input *domain.InsuranceInput) (*domain.Insurance, error) {
	m.LastInput = input
	i := insuranceFromInput(m.NextID, input)
	m.NextID++
	m.Insurances[i.ID] = i
	return i, nil
}

func (m *MockInsuranceRepository) Update(ctx context.Context, id int64, input *domain.InsuranceInput) (*domain.Insurance, error) {
	m.LastInput = input
	if _, ok := m.Insurances[id]; !ok {
		return nil, domain.ErrNotFound
	}
	i := insuranceFromInput(id, input)
	m.Insurances[id] = i
	return i, nil
}

func (m *MockInsuranceRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Insurances[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Insurances, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

func insuranceFromInput(id int64, input *domain.InsuranceInput) *domain.Insurance {
	return &domain.Insurance{
		ID:           id,
		Name:         input.Name,
		StartDate:    input.StartDate,
		Duration:     input.Duration,
		Premium:      input.Premium,
		InsuredValue: input.InsuredValue,
		SimulationID: input.SimulationID,
	}
}

// MockMovementRepository is a mock implementation of domain.MovementRepository
type MockMovementRepository struct {
	Movements map[int64]*domain.Movement
	NextID    int64
	LastInput *domain.MovementInput
	Deleted   []int64
}

// NewMockMovementRepository creates a new MockMovementRepository
func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{
		Movements: make(map[int64]*domain.Movement),
		NextID:    1,
	}
}

func (m *MockMovementRepository) List(ctx context.Context) ([]domain.Movement, error) {
	movements := make([]domain.Movement, 0, len(m.Movements))
	for _, mv := range m.Movements {
		movements = append(movements, *mv)
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].ID < movements[j].ID })
	return movements, nil
}

func (m *MockMovementRepository) GetByID(ctx context.Context, id int64) (*domain.Movement, error) {
	mv, ok := m.Movements[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *mv
	return &copied, nil
}

func (m *MockMovementRepository) Create(ctx context.Context, input *domain.MovementInput) (*domain.Movement, error) {
	m.LastInput = input
	mv := movementFromInput(m.NextID, input)
	m.NextID++
	m.Movements[mv.ID] = mv
	return mv, nil
}

func (m *MockMovementRepository) Update(ctx context.Context, id int64, input *domain.MovementInput) (*domain.Movement, error) {
	m.LastInput = input
	if _, ok := m.Movements[id]; !ok {
		return nil, domain.ErrNotFound
	}
	mv := movementFromInput(id, input)
	m.Movements[id] = mv
	return mv, nil
}

func (m *MockMovementRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Movements[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Movements, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

func movementFromInput(id int64, input *domain.MovementInput) *domain.Movement {
	mv := &domain.Movement{
		ID:           id,
		Type:         input.Type,
		Value:        input.Value,
		Frequency:    input.Frequency,
		StartDate:    input.StartDate,
		SimulationID: input.SimulationID,
	}
	if input.EndDate != nil {
		mv.EndDate = *input.EndDate
	}
	return mv
}

// PublishedEvent is an event captured by MockEventPublisher
type PublishedEvent struct {
	SimulationID int64
	Event        websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(simulationID int64, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{SimulationID: simulationID, Event: event})
}

// Types returns the type of every recorded event, in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.Event.Type)
	}
	return types
}
