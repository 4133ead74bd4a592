package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/dentalclinic/internal/adapters/memory"
	"github.com/zatekoja/dentalclinic/internal/adapters/seed"
	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/providers"
	"github.com/zatekoja/dentalclinic/internal/domain/repositories"
)

// Mocks

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.AppointmentEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.AppointmentEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.AppointmentEvent), args.Error(1)
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockEventBus) Close() error {
	return nil
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appointment *entities.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) List(ctx context.Context, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateStatus(ctx context.Context, id string, expected, next entities.AppointmentStatus) (*entities.Appointment, error) {
	args := m.Called(ctx, id, expected, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockWalkInRepository struct {
	mock.Mock
}

func (m *MockWalkInRepository) Create(ctx context.Context, entry *entities.WalkInEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWalkInRepository) ListByStatus(ctx context.Context, status entities.WalkInStatus) ([]*entities.WalkInEntry, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WalkInEntry), args.Error(1)
}

func (m *MockWalkInRepository) UpdateStatus(ctx context.Context, id string, status entities.WalkInStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// Fixtures

type clinic struct {
	appointments *memory.AppointmentStore
	records      *memory.RecordStore
	walkIns      *memory.WalkInStore
	users        *memory.UserStore
	catalog      *memory.ServiceCatalog
	gate         *services.AccessGate
	machine      *services.StatusMachine
	booking      *services.AppointmentService
	recordsSvc   *services.RecordService
	dashboard    *services.DashboardService
}

func newClinic(bus *MockEventBus) *clinic {
	c := &clinic{
		appointments: memory.NewAppointmentStore(),
		records:      memory.NewRecordStore(),
		walkIns:      memory.NewWalkInStore(),
		users:        memory.NewUserStore(seed.Users()...),
		catalog:      memory.NewServiceCatalog(seed.Services()...),
		gate:         services.NewAccessGate(),
	}
	var eventBus providers.EventBus
	if bus != nil {
		eventBus = bus
	}
	c.machine = services.NewStatusMachine(c.appointments, c.gate, eventBus, nil)
	c.booking = services.NewAppointmentService(c.appointments, c.users, c.catalog, c.machine, c.gate, eventBus)
	c.recordsSvc = services.NewRecordService(c.records, c.appointments, c.users, c.gate)
	c.dashboard = services.NewDashboardService(c.appointments, c.records, c.gate)
	return c
}

func mustUser(c *clinic, id string) *entities.User {
	u, err := c.users.GetByID(context.Background(), id)
	if err != nil {
		panic(err)
	}
	return u
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format(entities.DateLayout)
}
