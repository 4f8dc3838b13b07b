package service

import (
	"context"
	"sync"
	"time"

	"fixpoint/internal/domain"
)

// Mock implementations shared by the service tests.

type mockAppointmentRepo struct {
	byID      map[int64]*domain.Appointment
	active    []domain.Appointment
	listed    []domain.Appointment
	createErr error
	nextID    int64

	created           *domain.Appointment
	listActiveExclude *int64
	listActiveCalls   int

	confirmed []int64
	arrived   []int64
	noShows   []int64
	cancelled map[int64]string

	rescheduledID       int64
	rescheduledDate     time.Time
	rescheduledTime     string
	rescheduledDuration int

	convertedID   int64
	convertTicket *domain.Ticket
	convertItems  []domain.TicketLineItem
	convertResult int64
	convertErr    error

	confirmationSent chan int64
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{
		byID:      make(map[int64]*domain.Appointment),
		cancelled: make(map[int64]string),
		nextID:    1,
	}
}

func (m *mockAppointmentRepo) Create(ctx context.Context, appointment *domain.Appointment) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	id := m.nextID
	m.nextID++

	stored := *appointment
	stored.ID = id
	m.byID[id] = &stored
	m.created = &stored
	return id, nil
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockAppointmentRepo) GetByNumber(ctx context.Context, number string) (*domain.Appointment, error) {
	for _, a := range m.byID {
		if a.AppointmentNumber == number {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockAppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	return m.listed, nil
}

func (m *mockAppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	return len(m.listed), nil
}

func (m *mockAppointmentRepo) ListActiveByDate(ctx context.Context, date time.Time, excludeID *int64) ([]domain.Appointment, error) {
	m.listActiveCalls++
	m.listActiveExclude = excludeID

	var out []domain.Appointment
	for _, a := range m.active {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAppointmentRepo) Confirm(ctx context.Context, id int64, at time.Time) error {
	m.confirmed = append(m.confirmed, id)
	return nil
}

func (m *mockAppointmentRepo) MarkArrived(ctx context.Context, id int64, at time.Time) error {
	m.arrived = append(m.arrived, id)
	return nil
}

func (m *mockAppointmentRepo) MarkNoShow(ctx context.Context, id int64) error {
	m.noShows = append(m.noShows, id)
	return nil
}

func (m *mockAppointmentRepo) Cancel(ctx context.Context, id int64, reason string) error {
	m.cancelled[id] = reason
	return nil
}

func (m *mockAppointmentRepo) SetConfirmationSent(ctx context.Context, id int64, at time.Time) error {
	if m.confirmationSent != nil {
		m.confirmationSent <- id
	}
	return nil
}

func (m *mockAppointmentRepo) Reschedule(ctx context.Context, id int64, date time.Time, startTime string, durationMinutes int) error {
	m.rescheduledID = id
	m.rescheduledDate = date
	m.rescheduledTime = startTime
	m.rescheduledDuration = durationMinutes
	return nil
}

func (m *mockAppointmentRepo) Convert(ctx context.Context, appointmentID int64, ticket domain.Ticket, items []domain.TicketLineItem) (int64, error) {
	m.convertedID = appointmentID
	m.convertTicket = &ticket
	m.convertItems = items
	if m.convertErr != nil {
		return 0, m.convertErr
	}
	return m.convertResult, nil
}

type mockCalendarRepo struct {
	hours    []domain.BusinessHours
	specials map[string]domain.SpecialDate

	upsertedHours    []domain.BusinessHours
	upsertedSpecials []domain.SpecialDate
	deletedDates     []time.Time

	listHoursCalls    int
	getSpecialCalls   int
	listSpecialsCalls int
}

func newMockCalendarRepo() *mockCalendarRepo {
	return &mockCalendarRepo{specials: make(map[string]domain.SpecialDate)}
}

func (m *mockCalendarRepo) UpsertBusinessHours(ctx context.Context, hours domain.BusinessHours) error {
	m.upsertedHours = append(m.upsertedHours, hours)
	return nil
}

func (m *mockCalendarRepo) GetBusinessHours(ctx context.Context, dayOfWeek int) (*domain.BusinessHours, error) {
	for _, h := range m.hours {
		if h.DayOfWeek == dayOfWeek {
			return &h, nil
		}
	}
	return nil, nil
}

func (m *mockCalendarRepo) ListBusinessHours(ctx context.Context) ([]domain.BusinessHours, error) {
	m.listHoursCalls++
	return m.hours, nil
}

func (m *mockCalendarRepo) UpsertSpecialDate(ctx context.Context, special domain.SpecialDate) error {
	m.upsertedSpecials = append(m.upsertedSpecials, special)
	return nil
}

func (m *mockCalendarRepo) GetSpecialDate(ctx context.Context, date time.Time) (*domain.SpecialDate, error) {
	m.getSpecialCalls++
	if sp, ok := m.specials[date.Format("2006-01-02")]; ok {
		return &sp, nil
	}
	return nil, nil
}

func (m *mockCalendarRepo) ListSpecialDates(ctx context.Context, start, end time.Time) ([]domain.SpecialDate, error) {
	m.listSpecialsCalls++
	var out []domain.SpecialDate
	for _, sp := range m.specials {
		if !sp.Date.Before(start) && !sp.Date.After(end) {
			out = append(out, sp)
		}
	}
	return out, nil
}

func (m *mockCalendarRepo) DeleteSpecialDate(ctx context.Context, date time.Time) error {
	m.deletedDates = append(m.deletedDates, date)
	return nil
}

type mockSlotRepo struct {
	slots []domain.Slot
	byID  map[int64]*domain.Slot

	upserts   [][]domain.Slot
	upsertErr error

	reserveOK  bool
	reserveErr error
	reserved   []int64
	released   []int64
	toggled    map[int64]bool

	listCalls int
}

func newMockSlotRepo() *mockSlotRepo {
	return &mockSlotRepo{
		byID:      make(map[int64]*domain.Slot),
		toggled:   make(map[int64]bool),
		reserveOK: true,
	}
}

func (m *mockSlotRepo) BulkUpsert(ctx context.Context, slots []domain.Slot) (int, error) {
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	m.upserts = append(m.upserts, slots)
	return len(slots), nil
}

func (m *mockSlotRepo) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	if s, ok := m.byID[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockSlotRepo) List(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, error) {
	m.listCalls++

	var out []domain.Slot
	for _, s := range m.slots {
		if filter.StartDate != nil && s.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && s.Date.After(*filter.EndDate) {
			continue
		}
		if filter.OnlyAvailable && !s.IsAvailable {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSlotRepo) Reserve(ctx context.Context, slotID, appointmentID int64) (bool, error) {
	if m.reserveErr != nil {
		return false, m.reserveErr
	}
	if m.reserveOK {
		m.reserved = append(m.reserved, slotID)
	}
	return m.reserveOK, nil
}

func (m *mockSlotRepo) Release(ctx context.Context, slotID int64) error {
	m.released = append(m.released, slotID)
	return nil
}

func (m *mockSlotRepo) SetAvailability(ctx context.Context, slotID int64, available bool) error {
	m.toggled[slotID] = available
	return nil
}

type mockCustomerRepo struct {
	customer *domain.Customer
	err      error

	findOrCreateCalls int
}

func (m *mockCustomerRepo) FindOrCreate(ctx context.Context, name, email, phone string) (*domain.Customer, error) {
	m.findOrCreateCalls++
	if m.err != nil {
		return nil, m.err
	}
	if m.customer != nil {
		return m.customer, nil
	}
	return &domain.Customer{ID: 1, Name: name, Email: email, Phone: phone}, nil
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.customer != nil {
		return m.customer, nil
	}
	return &domain.Customer{ID: id, Name: "Test Customer", Email: "customer@example.com"}, nil
}

type mockDeviceRepo struct {
	device  *domain.CustomerDevice
	linkErr error
	getErr  error

	linked []domain.DeviceAttrsDTO
}

func (m *mockDeviceRepo) LinkOrCreate(ctx context.Context, customerID int64, attrs domain.DeviceAttrsDTO) (*domain.CustomerDevice, error) {
	if m.linkErr != nil {
		return nil, m.linkErr
	}
	m.linked = append(m.linked, attrs)
	if m.device != nil {
		return m.device, nil
	}
	return &domain.CustomerDevice{ID: 1, CustomerID: customerID, DeviceType: attrs.DeviceType}, nil
}

func (m *mockDeviceRepo) GetByID(ctx context.Context, id int64) (*domain.CustomerDevice, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.device != nil {
		return m.device, nil
	}
	return nil, domain.ErrNotFound
}

type mockServiceRepo struct {
	services []domain.RepairService
	err      error
}

func (m *mockServiceRepo) ListByIDs(ctx context.Context, ids []int64) ([]domain.RepairService, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.services, nil
}

type mockNotifier struct {
	mu    sync.Mutex
	err   error
	sent  []NotificationPayload
	kinds []NotificationKind

	// notify receives once per Send so tests can wait for the async dispatch.
	notify chan struct{}
}

func (m *mockNotifier) Send(ctx context.Context, kind NotificationKind, recipient string, payload NotificationPayload) error {
	m.mu.Lock()
	m.sent = append(m.sent, payload)
	m.kinds = append(m.kinds, kind)
	m.mu.Unlock()

	if m.notify != nil {
		m.notify <- struct{}{}
	}
	return m.err
}

func (m *mockNotifier) lastKind() NotificationKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.kinds) == 0 {
		return ""
	}
	return m.kinds[len(m.kinds)-1]
}

type mockAvailability struct {
	days map[string]domain.DayAvailability
	err  error
}

func (m *mockAvailability) ResolveDay(ctx context.Context, date time.Time) (*domain.DayAvailability, error) {
	if m.err != nil {
		return nil, m.err
	}
	if day, ok := m.days[date.Format("2006-01-02")]; ok {
		return &day, nil
	}
	return &domain.DayAvailability{Date: date, DayOfWeek: int(date.Weekday()), Slots: []domain.Slot{}}, nil
}

func (m *mockAvailability) ResolveRange(ctx context.Context, start, end time.Time) (map[string]domain.DayAvailability, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]domain.DayAvailability)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day, _ := m.ResolveDay(ctx, d)
		out[d.Format("2006-01-02")] = *day
	}
	return out, nil
}
