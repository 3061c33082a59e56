package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"bharatparcel/filters"
	"bharatparcel/logger"
	"bharatparcel/models"
	"bharatparcel/notify"
	"bharatparcel/repository"
)

func testLogger() *logger.Logger {
	return logger.Discard()
}

type mockBookingRepository struct {
	createFunc              func(ctx context.Context, b *models.Booking) error
	findByBookingIDFunc     func(ctx context.Context, bookingID string) (*models.Booking, error)
	findFunc                func(ctx context.Context, p filters.Predicate, opts repository.FindOptions) ([]models.Booking, error)
	countFunc               func(ctx context.Context, p filters.Predicate) (int64, error)
	existsFunc              func(ctx context.Context, p filters.Predicate) (bool, error)
	updateFunc              func(ctx context.Context, bookingID string, fields map[string]any) (*models.Booking, error)
	cancelFunc              func(ctx context.Context, bookingID string) (*models.Booking, error)
	deleteFunc              func(ctx context.Context, bookingID string) (*models.Booking, error)
	aggregateByCustomerFunc func(ctx context.Context, p filters.Predicate) ([]models.CustomerAggregate, error)
	aggregateOverallFunc    func(ctx context.Context, p filters.Predicate) (*models.OverallAggregate, error)
	aggregateTaxFunc        func(ctx context.Context, p filters.Predicate) (*models.TaxAggregate, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, b *models.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, b)
	}
	b.BookingID = "BPS-202405-1"
	return nil
}

func (m *mockBookingRepository) FindByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	if m.findByBookingIDFunc != nil {
		return m.findByBookingIDFunc(ctx, bookingID)
	}
	return nil, fmt.Errorf("%w: booking %s", repository.ErrNotFound, bookingID)
}

func (m *mockBookingRepository) Find(ctx context.Context, p filters.Predicate, opts repository.FindOptions) ([]models.Booking, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, p, opts)
	}
	return []models.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context, p filters.Predicate) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, p)
	}
	return 0, nil
}

func (m *mockBookingRepository) Exists(ctx context.Context, p filters.Predicate) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, p)
	}
	return false, nil
}

func (m *mockBookingRepository) Update(ctx context.Context, bookingID string, fields map[string]any) (*models.Booking, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, bookingID, fields)
	}
	return nil, fmt.Errorf("%w: booking %s", repository.ErrNotFound, bookingID)
}

func (m *mockBookingRepository) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, bookingID)
	}
	return nil, fmt.Errorf("%w: booking %s", repository.ErrNotFound, bookingID)
}

func (m *mockBookingRepository) Delete(ctx context.Context, bookingID string) (*models.Booking, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, bookingID)
	}
	return nil, fmt.Errorf("%w: booking %s", repository.ErrNotFound, bookingID)
}

func (m *mockBookingRepository) AggregateByCustomer(ctx context.Context, p filters.Predicate) ([]models.CustomerAggregate, error) {
	if m.aggregateByCustomerFunc != nil {
		return m.aggregateByCustomerFunc(ctx, p)
	}
	return nil, nil
}

func (m *mockBookingRepository) AggregateOverall(ctx context.Context, p filters.Predicate) (*models.OverallAggregate, error) {
	if m.aggregateOverallFunc != nil {
		return m.aggregateOverallFunc(ctx, p)
	}
	return nil, nil
}

func (m *mockBookingRepository) AggregateTax(ctx context.Context, p filters.Predicate) (*models.TaxAggregate, error) {
	if m.aggregateTaxFunc != nil {
		return m.aggregateTaxFunc(ctx, p)
	}
	return nil, nil
}

type mockQuotationRepository struct {
	createFunc          func(ctx context.Context, q *models.Quotation) error
	findByBookingIDFunc func(ctx context.Context, bookingID string) (*models.Quotation, error)
	findFunc            func(ctx context.Context, p filters.Predicate, opts repository.FindOptions) ([]models.Quotation, error)
	countFunc           func(ctx context.Context, p filters.Predicate) (int64, error)
	updateFunc          func(ctx context.Context, bookingID string, fields map[string]any) (*models.Quotation, error)
	deleteFunc          func(ctx context.Context, bookingID string) error
}

func (m *mockQuotationRepository) Create(ctx context.Context, q *models.Quotation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, q)
	}
	q.BookingID = "QTN-202405-1"
	return nil
}

func (m *mockQuotationRepository) FindByBookingID(ctx context.Context, bookingID string) (*models.Quotation, error) {
	if m.findByBookingIDFunc != nil {
		return m.findByBookingIDFunc(ctx, bookingID)
	}
	return nil, fmt.Errorf("%w: quotation %s", repository.ErrNotFound, bookingID)
}

func (m *mockQuotationRepository) Find(ctx context.Context, p filters.Predicate, opts repository.FindOptions) ([]models.Quotation, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, p, opts)
	}
	return []models.Quotation{}, nil
}

func (m *mockQuotationRepository) Count(ctx context.Context, p filters.Predicate) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, p)
	}
	return 0, nil
}

func (m *mockQuotationRepository) Update(ctx context.Context, bookingID string, fields map[string]any) (*models.Quotation, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, bookingID, fields)
	}
	return nil, fmt.Errorf("%w: quotation %s", repository.ErrNotFound, bookingID)
}

func (m *mockQuotationRepository) Delete(ctx context.Context, bookingID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, bookingID)
	}
	return fmt.Errorf("%w: quotation %s", repository.ErrNotFound, bookingID)
}

// mockStationRepository resolves names against a fixed set, ignoring case.
type mockStationRepository struct {
	stations         []models.Station
	createFunc       func(ctx context.Context, s *models.Station) error
	findConflictFunc func(ctx context.Context, s *models.Station) (*models.Station, error)
	updateFunc       func(ctx context.Context, stationID string, fields map[string]any) (*models.Station, error)
	deleteFunc       func(ctx context.Context, stationID string) error
}

func (m *mockStationRepository) Create(ctx context.Context, s *models.Station) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	s.StationID = fmt.Sprint(len(m.stations) + 1)
	m.stations = append(m.stations, *s)
	return nil
}

func (m *mockStationRepository) FindAll(ctx context.Context) ([]models.Station, error) {
	return m.stations, nil
}

func (m *mockStationRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.stations)), nil
}

func (m *mockStationRepository) find(match func(models.Station) bool, what string) (*models.Station, error) {
	for i := range m.stations {
		if match(m.stations[i]) {
			st := m.stations[i]
			return &st, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrStationNotFound, what)
}

func (m *mockStationRepository) FindByStationID(ctx context.Context, stationID string) (*models.Station, error) {
	return m.find(func(s models.Station) bool { return s.StationID == stationID }, stationID)
}

func (m *mockStationRepository) FindByName(ctx context.Context, name string) (*models.Station, error) {
	return m.find(func(s models.Station) bool { return s.StationName == name }, name)
}

func (m *mockStationRepository) ResolveName(ctx context.Context, name string) (*models.Station, error) {
	return m.find(func(s models.Station) bool { return strings.EqualFold(s.StationName, name) }, name)
}

func (m *mockStationRepository) FindConflict(ctx context.Context, s *models.Station) (*models.Station, error) {
	if m.findConflictFunc != nil {
		return m.findConflictFunc(ctx, s)
	}
	return nil, nil
}

func (m *mockStationRepository) Update(ctx context.Context, stationID string, fields map[string]any) (*models.Station, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, stationID, fields)
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrStationNotFound, stationID)
}

func (m *mockStationRepository) Delete(ctx context.Context, stationID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, stationID)
	}
	return fmt.Errorf("%w: %s", repository.ErrStationNotFound, stationID)
}

type mockCustomerRepository struct {
	customers        []models.Customer
	createFunc       func(ctx context.Context, c *models.Customer) error
	searchByNameFunc func(ctx context.Context, term string) (*models.Customer, error)
}

func (m *mockCustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	c.ID = fmt.Sprintf("cust-%d", len(m.customers)+1)
	m.customers = append(m.customers, *c)
	return nil
}

func (m *mockCustomerRepository) FindAll(ctx context.Context) ([]models.Customer, error) {
	return m.customers, nil
}

func (m *mockCustomerRepository) find(match func(models.Customer) bool, what string) (*models.Customer, error) {
	for i := range m.customers {
		if match(m.customers[i]) {
			c := m.customers[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: customer %s", repository.ErrNotFound, what)
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	return m.find(func(c models.Customer) bool { return c.ID == id }, id)
}

func (m *mockCustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return m.find(func(c models.Customer) bool { return c.EmailID == email }, email)
}

func (m *mockCustomerRepository) FindByName(ctx context.Context, firstName, lastName string) (*models.Customer, error) {
	return m.find(func(c models.Customer) bool { return c.FirstName == firstName && c.LastName == lastName }, firstName)
}

func (m *mockCustomerRepository) SearchByName(ctx context.Context, term string) (*models.Customer, error) {
	if m.searchByNameFunc != nil {
		return m.searchByNameFunc(ctx, term)
	}
	return nil, fmt.Errorf("%w: customer %s", repository.ErrNotFound, term)
}

type mockUserRepository struct {
	users map[string]models.AppUser
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *models.AppUser) error {
	if m.users == nil {
		m.users = map[string]models.AppUser{}
	}
	if _, ok := m.users[user.Email]; ok {
		return fmt.Errorf("%w: user %s", repository.ErrDuplicate, user.Email)
	}
	user.ID = fmt.Sprintf("user-%d", len(m.users)+1)
	m.users[user.Email] = *user
	return nil
}

func (m *mockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", repository.ErrNotFound, email)
	}
	return &u, nil
}

// recordingNotifier keeps every message it was asked to send.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

type sentMessage struct {
	to  string
	msg notify.Message
}

func (n *recordingNotifier) Send(_ context.Context, to string, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{to: to, msg: msg})
	return n.err
}

type mockRenderer struct {
	data *models.InvoicePDFData
	err  error
}

func (r *mockRenderer) RenderInvoice(_ context.Context, d *models.InvoicePDFData) ([]byte, error) {
	r.data = d
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 test"), nil
}

type mockArchive struct {
	keys []string
	err  error
}

func (a *mockArchive) Upload(_ context.Context, _ []byte, filename string) (string, error) {
	a.keys = append(a.keys, filename)
	if a.err != nil {
		return "", a.err
	}
	return "https://files.example.com/" + filename, nil
}

var (
	delhi  = models.Station{ID: "st-del", StationID: "1", StationName: "Delhi", GST: "07AAA", Contact: "9000000001"}
	mumbai = models.Station{ID: "st-bom", StationID: "2", StationName: "Mumbai", GST: "27BBB", Contact: "9000000002"}

	anil = models.Customer{
		ID:            "cust-anil",
		FirstName:     "Anil",
		LastName:      "Rao",
		ContactNumber: "9876543210",
		EmailID:       "anil@example.com",
	}

	admin      = models.RequestingUser{ID: "admin-1", Role: models.RoleAdmin}
	supervisor = models.RequestingUser{ID: "sup-1", Role: models.RoleSupervisor}
)

func stationRepo() *mockStationRepository {
	return &mockStationRepository{stations: []models.Station{delhi, mumbai}}
}

func customerRepo() *mockCustomerRepository {
	return &mockCustomerRepository{customers: []models.Customer{anil}}
}
