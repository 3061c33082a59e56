package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"bharatparcel/apperrors"
	"bharatparcel/filters"
	"bharatparcel/models"
	"bharatparcel/repository"
)

func validBookingInput() *models.BookingInput {
	return &models.BookingInput{
		Email:            "anil@example.com",
		StartStation:     "delhi",
		EndStation:       "MUMBAI",
		BookingDate:      time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
		DeliveryDate:     time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC),
		SenderName:       "Sharma Traders",
		SenderLocality:   "Karol Bagh",
		ReceiverName:     "Patel Stores",
		ReceiverLocality: "Andheri",
		Items: []models.Item{
			{ToPay: models.PaymentPaid, Amount: 100, Weight: 5},
		},
		BillTotal:  100,
		GrandTotal: 118,
	}
}

type bookingFixture struct {
	service  *bookingService
	bookings *mockBookingRepository
	email    *recordingNotifier
	whatsapp *recordingNotifier
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookings: &mockBookingRepository{},
		email:    &recordingNotifier{},
		whatsapp: &recordingNotifier{},
	}
	f.service = NewBookingService(
		f.bookings,
		stationRepo(),
		customerRepo(),
		Notifiers{Email: f.email, WhatsApp: f.whatsapp},
		NewValidator(),
		testLogger(),
	).(*bookingService)
	f.service.now = func() time.Time { return time.Date(2024, 5, 3, 9, 30, 0, 0, time.UTC) }
	return f
}

func appErr(t *testing.T, err error) *apperrors.AppError {
	t.Helper()
	var ae *apperrors.AppError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apperrors.AppError, got %T: %v", err, err)
	}
	return ae
}

func TestBookingCreate_CopiesCustomerAndResolvesStations(t *testing.T) {
	f := newBookingFixture()
	var stored *models.Booking
	f.bookings.createFunc = func(ctx context.Context, b *models.Booking) error {
		b.BookingID = "BPS-202405-7"
		stored = b
		return nil
	}

	in := validBookingInput()
	in.FirstName = "Someone"
	in.Mobile = "000"
	b, err := f.service.Create(context.Background(), supervisor, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored == nil {
		t.Fatal("expected booking to be stored")
	}
	if b.CustomerID != anil.ID || b.FirstName != "Anil" || b.Mobile != anil.ContactNumber {
		t.Errorf("expected customer details to be copied, got %+v", b)
	}
	if b.StartStation != delhi.ID || b.EndStation != mumbai.ID {
		t.Errorf("expected station ids %s/%s, got %s/%s", delhi.ID, mumbai.ID, b.StartStation, b.EndStation)
	}
	if b.CreatedByUser != supervisor.ID || b.CreatedByRole != models.RoleSupervisor || b.RequestedByRole != models.RoleSupervisor {
		t.Errorf("unexpected provenance: %+v", b.Lifecycle)
	}
	if b.ActiveDelivery || b.TotalCancelled != 0 {
		t.Errorf("new booking should start as a request, got %+v", b.Lifecycle)
	}
	if b.PickupName() != "Delhi" || b.DropName() != "Mumbai" {
		t.Errorf("expected populated stations, got %q/%q", b.PickupName(), b.DropName())
	}

	if len(f.email.sent) != 1 {
		t.Fatalf("expected one confirmation email, got %d", len(f.email.sent))
	}
	if f.email.sent[0].to != anil.EmailID {
		t.Errorf("expected email to %s, got %s", anil.EmailID, f.email.sent[0].to)
	}
	if f.email.sent[0].msg.Subject != "Booking Confirmation - BPS-202405-7" {
		t.Errorf("unexpected subject %q", f.email.sent[0].msg.Subject)
	}
}

func TestBookingCreate_CustomerNotFound(t *testing.T) {
	f := newBookingFixture()
	in := validBookingInput()
	in.Email = "nobody@example.com"

	_, err := f.service.Create(context.Background(), admin, in)
	ae := appErr(t, err)
	if ae.HTTPStatus != http.StatusNotFound || ae.Message != "Customer not found with provided email" {
		t.Errorf("unexpected error: %+v", ae)
	}
}

func TestBookingCreate_UnknownStationIsClientError(t *testing.T) {
	f := newBookingFixture()
	created := false
	f.bookings.createFunc = func(ctx context.Context, b *models.Booking) error {
		created = true
		return nil
	}

	in := validBookingInput()
	in.EndStation = "Mumbai Central"
	_, err := f.service.Create(context.Background(), admin, in)
	ae := appErr(t, err)
	if ae.HTTPStatus != http.StatusBadRequest || ae.Message != "Invalid station names provided" {
		t.Errorf("unexpected error: %+v", ae)
	}
	if created {
		t.Error("booking must not be stored when a station does not resolve")
	}
}

func TestBookingCreate_ValidationRunsBeforeStore(t *testing.T) {
	f := newBookingFixture()
	in := validBookingInput()
	in.SenderLocality = ""
	in.Items[0].ToPay = "later"

	_, err := f.service.Create(context.Background(), admin, in)
	ae := appErr(t, err)
	if ae.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %+v", ae)
	}
	fieldErrs, ok := ae.Details["errors"].(ValidationErrors)
	if !ok {
		t.Fatalf("expected field errors in details, got %#v", ae.Details)
	}
	fields := map[string]bool{}
	for _, fe := range fieldErrs {
		fields[fe.Field] = true
	}
	if !fields["senderLocality"] || !fields["items[0].toPay"] {
		t.Errorf("expected senderLocality and items[0].toPay errors, got %v", fieldErrs)
	}
}

func TestBookingCreate_NotificationFailureIsSwallowed(t *testing.T) {
	f := newBookingFixture()
	f.email.err = errors.New("smtp down")

	b, err := f.service.Create(context.Background(), admin, validBookingInput())
	if err != nil {
		t.Fatalf("notification failure must not fail the booking: %v", err)
	}
	if b.BookingID == "" {
		t.Error("expected a booking id")
	}
}

func TestBookingCreate_RequiresStaff(t *testing.T) {
	f := newBookingFixture()
	_, err := f.service.Create(context.Background(), models.RequestingUser{ID: "x", Role: models.RolePublic}, validBookingInput())
	if ae := appErr(t, err); ae.HTTPStatus != http.StatusForbidden {
		t.Errorf("expected 403, got %+v", ae)
	}
}

func TestBookingCreatePublic(t *testing.T) {
	f := newBookingFixture()
	in := validBookingInput()
	in.Email = "walkin@example.com"
	in.FirstName, in.LastName = "Walk", "In"

	b, err := f.service.CreatePublic(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.RequestedByRole != models.RolePublic || b.IsApproved {
		t.Errorf("expected unapproved public request, got %+v", b.Lifecycle)
	}
	if b.CustomerID != "" || b.CreatedByUser != "" || b.CreatedByRole != "" {
		t.Errorf("public request must not carry a customer or creator, got %+v", b)
	}
	if b.CustomerName() != "Walk In" {
		t.Errorf("expected denormalised name, got %q", b.CustomerName())
	}

	if len(f.email.sent) != 1 || f.email.sent[0].to != "walkin@example.com" {
		t.Fatalf("expected acknowledgement to the requester, got %+v", f.email.sent)
	}
	if !strings.Contains(f.email.sent[0].msg.Subject, "Pending Confirmation") {
		t.Errorf("unexpected subject %q", f.email.sent[0].msg.Subject)
	}

	in.StartStation = "Nowhere"
	_, err = f.service.CreatePublic(context.Background(), in)
	if ae := appErr(t, err); ae.Message != "Invalid station names" {
		t.Errorf("unexpected error: %+v", ae)
	}
}

func TestBookingApprove(t *testing.T) {
	tests := []struct {
		name       string
		user       models.RequestingUser
		existing   *models.Booking
		wantStatus int
	}{
		{
			name:       "non staff is forbidden",
			user:       models.RequestingUser{ID: "p", Role: models.RolePublic},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing booking",
			user:       admin,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "already approved",
			user: admin,
			existing: &models.Booking{BookingID: "BPS-1", Lifecycle: models.Lifecycle{
				RequestedByRole: models.RolePublic,
				IsApproved:      true,
			}},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture()
			if tt.existing != nil {
				f.bookings.findByBookingIDFunc = func(ctx context.Context, id string) (*models.Booking, error) {
					return tt.existing, nil
				}
			}
			_, err := f.service.Approve(context.Background(), tt.user, "BPS-1")
			if ae := appErr(t, err); ae.HTTPStatus != tt.wantStatus {
				t.Errorf("expected %d, got %+v", tt.wantStatus, ae)
			}
		})
	}
}

func TestBookingApprove_SetsApprovalAndNotifies(t *testing.T) {
	f := newBookingFixture()
	pending := &models.Booking{
		BookingID: "BPS-202405-3",
		Email:     "walkin@example.com",
		Lifecycle: models.Lifecycle{RequestedByRole: models.RolePublic},
	}
	f.bookings.findByBookingIDFunc = func(ctx context.Context, id string) (*models.Booking, error) {
		return pending, nil
	}
	var got map[string]any
	f.bookings.updateFunc = func(ctx context.Context, id string, fields map[string]any) (*models.Booking, error) {
		got = fields
		out := *pending
		out.IsApproved = true
		return &out, nil
	}

	b, err := f.service.Approve(context.Background(), supervisor, "BPS-202405-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.IsApproved {
		t.Error("expected approved booking")
	}
	if got["isApproved"] != true || got["approvedBy"] != supervisor.ID {
		t.Errorf("unexpected update fields: %v", got)
	}
	if at, ok := got["approvedAt"].(time.Time); !ok || !at.Equal(time.Date(2024, 5, 3, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("unexpected approvedAt: %v", got["approvedAt"])
	}
	if len(f.email.sent) != 1 || f.email.sent[0].to != "walkin@example.com" {
		t.Errorf("expected confirmation email, got %+v", f.email.sent)
	}
}

func TestBookingReject(t *testing.T) {
	f := newBookingFixture()
	booking := &models.Booking{BookingID: "BPS-9", Lifecycle: models.Lifecycle{RequestedByRole: models.RolePublic}}
	f.bookings.findByBookingIDFunc = func(ctx context.Context, id string) (*models.Booking, error) {
		return booking, nil
	}
	deleted := ""
	f.bookings.deleteFunc = func(ctx context.Context, id string) (*models.Booking, error) {
		deleted = id
		return booking, nil
	}

	if _, err := f.service.Reject(context.Background(), admin, "BPS-9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "BPS-9" {
		t.Errorf("expected BPS-9 to be deleted, got %q", deleted)
	}

	booking.IsApproved = true
	deleted = ""
	_, err := f.service.Reject(context.Background(), admin, "BPS-9")
	if ae := appErr(t, err); ae.Message != "Booking already approved, cannot reject" {
		t.Errorf("unexpected error: %+v", ae)
	}
	if deleted != "" {
		t.Error("approved booking must not be deleted")
	}
}

func TestBookingReject_StaffBookingIsKept(t *testing.T) {
	f := newBookingFixture()
	staffBooking := &models.Booking{BookingID: "BPS-1", Lifecycle: models.Lifecycle{
		ActiveDelivery:  true,
		CreatedByUser:   admin.ID,
		CreatedByRole:   models.RoleAdmin,
		RequestedByRole: models.RoleAdmin,
	}}
	f.bookings.findByBookingIDFunc = func(ctx context.Context, id string) (*models.Booking, error) {
		return staffBooking, nil
	}
	deleted := ""
	f.bookings.deleteFunc = func(ctx context.Context, id string) (*models.Booking, error) {
		deleted = id
		return staffBooking, nil
	}
	updated := false
	f.bookings.updateFunc = func(ctx context.Context, id string, fields map[string]any) (*models.Booking, error) {
		updated = true
		return staffBooking, nil
	}

	_, err := f.service.Reject(context.Background(), admin, "BPS-1")
	if ae := appErr(t, err); ae.HTTPStatus != http.StatusBadRequest || ae.Details["requestedByRole"] != models.RoleAdmin {
		t.Errorf("unexpected reject error: %+v", ae)
	}
	if deleted != "" {
		t.Errorf("staff booking must not be deleted, deleted %q", deleted)
	}

	_, err = f.service.Approve(context.Background(), admin, "BPS-1")
	if ae := appErr(t, err); ae.HTTPStatus != http.StatusBadRequest {
		t.Errorf("unexpected approve error: %+v", ae)
	}
	if updated {
		t.Error("staff booking must not be approved")
	}
}

func TestBookingReject_NonStaffForbidden(t *testing.T) {
	f := newBookingFixture()
	_, err := f.service.Reject(context.Background(), models.RequestingUser{ID: "p", Role: models.RolePublic}, "BPS-9")
	if ae := appErr(t, err); ae.HTTPStatus != http.StatusForbidden {
		t.Errorf("expected 403, got %+v", ae)
	}
}

func TestBookingCancel_NotFound(t *testing.T) {
	f := newBookingFixture()
	_, err := f.service.Cancel(context.Background(), "BPS-404")
	ae := appErr(t, err)
	if ae.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %+v", ae)
	}
	if ae.Details["id"] != "BPS-404" {
		t.Errorf("expected id in details, got %v", ae.Details)
	}
}

func TestBookingCancel_StoreFailure(t *testing.T) {
	f := newBookingFixture()
	cause := errors.New("connection reset")
	f.bookings.cancelFunc = func(ctx context.Context, id string) (*models.Booking, error) {
		return nil, cause
	}
	_, err := f.service.Cancel(context.Background(), "BPS-1")
	ae := appErr(t, err)
	if ae.HTTPStatus != http.StatusInternalServerError || !errors.Is(err, cause) {
		t.Errorf("expected 500 wrapping the cause, got %+v", ae)
	}
}

func TestBookingMarkDelivered(t *testing.T) {
	f := newBookingFixture()
	var got map[string]any
	f.bookings.updateFunc = func(ctx context.Context, id string, fields map[string]any) (*models.Booking, error) {
		got = fields
		return &models.Booking{BookingID: id}, nil
	}
	if _, err := f.service.MarkDelivered(context.Background(), "BPS-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[filters.FieldIsDelivered] != true || got[filters.FieldActiveDelivery] != false {
		t.Errorf("unexpected update fields: %v", got)
	}
}

func TestBookingUpdate_ResolvesStationNames(t *testing.T) {
	f := newBookingFixture()
	var got map[string]any
	f.bookings.updateFunc = func(ctx context.Context, id string, fields map[string]any) (*models.Booking, error) {
		got = fields
		return &models.Booking{BookingID: id}, nil
	}
	start := "MUMBAI"
	total := 250.0
	if _, err := f.service.Update(context.Background(), "BPS-1", &models.BookingUpdate{StartStation: &start, BillTotal: &total}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["startStation"] != mumbai.ID || got["billTotal"] != 250.0 {
		t.Errorf("unexpected update fields: %v", got)
	}

	bad := "Atlantis"
	_, err := f.service.Update(context.Background(), "BPS-1", &models.BookingUpdate{EndStation: &bad})
	if ae := appErr(t, err); ae.HTTPStatus != http.StatusNotFound || !strings.Contains(ae.Message, "Atlantis") {
		t.Errorf("unexpected error: %+v", ae)
	}

	_, err = f.service.Update(context.Background(), "BPS-1", &models.BookingUpdate{})
	if ae := appErr(t, err); ae.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400 for an empty update, got %+v", ae)
	}
}

func TestBookingStatusList_ScopesSupervisor(t *testing.T) {
	f := newBookingFixture()
	var got filters.Predicate
	f.bookings.findFunc = func(ctx context.Context, p filters.Predicate, opts repository.FindOptions) ([]models.Booking, error) {
		got = p
		return []models.Booking{
			{BookingID: "BPS-1", StartStationDoc: &delhi, EndStationDoc: &mumbai, Lifecycle: models.Lifecycle{CreatedByRole: models.RoleSupervisor}},
			{BookingID: "BPS-2"},
		}, nil
	}

	rows, err := f.service.StatusList(context.Background(), filters.StatusActive, supervisor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].BookingID != "BPS-1" {
		t.Errorf("expected only the resolved booking, got %+v", rows)
	}
	if rows[0].OrderBy != "Supervisor (Delhi)" {
		t.Errorf("unexpected orderBy %q", rows[0].OrderBy)
	}

	own := filters.Record{"activeDelivery": true, "createdByUser": supervisor.ID}
	other := filters.Record{"activeDelivery": true, "createdByUser": "someone-else"}
	if !got.Matches(own) || got.Matches(other) {
		t.Errorf("expected filter scoped to the supervisor, got %s", got)
	}
}

func TestBookingRevenueList_KeepsScopeAndDelivered(t *testing.T) {
	f := newBookingFixture()
	var got filters.Predicate
	f.bookings.findFunc = func(ctx context.Context, p filters.Predicate, opts repository.FindOptions) ([]models.Booking, error) {
		got = p
		return []models.Booking{
			{BookingID: "BPS-1", GrandTotal: 118, BookingDate: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), StartStationDoc: &delhi, EndStationDoc: &mumbai},
			{BookingID: "BPS-2", GrandTotal: 50.5},
		}, nil
	}

	list, err := f.service.RevenueList(context.Background(), filters.StatusCancelled, supervisor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.TotalRevenue != "168.50" || list.Count != 1 {
		t.Errorf("unexpected list totals: %+v", list)
	}
	if list.Data[0].Date != "2024-05-02" || list.Data[0].Revenue != "118.00" {
		t.Errorf("unexpected row: %+v", list.Data[0])
	}

	delivered := filters.Record{"isDelivered": true, "totalCancelled": 2, "activeDelivery": false, "createdByUser": supervisor.ID}
	if !got.Matches(delivered) {
		t.Errorf("expected delivered, cancelled, own booking to match %s", got)
	}
	delivered["isDelivered"] = false
	if got.Matches(delivered) {
		t.Error("revenue filter must require delivery")
	}
	delivered["isDelivered"] = true
	delivered["createdByUser"] = "other"
	if got.Matches(delivered) {
		t.Error("revenue filter must keep supervisor scoping")
	}
}

func TestBookingTotalRevenue(t *testing.T) {
	f := newBookingFixture()
	f.bookings.findFunc = func(ctx context.Context, p filters.Predicate, opts repository.FindOptions) ([]models.Booking, error) {
		return []models.Booking{{GrandTotal: 100.1}, {GrandTotal: 200.2}}, nil
	}
	total, err := f.service.TotalRevenue(context.Background(), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != "300.30" {
		t.Errorf("expected 300.30, got %s", total)
	}
}

func TestBookingResendConfirmation(t *testing.T) {
	f := newBookingFixture()
	f.bookings.findByBookingIDFunc = func(ctx context.Context, id string) (*models.Booking, error) {
		return &models.Booking{BookingID: id}, nil
	}
	err := f.service.ResendConfirmation(context.Background(), "BPS-1")
	if ae := appErr(t, err); ae.Message != "Customer email not available" {
		t.Errorf("unexpected error: %+v", ae)
	}

	f.bookings.findByBookingIDFunc = func(ctx context.Context, id string) (*models.Booking, error) {
		return &models.Booking{BookingID: id, CustomerID: anil.ID}, nil
	}
	f.email.err = errors.New("smtp down")
	err = f.service.ResendConfirmation(context.Background(), "BPS-1")
	if ae := appErr(t, err); ae.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("explicit resend must report delivery failure, got %+v", ae)
	}
	if len(f.email.sent) != 1 || f.email.sent[0].to != anil.EmailID {
		t.Errorf("expected resend to the customer, got %+v", f.email.sent)
	}
}

func TestBookingSendBookingWhatsApp(t *testing.T) {
	f := newBookingFixture()
	f.bookings.findByBookingIDFunc = func(ctx context.Context, id string) (*models.Booking, error) {
		return &models.Booking{BookingID: id, CustomerID: anil.ID, GrandTotal: 118}, nil
	}
	if err := f.service.SendBookingWhatsApp(context.Background(), "BPS-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.whatsapp.sent) != 1 || f.whatsapp.sent[0].to != anil.ContactNumber {
		t.Fatalf("expected message to the customer contact, got %+v", f.whatsapp.sent)
	}
	if !strings.Contains(f.whatsapp.sent[0].msg.Body, "Anil Rao") {
		t.Errorf("expected the customer name in the message, got %q", f.whatsapp.sent[0].msg.Body)
	}
}
