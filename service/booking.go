package service

import (
	"context"
	"errors"
	"time"

	"bharatparcel/apperrors"
	"bharatparcel/filters"
	"bharatparcel/logger"
	"bharatparcel/models"
	"bharatparcel/notify"
	"bharatparcel/repository"
	"bharatparcel/summary"
)

type BookingService interface {
	Create(ctx context.Context, user models.RequestingUser, in *models.BookingInput) (*models.Booking, error)
	CreatePublic(ctx context.Context, in *models.BookingInput) (*models.Booking, error)
	Get(ctx context.Context, bookingID string) (*models.Booking, error)
	View(ctx context.Context, bookingID string) (*summary.BookingView, error)
	Update(ctx context.Context, bookingID string, upd *models.BookingUpdate) (*models.Booking, error)
	Delete(ctx context.Context, bookingID string) (*models.Booking, error)

	StatusList(ctx context.Context, status filters.StatusType, user models.RequestingUser) ([]summary.StatusRow, error)
	RevenueList(ctx context.Context, status filters.StatusType, user models.RequestingUser) (*summary.RevenueList, error)
	Count(ctx context.Context, status filters.StatusType, user models.RequestingUser) (int64, error)
	TotalRevenue(ctx context.Context, user models.RequestingUser) (string, error)

	PendingPublic(ctx context.Context) ([]models.Booking, error)
	Approve(ctx context.Context, user models.RequestingUser, bookingID string) (*models.Booking, error)
	Reject(ctx context.Context, user models.RequestingUser, bookingID string) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*models.Booking, error)
	Activate(ctx context.Context, bookingID string) (*models.Booking, error)
	MarkDelivered(ctx context.Context, bookingID string) (*models.Booking, error)

	ResendConfirmation(ctx context.Context, bookingID string) error
	SendWhatsApp(ctx context.Context, phone, message string) error
	SendBookingWhatsApp(ctx context.Context, bookingID string) error
}

type bookingService struct {
	bookings  repository.BookingRepository
	stations  repository.StationRepository
	customers repository.CustomerRepository
	notifiers Notifiers
	validator *Validator
	log       *logger.Logger
	now       func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	stations repository.StationRepository,
	customers repository.CustomerRepository,
	notifiers Notifiers,
	v *Validator,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		bookings:  bookings,
		stations:  stations,
		customers: customers,
		notifiers: notifiers.withDefaults(),
		validator: v,
		log:       log,
		now:       time.Now,
	}
}

func newBooking(in *models.BookingInput) *models.Booking {
	return &models.Booking{
		FirstName:        in.FirstName,
		MiddleName:       in.MiddleName,
		LastName:         in.LastName,
		Mobile:           in.Mobile,
		Email:            in.Email,
		BookingDate:      in.BookingDate,
		DeliveryDate:     in.DeliveryDate,
		SenderName:       in.SenderName,
		SenderGgt:        in.SenderGgt,
		SenderLocality:   in.SenderLocality,
		FromState:        in.FromState,
		FromCity:         in.FromCity,
		SenderPincode:    in.SenderPincode,
		ReceiverName:     in.ReceiverName,
		ReceiverGgt:      in.ReceiverGgt,
		ReceiverLocality: in.ReceiverLocality,
		ToState:          in.ToState,
		ToCity:           in.ToCity,
		ToPincode:        in.ToPincode,
		Items:            in.Items,
		AddComment:       in.AddComment,
		Freight:          in.Freight,
		InsVPP:           in.InsVPP,
		CGST:             in.CGST,
		SGST:             in.SGST,
		IGST:             in.IGST,
		BillTotal:        in.BillTotal,
		GrandTotal:       in.GrandTotal,
	}
}

// routeStations resolves both station names. A name that does not resolve
// is reported as bad input, with message.
func (s *bookingService) routeStations(ctx context.Context, start, end, message string) (*models.Station, *models.Station, error) {
	var found [2]*models.Station
	for i, name := range []string{start, end} {
		st, err := s.stations.ResolveName(ctx, name)
		if err != nil {
			if isNotFound(err) {
				s.log.Warn("Station name did not resolve", "station_name", name)
				return nil, nil, apperrors.InvalidInput(message)
			}
			return nil, nil, storeFailure(s.log, "Failed to resolve station", err, "station_name", name)
		}
		found[i] = st
	}
	return found[0], found[1], nil
}

func (s *bookingService) Create(ctx context.Context, user models.RequestingUser, in *models.BookingInput) (*models.Booking, error) {
	if err := requireStaff(user); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		s.log.Warn("Booking validation failed", "email", in.Email, "error", err)
		return nil, validationFailed("Missing required fields", err)
	}

	customer, err := s.customers.FindByEmail(ctx, in.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFoundMessage("Customer not found with provided email")
		}
		return nil, storeFailure(s.log, "Failed to look up customer", err, "email", in.Email)
	}

	start, end, err := s.routeStations(ctx, in.StartStation, in.EndStation, "Invalid station names provided")
	if err != nil {
		return nil, err
	}

	b := newBooking(in)
	b.CustomerID = customer.ID
	b.FirstName = customer.FirstName
	b.MiddleName = customer.MiddleName
	b.LastName = customer.LastName
	b.Mobile = customer.ContactNumber
	b.Email = customer.EmailID
	b.StartStation = start.ID
	b.EndStation = end.ID
	b.CreatedByUser = user.ID
	b.CreatedByRole = user.Role
	b.RequestedByRole = user.Role

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, storeFailure(s.log, "Failed to create booking", err, "email", in.Email)
	}
	b.StartStationDoc, b.EndStationDoc = start, end

	s.log.Info("Booking created successfully",
		"booking_id", b.BookingID,
		"customer_id", b.CustomerID,
		"created_by", user.ID,
		"role", user.Role,
	)
	bestEffort(ctx, s.log, s.notifiers.Email, b.Email, notify.BookingConfirmationEmail(b), b.BookingID)
	return b, nil
}

func (s *bookingService) CreatePublic(ctx context.Context, in *models.BookingInput) (*models.Booking, error) {
	if err := s.validator.Validate(in); err != nil {
		s.log.Warn("Public booking validation failed", "email", in.Email, "error", err)
		return nil, validationFailed("Missing required fields", err)
	}

	start, end, err := s.routeStations(ctx, in.StartStation, in.EndStation, "Invalid station names")
	if err != nil {
		return nil, err
	}

	b := newBooking(in)
	b.StartStation = start.ID
	b.EndStation = end.ID
	b.RequestedByRole = models.RolePublic
	b.IsApproved = false

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, storeFailure(s.log, "Failed to create booking request", err, "email", in.Email)
	}
	b.StartStationDoc, b.EndStationDoc = start, end

	s.log.Info("Public booking request submitted", "booking_id", b.BookingID, "email", b.Email)
	bestEffort(ctx, s.log, s.notifiers.Email, b.Email, notify.BookingAcknowledgement(b), b.BookingID)
	return b, nil
}

func (s *bookingService) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	b, err := s.bookings.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, s.bookingError(err, "Failed to retrieve booking", bookingID)
	}
	return b, nil
}

func (s *bookingService) View(ctx context.Context, bookingID string) (*summary.BookingView, error) {
	b, err := s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	v := summary.ViewBooking(b)
	return &v, nil
}

func (s *bookingService) Update(ctx context.Context, bookingID string, upd *models.BookingUpdate) (*models.Booking, error) {
	if err := s.validator.Validate(upd); err != nil {
		s.log.Warn("Booking update validation failed", "booking_id", bookingID, "error", err)
		return nil, validationFailed("Booking validation failed", err)
	}
	fields := upd.Fields()
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("No fields to update")
	}

	for key, label := range map[string]string{filters.FieldStartStation: "Start", filters.FieldEndStation: "End"} {
		name, ok := fields[key].(string)
		if !ok {
			continue
		}
		st, err := resolveStation(ctx, s.stations, s.log, name, label)
		if err != nil {
			return nil, err
		}
		fields[key] = st.ID
	}

	b, err := s.bookings.Update(ctx, bookingID, fields)
	if err != nil {
		return nil, s.bookingError(err, "Failed to update booking", bookingID)
	}
	s.log.Info("Booking updated successfully", "booking_id", bookingID, "fields", len(fields))
	return b, nil
}

func (s *bookingService) Delete(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.bookings.Delete(ctx, bookingID)
	if err != nil {
		return nil, s.bookingError(err, "Failed to delete booking", bookingID)
	}
	s.log.Info("Booking permanently deleted", "booking_id", bookingID)
	return b, nil
}

func (s *bookingService) StatusList(ctx context.Context, status filters.StatusType, user models.RequestingUser) ([]summary.StatusRow, error) {
	bookings, err := s.bookings.Find(ctx, filters.BuildStatusFilter(status, user), repository.FindOptions{
		SortBy: "createdAt",
		Desc:   true,
	})
	if err != nil {
		return nil, storeFailure(s.log, "Failed to list bookings", err, "status", status)
	}
	return summary.BookingStatusRows(bookings), nil
}

func (s *bookingService) RevenueList(ctx context.Context, status filters.StatusType, user models.RequestingUser) (*summary.RevenueList, error) {
	bookings, err := s.bookings.Find(ctx, filters.BuildRevenueFilter(status, user), repository.FindOptions{})
	if err != nil {
		return nil, storeFailure(s.log, "Failed to list booking revenue", err, "status", status)
	}
	list := summary.BuildRevenueList(bookingRecords(bookings), summary.RevenueOptions{
		SkipUnresolved: true,
		WithActions:    true,
	})
	return &list, nil
}

func (s *bookingService) Count(ctx context.Context, status filters.StatusType, user models.RequestingUser) (int64, error) {
	n, err := s.bookings.Count(ctx, filters.BuildStatusFilter(status, user))
	if err != nil {
		return 0, storeFailure(s.log, "Failed to count bookings", err, "status", status)
	}
	return n, nil
}

// TotalRevenue sums grand totals over the request class.
func (s *bookingService) TotalRevenue(ctx context.Context, user models.RequestingUser) (string, error) {
	bookings, err := s.bookings.Find(ctx, filters.BuildStatusFilter(filters.StatusRequest, user), repository.FindOptions{})
	if err != nil {
		return "", storeFailure(s.log, "Failed to compute total revenue", err)
	}
	return summary.TotalRevenue(bookingRecords(bookings)), nil
}

func (s *bookingService) PendingPublic(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.bookings.Find(ctx, filters.PendingPublic(), repository.FindOptions{
		SortBy: "createdAt",
		Desc:   true,
	})
	if err != nil {
		return nil, storeFailure(s.log, "Failed to list pending booking requests", err)
	}
	return bookings, nil
}

// requirePublicRequest limits approval and rejection to third-party requests.
func requirePublicRequest(b *models.Booking) error {
	if b.RequestedByRole != models.RolePublic {
		return apperrors.InvalidInput("Only third-party booking requests can be approved or rejected").
			WithDetails(map[string]any{"bookingId": b.BookingID, "requestedByRole": b.RequestedByRole})
	}
	return nil
}

func (s *bookingService) Approve(ctx context.Context, user models.RequestingUser, bookingID string) (*models.Booking, error) {
	if err := requireStaff(user); err != nil {
		return nil, err
	}
	b, err := s.bookings.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, s.bookingError(err, "Failed to retrieve booking", bookingID)
	}
	if err := requirePublicRequest(b); err != nil {
		return nil, err
	}
	if b.IsApproved {
		return nil, apperrors.InvalidInput("Booking already approved")
	}

	approvedAt := s.now().UTC().Truncate(time.Millisecond)
	b, err = s.bookings.Update(ctx, bookingID, map[string]any{
		"isApproved": true,
		"approvedBy": user.ID,
		"approvedAt": approvedAt,
	})
	if err != nil {
		return nil, s.bookingError(err, "Failed to approve booking", bookingID)
	}

	s.log.Info("Booking approved successfully", "booking_id", bookingID, "approved_by", user.ID)
	bestEffort(ctx, s.log, s.notifiers.Email, b.Email, notify.BookingConfirmationEmail(b), b.BookingID)
	return b, nil
}

// Reject permanently deletes a third-party request that has not been approved.
func (s *bookingService) Reject(ctx context.Context, user models.RequestingUser, bookingID string) (*models.Booking, error) {
	if err := requireStaff(user); err != nil {
		return nil, err
	}
	b, err := s.bookings.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, s.bookingError(err, "Failed to retrieve booking", bookingID)
	}
	if err := requirePublicRequest(b); err != nil {
		return nil, err
	}
	if b.IsApproved {
		return nil, apperrors.InvalidInput("Booking already approved, cannot reject")
	}
	if _, err := s.bookings.Delete(ctx, bookingID); err != nil {
		return nil, s.bookingError(err, "Failed to reject booking", bookingID)
	}
	s.log.Info("Booking rejected successfully", "booking_id", bookingID)
	return b, nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return nil, s.bookingError(err, "Failed to cancel booking", bookingID)
	}
	s.log.Info("Booking cancelled successfully", "booking_id", bookingID, "total_cancelled", b.TotalCancelled)
	return b, nil
}

func (s *bookingService) Activate(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.bookings.Update(ctx, bookingID, map[string]any{filters.FieldActiveDelivery: true})
	if err != nil {
		return nil, s.bookingError(err, "Failed to activate booking", bookingID)
	}
	s.log.Info("Booking marked as active delivery", "booking_id", bookingID)
	return b, nil
}

// MarkDelivered completes a delivery; the booking leaves the active class and
// starts counting towards revenue.
func (s *bookingService) MarkDelivered(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.bookings.Update(ctx, bookingID, map[string]any{
		filters.FieldIsDelivered:    true,
		filters.FieldActiveDelivery: false,
	})
	if err != nil {
		return nil, s.bookingError(err, "Failed to mark booking delivered", bookingID)
	}
	s.log.Info("Booking marked as delivered", "booking_id", bookingID)
	return b, nil
}

// ResendConfirmation emails the linked customer. Unlike the automatic
// confirmations, a delivery failure is returned to the caller.
func (s *bookingService) ResendConfirmation(ctx context.Context, bookingID string) error {
	b, customer, err := s.withCustomer(ctx, bookingID)
	if err != nil {
		return err
	}
	if customer == nil || customer.EmailID == "" {
		return apperrors.InvalidInput("Customer email not available")
	}

	b.FirstName, b.LastName = customer.FirstName, customer.LastName
	if err := s.notifiers.Email.Send(ctx, customer.EmailID, notify.BookingConfirmationEmail(b)); err != nil {
		s.log.Error("Failed to send booking confirmation email", "booking_id", bookingID, "error", err)
		return apperrors.Internal("Failed to send booking confirmation email", err)
	}
	s.log.Info("Booking confirmation email sent", "booking_id", bookingID)
	return nil
}

func (s *bookingService) SendWhatsApp(ctx context.Context, phone, message string) error {
	if phone == "" || message == "" {
		return apperrors.InvalidInput("Phone and message are required")
	}
	if err := s.notifiers.WhatsApp.Send(ctx, phone, notify.Message{Body: message}); err != nil {
		s.log.Error("Failed to send WhatsApp message", "error", err)
		return apperrors.Internal("Failed to send message", err)
	}
	return nil
}

func (s *bookingService) SendBookingWhatsApp(ctx context.Context, bookingID string) error {
	b, customer, err := s.withCustomer(ctx, bookingID)
	if err != nil {
		return err
	}
	if customer == nil || customer.ContactNumber == "" {
		return apperrors.NotFoundMessage("Customer details incomplete")
	}

	msg := notify.BookingWhatsApp(customer.FullName(), b)
	if err := s.notifiers.WhatsApp.Send(ctx, customer.ContactNumber, msg); err != nil {
		s.log.Error("Failed to send booking confirmation", "booking_id", bookingID, "error", err)
		return apperrors.Internal("Failed to send booking confirmation", err)
	}
	s.log.Info("Booking confirmation sent over WhatsApp", "booking_id", bookingID)
	return nil
}

// withCustomer loads a booking and its linked customer; the customer is nil
// for public requests or when the reference no longer resolves.
func (s *bookingService) withCustomer(ctx context.Context, bookingID string) (*models.Booking, *models.Customer, error) {
	b, err := s.Get(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b.CustomerID == "" {
		return b, nil, nil
	}
	customer, err := s.customers.FindByID(ctx, b.CustomerID)
	if err != nil {
		if isNotFound(err) {
			return b, nil, nil
		}
		return nil, nil, storeFailure(s.log, "Failed to load booking customer", err, "booking_id", bookingID)
	}
	return b, customer, nil
}

func (s *bookingService) bookingError(err error, message, bookingID string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if isNotFound(err) {
		return apperrors.NotFoundWithID("Booking", bookingID)
	}
	return storeFailure(s.log, message, err, "booking_id", bookingID)
}

func bookingRecords(bookings []models.Booking) []models.FinancialRecord {
	out := make([]models.FinancialRecord, len(bookings))
	for i := range bookings {
		out[i] = &bookings[i]
	}
	return out
}
