package service

import (
	"context"
	"errors"
	"strings"

	"bharatparcel/apperrors"
	"bharatparcel/filters"
	"bharatparcel/logger"
	"bharatparcel/models"
	"bharatparcel/notify"
	"bharatparcel/repository"
	"bharatparcel/summary"
)

type QuotationService interface {
	Create(ctx context.Context, user models.RequestingUser, in *models.QuotationInput) (*models.Quotation, error)
	List(ctx context.Context, user models.RequestingUser) ([]summary.StatusRow, error)
	Get(ctx context.Context, bookingID string) (*models.Quotation, error)
	Update(ctx context.Context, bookingID string, upd *models.QuotationUpdate) (*models.Quotation, error)
	Delete(ctx context.Context, bookingID string) error

	StatusList(ctx context.Context, status filters.StatusType, user models.RequestingUser) ([]summary.StatusRow, error)
	Count(ctx context.Context, status filters.StatusType, user models.RequestingUser) (int64, error)
	RevenueList(ctx context.Context, status filters.StatusType, user models.RequestingUser) (*summary.RevenueList, error)
	TotalRevenue(ctx context.Context, user models.RequestingUser) (string, error)
	ListByDate(ctx context.Context, user models.RequestingUser, dates models.DateRange) ([]summary.QuotationRow, error)

	SetActive(ctx context.Context, bookingID string, active bool) (*models.Quotation, error)
	SendEmail(ctx context.Context, bookingID string) error
	SendWhatsApp(ctx context.Context, bookingID string) error
}

type quotationService struct {
	quotations repository.QuotationRepository
	stations   repository.StationRepository
	customers  repository.CustomerRepository
	notifiers  Notifiers
	validator  *Validator
	log        *logger.Logger
}

func NewQuotationService(
	quotations repository.QuotationRepository,
	stations repository.StationRepository,
	customers repository.CustomerRepository,
	notifiers Notifiers,
	v *Validator,
	log *logger.Logger,
) QuotationService {
	return &quotationService{
		quotations: quotations,
		stations:   stations,
		customers:  customers,
		notifiers:  notifiers.withDefaults(),
		validator:  v,
		log:        log,
	}
}

func (s *quotationService) Create(ctx context.Context, user models.RequestingUser, in *models.QuotationInput) (*models.Quotation, error) {
	if err := requireStaff(user); err != nil {
		return nil, err
	}
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	switch {
	case in.FirstName == "" || in.LastName == "":
		return nil, apperrors.InvalidInput("Customer first and last name are required")
	case strings.TrimSpace(in.StartStationName) == "":
		return nil, apperrors.InvalidInput("Start station name is required")
	case strings.TrimSpace(in.EndStation) == "":
		return nil, apperrors.InvalidInput("End station is required")
	case len(in.ProductDetails) == 0:
		return nil, apperrors.InvalidInput("At least one product must be provided")
	}
	if err := s.validator.Validate(in); err != nil {
		s.log.Warn("Quotation validation failed", "customer", in.FirstName+" "+in.LastName, "error", err)
		return nil, validationFailed("Invalid product details", err)
	}

	customer, err := s.customers.FindByName(ctx, in.FirstName, in.LastName)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Customer")
		}
		return nil, storeFailure(s.log, "Failed to look up customer", err, "first_name", in.FirstName)
	}
	station, err := s.stations.ResolveName(ctx, in.StartStationName)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Start station")
		}
		return nil, storeFailure(s.log, "Failed to resolve station", err, "station_name", in.StartStationName)
	}

	middle := customer.MiddleName
	if middle == "" {
		middle = in.MiddleName
	}
	q := &models.Quotation{
		CustomerID:           customer.ID,
		StartStation:         station.ID,
		StartStationName:     station.StationName,
		EndStation:           in.EndStation,
		FirstName:            customer.FirstName,
		MiddleName:           middle,
		LastName:             customer.LastName,
		Mobile:               customer.ContactNumber,
		Email:                customer.EmailID,
		Locality:             in.Locality,
		QuotationDate:        in.QuotationDate,
		ProposedDeliveryDate: in.ProposedDeliveryDate,
		FromCustomerName:     in.FromCustomerName,
		FromAddress:          in.FromAddress,
		FromCity:             in.FromCity,
		FromState:            in.FromState,
		FromPincode:          in.FromPincode,
		ToCustomerName:       in.ToCustomerName,
		ToAddress:            in.ToAddress,
		ToCity:               in.ToCity,
		ToState:              in.ToState,
		ToPincode:            in.ToPincode,
		AdditionalCmt:        in.AdditionalCmt,
		ProductDetails:       in.ProductDetails,
		Amount:               in.Amount,
		STax:                 in.STax,
		GrandTotal:           in.GrandTotal,
	}
	q.CreatedByUser = user.ID
	q.CreatedByRole = user.Role
	q.RequestedByRole = user.Role

	if err := s.quotations.Create(ctx, q); err != nil {
		return nil, storeFailure(s.log, "Failed to create quotation", err, "customer_id", customer.ID)
	}

	s.log.Info("Quotation created successfully",
		"booking_id", q.BookingID,
		"customer_id", q.CustomerID,
		"created_by", user.ID,
	)
	bestEffort(ctx, s.log, s.notifiers.Email, q.Email, notify.QuotationEmail(q), q.BookingID)
	return q, nil
}

func (s *quotationService) find(ctx context.Context, p filters.Predicate, what string) ([]models.Quotation, error) {
	quotations, err := s.quotations.Find(ctx, p, repository.FindOptions{SortBy: "createdAt", Desc: true})
	if err != nil {
		return nil, storeFailure(s.log, "Failed to list "+what, err)
	}
	return quotations, nil
}

func (s *quotationService) List(ctx context.Context, user models.RequestingUser) ([]summary.StatusRow, error) {
	quotations, err := s.find(ctx, filters.OwnedBy(filters.And(), user), "quotations")
	if err != nil {
		return nil, err
	}
	return summary.QuotationStatusRows(quotations), nil
}

func (s *quotationService) Get(ctx context.Context, bookingID string) (*models.Quotation, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID is required")
	}
	q, err := s.quotations.FindByBookingID(ctx, bookingID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFoundMessage("Quotation not found with the provided Booking ID")
		}
		return nil, storeFailure(s.log, "Failed to retrieve quotation", err, "booking_id", bookingID)
	}
	return q, nil
}

func (s *quotationService) Update(ctx context.Context, bookingID string, upd *models.QuotationUpdate) (*models.Quotation, error) {
	if err := s.validator.Validate(upd); err != nil {
		s.log.Warn("Quotation update validation failed", "booking_id", bookingID, "error", err)
		return nil, validationFailed("Quotation validation failed", err)
	}
	fields := upd.Fields()
	if len(fields) == 0 {
		return nil, apperrors.InvalidInput("No fields to update")
	}

	q, err := s.quotations.Update(ctx, bookingID, fields)
	if err != nil {
		return nil, s.quotationError(err, "Failed to update quotation", bookingID)
	}
	s.log.Info("Quotation updated successfully", "booking_id", bookingID)
	return q, nil
}

func (s *quotationService) Delete(ctx context.Context, bookingID string) error {
	if err := s.quotations.Delete(ctx, bookingID); err != nil {
		return s.quotationError(err, "Failed to delete quotation", bookingID)
	}
	s.log.Info("Quotation deleted successfully", "booking_id", bookingID)
	return nil
}

func (s *quotationService) StatusList(ctx context.Context, status filters.StatusType, user models.RequestingUser) ([]summary.StatusRow, error) {
	quotations, err := s.find(ctx, filters.BuildStatusFilter(status, user), string(status)+" quotations")
	if err != nil {
		return nil, err
	}
	return summary.QuotationStatusRows(quotations), nil
}

func (s *quotationService) Count(ctx context.Context, status filters.StatusType, user models.RequestingUser) (int64, error) {
	n, err := s.quotations.Count(ctx, filters.BuildStatusFilter(status, user))
	if err != nil {
		return 0, storeFailure(s.log, "Failed to count quotations", err, "status", status)
	}
	return n, nil
}

func (s *quotationService) RevenueList(ctx context.Context, status filters.StatusType, user models.RequestingUser) (*summary.RevenueList, error) {
	quotations, err := s.quotations.Find(ctx, filters.BuildRevenueFilter(status, user), repository.FindOptions{})
	if err != nil {
		return nil, storeFailure(s.log, "Failed to list quotation revenue", err, "status", status)
	}
	list := summary.BuildRevenueList(quotationRecords(quotations), summary.RevenueOptions{})
	return &list, nil
}

// TotalRevenue sums amount plus service tax over every quotation the caller can see.
func (s *quotationService) TotalRevenue(ctx context.Context, user models.RequestingUser) (string, error) {
	quotations, err := s.quotations.Find(ctx, filters.OwnedBy(filters.And(), user), repository.FindOptions{})
	if err != nil {
		return "", storeFailure(s.log, "Failed to compute quotation revenue", err)
	}
	return summary.TotalRevenue(quotationRecords(quotations)), nil
}

func (s *quotationService) ListByDate(ctx context.Context, user models.RequestingUser, dates models.DateRange) ([]summary.QuotationRow, error) {
	if dates.From.IsZero() || dates.To.IsZero() {
		return nil, apperrors.InvalidInput("Both fromDate and toDate are required")
	}
	p := filters.OwnedBy(filters.DateWindow(filters.FieldQuotationDate, dates), user)
	quotations, err := s.quotations.Find(ctx, p, repository.FindOptions{SortBy: filters.FieldQuotationDate, Desc: true})
	if err != nil {
		return nil, storeFailure(s.log, "Failed to list quotations by date", err)
	}
	return summary.QuotationRows(quotations), nil
}

// SetActive marks a quotation active (clearing its cancellation) or cancelled.
func (s *quotationService) SetActive(ctx context.Context, bookingID string, active bool) (*models.Quotation, error) {
	cancelled := 1
	if active {
		cancelled = 0
	}
	q, err := s.quotations.Update(ctx, bookingID, map[string]any{
		filters.FieldActiveDelivery: active,
		filters.FieldTotalCancelled: cancelled,
		"cancelReason":              "",
	})
	if err != nil {
		return nil, s.quotationError(err, "Failed to update quotation status", bookingID)
	}
	s.log.Info("Quotation status updated", "booking_id", bookingID, "active", active)
	return q, nil
}

func (s *quotationService) withCustomer(ctx context.Context, bookingID string) (*models.Quotation, *models.Customer, error) {
	q, err := s.quotations.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, nil, s.quotationError(err, "Failed to retrieve quotation", bookingID)
	}
	if q.CustomerID == "" {
		return q, nil, nil
	}
	customer, err := s.customers.FindByID(ctx, q.CustomerID)
	if err != nil {
		if isNotFound(err) {
			return q, nil, nil
		}
		return nil, nil, storeFailure(s.log, "Failed to load quotation customer", err, "booking_id", bookingID)
	}
	return q, customer, nil
}

func (s *quotationService) SendEmail(ctx context.Context, bookingID string) error {
	q, customer, err := s.withCustomer(ctx, bookingID)
	if err != nil {
		return err
	}
	if customer == nil || customer.EmailID == "" {
		return apperrors.InvalidInput("Customer email not available")
	}
	q.FirstName, q.LastName = customer.FirstName, customer.LastName
	if err := s.notifiers.Email.Send(ctx, customer.EmailID, notify.QuotationEmail(q)); err != nil {
		s.log.Error("Failed to send quotation email", "booking_id", bookingID, "error", err)
		return apperrors.Internal("Failed to send quotation email", err)
	}
	s.log.Info("Quotation email sent", "booking_id", bookingID)
	return nil
}

func (s *quotationService) SendWhatsApp(ctx context.Context, bookingID string) error {
	q, customer, err := s.withCustomer(ctx, bookingID)
	if err != nil {
		return err
	}
	phone := q.Mobile
	if customer != nil && customer.ContactNumber != "" {
		phone = customer.ContactNumber
	}
	if phone == "" {
		return apperrors.NotFoundMessage("Customer details incomplete")
	}
	if err := s.notifiers.WhatsApp.Send(ctx, phone, notify.QuotationWhatsApp(q)); err != nil {
		s.log.Error("Failed to send quotation confirmation", "booking_id", bookingID, "error", err)
		return apperrors.Internal("Failed to send quotation confirmation", err)
	}
	s.log.Info("Quotation confirmation sent over WhatsApp", "booking_id", bookingID)
	return nil
}

func (s *quotationService) quotationError(err error, message, bookingID string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if isNotFound(err) {
		return apperrors.NotFoundWithID("Quotation", bookingID)
	}
	return storeFailure(s.log, message, err, "booking_id", bookingID)
}

func quotationRecords(quotations []models.Quotation) []models.FinancialRecord {
	out := make([]models.FinancialRecord, len(quotations))
	for i := range quotations {
		out[i] = &quotations[i]
	}
	return out
}
