package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bharatparcel/apperrors"
	"bharatparcel/filters"
	"bharatparcel/logger"
	"bharatparcel/models"
	"bharatparcel/repository"
	"bharatparcel/summary"
	"bharatparcel/utils"
)

type ReportService interface {
	CustomerSummary(ctx context.Context, dates models.DateRange) ([]summary.CustomerSummary, error)
	OverallSummary(ctx context.Context, dates models.DateRange) (summary.OverallSummary, error)
	CAReport(ctx context.Context, q summary.CAQuery, dates models.DateRange) (*summary.CAReport, error)
	PaymentBreakdown(ctx context.Context, user models.RequestingUser, dates models.DateRange) (*PaymentReport, error)
	Invoice(ctx context.Context, customerName string, dates models.DateRange) (*Invoice, error)
}

// InvoiceArchive stores rendered invoices and returns where they can be fetched.
type InvoiceArchive interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

type PaymentReport struct {
	Summary  summary.PaymentSummary `json:"summary"`
	Bookings []summary.PaymentRow   `json:"bookings"`
}

type Invoice struct {
	Customer *models.Customer
	Filename string
	PDF      []byte
	// URL is empty when archiving is disabled or failed.
	URL string
}

type reportService struct {
	bookings  repository.BookingRepository
	stations  repository.StationRepository
	customers repository.CustomerRepository
	renderer  utils.InvoiceRenderer
	archive   InvoiceArchive
	company   summary.Company
	log       *logger.Logger
}

// NewReportService wires the report workflows. archive may be nil.
func NewReportService(
	bookings repository.BookingRepository,
	stations repository.StationRepository,
	customers repository.CustomerRepository,
	renderer utils.InvoiceRenderer,
	archive InvoiceArchive,
	company summary.Company,
	log *logger.Logger,
) ReportService {
	return &reportService{
		bookings:  bookings,
		stations:  stations,
		customers: customers,
		renderer:  renderer,
		archive:   archive,
		company:   company,
		log:       log,
	}
}

func requireWindow(dates models.DateRange, message string) error {
	if dates.From.IsZero() || dates.To.IsZero() {
		return apperrors.InvalidInput(message)
	}
	if dates.To.Before(dates.From) {
		return apperrors.InvalidInput("toDate must not be before fromDate")
	}
	return nil
}

func (s *reportService) CustomerSummary(ctx context.Context, dates models.DateRange) ([]summary.CustomerSummary, error) {
	if err := requireWindow(dates, "fromDate and endDate are required"); err != nil {
		return nil, err
	}
	rows, err := s.bookings.AggregateByCustomer(ctx, filters.DateWindow(filters.FieldBookingDate, dates))
	if err != nil {
		return nil, storeFailure(s.log, "Failed to summarise bookings by customer", err)
	}
	return summary.Customers(rows), nil
}

func (s *reportService) OverallSummary(ctx context.Context, dates models.DateRange) (summary.OverallSummary, error) {
	if err := requireWindow(dates, "fromDate and endDate are required"); err != nil {
		return summary.OverallSummary{}, err
	}
	p := filters.And(
		filters.Eq(filters.FieldIsDelivered, true),
		filters.DateWindow(filters.FieldBookingDate, dates),
	)
	agg, err := s.bookings.AggregateOverall(ctx, p)
	if err != nil {
		return summary.OverallSummary{}, storeFailure(s.log, "Failed to summarise delivered bookings", err)
	}
	return summary.Overall(agg), nil
}

// CAReport distinguishes "no delivered booking matched" from "deliveries
// matched but none carries tax"; both are successful, empty reports.
func (s *reportService) CAReport(ctx context.Context, q summary.CAQuery, dates models.DateRange) (*summary.CAReport, error) {
	q.Pickup = strings.TrimSpace(q.Pickup)
	q.Drop = strings.TrimSpace(q.Drop)
	if q.Empty() && dates.From.IsZero() && dates.To.IsZero() {
		return nil, apperrors.InvalidInput("At least one filter (pickup, drop, or date range) is required")
	}

	f := filters.CAFilter{Dates: dates}
	if q.Pickup != "" {
		st, err := resolveStation(ctx, s.stations, s.log, q.Pickup, "Pickup")
		if err != nil {
			return nil, err
		}
		f.StartStation = st.ID
	}
	if q.Drop != "" {
		st, err := resolveStation(ctx, s.stations, s.log, q.Drop, "Drop")
		if err != nil {
			return nil, err
		}
		f.EndStation = st.ID
	}

	found, err := s.bookings.Exists(ctx, filters.BuildDeliveredBase(f))
	if err != nil {
		return nil, storeFailure(s.log, "Failed to check delivered bookings", err)
	}
	if !found {
		r := summary.NoDeliveries(q)
		return &r, nil
	}

	agg, err := s.bookings.AggregateTax(ctx, filters.BuildTaxFilter(f))
	if err != nil {
		return nil, storeFailure(s.log, "Failed to aggregate tax data", err)
	}
	if agg == nil {
		r := summary.NoTaxData(q)
		return &r, nil
	}

	r := summary.BuildCAReport(*agg, q)
	s.log.Info("CA report generated",
		"pickup", q.Pickup,
		"drop", q.Drop,
		"vouchers", agg.VoucherCount,
	)
	return &r, nil
}

func (s *reportService) PaymentBreakdown(ctx context.Context, user models.RequestingUser, dates models.DateRange) (*PaymentReport, error) {
	if err := requireWindow(dates, "Both fromDate and toDate are required"); err != nil {
		return nil, err
	}
	p := filters.OwnedBy(filters.DateWindow(filters.FieldBookingDate, dates), user)
	bookings, err := s.bookings.Find(ctx, p, repository.FindOptions{SortBy: filters.FieldBookingDate, Desc: true})
	if err != nil {
		return nil, storeFailure(s.log, "Failed to list bookings by date", err)
	}
	rows, totals := summary.BuildPaymentBreakdown(bookings)
	return &PaymentReport{Summary: totals, Bookings: rows}, nil
}

func (s *reportService) Invoice(ctx context.Context, customerName string, dates models.DateRange) (*Invoice, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" || dates.From.IsZero() || dates.To.IsZero() {
		return nil, apperrors.InvalidInput("customerName, fromDate, and toDate are required")
	}

	customer, err := s.customers.SearchByName(ctx, customerName)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Customer").WithDetails(map[string]any{
				"customerSearchTerm": customerName,
			})
		}
		return nil, storeFailure(s.log, "Failed to search customers", err, "customer", customerName)
	}

	owned := filters.Eq(filters.FieldCustomerID, customer.ID)
	bookings, err := s.bookings.Find(ctx,
		filters.And(owned, filters.DateWindow(filters.FieldBookingDate, dates)),
		repository.FindOptions{SortBy: filters.FieldBookingDate},
	)
	if err != nil {
		return nil, storeFailure(s.log, "Failed to list customer bookings", err, "customer_id", customer.ID)
	}
	if len(bookings) == 0 {
		return nil, s.noInvoiceBookings(ctx, customer, dates)
	}

	data := summary.BuildInvoice(s.company, customer, bookings)
	pdf, err := s.renderer.RenderInvoice(ctx, &data)
	if err != nil {
		return nil, storeFailure(s.log, "Failed to render invoice", err, "customer_id", customer.ID)
	}

	inv := &Invoice{
		Customer: customer,
		Filename: customer.FirstName + "_Invoice.pdf",
		PDF:      pdf,
	}
	if s.archive != nil {
		key := fmt.Sprintf("%s_Invoice_%s.pdf", customer.ID, time.Now().UTC().Format("20060102150405"))
		url, err := s.archive.Upload(ctx, pdf, key)
		if err != nil {
			s.log.Warn("Invoice archive failed", "customer_id", customer.ID, "error", err)
		} else {
			inv.URL = url
		}
	}

	s.log.Info("Invoice generated",
		"customer_id", customer.ID,
		"bookings", len(bookings),
		"grand_total", data.GrandTotal,
	)
	return inv, nil
}

// noInvoiceBookings is the 404 for an empty window; it lists the dates the
// customer does have bookings on.
func (s *reportService) noInvoiceBookings(ctx context.Context, customer *models.Customer, dates models.DateRange) error {
	all, err := s.bookings.Find(ctx,
		filters.Eq(filters.FieldCustomerID, customer.ID),
		repository.FindOptions{SortBy: filters.FieldBookingDate},
	)
	if err != nil {
		return storeFailure(s.log, "Failed to list customer bookings", err, "customer_id", customer.ID)
	}

	available := make([]map[string]any, 0, len(all))
	for _, b := range all {
		available = append(available, map[string]any{
			"id":           b.BookingID,
			"date":         b.BookingDate,
			"billTotal":    b.BillTotal,
			"receiverName": b.ReceiverName,
		})
	}
	return apperrors.NotFoundMessage("No bookings found in the given date range").WithDetails(map[string]any{
		"customer": map[string]any{
			"id":   customer.ID,
			"name": models.FullName(customer.FirstName, "", customer.LastName),
		},
		"requestedDateRange": map[string]any{
			"from": dates.From.Format(time.RFC3339),
			"to":   dates.To.Format(time.RFC3339),
		},
		"availableBookingsDates": available,
	})
}
