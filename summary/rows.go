package summary

import (
	"fmt"

	"bharatparcel/models"

	"github.com/shopspring/decimal"
)

type RowActions struct {
	View   string `json:"view"`
	Edit   string `json:"edit"`
	Delete string `json:"delete"`
}

func bookingActions(id string) *RowActions {
	return &RowActions{
		View:   "/bookings/" + id,
		Edit:   "/bookings/edit/" + id,
		Delete: "/bookings/delete/" + id,
	}
}

// StatusRow is one line of a status-filtered booking or quotation list.
type StatusRow struct {
	SNo       int         `json:"SNo"`
	OrderBy   string      `json:"orderBy"`
	Date      string      `json:"date"`
	FromName  string      `json:"fromName"`
	Pickup    string      `json:"pickup"`
	ToName    string      `json:"toName"`
	Drop      string      `json:"drop"`
	Contact   string      `json:"contact"`
	BookingID string      `json:"bookingId"`
	Action    *RowActions `json:"action,omitempty"`
}

// OrderBy labels who placed the record.
func OrderBy(requestedByRole, createdByRole, pickup string) string {
	switch {
	case requestedByRole == models.RolePublic:
		return "Third Party"
	case createdByRole == models.RoleAdmin:
		return "Admin"
	case createdByRole == models.RoleSupervisor:
		return fmt.Sprintf("Supervisor (%s)", orNA(pickup))
	}
	return notAvailable
}

// BookingStatusRows builds list rows, skipping bookings whose stations did not resolve.
func BookingStatusRows(bookings []models.Booking) []StatusRow {
	rows := make([]StatusRow, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		if b.StartStationDoc == nil || b.EndStationDoc == nil {
			continue
		}
		rows = append(rows, StatusRow{
			SNo:       len(rows) + 1,
			OrderBy:   OrderBy(b.RequestedByRole, b.CreatedByRole, b.PickupName()),
			Date:      orNA(DisplayDate(b.BookingDate)),
			FromName:  orNA(b.SenderName),
			Pickup:    orNA(b.PickupName()),
			ToName:    orNA(b.ReceiverName),
			Drop:      orNA(b.DropName()),
			Contact:   orNA(b.Mobile),
			BookingID: b.BookingID,
			Action:    bookingActions(b.BookingID),
		})
	}
	return rows
}

// QuotationStatusRows builds list rows for quotations; the name falls back to
// the denormalised contact when no customer is linked.
func QuotationStatusRows(quotations []models.Quotation) []StatusRow {
	rows := make([]StatusRow, 0, len(quotations))
	for i := range quotations {
		q := &quotations[i]
		rows = append(rows, StatusRow{
			SNo:       i + 1,
			OrderBy:   OrderBy(q.RequestedByRole, q.CreatedByRole, q.PickupName()),
			Date:      DisplayDate(q.QuotationDate),
			FromName:  q.CustomerName(),
			Pickup:    orNA(q.PickupName()),
			ToName:    q.ToCustomerName,
			Drop:      q.DropName(),
			Contact:   q.Mobile,
			BookingID: q.BookingID,
			Action: &RowActions{
				View:   "/api/quotations/" + q.BookingID,
				Edit:   "/api/quotations/edit/" + q.BookingID,
				Delete: "/api/quotations/delete/" + q.BookingID,
			},
		})
	}
	return rows
}

type RevenueRow struct {
	SNo       int         `json:"SNo"`
	BookingID string      `json:"bookingId"`
	Date      string      `json:"date"`
	Pickup    string      `json:"pickup"`
	Drop      string      `json:"drop"`
	Revenue   string      `json:"revenue"`
	Action    *RowActions `json:"action,omitempty"`
}

type RevenueList struct {
	TotalRevenue string       `json:"totalRevenue"`
	Count        int          `json:"count"`
	Data         []RevenueRow `json:"data"`
}

// RevenueOptions controls how records without resolved stations are listed.
type RevenueOptions struct {
	SkipUnresolved bool
	WithActions    bool
}

// BuildRevenueList lists records with ISO dates and two-decimal revenue.
// The total covers every record, including skipped ones.
func BuildRevenueList(records []models.FinancialRecord, opts RevenueOptions) RevenueList {
	total := decimal.Zero
	rows := make([]RevenueRow, 0, len(records))
	for _, r := range records {
		total = total.Add(decimal.NewFromFloat(r.Revenue()))
		pickup, drop := r.PickupName(), r.DropName()
		if opts.SkipUnresolved && (pickup == "" || drop == "") {
			continue
		}
		row := RevenueRow{
			SNo:       len(rows) + 1,
			BookingID: r.RecordID(),
			Date:      ISODate(r.RecordDate()),
			Pickup:    unknownIfEmpty(pickup),
			Drop:      unknownIfEmpty(drop),
			Revenue:   Fixed2(r.Revenue()),
		}
		if opts.WithActions {
			row.Action = bookingActions(r.RecordID())
		}
		rows = append(rows, row)
	}
	return RevenueList{
		TotalRevenue: total.StringFixed(2),
		Count:        len(rows),
		Data:         rows,
	}
}

// TotalRevenue sums record revenue as a two-decimal string.
func TotalRevenue(records []models.FinancialRecord) string {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(decimal.NewFromFloat(r.Revenue()))
	}
	return total.StringFixed(2)
}

func unknownIfEmpty(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// BookingView is the detail view of a single booking.
type BookingView struct {
	BookingID        string        `json:"bookingId"`
	FirstName        string        `json:"firstName"`
	LastName         string        `json:"lastName"`
	Mobile           string        `json:"mobile"`
	Email            string        `json:"email"`
	BookingDate      string        `json:"bookingDate"`
	DeliveryDate     string        `json:"deliveryDate"`
	SenderName       string        `json:"senderName"`
	SenderGgt        string        `json:"senderGgt"`
	FromState        string        `json:"fromState"`
	FromCity         string        `json:"fromCity"`
	SenderPincode    string        `json:"senderPincode"`
	SenderLocality   string        `json:"senderLocality"`
	ReceiverName     string        `json:"receiverName"`
	ReceiverGgt      string        `json:"receiverGgt"`
	ReceiverLocality string        `json:"receiverLocality"`
	ToState          string        `json:"toState"`
	ToCity           string        `json:"toCity"`
	ToPincode        string        `json:"toPincode"`
	Items            []models.Item `json:"items"`
	Freight          float64       `json:"freight"`
	InsVPP           float64       `json:"ins_vpp"`
	CGST             float64       `json:"cgst"`
	SGST             float64       `json:"sgst"`
	IGST             float64       `json:"igst"`
	BillTotal        float64       `json:"billTotal"`
	GrandTotal       float64       `json:"grandTotal"`
	StartStation     StationBrief  `json:"startStation"`
	EndStation       StationBrief  `json:"endStation"`
}

type StationBrief struct {
	StationName string `json:"stationName"`
	GST         string `json:"gst,omitempty"`
	Address     string `json:"address,omitempty"`
	Contact     string `json:"contact,omitempty"`
}

func ViewBooking(b *models.Booking) BookingView {
	v := BookingView{
		BookingID:        b.BookingID,
		FirstName:        b.FirstName,
		LastName:         b.LastName,
		Mobile:           b.Mobile,
		Email:            b.Email,
		BookingDate:      DisplayDate(b.BookingDate),
		DeliveryDate:     DisplayDate(b.DeliveryDate),
		SenderName:       b.SenderName,
		SenderGgt:        b.SenderGgt,
		FromState:        b.FromState,
		FromCity:         b.FromCity,
		SenderPincode:    b.SenderPincode,
		SenderLocality:   b.SenderLocality,
		ReceiverName:     b.ReceiverName,
		ReceiverGgt:      b.ReceiverGgt,
		ReceiverLocality: b.ReceiverLocality,
		ToState:          b.ToState,
		ToCity:           b.ToCity,
		ToPincode:        b.ToPincode,
		Items:            b.Items,
		Freight:          b.Freight,
		InsVPP:           b.InsVPP,
		CGST:             b.CGST,
		SGST:             b.SGST,
		IGST:             b.IGST,
		BillTotal:        b.BillTotal,
		GrandTotal:       b.GrandTotal,
	}
	if s := b.StartStationDoc; s != nil {
		v.StartStation = StationBrief{StationName: s.StationName, GST: s.GST, Address: s.Address, Contact: s.Contact}
	}
	if s := b.EndStationDoc; s != nil {
		v.EndStation = StationBrief{StationName: s.StationName}
	}
	return v
}
