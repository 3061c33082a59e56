package summary

import (
	"bharatparcel/models"

	"github.com/shopspring/decimal"
)

const (
	PaymentPaid    = "Paid"
	PaymentPartial = "Partial"
	PaymentUnpaid  = "Unpaid"
)

// ClassifyPayment applies the breakdown rule: nothing paid is Unpaid, even
// when nothing is owed either.
func ClassifyPayment(paid, toPay float64) string {
	switch {
	case paid > 0 && toPay > 0:
		return PaymentPartial
	case paid > 0:
		return PaymentPaid
	default:
		return PaymentUnpaid
	}
}

// PaymentRow is a booking with its items split by payment tag.
type PaymentRow struct {
	models.Booking
	Paid          float64 `json:"paid"`
	ToPay         float64 `json:"toPay"`
	PaidAmount    float64 `json:"paidAmount"`
	ToPayAmount   float64 `json:"toPayAmount"`
	ItemsCount    int     `json:"itemsCount"`
	PaymentStatus string  `json:"paymentStatus"`
}

type PaymentBreakdown struct {
	FullyPaid     int `json:"fullyPaid"`
	PartiallyPaid int `json:"partiallyPaid"`
	Unpaid        int `json:"unpaid"`
}

type PaymentSummary struct {
	TotalPaid        float64          `json:"totalPaid"`
	TotalToPay       float64          `json:"totalToPay"`
	GrandTotal       float64          `json:"grandTotal"`
	TotalBookings    int              `json:"totalBookings"`
	PaidBookings     int              `json:"paidBookings"`
	PartialBookings  int              `json:"partialBookings"`
	UnpaidBookings   int              `json:"unpaidBookings"`
	PaymentBreakdown PaymentBreakdown `json:"paymentBreakdown"`
}

// SplitItems sums item amounts tagged paid and pay.
func SplitItems(items []models.Item) (paid, toPay float64) {
	p, t := decimal.Zero, decimal.Zero
	for _, it := range items {
		switch it.ToPay {
		case models.PaymentPaid:
			p = p.Add(decimal.NewFromFloat(it.Amount))
		case models.PaymentPay:
			t = t.Add(decimal.NewFromFloat(it.Amount))
		}
	}
	return p.InexactFloat64(), t.InexactFloat64()
}

// BuildPaymentBreakdown classifies every booking and tallies the listing.
func BuildPaymentBreakdown(bookings []models.Booking) ([]PaymentRow, PaymentSummary) {
	rows := make([]PaymentRow, 0, len(bookings))
	totalPaid, totalToPay := decimal.Zero, decimal.Zero
	s := PaymentSummary{TotalBookings: len(bookings)}

	for _, b := range bookings {
		paid, toPay := SplitItems(b.Items)
		status := ClassifyPayment(paid, toPay)
		rows = append(rows, PaymentRow{
			Booking:       b,
			Paid:          paid,
			ToPay:         toPay,
			PaidAmount:    paid,
			ToPayAmount:   toPay,
			ItemsCount:    len(b.Items),
			PaymentStatus: status,
		})

		totalPaid = totalPaid.Add(decimal.NewFromFloat(paid))
		totalToPay = totalToPay.Add(decimal.NewFromFloat(toPay))
		switch status {
		case PaymentPaid:
			s.PaidBookings++
		case PaymentPartial:
			s.PartialBookings++
		default:
			s.UnpaidBookings++
		}
	}

	s.TotalPaid = totalPaid.InexactFloat64()
	s.TotalToPay = totalToPay.InexactFloat64()
	s.GrandTotal = totalPaid.Add(totalToPay).InexactFloat64()
	s.PaymentBreakdown = PaymentBreakdown{
		FullyPaid:     s.PaidBookings,
		PartiallyPaid: s.PartialBookings,
		Unpaid:        s.UnpaidBookings,
	}
	return rows, s
}

// QuotationRow is a quotation listed by date with its product count.
type QuotationRow struct {
	models.Quotation
	ItemsCount int `json:"itemsCount"`
}

func QuotationRows(quotations []models.Quotation) []QuotationRow {
	out := make([]QuotationRow, 0, len(quotations))
	for _, q := range quotations {
		out = append(out, QuotationRow{Quotation: q, ItemsCount: len(q.ProductDetails)})
	}
	return out
}
