package summary

import (
	"bharatparcel/models"
	"bharatparcel/utils"

	"github.com/shopspring/decimal"
)

const receiverWidth = 32

type Company struct {
	Name    string
	Address string
	GSTIN   string
}

// BuildInvoice lays out one line per booking. CGST and SGST on each line are
// amounts derived from the booking's rates, not the rates themselves.
func BuildInvoice(company Company, customer *models.Customer, bookings []models.Booking) models.InvoicePDFData {
	data := models.InvoicePDFData{
		CompanyName:    company.Name,
		CompanyAddress: company.Address,
		CompanyGSTIN:   company.GSTIN,
		PartyName:      customer.FullName(),
		PartyEmail:     customer.EmailID,
		Lines:          make([]models.InvoiceLine, 0, len(bookings)),
	}

	amount, cgst, sgst := decimal.Zero, decimal.Zero, decimal.Zero
	for i, b := range bookings {
		lineCGST := taxOn(b.BillTotal, b.CGST)
		lineSGST := taxOn(b.BillTotal, b.SGST)
		data.Lines = append(data.Lines, models.InvoiceLine{
			SNo:      i + 1,
			Date:     DisplayDate(b.BookingDate),
			Receiver: truncate(b.ReceiverName, receiverWidth),
			Amount:   b.BillTotal,
			CGST:     lineCGST.InexactFloat64(),
			SGST:     lineSGST.InexactFloat64(),
		})
		amount = amount.Add(decimal.NewFromFloat(b.BillTotal))
		cgst = cgst.Add(lineCGST)
		sgst = sgst.Add(lineSGST)
	}

	grand := amount.Add(cgst).Add(sgst).RoundBank(2)
	data.TotalAmount = amount.RoundBank(2).InexactFloat64()
	data.TotalCGST = cgst.InexactFloat64()
	data.TotalSGST = sgst.InexactFloat64()
	data.GrandTotal = grand.InexactFloat64()
	data.TotalWords = utils.NumberToCurrencyWords(data.GrandTotal)
	return data
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
