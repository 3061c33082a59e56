// Package summary derives revenue, tax and payment summaries from grouped
// booking aggregates and booking listings. Nothing here touches a store.
package summary

import (
	"bharatparcel/models"

	"github.com/shopspring/decimal"
)

type CustomerSummary struct {
	CustomerID    string  `json:"_id"`
	CustomerName  string  `json:"customerName"`
	TotalBookings int     `json:"totalBookings"`
	BillTotal     float64 `json:"billTotal"`
	TaxAmount     float64 `json:"taxAmount"`
}

// Customers derives per-customer summaries with the flat tax rate applied.
func Customers(rows []models.CustomerAggregate) []CustomerSummary {
	out := make([]CustomerSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, CustomerSummary{
			CustomerID:    r.CustomerID,
			CustomerName:  models.FullName(r.FirstName, r.MiddleName, r.LastName),
			TotalBookings: r.TotalBookings,
			BillTotal:     r.BillTotal,
			TaxAmount:     flatTax(r.BillTotal),
		})
	}
	return out
}

type OverallSummary struct {
	TotalBookings int     `json:"totalBookings"`
	BillTotal     float64 `json:"billTotal"`
	TaxAmount     float64 `json:"taxAmount"`
}

// Overall derives the delivered-bookings summary; nil means the window was empty.
func Overall(agg *models.OverallAggregate) OverallSummary {
	if agg == nil {
		return OverallSummary{}
	}
	return OverallSummary{
		TotalBookings: agg.TotalBookings,
		BillTotal:     agg.BillTotal,
		TaxAmount:     flatTax(agg.BillTotal),
	}
}

func flatTax(billTotal float64) float64 {
	return decimal.NewFromFloat(billTotal).Mul(FlatTaxRate).InexactFloat64()
}
