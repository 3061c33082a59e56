package summary

import "bharatparcel/models"

// CAOutcome tells the caller which of the report shapes was produced.
type CAOutcome string

const (
	CAOutcomeOK           CAOutcome = "ok"
	CAOutcomeNoDeliveries CAOutcome = "no_deliveries"
	CAOutcomeNoTaxData    CAOutcome = "no_tax_data"
)

// CAQuery is the caller's report filter, echoed back in every response.
type CAQuery struct {
	Pickup   string `json:"pickup,omitempty"`
	Drop     string `json:"drop,omitempty"`
	FromDate string `json:"fromDate,omitempty"`
	ToDate   string `json:"toDate,omitempty"`
}

func (q CAQuery) Empty() bool {
	return q.Pickup == "" && q.Drop == "" && q.FromDate == "" && q.ToDate == ""
}

type CATotals struct {
	Particulars   string   `json:"particulars"`
	GST           string   `json:"gst"`
	StartStation  string   `json:"startStation"`
	EndStation    string   `json:"endStation"`
	VoucherCount  int      `json:"voucherCount"`
	TaxableValue  float64  `json:"taxableValue"`
	IntegratedTax float64  `json:"integratedTax"`
	CentralTax    float64  `json:"centralTax"`
	StateTax      float64  `json:"stateTax"`
	CessAmount    float64  `json:"cessAmount"`
	InvoiceAmount float64  `json:"invoiceAmount"`
	SenderNames   []string `json:"senderNames,omitempty"`
	CustomerNames []string `json:"customerNames,omitempty"`
}

type Diagnostics struct {
	Message         string   `json:"message"`
	PotentialIssues []string `json:"potentialIssues,omitempty"`
	Suggestion      string   `json:"suggestion,omitempty"`
}

type CAReport struct {
	Outcome     CAOutcome    `json:"outcome"`
	Summary     []CATotals   `json:"summary"`
	Totals      CATotals     `json:"totals"`
	Filters     CAQuery      `json:"filters"`
	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}

// Message is the response message matching the outcome.
func (r CAReport) Message() string {
	switch r.Outcome {
	case CAOutcomeNoDeliveries:
		return "No matching deliveries found"
	case CAOutcomeNoTaxData:
		return "No tax-eligible deliveries found"
	}
	return "CA Details summary fetched successfully"
}

func emptyTotals() CATotals {
	return CATotals{Particulars: "Total"}
}

// NoDeliveries is the report when no delivered booking matches the stations and dates.
func NoDeliveries(q CAQuery) CAReport {
	return CAReport{
		Outcome: CAOutcomeNoDeliveries,
		Summary: []CATotals{},
		Totals:  emptyTotals(),
		Filters: q,
		Diagnostics: &Diagnostics{
			Message: "No delivered bookings found matching pickup/drop/date criteria",
			PotentialIssues: []string{
				"Bookings may not be marked as delivered",
				"Station names may not match exactly",
				"No bookings exist for the date range",
			},
		},
	}
}

// NoTaxData is the report when deliveries match but none carries a positive tax rate.
func NoTaxData(q CAQuery) CAReport {
	return CAReport{
		Outcome: CAOutcomeNoTaxData,
		Summary: []CATotals{},
		Totals:  emptyTotals(),
		Filters: q,
		Diagnostics: &Diagnostics{
			Message:    "Deliveries found but no tax data present",
			Suggestion: "Check if CGST/SGST/IGST values are being recorded properly",
		},
	}
}

// BuildCAReport derives tax amounts from the summed rates of the whole set:
// each tax is round(taxableValue * sum(rate) / 100, 2). This differs from
// summing per-booking tax whenever rates vary across bookings.
func BuildCAReport(agg models.TaxAggregate, q CAQuery) CAReport {
	central := taxOn(agg.TaxableValue, agg.TotalCGSTPercent)
	state := taxOn(agg.TaxableValue, agg.TotalSGSTPercent)
	integrated := taxOn(agg.TaxableValue, agg.TotalIGSTPercent)
	invoice := sum(agg.TaxableValue).Add(central).Add(state).Add(integrated)

	totals := CATotals{
		Particulars:   "Total",
		StartStation:  q.Pickup,
		EndStation:    q.Drop,
		VoucherCount:  agg.VoucherCount,
		TaxableValue:  agg.TaxableValue,
		CentralTax:    central.InexactFloat64(),
		StateTax:      state.InexactFloat64(),
		IntegratedTax: integrated.InexactFloat64(),
		InvoiceAmount: invoice.InexactFloat64(),
		SenderNames:   agg.SenderNames,
		CustomerNames: agg.CustomerNames,
	}
	return CAReport{
		Outcome: CAOutcomeOK,
		Summary: []CATotals{totals},
		Totals:  totals,
		Filters: q,
	}
}
