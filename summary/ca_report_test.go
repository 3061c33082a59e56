package summary

import (
	"testing"

	"bharatparcel/models"
)

func TestBuildCAReport_Amounts(t *testing.T) {
	agg := models.TaxAggregate{
		VoucherCount:     2,
		TaxableValue:     1000,
		TotalCGSTPercent: 9,
		TotalSGSTPercent: 9,
		TotalIGSTPercent: 0,
	}
	r := BuildCAReport(agg, CAQuery{Pickup: "Delhi"})

	if r.Outcome != CAOutcomeOK {
		t.Fatalf("expected ok outcome, got %s", r.Outcome)
	}
	got := r.Totals
	if got.CentralTax != 90.00 {
		t.Errorf("centralTax = %v, want 90.00", got.CentralTax)
	}
	if got.StateTax != 90.00 {
		t.Errorf("stateTax = %v, want 90.00", got.StateTax)
	}
	if got.IntegratedTax != 0 {
		t.Errorf("integratedTax = %v, want 0.00", got.IntegratedTax)
	}
	if got.InvoiceAmount != 1180.00 {
		t.Errorf("invoiceAmount = %v, want 1180.00", got.InvoiceAmount)
	}
	if got.CessAmount != 0 || got.Particulars != "Total" || got.StartStation != "Delhi" || got.EndStation != "" {
		t.Errorf("unexpected totals echo: %+v", got)
	}
	if len(r.Summary) != 1 || r.Diagnostics != nil {
		t.Errorf("expected one summary group and no diagnostics, got %+v", r)
	}
}

func TestBuildCAReport_SummedRatesQuirk(t *testing.T) {
	// Two bookings: 100 at 9% and 300 at 0%. Per-booking tax would be 9;
	// the summed-rate derivation yields 400 * 9 / 100 = 36.
	agg := models.TaxAggregate{VoucherCount: 2, TaxableValue: 400, TotalCGSTPercent: 9}
	if got := BuildCAReport(agg, CAQuery{}).Totals.CentralTax; got != 36 {
		t.Errorf("centralTax = %v, want 36", got)
	}
}

func TestBuildCAReport_Rounding(t *testing.T) {
	agg := models.TaxAggregate{TaxableValue: 333.33, TotalCGSTPercent: 2.5}
	// 333.33 * 2.5 / 100 = 8.33325
	if got := BuildCAReport(agg, CAQuery{}).Totals.CentralTax; got != 8.33 {
		t.Errorf("centralTax = %v, want 8.33", got)
	}
}

func TestEmptyShapesAreDistinct(t *testing.T) {
	q := CAQuery{Drop: "Mumbai", FromDate: "2024-01-01"}
	none := NoDeliveries(q)
	noTax := NoTaxData(q)

	if none.Outcome == noTax.Outcome {
		t.Fatal("empty outcomes must differ")
	}
	if none.Diagnostics.Message == noTax.Diagnostics.Message {
		t.Error("diagnostic messages must differ")
	}
	if none.Message() == noTax.Message() {
		t.Error("response messages must differ")
	}
	for _, r := range []CAReport{none, noTax} {
		if len(r.Summary) != 0 {
			t.Errorf("%s: expected empty summary", r.Outcome)
		}
		if r.Totals.VoucherCount != 0 || r.Totals.TaxableValue != 0 || r.Totals.InvoiceAmount != 0 {
			t.Errorf("%s: expected zeroed totals, got %+v", r.Outcome, r.Totals)
		}
		if r.Filters != q {
			t.Errorf("%s: filters not echoed", r.Outcome)
		}
	}
	if len(none.Diagnostics.PotentialIssues) == 0 {
		t.Error("no-deliveries shape should list potential issues")
	}
	if noTax.Diagnostics.Suggestion == "" {
		t.Error("no-tax shape should carry a suggestion")
	}
}

func TestCAQuery_Empty(t *testing.T) {
	if !(CAQuery{}).Empty() {
		t.Error("zero query should be empty")
	}
	if (CAQuery{ToDate: "2024-02-01"}).Empty() {
		t.Error("query with a date should not be empty")
	}
}
