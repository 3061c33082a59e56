package filters

import "bharatparcel/models"

// CAFilter holds resolved station identities and the date window of a tax report.
type CAFilter struct {
	StartStation string
	EndStation   string
	Dates        models.DateRange
}

// BuildDeliveredBase selects delivered bookings matching the resolved stations and dates.
func BuildDeliveredBase(f CAFilter) Predicate {
	p := Eq(FieldIsDelivered, true)
	if f.StartStation != "" {
		p = And(p, Eq(FieldStartStation, f.StartStation))
	}
	if f.EndStation != "" {
		p = And(p, Eq(FieldEndStation, f.EndStation))
	}
	return And(p, DateWindow(FieldBookingDate, f.Dates))
}

// TaxEligible matches records carrying at least one positive tax rate.
func TaxEligible() Predicate {
	return Or(
		Gt(FieldCGST, 0),
		Gt(FieldSGST, 0),
		Gt(FieldIGST, 0),
	)
}

// BuildTaxFilter is the delivered base restricted to tax-eligible bookings.
func BuildTaxFilter(f CAFilter) Predicate {
	return And(BuildDeliveredBase(f), TaxEligible())
}
