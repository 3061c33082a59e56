package models

import "time"

// CustomerAggregate is one grouped row of bookings per customer, before derivation.
type CustomerAggregate struct {
	CustomerID    string  `bson:"_id"`
	TotalBookings int     `bson:"totalBookings"`
	BillTotal     float64 `bson:"billTotal"`
	FirstName     string  `bson:"firstName"`
	MiddleName    string  `bson:"middleName"`
	LastName      string  `bson:"lastName"`
}

type OverallAggregate struct {
	TotalBookings int     `bson:"totalBookings"`
	BillTotal     float64 `bson:"billTotal"`
}

// TaxAggregate holds summed rates and taxable value over a tax-eligible booking set.
type TaxAggregate struct {
	VoucherCount     int      `bson:"voucherCount"`
	TaxableValue     float64  `bson:"taxableValue"`
	TotalCGSTPercent float64  `bson:"totalCgstPercent"`
	TotalSGSTPercent float64  `bson:"totalSgstPercent"`
	TotalIGSTPercent float64  `bson:"totalIgstPercent"`
	SenderNames      []string `bson:"senderNames"`
	CustomerNames    []string `bson:"customerNames"`
}

// DateRange is an inclusive booking date window. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// DayRange widens from/to to cover whole days: from 00:00 to 23:59:59.999.
func DayRange(from, to time.Time) DateRange {
	r := DateRange{}
	if !from.IsZero() {
		r.From = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	}
	if !to.IsZero() {
		r.To = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, int(999*time.Millisecond), to.Location())
	}
	return r
}
