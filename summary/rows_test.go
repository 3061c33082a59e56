package summary

import (
	"testing"
	"time"

	"bharatparcel/models"
)

func station(name string) *models.Station {
	return &models.Station{StationName: name}
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		requested, created, pickup, want string
	}{
		{models.RolePublic, "", "Delhi", "Third Party"},
		{models.RoleAdmin, models.RoleAdmin, "Delhi", "Admin"},
		{models.RoleSupervisor, models.RoleSupervisor, "Delhi", "Supervisor (Delhi)"},
		{models.RoleSupervisor, models.RoleSupervisor, "", "Supervisor (N/A)"},
		{"", "", "", "N/A"},
	}
	for _, tt := range tests {
		if got := OrderBy(tt.requested, tt.created, tt.pickup); got != tt.want {
			t.Errorf("OrderBy(%q, %q, %q) = %q, want %q", tt.requested, tt.created, tt.pickup, got, tt.want)
		}
	}
}

func TestBookingStatusRows_SkipsUnresolvedStations(t *testing.T) {
	date := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{BookingID: "B1", BookingDate: date, StartStationDoc: station("Delhi"), EndStationDoc: station("Agra"),
			SenderName: "Ravi", Lifecycle: models.Lifecycle{CreatedByRole: models.RoleAdmin}},
		{BookingID: "B2", StartStationDoc: station("Delhi")},
		{BookingID: "B3", StartStationDoc: station("Pune"), EndStationDoc: station("Goa"),
			Lifecycle: models.Lifecycle{RequestedByRole: models.RolePublic}},
	}

	rows := BookingStatusRows(bookings)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	first := rows[0]
	if first.SNo != 1 || first.Date != "07-03-2024" || first.Pickup != "Delhi" || first.Drop != "Agra" ||
		first.FromName != "Ravi" || first.ToName != "N/A" || first.OrderBy != "Admin" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.Action == nil || first.Action.View != "/bookings/B1" {
		t.Errorf("unexpected actions: %+v", first.Action)
	}
	if rows[1].SNo != 2 || rows[1].BookingID != "B3" || rows[1].OrderBy != "Third Party" || rows[1].Date != "N/A" {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestBuildRevenueList(t *testing.T) {
	d := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	records := []models.FinancialRecord{
		&models.Booking{BookingID: "B1", BookingDate: d, GrandTotal: 100.5, StartStationDoc: station("A"), EndStationDoc: station("B")},
		&models.Booking{BookingID: "B2", BookingDate: d, GrandTotal: 50},
	}

	list := BuildRevenueList(records, RevenueOptions{SkipUnresolved: true, WithActions: true})
	if list.TotalRevenue != "150.50" {
		t.Errorf("total revenue = %s, want 150.50", list.TotalRevenue)
	}
	if list.Count != 1 || list.Data[0].Date != "2024-01-31" || list.Data[0].Revenue != "100.50" {
		t.Errorf("unexpected list: %+v", list)
	}
	if list.Data[0].Action == nil {
		t.Error("booking revenue rows should carry actions")
	}
}

func TestBuildRevenueList_QuotationRevenue(t *testing.T) {
	records := []models.FinancialRecord{
		&models.Quotation{BookingID: "Q1", Amount: 1000, STax: 180, GrandTotal: 5, StartStationName: "Delhi"},
	}
	list := BuildRevenueList(records, RevenueOptions{})
	if list.TotalRevenue != "1180.00" {
		t.Errorf("quotation revenue should be amount + sTax, got %s", list.TotalRevenue)
	}
	row := list.Data[0]
	if row.Date != "N/A" || row.Pickup != "Delhi" || row.Drop != "Unknown" || row.Action != nil {
		t.Errorf("unexpected quotation row: %+v", row)
	}
}

func TestDates(t *testing.T) {
	d := time.Date(2024, 12, 5, 23, 0, 0, 0, time.UTC)
	if got := DisplayDate(d); got != "05-12-2024" {
		t.Errorf("DisplayDate = %s", got)
	}
	if got := ISODate(d); got != "2024-12-05" {
		t.Errorf("ISODate = %s", got)
	}
	if DisplayDate(time.Time{}) != "" || ISODate(time.Time{}) != "N/A" {
		t.Error("zero dates")
	}
}

func TestViewBooking(t *testing.T) {
	b := &models.Booking{
		BookingID:       "B9",
		BookingDate:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		StartStationDoc: &models.Station{StationName: "Delhi", GST: "07X", Address: "CP", Contact: "999"},
		EndStationDoc:   &models.Station{StationName: "Agra", GST: "09Y"},
	}
	v := ViewBooking(b)
	if v.BookingDate != "01-02-2024" || v.DeliveryDate != "" {
		t.Errorf("unexpected dates: %s %s", v.BookingDate, v.DeliveryDate)
	}
	if v.StartStation.GST != "07X" || v.EndStation.StationName != "Agra" || v.EndStation.GST != "" {
		t.Errorf("unexpected stations: %+v %+v", v.StartStation, v.EndStation)
	}
}
