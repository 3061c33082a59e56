package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"bharatparcel/config"
	"bharatparcel/filters"
	"bharatparcel/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func testConfig() *config.Config {
	return &config.Config{ReadTimeout: time.Second, WriteTimeout: time.Second}
}

func TestPostgresBookingRepo_CountScopesSupervisor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewPostgresBookingRepo(db, testConfig())
	user := models.RequestingUser{ID: "sup-1", Role: models.RoleSupervisor}

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM bookings b WHERE (b.active_delivery = $1 AND b.created_by_user = $2)",
	)).WithArgs(true, "sup-1").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.Count(context.Background(), filters.BuildStatusFilter(filters.StatusActive, user))
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresBookingRepo_ExistsUsesEmptyFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewPostgresBookingRepo(db, testConfig())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM bookings b WHERE TRUE)")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.Exists(context.Background(), filters.And())
	if err != nil {
		t.Fatalf("exists error: %v", err)
	}
	if ok {
		t.Error("expected no bookings")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresBookingRepo_AggregateTax(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewPostgresBookingRepo(db, testConfig())
	cols := []string{"count", "taxable", "cgst", "sgst", "igst", "senders", "customers"}
	mock.ExpectQuery("array_agg\\(DISTINCT b.sender_name\\)").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(2, 1000.0, 18.0, 18.0, 0.0, `{"Ravi Traders"}`, `{"Anil Rao","Meena K"}`))

	agg, err := repo.AggregateTax(context.Background(), filters.BuildTaxFilter(filters.CAFilter{}))
	if err != nil {
		t.Fatalf("aggregate error: %v", err)
	}
	if agg == nil {
		t.Fatal("expected aggregate")
	}
	if agg.VoucherCount != 2 || agg.TaxableValue != 1000 || agg.TotalCGSTPercent != 18 {
		t.Errorf("unexpected aggregate: %+v", agg)
	}
	if len(agg.CustomerNames) != 2 || agg.SenderNames[0] != "Ravi Traders" {
		t.Errorf("unexpected names: %v %v", agg.SenderNames, agg.CustomerNames)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresBookingRepo_AggregateOverallEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewPostgresBookingRepo(db, testConfig())
	mock.ExpectQuery("SELECT COUNT\\(\\*\\), COALESCE\\(SUM\\(b.bill_total\\), 0\\) FROM bookings b").
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(0, 0.0))

	agg, err := repo.AggregateOverall(context.Background(), filters.Eq(filters.FieldIsDelivered, true))
	if err != nil {
		t.Fatalf("aggregate error: %v", err)
	}
	if agg != nil {
		t.Errorf("expected nil aggregate for empty set, got %+v", agg)
	}
}

func TestPostgresBookingRepo_CancelMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewPostgresBookingRepo(db, testConfig())
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET total_cancelled = total_cancelled + 1, active_delivery = FALSE WHERE booking_id = $1")).
		WithArgs("BPS-202401-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = repo.Cancel(context.Background(), "BPS-202401-9")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresBookingRepo_UnmappedFieldRejected(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewPostgresBookingRepo(db, testConfig())
	if _, err := repo.Count(context.Background(), filters.Eq("nope", 1)); err == nil {
		t.Fatal("expected error for unmapped field")
	}
}

func TestPostgresStationRepo_CreateAssignsSequence(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewPostgresStationRepo(db, testConfig())
	mock.ExpectQuery("INSERT INTO counters").WithArgs("station").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(7))
	mock.ExpectExec("INSERT INTO stations").WillReturnResult(sqlmock.NewResult(1, 1))

	s := &models.Station{StationName: "Delhi"}
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if s.StationID != "7" {
		t.Errorf("expected station id 7, got %s", s.StationID)
	}
	if s.ID == "" {
		t.Error("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStationRepo_CreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewPostgresStationRepo(db, testConfig())
	mock.ExpectQuery("INSERT INTO counters").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(8))
	mock.ExpectExec("INSERT INTO stations").WillReturnError(&pq.Error{Code: "23505"})

	err = repo.Create(context.Background(), &models.Station{StationName: "Delhi"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestPostgresStationRepo_ResolveNameIgnoresCase(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewPostgresStationRepo(db, testConfig())
	cols := []string{"id", "station_id", "station_name", "contact", "email_id", "address", "state", "city", "pincode", "gst"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE lower(station_name) = lower($1)")).
		WithArgs("delhi").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("s1", "1", "Delhi", "999", "d@x.in", "addr", "DL", "Delhi", "110006", "07AAA"))

	s, err := repo.ResolveName(context.Background(), "  delhi ")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if s.StationName != "Delhi" {
		t.Errorf("expected Delhi, got %s", s.StationName)
	}
}

func TestPostgresStationRepo_FindConflictNone(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewPostgresStationRepo(db, testConfig())
	mock.ExpectQuery("station_name = \\$1 OR email_id = \\$2").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.FindConflict(context.Background(), &models.Station{StationName: "Agra"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected no conflict, got %+v", got)
	}
}

func TestPostgresUserRepo_GetUserByEmailNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewPostgresUserRepo(db, testConfig())
	mock.ExpectQuery("FROM app_user").WithArgs("ghost@x.in").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetUserByEmail(context.Background(), "ghost@x.in")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresCustomerRepo_SearchEscapesWildcards(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := NewPostgresCustomerRepo(db, testConfig())
	mock.ExpectQuery("ILIKE \\$1").WithArgs(`%50\%\_off%`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.SearchByName(context.Background(), "50%_off")
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
