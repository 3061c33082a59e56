package filters

import (
	"strings"
	"testing"
	"time"

	"bharatparcel/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestAnd_Flattens(t *testing.T) {
	p := And(Eq("a", 1), And(Eq("b", 2), And()), And(Eq("c", 3)))
	if len(p.Children) != 3 {
		t.Fatalf("expected 3 flattened children, got %d: %s", len(p.Children), p)
	}
	if !And().IsEmpty() {
		t.Error("empty And should report IsEmpty")
	}
}

func TestMatches_MissingField(t *testing.T) {
	r := Record{}
	if !Ne("isDelivered", true).Matches(r) {
		t.Error("Ne should match a missing field")
	}
	if Eq("isDelivered", false).Matches(r) {
		t.Error("Eq should not match a missing field")
	}
	if Gt("totalCancelled", 0).Matches(r) {
		t.Error("Gt should not match a missing field")
	}
}

func TestMatches_NumericAndTime(t *testing.T) {
	r := Record{"totalCancelled": int64(2), "billTotal": 10.5, "bookingDate": time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)}

	if !Gt("totalCancelled", 0).Matches(r) {
		t.Error("int64 2 > int 0")
	}
	if !Eq("billTotal", 10.5).Matches(r) {
		t.Error("float equality")
	}
	window := DateWindow("bookingDate", models.DayRange(
		time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	))
	if !window.Matches(r) {
		t.Error("single-day window should include noon of that day")
	}
	if !In("role", "a", "b").Matches(Record{"role": "b"}) {
		t.Error("In should match listed value")
	}
}

func TestToBSON_StatusFilter(t *testing.T) {
	got := BuildStatusFilter(StatusActive, admin).ToBSON()
	want := bson.D{{Key: "activeDelivery", Value: true}}
	if !bsonEqual(t, got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	scoped := BuildStatusFilter(StatusActive, supervisor).ToBSON()
	wantScoped := bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "activeDelivery", Value: true}},
		bson.D{{Key: "createdByUser", Value: "sup-7"}},
	}}}
	if !bsonEqual(t, scoped, wantScoped) {
		t.Errorf("got %v, want %v", scoped, wantScoped)
	}
}

func TestToBSON_Operators(t *testing.T) {
	p := Or(Ne("isDelivered", true), Gt("cgst", 0), In("createdByRole", "admin", "supervisor"))
	want := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "isDelivered", Value: bson.D{{Key: "$ne", Value: true}}}},
		bson.D{{Key: "cgst", Value: bson.D{{Key: "$gt", Value: 0}}}},
		bson.D{{Key: "createdByRole", Value: bson.D{{Key: "$in", Value: bson.A{"admin", "supervisor"}}}}},
	}}}
	if !bsonEqual(t, p.ToBSON(), want) {
		t.Errorf("got %v, want %v", p.ToBSON(), want)
	}
	if len(And().ToBSON()) != 0 {
		t.Error("empty And should lower to an empty document")
	}
}

func bsonEqual(t *testing.T, a, b bson.D) bool {
	t.Helper()
	ra, err := bson.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rb, err := bson.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(ra) == string(rb)
}

var testColumns = map[string]string{
	FieldActiveDelivery:  "active_delivery",
	FieldTotalCancelled:  "total_cancelled",
	FieldIsDelivered:     "is_delivered",
	FieldIsApproved:      "is_approved",
	FieldCreatedByUser:   "created_by_user",
	FieldCreatedByRole:   "created_by_role",
	FieldRequestedByRole: "requested_by_role",
}

func TestToSQL_RequestFilter(t *testing.T) {
	clause, args, err := BuildStatusFilter(StatusRequest, supervisor).ToSQL(testColumns, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "(active_delivery = $3 AND is_delivered IS DISTINCT FROM $4 AND total_cancelled = $5 AND " +
		"(created_by_role IN ($6, $7) OR (requested_by_role = $8 AND is_approved = $9)) AND created_by_user = $10)"
	if clause != want {
		t.Errorf("clause:\n got %s\nwant %s", clause, want)
	}
	if len(args) != 8 || args[7] != "sup-7" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestToSQL_Edges(t *testing.T) {
	clause, args, err := And().ToSQL(testColumns, 1)
	if err != nil || clause != "TRUE" || len(args) != 0 {
		t.Errorf("empty And: %q %v %v", clause, args, err)
	}

	clause, _, err = In(FieldCreatedByRole).ToSQL(testColumns, 1)
	if err != nil || clause != "FALSE" {
		t.Errorf("empty In: %q %v", clause, err)
	}

	_, _, err = Eq("unknown", 1).ToSQL(testColumns, 1)
	if err == nil || !strings.Contains(err.Error(), "unknown") {
		t.Errorf("expected unmapped field error, got %v", err)
	}
}

func TestTaxFilter(t *testing.T) {
	f := BuildTaxFilter(CAFilter{StartStation: "st-1"})
	base := Record{FieldIsDelivered: true, FieldStartStation: "st-1", FieldCGST: 0.0, FieldSGST: 0.0, FieldIGST: 0.0}
	if f.Matches(base) {
		t.Error("zero-rate booking must not be tax eligible")
	}
	if !BuildDeliveredBase(CAFilter{StartStation: "st-1"}).Matches(base) {
		t.Error("zero-rate delivered booking must match the base filter")
	}
	base[FieldIGST] = 18.0
	if !f.Matches(base) {
		t.Error("igst > 0 should be tax eligible")
	}
	base[FieldStartStation] = "st-2"
	if f.Matches(base) {
		t.Error("station mismatch should not match")
	}
}
