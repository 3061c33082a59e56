package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"bharatparcel/filters"

	"go.mongodb.org/mongo-driver/bson"
)

func TestFormatSequenceID(t *testing.T) {
	at := time.Date(2024, time.May, 3, 10, 0, 0, 0, time.UTC)
	if got := FormatSequenceID("BPS", at, 17); got != "BPS-202405-17" {
		t.Errorf("unexpected id: %s", got)
	}
	if got := sequenceKey("QTN", at); got != "QTN-202405" {
		t.Errorf("unexpected key: %s", got)
	}
}

func TestWithTimeout_KeepsEarlierDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ctx, cancel2 := withTimeout(parent, time.Hour)
	defer cancel2()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected deadline")
	}
	if time.Until(deadline) > time.Second {
		t.Errorf("expected parent deadline to win, got %s", time.Until(deadline))
	}
}

func TestSetClause_StableOrder(t *testing.T) {
	fields := map[string]any{"stationName": "Agra", "contact": "999", "gst": "09X"}
	set, args, err := setClause(fields, stationColumns, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set != "contact = $1, gst = $2, station_name = $3" {
		t.Errorf("unexpected clause: %s", set)
	}
	if len(args) != 3 || args[0] != "999" || args[2] != "Agra" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestSetClause_UnqualifiesColumns(t *testing.T) {
	set, _, err := setClause(map[string]any{"addComment": "fragile"}, bookingColumns, 4, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set != "add_comment = $4" {
		t.Errorf("unexpected clause: %s", set)
	}
}

func TestSetClause_UnknownField(t *testing.T) {
	if _, _, err := setClause(map[string]any{"bogus": 1}, stationColumns, 1, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestEncodeBookingField_Items(t *testing.T) {
	v, err := encodeBookingField("items", []map[string]any{{"weight": 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, ok := v.([]byte)
	if !ok || !strings.Contains(string(raw), `"weight":2`) {
		t.Errorf("expected JSON bytes, got %v", v)
	}
	if v, _ := encodeBookingField("freight", 10.0); v != 10.0 {
		t.Errorf("expected passthrough, got %v", v)
	}
}

func TestOrderClause(t *testing.T) {
	cases := []struct {
		opts FindOptions
		want string
	}{
		{FindOptions{}, ""},
		{FindOptions{SortBy: "bookingDate", Desc: true}, " ORDER BY b.booking_date DESC"},
		{FindOptions{SortBy: "bookingDate", Limit: 5}, " ORDER BY b.booking_date LIMIT 5"},
		{FindOptions{SortBy: "unknown", Limit: 2}, " LIMIT 2"},
	}
	for _, tc := range cases {
		if got := orderClause(tc.opts, bookingColumns); got != tc.want {
			t.Errorf("orderClause(%+v) = %q, want %q", tc.opts, got, tc.want)
		}
	}
}

func TestExactNameRegex_EscapesMetacharacters(t *testing.T) {
	re := exactNameRegex(" Delhi (North) ")
	if re.Pattern != `^Delhi \(North\)$` {
		t.Errorf("unexpected pattern: %s", re.Pattern)
	}
	if re.Options != "i" {
		t.Errorf("expected case-insensitive option, got %s", re.Options)
	}
}

func TestExactNameRegex_MatchesWholeNameOnly(t *testing.T) {
	tests := []struct {
		query     string
		candidate string
		want      bool
	}{
		{"Delhi", "Delhi", true},
		{"Delhi", "DELHI", true},
		{" delhi ", "Delhi", true},
		{"Delhi", "New Delhi", false},
		{"Delhi", "Delhi Cantt", false},
		{"Del.i", "Delhi", false},
		{"Delhi (North)", "Delhi (North)", true},
	}
	for _, tt := range tests {
		re := exactNameRegex(tt.query)
		compiled := regexp.MustCompile("(?" + re.Options + ")" + re.Pattern)
		if got := compiled.MatchString(tt.candidate); got != tt.want {
			t.Errorf("query %q against %q: got %v, want %v", tt.query, tt.candidate, got, tt.want)
		}
	}
}

func stageKeys(p []bson.D) []string {
	keys := make([]string, 0, len(p))
	for _, stage := range p {
		keys = append(keys, stage[0].Key)
	}
	return keys
}

func TestCustomerPipeline_Shape(t *testing.T) {
	match := filters.Eq(filters.FieldIsDelivered, true).ToBSON()
	got := strings.Join(stageKeys(customerPipeline(match)), ",")
	if got != "$match,$group,$lookup,$unwind,$project,$sort" {
		t.Errorf("unexpected stages: %s", got)
	}
}

func TestTaxPipeline_MatchesFilter(t *testing.T) {
	match := filters.BuildTaxFilter(filters.CAFilter{StartStation: "s1"}).ToBSON()
	p := taxPipeline(match)
	if len(p) != 2 || p[0][0].Key != "$match" || p[1][0].Key != "$group" {
		t.Fatalf("unexpected stages: %v", stageKeys(p))
	}

	raw, err := bson.Marshal(p[0][0].Value)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	want, _ := bson.Marshal(match)
	if string(raw) != string(want) {
		t.Error("expected $match to carry the tax filter unchanged")
	}

	group := p[1][0].Value.(bson.D)
	var names []string
	for _, e := range group {
		names = append(names, e.Key)
	}
	if strings.Join(names, ",") != "_id,voucherCount,taxableValue,totalCgstPercent,totalSgstPercent,totalIgstPercent,senderNames,customerNames" {
		t.Errorf("unexpected group fields: %v", names)
	}
}
