package cashflow

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-08-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.August || d.Day() != 1 {
		t.Fatalf("unexpected date: %s", d)
	}
	if _, err := ParseDate("01/08/2024"); err == nil {
		t.Fatal("expected error for wrong layout")
	}
}

func TestDateOf_TruncatesToUTCDay(t *testing.T) {
	loc := time.FixedZone("ahead", 5*3600)
	instant := time.Date(2024, time.August, 1, 2, 30, 0, 0, loc) // 2024-07-31T21:30Z
	if got := DateOf(instant).String(); got != "2024-07-31" {
		t.Fatalf("expected 2024-07-31, got %s", got)
	}
}

func TestDate_AddDaysCrossesMonths(t *testing.T) {
	d := MustParseDate("2024-08-01")
	if got := d.AddDays(60).String(); got != "2024-09-30" {
		t.Fatalf("expected 2024-09-30, got %s", got)
	}
	if got := d.AddDays(-1).String(); got != "2024-07-31" {
		t.Fatalf("expected 2024-07-31, got %s", got)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	type holder struct {
		Day Date `json:"day"`
	}
	b, err := json.Marshal(holder{Day: MustParseDate("2024-02-29")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"day":"2024-02-29"}` {
		t.Fatalf("unexpected encoding: %s", b)
	}
	var h holder
	if err := json.Unmarshal(b, &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !h.Day.Equal(MustParseDate("2024-02-29")) {
		t.Fatalf("round trip mismatch: %s", h.Day)
	}
	if err := json.Unmarshal([]byte(`{"day":"noon"}`), &h); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
