package timeutil

import "testing"

func TestAddDays(t *testing.T) {
	if got := AddDays("2024-01-01", 2); got != "2024-01-03" {
		t.Errorf("AddDays(2024-01-01, 2) = %s, want 2024-01-03", got)
	}
	// Month rollover
	if got := AddDays("2024-01-31", 1); got != "2024-02-01" {
		t.Errorf("AddDays(2024-01-31, 1) = %s, want 2024-02-01", got)
	}
	// Leap day
	if got := AddDays("2024-02-28", 1); got != "2024-02-29" {
		t.Errorf("AddDays(2024-02-28, 1) = %s, want 2024-02-29", got)
	}
}

func TestWeekdayName(t *testing.T) {
	if got := WeekdayName("2024-01-01"); got != "Monday" {
		t.Errorf("WeekdayName(2024-01-01) = %s, want Monday", got)
	}
	if got := WeekdayName("not-a-date"); got != "" {
		t.Errorf("WeekdayName(not-a-date) = %q, want empty", got)
	}
}

func TestIsValidDate(t *testing.T) {
	if !IsValidDate("2024-12-31") {
		t.Error("expected 2024-12-31 to be valid")
	}
	if IsValidDate("2024-13-01") {
		t.Error("expected 2024-13-01 to be invalid")
	}
	if IsValidDate("") {
		t.Error("expected empty string to be invalid")
	}
}
