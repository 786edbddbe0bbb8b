package trips

import (
	"testing"
	"time"
)

// dateOn returns a date in 2026 falling on the given weekday.
func dateOn(t *testing.T, day time.Weekday) time.Time {
	t.Helper()
	d := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) // a Sunday
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestParseRecurrenceDaily(t *testing.T) {
	for _, rule := range []string{"", "daily", "DAILY", "  Daily  "} {
		r, err := ParseRecurrence(rule)
		if err != nil {
			t.Fatalf("ParseRecurrence(%q) returned error: %v", rule, err)
		}
		if !r.IsDaily() {
			t.Errorf("ParseRecurrence(%q) should be daily", rule)
		}
		for day := time.Sunday; day <= time.Saturday; day++ {
			if !r.RunsOn(dateOn(t, day)) {
				t.Errorf("daily rule %q should run on %s", rule, day)
			}
		}
	}
}

func TestParseRecurrenceWeekdays(t *testing.T) {
	r, err := ParseRecurrence("Mon,Wed,Fri")
	if err != nil {
		t.Fatalf("ParseRecurrence returned error: %v", err)
	}
	if r.IsDaily() {
		t.Error("three-day rule should not be daily")
	}

	runs := map[time.Weekday]bool{
		time.Monday:    true,
		time.Wednesday: true,
		time.Friday:    true,
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		got := r.RunsOn(dateOn(t, day))
		if got != runs[day] {
			t.Errorf("RunsOn(%s) = %v, want %v", day, got, runs[day])
		}
	}
}

func TestParseRecurrenceFullNamesAndCase(t *testing.T) {
	r, err := ParseRecurrence("Monday, TUESDAY, saturday")
	if err != nil {
		t.Fatalf("ParseRecurrence returned error: %v", err)
	}
	for _, day := range []time.Weekday{time.Monday, time.Tuesday, time.Saturday} {
		if !r.RunsOn(dateOn(t, day)) {
			t.Errorf("rule should run on %s", day)
		}
	}
	if r.RunsOn(dateOn(t, time.Wednesday)) {
		t.Error("rule should not run on Wednesday")
	}
}

func TestParseRecurrenceAllSevenDaysIsDaily(t *testing.T) {
	r, err := ParseRecurrence("Sun,Mon,Tue,Wed,Thu,Fri,Sat")
	if err != nil {
		t.Fatalf("ParseRecurrence returned error: %v", err)
	}
	if !r.IsDaily() {
		t.Error("rule covering all seven weekdays should report daily")
	}
}

func TestParseRecurrenceRejectsUnknownDay(t *testing.T) {
	for _, rule := range []string{"Mon,Funday", "blorp", ","} {
		if _, err := ParseRecurrence(rule); err == nil {
			t.Errorf("ParseRecurrence(%q) should fail", rule)
		}
	}
}

func TestTripDepartureOn(t *testing.T) {
	trip := &Trip{DepartureTime: "08:30"}
	riga, _ := time.LoadLocation("Europe/Riga")
	date := time.Date(2026, 6, 15, 0, 0, 0, 0, riga)

	dep, err := trip.DepartureOn(date)
	if err != nil {
		t.Fatalf("DepartureOn returned error: %v", err)
	}
	want := time.Date(2026, 6, 15, 8, 30, 0, 0, riga)
	if !dep.Equal(want) {
		t.Errorf("DepartureOn = %v, want %v", dep, want)
	}
	if dep.Location() != riga {
		t.Errorf("departure location = %v, want %v", dep.Location(), riga)
	}
}

func TestTripDepartureOnInvalidTime(t *testing.T) {
	trip := &Trip{DepartureTime: "25:99"}
	if _, err := trip.DepartureOn(time.Now()); err == nil {
		t.Error("DepartureOn should fail for an unparsable time-of-day")
	}
}

func TestTripIsRunningOn(t *testing.T) {
	trip := &Trip{Weekdays: "Mon,Fri"}
	if !trip.IsRunningOn(dateOn(t, time.Friday)) {
		t.Error("trip should run on Friday")
	}
	if trip.IsRunningOn(dateOn(t, time.Tuesday)) {
		t.Error("trip should not run on Tuesday")
	}

	broken := &Trip{Weekdays: "Nonday"}
	if broken.IsRunningOn(dateOn(t, time.Monday)) {
		t.Error("trip with an unparsable rule should never run")
	}
}
