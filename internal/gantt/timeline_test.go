package gantt

import (
	"testing"
	"time"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func task(t *testing.T, id, start, end string) Task {
	t.Helper()
	tk := Task{ID: id, Name: "Task " + id, Status: StatusPending}
	if start != "" {
		tk.Start = date(t, start)
	}
	if end != "" {
		tk.End = date(t, end)
	}
	return tk
}

func TestCellWidthMapping(t *testing.T) {
	tests := []struct {
		mode ViewMode
		want int
	}{
		{ViewDay, 40},
		{ViewWeek, 20},
		{ViewMonth, 8},
	}
	for _, tt := range tests {
		if got := tt.mode.CellWidth(); got != tt.want {
			t.Errorf("%s: expected cell width %d, got %d", tt.mode, tt.want, got)
		}
	}
}

func TestCellWidthPanicsOnUnknownMode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown view mode")
		}
	}()
	ViewMode("quarter").CellWidth()
}

func TestParseViewMode(t *testing.T) {
	if m, err := ParseViewMode("month"); err != nil || m != ViewMonth {
		t.Fatalf("expected month, got %q (%v)", m, err)
	}
	if _, err := ParseViewMode("quarter"); err == nil {
		t.Fatal("expected error for unknown view mode")
	}
}

func TestBuildTimeline_SingleTask(t *testing.T) {
	tasks := []Task{task(t, "1", "2024-01-01", "2024-01-05")}
	tl := BuildTimeline(tasks, ViewDay, date(t, "2024-01-03"), "")

	if !tl.Start.Equal(date(t, "2023-12-25")) {
		t.Errorf("expected range start 2023-12-25, got %s", tl.Start.Format("2006-01-02"))
	}
	if !tl.End.Equal(date(t, "2024-01-19")) {
		t.Errorf("expected range end 2024-01-19, got %s", tl.End.Format("2006-01-02"))
	}
	if len(tl.Columns) != 26 {
		t.Fatalf("expected 26 columns, got %d", len(tl.Columns))
	}
	if tl.CellWidth != 40 {
		t.Errorf("expected cell width 40, got %d", tl.CellWidth)
	}
	if tl.Width() != 26*40 {
		t.Errorf("expected width %d, got %d", 26*40, tl.Width())
	}

	// 2023-12-25 is a Monday
	for i, c := range tl.Columns {
		wantWeekend := i%7 == 5 || i%7 == 6
		if c.IsWeekend != wantWeekend {
			t.Errorf("column %d (%s): expected weekend=%v", i, c.Date.Format("2006-01-02"), wantWeekend)
		}
		if c.IsToday != (i == 9) {
			t.Errorf("column %d: unexpected isToday=%v", i, c.IsToday)
		}
	}
}

func TestBuildTimeline_MonthHeaders(t *testing.T) {
	tasks := []Task{task(t, "1", "2024-01-01", "2024-01-05")}
	tl := BuildTimeline(tasks, ViewWeek, date(t, "2024-01-03"), "")

	want := []MonthHeader{
		{Label: "Dec 2023", StartIndex: 0, Span: 7},
		{Label: "Jan 2024", StartIndex: 7, Span: 19},
	}
	if len(tl.MonthHeaders) != len(want) {
		t.Fatalf("expected %d headers, got %d: %+v", len(want), len(tl.MonthHeaders), tl.MonthHeaders)
	}
	total := 0
	for i, h := range tl.MonthHeaders {
		if h != want[i] {
			t.Errorf("header %d: expected %+v, got %+v", i, want[i], h)
		}
		total += h.Span
	}
	if total != len(tl.Columns) {
		t.Errorf("header spans cover %d columns, expected %d", total, len(tl.Columns))
	}
}

func TestBuildTimeline_CustomMonthLabel(t *testing.T) {
	tasks := []Task{task(t, "1", "2024-01-10", "2024-01-12")}
	tl := BuildTimeline(tasks, ViewDay, date(t, "2024-01-10"), "2006-01")
	if tl.MonthHeaders[0].Label != "2024-01" {
		t.Errorf("expected label 2024-01, got %q", tl.MonthHeaders[0].Label)
	}
}

func TestBuildTimeline_DefaultWindow(t *testing.T) {
	today := date(t, "2024-03-10")
	tasks := []Task{
		task(t, "a", "2024-01-01", ""),
		task(t, "b", "", "2024-05-01"),
	}

	for name, in := range map[string][]Task{"empty": nil, "undated": tasks} {
		tl := BuildTimeline(in, ViewWeek, today, "")
		if !tl.Start.Equal(date(t, "2024-03-03")) || !tl.End.Equal(date(t, "2024-04-09")) {
			t.Errorf("%s: expected default window 2024-03-03..2024-04-09, got %s..%s", name,
				tl.Start.Format("2006-01-02"), tl.End.Format("2006-01-02"))
		}
		if len(tl.Columns) != 38 {
			t.Errorf("%s: expected 38 columns, got %d", name, len(tl.Columns))
		}
	}
}

func TestBuildTimeline_RangeContainment(t *testing.T) {
	tasks := []Task{
		task(t, "a", "2024-02-10", "2024-02-20"),
		task(t, "b", "2024-01-15", "2024-01-16"),
		task(t, "c", "2024-03-30", "2024-03-01"), // reversed
		task(t, "d", "2023-11-01", ""),           // undated, ignored
	}
	tl := BuildTimeline(tasks, ViewMonth, date(t, "2024-02-01"), "")

	for _, tk := range tasks {
		if !tk.HasDates() {
			continue
		}
		for _, d := range []time.Time{tk.Start, tk.End} {
			if d.Before(tl.Start) || d.After(tl.End) {
				t.Errorf("task %s date %s outside range %s..%s", tk.ID, d.Format("2006-01-02"),
					tl.Start.Format("2006-01-02"), tl.End.Format("2006-01-02"))
			}
		}
	}
	if !tl.Start.Equal(date(t, "2024-01-08")) {
		t.Errorf("expected start 2024-01-08, got %s", tl.Start.Format("2006-01-02"))
	}
	if !tl.End.Equal(date(t, "2024-04-13")) {
		t.Errorf("expected end 2024-04-13, got %s", tl.End.Format("2006-01-02"))
	}
}

func TestTimelineWithViewModeKeepsDates(t *testing.T) {
	tasks := []Task{task(t, "1", "2024-01-01", "2024-01-05")}
	day := BuildTimeline(tasks, ViewDay, date(t, "2024-01-03"), "")
	month := day.WithViewMode(ViewMonth)

	if len(month.Columns) != len(day.Columns) || !month.Start.Equal(day.Start) {
		t.Fatal("switching view mode must not change the date set")
	}
	if month.CellWidth != 8 || day.CellWidth != 40 {
		t.Errorf("unexpected cell widths: day=%d month=%d", day.CellWidth, month.CellWidth)
	}
}

func TestDaysBetweenIgnoresClockTime(t *testing.T) {
	a := time.Date(2024, 3, 30, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 4, 1, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 2 {
		t.Errorf("expected 2 days, got %d", got)
	}
	if got := DaysBetween(b, a); got != -2 {
		t.Errorf("expected -2 days, got %d", got)
	}
}

func TestDaysBetweenFarApart(t *testing.T) {
	// 2000 years is five 400-year Gregorian cycles of 146097 days, far past
	// the range of time.Duration.
	a := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2001, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 5*146097 {
		t.Errorf("expected %d days, got %d", 5*146097, got)
	}
	if got := DaysBetween(b, a); got != -5*146097 {
		t.Errorf("expected %d days, got %d", -5*146097, got)
	}
}
