package gantt

import "time"

// Range buffers applied around the dated tasks, and the window used when no
// task is dated.
const (
	LeadBufferDays    = 7
	TrailBufferDays   = 14
	DefaultBeforeDays = 7
	DefaultAfterDays  = 30

	// DefaultMonthLabelFormat is the time layout used for month headers.
	DefaultMonthLabelFormat = "Jan 2006"
)

// Column is one calendar day of the visible range.
type Column struct {
	Date      time.Time `json:"date"`
	IsWeekend bool      `json:"isWeekend"`
	IsToday   bool      `json:"isToday"`
}

// MonthHeader groups the consecutive columns of one calendar month.
type MonthHeader struct {
	Label      string `json:"label"`
	StartIndex int    `json:"startIndex"`
	Span       int    `json:"span"`
}

// Timeline is the discretized date axis of the chart.
type Timeline struct {
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	ViewMode     ViewMode      `json:"viewMode"`
	CellWidth    int           `json:"cellWidth"`
	Columns      []Column      `json:"columns"`
	MonthHeaders []MonthHeader `json:"monthHeaders"`
}

// Day truncates t to midnight UTC of its calendar date. All day arithmetic in
// the engine goes through Day so that spans are whole days.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int((Day(b).Unix() - Day(a).Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// DateRange returns the first and last visible day for the given tasks.
func DateRange(tasks []Task, today time.Time) (time.Time, time.Time) {
	var minDate, maxDate time.Time
	found := false
	for _, t := range tasks {
		if !t.HasDates() {
			continue
		}
		// both dates take part in both bounds so reversed tasks stay inside
		for _, d := range []time.Time{Day(t.Start), Day(t.End)} {
			if !found || d.Before(minDate) {
				minDate = d
			}
			if !found || d.After(maxDate) {
				maxDate = d
			}
			found = true
		}
	}

	if !found {
		today = Day(today)
		return today.AddDate(0, 0, -DefaultBeforeDays), today.AddDate(0, 0, DefaultAfterDays)
	}
	return minDate.AddDate(0, 0, -LeadBufferDays), maxDate.AddDate(0, 0, TrailBufferDays)
}

// BuildTimeline derives the columns and month headers for tasks at the given
// zoom level. labelFormat may be empty to use DefaultMonthLabelFormat.
func BuildTimeline(tasks []Task, mode ViewMode, today time.Time, labelFormat string) Timeline {
	if labelFormat == "" {
		labelFormat = DefaultMonthLabelFormat
	}
	start, end := DateRange(tasks, today)
	today = Day(today)

	tl := Timeline{
		Start:     start,
		End:       end,
		ViewMode:  mode,
		CellWidth: mode.CellWidth(),
		Columns:   make([]Column, 0, DaysBetween(start, end)+1),
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		tl.Columns = append(tl.Columns, Column{
			Date:      d,
			IsWeekend: wd == time.Saturday || wd == time.Sunday,
			IsToday:   d.Equal(today),
		})
	}
	tl.MonthHeaders = monthHeaders(tl.Columns, labelFormat)
	return tl
}

// WithViewMode returns a copy of tl at another zoom level. The date set is
// unchanged; only the cell width differs.
func (tl Timeline) WithViewMode(mode ViewMode) Timeline {
	tl.ViewMode = mode
	tl.CellWidth = mode.CellWidth()
	return tl
}

func monthHeaders(cols []Column, labelFormat string) []MonthHeader {
	var headers []MonthHeader
	for i, c := range cols {
		y, m, _ := c.Date.Date()
		if n := len(headers); n > 0 {
			py, pm, _ := cols[i-1].Date.Date()
			if py == y && pm == m {
				headers[n-1].Span++
				continue
			}
		}
		headers = append(headers, MonthHeader{
			Label:      c.Date.Format(labelFormat),
			StartIndex: i,
			Span:       1,
		})
	}
	return headers
}

// DayIndex returns the column index of d relative to the range start. The
// result may fall outside [0, len(Columns)).
func (tl Timeline) DayIndex(d time.Time) int {
	return DaysBetween(tl.Start, d)
}

// Offset returns the horizontal position of the left edge of d's column.
func (tl Timeline) Offset(d time.Time) int {
	return tl.DayIndex(d) * tl.CellWidth
}

// Width is the total width of all columns.
func (tl Timeline) Width() int {
	return len(tl.Columns) * tl.CellWidth
}

// Contains reports whether d falls within the visible range.
func (tl Timeline) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(tl.Start) && !d.After(tl.End)
}
