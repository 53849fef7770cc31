package gantt

import "time"

// DefaultLeadIn is the distance kept between the viewport's left edge and the
// today marker after scrolling to today.
const DefaultLeadIn = 200

// ZoomIn moves one step towards the day view. Day is the innermost level.
func (v ViewMode) ZoomIn() ViewMode {
	switch v {
	case ViewMonth:
		return ViewWeek
	case ViewWeek:
		return ViewDay
	}
	return v
}

// ZoomOut moves one step towards the month view. Month is the outermost level.
func (v ViewMode) ZoomOut() ViewMode {
	switch v {
	case ViewDay:
		return ViewWeek
	case ViewWeek:
		return ViewMonth
	}
	return v
}

// CanZoomIn reports whether ZoomIn would change the mode.
func (v ViewMode) CanZoomIn() bool { return v.ZoomIn() != v }

// CanZoomOut reports whether ZoomOut would change the mode.
func (v ViewMode) CanZoomOut() bool { return v.ZoomOut() != v }

// ScrollToToday returns the horizontal scroll offset that puts today leadIn
// units from the left edge of the viewport, never scrolling before the range
// start.
func ScrollToToday(tl Timeline, today time.Time, leadIn int) int {
	return max(0, tl.DayIndex(today)*tl.CellWidth-leadIn)
}

// TodayMarker returns the x of the today line, centered in today's column,
// and whether today falls inside the visible range.
func TodayMarker(tl Timeline, today time.Time) (int, bool) {
	return tl.Offset(today) + tl.CellWidth/2, tl.Contains(today)
}

// DayTickLabel returns the day-of-month label shown in the date header for the
// column at index, or "" when the zoom level leaves that column unlabeled.
// Day view labels every column, week view every seventh, month view only the
// first of each month.
func DayTickLabel(mode ViewMode, index int, d time.Time) string {
	switch mode {
	case ViewDay:
	case ViewWeek:
		if index%7 != 0 {
			return ""
		}
	case ViewMonth:
		if d.Day() != 1 {
			return ""
		}
	default:
		return ""
	}
	return d.Format("02")
}
