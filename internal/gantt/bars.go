package gantt

// DefaultRowHeight is the vertical pitch of one task row.
const DefaultRowHeight = 40

// Bar is the horizontal extent and row of one dated task.
type Bar struct {
	TaskID      string `json:"taskId"`
	Row         int    `json:"row"`
	Left        int    `json:"left"`
	Width       int    `json:"width"`
	Top         int    `json:"top"`
	RowHeight   int    `json:"rowHeight"`
	IsMilestone bool   `json:"isMilestone,omitempty"`
}

// Right is the x of the bar's end edge.
func (b Bar) Right() int {
	return b.Left + b.Width
}

// CenterY is the vertical center of the bar's row.
func (b Bar) CenterY() int {
	return b.Top + b.RowHeight/2
}

// LayoutBars places one bar for every task carrying both dates. The row is the
// task's position in tasks, so undated tasks leave an empty row behind.
// A span of zero or fewer days is clamped to a single cell.
func LayoutBars(tasks []Task, tl Timeline, rowHeight int) []Bar {
	if rowHeight <= 0 {
		rowHeight = DefaultRowHeight
	}
	bars := make([]Bar, 0, len(tasks))
	for row, t := range tasks {
		if !t.HasDates() {
			continue
		}
		days := DaysBetween(t.Start, t.End) + 1
		if days < 1 {
			days = 1
		}
		bars = append(bars, Bar{
			TaskID:      t.ID,
			Row:         row,
			Left:        tl.Offset(t.Start),
			Width:       days * tl.CellWidth,
			Top:         row * rowHeight,
			RowHeight:   rowHeight,
			IsMilestone: t.IsMilestone,
		})
	}
	return bars
}

// BarIndex resolves task ids to their bars. When ids repeat, the first dated
// task wins.
type BarIndex map[string]Bar

// IndexBars builds a BarIndex over bars.
func IndexBars(bars []Bar) BarIndex {
	idx := make(BarIndex, len(bars))
	for _, b := range bars {
		if _, dup := idx[b.TaskID]; dup {
			continue
		}
		idx[b.TaskID] = b
	}
	return idx
}
