// Package svg draws a computed gantt.Chart as a standalone SVG document.
package svg

import (
	"fmt"
	"strings"
	"time"

	"gantt2svg/internal/config"
	"gantt2svg/internal/gantt"
)

// Renderer turns charts into SVG using one configuration.
type Renderer struct {
	cfg config.Config
}

// New creates a Renderer.
func New(cfg config.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// frame holds the pixel origins of the chart areas.
type frame struct {
	width, height int
	listX         int // left edge of the task list
	chartX        int // x of the first day column
	headerY       int // top of the month header row
	bodyY         int // top of the first task row
	legendY       int // top of the legend, below the last row
}

// legendRowHeight is the pitch of the two legend rows.
const legendRowHeight = 20

func (r *Renderer) frame(chart gantt.Chart) frame {
	l := r.cfg.Layout
	f := frame{
		listX:   l.Margin,
		chartX:  l.Margin + l.TaskListWidth,
		headerY: l.Margin,
		bodyY:   l.Margin + 2*l.HeaderHeight,
	}
	f.width = f.chartX + chart.Timeline.Width() + l.Margin
	f.legendY = f.bodyY + chart.Height() + l.Margin
	f.height = f.legendY
	if r.cfg.Gantt.ShowLegend {
		f.height += 2*legendRowHeight + l.Margin
	}
	return f
}

// Render draws chart. tasks must be the slice the chart was computed from;
// bar rows index into it.
func (r *Renderer) Render(chart gantt.Chart, tasks []gantt.Task) string {
	cfg := r.cfg
	f := r.frame(chart)

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.month-text { font-family: %s; font-size: %dpx; font-weight: bold; fill: %s; }
.day-text { font-family: %s; font-size: %dpx; fill: %s; }
.task-text { font-family: %s; font-size: %dpx; fill: %s; }
.marker-text { font-family: %s; font-size: %dpx; font-weight: bold; fill: #ffffff; }
.legend-text { font-family: %s; font-size: %dpx; fill: %s; }
</style>
</defs>
`, f.width, f.height, f.width, f.height, cfg.Colors.Background,
		cfg.Font.Family, cfg.Font.Size, cfg.Colors.Text,
		cfg.Font.Family, cfg.Font.Size-2, cfg.Colors.Text,
		cfg.Font.Family, cfg.Font.Size, cfg.Colors.Text,
		cfg.Font.Family, cfg.Font.Size-1,
		cfg.Font.Family, cfg.Font.Size-1, cfg.Colors.Text))

	r.drawHeader(&svg, chart, f)
	r.drawGrid(&svg, chart, f)
	r.drawTaskList(&svg, chart, tasks, f)

	svg.WriteString(fmt.Sprintf(`<g transform="translate(%d,%d)">`+"\n", f.chartX, f.bodyY))
	if cfg.Gantt.ShowToday && chart.TodayVisible {
		svg.WriteString(fmt.Sprintf(`<line class="today" x1="%d" y1="0" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`+"\n",
			chart.TodayX, chart.TodayX, chart.Height(), cfg.Colors.Today))
	}
	r.drawBars(&svg, chart, tasks)
	if cfg.Gantt.ShowDependencies {
		r.drawPaths(&svg, chart.Paths)
	}
	svg.WriteString("</g>\n")

	if cfg.Gantt.ShowLegend {
		r.drawLegend(&svg, f)
	}

	svg.WriteString("</svg>")
	return svg.String()
}

// drawHeader draws the month row and the day tick row above the chart.
func (r *Renderer) drawHeader(svg *strings.Builder, chart gantt.Chart, f frame) {
	tl := chart.Timeline
	hh := r.cfg.Layout.HeaderHeight
	fs := r.cfg.Font.Size

	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
		f.chartX, f.headerY, tl.Width(), 2*hh, r.cfg.Colors.Header))

	for _, m := range tl.MonthHeaders {
		x := f.chartX + m.StartIndex*tl.CellWidth
		w := m.Span * tl.CellWidth
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`+"\n",
			x, f.headerY, x, f.bodyY, r.cfg.Colors.Grid))
		if estimateTextWidth(m.Label, fs) > w-4 {
			continue
		}
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="month-text">%s</text>`+"\n",
			x+4, f.headerY+hh/2+fs/2-1, escapeXML(m.Label)))
	}

	dayY := f.headerY + hh + hh/2 + (fs-2)/2 - 1
	for i, col := range tl.Columns {
		label := gantt.DayTickLabel(tl.ViewMode, i, col.Date)
		if label == "" {
			continue
		}
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" class="day-text">%s</text>`+"\n",
			f.chartX+i*tl.CellWidth+tl.CellWidth/2, dayY, label))
	}
}

// drawGrid shades weekends and draws column and row separators.
func (r *Renderer) drawGrid(svg *strings.Builder, chart gantt.Chart, f frame) {
	tl := chart.Timeline
	h := chart.Height()

	for i, col := range tl.Columns {
		x := f.chartX + i*tl.CellWidth
		if col.IsWeekend {
			svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
				x, f.bodyY, tl.CellWidth, h, r.cfg.Colors.Weekend))
		}
		// In the coarser views only week starts get a separator.
		if tl.ViewMode == gantt.ViewDay || i%7 == 0 {
			svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`+"\n",
				x, f.bodyY, x, f.bodyY+h, r.cfg.Colors.Grid))
		}
	}
	for row := 0; row <= chart.Rows; row++ {
		y := f.bodyY + row*chart.RowHeight
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`+"\n",
			f.listX, y, f.chartX+tl.Width(), y, r.cfg.Colors.Grid))
	}
}

// Task list columns right of the name. They are drawn only when the list is
// at least taskColumnsMinWidth wide.
const (
	taskColumnsMinWidth = 360
	dateColumnWidth     = 52
	progressColumnWidth = 40
)

// drawTaskList writes task names left of the chart, truncated to the column.
// Wide lists also get start, end and progress columns with headings.
func (r *Renderer) drawTaskList(svg *strings.Builder, chart gantt.Chart, tasks []gantt.Task, f frame) {
	width := r.cfg.Layout.TaskListWidth
	if width <= 0 {
		return
	}
	fs := r.cfg.Font.Size
	columns := width >= taskColumnsMinWidth
	progressX := f.chartX - 8
	endX := progressX - progressColumnWidth
	startX := endX - dateColumnWidth
	nameWidth := width - 16
	type cell struct {
		x    int
		text string
	}
	if columns {
		nameWidth = startX - dateColumnWidth - f.listX - 16

		hh := r.cfg.Layout.HeaderHeight
		y := f.headerY + hh + hh/2 + (fs-2)/2 - 1
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="day-text">Task</text>`+"\n", f.listX+8, y))
		for _, c := range []cell{{startX, "Start"}, {endX, "End"}, {progressX, "%"}} {
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="end" class="day-text">%s</text>`+"\n",
				c.x, y, c.text))
		}
	}

	for row, t := range tasks {
		y := f.bodyY + row*chart.RowHeight + chart.RowHeight/2 + fs/2 - 1
		name := truncate(t.Name, nameWidth, fs)
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="task-text">%s</text>`+"\n",
			f.listX+8, y, escapeXML(name)))
		if !columns {
			continue
		}
		cells := []cell{{startX, listDate(t.Start)}, {endX, listDate(t.End)}}
		if !t.IsMilestone {
			cells = append(cells, cell{progressX, fmt.Sprintf("%d%%", clampProgress(t.Progress))})
		}
		for _, c := range cells {
			if c.text == "" {
				continue
			}
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="end" class="day-text">%s</text>`+"\n",
				c.x, y, c.text))
		}
	}
}

// listDate formats a task list date; unset dates stay blank.
func listDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 02")
}

func (r *Renderer) drawBars(svg *strings.Builder, chart gantt.Chart, tasks []gantt.Task) {
	barH := r.cfg.Layout.BarHeight
	for _, b := range chart.Bars {
		if b.Row >= len(tasks) || b.Row >= len(chart.Styles) {
			continue
		}
		t := tasks[b.Row]
		style := chart.Styles[b.Row]

		svg.WriteString(fmt.Sprintf(`<g class="task" data-task-id="%s">`, escapeXML(b.TaskID)))
		svg.WriteString(fmt.Sprintf("<title>%s</title>", escapeXML(tooltip(t))))
		if b.IsMilestone {
			drawMilestone(svg, b.Left+b.Width/2, b.CenterY(), style.Color, r.cfg.Milestone)
			svg.WriteString("</g>\n")
			continue
		}

		y := b.Top + (b.RowHeight-barH)/2
		stroke := ""
		if style.IsCritical {
			stroke = fmt.Sprintf(` stroke="%s" stroke-width="2"`, r.cfg.Palette.Critical)
		}
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s"%s/>`,
			b.Left, y, b.Width, barH, style.Color, stroke))

		if r.cfg.Gantt.ShowProgress {
			if p := clampProgress(t.Progress); p > 0 {
				svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s"/>`,
					b.Left, y, b.Width*p/100, barH, r.cfg.Colors.Progress))
			}
		}
		svg.WriteString("</g>\n")
	}
}

func (r *Renderer) drawPaths(svg *strings.Builder, paths []gantt.Path) {
	for _, p := range paths {
		svg.WriteString(fmt.Sprintf(`<g class="dependency" data-type="%s">`, p.Type))
		svg.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="%d" stroke-dasharray="%s"/>`,
			p.D(), p.Color, p.Stroke.Width, p.Stroke.DashArray))
		drawArrow(svg, p.Arrow, p.Color)
		if r.cfg.Gantt.ShowConflicts && p.Marker != nil {
			m := p.Marker
			svg.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%d" fill="%s"><title>%s</title></circle>`,
				m.Center.X, m.Center.Y, m.Radius, r.cfg.Palette.Conflict, escapeXML(p.ConflictDescription)))
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" class="marker-text">%s</text>`,
				m.Center.X, m.Center.Y+4, escapeXML(m.Glyph)))
		}
		svg.WriteString("</g>\n")
	}
}

// drawLegend explains bar colors on its first row and connector colors and
// dash patterns on its second.
func (r *Renderer) drawLegend(svg *strings.Builder, f frame) {
	theme := r.cfg.Theme()
	fs := r.cfg.Font.Size - 1

	svg.WriteString(`<g class="legend">` + "\n")

	x, y := f.listX, f.legendY
	swatch := func(label, fill string) {
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="12" rx="2" fill="%s"/>`+"\n",
			x, y+4, fill))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="legend-text">%s</text>`+"\n",
			x+16, y+14, escapeXML(label)))
		x += 16 + estimateTextWidth(label, fs) + 16
	}
	for _, s := range gantt.Statuses {
		swatch(s.Label(), theme.StatusColor(s))
	}
	swatch("Critical path", theme.CriticalColor)
	swatch("Conflict", theme.ConflictColor)

	x, y = f.listX, f.legendY+legendRowHeight
	for _, typ := range gantt.DependencyTypes {
		stroke := theme.Stroke(typ)
		label := typ.Label()
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="%d" stroke-dasharray="%s"/>`+"\n",
			x, y+10, x+24, y+10, theme.DependencyColor(gantt.Dependency{Type: typ}), stroke.Width, stroke.DashArray))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="legend-text">%s</text>`+"\n",
			x+30, y+14, escapeXML(label)))
		x += 30 + estimateTextWidth(label, fs) + 16
	}

	svg.WriteString("</g>\n")
}

// drawArrow draws a filled arrowhead whose tip touches a.Tip.
func drawArrow(svg *strings.Builder, a gantt.Arrow, color string) {
	const l, w = 6, 4
	x, y := a.Tip.X, a.Tip.Y
	var pts [3][2]int
	switch a.Direction {
	case gantt.Left:
		pts = [3][2]int{{x, y}, {x + l, y - w}, {x + l, y + w}}
	case gantt.Up:
		pts = [3][2]int{{x, y}, {x - w, y + l}, {x + w, y + l}}
	case gantt.Down:
		pts = [3][2]int{{x, y}, {x - w, y - l}, {x + w, y - l}}
	default:
		pts = [3][2]int{{x, y}, {x - l, y - w}, {x - l, y + w}}
	}
	svg.WriteString(fmt.Sprintf(`<polygon points="%d,%d %d,%d %d,%d" fill="%s"/>`,
		pts[0][0], pts[0][1], pts[1][0], pts[1][1], pts[2][0], pts[2][1], color))
}

// drawMilestone draws the configured marker shape centered on (x, y).
func drawMilestone(svg *strings.Builder, x, y int, fill string, m config.Milestone) {
	size := m.Size
	switch strings.ToLower(m.Shape) {
	case "circle":
		svg.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%d" fill="%s" stroke="%s" stroke-width="%d"/>`,
			x, y, size, fill, m.StrokeColor, m.StrokeWidth))

	case "square":
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="%s" stroke-width="%d"/>`,
			x-size, y-size, size*2, size*2, fill, m.StrokeColor, m.StrokeWidth))

	case "triangle":
		height := int(float64(size) * 1.5)
		svg.WriteString(fmt.Sprintf(`<polygon points="%d,%d %d,%d %d,%d" fill="%s" stroke="%s" stroke-width="%d"/>`,
			x, y-height,
			x-size, y+height/2,
			x+size, y+height/2,
			fill, m.StrokeColor, m.StrokeWidth))

	default:
		svg.WriteString(fmt.Sprintf(`<polygon points="%d,%d %d,%d %d,%d %d,%d" fill="%s" stroke="%s" stroke-width="%d"/>`,
			x, y-size,
			x+size, y,
			x, y+size,
			x-size, y,
			fill, m.StrokeColor, m.StrokeWidth))
	}
}

func tooltip(t gantt.Task) string {
	var b strings.Builder
	b.WriteString(t.Name)
	if t.HasDates() {
		fmt.Fprintf(&b, " (%s - %s)", t.Start.Format("2006-01-02"), t.End.Format("2006-01-02"))
	}
	if t.AssigneeName != "" {
		fmt.Fprintf(&b, " @%s", t.AssigneeName)
	}
	if !t.IsMilestone {
		fmt.Fprintf(&b, " %d%%", clampProgress(t.Progress))
	}
	return b.String()
}

func clampProgress(p int) int {
	return max(0, min(p, 100))
}

// estimateTextWidth estimates the width of text in pixels based on character count
func estimateTextWidth(text string, fontSize int) int {
	avgCharWidth := float64(fontSize) * 0.6
	return int(float64(len([]rune(text))) * avgCharWidth)
}

// truncate shortens text with an ellipsis until it fits maxWidth.
func truncate(text string, maxWidth, fontSize int) string {
	if estimateTextWidth(text, fontSize) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && estimateTextWidth(string(runes)+"...", fontSize) > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
