package svg

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"gantt2svg/internal/config"
	"gantt2svg/internal/gantt"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sample() ([]gantt.Task, gantt.Chart) {
	tasks := []gantt.Task{
		{ID: "a", Name: "Design <draft> & review", Start: day("2024-01-01"), End: day("2024-01-05"), Progress: 150, Status: gantt.StatusCompleted},
		{ID: "b", Name: "Build", Start: day("2024-01-08"), End: day("2024-01-12"), Progress: 50, Status: gantt.StatusInProgress},
		{ID: "c", Name: "Release", Start: day("2024-01-15"), End: day("2024-01-15"), IsMilestone: true},
		{ID: "d", Name: "Unscheduled"},
	}
	in := gantt.Input{
		Tasks: tasks,
		Dependencies: []gantt.Dependency{
			{PredecessorID: "a", SuccessorID: "b", Type: gantt.FinishToStart},
			{PredecessorID: "b", SuccessorID: "c", Type: gantt.FinishToFinish, HasConflict: true, ConflictDescription: "ends \"late\""},
			{PredecessorID: "c", SuccessorID: "d", Type: gantt.FinishToStart},
		},
		CriticalPath: gantt.NewIDSet("a"),
		ViewMode:     gantt.ViewDay,
		Today:        day("2024-01-10"),
	}
	return tasks, gantt.Layout(in, gantt.DefaultOptions())
}

func TestRenderDocument(t *testing.T) {
	tasks, chart := sample()
	out := New(config.Default()).Render(chart, tasks)

	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) || !strings.HasSuffix(out, "</svg>") {
		t.Fatal("output is not a complete SVG document")
	}
	if got := strings.Count(out, "<path "); got != len(chart.Paths) {
		t.Errorf("expected %d paths, got %d", len(chart.Paths), got)
	}
	if len(chart.Paths) != 2 {
		t.Fatalf("expected 2 routed paths, got %d", len(chart.Paths))
	}
	if !strings.Contains(out, `d="`+chart.Paths[0].D()+`"`) {
		t.Error("path data missing from output")
	}
	if !strings.Contains(out, `class="today"`) {
		t.Error("expected today marker")
	}
	if !strings.Contains(out, `stroke-dasharray="4,4"`) {
		t.Error("expected dashed FF connector")
	}
	if !strings.Contains(out, ">!</text>") || !strings.Contains(out, "ends &quot;late&quot;") {
		t.Error("expected conflict marker with escaped description")
	}
}

func TestRenderEscapesNames(t *testing.T) {
	tasks, chart := sample()
	out := New(config.Default()).Render(chart, tasks)
	if strings.Contains(out, "<draft>") {
		t.Fatal("task name was not escaped")
	}
	if !strings.Contains(out, "Design &lt;draft&gt; &amp; review") {
		t.Error("expected escaped task name")
	}
}

func TestRenderBars(t *testing.T) {
	tasks, chart := sample()
	cfg := config.Default()
	out := New(cfg).Render(chart, tasks)

	if got := strings.Count(out, `class="task"`); got != 3 {
		t.Errorf("expected 3 drawn tasks, got %d", got)
	}
	// progress above 100 is clamped to the full bar width
	a := chart.Bars[0]
	full := `width="` + strconv.Itoa(a.Width) + `" height="24" rx="4" fill="` + cfg.Colors.Progress + `"`
	if !strings.Contains(out, full) {
		t.Error("expected clamped progress overlay")
	}
	if !strings.Contains(out, `stroke="`+cfg.Palette.Critical+`" stroke-width="2"`) {
		t.Error("expected critical outline")
	}
	// diamond milestone centered on its single cell
	c := chart.Bars[2]
	cx, cy := c.Left+c.Width/2, c.CenterY()
	diamond := `<polygon points="` + strconv.Itoa(cx) + "," + strconv.Itoa(cy-8)
	if !strings.Contains(out, diamond) {
		t.Error("expected diamond milestone marker")
	}
}

func TestRenderToggles(t *testing.T) {
	tasks, chart := sample()
	cfg := config.Default()
	cfg.Gantt.ShowDependencies = false
	cfg.Gantt.ShowToday = false
	cfg.Layout.TaskListWidth = 0
	out := New(cfg).Render(chart, tasks)

	if strings.Contains(out, "<path ") {
		t.Error("dependencies drawn while disabled")
	}
	if strings.Contains(out, `class="today"`) {
		t.Error("today marker drawn while disabled")
	}
	if strings.Contains(out, `class="task-text"`+">") {
		t.Error("task list drawn while hidden")
	}
}

func TestRenderLegend(t *testing.T) {
	tasks, chart := sample()
	cfg := config.Default()
	out := New(cfg).Render(chart, tasks)

	start := strings.Index(out, `<g class="legend">`)
	if start < 0 {
		t.Fatal("expected a legend")
	}
	legend := out[start:]
	legend = legend[:strings.Index(legend, "</g>")]

	for _, typ := range gantt.DependencyTypes {
		if !strings.Contains(legend, ">"+typ.Label()+"</text>") {
			t.Errorf("legend misses %s", typ.Label())
		}
	}
	for _, s := range gantt.Statuses {
		if !strings.Contains(legend, ">"+s.Label()+"</text>") {
			t.Errorf("legend misses status %s", s)
		}
	}
	for _, want := range []string{
		`stroke="#722ed1" stroke-width="2" stroke-dasharray="4,4"`,
		`stroke-dasharray="8,4"`,
		`stroke-dasharray="2,2,8,2"`,
		`fill="` + cfg.Palette.Critical + `"`,
		`fill="` + cfg.Palette.Conflict + `"`,
	} {
		if !strings.Contains(legend, want) {
			t.Errorf("legend misses %s", want)
		}
	}
	// line samples must not be counted as connectors
	if got := strings.Count(out, "<path "); got != len(chart.Paths) {
		t.Errorf("expected %d paths, got %d", len(chart.Paths), got)
	}

	cfg.Gantt.ShowLegend = false
	hidden := New(cfg)
	if strings.Contains(hidden.Render(chart, tasks), `class="legend"`) {
		t.Error("legend drawn while disabled")
	}
	if grow := New(config.Default()).frame(chart).height - hidden.frame(chart).height; grow != 2*legendRowHeight+cfg.Layout.Margin {
		t.Errorf("expected the legend to add %d px, got %d", 2*legendRowHeight+cfg.Layout.Margin, grow)
	}
}

func TestRenderTaskListColumns(t *testing.T) {
	tasks, chart := sample()
	out := New(config.Default()).Render(chart, tasks)

	for _, want := range []string{">Start</text>", ">End</text>", ">Jan 01</text>", ">Jan 05</text>", ">100%</text>", ">50%</text>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in task list", want)
		}
	}
	// the milestone has no progress cell and the undated task no date cells
	if got := strings.Count(out, ">Jan 15</text>"); got != 2 {
		t.Errorf("expected milestone start and end, got %d", got)
	}
	if got := strings.Count(out, ">0%</text>"); got != 1 {
		t.Errorf("expected only the undated task to show 0%%, got %d", got)
	}

	cfg := config.Default()
	cfg.Layout.TaskListWidth = taskColumnsMinWidth - 1
	narrow := New(cfg).Render(chart, tasks)
	if strings.Contains(narrow, ">Start</text>") || strings.Contains(narrow, ">Jan 01</text>") {
		t.Error("columns drawn in a narrow task list")
	}
	if !strings.Contains(narrow, ">Build</text>") {
		t.Error("narrow task list lost the names")
	}
}

func TestDrawMilestoneShapes(t *testing.T) {
	for shape, want := range map[string]string{
		"circle":   "<circle",
		"square":   "<rect",
		"triangle": "<polygon",
		"diamond":  "<polygon",
		"unknown":  "<polygon",
	} {
		var b strings.Builder
		drawMilestone(&b, 10, 10, "#000", config.Milestone{Shape: shape, Size: 4})
		if !strings.HasPrefix(b.String(), want) {
			t.Errorf("%s: expected %s, got %s", shape, want, b.String())
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 100, 12); got != "short" {
		t.Errorf("expected untouched text, got %q", got)
	}
	got := truncate("a rather long task name that overflows", 60, 12)
	if !strings.HasSuffix(got, "...") || estimateTextWidth(got, 12) > 60 {
		t.Errorf("unexpected truncation %q", got)
	}
}
