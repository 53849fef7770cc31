package gantt

import (
	"encoding/json"
	"reflect"
	"testing"
)

func sampleInput(t *testing.T) Input {
	t.Helper()
	return Input{
		Tasks: []Task{
			task(t, "design", "2024-01-01", "2024-01-05"),
			task(t, "build", "2024-01-10", "2024-01-20"),
			task(t, "review", "2024-01-08", "2024-01-12"),
			task(t, "launch", "2024-01-21", ""),
			{ID: "ms", Name: "Milestone", Start: date(t, "2024-01-22"), End: date(t, "2024-01-22"), IsMilestone: true},
		},
		Dependencies: []Dependency{
			{PredecessorID: "design", SuccessorID: "build", Type: FinishToStart},
			{PredecessorID: "build", SuccessorID: "review", Type: FinishToStart, HasConflict: true, ConflictDescription: "review starts before build ends"},
			{PredecessorID: "design", SuccessorID: "review", Type: StartToStart},
			{PredecessorID: "build", SuccessorID: "launch", Type: FinishToStart},
			{PredecessorID: "build", SuccessorID: "ms", Type: FinishToFinish},
			{PredecessorID: "review", SuccessorID: "ghost", Type: StartToFinish},
		},
		CriticalPath: NewIDSet("design", "build", "ms"),
		Conflicts:    NewIDSet("review"),
		ViewMode:     ViewWeek,
		Today:        date(t, "2024-01-15"),
	}
}

func TestLayoutDeterministic(t *testing.T) {
	in := sampleInput(t)
	a := Layout(in, DefaultOptions())
	b := Layout(in, DefaultOptions())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two layouts of the same input differ")
	}
	ja, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Fatal("serialized layouts differ")
	}
}

func TestLayoutPipeline(t *testing.T) {
	chart := Layout(sampleInput(t), DefaultOptions())

	if len(chart.Bars) != 4 {
		t.Fatalf("expected 4 bars (launch is undated), got %d", len(chart.Bars))
	}
	for _, b := range chart.Bars {
		if b.TaskID == "launch" {
			t.Fatal("undated task got a bar")
		}
	}
	if len(chart.Paths) != 4 {
		t.Fatalf("expected 4 routed paths, got %d", len(chart.Paths))
	}
	for _, p := range chart.Paths {
		if p.SuccessorID == "launch" || p.SuccessorID == "ghost" {
			t.Errorf("unexpected path %s->%s", p.PredecessorID, p.SuccessorID)
		}
	}
	if chart.ConflictCount != 1 {
		t.Errorf("expected 1 conflict, got %d", chart.ConflictCount)
	}
	if chart.Rows != 5 || chart.Height() != 200 {
		t.Errorf("expected 5 rows / height 200, got %d / %d", chart.Rows, chart.Height())
	}
	if len(chart.Styles) != 5 {
		t.Fatalf("expected a style per task, got %d", len(chart.Styles))
	}
	if chart.Styles[2].Color != DefaultTheme().ConflictColor {
		t.Errorf("expected review in conflict color, got %s", chart.Styles[2].Color)
	}
	if !chart.TodayVisible {
		t.Error("expected today to be visible")
	}
	// range start 2023-12-25, today is column 21, week cell width 20
	if chart.TodayX != 21*20+10 {
		t.Errorf("expected today x %d, got %d", 21*20+10, chart.TodayX)
	}
	if chart.ScrollOffset != 21*20-200 {
		t.Errorf("expected scroll offset %d, got %d", 21*20-200, chart.ScrollOffset)
	}
}

func TestLayoutScenarioFromSingleTask(t *testing.T) {
	in := Input{
		Tasks:    []Task{task(t, "1", "2024-01-01", "2024-01-05")},
		ViewMode: ViewDay,
		Today:    date(t, "2024-01-01"),
	}
	chart := Layout(in, DefaultOptions())
	if got := chart.Timeline.Start.Format("2006-01-02"); got != "2023-12-25" {
		t.Errorf("expected range start 2023-12-25, got %s", got)
	}
	if b := chart.Bars[0]; b.Left != 280 || b.Width != 200 {
		t.Errorf("expected left 280 width 200, got %+v", b)
	}
}
