package gantt

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Input is everything one layout pass reads. The engine never mutates it.
type Input struct {
	Tasks        []Task
	Dependencies []Dependency
	CriticalPath IDSet
	Conflicts    IDSet
	ViewMode     ViewMode
	Today        time.Time
	Hovered      *EdgeKey
}

// Options tunes geometry and presentation.
type Options struct {
	Theme            Theme
	RowHeight        int
	LeadIn           int
	MonthLabelFormat string
	ElbowOffset      int
	DetourOffset     int
	LaneStep         int
	Log              logrus.FieldLogger
}

// DefaultOptions returns the stock geometry and palette.
func DefaultOptions() Options {
	return Options{
		Theme:            DefaultTheme(),
		RowHeight:        DefaultRowHeight,
		LeadIn:           DefaultLeadIn,
		MonthLabelFormat: DefaultMonthLabelFormat,
		ElbowOffset:      DefaultElbowOffset,
		DetourOffset:     DefaultDetourOffset,
		LaneStep:         DefaultLaneStep,
	}
}

// Chart is the complete layout handed to a renderer.
type Chart struct {
	Timeline      Timeline    `json:"timeline"`
	Bars          []Bar       `json:"bars"`
	Paths         []Path      `json:"paths"`
	Styles        []TaskStyle `json:"styles"`
	RowHeight     int         `json:"rowHeight"`
	Rows          int         `json:"rows"`
	ConflictCount int         `json:"conflictCount"`
	ScrollOffset  int         `json:"scrollOffset"`
	TodayX        int         `json:"todayX"`
	TodayVisible  bool        `json:"todayVisible"`
}

// Height is the total height of the task rows.
func (c Chart) Height() int {
	return c.Rows * c.RowHeight
}

// Layout runs the whole pipeline for one input.
func Layout(in Input, opts Options) Chart {
	if opts.RowHeight <= 0 {
		opts.RowHeight = DefaultRowHeight
	}
	if opts.LeadIn < 0 {
		opts.LeadIn = 0
	}

	tl := BuildTimeline(in.Tasks, in.ViewMode, in.Today, opts.MonthLabelFormat)
	bars := LayoutBars(in.Tasks, tl, opts.RowHeight)

	router := NewRouter(RouteOptions{
		Theme:        opts.Theme,
		ElbowOffset:  opts.ElbowOffset,
		DetourOffset: opts.DetourOffset,
		LaneStep:     opts.LaneStep,
		Hovered:      in.Hovered,
		Log:          opts.Log,
	})
	paths := router.Route(in.Dependencies, bars)

	conflicts := 0
	for _, d := range in.Dependencies {
		if d.HasConflict {
			conflicts++
		}
	}

	todayX, visible := TodayMarker(tl, in.Today)
	chart := Chart{
		Timeline:      tl,
		Bars:          bars,
		Paths:         paths,
		Styles:        NewHighlighter(opts.Theme, in.CriticalPath, in.Conflicts).Styles(in.Tasks),
		RowHeight:     opts.RowHeight,
		Rows:          len(in.Tasks),
		ConflictCount: conflicts,
		ScrollOffset:  ScrollToToday(tl, in.Today, opts.LeadIn),
		TodayX:        todayX,
		TodayVisible:  visible,
	}

	if opts.Log != nil {
		opts.Log.WithFields(logrus.Fields{
			"tasks":     len(in.Tasks),
			"bars":      len(bars),
			"deps":      len(in.Dependencies),
			"paths":     len(paths),
			"conflicts": conflicts,
			"view":      in.ViewMode,
		}).Debug("layout computed")
	}
	return chart
}
