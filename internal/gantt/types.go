/*
Package gantt implements the schedule layout engine behind the Gantt chart.

Given tasks with calendar extents and typed precedence dependencies it derives
the visible timeline, places one bar per dated task, routes orthogonal
dependency connectors and resolves display colors. Every entry point is a pure
function of its arguments: "today" is passed in explicitly and nothing is
retained between calls, so identical inputs always produce identical layouts.
*/
package gantt

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists the lifecycle states in legend order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// Label returns the display name of the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// DependencyType is one of the four precedence relations between tasks.
type DependencyType string

const (
	FinishToStart  DependencyType = "FS"
	StartToStart   DependencyType = "SS"
	FinishToFinish DependencyType = "FF"
	StartToFinish  DependencyType = "SF"
)

// DependencyTypes lists the relations in legend order.
var DependencyTypes = []DependencyType{FinishToStart, StartToStart, FinishToFinish, StartToFinish}

// Valid reports whether t is one of the four known relations.
func (t DependencyType) Valid() bool {
	switch t {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// Label returns the long human readable name of the relation.
func (t DependencyType) Label() string {
	switch t {
	case FinishToStart:
		return "Finish-to-Start"
	case StartToStart:
		return "Start-to-Start"
	case FinishToFinish:
		return "Finish-to-Finish"
	case StartToFinish:
		return "Start-to-Finish"
	}
	return string(t)
}

// Task is a schedulable unit of work. Start and End are calendar dates; the
// zero time means the date is not set.
type Task struct {
	ID           string
	Name         string
	Start        time.Time
	End          time.Time
	Progress     int
	Status       Status
	Priority     string
	AssigneeID   string
	AssigneeName string
	IsMilestone  bool
	Color        string
}

// HasDates reports whether the task carries both a start and an end date.
// Only such tasks get a bar.
func (t Task) HasDates() bool {
	return !t.Start.IsZero() && !t.End.IsZero()
}

// Dependency is a precedence edge between two tasks.
type Dependency struct {
	PredecessorID       string
	SuccessorID         string
	Type                DependencyType
	LagDays             int // informational, not used by the geometry
	HasConflict         bool
	ConflictDescription string
}

// Key identifies the edge for hover matching.
func (d Dependency) Key() EdgeKey {
	return EdgeKey{PredecessorID: d.PredecessorID, SuccessorID: d.SuccessorID}
}

// EdgeKey names a dependency by its endpoints.
type EdgeKey struct {
	PredecessorID string `json:"predecessorId"`
	SuccessorID   string `json:"successorId"`
}

// ViewMode is the active zoom level of the chart.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// ParseViewMode validates a zoom level name coming from outside the engine.
func ParseViewMode(s string) (ViewMode, error) {
	switch m := ViewMode(s); m {
	case ViewDay, ViewWeek, ViewMonth:
		return m, nil
	}
	return "", fmt.Errorf("unknown view mode %q (want day, week or month)", s)
}

// CellWidth returns the width of one day column at this zoom level.
// Unknown modes are a programmer error; use ParseViewMode at the boundary.
func (v ViewMode) CellWidth() int {
	switch v {
	case ViewDay:
		return 40
	case ViewWeek:
		return 20
	case ViewMonth:
		return 8
	}
	panic(fmt.Sprintf("gantt: invalid view mode %q", string(v)))
}

// IDSet is a read-only set of task ids supplied by an external scheduler.
type IDSet map[string]struct{}

// NewIDSet builds a set from the given ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set. A nil set is empty.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}
