/*
Package input loads tasks and dependencies from project documents and CSV
files and converts them into engine values.

Records keep dates as strings exactly as supplied; they are parsed and
validated when a Project is converted with Input, so every error can name the
offending record and field.
*/
package input

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"gantt2svg/internal/gantt"
)

// ID is a task identifier. Documents may carry ids as strings or numbers.
type ID string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *ID) UnmarshalJSON(data []byte) (err error) {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	*id, err = canonicalNumber(string(data))
	return err
}

// canonicalNumber spells numeric ids one way, so 1, 1.0 and 1e0 name the
// same task.
func canonicalNumber(s string) (ID, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ID(strconv.FormatInt(n, 10)), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("invalid id %s: want string or number", s)
	}
	return ID(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// TaskRecord is a task as it appears in a project document or CSV row.
type TaskRecord struct {
	ID           ID     `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	StartDate    string `yaml:"start_date" json:"startDate"`
	EndDate      string `yaml:"end_date" json:"endDate"`
	Progress     int    `yaml:"progress" json:"progress"`
	Status       string `yaml:"status" json:"status"`
	Priority     string `yaml:"priority" json:"priority"`
	AssigneeID   ID     `yaml:"assignee_id" json:"assigneeId,omitempty"`
	AssigneeName string `yaml:"assignee_name" json:"assigneeName,omitempty"`
	IsMilestone  bool   `yaml:"is_milestone" json:"isMilestone,omitempty"`
	Color        string `yaml:"color" json:"color,omitempty"`

	// Dependencies lists predecessor ids. Each becomes a Finish-to-Start edge
	// unless an explicit dependency record already links the pair.
	Dependencies []ID `yaml:"dependencies" json:"dependencies,omitempty"`
}

// DependencyRecord is a typed precedence edge.
type DependencyRecord struct {
	PredecessorID       ID     `yaml:"predecessor_id" json:"predecessorId"`
	SuccessorID         ID     `yaml:"successor_id" json:"successorId"`
	Type                string `yaml:"dependency_type" json:"dependencyType"`
	LagDays             int    `yaml:"lag_days" json:"lagDays,omitempty"`
	HasConflict         bool   `yaml:"has_conflict" json:"hasConflict,omitempty"`
	ConflictDescription string `yaml:"conflict_description" json:"conflictDescription,omitempty"`
}

// dateFormats are tried in order; the first that parses wins.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
}

// ParseDate parses a calendar date in one of the accepted layouts and
// truncates it to its UTC day. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return gantt.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q", s)
}

// Task converts the record into an engine task.
func (r TaskRecord) Task() (gantt.Task, error) {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return gantt.Task{}, fmt.Errorf("task %q: start_date: %w", r.ID, err)
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return gantt.Task{}, fmt.Errorf("task %q: end_date: %w", r.ID, err)
	}
	return gantt.Task{
		ID:           string(r.ID),
		Name:         r.Name,
		Start:        start,
		End:          end,
		Progress:     r.Progress,
		Status:       gantt.Status(strings.ToLower(strings.TrimSpace(r.Status))),
		Priority:     r.Priority,
		AssigneeID:   string(r.AssigneeID),
		AssigneeName: r.AssigneeName,
		IsMilestone:  r.IsMilestone,
		Color:        strings.TrimSpace(r.Color),
	}, nil
}

// Dependency converts the record into an engine edge. An empty type means
// Finish-to-Start; other values are upper-cased and passed through, so the
// router drops types it does not know.
func (r DependencyRecord) Dependency() gantt.Dependency {
	typ := gantt.DependencyType(strings.ToUpper(strings.TrimSpace(r.Type)))
	if typ == "" {
		typ = gantt.FinishToStart
	}
	return gantt.Dependency{
		PredecessorID:       string(r.PredecessorID),
		SuccessorID:         string(r.SuccessorID),
		Type:                typ,
		LagDays:             r.LagDays,
		HasConflict:         r.HasConflict,
		ConflictDescription: r.ConflictDescription,
	}
}
