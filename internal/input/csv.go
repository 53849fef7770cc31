package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// columns maps lower-cased header names to their index.
type columns map[string]int

func readHeader(reader *csv.Reader) (columns, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	cols := make(columns, len(header))
	for i, col := range header {
		cols[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return cols, nil
}

// get returns the trimmed value of the first present column among names.
func (c columns) get(record []string, names ...string) string {
	for _, name := range names {
		if i, ok := c[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
	}
	return ""
}

func (c columns) has(names ...string) bool {
	for _, name := range names {
		if _, ok := c[name]; ok {
			return true
		}
	}
	return false
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

// ParseTasksCSV reads task rows. The header is required and matched case
// insensitively; only the id column is mandatory. Recognized columns are id,
// name, start (or start_date), end (or end_date), progress, status, priority,
// assignee_id, assignee (or assignee_name), milestone, color and
// dependencies (predecessor ids separated by ';').
func ParseTasksCSV(r io.Reader) ([]TaskRecord, error) {
	reader := newReader(r)
	cols, err := readHeader(reader)
	if err != nil {
		return nil, err
	}
	if !cols.has("id") {
		return nil, fmt.Errorf("id column not found in tasks CSV")
	}

	var tasks []TaskRecord
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		t := TaskRecord{
			ID:           ID(cols.get(record, "id")),
			Name:         cols.get(record, "name"),
			StartDate:    cols.get(record, "start", "start_date"),
			EndDate:      cols.get(record, "end", "end_date"),
			Status:       cols.get(record, "status"),
			Priority:     cols.get(record, "priority"),
			AssigneeID:   ID(cols.get(record, "assignee_id")),
			AssigneeName: cols.get(record, "assignee", "assignee_name"),
			Color:        cols.get(record, "color"),
			Dependencies: splitIDs(cols.get(record, "dependencies"), ";"),
		}
		if t.ID == "" {
			return nil, fmt.Errorf("line %d: empty task id", line)
		}
		if t.Progress, err = atoi(cols.get(record, "progress")); err != nil {
			return nil, fmt.Errorf("line %d: progress: %w", line, err)
		}
		if t.IsMilestone, err = parseBool(cols.get(record, "milestone", "is_milestone")); err != nil {
			return nil, fmt.Errorf("line %d: milestone: %w", line, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// ParseDependenciesCSV reads dependency rows with the columns predecessor,
// successor, type, lag, conflict and conflict_description. Predecessor and
// successor are mandatory.
func ParseDependenciesCSV(r io.Reader) ([]DependencyRecord, error) {
	reader := newReader(r)
	cols, err := readHeader(reader)
	if err != nil {
		return nil, err
	}
	if !cols.has("predecessor", "predecessor_id") || !cols.has("successor", "successor_id") {
		return nil, fmt.Errorf("predecessor and successor columns are required in dependencies CSV")
	}

	var deps []DependencyRecord
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		d := DependencyRecord{
			PredecessorID:       ID(cols.get(record, "predecessor", "predecessor_id")),
			SuccessorID:         ID(cols.get(record, "successor", "successor_id")),
			Type:                cols.get(record, "type", "dependency_type"),
			ConflictDescription: cols.get(record, "conflict_description"),
		}
		if d.LagDays, err = atoi(cols.get(record, "lag", "lag_days")); err != nil {
			return nil, fmt.Errorf("line %d: lag: %w", line, err)
		}
		if d.HasConflict, err = parseBool(cols.get(record, "conflict", "has_conflict")); err != nil {
			return nil, fmt.Errorf("line %d: conflict: %w", line, err)
		}
		deps = append(deps, d)
	}
	return deps, nil
}

// LoadCSV builds a project from a tasks file and an optional dependencies
// file.
func LoadCSV(tasksPath, depsPath string) (Project, error) {
	f, err := os.Open(tasksPath)
	if err != nil {
		return Project{}, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer f.Close()

	tasks, err := ParseTasksCSV(f)
	if err != nil {
		return Project{}, fmt.Errorf("%s: %w", tasksPath, err)
	}
	p := Project{Tasks: tasks}
	if depsPath == "" {
		return p, nil
	}

	df, err := os.Open(depsPath)
	if err != nil {
		return Project{}, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer df.Close()

	if p.Dependencies, err = ParseDependenciesCSV(df); err != nil {
		return Project{}, fmt.Errorf("%s: %w", depsPath, err)
	}
	return p, nil
}

// SplitIDs splits a comma separated id list, dropping blanks.
func SplitIDs(s string) []ID {
	return splitIDs(s, ",")
}

func splitIDs(s, sep string) []ID {
	var ids []ID
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, ID(part))
		}
	}
	return ids
}

func atoi(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "":
		return false, nil
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(s)
}
