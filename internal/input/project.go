package input

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"gantt2svg/internal/gantt"
)

// Project is a complete chart request: tasks, their dependencies and the
// sets an external scheduler computed for them.
type Project struct {
	Tasks           []TaskRecord       `yaml:"tasks" json:"tasks"`
	Dependencies    []DependencyRecord `yaml:"dependencies" json:"dependencies,omitempty"`
	CriticalPathIDs []ID               `yaml:"critical_path_ids" json:"criticalPathIds,omitempty"`
	ConflictTaskIDs []ID               `yaml:"conflict_task_ids" json:"conflictTaskIds,omitempty"`
	ViewMode        string             `yaml:"view_mode" json:"viewMode,omitempty"`
	Today           string             `yaml:"today" json:"today,omitempty"`

	// Hovered is interactive state and only travels over the API.
	Hovered *gantt.EdgeKey `yaml:"-" json:"hovered,omitempty"`
}

// LoadProject reads a project document. Files ending in .json are decoded
// with the camelCase field names used by the API; anything else is read as
// YAML with snake_case keys.
func LoadProject(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("error reading project file: %w", err)
	}

	var p Project
	if strings.EqualFold(filepath.Ext(path), ".json") {
		p, err = DecodeJSON(data)
	} else {
		p, err = ParseYAML(data)
	}
	if err != nil {
		return Project{}, err
	}
	logrus.WithFields(logrus.Fields{
		"path":  path,
		"tasks": len(p.Tasks),
		"deps":  len(p.Dependencies),
	}).Debug("project loaded")
	return p, nil
}

// ParseYAML decodes a YAML project document.
func ParseYAML(data []byte) (Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("error parsing project: %w", err)
	}
	return p, nil
}

// DecodeJSON decodes a JSON project document.
func DecodeJSON(data []byte) (Project, error) {
	var p Project
	if err := sonic.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("error parsing project: %w", err)
	}
	return p, nil
}

// Input converts the project into an engine input. A non-empty Today field
// overrides today. A missing view mode means week.
func (p Project) Input(today time.Time) (gantt.Input, error) {
	mode := gantt.ViewWeek
	if v := strings.TrimSpace(p.ViewMode); v != "" {
		m, err := gantt.ParseViewMode(strings.ToLower(v))
		if err != nil {
			return gantt.Input{}, err
		}
		mode = m
	}

	if p.Today != "" {
		t, err := ParseDate(p.Today)
		if err != nil {
			return gantt.Input{}, fmt.Errorf("today: %w", err)
		}
		today = t
	}

	tasks := make([]gantt.Task, 0, len(p.Tasks))
	for _, r := range p.Tasks {
		t, err := r.Task()
		if err != nil {
			return gantt.Input{}, err
		}
		tasks = append(tasks, t)
	}

	return gantt.Input{
		Tasks:        tasks,
		Dependencies: p.dependencies(),
		CriticalPath: idSet(p.CriticalPathIDs),
		Conflicts:    idSet(p.ConflictTaskIDs),
		ViewMode:     mode,
		Today:        gantt.Day(today),
		Hovered:      p.Hovered,
	}, nil
}

// dependencies returns the explicit edges followed by the implicit
// Finish-to-Start edges from task predecessor lists.
func (p Project) dependencies() []gantt.Dependency {
	deps := make([]gantt.Dependency, 0, len(p.Dependencies))
	seen := make(map[gantt.EdgeKey]struct{}, len(p.Dependencies))
	for _, r := range p.Dependencies {
		d := r.Dependency()
		deps = append(deps, d)
		seen[d.Key()] = struct{}{}
	}
	for _, t := range p.Tasks {
		for _, pred := range t.Dependencies {
			k := gantt.EdgeKey{PredecessorID: string(pred), SuccessorID: string(t.ID)}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			deps = append(deps, gantt.Dependency{
				PredecessorID: k.PredecessorID,
				SuccessorID:   k.SuccessorID,
				Type:          gantt.FinishToStart,
			})
		}
	}
	return deps
}

func idSet(ids []ID) gantt.IDSet {
	s := make(gantt.IDSet, len(ids))
	for _, id := range ids {
		s[string(id)] = struct{}{}
	}
	return s
}
