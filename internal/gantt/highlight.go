package gantt

// Highlighter resolves the display color of task bars from externally
// supplied critical-path and conflict sets.
type Highlighter struct {
	theme     Theme
	critical  IDSet
	conflicts IDSet
}

// NewHighlighter creates a Highlighter. Nil sets are treated as empty.
func NewHighlighter(theme Theme, critical, conflicts IDSet) Highlighter {
	return Highlighter{theme: theme, critical: critical, conflicts: conflicts}
}

// TaskColor applies the fixed precedence: explicit task color, then conflict,
// then critical path, then the status palette.
func (h Highlighter) TaskColor(t Task) string {
	switch {
	case t.Color != "":
		return t.Color
	case h.conflicts.Has(t.ID):
		return h.theme.ConflictColor
	case h.critical.Has(t.ID):
		return h.theme.CriticalColor
	}
	return h.theme.StatusColor(t.Status)
}

// IsCritical reports whether the task lies on the critical path.
func (h Highlighter) IsCritical(id string) bool {
	return h.critical.Has(id)
}

// HasConflict reports whether the task is flagged as conflicting.
func (h Highlighter) HasConflict(id string) bool {
	return h.conflicts.Has(id)
}

// TaskStyle is the resolved presentation of one task.
type TaskStyle struct {
	TaskID      string `json:"taskId"`
	Color       string `json:"color"`
	IsCritical  bool   `json:"isCritical"`
	HasConflict bool   `json:"hasConflict"`
}

// Styles resolves a TaskStyle for every task, in input order.
func (h Highlighter) Styles(tasks []Task) []TaskStyle {
	out := make([]TaskStyle, len(tasks))
	for i, t := range tasks {
		out[i] = TaskStyle{
			TaskID:      t.ID,
			Color:       h.TaskColor(t),
			IsCritical:  h.IsCritical(t.ID),
			HasConflict: h.HasConflict(t.ID),
		}
	}
	return out
}
