package gantt

// StrokeStyle describes how a dependency connector is stroked.
type StrokeStyle struct {
	Name      string `json:"name"`
	DashArray string `json:"dashArray"` // SVG stroke-dasharray, "none" for solid
	Width     int    `json:"width"`
}

// Theme holds the color and stroke tables used by the highlighter and the
// router. Treat a Theme as immutable once built; DefaultTheme returns a fresh
// copy every call.
type Theme struct {
	StatusColors            map[Status]string
	FallbackStatusColor     string
	CriticalColor           string
	ConflictColor           string
	DependencyColors        map[DependencyType]string
	FallbackDependencyColor string
	Strokes                 map[DependencyType]StrokeStyle
	FallbackStroke          StrokeStyle
}

// DefaultTheme returns the stock palette.
func DefaultTheme() Theme {
	return Theme{
		StatusColors: map[Status]string{
			StatusPending:    "#d9d9d9",
			StatusInProgress: "#1890ff",
			StatusCompleted:  "#52c41a",
			StatusCancelled:  "#ff4d4f",
		},
		FallbackStatusColor: "#1890ff",
		CriticalColor:       "#fa8c16",
		ConflictColor:       "#ff4d4f",
		DependencyColors: map[DependencyType]string{
			FinishToStart:  "#1890ff",
			StartToStart:   "#52c41a",
			FinishToFinish: "#722ed1",
			StartToFinish:  "#fa8c16",
		},
		FallbackDependencyColor: "#999999",
		Strokes: map[DependencyType]StrokeStyle{
			FinishToStart:  {Name: "solid", DashArray: "none", Width: 2},
			StartToStart:   {Name: "long-dash", DashArray: "8,4", Width: 2},
			FinishToFinish: {Name: "short-dash", DashArray: "4,4", Width: 2},
			StartToFinish:  {Name: "dash-dot", DashArray: "2,2,8,2", Width: 2},
		},
		FallbackStroke: StrokeStyle{Name: "dotted", DashArray: "4,2", Width: 1},
	}
}

// StatusColor returns the palette entry for s, or the fallback.
func (th Theme) StatusColor(s Status) string {
	if c, ok := th.StatusColors[s]; ok && c != "" {
		return c
	}
	return th.FallbackStatusColor
}

// DependencyColor returns the connector color for an edge. Conflicting edges
// always take the conflict color.
func (th Theme) DependencyColor(d Dependency) string {
	if d.HasConflict {
		return th.ConflictColor
	}
	if c, ok := th.DependencyColors[d.Type]; ok && c != "" {
		return c
	}
	return th.FallbackDependencyColor
}

// Stroke returns the stroke pattern for a dependency type.
func (th Theme) Stroke(t DependencyType) StrokeStyle {
	if s, ok := th.Strokes[t]; ok {
		return s
	}
	return th.FallbackStroke
}
