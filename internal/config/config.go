/*
Package config loads the YAML configuration controlling chart geometry,
palette and SVG appearance.

A configuration file only needs to contain the keys it changes; everything
else keeps the value from Default.
*/
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"gantt2svg/internal/gantt"
)

// Font controls text rendering.
type Font struct {
	Family string `yaml:"family"` // Font family for all text elements (e.g., "Arial, sans-serif")
	Size   int    `yaml:"size"`   // Base font size in pixels
}

// Colors controls the chart chrome. Task and connector colors live in Palette.
type Colors struct {
	Background string `yaml:"background"` // SVG background color
	Grid       string `yaml:"grid"`       // Column separator lines
	Weekend    string `yaml:"weekend"`    // Fill of weekend columns
	Today      string `yaml:"today"`      // Today marker line
	Text       string `yaml:"text"`       // Labels and task names
	Header     string `yaml:"header"`     // Month/day header background
	Progress   string `yaml:"progress"`   // Overlay drawn over the completed part of a bar
}

// Layout controls chart dimensions in pixels.
type Layout struct {
	RowHeight     int `yaml:"row_height"`      // Vertical pitch of a task row
	BarHeight     int `yaml:"bar_height"`      // Height of a task bar inside its row
	TaskListWidth int `yaml:"task_list_width"` // Width of the task list left of the chart, 0 hides it
	HeaderHeight  int `yaml:"header_height"`   // Height of each of the two header rows
	Margin        int `yaml:"margin"`          // Outer margin around the whole chart
}

// Gantt controls engine behaviour and which layers are drawn.
type Gantt struct {
	ViewMode         string `yaml:"view_mode"`          // Default zoom level: day, week or month
	LeadIn           int    `yaml:"lead_in"`            // Distance kept left of today when scrolling to today
	MonthLabelFormat string `yaml:"month_label_format"` // Go time layout for month headers
	ShowProgress     bool   `yaml:"show_progress"`      // Draw the progress overlay on bars
	ShowToday        bool   `yaml:"show_today"`         // Draw the today marker
	ShowDependencies bool   `yaml:"show_dependencies"`  // Draw dependency connectors
	ShowConflicts    bool   `yaml:"show_conflicts"`     // Draw conflict markers on connectors
	ShowLegend       bool   `yaml:"show_legend"`        // Draw the color and line style legend below the chart
	ElbowOffset      int    `yaml:"elbow_offset"`       // Distance a connector leaves its anchor before turning
	DetourOffset     int    `yaml:"detour_offset"`      // Vertical offset of the detour run from the source row center
	LaneStep         int    `yaml:"lane_step"`          // Separation of detours sharing a row pair
}

// Palette holds the colors the engine assigns to tasks and connectors.
type Palette struct {
	Status       map[string]string `yaml:"status"`       // Status name -> bar color
	Fallback     string            `yaml:"fallback"`     // Bar color for unknown statuses
	Critical     string            `yaml:"critical"`     // Bars on the critical path
	Conflict     string            `yaml:"conflict"`     // Conflicting bars and connectors
	Dependencies map[string]string `yaml:"dependencies"` // Dependency type (FS, SS, FF, SF) -> connector color
	Dependency   string            `yaml:"dependency"`   // Connector color for unknown types
}

// Milestone controls the marker drawn for milestone tasks.
type Milestone struct {
	Shape       string `yaml:"shape"`        // Marker shape: "diamond", "circle", "square", or "triangle"
	Size        int    `yaml:"size"`         // Half-size of the marker in pixels
	StrokeColor string `yaml:"stroke_color"` // Border color of the marker
	StrokeWidth int    `yaml:"stroke_width"` // Border width in pixels
}

// Config is the complete configuration for layout and SVG generation.
type Config struct {
	Font      Font      `yaml:"font"`
	Colors    Colors    `yaml:"colors"`
	Layout    Layout    `yaml:"layout"`
	Gantt     Gantt     `yaml:"gantt"`
	Palette   Palette   `yaml:"palette"`
	Milestone Milestone `yaml:"milestone"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	theme := gantt.DefaultTheme()

	status := make(map[string]string, len(theme.StatusColors))
	for s, c := range theme.StatusColors {
		status[string(s)] = c
	}
	deps := make(map[string]string, len(theme.DependencyColors))
	for t, c := range theme.DependencyColors {
		deps[string(t)] = c
	}

	return Config{
		Font: Font{
			Family: "Arial, sans-serif",
			Size:   12,
		},
		Colors: Colors{
			Background: "#ffffff",
			Grid:       "#f0f0f0",
			Weekend:    "#fafafa",
			Today:      "#ff4d4f",
			Text:       "#333333",
			Header:     "#f5f5f5",
			Progress:   "rgba(0,0,0,0.2)",
		},
		Layout: Layout{
			RowHeight:     gantt.DefaultRowHeight,
			BarHeight:     24,
			TaskListWidth: 360,
			HeaderHeight:  28,
			Margin:        10,
		},
		Gantt: Gantt{
			ViewMode:         string(gantt.ViewWeek),
			LeadIn:           gantt.DefaultLeadIn,
			MonthLabelFormat: gantt.DefaultMonthLabelFormat,
			ShowProgress:     true,
			ShowToday:        true,
			ShowDependencies: true,
			ShowConflicts:    true,
			ShowLegend:       true,
			ElbowOffset:      gantt.DefaultElbowOffset,
			DetourOffset:     gantt.DefaultDetourOffset,
			LaneStep:         gantt.DefaultLaneStep,
		},
		Palette: Palette{
			Status:       status,
			Fallback:     theme.FallbackStatusColor,
			Critical:     theme.CriticalColor,
			Conflict:     theme.ConflictColor,
			Dependencies: deps,
			Dependency:   theme.FallbackDependencyColor,
		},
		Milestone: Milestone{
			Shape:       "diamond",
			Size:        8,
			StrokeColor: "#333333",
			StrokeWidth: 1,
		},
	}
}

// Load reads configuration from a YAML file on top of Default. An empty path
// returns Default unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}
	cfg, err = Parse(data)
	if err != nil {
		return Config{}, err
	}
	logrus.WithField("path", path).Debug("configuration loaded")
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot lay out.
func (c Config) Validate() error {
	if c.Layout.RowHeight <= 0 {
		return fmt.Errorf("layout.row_height must be positive, got %d", c.Layout.RowHeight)
	}
	if c.Layout.BarHeight <= 0 || c.Layout.BarHeight > c.Layout.RowHeight {
		return fmt.Errorf("layout.bar_height must be in 1..%d, got %d", c.Layout.RowHeight, c.Layout.BarHeight)
	}
	if c.Layout.TaskListWidth < 0 || c.Layout.HeaderHeight <= 0 || c.Layout.Margin < 0 {
		return fmt.Errorf("layout: negative or zero dimensions")
	}
	if c.Gantt.ViewMode != "" {
		if _, err := gantt.ParseViewMode(c.Gantt.ViewMode); err != nil {
			return fmt.Errorf("gantt.view_mode: %w", err)
		}
	}
	for k := range c.Palette.Dependencies {
		if !gantt.DependencyType(strings.ToUpper(k)).Valid() {
			return fmt.Errorf("palette.dependencies: unknown dependency type %q", k)
		}
	}
	return nil
}

// ViewMode returns the configured default zoom level.
func (c Config) ViewMode() gantt.ViewMode {
	if m, err := gantt.ParseViewMode(c.Gantt.ViewMode); err == nil {
		return m
	}
	return gantt.ViewWeek
}

// Theme builds the engine palette from the configuration.
func (c Config) Theme() gantt.Theme {
	th := gantt.DefaultTheme()
	for s, col := range c.Palette.Status {
		th.StatusColors[gantt.Status(strings.ToLower(s))] = col
	}
	for t, col := range c.Palette.Dependencies {
		th.DependencyColors[gantt.DependencyType(strings.ToUpper(t))] = col
	}
	if c.Palette.Fallback != "" {
		th.FallbackStatusColor = c.Palette.Fallback
	}
	if c.Palette.Critical != "" {
		th.CriticalColor = c.Palette.Critical
	}
	if c.Palette.Conflict != "" {
		th.ConflictColor = c.Palette.Conflict
	}
	if c.Palette.Dependency != "" {
		th.FallbackDependencyColor = c.Palette.Dependency
	}
	return th
}

// LayoutOptions builds the engine options from the configuration. log may be
// nil.
func (c Config) LayoutOptions(log logrus.FieldLogger) gantt.Options {
	return gantt.Options{
		Theme:            c.Theme(),
		RowHeight:        c.Layout.RowHeight,
		LeadIn:           c.Gantt.LeadIn,
		MonthLabelFormat: c.Gantt.MonthLabelFormat,
		ElbowOffset:      c.Gantt.ElbowOffset,
		DetourOffset:     c.Gantt.DetourOffset,
		LaneStep:         c.Gantt.LaneStep,
		Log:              log,
	}
}

// Fingerprint is a stable hash of the configuration, used to key render
// caches.
func (c Config) Fingerprint() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
