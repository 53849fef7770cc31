package config

import (
	"os"
	"path/filepath"
	"testing"

	"gantt2svg/internal/gantt"
)

func TestDefaultMatchesEngineDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	opts := cfg.LayoutOptions(nil)
	if opts.RowHeight != gantt.DefaultRowHeight || opts.LeadIn != gantt.DefaultLeadIn {
		t.Errorf("unexpected geometry: row=%d leadIn=%d", opts.RowHeight, opts.LeadIn)
	}
	th := cfg.Theme()
	def := gantt.DefaultTheme()
	for _, typ := range gantt.DependencyTypes {
		if th.DependencyColors[typ] != def.DependencyColors[typ] {
			t.Errorf("%s: expected %s, got %s", typ, def.DependencyColors[typ], th.DependencyColors[typ])
		}
	}
	if cfg.ViewMode() != gantt.ViewWeek {
		t.Errorf("expected week as default view, got %s", cfg.ViewMode())
	}
}

func TestParsePartialOverridesKeepDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
layout:
  row_height: 32
  bar_height: 20
gantt:
  view_mode: day
  lead_in: 80
palette:
  critical: "#000000"
  status:
    blocked: "#aaaaaa"
  dependencies:
    FF: "#111111"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Layout.RowHeight != 32 || cfg.Layout.TaskListWidth != 360 {
		t.Errorf("unexpected layout: %+v", cfg.Layout)
	}
	if cfg.ViewMode() != gantt.ViewDay || cfg.Gantt.LeadIn != 80 {
		t.Errorf("unexpected gantt section: %+v", cfg.Gantt)
	}
	if !cfg.Gantt.ShowDependencies || !cfg.Gantt.ShowLegend {
		t.Error("unset booleans must keep their defaults")
	}

	th := cfg.Theme()
	if th.CriticalColor != "#000000" {
		t.Errorf("expected critical override, got %s", th.CriticalColor)
	}
	if th.StatusColors["blocked"] != "#aaaaaa" || th.StatusColors[gantt.StatusCompleted] != "#52c41a" {
		t.Errorf("status palette not merged: %v", th.StatusColors)
	}
	if th.DependencyColors[gantt.FinishToFinish] != "#111111" || th.DependencyColors[gantt.FinishToStart] != "#1890ff" {
		t.Errorf("dependency palette not merged: %v", th.DependencyColors)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"zero row height":  "layout:\n  row_height: 0\n",
		"bar taller":       "layout:\n  bar_height: 60\n",
		"unknown view":     "gantt:\n  view_mode: quarter\n",
		"unknown dep type": "palette:\n  dependencies:\n    XY: '#fff'\n",
		"not yaml":         "layout: [",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if cfg.Font.Size != 12 {
		t.Errorf("expected default font size, got %d", cfg.Font.Size)
	}

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("font:\n  size: 14\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Font.Size != 14 || cfg.Font.Family != "Arial, sans-serif" {
		t.Errorf("unexpected font: %+v", cfg.Font)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFingerprint(t *testing.T) {
	a := Default()
	b := Default()
	if a.Fingerprint() != b.Fingerprint() || a.Fingerprint() == "" {
		t.Fatal("fingerprint must be stable")
	}
	b.Colors.Background = "#000000"
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("fingerprint must change with the configuration")
	}
}
