package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/geom"
	"github.com/1broseidon/deskgrid/internal/platform"
)

const singleTaskScenario = `
name: single
desktop: [0, 0, 1000, 1000]
layout: {}
tasks:
  - id: 7
    bounds: [0, 0, 200, 100]
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}

func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "none.yaml")
}

func TestRunPlan_JSON(t *testing.T) {
	sc := writeScenario(t, singleTaskScenario)

	var out bytes.Buffer
	if rc := runPlan([]string{"--path", missingConfig(t), "--json", sc}, &out); rc != 0 {
		t.Fatalf("runPlan rc=%d, want 0", rc)
	}

	var got planOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if got.Name != "single" || got.Profile != "inline" || got.Path != "full" {
		t.Fatalf("unexpected header: %+v", got)
	}
	want := geom.Rect{Left: 0, Top: 250, Right: 1000, Bottom: 750}
	if len(got.Windows) != 1 || got.Windows[0].Bounds == nil || *got.Windows[0].Bounds != want {
		t.Fatalf("expected window 7 at %v, got %+v", want, got.Windows)
	}
}

func TestRunPlan_TextAndPNG(t *testing.T) {
	sc := writeScenario(t, singleTaskScenario)
	png := filepath.Join(t.TempDir(), "out.png")

	var out bytes.Buffer
	rc := runPlan([]string{"--path", missingConfig(t), "--png", png, "--width", "100", sc}, &out)
	if rc != 0 {
		t.Fatalf("runPlan rc=%d, want 0", rc)
	}
	if !strings.Contains(out.String(), "single (profile inline, full pass)") {
		t.Fatalf("missing header in output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "wrote "+png) {
		t.Fatalf("missing png note in output:\n%s", out.String())
	}

	data, err := os.ReadFile(png)
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG")
	}
}

func TestRunPlan_UsageAndErrors(t *testing.T) {
	var out bytes.Buffer
	if rc := runPlan(nil, &out); rc != 2 {
		t.Fatalf("runPlan without file rc=%d, want 2", rc)
	}
	if rc := runPlan([]string{"--path", missingConfig(t), filepath.Join(t.TempDir(), "missing.yaml")}, &out); rc != 1 {
		t.Fatalf("runPlan with missing file rc=%d, want 1", rc)
	}
	bad := writeScenario(t, "desktop: [0, 0, 0, 0]\ntasks: []\n")
	if rc := runPlan([]string{"--path", missingConfig(t), bad}, &out); rc != 1 {
		t.Fatalf("runPlan with invalid scenario rc=%d, want 1", rc)
	}
}

func TestParseWindowID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"42", 42, false},
		{"0x3a00007", 0x3a00007, false},
		{" 17 ", 17, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"window", 0, true},
		{"0x1ffffffff", 0, true},
	}
	for _, tt := range tests {
		got, err := parseWindowID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseWindowID(%q) err=%v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("parseWindowID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceBuiltin, Name: "compact"}, "builtin:compact"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestPNGSize(t *testing.T) {
	desktop := geom.XYWH(0, 0, 1920, 1080)
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{0, 0, 1280, 720},
		{640, 0, 640, 360},
		{0, 540, 960, 540},
		{300, 300, 300, 300},
	}
	for _, tt := range tests {
		w, h := pngSize(desktop, tt.w, tt.h)
		if w != tt.wantW || h != tt.wantH {
			t.Fatalf("pngSize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestApplyDisplayEnv(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("XAUTHORITY", "/home/me/.Xauthority")

	applyDisplayEnv(&config.Config{Display: ":1", XAuthority: "/tmp/other"})

	if got := os.Getenv("DISPLAY"); got != ":1" {
		t.Fatalf("DISPLAY = %q, want :1", got)
	}
	if got := os.Getenv("XAUTHORITY"); got != "/home/me/.Xauthority" {
		t.Fatalf("existing XAUTHORITY was overwritten: %q", got)
	}
}

type listBackend struct {
	platform.Backend
	windows []platform.Window
}

func (b listBackend) ListWindowsOnDisplay(int) ([]platform.Window, error) {
	return b.windows, nil
}

func TestWindowLister(t *testing.T) {
	b := listBackend{windows: []platform.Window{{ID: 3}, {ID: 9}}}

	ids, err := windowLister(b)(0)
	if err != nil {
		t.Fatalf("lister: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 9 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestRunConfigPrint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	tests := []struct {
		name string
		args []string
		rc   int
		want string
	}{
		{"default is effective", []string{"print", "--path", path}, 0, "log_level: debug"},
		{"effective", []string{"print", "--path", path, "--effective"}, 0, "log_level: debug"},
		{"defaults", []string{"print", "--path", path, "--defaults"}, 0, "log_level: info"},
		{"both", []string{"print", "--path", path, "--effective", "--defaults"}, 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if rc := runConfig(tt.args, &out); rc != tt.rc {
				t.Fatalf("runConfig rc=%d, want %d", rc, tt.rc)
			}
			if tt.want == "" {
				if out.Len() != 0 {
					t.Fatalf("expected no output, got:\n%s", out.String())
				}
				return
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Fatalf("expected %q in output:\n%s", tt.want, out.String())
			}
		})
	}
}
