package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/hearth/pkg/hearth"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp().WithOutput(&stdout, &stderr)
	err := app.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func TestApp_Version(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "hearth version") {
		t.Errorf("version output missing 'hearth version', got: %s", out)
	}
}

func TestApp_Help(t *testing.T) {
	out, _, err := run(t, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	for _, want := range []string{"smart home lighting", "solve", "scenarios", "history"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q, got: %s", want, out)
		}
	}
}

func TestApp_Scenarios(t *testing.T) {
	out, _, err := run(t, "scenarios")
	if err != nil {
		t.Fatalf("scenarios failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 scenarios, got %d: %s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "morning") {
		t.Errorf("expected morning first, got %q", lines[0])
	}
	if !strings.Contains(out, "all lights off") {
		t.Errorf("expected night to read as all off: %s", out)
	}
	if !strings.Contains(out, "lights on: Children's Room, Kitchen, Living Room") {
		t.Errorf("expected morning's lit rooms by label: %s", out)
	}
}

func TestApp_SolveText(t *testing.T) {
	out, _, err := run(t, "solve", "morning")
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	for _, want := range []string{
		"Scenario: morning",
		"1. turn_on(living_room)",
		"2. turn_on(kitchen)",
		"3. turn_on(childrens_room)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestApp_SolveAllFacts(t *testing.T) {
	out, _, err := run(t, "solve", "--all", "--format", "facts")
	if err != nil {
		t.Fatalf("solve --all failed: %v", err)
	}
	for _, want := range []string{
		"plan_step(morning, 3, turn_on_childrens_room).",
		"already_satisfied(night).",
		"plan_step(movie, 1, turn_on_living_room).",
		"plan_step(party, 5, turn_on_childrens_room).",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestApp_SolveHTML(t *testing.T) {
	out, _, err := run(t, "solve", "party", "--format", "html")
	if err != nil {
		t.Fatalf("solve --format html failed: %v", err)
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("expected an HTML document, got: %s", out)
	}
	if !strings.Contains(out, "turn_on(bathroom)") {
		t.Errorf("expected plan actions in table: %s", out)
	}
}

func TestApp_SolveErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no scenario", []string{"solve"}, "at least one scenario"},
		{"all with names", []string{"solve", "--all", "morning"}, "--all"},
		{"bad format", []string{"solve", "morning", "--format", "yaml"}, "unknown format"},
		{"bad ordering", []string{"solve", "morning", "--ordering", "random"}, "unknown ordering"},
		{"missing domain", []string{"solve", "morning", "--domain", "/nonexistent/domain.yaml"}, "load domain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestApp_SolveUnknownScenario(t *testing.T) {
	_, _, err := run(t, "solve", "disco")
	if !errors.Is(err, hearth.ErrUnknownScenario) {
		t.Fatalf("expected ErrUnknownScenario, got %v", err)
	}
}

func TestApp_SolveDeclarationOrder(t *testing.T) {
	out, _, err := run(t, "solve", "morning", "--ordering", "declaration")
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !strings.Contains(out, "19. ") {
		t.Errorf("expected a 19-step plan in declaration order:\n%s", out)
	}
	if !strings.Contains(out, "declaration order") {
		t.Errorf("expected ordering in header:\n%s", out)
	}
}

func TestApp_Show(t *testing.T) {
	out, _, err := run(t, "show", "movie")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	idx := strings.Index(out, "Missing:")
	if idx == -1 {
		t.Fatalf("expected Missing section:\n%s", out)
	}
	missing := strings.TrimSpace(out[idx+len("Missing:"):])
	if missing != "light_status(living_room, on)" {
		t.Errorf("expected only the living room to be missing, got %q", missing)
	}

	if _, _, err := run(t, "show", "disco"); !errors.Is(err, hearth.ErrUnknownScenario) {
		t.Errorf("expected ErrUnknownScenario for show disco, got %v", err)
	}
}

func TestApp_CustomDomainAndInitial(t *testing.T) {
	dir := t.TempDir()
	domainPath := filepath.Join(dir, "domain.yaml")
	domain := `
entities:
  - type: lamp
    members: [desk, porch]
  - type: status
    members: ["on", "off"]
actions:
  - name: switch_on
    params: [{name: l, type: lamp}]
    pre: ["light_status(?l, off)"]
    add: ["light_status(?l, on)"]
    del: ["light_status(?l, off)"]
initial: ["light_status(desk, off)", "light_status(porch, off)"]
scenarios:
  evening: ["light_status(porch, on)"]
`
	if err := os.WriteFile(domainPath, []byte(domain), 0644); err != nil {
		t.Fatalf("write domain: %v", err)
	}

	out, _, err := run(t, "solve", "evening", "--domain", domainPath)
	if err != nil {
		t.Fatalf("solve with custom domain failed: %v", err)
	}
	if !strings.Contains(out, "1. switch_on(porch)") {
		t.Errorf("expected switch_on(porch):\n%s", out)
	}

	initialPath := filepath.Join(dir, "initial.facts")
	facts := "# porch already lit\nlight_status(desk, off).\nlight_status(porch, on).\n"
	if err := os.WriteFile(initialPath, []byte(facts), 0644); err != nil {
		t.Fatalf("write initial: %v", err)
	}

	out, _, err = run(t, "solve", "evening", "--domain", domainPath, "--initial", initialPath)
	if err != nil {
		t.Fatalf("solve with initial override failed: %v", err)
	}
	if !strings.Contains(out, "goal already satisfied") {
		t.Errorf("expected already-satisfied plan:\n%s", out)
	}
}

func TestApp_History(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	if _, _, err := run(t, "solve", "morning", "movie", "--db", dbPath); err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if _, _, err := run(t, "solve", "night", "--db", dbPath); err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	out, _, err := run(t, "history", "--db", dbPath)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	for _, want := range []string{"morning", "movie", "night", "already_satisfied", "1. turn_on(living_room)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in history:\n%s", want, out)
		}
	}

	out, _, err = run(t, "history", "--db", dbPath, "--scenario", "movie")
	if err != nil {
		t.Fatalf("history --scenario failed: %v", err)
	}
	if strings.Contains(out, "morning") || !strings.Contains(out, "movie") {
		t.Errorf("expected only movie runs:\n%s", out)
	}
}

func TestApp_HistoryNeedsDB(t *testing.T) {
	_, _, err := run(t, "history")
	if err == nil || !strings.Contains(err.Error(), "--db") {
		t.Errorf("expected --db error, got %v", err)
	}
}

func TestApp_JSONLogs(t *testing.T) {
	_, stderr, err := run(t, "solve", "movie", "--log-level", "info", "--log-format", "json")
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !strings.Contains(stderr, `"scenario":"movie"`) {
		t.Errorf("expected structured solve log on stderr, got: %s", stderr)
	}
}
