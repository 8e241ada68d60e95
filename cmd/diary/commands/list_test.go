// ABOUTME: Tests for list command
// ABOUTME: Verifies list command structure and output against a temp log directory

package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/diary/internal/storage"
)

func TestNewListCmd(t *testing.T) {
	cmd := NewListCmd()

	if cmd.Use != "list" {
		t.Errorf("Use = %q, want %q", cmd.Use, "list")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.Long == "" {
		t.Error("Long description should not be empty")
	}
}

func TestListCmd_NoArgsRequired(t *testing.T) {
	cmd := NewListCmd()

	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
	if err := cmd.Args(cmd, []string{"extra"}); err == nil {
		t.Error("list should reject positional arguments")
	}
}

func TestListCmd_Examples(t *testing.T) {
	cmd := NewListCmd()

	expectedParts := []string{
		"diary list",
		"--format json",
	}

	for _, part := range expectedParts {
		if !findSubstring(cmd.Long, part) {
			t.Errorf("Long description should contain %q", part)
		}
	}
}

func writeTestEntry(t *testing.T, dir, name string, withSidecar bool) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := storage.WriteDocument(path, "# entry\n\n"); err != nil {
		t.Fatalf("WriteDocument() failed: %v", err)
	}
	if withSidecar {
		if err := storage.WriteEmbedding(storage.SidecarPath(path), []float64{1}); err != nil {
			t.Fatalf("WriteEmbedding() failed: %v", err)
		}
	}
}

func runListCmd(t *testing.T, format string) (string, error) {
	t.Helper()
	outputFormat = format
	t.Cleanup(func() { outputFormat = "auto" })

	cmd := NewListCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	return output.String(), err
}

func TestListCmd_Empty(t *testing.T) {
	t.Setenv("DIARY_LOG_DIR", t.TempDir())

	out, err := runListCmd(t, "auto")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "No diary entries found") {
		t.Errorf("output = %q, want empty notice", out)
	}
}

func TestListCmd_Table(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DIARY_LOG_DIR", dir)
	writeTestEntry(t, dir, "2024_01_01.md", true)
	writeTestEntry(t, dir, "2024_01_01_a.md", false)

	out, err := runListCmd(t, "table")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{"NAME", "2024_01_01.md", "2024_01_01_a.md", "yes", "no", "Total: 2 entries"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestListCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DIARY_LOG_DIR", dir)
	writeTestEntry(t, dir, "2024_02_02.md", true)

	out, err := runListCmd(t, "json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var entries []struct {
		Name       string `json:"name"`
		Date       string `json:"date"`
		HasSidecar bool   `json:"has_sidecar"`
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(entries) != 1 || entries[0].Name != "2024_02_02.md" || !entries[0].HasSidecar {
		t.Errorf("entries = %+v", entries)
	}
}
