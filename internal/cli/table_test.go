package cli

import (
	"strings"
	"testing"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable("Name", "Age")

	table.AddRow("Alice", "30")
	table.AddRow("Bob")
	table.AddRow("Charlie", "25", "Extra")

	if len(table.rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table.rows))
	}
	if table.rows[1][1] != "" {
		t.Errorf("Expected empty string for padded column, got %q", table.rows[1][1])
	}
	if len(table.rows[2]) != 2 {
		t.Errorf("Expected row to be truncated to 2 columns, got %d", len(table.rows[2]))
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable("Backend", "Description")
	table.AddRow("kmeans", "k-means clustering")
	table.AddRow("all", "combined")

	lines := strings.Split(strings.TrimRight(table.Render(), "\n"), "\n")
	want := []string{
		"Backend  Description",
		"-------  ------------------",
		"kmeans   k-means clustering",
		"all      combined",
	}
	if len(lines) != len(want) {
		t.Fatalf("Render() has %d lines, want %d:\n%s", len(lines), len(want), table.Render())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTableRenderEmpty(t *testing.T) {
	if out := NewTable().Render(); out != "" {
		t.Errorf("Expected empty string for empty table, got: %q", out)
	}

	out := NewTable("Column1", "Column2").Render()
	if !strings.Contains(out, "Column1") || !strings.Contains(out, "-------") {
		t.Errorf("Expected header and separator without rows, got: %q", out)
	}
}

func TestTableMultibyteAlignment(t *testing.T) {
	table := NewTable("Name", "Symbol")
	table.AddRow("dot", "●●●●●●●●")
	table.AddRow("x", "→")

	lines := strings.Split(table.Render(), "\n")
	if got := strings.Repeat("-", 8); !strings.HasSuffix(lines[1], got) {
		t.Errorf("separator %q should be 8 dashes wide for the symbol column", lines[1])
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"test", 10, "test      "},
		{"hello", 5, "hello"},
		{"world", 3, "world"},
		{"", 5, "     "},
		{"●", 3, "●  "},
	}

	for _, tt := range tests {
		if result := padRight(tt.input, tt.width); result != tt.expected {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.width, result, tt.expected)
		}
	}
}
