package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/fatih/color"
)

const pizzaYAML = `attributes:
  - name: Size
    values: [Small, Large, Small]
    used_for_variations: true
  - name: Crust
    values: [Thin, Thick]
    used_for_variations: true
  - name: Allergens
    values: [Gluten]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCount(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"keyed file", pizzaYAML, "4"},
		{"bare list", "- name: Size\n  values: [S, M, L]\n  used_for_variations: true\n", "3"},
		{"nothing participates", "- name: Size\n  values: [S]\n", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "count", "-f", writeFile(t, "attrs.yaml", tt.content))
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("count = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateJSONKeepsExisting(t *testing.T) {
	existing, _ := json.Marshal([]model.Variation{
		{ID: "keep-me", KeyTuple: model.KeyTuple{"Size": "Large", "Crust": "Thin"}, SKU: "PZ-LT", Stock: 7},
		{ID: "drop-me", KeyTuple: model.KeyTuple{"Size": "Medium", "Crust": "Thin"}},
	})
	out, err := run(t, "generate",
		"-f", writeFile(t, "attrs.yaml", pizzaYAML),
		"--existing", writeFile(t, "current.json", string(existing)),
		"-o", "json",
	)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var got []model.Variation
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(got) != 4 {
		t.Fatalf("got %d variations, want 4", len(got))
	}
	if got[2].ID != "keep-me" || got[2].SKU != "PZ-LT" || got[2].Stock != 7 {
		t.Errorf("Large/Thin should keep its fields: %+v", got[2])
	}
	for _, v := range got {
		if v.ID == "drop-me" {
			t.Error("stale variation survived")
		}
	}
}

func TestGenerateTable(t *testing.T) {
	out, err := run(t, "generate", "-f", writeFile(t, "attrs.yaml", pizzaYAML))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "SIZE") || !strings.Contains(out, "CRUST") {
		t.Errorf("missing attribute columns:\n%s", out)
	}
	if strings.Contains(out, "ALLERGENS") {
		t.Errorf("non-variation attribute rendered as column:\n%s", out)
	}
	if !strings.Contains(out, "4 variations (0 kept, 4 new, 0 dropped)") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T) []string
	}{
		{"missing file flag", func(t *testing.T) []string { return []string{"generate"} }},
		{"unknown output", func(t *testing.T) []string {
			return []string{"generate", "-f", writeFile(t, "a.yaml", pizzaYAML), "-o", "xml"}
		}},
		{"duplicate attribute", func(t *testing.T) []string {
			return []string{"generate", "-f", writeFile(t, "a.yaml", "- name: Size\n- name: Size\n")}
		}},
		{"bad existing", func(t *testing.T) []string {
			return []string{"generate", "-f", writeFile(t, "a.yaml", pizzaYAML), "--existing", writeFile(t, "c.json", "{")}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args(t)...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
