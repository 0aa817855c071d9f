package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	lerrors "github.com/abhisek/lina/internal/errors"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Len() != 6 {
		t.Fatalf("got %d skills, want 6", c.Len())
	}
	s, err := c.Get("ueb01-b3-fibonacci")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Title != "Fibonacci – B3" || s.Topic != "Zahlentheorie" || s.Syllabus != "ÜB 01 / B3" {
		t.Errorf("got %+v", s)
	}
	if first := c.Skills()[0].ID; first != "ueb01-a1-mengen" {
		t.Errorf("first skill = %q, want catalog order", first)
	}
}

func TestGet_Missing(t *testing.T) {
	_, err := Default().Get("nope")
	if !lerrors.IsMissingSkill(err) {
		t.Fatalf("expected missing skill error, got %v", err)
	}
	if Default().Has("nope") {
		t.Error("Has(nope) = true")
	}
}

func TestTopics(t *testing.T) {
	c := Default()
	want := []string{"Mengen", "Zahlentheorie", "Ebenen", "Vektoren"}
	got := c.Topics()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Topics() = %v, want %v", got, want)
	}
	if n := len(c.ByTopic("Mengen")); n != 2 {
		t.Errorf("ByTopic(Mengen) = %d skills, want 2", n)
	}
	if n := len(c.ByTopic("Analysis")); n != 0 {
		t.Errorf("ByTopic(Analysis) = %d skills, want 0", n)
	}
}

func TestSkills_ReturnsCopy(t *testing.T) {
	c := Default()
	s := c.Skills()
	s[0].Title = "changed"
	if c.Skills()[0].Title == "changed" {
		t.Error("Skills() exposes internal slice")
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		skills  []Skill
		wantErr string
	}{
		{"empty", nil, "no skills"},
		{"empty id", []Skill{{Title: "t", Topic: "x"}}, "empty ID"},
		{"duplicate", []Skill{{ID: "a", Title: "t", Topic: "x"}, {ID: "a", Title: "u", Topic: "x"}}, "duplicate skill ID"},
		{"missing title", []Skill{{ID: "a", Topic: "x"}}, "empty title"},
		{"missing topic", []Skill{{ID: "a", Title: "t"}}, "empty topic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.skills)
			if err == nil {
				t.Fatal("expected error")
			}
			if !lerrors.IsInvalidInput(err) {
				t.Errorf("error does not wrap ErrInvalidInput: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_SchemaRejects(t *testing.T) {
	tests := map[string]string{
		"no skills key":   "items: []\n",
		"missing topic":   "skills:\n  - id: a\n    title: A\n",
		"unknown field":   "skills:\n  - id: a\n    title: A\n    topic: T\n    level: 3\n",
		"bad id":          "skills:\n  - id: Has Spaces\n    title: A\n    topic: T\n",
		"empty document":  "",
		"skills not list": "skills: 3\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			if !lerrors.IsInvalidInput(err) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	doc := "skills:\n  - id: lgs-gauss\n    title: Gauss-Verfahren\n    topic: LGS\n  - id: lgs-rang\n    title: Rang\n    topic: LGS\n    syllabus: ÜB 03 / C\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("got %d skills, want 2", c.Len())
	}
	s, _ := c.Get("lgs-rang")
	if s.Syllabus != "ÜB 03 / C" {
		t.Errorf("syllabus = %q", s.Syllabus)
	}
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c != Default() {
		t.Error("Load(\"\") did not return the built-in catalog")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error")
	}
}
