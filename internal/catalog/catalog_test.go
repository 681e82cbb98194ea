package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	domainagg "github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
	"github.com/avosdroits/avosdroits-backend/internal/domain/catalog"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/logger"
)

func newTestCatalog(t *testing.T, seed []catalog.Question) Provider {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	p, err := New(log, seed)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return p
}

func TestBuiltinSeedLoads(t *testing.T) {
	p := newTestCatalog(t, BuiltinQuestions())

	tpl := p.Template()
	if got, want := len(tpl.Sections), 5; got != want {
		t.Fatalf("sections: got %d want %d", got, want)
	}
	for i, s := range tpl.Sections {
		if s.Order != i+1 {
			t.Fatalf("section %s: order %d at position %d", s.ID, s.Order, i)
		}
		if len(s.Questions) == 0 {
			t.Fatalf("section %s has no questions", s.ID)
		}
		for j := 1; j < len(s.Questions); j++ {
			if s.Questions[j-1].Order >= s.Questions[j].Order {
				t.Fatalf("section %s: questions not strictly ordered at %d", s.ID, j)
			}
		}
	}
	if tpl.Sections[0].Title != "Informations Personnelles" {
		t.Fatalf("unexpected first section title %q", tpl.Sections[0].Title)
	}
}

func TestSeedRejectsOrderCollision(t *testing.T) {
	seed := []catalog.Question{
		{ID: "a", SectionID: catalog.SectionHousing, Prompt: "a", Type: catalog.TypeText, Order: 1},
		{ID: "b", SectionID: catalog.SectionHousing, Prompt: "b", Type: catalog.TypeText, Order: 1},
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	if _, err := New(log, seed); err == nil {
		t.Fatal("expected order collision to be rejected")
	}
}

func TestValidateAnswer(t *testing.T) {
	p := newTestCatalog(t, BuiltinQuestions())

	cases := []struct {
		name       string
		questionID string
		answer     any
		wantCode   domainagg.ErrorCode
	}{
		{"valid text", "name", "Jeanne Martin", ""},
		{"valid number", "age", float64(34), ""},
		{"age above max", "age", float64(200), domainagg.CodeValidation},
		{"age below min", "age", float64(-1), domainagg.CodeValidation},
		{"number as string", "age", "34", domainagg.CodeValidation},
		{"valid date", "birth_date", "1990-04-12", ""},
		{"bad date", "birth_date", "not-a-date", domainagg.CodeValidation},
		{"valid select", "marital_status", "pacs", ""},
		{"unlisted option", "marital_status", "engaged", domainagg.CodeValidation},
		{"valid bool", "debts", true, ""},
		{"bool as string", "debts", "true", domainagg.CodeValidation},
		{"bool as number", "debts", float64(1), domainagg.CodeValidation},
		{"required missing", "name", nil, domainagg.CodeValidation},
		{"required blank", "name", "   ", domainagg.CodeValidation},
		{"optional missing", "sector", nil, ""},
		{"income negative", "monthly_income", float64(-50), domainagg.CodeValidation},
		{"unknown question", "favorite_color", "blue", domainagg.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := p.ValidateAnswer(tc.questionID, tc.answer)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !domainagg.IsCode(err, tc.wantCode) {
				t.Fatalf("got %v, want code %s", err, tc.wantCode)
			}
		})
	}
}

func TestValidateAnswerNamesField(t *testing.T) {
	p := newTestCatalog(t, BuiltinQuestions())

	err := p.ValidateAnswer("age", float64(200))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "age") {
		t.Fatalf("error does not name the failing question: %v", err)
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	p := newTestCatalog(t, BuiltinQuestions())

	created, err := p.Create(catalog.Question{
		SectionID: catalog.SectionHousing,
		Prompt:    "Votre logement est-il insalubre ?",
		Type:      catalog.TypeBoolean,
		Order:     10,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(created.ID, "custom_") {
		t.Fatalf("generated id %q lacks custom_ prefix", created.ID)
	}

	// The order slot is now taken.
	_, err = p.Create(catalog.Question{
		SectionID: catalog.SectionHousing,
		Prompt:    "dup",
		Type:      catalog.TypeText,
		Order:     10,
	})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("got %v, want conflict", err)
	}

	updated, err := p.Update(created.ID, catalog.Question{
		SectionID: created.SectionID,
		Prompt:    created.Prompt,
		Type:      created.Type,
		Order:     11,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Order != 11 {
		t.Fatalf("Update did not move order: %d", updated.Order)
	}

	if err := p.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := p.Question(created.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("got %v after delete, want not_found", err)
	}
	if err := p.Delete(created.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("double delete: got %v, want not_found", err)
	}
}

func TestTemplateSnapshotIsolation(t *testing.T) {
	p := newTestCatalog(t, BuiltinQuestions())

	before := p.Template()
	housingBefore := len(before.Sections[2].Questions)

	if _, err := p.Create(catalog.Question{
		SectionID: catalog.SectionHousing,
		Prompt:    "extra",
		Type:      catalog.TypeText,
		Order:     42,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(before.Sections[2].Questions) != housingBefore {
		t.Fatal("earlier template view mutated by a later write")
	}
	after := p.Template()
	if len(after.Sections[2].Questions) != housingBefore+1 {
		t.Fatal("new template view missing created question")
	}
}

func TestLoadSeedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.yaml")
	raw := `
questions:
  - id: name
    section_id: personal_info
    prompt: "Quel est votre nom complet ?"
    type: text
    required: true
    order: 1
  - id: age
    section_id: personal_info
    prompt: "Quel est votre âge ?"
    type: number
    required: true
    order: 2
    rule:
      min: 0
      max: 150
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	qs, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qs))
	}
	if qs[1].Rule == nil || qs[1].Rule.Max == nil || *qs[1].Rule.Max != 150 {
		t.Fatalf("rule not decoded: %+v", qs[1].Rule)
	}

	p := newTestCatalog(t, qs)
	if err := p.ValidateAnswer("age", float64(151)); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("got %v, want validation error from file rule", err)
	}
}
