package services

import (
	"testing"

	domainagg "github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"

	"github.com/avosdroits/avosdroits-backend/internal/catalog"
)

func newCatalogService(t *testing.T) CatalogService {
	t.Helper()
	log := testLogger(t)
	provider, err := catalog.New(log, catalog.BuiltinQuestions())
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return NewCatalogService(log, provider)
}

func TestCatalogServiceTemplate(t *testing.T) {
	svc := newCatalogService(t)

	tpl, err := svc.GetTemplate(authedCtx(7, false))
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	if len(tpl.Sections) != 5 {
		t.Fatalf("sections: want=5 got=%d", len(tpl.Sections))
	}

	q, err := svc.GetQuestion(authedCtx(7, false), "age")
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if q.SectionID != "personal_info" {
		t.Fatalf("age section: %s", q.SectionID)
	}

	qs, err := svc.GetSectionQuestions(authedCtx(7, false), "personal_info")
	if err != nil {
		t.Fatalf("GetSectionQuestions: %v", err)
	}
	if len(qs) == 0 {
		t.Fatal("personal_info has no questions")
	}
	for i := 1; i < len(qs); i++ {
		if qs[i-1].Order > qs[i].Order {
			t.Fatalf("section questions out of order at %d", i)
		}
	}
	if qs, _ := svc.GetSectionQuestions(authedCtx(7, false), "no_such_section"); len(qs) != 0 {
		t.Fatalf("unknown section returned questions: %d", len(qs))
	}
}

func TestCatalogServiceAdminGate(t *testing.T) {
	svc := newCatalogService(t)
	req := QuestionRequest{
		SectionID: "housing",
		Prompt:    "Surface du logement (m2) ?",
		Type:      "number",
		Order:     40,
	}

	if _, err := svc.CreateQuestion(authedCtx(7, false), req); !domainagg.IsCode(err, domainagg.CodePreconditionFailed) {
		t.Fatalf("non-admin create: got %v, want precondition_failed", err)
	}
	if _, err := svc.CreateQuestion(authedCtx(0, true), req); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("anonymous create: got %v, want validation", err)
	}

	admin := authedCtx(1, true)
	created, err := svc.CreateQuestion(admin, req)
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created question has no id")
	}

	created.Prompt = "Surface habitable (m2) ?"
	updated, err := svc.UpdateQuestion(admin, created.ID, QuestionRequest{
		SectionID: string(created.SectionID),
		Prompt:    created.Prompt,
		Type:      string(created.Type),
		Order:     created.Order,
	})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Prompt != created.Prompt {
		t.Fatalf("prompt not updated: %s", updated.Prompt)
	}

	if err := svc.DeleteQuestion(authedCtx(7, false), created.ID); !domainagg.IsCode(err, domainagg.CodePreconditionFailed) {
		t.Fatalf("non-admin delete: got %v, want precondition_failed", err)
	}
	if err := svc.DeleteQuestion(admin, created.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := svc.GetQuestion(admin, created.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("deleted question still readable: %v", err)
	}
}

func TestCatalogServiceValidateAnswer(t *testing.T) {
	svc := newCatalogService(t)
	ctx := authedCtx(7, false)

	res, err := svc.ValidateAnswer(ctx, ValidateAnswerRequest{QuestionID: "age", Answer: float64(34)})
	if err != nil {
		t.Fatalf("valid answer errored: %v", err)
	}
	if !res.Valid {
		t.Fatalf("valid answer flagged invalid: %+v", res)
	}

	res, err = svc.ValidateAnswer(ctx, ValidateAnswerRequest{QuestionID: "age", Answer: float64(200)})
	if err != nil {
		t.Fatalf("out-of-range answer errored: %v", err)
	}
	if res.Valid || res.Reason == "" {
		t.Fatalf("out-of-range answer accepted: %+v", res)
	}

	if _, err := svc.ValidateAnswer(ctx, ValidateAnswerRequest{QuestionID: "nope", Answer: "x"}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unknown question: got %v, want not_found", err)
	}
}
