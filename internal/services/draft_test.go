package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	domainagg "github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
	types "github.com/avosdroits/avosdroits-backend/internal/domain/questionnaire"

	"github.com/avosdroits/avosdroits-backend/internal/catalog"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/dbctx"
)

// memDraftRepo is an in-memory DraftResponseRepo for service-level tests.
type memDraftRepo struct {
	rows map[uuid.UUID]*types.DraftResponse
}

func newMemDraftRepo() *memDraftRepo {
	return &memDraftRepo{rows: make(map[uuid.UUID]*types.DraftResponse)}
}

func (m *memDraftRepo) Create(_ dbctx.Context, rows []*types.DraftResponse) ([]*types.DraftResponse, error) {
	for _, row := range rows {
		row.ID = uuid.New()
		row.CreatedAt = time.Now().UTC()
		m.rows[row.ID] = row
	}
	return rows, nil
}

func (m *memDraftRepo) GetByID(_ dbctx.Context, userID int, id uuid.UUID) (*types.DraftResponse, error) {
	row, ok := m.rows[id]
	if !ok || row.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *memDraftRepo) GetByKey(_ dbctx.Context, userID int, questionID, sessionID string) (*types.DraftResponse, error) {
	for _, row := range m.rows {
		if row.UserID == userID && row.QuestionID == questionID && row.SessionID == sessionID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memDraftRepo) ListByUser(_ dbctx.Context, userID int, sessionID string) ([]*types.DraftResponse, error) {
	var out []*types.DraftResponse
	for _, row := range m.rows {
		if row.UserID != userID {
			continue
		}
		if sessionID != "" && row.SessionID != sessionID {
			continue
		}
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memDraftRepo) UpdateAnswer(_ dbctx.Context, userID int, id uuid.UUID, answer datatypes.JSON) (int64, error) {
	row, ok := m.rows[id]
	if !ok || row.UserID != userID {
		return 0, nil
	}
	now := time.Now().UTC()
	row.Answer = answer
	row.UpdatedAt = &now
	return 1, nil
}

func (m *memDraftRepo) Delete(_ dbctx.Context, userID int, id uuid.UUID) (int64, error) {
	row, ok := m.rows[id]
	if !ok || row.UserID != userID {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

func (m *memDraftRepo) DeleteBySession(_ dbctx.Context, userID int, sessionID string) error {
	for id, row := range m.rows {
		if row.UserID == userID && row.SessionID == sessionID {
			delete(m.rows, id)
		}
	}
	return nil
}

func newDraftService(t *testing.T) (DraftResponseService, *memDraftRepo) {
	t.Helper()
	log := testLogger(t)
	provider, err := catalog.New(log, catalog.BuiltinQuestions())
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	repo := newMemDraftRepo()
	return NewDraftResponseService(log, repo, provider, nil), repo
}

func TestDraftServiceSaveIsCreateOnce(t *testing.T) {
	svc, repo := newDraftService(t)
	ctx := authedCtx(7, false)

	first, err := svc.Save(ctx, SaveDraftRequest{QuestionID: "name", SessionID: "sess-1", Answer: "Jeanne"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first.Answer != "Jeanne" {
		t.Fatalf("answer: %v", first.Answer)
	}
	if first.UpdatedAt != nil {
		t.Fatalf("fresh draft has updated_at: %v", first.UpdatedAt)
	}

	// Same slot again is a conflict, not a silent overwrite.
	if _, err := svc.Save(ctx, SaveDraftRequest{QuestionID: "name", SessionID: "sess-1", Answer: "Jeanne Martin"}); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("duplicate slot: got %v, want conflict", err)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("rows: want=1 got=%d", len(repo.rows))
	}
	got, err := svc.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Answer != "Jeanne" {
		t.Fatalf("conflict mutated the draft: %v", got.Answer)
	}

	// A different session gets its own slot.
	third, err := svc.Save(ctx, SaveDraftRequest{QuestionID: "name", SessionID: "sess-2", Answer: "J"})
	if err != nil {
		t.Fatalf("Save (other session): %v", err)
	}
	if third.ID == first.ID {
		t.Fatal("distinct session reused the same row")
	}
}

func TestDraftServiceSaveValidatesKnownQuestions(t *testing.T) {
	svc, _ := newDraftService(t)
	ctx := authedCtx(7, false)

	if _, err := svc.Save(ctx, SaveDraftRequest{QuestionID: "age", SessionID: "s", Answer: float64(200)}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("out-of-range age: got %v, want validation", err)
	}
	if _, err := svc.Save(ctx, SaveDraftRequest{QuestionID: "age", SessionID: "s", Answer: "34"}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("string age: got %v, want validation", err)
	}

	// Drafts only exist for catalogued questions.
	if _, err := svc.Save(ctx, SaveDraftRequest{QuestionID: "free_text_extra", SessionID: "s", Answer: "whatever"}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("uncatalogued question: got %v, want not_found", err)
	}
}

func TestDraftServiceGetListScopedToUser(t *testing.T) {
	svc, _ := newDraftService(t)

	mine, err := svc.Save(authedCtx(7, false), SaveDraftRequest{QuestionID: "name", SessionID: "s1", Answer: "A"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := svc.Save(authedCtx(8, false), SaveDraftRequest{QuestionID: "name", SessionID: "s1", Answer: "B"}); err != nil {
		t.Fatalf("Save (other user): %v", err)
	}

	if _, err := svc.Get(authedCtx(8, false), mine.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("cross-user get: got %v, want not_found", err)
	}

	got, err := svc.Get(authedCtx(7, false), mine.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Answer != "A" {
		t.Fatalf("answer: %v", got.Answer)
	}

	list, err := svc.List(authedCtx(7, false), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list: want=1 got=%d", len(list))
	}
}

func TestDraftServiceUpdate(t *testing.T) {
	svc, _ := newDraftService(t)
	ctx := authedCtx(7, false)

	draft, err := svc.Save(ctx, SaveDraftRequest{QuestionID: "age", SessionID: "s", Answer: float64(34)})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	updated, err := svc.Update(ctx, draft.ID, UpdateDraftRequest{Answer: float64(35)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Answer != float64(35) {
		t.Fatalf("answer: %v", updated.Answer)
	}

	// The stored question still gates the replacement answer.
	if _, err := svc.Update(ctx, draft.ID, UpdateDraftRequest{Answer: "thirty-five"}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("bad replacement: got %v, want validation", err)
	}
	if _, err := svc.Update(ctx, uuid.New(), UpdateDraftRequest{Answer: float64(1)}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("missing draft: got %v, want not_found", err)
	}
}

func TestDraftServiceDelete(t *testing.T) {
	svc, repo := newDraftService(t)
	ctx := authedCtx(7, false)

	draft, err := svc.Save(ctx, SaveDraftRequest{QuestionID: "name", SessionID: "s1", Answer: "A"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := svc.Delete(authedCtx(8, false), draft.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("cross-user delete: got %v, want not_found", err)
	}
	if err := svc.Delete(ctx, draft.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, draft.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("double delete: got %v, want not_found", err)
	}

	if _, err := svc.Save(ctx, SaveDraftRequest{QuestionID: "name", SessionID: "s2", Answer: "A"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := svc.Save(ctx, SaveDraftRequest{QuestionID: "nationality", SessionID: "s2", Answer: "FR"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := svc.DeleteSession(ctx, ""); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("empty session: got %v, want validation", err)
	}
	if err := svc.DeleteSession(ctx, "s2"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("rows after session delete: %d", len(repo.rows))
	}
}
