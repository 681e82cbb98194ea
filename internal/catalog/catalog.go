package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	domainagg "github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
	"github.com/avosdroits/avosdroits-backend/internal/domain/catalog"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/logger"
)

// Provider is the process-wide question catalog: read-mostly, seeded at
// startup, optionally extended at runtime through the administrative ops.
// Readers never observe a partially applied write.
type Provider interface {
	Template() catalog.Template
	Question(id string) (catalog.Question, error)
	QuestionsForSection(sectionID catalog.SectionID) []catalog.Question

	Create(q catalog.Question) (catalog.Question, error)
	Update(id string, q catalog.Question) (catalog.Question, error)
	Delete(id string) error

	// ValidateAnswer checks one submitted answer against the question's
	// declared shape: required flag, scalar type, numeric range, option set.
	ValidateAnswer(questionID string, answer any) error
}

// snapshot is an immutable view of the catalog. Writes build a new snapshot
// and swap the pointer; readers work off whatever snapshot they loaded.
type snapshot struct {
	byID      map[string]catalog.Question
	bySection map[catalog.SectionID][]catalog.Question
}

type provider struct {
	log  *logger.Logger
	mu   sync.Mutex // serializes writers; readers go through snap only
	snap atomic.Pointer[snapshot]
}

// New builds a catalog from seed questions, enforcing id and
// (section, order) uniqueness at load time.
func New(baseLog *logger.Logger, seed []catalog.Question) (Provider, error) {
	snap, err := buildSnapshot(seed)
	if err != nil {
		return nil, err
	}
	p := &provider{log: baseLog.With("service", "QuestionCatalog")}
	p.snap.Store(snap)
	return p, nil
}

func buildSnapshot(questions []catalog.Question) (*snapshot, error) {
	snap := &snapshot{
		byID:      make(map[string]catalog.Question, len(questions)),
		bySection: make(map[catalog.SectionID][]catalog.Question),
	}
	type sectionOrder struct {
		section catalog.SectionID
		order   int
	}
	seenOrder := make(map[sectionOrder]string, len(questions))
	for _, q := range questions {
		if err := checkQuestion(q); err != nil {
			return nil, err
		}
		if _, dup := snap.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		key := sectionOrder{section: q.SectionID, order: q.Order}
		if other, dup := seenOrder[key]; dup {
			return nil, fmt.Errorf("questions %q and %q share order %d in section %s", other, q.ID, q.Order, q.SectionID)
		}
		seenOrder[key] = q.ID
		snap.byID[q.ID] = q
		snap.bySection[q.SectionID] = append(snap.bySection[q.SectionID], q)
	}
	for sectionID := range snap.bySection {
		qs := snap.bySection[sectionID]
		sort.Slice(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	}
	return snap, nil
}

func checkQuestion(q catalog.Question) error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("question id is required")
	}
	if !catalog.KnownSection(q.SectionID) {
		return fmt.Errorf("question %q references unknown section %q", q.ID, q.SectionID)
	}
	if !catalog.KnownQuestionType(q.Type) {
		return fmt.Errorf("question %q has unknown type %q", q.ID, q.Type)
	}
	if q.Type == catalog.TypeSelect && len(q.Options) == 0 {
		return fmt.Errorf("select question %q has no options", q.ID)
	}
	return nil
}

func (p *provider) Template() catalog.Template {
	snap := p.snap.Load()
	sections := catalog.Sections()
	out := catalog.Template{Sections: make([]catalog.SectionTemplate, 0, len(sections))}
	for _, s := range sections {
		out.Sections = append(out.Sections, catalog.SectionTemplate{
			Section:   s,
			Questions: copyQuestions(snap.bySection[s.ID]),
		})
	}
	return out
}

func (p *provider) Question(id string) (catalog.Question, error) {
	const op = "Catalog.Question"
	snap := p.snap.Load()
	q, ok := snap.byID[id]
	if !ok {
		return catalog.Question{}, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("question not found: %s", id), nil)
	}
	return q, nil
}

func (p *provider) QuestionsForSection(sectionID catalog.SectionID) []catalog.Question {
	snap := p.snap.Load()
	return copyQuestions(snap.bySection[sectionID])
}

func (p *provider) Create(q catalog.Question) (catalog.Question, error) {
	const op = "Catalog.Create"
	if strings.TrimSpace(q.ID) == "" {
		q.ID = "custom_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	snap := p.snap.Load()

	if err := checkQuestion(q); err != nil {
		return catalog.Question{}, domainagg.Wrap(domainagg.CodeValidation, op, err)
	}
	if _, exists := snap.byID[q.ID]; exists {
		return catalog.Question{}, domainagg.NewError(domainagg.CodeConflict, op, fmt.Sprintf("question already exists: %s", q.ID), nil)
	}
	if holder := orderHolder(snap, q.SectionID, q.Order, ""); holder != "" {
		return catalog.Question{}, domainagg.NewError(domainagg.CodeConflict, op,
			fmt.Sprintf("order %d in section %s is already held by %s", q.Order, q.SectionID, holder), nil)
	}

	p.swap(snap, func(next *snapshot) {
		next.byID[q.ID] = q
		insertOrdered(next, q)
	})
	p.log.Info("catalog question created", "question_id", q.ID, "section", string(q.SectionID))
	return q, nil
}

func (p *provider) Update(id string, q catalog.Question) (catalog.Question, error) {
	const op = "Catalog.Update"

	p.mu.Lock()
	defer p.mu.Unlock()
	snap := p.snap.Load()

	prev, ok := snap.byID[id]
	if !ok {
		return catalog.Question{}, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("question not found: %s", id), nil)
	}
	q.ID = id
	if q.SectionID == "" {
		q.SectionID = prev.SectionID
	}
	if err := checkQuestion(q); err != nil {
		return catalog.Question{}, domainagg.Wrap(domainagg.CodeValidation, op, err)
	}
	if holder := orderHolder(snap, q.SectionID, q.Order, id); holder != "" {
		return catalog.Question{}, domainagg.NewError(domainagg.CodeConflict, op,
			fmt.Sprintf("order %d in section %s is already held by %s", q.Order, q.SectionID, holder), nil)
	}

	p.swap(snap, func(next *snapshot) {
		removeFromSection(next, prev)
		next.byID[id] = q
		insertOrdered(next, q)
	})
	return q, nil
}

func (p *provider) Delete(id string) error {
	const op = "Catalog.Delete"

	p.mu.Lock()
	defer p.mu.Unlock()
	snap := p.snap.Load()

	prev, ok := snap.byID[id]
	if !ok {
		return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("question not found: %s", id), nil)
	}
	p.swap(snap, func(next *snapshot) {
		delete(next.byID, id)
		removeFromSection(next, prev)
	})
	p.log.Info("catalog question deleted", "question_id", id)
	return nil
}

// swap clones the current snapshot, applies mutate, and publishes the result.
// Callers must hold p.mu.
func (p *provider) swap(cur *snapshot, mutate func(next *snapshot)) {
	next := &snapshot{
		byID:      make(map[string]catalog.Question, len(cur.byID)+1),
		bySection: make(map[catalog.SectionID][]catalog.Question, len(cur.bySection)),
	}
	for id, q := range cur.byID {
		next.byID[id] = q
	}
	for sectionID, qs := range cur.bySection {
		next.bySection[sectionID] = copyQuestions(qs)
	}
	mutate(next)
	p.snap.Store(next)
}

func orderHolder(snap *snapshot, sectionID catalog.SectionID, order int, excludeID string) string {
	for _, q := range snap.bySection[sectionID] {
		if q.Order == order && q.ID != excludeID {
			return q.ID
		}
	}
	return ""
}

func insertOrdered(snap *snapshot, q catalog.Question) {
	qs := append(snap.bySection[q.SectionID], q)
	sort.Slice(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	snap.bySection[q.SectionID] = qs
}

func removeFromSection(snap *snapshot, q catalog.Question) {
	qs := snap.bySection[q.SectionID]
	for i := range qs {
		if qs[i].ID == q.ID {
			snap.bySection[q.SectionID] = append(qs[:i:i], qs[i+1:]...)
			return
		}
	}
}

func copyQuestions(qs []catalog.Question) []catalog.Question {
	out := make([]catalog.Question, len(qs))
	copy(out, qs)
	return out
}
