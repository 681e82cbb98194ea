package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	domainagg "github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
	types "github.com/avosdroits/avosdroits-backend/internal/domain/questionnaire"

	"github.com/avosdroits/avosdroits-backend/internal/pkg/ctxutil"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/logger"
	"github.com/avosdroits/avosdroits-backend/internal/validation"
)

type fakeAggregate struct {
	submitNew      func(ctx context.Context, in domainagg.SubmitInput) (*types.Questionnaire, error)
	replaceCurrent func(ctx context.Context, in domainagg.SubmitInput) (*types.Questionnaire, error)
	getCurrent     func(ctx context.Context, userID int) (*types.Questionnaire, error)
	getVersion     func(ctx context.Context, userID, version int) (*types.Questionnaire, error)
	getHistory     func(ctx context.Context, userID int) ([]*types.Questionnaire, error)
}

func (f *fakeAggregate) Contract() domainagg.Contract { return domainagg.Contract{Name: "fake"} }

func (f *fakeAggregate) SubmitNew(ctx context.Context, in domainagg.SubmitInput) (*types.Questionnaire, error) {
	return f.submitNew(ctx, in)
}

func (f *fakeAggregate) ReplaceCurrent(ctx context.Context, in domainagg.SubmitInput) (*types.Questionnaire, error) {
	return f.replaceCurrent(ctx, in)
}

func (f *fakeAggregate) GetCurrent(ctx context.Context, userID int) (*types.Questionnaire, error) {
	return f.getCurrent(ctx, userID)
}

func (f *fakeAggregate) GetVersion(ctx context.Context, userID, version int) (*types.Questionnaire, error) {
	return f.getVersion(ctx, userID, version)
}

func (f *fakeAggregate) GetHistory(ctx context.Context, userID int) ([]*types.Questionnaire, error) {
	return f.getHistory(ctx, userID)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func authedCtx(userID int, admin bool) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID:  userID,
		IsAdmin: admin,
	})
}

func validRequest() SubmitQuestionnaireRequest {
	return SubmitQuestionnaireRequest{
		Sections: []SectionPayload{
			{
				SectionID: "personal_info",
				Answers: []AnswerPayload{
					{QuestionID: "name", Answer: "Jeanne Martin"},
					{QuestionID: "age", Answer: float64(34)},
					{QuestionID: "nationality", Answer: "française"},
					{QuestionID: "birth_date", Answer: "1990-04-12"},
				},
			},
		},
	}
}

func storedQuestionnaire(version int) *types.Questionnaire {
	now := time.Now().UTC()
	return &types.Questionnaire{
		ID:          uuid.New(),
		UserID:      7,
		Version:     version,
		CompletedAt: now,
		CreatedAt:   now,
		Sections: []types.Section{
			{
				ID:    uuid.New(),
				Title: "Informations Personnelles",
				Order: 1,
				Responses: []types.Response{
					{ID: uuid.New(), UserID: 7, QuestionID: "name", Answer: datatypes.JSON(`"Jeanne Martin"`), CreatedAt: now},
					{ID: uuid.New(), UserID: 7, QuestionID: "age", Answer: datatypes.JSON(`34`), CreatedAt: now},
				},
			},
		},
	}
}

func newQuestionnaireService(t *testing.T, agg domainagg.QuestionnaireAggregate) QuestionnaireService {
	t.Helper()
	return NewQuestionnaireService(testLogger(t), validation.New(), agg, nil)
}

func TestQuestionnaireServiceSubmit(t *testing.T) {
	var submitted *domainagg.SubmitInput
	agg := &fakeAggregate{
		submitNew: func(_ context.Context, in domainagg.SubmitInput) (*types.Questionnaire, error) {
			submitted = &in
			return storedQuestionnaire(3), nil
		},
		getCurrent: func(_ context.Context, userID int) (*types.Questionnaire, error) {
			return storedQuestionnaire(3), nil
		},
	}
	svc := newQuestionnaireService(t, agg)

	dto, err := svc.Submit(authedCtx(7, false), validRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submitted == nil {
		t.Fatal("aggregate never received the submission")
	}
	if submitted.UserID != 7 {
		t.Fatalf("user id: want=7 got=%d", submitted.UserID)
	}
	if submitted.SubmittedAt.IsZero() {
		t.Fatal("submitted_at not stamped")
	}
	if dto.Version != 3 {
		t.Fatalf("version: want=3 got=%d", dto.Version)
	}
	if got := dto.Sections[0].Responses[0].Answer; got != "Jeanne Martin" {
		t.Fatalf("answer not decoded from storage form: %v", got)
	}
	if got := dto.Sections[0].Responses[1].Answer; got != float64(34) {
		t.Fatalf("numeric answer not decoded: %v (%T)", got, got)
	}

	// Row identity and ownership travel with the wire shape.
	if dto.UserID != 7 {
		t.Fatalf("questionnaire user id: want=7 got=%d", dto.UserID)
	}
	first := dto.Sections[0].Responses[0]
	if first.ID == uuid.Nil {
		t.Fatal("response id missing from DTO")
	}
	if first.UserID != 7 {
		t.Fatalf("response user id: want=7 got=%d", first.UserID)
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("response created_at missing from DTO")
	}
}

func TestQuestionnaireServiceSubmitRejectsInvalidPayload(t *testing.T) {
	called := false
	agg := &fakeAggregate{
		submitNew: func(_ context.Context, _ domainagg.SubmitInput) (*types.Questionnaire, error) {
			called = true
			return nil, nil
		},
	}
	svc := newQuestionnaireService(t, agg)

	req := validRequest()
	req.Sections[0].Answers[1].Answer = "34" // string where a number is required

	_, err := svc.Submit(authedCtx(7, false), req)
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
	if called {
		t.Fatal("invalid submission reached the aggregate")
	}
}

func TestQuestionnaireServiceSubmitRequiresUser(t *testing.T) {
	svc := newQuestionnaireService(t, &fakeAggregate{})
	if _, err := svc.Submit(context.Background(), validRequest()); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestQuestionnaireServiceReplace(t *testing.T) {
	agg := &fakeAggregate{
		replaceCurrent: func(_ context.Context, in domainagg.SubmitInput) (*types.Questionnaire, error) {
			return storedQuestionnaire(2), nil
		},
	}
	svc := newQuestionnaireService(t, agg)

	dto, err := svc.Replace(authedCtx(7, false), validRequest())
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if dto.Version != 2 {
		t.Fatalf("version: want=2 got=%d", dto.Version)
	}
}

func TestQuestionnaireServiceReads(t *testing.T) {
	agg := &fakeAggregate{
		getCurrent: func(_ context.Context, userID int) (*types.Questionnaire, error) {
			if userID != 7 {
				t.Fatalf("unexpected user id %d", userID)
			}
			return storedQuestionnaire(5), nil
		},
		getVersion: func(_ context.Context, userID, version int) (*types.Questionnaire, error) {
			return storedQuestionnaire(version), nil
		},
		getHistory: func(_ context.Context, userID int) ([]*types.Questionnaire, error) {
			return []*types.Questionnaire{storedQuestionnaire(2), storedQuestionnaire(1)}, nil
		},
	}
	svc := newQuestionnaireService(t, agg)
	ctx := authedCtx(7, false)

	cur, err := svc.GetCurrent(ctx)
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}
	if cur.Version != 5 {
		t.Fatalf("current version: want=5 got=%d", cur.Version)
	}

	v1, err := svc.GetVersion(ctx, 1)
	if err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
	if v1.Version != 1 {
		t.Fatalf("version: want=1 got=%d", v1.Version)
	}

	history, err := svc.GetHistory(ctx)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history) != 2 || history[0].Version != 2 {
		t.Fatalf("history wrong: %+v", history)
	}
}

func TestDecodeAnswerFallsBackToRaw(t *testing.T) {
	if got := decodeAnswer([]byte(`{"broken`)); got != `{"broken` {
		t.Fatalf("malformed stored answer: %v", got)
	}
	if got := decodeAnswer([]byte(`true`)); got != true {
		t.Fatalf("bool answer: %v", got)
	}
}
