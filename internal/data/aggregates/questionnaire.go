package aggregates

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/avosdroits/avosdroits-backend/internal/data/repos"
	domainagg "github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
	"github.com/avosdroits/avosdroits-backend/internal/domain/catalog"
	types "github.com/avosdroits/avosdroits-backend/internal/domain/questionnaire"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/ctxutil"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/dbctx"
)

// QuestionnaireDeps wires the questionnaire aggregate.
type QuestionnaireDeps struct {
	Base           BaseDeps
	Questionnaires repos.QuestionnaireRepo
	Sections       repos.SectionRepo
	Responses      repos.ResponseRepo
	VersionPolicy  domainagg.VersionPolicy
}

type questionnaireAggregate struct {
	deps QuestionnaireDeps
}

// NewQuestionnaireAggregate builds the versioned questionnaire aggregate.
func NewQuestionnaireAggregate(deps QuestionnaireDeps) domainagg.QuestionnaireAggregate {
	if deps.VersionPolicy == "" {
		deps.VersionPolicy = domainagg.VersionPolicyPreserve
	}
	return &questionnaireAggregate{deps: deps}
}

func (a *questionnaireAggregate) Contract() domainagg.Contract {
	return domainagg.QuestionnaireAggregateContract
}

func (a *questionnaireAggregate) SubmitNew(ctx context.Context, in domainagg.SubmitInput) (*types.Questionnaire, error) {
	const op = "Questionnaire.SubmitNew"
	ctx = ctxutil.Default(ctx)

	var out *types.Questionnaire
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		q, err := a.insertVersion(dbc, in)
		if err != nil {
			return err
		}
		out = q
		return nil
	})
	if domainagg.IsCode(err, domainagg.CodeConflict) {
		// Two submits raced on the same version slot; the unique index caught
		// the loser. One re-read of max(version) is enough to settle it.
		err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
			q, retryErr := a.insertVersion(dbc, in)
			if retryErr != nil {
				return retryErr
			}
			out = q
			return nil
		})
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *questionnaireAggregate) ReplaceCurrent(ctx context.Context, in domainagg.SubmitInput) (*types.Questionnaire, error) {
	const op = "Questionnaire.ReplaceCurrent"
	ctx = ctxutil.Default(ctx)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		current, err := a.deps.Questionnaires.LockCurrent(dbc, in.UserID)
		if err != nil {
			return err
		}

		sections, err := a.deps.Sections.ListByQuestionnaire(dbc, current.ID)
		if err != nil {
			return err
		}
		sectionIDs := make([]uuid.UUID, 0, len(sections))
		for _, s := range sections {
			sectionIDs = append(sectionIDs, s.ID)
		}
		if err := a.deps.Responses.DeleteBySections(dbc, sectionIDs); err != nil {
			return err
		}
		if err := a.deps.Sections.DeleteByQuestionnaire(dbc, current.ID); err != nil {
			return err
		}
		if err := a.insertSubtree(dbc, current.ID, in); err != nil {
			return err
		}

		if a.deps.VersionPolicy == domainagg.VersionPolicyIncrement {
			maxVersion, err := a.deps.Questionnaires.MaxVersion(dbc, in.UserID)
			if err != nil {
				return err
			}
			ok, err := a.deps.Base.withDefaults().CASGuard.UpdateByVersion(dbc, types.Questionnaire{}.TableName(), current.ID, current.Version, map[string]any{
				"version":      maxVersion + 1,
				"completed_at": submittedAt(in),
				"updated_at":   time.Now().UTC(),
			})
			if err != nil {
				return err
			}
			if err := RequireCASSuccess(ok, "questionnaire version moved during replace"); err != nil {
				return err
			}
		} else {
			if err := a.deps.Questionnaires.TouchUpdatedAt(dbc, current.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if domainagg.IsCode(err, domainagg.CodeNotFound) {
		// First submission for this user: replace degrades to a plain submit.
		return a.SubmitNew(ctx, in)
	}
	if err != nil {
		return nil, err
	}
	return a.GetCurrent(ctx, in.UserID)
}

func (a *questionnaireAggregate) GetCurrent(ctx context.Context, userID int) (*types.Questionnaire, error) {
	const op = "Questionnaire.GetCurrent"
	ctx = ctxutil.Default(ctx)
	out, err := a.deps.Questionnaires.GetCurrent(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, MapError(op, err)
	}
	return out, nil
}

func (a *questionnaireAggregate) GetVersion(ctx context.Context, userID, version int) (*types.Questionnaire, error) {
	const op = "Questionnaire.GetVersion"
	ctx = ctxutil.Default(ctx)
	if version <= 0 {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("version must be positive, got %d", version), nil)
	}
	out, err := a.deps.Questionnaires.GetByVersion(dbctx.Context{Ctx: ctx}, userID, version)
	if err != nil {
		return nil, MapError(op, err)
	}
	return out, nil
}

func (a *questionnaireAggregate) GetHistory(ctx context.Context, userID int) ([]*types.Questionnaire, error) {
	const op = "Questionnaire.GetHistory"
	ctx = ctxutil.Default(ctx)
	out, err := a.deps.Questionnaires.ListByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, MapError(op, err)
	}
	return out, nil
}

// insertVersion assigns max(version)+1 and writes the whole subtree.
// The unique (user_id, version) index backstops concurrent assignments.
func (a *questionnaireAggregate) insertVersion(dbc dbctx.Context, in domainagg.SubmitInput) (*types.Questionnaire, error) {
	maxVersion, err := a.deps.Questionnaires.MaxVersion(dbc, in.UserID)
	if err != nil {
		return nil, err
	}

	q := &types.Questionnaire{
		UserID:      in.UserID,
		Version:     maxVersion + 1,
		CompletedAt: submittedAt(in),
	}
	if _, err := a.deps.Questionnaires.Create(dbc, []*types.Questionnaire{q}); err != nil {
		return nil, err
	}
	if err := a.insertSubtree(dbc, q.ID, in); err != nil {
		return nil, err
	}
	return q, nil
}

func (a *questionnaireAggregate) insertSubtree(dbc dbctx.Context, questionnaireID uuid.UUID, in domainagg.SubmitInput) error {
	for _, submitted := range in.Sections {
		def, ok := catalog.SectionByID(catalog.SectionID(submitted.SectionID))
		if !ok {
			return ValidationError(fmt.Sprintf("unknown section: %s", submitted.SectionID))
		}
		section := &types.Section{
			QuestionnaireID: questionnaireID,
			Title:           def.Title,
			Order:           def.Order,
		}
		if _, err := a.deps.Sections.Create(dbc, []*types.Section{section}); err != nil {
			return err
		}

		rows := make([]*types.Response, 0, len(submitted.Answers))
		for _, ans := range submitted.Answers {
			raw, err := json.Marshal(ans.Answer)
			if err != nil {
				return ValidationError(fmt.Sprintf("answer for %s is not serializable", ans.QuestionID))
			}
			rows = append(rows, &types.Response{
				SectionID:  section.ID,
				UserID:     in.UserID,
				QuestionID: ans.QuestionID,
				Answer:     datatypes.JSON(raw),
			})
		}
		if _, err := a.deps.Responses.Create(dbc, rows); err != nil {
			return err
		}
	}
	return nil
}

func submittedAt(in domainagg.SubmitInput) time.Time {
	if in.SubmittedAt.IsZero() {
		return time.Now().UTC()
	}
	return in.SubmittedAt.UTC()
}
