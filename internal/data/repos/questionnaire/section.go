package questionnaire

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/avosdroits/avosdroits-backend/internal/domain/questionnaire"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/dbctx"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/logger"
)

type SectionRepo interface {
	Create(dbc dbctx.Context, rows []*types.Section) ([]*types.Section, error)
	ListByQuestionnaire(dbc dbctx.Context, questionnaireID uuid.UUID) ([]*types.Section, error)
	DeleteByQuestionnaire(dbc dbctx.Context, questionnaireID uuid.UUID) error
}

type sectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, log *logger.Logger) SectionRepo {
	return &sectionRepo{db: db, log: log.With("repo", "SectionRepo")}
}

func (r *sectionRepo) Create(dbc dbctx.Context, rows []*types.Section) ([]*types.Section, error) {
	if len(rows) == 0 {
		return []*types.Section{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sectionRepo) ListByQuestionnaire(dbc dbctx.Context, questionnaireID uuid.UUID) ([]*types.Section, error) {
	if questionnaireID == uuid.Nil {
		return nil, fmt.Errorf("missing questionnaire_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Section
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Section{}).
		Where("questionnaire_id = ?", questionnaireID).
		Order(`"order" ASC`).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sectionRepo) DeleteByQuestionnaire(dbc dbctx.Context, questionnaireID uuid.UUID) error {
	if questionnaireID == uuid.Nil {
		return fmt.Errorf("missing questionnaire_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("questionnaire_id = ?", questionnaireID).
		Delete(&types.Section{}).Error
}
