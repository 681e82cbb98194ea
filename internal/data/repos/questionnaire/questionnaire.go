package questionnaire

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/avosdroits/avosdroits-backend/internal/domain/questionnaire"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/dbctx"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/logger"
)

type QuestionnaireRepo interface {
	Create(dbc dbctx.Context, rows []*types.Questionnaire) ([]*types.Questionnaire, error)
	MaxVersion(dbc dbctx.Context, userID int) (int, error)
	GetCurrent(dbc dbctx.Context, userID int) (*types.Questionnaire, error)
	GetByVersion(dbc dbctx.Context, userID, version int) (*types.Questionnaire, error)
	ListByUser(dbc dbctx.Context, userID int) ([]*types.Questionnaire, error)
	LockCurrent(dbc dbctx.Context, userID int) (*types.Questionnaire, error)
	TouchUpdatedAt(dbc dbctx.Context, id uuid.UUID) error
}

type questionnaireRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionnaireRepo(db *gorm.DB, log *logger.Logger) QuestionnaireRepo {
	return &questionnaireRepo{db: db, log: log.With("repo", "QuestionnaireRepo")}
}

func (r *questionnaireRepo) Create(dbc dbctx.Context, rows []*types.Questionnaire) ([]*types.Questionnaire, error) {
	if len(rows) == 0 {
		return []*types.Questionnaire{}, nil
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

func (r *questionnaireRepo) MaxVersion(dbc dbctx.Context, userID int) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var max *int
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Questionnaire{}).
		Where("user_id = ?", userID).
		Select("MAX(version)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *questionnaireRepo) GetCurrent(dbc dbctx.Context, userID int) (*types.Questionnaire, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Questionnaire
	if err := withSubtree(txx.WithContext(dbc.Ctx)).
		Where("user_id = ?", userID).
		Order("version DESC").
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *questionnaireRepo) GetByVersion(dbc dbctx.Context, userID, version int) (*types.Questionnaire, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Questionnaire
	if err := withSubtree(txx.WithContext(dbc.Ctx)).
		Where("user_id = ? AND version = ?", userID, version).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *questionnaireRepo) ListByUser(dbc dbctx.Context, userID int) ([]*types.Questionnaire, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Questionnaire
	if err := withSubtree(txx.WithContext(dbc.Ctx)).
		Where("user_id = ?", userID).
		Order("version DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// LockCurrent takes a row lock on the user's current version so a concurrent
// replace cannot interleave with the subtree rewrite.
func (r *questionnaireRepo) LockCurrent(dbc dbctx.Context, userID int) (*types.Questionnaire, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Questionnaire
	if err := txx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("version DESC").
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *questionnaireRepo) TouchUpdatedAt(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Questionnaire{}).
		Where("id = ?", id).
		Update("updated_at", gorm.Expr("now()")).Error
}

// withSubtree preloads sections and responses in display order.
func withSubtree(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" ASC`)
		}).
		Preload("Sections.Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}
