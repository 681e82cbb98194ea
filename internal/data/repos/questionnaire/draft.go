package questionnaire

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/avosdroits/avosdroits-backend/internal/domain/questionnaire"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/dbctx"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/logger"
)

type DraftResponseRepo interface {
	Create(dbc dbctx.Context, rows []*types.DraftResponse) ([]*types.DraftResponse, error)
	GetByID(dbc dbctx.Context, userID int, id uuid.UUID) (*types.DraftResponse, error)
	GetByKey(dbc dbctx.Context, userID int, questionID, sessionID string) (*types.DraftResponse, error)
	ListByUser(dbc dbctx.Context, userID int, sessionID string) ([]*types.DraftResponse, error)
	UpdateAnswer(dbc dbctx.Context, userID int, id uuid.UUID, answer datatypes.JSON) (int64, error)
	Delete(dbc dbctx.Context, userID int, id uuid.UUID) (int64, error)
	DeleteBySession(dbc dbctx.Context, userID int, sessionID string) error
}

type draftResponseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDraftResponseRepo(db *gorm.DB, log *logger.Logger) DraftResponseRepo {
	return &draftResponseRepo{db: db, log: log.With("repo", "DraftResponseRepo")}
}

func (r *draftResponseRepo) Create(dbc dbctx.Context, rows []*types.DraftResponse) ([]*types.DraftResponse, error) {
	if len(rows) == 0 {
		return []*types.DraftResponse{}, nil
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

func (r *draftResponseRepo) GetByID(dbc dbctx.Context, userID int, id uuid.UUID) (*types.DraftResponse, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("missing user_id")
	}
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.DraftResponse
	if err := txx.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *draftResponseRepo) GetByKey(dbc dbctx.Context, userID int, questionID, sessionID string) (*types.DraftResponse, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.DraftResponse
	if err := txx.WithContext(dbc.Ctx).
		Where("user_id = ? AND question_id = ? AND session_id = ?", userID, questionID, sessionID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *draftResponseRepo) ListByUser(dbc dbctx.Context, userID int, sessionID string) ([]*types.DraftResponse, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).
		Model(&types.DraftResponse{}).
		Where("user_id = ?", userID)
	if sessionID != "" {
		q = q.Where("session_id = ?", sessionID)
	}
	var out []*types.DraftResponse
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAnswer returns the affected row count so the caller can distinguish
// not-found from success without a second read.
func (r *draftResponseRepo) UpdateAnswer(dbc dbctx.Context, userID int, id uuid.UUID, answer datatypes.JSON) (int64, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("missing user_id")
	}
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Model(&types.DraftResponse{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"answer":     answer,
			"updated_at": gorm.Expr("now()"),
		})
	return res.RowsAffected, res.Error
}

func (r *draftResponseRepo) Delete(dbc dbctx.Context, userID int, id uuid.UUID) (int64, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("missing user_id")
	}
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.DraftResponse{})
	return res.RowsAffected, res.Error
}

func (r *draftResponseRepo) DeleteBySession(dbc dbctx.Context, userID int, sessionID string) error {
	if userID <= 0 {
		return fmt.Errorf("missing user_id")
	}
	if sessionID == "" {
		return fmt.Errorf("missing session_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Delete(&types.DraftResponse{}).Error
}
