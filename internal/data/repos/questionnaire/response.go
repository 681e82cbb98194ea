package questionnaire

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/avosdroits/avosdroits-backend/internal/domain/questionnaire"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/dbctx"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/logger"
)

type ResponseRepo interface {
	Create(dbc dbctx.Context, rows []*types.Response) ([]*types.Response, error)
	ListBySections(dbc dbctx.Context, sectionIDs []uuid.UUID) ([]*types.Response, error)
	DeleteBySections(dbc dbctx.Context, sectionIDs []uuid.UUID) error
}

type responseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResponseRepo(db *gorm.DB, log *logger.Logger) ResponseRepo {
	return &responseRepo{db: db, log: log.With("repo", "ResponseRepo")}
}

func (r *responseRepo) Create(dbc dbctx.Context, rows []*types.Response) ([]*types.Response, error) {
	if len(rows) == 0 {
		return []*types.Response{}, nil
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

func (r *responseRepo) ListBySections(dbc dbctx.Context, sectionIDs []uuid.UUID) ([]*types.Response, error) {
	if len(sectionIDs) == 0 {
		return []*types.Response{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Response
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Response{}).
		Where("section_id IN ?", sectionIDs).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *responseRepo) DeleteBySections(dbc dbctx.Context, sectionIDs []uuid.UUID) error {
	if len(sectionIDs) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Where("section_id IN ?", sectionIDs).
		Delete(&types.Response{}).Error
}
