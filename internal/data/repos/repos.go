package repos

import (
	"gorm.io/gorm"

	"github.com/avosdroits/avosdroits-backend/internal/data/repos/questionnaire"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/logger"
)

type QuestionnaireRepo = questionnaire.QuestionnaireRepo
type SectionRepo = questionnaire.SectionRepo
type ResponseRepo = questionnaire.ResponseRepo
type DraftResponseRepo = questionnaire.DraftResponseRepo

func NewQuestionnaireRepo(db *gorm.DB, baseLog *logger.Logger) QuestionnaireRepo {
	return questionnaire.NewQuestionnaireRepo(db, baseLog)
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	return questionnaire.NewSectionRepo(db, baseLog)
}

func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return questionnaire.NewResponseRepo(db, baseLog)
}

func NewDraftResponseRepo(db *gorm.DB, baseLog *logger.Logger) DraftResponseRepo {
	return questionnaire.NewDraftResponseRepo(db, baseLog)
}
