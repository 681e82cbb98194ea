package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/avosdroits/avosdroits-backend/internal/domain/questionnaire"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Versioned questionnaire aggregate
		&questionnaire.Questionnaire{},
		&questionnaire.Section{},
		&questionnaire.Response{},

		// Session-scoped incremental answers
		&questionnaire.DraftResponse{},
	)
}

func EnsureQuestionnaireIndexes(db *gorm.DB) error {
	// uuid-ossp is already enabled in NewPostgresService, but safe to re-run
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}
	// Concurrent submits race on version assignment; this is the backstop.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ux_questionnaire_user_version
		ON questionnaire (user_id, version);
	`).Error; err != nil {
		return fmt.Errorf("create ux_questionnaire_user_version: %w", err)
	}
	// Current-version lookup per user.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_questionnaire_user_version_desc
		ON questionnaire (user_id, version DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_questionnaire_user_version_desc: %w", err)
	}
	// Subtree reads and deletes.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_questionnaire_section_parent
		ON questionnaire_section (questionnaire_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_questionnaire_section_parent: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_questionnaire_response_section
		ON questionnaire_response (section_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_questionnaire_response_section: %w", err)
	}
	// One live draft per (user, question, session).
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ux_draft_user_question_session
		ON questionnaire_draft_response (user_id, question_id, session_id);
	`).Error; err != nil {
		return fmt.Errorf("create ux_draft_user_question_session: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureQuestionnaireIndexes(s.db); err != nil {
		s.log.Error("Questionnaire index migration failed", "error", err)
		return err
	}
	return nil
}
